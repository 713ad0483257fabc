// Package ui is the desktop shell of the board, built on Ebitengine. It
// drives a chessboard.Board over a surface.Memory and draws that surface
// every frame.
package ui

import (
	"errors"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hailam/chessboard/internal/anim"
	"github.com/hailam/chessboard/internal/authority"
	"github.com/hailam/chessboard/internal/board"
	"github.com/hailam/chessboard/internal/chessboard"
	"github.com/hailam/chessboard/internal/config"
	"github.com/hailam/chessboard/internal/storage"
	"github.com/hailam/chessboard/internal/surface"
	"github.com/rs/zerolog"
)

// UI Constants
const (
	ScreenWidth  = 960
	ScreenHeight = 640
	BoardSize    = 640
	SquareSize   = BoardSize / 8
	PanelWidth   = ScreenWidth - BoardSize
)

// Game implements ebiten.Game.
type Game struct {
	log zerolog.Logger

	clock   *anim.FrameClock
	surface *surface.Memory
	board   *chessboard.Board

	storage *storage.Storage
	prefs   storage.Preferences

	renderer      *Renderer
	input         *InputHandler
	panel         *Panel
	feedback      *FeedbackManager
	audio         *AudioManager
	settingsModal *SettingsModal

	// pressed is set while a press that began on the board is held.
	pressed  bool
	lastMove [2]board.Square
}

// NewGame opens storage, restores the last session and builds the board.
// Storage failures are logged and the game runs without persistence.
func NewGame(log zerolog.Logger) (*Game, error) {
	g := &Game{
		log:           log,
		prefs:         storage.DefaultPreferences(),
		input:         NewInputHandler(),
		renderer:      NewRenderer(SquareSize, log),
		settingsModal: NewSettingsModal(),
		lastMove:      [2]board.Square{board.NoSquare, board.NoSquare},
	}

	cfg := config.Default()
	var err error
	g.storage, err = storage.NewStorage()
	if err != nil {
		log.Warn().Err(err).Msg("[Storage] failed to initialize, settings will not persist")
	} else {
		if cfg, err = g.storage.LoadConfig(); err != nil {
			log.Warn().Err(err).Msg("[Storage] failed to load config, using defaults")
		}
		if g.prefs, err = g.storage.LoadPreferences(); err != nil {
			log.Warn().Err(err).Msg("[Storage] failed to load preferences")
		}
	}

	g.clock = anim.NewFrameClock(time.Now())
	g.surface = surface.NewMemory(g.clock, surface.WithLogger(log))
	g.audio = NewAudioManager(g.prefs.SoundEnabled)
	g.feedback = NewFeedbackManager(time.Now, g.audio)

	g.board, err = chessboard.New(cfg, g.surface, g.clock, authority.NewGame(),
		chessboard.WithLogger(log),
		chessboard.WithSize(BoardSize),
		chessboard.WithCallbacks(chessboard.Callbacks{
			OnMoveEnd:     g.onMoveEnd,
			OnChange:      g.onChange,
			OnSnapbackEnd: g.onSnapbackEnd,
		}),
	)
	if err != nil {
		g.Close()
		return nil, err
	}
	g.panel = NewPanel(g)
	g.restore()
	return g, nil
}

// restore resumes the saved session, or starts a new game.
func (g *Game) restore() {
	if g.storage != nil {
		sess, err := g.storage.LoadSession(g.prefs.LastSession)
		switch {
		case err == nil:
			snap := chessboard.Snapshot{Start: sess.Start, Moves: sess.Moves, FEN: sess.FEN}
			if err := g.board.Restore(snap); err != nil {
				g.log.Warn().Err(err).Str("session", sess.ID).Msg("[Storage] session only partly restored")
			}
			if sess.Orientation != "" && sess.Orientation != g.board.Orientation().String() {
				g.board.Flip()
			}
			g.markLastMove()
			return
		case !errors.Is(err, storage.ErrNotFound):
			g.log.Warn().Err(err).Msg("[Storage] failed to load session")
		}
	}
	if _, err := g.board.SetPosition("start", chessboard.Options{Instant: true}); err != nil {
		g.log.Error().Err(err).Msg("failed to set up the starting position")
	}
}

func (g *Game) onMoveEnd(res authority.MoveResult) {
	g.feedback.OnMoveEnd(res, g.board.Outcome())
}

func (g *Game) onChange(string) {
	g.markLastMove()
	g.saveSession()
}

func (g *Game) onSnapbackEnd(sq board.Square, _ board.Piece) {
	var node surface.Node
	if occ := g.board.Visual()[sq]; !occ.Empty() {
		node, _ = g.surface.Node(occ.ID)
	}
	g.feedback.OnSnapback(node)
}

// markLastMove highlights the squares of the last move played.
func (g *Game) markLastMove() {
	for _, sq := range g.lastMove {
		if sq != board.NoSquare {
			g.board.Dehighlight(sq)
		}
	}
	g.lastMove = [2]board.Square{board.NoSquare, board.NoSquare}

	history := g.board.History()
	if len(history) == 0 {
		return
	}
	m := history[len(history)-1].Move
	g.lastMove = [2]board.Square{m.From, m.To}
	g.board.Highlight(m.From)
	g.board.Highlight(m.To)
}

func (g *Game) saveSession() {
	if g.storage == nil {
		return
	}
	snap := g.board.Snapshot()
	sess := storage.Session{
		ID:          g.prefs.LastSession,
		Start:       snap.Start,
		Moves:       snap.Moves,
		FEN:         snap.FEN,
		Orientation: g.board.Orientation().String(),
	}
	if err := g.storage.SaveSession(sess); err != nil {
		g.log.Warn().Err(err).Msg("[Storage] failed to save session")
	}
}

// Update advances the animation clock and routes input.
func (g *Game) Update() error {
	g.clock.Advance(time.Now())
	g.input.Update()
	g.feedback.Update()

	if g.settingsModal.Update(g.input) {
		return nil
	}
	g.handleKeys()

	if g.pressed || !g.panel.HandleInput(g.input) {
		g.handleBoardInput()
	}
	return nil
}

func (g *Game) handleKeys() {
	switch {
	case IsKeyJustPressed(ebiten.KeyEscape):
		g.board.Cancel()
	case IsKeyJustPressed(ebiten.KeyZ), IsKeyJustPressed(ebiten.KeyBackspace):
		g.UndoAction()
	case IsKeyJustPressed(ebiten.KeyY):
		g.RedoAction()
	case IsKeyJustPressed(ebiten.KeyF):
		g.board.Flip()
	case IsKeyJustPressed(ebiten.KeyN):
		g.NewGameAction()
	case IsKeyJustPressed(ebiten.KeyS):
		g.ShowSettings()
	}
}

// handleBoardInput forwards the mouse to the board. Once a press starts on
// the board, its moves and release go to the board wherever they happen.
func (g *Game) handleBoardInput() {
	pt := g.input.Point()
	switch {
	case g.input.IsLeftJustPressed():
		g.pressed = true
		g.board.PointerDown(pt)
	case g.input.IsLeftJustReleased():
		if g.pressed {
			g.board.PointerUp(pt)
		}
		g.pressed = false
	case g.input.Moved():
		g.board.PointerMove(pt)
	}
}

// Draw renders the board, the panel and any overlay.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(g.renderer.Theme().Background)
	g.renderer.Draw(screen, g.board.Geometry(), g.surface)
	g.panel.Draw(screen)
	g.feedback.Draw(screen)
	g.settingsModal.Draw(screen)
}

// Layout returns the logical screen size; Ebitengine scales it to the window.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return ScreenWidth, ScreenHeight
}

// NewGameAction starts a new game from the initial position.
func (g *Game) NewGameAction() {
	g.board.Reset()
	g.feedback.Info("New game")
}

// UndoAction takes back the last move.
func (g *Game) UndoAction() {
	if _, ok := g.board.Undo(); !ok {
		g.feedback.Info("Nothing to undo")
	}
}

// RedoAction replays the last move taken back.
func (g *Game) RedoAction() {
	if _, ok := g.board.Redo(); !ok {
		g.feedback.Info("Nothing to redo")
	}
}

// ClearAction empties the board.
func (g *Game) ClearAction() {
	g.board.Clear()
}

// ShowSettings opens the settings modal.
func (g *Game) ShowSettings() {
	g.board.Cancel()
	g.settingsModal.Show(g.board.Config(), g.audio.IsEnabled(), g.applySettings)
}

func (g *Game) applySettings(cfg config.Config, sound bool) {
	if err := g.board.SetConfig(cfg); err != nil {
		g.log.Warn().Err(err).Msg("settings rejected")
		g.feedback.OnRejected(err)
		return
	}
	g.audio.SetEnabled(sound)
	g.prefs.SoundEnabled = sound
	g.persistSettings()
}

func (g *Game) persistSettings() {
	if g.storage == nil {
		return
	}
	if err := g.storage.SaveConfig(g.board.Config()); err != nil {
		g.log.Warn().Err(err).Msg("[Storage] failed to save config")
	}
	if err := g.storage.SavePreferences(g.prefs); err != nil {
		g.log.Warn().Err(err).Msg("[Storage] failed to save preferences")
	}
}

// TurnText describes whose move it is.
func (g *Game) TurnText() string {
	if board.SideToMove(g.board.FEN()) == board.Black {
		return "Black to move"
	}
	return "White to move"
}

// Close saves the session and settings and releases storage.
func (g *Game) Close() error {
	if g.board != nil {
		g.saveSession()
		g.persistSettings()
		g.board.Close()
	}
	if g.storage != nil {
		return g.storage.Close()
	}
	return nil
}
