package ui

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/hailam/chessboard/internal/board"
)

// Panel dimensions
const (
	PanelPadding   = 20
	SectionSpacing = 28
	ButtonHeight   = 40
	ToolHeight     = 34
	SectionLabelH  = 20
	historyRowH    = 22
	statusBarH     = 70
)

// Panel colors
var (
	panelBg         = color.RGBA{38, 40, 45, 255}
	tabActiveBg     = color.RGBA{76, 132, 96, 255}
	tabInactiveBg   = color.RGBA{50, 54, 60, 255}
	tabHoverBg      = color.RGBA{65, 70, 78, 255}
	buttonBg        = color.RGBA{50, 54, 60, 255}
	buttonHoverBg   = color.RGBA{65, 70, 78, 255}
	buttonPressedBg = color.RGBA{40, 44, 50, 255}
	buttonBorder    = color.RGBA{70, 75, 82, 255}
	accentColor     = color.RGBA{76, 175, 120, 255}
	accentHover     = color.RGBA{96, 195, 140, 255}
	accentPressed   = color.RGBA{56, 155, 100, 255}
	textPrimary     = color.RGBA{240, 240, 245, 255}
	textSecondary   = color.RGBA{160, 165, 175, 255}
	textMuted       = color.RGBA{120, 125, 135, 255}
	dividerColor    = color.RGBA{60, 65, 72, 255}
	moveRowAlt      = color.RGBA{44, 48, 54, 255}
	statusBusy      = color.RGBA{100, 180, 255, 255}
	statusGameOver  = color.RGBA{255, 200, 80, 255}
)

// Button represents a clickable UI element.
type Button struct {
	X, Y, W, H int
	Label      string
	OnClick    func()
	// Enabled is consulted every frame; nil means always enabled.
	Enabled func() bool
	hovered bool
	pressed bool
}

func (b *Button) enabled() bool {
	return b.Enabled == nil || b.Enabled()
}

// Panel is the side panel: game controls, move history and status.
type Panel struct {
	game *Game

	newGameBtn  *Button
	settingsBtn *Button
	tools       []*Button

	scrollY    int
	maxScrollY int
}

// NewPanel creates a new panel for the given game.
func NewPanel(g *Game) *Panel {
	p := &Panel{game: g}
	p.createButtons()
	return p
}

func (p *Panel) createButtons() {
	contentX := BoardSize + PanelPadding
	contentW := PanelWidth - PanelPadding*2

	newGameY := PanelPadding + 8
	p.newGameBtn = &Button{
		X: contentX, Y: newGameY, W: contentW, H: ButtonHeight,
		Label:   "New Game",
		OnClick: p.game.NewGameAction,
	}

	settingsY := newGameY + ButtonHeight + 8
	p.settingsBtn = &Button{
		X: contentX, Y: settingsY, W: contentW, H: ButtonHeight - 6,
		Label:   "Settings",
		OnClick: p.game.ShowSettings,
	}

	toolY := settingsY + ButtonHeight - 6 + SectionSpacing
	toolW := contentW / 4
	g := p.game
	p.tools = []*Button{
		{Label: "Undo", OnClick: g.UndoAction, Enabled: func() bool { return len(g.board.History()) > 0 }},
		{Label: "Redo", OnClick: g.RedoAction, Enabled: g.board.CanRedo},
		{Label: "Flip", OnClick: g.board.Flip},
		{Label: "Clear", OnClick: g.ClearAction},
	}
	for i, b := range p.tools {
		b.X, b.Y, b.W, b.H = contentX+i*toolW, toolY, toolW, ToolHeight
	}
}

func (p *Panel) buttons() []*Button {
	return append([]*Button{p.newGameBtn, p.settingsBtn}, p.tools...)
}

// HandleInput processes input for the panel. Returns true if input was handled.
func (p *Panel) HandleInput(input *InputHandler) bool {
	mx, my := input.MousePosition()

	if _, wheelY := ebiten.Wheel(); wheelY != 0 && mx >= BoardSize && my >= p.historyStartY() {
		p.scrollY = max(0, min(p.maxScrollY, p.scrollY-int(wheelY*30)))
	}

	for _, b := range p.buttons() {
		b.hovered = inRect(mx, my, b.X, b.Y, b.W, b.H) && b.enabled()
		b.pressed = b.hovered && input.IsLeftPressed()
	}
	if !input.IsLeftJustPressed() {
		return false
	}
	for _, b := range p.buttons() {
		if b.hovered {
			b.OnClick()
			return true
		}
	}
	return mx >= BoardSize
}

// Draw renders the panel.
func (p *Panel) Draw(screen *ebiten.Image) {
	vector.DrawFilledRect(screen, BoardSize, 0, PanelWidth, ScreenHeight, panelBg, false)

	p.drawPrimaryButton(screen, p.newGameBtn)
	p.drawSecondaryButton(screen, p.settingsBtn)
	for _, b := range p.tools {
		p.drawSecondaryButton(screen, b)
	}

	historyY := p.historyStartY()
	DrawSectionHeader(screen, "Moves", BoardSize+PanelPadding, historyY+SectionLabelH/2)
	p.drawMoveHistory(screen, historyY+SectionLabelH+4)
	p.drawStatusBar(screen)
}

func (p *Panel) historyStartY() int {
	t := p.tools[0]
	return t.Y + t.H + SectionSpacing - 4
}

func (p *Panel) drawPrimaryButton(screen *ebiten.Image, btn *Button) {
	fill, border := accentColor, accentPressed
	if btn.pressed {
		fill = accentPressed
	} else if btn.hovered {
		fill, border = accentHover, color.RGBA{116, 215, 160, 255}
	}
	x, y, w, h := float32(btn.X), float32(btn.Y), float32(btn.W), float32(btn.H)
	vector.DrawFilledRect(screen, x, y, w, h, fill, false)
	vector.StrokeRect(screen, x, y, w, h, 1, border, false)
	drawTextCentered(screen, btn.Label, GetRegularFace(), float64(btn.X+btn.W/2), float64(btn.Y+btn.H/2), textPrimary)
}

func (p *Panel) drawSecondaryButton(screen *ebiten.Image, btn *Button) {
	fill, border, fg := buttonBg, buttonBorder, textSecondary
	switch {
	case !btn.enabled():
		fg = textMuted
	case btn.pressed:
		fill = buttonPressedBg
	case btn.hovered:
		fill, border = buttonHoverBg, accentColor
	}
	x, y, w, h := float32(btn.X), float32(btn.Y), float32(btn.W), float32(btn.H)
	vector.DrawFilledRect(screen, x, y, w, h, fill, false)
	vector.StrokeRect(screen, x, y, w, h, 1, border, false)
	drawTextCentered(screen, btn.Label, GetRegularFace(), float64(btn.X+btn.W/2), float64(btn.Y+btn.H/2), fg)
}

// drawMoveHistory lists the moves in SAN, two plies per numbered row.
func (p *Panel) drawMoveHistory(screen *ebiten.Image, startY int) {
	face := GetRegularFace()
	x := float64(BoardSize + PanelPadding)

	history := p.game.board.History()
	if len(history) == 0 {
		drawText(screen, "No moves yet", face, x, float64(startY+5), textMuted)
		return
	}

	// A history starting with Black to move leaves the first White ply blank.
	plies := make([]string, 0, len(history)+1)
	if history[0].Piece.Color() == board.Black {
		plies = append(plies, "...")
	}
	for _, r := range history {
		plies = append(plies, r.SAN)
	}

	maxY := ScreenHeight - statusBarH
	visible := maxY - startY
	rows := (len(plies) + 1) / 2
	p.maxScrollY = max(0, rows*historyRowH-visible)
	p.scrollY = min(p.scrollY, p.maxScrollY)

	for row := p.scrollY / historyRowH; row < rows; row++ {
		y := startY + row*historyRowH - p.scrollY
		if y > maxY-historyRowH {
			break
		}
		if y < startY {
			continue
		}
		if row%2 == 1 {
			vector.DrawFilledRect(screen, float32(x-4), float32(y-2), float32(PanelWidth-PanelPadding*2+8), historyRowH, moveRowAlt, false)
		}
		drawText(screen, fmt.Sprintf("%d.", row+1), face, x, float64(y), textMuted)
		drawText(screen, plies[row*2], face, x+30, float64(y), textPrimary)
		if row*2+1 < len(plies) {
			drawText(screen, plies[row*2+1], face, x+100, float64(y), textPrimary)
		}
	}
}

func (p *Panel) drawStatusBar(screen *ebiten.Image) {
	statusY := ScreenHeight - statusBarH
	x := BoardSize + PanelPadding
	DrawDivider(screen, x, statusY-10, PanelWidth-PanelPadding*2)

	face := GetRegularFace()
	b := p.game.board

	status, c := p.game.TurnText(), textPrimary
	switch outcome := b.Outcome(); {
	case outcome != "*":
		status, c = "Game over: "+outcome, statusGameOver
	case b.Busy():
		status, c = "Moving...", statusBusy
	}
	drawText(screen, status, face, float64(x), float64(statusY), c)
	drawText(screen, "State: "+b.State().String(), face, float64(x), float64(statusY+22), textMuted)
}
