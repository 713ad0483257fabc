package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/hailam/chessboard/internal/board"
	"github.com/hailam/chessboard/internal/surface"
	"github.com/rs/zerolog"
)

// Theme defines the color scheme for the board.
type Theme struct {
	LightSquare    color.RGBA
	DarkSquare     color.RGBA
	SelectedSquare color.RGBA
	HintColor      color.RGBA
	HighlightColor color.RGBA
	PromotionCover color.RGBA
	PromotionBg    color.RGBA
	Background     color.RGBA
}

// DefaultTheme returns the default color theme.
func DefaultTheme() *Theme {
	return &Theme{
		LightSquare:    color.RGBA{240, 217, 181, 255}, // Tan
		DarkSquare:     color.RGBA{181, 136, 99, 255},  // Brown
		SelectedSquare: color.RGBA{247, 247, 105, 180},
		HintColor:      color.RGBA{130, 151, 105, 200},
		HighlightColor: color.RGBA{180, 190, 100, 90},
		PromotionCover: color.RGBA{0, 0, 0, 120},
		PromotionBg:    color.RGBA{245, 245, 245, 255},
		Background:     color.RGBA{40, 44, 52, 255},
	}
}

// Renderer draws a Memory surface: squares and decorations from its state,
// pieces from its nodes wherever their motion has them this frame.
type Renderer struct {
	sprites *SpriteManager
	theme   *Theme
}

// NewRenderer creates a renderer for squares of squareSize pixels.
func NewRenderer(squareSize int, log zerolog.Logger) *Renderer {
	return &Renderer{
		sprites: NewSpriteManager(squareSize, log),
		theme:   DefaultTheme(),
	}
}

// Draw renders the whole board.
func (r *Renderer) Draw(screen *ebiten.Image, geo board.Geometry, s *surface.Memory) {
	r.DrawBoard(screen, geo)
	r.DrawDecorations(screen, geo, s)
	r.DrawPieces(screen, geo, s)
	if p := s.Promotion(); p.Open {
		r.DrawPromotion(screen, geo, p)
	}
}

// DrawBoard draws the squares and their coordinate labels.
func (r *Renderer) DrawBoard(screen *ebiten.Image, geo board.Geometry) {
	ss := float32(geo.SquareSize())
	for sq := board.A1; sq <= board.H8; sq++ {
		c := r.theme.LightSquare
		if (sq.Rank()+sq.File())%2 == 0 {
			c = r.theme.DarkSquare
		}
		o := geo.SquareOrigin(sq)
		vector.DrawFilledRect(screen, float32(o.X), float32(o.Y), ss, ss, c, false)
	}
	r.drawCoordinates(screen, geo)
}

// drawCoordinates labels the files along the bottom edge and the ranks
// along the left one, in the colour of the opposite square.
func (r *Renderer) drawCoordinates(screen *ebiten.Image, geo board.Geometry) {
	face := GetLabelFace()
	if face == nil {
		return
	}
	ss := geo.SquareSize()
	bottom, left := 0, 0
	if geo.Flipped {
		bottom, left = 7, 7
	}
	for i := 0; i < 8; i++ {
		fileSq := board.NewSquare(i, bottom)
		o := geo.SquareOrigin(fileSq)
		label := string(rune('a' + i))
		w, h := MeasureText(label, face)
		r.drawLabel(screen, label, face, o.X+ss-w-3, o.Y+ss-h-2, fileSq)

		rankSq := board.NewSquare(left, i)
		o = geo.SquareOrigin(rankSq)
		r.drawLabel(screen, string(rune('1'+i)), face, o.X+3, o.Y+2, rankSq)
	}
}

func (r *Renderer) drawLabel(screen *ebiten.Image, s string, face *text.GoTextFace, x, y float64, sq board.Square) {
	c := r.theme.DarkSquare
	if (sq.Rank()+sq.File())%2 == 0 {
		c = r.theme.LightSquare
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(c)
	text.Draw(screen, s, face, op)
}

// DrawDecorations draws highlights, the selection and move hints.
func (r *Renderer) DrawDecorations(screen *ebiten.Image, geo board.Geometry, s *surface.Memory) {
	for _, sq := range s.Highlighted().Squares() {
		r.highlightSquare(screen, geo, sq, r.theme.HighlightColor)
	}
	for _, sq := range s.Selected().Squares() {
		r.highlightSquare(screen, geo, sq, r.theme.SelectedSquare)
	}
	resting := s.Resting()
	for _, sq := range s.Hints().Squares() {
		r.drawHint(screen, geo, sq, !resting[sq].Empty())
	}
}

func (r *Renderer) highlightSquare(screen *ebiten.Image, geo board.Geometry, sq board.Square, c color.RGBA) {
	o := geo.SquareOrigin(sq)
	ss := float32(geo.SquareSize())
	vector.DrawFilledRect(screen, float32(o.X), float32(o.Y), ss, ss, c, false)
}

// drawHint marks a legal target: a dot on an empty square, a ring around
// a piece that can be taken.
func (r *Renderer) drawHint(screen *ebiten.Image, geo board.Geometry, sq board.Square, occupied bool) {
	c := geo.SquareCenter(sq)
	ss := float32(geo.SquareSize())
	if occupied {
		vector.StrokeCircle(screen, float32(c.X), float32(c.Y), ss*0.45, ss*0.08, r.theme.HintColor, true)
		return
	}
	vector.DrawFilledCircle(screen, float32(c.X), float32(c.Y), ss*0.15, r.theme.HintColor, true)
}

// DrawPieces draws every node at its current position. Lifted nodes come
// last from Nodes, so a dragged piece is drawn above the rest.
func (r *Renderer) DrawPieces(screen *ebiten.Image, geo board.Geometry, s *surface.Memory) {
	ss := geo.SquareSize()
	for _, n := range s.Nodes() {
		pt := geo.ToPixels(n.Position())
		effect, p := n.Effect()
		pt.X += effect.Offset(p) * ss
		r.sprites.DrawPieceAt(screen, n.Piece(), pt.X, pt.Y, effect.Scale(p), effect.Opacity(p))
	}
}

// DrawPromotion covers the board and shows the four promotion choices in
// a column starting at the promotion square.
func (r *Renderer) DrawPromotion(screen *ebiten.Image, geo board.Geometry, p surface.Promotion) {
	size := float32(geo.Size)
	vector.DrawFilledRect(screen, 0, 0, size, size, r.theme.PromotionCover, false)

	ss := geo.SquareSize()
	for i, sq := range board.PromotionSquares(p.To) {
		o := geo.SquareOrigin(sq)
		c := geo.SquareCenter(sq)
		vector.DrawFilledCircle(screen, float32(c.X), float32(c.Y), float32(ss/2), r.theme.PromotionBg, true)
		r.sprites.DrawPieceAt(screen, board.NewPiece(board.PromotionTypes[i], p.Color), o.X, o.Y, 0.85, 1)
	}
}

// Theme returns the current theme.
func (r *Renderer) Theme() *Theme {
	return r.theme
}
