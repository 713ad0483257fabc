package ui

import (
	"bytes"
	"embed"
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hailam/chessboard/internal/board"
	"github.com/rs/zerolog"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

//go:embed assets/pieces/*.svg
var pieceAssets embed.FS

// SpriteManager holds one rasterised image per piece kind.
type SpriteManager struct {
	pieces      map[board.Piece]*ebiten.Image
	size        int     // Display size (e.g., 80)
	renderScale float64 // Render at higher resolution for quality (e.g., 3.0)
}

// NewSpriteManager rasterises every piece at size pixels.
func NewSpriteManager(size int, log zerolog.Logger) *SpriteManager {
	sm := &SpriteManager{
		pieces:      make(map[board.Piece]*ebiten.Image),
		size:        size,
		renderScale: 3.0,
	}
	sm.loadPieces(log)
	return sm
}

// GetPiece returns the sprite for a piece.
func (sm *SpriteManager) GetPiece(p board.Piece) *ebiten.Image {
	return sm.pieces[p]
}

func (sm *SpriteManager) loadPieces(log zerolog.Logger) {
	renderSize := int(float64(sm.size) * sm.renderScale)

	for c := board.White; c <= board.Black; c++ {
		for pt := board.Pawn; pt <= board.King; pt++ {
			piece := board.NewPiece(pt, c)
			path := "assets/pieces/" + piece.Code() + ".svg"

			img, err := rasterise(path, renderSize)
			if err != nil {
				log.Warn().Err(err).Str("asset", path).Msg("[UI] piece sprite unavailable")
				continue
			}
			sm.pieces[piece] = ebiten.NewImageFromImage(img)
		}
	}
}

func rasterise(path string, size int) (image.Image, error) {
	data, err := pieceAssets.ReadFile(path)
	if err != nil {
		return nil, err
	}
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	icon.SetTarget(0, 0, float64(size), float64(size))

	rgba := image.NewRGBA(image.Rect(0, 0, size, size))
	scanner := rasterx.NewScannerGV(size, size, rgba, rgba.Bounds())
	raster := rasterx.NewDasher(size, size, scanner)
	icon.Draw(raster, 1.0)
	return rgba, nil
}

// DrawPieceAt draws p with its top-left corner at x, y. scale shrinks or
// grows it about the square's centre and alpha fades it.
func (sm *SpriteManager) DrawPieceAt(screen *ebiten.Image, p board.Piece, x, y, scale, alpha float64) {
	if p == board.NoPiece || scale <= 0 || alpha <= 0 {
		return
	}
	sprite := sm.GetPiece(p)
	if sprite == nil {
		return
	}
	half := float64(sm.size) / 2
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(scale/sm.renderScale, scale/sm.renderScale)
	op.GeoM.Translate(x+half-half*scale, y+half-half*scale)
	op.ColorScale.ScaleAlpha(float32(alpha))
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(sprite, op)
}

// Size returns the size of piece sprites.
func (sm *SpriteManager) Size() int {
	return sm.size
}
