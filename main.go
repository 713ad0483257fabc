// Chessboard - an animated, interactive chess board built with Ebitengine
package main

import (
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hailam/chessboard/internal/ui"
	"github.com/rs/zerolog"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	game, err := ui.NewGame(log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start")
	}

	ebiten.SetWindowSize(ui.ScreenWidth, ui.ScreenHeight)
	ebiten.SetWindowTitle("Chessboard")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	runErr := ebiten.RunGame(game)
	if err := game.Close(); err != nil {
		log.Error().Err(err).Msg("failed to close storage")
	}
	if runErr != nil {
		log.Fatal().Err(runErr).Msg("game loop stopped")
	}
}
