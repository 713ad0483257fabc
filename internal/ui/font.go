package ui

import (
	"bytes"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/rs/zerolog/log"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	regularFace *text.GoTextFace
	boldFace    *text.GoTextFace
	labelFace   *text.GoTextFace
)

const (
	defaultFontSize = 14.0
	titleFontSize   = 16.0
	labelFontSize   = 11.0
)

func init() {
	initFonts()
}

func initFonts() {
	regularSource, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		log.Warn().Err(err).Msg("[UI] failed to load regular font")
		return
	}
	regularFace = &text.GoTextFace{Source: regularSource, Size: defaultFontSize}
	labelFace = &text.GoTextFace{Source: regularSource, Size: labelFontSize}

	boldSource, err := text.NewGoTextFaceSource(bytes.NewReader(gobold.TTF))
	if err != nil {
		log.Warn().Err(err).Msg("[UI] failed to load bold font")
		return
	}
	boldFace = &text.GoTextFace{Source: boldSource, Size: titleFontSize}
}

// GetRegularFace returns the regular font face.
func GetRegularFace() *text.GoTextFace {
	return regularFace
}

// GetBoldFace returns the bold font face.
func GetBoldFace() *text.GoTextFace {
	return boldFace
}

// GetLabelFace returns the small face used for board coordinates.
func GetLabelFace() *text.GoTextFace {
	return labelFace
}

// MeasureText returns the width and height of the given text.
func MeasureText(s string, face *text.GoTextFace) (width, height float64) {
	if face == nil {
		return 0, 0
	}
	return text.Measure(s, face, 0)
}
