package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Widget colors (panel.go holds the shared button and text colors)
var (
	widgetBg      = color.RGBA{48, 52, 58, 255}
	widgetBorder  = color.RGBA{68, 72, 78, 255}
	widgetHoverBg = color.RGBA{65, 70, 78, 255}
	checkboxCheck = color.RGBA{76, 175, 120, 255}
)

func inRect(mx, my, x, y, w, h int) bool {
	return mx >= x && mx < x+w && my >= y && my < y+h
}

// drawText draws s with its top-left corner at x, y.
func drawText(screen *ebiten.Image, s string, face *text.GoTextFace, x, y float64, c color.Color) {
	if face == nil {
		return
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(c)
	text.Draw(screen, s, face, op)
}

// drawTextCentered draws s centred on cx, cy.
func drawTextCentered(screen *ebiten.Image, s string, face *text.GoTextFace, cx, cy float64, c color.Color) {
	w, h := MeasureText(s, face)
	drawText(screen, s, face, cx-w/2, cy-h/2, c)
}

// Checkbox is a toggleable checkbox widget.
type Checkbox struct {
	X, Y    int
	Label   string
	Checked bool
	hovered bool
}

// NewCheckbox creates a new checkbox.
func NewCheckbox(x, y int, label string, checked bool) *Checkbox {
	return &Checkbox{X: x, Y: y, Label: label, Checked: checked}
}

// Update toggles the box on a click over it or its label.
func (cb *Checkbox) Update(input *InputHandler) bool {
	mx, my := input.MousePosition()
	cb.hovered = inRect(mx, my, cb.X, cb.Y, 200, 24)
	if input.IsLeftJustPressed() && cb.hovered {
		cb.Checked = !cb.Checked
		return true
	}
	return false
}

// Draw renders the checkbox.
func (cb *Checkbox) Draw(screen *ebiten.Image) {
	boxX, boxY := float32(cb.X), float32(cb.Y)
	const boxSize = 20

	bg := widgetBg
	if cb.hovered {
		bg = widgetHoverBg
	}
	vector.DrawFilledRect(screen, boxX, boxY, boxSize, boxSize, bg, false)

	border := widgetBorder
	if cb.hovered {
		border = accentColor
	} else if cb.Checked {
		border = checkboxCheck
	}
	vector.StrokeRect(screen, boxX, boxY, boxSize, boxSize, 2, border, false)

	if cb.Checked {
		vector.StrokeLine(screen, boxX+4, boxY+10, boxX+8, boxY+14, 2, checkboxCheck, false)
		vector.StrokeLine(screen, boxX+8, boxY+14, boxX+16, boxY+6, 2, checkboxCheck, false)
	}

	face := GetRegularFace()
	_, h := MeasureText(cb.Label, face)
	c := textSecondary
	if cb.Checked || cb.hovered {
		c = textPrimary
	}
	drawText(screen, cb.Label, face, float64(cb.X+30), float64(cb.Y+10)-h/2, c)
}

// ButtonGroup is a horizontal group of toggle buttons, one selected.
type ButtonGroup struct {
	X, Y     int
	Options  []string
	Selected int
	ButtonW  int
	ButtonH  int
	hovered  int
	pressed  int
}

// NewButtonGroup creates a new button group.
func NewButtonGroup(x, y int, options []string, selected int, buttonW, buttonH int) *ButtonGroup {
	return &ButtonGroup{
		X:        x,
		Y:        y,
		Options:  options,
		Selected: selected,
		ButtonW:  buttonW,
		ButtonH:  buttonH,
		hovered:  -1,
		pressed:  -1,
	}
}

// Value returns the selected option.
func (bg *ButtonGroup) Value() string {
	if bg.Selected < 0 || bg.Selected >= len(bg.Options) {
		return ""
	}
	return bg.Options[bg.Selected]
}

// SetValue selects the option equal to v, if there is one.
func (bg *ButtonGroup) SetValue(v string) {
	for i, o := range bg.Options {
		if o == v {
			bg.Selected = i
		}
	}
}

// Update handles button group input.
func (bg *ButtonGroup) Update(input *InputHandler) bool {
	mx, my := input.MousePosition()
	bg.hovered, bg.pressed = -1, -1

	for i := range bg.Options {
		if !inRect(mx, my, bg.X+i*bg.ButtonW, bg.Y, bg.ButtonW, bg.ButtonH) {
			continue
		}
		bg.hovered = i
		if input.IsLeftPressed() {
			bg.pressed = i
		}
		if input.IsLeftJustPressed() {
			bg.Selected = i
			return true
		}
	}
	return false
}

// Draw renders the button group.
func (bg *ButtonGroup) Draw(screen *ebiten.Image) {
	face := GetRegularFace()
	for i, label := range bg.Options {
		x := float32(bg.X + i*bg.ButtonW)
		w, h := float32(bg.ButtonW), float32(bg.ButtonH)

		fill, border, fg := tabInactiveBg, buttonBorder, textSecondary
		switch {
		case i == bg.Selected:
			fill, border, fg = tabActiveBg, tabActiveBg, textPrimary
		case i == bg.pressed:
			fill, border = buttonPressedBg, accentColor
		case i == bg.hovered:
			fill, border = tabHoverBg, accentColor
		}
		vector.DrawFilledRect(screen, x, float32(bg.Y), w, h, fill, false)
		vector.StrokeRect(screen, x, float32(bg.Y), w, h, 1, border, false)
		drawTextCentered(screen, label, face, float64(x+w/2), float64(bg.Y)+float64(h)/2, fg)
	}
}

// ModalButton is a button for modal dialogs.
type ModalButton struct {
	X, Y, W, H int
	Label      string
	Primary    bool
	OnClick    func()
	hovered    bool
	pressed    bool
}

// NewModalButton creates a new modal button.
func NewModalButton(x, y, w, h int, label string, primary bool, onClick func()) *ModalButton {
	return &ModalButton{X: x, Y: y, W: w, H: h, Label: label, Primary: primary, OnClick: onClick}
}

// Update handles modal button input.
func (mb *ModalButton) Update(input *InputHandler) bool {
	mx, my := input.MousePosition()
	mb.hovered = inRect(mx, my, mb.X, mb.Y, mb.W, mb.H)
	mb.pressed = input.IsLeftPressed() && mb.hovered

	if input.IsLeftJustPressed() && mb.hovered && mb.OnClick != nil {
		mb.OnClick()
		return true
	}
	return false
}

// Draw renders the modal button.
func (mb *ModalButton) Draw(screen *ebiten.Image) {
	fill, border := buttonBg, widgetBorder
	if mb.Primary {
		fill, border = accentColor, accentPressed
	}
	switch {
	case mb.pressed && mb.Primary:
		fill = accentPressed
	case mb.pressed:
		fill = buttonPressedBg
	case mb.hovered && mb.Primary:
		fill, border = accentHover, color.RGBA{116, 215, 160, 255}
	case mb.hovered:
		fill, border = buttonHoverBg, accentColor
	}

	x, y, w, h := float32(mb.X), float32(mb.Y), float32(mb.W), float32(mb.H)
	vector.DrawFilledRect(screen, x, y, w, h, fill, false)
	vector.StrokeRect(screen, x, y, w, h, 1, border, false)
	drawTextCentered(screen, mb.Label, GetRegularFace(), float64(x+w/2), float64(y+h/2), textPrimary)
}

// DrawDivider draws a horizontal divider line.
func DrawDivider(screen *ebiten.Image, x, y, w int) {
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(w), 1, dividerColor, false)
}

// DrawSectionHeader draws a muted section label vertically centred on y.
func DrawSectionHeader(screen *ebiten.Image, label string, x, y int) {
	face := GetRegularFace()
	_, h := MeasureText(label, face)
	drawText(screen, label, face, float64(x), float64(y)-h/2, textMuted)
}
