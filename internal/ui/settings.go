package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/hailam/chessboard/internal/anim"
	"github.com/hailam/chessboard/internal/config"
)

// Settings modal dimensions
const (
	SettingsWidth  = 380
	SettingsHeight = 500
	SettingsPadX   = 24
	SettingsPadY   = 20
)

// Settings modal colors
var (
	modalOverlay = color.RGBA{0, 0, 0, 180}
	modalBg      = color.RGBA{38, 40, 45, 255}
	modalHeader  = color.RGBA{48, 52, 58, 255}
	modalBorder  = color.RGBA{58, 62, 68, 255}
)

// SettingsModal edits a board configuration and the sound preference.
type SettingsModal struct {
	visible bool
	x, y    int

	orientation *ButtonGroup
	movable     *ButtonGroup
	dropOff     *ButtonGroup
	easing      *ButtonGroup
	animate     *Checkbox
	sequential  *Checkbox
	draggable   *Checkbox
	hints       *Checkbox
	sound       *Checkbox
	saveBtn     *ModalButton
	cancelBtn   *ModalButton

	// base carries the fields the modal does not edit.
	base   config.Config
	onSave func(cfg config.Config, sound bool)
}

type labelled struct {
	label string
	group *ButtonGroup
}

// NewSettingsModal creates a hidden settings modal.
func NewSettingsModal() *SettingsModal {
	sm := &SettingsModal{
		x: (ScreenWidth - SettingsWidth) / 2,
		y: (ScreenHeight - SettingsHeight) / 2,
	}
	sm.createWidgets()
	return sm
}

func (sm *SettingsModal) createWidgets() {
	contentX := sm.x + SettingsPadX
	contentW := SettingsWidth - SettingsPadX*2
	const rowH, groupH = 66, 32

	y := sm.y + 76
	group := func(options []string) *ButtonGroup {
		g := NewButtonGroup(contentX, y, options, 0, contentW/len(options), groupH)
		y += rowH
		return g
	}
	sm.orientation = group([]string{"white", "black"})
	sm.movable = group([]string{string(config.MovableBoth), string(config.MovableWhite), string(config.MovableBlack), string(config.MovableNone)})
	sm.dropOff = group([]string{string(config.DropSnapback), string(config.DropTrash)})
	sm.easing = group(anim.EasingNames)

	y -= 12
	col2 := contentX + contentW/2
	sm.animate = NewCheckbox(contentX, y, "Animate", true)
	sm.hints = NewCheckbox(col2, y, "Move hints", true)
	sm.sequential = NewCheckbox(contentX, y+30, "Sequential", false)
	sm.sound = NewCheckbox(col2, y+30, "Sound effects", true)
	sm.draggable = NewCheckbox(contentX, y+60, "Drag pieces", true)

	btnW, btnH, spacing := 100, 38, 12
	btnY := sm.y + SettingsHeight - SettingsPadY - btnH
	sm.cancelBtn = NewModalButton(sm.x+SettingsWidth-SettingsPadX-btnW*2-spacing, btnY, btnW, btnH, "Cancel", false, sm.Hide)
	sm.saveBtn = NewModalButton(sm.x+SettingsWidth-SettingsPadX-btnW, btnY, btnW, btnH, "Save", true, sm.handleSave)
}

func (sm *SettingsModal) groups() []labelled {
	return []labelled{
		{"Orientation", sm.orientation},
		{"Movable pieces", sm.movable},
		{"Dropped off the board", sm.dropOff},
		{"Easing", sm.easing},
	}
}

func (sm *SettingsModal) checkboxes() []*Checkbox {
	return []*Checkbox{sm.animate, sm.hints, sm.sequential, sm.sound, sm.draggable}
}

// Show opens the modal on cfg. onSave receives the edited copy.
func (sm *SettingsModal) Show(cfg config.Config, sound bool, onSave func(config.Config, bool)) {
	sm.visible = true
	sm.base = cfg
	sm.onSave = onSave

	sm.orientation.SetValue(cfg.Orientation)
	sm.movable.SetValue(string(cfg.MovableColors))
	sm.dropOff.SetValue(string(cfg.DropOffBoard))
	sm.easing.SetValue(cfg.Easing)
	sm.animate.Checked = cfg.Animate
	sm.hints.Checked = cfg.ShowHints
	sm.sequential.Checked = cfg.Sequential
	sm.draggable.Checked = cfg.Draggable
	sm.sound.Checked = sound
}

// Hide closes the modal, discarding edits.
func (sm *SettingsModal) Hide() {
	sm.visible = false
}

// IsVisible returns true if the modal is visible.
func (sm *SettingsModal) IsVisible() bool {
	return sm.visible
}

// Edited returns the configuration the widgets describe.
func (sm *SettingsModal) Edited() config.Config {
	cfg := sm.base
	cfg.Orientation = sm.orientation.Value()
	cfg.MovableColors = config.Movable(sm.movable.Value())
	cfg.DropOffBoard = config.DropOff(sm.dropOff.Value())
	cfg.Easing = sm.easing.Value()
	cfg.Animate = sm.animate.Checked
	cfg.ShowHints = sm.hints.Checked
	cfg.Sequential = sm.sequential.Checked
	cfg.Draggable = sm.draggable.Checked
	return cfg
}

func (sm *SettingsModal) handleSave() {
	if sm.onSave != nil {
		sm.onSave(sm.Edited(), sm.sound.Checked)
	}
	sm.Hide()
}

// Update handles input for the modal. While visible it consumes all input.
func (sm *SettingsModal) Update(input *InputHandler) bool {
	if !sm.visible {
		return false
	}
	if IsKeyJustPressed(ebiten.KeyEscape) {
		sm.Hide()
		return true
	}
	if IsKeyJustPressed(ebiten.KeyEnter) {
		sm.handleSave()
		return true
	}

	for _, g := range sm.groups() {
		g.group.Update(input)
	}
	for _, cb := range sm.checkboxes() {
		cb.Update(input)
	}
	sm.saveBtn.Update(input)
	sm.cancelBtn.Update(input)
	return true
}

// Draw renders the settings modal.
func (sm *SettingsModal) Draw(screen *ebiten.Image) {
	if !sm.visible {
		return
	}
	x, y := float32(sm.x), float32(sm.y)
	vector.DrawFilledRect(screen, 0, 0, ScreenWidth, ScreenHeight, modalOverlay, false)
	vector.DrawFilledRect(screen, x, y, SettingsWidth, SettingsHeight, modalBg, false)
	vector.StrokeRect(screen, x, y, SettingsWidth, SettingsHeight, 2, modalBorder, false)
	vector.DrawFilledRect(screen, x, y, SettingsWidth, 44, modalHeader, false)
	drawTextCentered(screen, "Settings", GetBoldFace(), float64(sm.x+SettingsWidth/2), float64(sm.y+22), textPrimary)

	for _, g := range sm.groups() {
		DrawSectionHeader(screen, g.label, g.group.X, g.group.Y-12)
		g.group.Draw(screen)
	}
	for _, cb := range sm.checkboxes() {
		cb.Draw(screen)
	}
	sm.saveBtn.Draw(screen)
	sm.cancelBtn.Draw(screen)
}
