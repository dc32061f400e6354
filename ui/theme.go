package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

var (
	// PanelColor is the window background.
	PanelColor = color.NRGBA{R: 0x1e, G: 0x1e, B: 0x1e, A: 0xff}
	// AccentColor highlights slider tracks and focus.
	AccentColor = color.NRGBA{R: 0xf0, G: 0x8c, B: 0x28, A: 0xff}
)

// SynthTheme is the dark editor theme, always rendered in the dark variant.
type SynthTheme struct {
	fyne.Theme
}

// NewSynthTheme creates a new instance of the editor theme.
func NewSynthTheme() fyne.Theme {
	return &SynthTheme{Theme: theme.DefaultTheme()}
}

// Color returns the color for the given name.
func (t *SynthTheme) Color(name fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNameBackground:
		return PanelColor
	case theme.ColorNamePrimary, theme.ColorNameFocus:
		return AccentColor
	}
	return t.Theme.Color(name, theme.VariantDark)
}
