package app

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// DIPTheme is the application theme. The variant follows the session's dark
// mode flag rather than the system setting.
type DIPTheme struct {
	Dark bool
}

var _ fyne.Theme = (*DIPTheme)(nil)

// NewTheme returns the theme for the given mode.
func NewTheme(dark bool) *DIPTheme {
	return &DIPTheme{Dark: dark}
}

func (t *DIPTheme) variant() fyne.ThemeVariant {
	if t.Dark {
		return theme.VariantDark
	}
	return theme.VariantLight
}

func (t *DIPTheme) Color(name fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNamePrimary:
		return color.NRGBA{R: 0x15, G: 0x65, B: 0xC0, A: 0xFF}
	case theme.ColorNameSelection:
		return color.NRGBA{R: 0x42, G: 0xA5, B: 0xF5, A: 0x60}
	default:
		return theme.DefaultTheme().Color(name, t.variant())
	}
}

func (t *DIPTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *DIPTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t *DIPTheme) Size(name fyne.ThemeSizeName) float32 {
	return theme.DefaultTheme().Size(name)
}
