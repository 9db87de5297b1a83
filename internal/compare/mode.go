// Package compare implements the before/after comparison views: slider,
// side-by-side, blend and difference, plus the magnifier lens.
package compare

import (
	"fmt"

	"smartdip/internal/raster"
)

// Mode is the active comparison strategy.
type Mode int

const (
	ModeSlider Mode = iota
	ModeSideBySide
	ModeBlend
	ModeDifference
)

// Modes lists every mode in display order.
func Modes() []Mode {
	return []Mode{ModeSlider, ModeSideBySide, ModeBlend, ModeDifference}
}

func (m Mode) String() string {
	switch m {
	case ModeSlider:
		return "slider"
	case ModeSideBySide:
		return "side-by-side"
	case ModeBlend:
		return "blend"
	case ModeDifference:
		return "difference"
	default:
		return "unknown"
	}
}

// Title is the label shown on the mode control.
func (m Mode) Title() string {
	switch m {
	case ModeSlider:
		return "Slider"
	case ModeSideBySide:
		return "Side by Side"
	case ModeBlend:
		return "Blend"
	case ModeDifference:
		return "Difference"
	default:
		return "Unknown"
	}
}

// ParseMode accepts the String form of a mode.
func ParseMode(s string) (Mode, error) {
	for _, m := range Modes() {
		if m.String() == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown comparison mode %q", s)
}

// Pair is the original image and a processed result.
type Pair struct {
	Before *raster.Image
	After  *raster.Image
}

// Valid reports whether both images are present.
func (p Pair) Valid() bool {
	return p.Before != nil && p.After != nil
}

// SameSize reports whether both images have equal dimensions.
func (p Pair) SameSize() bool {
	return p.Valid() && p.Before.Bounds() == p.After.Bounds()
}
