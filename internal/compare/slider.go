package compare

import "math"

const (
	// DefaultSliderPosition is the divider position after a reset, in percent.
	DefaultSliderPosition = 50.0
	// HandleHalfWidth is the distance from the divider, in display pixels,
	// within which a press grabs the handle.
	HandleHalfWidth = 12.0
)

// Slider tracks the divider position as a percentage of the slider width.
type Slider struct {
	position float64
	dragging bool
}

// NewSlider returns a slider at the default position.
func NewSlider() Slider {
	return Slider{position: DefaultSliderPosition}
}

// Position returns the divider position in [0,100].
func (s *Slider) Position() float64 { return s.position }

// Dragging reports whether a press on the handle is in progress.
func (s *Slider) Dragging() bool { return s.dragging }

// DividerX returns the divider's x coordinate on a slider width pixels wide.
func (s *Slider) DividerX(width float64) float64 {
	return s.position / 100 * width
}

// OnHandle reports whether x falls on the handle.
func (s *Slider) OnHandle(x, width float64) bool {
	return math.Abs(x-s.DividerX(width)) <= HandleHalfWidth
}

// Press starts a drag when x is on the handle.
func (s *Slider) Press(x, width float64) bool {
	if width <= 0 || !s.OnHandle(x, width) {
		return false
	}
	s.dragging = true
	return true
}

// Move follows the pointer while dragging. It returns false when no drag is
// in progress.
func (s *Slider) Move(x, width float64) bool {
	if !s.dragging || width <= 0 {
		return false
	}
	s.set(x, width)
	return true
}

// Release ends a drag.
func (s *Slider) Release() {
	s.dragging = false
}

// Click jumps the divider to x unless the click landed on the handle.
func (s *Slider) Click(x, width float64) bool {
	if width <= 0 || s.OnHandle(x, width) {
		return false
	}
	s.set(x, width)
	return true
}

// SetPosition sets the divider directly, clamped to [0,100].
func (s *Slider) SetPosition(p float64) {
	s.position = clampPercent(p)
}

func (s *Slider) set(x, width float64) {
	s.position = clampPercent(x / width * 100)
}

func clampPercent(p float64) float64 {
	if math.IsNaN(p) {
		return 0
	}
	return math.Max(0, math.Min(100, p))
}
