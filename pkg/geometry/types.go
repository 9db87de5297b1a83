// Package geometry provides basic geometric types used throughout the application.
package geometry

import (
	"errors"
	"fmt"
	"image"
	"math"
)

// ErrInvalidRect is returned when a rectangle has a non-positive size or
// does not fit inside the bounds it is checked against.
var ErrInvalidRect = errors.New("invalid rectangle")

// Point2D represents a 2D point with floating-point coordinates.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NewPoint2D creates a new Point2D.
func NewPoint2D(x, y float64) Point2D {
	return Point2D{X: x, Y: y}
}

// Distance returns the Euclidean distance to another point.
func (p Point2D) Distance(other Point2D) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Scale returns the point scaled by a factor.
func (p Point2D) Scale(factor float64) Point2D {
	return Point2D{X: p.X * factor, Y: p.Y * factor}
}

// Floor returns the integer point containing p.
func (p Point2D) Floor() PointInt {
	return PointInt{X: int(math.Floor(p.X)), Y: int(math.Floor(p.Y))}
}

// PointInt represents a 2D point with integer coordinates.
type PointInt struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// ToFloat converts to Point2D.
func (p PointInt) ToFloat() Point2D {
	return Point2D{X: float64(p.X), Y: float64(p.Y)}
}

// In reports whether the point lies inside [0,width)×[0,height).
func (p PointInt) In(width, height int) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < width && p.Y < height
}

// RectInt represents a rectangle with integer coordinates, typically a
// region of interest in source-image pixels.
type RectInt struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// NewRectInt creates a new RectInt.
func NewRectInt(x, y, width, height int) RectInt {
	return RectInt{X: x, Y: y, Width: width, Height: height}
}

// Empty reports whether the rectangle covers no pixels.
func (r RectInt) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Image returns the equivalent image.Rectangle.
func (r RectInt) Image() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// Within checks that the rectangle is non-empty and lies entirely inside a
// width×height image.
func (r RectInt) Within(width, height int) error {
	if r.Empty() {
		return fmt.Errorf("%w: size %dx%d", ErrInvalidRect, r.Width, r.Height)
	}
	if r.X < 0 || r.Y < 0 || r.X+r.Width > width || r.Y+r.Height > height {
		return fmt.Errorf("%w: %v outside %dx%d", ErrInvalidRect, r, width, height)
	}
	return nil
}

// String returns "x,y wxh".
func (r RectInt) String() string {
	return fmt.Sprintf("%d,%d %dx%d", r.X, r.Y, r.Width, r.Height)
}

// ParseRectInt parses "x,y,w,h".
func ParseRectInt(s string) (RectInt, error) {
	var r RectInt
	if _, err := fmt.Sscanf(s, "%d,%d,%d,%d", &r.X, &r.Y, &r.Width, &r.Height); err != nil {
		return RectInt{}, fmt.Errorf("parse rect %q: %w", s, err)
	}
	return r, nil
}

// Size represents a 2D size.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NewSize creates a new Size.
func NewSize(width, height float64) Size {
	return Size{Width: width, Height: height}
}

// Empty reports whether either dimension is non-positive.
func (s Size) Empty() bool {
	return s.Width <= 0 || s.Height <= 0
}
