// Package inspector tracks the pixel under the pointer and formats its
// readouts.
package inspector

import (
	"fmt"
	"image/color"
	"math"
	"sync"

	"smartdip/internal/raster"
	"smartdip/pkg/colorutil"
	"smartdip/pkg/geometry"
)

// Placeholder is shown in every readout while no pixel is hovered.
const Placeholder = "-"

// Readout is the state of the four readouts plus the marker.
type Readout struct {
	Valid     bool
	Position  geometry.PointInt
	Pixel     raster.Pixel
	Luminance uint8
	// Marker is the on-screen centre of the hovered pixel, in the same
	// coordinate space as the pointer events.
	Marker geometry.Point2D
}

// PositionText returns "X: x, Y: y".
func (r Readout) PositionText() string {
	if !r.Valid {
		return Placeholder
	}
	return fmt.Sprintf("X: %d, Y: %d", r.Position.X, r.Position.Y)
}

// RGBText returns "RGB(r, g, b)".
func (r Readout) RGBText() string {
	if !r.Valid {
		return Placeholder
	}
	return fmt.Sprintf("RGB(%d, %d, %d)", r.Pixel.R, r.Pixel.G, r.Pixel.B)
}

// LuminanceText returns the luminance as a decimal.
func (r Readout) LuminanceText() string {
	if !r.Valid {
		return Placeholder
	}
	return fmt.Sprintf("%d", r.Luminance)
}

// HSVText returns "HSV(h°, s%, v%)".
func (r Readout) HSVText() string {
	if !r.Valid {
		return Placeholder
	}
	h, s, v := colorutil.RGBToHSV(float64(r.Pixel.R), float64(r.Pixel.G), float64(r.Pixel.B))
	return fmt.Sprintf("HSV(%.0f°, %.0f%%, %.0f%%)", h, s*100, v*100)
}

// Swatch returns the opaque swatch color, or transparent when idle.
func (r Readout) Swatch() color.NRGBA {
	if !r.Valid {
		return color.NRGBA{}
	}
	return color.NRGBA{R: r.Pixel.R, G: r.Pixel.G, B: r.Pixel.B, A: 255}
}

// Inspector is bound to one image for its lifetime. Move and Leave are cheap
// and are meant to be called on every pointer event.
type Inspector struct {
	mu       sync.Mutex
	img      *raster.Image
	current  Readout
	onChange func(Readout)
}

// New creates an Inspector for img.
func New(img *raster.Image) *Inspector {
	return &Inspector{img: img}
}

// OnChange registers a callback invoked after every readout update.
func (in *Inspector) OnChange(fn func(Readout)) {
	in.mu.Lock()
	in.onChange = fn
	in.mu.Unlock()
}

// Current returns the latest readout.
func (in *Inspector) Current() Readout {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.current
}

// ImagePoint converts a pointer position on a surface displayed at the given
// size into image pixel coordinates.
func (in *Inspector) ImagePoint(pos geometry.Point2D, displayed geometry.Size) (geometry.PointInt, bool) {
	if displayed.Empty() {
		return geometry.PointInt{}, false
	}
	scaleX := float64(in.img.Width()) / displayed.Width
	scaleY := float64(in.img.Height()) / displayed.Height
	p := geometry.Point2D{X: pos.X * scaleX, Y: pos.Y * scaleY}.Floor()
	return p, p.In(in.img.Width(), in.img.Height())
}

// Move updates the readouts for a pointer at pos over a surface displayed at
// the given size. Positions outside the image leave the state untouched and
// return false.
func (in *Inspector) Move(pos geometry.Point2D, displayed geometry.Size) (Readout, bool) {
	p, ok := in.ImagePoint(pos, displayed)
	if !ok {
		return in.Current(), false
	}

	px := in.img.At(p.X, p.Y)
	r := Readout{
		Valid:     true,
		Position:  p,
		Pixel:     px,
		Luminance: px.Luminance(),
		Marker: geometry.Point2D{
			X: (float64(p.X) + 0.5) * displayed.Width / float64(in.img.Width()),
			Y: (float64(p.Y) + 0.5) * displayed.Height / float64(in.img.Height()),
		},
	}
	in.set(r)
	return r, true
}

// Leave resets every readout to the placeholder state.
func (in *Inspector) Leave() Readout {
	in.set(Readout{})
	return Readout{}
}

func (in *Inspector) set(r Readout) {
	in.mu.Lock()
	in.current = r
	fn := in.onChange
	in.mu.Unlock()
	if fn != nil {
		fn(r)
	}
}

// MarkerRadius returns a marker radius that stays visible at any display
// scale: half a displayed pixel, at least 3.
func MarkerRadius(imageWidth int, displayedWidth float64) float64 {
	if imageWidth <= 0 {
		return 3
	}
	return math.Max(3, displayedWidth/float64(imageWidth)/2)
}
