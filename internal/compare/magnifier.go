package compare

import (
	"image"
	"math"

	"smartdip/internal/raster"
	"smartdip/pkg/colorutil"
	"smartdip/pkg/drawing"
	"smartdip/pkg/geometry"
)

const (
	// DefaultMagnifierRadius is the lens radius in display pixels.
	DefaultMagnifierRadius = 75.0
	// DefaultMagnifierZoom is the lens magnification.
	DefaultMagnifierZoom = 2.5

	lensBorder = 3.0
)

// Side names one image of a pair.
type Side int

const (
	SideBefore Side = iota
	SideAfter
)

func (s Side) String() string {
	if s == SideAfter {
		return "after"
	}
	return "before"
}

// Magnifier holds the lens settings and whether it is shown.
type Magnifier struct {
	Enabled bool
	Radius  float64
	Zoom    float64
}

// NewMagnifier returns a disabled magnifier with default settings.
func NewMagnifier() Magnifier {
	return Magnifier{Radius: DefaultMagnifierRadius, Zoom: DefaultMagnifierZoom}
}

// Lens describes where the magnifier sits and what it shows.
type Lens struct {
	// Center is the lens centre in display coordinates.
	Center geometry.Point2D
	// Source is the sampled point in image coordinates.
	Source geometry.Point2D
	// Scale is image pixels per display pixel.
	Scale float64
	Side  Side
}

// Locate positions the lens for a pointer at pos over a slider displayed at
// the given size. The before image is sampled left of the divider, after to
// the right. It returns false when the pointer is outside the slider area.
func (m Magnifier) Locate(pos geometry.Point2D, displayed geometry.Size, divider float64, imageWidth int) (Lens, bool) {
	if displayed.Empty() || pos.X < 0 || pos.Y < 0 || pos.X >= displayed.Width || pos.Y >= displayed.Height {
		return Lens{}, false
	}
	side := SideAfter
	if pos.X/displayed.Width*100 < divider {
		side = SideBefore
	}
	scale := float64(imageWidth) / displayed.Width
	return Lens{
		Center: pos,
		Source: pos.Scale(scale),
		Scale:  scale,
		Side:   side,
	}, true
}

// RenderLens draws a circular view of src around lens.Source, magnified
// by zoom, radius display pixels in size, with a ring border. Pixels outside
// the circle are transparent.
func RenderLens(src *raster.Image, lens Lens, radius, zoom float64) *image.NRGBA {
	size := int(math.Ceil(radius * 2))
	dst := image.NewNRGBA(image.Rect(0, 0, size, size))
	if zoom <= 0 {
		zoom = DefaultMagnifierZoom
	}
	scale := lens.Scale
	if scale <= 0 {
		scale = 1
	}

	r2 := radius * radius
	for py := 0; py < size; py++ {
		for px := 0; px < size; px++ {
			dx := float64(px) + 0.5 - radius
			dy := float64(py) + 0.5 - radius
			if dx*dx+dy*dy > r2 {
				continue
			}
			sx := int(math.Floor(lens.Source.X + dx/zoom*scale))
			sy := int(math.Floor(lens.Source.Y + dy/zoom*scale))
			p := src.At(sx, sy)
			i := dst.PixOffset(px, py)
			dst.Pix[i], dst.Pix[i+1], dst.Pix[i+2], dst.Pix[i+3] = p.R, p.G, p.B, 255
		}
	}
	drawing.Ring(dst, radius, radius, radius, lensBorder, colorutil.White)
	return dst
}
