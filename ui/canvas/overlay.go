package canvas

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"smartdip/pkg/drawing"
	"smartdip/pkg/geometry"
)

// Overlay holds shapes drawn over the image. All coordinates are display
// coordinates in fyne units, the same space pointer callbacks report.
type Overlay struct {
	Markers []Marker
	Rects   []Rect
	Patches []Patch
}

// Marker is a ring around a point.
type Marker struct {
	Center geometry.Point2D
	Radius float64
	Color  color.Color
}

// Rect is a rectangle outline.
type Rect struct {
	Min, Max  geometry.Point2D
	Color     color.Color
	Thickness int
}

// Patch is a pre-rendered image centred on a point, such as a magnifier
// lens. Patch pixels are device pixels and are not rescaled.
type Patch struct {
	Image  image.Image
	Center geometry.Point2D
}

// Empty reports whether the overlay draws nothing.
func (o *Overlay) Empty() bool {
	return o == nil || len(o.Markers)+len(o.Rects)+len(o.Patches) == 0
}

// Draw renders the overlay onto dst, converting display units to device
// pixels with scale.
func (o *Overlay) Draw(dst draw.Image, scale float64) {
	if o.Empty() {
		return
	}
	for _, r := range o.Rects {
		t := r.Thickness
		if t <= 0 {
			t = 2
		}
		rect := image.Rect(
			int(math.Round(r.Min.X*scale)), int(math.Round(r.Min.Y*scale)),
			int(math.Round(r.Max.X*scale)), int(math.Round(r.Max.Y*scale)),
		).Canon()
		drawing.RectOutline(dst, rect, r.Color, t)
	}
	for _, m := range o.Markers {
		c := m.Center.Scale(scale)
		drawing.Ring(dst, c.X, c.Y, m.Radius*scale, 1.5, m.Color)
	}
	for _, p := range o.Patches {
		if p.Image == nil {
			continue
		}
		b := p.Image.Bounds()
		c := p.Center.Scale(scale)
		at := image.Pt(int(math.Round(c.X))-b.Dx()/2, int(math.Round(c.Y))-b.Dy()/2)
		draw.Draw(dst, b.Sub(b.Min).Add(at), p.Image, b.Min, draw.Over)
	}
}
