// Package drawing provides raster drawing primitives shared by the analysis
// renderers and the UI overlays.
package drawing

import (
	"image"
	"image/color"
	"image/draw"
	"math"
)

// Plot sets a single pixel, compositing col over the existing pixel when col
// is translucent. Points outside dst are ignored.
func Plot(dst draw.Image, x, y int, col color.Color) {
	if !(image.Point{X: x, Y: y}).In(dst.Bounds()) {
		return
	}
	c := color.NRGBAModel.Convert(col).(color.NRGBA)
	switch c.A {
	case 0:
		return
	case 255:
		dst.Set(x, y, c)
		return
	}
	under := color.NRGBAModel.Convert(dst.At(x, y)).(color.NRGBA)
	a := float64(c.A) / 255
	outA := a + float64(under.A)/255*(1-a)
	mix := func(s, d uint8) uint8 {
		if outA == 0 {
			return 0
		}
		v := (float64(s)*a + float64(d)*float64(under.A)/255*(1-a)) / outA
		return uint8(math.Round(v))
	}
	dst.Set(x, y, color.NRGBA{
		R: mix(c.R, under.R),
		G: mix(c.G, under.G),
		B: mix(c.B, under.B),
		A: uint8(math.Round(outA * 255)),
	})
}

// Line draws a line between two points using Bresenham's algorithm.
func Line(dst draw.Image, x1, y1, x2, y2 int, col color.Color, thickness int) {
	dx := x2 - x1
	dy := y2 - y1
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy
	lo := -(thickness - 1) / 2
	hi := thickness / 2
	if thickness <= 1 {
		lo, hi = 0, 0
	}

	for {
		for t := lo; t <= hi; t++ {
			for s := lo; s <= hi; s++ {
				Plot(dst, x1+s, y1+t, col)
			}
		}

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// Polyline connects consecutive points with 1px lines.
func Polyline(dst draw.Image, pts []image.Point, col color.Color) {
	for i := 1; i < len(pts); i++ {
		Line(dst, pts[i-1].X, pts[i-1].Y, pts[i].X, pts[i].Y, col, 1)
	}
}

// VLine draws a vertical run of pixels from y1 to y2 inclusive.
func VLine(dst draw.Image, x, y1, y2 int, col color.Color) {
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	for y := y1; y <= y2; y++ {
		Plot(dst, x, y, col)
	}
}

// HLine draws a horizontal run of pixels from x1 to x2 inclusive.
func HLine(dst draw.Image, x1, x2, y int, col color.Color) {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	for x := x1; x <= x2; x++ {
		Plot(dst, x, y, col)
	}
}

// RectOutline draws the outline of r inward from its edges, thickness pixels
// wide. r uses half-open bounds like image.Rectangle.
func RectOutline(dst draw.Image, r image.Rectangle, col color.Color, thickness int) {
	if r.Empty() {
		return
	}
	x1, y1 := r.Min.X, r.Min.Y
	x2, y2 := r.Max.X-1, r.Max.Y-1
	for t := 0; t < thickness; t++ {
		if x1+t > x2-t || y1+t > y2-t {
			break
		}
		HLine(dst, x1+t, x2-t, y1+t, col)
		HLine(dst, x1+t, x2-t, y2-t, col)
		VLine(dst, x1+t, y1+t+1, y2-t-1, col)
		VLine(dst, x2-t, y1+t+1, y2-t-1, col)
	}
}

// Ring draws a circle outline of the given thickness centered at (cx, cy).
func Ring(dst draw.Image, cx, cy, r float64, thickness float64, col color.Color) {
	b := dst.Bounds()
	minX := int(cx - r - 1)
	maxX := int(cx + r + 1)
	minY := int(cy - r - 1)
	maxY := int(cy + r + 1)

	r2 := r * r
	inner := r - thickness
	if inner < 0 {
		inner = 0
	}
	innerR2 := inner * inner

	for y := minY; y <= maxY; y++ {
		if y < b.Min.Y || y >= b.Max.Y {
			continue
		}
		for x := minX; x <= maxX; x++ {
			dx := float64(x) + 0.5 - cx
			dy := float64(y) + 0.5 - cy
			d2 := dx*dx + dy*dy
			if d2 <= r2 && d2 >= innerR2 {
				Plot(dst, x, y, col)
			}
		}
	}
}

// Fill paints r with a solid color, replacing what was there.
func Fill(dst draw.Image, r image.Rectangle, col color.Color) {
	draw.Draw(dst, r, image.NewUniform(col), image.Point{}, draw.Src)
}
