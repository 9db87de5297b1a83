// Package colormap maps 8-bit intensities to pseudo-colors.
package colormap

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"smartdip/internal/raster"
	"smartdip/pkg/colorutil"
)

// Name identifies a colormap.
type Name string

const (
	Jet     Name = "jet"
	Hot     Name = "hot"
	Viridis Name = "viridis"
	Gray    Name = "gray"
)

// jetShift offsets the green trapezoid so it peaks at the middle of the range.
const jetShift = 0.25

// Names returns the selectable colormaps in display order.
func Names() []Name {
	return []Name{Jet, Hot, Viridis, Gray}
}

// Parse validates a colormap name.
func Parse(s string) (Name, error) {
	for _, n := range Names() {
		if string(n) == s {
			return n, nil
		}
	}
	return "", fmt.Errorf("unknown colormap %q", s)
}

// Sample is an RGB triple. Channels are rounded but not clamped, so inputs
// outside 0..255 can produce values outside the 8-bit range.
type Sample struct {
	R, G, B int
}

// RGBA clamps the sample into an opaque color.
func (s Sample) RGBA() color.RGBA {
	return color.RGBA{
		R: colorutil.ClampByte(float64(s.R)),
		G: colorutil.ClampByte(float64(s.G)),
		B: colorutil.ClampByte(float64(s.B)),
		A: 255,
	}
}

// Apply maps value (nominally 0..255) through the named colormap. Unknown
// names fall back to grayscale.
func Apply(value int, name Name) Sample {
	v := float64(value) / 255
	var r, g, b float64

	switch name {
	case Jet:
		r = trapezoid(v)
		// green uses the shifted ramp, not the plain trapezoid
		g = math.Min(1, math.Max(0, 1.5-math.Abs(4*(v-jetShift)-1)))
		if v < 0.375 {
			b = 1 - v*8/3
		}
		r, g, b = r*255, g*255, b*255

	case Hot:
		r = 255 * v
		if v >= 0.5 {
			g = (v - 0.5) * 2 * 255
		}
		if v >= 0.75 {
			b = (v - 0.75) * 4 * 255
		}

	case Viridis:
		r, g, b = viridis(v)

	default:
		r, g, b = float64(value), float64(value), float64(value)
	}

	return Sample{R: round(r), G: round(g), B: round(b)}
}

// trapezoid rises over 0.125..0.375, holds at 1 until 0.625, falls to 0 at
// 0.875 and is 0 elsewhere.
func trapezoid(v float64) float64 {
	switch {
	case v < 0.125:
		return 0
	case v < 0.375:
		return (v - 0.125) * 4
	case v < 0.625:
		return 1
	case v < 0.875:
		return 1 - (v-0.625)*4
	default:
		return 0
	}
}

var (
	viridisLow  = [3]float64{68, 1, 84}
	viridisMid  = [3]float64{33, 145, 140}
	viridisHigh = [3]float64{253, 231, 37}
)

// viridis is a two-segment linear approximation through the palette's
// endpoints and midpoint.
func viridis(v float64) (r, g, b float64) {
	from, to, t := viridisLow, viridisMid, v*2
	if v >= 0.5 {
		from, to, t = viridisMid, viridisHigh, (v-0.5)*2
	}
	return from[0] + (to[0]-from[0])*t,
		from[1] + (to[1]-from[1])*t,
		from[2] + (to[2]-from[2])*t
}

func round(f float64) int {
	return int(math.Round(f))
}

// PseudoColor maps every pixel's luminance through the named colormap. Alpha
// is copied from the source.
func PseudoColor(img *raster.Image, name Name) *image.NRGBA {
	dst := image.NewNRGBA(img.Bounds())
	src := img.Pix()
	for i := 0; i < len(src); i += 4 {
		s := Apply(int(raster.Luminance(src[i], src[i+1], src[i+2])), name)
		c := s.RGBA()
		dst.Pix[i] = c.R
		dst.Pix[i+1] = c.G
		dst.Pix[i+2] = c.B
		dst.Pix[i+3] = src[i+3]
	}
	return dst
}

// Bar renders a horizontal legend strip of the colormap, width×height.
func Bar(name Name, width, height int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		value := 0
		if width > 1 {
			value = x * 255 / (width - 1)
		}
		c := Apply(value, name).RGBA()
		for y := 0; y < height; y++ {
			dst.SetNRGBA(x, y, color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255})
		}
	}
	return dst
}
