// Package histogram computes per-channel intensity distributions and renders
// them as bar charts.
package histogram

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"gonum.org/v1/gonum/stat"

	"smartdip/internal/raster"
	"smartdip/pkg/colorutil"
	"smartdip/pkg/drawing"
)

const (
	// Bins is the number of buckets per channel.
	Bins = 256
	// CanvasWidth and CanvasHeight are the fixed render size; every render
	// starts from a fresh canvas of this size.
	CanvasWidth  = 256
	CanvasHeight = 150
)

// Mode selects which channels a render draws.
type Mode string

const (
	ModeGray Mode = "gray"
	ModeRGB  Mode = "rgb"
	// ModeHSV is accepted but currently renders the RGB channels.
	ModeHSV Mode = "hsv"
)

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeGray, ModeRGB, ModeHSV:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown histogram mode %q", s)
}

// Channel selects one of the four distributions.
type Channel int

const (
	Red Channel = iota
	Green
	Blue
	Luminance
)

func (c Channel) String() string {
	switch c {
	case Red:
		return "red"
	case Green:
		return "green"
	case Blue:
		return "blue"
	case Luminance:
		return "luminance"
	default:
		return "unknown"
	}
}

// Data holds the four frequency arrays of one image. Each array sums to the
// pixel count.
type Data struct {
	R, G, B, Lum [Bins]int
	Total        int
}

// Compute visits every pixel once.
func Compute(img *raster.Image) *Data {
	d := &Data{Total: img.Len()}
	pix := img.Pix()
	for i := 0; i < len(pix); i += 4 {
		r, g, b := pix[i], pix[i+1], pix[i+2]
		d.R[r]++
		d.G[g]++
		d.B[b]++
		d.Lum[raster.Luminance(r, g, b)]++
	}
	return d
}

// Counts returns the bucket array for c.
func (d *Data) Counts(c Channel) *[Bins]int {
	switch c {
	case Red:
		return &d.R
	case Green:
		return &d.G
	case Blue:
		return &d.B
	default:
		return &d.Lum
	}
}

type series struct {
	counts *[Bins]int
	color  color.Color
}

func (d *Data) series(mode Mode) []series {
	if mode == ModeGray {
		return []series{{&d.Lum, colorutil.Gray}}
	}
	return []series{
		{&d.R, colorutil.WithAlpha(colorutil.Red, 128)},
		{&d.G, colorutil.WithAlpha(colorutil.Green, 128)},
		{&d.B, colorutil.WithAlpha(colorutil.Blue, 128)},
	}
}

// Max returns the largest bucket among the channels drawn in mode.
func (d *Data) Max(mode Mode) int {
	max := 0
	for _, s := range d.series(mode) {
		for _, v := range s.counts {
			if v > max {
				max = v
			}
		}
	}
	return max
}

// Render draws one vertical line per bucket, scaled so the largest bucket
// fills the canvas height.
func Render(d *Data, mode Mode) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, CanvasWidth, CanvasHeight))
	max := d.Max(mode)
	if max == 0 {
		return img
	}

	for _, s := range d.series(mode) {
		for i, v := range s.counts {
			h := int(math.Round(float64(v) / float64(max) * CanvasHeight))
			if h <= 0 {
				continue
			}
			drawing.VLine(img, i, CanvasHeight-h, CanvasHeight-1, s.color)
		}
	}
	return img
}

// Stats summarizes one channel's distribution.
type Stats struct {
	Mean   float64
	StdDev float64
	Median float64
	Mode   int
	Min    int
	Max    int
}

// Stats computes count-weighted statistics over the bucket values of c.
func (d *Data) Stats(c Channel) Stats {
	if d.Total == 0 {
		return Stats{}
	}
	counts := d.Counts(c)
	values := make([]float64, Bins)
	weights := make([]float64, Bins)
	min, max := -1, 0
	for i, n := range counts {
		values[i] = float64(i)
		weights[i] = float64(n)
		if n > 0 {
			if min < 0 {
				min = i
			}
			max = i
		}
	}

	mode, _ := stat.Mode(values, weights)
	s := Stats{
		Mean:   stat.Mean(values, weights),
		Median: stat.Quantile(0.5, stat.Empirical, values, weights),
		Mode:   int(mode),
		Min:    min,
		Max:    max,
	}
	if d.Total > 1 {
		s.StdDev = stat.StdDev(values, weights)
	}
	return s
}

func (s Stats) String() string {
	return fmt.Sprintf("mean=%.2f std=%.2f median=%.0f mode=%d range=[%d,%d]",
		s.Mean, s.StdDev, s.Median, s.Mode, s.Min, s.Max)
}
