package drawing

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var red = color.NRGBA{R: 255, A: 255}

func TestLineEndpoints(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	Line(img, 1, 1, 8, 5, red, 1)
	assert.Equal(t, red, img.NRGBAAt(1, 1))
	assert.Equal(t, red, img.NRGBAAt(8, 5))
	assert.Equal(t, color.NRGBA{}, img.NRGBAAt(8, 1))
}

func TestLineClipsToBounds(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	assert.NotPanics(t, func() { Line(img, -10, 2, 20, 2, red, 3) })
	assert.Equal(t, red, img.NRGBAAt(0, 2))
	assert.Equal(t, red, img.NRGBAAt(3, 2))
}

func TestRectOutline(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	RectOutline(img, image.Rect(2, 2, 8, 8), red, 2)

	for _, p := range []image.Point{{2, 2}, {7, 7}, {3, 3}, {6, 3}, {2, 5}, {7, 5}} {
		assert.Equal(t, red, img.NRGBAAt(p.X, p.Y), "point %v", p)
	}
	assert.Equal(t, color.NRGBA{}, img.NRGBAAt(4, 4))
	assert.Equal(t, color.NRGBA{}, img.NRGBAAt(1, 1))
	assert.Equal(t, color.NRGBA{}, img.NRGBAAt(8, 8))
}

func TestPlotBlendsTranslucent(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	img.SetNRGBA(0, 0, color.NRGBA{A: 255})
	Plot(img, 0, 0, color.NRGBA{R: 255, G: 255, B: 255, A: 128})
	got := img.NRGBAAt(0, 0)
	assert.InDelta(t, 128, int(got.R), 1)
	assert.Equal(t, uint8(255), got.A)
}

func TestRing(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 21, 21))
	Ring(img, 10.5, 10.5, 10, 2, red)
	assert.Equal(t, red, img.NRGBAAt(10, 0))
	assert.Equal(t, color.NRGBA{}, img.NRGBAAt(10, 10))
}

func TestLabelDrawsPixels(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 80, 20))
	require.NoError(t, Label(img, "Zoom", 2, Ascent(DefaultLabelSize), color.White, DefaultLabelSize))

	var painted int
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] > 0 {
			painted++
		}
	}
	assert.Positive(t, painted)
	assert.Greater(t, LabelHeight(DefaultLabelSize), 0)
}
