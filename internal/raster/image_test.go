package raster_test

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartdip/internal/raster"
	"smartdip/internal/raster/rastertest"
	"smartdip/pkg/geometry"
)

func TestLuminance(t *testing.T) {
	assert.Equal(t, uint8(76), raster.Luminance(255, 0, 0))
	assert.Equal(t, uint8(150), raster.Luminance(0, 255, 0))
	assert.Equal(t, uint8(29), raster.Luminance(0, 0, 255))
	assert.Equal(t, uint8(255), raster.Luminance(255, 255, 255))
	assert.Equal(t, uint8(0), raster.Luminance(0, 0, 0))
}

func TestLuminanceRange(t *testing.T) {
	for _, v := range []uint8{0, 1, 127, 128, 254, 255} {
		for _, w := range []uint8{0, 64, 255} {
			l := raster.Luminance(v, w, 255-v)
			assert.LessOrEqual(t, int(l), 255)
		}
	}
}

func TestNewValidatesLength(t *testing.T) {
	_, err := raster.New(2, 2, make([]uint8, 15))
	assert.Error(t, err)

	_, err = raster.New(0, 2, nil)
	assert.ErrorIs(t, err, raster.ErrEmptyImage)
}

func TestNewCopiesInput(t *testing.T) {
	pix := []uint8{1, 2, 3, 255}
	img, err := raster.New(1, 1, pix)
	require.NoError(t, err)
	pix[0] = 99
	assert.Equal(t, uint8(1), img.At(0, 0).R)
}

func TestAtOutOfBounds(t *testing.T) {
	img := rastertest.Solid(3, 2, 10, 20, 30)
	assert.Equal(t, raster.Pixel{R: 10, G: 20, B: 30, A: 255}, img.At(2, 1))
	assert.Equal(t, raster.Pixel{}, img.At(3, 0))
	assert.Equal(t, raster.Pixel{}, img.At(0, -1))
}

func TestRegion(t *testing.T) {
	img := rastertest.Func(4, 4, func(x, y int) (uint8, uint8, uint8, uint8) {
		return uint8(x), uint8(y), 0, 255
	})

	sub, err := img.Region(geometry.NewRectInt(1, 2, 2, 2))
	require.NoError(t, err)
	assert.Equal(t, 2, sub.Width())
	assert.Equal(t, 2, sub.Height())
	assert.Equal(t, raster.Pixel{R: 1, G: 2, A: 255}, sub.At(0, 0))
	assert.Equal(t, raster.Pixel{R: 2, G: 3, A: 255}, sub.At(1, 1))

	_, err = img.Region(geometry.NewRectInt(3, 3, 2, 2))
	assert.ErrorIs(t, err, raster.ErrOutOfBounds)
}

func TestFromImageUnpremultiplies(t *testing.T) {
	src := image.NewRGBA(image.Rect(5, 5, 7, 6))
	src.Set(5, 5, color.NRGBA{R: 200, G: 100, B: 0, A: 128})
	src.Set(6, 5, color.NRGBA{R: 1, G: 2, B: 3, A: 255})

	img := raster.FromImage(src)
	assert.Equal(t, 2, img.Width())
	assert.Equal(t, 1, img.Height())
	px := img.At(0, 0)
	assert.InDelta(t, 200, int(px.R), 1)
	assert.InDelta(t, 100, int(px.G), 1)
	assert.Equal(t, uint8(128), px.A)
	assert.Equal(t, raster.Pixel{R: 1, G: 2, B: 3, A: 255}, img.At(1, 0))
}

func TestDecodeBase64(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	src.Set(0, 0, color.NRGBA{R: 255, A: 255})
	src.Set(1, 0, color.NRGBA{B: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))
	payload := base64.StdEncoding.EncodeToString(buf.Bytes())

	for _, in := range []string{payload, "data:image/png;base64," + payload} {
		img, err := raster.DecodeBase64(in)
		require.NoError(t, err)
		assert.Equal(t, raster.Pixel{R: 255, A: 255}, img.At(0, 0))
		assert.Equal(t, raster.Pixel{B: 255, A: 255}, img.At(1, 0))
	}

	_, err := raster.DecodeBase64("not base64!")
	assert.Error(t, err)
}

func TestEncodeBase64RoundTrip(t *testing.T) {
	img := rastertest.Checkerboard(4, 4, 2)
	payload, err := raster.EncodeBase64PNG(img.Std())
	require.NoError(t, err)

	back, err := raster.DecodeBase64(payload)
	require.NoError(t, err)
	assert.Equal(t, img.Pix(), back.Pix())
}

func TestIsSupportedFormat(t *testing.T) {
	assert.True(t, raster.IsSupportedFormat("scan.TIF"))
	assert.True(t, raster.IsSupportedFormat("/tmp/a.jpeg"))
	assert.False(t, raster.IsSupportedFormat("notes.txt"))
	assert.False(t, raster.IsSupportedFormat("noext"))
}
