package roizoom

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartdip/internal/raster/rastertest"
	"smartdip/pkg/geometry"
)

func TestRenderZoomedSize(t *testing.T) {
	img := rastertest.Checkerboard(40, 30, 4)
	tests := []struct {
		name string
		roi  geometry.RectInt
		zoom int
	}{
		{"default zoom", geometry.NewRectInt(5, 5, 10, 6), 0},
		{"zoom 4", geometry.NewRectInt(0, 0, 7, 3), 4},
		{"whole image", geometry.NewRectInt(0, 0, 40, 30), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Render(img, tt.roi, tt.zoom)
			require.NoError(t, err)
			z := tt.zoom
			if z == 0 {
				z = DefaultZoomFactor
			}
			assert.Equal(t, tt.roi.Width*z, res.Zoomed.Bounds().Dx())
			assert.Equal(t, tt.roi.Height*z, res.Zoomed.Bounds().Dy())
			assert.Equal(t, img.Bounds(), res.Overview.Bounds())
			assert.GreaterOrEqual(t, res.Composite.Bounds().Dx(), 40+res.Zoomed.Bounds().Dx())
		})
	}
}

func TestRenderRejectsInvalidROI(t *testing.T) {
	img := rastertest.Solid(10, 10, 0, 0, 0)
	for _, roi := range []geometry.RectInt{
		geometry.NewRectInt(-1, 0, 4, 4),
		geometry.NewRectInt(8, 8, 4, 4),
		geometry.NewRectInt(0, 0, 0, 4),
	} {
		_, err := Render(img, roi, 3)
		assert.ErrorIs(t, err, ErrInvalidROI, roi.String())
	}
	_, err := Render(img, geometry.NewRectInt(0, 0, 2, 2), -1)
	assert.ErrorIs(t, err, ErrInvalidROI)
}

func TestOverviewOutline(t *testing.T) {
	img := rastertest.Solid(10, 10, 0, 0, 0)
	out := Overview(img, geometry.NewRectInt(2, 2, 5, 5))
	red := color.NRGBA{R: 255, A: 255}
	assert.Equal(t, red, out.NRGBAAt(2, 2))
	assert.Equal(t, red, out.NRGBAAt(3, 4))
	assert.Equal(t, red, out.NRGBAAt(6, 6))
	assert.Equal(t, color.NRGBA{A: 255}, out.NRGBAAt(4, 4))
	assert.Equal(t, color.NRGBA{A: 255}, out.NRGBAAt(7, 7))
}

func TestZoomNearestNeighbourWithGrid(t *testing.T) {
	img := rastertest.Func(2, 1, func(x, y int) (uint8, uint8, uint8, uint8) {
		if x == 0 {
			return 200, 0, 0, 255
		}
		return 0, 0, 200, 255
	})
	z, err := Zoom(img, geometry.NewRectInt(0, 0, 2, 1), 4)
	require.NoError(t, err)

	// interior pixels keep the source color
	assert.Equal(t, color.NRGBA{R: 200, A: 255}, z.NRGBAAt(2, 2))
	assert.Equal(t, color.NRGBA{B: 200, A: 255}, z.NRGBAAt(6, 2))
	// grid lines lighten the boundary pixels
	assert.Greater(t, z.NRGBAAt(4, 2).G, uint8(0))
	assert.Greater(t, z.NRGBAAt(2, 0).G, uint8(0))
}
