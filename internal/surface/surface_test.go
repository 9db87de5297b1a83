package surface

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartdip/internal/raster/rastertest"
)

func TestSampleDensity(t *testing.T) {
	tests := []struct {
		name       string
		w, h       int
		cols, rows int
	}{
		{"large image is capped near target", 400, 300, 40, 30},
		{"uneven division keeps remainder sample", 85, 61, 43, 31},
		{"small image samples every pixel", 12, 9, 12, 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := Sample(rastertest.Solid(tt.w, tt.h, 0, 0, 0), DefaultColumns, DefaultRows)
			assert.Equal(t, tt.rows, g.Rows())
			assert.Equal(t, tt.cols, g.Columns())
		})
	}
}

func TestSampleHeightIsMeanOverFive(t *testing.T) {
	g := Sample(rastertest.Solid(4, 4, 30, 60, 90), DefaultColumns, DefaultRows)
	require.Equal(t, 4, g.Rows())
	assert.InDelta(t, 12, g.Points[2][3].Z, 1e-9)
	assert.Equal(t, Point3D{X: 1, Y: 0, Z: 12}, g.Points[2][3])
	assert.Equal(t, -2.0, g.Points[0][0].X)
}

func TestSampleUsesPixelCoordinates(t *testing.T) {
	g := Sample(rastertest.Solid(400, 300, 50, 50, 50), DefaultColumns, DefaultRows)
	require.Equal(t, 30, g.Rows())
	require.Equal(t, 40, g.Columns())

	// step is 10 on both axes, so [1][1] is pixel (10,10)
	assert.Equal(t, Point3D{X: -190, Y: -140, Z: 10}, g.Points[1][1])
	assert.Equal(t, Point3D{X: -200, Y: -150, Z: 10}, g.Points[0][0])
	assert.Equal(t, Point3D{X: 190, Y: 140, Z: 10}, g.Points[29][39])
}

func TestProjectOrigin(t *testing.T) {
	p := Project(Point3D{})
	assert.Equal(t, float64(CanvasWidth/2), p.X)
	assert.Equal(t, float64(CanvasHeight/2), p.Y)
}

func TestProjectFormula(t *testing.T) {
	p := Project(Point3D{X: 2, Y: -1, Z: 10})
	c, s := math.Cos(math.Pi/6), math.Sin(math.Pi/6)
	assert.InDelta(t, (2*c-10*s)*5+200, p.X, 1e-9)
	assert.InDelta(t, (-1*c-10*s)*5+150, p.Y, 1e-9)
}

func TestRenderDrawsMesh(t *testing.T) {
	img := Render(rastertest.HorizontalGradient(80, 60))
	assert.Equal(t, CanvasWidth, img.Bounds().Dx())
	assert.Equal(t, CanvasHeight, img.Bounds().Dy())

	var lit int
	for y := 0; y < CanvasHeight; y++ {
		for x := 0; x < CanvasWidth; x++ {
			if img.NRGBAAt(x, y) == rowColor || img.NRGBAAt(x, y) == colColor {
				lit++
			}
		}
	}
	assert.Greater(t, lit, 100)
}
