// Package surface projects an image's intensity field into an oblique 3D
// wireframe.
package surface

import (
	"image"
	"image/color"
	"math"

	"smartdip/internal/raster"
	"smartdip/pkg/drawing"
	"smartdip/pkg/geometry"
)

const (
	CanvasWidth  = 400
	CanvasHeight = 300

	// DefaultColumns and DefaultRows are the target sample counts per axis.
	DefaultColumns = 40
	DefaultRows    = 30

	// HeightDivisor converts a mean intensity into surface height.
	HeightDivisor = 5
	// Scale multiplies projected coordinates before centering.
	Scale = 5

	angleX = math.Pi / 6
	angleY = math.Pi / 6
)

var (
	background = color.NRGBA{R: 20, G: 20, B: 28, A: 255}
	rowColor   = color.NRGBA{R: 0, G: 170, B: 255, A: 255}
	colColor   = color.NRGBA{R: 0, G: 120, B: 200, A: 255}
)

// Point3D is a sampled surface vertex in source-pixel units.
type Point3D struct {
	X, Y, Z float64
}

// Grid holds the sampled vertices, indexed [row][column].
type Grid struct {
	Points [][]Point3D
}

// Rows returns the number of sampled rows.
func (g *Grid) Rows() int { return len(g.Points) }

// Columns returns the number of sampled columns.
func (g *Grid) Columns() int {
	if len(g.Points) == 0 {
		return 0
	}
	return len(g.Points[0])
}

// step returns the sampling stride for one axis.
func step(dim, target int) int {
	if target <= 0 {
		return 1
	}
	s := dim / target
	if s < 1 {
		s = 1
	}
	return s
}

// Sample reads the image on a grid of roughly cols×rows points. Each vertex is
// (x − w/2, y − h/2, mean(R,G,B)/5) for the sampled pixel (x, y) of a w×h
// image. Large images project beyond the canvas edges.
func Sample(img *raster.Image, cols, rows int) *Grid {
	w, h := img.Width(), img.Height()
	sx := step(w, cols)
	sy := step(h, rows)

	g := &Grid{Points: make([][]Point3D, 0, (h+sy-1)/sy)}
	for y := 0; y < h; y += sy {
		row := make([]Point3D, 0, (w+sx-1)/sx)
		for x := 0; x < w; x += sx {
			p := img.At(x, y)
			row = append(row, Point3D{
				X: float64(x) - float64(w)/2,
				Y: float64(y) - float64(h)/2,
				Z: raster.Mean(p.R, p.G, p.B) / HeightDivisor,
			})
		}
		g.Points = append(g.Points, row)
	}
	return g
}

// Project applies the fixed oblique rotation, scales, and centres the result
// on the canvas. It is not a perspective projection.
func Project(p Point3D) geometry.Point2D {
	xProj := p.X*math.Cos(angleY) - p.Z*math.Sin(angleY)
	yProj := p.Y*math.Cos(angleX) - p.Z*math.Sin(angleX)
	return geometry.Point2D{
		X: xProj*Scale + CanvasWidth/2,
		Y: yProj*Scale + CanvasHeight/2,
	}
}

// Projected returns every vertex projected to canvas coordinates.
func (g *Grid) Projected() [][]image.Point {
	out := make([][]image.Point, len(g.Points))
	for j, row := range g.Points {
		out[j] = make([]image.Point, len(row))
		for i, p := range row {
			q := Project(p)
			out[j][i] = image.Pt(int(math.Round(q.X)), int(math.Round(q.Y)))
		}
	}
	return out
}

// Render draws the wireframe: one polyline per sampled row, then one per
// sampled column.
func Render(img *raster.Image) *image.NRGBA {
	return RenderGrid(Sample(img, DefaultColumns, DefaultRows))
}

// RenderGrid draws an already sampled grid.
func RenderGrid(g *Grid) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, CanvasWidth, CanvasHeight))
	drawing.Fill(dst, dst.Bounds(), background)

	pts := g.Projected()
	for _, row := range pts {
		drawing.Polyline(dst, row, rowColor)
	}
	col := make([]image.Point, len(pts))
	for i := 0; i < g.Columns(); i++ {
		col = col[:0]
		for _, row := range pts {
			if i < len(row) {
				col = append(col, row[i])
			}
		}
		drawing.Polyline(dst, col, colColor)
	}
	return dst
}
