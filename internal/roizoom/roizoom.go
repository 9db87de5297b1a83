// Package roizoom renders a magnified region of interest next to an overview
// of the full image.
package roizoom

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"

	"smartdip/internal/raster"
	"smartdip/pkg/colorutil"
	"smartdip/pkg/drawing"
	"smartdip/pkg/geometry"
)

// DefaultZoomFactor is used when callers pass zero.
const DefaultZoomFactor = 3

const (
	outlineWidth = 2
	gap          = 16
	padding      = 4
)

var (
	// ErrInvalidROI is returned when the region does not fit the image.
	ErrInvalidROI = errors.New("invalid region of interest")

	outlineColor = colorutil.Red
	gridColor    = color.NRGBA{R: 255, G: 255, B: 255, A: 77}
	labelColor   = colorutil.Black
	panelColor   = colorutil.White
)

// Result holds the two rendered views and their labelled composite.
type Result struct {
	Overview  *image.NRGBA
	Zoomed    *image.NRGBA
	Composite *image.NRGBA
}

// Render validates roi against img and renders the overview, the zoomed crop
// with its pixel grid, and both side by side with captions. A zoomFactor of
// zero selects DefaultZoomFactor.
func Render(img *raster.Image, roi geometry.RectInt, zoomFactor int) (*Result, error) {
	if zoomFactor == 0 {
		zoomFactor = DefaultZoomFactor
	}
	if zoomFactor < 1 {
		return nil, fmt.Errorf("%w: zoom factor %d", ErrInvalidROI, zoomFactor)
	}
	if err := roi.Within(img.Width(), img.Height()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidROI, err)
	}

	overview := Overview(img, roi)
	zoomed, err := Zoom(img, roi, zoomFactor)
	if err != nil {
		return nil, err
	}
	composite, err := compose(overview, zoomed, zoomFactor)
	if err != nil {
		return nil, err
	}
	return &Result{Overview: overview, Zoomed: zoomed, Composite: composite}, nil
}

// Overview copies img and outlines roi.
func Overview(img *raster.Image, roi geometry.RectInt) *image.NRGBA {
	dst := img.ToNRGBA()
	drawing.RectOutline(dst, roi.Image(), outlineColor, outlineWidth)
	return dst
}

// Zoom crops roi and scales it by zoomFactor with nearest-neighbour sampling,
// then draws a grid line on every source pixel boundary.
func Zoom(img *raster.Image, roi geometry.RectInt, zoomFactor int) (*image.NRGBA, error) {
	crop, err := img.Region(roi)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidROI, err)
	}

	w, h := roi.Width*zoomFactor, roi.Height*zoomFactor
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), crop.ToNRGBA(), crop.Bounds(), xdraw.Src, nil)

	if zoomFactor > 1 {
		for x := 0; x < w; x += zoomFactor {
			drawing.VLine(dst, x, 0, h-1, gridColor)
		}
		for y := 0; y < h; y += zoomFactor {
			drawing.HLine(dst, 0, w-1, y, gridColor)
		}
	}
	return dst, nil
}

func compose(overview, zoomed *image.NRGBA, zoomFactor int) (*image.NRGBA, error) {
	labelH := drawing.LabelHeight(drawing.DefaultLabelSize) + padding
	ow, oh := overview.Bounds().Dx(), overview.Bounds().Dy()
	zw, zh := zoomed.Bounds().Dx(), zoomed.Bounds().Dy()

	h := oh
	if zh > h {
		h = zh
	}
	dst := image.NewNRGBA(image.Rect(0, 0, ow+gap+zw, labelH+h))
	drawing.Fill(dst, dst.Bounds(), panelColor)

	xdraw.Draw(dst, image.Rect(0, labelH, ow, labelH+oh), overview, image.Point{}, xdraw.Src)
	xdraw.Draw(dst, image.Rect(ow+gap, labelH, ow+gap+zw, labelH+zh), zoomed, image.Point{}, xdraw.Src)

	baseline := drawing.Ascent(drawing.DefaultLabelSize) + padding/2
	if err := drawing.Label(dst, "Original (ROI highlighted)", 0, baseline, labelColor, drawing.DefaultLabelSize); err != nil {
		return nil, err
	}
	if err := drawing.Label(dst, fmt.Sprintf("Zoomed %dx", zoomFactor), ow+gap, baseline, labelColor, drawing.DefaultLabelSize); err != nil {
		return nil, err
	}
	return dst, nil
}
