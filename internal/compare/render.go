package compare

import (
	"image"
	"image/color"
	"math"

	xdraw "golang.org/x/image/draw"

	"smartdip/pkg/colorutil"
	"smartdip/pkg/drawing"
)

// SideBySideGap separates the two panels of the side-by-side view.
const SideBySideGap = 10

var dividerColor = colorutil.White

// RenderSlider shows before left of the divider and after right of it. The
// canvas takes before's size; after is read at its natural size.
func RenderSlider(p Pair, position float64) *image.NRGBA {
	dst := p.Before.ToNRGBA()
	w, h := dst.Bounds().Dx(), dst.Bounds().Dy()
	split := int(math.Round(clampPercent(position) / 100 * float64(w)))

	if split < w {
		right := image.Rect(split, 0, w, h)
		xdraw.Draw(dst, right, image.Transparent, image.Point{}, xdraw.Src)
		xdraw.Draw(dst, right.Intersect(p.After.Bounds()), p.After.Std(), right.Min, xdraw.Src)
	}
	if split > 0 && split < w {
		drawing.VLine(dst, split, 0, h-1, dividerColor)
		drawing.VLine(dst, split-1, 0, h-1, dividerColor)
	}
	return dst
}

// RenderSideBySide places both images next to each other, top-aligned. The
// two images may differ in size.
func RenderSideBySide(p Pair) *image.NRGBA {
	bw, bh := p.Before.Width(), p.Before.Height()
	aw, ah := p.After.Width(), p.After.Height()
	h := bh
	if ah > h {
		h = ah
	}
	dst := image.NewNRGBA(image.Rect(0, 0, bw+SideBySideGap+aw, h))
	xdraw.Draw(dst, image.Rect(0, 0, bw, bh), p.Before.Std(), image.Point{}, xdraw.Src)
	xdraw.Draw(dst, image.Rect(bw+SideBySideGap, 0, bw+SideBySideGap+aw, ah), p.After.Std(), image.Point{}, xdraw.Src)
	return dst
}

// RenderBlend stacks after over before at opacity percent.
func RenderBlend(p Pair, opacity float64) *image.NRGBA {
	dst := p.Before.ToNRGBA()
	a := clampPercent(opacity) / 100
	if a == 0 {
		return dst
	}
	mask := image.NewUniform(color.Alpha{A: uint8(math.Round(a * 255))})
	xdraw.DrawMask(dst, dst.Bounds(), p.After.Std(), image.Point{}, mask, image.Point{}, xdraw.Over)
	return dst
}
