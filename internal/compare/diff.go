package compare

import (
	"image"

	"smartdip/internal/raster"
)

// EnhanceFactor scales channel differences so small changes stay visible.
const EnhanceFactor = 2

// differenceFunc is replaced by the OpenCV implementation in gocv builds.
var (
	differenceFunc    = differenceGo
	differenceBackend = "go"
)

// Difference computes |before−after|·EnhanceFactor per color channel,
// saturating at 255, with alpha forced opaque. The canvas takes before's
// size; after is read at its natural size and treated as transparent black
// where it does not cover the canvas.
func Difference(before, after *raster.Image) *image.NRGBA {
	return differenceFunc(before, after)
}

func differenceGo(before, after *raster.Image) *image.NRGBA {
	dst := image.NewNRGBA(before.Bounds())
	bp := before.Pix()
	w, h := before.Width(), before.Height()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := before.Offset(x, y)
			a := after.At(x, y)
			dst.Pix[i] = enhance(bp[i], a.R)
			dst.Pix[i+1] = enhance(bp[i+1], a.G)
			dst.Pix[i+2] = enhance(bp[i+2], a.B)
			dst.Pix[i+3] = 255
		}
	}
	return dst
}

func enhance(a, b uint8) uint8 {
	d := int(a) - int(b)
	if d < 0 {
		d = -d
	}
	d *= EnhanceFactor
	if d > 255 {
		return 255
	}
	return uint8(d)
}

// Backend reports which implementation Difference uses.
func Backend() string {
	return differenceBackend
}
