//go:build gocv

package compare

import (
	"image"
	"image/draw"
	"log"

	"gocv.io/x/gocv"

	"smartdip/internal/raster"
)

func init() {
	differenceFunc = differenceCV
	differenceBackend = "opencv"
}

// matFromNRGBA converts an NRGBA buffer to a BGR Mat.
func matFromNRGBA(img *image.NRGBA) (gocv.Mat, error) {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	mat, err := gocv.NewMatFromBytes(h, w, gocv.MatTypeCV8UC4, img.Pix)
	if err != nil {
		return gocv.Mat{}, err
	}

	bgr := gocv.NewMat()
	gocv.CvtColor(mat, &bgr, gocv.ColorRGBAToBGR)
	mat.Close()

	return bgr, nil
}

func differenceCV(before, after *raster.Image) *image.NRGBA {
	b := before.ToNRGBA()
	a := image.NewNRGBA(before.Bounds())
	draw.Draw(a, a.Bounds(), after.Std(), image.Point{}, draw.Src)

	bm, err := matFromNRGBA(b)
	if err != nil {
		log.Printf("compare: opencv difference unavailable: %v", err)
		return differenceGo(before, after)
	}
	defer bm.Close()
	am, err := matFromNRGBA(a)
	if err != nil {
		log.Printf("compare: opencv difference unavailable: %v", err)
		return differenceGo(before, after)
	}
	defer am.Close()

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(bm, am, &diff)

	scaled := gocv.NewMat()
	defer scaled.Close()
	gocv.ConvertScaleAbs(diff, &scaled, EnhanceFactor, 0)

	dst := image.NewNRGBA(before.Bounds())
	for y := 0; y < scaled.Rows(); y++ {
		for x := 0; x < scaled.Cols(); x++ {
			vec := scaled.GetVecbAt(y, x)
			i := dst.PixOffset(x, y)
			dst.Pix[i] = vec[2]
			dst.Pix[i+1] = vec[1]
			dst.Pix[i+2] = vec[0]
			dst.Pix[i+3] = 255
		}
	}
	return dst
}
