//go:build gocv

package compare

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"smartdip/internal/raster/rastertest"
)

func TestOpenCVDifferenceMatchesGo(t *testing.T) {
	before := rastertest.Func(17, 9, func(x, y int) (uint8, uint8, uint8, uint8) {
		return uint8(x * 15), uint8(y * 28), uint8(x * y), 255
	})
	after := rastertest.Func(12, 9, func(x, y int) (uint8, uint8, uint8, uint8) {
		return uint8(255 - x*9), uint8(y * 3), 77, 255
	})

	assert.Equal(t, "opencv", Backend())
	assert.Equal(t, differenceGo(before, after).Pix, differenceCV(before, after).Pix)
}
