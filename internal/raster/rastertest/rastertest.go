// Package rastertest provides image factories for tests.
package rastertest

import (
	"smartdip/internal/raster"
)

// Solid returns a w×h image filled with one opaque color.
func Solid(w, h int, r, g, b uint8) *raster.Image {
	pix := make([]uint8, w*h*4)
	for i := 0; i < len(pix); i += 4 {
		pix[i], pix[i+1], pix[i+2], pix[i+3] = r, g, b, 255
	}
	return must(raster.New(w, h, pix))
}

// HorizontalGradient returns a gray ramp from 0 at the left edge to 255 at the
// right edge.
func HorizontalGradient(w, h int) *raster.Image {
	pix := make([]uint8, w*h*4)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint8(0)
			if w > 1 {
				v = uint8(x * 255 / (w - 1))
			}
			i := (y*w + x) * 4
			pix[i], pix[i+1], pix[i+2], pix[i+3] = v, v, v, 255
		}
	}
	return must(raster.New(w, h, pix))
}

// Checkerboard returns alternating black and white cells of the given size.
func Checkerboard(w, h, cell int) *raster.Image {
	pix := make([]uint8, w*h*4)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint8(0)
			if (x/cell+y/cell)%2 == 0 {
				v = 255
			}
			i := (y*w + x) * 4
			pix[i], pix[i+1], pix[i+2], pix[i+3] = v, v, v, 255
		}
	}
	return must(raster.New(w, h, pix))
}

// Func builds an image by calling f for every pixel.
func Func(w, h int, f func(x, y int) (r, g, b, a uint8)) *raster.Image {
	pix := make([]uint8, w*h*4)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := (y*w + x) * 4
			pix[i], pix[i+1], pix[i+2], pix[i+3] = f(x, y)
		}
	}
	return must(raster.New(w, h, pix))
}

func must(img *raster.Image, err error) *raster.Image {
	if err != nil {
		panic(err)
	}
	return img
}
