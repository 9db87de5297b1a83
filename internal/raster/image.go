// Package raster provides the immutable RGBA pixel view every analysis tool
// reads from, plus decoding of uploaded and processed images.
package raster

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"smartdip/pkg/geometry"
)

var (
	// ErrEmptyImage is returned for images with no pixels.
	ErrEmptyImage = errors.New("empty image")
	// ErrOutOfBounds is returned when a coordinate or region falls outside
	// the image.
	ErrOutOfBounds = errors.New("out of bounds")
)

// Pixel is one non-premultiplied RGBA sample.
type Pixel struct {
	R, G, B, A uint8
}

// Luminance returns the pixel's luminance.
func (p Pixel) Luminance() uint8 {
	return Luminance(p.R, p.G, p.B)
}

// Color returns the pixel as a color.NRGBA.
func (p Pixel) Color() color.NRGBA {
	return color.NRGBA{R: p.R, G: p.G, B: p.B, A: p.A}
}

// Luminance returns round(0.299R + 0.587G + 0.114B). The result is always
// within [0,255] for 8-bit inputs.
func Luminance(r, g, b uint8) uint8 {
	l := math.Round(0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b))
	if l > 255 {
		l = 255
	}
	return uint8(l)
}

// Mean returns the unweighted mean of the three color channels.
func Mean(r, g, b uint8) float64 {
	return (float64(r) + float64(g) + float64(b)) / 3
}

// Image is an immutable row-major RGBA pixel grid, 4 bytes per pixel.
// Every transformation produces a new Image or a new drawable; nothing
// writes into pix after construction.
type Image struct {
	width  int
	height int
	pix    []uint8
}

// New creates an Image from a copy of pix.
func New(width, height int, pix []uint8) (*Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrEmptyImage, width, height)
	}
	if len(pix) != width*height*4 {
		return nil, fmt.Errorf("pixel buffer has %d bytes, want %d", len(pix), width*height*4)
	}
	buf := make([]uint8, len(pix))
	copy(buf, pix)
	return &Image{width: width, height: height, pix: buf}, nil
}

// FromImage snapshots any image.Image as non-premultiplied RGBA.
func FromImage(src image.Image) *Image {
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return fromNRGBA(dst)
}

// fromNRGBA takes ownership of a tightly packed NRGBA.
func fromNRGBA(img *image.NRGBA) *Image {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if img.Stride == w*4 && img.Rect.Min == (image.Point{}) {
		return &Image{width: w, height: h, pix: img.Pix}
	}
	pix := make([]uint8, w*h*4)
	for y := 0; y < h; y++ {
		row := img.Pix[img.PixOffset(img.Rect.Min.X, img.Rect.Min.Y+y):]
		copy(pix[y*w*4:(y+1)*w*4], row[:w*4])
	}
	return &Image{width: w, height: h, pix: pix}
}

// Width returns the image width in pixels.
func (im *Image) Width() int { return im.width }

// Height returns the image height in pixels.
func (im *Image) Height() int { return im.height }

// Bounds returns the image rectangle anchored at the origin.
func (im *Image) Bounds() image.Rectangle {
	return image.Rect(0, 0, im.width, im.height)
}

// Len returns the number of pixels.
func (im *Image) Len() int { return im.width * im.height }

// Contains reports whether (x, y) is a pixel of the image.
func (im *Image) Contains(x, y int) bool {
	return x >= 0 && y >= 0 && x < im.width && y < im.height
}

// Offset returns the index of the first byte of pixel (x, y) in Pix.
func (im *Image) Offset(x, y int) int {
	return (y*im.width + x) * 4
}

// At returns the pixel at (x, y). Coordinates outside the image return the
// zero Pixel.
func (im *Image) At(x, y int) Pixel {
	if !im.Contains(x, y) {
		return Pixel{}
	}
	i := im.Offset(x, y)
	return Pixel{R: im.pix[i], G: im.pix[i+1], B: im.pix[i+2], A: im.pix[i+3]}
}

// Pix returns the backing RGBA samples. Callers must not modify the slice.
func (im *Image) Pix() []uint8 { return im.pix }

// Region extracts the RGBA samples of r as a new Image.
func (im *Image) Region(r geometry.RectInt) (*Image, error) {
	if err := r.Within(im.width, im.height); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOutOfBounds, err)
	}
	pix := make([]uint8, r.Width*r.Height*4)
	for y := 0; y < r.Height; y++ {
		start := im.Offset(r.X, r.Y+y)
		copy(pix[y*r.Width*4:(y+1)*r.Width*4], im.pix[start:start+r.Width*4])
	}
	return &Image{width: r.Width, height: r.Height, pix: pix}, nil
}

// ToNRGBA returns a mutable copy suitable for drawing on.
func (im *Image) ToNRGBA() *image.NRGBA {
	dst := image.NewNRGBA(im.Bounds())
	copy(dst.Pix, im.pix)
	return dst
}

// Std returns an image.Image view sharing the pixel buffer, for use as a
// source with image/draw and encoders. It must not be drawn into.
func (im *Image) Std() image.Image {
	return &image.NRGBA{Pix: im.pix, Stride: im.width * 4, Rect: im.Bounds()}
}
