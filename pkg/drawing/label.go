package drawing

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

// DefaultLabelSize is the point size used for captions.
const DefaultLabelSize = 12

var (
	fontOnce  sync.Once
	labelFont *truetype.Font
	fontErr   error
)

func loadFont() (*truetype.Font, error) {
	fontOnce.Do(func() {
		labelFont, fontErr = freetype.ParseFont(goregular.TTF)
	})
	return labelFont, fontErr
}

// Label draws text with its baseline starting at (x, y).
func Label(dst draw.Image, text string, x, y int, col color.Color, size float64) error {
	f, err := loadFont()
	if err != nil {
		return fmt.Errorf("failed to load label font: %w", err)
	}

	c := freetype.NewContext()
	c.SetDPI(72)
	c.SetFont(f)
	c.SetFontSize(size)
	c.SetClip(dst.Bounds())
	c.SetDst(dst)
	c.SetSrc(image.NewUniform(col))
	c.SetHinting(font.HintingFull)

	if _, err := c.DrawString(text, freetype.Pt(x, y)); err != nil {
		return fmt.Errorf("failed to draw label %q: %w", text, err)
	}
	return nil
}

// LabelHeight returns the line height in pixels for size, rounded up.
func LabelHeight(size float64) int {
	f, err := loadFont()
	if err != nil {
		return int(size) + 4
	}
	face := truetype.NewFace(f, &truetype.Options{Size: size, DPI: 72})
	defer face.Close()
	m := face.Metrics()
	return (m.Ascent + m.Descent).Ceil()
}

// Ascent returns the distance from the top of a line to its baseline.
func Ascent(size float64) int {
	f, err := loadFont()
	if err != nil {
		return int(size)
	}
	face := truetype.NewFace(f, &truetype.Options{Size: size, DPI: 72})
	defer face.Close()
	return face.Metrics().Ascent.Ceil()
}
