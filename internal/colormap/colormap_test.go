package colormap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartdip/internal/raster"
	"smartdip/internal/raster/rastertest"
)

func TestJet(t *testing.T) {
	tests := []struct {
		name  string
		value int
		want  Sample
	}{
		{"zero is blue", 0, Sample{R: 0, G: 0, B: 255}},
		{"mid saturates red and green", 128, Sample{R: 255, G: 255, B: 0}},
		{"top is black", 255, Sample{R: 0, G: 0, B: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Apply(tt.value, Jet))
		})
	}
}

func TestJetRisingEdge(t *testing.T) {
	s := Apply(51, Jet)
	assert.InDelta(t, 77, s.R, 1)
	assert.InDelta(t, 77, s.G, 1)
	assert.InDelta(t, 119, s.B, 1)
}

func TestHot(t *testing.T) {
	assert.Equal(t, Sample{}, Apply(0, Hot))
	assert.Equal(t, Sample{R: 255, G: 255, B: 255}, Apply(255, Hot))

	mid := Apply(102, Hot)
	assert.Equal(t, 102, mid.R)
	assert.Zero(t, mid.G)
	assert.Zero(t, mid.B)
}

func TestHotOutOfRangeIsNotClamped(t *testing.T) {
	s := Apply(300, Hot)
	assert.Greater(t, s.R, 255)
	assert.Equal(t, uint8(255), s.RGBA().R)
}

func TestViridisEndpoints(t *testing.T) {
	assert.Equal(t, Sample{R: 68, G: 1, B: 84}, Apply(0, Viridis))
	assert.Equal(t, Sample{R: 253, G: 231, B: 37}, Apply(255, Viridis))
}

func TestUnknownNameIsGrayscale(t *testing.T) {
	assert.Equal(t, Sample{R: 42, G: 42, B: 42}, Apply(42, "plasma"))
	assert.Equal(t, Sample{R: 42, G: 42, B: 42}, Apply(42, Gray))
}

func TestApplyIsDeterministic(t *testing.T) {
	for _, n := range Names() {
		for v := 0; v < 256; v += 17 {
			assert.Equal(t, Apply(v, n), Apply(v, n))
		}
	}
}

func TestParse(t *testing.T) {
	n, err := Parse("viridis")
	require.NoError(t, err)
	assert.Equal(t, Viridis, n)

	_, err = Parse("rainbow")
	assert.Error(t, err)
}

func TestPseudoColorKeepsAlpha(t *testing.T) {
	img := rastertest.Func(2, 1, func(x, y int) (uint8, uint8, uint8, uint8) {
		if x == 0 {
			return 0, 0, 0, 255
		}
		return 255, 255, 255, 40
	})

	out := PseudoColor(img, Jet)
	assert.Equal(t, []uint8{0, 0, 255, 255}, out.Pix[0:4])
	assert.Equal(t, []uint8{0, 0, 0, 40}, out.Pix[4:8])
}

func TestPseudoColorUsesLuminance(t *testing.T) {
	img := rastertest.Solid(1, 1, 255, 0, 0)
	out := PseudoColor(img, Gray)
	l := raster.Luminance(255, 0, 0)
	assert.Equal(t, []uint8{l, l, l, 255}, out.Pix[0:4])
}

func TestBar(t *testing.T) {
	bar := Bar(Hot, 256, 4)
	assert.Equal(t, 256, bar.Bounds().Dx())
	assert.Equal(t, uint8(0), bar.NRGBAAt(0, 0).R)
	assert.Equal(t, uint8(255), bar.NRGBAAt(255, 3).B)
}
