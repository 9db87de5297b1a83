package compare

import (
	"context"
	"errors"
	"image/color"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartdip/internal/raster"
	"smartdip/internal/raster/rastertest"
	"smartdip/pkg/geometry"
)

func testPair() Pair {
	return Pair{
		Before: rastertest.Solid(20, 10, 200, 100, 0),
		After:  rastertest.Solid(20, 10, 0, 100, 200),
	}
}

func TestParseMode(t *testing.T) {
	for _, m := range Modes() {
		got, err := ParseMode(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
	_, err := ParseMode("overlay")
	assert.Error(t, err)
}

func TestModeSwitchResetsBlendOpacity(t *testing.T) {
	e := NewEngine(testPair())
	e.SetMode(ModeBlend)
	assert.Equal(t, "50%", e.BlendLabel())

	assert.Equal(t, 80.0, e.SetBlendOpacity(80))
	assert.Equal(t, "80%", e.BlendLabel())

	e.SetMode(ModeDifference)
	e.SetMode(ModeBlend)
	assert.Equal(t, DefaultBlendOpacity, e.BlendOpacity())
	assert.Equal(t, "50%", e.BlendLabel())
}

func TestBlendOpacityClamped(t *testing.T) {
	e := NewEngine(testPair())
	assert.Equal(t, 100.0, e.SetBlendOpacity(250))
	assert.Equal(t, 0.0, e.SetBlendOpacity(-4))
}

func TestModeSwitchResetsSlider(t *testing.T) {
	e := NewEngine(testPair())
	require.True(t, e.PressSlider(100, 200))
	require.True(t, e.MoveSlider(20, 200))
	assert.Equal(t, 10.0, e.SliderPosition())

	e.SetMode(ModeSideBySide)
	e.SetMode(ModeSlider)
	assert.Equal(t, DefaultSliderPosition, e.SliderPosition())
	assert.False(t, e.Dragging())
}

func TestOnChangeFires(t *testing.T) {
	e := NewEngine(testPair())
	calls := 0
	e.OnChange(func() { calls++ })

	e.SetMode(ModeBlend)
	e.SetBlendOpacity(10)
	e.ClickSlider(10, 200)
	assert.False(t, e.MoveSlider(30, 200))
	assert.Equal(t, 3, calls)
}

func TestRenderModes(t *testing.T) {
	e := NewEngine(testPair())
	for _, m := range Modes() {
		e.SetMode(m)
		img, err := e.Render()
		require.NoError(t, err, m.String())
		if m == ModeSideBySide {
			assert.Equal(t, 20+SideBySideGap+20, img.Bounds().Dx())
		} else {
			assert.Equal(t, 20, img.Bounds().Dx())
		}
	}

	_, err := NewEngine(Pair{}).Render()
	assert.Error(t, err)
}

func TestRenderSlider(t *testing.T) {
	p := testPair()
	img := RenderSlider(p, 50)
	assert.Equal(t, color.NRGBA{R: 200, G: 100, A: 255}, img.NRGBAAt(2, 5))
	assert.Equal(t, color.NRGBA{G: 100, B: 200, A: 255}, img.NRGBAAt(17, 5))
	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, img.NRGBAAt(10, 5))

	all := RenderSlider(p, 100)
	assert.Equal(t, p.Before.Pix(), all.Pix)
}

func TestRenderSideBySideMismatchedSizes(t *testing.T) {
	p := Pair{Before: rastertest.Solid(5, 3, 255, 0, 0), After: rastertest.Solid(8, 6, 0, 0, 255)}
	img := RenderSideBySide(p)
	assert.Equal(t, 5+SideBySideGap+8, img.Bounds().Dx())
	assert.Equal(t, 6, img.Bounds().Dy())
	assert.Equal(t, color.NRGBA{R: 255, A: 255}, img.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{}, img.NRGBAAt(0, 5))
	assert.Equal(t, color.NRGBA{B: 255, A: 255}, img.NRGBAAt(5+SideBySideGap, 5))
}

func TestRenderBlend(t *testing.T) {
	p := Pair{Before: rastertest.Solid(2, 2, 0, 0, 0), After: rastertest.Solid(2, 2, 200, 100, 50)}

	assert.Equal(t, p.Before.Pix(), RenderBlend(p, 0).Pix)

	full := RenderBlend(p, 100)
	assert.Equal(t, color.NRGBA{R: 200, G: 100, B: 50, A: 255}, full.NRGBAAt(1, 1))

	half := RenderBlend(p, 50).NRGBAAt(0, 0)
	assert.InDelta(t, 100, int(half.R), 1)
	assert.InDelta(t, 50, int(half.G), 1)
	assert.InDelta(t, 25, int(half.B), 1)
}

func TestDifferenceOfIdenticalImages(t *testing.T) {
	img := rastertest.Checkerboard(9, 7, 2)
	d := Difference(img, img)
	for i := 0; i < len(d.Pix); i += 4 {
		require.Equal(t, []uint8{0, 0, 0, 255}, d.Pix[i:i+4])
	}
}

func TestDifferenceEnhancesAndSaturates(t *testing.T) {
	before := rastertest.Solid(2, 1, 100, 10, 250)
	after := rastertest.Solid(2, 1, 60, 20, 0)
	d := Difference(before, after)
	assert.Equal(t, []uint8{80, 20, 255, 255}, d.Pix[0:4])
}

func TestDifferenceUsesBeforeSize(t *testing.T) {
	before := rastertest.Solid(4, 2, 10, 10, 10)
	after := rastertest.Solid(2, 2, 10, 10, 10)
	d := Difference(before, after)
	assert.Equal(t, before.Bounds(), d.Bounds())
	assert.Equal(t, color.NRGBA{A: 255}, d.NRGBAAt(1, 1))
	assert.Equal(t, color.NRGBA{R: 20, G: 20, B: 20, A: 255}, d.NRGBAAt(3, 1))
}

func TestPipelineOrdersDecodes(t *testing.T) {
	var order []string
	src := func(name string, img *raster.Image) Source {
		return func(context.Context) (*raster.Image, error) {
			order = append(order, name)
			return img, nil
		}
	}
	p := testPair()
	out, err := DiffPipeline{Before: src("before", p.Before), After: src("after", p.After)}.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"before", "after"}, order)
	assert.Equal(t, color.NRGBA{R: 255, G: 0, B: 255, A: 255}, out.NRGBAAt(0, 0))
}

func TestPipelineDecodeFailure(t *testing.T) {
	boom := errors.New("corrupt")
	calledAfter := false
	_, err := DiffPipeline{
		Before: func(context.Context) (*raster.Image, error) { return nil, boom },
		After: func(context.Context) (*raster.Image, error) {
			calledAfter = true
			return nil, nil
		},
	}.Run(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "decode before")
	assert.False(t, calledAfter)

	_, err = DiffPipeline{Before: Decoded(testPair().Before), After: Encoded([]byte("nope"))}.Run(context.Background())
	assert.ErrorContains(t, err, "decode after")
}

func TestPipelineTimeout(t *testing.T) {
	block := make(chan struct{})
	defer close(block)
	_, err := DiffPipeline{
		Before: Decoded(testPair().Before),
		After: func(context.Context) (*raster.Image, error) {
			<-block
			return nil, nil
		},
		Timeout: 20 * time.Millisecond,
	}.Run(context.Background())
	assert.ErrorIs(t, err, ErrDecodeTimeout)
}

func TestRunDifferenceStaleAfterModeSwitch(t *testing.T) {
	e := NewEngine(testPair())
	e.SetMode(ModeDifference)

	out, err := e.RunPairDifference(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, out)

	release := make(chan struct{})
	started := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		_, err := e.RunDifference(context.Background(), Decoded(testPair().Before), func(context.Context) (*raster.Image, error) {
			close(started)
			<-release
			return testPair().After, nil
		})
		done <- err
	}()
	<-started
	e.SetMode(ModeBlend)
	close(release)
	assert.ErrorIs(t, <-done, ErrStale)
}

func TestCurrentGeneration(t *testing.T) {
	e := NewEngine(testPair())
	gen := e.Generation()
	assert.False(t, e.Current(gen), "slider mode never shows a difference")

	e.SetMode(ModeDifference)
	gen = e.Generation()
	assert.True(t, e.Current(gen))

	e.SetPair(testPair())
	assert.False(t, e.Current(gen))
	gen = e.Generation()

	e.SetMode(ModeDifference)
	assert.False(t, e.Current(gen), "re-selecting the mode supersedes the run")
}

func TestMagnifier(t *testing.T) {
	e := NewEngine(testPair())
	size := geometry.NewSize(40, 20)

	_, ok := e.LocateLens(geometry.NewPoint2D(5, 5), size)
	assert.False(t, ok, "disabled magnifier")

	require.True(t, e.ToggleMagnifier())
	m := e.Magnifier()
	assert.Equal(t, DefaultMagnifierRadius, m.Radius)
	assert.Equal(t, DefaultMagnifierZoom, m.Zoom)

	lens, ok := e.LocateLens(geometry.NewPoint2D(5, 5), size)
	require.True(t, ok)
	assert.Equal(t, SideBefore, lens.Side)
	assert.Equal(t, geometry.NewPoint2D(2.5, 2.5), lens.Source)

	lens, ok = e.LocateLens(geometry.NewPoint2D(30, 5), size)
	require.True(t, ok)
	assert.Equal(t, SideAfter, lens.Side)

	_, ok = e.LocateLens(geometry.NewPoint2D(41, 5), size)
	assert.False(t, ok)

	img := e.RenderLens(lens)
	assert.Equal(t, 150, img.Bounds().Dx())
	center := img.NRGBAAt(75, 75)
	assert.Equal(t, color.NRGBA{G: 100, B: 200, A: 255}, center)
	assert.Zero(t, img.NRGBAAt(0, 0).A)

	assert.False(t, e.ToggleMagnifier())
}

func TestConfigure(t *testing.T) {
	e := NewEngine(testPair())
	e.Configure(40, 4, time.Second)
	m := e.Magnifier()
	assert.Equal(t, 40.0, m.Radius)
	assert.Equal(t, 4.0, m.Zoom)
	e.Configure(0, 0, 0)
	assert.Equal(t, 40.0, e.Magnifier().Radius)
}
