package compare

import (
	"context"
	"fmt"
	"image"
	"sync"
	"time"

	"smartdip/pkg/geometry"
)

// DefaultBlendOpacity is the blend opacity after a reset, in percent.
const DefaultBlendOpacity = 50.0

// Engine owns the comparison state for one displayed pair: the active mode,
// the slider, the blend opacity and the magnifier. Changing the mode or the
// pair resets the slider and opacity and invalidates pending difference runs.
type Engine struct {
	mu            sync.Mutex
	pair          Pair
	mode          Mode
	slider        Slider
	blend         float64
	magnifier     Magnifier
	decodeTimeout time.Duration
	generation    uint64
	onChange      func()
}

// NewEngine creates an engine in slider mode.
func NewEngine(pair Pair) *Engine {
	return &Engine{
		pair:          pair,
		mode:          ModeSlider,
		slider:        NewSlider(),
		blend:         DefaultBlendOpacity,
		magnifier:     NewMagnifier(),
		decodeTimeout: DefaultDecodeTimeout,
	}
}

// OnChange registers a callback invoked after any state change that affects
// the rendered view.
func (e *Engine) OnChange(fn func()) {
	e.mu.Lock()
	e.onChange = fn
	e.mu.Unlock()
}

// Configure sets magnifier geometry and the difference timeout. Zero values
// keep the current setting.
func (e *Engine) Configure(radius, zoom float64, decodeTimeout time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if radius > 0 {
		e.magnifier.Radius = radius
	}
	if zoom > 0 {
		e.magnifier.Zoom = zoom
	}
	if decodeTimeout > 0 {
		e.decodeTimeout = decodeTimeout
	}
}

func (e *Engine) changed() {
	e.mu.Lock()
	fn := e.onChange
	e.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// resetLocked discards all per-mode state.
func (e *Engine) resetLocked() {
	e.slider = NewSlider()
	e.blend = DefaultBlendOpacity
	e.generation++
}

// Generation identifies the current view. It changes whenever the mode or
// pair changes.
func (e *Engine) Generation() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.generation
}

// Current reports whether a difference started at gen may still be shown.
func (e *Engine) Current(gen uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return gen == e.generation && e.mode == ModeDifference
}

// Pair returns the current pair.
func (e *Engine) Pair() Pair {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pair
}

// SetPair replaces the pair and rebuilds the view from scratch.
func (e *Engine) SetPair(p Pair) {
	e.mu.Lock()
	e.pair = p
	e.resetLocked()
	e.mu.Unlock()
	e.changed()
}

// Mode returns the active mode.
func (e *Engine) Mode() Mode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mode
}

// SetMode switches modes. Selecting a mode always resets per-mode state,
// including when it is already active.
func (e *Engine) SetMode(m Mode) {
	e.mu.Lock()
	e.mode = m
	e.resetLocked()
	e.mu.Unlock()
	e.changed()
}

// SliderPosition returns the divider position in percent.
func (e *Engine) SliderPosition() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.slider.Position()
}

// Dragging reports whether the slider handle is held.
func (e *Engine) Dragging() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.slider.Dragging()
}

// PressSlider begins a drag if x is on the handle.
func (e *Engine) PressSlider(x, width float64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.slider.Press(x, width)
}

// MoveSlider follows the pointer while dragging.
func (e *Engine) MoveSlider(x, width float64) bool {
	e.mu.Lock()
	moved := e.slider.Move(x, width)
	e.mu.Unlock()
	if moved {
		e.changed()
	}
	return moved
}

// ReleaseSlider ends a drag.
func (e *Engine) ReleaseSlider() {
	e.mu.Lock()
	e.slider.Release()
	e.mu.Unlock()
}

// ClickSlider jumps the divider unless the click is on the handle.
func (e *Engine) ClickSlider(x, width float64) bool {
	e.mu.Lock()
	moved := e.slider.Click(x, width)
	e.mu.Unlock()
	if moved {
		e.changed()
	}
	return moved
}

// BlendOpacity returns the top image's opacity in percent.
func (e *Engine) BlendOpacity() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.blend
}

// SetBlendOpacity sets the opacity, clamped to [0,100], and returns it.
func (e *Engine) SetBlendOpacity(v float64) float64 {
	e.mu.Lock()
	e.blend = clampPercent(v)
	v = e.blend
	e.mu.Unlock()
	e.changed()
	return v
}

// BlendLabel formats the opacity for display, e.g. "50%".
func (e *Engine) BlendLabel() string {
	return fmt.Sprintf("%.0f%%", e.BlendOpacity())
}

// Magnifier returns the magnifier settings.
func (e *Engine) Magnifier() Magnifier {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.magnifier
}

// ToggleMagnifier flips the magnifier on or off and returns the new state.
func (e *Engine) ToggleMagnifier() bool {
	e.mu.Lock()
	e.magnifier.Enabled = !e.magnifier.Enabled
	on := e.magnifier.Enabled
	e.mu.Unlock()
	e.changed()
	return on
}

// LocateLens positions the magnifier for a pointer over the slider area.
// It returns false while the magnifier is off, outside slider mode, or when
// the pointer is outside the area.
func (e *Engine) LocateLens(pos geometry.Point2D, displayed geometry.Size) (Lens, bool) {
	e.mu.Lock()
	m, mode, divider, pair := e.magnifier, e.mode, e.slider.Position(), e.pair
	e.mu.Unlock()

	if !m.Enabled || mode != ModeSlider || !pair.Valid() {
		return Lens{}, false
	}
	return m.Locate(pos, displayed, divider, pair.Before.Width())
}

// RenderLens renders the magnifier at lens.
func (e *Engine) RenderLens(lens Lens) *image.NRGBA {
	e.mu.Lock()
	m, pair := e.magnifier, e.pair
	e.mu.Unlock()

	src := pair.Before
	if lens.Side == SideAfter {
		src = pair.After
	}
	return RenderLens(src, lens, m.Radius, m.Zoom)
}

// Render draws the synchronous modes. Difference mode goes through
// RunDifference instead.
func (e *Engine) Render() (*image.NRGBA, error) {
	e.mu.Lock()
	pair, mode, pos, blend := e.pair, e.mode, e.slider.Position(), e.blend
	e.mu.Unlock()

	if !pair.Valid() {
		return nil, fmt.Errorf("no comparison pair loaded")
	}
	switch mode {
	case ModeSlider:
		return RenderSlider(pair, pos), nil
	case ModeSideBySide:
		return RenderSideBySide(pair), nil
	case ModeBlend:
		return RenderBlend(pair, blend), nil
	case ModeDifference:
		return Difference(pair.Before, pair.After), nil
	}
	return nil, fmt.Errorf("unknown comparison mode %d", mode)
}

// RunDifference runs the difference pipeline over the given sources. When the
// mode or pair changes while it runs, the result is discarded and ErrStale is
// returned.
func (e *Engine) RunDifference(ctx context.Context, before, after Source) (*image.NRGBA, error) {
	e.mu.Lock()
	gen, timeout := e.generation, e.decodeTimeout
	e.mu.Unlock()

	out, err := DiffPipeline{Before: before, After: after, Timeout: timeout}.Run(ctx)

	if !e.Current(gen) {
		return nil, ErrStale
	}
	return out, err
}

// RunPairDifference runs the pipeline over the engine's own pair.
func (e *Engine) RunPairDifference(ctx context.Context) (*image.NRGBA, error) {
	p := e.Pair()
	return e.RunDifference(ctx, Decoded(p.Before), Decoded(p.After))
}
