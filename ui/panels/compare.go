package panels

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"smartdip/internal/app"
	"smartdip/internal/compare"
	"smartdip/pkg/geometry"
	"smartdip/ui/canvas"
	"smartdip/ui/prefs"
)

// ComparePanel shows the original against the selected result in one of the
// comparison modes.
type ComparePanel struct {
	session *app.Session
	engine  *compare.Engine
	prefs   *prefs.Prefs

	results    *widget.Select
	modes      *widget.RadioGroup
	blend      *widget.Slider
	blendLabel *widget.Label
	blendRow   *fyne.Container
	magnifier  *widget.Check
	view       *canvas.ImageView
	status     *widget.Label

	// mu orders applying a finished difference against redraws of the
	// other modes.
	mu       sync.Mutex
	syncing  bool
	diffPair compare.Pair
	diffImg  image.Image
	cancel   context.CancelFunc
	pending  sync.WaitGroup

	difference func(ctx context.Context) (*image.NRGBA, error)

	content fyne.CanvasObject
}

// NewComparePanel creates the panel for the session's comparison engine.
func NewComparePanel(session *app.Session, p *prefs.Prefs, defaultMode compare.Mode) *ComparePanel {
	cp := &ComparePanel{
		session: session,
		engine:  session.Compare(),
		prefs:   p,
		view:    canvas.NewImageView(),
		status:  widget.NewLabel(""),
	}
	cp.view.SetSmooth(true)
	cp.difference = cp.engine.RunPairDifference

	cp.results = widget.NewSelect(nil, func(string) {
		if cp.syncing {
			return
		}
		if i := cp.results.SelectedIndex(); i >= 0 {
			if err := cp.session.SelectResult(i); err != nil {
				log.Printf("compare: %v", err)
			}
		}
	})
	cp.results.PlaceHolder = "(no results)"

	var titles []string
	for _, m := range compare.Modes() {
		titles = append(titles, m.Title())
	}
	cp.modes = widget.NewRadioGroup(titles, cp.onModeSelected)
	cp.modes.Horizontal = true
	cp.modes.Required = true

	cp.blend = widget.NewSlider(0, 100)
	cp.blend.Step = 1
	cp.blend.Value = cp.engine.BlendOpacity()
	cp.blendLabel = widget.NewLabel(cp.engine.BlendLabel())
	cp.blend.OnChanged = func(v float64) {
		if cp.syncing {
			return
		}
		cp.engine.SetBlendOpacity(v)
	}
	cp.blendRow = container.NewBorder(nil, nil, widget.NewLabel("Opacity"), cp.blendLabel, cp.blend)

	cp.magnifier = widget.NewCheck("Magnifier", func(on bool) {
		if on != cp.engine.Magnifier().Enabled {
			cp.engine.ToggleMagnifier()
		}
		if !on {
			cp.view.SetOverlay(nil)
		}
	})

	cp.bindPointer()
	cp.engine.OnChange(cp.render)

	session.On(app.EventResultsReady, func(interface{}) { cp.refreshResults() })
	session.On(app.EventImageLoaded, func(interface{}) { cp.refreshResults() })

	top := container.NewVBox(
		container.NewBorder(nil, nil, widget.NewLabel("Result"), nil, cp.results),
		container.NewHBox(cp.modes, cp.magnifier),
		cp.blendRow,
	)
	cp.content = container.NewBorder(top, cp.status, nil, nil, cp.view)

	mode, err := compare.ParseMode(p.StringWithFallback(prefs.KeyCompareMode, defaultMode.String()))
	if err != nil {
		mode = defaultMode
	}
	cp.modes.SetSelected(mode.Title())
	return cp
}

// Container returns the panel content.
func (cp *ComparePanel) Container() fyne.CanvasObject { return cp.content }

func (cp *ComparePanel) onModeSelected(title string) {
	for _, m := range compare.Modes() {
		if m.Title() == title {
			cp.prefs.SetString(prefs.KeyCompareMode, m.String())
			cp.engine.SetMode(m)
			return
		}
	}
}

func (cp *ComparePanel) bindPointer() {
	sliderMode := func() bool { return cp.engine.Mode() == compare.ModeSlider }

	cp.view.OnPress(func(pos geometry.Point2D, d geometry.Size) {
		if sliderMode() {
			cp.engine.PressSlider(pos.X, d.Width)
		}
	})
	cp.view.OnDrag(func(pos geometry.Point2D, d geometry.Size) {
		if sliderMode() {
			cp.engine.MoveSlider(pos.X, d.Width)
		}
	})
	cp.view.OnRelease(cp.engine.ReleaseSlider)
	cp.view.OnTap(func(pos geometry.Point2D, d geometry.Size) {
		if sliderMode() {
			cp.engine.ClickSlider(pos.X, d.Width)
		}
	})
	cp.view.OnHover(func(pos geometry.Point2D, d geometry.Size) {
		lens, ok := cp.engine.LocateLens(pos, d)
		if !ok {
			cp.view.SetOverlay(nil)
			return
		}
		cp.view.SetOverlay(&canvas.Overlay{
			Patches: []canvas.Patch{{Image: cp.engine.RenderLens(lens), Center: lens.Center}},
		})
	})
	cp.view.OnLeave(func() { cp.view.SetOverlay(nil) })
}

func (cp *ComparePanel) refreshResults() {
	results := cp.session.Results()
	labels := make([]string, len(results))
	for i, r := range results {
		labels[i] = fmt.Sprintf("%d. %s", i+1, r.Operation)
	}
	cp.results.Options = labels

	// The session already picked the selection and the engine redrew for it.
	cp.syncing = true
	if _, ok := cp.session.Selected(); ok && len(labels) > 0 {
		cp.results.SetSelectedIndex(len(labels) - 1)
	} else {
		cp.results.ClearSelected()
	}
	cp.syncing = false
	cp.results.Refresh()
}

// render redraws the view after any engine change.
func (cp *ComparePanel) render() {
	mode := cp.engine.Mode()

	cp.syncing = true
	cp.blend.SetValue(cp.engine.BlendOpacity())
	cp.syncing = false
	cp.blendLabel.SetText(cp.engine.BlendLabel())
	if mode == compare.ModeBlend {
		cp.blendRow.Show()
	} else {
		cp.blendRow.Hide()
	}

	pair := cp.engine.Pair()
	if !pair.Valid() {
		cp.show(nil, "Process an image to compare results")
		return
	}
	status := mode.Title()
	if !pair.SameSize() {
		status = fmt.Sprintf("Sizes differ: %dx%d vs %dx%d",
			pair.Before.Width(), pair.Before.Height(), pair.After.Width(), pair.After.Height())
	}

	if mode == compare.ModeDifference {
		cp.status.SetText(status)
		cp.renderDifference(pair)
		return
	}
	img, err := cp.engine.Render()
	if err != nil {
		cp.status.SetText(err.Error())
		return
	}
	cp.show(img, status)
}

// show replaces the view for a synchronously rendered mode and abandons any
// difference still running.
func (cp *ComparePanel) show(img image.Image, status string) {
	cp.mu.Lock()
	defer cp.mu.Unlock()
	if cp.cancel != nil {
		cp.cancel()
		cp.cancel = nil
	}
	cp.view.SetImage(img)
	cp.status.SetText(status)
}

// renderDifference runs the difference pipeline in the background. A cached
// result for the same pair is reused. A result is only applied while the
// engine is still on the view it was started for.
func (cp *ComparePanel) renderDifference(pair compare.Pair) {
	gen := cp.engine.Generation()

	cp.mu.Lock()
	if cp.diffImg != nil && cp.diffPair == pair {
		cp.view.SetImage(cp.diffImg)
		cp.mu.Unlock()
		return
	}
	if cp.cancel != nil {
		cp.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	cp.cancel = cancel
	cp.mu.Unlock()

	cp.status.SetText("Computing difference...")
	cp.pending.Add(1)
	go func() {
		defer cp.pending.Done()
		defer cancel()
		img, err := cp.difference(ctx)
		switch {
		case errors.Is(err, compare.ErrStale), errors.Is(err, context.Canceled):
			return
		case errors.Is(err, compare.ErrDecodeTimeout):
			if cp.engine.Current(gen) {
				cp.status.SetText("Difference timed out")
			}
			return
		case err != nil:
			log.Printf("compare: difference: %v", err)
			if cp.engine.Current(gen) {
				cp.status.SetText("Difference failed: " + err.Error())
			}
			return
		}

		cp.mu.Lock()
		defer cp.mu.Unlock()
		if !cp.engine.Current(gen) {
			return
		}
		cp.diffPair, cp.diffImg = pair, img
		cp.view.SetImage(img)
		cp.status.SetText(fmt.Sprintf("Difference (%s)", compare.Backend()))
	}()
}
