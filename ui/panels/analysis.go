package panels

import (
	"fmt"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"smartdip/internal/app"
	"smartdip/internal/colormap"
	"smartdip/internal/config"
	"smartdip/internal/histogram"
	"smartdip/internal/raster"
	"smartdip/internal/roizoom"
	"smartdip/internal/surface"
	"smartdip/pkg/geometry"
	"smartdip/ui/canvas"
	"smartdip/ui/prefs"
)

const (
	sourceOriginal = "Original"
	sourceResult   = "Result"
)

// AnalysisPanel shows the histogram, pseudo-color, surface and ROI views of
// either the original image or the selected result.
type AnalysisPanel struct {
	session *app.Session
	cfg     config.Analysis
	prefs   *prefs.Prefs

	source *widget.RadioGroup

	histMode  *widget.Select
	histView  *canvas.ImageView
	histStats *widget.Label

	cmapSelect *widget.Select
	cmapView   *canvas.ImageView
	cmapBar    *canvas.ImageView

	surfaceView *canvas.ImageView

	roiEntry  *widget.Entry
	zoomEntry *widget.Entry
	roiView   *canvas.ImageView
	roiError  *widget.Label

	content fyne.CanvasObject
}

// NewAnalysisPanel creates the panel and subscribes it to session changes.
func NewAnalysisPanel(session *app.Session, cfg config.Analysis, p *prefs.Prefs) *AnalysisPanel {
	ap := &AnalysisPanel{session: session, cfg: cfg, prefs: p}

	ap.source = widget.NewRadioGroup([]string{sourceOriginal, sourceResult}, func(string) { ap.Update() })
	ap.source.Horizontal = true
	ap.source.SetSelected(sourceOriginal)

	modes := []string{string(histogram.ModeGray), string(histogram.ModeRGB), string(histogram.ModeHSV)}
	ap.histMode = widget.NewSelect(modes, func(s string) {
		ap.prefs.SetString(prefs.KeyHistogramMode, s)
		ap.updateHistogram()
	})
	ap.histView = canvas.NewImageView()
	ap.histView.SetMinSize(fyne.NewSize(histogram.CanvasWidth*2, histogram.CanvasHeight*2))
	ap.histStats = widget.NewLabel("")
	ap.histStats.TextStyle = fyne.TextStyle{Monospace: true}

	var names []string
	for _, n := range colormap.Names() {
		names = append(names, string(n))
	}
	ap.cmapSelect = widget.NewSelect(names, func(s string) {
		ap.prefs.SetString(prefs.KeyColormap, s)
		ap.updateColormap()
	})
	ap.cmapView = canvas.NewImageView()
	ap.cmapView.SetSmooth(true)
	ap.cmapBar = canvas.NewImageView()
	ap.cmapBar.SetMinSize(fyne.NewSize(256, 16))

	ap.surfaceView = canvas.NewImageView()
	ap.surfaceView.SetMinSize(fyne.NewSize(surface.CanvasWidth, surface.CanvasHeight))

	ap.roiEntry = widget.NewEntry()
	ap.roiEntry.SetPlaceHolder("x,y,w,h")
	ap.zoomEntry = widget.NewEntry()
	ap.zoomEntry.SetText(strconv.Itoa(cfg.ZoomFactor))
	ap.roiView = canvas.NewImageView()
	ap.roiView.SetSmooth(true)
	ap.roiError = widget.NewLabel("")
	renderROI := widget.NewButton("Render", ap.updateROI)

	histTab := container.NewBorder(
		container.NewHBox(widget.NewLabel("Mode"), ap.histMode),
		ap.histStats, nil, nil, ap.histView)
	cmapTab := container.NewBorder(
		container.NewHBox(widget.NewLabel("Colormap"), ap.cmapSelect),
		ap.cmapBar, nil, nil, ap.cmapView)
	roiForm := widget.NewForm(
		widget.NewFormItem("Region", ap.roiEntry),
		widget.NewFormItem("Zoom", ap.zoomEntry),
	)
	roiTab := container.NewBorder(
		container.NewVBox(roiForm, renderROI, ap.roiError),
		nil, nil, nil, ap.roiView)

	tabs := container.NewAppTabs(
		container.NewTabItem("Histogram", histTab),
		container.NewTabItem("Pseudo-color", cmapTab),
		container.NewTabItem("3D Surface", ap.surfaceView),
		container.NewTabItem("ROI Zoom", roiTab),
	)
	ap.content = container.NewBorder(ap.source, nil, nil, nil, tabs)

	ap.histMode.SetSelected(p.StringWithFallback(prefs.KeyHistogramMode, cfg.HistogramMode))
	ap.cmapSelect.SetSelected(p.StringWithFallback(prefs.KeyColormap, cfg.Colormap))

	session.On(app.EventImageLoaded, func(interface{}) {
		ap.resetROI()
		ap.Update()
	})
	session.On(app.EventUploaded, func(interface{}) { ap.Update() })
	session.On(app.EventResultsReady, func(interface{}) { ap.Update() })
	session.On(app.EventResultSelected, func(interface{}) { ap.Update() })
	return ap
}

// Container returns the panel content.
func (ap *AnalysisPanel) Container() fyne.CanvasObject { return ap.content }

// image returns the image under analysis, or nil.
func (ap *AnalysisPanel) image() *raster.Image {
	if ap.source.Selected == sourceResult {
		if res, ok := ap.session.Selected(); ok {
			return res.Image
		}
		return nil
	}
	return ap.session.Image()
}

// Update re-renders every view for the current source.
func (ap *AnalysisPanel) Update() {
	ap.updateHistogram()
	ap.updateColormap()
	ap.updateSurface()
	ap.updateROI()
}

func (ap *AnalysisPanel) updateHistogram() {
	if ap.histView == nil {
		return
	}
	img := ap.image()
	if img == nil {
		ap.histView.SetImage(nil)
		ap.histStats.SetText("")
		return
	}
	mode, err := histogram.ParseMode(ap.histMode.Selected)
	if err != nil {
		mode = histogram.ModeRGB
	}
	data := histogram.Compute(img)
	ap.histView.SetImage(histogram.Render(data, mode))
	ap.histStats.SetText(statsText(data, mode))
}

// statsText lists the statistics of the channels a mode draws.
func statsText(d *histogram.Data, mode histogram.Mode) string {
	channels := []histogram.Channel{histogram.Red, histogram.Green, histogram.Blue}
	if mode == histogram.ModeGray {
		channels = []histogram.Channel{histogram.Luminance}
	}
	lines := make([]string, len(channels))
	for i, c := range channels {
		lines[i] = fmt.Sprintf("%-9s %s", c, d.Stats(c))
	}
	return strings.Join(lines, "\n")
}

func (ap *AnalysisPanel) updateColormap() {
	if ap.cmapView == nil {
		return
	}
	name, err := colormap.Parse(ap.cmapSelect.Selected)
	if err != nil {
		name = colormap.Jet
	}
	ap.cmapBar.SetImage(colormap.Bar(name, 256, 16))

	img := ap.image()
	if img == nil {
		ap.cmapView.SetImage(nil)
		return
	}
	ap.cmapView.SetImage(colormap.PseudoColor(img, name))
}

func (ap *AnalysisPanel) updateSurface() {
	if ap.surfaceView == nil {
		return
	}
	img := ap.image()
	if img == nil {
		ap.surfaceView.SetImage(nil)
		return
	}
	ap.surfaceView.SetImage(surface.RenderGrid(surface.Sample(img, ap.cfg.SurfaceColumns, ap.cfg.SurfaceRows)))
}

func (ap *AnalysisPanel) resetROI() {
	img := ap.session.Image()
	if img == nil {
		return
	}
	ap.roiEntry.SetText(formatROI(defaultROI(img.Width(), img.Height())))
}

func (ap *AnalysisPanel) updateROI() {
	if ap.roiView == nil {
		return
	}
	img := ap.image()
	if img == nil || ap.roiEntry.Text == "" {
		ap.roiView.SetImage(nil)
		return
	}
	res, err := renderROI(img, ap.roiEntry.Text, ap.zoomEntry.Text)
	if err != nil {
		ap.roiError.SetText(err.Error())
		ap.roiView.SetImage(nil)
		return
	}
	ap.roiError.SetText("")
	ap.roiView.SetImage(res.Composite)
}

// renderROI parses the ROI and zoom fields and renders the composite.
func renderROI(img *raster.Image, roiText, zoomText string) (*roizoom.Result, error) {
	roi, err := geometry.ParseRectInt(strings.ReplaceAll(roiText, " ", ""))
	if err != nil {
		return nil, err
	}
	zoom := 0
	if zoomText = strings.TrimSpace(zoomText); zoomText != "" {
		if zoom, err = strconv.Atoi(zoomText); err != nil {
			return nil, fmt.Errorf("zoom factor %q is not an integer", zoomText)
		}
	}
	return roizoom.Render(img, roi, zoom)
}
