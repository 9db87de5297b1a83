package panels

import (
	"image/color"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"smartdip/internal/inspector"
	"smartdip/internal/raster"
	"smartdip/pkg/colorutil"
	"smartdip/pkg/geometry"
	"smartdip/ui/canvas"
)

// InspectorPanel shows the readouts for the pixel under the pointer in a
// bound ImageView and marks that pixel on the view.
type InspectorPanel struct {
	view      *canvas.ImageView
	inspector *inspector.Inspector
	displayed geometry.Size

	position  *widget.Label
	rgb       *widget.Label
	hsv       *widget.Label
	luminance *widget.Label
	swatch    *fynecanvas.Rectangle

	content fyne.CanvasObject
}

// NewInspectorPanel binds the panel to view's pointer events.
func NewInspectorPanel(view *canvas.ImageView) *InspectorPanel {
	ip := &InspectorPanel{
		view:      view,
		position:  widget.NewLabel(inspector.Placeholder),
		rgb:       widget.NewLabel(inspector.Placeholder),
		hsv:       widget.NewLabel(inspector.Placeholder),
		luminance: widget.NewLabel(inspector.Placeholder),
		swatch:    fynecanvas.NewRectangle(color.Transparent),
	}
	ip.swatch.SetMinSize(fyne.NewSize(48, 48))
	ip.swatch.StrokeColor = colorutil.Gray
	ip.swatch.StrokeWidth = 1

	view.OnHover(func(pos geometry.Point2D, displayed geometry.Size) {
		if ip.inspector == nil {
			return
		}
		ip.displayed = displayed
		ip.inspector.Move(pos, displayed)
	})
	view.OnLeave(func() {
		if ip.inspector != nil {
			ip.inspector.Leave()
		}
	})

	form := widget.NewForm(
		widget.NewFormItem("Position", ip.position),
		widget.NewFormItem("RGB", ip.rgb),
		widget.NewFormItem("HSV", ip.hsv),
		widget.NewFormItem("Luminance", ip.luminance),
		widget.NewFormItem("Color", container.NewHBox(ip.swatch)),
	)
	ip.content = titled("Pixel Inspector", form)
	return ip
}

// Container returns the panel content.
func (ip *InspectorPanel) Container() fyne.CanvasObject { return ip.content }

// SetImage rebinds the inspector to img. nil disables inspection.
func (ip *InspectorPanel) SetImage(img *raster.Image) {
	if img == nil {
		ip.inspector = nil
		ip.show(inspector.Readout{}, 0)
		return
	}
	in := inspector.New(img)
	in.OnChange(func(r inspector.Readout) {
		ip.show(r, img.Width())
	})
	ip.inspector = in
	ip.show(inspector.Readout{}, img.Width())
}

// Current returns the latest readout.
func (ip *InspectorPanel) Current() inspector.Readout {
	if ip.inspector == nil {
		return inspector.Readout{}
	}
	return ip.inspector.Current()
}

func (ip *InspectorPanel) show(r inspector.Readout, imageWidth int) {
	ip.position.SetText(r.PositionText())
	ip.rgb.SetText(r.RGBText())
	ip.hsv.SetText(r.HSVText())
	ip.luminance.SetText(r.LuminanceText())
	ip.swatch.FillColor = r.Swatch()
	ip.swatch.Refresh()

	if !r.Valid {
		ip.view.SetOverlay(nil)
		return
	}
	ip.view.SetOverlay(&canvas.Overlay{
		Markers: []canvas.Marker{{
			Center: r.Marker,
			Radius: inspector.MarkerRadius(imageWidth, ip.displayed.Width),
			Color:  colorutil.Yellow,
		}},
	})
}
