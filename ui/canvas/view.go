// Package canvas provides the image view widget used by every panel.
package canvas

import (
	"image"
	"image/color"
	"math"
	"sync"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	xdraw "golang.org/x/image/draw"

	"smartdip/pkg/geometry"
)

// PointerFunc receives a pointer position relative to the displayed image's
// top-left corner, together with the size the image is displayed at. Both
// are in fyne units.
type PointerFunc func(pos geometry.Point2D, displayed geometry.Size)

var background = color.NRGBA{R: 0x20, G: 0x20, B: 0x20, A: 0xFF}

// ImageView shows an image scaled to fit its area, anchored top-left, with
// an overlay drawn on top. Pointer events are reported in display
// coordinates so callers can map them with the displayed size.
type ImageView struct {
	widget.BaseWidget

	mu      sync.Mutex
	img     image.Image
	overlay *Overlay
	smooth  bool
	minSize fyne.Size

	raster *fynecanvas.Raster

	onHover   PointerFunc
	onLeave   func()
	onPress   PointerFunc
	onDrag    PointerFunc
	onRelease func()
	onTap     PointerFunc
}

var (
	_ desktop.Hoverable = (*ImageView)(nil)
	_ desktop.Mouseable = (*ImageView)(nil)
	_ fyne.Draggable    = (*ImageView)(nil)
	_ fyne.Tappable     = (*ImageView)(nil)
)

// NewImageView creates an empty view.
func NewImageView() *ImageView {
	v := &ImageView{minSize: fyne.NewSize(200, 150)}
	v.raster = fynecanvas.NewRaster(v.draw)
	v.raster.ScaleMode = fynecanvas.ImageScalePixels
	v.ExtendBaseWidget(v)
	return v
}

// SetImage replaces the displayed image. nil clears the view.
func (v *ImageView) SetImage(img image.Image) {
	v.mu.Lock()
	v.img = img
	v.mu.Unlock()
	v.Refresh()
}

// Image returns the displayed image.
func (v *ImageView) Image() image.Image {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.img
}

// SetOverlay replaces the overlay. nil clears it.
func (v *ImageView) SetOverlay(o *Overlay) {
	v.mu.Lock()
	v.overlay = o
	v.mu.Unlock()
	v.Refresh()
}

// SetSmooth selects bilinear scaling instead of nearest neighbour.
func (v *ImageView) SetSmooth(smooth bool) {
	v.mu.Lock()
	v.smooth = smooth
	v.mu.Unlock()
	v.Refresh()
}

// SetMinSize sets the smallest size the view requests from its layout.
func (v *ImageView) SetMinSize(size fyne.Size) {
	v.mu.Lock()
	v.minSize = size
	v.mu.Unlock()
	v.Refresh()
}

// MinSize implements fyne.Widget.
func (v *ImageView) MinSize() fyne.Size {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.minSize
}

// OnHover sets the callback for pointer movement over the image.
func (v *ImageView) OnHover(fn PointerFunc) { v.onHover = fn }

// OnLeave sets the callback for the pointer leaving the view.
func (v *ImageView) OnLeave(fn func()) { v.onLeave = fn }

// OnPress sets the callback for a primary button press.
func (v *ImageView) OnPress(fn PointerFunc) { v.onPress = fn }

// OnDrag sets the callback for pointer movement with the button held.
func (v *ImageView) OnDrag(fn PointerFunc) { v.onDrag = fn }

// OnRelease sets the callback for the end of a press or drag.
func (v *ImageView) OnRelease(fn func()) { v.onRelease = fn }

// OnTap sets the callback for a click.
func (v *ImageView) OnTap(fn PointerFunc) { v.onTap = fn }

// FitSize returns the largest size with the image's aspect ratio that fits
// inside area.
func FitSize(imgW, imgH int, area fyne.Size) fyne.Size {
	if imgW <= 0 || imgH <= 0 || area.Width <= 0 || area.Height <= 0 {
		return fyne.NewSize(0, 0)
	}
	scale := math.Min(float64(area.Width)/float64(imgW), float64(area.Height)/float64(imgH))
	return fyne.NewSize(float32(float64(imgW)*scale), float32(float64(imgH)*scale))
}

// Displayed returns the size the image currently occupies.
func (v *ImageView) Displayed() geometry.Size {
	img := v.Image()
	if img == nil {
		return geometry.Size{}
	}
	b := img.Bounds()
	s := FitSize(b.Dx(), b.Dy(), v.Size())
	return geometry.NewSize(float64(s.Width), float64(s.Height))
}

func (v *ImageView) emit(fn PointerFunc, pos fyne.Position) {
	if fn == nil {
		return
	}
	d := v.Displayed()
	if d.Empty() {
		return
	}
	fn(geometry.NewPoint2D(float64(pos.X), float64(pos.Y)), d)
}

// MouseIn implements desktop.Hoverable.
func (v *ImageView) MouseIn(ev *desktop.MouseEvent) { v.emit(v.onHover, ev.Position) }

// MouseMoved implements desktop.Hoverable.
func (v *ImageView) MouseMoved(ev *desktop.MouseEvent) { v.emit(v.onHover, ev.Position) }

// MouseOut implements desktop.Hoverable.
func (v *ImageView) MouseOut() {
	if v.onLeave != nil {
		v.onLeave()
	}
}

// MouseDown implements desktop.Mouseable.
func (v *ImageView) MouseDown(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	v.emit(v.onPress, ev.Position)
}

// MouseUp implements desktop.Mouseable.
func (v *ImageView) MouseUp(*desktop.MouseEvent) {
	if v.onRelease != nil {
		v.onRelease()
	}
}

// Dragged implements fyne.Draggable. Hover tracking continues during the drag.
func (v *ImageView) Dragged(ev *fyne.DragEvent) {
	v.emit(v.onDrag, ev.Position)
	v.emit(v.onHover, ev.Position)
}

// DragEnd implements fyne.Draggable.
func (v *ImageView) DragEnd() {
	if v.onRelease != nil {
		v.onRelease()
	}
}

// Tapped implements fyne.Tappable.
func (v *ImageView) Tapped(ev *fyne.PointEvent) { v.emit(v.onTap, ev.Position) }

// Refresh redraws the raster.
func (v *ImageView) Refresh() {
	if v.raster != nil {
		v.raster.Refresh()
	}
	v.BaseWidget.Refresh()
}

// draw renders at device resolution. w and h are raster pixels, which may
// differ from fyne units on scaled displays.
func (v *ImageView) draw(w, h int) image.Image {
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	xdraw.Draw(out, out.Bounds(), image.NewUniform(background), image.Point{}, xdraw.Src)

	v.mu.Lock()
	img, overlay, smooth := v.img, v.overlay, v.smooth
	v.mu.Unlock()
	if img == nil {
		return out
	}

	b := img.Bounds()
	fit := FitSize(b.Dx(), b.Dy(), fyne.NewSize(float32(w), float32(h)))
	dst := image.Rect(0, 0, int(math.Round(float64(fit.Width))), int(math.Round(float64(fit.Height))))
	var scaler xdraw.Scaler = xdraw.NearestNeighbor
	if smooth {
		scaler = xdraw.ApproxBiLinear
	}
	scaler.Scale(out, dst, img, b, xdraw.Over, nil)

	if overlay != nil {
		scale := 1.0
		if size := v.Size(); size.Width > 0 {
			scale = float64(w) / float64(size.Width)
		}
		overlay.Draw(out, scale)
	}
	return out
}

// CreateRenderer implements fyne.Widget.
func (v *ImageView) CreateRenderer() fyne.WidgetRenderer {
	return &imageViewRenderer{view: v}
}

type imageViewRenderer struct {
	view *ImageView
}

func (r *imageViewRenderer) Layout(size fyne.Size) {
	r.view.raster.Resize(size)
}

func (r *imageViewRenderer) MinSize() fyne.Size {
	return r.view.MinSize()
}

func (r *imageViewRenderer) Refresh() {
	r.view.raster.Refresh()
}

func (r *imageViewRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.view.raster}
}

func (r *imageViewRenderer) Destroy() {}
