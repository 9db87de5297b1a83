package panels

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"smartdip/pkg/geometry"
)

// titled wraps content with a bold heading.
func titled(title string, content fyne.CanvasObject) fyne.CanvasObject {
	heading := widget.NewLabelWithStyle(title, fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	return container.NewBorder(heading, nil, nil, nil, content)
}

// defaultROI returns the centred region covering half of each dimension,
// at least one pixel.
func defaultROI(width, height int) geometry.RectInt {
	w, h := max(1, width/2), max(1, height/2)
	return geometry.NewRectInt((width-w)/2, (height-h)/2, w, h)
}

// formatROI renders r the way the ROI entry expects it.
func formatROI(r geometry.RectInt) string {
	return fmt.Sprintf("%d,%d,%d,%d", r.X, r.Y, r.Width, r.Height)
}
