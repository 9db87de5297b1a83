package panels

import (
	"context"
	"errors"
	"fmt"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"smartdip/internal/app"
	"smartdip/internal/ops"
)

// QueuePanel builds the operation queue and submits it to the backend.
type QueuePanel struct {
	session   *app.Session
	processor app.Processor
	win       fyne.Window
	status    func(string)

	opNames  []string
	opSelect *widget.Select
	desc     *widget.Label
	formBox  *fyne.Container
	form     *ParamForm

	list     *widget.List
	selected int

	runBtn   *widget.Button
	progress *widget.ProgressBarInfinite
	content  fyne.CanvasObject
}

// NewQueuePanel creates the queue panel. status receives one-line progress
// messages for the status bar.
func NewQueuePanel(session *app.Session, processor app.Processor, status func(string)) *QueuePanel {
	qp := &QueuePanel{
		session:   session,
		processor: processor,
		status:    status,
		selected:  -1,
	}

	var labels []string
	for _, cat := range ops.Categories() {
		for _, op := range ops.ByCategory(cat) {
			labels = append(labels, operationLabel(op))
			qp.opNames = append(qp.opNames, op.Name)
		}
	}
	qp.opSelect = widget.NewSelect(labels, func(string) {
		qp.selectOperation(qp.opSelect.SelectedIndex())
	})
	qp.desc = widget.NewLabel("")
	qp.desc.Wrapping = fyne.TextWrapWord
	qp.formBox = container.NewVBox()

	addBtn := widget.NewButton("Add", qp.onAdd)
	updateBtn := widget.NewButton("Update", qp.onUpdate)

	qp.list = widget.NewList(
		func() int { return qp.session.Queue().Len() },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			items := qp.session.Queue().Items()
			if id < len(items) {
				obj.(*widget.Label).SetText(fmt.Sprintf("%d. %s", id+1, describeItem(items[id])))
			}
		},
	)
	qp.list.OnSelected = qp.onListSelected
	qp.list.OnUnselected = func(widget.ListItemID) { qp.selected = -1 }

	upBtn := widget.NewButton("Up", func() { qp.move(-1) })
	downBtn := widget.NewButton("Down", func() { qp.move(1) })
	removeBtn := widget.NewButton("Remove", qp.onRemove)
	clearBtn := widget.NewButton("Clear", func() {
		qp.session.Queue().Clear()
		qp.list.UnselectAll()
	})

	qp.runBtn = widget.NewButton("Process", qp.onRun)
	qp.runBtn.Importance = widget.HighImportance
	qp.progress = widget.NewProgressBarInfinite()
	qp.progress.Stop()
	qp.progress.Hide()

	session.On(app.EventQueueChanged, func(interface{}) { qp.list.Refresh() })

	editor := container.NewVBox(
		widget.NewLabel("Operation"),
		qp.opSelect,
		qp.desc,
		qp.formBox,
		container.NewGridWithColumns(2, addBtn, updateBtn),
	)
	controls := container.NewVBox(
		container.NewGridWithColumns(4, upBtn, downBtn, removeBtn, clearBtn),
		qp.runBtn,
		qp.progress,
	)
	qp.content = container.NewBorder(editor, controls, nil, nil, qp.list)

	if len(labels) > 0 {
		qp.opSelect.SetSelectedIndex(0)
	}
	return qp
}

func operationLabel(op ops.Operation) string {
	return fmt.Sprintf("%s: %s", op.Category, op.Title)
}

// SetWindow sets the parent window for dialogs.
func (qp *QueuePanel) SetWindow(win fyne.Window) { qp.win = win }

// Container returns the panel content.
func (qp *QueuePanel) Container() fyne.CanvasObject { return qp.content }

func (qp *QueuePanel) selectOperation(i int) {
	if i < 0 || i >= len(qp.opNames) {
		return
	}
	op, err := ops.Lookup(qp.opNames[i])
	if err != nil {
		qp.showError(err)
		return
	}
	qp.form = NewParamForm(op)
	qp.desc.SetText(op.Description)
	qp.formBox.Objects = []fyne.CanvasObject{qp.form.Widget()}
	qp.formBox.Refresh()
}

func (qp *QueuePanel) onAdd() {
	if qp.form == nil {
		return
	}
	values, err := qp.form.Values()
	if err != nil {
		qp.showError(err)
		return
	}
	if _, err := qp.session.Queue().Add(qp.form.Operation().Name, values); err != nil {
		qp.showError(err)
	}
}

func (qp *QueuePanel) onUpdate() {
	if qp.form == nil || qp.selected < 0 {
		return
	}
	items := qp.session.Queue().Items()
	if qp.selected >= len(items) || items[qp.selected].Operation.Name != qp.form.Operation().Name {
		qp.showError(errors.New("select the queued operation to update"))
		return
	}
	values, err := qp.form.Values()
	if err != nil {
		qp.showError(err)
		return
	}
	if err := qp.session.Queue().Update(qp.selected, values); err != nil {
		qp.showError(err)
	}
}

// onListSelected loads the queued item into the editor.
func (qp *QueuePanel) onListSelected(id widget.ListItemID) {
	qp.selected = id
	items := qp.session.Queue().Items()
	if id >= len(items) {
		return
	}
	it := items[id]
	for i, name := range qp.opNames {
		if name == it.Operation.Name {
			qp.opSelect.SetSelectedIndex(i)
			break
		}
	}
	if qp.form != nil {
		qp.form.SetValues(it.Params)
	}
}

func (qp *QueuePanel) move(delta int) {
	if qp.selected < 0 {
		return
	}
	to := qp.selected + delta
	if err := qp.session.Queue().Move(qp.selected, to); err != nil {
		return
	}
	qp.list.Select(to)
}

func (qp *QueuePanel) onRemove() {
	if qp.selected < 0 {
		return
	}
	if err := qp.session.Queue().Remove(qp.selected); err != nil {
		qp.showError(err)
		return
	}
	qp.list.UnselectAll()
}

func (qp *QueuePanel) onRun() {
	n := qp.session.Queue().Len()
	qp.runBtn.Disable()
	qp.progress.Show()
	qp.progress.Start()
	qp.setStatus(fmt.Sprintf("Processing %d operation(s)...", n))

	go func() {
		err := qp.session.Run(context.Background(), qp.processor)

		qp.progress.Stop()
		qp.progress.Hide()
		qp.runBtn.Enable()
		if err != nil {
			log.Printf("process: %v", err)
			qp.setStatus("Processing failed")
			qp.showError(err)
			return
		}
		qp.setStatus(fmt.Sprintf("Processed %d operation(s)", n))
	}()
}

func (qp *QueuePanel) setStatus(text string) {
	if qp.status != nil {
		qp.status(text)
	}
}

func (qp *QueuePanel) showError(err error) {
	if qp.win != nil {
		dialog.ShowError(err, qp.win)
		return
	}
	log.Printf("queue: %v", err)
}
