package panels

import (
	"fmt"
	"sort"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"

	"smartdip/internal/ops"
)

// paramField is one form control bound to an operation parameter.
type paramField struct {
	param  ops.Param
	object fyne.CanvasObject
	value  func() any
	set    func(v any)
}

func newParamField(p ops.Param) *paramField {
	f := &paramField{param: p}
	switch p.Kind {
	case ops.KindEnum:
		sel := widget.NewSelect(p.OptionLabels(), nil)
		f.object = sel
		f.value = func() any { return sel.Selected }
		f.set = func(v any) { sel.SetSelected(p.LabelFor(v)) }
	case ops.KindBool:
		chk := widget.NewCheck("", nil)
		f.object = chk
		f.value = func() any { return chk.Checked }
		f.set = func(v any) {
			b, _ := v.(bool)
			chk.SetChecked(b)
		}
	default:
		entry := widget.NewEntry()
		entry.Validator = func(s string) error {
			_, err := p.Coerce(s)
			return err
		}
		entry.SetPlaceHolder(numberHint(p))
		f.object = entry
		f.value = func() any { return entry.Text }
		f.set = func(v any) { entry.SetText(p.Format(v)) }
	}
	f.set(p.Default)
	return f
}

// numberHint describes a number parameter's range, e.g. "1-31, odd".
func numberHint(p ops.Param) string {
	hint := fmt.Sprintf("%g-%g", p.Min, p.Max)
	if p.Odd {
		hint += ", odd"
	}
	return hint
}

// ParamForm edits the parameters of one operation. It is rebuilt whenever
// the operation changes.
type ParamForm struct {
	op     ops.Operation
	fields []*paramField
	form   *widget.Form
}

// NewParamForm builds a form with one control per parameter, initialised to
// the defaults.
func NewParamForm(op ops.Operation) *ParamForm {
	f := &ParamForm{op: op, form: widget.NewForm()}
	for _, p := range op.Params {
		field := newParamField(p)
		f.fields = append(f.fields, field)
		f.form.Append(p.Label, field.object)
	}
	return f
}

// Operation returns the operation the form edits.
func (f *ParamForm) Operation() ops.Operation { return f.op }

// Widget returns the form for embedding.
func (f *ParamForm) Widget() fyne.CanvasObject { return f.form }

// Values validates every control and returns the coerced parameters.
func (f *ParamForm) Values() (map[string]any, error) {
	raw := make(map[string]any, len(f.fields))
	for _, field := range f.fields {
		raw[field.param.Name] = field.value()
	}
	return f.op.Normalize(raw)
}

// SetValues loads params into the controls. Unknown names are ignored.
func (f *ParamForm) SetValues(params map[string]any) {
	for _, field := range f.fields {
		if v, ok := params[field.param.Name]; ok {
			field.set(v)
		}
	}
}

// Reset restores every control to its default.
func (f *ParamForm) Reset() {
	for _, field := range f.fields {
		field.set(field.param.Default)
	}
}

// describeItem summarises a queued operation for the list, e.g.
// "Gaussian Blur (kernel_size=5, sigma=0)".
func describeItem(it ops.Item) string {
	if len(it.Params) == 0 {
		return it.Operation.Title
	}
	names := make([]string, 0, len(it.Params))
	for name := range it.Params {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		v := it.Params[name]
		if p, ok := it.Operation.Param(name); ok {
			parts[i] = name + "=" + p.Format(v)
		} else {
			parts[i] = fmt.Sprintf("%s=%v", name, v)
		}
	}
	return fmt.Sprintf("%s (%s)", it.Operation.Title, strings.Join(parts, ", "))
}
