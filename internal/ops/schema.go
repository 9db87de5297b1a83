// Package ops describes the backend's image operations declaratively and
// keeps the ordered queue of requested operations.
package ops

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrUnknownOperation is returned for operation names not in the catalog.
	ErrUnknownOperation = errors.New("unknown operation")
	// ErrInvalidParam is returned when a parameter value violates its schema.
	ErrInvalidParam = errors.New("invalid parameter")
)

// Kind is the type of a parameter's form control.
type Kind int

const (
	KindNumber Kind = iota
	KindEnum
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindEnum:
		return "enum"
	case KindBool:
		return "bool"
	default:
		return "unknown"
	}
}

// Option is one choice of an enum parameter. Value is what the backend
// receives; Label is what the form shows.
type Option struct {
	Value any
	Label string
}

// Param declares one operation parameter and its constraints.
type Param struct {
	Name  string
	Label string
	Kind  Kind

	// Number constraints.
	Min, Max, Step float64
	Integer        bool
	Odd            bool

	// Enum choices.
	Options []Option

	Default any
}

// Number declares a real-valued parameter.
func Number(name, label string, def, min, max, step float64) Param {
	return Param{Name: name, Label: label, Kind: KindNumber, Min: min, Max: max, Step: step, Default: def}
}

// Int declares an integer parameter.
func Int(name, label string, def, min, max int) Param {
	return Param{Name: name, Label: label, Kind: KindNumber, Min: float64(min), Max: float64(max), Step: 1, Integer: true, Default: def}
}

// OddInt declares an integer parameter that must be odd, such as a kernel
// size.
func OddInt(name, label string, def, min, max int) Param {
	p := Int(name, label, def, min, max)
	p.Step = 2
	p.Odd = true
	return p
}

// Enum declares a parameter chosen from a fixed list.
func Enum(name, label string, def any, options ...Option) Param {
	return Param{Name: name, Label: label, Kind: KindEnum, Options: options, Default: def}
}

// Bool declares an on/off parameter.
func Bool(name, label string, def bool) Param {
	return Param{Name: name, Label: label, Kind: KindBool, Default: def}
}

// OptionLabels returns the labels of an enum parameter in order.
func (p Param) OptionLabels() []string {
	labels := make([]string, len(p.Options))
	for i, o := range p.Options {
		labels[i] = o.Label
	}
	return labels
}

// LabelFor returns the option label for an enum value.
func (p Param) LabelFor(v any) string {
	for _, o := range p.Options {
		if sameValue(o.Value, v) {
			return o.Label
		}
	}
	return ""
}

// Format renders a value the way a text field shows it.
func (p Param) Format(v any) string {
	switch p.Kind {
	case KindEnum:
		if l := p.LabelFor(v); l != "" {
			return l
		}
	case KindNumber:
		if f, err := toFloat(v); err == nil {
			return strconv.FormatFloat(f, 'f', -1, 64)
		}
	}
	return fmt.Sprint(v)
}

// Coerce validates v against the schema and converts it to the type sent to
// the backend: int or float64 for numbers, the option value for enums, bool
// for bools. Strings from text fields are parsed.
func (p Param) Coerce(v any) (any, error) {
	switch p.Kind {
	case KindNumber:
		return p.coerceNumber(v)
	case KindEnum:
		for _, o := range p.Options {
			if sameValue(o.Value, v) {
				return o.Value, nil
			}
			if s, ok := v.(string); ok && s == o.Label {
				return o.Value, nil
			}
		}
		return nil, fmt.Errorf("%w: %s: %v is not one of %s", ErrInvalidParam, p.Name, v, strings.Join(p.OptionLabels(), ", "))
	case KindBool:
		switch b := v.(type) {
		case bool:
			return b, nil
		case string:
			parsed, err := strconv.ParseBool(b)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %q is not a boolean", ErrInvalidParam, p.Name, b)
			}
			return parsed, nil
		}
		return nil, fmt.Errorf("%w: %s: %v is not a boolean", ErrInvalidParam, p.Name, v)
	}
	return nil, fmt.Errorf("%w: %s: unknown kind %d", ErrInvalidParam, p.Name, p.Kind)
}

func (p Param) coerceNumber(v any) (any, error) {
	f, err := toFloat(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidParam, p.Name, err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("%w: %s: not a finite number", ErrInvalidParam, p.Name)
	}
	if f < p.Min || f > p.Max {
		return nil, fmt.Errorf("%w: %s: %g outside [%g, %g]", ErrInvalidParam, p.Name, f, p.Min, p.Max)
	}
	if !p.Integer {
		return f, nil
	}
	if f != math.Trunc(f) {
		return nil, fmt.Errorf("%w: %s: %g is not an integer", ErrInvalidParam, p.Name, f)
	}
	n := int(f)
	if p.Odd && n%2 == 0 {
		return nil, fmt.Errorf("%w: %s: %d must be odd", ErrInvalidParam, p.Name, n)
	}
	return n, nil
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case json.Number:
		return n.Float64()
	case string:
		return strconv.ParseFloat(strings.TrimSpace(n), 64)
	}
	return 0, fmt.Errorf("%v (%T) is not a number", v, v)
}

// sameValue compares option values loosely so that 1, 1.0 and "1" match.
func sameValue(a, b any) bool {
	if a == b {
		return true
	}
	fa, errA := toFloat(a)
	fb, errB := toFloat(b)
	if errA == nil && errB == nil {
		return fa == fb
	}
	return fmt.Sprint(a) == fmt.Sprint(b)
}

// Operation describes one backend operation.
type Operation struct {
	Name        string
	Title       string
	Category    string
	Description string
	Params      []Param
}

// Param returns the named parameter.
func (o Operation) Param(name string) (Param, bool) {
	for _, p := range o.Params {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}

// Defaults returns a fresh map of every parameter's default value.
func (o Operation) Defaults() map[string]any {
	m := make(map[string]any, len(o.Params))
	for _, p := range o.Params {
		m[p.Name] = p.Default
	}
	return m
}

// Normalize coerces every supplied value, fills in defaults for missing
// parameters and rejects names the operation does not declare.
func (o Operation) Normalize(params map[string]any) (map[string]any, error) {
	out := o.Defaults()
	for name, v := range params {
		p, ok := o.Param(name)
		if !ok {
			return nil, fmt.Errorf("%w: %s has no parameter %q", ErrInvalidParam, o.Name, name)
		}
		c, err := p.Coerce(v)
		if err != nil {
			return nil, err
		}
		out[name] = c
	}
	return out, nil
}
