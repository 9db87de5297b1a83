package ops

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogIsConsistent(t *testing.T) {
	seen := map[string]bool{}
	for _, op := range Catalog() {
		assert.False(t, seen[op.Name], "duplicate %s", op.Name)
		seen[op.Name] = true
		assert.Contains(t, Categories(), op.Category, op.Name)
		assert.NotEmpty(t, op.Description, op.Name)

		// every default must satisfy its own schema
		_, err := op.Normalize(op.Defaults())
		assert.NoError(t, err, op.Name)
	}
	assert.Len(t, ByCategory(CategoryMorphological), 7)
}

func TestLookup(t *testing.T) {
	op, err := Lookup("gaussian_blur")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"kernel_size": 5, "sigma_x": 0.0}, op.Defaults())

	_, err = Lookup("sepia")
	assert.ErrorIs(t, err, ErrUnknownOperation)
}

func TestCoerceNumber(t *testing.T) {
	kernel := OddInt("kernel_size", "Kernel size", 5, 1, 31)
	alpha := Number("alpha", "Alpha", 1.5, 0, 3, 0.1)

	tests := []struct {
		name    string
		param   Param
		in      any
		want    any
		wantErr bool
	}{
		{"int passes", kernel, 7, 7, false},
		{"string from entry", kernel, " 9 ", 9, false},
		{"float whole number", kernel, 11.0, 11, false},
		{"json number", kernel, json.Number("3"), 3, false},
		{"even kernel rejected", kernel, 4, nil, true},
		{"fraction rejected", kernel, 3.5, nil, true},
		{"above max", kernel, 33, nil, true},
		{"garbage", kernel, "big", nil, true},
		{"real value", alpha, "2.25", 2.25, false},
		{"below min", alpha, -0.1, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.param.Coerce(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidParam)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCoerceEnumAndBool(t *testing.T) {
	op, err := Lookup("threshold")
	require.NoError(t, err)
	typ, ok := op.Param("threshold_type")
	require.True(t, ok)
	assert.Equal(t, KindEnum, typ.Kind)

	v, err := typ.Coerce("Truncate")
	require.NoError(t, err)
	assert.Equal(t, 2, v)

	v, err = typ.Coerce(4.0)
	require.NoError(t, err)
	assert.Equal(t, 4, v)

	_, err = typ.Coerce(9)
	assert.ErrorIs(t, err, ErrInvalidParam)
	assert.Equal(t, "Binary", typ.Format(0))

	dyn := Bool("dynamic", "Dynamic", false)
	v, err = dyn.Coerce("true")
	require.NoError(t, err)
	assert.Equal(t, true, v)
	_, err = dyn.Coerce(1)
	assert.ErrorIs(t, err, ErrInvalidParam)
}

func TestNormalizeRejectsUnknownParam(t *testing.T) {
	op, err := Lookup("median_blur")
	require.NoError(t, err)
	_, err = op.Normalize(map[string]any{"radius": 3})
	assert.ErrorIs(t, err, ErrInvalidParam)
}

func TestQueueLifecycle(t *testing.T) {
	q := NewQueue()
	changes := 0
	q.OnChange(func() { changes++ })

	_, err := q.Add("grayscale", nil)
	require.NoError(t, err)
	blur, err := q.Add("gaussian_blur", map[string]any{"kernel_size": "9"})
	require.NoError(t, err)
	_, err = q.Add("canny_edge", nil)
	require.NoError(t, err)
	assert.Equal(t, 9, blur.Params["kernel_size"])
	assert.Equal(t, 0.0, blur.Params["sigma_x"])

	_, err = q.Add("nope", nil)
	assert.ErrorIs(t, err, ErrUnknownOperation)
	_, err = q.Add("median_blur", map[string]any{"kernel_size": 2})
	assert.ErrorIs(t, err, ErrInvalidParam)
	assert.Equal(t, 3, q.Len())

	require.NoError(t, q.Move(2, 0))
	names := func() []string {
		var out []string
		for _, r := range q.Requests() {
			out = append(out, r.Type)
		}
		return out
	}
	assert.Equal(t, []string{"canny_edge", "grayscale", "gaussian_blur"}, names())

	require.NoError(t, q.Update(2, map[string]any{"sigma_x": 1.5}))
	assert.Equal(t, 1.5, q.Items()[2].Params["sigma_x"])
	assert.Equal(t, 5, q.Items()[2].Params["kernel_size"])

	require.NoError(t, q.Remove(1))
	assert.Equal(t, []string{"canny_edge", "gaussian_blur"}, names())
	assert.Error(t, q.Remove(5))
	assert.Error(t, q.Move(0, 2))

	q.Clear()
	assert.Zero(t, q.Len())
	assert.Equal(t, 7, changes)
}

func TestRequestsWireFormat(t *testing.T) {
	q := NewQueue()
	_, err := q.Add("erosion", map[string]any{"kernel_shape": "Ellipse", "iterations": 2})
	require.NoError(t, err)

	data, err := json.Marshal(q.Requests())
	require.NoError(t, err)
	assert.JSONEq(t, `[{"type":"erosion","params":{"kernel_size":5,"kernel_shape":"ellipse","iterations":2}}]`, string(data))
}

func TestRecipeRoundTrip(t *testing.T) {
	q := NewQueue()
	_, err := q.Add("threshold", map[string]any{"threshold_type": "To zero"})
	require.NoError(t, err)
	_, err = q.Add("frequency_filter", map[string]any{"filter_type": "highpass", "cutoff_freq": 12})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, q.Export(&buf))

	other := NewQueue()
	require.NoError(t, other.Import(&buf))
	assert.Equal(t, q.Requests(), other.Requests())

	err = other.Import(strings.NewReader(`{"operations":[{"type":"sepia","params":{}}]}`))
	assert.ErrorIs(t, err, ErrUnknownOperation)
	assert.Equal(t, 2, other.Len(), "failed import leaves queue unchanged")
}
