package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRectIntWithin(t *testing.T) {
	tests := []struct {
		name string
		rect RectInt
		ok   bool
	}{
		{"full image", NewRectInt(0, 0, 10, 8), true},
		{"inner", NewRectInt(2, 3, 4, 4), true},
		{"zero width", NewRectInt(0, 0, 0, 4), false},
		{"negative origin", NewRectInt(-1, 0, 4, 4), false},
		{"past right edge", NewRectInt(7, 0, 4, 4), false},
		{"past bottom edge", NewRectInt(0, 5, 4, 4), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rect.Within(10, 8)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidRect)
			}
		})
	}
}

func TestParseRectInt(t *testing.T) {
	r, err := ParseRectInt("4,5,16,8")
	require.NoError(t, err)
	assert.Equal(t, NewRectInt(4, 5, 16, 8), r)

	_, err = ParseRectInt("4,5")
	assert.Error(t, err)
}

func TestPointFloorAndIn(t *testing.T) {
	p := NewPoint2D(3.9, 0.2).Floor()
	assert.Equal(t, PointInt{X: 3, Y: 0}, p)
	assert.True(t, p.In(4, 1))
	assert.False(t, p.In(3, 1))
	assert.False(t, NewPoint2D(-0.5, 0).Floor().In(4, 4))
}
