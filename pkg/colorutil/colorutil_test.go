package colorutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampByte(t *testing.T) {
	assert.Equal(t, uint8(0), ClampByte(-12))
	assert.Equal(t, uint8(255), ClampByte(510))
	assert.Equal(t, uint8(128), ClampByte(127.5))
}

func TestRGBToHSV(t *testing.T) {
	h, s, v := RGBToHSV(255, 0, 0)
	assert.InDelta(t, 0, h, 1e-9)
	assert.InDelta(t, 1, s, 1e-9)
	assert.InDelta(t, 1, v, 1e-9)

	h, _, _ = RGBToHSV(0, 0, 255)
	assert.InDelta(t, 240, h, 1e-9)

	_, s, v = RGBToHSV(128, 128, 128)
	assert.Zero(t, s)
	assert.InDelta(t, 128.0/255.0, v, 1e-9)
}

func TestHex(t *testing.T) {
	assert.Equal(t, "#ff0080", Hex(255, 0, 128))
}
