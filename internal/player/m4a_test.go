package player

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPCMSigned(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want int32
	}{
		{"16 zero", []byte{0x00, 0x00}, 0},
		{"16 max", []byte{0xFF, 0x7F}, 32767},
		{"16 min", []byte{0x00, 0x80}, -32768},
		{"16 minus one", []byte{0xFF, 0xFF}, -1},
		{"24 max", []byte{0xFF, 0xFF, 0x7F}, 8388607},
		{"24 min", []byte{0x00, 0x00, 0x80}, -8388608},
		{"24 minus two", []byte{0xFE, 0xFF, 0xFF}, -2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pcmSigned(tt.in))
		})
	}
}

func TestInt16Frames(t *testing.T) {
	stereo := int16Frames([]int16{16384, -16384, 0, 32767}, 2)
	assert.Equal(t, [][2]float64{{0.5, -0.5}, {0, 32767.0 / 32768}}, stereo)

	mono := int16Frames([]int16{16384, -32768}, 1)
	assert.Equal(t, [][2]float64{{0.5, 0.5}, {-1, -1}}, mono)
}

func TestALACFrames(t *testing.T) {
	// One stereo 16-bit frame: L=0x4000, R=0xC000.
	got := alacFrames([]byte{0x00, 0x40, 0x00, 0xC0}, 2, 16)
	assert.Equal(t, [][2]float64{{0.5, -0.5}}, got)

	// One mono 24-bit frame: 0x400000.
	got = alacFrames([]byte{0x00, 0x00, 0x40}, 1, 24)
	assert.Equal(t, [][2]float64{{0.5, 0.5}}, got)

	// Trailing partial frame is ignored.
	got = alacFrames([]byte{0x00, 0x40, 0x00}, 2, 16)
	assert.Empty(t, got)
}
