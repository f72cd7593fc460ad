package player

import (
	"testing"

	"github.com/gopxl/beep/v2"
	"github.com/stretchr/testify/assert"
)

// rampStreamer emits frames 0, 1, 2, ... on both channels.
func rampStreamer(frames int) beep.Streamer {
	i := 0
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if i >= frames {
			return 0, false
		}
		n := 0
		for n < len(samples) && i < frames {
			samples[n] = [2]float64{float64(i), float64(i)}
			n++
			i++
		}
		return n, true
	})
}

func drain(s beep.Streamer, chunk int) {
	buf := make([][2]float64, chunk)
	for {
		if _, ok := s.Stream(buf); !ok {
			return
		}
	}
}

func TestSampleTap_Recent(t *testing.T) {
	tap := newSampleTap(8)
	tap.s = rampStreamer(5)
	drain(tap, 3)

	assert.Equal(t, []float64{2, 3, 4}, tap.recent(3))
	assert.Equal(t, []float64{0, 1, 2, 3, 4}, tap.recent(100))
	assert.Empty(t, tap.recent(-1))
}

func TestSampleTap_Wraps(t *testing.T) {
	tap := newSampleTap(4)
	tap.s = rampStreamer(10)
	drain(tap, 3)

	assert.Equal(t, []float64{6, 7, 8, 9}, tap.recent(4))
	assert.Equal(t, []float64{8, 9}, tap.recent(2))
}

func TestSampleTap_MonoMix(t *testing.T) {
	tap := newSampleTap(4)
	tap.s = beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		samples[0] = [2]float64{1, 0}
		return 1, true
	})
	tap.Stream(make([][2]float64, 1))

	assert.Equal(t, []float64{0.5}, tap.recent(1))
}

func TestSampleTap_Reset(t *testing.T) {
	tap := newSampleTap(4)
	tap.s = rampStreamer(10)
	drain(tap, 4)
	tap.reset()

	assert.Empty(t, tap.recent(4))
}
