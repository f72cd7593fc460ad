package player

import (
	"sync"

	"github.com/gopxl/beep/v2"
)

// sampleTap passes audio through unchanged and keeps the latest mono
// samples in a ring buffer.
type sampleTap struct {
	s beep.Streamer

	mu     sync.Mutex
	ring   []float64
	next   int
	filled bool
}

func newSampleTap(size int) *sampleTap {
	return &sampleTap{ring: make([]float64, size)}
}

func (t *sampleTap) Stream(samples [][2]float64) (int, bool) {
	n, ok := t.s.Stream(samples)
	t.mu.Lock()
	for _, frame := range samples[:n] {
		t.ring[t.next] = (frame[0] + frame[1]) / 2
		t.next++
		if t.next == len(t.ring) {
			t.next = 0
			t.filled = true
		}
	}
	t.mu.Unlock()
	return n, ok
}

func (t *sampleTap) Err() error {
	if e, ok := t.s.(interface{ Err() error }); ok {
		return e.Err()
	}
	return nil
}

func (t *sampleTap) reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	clear(t.ring)
	t.next = 0
	t.filled = false
}

// recent returns up to n samples, oldest first.
func (t *sampleTap) recent(n int) []float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	size := t.next
	if t.filled {
		size = len(t.ring)
	}
	n = min(max(n, 0), size)
	out := make([]float64, n)
	start := t.next - n
	for i := range out {
		idx := start + i
		if idx < 0 {
			idx += len(t.ring)
		}
		out[i] = t.ring[idx]
	}
	return out
}
