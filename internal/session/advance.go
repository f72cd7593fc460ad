package session

// Rand is the random source used by shuffle. *rand.Rand from math/rand/v2
// satisfies it.
type Rand interface {
	IntN(n int) int
}

// NextIndex computes the index after cur in a queue of length n.
// It returns false when playback should stop: empty queue, or the end of
// the queue in sequence mode. Shuffle may pick cur again unless
// avoidRepeat is set and n >= 2.
func NextIndex(mode RepeatMode, cur, n int, rng Rand, avoidRepeat bool) (int, bool) {
	if n <= 0 {
		return -1, false
	}
	switch mode {
	case RepeatLoopAll:
		if cur < 0 {
			return 0, true
		}
		return (cur + 1) % n, true
	case RepeatShuffle:
		if avoidRepeat && n >= 2 && cur >= 0 && cur < n {
			// Draw from n-1 slots and skip over cur.
			next := rng.IntN(n - 1)
			if next >= cur {
				next++
			}
			return next, true
		}
		return rng.IntN(n), true
	default:
		next := cur + 1
		if next >= n {
			return -1, false
		}
		return next, true
	}
}

// PrevIndex computes the index before cur, wrapping to the end regardless
// of mode. With nothing loaded it starts from the last entry.
func PrevIndex(cur, n int) (int, bool) {
	if n <= 0 {
		return -1, false
	}
	if cur < 0 || cur >= n {
		return n - 1, true
	}
	return (cur - 1 + n) % n, true
}
