package session

// RepeatMode selects how the queue advances when a track ends.
type RepeatMode int

const (
	RepeatSequence RepeatMode = iota
	RepeatLoopAll
	RepeatShuffle
)

// Wire names, as persisted.
const (
	modeSequence = "sequence"
	modeLoop     = "loop"
	modeRandom   = "random"
)

func (m RepeatMode) String() string {
	switch m {
	case RepeatLoopAll:
		return modeLoop
	case RepeatShuffle:
		return modeRandom
	default:
		return modeSequence
	}
}

// Label is the human-readable mode name.
func (m RepeatMode) Label() string {
	switch m {
	case RepeatLoopAll:
		return "Loop all"
	case RepeatShuffle:
		return "Shuffle"
	default:
		return "Sequence"
	}
}

// Next cycles sequence -> loop-all -> shuffle -> sequence.
func (m RepeatMode) Next() RepeatMode {
	switch m {
	case RepeatSequence:
		return RepeatLoopAll
	case RepeatLoopAll:
		return RepeatShuffle
	default:
		return RepeatSequence
	}
}

// ParseRepeatMode parses a persisted mode name.
func ParseRepeatMode(s string) (RepeatMode, bool) {
	switch s {
	case modeSequence:
		return RepeatSequence, true
	case modeLoop, "loop-all":
		return RepeatLoopAll, true
	case modeRandom, "shuffle":
		return RepeatShuffle, true
	}
	return RepeatSequence, false
}
