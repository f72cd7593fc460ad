package player

// State is the output state of the player.
//
//	Stopped --Play--> Playing --Pause--> Paused --Resume--> Playing
//
// Stop returns to Stopped from either active state, and so does the end of
// the stream. Pause while not Playing and Resume while not Paused are no-ops.
type State int

const (
	Stopped State = iota
	Playing
	Paused
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "Stopped"
	case Playing:
		return "Playing"
	case Paused:
		return "Paused"
	default:
		return "Unknown"
	}
}

// IsActive reports whether a stream is loaded (Playing or Paused).
func (s State) IsActive() bool {
	return s == Playing || s == Paused
}

func (s State) CanPause() bool { return s == Playing }

func (s State) CanResume() bool { return s == Paused }
