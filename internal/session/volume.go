package session

import "math"

// SetVolume sets the output level, clamped to [0,1]. Zero mutes.
func (s *Session) SetVolume(v float64) {
	if math.IsNaN(v) {
		return
	}
	v = min(max(v, 0), 1)
	s.volume = v
	s.muted = v == 0
	if v > 0 {
		s.remembered = v
	}
	s.touch()
}

// SetMuted forces the muted flag without touching the volume.
func (s *Session) SetMuted(m bool) {
	s.muted = m
	s.touch()
}

// ToggleMute mutes to 0, or restores the level in use before muting.
func (s *Session) ToggleMute() {
	if s.muted || s.volume == 0 {
		level := s.remembered
		if level <= 0 {
			level = DefaultVolume
		}
		s.volume = level
		s.muted = false
	} else {
		s.remembered = s.volume
		s.volume = 0
		s.muted = true
	}
	s.touch()
}

// EffectiveVolume is the level the player should output.
func (s *Session) EffectiveVolume() float64 {
	if s.muted {
		return 0
	}
	return s.volume
}
