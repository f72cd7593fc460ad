// Package layout computes the row budget of each screen region.
package layout

// Fixed region heights.
const (
	HeaderRows    = 1
	SourceBarRows = 1
	PlayerBarRows = 4
	StatusRows    = 1
	LyricsRows    = 5
	EffectRows    = 4
	// MinQueueRows keeps the queue usable before optional regions get space.
	MinQueueRows = 6
)

// Opts are the toggles that change the layout.
type Opts struct {
	ShowQueue  bool
	ShowLyrics bool
	ShowEffect bool
	HelpRows   int
}

// Sizes holds the computed heights. A zero height means hidden.
type Sizes struct {
	Queue  int
	Lyrics int
	Effect int
}

// Compute splits windowHeight between the regions. Optional regions are
// dropped, effect first, when the queue would fall under MinQueueRows.
// With the queue hidden the lyrics pane takes the free space.
func Compute(windowHeight int, o Opts) Sizes {
	free := windowHeight - HeaderRows - SourceBarRows - PlayerBarRows - StatusRows - o.HelpRows
	free = max(free, 0)

	var s Sizes
	if !o.ShowQueue {
		if o.ShowEffect && free >= EffectRows+LyricsRows {
			s.Effect = EffectRows
			free -= EffectRows
		}
		if o.ShowLyrics {
			s.Lyrics = free
		}
		return s
	}

	if o.ShowLyrics && free-LyricsRows >= MinQueueRows {
		s.Lyrics = LyricsRows
		free -= LyricsRows
	}
	if o.ShowEffect && free-EffectRows >= MinQueueRows {
		s.Effect = EffectRows
		free -= EffectRows
	}
	s.Queue = free
	return s
}
