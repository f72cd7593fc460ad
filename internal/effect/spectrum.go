package effect

import "time"

var barRunes = []rune(" ▁▂▃▄▅▆▇█")

const (
	defaultBars = 24
	maxBars     = 64
)

// spectrum draws log-spaced FFT bands as vertical bars.
type spectrum struct {
	w, h    int
	bars    int
	from    string
	to      string
	running bool

	bands   *bands
	springs springs
	pal     palette
	cv      *canvas
}

func newSpectrum() *spectrum {
	return &spectrum{bars: defaultBars, from: defaultFrom, to: defaultTo}
}

func (s *spectrum) Init(width, height int) error {
	if err := checkSize(width, height); err != nil {
		return err
	}
	s.w, s.h = width, height
	s.layout()
	s.pal = newPalette(s.from, s.to)
	return nil
}

// layout fits the band count to the width: every bar is at least one
// column wide.
func (s *spectrum) layout() {
	n := min(s.bars, maxBars, s.w)
	s.bands = newBands(n)
	s.springs = newSprings(n)
	s.cv = newCanvas(s.w, s.h)
}

func (s *spectrum) Start() { s.running = true }
func (s *spectrum) Stop()  { s.running = false }

func (s *spectrum) Destroy() {
	s.running = false
	s.bands, s.cv = nil, nil
}

func (s *spectrum) Update(p Params) {
	if p.Bars > 0 && p.Bars != s.bars {
		s.bars = p.Bars
		if s.cv != nil {
			s.layout()
		}
	}
	if p.From != "" || p.To != "" {
		if p.From != "" {
			s.from = p.From
		}
		if p.To != "" {
			s.to = p.To
		}
		s.pal = newPalette(s.from, s.to)
	}
}

func (s *spectrum) Step(_ time.Duration, samples []float64) {
	if !s.running || s.cv == nil {
		return
	}
	mags := s.bands.process(samples)
	if energy(samples) == 0 {
		clear(mags)
	}

	s.cv.clear()
	n := len(mags)
	colW := s.w / n
	levels := len(barRunes) - 1
	for i := range n {
		level := clamp01(s.springs.step(i, mags[i])) * float64(s.h)
		for row := range s.h {
			fromBottom := float64(s.h - 1 - row)
			idx := 0
			switch {
			case level >= fromBottom+1:
				idx = levels
			case level > fromBottom:
				idx = int((level - fromBottom) * float64(levels))
			}
			if idx == 0 {
				continue
			}
			tone := fromBottom / float64(max(s.h-1, 1))
			for x := i * colW; x < (i+1)*colW-boolInt(colW > 1); x++ {
				s.cv.set(x, row, barRunes[idx], tone)
			}
		}
	}
}

func (s *spectrum) View() string {
	if s.cv == nil {
		return ""
	}
	return s.cv.render(s.pal)
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
