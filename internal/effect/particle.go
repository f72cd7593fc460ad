package effect

import (
	"math/rand/v2"
	"time"
)

const (
	maxMeteors   = 50
	meteorRate   = 6.0 // spawns per second at silence
	meteorMinLen = 2
	meteorMaxLen = 6
)

// meteor moves down-left at 45 degrees. Terminal cells are about twice
// as tall as wide, so x moves twice as fast as y.
type meteor struct {
	x, y    float64
	speed   float64 // rows per second
	tail    int
	life    float64
	maxLife float64
	tone    float64
}

// particle is a meteor shower whose spawn rate follows the loudness.
type particle struct {
	w, h    int
	density float64
	from    string
	to      string
	running bool

	rng     *rand.Rand
	meteors []meteor
	spawn   float64
	pal     palette
	cv      *canvas
}

func newParticle() *particle {
	return &particle{
		density: 1,
		from:    defaultFrom,
		to:      defaultTo,
		rng:     rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x6d65)), //nolint:gosec // visual only
	}
}

func (p *particle) Init(width, height int) error {
	if err := checkSize(width, height); err != nil {
		return err
	}
	p.w, p.h = width, height
	p.cv = newCanvas(width, height)
	p.pal = newPalette(p.from, p.to)
	p.meteors = p.meteors[:0]
	return nil
}

func (p *particle) Start() { p.running = true }
func (p *particle) Stop()  { p.running = false }

func (p *particle) Destroy() {
	p.running = false
	p.meteors = nil
	p.cv = nil
}

func (p *particle) Update(params Params) {
	if params.Density > 0 {
		p.density = params.Density
	}
	if params.From != "" {
		p.from = params.From
	}
	if params.To != "" {
		p.to = params.To
	}
	if params.From != "" || params.To != "" {
		p.pal = newPalette(p.from, p.to)
	}
}

func (p *particle) Step(dt time.Duration, samples []float64) {
	if !p.running || p.cv == nil {
		return
	}
	sec := dt.Seconds()

	p.spawn += sec * meteorRate * p.density * (1 + 8*energy(samples))
	for p.spawn >= 1 {
		p.spawn--
		if len(p.meteors) < maxMeteors {
			p.meteors = append(p.meteors, p.newMeteor())
		}
	}

	live := p.meteors[:0]
	for _, m := range p.meteors {
		m.life += sec
		m.y += m.speed * sec
		m.x -= 2 * m.speed * sec
		if m.life < m.maxLife && m.y-float64(m.tail) < float64(p.h) && m.x+float64(2*m.tail) >= 0 {
			live = append(live, m)
		}
	}
	p.meteors = live

	p.cv.clear()
	for _, m := range p.meteors {
		hx, hy := int(m.x), int(m.y)
		for i := m.tail; i >= 1; i-- {
			r := '·'
			if i == 1 {
				r = '•'
			}
			p.cv.set(hx+2*i, hy-i, r, m.tone)
		}
		p.cv.set(hx, hy, '*', m.tone)
	}
}

// newMeteor enters from the top edge, or from the upper half of the right
// edge.
func (p *particle) newMeteor() meteor {
	m := meteor{
		speed:   float64(p.h)/2 + p.rng.Float64()*float64(p.h),
		tail:    meteorMinLen + p.rng.IntN(meteorMaxLen-meteorMinLen+1),
		maxLife: 2 + p.rng.Float64()*6,
		tone:    p.rng.Float64(),
	}
	if p.rng.Float64() < 0.6 {
		m.x = p.rng.Float64() * float64(p.w)
		m.y = -1
	} else {
		m.x = float64(p.w)
		m.y = p.rng.Float64() * float64(p.h) / 2
	}
	return m
}

func (p *particle) View() string {
	if p.cv == nil {
		return ""
	}
	return p.cv.render(p.pal)
}
