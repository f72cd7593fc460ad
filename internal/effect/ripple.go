package effect

import (
	"math"
	"time"
)

const (
	maxRings      = 8
	ringSpeed     = 12.0 // columns per second
	beatThreshold = 1.4
	beatFloor     = 0.02
	ringInterval  = 1500 * time.Millisecond
)

// ripple expands rings from the center whenever the level jumps above
// its running average, and at least every ringInterval while running.
type ripple struct {
	w, h    int
	from    string
	to      string
	running bool

	rings   []float64 // radii in columns
	avg     float64
	since   time.Duration
	pal     palette
	cv      *canvas
}

func newRipple() *ripple {
	return &ripple{from: defaultFrom, to: defaultTo}
}

func (r *ripple) Init(width, height int) error {
	if err := checkSize(width, height); err != nil {
		return err
	}
	r.w, r.h = width, height
	r.cv = newCanvas(width, height)
	r.pal = newPalette(r.from, r.to)
	r.rings = r.rings[:0]
	return nil
}

func (r *ripple) Start() { r.running = true }
func (r *ripple) Stop()  { r.running = false }

func (r *ripple) Destroy() {
	r.running = false
	r.rings = nil
	r.cv = nil
}

func (r *ripple) Update(p Params) {
	if p.From != "" {
		r.from = p.From
	}
	if p.To != "" {
		r.to = p.To
	}
	if p.From != "" || p.To != "" {
		r.pal = newPalette(r.from, r.to)
	}
}

// maxRadius reaches the farthest corner in column units.
func (r *ripple) maxRadius() float64 {
	return math.Hypot(float64(r.w)/2, float64(r.h))
}

func (r *ripple) Step(dt time.Duration, samples []float64) {
	if !r.running || r.cv == nil {
		return
	}
	level := energy(samples)
	r.since += dt
	beat := level > beatFloor && level > r.avg*beatThreshold
	r.avg = r.avg*0.9 + level*0.1
	if beat || r.since >= ringInterval {
		r.since = 0
		if len(r.rings) < maxRings {
			r.rings = append(r.rings, 0)
		}
	}

	limit := r.maxRadius()
	live := r.rings[:0]
	for _, radius := range r.rings {
		radius += ringSpeed * dt.Seconds()
		if radius <= limit {
			live = append(live, radius)
		}
	}
	r.rings = live

	r.cv.clear()
	cx, cy := float64(r.w-1)/2, float64(r.h-1)/2
	for y := range r.h {
		for x := range r.w {
			// Rows count double to look round in terminal cells.
			d := math.Hypot(float64(x)-cx, 2*(float64(y)-cy))
			for _, radius := range r.rings {
				if math.Abs(d-radius) < 0.6 {
					r.cv.set(x, y, 'o', radius/limit)
					break
				}
			}
		}
	}
}

func (r *ripple) View() string {
	if r.cv == nil {
		return ""
	}
	return r.cv.render(r.pal)
}
