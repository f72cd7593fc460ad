package effect

import (
	"strings"

	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

const (
	defaultFrom   = "#4ecdc4"
	defaultTo     = "#ff6b9d"
	paletteSteps  = 16
	springFPS     = 30
	springFreq    = 6.0
	springDamping = 0.6
)

// palette is a precomputed HCL gradient of foreground styles.
type palette struct {
	styles []lipgloss.Style
}

func newPalette(from, to string) palette {
	c1, err := colorful.Hex(from)
	if err != nil {
		c1, _ = colorful.Hex(defaultFrom)
	}
	c2, err := colorful.Hex(to)
	if err != nil {
		c2, _ = colorful.Hex(defaultTo)
	}
	p := palette{styles: make([]lipgloss.Style, paletteSteps)}
	for i := range paletteSteps {
		c := c1.BlendHcl(c2, float64(i)/float64(paletteSteps-1)).Clamped()
		p.styles[i] = lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex()))
	}
	return p
}

func (p palette) style(t float64) lipgloss.Style {
	i := int(clamp01(t) * float64(len(p.styles)-1))
	return p.styles[i]
}

func clamp01(v float64) float64 {
	return min(max(v, 0), 1)
}

// canvas is a character grid; each cell carries a gradient position, or
// a negative value when blank.
type canvas struct {
	w, h  int
	runes []rune
	tone  []float64
}

func newCanvas(w, h int) *canvas {
	c := &canvas{w: w, h: h, runes: make([]rune, w*h), tone: make([]float64, w*h)}
	c.clear()
	return c
}

func (c *canvas) clear() {
	for i := range c.runes {
		c.runes[i] = ' '
		c.tone[i] = -1
	}
}

func (c *canvas) set(x, y int, r rune, tone float64) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return
	}
	c.runes[y*c.w+x] = r
	c.tone[y*c.w+x] = tone
}

// render draws the grid, styling runs of equal tone together.
func (c *canvas) render(p palette) string {
	var b strings.Builder
	for y := range c.h {
		if y > 0 {
			b.WriteByte('\n')
		}
		row := y * c.w
		for x := 0; x < c.w; {
			tone := c.tone[row+x]
			end := x + 1
			for end < c.w && c.tone[row+end] == tone {
				end++
			}
			run := string(c.runes[row+x : row+end])
			if tone < 0 {
				b.WriteString(run)
			} else {
				b.WriteString(p.style(tone).Render(run))
			}
			x = end
		}
	}
	return b.String()
}

// springs smooths a row of values toward per-frame targets.
type springs struct {
	spring harmonica.Spring
	pos    []float64
	vel    []float64
}

func newSprings(n int) springs {
	return springs{
		spring: harmonica.NewSpring(harmonica.FPS(springFPS), springFreq, springDamping),
		pos:    make([]float64, n),
		vel:    make([]float64, n),
	}
}

func (s *springs) step(i int, target float64) float64 {
	s.pos[i], s.vel[i] = s.spring.Update(s.pos[i], s.vel[i], target)
	return s.pos[i]
}
