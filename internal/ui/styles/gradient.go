package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/rivo/uniseg"
)

// Gradient colors text cluster by cluster, blending From into To in HCL
// space.
type Gradient struct {
	From, To lipgloss.Color
	Bold     bool
}

// Logo renders the application name in the header.
func Logo(text string) string {
	return Gradient{From: T().Primary, To: T().Secondary, Bold: true}.Render(text)
}

// Highlight colors the non-blank part of text and leaves the padding
// around it plain, so centered rows keep their width.
func Highlight(text string) string {
	core := strings.TrimSpace(text)
	if core == "" {
		return text
	}
	start := strings.Index(text, core)
	g := Gradient{From: T().Secondary, To: T().Primary, Bold: true}
	return text[:start] + g.Render(core) + text[start+len(core):]
}

// Render applies g across text.
func (g Gradient) Render(text string) string {
	clusters := graphemes(text)
	switch len(clusters) {
	case 0:
		return ""
	case 1:
		return g.style(g.From).Render(text)
	}

	from, to := toColorful(g.From), toColorful(g.To)
	last := float64(len(clusters) - 1)
	var b strings.Builder
	for i, c := range clusters {
		col := from.BlendHcl(to, float64(i)/last).Clamped()
		b.WriteString(g.style(lipgloss.Color(col.Hex())).Render(c))
	}
	return b.String()
}

func (g Gradient) style(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c).Bold(g.Bold)
}

func graphemes(text string) []string {
	var out []string
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		out = append(out, gr.Str())
	}
	return out
}

// toColorful parses a #rrggbb theme color. ANSI palette numbers have no
// RGB value here and map to mid gray.
func toColorful(c lipgloss.Color) colorful.Color {
	if col, err := colorful.Hex(string(c)); err == nil {
		return col
	}
	return colorful.Color{R: 0.5, G: 0.5, B: 0.5}
}
