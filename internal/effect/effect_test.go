package effect

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEffect struct {
	initErr  error
	inits    int
	starts   int
	stops    int
	destroys int
	steps    int
	params   Params
}

func (f *fakeEffect) Init(int, int) error {
	f.inits++
	return f.initErr
}
func (f *fakeEffect) Start()                        { f.starts++ }
func (f *fakeEffect) Stop()                         { f.stops++ }
func (f *fakeEffect) Destroy()                      { f.destroys++ }
func (f *fakeEffect) Update(p Params)               { f.params = p }
func (f *fakeEffect) Step(time.Duration, []float64) { f.steps++ }
func (f *fakeEffect) View() string                  { return "fake" }

// register adds a constructor for the duration of the test and returns
// every instance it creates.
func register(t *testing.T, name string, initErr error) *[]*fakeEffect {
	t.Helper()
	var made []*fakeEffect
	registry[name] = func() Effect {
		f := &fakeEffect{initErr: initErr}
		made = append(made, f)
		return f
	}
	t.Cleanup(func() { delete(registry, name) })
	return &made
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"particle", "ripple", "spectrum"}, Names())
	assert.True(t, Has("ripple"))
	assert.False(t, Has("lava"))
}

func TestNew_Unknown(t *testing.T) {
	_, err := New("lava")
	require.ErrorIs(t, err, ErrUnknown)
}

func TestManager_SelectTearsDownPrevious(t *testing.T) {
	made := register(t, "zz-fake", nil)
	m := NewManager(nil)

	require.NoError(t, m.Select("zz-fake"))
	first := (*made)[0]
	assert.Equal(t, 1, first.inits)
	assert.Equal(t, 1, first.starts)

	require.NoError(t, m.Select("spectrum"))
	assert.Equal(t, 1, first.stops)
	assert.Equal(t, 1, first.destroys)
	assert.Equal(t, "spectrum", m.Current())

	require.NoError(t, m.Select(""))
	assert.Empty(t, m.Current())
	assert.Empty(t, m.View())
}

func TestManager_InitFailureLeavesNothingActive(t *testing.T) {
	good := register(t, "zz-good", nil)
	bad := register(t, "zz-bad", ErrTooSmall)
	m := NewManager(nil)

	require.NoError(t, m.Select("zz-good"))
	err := m.Select("zz-bad")
	require.ErrorIs(t, err, ErrTooSmall)

	assert.Empty(t, m.Current())
	assert.Equal(t, 1, (*good)[0].destroys)
	assert.Equal(t, 1, (*bad)[0].destroys, "failed effect must still be destroyed")
	assert.Zero(t, (*bad)[0].starts)

	m.Step(time.Second, nil)
	assert.Empty(t, m.View())
}

func TestManager_UnknownClearsPrevious(t *testing.T) {
	made := register(t, "zz-fake", nil)
	m := NewManager(nil)
	require.NoError(t, m.Select("zz-fake"))

	require.ErrorIs(t, m.Select("lava"), ErrUnknown)
	assert.Empty(t, m.Current())
	assert.Equal(t, 1, (*made)[0].destroys)
}

func TestManager_Cycle(t *testing.T) {
	m := NewManager(nil)
	var got []string
	for range 5 {
		name, err := m.Cycle()
		require.NoError(t, err)
		got = append(got, name)
	}
	assert.Equal(t, []string{"particle", "ripple", "spectrum", "", "particle"}, got)
	m.Close()
	assert.Empty(t, m.Current())
}

func TestManager_ResizeReinitializes(t *testing.T) {
	made := register(t, "zz-fake", nil)
	m := NewManager(nil)
	m.Update(Params{Bars: 8})
	require.NoError(t, m.Select("zz-fake"))

	require.NoError(t, m.Resize(10, 2))
	require.Len(t, *made, 2)
	assert.Equal(t, 1, (*made)[0].destroys)
	assert.Equal(t, 8, (*made)[1].params.Bars, "params carry over")

	require.NoError(t, m.Resize(10, 2))
	assert.Len(t, *made, 2, "same size is a no-op")
}

func TestFFT_PeakAtSineBin(t *testing.T) {
	const n, bin = 64, 5
	re := make([]float64, n)
	im := make([]float64, n)
	for i := range n {
		re[i] = math.Sin(2 * math.Pi * bin * float64(i) / n)
	}
	fft(re, im)

	peak := 0
	for i := 1; i < n/2; i++ {
		if math.Hypot(re[i], im[i]) > math.Hypot(re[peak], im[peak]) {
			peak = i
		}
	}
	assert.Equal(t, bin, peak)
}

func TestEnergy(t *testing.T) {
	assert.Zero(t, energy(nil))
	assert.InDelta(t, 0.5, energy([]float64{0.5, -0.5, 0.5, -0.5}), 1e-9)
}

func noise(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Sin(float64(i)*0.37) * 0.8
	}
	return out
}

func TestEffects_RenderWithinArea(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			e, err := New(name)
			require.NoError(t, err)
			require.ErrorIs(t, e.Init(0, 3), ErrTooSmall)
			e.Destroy()

			e, _ = New(name)
			require.NoError(t, e.Init(20, 5))
			e.Start()
			for range 30 {
				e.Step(50*time.Millisecond, noise(2048))
			}

			lines := strings.Split(e.View(), "\n")
			require.Len(t, lines, 5)
			for _, line := range lines {
				assert.Equal(t, 20, lipgloss.Width(line))
			}
			e.Stop()
			e.Destroy()
			assert.Empty(t, e.View())
		})
	}
}

func TestRipple_LoudStepSpawnsRing(t *testing.T) {
	r := newRipple()
	require.NoError(t, r.Init(20, 5))
	r.Start()

	r.Step(10*time.Millisecond, make([]float64, 64))
	assert.Empty(t, r.rings)

	r.Step(10*time.Millisecond, noise(64))
	assert.Len(t, r.rings, 1)
}

func TestParticle_StoppedDoesNotSpawn(t *testing.T) {
	p := newParticle()
	require.NoError(t, p.Init(20, 5))

	p.Step(5*time.Second, noise(64))
	assert.Empty(t, p.meteors)

	p.Start()
	p.Step(time.Second, noise(64))
	assert.NotEmpty(t, p.meteors)
	assert.LessOrEqual(t, len(p.meteors), maxMeteors)
}

func TestSpectrum_SilenceDrawsNothing(t *testing.T) {
	s := newSpectrum()
	require.NoError(t, s.Init(16, 3))
	s.Start()
	s.Step(time.Second/30, make([]float64, 1024))

	assert.Equal(t, strings.Repeat(strings.Repeat(" ", 16)+"\n", 2)+strings.Repeat(" ", 16), s.View())
}

func TestSpectrum_BarsFitWidth(t *testing.T) {
	s := newSpectrum()
	s.Update(Params{Bars: 100})
	require.NoError(t, s.Init(10, 2))
	assert.Equal(t, 10, s.bands.n)
}

func TestNewPalette_BadHexFallsBack(t *testing.T) {
	p := newPalette("nope", "#zzzzzz")
	require.Len(t, p.styles, paletteSteps)
	assert.NotPanics(t, func() { p.style(2).Render("x") })
}
