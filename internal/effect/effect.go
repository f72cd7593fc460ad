// Package effect holds the terminal visualizers drawn behind the player:
// a closed set of effects behind one lifecycle interface, selected by name.
package effect

import (
	"errors"
	"maps"
	"slices"
	"time"
)

var (
	// ErrUnknown is returned for names missing from the registry.
	ErrUnknown = errors.New("unknown effect")
	// ErrTooSmall is returned by Init for an unusable area.
	ErrTooSmall = errors.New("effect area too small")
)

// Params tunes a running effect. Zero fields keep the current value.
type Params struct {
	// Bars is the spectrum band count.
	Bars int
	// Density scales particle spawning; 1 is the default rate.
	Density float64
	// From and To are #rrggbb gradient endpoints.
	From, To string
}

// Effect is the lifecycle every visualizer implements. Init sizes the
// effect and may fail; Destroy releases it and is safe after a failed Init.
type Effect interface {
	Init(width, height int) error
	Start()
	Stop()
	Destroy()
	Update(p Params)
	// Step advances the animation by dt using recent mono samples.
	Step(dt time.Duration, samples []float64)
	View() string
}

// Constructor creates an effect in its uninitialized state.
type Constructor func() Effect

var registry = map[string]Constructor{
	"particle": func() Effect { return newParticle() },
	"spectrum": func() Effect { return newSpectrum() },
	"ripple":   func() Effect { return newRipple() },
}

// Names returns the registered effect names, sorted.
func Names() []string {
	return slices.Sorted(maps.Keys(registry))
}

// Has reports whether name is registered.
func Has(name string) bool {
	_, ok := registry[name]
	return ok
}

// New creates the effect registered as name.
func New(name string) (Effect, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, ErrUnknown
	}
	return ctor(), nil
}

func checkSize(width, height int) error {
	if width < 1 || height < 1 {
		return ErrTooSmall
	}
	return nil
}
