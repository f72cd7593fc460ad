package effect

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	defaultWidth  = 60
	defaultHeight = 4
)

// Manager owns at most one active effect.
type Manager struct {
	mu sync.Mutex

	name   string
	cur    Effect
	params Params

	width, height int

	log *zap.Logger
}

// NewManager returns a manager with no active effect.
func NewManager(log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{width: defaultWidth, height: defaultHeight, log: log}
}

// Select replaces the active effect with name. The previous effect is
// always stopped and destroyed first. An empty name only clears. When the
// new effect fails to initialize, no effect is active afterwards.
func (m *Manager) Select(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.selectLocked(name)
}

func (m *Manager) selectLocked(name string) error {
	m.teardownLocked()
	if name == "" {
		return nil
	}

	e, err := New(name)
	if err != nil {
		return fmt.Errorf("select effect %q: %w", name, err)
	}
	if err := e.Init(m.width, m.height); err != nil {
		e.Destroy()
		m.log.Warn("init effect", zap.String("effect", name), zap.Error(err))
		return fmt.Errorf("select effect %q: %w", name, err)
	}
	e.Update(m.params)
	e.Start()
	m.cur, m.name = e, name
	m.log.Debug("effect selected", zap.String("effect", name))
	return nil
}

func (m *Manager) teardownLocked() {
	e := m.cur
	m.cur, m.name = nil, ""
	if e == nil {
		return
	}
	defer e.Destroy()
	e.Stop()
}

// Current returns the active effect name, "" when none.
func (m *Manager) Current() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.name
}

// Cycle selects the effect after the active one, then none, then the
// first again.
func (m *Manager) Cycle() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := Names()
	next := names[0]
	for i, n := range names {
		if n == m.name {
			next = ""
			if i+1 < len(names) {
				next = names[i+1]
			}
		}
	}
	return next, m.selectLocked(next)
}

// Resize re-initializes the active effect for a new area.
func (m *Manager) Resize(width, height int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if width == m.width && height == m.height {
		return nil
	}
	m.width, m.height = width, height
	if m.cur == nil {
		return nil
	}
	return m.selectLocked(m.name)
}

// Update forwards p to the active effect and keeps it for later ones.
func (m *Manager) Update(p Params) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.params = mergeParams(m.params, p)
	if m.cur != nil {
		m.cur.Update(p)
	}
}

func (m *Manager) Step(dt time.Duration, samples []float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cur != nil {
		m.cur.Step(dt, samples)
	}
}

func (m *Manager) View() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cur == nil {
		return ""
	}
	return m.cur.View()
}

// Close tears down the active effect.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.teardownLocked()
}

func mergeParams(dst, p Params) Params {
	if p.Bars > 0 {
		dst.Bars = p.Bars
	}
	if p.Density > 0 {
		dst.Density = p.Density
	}
	if p.From != "" {
		dst.From = p.From
	}
	if p.To != "" {
		dst.To = p.To
	}
	return dst
}
