package state

import (
	"maps"
	"sync"
	"time"
)

// Mock is an in-memory test double for Manager. Debounced saves are
// applied immediately.
type Mock struct {
	mu        sync.Mutex
	values    map[string][]byte
	puts      int
	lastSaved time.Time
	closed    bool

	// PutErr, when set, fails every write.
	PutErr error
	// GetErr, when set, fails every read.
	GetErr error
}

// NewMock creates an empty mock store.
func NewMock() *Mock {
	return &Mock{values: make(map[string][]byte)}
}

func (m *Mock) Get(key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, false, m.GetErr
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *Mock) Put(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.PutErr != nil {
		return m.PutErr
	}
	m.values[key] = append([]byte(nil), value...)
	m.puts++
	m.lastSaved = time.Now()
	return nil
}

func (m *Mock) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

func (m *Mock) SaveDebounced(key string, value []byte) {
	_ = m.Put(key, value)
}

func (m *Mock) Flush() error { return nil }

func (m *Mock) LastSaved() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastSaved
}

func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Test helpers

// Puts returns the number of successful writes.
func (m *Mock) Puts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.puts
}

// Values returns a copy of the stored values.
func (m *Mock) Values() map[string][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return maps.Clone(m.values)
}

func (m *Mock) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Verify Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
