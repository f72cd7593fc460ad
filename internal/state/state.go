// Package state is the local key-value store that carries the player
// snapshot across launches.
package state

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/adrg/xdg"

	"github.com/llehouerou/listentwo/internal/db"
)

const (
	appName      = "listentwo"
	dbFileName   = "state.db"
	saveDebounce = 500 * time.Millisecond
)

// Manager persists values in a SQLite database. Debounced saves coalesce
// bursts of writes to the same key; the latest value wins.
type Manager struct {
	db *sql.DB

	// writeMu orders writes so a direct Put is never overwritten by an
	// older debounced value.
	writeMu sync.Mutex

	saveMu    sync.Mutex
	saveTimer *time.Timer
	pending   map[string][]byte
	lastSaved time.Time
	onError   func(key string, err error)
	debounce  time.Duration
}

// Open opens the store in the XDG data directory.
func Open() (*Manager, error) {
	dbPath, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return OpenPath(dbPath)
}

// DefaultPath returns the database location under the XDG data dir.
func DefaultPath() (string, error) {
	return xdg.DataFile(filepath.Join(appName, dbFileName))
}

// OpenPath opens the store at path. ":memory:" is accepted for tests.
func OpenPath(path string) (*Manager, error) {
	conn, err := db.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open state: %w", err)
	}
	if err := initSchema(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("init state schema: %w", err)
	}
	return &Manager{
		db:       conn,
		pending:  make(map[string][]byte),
		debounce: saveDebounce,
	}, nil
}

// OnError registers fn to receive failures of debounced saves.
func (m *Manager) OnError(fn func(key string, err error)) {
	m.saveMu.Lock()
	defer m.saveMu.Unlock()
	m.onError = fn
}

// Get returns the value stored under key. ok is false when absent.
func (m *Manager) Get(key string) (value []byte, ok bool, err error) {
	err = m.db.QueryRow(`SELECT value FROM kv_store WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

// Put stores value under key immediately, superseding any pending
// debounced value for key.
func (m *Manager) Put(key string, value []byte) error {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	m.saveMu.Lock()
	delete(m.pending, key)
	m.saveMu.Unlock()
	return m.write(key, value)
}

func (m *Manager) write(key string, value []byte) error {
	if err := put(m.db, key, value); err != nil {
		return err
	}
	m.saveMu.Lock()
	m.lastSaved = time.Now()
	m.saveMu.Unlock()
	return nil
}

// Delete removes key and drops any pending save for it.
func (m *Manager) Delete(key string) error {
	m.saveMu.Lock()
	delete(m.pending, key)
	m.saveMu.Unlock()

	_, err := m.db.Exec(`DELETE FROM kv_store WHERE key = ?`, key)
	return err
}

// SaveDebounced schedules value to be stored under key after a short
// quiet period. Errors go to the OnError handler.
func (m *Manager) SaveDebounced(key string, value []byte) {
	m.saveMu.Lock()
	defer m.saveMu.Unlock()

	m.pending[key] = value

	if m.saveTimer != nil {
		m.saveTimer.Stop()
	}
	m.saveTimer = time.AfterFunc(m.debounce, m.flush)
}

// Flush writes pending values now.
func (m *Manager) Flush() error {
	return m.flushPending()
}

func (m *Manager) flush() {
	_ = m.flushPending()
}

func (m *Manager) flushPending() error {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	m.saveMu.Lock()
	pending := m.pending
	m.pending = make(map[string][]byte)
	onError := m.onError
	m.saveMu.Unlock()

	var errs []error
	for key, value := range pending {
		if err := m.write(key, value); err != nil {
			errs = append(errs, fmt.Errorf("save %s: %w", key, err))
			if onError != nil {
				onError(key, err)
			}
		}
	}
	return errors.Join(errs...)
}

// LastSaved returns the time of the last successful write, zero if none.
func (m *Manager) LastSaved() time.Time {
	m.saveMu.Lock()
	defer m.saveMu.Unlock()
	return m.lastSaved
}

// Close flushes pending saves and closes the database.
func (m *Manager) Close() error {
	m.saveMu.Lock()
	if m.saveTimer != nil {
		m.saveTimer.Stop()
	}
	m.saveMu.Unlock()

	flushErr := m.flushPending()
	return errors.Join(flushErr, m.db.Close())
}

func put(conn *sql.DB, key string, value []byte) error {
	_, err := conn.Exec(`
		INSERT INTO kv_store (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, time.Now().Unix())
	return err
}
