package state

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := OpenPath(":memory:")
	require.NoError(t, err)
	m.debounce = 10 * time.Millisecond
	t.Cleanup(func() { m.Close() })
	return m
}

func TestGet_Empty(t *testing.T) {
	m := setupTestManager(t)

	v, ok, err := m.Get("musicPlayerState")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, v)
}

func TestPutGet(t *testing.T) {
	m := setupTestManager(t)
	assert.True(t, m.LastSaved().IsZero())

	require.NoError(t, m.Put("k", []byte(`{"a":1}`)))
	require.NoError(t, m.Put("k", []byte(`{"a":2}`)))

	v, ok, err := m.Get("k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"a":2}`, string(v))
	assert.False(t, m.LastSaved().IsZero())
}

func TestDelete(t *testing.T) {
	m := setupTestManager(t)
	require.NoError(t, m.Put("k", []byte("v")))

	require.NoError(t, m.Delete("k"))
	_, ok, err := m.Get("k")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, m.Delete("missing"))
}

func TestSaveDebounced_LatestWins(t *testing.T) {
	m := setupTestManager(t)

	for i := range 5 {
		m.SaveDebounced("k", []byte{byte('0' + i)})
	}

	assert.Eventually(t, func() bool {
		v, ok, _ := m.Get("k")
		return ok && string(v) == "4"
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSaveDebounced_DeleteCancelsPending(t *testing.T) {
	m := setupTestManager(t)
	m.debounce = time.Hour

	m.SaveDebounced("k", []byte("v"))
	require.NoError(t, m.Delete("k"))
	require.NoError(t, m.Flush())

	_, ok, err := m.Get("k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPut_SupersedesPending(t *testing.T) {
	m := setupTestManager(t)
	m.debounce = time.Hour

	m.SaveDebounced("k", []byte("old"))
	require.NoError(t, m.Put("k", []byte("new")))
	require.NoError(t, m.Flush())

	v, ok, err := m.Get("k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "new", string(v))
}

func TestClose_FlushesPending(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	m, err := OpenPath(path)
	require.NoError(t, err)
	m.debounce = time.Hour

	m.SaveDebounced("k", []byte("pending"))
	require.NoError(t, m.Close())

	reopened, err := OpenPath(path)
	require.NoError(t, err)
	defer reopened.Close()

	v, ok, err := reopened.Get("k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "pending", string(v))
}

func TestSaveDebounced_ReportsErrors(t *testing.T) {
	m, err := OpenPath(":memory:")
	require.NoError(t, err)
	m.debounce = time.Hour

	var gotKey string
	var gotErr error
	m.OnError(func(key string, err error) {
		gotKey, gotErr = key, err
	})

	// Writes fail once the database is gone.
	require.NoError(t, m.db.Close())
	m.SaveDebounced("k", []byte("v"))
	err = m.Flush()

	require.Error(t, err)
	assert.Equal(t, "k", gotKey)
	assert.Error(t, gotErr)
}

func TestMock(t *testing.T) {
	m := NewMock()
	m.SaveDebounced("k", []byte("v"))
	assert.Equal(t, 1, m.Puts())

	m.PutErr = errors.New("disk full")
	assert.Error(t, m.Put("k", []byte("w")))
	assert.Equal(t, "v", string(m.Values()["k"]))

	require.NoError(t, m.Close())
	assert.True(t, m.IsClosed())
}
