package state

import "time"

// Interface defines the store contract for dependency injection and testing.
type Interface interface {
	Get(key string) ([]byte, bool, error)
	Put(key string, value []byte) error
	Delete(key string) error
	SaveDebounced(key string, value []byte)
	Flush() error
	LastSaved() time.Time
	Close() error
}

// Verify Manager implements Interface at compile time.
var _ Interface = (*Manager)(nil)
