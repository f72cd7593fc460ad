//go:build !linux

package mpris

import "go.uber.org/zap"

// Adapter has nothing to serve where there is no session bus.
type Adapter struct{}

// New reports ErrUnavailable; MPRIS is a Linux desktop interface.
func New(Controls, *zap.Logger) (*Adapter, error) {
	return nil, ErrUnavailable
}

func (*Adapter) Close() error { return nil }
