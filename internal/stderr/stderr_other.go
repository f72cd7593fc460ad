//go:build !unix

package stderr

import "go.uber.org/zap"

// Capture is inert on platforms without dup2; the audio stack there does
// not write to the console.
type Capture struct {
	lines chan string
}

// Start returns an inert capture.
func Start(_ *zap.Logger) (*Capture, error) {
	return &Capture{lines: make(chan string)}, nil
}

// Lines never yields.
func (c *Capture) Lines() <-chan string { return c.lines }

// Stop is a no-op.
func (c *Capture) Stop() {}
