//go:build unix

// Package stderr captures output that C decoders write straight to file
// descriptor 2, which would otherwise tear through the terminal UI.
package stderr

import (
	"bufio"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

// Capture owns the redirected descriptor.
type Capture struct {
	orig  int
	read  *os.File
	write *os.File
	lines chan string
	done  chan struct{}
}

// Start redirects fd 2 into a pipe. Each captured line is logged at warn
// level and offered on Lines. The caller must call Stop before exiting.
func Start(log *zap.Logger) (*Capture, error) {
	if log == nil {
		log = zap.NewNop()
	}
	r, w, err := os.Pipe()
	if err != nil {
		return nil, err
	}
	orig, err := unix.Dup(int(os.Stderr.Fd()))
	if err != nil {
		r.Close()
		w.Close()
		return nil, err
	}
	if err := unix.Dup2(int(w.Fd()), int(os.Stderr.Fd())); err != nil {
		unix.Close(orig)
		r.Close()
		w.Close()
		return nil, err
	}

	c := &Capture{orig: orig, read: r, write: w, lines: make(chan string, 64), done: make(chan struct{})}
	go func() {
		defer close(c.done)
		defer close(c.lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			log.Warn("native stderr", zap.String("line", line))
			select {
			case c.lines <- line:
			default:
			}
		}
	}()
	return c, nil
}

// Lines yields captured lines until Stop. Lines are dropped while nobody
// reads.
func (c *Capture) Lines() <-chan string {
	return c.lines
}

// Stop restores fd 2 and waits for the reader to drain.
func (c *Capture) Stop() {
	_ = unix.Dup2(c.orig, int(os.Stderr.Fd()))
	_ = unix.Close(c.orig)
	c.write.Close()
	<-c.done
	c.read.Close()
}
