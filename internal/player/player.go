// Package player decodes local audio files and plays them through the
// system speaker.
package player

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
)

// ErrUnsupportedFormat is returned by Play for extensions no decoder handles.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// tapSize is the number of mono samples kept for visualizers.
const tapSize = 4096

var (
	speakerMu   sync.Mutex
	speakerInit bool
	speakerRate beep.SampleRate
)

// initSpeaker opens the output device at the rate of the first stream.
// Later streams are resampled to that rate.
func initSpeaker(rate beep.SampleRate) (beep.SampleRate, error) {
	speakerMu.Lock()
	defer speakerMu.Unlock()
	if speakerInit {
		return speakerRate, nil
	}
	if err := speaker.Init(rate, rate.N(time.Second/10)); err != nil {
		return 0, err
	}
	speakerInit = true
	speakerRate = rate
	return rate, nil
}

func speakerReady() bool {
	speakerMu.Lock()
	defer speakerMu.Unlock()
	return speakerInit
}

// Player plays one stream at a time. Methods are safe for concurrent use.
type Player struct {
	mu sync.Mutex

	state    State
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	volume   *effects.Volume
	tap      *sampleTap
	level    float64

	// gen identifies the active stream; end-of-stream callbacks from a
	// replaced stream compare unequal and are ignored.
	gen        uint64
	onFinished func()
}

func New() *Player {
	return &Player{level: 1, tap: newSampleTap(tapSize)}
}

// Play stops the current stream, then decodes and starts path. On failure
// the player is left Stopped with nothing open.
func (p *Player) Play(path string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.releaseLocked()

	streamer, format, err := openStream(path)
	if err != nil {
		return err
	}

	rate, err := initSpeaker(format.SampleRate)
	if err != nil {
		streamer.Close()
		return fmt.Errorf("init speaker: %w", err)
	}

	var out beep.Streamer = streamer
	if format.SampleRate != rate {
		out = beep.Resample(4, format.SampleRate, rate, streamer)
	}
	p.tap.reset()
	p.tap.s = out

	p.streamer = streamer
	p.format = format
	p.ctrl = &beep.Ctrl{Streamer: p.tap}
	p.volume = &effects.Volume{
		Streamer: p.ctrl,
		Base:     2,
		Volume:   levelToVolume(p.level),
		Silent:   p.level <= 0,
	}
	p.state = Playing
	p.gen++

	gen := p.gen
	speaker.Play(beep.Seq(p.volume, beep.Callback(func() {
		// Runs on the speaker goroutine with the speaker lock held.
		go p.finished(gen)
	})))
	return nil
}

func (p *Player) finished(gen uint64) {
	p.mu.Lock()
	if gen != p.gen || p.state == Stopped {
		p.mu.Unlock()
		return
	}
	p.releaseLocked()
	fn := p.onFinished
	p.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// Stop halts output and releases the decoder and file.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.releaseLocked()
}

func (p *Player) releaseLocked() {
	p.gen++
	if p.streamer == nil {
		p.state = Stopped
		return
	}
	if speakerReady() {
		speaker.Clear()
	}
	p.streamer.Close()
	p.streamer = nil
	p.ctrl = nil
	p.volume = nil
	p.format = beep.Format{}
	p.state = Stopped
}

func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.state.CanPause() || p.ctrl == nil {
		return
	}
	speaker.Lock()
	p.ctrl.Paused = true
	speaker.Unlock()
	p.state = Paused
}

func (p *Player) Resume() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.state.CanResume() || p.ctrl == nil {
		return
	}
	speaker.Lock()
	p.ctrl.Paused = false
	speaker.Unlock()
	p.state = Playing
}

func (p *Player) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Player) Position() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.streamer == nil {
		return 0
	}
	speaker.Lock()
	pos := p.streamer.Position()
	speaker.Unlock()
	return p.format.SampleRate.D(pos)
}

func (p *Player) Duration() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.streamer == nil {
		return 0
	}
	return p.format.SampleRate.D(p.streamer.Len())
}

// SeekTo moves to pos, clamped to the stream bounds. No-op when stopped.
func (p *Player) SeekTo(pos time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.streamer == nil {
		return nil
	}
	n := min(max(p.format.SampleRate.N(pos), 0), p.streamer.Len())

	speaker.Lock()
	err := p.streamer.Seek(n)
	speaker.Unlock()
	if err != nil {
		return fmt.Errorf("seek: %w", err)
	}
	p.tap.reset()
	return nil
}

func (p *Player) OnFinished(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onFinished = fn
}

// Samples returns nil unless a stream is playing.
func (p *Player) Samples(n int) []float64 {
	p.mu.Lock()
	playing := p.state == Playing
	p.mu.Unlock()
	if !playing {
		return nil
	}
	return p.tap.recent(n)
}
