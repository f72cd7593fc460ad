package playback

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/llehouerou/listentwo/internal/errmsg"
	"github.com/llehouerou/listentwo/internal/player"
	"github.com/llehouerou/listentwo/internal/session"
)

// Play resumes a paused stream, reloads the current entry at its stored
// position, or starts the first queue entry.
func (c *Controller) Play() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playLocked()
}

func (c *Controller) playLocked() error {
	if c.s.Loading() {
		return nil
	}
	if c.player.State() == player.Paused {
		c.player.Resume()
		c.s.SetPlaying(true)
		c.emitState()
		return nil
	}
	if c.player.State() == player.Playing {
		return nil
	}
	if i := c.s.CurrentIndex(); i >= 0 {
		return c.loadLocked(i, c.s.Position())
	}
	if c.s.QueueLen() == 0 {
		return ErrEmptyQueue
	}
	return c.loadLocked(0, 0)
}

// Pause pauses output. The position is kept.
func (c *Controller) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pauseLocked()
}

func (c *Controller) pauseLocked() {
	if c.player.State() != player.Playing {
		return
	}
	c.s.SetPosition(c.player.Position())
	c.player.Pause()
	c.s.SetPlaying(false)
	c.emitState()
	c.markDirtyLocked()
}

// Toggle pauses while playing and plays otherwise. With nothing loaded it
// starts the first queue entry.
func (c *Controller) Toggle() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.s.Playing() {
		c.pauseLocked()
		return nil
	}
	return c.playLocked()
}

// Stop halts playback, cancels any pending load and rewinds. The current
// entry stays selected.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
}

func (c *Controller) stopLocked() {
	c.invalidateLoadLocked()
	c.player.Stop()
	c.s.SetPlaying(false)
	c.s.SetPosition(0)
	c.emitState()
	c.markDirtyLocked()
}

// Next advances by the repeat mode. At the end of a sequence playback
// stops.
func (c *Controller) Next() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.advanceLocked()
}

// TrackFinished handles the end of the current stream.
func (c *Controller) TrackFinished() error {
	return c.Next()
}

func (c *Controller) onPlayerFinished() {
	if err := c.TrackFinished(); err != nil && !errors.Is(err, ErrEmptyQueue) {
		c.log.Warn("advance after track end", zap.Error(err))
	}
}

func (c *Controller) advanceLocked() error {
	n := c.s.QueueLen()
	if n == 0 {
		c.stopLocked()
		return ErrEmptyQueue
	}
	next, ok := session.NextIndex(c.s.RepeatMode(), c.s.CurrentIndex(), n, c.rng, c.opts.ShuffleAvoidRepeat)
	if !ok {
		c.stopLocked()
		return nil
	}
	return c.loadLocked(next, 0)
}

// Previous moves to the previous entry, wrapping to the last.
func (c *Controller) Previous() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	prev, ok := session.PrevIndex(c.s.CurrentIndex(), c.s.QueueLen())
	if !ok {
		return ErrEmptyQueue
	}
	return c.loadLocked(prev, 0)
}

// SeekTo moves the clock to pos, clamped to the track.
func (c *Controller) SeekTo(pos time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seekLocked(pos)
}

// SeekBy moves the clock by delta.
func (c *Controller) SeekBy(delta time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seekLocked(c.s.Position() + delta)
}

// SeekStep returns the configured seek step.
func (c *Controller) SeekStep() time.Duration { return c.opts.SeekStep }

func (c *Controller) seekLocked(pos time.Duration) error {
	if c.s.CurrentIndex() < 0 {
		return nil
	}
	c.s.SetPosition(pos)
	if c.player.State().IsActive() {
		if err := c.player.SeekTo(c.s.Position()); err != nil {
			c.fail(errmsg.OpSeek, "", err)
			return err
		}
	}
	c.markDirtyLocked()
	return nil
}

// SetVolume sets the output level; 0 mutes.
func (c *Controller) SetVolume(v float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.s.SetVolume(v)
	c.applyVolumeLocked()
}

// ToggleMute mutes, or restores the level from before muting.
func (c *Controller) ToggleMute() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.s.ToggleMute()
	c.applyVolumeLocked()
}

func (c *Controller) applyVolumeLocked() {
	c.player.SetVolume(c.s.EffectiveVolume())
	c.emitMode()
	c.markDirtyLocked()
}

// CycleRepeatMode steps sequence → loop → random → sequence.
func (c *Controller) CycleRepeatMode() session.RepeatMode {
	c.mu.Lock()
	defer c.mu.Unlock()
	m := c.s.CycleRepeatMode()
	c.emitMode()
	c.markDirtyLocked()
	return m
}

func (c *Controller) SetRepeatMode(m session.RepeatMode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.s.SetRepeatMode(m)
	c.emitMode()
	c.markDirtyLocked()
}

// SetShowPlaylist and SetShowLyrics persist the UI panel toggles.
func (c *Controller) SetShowPlaylist(v bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.s.SetShowPlaylist(v)
	c.markDirtyLocked()
}

func (c *Controller) SetShowLyrics(v bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.s.SetShowLyrics(v)
	c.markDirtyLocked()
}

// ToggleBackgroundMode switches between cover and desktop backgrounds.
func (c *Controller) ToggleBackgroundMode() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	m := c.s.ToggleBackgroundMode()
	c.markDirtyLocked()
	return m
}

// Tick syncs the clock from the player. Call it on the UI poll interval.
func (c *Controller) Tick() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.player.State() != player.Playing {
		return
	}
	if d := c.player.Duration(); d > 0 && d != c.s.Duration() {
		c.s.SetDuration(d)
	}
	c.s.SetPosition(c.player.Position())
}
