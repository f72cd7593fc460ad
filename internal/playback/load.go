package playback

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/llehouerou/listentwo/internal/errmsg"
	"github.com/llehouerou/listentwo/internal/playlist"
)

// invalidateLoadLocked makes any in-flight load stale and cancels its
// metadata read.
func (c *Controller) invalidateLoadLocked() {
	c.gen++
	if c.cancelLoad != nil {
		c.cancelLoad()
		c.cancelLoad = nil
	}
	c.s.SetLoading(false)
}

// Load makes queue entry i current and plays it once its metadata is read.
func (c *Controller) Load(i int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadLocked(i, 0)
}

// loadLocked releases the current media, points the session at entry i
// and starts the asynchronous part of the load. resumeAt seeks the new
// stream once it plays.
func (c *Controller) loadLocked(i int, resumeAt time.Duration) error {
	if c.closed {
		return nil
	}
	path, ok := c.s.QueuePath(i)
	if !ok {
		return fmt.Errorf("%w: no entry %d", ErrEmptyQueue, i)
	}

	c.invalidateLoadLocked()
	gen := c.gen
	ctx, cancel := context.WithCancel(context.Background())
	c.cancelLoad = cancel

	c.player.Stop()
	prev := c.s.CurrentTrack()
	c.s.SetCurrent(i, playlist.NewTrack(path))
	c.s.SetPlaying(false)
	c.s.SetDuration(0)
	c.s.SetPosition(0)
	c.s.SetLoading(true)
	c.emitTrack(prev)
	c.emitState()

	c.loads.Add(1)
	go func() {
		defer c.loads.Done()
		defer cancel()
		track := c.resolveTrack(ctx, path)
		c.finishLoad(gen, track, resumeAt)
	}()
	return nil
}

// resolveTrack reads metadata and lyrics. Lyrics come from the file's own
// tags, else from a same-name .lrc file.
func (c *Controller) resolveTrack(ctx context.Context, path string) playlist.Track {
	track := playlist.NewTrack(path)
	track.Apply(c.readMetadata(ctx, path), c.opts.CoverPx)
	if track.Lyrics == nil && ctx.Err() == nil {
		l, err := c.readLyrics(path)
		if err != nil {
			c.log.Warn("read lyrics", zap.String("path", path), zap.Error(err))
		}
		track.Lyrics = l
	}
	return track
}

// finishLoad plays track if it is still the current one. Queue edits made
// while the metadata was read may have moved it to another index.
func (c *Controller) finishLoad(gen uint64, track playlist.Track, resumeAt time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen || c.closed {
		c.log.Debug("discard stale load", zap.String("path", track.Path))
		return
	}
	c.cancelLoad = nil

	if !c.s.UpdateTrack(track) {
		// The track left the queue without invalidating the load.
		c.s.SetLoading(false)
		c.emitState()
		return
	}
	c.s.SetDuration(track.Duration)
	c.s.Background.PushCover(track.Cover)

	if err := c.player.Play(track.Path); err != nil {
		c.s.SetLoading(false)
		c.s.SetPlaying(false)
		c.log.Error("load track", zap.String("path", track.Path), zap.Error(err))
		c.fail(errmsg.OpPlay, track.Path, err)
		c.emitTrack(nil)
		c.emitState()
		c.markDirtyLocked()
		return
	}
	c.player.SetVolume(c.s.EffectiveVolume())
	if d := c.player.Duration(); d > 0 {
		c.s.SetDuration(d)
	}
	if resumeAt > 0 {
		if err := c.player.SeekTo(resumeAt); err != nil {
			c.log.Warn("resume position", zap.String("path", track.Path), zap.Error(err))
		} else {
			c.s.SetPosition(resumeAt)
		}
	}

	c.s.SetLoading(false)
	c.s.SetPlaying(true)
	c.log.Info("playing", zap.String("path", track.Path), zap.Int("index", c.s.CurrentIndex()))
	c.emitTrack(nil)
	c.emitState()
	c.markDirtyLocked()
}

// PlayFile plays a single file as a one-entry queue, replacing the library
// contents the way a direct file pick does.
func (c *Controller) PlayFile(path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.invalidateLoadLocked()
	c.player.Stop()
	c.s.SelectSource("")
	c.s.SetSearch("")
	c.s.SelectFolder([]string{path})
	c.emitQueue()
	return c.loadLocked(0, 0)
}
