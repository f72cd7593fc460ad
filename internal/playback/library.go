package playback

import (
	"context"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/llehouerou/listentwo/internal/errmsg"
	"github.com/llehouerou/listentwo/internal/session"
	"github.com/llehouerou/listentwo/internal/snapshot"
)

// afterQueueChangeLocked stops the player when the current entry left the
// queue, then publishes the new queue.
func (c *Controller) afterQueueChangeLocked(kept bool) {
	if !kept {
		c.invalidateLoadLocked()
		c.player.Stop()
		c.emitTrack(nil)
		c.emitState()
	}
	c.emitQueue()
	c.markDirtyLocked()
}

// SelectSource switches the queue to the library or to playlist id.
func (c *Controller) SelectSource(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.afterQueueChangeLocked(c.s.SelectSource(id))
}

// SetSearch filters the queue by file name.
func (c *Controller) SetSearch(q string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.afterQueueChangeLocked(c.s.SetSearch(q))
}

// SelectFolder lists folder and makes it the library. When the folder
// carries a saved state file and restoring is enabled, that state is
// applied first and the fresh listing then replaces its library. A folder
// that cannot be listed leaves the session untouched.
func (c *Controller) SelectFolder(ctx context.Context, folder string) error {
	if folder == "" {
		return ErrNoFolder
	}
	abs, err := filepath.Abs(folder)
	if err != nil {
		return c.folderFailed(errmsg.OpFolderOpen, folder, err)
	}
	files, err := c.listFiles(ctx, abs)
	if err != nil {
		return c.folderFailed(errmsg.OpFolderOpen, abs, err)
	}

	var (
		restored bool
		warnings []snapshot.Warning
		partial  snapshot.Partial
	)
	if c.opts.RestoreSidecar {
		var ok bool
		partial, warnings, ok, err = snapshot.ReadSidecar(abs)
		switch {
		case err != nil:
			c.log.Warn("read folder state", zap.String("folder", abs), zap.Error(err))
		case ok:
			restored = true
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if restored {
		c.logWarnings(abs, warnings)
		c.restoreLocked(partial)
	}
	kept := c.s.SelectFolder(files)
	c.folder = abs
	if c.store != nil {
		c.store.SaveDebounced(FolderKey, []byte(abs))
	}
	c.afterQueueChangeLocked(kept)

	c.log.Info("folder selected",
		zap.String("folder", abs),
		zap.Int("songs", len(files)),
		zap.Bool("restored", restored))
	msg := fmt.Sprintf("%d songs in %s", len(files), filepath.Base(abs))
	if restored {
		msg += " (previous session restored)"
	}
	c.notice(msg)
	return nil
}

func (c *Controller) folderFailed(op errmsg.Op, folder string, err error) error {
	err = fmt.Errorf("%s: %w", op, err)
	c.log.Warn("folder failed", zap.String("folder", folder), zap.Error(err))
	c.fail(op, folder, err)
	return err
}

// Folder returns the selected music folder, "" when none.
func (c *Controller) Folder() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.folder
}

// Rescan re-lists the selected folder, keeping everything else.
func (c *Controller) Rescan(ctx context.Context) error {
	folder := c.Folder()
	if folder == "" {
		return ErrNoFolder
	}
	files, err := c.listFiles(ctx, folder)
	if err != nil {
		return c.folderFailed(errmsg.OpFolderScan, folder, err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.afterQueueChangeLocked(c.s.SelectFolder(files))
	return nil
}

// CreatePlaylist adds a playlist, selects it and returns its id. Blank
// names are ignored.
func (c *Controller) CreatePlaylist(name string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	had := c.s.CurrentIndex() >= 0
	p, ok := c.s.CreatePlaylist(name)
	if !ok {
		return "", false
	}
	c.afterQueueChangeLocked(!had || c.s.CurrentIndex() >= 0)
	return p.ID, true
}

// DeletePlaylist removes playlist id; the library is selected if it was
// the active source.
func (c *Controller) DeletePlaylist(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	had := c.s.CurrentIndex() >= 0
	if !c.s.DeletePlaylist(id) {
		return false
	}
	c.afterQueueChangeLocked(!had || c.s.CurrentIndex() >= 0)
	return true
}

// AddSongToPlaylist appends path to playlist id unless already present.
func (c *Controller) AddSongToPlaylist(id, path string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.s.AddSongToPlaylist(id, path) {
		return false
	}
	c.emitQueue()
	c.markDirtyLocked()
	return true
}

// RemoveSong deletes path from the library or playlist sourceID. Removing
// the current entry stops playback.
func (c *Controller) RemoveSong(sourceID, path string) session.RemoveResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	res := c.s.RemoveSong(sourceID, path)
	if !res.Removed {
		return res
	}
	c.afterQueueChangeLocked(!res.Stopped)
	return res
}
