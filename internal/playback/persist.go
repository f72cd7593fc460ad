package playback

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/llehouerou/listentwo/internal/errmsg"
	"github.com/llehouerou/listentwo/internal/snapshot"
)

// markDirtyLocked schedules a debounced write of the current snapshot.
func (c *Controller) markDirtyLocked() {
	if c.store == nil || c.closed {
		return
	}
	c.store.SaveDebounced(snapshot.Key, snapshot.Marshal(snapshot.Encode(c.s)))
}

// saveNowLocked writes the snapshot synchronously, plus the folder state
// file when sidecar autosave is on. Failures are logged and published,
// never returned.
func (c *Controller) saveNowLocked() {
	snap := snapshot.Encode(c.s)
	if c.store != nil {
		if err := c.store.Put(snapshot.Key, snapshot.Marshal(snap)); err != nil {
			c.ReportSaveError(snapshot.Key, err)
		}
	}
	if c.opts.SidecarAutosave && c.folder != "" {
		if err := snapshot.WriteSidecar(c.folder, snap); err != nil {
			c.log.Warn("write folder state", zap.String("folder", c.folder), zap.Error(err))
			c.fail(errmsg.OpSessionSave, snapshot.SidecarPath(c.folder), err)
		}
	}
	c.savedRev = c.s.Revision()
}

// ReportSaveError logs and publishes a failed background write. It is
// suitable as a store error handler.
func (c *Controller) ReportSaveError(key string, err error) {
	c.log.Warn("save state", zap.String("key", key), zap.Error(err))
	c.fail(errmsg.OpSessionSave, key, err)
}

// Save writes the snapshot now.
func (c *Controller) Save() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.saveNowLocked()
}

// RunAutosave saves on a fixed cadence while the session changes. It
// returns when ctx is done.
func (c *Controller) RunAutosave(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.mu.Lock()
			if !c.closed && c.s.Revision() != c.savedRev {
				c.saveNowLocked()
			}
			c.mu.Unlock()
		}
	}
}

// LastSaved returns the time of the last successful store write.
func (c *Controller) LastSaved() time.Time {
	if c.store == nil {
		return time.Time{}
	}
	return c.store.LastSaved()
}

// Snapshot encodes the current session.
func (c *Controller) Snapshot() snapshot.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return snapshot.Encode(c.s)
}

// ExportSidecar writes the session to the selected folder's state file.
func (c *Controller) ExportSidecar() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.folder == "" {
		return ErrNoFolder
	}
	if err := snapshot.WriteSidecar(c.folder, snapshot.Encode(c.s)); err != nil {
		err = fmt.Errorf("export state: %w", err)
		c.log.Warn("export state", zap.String("folder", c.folder), zap.Error(err))
		c.fail(errmsg.OpSessionExport, snapshot.SidecarPath(c.folder), err)
		return err
	}
	c.log.Info("state exported", zap.String("folder", c.folder))
	c.notice("Session saved to " + snapshot.SidecarName)
	return nil
}

// Restore merges p over the session. Playback ends up stopped with the
// restored entry current.
func (c *Controller) Restore(p snapshot.Partial) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.restoreLocked(p)
	c.emitQueue()
	c.markDirtyLocked()
}

func (c *Controller) restoreLocked(p snapshot.Partial) {
	c.invalidateLoadLocked()
	c.player.Stop()
	c.s.SetPlaying(false)
	snapshot.Apply(p, c.s)
	c.player.SetVolume(c.s.EffectiveVolume())
	c.emitTrack(nil)
	c.emitMode()
	c.emitState()
}

// FolderKey is the store key of the last selected music folder. The
// snapshot itself does not carry it.
const FolderKey = "folder"

// RestoreStored loads the snapshot from the store, if any, and restores
// it. Decode problems are logged and returned as warnings. The last
// folder is remembered without listing it again.
func (c *Controller) RestoreStored() ([]snapshot.Warning, error) {
	if c.store == nil {
		return nil, nil
	}
	if folder, ok, err := c.store.Get(FolderKey); err == nil && ok {
		c.mu.Lock()
		c.folder = string(folder)
		c.mu.Unlock()
	}
	data, ok, err := c.store.Get(snapshot.Key)
	if err != nil {
		c.log.Warn("load state", zap.Error(err))
		c.fail(errmsg.OpSessionLoad, snapshot.Key, err)
		return nil, fmt.Errorf("load state: %w", err)
	}
	if !ok {
		return nil, nil
	}
	p, warnings := snapshot.Decode(data)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.logWarnings(snapshot.Key, warnings)
	c.restoreLocked(p)
	c.savedRev = c.s.Revision()
	c.emitQueue()
	c.log.Info("state restored", zap.Int("songs", c.s.Library().Len()), zap.Int("warnings", len(warnings)))
	return warnings, nil
}

func (c *Controller) logWarnings(source string, warnings []snapshot.Warning) {
	for _, w := range warnings {
		c.log.Warn("snapshot field", zap.String("source", source), zap.String("field", w.Field), zap.String("reason", w.Reason))
	}
}
