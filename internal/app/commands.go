package app

import (
	"context"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/llehouerou/listentwo/internal/errmsg"
	"github.com/llehouerou/listentwo/internal/library"
)

const (
	frameInterval  = time.Second / 30
	noticeDuration = 3 * time.Second
	watchDebounce  = 500 * time.Millisecond
	samplesPerStep = 2048
)

// PollCmd schedules the next clock refresh.
func PollCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return PollMsg(t)
	})
}

// FrameCmd schedules the next effect frame.
func FrameCmd() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return FrameMsg(t)
	})
}

// ClearNoticeCmd hides notice seq after noticeDuration.
func ClearNoticeCmd(seq int) tea.Cmd {
	return tea.Tick(noticeDuration, func(time.Time) tea.Msg {
		return ClearNoticeMsg{Seq: seq}
	})
}

// WatchServiceEvents waits for the next controller event and converts it
// to a tea.Msg. It must be re-issued after every message it produces.
func (m Model) WatchServiceEvents() tea.Cmd {
	sub := m.sub
	if sub == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case <-sub.StateChanged:
			return PlaybackChangedMsg{}
		case <-sub.TrackChanged:
			return PlaybackChangedMsg{}
		case <-sub.QueueChanged:
			return PlaybackChangedMsg{}
		case <-sub.ModeChanged:
			return PlaybackChangedMsg{}
		case n := <-sub.Notices:
			return NoticeMsg{Text: n.Text}
		case e := <-sub.Error:
			ctx := e.Path
			if ctx != "" {
				ctx = filepath.Base(ctx)
			}
			return NoticeMsg{Text: errmsg.FormatWith(e.Operation, ctx, e.Err), Error: true}
		case <-sub.Done:
			return ControllerClosedMsg{}
		}
	}
}

// selectFolderCmd lists folder off the UI goroutine.
func (m Model) selectFolderCmd(folder string) tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		err := ctrl.SelectFolder(context.Background(), folder)
		return FolderSelectedMsg{Folder: ctrl.Folder(), Err: err}
	}
}

// rescanCmd re-lists the current folder.
func (m Model) rescanCmd() tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		return RescanDoneMsg{Err: ctrl.Rescan(context.Background())}
	}
}

// watchFolderCmd starts a watcher on folder.
func watchFolderCmd(folder string, log *zap.Logger) tea.Cmd {
	if folder == "" {
		return nil
	}
	return func() tea.Msg {
		w, err := library.Watch(folder, watchDebounce, log)
		return WatchStartedMsg{Watcher: w, Err: err}
	}
}

// waitForChanges blocks until w reports a change. It returns nil once the
// watcher is closed.
func waitForChanges(w *library.Watcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case <-w.Changed():
			return FolderChangedMsg{Watcher: w}
		case <-w.Done():
			return nil
		}
	}
}

// WatchStderr forwards captured stderr lines.
func WatchStderr(lines <-chan string) tea.Cmd {
	if lines == nil {
		return nil
	}
	return waitForChannel(lines, func(line string) tea.Msg {
		return StderrMsg{Line: line}
	})
}

// waitForChannel returns a command reading one value from ch. A closed
// channel yields nil.
func waitForChannel[T any](ch <-chan T, wrap func(T) tea.Msg) tea.Cmd {
	return func() tea.Msg {
		v, ok := <-ch
		if !ok {
			return nil
		}
		return wrap(v)
	}
}
