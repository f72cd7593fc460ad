package app

import (
	"time"

	"github.com/llehouerou/listentwo/internal/library"
)

// PollMsg drives the clock and lyric refresh.
type PollMsg time.Time

// FrameMsg advances the visual effect by one frame.
type FrameMsg time.Time

// PlaybackChangedMsg is sent for any controller state, track, queue or
// mode event. The model re-reads the controller view on receipt.
type PlaybackChangedMsg struct{}

// NoticeMsg carries a transient status line.
type NoticeMsg struct {
	Text  string
	Error bool
}

// ClearNoticeMsg hides the notice with the given sequence number if it is
// still the one on screen.
type ClearNoticeMsg struct {
	Seq int
}

// ControllerClosedMsg is sent once the playback subscription ends.
type ControllerClosedMsg struct{}

// FolderSelectedMsg reports the outcome of selecting a music folder.
type FolderSelectedMsg struct {
	Folder string
	Err    error
}

// WatchStartedMsg hands a new folder watcher to the model.
type WatchStartedMsg struct {
	Watcher *library.Watcher
	Err     error
}

// FolderChangedMsg is sent when the watched folder gained or lost files.
type FolderChangedMsg struct {
	Watcher *library.Watcher
}

// RescanDoneMsg reports the outcome of a library rescan.
type RescanDoneMsg struct {
	Err error
}

// StderrMsg is a line written to stderr by a native decoder or the audio
// backend.
type StderrMsg struct {
	Line string
}
