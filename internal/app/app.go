// Package app is the bubbletea model of the player screen. It renders the
// playback controller and turns key presses into controller commands.
package app

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/llehouerou/listentwo/internal/effect"
	"github.com/llehouerou/listentwo/internal/library"
	"github.com/llehouerou/listentwo/internal/playback"
	"github.com/llehouerou/listentwo/internal/ui/playerbar"
	"github.com/llehouerou/listentwo/internal/ui/popup"
	"github.com/llehouerou/listentwo/internal/ui/queuepanel"
)

const (
	defaultPoll = 100 * time.Millisecond
	volumeStep  = 0.05
)

// Options configure the screen.
type Options struct {
	// Folder is selected on start when set. Otherwise the restored
	// folder, if any, is watched.
	Folder string
	// Poll is the clock and lyric refresh interval.
	Poll time.Duration
	// Stderr receives lines captured from native code; may be nil.
	Stderr <-chan string
	Logger *zap.Logger
}

// Model is the root bubbletea model.
type Model struct {
	ctrl    *playback.Controller
	sub     *playback.Subscription
	effects *effect.Manager
	watcher *library.Watcher
	log     *zap.Logger
	opts    Options

	keys  keyMap
	help  help.Model
	queue queuepanel.Model
	bar   playerbar.Model

	popup      popup.Popup
	popupTitle string

	view      playback.View
	notice    string
	noticeErr bool
	noticeSeq int

	width, height int
	framing       bool
	lastFrame     time.Time
}

// New builds the screen for ctrl. The effect manager is owned by the
// caller and may be nil.
func New(ctrl *playback.Controller, effects *effect.Manager, opts Options) Model {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Poll <= 0 {
		opts.Poll = defaultPoll
	}
	if effects == nil {
		effects = effect.NewManager(log)
	}
	m := Model{
		ctrl:    ctrl,
		sub:     ctrl.Subscribe(),
		effects: effects,
		log:     log,
		opts:    opts,
		keys:    defaultKeys(),
		help:    help.New(),
		queue:   queuepanel.New(),
		bar:     playerbar.New(),
		framing: effects.Current() != "",
	}
	m.queue.SetFocused(true)
	m.refresh()
	return m
}

// Init starts the event pump, the clock and the folder watcher. An effect
// already selected on the manager starts animating.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.WatchServiceEvents(),
		PollCmd(m.opts.Poll),
		WatchStderr(m.opts.Stderr),
	}
	if m.framing {
		cmds = append(cmds, FrameCmd())
	}
	if m.opts.Folder != "" {
		cmds = append(cmds, m.selectFolderCmd(m.opts.Folder))
	} else {
		cmds = append(cmds, watchFolderCmd(m.view.Folder, m.log))
	}
	return tea.Batch(cmds...)
}

// Close releases the watcher and the effect. The controller is closed by
// its owner.
func (m Model) Close() {
	if m.watcher != nil {
		_ = m.watcher.Close()
	}
	m.effects.Close()
}

// refresh re-reads the controller and pushes the result into the
// components.
func (m *Model) refresh() {
	m.view = m.ctrl.View()
	m.queue.SetState(queuepanel.State{
		Source:  sourceName(m.view),
		Search:  m.view.Search,
		Queue:   m.view.Queue,
		Index:   m.view.Index,
		Current: m.view.Track,
		Mode:    m.view.RepeatMode,
	})
}

// setNotice shows text until the next notice or noticeDuration.
func (m *Model) setNotice(text string, isErr bool) tea.Cmd {
	if text == "" {
		return nil
	}
	m.noticeSeq++
	m.notice = text
	m.noticeErr = isErr
	return ClearNoticeCmd(m.noticeSeq)
}
