package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/llehouerou/listentwo/internal/errmsg"
	"github.com/llehouerou/listentwo/internal/playback"
	"github.com/llehouerou/listentwo/internal/session"
	"github.com/llehouerou/listentwo/internal/ui/confirm"
	"github.com/llehouerou/listentwo/internal/ui/layout"
	"github.com/llehouerou/listentwo/internal/ui/picker"
	"github.com/llehouerou/listentwo/internal/ui/sourcebar"
	"github.com/llehouerou/listentwo/internal/ui/textinput"
)

// removeSongRequest is the confirm context for removing a song.
type removeSongRequest struct {
	Source string
	Path   string
}

// deletePlaylistRequest is the confirm context for deleting a playlist.
type deletePlaylistRequest struct {
	ID string
}

// Update handles messages and returns the updated model and commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		cmd := m.resize()
		return m, cmd

	case tea.KeyMsg:
		if m.popup != nil {
			var cmd tea.Cmd
			m.popup, cmd = m.popup.Update(msg)
			return m, cmd
		}
		return m.handleKey(msg)

	case PollMsg:
		m.ctrl.Tick()
		m.refresh()
		return m, PollCmd(m.opts.Poll)

	case FrameMsg:
		return m.handleFrame(time.Time(msg))

	case PlaybackChangedMsg:
		m.refresh()
		cmd := tea.Batch(m.resize(), m.WatchServiceEvents())
		return m, cmd

	case NoticeMsg:
		cmd := tea.Batch(m.setNotice(msg.Text, msg.Error), m.WatchServiceEvents())
		return m, cmd

	case ClearNoticeMsg:
		if msg.Seq == m.noticeSeq {
			m.notice = ""
			m.noticeErr = false
		}
		return m, nil

	case ControllerClosedMsg:
		m.sub = nil
		return m, nil

	case FolderSelectedMsg:
		m.refresh()
		if msg.Err != nil {
			// The controller reports listing failures itself.
			cmd := m.report(msg.Err)
			return m, cmd
		}
		cmd := tea.Batch(m.resize(), watchFolderCmd(msg.Folder, m.log))
		return m, cmd

	case WatchStartedMsg:
		return m.handleWatchStarted(msg)

	case FolderChangedMsg:
		if msg.Watcher != m.watcher {
			return m, nil
		}
		return m, tea.Batch(m.rescanCmd(), waitForChanges(m.watcher))

	case RescanDoneMsg:
		m.refresh()
		cmd := m.report(msg.Err)
		return m, cmd

	case StderrMsg:
		cmd := tea.Batch(m.setNotice(msg.Line, true), WatchStderr(m.opts.Stderr))
		return m, cmd

	case textinput.Result:
		m.closePopup()
		return m.handleTextInput(msg)

	case confirm.Result:
		m.closePopup()
		return m.handleConfirm(msg)

	case picker.Result:
		m.closePopup()
		return m.handlePicker(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys
	switch {
	case key.Matches(msg, k.Quit):
		return m, tea.Quit
	case key.Matches(msg, k.Help):
		m.help.ShowAll = !m.help.ShowAll
		cmd := m.resize()
		return m, cmd

	case key.Matches(msg, k.PlayPause):
		return m.after(m.ctrl.Toggle())
	case key.Matches(msg, k.Stop):
		m.ctrl.Stop()
		return m.after(nil)
	case key.Matches(msg, k.Next):
		return m.after(m.ctrl.Next())
	case key.Matches(msg, k.Previous):
		return m.after(m.ctrl.Previous())
	case key.Matches(msg, k.SeekBack):
		return m.after(m.ctrl.SeekBy(-m.ctrl.SeekStep()))
	case key.Matches(msg, k.SeekFwd):
		return m.after(m.ctrl.SeekBy(m.ctrl.SeekStep()))
	case key.Matches(msg, k.VolumeUp):
		m.ctrl.SetVolume(m.view.Volume + volumeStep)
		return m.after(nil)
	case key.Matches(msg, k.VolumeDown):
		m.ctrl.SetVolume(m.view.Volume - volumeStep)
		return m.after(nil)
	case key.Matches(msg, k.Mute):
		m.ctrl.ToggleMute()
		return m.after(nil)
	case key.Matches(msg, k.Repeat):
		m.ctrl.CycleRepeatMode()
		m.refresh()
		cmd := m.setNotice("Repeat: "+m.view.RepeatMode.Label(), false)
		return m, cmd

	case key.Matches(msg, k.NextSource):
		m.ctrl.SelectSource(sourcebar.Step(m.tabs(), m.view.Source, 1))
		return m.after(nil)
	case key.Matches(msg, k.PrevSource):
		m.ctrl.SelectSource(sourcebar.Step(m.tabs(), m.view.Source, -1))
		return m.after(nil)
	case key.Matches(msg, k.PlayCursor):
		if i, _, ok := m.queue.Selected(); ok {
			return m.after(m.ctrl.Load(i))
		}
		return m, nil
	case key.Matches(msg, k.Follow):
		m.queue.FollowCurrent()
		return m, nil

	case key.Matches(msg, k.OpenFolder):
		return m.openPrompt("Open folder", "/path/to/music", m.view.Folder, textinput.PurposeFolder)
	case key.Matches(msg, k.Search):
		return m.openPrompt("Search", "file name", m.view.Search, textinput.PurposeSearch)
	case key.Matches(msg, k.ClearSearch):
		if m.view.Search != "" {
			m.ctrl.SetSearch("")
			return m.after(nil)
		}
		return m, nil
	case key.Matches(msg, k.NewPlaylist):
		m.popupTitle = "New playlist"
		m.popup = textinput.New("New playlist", "name", "", textinput.PurposePlaylistName, popupWidth(m.width)).Require()
		return m, nil
	case key.Matches(msg, k.AddToPlaylist):
		return m.openPlaylistPicker()
	case key.Matches(msg, k.RemoveSong):
		_, path, ok := m.queue.Selected()
		if !ok {
			return m, nil
		}
		from := "the library"
		if m.view.Source != session.SourceLibrary {
			from = fmt.Sprintf("%q", sourceName(m.view))
		}
		question := fmt.Sprintf("Remove %q from %s?", baseName(path), from)
		return m.openConfirm("Remove song", question, removeSongRequest{Source: m.view.Source, Path: path})
	case key.Matches(msg, k.DeletePlaylist):
		if m.view.Source == session.SourceLibrary {
			cmd := m.setNotice("The library cannot be deleted", false)
			return m, cmd
		}
		question := fmt.Sprintf("Delete playlist %q?", sourceName(m.view))
		return m.openConfirm("Delete playlist", question, deletePlaylistRequest{ID: m.view.Source})

	case key.Matches(msg, k.Effect):
		return m.cycleEffect()
	case key.Matches(msg, k.Lyrics):
		m.ctrl.SetShowLyrics(!m.view.ShowLyrics)
		m.refresh()
		cmd := m.resize()
		return m, cmd
	case key.Matches(msg, k.Queue):
		m.ctrl.SetShowPlaylist(!m.view.ShowPlaylist)
		m.refresh()
		cmd := m.resize()
		return m, cmd
	case key.Matches(msg, k.Background):
		mode := m.ctrl.ToggleBackgroundMode()
		cmd := m.setNotice("Background: "+mode, false)
		return m, cmd
	case key.Matches(msg, k.Export):
		if err := m.ctrl.ExportSidecar(); err != nil {
			cmd := m.report(err)
			return m, cmd
		}
		cmd := m.setNotice("State exported to the music folder", false)
		return m, cmd
	case key.Matches(msg, k.Rescan):
		if m.view.Folder == "" {
			cmd := m.report(playback.ErrNoFolder)
			return m, cmd
		}
		return m, m.rescanCmd()
	case key.Matches(msg, k.Save):
		m.ctrl.Save()
		cmd := m.setNotice("Saved", false)
		return m, cmd
	}

	m.queue.HandleKey(msg)
	return m, nil
}

// after refreshes from the controller and reports err.
func (m Model) after(err error) (tea.Model, tea.Cmd) {
	m.refresh()
	cmd := m.report(err)
	return m, cmd
}

// report turns a command error into a notice. Errors the controller
// already published as events are left to the event pump.
func (m *Model) report(err error) tea.Cmd {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, playback.ErrEmptyQueue):
		return m.setNotice("Queue is empty", false)
	case errors.Is(err, playback.ErrNoFolder):
		return m.setNotice("No music folder selected. Press o to open one.", false)
	}
	m.log.Debug("command failed", zap.Error(err))
	return nil
}

func (m Model) handleTextInput(r textinput.Result) (tea.Model, tea.Cmd) {
	if r.Canceled {
		return m, nil
	}
	text := strings.TrimSpace(r.Text)
	switch r.Purpose {
	case textinput.PurposeFolder:
		if text == "" {
			return m, nil
		}
		return m, m.selectFolderCmd(expandHome(text))
	case textinput.PurposeSearch:
		m.ctrl.SetSearch(text)
		return m.after(nil)
	case textinput.PurposePlaylistName:
		if _, ok := m.ctrl.CreatePlaylist(text); !ok {
			return m, nil
		}
		m.refresh()
		cmd := m.setNotice(fmt.Sprintf("Playlist %q created", text), false)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleConfirm(r confirm.Result) (tea.Model, tea.Cmd) {
	if !r.Confirmed {
		return m, nil
	}
	switch req := r.Context.(type) {
	case removeSongRequest:
		res := m.ctrl.RemoveSong(req.Source, req.Path)
		m.refresh()
		if !res.Removed {
			return m, nil
		}
		cmd := m.setNotice(fmt.Sprintf("Removed %q", baseName(req.Path)), false)
		return m, cmd
	case deletePlaylistRequest:
		name := sourcebar.Name(m.tabs(), req.ID)
		if !m.ctrl.DeletePlaylist(req.ID) {
			return m, nil
		}
		m.refresh()
		cmd := tea.Batch(m.resize(), m.setNotice(fmt.Sprintf("Playlist %q deleted", name), false))
		return m, cmd
	}
	return m, nil
}

func (m Model) openPlaylistPicker() (tea.Model, tea.Cmd) {
	_, path, ok := m.queue.Selected()
	if !ok {
		return m, nil
	}
	items := make([]picker.Item, 0, len(m.view.Playlists))
	for _, p := range m.view.Playlists {
		items = append(items, picker.Item{ID: p.ID, Label: p.Name})
	}
	m.popupTitle = "Add to playlist"
	m.popup = picker.New(items, path, popupWidth(m.width), min(len(items), 10))
	return m, nil
}

func (m Model) handlePicker(r picker.Result) (tea.Model, tea.Cmd) {
	path, _ := r.Context.(string)
	if r.ID == "" || path == "" {
		return m, nil
	}
	name := sourcebar.Name(m.tabs(), r.ID)
	if !m.ctrl.AddSongToPlaylist(r.ID, path) {
		cmd := m.setNotice(fmt.Sprintf("Already in %q", name), false)
		return m, cmd
	}
	m.refresh()
	cmd := m.setNotice(fmt.Sprintf("Added to %q", name), false)
	return m, cmd
}

func (m Model) openPrompt(title, placeholder, initial string, p textinput.Purpose) (tea.Model, tea.Cmd) {
	in := textinput.New(title, placeholder, initial, p, popupWidth(m.width))
	m.popupTitle = title
	m.popup = in
	return m, nil
}

func (m Model) openConfirm(title, question string, ctx any) (tea.Model, tea.Cmd) {
	m.popupTitle = title
	m.popup = confirm.New(question, ctx)
	return m, nil
}

func (m *Model) closePopup() {
	m.popup = nil
	m.popupTitle = ""
}

func (m Model) cycleEffect() (tea.Model, tea.Cmd) {
	name, err := m.effects.Cycle()
	if err != nil {
		cmd := m.setNotice(errmsg.FormatWith(errmsg.OpEffectStart, name, err), true)
		return m, cmd
	}
	resize := m.resize()
	if name == "" {
		cmd := tea.Batch(resize, m.setNotice("Effect off", false))
		return m, cmd
	}
	notice := m.setNotice("Effect: "+name, false)
	if m.framing {
		return m, tea.Batch(resize, notice)
	}
	m.framing = true
	m.lastFrame = time.Time{}
	return m, tea.Batch(resize, notice, FrameCmd())
}

func (m Model) handleFrame(now time.Time) (tea.Model, tea.Cmd) {
	if m.effects.Current() == "" {
		m.framing = false
		return m, nil
	}
	dt := frameInterval
	if !m.lastFrame.IsZero() {
		dt = now.Sub(m.lastFrame)
	}
	m.lastFrame = now
	m.effects.Step(dt, m.ctrl.Samples(samplesPerStep))
	return m, FrameCmd()
}

func (m Model) handleWatchStarted(msg WatchStartedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.log.Warn("watch folder", zap.Error(msg.Err))
		cmd := m.setNotice(errmsg.Format(errmsg.OpFolderWatch, msg.Err), true)
		return m, cmd
	}
	if m.watcher != nil {
		_ = m.watcher.Close()
	}
	m.watcher = msg.Watcher
	return m, waitForChanges(m.watcher)
}

// resize lays the screen out again and resizes the components. It
// returns a notice command when the effect no longer fits.
func (m *Model) resize() tea.Cmd {
	if m.width == 0 || m.height == 0 {
		return nil
	}
	m.help.Width = m.width
	sizes := layout.Compute(m.height, m.layoutOpts())
	m.queue.SetSize(m.width, sizes.Queue)
	if sizes.Effect == 0 {
		return nil
	}
	if err := m.effects.Resize(m.width, sizes.Effect); err != nil {
		return m.setNotice(errmsg.Format(errmsg.OpEffectStart, err), true)
	}
	return nil
}

func (m Model) layoutOpts() layout.Opts {
	return layout.Opts{
		ShowQueue:  m.view.ShowPlaylist,
		ShowLyrics: m.view.ShowLyrics,
		ShowEffect: m.effects.Current() != "",
		HelpRows:   m.helpRows(),
	}
}

func (m Model) helpRows() int {
	if !m.help.ShowAll {
		return 1
	}
	rows := 0
	for _, col := range m.keys.FullHelp() {
		rows = max(rows, len(col))
	}
	return rows
}

func popupWidth(termWidth int) int {
	return max(min(termWidth-10, 60), 20)
}
