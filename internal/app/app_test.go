package app

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/synctest"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/listentwo/internal/library"
	"github.com/llehouerou/listentwo/internal/lyrics"
	"github.com/llehouerou/listentwo/internal/playback"
	"github.com/llehouerou/listentwo/internal/player"
	"github.com/llehouerou/listentwo/internal/state"
	"github.com/llehouerou/listentwo/internal/tags"
	"github.com/llehouerou/listentwo/internal/ui/confirm"
	"github.com/llehouerou/listentwo/internal/ui/picker"
	"github.com/llehouerou/listentwo/internal/ui/textinput"
)

var songs = []string{"/music/a.mp3", "/music/b.mp3", "/music/c.mp3"}

func newController(t *testing.T, withFolder bool) (*playback.Controller, *player.Mock) {
	t.Helper()
	p := player.NewMock()
	c := playback.New(playback.Deps{
		Player: p,
		Store:  state.NewMock(),
		ReadMetadata: func(_ context.Context, path string) tags.Metadata {
			return tags.Metadata{Title: "T " + filepath.Base(path), Duration: time.Minute}
		},
		ReadLyrics: func(string) (*lyrics.Lyrics, error) { return nil, nil },
		ListFiles: func(_ context.Context, folder string) ([]string, error) {
			if folder != "/music" {
				return nil, os.ErrNotExist
			}
			return songs, nil
		},
	}, playback.Options{})
	if withFolder {
		require.NoError(t, c.SelectFolder(context.Background(), "/music"))
	}
	return c, p
}

func sized(t *testing.T, m Model) Model {
	t.Helper()
	out, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	return out.(Model)
}

func press(t *testing.T, m Model, k tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	out, cmd := m.Update(k)
	return out.(Model), cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestView_FillsWindow(t *testing.T) {
	c, _ := newController(t, true)
	defer c.Close()
	m := sized(t, New(c, nil, Options{}))

	lines := strings.Split(m.View(), "\n")
	assert.Len(t, lines, 30)
	assert.Contains(t, m.View(), "Library (3)")
	assert.Contains(t, m.View(), "Library 3")
}

func TestView_EmptyBeforeSize(t *testing.T) {
	c, _ := newController(t, false)
	defer c.Close()
	assert.Empty(t, New(c, nil, Options{}).View())
}

func TestPlayCursor_LoadsSelectedEntry(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		c, p := newController(t, true)
		defer c.Close()
		m := sized(t, New(c, nil, Options{}))

		m, _ = press(t, m, runes("j"))
		m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
		synctest.Wait()

		v := c.View()
		assert.Equal(t, 1, v.Index)
		assert.True(t, v.Playing)
		assert.Equal(t, []string{"/music/b.mp3"}, p.PlayCalls())
		assert.Equal(t, 1, m.view.Index)
	})
}

func TestPlayPause_EmptyQueueShowsNotice(t *testing.T) {
	c, _ := newController(t, false)
	defer c.Close()
	m := sized(t, New(c, nil, Options{}))

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeySpace})
	assert.NotNil(t, cmd)
	assert.Equal(t, "Queue is empty", m.notice)
	assert.False(t, m.noticeErr)
}

func TestRepeatKey_CyclesMode(t *testing.T) {
	c, _ := newController(t, true)
	defer c.Close()
	m := sized(t, New(c, nil, Options{}))

	m, _ = press(t, m, runes("r"))
	assert.Equal(t, "Repeat: Loop all", m.notice)
	m, _ = press(t, m, runes("r"))
	assert.Equal(t, "Repeat: Shuffle", m.notice)
}

func TestClearNotice_IgnoresStaleSequence(t *testing.T) {
	c, _ := newController(t, false)
	defer c.Close()
	m := New(c, nil, Options{})
	m.setNotice("first", false)
	m.setNotice("second", false)

	out, _ := m.Update(ClearNoticeMsg{Seq: 1})
	assert.Equal(t, "second", out.(Model).notice)

	out, _ = out.Update(ClearNoticeMsg{Seq: 2})
	assert.Empty(t, out.(Model).notice)
}

func TestNewPlaylist_PromptCreatesAndSelects(t *testing.T) {
	c, _ := newController(t, true)
	defer c.Close()
	m := sized(t, New(c, nil, Options{}))

	m, _ = press(t, m, runes("c"))
	require.IsType(t, &textinput.Model{}, m.popup)
	assert.Contains(t, m.View(), "New playlist")

	out, _ := m.Update(textinput.Result{Purpose: textinput.PurposePlaylistName, Text: "  Mix "})
	m = out.(Model)
	assert.Nil(t, m.popup)
	require.Len(t, c.View().Playlists, 1)
	assert.Equal(t, "Mix", c.View().Playlists[0].Name)
	assert.Equal(t, `Playlist "Mix" created`, m.notice)
}

func TestNewPlaylist_BlankNameKeepsPrompt(t *testing.T) {
	c, _ := newController(t, true)
	defer c.Close()
	m := sized(t, New(c, nil, Options{}))

	m, _ = press(t, m, runes("c"))
	m, _ = press(t, m, runes("   "))
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	in, ok := m.popup.(*textinput.Model)
	require.True(t, ok)
	assert.Equal(t, "New playlist", in.Title())
	assert.Equal(t, "New playlist", m.popupTitle)
	assert.Empty(t, c.View().Playlists)
	assert.Empty(t, m.notice)
}

func TestNewPlaylist_BlankResultIsNoop(t *testing.T) {
	c, _ := newController(t, true)
	defer c.Close()
	m := New(c, nil, Options{})

	out, _ := m.Update(textinput.Result{Purpose: textinput.PurposePlaylistName, Text: "   "})
	m = out.(Model)
	assert.Empty(t, c.View().Playlists)
	assert.Empty(t, m.notice)
}

func TestSearchPrompt_FiltersQueue(t *testing.T) {
	c, _ := newController(t, true)
	defer c.Close()
	m := sized(t, New(c, nil, Options{}))

	out, _ := m.Update(textinput.Result{Purpose: textinput.PurposeSearch, Text: "b.mp3"})
	m = out.(Model)
	assert.Equal(t, []string{"/music/b.mp3"}, c.View().Queue)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Len(t, c.View().Queue, 3)
	assert.Empty(t, m.view.Search)
}

func TestCanceledPrompt_DoesNothing(t *testing.T) {
	c, _ := newController(t, true)
	defer c.Close()
	m := New(c, nil, Options{})

	out, cmd := m.Update(textinput.Result{Purpose: textinput.PurposeFolder, Text: "/elsewhere", Canceled: true})
	assert.Nil(t, cmd)
	assert.Equal(t, "/music", out.(Model).view.Folder)
}

func TestRemoveSong_AsksFirst(t *testing.T) {
	c, _ := newController(t, true)
	defer c.Close()
	m := sized(t, New(c, nil, Options{}))

	m, _ = press(t, m, runes("d"))
	require.IsType(t, &confirm.Model{}, m.popup)
	assert.Len(t, c.View().Queue, 3, "nothing removed before confirming")

	m, cmd := press(t, m, runes("y"))
	require.NotNil(t, cmd)
	out, _ := m.Update(cmd())
	m = out.(Model)

	assert.Nil(t, m.popup)
	assert.Equal(t, []string{"/music/b.mp3", "/music/c.mp3"}, c.View().Queue)
	assert.Equal(t, `Removed "a.mp3"`, m.notice)
}

func TestRemoveSong_Declined(t *testing.T) {
	c, _ := newController(t, true)
	defer c.Close()
	m := sized(t, New(c, nil, Options{}))

	m, _ = press(t, m, runes("d"))
	m, cmd := press(t, m, runes("n"))
	out, _ := m.Update(cmd())

	assert.Nil(t, out.(Model).popup)
	assert.Len(t, c.View().Queue, 3)
}

func TestAddToPlaylist_UsesPicker(t *testing.T) {
	c, _ := newController(t, true)
	defer c.Close()
	id, ok := c.CreatePlaylist("Mix")
	require.True(t, ok)
	c.SelectSource("library")
	m := sized(t, New(c, nil, Options{}))

	m, _ = press(t, m, runes("a"))
	require.IsType(t, &picker.Model{}, m.popup)

	out, _ := m.Update(picker.Result{ID: id, Context: "/music/a.mp3"})
	m = out.(Model)
	assert.Equal(t, `Added to "Mix"`, m.notice)

	out, _ = m.Update(picker.Result{ID: id, Context: "/music/a.mp3"})
	assert.Equal(t, `Already in "Mix"`, out.(Model).notice)
}

func TestDeletePlaylist_LibraryRefused(t *testing.T) {
	c, _ := newController(t, true)
	defer c.Close()
	m := sized(t, New(c, nil, Options{}))

	m, _ = press(t, m, runes("D"))
	assert.Nil(t, m.popup)
	assert.Equal(t, "The library cannot be deleted", m.notice)
}

func TestDeletePlaylist_Confirmed(t *testing.T) {
	c, _ := newController(t, true)
	defer c.Close()
	id, _ := c.CreatePlaylist("Mix")
	m := sized(t, New(c, nil, Options{}))

	out, _ := m.Update(confirm.Result{Confirmed: true, Context: deletePlaylistRequest{ID: id}})
	m = out.(Model)
	assert.Empty(t, c.View().Playlists)
	assert.Equal(t, "library", c.View().Source)
	assert.Equal(t, `Playlist "Mix" deleted`, m.notice)
}

func TestSourceKeys_Cycle(t *testing.T) {
	c, _ := newController(t, true)
	defer c.Close()
	id, _ := c.CreatePlaylist("Mix")
	c.SelectSource("library")
	m := sized(t, New(c, nil, Options{}))

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, id, c.View().Source)
	_, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, "library", c.View().Source)
}

func TestToggleQueue_ChangesLayout(t *testing.T) {
	c, _ := newController(t, true)
	defer c.Close()
	m := sized(t, New(c, nil, Options{}))
	require.True(t, m.view.ShowPlaylist)

	m, _ = press(t, m, runes("t"))
	assert.False(t, c.View().ShowPlaylist)
	assert.NotContains(t, m.View(), "Library (3)")
	assert.Len(t, strings.Split(m.View(), "\n"), 30)
}

func TestEffectKey_StartsFrames(t *testing.T) {
	c, _ := newController(t, true)
	defer c.Close()
	m := sized(t, New(c, nil, Options{}))
	defer m.Close()

	m, cmd := press(t, m, runes("e"))
	assert.NotNil(t, cmd)
	assert.True(t, m.framing)
	assert.Equal(t, "particle", m.effects.Current())
	assert.Equal(t, "Effect: particle", m.notice)

	m, _ = press(t, m, runes("e"))
	assert.True(t, m.framing, "one frame loop stays running")
}

func TestFrame_StopsWhenEffectOff(t *testing.T) {
	c, _ := newController(t, true)
	defer c.Close()
	m := New(c, nil, Options{})
	m.framing = true

	out, cmd := m.Update(FrameMsg(time.Now()))
	assert.Nil(t, cmd)
	assert.False(t, out.(Model).framing)
}

func TestFolderChanged_IgnoresStaleWatcher(t *testing.T) {
	c, _ := newController(t, true)
	defer c.Close()
	m := New(c, nil, Options{})

	_, cmd := m.Update(FolderChangedMsg{Watcher: &library.Watcher{}})
	assert.Nil(t, cmd)
}

func TestFolderSelected_FailureKeepsFolder(t *testing.T) {
	c, _ := newController(t, true)
	defer c.Close()
	m := New(c, nil, Options{})

	cmd := m.selectFolderCmd("/missing")
	msg, ok := cmd().(FolderSelectedMsg)
	require.True(t, ok)
	require.Error(t, msg.Err)

	out, _ := m.Update(msg)
	assert.Equal(t, "/music", out.(Model).view.Folder)
}

func TestStderrLine_BecomesErrorNotice(t *testing.T) {
	c, _ := newController(t, false)
	defer c.Close()
	lines := make(chan string, 1)
	m := New(c, nil, Options{Stderr: lines})

	out, cmd := m.Update(StderrMsg{Line: "ALSA lib pcm.c: underrun"})
	assert.NotNil(t, cmd)
	assert.True(t, out.(Model).noticeErr)
	assert.Equal(t, "ALSA lib pcm.c: underrun", out.(Model).notice)
}

func TestWatchServiceEvents_ConvertsNotice(t *testing.T) {
	c, _ := newController(t, true)
	m := New(c, nil, Options{})

	c.CycleRepeatMode()
	assert.Equal(t, PlaybackChangedMsg{}, m.WatchServiceEvents()())

	require.NoError(t, c.Close())
	for {
		if _, done := m.WatchServiceEvents()().(ControllerClosedMsg); done {
			break
		}
	}
}

func TestEnforceHeight(t *testing.T) {
	assert.Equal(t, "a\n\n", enforceHeight("a", 3))
	assert.Equal(t, "a\nb", enforceHeight("a\nb\nc", 2))
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "music"), expandHome("~/music"))
	assert.Equal(t, home, expandHome("~"))
	assert.Equal(t, "/abs", expandHome("/abs"))
	assert.Equal(t, "~user/x", expandHome("~user/x"))
}
