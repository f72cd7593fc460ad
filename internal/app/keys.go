package app

import (
	"github.com/charmbracelet/bubbles/key"
)

// keyMap lists every binding of the main screen. It implements
// help.KeyMap.
type keyMap struct {
	PlayPause  key.Binding
	Stop       key.Binding
	Next       key.Binding
	Previous   key.Binding
	SeekBack   key.Binding
	SeekFwd    key.Binding
	VolumeUp   key.Binding
	VolumeDown key.Binding
	Mute       key.Binding
	Repeat     key.Binding

	NextSource key.Binding
	PrevSource key.Binding
	PlayCursor key.Binding
	Follow     key.Binding

	OpenFolder     key.Binding
	Search         key.Binding
	ClearSearch    key.Binding
	NewPlaylist    key.Binding
	AddToPlaylist  key.Binding
	RemoveSong     key.Binding
	DeletePlaylist key.Binding

	Effect     key.Binding
	Lyrics     key.Binding
	Queue      key.Binding
	Background key.Binding
	Export     key.Binding
	Rescan     key.Binding
	Save       key.Binding

	Help key.Binding
	Quit key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		PlayPause:  key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "play/pause")),
		Stop:       key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stop")),
		Next:       key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next")),
		Previous:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "previous")),
		SeekBack:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "seek back")),
		SeekFwd:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "seek forward")),
		VolumeUp:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "volume up")),
		VolumeDown: key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "volume down")),
		Mute:       key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "mute")),
		Repeat:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "repeat mode")),

		NextSource: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next source")),
		PrevSource: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev source")),
		PlayCursor: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "play")),
		Follow:     key.NewBinding(key.WithKeys("."), key.WithHelp(".", "go to current")),

		OpenFolder:     key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open folder")),
		Search:         key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		ClearSearch:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear search")),
		NewPlaylist:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "new playlist")),
		AddToPlaylist:  key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add to playlist")),
		RemoveSong:     key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "remove song")),
		DeletePlaylist: key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "delete playlist")),

		Effect:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "effect")),
		Lyrics:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "lyrics")),
		Queue:      key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "queue")),
		Background: key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "background")),
		Export:     key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "export state")),
		Rescan:     key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "rescan")),
		Save:       key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),

		Help: key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp is the one-line hint shown under the player.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PlayPause, k.Next, k.Previous, k.Repeat, k.OpenFolder, k.Search, k.Help, k.Quit}
}

// FullHelp groups every binding into columns.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PlayPause, k.Stop, k.Next, k.Previous, k.SeekBack, k.SeekFwd},
		{k.VolumeUp, k.VolumeDown, k.Mute, k.Repeat, k.PlayCursor, k.Follow},
		{k.NextSource, k.PrevSource, k.OpenFolder, k.Search, k.ClearSearch, k.Rescan},
		{k.NewPlaylist, k.AddToPlaylist, k.RemoveSong, k.DeletePlaylist, k.Export, k.Save},
		{k.Effect, k.Lyrics, k.Queue, k.Background, k.Help, k.Quit},
	}
}
