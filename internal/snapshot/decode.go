package snapshot

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/llehouerou/listentwo/internal/session"
	"github.com/llehouerou/listentwo/internal/tags"
)

// Warning notes a field that was missing or malformed and fell back to
// its default.
type Warning struct {
	Field  string
	Reason string
}

func (w Warning) String() string {
	if w.Field == "" {
		return w.Reason
	}
	return w.Field + ": " + w.Reason
}

// Partial is a decoded snapshot. Nil fields were absent or unusable.
type Partial struct {
	BackgroundMode        *string
	DesktopBackgroundMode *string

	Volume   *float64
	IsMuted  *bool
	PlayMode *session.RepeatMode

	Playlist     []string
	CurrentIndex *int
	CurrentTime  *float64

	// Images hold "" for a stored null.
	DesktopBg1       *string
	DesktopBg2       *string
	CoverBg1         *string
	CoverBg2         *string
	ActiveBgIndex    *int
	ActiveCoverIndex *int

	CurrentSong *Song

	ShowPlaylist *bool
	ShowLyrics   *bool

	Playlists          []Playlist
	SelectedPlaylistID *string
	AllSongs           []string
}

// Snapshot resolves p over the defaults.
func (p Partial) Snapshot() Snapshot {
	s := Defaults()
	setIf(&s.BackgroundMode, p.BackgroundMode)
	setIf(&s.DesktopBackgroundMode, p.DesktopBackgroundMode)
	setIf(&s.Volume, p.Volume)
	setIf(&s.IsMuted, p.IsMuted)
	if p.PlayMode != nil {
		s.PlayMode = p.PlayMode.String()
	}
	if p.Playlist != nil {
		s.Playlist = p.Playlist
	}
	setIf(&s.CurrentIndex, p.CurrentIndex)
	setIf(&s.CurrentTime, p.CurrentTime)
	s.DesktopBg1 = image(deref(p.DesktopBg1))
	s.DesktopBg2 = image(deref(p.DesktopBg2))
	s.CoverBg1 = image(deref(p.CoverBg1))
	s.CoverBg2 = image(deref(p.CoverBg2))
	setIf(&s.ActiveBgIndex, p.ActiveBgIndex)
	setIf(&s.ActiveCoverIndex, p.ActiveCoverIndex)
	s.CurrentSong = p.CurrentSong
	setIf(&s.ShowPlaylist, p.ShowPlaylist)
	setIf(&s.ShowLyrics, p.ShowLyrics)
	if p.Playlists != nil {
		s.Playlists = p.Playlists
	}
	setIf(&s.SelectedPlaylistID, p.SelectedPlaylistID)
	if p.AllSongs != nil {
		s.AllSongs = p.AllSongs
	}
	return s
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Decode parses data field by field. It never fails: input that is not a
// JSON object yields an empty Partial and a single warning.
func Decode(data []byte) (Partial, []Warning) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		reason := "not a JSON object"
		if err != nil {
			reason = fmt.Sprintf("unreadable snapshot: %v", err)
		}
		return Partial{}, []Warning{{Reason: reason}}
	}

	d := decoder{raw: raw}
	var p Partial

	p.BackgroundMode = d.enum("backgroundMode", session.BackgroundCover, session.BackgroundDesktop)
	p.DesktopBackgroundMode = d.enum("desktopBackgroundMode", session.DesktopLocked, session.DesktopDynamic)

	if v := d.number("volume"); v != nil {
		clamped := min(max(*v, 0), 1)
		if clamped != *v {
			d.warn("volume", "out of range, clamped")
		}
		p.Volume = &clamped
	}
	p.IsMuted = d.boolean("isMuted")
	if s := d.str("playMode"); s != nil {
		if m, ok := session.ParseRepeatMode(*s); ok {
			p.PlayMode = &m
		} else {
			d.warn("playMode", fmt.Sprintf("unknown mode %q", *s))
		}
	}

	p.Playlist = d.strings("playlist")
	p.CurrentIndex = d.integer("currentIndex")
	if p.CurrentIndex != nil && *p.CurrentIndex < -1 {
		d.warn("currentIndex", "negative index")
		p.CurrentIndex = nil
	}
	if v := d.number("currentTime"); v != nil {
		t := max(*v, 0)
		p.CurrentTime = &t
	}

	p.DesktopBg1 = d.image("desktopBg1")
	p.DesktopBg2 = d.image("desktopBg2")
	p.CoverBg1 = d.image("coverBg1")
	p.CoverBg2 = d.image("coverBg2")
	p.ActiveBgIndex = d.slot("activeBgIndex")
	p.ActiveCoverIndex = d.slot("activeCoverIndex")

	p.CurrentSong = d.song("currentSong")

	p.ShowPlaylist = d.boolean("showPlaylist")
	p.ShowLyrics = d.boolean("showLyrics")

	p.Playlists = d.playlists("playlists")
	if s := d.str("selectedPlaylistId"); s != nil {
		id := session.NormalizeSource(*s)
		p.SelectedPlaylistID = &id
	}
	p.AllSongs = d.strings("allSongs")

	return p, d.warnings
}

type decoder struct {
	raw      map[string]json.RawMessage
	warnings []Warning
}

func (d *decoder) warn(field, reason string) {
	d.warnings = append(d.warnings, Warning{Field: field, Reason: reason})
}

// field returns the raw value of key. Absent keys warn; a JSON null
// reports present=false without a warning when nullable.
func (d *decoder) field(key string, nullable bool) (json.RawMessage, bool) {
	v, ok := d.raw[key]
	if !ok {
		d.warn(key, "missing")
		return nil, false
	}
	if string(v) == "null" {
		if !nullable {
			d.warn(key, "null")
		}
		return nil, false
	}
	return v, true
}

func (d *decoder) str(key string) *string {
	v, ok := d.field(key, false)
	if !ok {
		return nil
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		d.warn(key, "not a string")
		return nil
	}
	return &s
}

func (d *decoder) enum(key string, allowed ...string) *string {
	s := d.str(key)
	if s == nil {
		return nil
	}
	for _, a := range allowed {
		if *s == a {
			return s
		}
	}
	d.warn(key, fmt.Sprintf("unknown value %q", *s))
	return nil
}

func (d *decoder) number(key string) *float64 {
	v, ok := d.field(key, false)
	if !ok {
		return nil
	}
	var f float64
	if err := json.Unmarshal(v, &f); err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		d.warn(key, "not a number")
		return nil
	}
	return &f
}

func (d *decoder) integer(key string) *int {
	f := d.number(key)
	if f == nil {
		return nil
	}
	if *f != math.Trunc(*f) || math.Abs(*f) > math.MaxInt32 {
		d.warn(key, "not an integer")
		return nil
	}
	i := int(*f)
	return &i
}

func (d *decoder) slot(key string) *int {
	i := d.integer(key)
	if i == nil {
		return nil
	}
	if *i != 1 && *i != 2 {
		d.warn(key, "must be 1 or 2")
		return nil
	}
	return i
}

func (d *decoder) boolean(key string) *bool {
	v, ok := d.field(key, false)
	if !ok {
		return nil
	}
	var b bool
	if err := json.Unmarshal(v, &b); err != nil {
		d.warn(key, "not a boolean")
		return nil
	}
	return &b
}

// strings decodes a path list. Non-string and empty elements are dropped.
func (d *decoder) strings(key string) []string {
	v, ok := d.field(key, false)
	if !ok {
		return nil
	}
	return d.stringList(key, v)
}

func (d *decoder) stringList(key string, v json.RawMessage) []string {
	var items []json.RawMessage
	if err := json.Unmarshal(v, &items); err != nil {
		d.warn(key, "not an array")
		return nil
	}
	out := make([]string, 0, len(items))
	for i, item := range items {
		var s string
		if err := json.Unmarshal(item, &s); err != nil || s == "" {
			d.warn(fmt.Sprintf("%s[%d]", key, i), "not a path")
			continue
		}
		out = append(out, s)
	}
	return out
}

// image decodes a nullable data URL. A stored null becomes "".
func (d *decoder) image(key string) *string {
	v, ok := d.field(key, true)
	if !ok {
		if _, present := d.raw[key]; present {
			empty := ""
			return &empty
		}
		return nil
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		d.warn(key, "not a string")
		return nil
	}
	if !tags.IsDataURL(s) {
		d.warn(key, "not a data URL")
		empty := ""
		return &empty
	}
	return &s
}

func (d *decoder) song(key string) *Song {
	v, ok := d.field(key, true)
	if !ok {
		return nil
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(v, &raw); err != nil || raw == nil {
		d.warn(key, "not an object")
		return nil
	}
	sub := decoder{raw: raw}
	song := &Song{}
	if s := sub.optionalString("filePath"); s != nil {
		song.FilePath = *s
	}
	if song.FilePath == "" {
		d.warn(key+".filePath", "missing")
		return nil
	}
	for _, f := range []struct {
		key string
		dst *string
	}{
		{"title", &song.Title},
		{"artist", &song.Artist},
		{"album", &song.Album},
	} {
		if s := sub.optionalString(f.key); s != nil {
			*f.dst = *s
		}
	}
	if c := sub.optionalString("coverUrl"); c != nil && tags.IsDataURL(*c) {
		song.CoverURL = c
	}
	for _, w := range sub.warnings {
		w.Field = key + "." + w.Field
		d.warnings = append(d.warnings, w)
	}
	return song
}

// optionalString decodes key without warning when it is absent or null.
func (d *decoder) optionalString(key string) *string {
	v, ok := d.raw[key]
	if !ok || string(v) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		d.warn(key, "not a string")
		return nil
	}
	return &s
}

func (d *decoder) playlists(key string) []Playlist {
	v, ok := d.field(key, false)
	if !ok {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(v, &items); err != nil {
		d.warn(key, "not an array")
		return nil
	}

	out := make([]Playlist, 0, len(items))
	for i, item := range items {
		name := fmt.Sprintf("%s[%d]", key, i)
		var raw map[string]json.RawMessage
		if err := json.Unmarshal(item, &raw); err != nil || raw == nil {
			d.warn(name, "not an object")
			continue
		}
		sub := decoder{raw: raw}
		id := sub.id("id")
		title := sub.optionalString("name")
		if id == "" || title == nil || *title == "" {
			d.warn(name, "missing id or name")
			continue
		}
		p := Playlist{ID: id, Name: *title, Songs: []string{}}
		if songs, ok := raw["songs"]; ok && string(songs) != "null" {
			p.Songs = sub.stringList("songs", songs)
		}
		for _, w := range sub.warnings {
			w.Field = name + "." + w.Field
			d.warnings = append(d.warnings, w)
		}
		out = append(out, p)
	}
	return out
}

// id accepts string ids and the numeric timestamps older files carry.
func (d *decoder) id(key string) string {
	v, ok := d.raw[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s
	}
	var f float64
	if err := json.Unmarshal(v, &f); err == nil && f == math.Trunc(f) {
		return strconv.FormatInt(int64(f), 10)
	}
	return ""
}
