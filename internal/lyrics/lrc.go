// Package lyrics parses LRC lyrics and maps playback positions to cues.
package lyrics

import (
	"bufio"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Line is a single timed lyric cue.
type Line struct {
	Time time.Duration
	Text string
}

// Lyrics holds cues sorted by time plus optional LRC metadata.
type Lyrics struct {
	Lines  []Line
	Title  string
	Artist string
	Album  string
}

// LineAt returns the index of the latest cue whose time is at or before pos.
// Returns -1 when there are no cues or pos precedes the first one.
func (l *Lyrics) LineAt(pos time.Duration) int {
	if l == nil || len(l.Lines) == 0 {
		return -1
	}
	// First cue strictly after pos; the one before it is current.
	i := sort.Search(len(l.Lines), func(i int) bool {
		return l.Lines[i].Time > pos
	})
	return i - 1
}

// IsSynced reports whether any cue carries a non-zero timestamp.
func (l *Lyrics) IsSynced() bool {
	if l == nil {
		return false
	}
	for _, line := range l.Lines {
		if line.Time > 0 {
			return true
		}
	}
	return false
}

// Len returns the number of cues.
func (l *Lyrics) Len() int {
	if l == nil {
		return 0
	}
	return len(l.Lines)
}

var (
	// [mm:ss], [mm:ss.x], [mm:ss.xx], [mm:ss.xxx], [mm:ss:xx]
	timestampRe = regexp.MustCompile(`\[(\d+):(\d+)(?:[.:](\d+))?\]`)

	// [ar:Artist Name]
	metadataRe = regexp.MustCompile(`^\[([a-zA-Z]+):(.+)\]$`)
)

// ParseLRC parses LRC formatted lyrics.
func ParseLRC(r io.Reader) (*Lyrics, error) {
	lyrics := &Lyrics{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if meta := metadataRe.FindStringSubmatch(line); meta != nil && !timestampRe.MatchString(line) {
			value := strings.TrimSpace(meta[2])
			switch strings.ToLower(meta[1]) {
			case "ar":
				lyrics.Artist = value
			case "ti":
				lyrics.Title = value
			case "al":
				lyrics.Album = value
			}
			continue
		}

		// A line may repeat under several stamps: [00:12.34][00:45.67]Text
		matches := timestampRe.FindAllStringSubmatchIndex(line, -1)
		if len(matches) == 0 {
			continue
		}
		text := strings.TrimSpace(line[matches[len(matches)-1][1]:])

		for _, m := range matches {
			ts, ok := parseTimestamp(line[m[0]:m[1]])
			if !ok {
				continue
			}
			lyrics.Lines = append(lyrics.Lines, Line{Time: ts, Text: text})
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(lyrics.Lines, func(i, j int) bool {
		return lyrics.Lines[i].Time < lyrics.Lines[j].Time
	})

	return lyrics, nil
}

// Parse turns embedded lyric text into cues. Text without any LRC timestamp
// becomes unsynced lines, all at time zero.
func Parse(text string) *Lyrics {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if timestampRe.MatchString(text) {
		if l, err := ParseLRC(strings.NewReader(text)); err == nil && len(l.Lines) > 0 {
			return l
		}
	}

	l := &Lyrics{}
	for line := range strings.SplitSeq(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			l.Lines = append(l.Lines, Line{Text: line})
		}
	}
	if len(l.Lines) == 0 {
		return nil
	}
	return l
}

func parseTimestamp(s string) (time.Duration, bool) {
	m := timestampRe.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}

	minutes, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	seconds, err := strconv.Atoi(m[2])
	if err != nil {
		return 0, false
	}

	var millis int
	if frac := m[3]; frac != "" {
		n, err := strconv.Atoi(frac)
		if err != nil {
			return 0, false
		}
		switch len(frac) {
		case 1:
			millis = n * 100
		case 2:
			millis = n * 10
		case 3:
			millis = n
		default:
			millis, _ = strconv.Atoi(frac[:3])
		}
	}

	return time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second +
		time.Duration(millis)*time.Millisecond, true
}
