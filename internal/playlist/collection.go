package playlist

import (
	"slices"
	"strings"

	"github.com/google/uuid"
)

// Collection is the ordered set of user playlists.
type Collection struct {
	lists []*Playlist
	newID func() string
}

// NewCollection creates an empty collection.
func NewCollection() *Collection {
	return &Collection{newID: newID}
}

// newID returns a time-ordered UUIDv7, falling back to v4.
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Create appends a playlist named name. Names are trimmed; an empty name is
// rejected and nothing changes.
func (c *Collection) Create(name string) (*Playlist, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false
	}
	p := &Playlist{ID: c.nextID(), Name: name, Songs: []string{}}
	c.lists = append(c.lists, p)
	return p, true
}

func (c *Collection) nextID() string {
	gen := c.newID
	if gen == nil {
		gen = newID
	}
	for {
		id := gen()
		if c.Find(id) == nil {
			return id
		}
	}
}

// Delete removes the playlist with id. Returns false when not found.
func (c *Collection) Delete(id string) bool {
	i := c.index(id)
	if i < 0 {
		return false
	}
	c.lists = slices.Delete(c.lists, i, i+1)
	return true
}

// Find returns the playlist with id, or nil.
func (c *Collection) Find(id string) *Playlist {
	if i := c.index(id); i >= 0 {
		return c.lists[i]
	}
	return nil
}

// AddSong appends path to the playlist with id. Returns false when the
// playlist does not exist or already holds path.
func (c *Collection) AddSong(id, path string) bool {
	p := c.Find(id)
	if p == nil {
		return false
	}
	return p.Add(path)
}

// Len returns the number of playlists.
func (c *Collection) Len() int {
	return len(c.lists)
}

// All returns deep copies of every playlist in order.
func (c *Collection) All() []Playlist {
	out := make([]Playlist, 0, len(c.lists))
	for _, p := range c.lists {
		out = append(out, p.Clone())
	}
	return out
}

// Replace swaps the whole collection for lists. Entries without an id or
// name are dropped, as are repeated ids.
func (c *Collection) Replace(lists []Playlist) {
	c.lists = c.lists[:0]
	for _, p := range lists {
		if p.ID == "" || strings.TrimSpace(p.Name) == "" || c.Find(p.ID) != nil {
			continue
		}
		cp := p.Clone()
		c.lists = append(c.lists, &cp)
	}
}

func (c *Collection) index(id string) int {
	return slices.IndexFunc(c.lists, func(p *Playlist) bool { return p.ID == id })
}
