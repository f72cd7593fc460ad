// Package playback owns the playback session and drives the player from
// user commands.
package playback

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/llehouerou/listentwo/internal/errmsg"
	"github.com/llehouerou/listentwo/internal/library"
	"github.com/llehouerou/listentwo/internal/lyrics"
	"github.com/llehouerou/listentwo/internal/player"
	"github.com/llehouerou/listentwo/internal/playlist"
	"github.com/llehouerou/listentwo/internal/session"
	"github.com/llehouerou/listentwo/internal/state"
	"github.com/llehouerou/listentwo/internal/tags"
)

var (
	// ErrEmptyQueue is returned by commands that need a queue entry.
	ErrEmptyQueue = errors.New("queue is empty")
	// ErrNoFolder is returned when no music folder is selected.
	ErrNoFolder = errors.New("no music folder selected")
)

// Defaults for Options fields left zero.
const (
	DefaultSeekStep = 5 * time.Second
	DefaultCoverPx  = 512
)

// Options tunes controller behavior.
type Options struct {
	// ShuffleAvoidRepeat keeps random mode from picking the current entry.
	ShuffleAvoidRepeat bool
	SeekStep           time.Duration
	// CoverPx bounds the longest side of persisted cover images.
	CoverPx uint
	// RestoreSidecar applies a folder's saved state when it is selected.
	RestoreSidecar bool
	// SidecarAutosave writes the folder's state file on every full save.
	SidecarAutosave bool
}

// Deps are the collaborators of a Controller. Player is required; nil
// functions fall back to the real implementations.
type Deps struct {
	Player player.Interface
	Store  state.Interface
	Logger *zap.Logger

	ReadMetadata func(ctx context.Context, path string) tags.Metadata
	ReadLyrics   func(path string) (*lyrics.Lyrics, error)
	ListFiles    func(ctx context.Context, folder string) ([]string, error)
	Rand         session.Rand
}

// Controller serializes every session mutation behind one mutex and runs
// at most one effective track load at a time: a newer load supersedes any
// load still in flight.
type Controller struct {
	mu sync.Mutex

	s      *session.Session
	player player.Interface
	store  state.Interface
	log    *zap.Logger
	opts   Options

	readMetadata func(ctx context.Context, path string) tags.Metadata
	readLyrics   func(path string) (*lyrics.Lyrics, error)
	listFiles    func(ctx context.Context, folder string) ([]string, error)
	rng          session.Rand

	folder string

	// gen increases on every load and on anything that invalidates one.
	gen        uint64
	cancelLoad context.CancelFunc
	loads      sync.WaitGroup

	savedRev uint64

	closed bool

	subs       []*Subscription
	subsMu     sync.Mutex
	subsClosed bool
}

// New returns a controller over a fresh session.
func New(deps Deps, opts Options) *Controller {
	if opts.SeekStep <= 0 {
		opts.SeekStep = DefaultSeekStep
	}
	if opts.CoverPx == 0 {
		opts.CoverPx = DefaultCoverPx
	}
	c := &Controller{
		s:            session.New(),
		player:       deps.Player,
		store:        deps.Store,
		log:          deps.Logger,
		opts:         opts,
		readMetadata: deps.ReadMetadata,
		readLyrics:   deps.ReadLyrics,
		listFiles:    deps.ListFiles,
		rng:          deps.Rand,
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}
	if c.readMetadata == nil {
		c.readMetadata = tags.ReadMetadata
	}
	if c.readLyrics == nil {
		c.readLyrics = lyrics.ReadSidecar
	}
	if c.listFiles == nil {
		c.listFiles = library.ListAudioFiles
	}
	if c.rng == nil {
		c.rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)) //nolint:gosec // not security sensitive
	}

	c.player.SetVolume(c.s.EffectiveVolume())
	c.player.OnFinished(c.onPlayerFinished)
	return c
}

// Subscribe creates a new event subscription.
func (c *Controller) Subscribe() *Subscription {
	c.subsMu.Lock()
	defer c.subsMu.Unlock()
	sub := newSubscription()
	if c.subsClosed {
		sub.close()
		return sub
	}
	c.subs = append(c.subs, sub)
	return sub
}

func (c *Controller) broadcast(fn func(*Subscription)) {
	c.subsMu.Lock()
	defer c.subsMu.Unlock()
	for _, sub := range c.subs {
		fn(sub)
	}
}

func (c *Controller) emitState() {
	e := StateChange{Playing: c.s.Playing(), Loading: c.s.Loading()}
	c.broadcast(func(s *Subscription) { send(s.stateCh, e) })
}

func (c *Controller) emitTrack(prev *playlist.Track) {
	e := TrackChange{Previous: prev, Current: c.s.CurrentTrack(), Index: c.s.CurrentIndex()}
	c.broadcast(func(s *Subscription) { send(s.trackCh, e) })
}

func (c *Controller) emitQueue() {
	e := QueueChange{Source: c.s.Source(), Queue: c.s.Queue(), Index: c.s.CurrentIndex()}
	c.broadcast(func(s *Subscription) { send(s.queueCh, e) })
}

func (c *Controller) emitMode() {
	e := ModeChange{RepeatMode: c.s.RepeatMode(), Volume: c.s.Volume(), Muted: c.s.Muted()}
	c.broadcast(func(s *Subscription) { send(s.modeCh, e) })
}

func (c *Controller) notice(text string) {
	e := Notice{Text: text}
	c.broadcast(func(s *Subscription) { send(s.noticeCh, e) })
}

func (c *Controller) fail(op errmsg.Op, path string, err error) {
	e := ErrorEvent{Operation: op, Path: path, Err: err}
	c.broadcast(func(s *Subscription) { send(s.errorCh, e) })
}

// Close cancels any in-flight load, stops the player and writes a final
// snapshot. The store itself is left open.
func (c *Controller) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.invalidateLoadLocked()
	c.player.Stop()
	c.s.SetPlaying(false)
	c.saveNowLocked()
	c.mu.Unlock()

	c.loads.Wait()

	c.subsMu.Lock()
	c.subsClosed = true
	for _, sub := range c.subs {
		sub.close()
	}
	c.subs = nil
	c.subsMu.Unlock()
	return nil
}
