package library

import (
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce groups bursts of file events into one change signal.
const DefaultDebounce = 300 * time.Millisecond

// Watcher reports audio-file changes in a single folder.
type Watcher struct {
	fsw      *fsnotify.Watcher
	folder   string
	debounce time.Duration
	log      *zap.Logger

	changed chan struct{}
	done    chan struct{}

	mu        sync.Mutex
	timer     *time.Timer
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// Watch starts watching folder (non-recursive).
func Watch(folder string, debounce time.Duration, log *zap.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(folder); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if log == nil {
		log = zap.NewNop()
	}

	w := &Watcher{
		fsw:      fsw,
		folder:   folder,
		debounce: debounce,
		log:      log,
		changed:  make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
	w.wg.Add(1)
	go w.run()
	return w, nil
}

// Folder returns the watched folder.
func (w *Watcher) Folder() string {
	return w.folder
}

// Changed receives one value per debounced burst of audio-file changes.
// Signals are coalesced when the receiver is slow.
func (w *Watcher) Changed() <-chan struct{} {
	return w.changed
}

// Done is closed by Close.
func (w *Watcher) Done() <-chan struct{} {
	return w.done
}

func (w *Watcher) run() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if relevant(ev) {
				w.trigger()
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("folder watch error", zap.String("folder", w.folder), zap.Error(err))
		}
	}
}

func relevant(ev fsnotify.Event) bool {
	if !IsAudioFile(ev.Name) {
		return false
	}
	return ev.Has(fsnotify.Create) || ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename)
}

func (w *Watcher) trigger() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		select {
		case <-w.done:
		case w.changed <- struct{}{}:
		default:
		}
	})
}

// Close stops watching. Safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		w.mu.Lock()
		if w.timer != nil {
			w.timer.Stop()
		}
		w.mu.Unlock()
		err = w.fsw.Close()
		w.wg.Wait()
	})
	return err
}
