package notify

import (
	"context"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/llehouerou/listentwo/internal/errmsg"
	"github.com/llehouerou/listentwo/internal/mpris"
	"github.com/llehouerou/listentwo/internal/playback"
	"github.com/llehouerou/listentwo/internal/tags"
)

const (
	trackExpire = 4 * time.Second
	errorExpire = 6 * time.Second
)

// Announcer turns playback events into desktop notifications. A track's
// placeholder notification is replaced in place once its tags are read.
type Announcer struct {
	n   Notifier
	log *zap.Logger

	lastPath string
	lastID   uint32
}

// NewAnnouncer creates an announcer sending through n.
func NewAnnouncer(n Notifier, log *zap.Logger) *Announcer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Announcer{n: n, log: log}
}

// Run forwards events from sub until ctx is done or the controller closes,
// then takes down the last track bubble.
func (a *Announcer) Run(ctx context.Context, sub *playback.Subscription) {
	defer a.dismiss()
	for {
		select {
		case <-ctx.Done():
			return
		case <-sub.Done:
			return
		case e := <-sub.TrackChanged:
			a.track(e)
		case e := <-sub.Error:
			a.failure(e)
		}
	}
}

func (a *Announcer) track(e playback.TrackChange) {
	if e.Current == nil {
		return
	}
	var replaces uint32
	if e.Current.Path == a.lastPath {
		replaces = a.lastID
	}
	body := e.Current.Artist
	if e.Current.Album != tags.UnknownAlbum {
		body += " - " + e.Current.Album
	}
	id, err := a.n.Notify(Notification{
		Summary:  e.Current.Title,
		Body:     body,
		Image:    mpris.ArtPath(e.Current),
		Category: CategoryTrack,
		Urgency:  UrgencyLow,
		Expire:   trackExpire,
		Replaces: replaces,
	})
	if err != nil {
		a.log.Debug("track notification", zap.Error(err))
		return
	}
	a.lastPath, a.lastID = e.Current.Path, id
}

func (a *Announcer) failure(e playback.ErrorEvent) {
	var name string
	if e.Path != "" {
		name = filepath.Base(e.Path)
	}
	_, err := a.n.Notify(Notification{
		Summary:  appName,
		Body:     errmsg.FormatWith(e.Operation, name, e.Err),
		Icon:     "dialog-error",
		Category: CategoryError,
		Urgency:  UrgencyNormal,
		Expire:   errorExpire,
	})
	if err != nil {
		a.log.Debug("error notification", zap.Error(err))
	}
}

func (a *Announcer) dismiss() {
	if a.lastID == 0 {
		return
	}
	if err := a.n.Dismiss(a.lastID); err != nil {
		a.log.Debug("dismiss notification", zap.Error(err))
	}
	a.lastPath, a.lastID = "", 0
}
