// Package notify shows desktop notifications for track changes and
// playback failures.
package notify

import "time"

// Urgency is the freedesktop notification urgency level.
type Urgency byte

const (
	UrgencyLow      Urgency = 0
	UrgencyNormal   Urgency = 1
	UrgencyCritical Urgency = 2
)

const appName = "ListenTwo"

// Categories used by listentwo, in the freedesktop x-vendor form.
const (
	CategoryTrack = "x-listentwo.track"
	CategoryError = "x-listentwo.error"
)

// Notification is one bubble on the desktop.
type Notification struct {
	Summary string
	Body    string

	// Image is a local cover file shown next to the text, if any.
	Image string
	// Icon is a themed icon name used when there is no image.
	Icon string

	Category string
	Urgency  Urgency

	// Expire is how long the bubble stays up; zero leaves it to the server.
	Expire time.Duration
	// Replaces updates an earlier notification in place when non-zero.
	Replaces uint32
}

// Notifier delivers notifications.
type Notifier interface {
	// Notify shows n and returns its server id. A notifier with no bus
	// returns 0 and no error.
	Notify(n Notification) (uint32, error)
	// Dismiss removes a notification that is still showing.
	Dismiss(id uint32) error
}

// expireMillis converts d to the wire timeout, where -1 means server default.
func expireMillis(d time.Duration) int32 {
	if d <= 0 {
		return -1
	}
	return int32(d / time.Millisecond)
}

// discard is the Notifier used when no notification server is reachable.
type discard struct{}

func (discard) Notify(Notification) (uint32, error) { return 0, nil }

func (discard) Dismiss(uint32) error { return nil }
