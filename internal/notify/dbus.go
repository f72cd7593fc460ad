//go:build linux

package notify

import (
	"path/filepath"

	"github.com/godbus/dbus/v5"
)

const (
	busName   = "org.freedesktop.Notifications"
	busPath   = "/org/freedesktop/Notifications"
	busMethod = busName + ".Notify"
	busClose  = busName + ".CloseNotification"

	appEntry = "listentwo"
)

type busNotifier struct {
	obj dbus.BusObject
}

// New connects to the session bus. Without a bus it returns a notifier
// that drops everything, so callers never need to special-case headless
// sessions.
func New() (Notifier, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return discard{}, nil //nolint:nilerr // no session bus is not a failure
	}
	return &busNotifier{obj: conn.Object(busName, busPath)}, nil
}

func (b *busNotifier) Notify(n Notification) (uint32, error) {
	icon := n.Icon
	hints := hintsFor(n)
	if n.Image != "" && icon == "" {
		icon = "audio-x-generic"
	}

	// Notify(app_name, replaces_id, app_icon, summary, body, actions, hints, expire_timeout)
	call := b.obj.Call(busMethod, 0,
		appName,
		n.Replaces,
		icon,
		n.Summary,
		n.Body,
		[]string{},
		hints,
		expireMillis(n.Expire),
	)
	if call.Err != nil {
		return 0, call.Err
	}
	var id uint32
	if err := call.Store(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (b *busNotifier) Dismiss(id uint32) error {
	if id == 0 {
		return nil
	}
	return b.obj.Call(busClose, 0, id).Err
}

func hintsFor(n Notification) map[string]dbus.Variant {
	hints := map[string]dbus.Variant{
		"urgency":       dbus.MakeVariant(byte(n.Urgency)),
		"desktop-entry": dbus.MakeVariant(appEntry),
	}
	if n.Category != "" {
		hints["category"] = dbus.MakeVariant(n.Category)
	}
	if n.Image != "" && filepath.IsAbs(n.Image) {
		hints["image-path"] = dbus.MakeVariant("file://" + n.Image)
	}
	if n.Category == CategoryTrack {
		// Keep track bubbles out of the history.
		hints["transient"] = dbus.MakeVariant(true)
	}
	return hints
}
