//go:build linux

package notify

import (
	"slices"

	"github.com/godbus/dbus/v5"
)

const (
	busName  = "org.freedesktop.Notifications"
	busPath  = dbus.ObjectPath("/org/freedesktop/Notifications")
	busIface = "org.freedesktop.Notifications"
	appName  = "Reel"
	appEntry = "reel"
	capBody  = "body"
)

type dbusNotifier struct {
	obj  dbus.BusObject
	body bool // server renders the body text
}

// New connects to the session bus. Without one it returns a Nop notifier
// and no error.
func New() (Notifier, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return Nop{}, nil //nolint:nilerr // notifications are optional
	}
	n := &dbusNotifier{obj: conn.Object(busName, busPath), body: true}

	var caps []string
	if err := n.obj.Call(busIface+".GetCapabilities", 0).Store(&caps); err == nil {
		n.body = slices.Contains(caps, capBody)
	}
	return n, nil
}

func (n *dbusNotifier) Notify(notif Notification) (uint32, error) {
	if !n.body {
		notif = fold(notif)
	}

	// Notify(app_name, replaces_id, app_icon, summary, body, actions, hints, expire_timeout)
	call := n.obj.Call(busIface+".Notify", 0,
		appName,
		notif.ReplacesID,
		notif.Icon,
		notif.Title,
		notif.Body,
		[]string{},
		buildHints(notif),
		notif.Timeout,
	)
	var id uint32
	if err := call.Store(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (n *dbusNotifier) Close(id uint32) error {
	return n.obj.Call(busIface+".CloseNotification", 0, id).Err
}

func buildHints(notif Notification) map[string]dbus.Variant {
	hints := map[string]dbus.Variant{
		"urgency":       dbus.MakeVariant(byte(notif.Urgency)),
		"desktop-entry": dbus.MakeVariant(appEntry),
	}
	if notif.Category != "" {
		hints["category"] = dbus.MakeVariant(notif.Category)
	}
	if notif.Transient {
		hints["transient"] = dbus.MakeVariant(true)
	}
	return hints
}
