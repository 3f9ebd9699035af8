// Package notify sends desktop notifications over the freedesktop
// notification D-Bus interface.
package notify

// Urgency is the freedesktop urgency hint.
type Urgency byte

const (
	UrgencyLow      Urgency = 0
	UrgencyNormal   Urgency = 1
	UrgencyCritical Urgency = 2
)

// DefaultIcon is the themed icon used when no artwork is found.
const DefaultIcon = "media-playback-start"

// Notification is one desktop notification.
type Notification struct {
	Title      string
	Body       string // may be folded into Title on servers without body support
	Icon       string // image path or themed icon name
	Category   string // freedesktop category hint, "x-reel.*" for our own
	Transient  bool
	Timeout    int32 // ms; -1 server default, 0 never expires
	ReplacesID uint32
	Urgency    Urgency
}

// Notifier sends desktop notifications.
type Notifier interface {
	// Notify shows n and returns its server ID, or 0 when nothing was shown.
	Notify(n Notification) (uint32, error)
	// Close withdraws a notification by ID.
	Close(id uint32) error
}

// Nop discards every notification.
type Nop struct{}

func (Nop) Notify(Notification) (uint32, error) { return 0, nil }

func (Nop) Close(uint32) error { return nil }

// fold merges the body into the title for servers that only show a summary.
func fold(n Notification) Notification {
	if n.Body == "" {
		return n
	}
	n.Title += " · " + n.Body
	n.Body = ""
	return n
}
