package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/llehouerou/reel/internal/config"
	"github.com/llehouerou/reel/internal/notify"
	"github.com/llehouerou/reel/internal/transport"
)

// mockNotifier records notifications for testing.
type mockNotifier struct {
	notifications []notify.Notification
	lastID        uint32
}

func (m *mockNotifier) Notify(n notify.Notification) (uint32, error) {
	m.lastID++
	m.notifications = append(m.notifications, n)
	return m.lastID, nil
}

func (m *mockNotifier) Close(_ uint32) error {
	return nil
}

func TestNowPlayingNotification_SentWhenPlaybackStarts(t *testing.T) {
	mock := &mockNotifier{}
	h := newHarness(t, func(o *Options) {
		o.Autoplay = true
		o.Notifier = mock
	})

	h.load()

	if len(mock.notifications) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(mock.notifications))
	}
	n := mock.notifications[0]
	if n.Title != "Sintel" {
		t.Errorf("Title = %q, want %q", n.Title, "Sintel")
	}
	if n.Body != "Now playing · 1:40" {
		t.Errorf("Body = %q, want %q", n.Body, "Now playing · 1:40")
	}
	if n.Urgency != notify.UrgencyLow || !n.Transient {
		t.Errorf("Urgency = %d, Transient = %v, want low and transient", n.Urgency, n.Transient)
	}
	if n.Icon != notify.DefaultIcon {
		t.Errorf("Icon = %q, want %q", n.Icon, notify.DefaultIcon)
	}
}

func TestNowPlayingNotification_OncePerLoad(t *testing.T) {
	mock := &mockNotifier{}
	h := newHarness(t, func(o *Options) { o.Notifier = mock })
	h.load()

	if len(mock.notifications) != 0 {
		t.Fatalf("notified before playback started: %+v", mock.notifications)
	}

	h.model.player.Play()
	h.drain()
	h.model.player.Pause()
	h.drain()
	h.model.player.Play()
	h.drain()

	if len(mock.notifications) != 1 {
		t.Errorf("expected 1 notification across pause and resume, got %d", len(mock.notifications))
	}
}

func TestFinishedNotification_ReplacesNowPlaying(t *testing.T) {
	mock := &mockNotifier{}
	h := newHarness(t, func(o *Options) {
		o.Autoplay = true
		o.Notifier = mock
	})
	h.load()

	h.onLoop(func() { h.mock.SimulateEnd() })
	h.drain()

	if len(mock.notifications) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(mock.notifications))
	}
	n := mock.notifications[1]
	if n.Title != "Finished" || n.Body != "Sintel" {
		t.Errorf("notification = %q / %q, want Finished / Sintel", n.Title, n.Body)
	}
	if n.ReplacesID != 1 {
		t.Errorf("ReplacesID = %d, want 1", n.ReplacesID)
	}
	if n.Urgency != notify.UrgencyNormal {
		t.Errorf("Urgency = %d, want UrgencyNormal", n.Urgency)
	}
	if h.model.lastNowPlayingID != 0 {
		t.Errorf("lastNowPlayingID = %d, want 0 after finishing", h.model.lastNowPlayingID)
	}
}

func TestNotifications_Disabled(t *testing.T) {
	mock := &mockNotifier{}
	disabled := false
	h := newHarness(t, func(o *Options) {
		o.Autoplay = true
		o.Notifier = mock
		o.Notifications = config.NotificationsConfig{Enabled: &disabled}
	})
	h.load()
	h.onLoop(func() { h.mock.SimulateEnd() })
	h.drain()

	if len(mock.notifications) != 0 {
		t.Errorf("expected 0 notifications when disabled, got %d", len(mock.notifications))
	}
}

func TestNotifications_NilNotifier(_ *testing.T) {
	m := &Model{}

	// Should not panic
	m.sendNowPlayingNotification(transport.Item{URI: "/media/a.mkv"})
	m.sendFinishedNotification(transport.Item{URI: "/media/a.mkv"})
}

func TestNowPlayingNotification_Artwork(t *testing.T) {
	dir := t.TempDir()
	item := transport.Item{URI: filepath.Join(dir, "talk.opus")}
	poster := filepath.Join(dir, "talk.png")
	if err := os.WriteFile(poster, []byte{}, 0o600); err != nil {
		t.Fatal(err)
	}

	mock := &mockNotifier{}
	m := &Model{notifier: mock}
	m.sendNowPlayingNotification(item)

	off := false
	m.notificationsConfig = config.NotificationsConfig{ShowArtwork: &off}
	m.sendNowPlayingNotification(item)

	if len(mock.notifications) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(mock.notifications))
	}
	if got := mock.notifications[1].Icon; got != notify.DefaultIcon {
		t.Errorf("Icon with artwork disabled = %q, want %q", got, notify.DefaultIcon)
	}
	if got := mock.notifications[1].ReplacesID; got != 1 {
		t.Errorf("ReplacesID = %d, want 1", got)
	}
}
