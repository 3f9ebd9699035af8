package app

import (
	"github.com/llehouerou/reel/internal/log"
	"github.com/llehouerou/reel/internal/notify"
	"github.com/llehouerou/reel/internal/timefmt"
	"github.com/llehouerou/reel/internal/transport"
)

// sendNowPlayingNotification announces item, replacing the previous
// announcement if it is still shown.
func (m *Model) sendNowPlayingNotification(item transport.Item) {
	if m.notifier == nil || !m.notificationsConfig.NowPlayingEnabled() {
		return
	}

	n := notify.Notification{
		Title:      item.DisplayTitle(),
		Body:       "Now playing",
		Category:   "x-reel.now-playing",
		Transient:  true,
		Timeout:    m.notificationsConfig.ExpireTimeout(),
		ReplacesID: m.lastNowPlayingID,
		Urgency:    notify.UrgencyLow,
	}
	if d := m.snap.Duration; d > 0 {
		n.Body += " · " + timefmt.Duration(d)
	}
	n.Icon = m.notificationIcon(item)

	id, err := m.notifier.Notify(n)
	if err != nil {
		log.Debugf("now playing notification: %v", err)
		return
	}
	m.lastNowPlayingID = id
}

func (m *Model) sendFinishedNotification(item transport.Item) {
	if m.notifier == nil || !m.notificationsConfig.FinishedEnabled() {
		return
	}

	n := notify.Notification{
		Title:      "Finished",
		Body:       item.DisplayTitle(),
		Icon:       m.notificationIcon(item),
		Category:   "x-reel.finished",
		Timeout:    m.notificationsConfig.ExpireTimeout(),
		ReplacesID: m.lastNowPlayingID,
		Urgency:    notify.UrgencyNormal,
	}
	if _, err := m.notifier.Notify(n); err != nil {
		log.Debugf("finished notification: %v", err)
	}
	m.lastNowPlayingID = 0
}

func (m *Model) notificationIcon(item transport.Item) string {
	if !m.notificationsConfig.ArtworkEnabled() {
		return notify.DefaultIcon
	}
	return notify.Icon(item.URI)
}
