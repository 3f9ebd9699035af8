package playback

const eventBufferSize = 16

// Subscription provides event channels for a subscriber.
//
// Updates carries every republished Snapshot. When a slow reader lets the
// buffer fill up, the oldest snapshot is dropped so the newest state is
// always delivered. StatusChanged and Ended drop new events instead.
type Subscription struct {
	Updates       <-chan Snapshot
	StatusChanged <-chan StatusChange
	Ended         <-chan EndedEvent
	Done          <-chan struct{}

	updateCh chan Snapshot
	statusCh chan StatusChange
	endedCh  chan EndedEvent
	doneCh   chan struct{}
}

// newSubscription creates a new subscription with buffered channels.
func newSubscription() *Subscription {
	s := &Subscription{
		updateCh: make(chan Snapshot, eventBufferSize),
		statusCh: make(chan StatusChange, eventBufferSize),
		endedCh:  make(chan EndedEvent, eventBufferSize),
		doneCh:   make(chan struct{}),
	}
	s.Updates = s.updateCh
	s.StatusChanged = s.statusCh
	s.Ended = s.endedCh
	s.Done = s.doneCh
	return s
}

// close signals subscribers to stop by closing doneCh.
func (s *Subscription) close() {
	close(s.doneCh)
}

// sendUpdate delivers snap, evicting the oldest buffered snapshot if full.
func (s *Subscription) sendUpdate(snap Snapshot) {
	for range 2 {
		select {
		case s.updateCh <- snap:
			return
		default:
		}
		select {
		case <-s.updateCh:
		default:
		}
	}
}

// sendStatus sends a status change (non-blocking).
func (s *Subscription) sendStatus(e StatusChange) {
	select {
	case s.statusCh <- e:
	default:
		// Drop if buffer full
	}
}

// sendEnded sends an end-of-item event (non-blocking).
func (s *Subscription) sendEnded(e EndedEvent) {
	select {
	case s.endedCh <- e:
	default:
	}
}
