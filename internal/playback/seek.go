package playback

import (
	"time"

	"github.com/llehouerou/reel/internal/log"
	"github.com/llehouerou/reel/internal/transport"
)

// seekCoalescer keeps at most one seek outstanding on the transport.
// Requests arriving while a seek is in flight overwrite a single pending
// target, so a burst of requests costs two transport seeks: the one in
// flight and one for the latest target. Intermediate targets are dropped.
type seekCoalescer struct {
	transport transport.Transport
	onSettled func()

	seeking bool
	issued  time.Duration
	pending *time.Duration
	// generation invalidates completions of seeks issued before reset.
	generation uint64
}

func newSeekCoalescer(t transport.Transport, onSettled func()) *seekCoalescer {
	return &seekCoalescer{
		transport: t,
		onSettled: onSettled,
	}
}

// request issues target now if nothing is in flight, otherwise replaces the
// pending target.
func (c *seekCoalescer) request(target time.Duration) {
	if c.seeking {
		if c.pending != nil {
			log.Debugf("seek: dropping pending target %v for %v", *c.pending, target)
		}
		c.pending = &target
		return
	}
	c.issue(target)
}

func (c *seekCoalescer) issue(target time.Duration) {
	// Mark in flight before calling out: a transport may complete inline.
	c.seeking = true
	c.issued = target
	gen := c.generation
	log.Debugf("seek: issuing %v", target)
	c.transport.Seek(target, func() { c.complete(gen) })
}

func (c *seekCoalescer) complete(gen uint64) {
	if gen != c.generation {
		log.Debugf("seek: ignoring completion from a previous item")
		return
	}
	c.seeking = false
	if c.pending != nil {
		next := *c.pending
		c.pending = nil
		c.issue(next)
	}
	if c.onSettled != nil {
		c.onSettled()
	}
}

// reset forgets the in-flight and pending seeks.
func (c *seekCoalescer) reset() {
	c.generation++
	c.seeking = false
	c.pending = nil
}

// inFlight reports whether a seek is outstanding.
func (c *seekCoalescer) inFlight() bool {
	return c.seeking
}

// latestTarget returns the target the playhead is heading to: the pending one
// if any, else the one in flight.
func (c *seekCoalescer) latestTarget() (time.Duration, bool) {
	if c.pending != nil {
		return *c.pending, true
	}
	return c.issued, c.seeking
}

// pendingTarget returns the target waiting behind the in-flight seek.
func (c *seekCoalescer) pendingTarget() (time.Duration, bool) {
	if c.pending == nil {
		return 0, false
	}
	return *c.pending, true
}
