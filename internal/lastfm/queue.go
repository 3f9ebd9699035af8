package lastfm

import (
	"github.com/llehouerou/reel/internal/log"
	"github.com/llehouerou/reel/internal/state"
)

// Pending converts t into a queue entry.
func Pending(t Track, err error) state.PendingScrobble {
	p := state.PendingScrobble{
		Artist:    t.Artist,
		Title:     t.Title,
		Album:     t.Album,
		Duration:  t.Duration,
		StartedAt: t.StartedAt,
	}
	if err != nil {
		p.LastError = err.Error()
	}
	return p
}

// RetryResult counts the outcome of a retry pass.
type RetryResult struct {
	Succeeded int
	Failed    int
}

// Retry submits every queued play, removing those that went through.
// Entries that already failed maxAttempts times are left alone.
func Retry(s Submitter, q state.ScrobbleQueue) (RetryResult, error) {
	pending, err := q.PendingScrobbles()
	if err != nil {
		return RetryResult{}, err
	}

	var res RetryResult
	for _, p := range pending {
		if p.Attempts >= maxAttempts {
			continue
		}
		t := Track{
			Artist:    p.Artist,
			Title:     p.Title,
			Album:     p.Album,
			Duration:  p.Duration,
			StartedAt: p.StartedAt,
		}
		if err := s.Scrobble(t); err != nil {
			res.Failed++
			if err := q.MarkScrobbleAttempt(p.ID, err.Error()); err != nil {
				log.Warnf("mark scrobble %d: %v", p.ID, err)
			}
			continue
		}
		res.Succeeded++
		if err := q.DeletePendingScrobble(p.ID); err != nil {
			log.Warnf("delete scrobble %d: %v", p.ID, err)
		}
	}
	return res, nil
}
