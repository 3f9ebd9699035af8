// internal/state/interface.go
package state

// Interface defines the state manager contract for dependency injection and testing.
type Interface interface {
	GetPosition(uri string) (*Position, error)
	SavePosition(p Position)
	ForgetPosition(uri string) error
	ListRecent(limit int) ([]Position, error)
	Flush() error
	Close() error
}

// Verify Manager implements Interface at compile time.
var _ Interface = (*Manager)(nil)

// ScrobbleQueue holds plays waiting to be submitted to Last.fm.
type ScrobbleQueue interface {
	QueueScrobble(s PendingScrobble) error
	PendingScrobbles() ([]PendingScrobble, error)
	DeletePendingScrobble(id int64) error
	MarkScrobbleAttempt(id int64, errMsg string) error
}

var _ ScrobbleQueue = (*Manager)(nil)
