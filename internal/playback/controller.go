package playback

import (
	"context"
	"time"

	"github.com/llehouerou/reel/internal/transport"
)

// Verify Controller implements Service at compile time.
var _ Service = (*Controller)(nil)

// Controller is the non-owning handle surfaces hold on a Store. It forwards
// every command onto the event loop and reads published snapshots, so it is
// safe for concurrent use. It never holds playback state of its own.
type Controller struct {
	store *Store
	run   Runner
}

// NewController wraps store. All store access goes through run.
func NewController(store *Store, run Runner) *Controller {
	return &Controller{store: store, run: run}
}

// Load binds item and waits for the result.
func (c *Controller) Load(ctx context.Context, item transport.Item) error {
	var loadErr error
	if err := c.run.Do(ctx, func() { loadErr = c.store.Load(item) }); err != nil {
		return err
	}
	return loadErr
}

func (c *Controller) Play() { c.run.Post(c.store.Play) }

func (c *Controller) Pause() { c.run.Post(c.store.Pause) }

func (c *Controller) Toggle() { c.run.Post(c.store.Toggle) }

func (c *Controller) SeekToFraction(f float64) {
	c.run.Post(func() { c.store.SeekToFraction(f) })
}

func (c *Controller) SeekTo(pos time.Duration) {
	c.run.Post(func() { c.store.SeekTo(pos) })
}

func (c *Controller) SeekBy(delta time.Duration) {
	c.run.Post(func() { c.store.SeekBy(delta) })
}

func (c *Controller) Snapshot() Snapshot { return c.store.Latest() }

func (c *Controller) Subscribe() *Subscription { return c.store.Subscribe() }

// Close closes the store on the event loop.
func (c *Controller) Close(ctx context.Context) error {
	var closeErr error
	if err := c.run.Do(ctx, func() { closeErr = c.store.Close() }); err != nil {
		return err
	}
	return closeErr
}
