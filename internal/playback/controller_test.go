package playback

import (
	"context"
	"errors"
	"testing"
	"testing/synctest"
	"time"

	"github.com/llehouerou/reel/internal/loop"
	"github.com/llehouerou/reel/internal/transport"
)

// startController runs a loop and builds a store on it, the way main does.
func startController(t *testing.T, m *transport.Mock) (*Controller, *loop.Loop) {
	t.Helper()
	l := loop.New()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(func() {
		cancel()
		l.Close()
	})
	go func() { _ = l.Run(ctx) }()

	var store *Store
	if err := l.Do(ctx, func() { store = NewStore(m) }); err != nil {
		t.Fatalf("creating store: %v", err)
	}
	return NewController(store, l), l
}

func TestController_CommandsRunOnLoop(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		m := transport.NewMock()
		m.SetDuration(testDuration)
		m.SetAutoComplete(true)
		c, l := startController(t, m)
		ctx := context.Background()

		if err := c.Load(ctx, testItem); err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		c.Play()
		c.SeekToFraction(0.5)
		c.SeekBy(10 * time.Second)
		c.SeekTo(time.Second)
		if err := l.Do(ctx, func() {}); err != nil {
			t.Fatalf("Do() error = %v", err)
		}

		snap := c.Snapshot()
		if snap.Status != StatusPlaying {
			t.Errorf("Status = %v, want Playing", snap.Status)
		}
		if snap.Position != time.Second {
			t.Errorf("Position = %v, want 1s", snap.Position)
		}

		var calls []time.Duration
		_ = l.Do(ctx, func() { calls = m.SeekCalls() })
		want := []time.Duration{50 * time.Second, 60 * time.Second, time.Second}
		if len(calls) != len(want) {
			t.Fatalf("SeekCalls() = %v, want %v", calls, want)
		}
		for i := range want {
			if calls[i] != want[i] {
				t.Errorf("SeekCalls()[%d] = %v, want %v", i, calls[i], want[i])
			}
		}

		c.Toggle()
		_ = l.Do(ctx, func() {})
		if c.Snapshot().Playing {
			t.Error("Toggle() did not pause")
		}
		c.Pause()
		c.Play()
		_ = l.Do(ctx, func() {})
		if !c.Snapshot().Playing {
			t.Error("Play() did not resume")
		}
	})
}

func TestController_LoadError(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		m := transport.NewMock()
		loadErr := errors.New("unsupported")
		m.SetLoadError(loadErr)
		c, _ := startController(t, m)

		err := c.Load(context.Background(), testItem)

		if !errors.Is(err, loadErr) {
			t.Errorf("Load() error = %v, want wrapping %v", err, loadErr)
		}
		if c.Snapshot().Status != StatusIdle {
			t.Errorf("Status = %v, want Idle", c.Snapshot().Status)
		}
	})
}

func TestController_SharedAcrossSubscribers(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		m := transport.NewMock()
		m.SetDuration(testDuration)
		c, _ := startController(t, m)
		embedded := c.Subscribe()
		fullscreen := c.Subscribe()
		<-embedded.Updates
		<-fullscreen.Updates

		if err := c.Load(context.Background(), testItem); err != nil {
			t.Fatalf("Load() error = %v", err)
		}

		a := <-embedded.Updates
		b := <-fullscreen.Updates
		if a.Item != testItem || b.Item != testItem {
			t.Errorf("subscribers saw %+v and %+v, want both on %+v", a.Item, b.Item, testItem)
		}
	})
}

func TestController_LoadAfterLoopClosed(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		c, l := startController(t, transport.NewMock())
		l.Close()

		err := c.Load(context.Background(), testItem)

		if !errors.Is(err, loop.ErrClosed) {
			t.Errorf("Load() error = %v, want ErrClosed", err)
		}
	})
}

func TestController_Close(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		c, _ := startController(t, transport.NewMock())
		sub := c.Subscribe()

		if err := c.Close(context.Background()); err != nil {
			t.Fatalf("Close() error = %v", err)
		}
		<-sub.Done
	})
}
