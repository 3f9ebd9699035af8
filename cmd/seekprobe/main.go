// Probe program that fires a burst of seeks at the audio transport and logs
// how the store coalesces them.
package main

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/llehouerou/reel/internal/loop"
	"github.com/llehouerou/reel/internal/playback"
	"github.com/llehouerou/reel/internal/transport"
	"github.com/llehouerou/reel/internal/transport/audio"
)

const (
	burst    = 20
	interval = 15 * time.Millisecond
	settle   = 2 * time.Second
)

func main() {
	if len(os.Args) != 2 {
		log.Fatalf("usage: %s <audio file>", filepath.Base(os.Args[0]))
	}
	path, err := filepath.Abs(os.Args[1])
	if err != nil {
		log.Fatalf("Failed to resolve path: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l := loop.New()
	go func() { _ = l.Run(ctx) }()
	defer l.Close()

	t := audio.New(l.Post)
	defer t.Close()

	var (
		store     *playback.Store
		completed int
		last      playback.Status
	)
	err = l.Do(ctx, func() {
		store = playback.NewStore(t)
		store.AddListener(func(s playback.Snapshot) {
			if s.Status == last {
				return
			}
			if last == playback.StatusSeeking {
				completed++
			}
			log.Printf("  %-8s -> %-8s at %s / %s", last, s.Status, s.CurrentTime, s.TotalTime)
			last = s.Status
		})
	})
	if err != nil {
		log.Fatalf("Failed to create store: %v", err)
	}
	ctrl := playback.NewController(store, l)

	log.Printf("Loading %s", path)
	if err := ctrl.Load(ctx, transport.Item{URI: path}); err != nil {
		log.Fatalf("Failed to load: %v", err)
	}
	snap := ctrl.Snapshot()
	if snap.Duration <= 0 {
		log.Fatalf("Unknown duration, nothing to seek in")
	}
	log.Printf("Duration %s", snap.TotalTime)

	ctrl.Play()
	log.Printf("Firing %d seeks, one every %v", burst, interval)
	start := time.Now()
	for i := range burst {
		ctrl.SeekToFraction(float64(i+1) / float64(burst+1))
		time.Sleep(interval)
	}

	deadline := time.Now().Add(settle)
	for ctrl.Snapshot().Seeking && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	var final playback.Snapshot
	_ = l.Do(ctx, func() { final = store.Snapshot() })
	log.Printf("Settled after %v at %s (%.0f%%)", time.Since(start).Round(time.Millisecond),
		final.CurrentTime, final.Progress*100)
	log.Printf("%d requests, seeking settled %d times", burst, completed)

	if err := ctrl.Close(ctx); err != nil {
		log.Printf("Failed to close: %v", err)
	}
}
