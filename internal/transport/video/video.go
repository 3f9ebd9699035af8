// Package video implements transport.Transport on libmpv.
//
// mpv renders into its own window. State is read back by polling properties
// on a ticker; seek completion comes from the playback-restart event.
package video

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gen2brain/go-mpv"

	"github.com/llehouerou/reel/internal/log"
	"github.com/llehouerou/reel/internal/transport"
)

// DefaultPollInterval is how often mpv properties are read back.
const DefaultPollInterval = 250 * time.Millisecond

// waitTimeout bounds each WaitEvent call so Close is noticed.
const waitTimeout = 0.25

// Verify Transport implements transport.Transport at compile time.
var _ transport.Transport = (*Transport)(nil)

// Transport plays any file or URL libmpv can open.
type Transport struct {
	dispatch transport.Dispatcher
	interval time.Duration
	m        *mpv.Mpv

	// listeners are only touched on the dispatcher's goroutine.
	listeners []func(transport.Event)

	mu       sync.Mutex
	loaded   bool
	playing  bool
	ended    bool
	duration time.Duration
	seekDone func()
	closed   bool

	stop chan struct{}
	wg   sync.WaitGroup
}

// Option configures a Transport.
type Option func(*Transport)

// WithPollInterval sets how often position ticks are emitted while playing.
func WithPollInterval(d time.Duration) Option {
	return func(t *Transport) {
		if d > 0 {
			t.interval = d
		}
	}
}

// New starts an idle mpv instance.
func New(dispatch transport.Dispatcher, opts ...Option) (*Transport, error) {
	m := mpv.New()

	for _, o := range [][2]string{
		{"idle", "yes"},
		{"keep-open", "yes"},
		{"force-window", "yes"},
		{"osc", "no"},
		{"input-default-bindings", "no"},
		{"terminal", "no"},
	} {
		if err := m.SetOptionString(o[0], o[1]); err != nil {
			m.TerminateDestroy()
			return nil, fmt.Errorf("mpv option %s: %w", o[0], err)
		}
	}
	if err := m.Initialize(); err != nil {
		m.TerminateDestroy()
		return nil, fmt.Errorf("initialize mpv: %w", err)
	}

	t := &Transport{
		dispatch: dispatch,
		interval: DefaultPollInterval,
		m:        m,
		stop:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}

	t.wg.Add(2)
	go t.eventLoop()
	go t.pollLoop()
	return t, nil
}

// Load replaces the current file with item and leaves it paused.
func (t *Transport) Load(item transport.Item) error {
	if isLocal(item.URI) {
		if _, err := os.Stat(item.URI); err != nil {
			return err
		}
	}

	t.mu.Lock()
	stale := t.seekDone
	t.seekDone = nil
	t.loaded = true
	t.playing = false
	t.ended = false
	t.duration = 0
	t.mu.Unlock()
	if stale != nil {
		t.dispatch(stale)
	}

	if err := t.m.SetProperty("pause", mpv.FormatFlag, true); err != nil {
		return fmt.Errorf("pause: %w", err)
	}
	if err := t.m.Command([]string{"loadfile", item.URI, "replace"}); err != nil {
		t.mu.Lock()
		t.loaded = false
		t.mu.Unlock()
		return fmt.Errorf("loadfile: %w", err)
	}
	log.WithField("uri", item.URI).Debugf("mpv: loadfile sent")
	return nil
}

func (t *Transport) Play() {
	t.setPaused(false)
}

func (t *Transport) Pause() {
	t.setPaused(true)
}

func (t *Transport) setPaused(paused bool) {
	if err := t.m.SetProperty("pause", mpv.FormatFlag, paused); err != nil {
		log.Warnf("mpv: set pause=%v: %v", paused, err)
		return
	}
	t.mu.Lock()
	t.playing = !paused
	t.mu.Unlock()
}

// Seek jumps to pos. done runs once mpv restarts playback there, or right
// away if the command is rejected.
func (t *Transport) Seek(pos time.Duration, done func()) {
	t.mu.Lock()
	prev := t.seekDone
	t.seekDone = done
	t.ended = false
	t.mu.Unlock()
	if prev != nil {
		t.dispatch(prev)
	}

	err := t.m.Command([]string{"seek", secondsArg(pos), "absolute+exact"})
	if err == nil {
		return
	}
	log.Warnf("mpv: seek to %v: %v", pos, err)
	t.mu.Lock()
	if t.seekDone != nil {
		done, t.seekDone = t.seekDone, nil
	} else {
		done = nil
	}
	t.mu.Unlock()
	if done != nil {
		t.dispatch(done)
	}
}

func (t *Transport) Duration() time.Duration {
	if d, ok := t.getSeconds("duration"); ok {
		return d
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.duration
}

func (t *Transport) Position() time.Duration {
	d, _ := t.getSeconds("time-pos")
	return d
}

// SetFullscreen switches the mpv window in or out of fullscreen.
func (t *Transport) SetFullscreen(on bool) error {
	return t.m.SetProperty("fullscreen", mpv.FormatFlag, on)
}

// Subscribe must be called on the dispatcher's goroutine.
func (t *Transport) Subscribe(fn func(transport.Event)) {
	t.listeners = append(t.listeners, fn)
}

func (t *Transport) emit(e transport.Event) {
	t.dispatch(func() {
		for _, fn := range t.listeners {
			fn(e)
		}
	})
}

func (t *Transport) eventLoop() {
	defer t.wg.Done()
	for {
		select {
		case <-t.stop:
			return
		default:
		}

		e := t.m.WaitEvent(waitTimeout)
		if e == nil {
			continue
		}
		switch e.EventID {
		case mpv.EventShutdown:
			return
		case mpv.EventPlaybackRestart:
			t.mu.Lock()
			done := t.seekDone
			t.seekDone = nil
			t.mu.Unlock()
			if done != nil {
				t.dispatch(done)
			}
		}
	}
}

func (t *Transport) pollLoop() {
	defer t.wg.Done()
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()
	for {
		select {
		case <-t.stop:
			return
		case <-ticker.C:
			t.poll()
		}
	}
}

// poll reads mpv's state back and emits whatever changed.
func (t *Transport) poll() {
	duration, hasDuration := t.getSeconds("duration")
	position, _ := t.getSeconds("time-pos")
	paused, hasPause := t.getFlag("pause")
	eof, _ := t.getFlag("eof-reached")

	var events []transport.Event

	t.mu.Lock()
	if !t.loaded {
		t.mu.Unlock()
		return
	}
	if hasDuration && duration != t.duration {
		t.duration = duration
		events = append(events, transport.DurationChanged(duration))
	}
	switch {
	case eof && !t.ended:
		t.ended = true
		t.playing = false
		events = append(events, transport.StatusChanged(false), transport.Ended())
	case hasPause && !eof && paused == t.playing:
		// Changed from the mpv side.
		t.playing = !paused
		events = append(events, transport.StatusChanged(t.playing))
	}
	if t.playing {
		events = append(events, transport.Tick(position))
	}
	t.mu.Unlock()

	for _, e := range events {
		t.emit(e)
	}
}

func (t *Transport) getSeconds(name string) (time.Duration, bool) {
	v, err := t.m.GetProperty(name, mpv.FormatDouble)
	if err != nil || v == nil {
		return 0, false
	}
	secs, ok := v.(float64)
	if !ok {
		return 0, false
	}
	return transport.FromSeconds(secs), true
}

func (t *Transport) getFlag(name string) (bool, bool) {
	v, err := t.m.GetProperty(name, mpv.FormatFlag)
	if err != nil || v == nil {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

// Close stops mpv and waits for the background goroutines.
func (t *Transport) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	t.mu.Unlock()

	close(t.stop)
	if err := t.m.Command([]string{"stop"}); err != nil {
		log.Debugf("mpv: stop: %v", err)
	}
	t.wg.Wait()
	t.m.TerminateDestroy()
	return nil
}

// isLocal reports whether uri is a filesystem path rather than a URL.
func isLocal(uri string) bool {
	return !strings.Contains(uri, "://")
}

// secondsArg formats d for mpv's seek command.
func secondsArg(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', 3, 64)
}
