// Package audio implements transport.Transport on the speaker with beep.
//
// Decoding, seeking and end-of-item detection run on beep's goroutines.
// Every notification is handed to the Dispatcher, so listeners only ever run
// on the caller's event loop.
package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"

	"github.com/llehouerou/reel/internal/log"
	"github.com/llehouerou/reel/internal/transport"
)

// DefaultTickInterval is how often the playhead is reported while playing.
const DefaultTickInterval = 250 * time.Millisecond

// seekSettle is how long the output stays muted after a seek so the
// speaker buffer drains before the new position is heard.
const seekSettle = 50 * time.Millisecond

var (
	speakerMu         sync.Mutex
	speakerRate       beep.SampleRate
	speakerAvailable  bool
	errSpeakerFailure error
)

// initSpeaker initializes the speaker once, at the rate of the first item.
// Later items are resampled to it.
func initSpeaker(rate beep.SampleRate) (beep.SampleRate, error) {
	speakerMu.Lock()
	defer speakerMu.Unlock()
	if speakerAvailable {
		return speakerRate, nil
	}
	if errSpeakerFailure != nil {
		return 0, errSpeakerFailure
	}
	if err := speaker.Init(rate, rate.N(time.Second/10)); err != nil {
		errSpeakerFailure = err
		return 0, err
	}
	speakerRate = rate
	speakerAvailable = true
	return rate, nil
}

// Verify Transport implements transport.Transport at compile time.
var _ transport.Transport = (*Transport)(nil)

type seekRequest struct {
	target     time.Duration
	generation uint64
	done       func()
}

// Transport plays local audio files.
type Transport struct {
	dispatch transport.Dispatcher
	interval time.Duration

	// listeners are only touched on the dispatcher's goroutine.
	listeners []func(transport.Event)

	mu         sync.Mutex
	item       transport.Item
	streamer   beep.StreamSeekCloser
	format     beep.Format
	ctrl       *beep.Ctrl
	volume     *effects.Volume
	tail       *tail
	playing    bool
	generation uint64
	closed     bool

	seekCh chan seekRequest
	stop   chan struct{}
	wg     sync.WaitGroup
}

// Option configures a Transport.
type Option func(*Transport)

// WithTickInterval sets how often ticks are emitted while playing.
func WithTickInterval(d time.Duration) Option {
	return func(t *Transport) {
		if d > 0 {
			t.interval = d
		}
	}
}

// New creates a transport that posts its notifications through dispatch.
func New(dispatch transport.Dispatcher, opts ...Option) *Transport {
	t := &Transport{
		dispatch: dispatch,
		interval: DefaultTickInterval,
		seekCh:   make(chan seekRequest, 1),
		stop:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}

	t.wg.Add(2)
	go t.seekLoop()
	go t.tickLoop()
	return t
}

// Load decodes item.URI as a local file and queues it on the speaker,
// paused at the start.
func (t *Transport) Load(item transport.Item) error {
	streamer, format, err := decode(item.URI)
	if err != nil {
		return err
	}
	rate, err := initSpeaker(format.SampleRate)
	if err != nil {
		streamer.Close()
		return err
	}

	t.unload()

	var out beep.Streamer = streamer
	if format.SampleRate != rate {
		out = beep.Resample(4, format.SampleRate, rate, streamer)
	}

	t.mu.Lock()
	t.generation++
	gen := t.generation
	t.item = item
	t.streamer = streamer
	t.format = format
	t.tail = &tail{streamer: out, onEnd: func() { go t.finished(gen) }}
	t.ctrl = &beep.Ctrl{Streamer: t.tail, Paused: true}
	t.volume = &effects.Volume{Streamer: t.ctrl, Base: 2}
	t.playing = false
	t.mu.Unlock()

	speaker.Play(t.volume)
	log.WithField("uri", item.URI).Debugf("audio: loaded %d Hz, %d samples", format.SampleRate, streamer.Len())
	return nil
}

// unload stops and releases the current item.
func (t *Transport) unload() {
	t.mu.Lock()
	streamer := t.streamer
	t.streamer = nil
	t.ctrl = nil
	t.volume = nil
	t.tail = nil
	t.playing = false
	t.item = transport.Item{}
	t.generation++
	t.mu.Unlock()

	if streamer == nil {
		return
	}
	speaker.Clear()
	if err := streamer.Close(); err != nil {
		log.Warnf("audio: closing streamer: %v", err)
	}
}

func (t *Transport) Play() {
	t.setPaused(false)
}

func (t *Transport) Pause() {
	t.setPaused(true)
}

func (t *Transport) setPaused(paused bool) {
	t.mu.Lock()
	ctrl := t.ctrl
	changed := ctrl != nil && t.playing == paused
	if changed {
		t.playing = !paused
	}
	t.mu.Unlock()
	if !changed {
		return
	}

	speaker.Lock()
	ctrl.Paused = paused
	speaker.Unlock()
	t.emit(transport.StatusChanged(!paused))
}

// Seek applies pos on the seek goroutine and calls done through the
// dispatcher once the new position is audible.
func (t *Transport) Seek(pos time.Duration, done func()) {
	t.mu.Lock()
	closed := t.closed
	gen := t.generation
	t.mu.Unlock()
	if closed {
		t.dispatch(done)
		return
	}
	t.seekCh <- seekRequest{target: pos, generation: gen, done: done}
}

func (t *Transport) seekLoop() {
	defer t.wg.Done()
	for {
		select {
		case <-t.stop:
			return
		case req := <-t.seekCh:
			t.doSeek(req)
			t.dispatch(req.done)
		}
	}
}

func (t *Transport) doSeek(req seekRequest) {
	t.mu.Lock()
	if req.generation != t.generation || t.streamer == nil {
		t.mu.Unlock()
		return
	}
	streamer, format, volume, tl := t.streamer, t.format, t.volume, t.tail
	t.mu.Unlock()

	speaker.Lock()
	target := min(max(format.SampleRate.N(req.target), 0), streamer.Len())
	volume.Silent = true
	err := streamer.Seek(target)
	tl.rearm()
	speaker.Unlock()
	if err != nil {
		log.Warnf("audio: seek to %v: %v", req.target, err)
	}

	time.Sleep(seekSettle)

	speaker.Lock()
	volume.Silent = false
	speaker.Unlock()
}

func (t *Transport) tickLoop() {
	defer t.wg.Done()
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()
	for {
		select {
		case <-t.stop:
			return
		case <-ticker.C:
			t.mu.Lock()
			playing := t.playing
			t.mu.Unlock()
			if playing {
				t.emit(transport.Tick(t.Position()))
			}
		}
	}
}

// finished runs off the speaker goroutine when the item runs out.
func (t *Transport) finished(gen uint64) {
	t.mu.Lock()
	if gen != t.generation || t.ctrl == nil {
		t.mu.Unlock()
		return
	}
	ctrl := t.ctrl
	wasPlaying := t.playing
	t.playing = false
	t.mu.Unlock()

	speaker.Lock()
	ctrl.Paused = true
	speaker.Unlock()

	if wasPlaying {
		t.emit(transport.StatusChanged(false))
	}
	t.emit(transport.Ended())
}

func (t *Transport) Duration() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.streamer == nil {
		return 0
	}
	return t.format.SampleRate.D(t.streamer.Len())
}

func (t *Transport) Position() time.Duration {
	t.mu.Lock()
	streamer, format := t.streamer, t.format
	t.mu.Unlock()
	if streamer == nil {
		return 0
	}
	speaker.Lock()
	defer speaker.Unlock()
	return format.SampleRate.D(streamer.Position())
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

// Close stops playback and the background goroutines.
func (t *Transport) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	t.mu.Unlock()

	close(t.stop)
	t.wg.Wait()
	t.unload()
	return nil
}

// tail keeps an item queued on the speaker after it runs out, padding with
// silence, so seeking back and resuming never has to requeue it. onEnd fires
// once per run-out and runs with the speaker lock held.
type tail struct {
	streamer beep.Streamer
	onEnd    func()
	fired    bool
}

func (t *tail) Stream(samples [][2]float64) (int, bool) {
	n := 0
	for n < len(samples) && !t.fired {
		m, ok := t.streamer.Stream(samples[n:])
		n += m
		if !ok {
			t.fired = true
			t.onEnd()
			break
		}
		if m == 0 {
			break
		}
	}
	clear(samples[n:])
	return len(samples), true
}

func (t *tail) Err() error {
	return t.streamer.Err()
}

// rearm lets the streamer play again after a seek.
func (t *tail) rearm() {
	t.fired = false
}
