//go:build linux

package mpris

import (
	"errors"
	"fmt"
	"hash/fnv"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/quarckster/go-mpris-server/pkg/events"
	"github.com/quarckster/go-mpris-server/pkg/server"
	"github.com/quarckster/go-mpris-server/pkg/types"

	"github.com/llehouerou/reel/internal/capability"
	"github.com/llehouerou/reel/internal/log"
	"github.com/llehouerou/reel/internal/playback"
)

// ErrNotAllowed is returned for commands the configured capabilities disable.
var ErrNotAllowed = errors.New("not allowed by capabilities")

// Adapter exposes a playback.Service to desktop media controls over D-Bus.
type Adapter struct {
	server *server.Server
	stop   chan struct{}
}

// New creates and starts a new MPRIS adapter. Store changes are signalled as
// PropertiesChanged until Close.
func New(service playback.Service, caps capability.Set) (*Adapter, error) {
	a := &Adapter{
		server: server.NewServer("reel", &rootAdapter{}, newPlayerAdapter(service, caps)),
		stop:   make(chan struct{}),
	}

	go func() {
		if err := a.server.Listen(); err != nil {
			log.Warnf("mpris: %v", err)
		}
	}()
	go watch(service.Subscribe(), events.NewEventHandler(a.server).Player, a.stop)

	return a, nil
}

// Close stops the adapter and releases D-Bus resources.
func (a *Adapter) Close() error {
	close(a.stop)
	return a.server.Stop()
}

// watch turns store updates into MPRIS signals until stop is closed or the
// store goes away.
func watch(sub *playback.Subscription, h types.OrgMprisMediaPlayer2PlayerEventHandler, stop <-chan struct{}) {
	var prev playback.Snapshot
	for {
		select {
		case <-stop:
			return
		case <-sub.Done:
			return
		case snap := <-sub.Updates:
			if err := signal(h, prev, snap); err != nil {
				log.Debugf("mpris: signal: %v", err)
			}
			prev = snap
		case <-sub.Ended:
			if err := h.OnEnded(); err != nil {
				log.Debugf("mpris: signal ended: %v", err)
			}
		}
	}
}

// signal emits the property changes between two snapshots. Position is only
// signalled when a seek settles; clients extrapolate it during playback.
func signal(h types.OrgMprisMediaPlayer2PlayerEventHandler, prev, next playback.Snapshot) error {
	var errs []error
	if next.Item != prev.Item || next.Duration != prev.Duration {
		errs = append(errs, h.OnPlayback())
	}
	if next.Playing != prev.Playing {
		errs = append(errs, h.OnPlayPause())
	}
	if prev.Seeking && !next.Seeking && next.Item == prev.Item {
		errs = append(errs, h.OnSeek(types.Microseconds(next.Position.Microseconds())))
	}
	return errors.Join(errs...)
}

// rootAdapter implements OrgMprisMediaPlayer2Adapter.
type rootAdapter struct{}

func (r *rootAdapter) Raise() error {
	return nil // Not supported
}

func (r *rootAdapter) Quit() error {
	return nil // Not supported - app manages its own lifecycle
}

func (r *rootAdapter) CanQuit() (bool, error) {
	return false, nil
}

func (r *rootAdapter) CanRaise() (bool, error) {
	return false, nil
}

func (r *rootAdapter) HasTrackList() (bool, error) {
	return false, nil
}

func (r *rootAdapter) Identity() (string, error) {
	return "Reel", nil
}

//nolint:revive // Method name required by interface.
func (r *rootAdapter) SupportedUriSchemes() ([]string, error) {
	return []string{"file", "http", "https"}, nil
}

func (r *rootAdapter) SupportedMimeTypes() ([]string, error) {
	return []string{"video/mp4", "video/x-matroska", "video/webm", "audio/mpeg", "audio/flac", "audio/wav"}, nil
}

// playerAdapter implements OrgMprisMediaPlayer2PlayerAdapter.
type playerAdapter struct {
	service playback.Service
	caps    capability.Set
}

func newPlayerAdapter(service playback.Service, caps capability.Set) *playerAdapter {
	return &playerAdapter{service: service, caps: caps}
}

func (p *playerAdapter) allow(c capability.Set) error {
	if !p.caps.Has(c) {
		return fmt.Errorf("%v: %w", c, ErrNotAllowed)
	}
	return nil
}

func (p *playerAdapter) Next() error {
	return nil // Single item
}

func (p *playerAdapter) Previous() error {
	return nil // Single item
}

func (p *playerAdapter) Pause() error {
	if err := p.allow(capability.PlayPause); err != nil {
		return err
	}
	p.service.Pause()
	return nil
}

func (p *playerAdapter) PlayPause() error {
	if err := p.allow(capability.PlayPause); err != nil {
		return err
	}
	p.service.Toggle()
	return nil
}

// Stop pauses: an item stays loaded for the lifetime of the player.
func (p *playerAdapter) Stop() error {
	return p.Pause()
}

func (p *playerAdapter) Play() error {
	if err := p.allow(capability.PlayPause); err != nil {
		return err
	}
	p.service.Play()
	return nil
}

func (p *playerAdapter) Seek(offset types.Microseconds) error {
	if err := p.allow(capability.Seek); err != nil {
		return err
	}
	p.service.SeekBy(time.Duration(offset) * time.Microsecond)
	return nil
}

func (p *playerAdapter) SetPosition(trackID string, position types.Microseconds) error {
	if err := p.allow(capability.Seek); err != nil {
		return err
	}
	snap := p.service.Snapshot()
	// Stale requests for another item are ignored, as MPRIS requires.
	if !snap.HasItem() || string(formatTrackID(snap.Item.URI)) != trackID {
		return nil
	}
	p.service.SeekTo(time.Duration(position) * time.Microsecond)
	return nil
}

//nolint:revive // Method name required by interface.
func (p *playerAdapter) OpenUri(_ string) error {
	return nil // Not supported
}

func (p *playerAdapter) PlaybackStatus() (types.PlaybackStatus, error) {
	return playbackStatus(p.service.Snapshot()), nil
}

func playbackStatus(snap playback.Snapshot) types.PlaybackStatus {
	switch {
	case !snap.HasItem():
		return types.PlaybackStatusStopped
	case snap.Playing:
		return types.PlaybackStatusPlaying
	default:
		return types.PlaybackStatusPaused
	}
}

func (p *playerAdapter) Rate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) SetRate(_ float64) error {
	return nil // Not supported
}

func (p *playerAdapter) Metadata() (types.Metadata, error) {
	return metadata(p.service.Snapshot()), nil
}

func metadata(snap playback.Snapshot) types.Metadata {
	if !snap.HasItem() {
		return types.Metadata{}
	}

	meta := types.Metadata{
		TrackId: formatTrackID(snap.Item.URI),
		Length:  types.Microseconds(snap.Duration.Microseconds()),
		Title:   snap.Item.DisplayTitle(),
	}
	if snap.Item.Artist != "" {
		meta.Title = snap.Item.Title
		meta.Artist = []string{snap.Item.Artist}
		meta.Album = snap.Item.Album
	}

	if path, ok := localPath(snap.Item.URI); ok {
		if artPath := FindArtwork(path); artPath != "" {
			meta.ArtUrl = "file://" + artPath
		}
	}
	return meta
}

func (p *playerAdapter) Volume() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) SetVolume(_ float64) error {
	return nil // Not supported
}

func (p *playerAdapter) Position() (int64, error) {
	return p.service.Snapshot().Position.Microseconds(), nil
}

func (p *playerAdapter) MinimumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) MaximumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) CanGoNext() (bool, error) {
	return false, nil
}

func (p *playerAdapter) CanGoPrevious() (bool, error) {
	return false, nil
}

func (p *playerAdapter) CanPlay() (bool, error) {
	return p.caps.Has(capability.PlayPause) && p.service.Snapshot().HasItem(), nil
}

func (p *playerAdapter) CanPause() (bool, error) {
	return p.CanPlay()
}

func (p *playerAdapter) CanSeek() (bool, error) {
	return p.caps.Has(capability.Seek) && p.service.Snapshot().CanSeek(), nil
}

func (p *playerAdapter) CanControl() (bool, error) {
	return true, nil
}

func formatTrackID(uri string) dbus.ObjectPath {
	h := fnv.New64a()
	h.Write([]byte(uri))
	return dbus.ObjectPath(fmt.Sprintf("/org/mpris/MediaPlayer2/Track/%x", h.Sum64()))
}

// localPath returns the filesystem path behind uri, if it has one.
func localPath(uri string) (string, bool) {
	if !strings.Contains(uri, "://") {
		return filepath.Clean(uri), true
	}
	u, err := url.Parse(uri)
	if err != nil || u.Scheme != "file" {
		return "", false
	}
	return u.Path, true
}
