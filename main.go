package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/llehouerou/reel/internal/app"
	"github.com/llehouerou/reel/internal/config"
	"github.com/llehouerou/reel/internal/errmsg"
	"github.com/llehouerou/reel/internal/log"
	"github.com/llehouerou/reel/internal/loop"
	"github.com/llehouerou/reel/internal/mpris"
	"github.com/llehouerou/reel/internal/notify"
	"github.com/llehouerou/reel/internal/playback"
	"github.com/llehouerou/reel/internal/state"
	"github.com/llehouerou/reel/internal/stderr"
	"github.com/llehouerou/reel/internal/tags"
	"github.com/llehouerou/reel/internal/transport"
	"github.com/llehouerou/reel/internal/transport/audio"
	"github.com/llehouerou/reel/internal/transport/video"
)

var (
	configPath string
	backend    string
	autoplay   bool
	noResume   bool
)

var rootCmd = &cobra.Command{
	Use:          "reel [flags] <file>",
	Short:        "Play a media file with embedded and fullscreen terminal controls",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "read configuration from this file only")
	rootCmd.Flags().StringVarP(&backend, "backend", "b", "", `playback backend: "beep" (audio) or "mpv" (audio and video)`)
	rootCmd.Flags().BoolVarP(&autoplay, "autoplay", "p", false, "start playing as soon as the item is loaded")
	rootCmd.Flags().BoolVar(&noResume, "no-resume", false, "ignore and do not record the resume position")
	rootCmd.AddCommand(recentCmd, lastfmCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, errors.New(errmsg.Format(errmsg.OpConfigLoad, err))
	}
	return cfg, nil
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("backend") {
		if err := config.ValidateBackend(backend); err != nil {
			return err
		}
		cfg.Backend = backend
	}
	if cmd.Flags().Changed("autoplay") {
		cfg.Autoplay = autoplay
	}
	resume := cfg.ResumeEnabled() && !noResume

	caps, err := cfg.GetCapabilities()
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpConfigLoad, err))
	}
	theme, err := cfg.GetTheme()
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpConfigLoad, err))
	}

	if err := log.Setup(cfg.LogOptions()); err != nil {
		fmt.Fprintln(os.Stderr, errmsg.Format(errmsg.OpLogSetup, err))
	}
	defer log.Close()

	item, err := itemFromArg(args[0])
	if err != nil {
		return err
	}

	// Capture stderr to suppress ALSA and mpv messages that corrupt the TUI.
	if err := stderr.Start(); err != nil {
		log.Warnf("stderr capture: %v", err)
	}
	defer stderr.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l := loop.New()
	go func() {
		if err := l.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Errorf("event loop: %v", err)
		}
	}()
	defer l.Close()

	t, window, caption, err := openTransport(cfg, item, l.Post)
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpBackendStart, err))
	}
	defer t.Close()

	var store *playback.Store
	if err := l.Do(ctx, func() { store = playback.NewStore(t) }); err != nil {
		return errors.New(errmsg.Format(errmsg.OpInitialize, err))
	}
	ctrl := playback.NewController(store, l)

	var st state.Interface
	var mgr *state.Manager
	if resume || cfg.HasLastfm() {
		mgr, err = state.Open(cfg.Database)
		if err != nil {
			log.Warnf("%s", errmsg.Format(errmsg.OpStateOpen, err))
			mgr = nil
		} else {
			defer mgr.Close()
		}
	}
	if resume && mgr != nil {
		st = mgr
	}
	scrobbler := openScrobbler(cfg, mgr)

	if adapter, err := mpris.New(ctrl, caps); err != nil {
		log.Warnf("%s", errmsg.Format(errmsg.OpMPRISStart, err))
	} else {
		defer adapter.Close()
	}

	notifier, err := notify.New()
	if err != nil {
		log.Warnf("desktop notifications: %v", err)
	}

	opts := app.Options{
		Player:       ctrl,
		Item:         item,
		Capabilities: caps,
		Theme:        theme,
		State:        st,
		Autoplay:     cfg.Autoplay,
		Resume:       resume,
		Caption:      caption,
		Window:       window,

		Notifier:      notifier,
		Notifications: cfg.Notifications,
	}
	if scrobbler != nil {
		opts.Scrobbler = scrobbler
		opts.ScrobbleQueue = mgr
	}
	model := app.New(opts)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, runErr := p.Run()

	if err := ctrl.Close(ctx); err != nil {
		log.Warnf("closing playback: %v", err)
	}
	if runErr != nil {
		stderr.Stop()
		for _, line := range stderr.Recent() {
			fmt.Fprintln(os.Stderr, line)
		}
		return errors.New(errmsg.Format(errmsg.OpPlaybackStart, runErr))
	}
	return nil
}

// itemFromArg turns a path or URL into a playable item.
func itemFromArg(arg string) (transport.Item, error) {
	if strings.Contains(arg, "://") {
		return transport.Item{URI: arg}, nil
	}
	abs, err := filepath.Abs(arg)
	if err != nil {
		return transport.Item{}, err
	}
	if _, err := os.Stat(abs); err != nil {
		return transport.Item{}, err
	}
	item := transport.Item{URI: abs}
	if t, err := tags.Read(abs); err == nil {
		item.Title, item.Artist, item.Album = t.Title, t.Artist, t.Album
	}
	return item, nil
}

// chooseBackend resolves the auto backend: audio files the beep decoders
// handle go to beep, everything else to mpv.
func chooseBackend(configured, uri string) string {
	if configured != config.BackendAuto {
		return configured
	}
	if audio.Supported(uri) {
		return config.BackendBeep
	}
	return config.BackendMPV
}

func openTransport(cfg *config.Config, item transport.Item, dispatch transport.Dispatcher) (transport.Transport, app.Fullscreener, string, error) {
	switch chooseBackend(cfg.Backend, item.URI) {
	case config.BackendBeep:
		t := audio.New(dispatch, audio.WithTickInterval(cfg.TickInterval()))
		return t, nil, audioCaption(item.URI), nil
	default:
		t, err := video.New(dispatch, video.WithPollInterval(cfg.TickInterval()))
		if err != nil {
			return nil, nil, "", err
		}
		return t, t, "playing in the mpv window", nil
	}
}

func audioCaption(uri string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(uri)), ".")
	if ext == "" {
		return "♪ audio"
	}
	return "♪ " + ext + " audio"
}
