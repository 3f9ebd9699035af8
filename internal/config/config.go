package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/llehouerou/reel/internal/capability"
	"github.com/llehouerou/reel/internal/log"
)

// Backends accepted by the backend key.
const (
	BackendAuto = ""
	BackendBeep = "beep"
	BackendMPV  = "mpv"
)

const (
	defaultTickIntervalMS = 250
	minTickIntervalMS     = 10
	maxTickIntervalMS     = 2000
)

type Config struct {
	Backend        string `koanf:"backend"`          // "beep", "mpv", or empty to pick by file type
	TickIntervalMS int    `koanf:"tick_interval_ms"` // position tick period (10-2000, default: 250)
	Autoplay       bool   `koanf:"autoplay"`         // start playing once loaded
	Resume         *bool  `koanf:"resume"`           // restore the last position per item (default: true)
	Database       string `koanf:"database"`         // resume database path (default: XDG data dir)

	// Capability names: "fullscreen", "play_pause", "seek", "all" or "none".
	// Unset means all.
	Capabilities []string `koanf:"capabilities"`

	Theme         ThemeConfig         `koanf:"theme"`
	Notifications NotificationsConfig `koanf:"notifications"`
	Lastfm        LastfmConfig        `koanf:"lastfm"`
	Log           LogConfig           `koanf:"log"`
}

// LastfmConfig holds the Last.fm application credentials. The account is
// linked with "reel lastfm login".
type LastfmConfig struct {
	APIKey    string `koanf:"api_key"`
	APISecret string `koanf:"api_secret"`
}

// ThemeConfig holds the player surface colours.
type ThemeConfig struct {
	Background      string `koanf:"background"`       // "plain" or "blurred" (default: "plain")
	BackgroundColor string `koanf:"background_color"` // hex colour (default: "#000000")
	Tint            string `koanf:"tint"`             // hex colour (default: "#ffffff")
}

// NotificationsConfig holds desktop notification settings. Unset switches
// default to on.
type NotificationsConfig struct {
	Enabled     *bool `koanf:"enabled"`
	NowPlaying  *bool `koanf:"now_playing"`  // when playback first starts
	Finished    *bool `koanf:"finished"`     // when the item plays to its end
	ShowArtwork *bool `koanf:"show_artwork"` // use artwork next to the item as icon
	Timeout     int32 `koanf:"timeout"`      // ms, 0 for the server default
}

func enabled(b *bool) bool {
	return b == nil || *b
}

// NowPlayingEnabled reports whether to announce playback start.
func (n NotificationsConfig) NowPlayingEnabled() bool {
	return enabled(n.Enabled) && enabled(n.NowPlaying)
}

// FinishedEnabled reports whether to announce the end of an item.
func (n NotificationsConfig) FinishedEnabled() bool {
	return enabled(n.Enabled) && enabled(n.Finished)
}

// ArtworkEnabled reports whether notifications carry artwork.
func (n NotificationsConfig) ArtworkEnabled() bool {
	return enabled(n.ShowArtwork)
}

// ExpireTimeout returns the D-Bus expire_timeout value.
func (n NotificationsConfig) ExpireTimeout() int32 {
	if n.Timeout <= 0 {
		return -1
	}
	return n.Timeout
}

// LogConfig holds file logging settings.
type LogConfig struct {
	Enabled bool   `koanf:"enabled"`
	Level   string `koanf:"level"` // logrus level name (default: "info")
	JSON    bool   `koanf:"json"`
}

// Load reads every config file that exists, in order of priority.
func Load() (*Config, error) {
	return load(getConfigPaths())
}

// LoadFile reads path on top of the default locations.
func LoadFile(path string) (*Config, error) {
	path = expandPath(path)
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	return load(append(getConfigPaths(), path))
}

func load(paths []string) (*Config, error) {
	k := koanf.New(".")

	// Last wins.
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	cfg.Backend = strings.ToLower(strings.TrimSpace(cfg.Backend))
	if err := ValidateBackend(cfg.Backend); err != nil {
		return nil, err
	}
	if cfg.Database != "" {
		cfg.Database = expandPath(cfg.Database)
	}

	return cfg, nil
}

func getConfigPaths() []string {
	return []string{
		// 1. $XDG_CONFIG_HOME/reel/config.toml
		filepath.Join(xdg.ConfigHome, "reel", "config.toml"),
		// 2. ./config.toml (pwd, highest priority)
		"config.toml",
	}
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// ValidateBackend rejects unknown backend names.
func ValidateBackend(name string) error {
	switch name {
	case BackendAuto, BackendBeep, BackendMPV:
		return nil
	default:
		return fmt.Errorf("unknown backend %q (want %q or %q)", name, BackendBeep, BackendMPV)
	}
}

// TickInterval returns the position tick period with bounds applied.
func (c *Config) TickInterval() time.Duration {
	ms := c.TickIntervalMS
	if ms < minTickIntervalMS || ms > maxTickIntervalMS {
		ms = defaultTickIntervalMS
	}
	return time.Duration(ms) * time.Millisecond
}

// HasLastfm reports whether Last.fm credentials are configured.
func (c *Config) HasLastfm() bool {
	return c.Lastfm.APIKey != "" && c.Lastfm.APISecret != ""
}

// ResumeEnabled returns true unless resume was switched off.
func (c *Config) ResumeEnabled() bool {
	return c.Resume == nil || *c.Resume
}

// GetCapabilities returns the enabled surface features.
func (c *Config) GetCapabilities() (capability.Set, error) {
	if c.Capabilities == nil {
		return capability.All, nil
	}
	return capability.Parse(c.Capabilities)
}

// GetTheme returns the surface theme with defaults applied.
func (c *Config) GetTheme() (capability.Theme, error) {
	theme := capability.DefaultTheme()

	if c.Theme.Background != "" {
		bg, err := capability.ParseBackground(c.Theme.Background)
		if err != nil {
			return theme, err
		}
		theme.Background = bg
	}
	if c.Theme.BackgroundColor != "" {
		col, err := capability.ParseColor(c.Theme.BackgroundColor)
		if err != nil {
			return theme, fmt.Errorf("theme.background_color: %w", err)
		}
		theme.BackgroundColor = col
	}
	if c.Theme.Tint != "" {
		col, err := capability.ParseColor(c.Theme.Tint)
		if err != nil {
			return theme, fmt.Errorf("theme.tint: %w", err)
		}
		theme.Tint = col
	}
	return theme, nil
}

// LogOptions converts the log section for log.Setup.
func (c *Config) LogOptions() log.Options {
	level := c.Log.Level
	if level == "" {
		level = "info"
	}
	return log.Options{
		Enabled: c.Log.Enabled,
		Level:   level,
		JSON:    c.Log.JSON,
	}
}
