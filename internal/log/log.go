// Package log writes diagnostic output to a file so that it never reaches
// the terminal the UI is drawing on. Until Setup enables it, every call is
// discarded.
package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/adrg/xdg"
	"github.com/sirupsen/logrus"
)

// Options configures Setup.
type Options struct {
	Enabled bool
	Level   string
	JSON    bool
	// Dir overrides the log directory. Empty means the XDG state dir.
	Dir string
}

var (
	logger  = newDiscardLogger()
	enabled atomic.Bool
	file    *os.File
)

func newDiscardLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// Setup opens today's log file and configures format and level. It is a
// no-op when opts.Enabled is false.
func Setup(opts Options) error {
	if !opts.Enabled {
		enabled.Store(false)
		return nil
	}

	dir := opts.Dir
	if dir == "" {
		dir = filepath.Join(xdg.StateHome, "reel", "logs")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}

	path := filepath.Join(dir, time.Now().Format("2006-01-02")+".log")
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}

	configure(f, opts)
	file = f
	return nil
}

// configure points the logger at w with the format and level from opts.
func configure(w io.Writer, opts Options) {
	logger.SetOutput(w)

	if opts.JSON {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	}

	lvl, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)
	enabled.Store(true)
}

// Close flushes and closes the log file.
func Close() error {
	enabled.Store(false)
	logger.SetOutput(io.Discard)
	if file == nil {
		return nil
	}
	err := file.Close()
	file = nil
	return err
}

// Enabled reports whether log output is being written.
func Enabled() bool {
	return enabled.Load()
}

// WithField returns an entry carrying one structured field.
func WithField(key string, value any) *logrus.Entry {
	return logger.WithField(key, value)
}

// WithFields returns an entry carrying several structured fields.
func WithFields(fields logrus.Fields) *logrus.Entry {
	return logger.WithFields(fields)
}

func Debugf(format string, args ...any) {
	if enabled.Load() {
		logger.Debugf(format, args...)
	}
}

func Infof(format string, args ...any) {
	if enabled.Load() {
		logger.Infof(format, args...)
	}
}

func Warnf(format string, args ...any) {
	if enabled.Load() {
		logger.Warnf(format, args...)
	}
}

func Errorf(format string, args ...any) {
	if enabled.Load() {
		logger.Errorf(format, args...)
	}
}
