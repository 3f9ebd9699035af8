// Package testutil provides common testing utilities for the player surfaces.
package testutil

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/x/ansi"

	"github.com/llehouerou/reel/internal/playback"
)

// StripANSI removes ANSI escape codes from a string for easier testing.
func StripANSI(s string) string {
	return ansi.Strip(s)
}

// Lines splits rendered output into lines with styling removed.
func Lines(output string) []string {
	return strings.Split(StripANSI(output), "\n")
}

// ContainsLine checks if any line in the output contains the given substring.
func ContainsLine(output, substr string) bool {
	for _, line := range Lines(output) {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}

// Player is a recording stand-in for playback.Controller. Commands are
// recorded as strings such as "toggle" or "seek_by 5s"; the snapshot is
// whatever the test sets.
type Player struct {
	mu    sync.Mutex
	calls []string
	snap  playback.Snapshot
}

func (p *Player) record(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, fmt.Sprintf(format, args...))
}

func (p *Player) Play()   { p.record("play") }
func (p *Player) Pause()  { p.record("pause") }
func (p *Player) Toggle() { p.record("toggle") }

func (p *Player) SeekToFraction(f float64) { p.record("seek_fraction %.2f", f) }

func (p *Player) SeekTo(pos time.Duration) { p.record("seek_to %v", pos) }

func (p *Player) SeekBy(delta time.Duration) { p.record("seek_by %v", delta) }

func (p *Player) Snapshot() playback.Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snap
}

// SetSnapshot sets the value returned by Snapshot.
func (p *Player) SetSnapshot(s playback.Snapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snap = s
}

// Calls returns the recorded commands in order.
func (p *Player) Calls() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.calls...)
}

// Reset forgets recorded commands.
func (p *Player) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = nil
}
