// Package keymap defines key bindings for the player surfaces.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/llehouerou/reel/internal/capability"
)

// Binding describes a single key binding.
type Binding struct {
	Action      Action
	Keys        []string
	Description string
	Context     string         // "global", "playback", "fullscreen"
	Requires    capability.Set // controls that must be enabled for the binding to apply
}

// Key returns the binding as a bubbles key binding, for help rendering.
func (b Binding) Key() key.Binding {
	helpKey := b.Keys[0]
	switch helpKey {
	case " ":
		helpKey = "space"
	case "0":
		helpKey = "0-9"
	}
	return key.NewBinding(
		key.WithKeys(b.Keys...),
		key.WithHelp(helpKey, b.Description),
	)
}

var digits = []string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9"}

// All contains all key bindings.
var All = []Binding{
	// Global
	{ActionQuit, []string{"q", "ctrl+c"}, "quit", "global", capability.None},
	{ActionHelp, []string{"?"}, "help", "global", capability.None},

	// Playback
	{ActionPlayPause, []string{" ", "k"}, "play/pause", "playback", capability.PlayPause},
	{ActionSeekBack, []string{"left", "h"}, "-5s", "playback", capability.Seek},
	{ActionSeekForward, []string{"right", "l"}, "+5s", "playback", capability.Seek},
	{ActionSeekBackLong, []string{"shift+left", "H"}, "-30s", "playback", capability.Seek},
	{ActionSeekForwardLong, []string{"shift+right", "L"}, "+30s", "playback", capability.Seek},
	{ActionSeekPercent, digits, "jump to n×10%", "playback", capability.Seek},
	{ActionRestart, []string{"home"}, "restart", "playback", capability.Seek},

	// Fullscreen
	{ActionFullscreen, []string{"f"}, "fullscreen", "fullscreen", capability.Fullscreen},
	{ActionExitFullscreen, []string{"esc"}, "exit fullscreen", "fullscreen", capability.Fullscreen},
}

// ByContext returns key bindings filtered by context.
func ByContext(context string) []Binding {
	var result []Binding
	for _, kb := range All {
		if kb.Context == context {
			result = append(result, kb)
		}
	}
	return result
}

// Allowed returns the bindings whose required controls are all in caps.
func Allowed(bindings []Binding, caps capability.Set) []Binding {
	var result []Binding
	for _, b := range bindings {
		if caps.Has(b.Requires) {
			result = append(result, b)
		}
	}
	return result
}
