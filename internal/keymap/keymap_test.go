//nolint:goconst // test cases intentionally repeat strings for readability
package keymap

import (
	"testing"

	"github.com/llehouerou/reel/internal/capability"
)

func TestByContext(t *testing.T) {
	tests := []struct {
		name            string
		context         string
		expectNonEmpty  bool
		expectMinLength int
	}{
		{"global context", "global", true, 2},
		{"playback context", "playback", true, 5},
		{"fullscreen context", "fullscreen", true, 2},
		{"unknown context returns empty", "unknown", false, 0},
		{"empty context returns empty", "", false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ByContext(tt.context)

			if tt.expectNonEmpty && len(result) == 0 {
				t.Errorf("ByContext(%q) returned empty, expected non-empty", tt.context)
			}
			if !tt.expectNonEmpty && len(result) != 0 {
				t.Errorf("ByContext(%q) returned %d items, expected empty", tt.context, len(result))
			}
			if len(result) < tt.expectMinLength {
				t.Errorf("ByContext(%q) returned %d items, expected at least %d", tt.context, len(result), tt.expectMinLength)
			}
			for _, binding := range result {
				if binding.Context != tt.context {
					t.Errorf("binding context = %q, want %q", binding.Context, tt.context)
				}
			}
		})
	}
}

func TestAllBindingsHaveKeysAndDescription(t *testing.T) {
	for _, b := range All {
		if len(b.Keys) == 0 {
			t.Errorf("binding %q has no keys", b.Action)
		}
		if b.Description == "" {
			t.Errorf("binding %q has no description", b.Action)
		}
	}
}

func TestAllowed(t *testing.T) {
	tests := []struct {
		name    string
		caps    capability.Set
		present []Action
		absent  []Action
	}{
		{
			name:    "all controls",
			caps:    capability.All,
			present: []Action{ActionQuit, ActionPlayPause, ActionSeekForward, ActionFullscreen},
		},
		{
			name:    "no controls keeps global bindings",
			caps:    capability.None,
			present: []Action{ActionQuit, ActionHelp},
			absent:  []Action{ActionPlayPause, ActionSeekPercent, ActionFullscreen},
		},
		{
			name:    "play pause only",
			caps:    capability.PlayPause,
			present: []Action{ActionPlayPause},
			absent:  []Action{ActionSeekBack, ActionRestart, ActionExitFullscreen},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := map[Action]bool{}
			for _, b := range Allowed(All, tt.caps) {
				got[b.Action] = true
			}
			for _, a := range tt.present {
				if !got[a] {
					t.Errorf("expected %q to be allowed", a)
				}
			}
			for _, a := range tt.absent {
				if got[a] {
					t.Errorf("expected %q to be filtered out", a)
				}
			}
		})
	}
}

func TestBinding_KeyHelp(t *testing.T) {
	tests := []struct {
		binding Binding
		want    string
	}{
		{Binding{ActionPlayPause, []string{" ", "k"}, "play/pause", "playback", capability.None}, "space"},
		{Binding{ActionSeekPercent, digits, "jump", "playback", capability.None}, "0-9"},
		{Binding{ActionQuit, []string{"q"}, "quit", "global", capability.None}, "q"},
	}

	for _, tt := range tests {
		got := tt.binding.Key().Help().Key
		if got != tt.want {
			t.Errorf("help key for %q = %q, want %q", tt.binding.Action, got, tt.want)
		}
	}
}
