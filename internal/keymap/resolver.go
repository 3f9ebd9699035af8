package keymap

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/llehouerou/reel/internal/capability"
)

// Resolver maps key strings to actions.
type Resolver struct {
	bindings map[string]Action   // key -> action
	byAction map[Action][]string // action -> keys (for help/documentation)
	help     []Binding
}

// NewResolver creates a resolver from bindings.
func NewResolver(bindings []Binding) *Resolver {
	r := &Resolver{
		bindings: make(map[string]Action),
		byAction: make(map[Action][]string),
	}
	for _, b := range bindings {
		for _, k := range b.Keys {
			r.bindings[k] = b.Action
		}
		r.byAction[b.Action] = append(r.byAction[b.Action], b.Keys...)
		r.help = append(r.help, b)
	}
	for action, keys := range r.byAction {
		r.byAction[action] = dedupe(keys)
	}
	return r
}

// ForCapabilities creates a resolver over All restricted to caps.
func ForCapabilities(caps capability.Set) *Resolver {
	return NewResolver(Allowed(All, caps))
}

// Resolve returns the action for a key, or empty string if not bound.
func (r *Resolver) Resolve(k string) Action {
	return r.bindings[k]
}

// KeysFor returns the keys bound to an action (for help/documentation).
func (r *Resolver) KeysFor(action Action) []string {
	return r.byAction[action]
}

// ShortHelp implements help.KeyMap.
func (r *Resolver) ShortHelp() []key.Binding {
	var out []key.Binding
	for _, b := range r.help {
		switch b.Action {
		case ActionPlayPause, ActionSeekForward, ActionFullscreen, ActionQuit, ActionHelp:
			out = append(out, b.Key())
		}
	}
	return out
}

// FullHelp implements help.KeyMap, one column per context.
func (r *Resolver) FullHelp() [][]key.Binding {
	var cols [][]key.Binding
	for _, ctx := range []string{"playback", "fullscreen", "global"} {
		var col []key.Binding
		for _, b := range r.help {
			if b.Context == ctx {
				col = append(col, b.Key())
			}
		}
		if len(col) > 0 {
			cols = append(cols, col)
		}
	}
	return cols
}

// dedupe removes duplicate strings from a slice.
func dedupe(s []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(s))
	for _, v := range s {
		if !seen[v] {
			seen[v] = true
			result = append(result, v)
		}
	}
	return result
}
