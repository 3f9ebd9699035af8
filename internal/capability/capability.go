// Package capability holds the presentation options handed to every surface:
// which controls may be shown and how they are styled. The playback store
// never reads these values.
package capability

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// Set is a bit-set of user-facing controls.
type Set uint8

const (
	Fullscreen Set = 1 << iota
	PlayPause
	Seek
)

const (
	None Set = 0
	All      = Fullscreen | PlayPause | Seek
)

type flagName struct {
	flag Set
	name string
}

var names = []flagName{
	{Fullscreen, "fullscreen"},
	{PlayPause, "play_pause"},
	{Seek, "seek"},
}

// Has reports whether every flag in c is present in s.
func (s Set) Has(c Set) bool {
	return s&c == c
}

// Union returns the flags present in either set.
func (s Set) Union(other Set) Set {
	return s | other
}

// Without returns s with the flags of other removed.
func (s Set) Without(other Set) Set {
	return s &^ other
}

// String returns the flag names joined with "|", or "none".
func (s Set) String() string {
	parts := lo.FilterMap(names, func(n flagName, _ int) (string, bool) {
		return n.name, s.Has(n.flag)
	})
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// Parse builds a Set from flag names. Names are case-insensitive and may use
// "-" in place of "_". "all" and "none" are accepted.
func Parse(values []string) (Set, error) {
	normalized := lo.Uniq(lo.Map(values, func(v string, _ int) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(v)), "-", "_")
	}))

	var s Set
	for _, v := range normalized {
		switch v {
		case "":
			continue
		case "all":
			s = s.Union(All)
			continue
		case "none":
			continue
		}
		n, ok := lo.Find(names, func(n flagName) bool {
			return n.name == v
		})
		if !ok {
			return None, fmt.Errorf("unknown capability %q", v)
		}
		s = s.Union(n.flag)
	}
	return s, nil
}
