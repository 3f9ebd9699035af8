// Package timefmt renders playback positions as clock strings.
package timefmt

import (
	"fmt"
	"math"
	"time"
)

// longThreshold is the point at which the hour field is shown.
const longThreshold = 3600

// Formatter renders seconds as M:SS, or H:MM:SS from one hour up.
// It holds no state, so one value can be shared by any number of stores.
type Formatter struct{}

// Default is the formatter used by the package-level helpers.
var Default Formatter

// Seconds formats a position given in seconds.
// NaN, infinite and negative values are rendered as zero.
func (Formatter) Seconds(seconds float64) string {
	total := int64(sanitize(seconds))

	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60

	if total >= longThreshold {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// Duration formats a time.Duration.
func (f Formatter) Duration(d time.Duration) string {
	return f.Seconds(d.Seconds())
}

// Seconds formats seconds with the default formatter.
func Seconds(seconds float64) string {
	return Default.Seconds(seconds)
}

// Duration formats d with the default formatter.
func Duration(d time.Duration) string {
	return Default.Duration(d)
}

func sanitize(seconds float64) float64 {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		return 0
	}
	return math.Floor(seconds)
}
