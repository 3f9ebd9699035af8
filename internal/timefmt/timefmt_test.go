package timefmt

import (
	"math"
	"testing"
	"time"
)

func TestSeconds(t *testing.T) {
	tests := []struct {
		name    string
		seconds float64
		want    string
	}{
		{"zero", 0, "0:00"},
		{"under a minute", 59, "0:59"},
		{"one minute", 60, "1:00"},
		{"fraction truncated", 61.9, "1:01"},
		{"last short value", 3599, "59:59"},
		{"one hour", 3600, "1:00:00"},
		{"hours minutes seconds", 3*3600 + 7*60 + 5, "3:07:05"},
		{"negative", -12, "0:00"},
		{"nan", math.NaN(), "0:00"},
		{"positive infinity", math.Inf(1), "0:00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Seconds(tt.seconds); got != tt.want {
				t.Errorf("Seconds(%v) = %q, want %q", tt.seconds, got, tt.want)
			}
		})
	}
}

func TestDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0:00"},
		{90 * time.Second, "1:30"},
		{59*time.Minute + 59*time.Second + 999*time.Millisecond, "59:59"},
		{time.Hour, "1:00:00"},
		{time.Hour + 2*time.Minute + 3*time.Second, "1:02:03"},
	}
	for _, tt := range tests {
		if got := Duration(tt.d); got != tt.want {
			t.Errorf("Duration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestFormatter_SharedValue(t *testing.T) {
	var a, b Formatter
	if a.Seconds(3600) != b.Seconds(3600) {
		t.Error("formatters with no state should agree")
	}
}
