//nolint:goconst // test cases intentionally repeat strings for readability
package errmsg

import (
	"errors"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		op       Op
		err      error
		expected string
	}{
		{
			name:     "nil error returns empty string",
			op:       OpItemLoad,
			err:      nil,
			expected: "",
		},
		{
			name:     "formats error with operation",
			op:       OpItemLoad,
			err:      errors.New("file not found"),
			expected: "Failed to load item: file not found",
		},
		{
			name:     "resume operation",
			op:       OpPositionSave,
			err:      errors.New("database is locked"),
			expected: "Failed to save position: database is locked",
		},
		{
			name:     "backend operation",
			op:       OpBackendStart,
			err:      errors.New("no audio device"),
			expected: "Failed to start playback backend: no audio device",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Format(tt.op, tt.err)
			if result != tt.expected {
				t.Errorf("Format(%q, %v) = %q, want %q", tt.op, tt.err, result, tt.expected)
			}
		})
	}
}

func TestFormatWith(t *testing.T) {
	tests := []struct {
		name     string
		op       Op
		context  string
		err      error
		expected string
	}{
		{
			name:     "nil error returns empty string",
			op:       OpItemLoad,
			context:  "clip.mp4",
			err:      nil,
			expected: "",
		},
		{
			name:     "formats error with context",
			op:       OpItemLoad,
			context:  "clip.mp4",
			err:      errors.New("permission denied"),
			expected: "Failed to load item 'clip.mp4': permission denied",
		},
		{
			name:     "empty context falls back to Format",
			op:       OpItemLoad,
			context:  "",
			err:      errors.New("permission denied"),
			expected: "Failed to load item: permission denied",
		},
		{
			name:     "config with path context",
			op:       OpConfigLoad,
			context:  "/home/user/.config/reel/config.toml",
			err:      errors.New("toml: line 3"),
			expected: "Failed to load config '/home/user/.config/reel/config.toml': toml: line 3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FormatWith(tt.op, tt.context, tt.err)
			if result != tt.expected {
				t.Errorf("FormatWith(%q, %q, %v) = %q, want %q", tt.op, tt.context, tt.err, result, tt.expected)
			}
		})
	}
}

func TestOpConstants(t *testing.T) {
	ops := []Op{
		OpItemLoad, OpPlaybackStart, OpBackendStart,
		OpPositionLoad, OpPositionSave, OpStateOpen,
		OpMPRISStart,
		OpLastfmAuth, OpLastfmUnlink, OpLastfmSession,
		OpConfigLoad, OpLogSetup, OpInitialize,
	}

	testErr := errors.New("test error")

	for _, op := range ops {
		t.Run(string(op), func(t *testing.T) {
			if op == "" {
				t.Error("Op constant should not be empty")
			}

			expected := "Failed to " + string(op) + ": test error"
			if result := Format(op, testErr); result != expected {
				t.Errorf("Format = %q, want %q", result, expected)
			}
		})
	}
}
