// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Playback operations
	OpItemLoad      Op = "load item"
	OpPlaybackStart Op = "start playback"
	OpBackendStart  Op = "start playback backend"

	// Resume operations
	OpPositionLoad Op = "restore position"
	OpPositionSave Op = "save position"
	OpStateOpen    Op = "open resume database"

	// Desktop integration
	OpMPRISStart Op = "start media controls"

	// Last.fm
	OpLastfmAuth    Op = "link Last.fm account"
	OpLastfmUnlink  Op = "unlink Last.fm account"
	OpLastfmSession Op = "read Last.fm session"

	// Initialization
	OpConfigLoad Op = "load config"
	OpLogSetup   Op = "set up logging"
	OpInitialize Op = "initialize application"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}
