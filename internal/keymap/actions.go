package keymap

// Action represents a user-triggerable action.
type Action string

const (
	// Global actions
	ActionQuit Action = "quit"
	ActionHelp Action = "help"

	// Playback actions
	ActionPlayPause       Action = "play_pause"
	ActionSeekForward     Action = "seek_forward"
	ActionSeekBack        Action = "seek_back"
	ActionSeekForwardLong Action = "seek_forward_long"
	ActionSeekBackLong    Action = "seek_back_long"
	ActionSeekPercent     Action = "seek_percent" // 0-9: jump to n*10%
	ActionRestart         Action = "restart"      // home

	// Surface actions
	ActionFullscreen     Action = "fullscreen"      // f - enter or leave
	ActionExitFullscreen Action = "exit_fullscreen" // esc
)
