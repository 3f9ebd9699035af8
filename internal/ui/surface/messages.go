package surface

// FullscreenRequestedMsg is emitted by the embedded surface when the user
// asks for fullscreen.
type FullscreenRequestedMsg struct{}

// ExitFullscreenMsg is emitted by the fullscreen surface when the user asks
// to leave it.
type ExitFullscreenMsg struct{}

// hideControlsMsg hides the fullscreen controls if seq is still current.
type hideControlsMsg struct {
	seq int
}
