// Package layout provides pure functions for screen geometry: where the
// embedded and fullscreen surfaces sit in the terminal window.
package layout

const (
	// HeaderHeight is the title line above the embedded surface.
	HeaderHeight = 1
	// FooterHeight is the status line below the embedded surface.
	FooterHeight = 1
	// BorderSize is the cells consumed on each side by the embedded panel border.
	BorderSize = 1
	// MinSurfaceHeight fits a title, the controls row and the help line.
	MinSurfaceHeight = 3
	// MaxEmbeddedHeight caps the inner height of the embedded surface.
	MaxEmbeddedHeight = 12
)

// Rect is a rectangle of terminal cells.
type Rect struct {
	X, Y          int
	Width, Height int
}

// Contains reports whether the cell (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Local converts window coordinates to coordinates relative to r.
func (r Rect) Local(x, y int) (int, int) {
	return x - r.X, y - r.Y
}

// Embedded returns the inner area of the bordered embedded surface for a
// window of the given size.
func Embedded(windowWidth, windowHeight int) Rect {
	inner := windowHeight - HeaderHeight - FooterHeight - 2*BorderSize
	return Rect{
		X:      BorderSize,
		Y:      HeaderHeight + BorderSize,
		Width:  max(windowWidth-2*BorderSize, 0),
		Height: min(max(inner, MinSurfaceHeight), MaxEmbeddedHeight),
	}
}

// Fullscreen returns the area of the fullscreen surface: the whole window.
func Fullscreen(windowWidth, windowHeight int) Rect {
	return Rect{
		Width:  max(windowWidth, 0),
		Height: max(windowHeight, MinSurfaceHeight),
	}
}
