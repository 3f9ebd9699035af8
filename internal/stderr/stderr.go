//go:build !windows

// Package stderr captures output that C libraries (libmpv, ALSA) write
// directly to file descriptor 2, bypassing Go's os.Stderr. Captured lines
// go to the log, to Messages and to Recent instead of corrupting the TUI.
package stderr

import (
	"os"
	"sync"
	"syscall"
)

// capture holds fd 2 redirected into a pipe.
type capture struct {
	mu     sync.Mutex
	orig   int // duplicate of the original fd 2, -1 when not capturing
	writer *os.File
}

var current = capture{orig: -1}

// Start redirects fd 2 into a pipe read by a forwarding goroutine. Call it
// before any C library initializes. On error stderr is left untouched.
func Start() error {
	return current.start()
}

// Stop restores the original stderr and closes Messages.
func Stop() {
	current.stop()
}

// WriteOriginal writes directly to the original stderr, bypassing capture.
func WriteOriginal(msg string) {
	current.mu.Lock()
	orig := current.orig
	current.mu.Unlock()

	if orig >= 0 {
		_, _ = syscall.Write(orig, []byte(msg))
		return
	}
	_, _ = os.Stderr.WriteString(msg)
}

func (c *capture) start() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.orig >= 0 {
		return nil
	}

	r, w, err := os.Pipe()
	if err != nil {
		return err
	}
	fd := int(os.Stderr.Fd())
	orig, err := syscall.Dup(fd)
	if err != nil {
		r.Close()
		w.Close()
		return err
	}
	if err := syscall.Dup2(int(w.Fd()), fd); err != nil {
		syscall.Close(orig)
		r.Close()
		w.Close()
		return err
	}

	c.orig = orig
	c.writer = w
	go forward(r, Messages, recent)
	return nil
}

func (c *capture) stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.orig < 0 {
		return
	}

	_ = syscall.Dup2(c.orig, int(os.Stderr.Fd()))
	_ = syscall.Close(c.orig)
	c.orig = -1

	// fd 2 no longer refers to the pipe, so closing the write end ends
	// forward, which closes Messages.
	c.writer.Close()
	c.writer = nil
}
