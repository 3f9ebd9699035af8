package stderr

import (
	"bufio"
	"io"
	"slices"
	"strings"
	"sync"

	"github.com/llehouerou/reel/internal/log"
)

const historySize = 20

// Messages receives stderr lines captured from C libraries.
// It is closed once capture stops.
var Messages = make(chan string, 100)

var recent = &history{max: historySize}

// Recent returns the last captured lines, oldest first.
func Recent() []string {
	return recent.lines()
}

// history keeps the last max lines.
type history struct {
	mu  sync.Mutex
	buf []string
	max int
}

func (h *history) add(line string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.buf) == h.max {
		h.buf = slices.Delete(h.buf, 0, 1)
	}
	h.buf = append(h.buf, line)
}

func (h *history) lines() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.buf)
}

// forward logs and records every non-empty line read from r and offers it
// on out, dropping it when out is full. It closes out at EOF.
func forward(r io.ReadCloser, out chan<- string, h *history) {
	defer close(out)
	defer r.Close()

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		log.WithField("source", "stderr").Warnf("%s", line)
		h.add(line)
		select {
		case out <- line:
		default:
		}
	}
}
