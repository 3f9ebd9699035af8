package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStripANSI(t *testing.T) {
	assert.Equal(t, "red text", StripANSI("\x1b[31mred\x1b[0m text"))
	assert.Equal(t, "plain", StripANSI("plain"))
}

func TestContainsLine(t *testing.T) {
	output := "first\n\x1b[1msecond\x1b[0m line"

	assert.True(t, ContainsLine(output, "second line"))
	assert.False(t, ContainsLine(output, "third"))
}

func TestPlayer_RecordsCalls(t *testing.T) {
	var p Player
	p.Toggle()
	p.SeekBy(-5 * time.Second)
	p.SeekToFraction(0.3)
	p.SeekTo(0)

	assert.Equal(t, []string{"toggle", "seek_by -5s", "seek_fraction 0.30", "seek_to 0s"}, p.Calls())

	p.Reset()
	assert.Empty(t, p.Calls())
}
