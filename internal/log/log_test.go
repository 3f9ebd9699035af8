package log

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisabledByDefault(t *testing.T) {
	require.NoError(t, Setup(Options{}))
	assert.False(t, Enabled())

	// Must not panic or write anywhere.
	Infof("ignored %d", 1)
}

func TestConfigure_TextAndLevel(t *testing.T) {
	t.Cleanup(func() { _ = Close() })

	var buf bytes.Buffer
	configure(&buf, Options{Enabled: true, Level: "warn"})

	Infof("hidden")
	Warnf("shown %s", "warning")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown warning")
}

func TestConfigure_BadLevelFallsBackToInfo(t *testing.T) {
	t.Cleanup(func() { _ = Close() })

	var buf bytes.Buffer
	configure(&buf, Options{Enabled: true, Level: "chatty"})

	Debugf("debug line")
	Infof("info line")

	assert.NotContains(t, buf.String(), "debug line")
	assert.Contains(t, buf.String(), "info line")
}

func TestConfigure_JSONFields(t *testing.T) {
	t.Cleanup(func() { _ = Close() })

	var buf bytes.Buffer
	configure(&buf, Options{Enabled: true, Level: "debug", JSON: true})

	WithField("target", "1:00").Debug("seek issued")

	assert.Contains(t, buf.String(), `"target":"1:00"`)
	assert.Contains(t, buf.String(), `"msg":"seek issued"`)
}

func TestSetup_WritesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Setup(Options{Enabled: true, Level: "info", Dir: dir}))

	Infof("to file")
	require.NoError(t, Close())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	data, err := os.ReadFile(dir + "/" + entries[0].Name())
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
}
