package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/reel/internal/config"
)

func TestChooseBackend(t *testing.T) {
	tests := []struct {
		configured string
		uri        string
		want       string
	}{
		{config.BackendAuto, "/music/song.mp3", config.BackendBeep},
		{config.BackendAuto, "/music/song.FLAC", config.BackendBeep},
		{config.BackendAuto, "/videos/film.mkv", config.BackendMPV},
		{config.BackendAuto, "https://example.com/stream", config.BackendMPV},
		{config.BackendMPV, "/music/song.mp3", config.BackendMPV},
		{config.BackendBeep, "/videos/film.mkv", config.BackendBeep},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, chooseBackend(tt.configured, tt.uri), "%q %q", tt.configured, tt.uri)
	}
}

func TestAudioCaption(t *testing.T) {
	assert.Equal(t, "♪ flac audio", audioCaption("/a/b.FLAC"))
	assert.Equal(t, "♪ audio", audioCaption("/a/noext"))
}

func TestItemFromArg(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clip.ogg")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	item, err := itemFromArg(path)
	require.NoError(t, err)
	assert.Equal(t, path, item.URI)

	item, err = itemFromArg("https://example.com/live.m3u8")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/live.m3u8", item.URI)

	_, err = itemFromArg(filepath.Join(dir, "missing.ogg"))
	assert.Error(t, err)
}
