// Package tags reads the descriptive metadata embedded in local media files.
package tags

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2/v2"
	"github.com/dhowden/tag"
	"go.senan.xyz/taglib"
)

// ErrNoTags is returned when a file carries no usable title.
var ErrNoTags = errors.New("no tags")

// Tag holds the fields surfaces display for an item.
type Tag struct {
	Title  string
	Artist string
	Album  string
}

// reader extracts tags from one kind of metadata block.
type reader func(path string) (Tag, error)

// Read returns the tags of the file at path. dhowden/tag is tried first;
// when it fails or finds no title, MP3 files fall back to id3v2, FLAC and MP4
// to their own metadata blocks, and anything TagLib knows ends with TagLib.
func Read(path string) (Tag, error) {
	return readFirst(path, readersFor(path)...)
}

func readersFor(path string) []reader {
	readers := []reader{readTag}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		readers = append(readers, readID3v2)
	case ".flac":
		readers = append(readers, readFLAC, readTaglib)
	case ".m4a", ".m4b", ".mp4", ".m4v":
		readers = append(readers, readMP4, readTaglib)
	case ".ogg", ".oga", ".opus", ".mkv", ".webm":
		readers = append(readers, readTaglib)
	}
	return readers
}

// readFirst returns the first titled result. ErrNoTags wins over read errors
// once any reader has parsed the file.
func readFirst(path string, readers ...reader) (Tag, error) {
	var lastErr error
	parsed := false
	for _, read := range readers {
		t, err := read(path)
		if err != nil {
			lastErr = err
			continue
		}
		if t = t.trimmed(); t.Title != "" {
			return t, nil
		}
		parsed = true
	}
	if parsed || lastErr == nil {
		return Tag{}, ErrNoTags
	}
	return Tag{}, lastErr
}

func readTag(path string) (Tag, error) {
	f, err := os.Open(path)
	if err != nil {
		return Tag{}, err
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return Tag{}, err
	}
	artist := m.Artist()
	if artist == "" {
		artist = m.AlbumArtist()
	}
	return Tag{Title: m.Title(), Artist: artist, Album: m.Album()}, nil
}

func readID3v2(path string) (Tag, error) {
	t, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return Tag{}, err
	}
	defer t.Close()
	return Tag{Title: t.Title(), Artist: t.Artist(), Album: t.Album()}, nil
}

func readTaglib(path string) (Tag, error) {
	raw, err := taglib.ReadTags(path)
	if err != nil {
		return Tag{}, err
	}
	first := func(keys ...string) string {
		for _, k := range keys {
			if v := raw[k]; len(v) > 0 {
				return v[0]
			}
		}
		return ""
	}
	return Tag{
		Title:  first(taglib.Title),
		Artist: first(taglib.Artist, taglib.AlbumArtist),
		Album:  first(taglib.Album),
	}, nil
}

func (t Tag) trimmed() Tag {
	return Tag{
		Title:  strings.TrimSpace(strings.Trim(t.Title, "\x00")),
		Artist: strings.TrimSpace(strings.Trim(t.Artist, "\x00")),
		Album:  strings.TrimSpace(strings.Trim(t.Album, "\x00")),
	}
}
