package audio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/wav"
)

const (
	extMP3  = ".mp3"
	extFLAC = ".flac"
	extWAV  = ".wav"
	extOGG  = ".ogg"
	extOGA  = ".oga"
	extOPUS = ".opus"
	extM4A  = ".m4a"
	extM4B  = ".m4b"
)

var extensions = []string{extMP3, extFLAC, extWAV, extOGG, extOGA, extOPUS, extM4A, extM4B}

// ErrUnsupported is returned by Load for files no decoder handles.
var ErrUnsupported = errors.New("unsupported audio format")

// Supported reports whether path has an extension this transport can decode.
func Supported(path string) bool {
	return slices.Contains(extensions, strings.ToLower(filepath.Ext(path)))
}

// decode opens path and picks a decoder from its extension. The returned
// streamer owns the file.
func decode(path string) (beep.StreamSeekCloser, beep.Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !slices.Contains(extensions, ext) {
		return nil, beep.Format{}, fmt.Errorf("%w: %q", ErrUnsupported, ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, err
	}

	var streamer beep.StreamSeekCloser
	var format beep.Format

	switch ext {
	case extMP3:
		streamer, format, err = decodeGoMP3(f)
	case extFLAC:
		// Some taggers prepend an ID3v2 tag the FLAC decoder doesn't handle.
		if err = skipID3v2(f); err == nil {
			streamer, format, err = flac.Decode(f)
		}
	case extWAV:
		streamer, format, err = wav.Decode(f)
	case extOGG, extOGA, extOPUS:
		streamer, format, err = decodeOgg(f)
	case extM4A, extM4B:
		streamer, format, err = decodeM4A(f)
	}
	if err != nil {
		f.Close()
		return nil, beep.Format{}, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return streamer, format, nil
}

// skipID3v2 skips an ID3v2 tag if present at the beginning of r.
func skipID3v2(r io.ReadSeeker) error {
	header := make([]byte, 10)
	n, err := io.ReadFull(r, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return err
	}
	if n < 10 || string(header[0:3]) != "ID3" {
		_, err = r.Seek(0, io.SeekStart)
		return err
	}

	// Size is a syncsafe integer: 7 bits per byte.
	size := int64(header[6])<<21 | int64(header[7])<<14 | int64(header[8])<<7 | int64(header[9])
	_, err = r.Seek(10+size, io.SeekStart)
	return err
}
