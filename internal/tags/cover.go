package tags

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/dhowden/tag"
	"github.com/nfnt/resize"
)

const (
	// coverDir is the cache subdirectory embedded covers are written to.
	coverDir = "reel/covers"
	// coverMax bounds the cached cover in pixels on each side.
	coverMax = 512
)

// EmbeddedCover returns the picture embedded in the file at path, with its
// file extension. It returns nil data when the file has none.
func EmbeddedCover(path string) (data []byte, ext string, err error) {
	data, ext, err = readCover(path)
	if (err != nil || data == nil) && strings.EqualFold(filepath.Ext(path), ".flac") {
		return flacCover(path)
	}
	return data, ext, err
}

func readCover(path string) ([]byte, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return nil, "", err
	}
	pic := m.Picture()
	if pic == nil || len(pic.Data) == 0 {
		return nil, "", nil
	}
	ext := strings.ToLower(pic.Ext)
	if ext == "" {
		ext = mimeExt(pic.MIMEType)
	}
	return pic.Data, ext, nil
}

// CoverFile extracts the embedded cover of path into the user cache and
// returns the cached file, or "" when there is no cover.
func CoverFile(path string) string {
	return coverFileIn(path, func(name string) (string, error) {
		return xdg.CacheFile(filepath.Join(coverDir, name))
	})
}

func coverFileIn(path string, place func(name string) (string, error)) string {
	data, ext, err := EmbeddedCover(path)
	if err != nil || data == nil {
		return ""
	}
	sum := sha1.Sum(data)
	data, ext = shrink(data, ext)
	target, err := place(hex.EncodeToString(sum[:]) + "." + ext)
	if err != nil {
		return ""
	}
	if _, err := os.Stat(target); err == nil {
		return target
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return ""
	}
	return target
}

// shrink downsizes covers larger than coverMax. Data that does not decode
// as an image is returned untouched.
func shrink(data []byte, ext string) ([]byte, string) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return data, ext
	}
	b := img.Bounds()
	if b.Dx() <= coverMax && b.Dy() <= coverMax {
		return data, ext
	}
	small := resize.Thumbnail(coverMax, coverMax, img, resize.Lanczos3)

	var buf bytes.Buffer
	out := "jpg"
	if format == "png" {
		out = "png"
		err = png.Encode(&buf, small)
	} else {
		err = jpeg.Encode(&buf, small, &jpeg.Options{Quality: 90})
	}
	if err != nil {
		return data, ext
	}
	return buf.Bytes(), out
}
