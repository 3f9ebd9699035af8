//go:build linux

package mpris

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/llehouerou/reel/internal/tags"
)

// artExts lists artwork extensions in priority order.
var artExts = []string{".jpg", ".png", ".jpeg"}

// dirArtNames lists per-directory artwork names in priority order.
var dirArtNames = []string{"poster", "folder", "cover", "front"}

// FindArtwork looks for artwork next to the item: "<name>-poster.*" and
// "<name>.*" first, then directory-wide names, then a cover embedded in the
// item itself. Returns the path to the art file, or empty string if not
// found.
func FindArtwork(itemPath string) string {
	dir := filepath.Dir(itemPath)
	stem := strings.TrimSuffix(filepath.Base(itemPath), filepath.Ext(itemPath))

	candidates := []string{stem + "-poster", stem}
	candidates = append(candidates, dirArtNames...)
	for _, name := range candidates {
		for _, ext := range artExts {
			path := filepath.Join(dir, name+ext)
			if path == itemPath {
				continue
			}
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
	}
	return tags.CoverFile(itemPath)
}
