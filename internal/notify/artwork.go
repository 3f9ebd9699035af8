//go:build linux

package notify

import "github.com/llehouerou/reel/internal/mpris"

// Icon returns artwork next to itemPath, or DefaultIcon when there is none.
func Icon(itemPath string) string {
	if art := mpris.FindArtwork(itemPath); art != "" {
		return art
	}
	return DefaultIcon
}
