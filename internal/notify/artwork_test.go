//go:build linux

package notify

import (
	"os"
	"path/filepath"
	"testing"
)

func TestIcon(t *testing.T) {
	dir := t.TempDir()

	itemPath := filepath.Join(dir, "episode.mkv")
	if err := os.WriteFile(itemPath, []byte{}, 0o600); err != nil {
		t.Fatal(err)
	}

	if got := Icon(itemPath); got != DefaultIcon {
		t.Errorf("Icon() = %q, want %q", got, DefaultIcon)
	}

	coverPath := filepath.Join(dir, "cover.jpg")
	if err := os.WriteFile(coverPath, []byte{0xFF, 0xD8, 0xFF}, 0o600); err != nil {
		t.Fatal(err)
	}

	if got := Icon(itemPath); got != coverPath {
		t.Errorf("Icon() = %q, want %q", got, coverPath)
	}
}

func TestBuildHints(t *testing.T) {
	hints := buildHints(Notification{Urgency: UrgencyNormal})
	if _, ok := hints["category"]; ok {
		t.Error("category hint set without a category")
	}
	if _, ok := hints["transient"]; ok {
		t.Error("transient hint set for a persistent notification")
	}
	if got := hints["urgency"].Value(); got != byte(UrgencyNormal) {
		t.Errorf("urgency = %v, want %d", got, UrgencyNormal)
	}

	hints = buildHints(Notification{Category: "x-reel.finished", Transient: true})
	if got := hints["category"].Value(); got != "x-reel.finished" {
		t.Errorf("category = %v", got)
	}
	if got := hints["transient"].Value(); got != true {
		t.Errorf("transient = %v", got)
	}
}
