//go:build !linux

package mpris

import (
	"github.com/llehouerou/reel/internal/capability"
	"github.com/llehouerou/reel/internal/playback"
)

// Adapter is a no-op on non-Linux platforms.
type Adapter struct{}

// New returns a no-op adapter on non-Linux platforms.
func New(_ playback.Service, _ capability.Set) (*Adapter, error) {
	return &Adapter{}, nil
}

// Close is a no-op on non-Linux platforms.
func (a *Adapter) Close() error {
	return nil
}
