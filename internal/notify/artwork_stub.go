//go:build !linux

package notify

// Icon returns DefaultIcon on non-Linux platforms.
func Icon(_ string) string {
	return DefaultIcon
}
