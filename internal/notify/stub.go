//go:build !linux

package notify

// New returns a Nop notifier outside Linux.
func New() (Notifier, error) {
	return Nop{}, nil
}
