//go:build !windows

package overlay

// NewPlatform reports ErrUnsupported; callers fall back to NewMemoryPlatform.
func NewPlatform() (Platform, error) {
	return nil, ErrUnsupported
}
