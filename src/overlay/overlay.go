// Package overlay owns the transparent per-display surfaces the guide is
// drawn on and orchestrates redraws.
package overlay

import (
	"errors"
	"image"

	"cursor-guide/src/display"
)

// ErrUnsupported is returned by NewPlatform where no native surface backend exists.
var ErrUnsupported = errors.New("overlay: no native surface backend on this platform")

// Surface is one borderless, input-transparent, always-on-top window covering
// exactly one display. Surfaces are owned and called by the run loop only.
type Surface interface {
	Show() error
	Hide() error
	// Present replaces the surface content. frame is premultiplied RGBA with
	// the surface's pixel size; the surface must not retain it.
	Present(frame *image.RGBA) error
	Clear() error
	Close() error
}

// Platform creates surfaces.
type Platform interface {
	CreateSurface(d display.Descriptor) (Surface, error)
}

// Pumper is implemented by platforms that need their window messages drained
// from the thread that created the surfaces.
type Pumper interface {
	Pump()
}

// DisplaySource enumerates displays and exposes the coordinate space of the
// last enumeration.
type DisplaySource interface {
	Displays() ([]display.Descriptor, error)
	Space() display.Space
}
