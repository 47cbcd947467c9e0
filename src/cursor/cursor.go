// Package cursor reads the true OS cursor position.
package cursor

import (
	"github.com/go-vgo/robotgo"

	"cursor-guide/src/display"
	"cursor-guide/src/geometry"
)

// SpaceFunc returns the coordinate space used for conversion.
type SpaceFunc func() display.Space

// Source queries the cursor through robotgo and reports desktop coordinates.
type Source struct {
	space    SpaceFunc
	location func() (int, int)
}

// NewSource returns a Source converting with space.
func NewSource(space SpaceFunc) *Source {
	return &Source{space: space, location: robotgo.Location}
}

// Position returns the cursor position in desktop coordinates.
func (s *Source) Position() (geometry.Point, error) {
	x, y := s.location()
	return s.space().ToDesktop(x, y), nil
}
