// Package display enumerates physical displays and converts between native
// screen coordinates (origin top-left of the primary display, y down) and
// desktop coordinates (origin bottom-left of the primary display, y up).
package display

import (
	"errors"
	"fmt"
	"image"
	"math"

	"cursor-guide/src/geometry"
)

// ErrNoDisplays is returned when enumeration finds no active display.
var ErrNoDisplays = errors.New("no active displays found")

// ID identifies a display within one enumeration.
type ID int

// Descriptor describes one display. Descriptors are never mutated; a
// configuration change produces a fresh list.
type Descriptor struct {
	ID      ID
	Bounds  geometry.Rect   // desktop coordinates
	Screen  image.Rectangle // native coordinates, used to place surfaces
	Scale   float64
	Primary bool
}

func (d Descriptor) String() string {
	return fmt.Sprintf("display %d %v scale=%.2f primary=%v", d.ID, d.Screen, d.Scale, d.Primary)
}

// Contains reports whether the desktop point p lies on d.
func (d Descriptor) Contains(p geometry.Point) bool {
	return d.Bounds.Contains(p)
}

// ToLocal converts a desktop point to surface-local coordinates (origin
// top-left of d, y down). The top pixel row of d is local row 0.
func (d Descriptor) ToLocal(p geometry.Point) geometry.Point {
	return geometry.Point{X: p.X - d.Bounds.Min.X, Y: d.Bounds.Max.Y - 1 - p.Y}
}

// PixelSize returns the backing size of a surface covering d.
func (d Descriptor) PixelSize() (int, int) {
	s := d.Scale
	if s <= 0 {
		s = 1
	}
	return int(d.Bounds.Width()*s + 0.5), int(d.Bounds.Height()*s + 0.5)
}

// Find returns the descriptor containing p.
func Find(list []Descriptor, p geometry.Point) (Descriptor, bool) {
	for _, d := range list {
		if d.Contains(p) {
			return d, true
		}
	}
	return Descriptor{}, false
}

// Primary returns the primary display, or the first one when none is flagged.
func Primary(list []Descriptor) (Descriptor, bool) {
	for _, d := range list {
		if d.Primary {
			return d, true
		}
	}
	if len(list) > 0 {
		return list[0], true
	}
	return Descriptor{}, false
}

// Equal reports whether two enumerations describe the same configuration.
func Equal(a, b []Descriptor) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Space converts between native and desktop coordinates.
type Space struct {
	// PrimaryHeight is the height of the primary display in native pixels.
	PrimaryHeight int
}

// ToDesktop converts a native screen position. Native row y and desktop row
// PrimaryHeight-1-y are the same pixel row, so a point on row y lands inside
// the display that RectToDesktop maps that row to.
func (s Space) ToDesktop(x, y int) geometry.Point {
	return geometry.Point{X: float64(x), Y: float64(s.PrimaryHeight - 1 - y)}
}

// ToScreen converts a desktop position to native screen pixels.
func (s Space) ToScreen(p geometry.Point) (int, int) {
	return int(math.Floor(p.X)), s.PrimaryHeight - 1 - int(math.Round(p.Y))
}

// RectToDesktop converts a native rectangle. Native rows [Min.Y, Max.Y)
// become desktop rows [PrimaryHeight-Max.Y, PrimaryHeight-Min.Y).
func (s Space) RectToDesktop(r image.Rectangle) geometry.Rect {
	return geometry.Rect{
		Min: geometry.Point{X: float64(r.Min.X), Y: float64(s.PrimaryHeight - r.Max.Y)},
		Max: geometry.Point{X: float64(r.Max.X), Y: float64(s.PrimaryHeight - r.Min.Y)},
	}
}

// Describe builds descriptors from native display rectangles. The display
// whose rectangle starts at the native origin is primary; the first one
// otherwise.
func Describe(rects []image.Rectangle) ([]Descriptor, Space) {
	primary := 0
	for i, r := range rects {
		if r.Min == (image.Point{}) {
			primary = i
			break
		}
	}
	var space Space
	if len(rects) > 0 {
		space.PrimaryHeight = rects[primary].Dy()
	}
	out := make([]Descriptor, 0, len(rects))
	for i, r := range rects {
		out = append(out, Descriptor{
			ID:      ID(i),
			Bounds:  space.RectToDesktop(r),
			Screen:  r,
			Scale:   1,
			Primary: i == primary,
		})
	}
	return out, space
}
