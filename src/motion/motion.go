// Package motion maintains the cursor state the overlays render from.
package motion

import (
	"math"
	"time"

	"github.com/rs/zerolog/log"

	"cursor-guide/src/display"
	"cursor-guide/src/geometry"
)

// TickInterval is the fixed tracking cadence (60 Hz).
const TickInterval = time.Second / 60

// glideScale converts speed*dt into a per-tick blend factor. With speeds in
// [0.1, 2.0] this spans a slow drift to an almost instant catch-up.
const glideScale = 10

// snapDistance is the residual distance below which gliding snaps to target.
const snapDistance = 0.01

// CursorSource reports the true cursor position in desktop coordinates.
type CursorSource interface {
	Position() (geometry.Point, error)
}

// Gliding configures smoothed motion.
type Gliding struct {
	Enabled bool
	Speed   float64
	Delay   time.Duration
}

// Tracker owns the cursor state. It is not safe for concurrent use; all
// calls happen on the engine's run loop.
type Tracker struct {
	src      CursorSource
	gliding  Gliding
	displays []display.Descriptor

	real     geometry.Point
	rendered geometry.Point
	lastMove time.Time
	lastTick time.Time

	initialized bool
	first       bool
	suspended   bool
	failing     bool
}

// New returns a Tracker reading from src. The first tick snaps.
func New(src CursorSource) *Tracker {
	return &Tracker{src: src, first: true}
}

// Configure replaces the gliding parameters.
func (t *Tracker) Configure(g Gliding) {
	t.gliding = g
}

// SetDisplays sets the rectangles the rendered position is kept within.
func (t *Tracker) SetDisplays(list []display.Descriptor) {
	t.displays = list
	if t.initialized {
		t.rendered = t.clamp(t.rendered)
	}
}

// Restart makes the next tick snap to the true position.
func (t *Tracker) Restart() {
	t.first = true
}

// Suspended reports whether tracking is frozen.
func (t *Tracker) Suspended() bool { return t.suspended }

// Suspend freezes tracking: ticks neither read the cursor nor move the
// rendered position.
func (t *Tracker) Suspend() {
	t.suspended = true
}

// Resume unfreezes tracking and immediately resynchronizes the rendered
// position to the current true position.
func (t *Tracker) Resume(now time.Time) {
	t.suspended = false
	if p, ok := t.read(); ok {
		t.real = p
		t.rendered = t.clamp(p)
		t.lastMove = now
		t.initialized = true
	}
	t.lastTick = now
	t.first = true
}

// Tick advances the state to now. It reports whether the rendered position moved.
func (t *Tracker) Tick(now time.Time) bool {
	if t.suspended {
		return false
	}
	p, ok := t.read()
	if !ok {
		return false
	}
	if !t.initialized || p != t.real {
		t.real = p
		t.lastMove = now
	}

	prev := t.rendered
	dt := now.Sub(t.lastTick).Seconds()
	t.lastTick = now

	if t.first || !t.initialized || !t.gliding.Enabled {
		t.first = false
		t.initialized = true
		t.rendered = t.clamp(t.real)
		return t.rendered != prev
	}

	if now.Sub(t.lastMove) < t.gliding.Delay {
		return false
	}

	f := math.Min(1, t.gliding.Speed*dt*glideScale)
	if f <= 0 {
		return false
	}
	next := geometry.Point{
		X: t.rendered.X + (t.real.X-t.rendered.X)*f,
		Y: t.rendered.Y + (t.real.Y-t.rendered.Y)*f,
	}
	if next.Dist(t.real) < snapDistance {
		next = t.real
	}
	t.rendered = t.clamp(next)
	return t.rendered != prev
}

// Real returns the last polled true position.
func (t *Tracker) Real() geometry.Point { return t.real }

// Rendered returns the position overlays draw at.
func (t *Tracker) Rendered() geometry.Point { return t.rendered }

// Initialized reports whether at least one position has been read.
func (t *Tracker) Initialized() bool { return t.initialized }

// DisplayAt returns the display holding the rendered position.
func (t *Tracker) DisplayAt(list []display.Descriptor) (display.Descriptor, bool) {
	if !t.initialized {
		return display.Descriptor{}, false
	}
	return display.Find(list, t.rendered)
}

func (t *Tracker) read() (geometry.Point, bool) {
	p, err := t.src.Position()
	if err != nil {
		if !t.failing {
			log.Warn().Err(err).Msg("cursor position unavailable")
			t.failing = true
		}
		return geometry.Point{}, false
	}
	t.failing = false
	return p, true
}

// clamp keeps p within the union of the display rectangles by moving it to
// the nearest point of the closest display when it falls in a gap.
func (t *Tracker) clamp(p geometry.Point) geometry.Point {
	if len(t.displays) == 0 {
		return p
	}
	if _, ok := display.Find(t.displays, p); ok {
		return p
	}
	best := p
	bestDist := math.Inf(1)
	for _, d := range t.displays {
		c := d.Bounds.Clamp(p)
		if dist := c.Dist(p); dist < bestDist {
			best, bestDist = c, dist
		}
	}
	return best
}
