// Package geometry builds the drawable primitives of a guide marker.
//
// Build is a pure function: the same center, surface size and configuration
// always produce the same Scene.
package geometry

import (
	"math"

	"cursor-guide/src/settings"
)

// Point is a position in floating point coordinates.
type Point struct {
	X float64
	Y float64
}

// Dist returns the euclidean distance between p and q.
func (p Point) Dist(q Point) float64 { return math.Hypot(p.X-q.X, p.Y-q.Y) }

// Size is a surface extent.
type Size struct {
	W float64
	H float64
}

// Rect is an axis aligned rectangle. Min is inclusive, Max exclusive.
type Rect struct {
	Min Point
	Max Point
}

// Width returns the horizontal extent.
func (r Rect) Width() float64 { return r.Max.X - r.Min.X }

// Height returns the vertical extent.
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }

// Size returns the rectangle extent.
func (r Rect) Size() Size { return Size{W: r.Width(), H: r.Height()} }

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X < r.Max.X && p.Y >= r.Min.Y && p.Y < r.Max.Y
}

// Clamp returns the point of r closest to p.
func (r Rect) Clamp(p Point) Point {
	return Point{
		X: math.Min(math.Max(p.X, r.Min.X), math.Max(r.Min.X, r.Max.X-1)),
		Y: math.Min(math.Max(p.Y, r.Min.Y), math.Max(r.Min.Y, r.Max.Y-1)),
	}
}

// Union returns the smallest rectangle containing r and o.
func (r Rect) Union(o Rect) Rect {
	return Rect{
		Min: Point{X: math.Min(r.Min.X, o.Min.X), Y: math.Min(r.Min.Y, o.Min.Y)},
		Max: Point{X: math.Max(r.Max.X, o.Max.X), Y: math.Max(r.Max.Y, o.Max.Y)},
	}
}

// Segment is a straight stroked line.
type Segment struct {
	A Point
	B Point
}

// Circle is a stroked circle, optionally filled before stroking.
type Circle struct {
	Center Point
	Radius float64
	Fill   bool
}

// Triangle is a filled edge pointer. Apex points at the cursor projection.
type Triangle struct {
	Edge Edge
	A    Point
	B    Point
	Apex Point
}

// Edge names the surface edge a pointer is anchored to.
type Edge int

const (
	EdgeTop Edge = iota
	EdgeBottom
	EdgeLeft
	EdgeRight
)

// Stroke holds the two stroke widths of every line primitive. BorderWidth is
// zero when no outline is drawn; otherwise it is painted first, in the border
// color, underneath the main stroke.
type Stroke struct {
	Width       float64
	BorderWidth float64
}

// Scene is the full set of primitives for one surface and one frame.
type Scene struct {
	Segments  []Segment
	Circle    *Circle
	Triangles []Triangle
	Stroke    Stroke
	Dash      []float64
}

// Empty reports whether nothing would be drawn.
func (s Scene) Empty() bool {
	return len(s.Segments) == 0 && s.Circle == nil && len(s.Triangles) == 0
}

// pointerClearance is how close, in triangle sizes, the cursor may get to an
// edge before that edge's pointer is dropped.
const pointerClearance = 1.5

// Build computes the primitives for cfg centered at center on a surface of
// the given size. center is in surface-local coordinates (origin top-left).
func Build(center Point, size Size, cfg settings.RenderConfig) Scene {
	scene := Scene{
		Stroke: StrokeFor(cfg),
		Dash:   DashPattern(cfg.Dash, cfg.Thickness),
	}

	switch cfg.Style {
	case settings.StyleCircle:
		scene.Circle = &Circle{
			Center: center,
			Radius: cfg.CircleRadius,
			Fill:   cfg.CircleFillOpacity > 0,
		}
	case settings.StyleEdgePointers:
		scene.Triangles = edgePointers(center, size, cfg)
	case settings.StyleReadingLine:
		lo, hi := span(center.X, size.W, cfg)
		if hi > lo {
			scene.Segments = append(scene.Segments, Segment{
				A: Point{X: lo, Y: center.Y},
				B: Point{X: hi, Y: center.Y},
			})
		}
	case settings.StyleHorizontal:
		scene.Segments = horizontal(center, size, cfg)
	case settings.StyleVertical:
		scene.Segments = vertical(center, size, cfg)
	default:
		scene.Segments = append(horizontal(center, size, cfg), vertical(center, size, cfg)...)
	}
	return scene
}

// StrokeFor returns the stroke widths for cfg. A negative border counts as none.
func StrokeFor(cfg settings.RenderConfig) Stroke {
	s := Stroke{Width: cfg.Thickness}
	if cfg.BorderSize > 0 {
		s.BorderWidth = cfg.Thickness + 2*cfg.BorderSize
	}
	return s
}

// DashPattern returns the on/off lengths for a dash style, nil for solid.
func DashPattern(d settings.Dash, thickness float64) []float64 {
	if thickness <= 0 {
		return nil
	}
	switch d {
	case settings.DashDashed:
		return []float64{3 * thickness, 2 * thickness}
	case settings.DashDotted:
		return []float64{thickness, 2 * thickness}
	default:
		return nil
	}
}

// PointerSize returns the edge pointer triangle size for cfg.
func PointerSize(cfg settings.RenderConfig) float64 {
	return math.Max(4, 2*cfg.EdgePointerThickness+cfg.CenterRadius/2)
}

func horizontal(c Point, size Size, cfg settings.RenderConfig) []Segment {
	lo, hi := span(c.X, size.W, cfg)
	return split(lo, hi, c.X, cfg.CenterRadius, func(a, b float64) Segment {
		return Segment{A: Point{X: a, Y: c.Y}, B: Point{X: b, Y: c.Y}}
	})
}

func vertical(c Point, size Size, cfg settings.RenderConfig) []Segment {
	lo, hi := span(c.Y, size.H, cfg)
	return split(lo, hi, c.Y, cfg.CenterRadius, func(a, b float64) Segment {
		return Segment{A: Point{X: c.X, Y: a}, B: Point{X: c.X, Y: b}}
	})
}

// span returns the extent of a line on one axis: the whole surface, or
// FixedLength centered on pos and clamped to [0, extent].
func span(pos, extent float64, cfg settings.RenderConfig) (float64, float64) {
	if !cfg.UseFixedLength {
		return 0, extent
	}
	half := cfg.FixedLength / 2
	return math.Max(0, pos-half), math.Min(extent, pos+half)
}

func split(lo, hi, pos, gap float64, mk func(a, b float64) Segment) []Segment {
	var out []Segment
	if end := math.Min(hi, pos-gap); end > lo {
		out = append(out, mk(lo, end))
	}
	if start := math.Max(lo, pos+gap); hi > start {
		out = append(out, mk(start, hi))
	}
	return out
}

func edgePointers(c Point, size Size, cfg settings.RenderConfig) []Triangle {
	s := PointerSize(cfg)
	half := s / 2
	limit := pointerClearance * s

	var out []Triangle
	if c.Y >= limit {
		out = append(out, Triangle{
			Edge: EdgeTop,
			A:    Point{X: c.X - half, Y: 0},
			B:    Point{X: c.X + half, Y: 0},
			Apex: Point{X: c.X, Y: s},
		})
	}
	if size.H-c.Y >= limit {
		out = append(out, Triangle{
			Edge: EdgeBottom,
			A:    Point{X: c.X - half, Y: size.H},
			B:    Point{X: c.X + half, Y: size.H},
			Apex: Point{X: c.X, Y: size.H - s},
		})
	}
	if c.X >= limit {
		out = append(out, Triangle{
			Edge: EdgeLeft,
			A:    Point{X: 0, Y: c.Y - half},
			B:    Point{X: 0, Y: c.Y + half},
			Apex: Point{X: s, Y: c.Y},
		})
	}
	if size.W-c.X >= limit {
		out = append(out, Triangle{
			Edge: EdgeRight,
			A:    Point{X: size.W, Y: c.Y - half},
			B:    Point{X: size.W, Y: c.Y + half},
			Apex: Point{X: size.W - s, Y: c.Y},
		})
	}
	return out
}
