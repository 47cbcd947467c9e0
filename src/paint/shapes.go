package paint

import (
	"math"

	"cursor-guide/src/geometry"
)

const fullTurn = 2 * math.Pi

// quad returns the butt-capped rectangle covering s stroked at width w.
func quad(s geometry.Segment, w float64) [][]geometry.Point {
	dx, dy := s.B.X-s.A.X, s.B.Y-s.A.Y
	l := math.Hypot(dx, dy)
	if l == 0 || w <= 0 {
		return nil
	}
	nx, ny := -dy/l*w/2, dx/l*w/2
	return [][]geometry.Point{{
		{X: s.A.X + nx, Y: s.A.Y + ny},
		{X: s.B.X + nx, Y: s.B.Y + ny},
		{X: s.B.X - nx, Y: s.B.Y - ny},
		{X: s.A.X - nx, Y: s.A.Y - ny},
	}}
}

func arcSteps(r, sweep float64) int {
	n := int(math.Ceil(r * sweep / 2))
	if n < 8 {
		n = 8
	}
	return n
}

func arc(c geometry.Point, r, from, to float64) []geometry.Point {
	n := arcSteps(r, math.Abs(to-from))
	out := make([]geometry.Point, 0, n+1)
	for i := 0; i <= n; i++ {
		a := from + (to-from)*float64(i)/float64(n)
		out = append(out, geometry.Point{X: c.X + r*math.Cos(a), Y: c.Y + r*math.Sin(a)})
	}
	return out
}

// circle returns a closed polygon approximating a disc.
func circle(c geometry.Point, r float64) []geometry.Point {
	pts := arc(c, r, 0, fullTurn)
	return pts[:len(pts)-1]
}

// ring returns the contours of an annulus sector of radius r stroked at
// width w between angles from and to.
func ring(c geometry.Point, r, w, from, to float64) [][]geometry.Point {
	outer := r + w/2
	inner := math.Max(0, r-w/2)
	if to-from >= fullTurn {
		o := circle(c, outer)
		if inner == 0 {
			return [][]geometry.Point{o}
		}
		// The reversed inner contour cancels the outer winding, leaving a hole.
		i := arc(c, inner, fullTurn, 0)
		return [][]geometry.Point{o, i[:len(i)-1]}
	}
	pts := arc(c, outer, from, to)
	if inner == 0 {
		pts = append(pts, c)
	} else {
		pts = append(pts, arc(c, inner, to, from)...)
	}
	return [][]geometry.Point{pts}
}

// dashSegment splits s into its visible pieces. A nil pattern keeps s whole.
func dashSegment(s geometry.Segment, pattern []float64) []geometry.Segment {
	l := s.A.Dist(s.B)
	if len(pattern) < 2 || l == 0 {
		return []geometry.Segment{s}
	}
	at := func(d float64) geometry.Point {
		f := d / l
		return geometry.Point{X: s.A.X + (s.B.X-s.A.X)*f, Y: s.A.Y + (s.B.Y-s.A.Y)*f}
	}
	var out []geometry.Segment
	for _, iv := range dashIntervals(l, pattern) {
		out = append(out, geometry.Segment{A: at(iv[0]), B: at(iv[1])})
	}
	return out
}

// dashCircle returns the visible angle ranges of a circle of radius r.
func dashCircle(r float64, pattern []float64) [][2]float64 {
	if len(pattern) < 2 || r <= 0 {
		return [][2]float64{{0, fullTurn}}
	}
	var out [][2]float64
	for _, iv := range dashIntervals(fullTurn*r, pattern) {
		out = append(out, [2]float64{iv[0] / r, iv[1] / r})
	}
	return out
}

func dashIntervals(length float64, pattern []float64) [][2]float64 {
	period := 0.0
	for _, v := range pattern {
		period += v
	}
	if period <= 0 {
		return [][2]float64{{0, length}}
	}
	var out [][2]float64
	pos := 0.0
	for i := 0; pos < length; i = (i + 1) % len(pattern) {
		end := math.Min(length, pos+pattern[i])
		if i%2 == 0 && end > pos {
			out = append(out, [2]float64{pos, end})
		}
		pos += pattern[i]
	}
	return out
}

// clipPolygon clips a closed polygon to [0,w]×[0,h] (Sutherland-Hodgman).
func clipPolygon(pts []geometry.Point, w, h float64) []geometry.Point {
	type plane struct {
		inside func(geometry.Point) bool
		cross  func(a, b geometry.Point) geometry.Point
	}
	lerpX := func(a, b geometry.Point, x float64) geometry.Point {
		return geometry.Point{X: x, Y: a.Y + (b.Y-a.Y)*(x-a.X)/(b.X-a.X)}
	}
	lerpY := func(a, b geometry.Point, y float64) geometry.Point {
		return geometry.Point{X: a.X + (b.X-a.X)*(y-a.Y)/(b.Y-a.Y), Y: y}
	}
	planes := []plane{
		{func(p geometry.Point) bool { return p.X >= 0 }, func(a, b geometry.Point) geometry.Point { return lerpX(a, b, 0) }},
		{func(p geometry.Point) bool { return p.X <= w }, func(a, b geometry.Point) geometry.Point { return lerpX(a, b, w) }},
		{func(p geometry.Point) bool { return p.Y >= 0 }, func(a, b geometry.Point) geometry.Point { return lerpY(a, b, 0) }},
		{func(p geometry.Point) bool { return p.Y <= h }, func(a, b geometry.Point) geometry.Point { return lerpY(a, b, h) }},
	}
	for _, pl := range planes {
		if len(pts) == 0 {
			return nil
		}
		in := pts
		pts = make([]geometry.Point, 0, len(in)+4)
		prev := in[len(in)-1]
		for _, cur := range in {
			switch {
			case pl.inside(cur) && pl.inside(prev):
				pts = append(pts, cur)
			case pl.inside(cur):
				pts = append(pts, pl.cross(prev, cur), cur)
			case pl.inside(prev):
				pts = append(pts, pl.cross(prev, cur))
			}
			prev = cur
		}
	}
	return pts
}
