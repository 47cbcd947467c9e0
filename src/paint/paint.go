// Package paint rasterizes a geometry.Scene into an RGBA frame.
package paint

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"

	"cursor-guide/src/geometry"
	"cursor-guide/src/settings"
)

// Painter draws scenes into a reusable frame buffer. It is not safe for
// concurrent use.
type Painter struct {
	frame *image.RGBA
	dirty image.Rectangle
}

// New returns a Painter with a w×h frame.
func New(w, h int) *Painter {
	return &Painter{frame: image.NewRGBA(image.Rect(0, 0, w, h))}
}

// Frame returns the last painted frame.
func (p *Painter) Frame() *image.RGBA { return p.frame }

// Clear erases everything painted since the last Clear.
func (p *Painter) Clear() {
	if p.dirty.Empty() {
		return
	}
	draw.Draw(p.frame, p.dirty, image.Transparent, image.Point{}, draw.Src)
	p.dirty = image.Rectangle{}
}

// Paint clears the frame and draws scene with the colors of cfg.
func (p *Painter) Paint(scene geometry.Scene, cfg settings.RenderConfig) *image.RGBA {
	p.Clear()
	c := canvas{dst: p.frame}

	if ci := scene.Circle; ci != nil && ci.Fill {
		fill := cfg.CircleFillColor
		fill.A *= cfg.CircleFillOpacity
		c.fill([][]geometry.Point{circle(ci.Center, ci.Radius)}, fill)
	}

	if bw := scene.Stroke.BorderWidth; bw > 0 {
		c.strokeAll(scene, bw, scene.Dash, cfg.BorderColor)
		for _, tr := range scene.Triangles {
			edges := []geometry.Segment{{A: tr.A, B: tr.Apex}, {A: tr.Apex, B: tr.B}, {A: tr.B, B: tr.A}}
			for _, e := range edges {
				c.fill(quad(e, bw-scene.Stroke.Width), cfg.BorderColor)
			}
		}
	}

	if scene.Stroke.Width > 0 {
		c.strokeAll(scene, scene.Stroke.Width, scene.Dash, cfg.MarkerColor)
	}
	for _, tr := range scene.Triangles {
		c.fill([][]geometry.Point{{tr.A, tr.Apex, tr.B}}, cfg.MarkerColor)
	}

	if cfg.Opacity < 1 {
		scaleAlpha(p.frame, c.dirty, cfg.Opacity)
	}
	p.dirty = c.dirty
	return p.frame
}

// Render paints scene into a new w×h frame.
func Render(scene geometry.Scene, cfg settings.RenderConfig, w, h int) *image.RGBA {
	return New(w, h).Paint(scene, cfg)
}

type canvas struct {
	dst   *image.RGBA
	dirty image.Rectangle
}

func (c *canvas) strokeAll(scene geometry.Scene, width float64, dash []float64, col settings.Color) {
	for _, s := range scene.Segments {
		for _, piece := range dashSegment(s, dash) {
			c.fill(quad(piece, width), col)
		}
	}
	if ci := scene.Circle; ci != nil && width > 0 {
		for _, arc := range dashCircle(ci.Radius, dash) {
			c.fill(ring(ci.Center, ci.Radius, width, arc[0], arc[1]), col)
		}
	}
}

// fill rasterizes contours inside their own bounding box.
func (c *canvas) fill(contours [][]geometry.Point, col settings.Color) {
	if col.A <= 0 {
		return
	}
	box := bounds(contours).Intersect(c.dst.Bounds())
	if box.Empty() {
		return
	}
	w, h := box.Dx(), box.Dy()
	z := vector.NewRasterizer(w, h)
	z.DrawOp = draw.Over
	ox, oy := float64(box.Min.X), float64(box.Min.Y)
	drew := false
	for _, ct := range contours {
		local := make([]geometry.Point, len(ct))
		for i, pt := range ct {
			local[i] = geometry.Point{X: pt.X - ox, Y: pt.Y - oy}
		}
		local = clipPolygon(local, float64(w), float64(h))
		if len(local) < 3 {
			continue
		}
		z.MoveTo(float32(local[0].X), float32(local[0].Y))
		for _, pt := range local[1:] {
			z.LineTo(float32(pt.X), float32(pt.Y))
		}
		z.ClosePath()
		drew = true
	}
	if !drew {
		return
	}
	z.Draw(c.dst, box, image.NewUniform(toNRGBA(col)), image.Point{})
	c.dirty = c.dirty.Union(box)
}

func toNRGBA(c settings.Color) color.NRGBA {
	return color.NRGBA{R: unit8(c.R), G: unit8(c.G), B: unit8(c.B), A: unit8(c.A)}
}

func unit8(v float64) uint8 {
	return uint8(math.Max(0, math.Min(1, v))*255 + 0.5)
}

func bounds(contours [][]geometry.Point) image.Rectangle {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, ct := range contours {
		for _, p := range ct {
			minX, minY = math.Min(minX, p.X), math.Min(minY, p.Y)
			maxX, maxY = math.Max(maxX, p.X), math.Max(maxY, p.Y)
		}
	}
	if minX > maxX {
		return image.Rectangle{}
	}
	return image.Rect(int(math.Floor(minX)), int(math.Floor(minY)), int(math.Ceil(maxX)), int(math.Ceil(maxY)))
}

// scaleAlpha multiplies the premultiplied pixels inside r by f.
func scaleAlpha(img *image.RGBA, r image.Rectangle, f float64) {
	r = r.Intersect(img.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := img.Pix[img.PixOffset(r.Min.X, y):img.PixOffset(r.Max.X, y)]
		for i := range row {
			row[i] = uint8(float64(row[i])*f + 0.5)
		}
	}
}
