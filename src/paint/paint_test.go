package paint

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cursor-guide/src/geometry"
	"cursor-guide/src/settings"
)

func baseConfig() settings.RenderConfig {
	cfg := settings.Defaults()
	cfg.MarkerColor = settings.AlertRed
	cfg.BorderColor = settings.Black
	cfg.Opacity = 1
	cfg.Thickness = 2
	cfg.BorderSize = 0
	return cfg
}

func rgba(img *image.RGBA, x, y int) (r, g, b, a int) {
	i := img.PixOffset(x, y)
	return int(img.Pix[i]), int(img.Pix[i+1]), int(img.Pix[i+2]), int(img.Pix[i+3])
}

func alpha(img *image.RGBA, x, y int) int {
	_, _, _, a := rgba(img, x, y)
	return a
}

func paint(cfg settings.RenderConfig, center geometry.Point, w, h int) *image.RGBA {
	scene := geometry.Build(center, geometry.Size{W: float64(w), H: float64(h)}, cfg)
	return Render(scene, cfg, w, h)
}

func TestCrosshairLeavesCenterGap(t *testing.T) {
	cfg := baseConfig()
	cfg.Style = settings.StyleBoth
	cfg.CenterRadius = 10
	img := paint(cfg, geometry.Point{X: 100, Y: 50}, 200, 100)

	r, _, _, a := rgba(img, 20, 49)
	assert.InDelta(t, 255, a, 2)
	assert.InDelta(t, 255, r, 2)
	assert.InDelta(t, 255, alpha(img, 100, 10), 2, "vertical line")
	assert.Zero(t, alpha(img, 100, 49), "center gap")
	assert.Zero(t, alpha(img, 105, 49), "inside gap radius")
	assert.Zero(t, alpha(img, 20, 30), "off the lines")
}

func TestBorderDrawnUnderMarker(t *testing.T) {
	cfg := baseConfig()
	cfg.Style = settings.StyleReadingLine
	cfg.BorderSize = 2
	img := paint(cfg, geometry.Point{X: 100, Y: 50}, 200, 100)

	r, _, _, a := rgba(img, 10, 47)
	assert.InDelta(t, 255, a, 2)
	assert.InDelta(t, 0, r, 2, "border color outside the main stroke")

	r, _, _, a = rgba(img, 10, 49)
	assert.InDelta(t, 255, a, 2)
	assert.InDelta(t, 255, r, 2, "marker on top")

	assert.Zero(t, alpha(img, 10, 45))
}

func TestDashedLine(t *testing.T) {
	cfg := baseConfig()
	cfg.Style = settings.StyleReadingLine
	cfg.Dash = settings.DashDashed
	img := paint(cfg, geometry.Point{X: 100, Y: 50}, 200, 100)

	// Pattern is 6 on, 4 off for thickness 2.
	assert.InDelta(t, 255, alpha(img, 2, 49), 2)
	assert.Zero(t, alpha(img, 7, 49))
	assert.InDelta(t, 255, alpha(img, 12, 49), 2)
}

func TestCircleRingAndFill(t *testing.T) {
	cfg := baseConfig()
	cfg.Style = settings.StyleCircle
	cfg.CircleRadius = 20
	cfg.Thickness = 4
	img := paint(cfg, geometry.Point{X: 50, Y: 50}, 100, 100)

	assert.Greater(t, alpha(img, 70, 50), 200, "on the ring")
	assert.Zero(t, alpha(img, 50, 50), "hollow without fill")
	assert.Zero(t, alpha(img, 90, 90))

	cfg.CircleFillColor = settings.White
	cfg.CircleFillOpacity = 0.5
	img = paint(cfg, geometry.Point{X: 50, Y: 50}, 100, 100)
	assert.InDelta(t, 128, alpha(img, 50, 50), 2)
}

func TestEdgePointersFilled(t *testing.T) {
	cfg := baseConfig()
	cfg.Style = settings.StyleEdgePointers
	cfg.EdgePointerThickness = 6
	cfg.CenterRadius = 20
	img := paint(cfg, geometry.Point{X: 100, Y: 50}, 200, 100)

	assert.InDelta(t, 255, alpha(img, 100, 5), 2, "inside top pointer")
	assert.Zero(t, alpha(img, 80, 5))
	assert.InDelta(t, 255, alpha(img, 5, 50), 2, "inside left pointer")
	assert.Zero(t, alpha(img, 100, 50), "nothing at the cursor")
}

func TestOpacityScalesEverything(t *testing.T) {
	cfg := baseConfig()
	cfg.Style = settings.StyleReadingLine
	cfg.Opacity = 0.5
	img := paint(cfg, geometry.Point{X: 100, Y: 50}, 200, 100)

	r, _, _, a := rgba(img, 20, 49)
	assert.InDelta(t, 128, a, 2)
	assert.InDelta(t, 128, r, 2, "premultiplied")
}

func TestPainterClearsPreviousFrame(t *testing.T) {
	cfg := baseConfig()
	cfg.Style = settings.StyleReadingLine
	p := New(200, 100)
	size := geometry.Size{W: 200, H: 100}

	p.Paint(geometry.Build(geometry.Point{X: 100, Y: 20}, size, cfg), cfg)
	require.NotZero(t, alpha(p.Frame(), 50, 19))

	p.Paint(geometry.Build(geometry.Point{X: 100, Y: 80}, size, cfg), cfg)
	assert.Zero(t, alpha(p.Frame(), 50, 19))
	assert.NotZero(t, alpha(p.Frame(), 50, 79))

	p.Clear()
	assert.Zero(t, alpha(p.Frame(), 50, 79))
}

func TestShapesOutsideFrameAreClipped(t *testing.T) {
	cfg := baseConfig()
	cfg.Style = settings.StyleCircle
	cfg.CircleRadius = 40
	assert.NotPanics(t, func() {
		img := paint(cfg, geometry.Point{X: 0, Y: 0}, 50, 50)
		assert.Greater(t, alpha(img, 39, 0), 0)
	})
	assert.NotPanics(t, func() {
		seg := geometry.Scene{
			Segments: []geometry.Segment{{A: geometry.Point{X: -500, Y: 10}, B: geometry.Point{X: 500, Y: 10}}},
			Stroke:   geometry.Stroke{Width: 2},
		}
		img := Render(seg, cfg, 50, 50)
		assert.NotZero(t, alpha(img, 25, 9))
	})
}

func TestIcon(t *testing.T) {
	img := Icon(32)
	require.Equal(t, image.Rect(0, 0, 32, 32), img.Bounds())
	assert.Zero(t, alpha(img, 16, 16), "open center")
	assert.NotZero(t, alpha(img, 2, 16))
}

func TestDashIntervals(t *testing.T) {
	got := dashIntervals(12, []float64{3, 2})
	assert.Equal(t, [][2]float64{{0, 3}, {5, 8}, {10, 12}}, got)
}

func TestClipPolygon(t *testing.T) {
	square := []geometry.Point{{X: -5, Y: -5}, {X: 5, Y: -5}, {X: 5, Y: 5}, {X: -5, Y: 5}}
	got := clipPolygon(square, 10, 10)
	require.NotEmpty(t, got)
	for _, p := range got {
		assert.GreaterOrEqual(t, p.X, 0.0)
		assert.GreaterOrEqual(t, p.Y, 0.0)
	}
	assert.Nil(t, clipPolygon([]geometry.Point{{X: -3, Y: -3}, {X: -1, Y: -3}, {X: -1, Y: -1}}, 10, 10))
}
