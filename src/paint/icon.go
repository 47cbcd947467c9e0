package paint

import (
	"image"

	"cursor-guide/src/geometry"
	"cursor-guide/src/settings"
)

// Icon draws the application icon: a crosshair with an open center in the
// default marker color on a transparent background.
func Icon(size int) *image.RGBA {
	cfg := settings.Defaults()
	s := float64(size)
	cfg.Style = settings.StyleBoth
	cfg.Thickness = s / 8
	cfg.CenterRadius = s / 6
	cfg.BorderSize = s / 32
	cfg.Opacity = 1
	scene := geometry.Build(geometry.Point{X: s / 2, Y: s / 2}, geometry.Size{W: s, H: s}, cfg)
	return Render(scene, cfg, size, size)
}
