package screenshot

import (
	"fmt"
	"image"

	"github.com/kbinani/screenshot"

	"cursor-guide/src/coloradapt"
)

// virtualBounds returns the union of all active display rectangles.
func virtualBounds() (image.Rectangle, error) {
	n := screenshot.NumActiveDisplays()
	if n == 0 {
		return image.Rectangle{}, fmt.Errorf("no active displays found")
	}
	union := screenshot.GetDisplayBounds(0)
	for i := 1; i < n; i++ {
		union = union.Union(screenshot.GetDisplayBounds(i))
	}
	return union, nil
}

// SampleAverage captures rect (native screen coordinates) and returns its
// average color. The part of rect outside every display is ignored.
func SampleAverage(rect image.Rectangle) (coloradapt.RGB, error) {
	union, err := virtualBounds()
	if err != nil {
		return coloradapt.RGB{}, err
	}
	r := rect.Intersect(union)
	if r.Empty() {
		return coloradapt.RGB{}, fmt.Errorf("sample %v outside the desktop: %w", rect, coloradapt.ErrNoSample)
	}
	img, err := screenshot.CaptureRect(r)
	if err != nil {
		return coloradapt.RGB{}, fmt.Errorf("failed to capture region: %w", err)
	}
	return averageRGB(img), nil
}

// averageRGB returns the mean color of img. Captures are opaque, so alpha is
// ignored.
func averageRGB(img *image.RGBA) coloradapt.RGB {
	b := img.Bounds()
	n := b.Dx() * b.Dy()
	if n == 0 {
		return coloradapt.Neutral
	}
	var r, g, bl uint64
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y):img.PixOffset(b.Max.X, y)]
		for i := 0; i < len(row); i += 4 {
			r += uint64(row[i])
			g += uint64(row[i+1])
			bl += uint64(row[i+2])
		}
	}
	d := float64(n) * 255
	return coloradapt.RGB{R: float64(r) / d, G: float64(g) / d, B: float64(bl) / d}
}
