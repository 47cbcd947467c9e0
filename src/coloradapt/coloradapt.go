// Package coloradapt picks marker colors from the brightness under the cursor.
//
// Brightness is classified with two thresholds so that a background hovering
// around a single cutoff does not make the marker flicker between tones.
package coloradapt

import (
	"errors"
	"image"

	"cursor-guide/src/settings"
)

const (
	// SampleSize is the edge of the square sampled around the cursor, in pixels.
	SampleSize = 20

	// DarkAbove commits to a dark marker when brightness exceeds it.
	DarkAbove = 0.6
	// LightBelow commits to a light marker when brightness drops under it.
	LightBelow = 0.4
)

// ErrNoSample is returned by samplers that have nothing to report yet.
var ErrNoSample = errors.New("coloradapt: no sample available")

// RGB is an averaged color with components in [0,1].
type RGB struct {
	R, G, B float64
}

// Neutral is used whenever sampling fails. Its luma sits inside the dead
// zone so the previous tone is kept.
var Neutral = RGB{R: 0.5, G: 0.5, B: 0.5}

// Sampler returns the average color of a screen rectangle given in native
// screen coordinates.
type Sampler interface {
	Sample(rect image.Rectangle) (RGB, error)
}

// Luma returns the perceptual brightness of c.
func Luma(c RGB) float64 {
	return 0.299*c.R + 0.587*c.G + 0.114*c.B
}

// Tone is the marker tone currently committed to.
type Tone int

const (
	// ToneLight draws a light marker, for dark backgrounds.
	ToneLight Tone = iota
	// ToneDark draws a dark marker, for light backgrounds.
	ToneDark
)

func (t Tone) String() string {
	if t == ToneDark {
		return "dark"
	}
	return "light"
}

// Adapter holds the hysteresis state of one overlay surface.
type Adapter struct {
	usingLight bool
}

// New returns an Adapter in the initial light state.
func New() *Adapter {
	return &Adapter{usingLight: true}
}

// Tone returns the current state without sampling.
func (a *Adapter) Tone() Tone {
	if a.usingLight {
		return ToneLight
	}
	return ToneDark
}

// Classify feeds one brightness value into the state machine and returns
// the resulting tone.
func (a *Adapter) Classify(brightness float64) Tone {
	switch {
	case brightness > DarkAbove:
		a.usingLight = false
	case brightness < LightBelow:
		a.usingLight = true
	}
	return a.Tone()
}

// SampleRect returns the SampleSize square centered on (x, y).
func SampleRect(x, y int) image.Rectangle {
	half := SampleSize / 2
	return image.Rect(x-half, y-half, x-half+SampleSize, y-half+SampleSize)
}

// Apply returns cfg with colors chosen for the background under rect. When
// adaptive color is off cfg is returned untouched and nothing is sampled.
// A failed sample falls back to Neutral; the sampler is called at most once.
func (a *Adapter) Apply(cfg settings.RenderConfig, sampler Sampler, rect image.Rectangle) settings.RenderConfig {
	if !cfg.AdaptiveColor {
		return cfg
	}

	c := Neutral
	if sampler != nil {
		if s, err := sampler.Sample(rect); err == nil {
			c = s
		}
	}

	marker, border := settings.White, settings.Black
	if a.Classify(Luma(c)) == ToneDark {
		marker, border = settings.Black, settings.White
	}
	cfg.MarkerColor = marker
	cfg.BorderColor = border
	cfg.CircleFillColor = marker
	if cfg.BorderSize < 1 {
		cfg.BorderSize = 1
	}
	return cfg
}
