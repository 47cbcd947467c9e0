package settings

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Style selects the marker geometry.
type Style string

const (
	StyleHorizontal   Style = "horizontal"
	StyleVertical     Style = "vertical"
	StyleBoth         Style = "both"
	StyleReadingLine  Style = "reading-line"
	StyleEdgePointers Style = "edge-pointers"
	StyleCircle       Style = "circle"
)

// ParseStyle maps a settings value to a Style, falling back to StyleBoth.
func ParseStyle(s string) Style {
	switch Style(strings.ToLower(strings.TrimSpace(s))) {
	case StyleHorizontal:
		return StyleHorizontal
	case StyleVertical:
		return StyleVertical
	case StyleReadingLine, "reading", "readingline":
		return StyleReadingLine
	case StyleEdgePointers, "edges", "pointers":
		return StyleEdgePointers
	case StyleCircle:
		return StyleCircle
	default:
		return StyleBoth
	}
}

// Dash is the line dash pattern.
type Dash string

const (
	DashSolid  Dash = "solid"
	DashDashed Dash = "dashed"
	DashDotted Dash = "dotted"
)

// ParseDash maps a settings value to a Dash, falling back to DashSolid.
func ParseDash(s string) Dash {
	switch Dash(strings.ToLower(strings.TrimSpace(s))) {
	case DashDashed:
		return DashDashed
	case DashDotted:
		return DashDotted
	default:
		return DashSolid
	}
}

// Color is a straight (non-premultiplied) RGBA color with components in [0,1].
type Color struct {
	R, G, B, A float64
}

var (
	White = Color{R: 1, G: 1, B: 1, A: 1}
	Black = Color{A: 1}
	// AlertRed is forced on the marker when full access is not granted.
	AlertRed = Color{R: 1, A: 1}
)

// ParseColor parses #RGB, #RRGGBB or #RRGGBBAA.
func ParseColor(s string) (Color, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) == 6 {
		h += "ff"
	}
	if len(h) != 8 {
		return Color{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return Color{
		R: float64(v>>24&0xff) / 255,
		G: float64(v>>16&0xff) / 255,
		B: float64(v>>8&0xff) / 255,
		A: float64(v&0xff) / 255,
	}, nil
}

// Hex formats the color as #RRGGBBAA.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x%02x", to8(c.R), to8(c.G), to8(c.B), to8(c.A))
}

func to8(v float64) uint8 {
	return uint8(clamp(v, 0, 1)*255 + 0.5)
}

// RenderConfig is the read-only snapshot the engine renders from.
type RenderConfig struct {
	Style Style

	Thickness            float64
	CenterRadius         float64
	BorderSize           float64
	UseFixedLength       bool
	FixedLength          float64
	CircleRadius         float64
	CircleFillOpacity    float64
	EdgePointerThickness float64

	MarkerColor     Color
	BorderColor     Color
	CircleFillColor Color

	Opacity       float64
	Dash          Dash
	AdaptiveColor bool

	Gliding      bool
	GlidingSpeed float64
	GlidingDelay time.Duration

	HideWhileTyping bool
	TypingDelay     time.Duration
}

const (
	MinGlidingSpeed = 0.1
	MaxGlidingSpeed = 2.0

	MinTypingDelay     = 500 * time.Millisecond
	MaxTypingDelay     = 5 * time.Second
	DefaultTypingDelay = 1500 * time.Millisecond
)

// Defaults returns the configuration used when no settings file exists.
func Defaults() RenderConfig {
	return RenderConfig{
		Style:                StyleBoth,
		Thickness:            2,
		CenterRadius:         20,
		BorderSize:           0,
		FixedLength:          400,
		CircleRadius:         40,
		CircleFillOpacity:    0,
		EdgePointerThickness: 6,
		MarkerColor:          Color{R: 1, G: 59.0 / 255, B: 48.0 / 255, A: 1}, // #ff3b30
		BorderColor:          Black,
		CircleFillColor:      Color{R: 1, G: 0.8, B: 0, A: 1},
		Opacity:              0.8,
		Dash:                 DashSolid,
		GlidingSpeed:         0.5,
		GlidingDelay:         0,
		TypingDelay:          DefaultTypingDelay,
	}
}

// Sanitize clamps values into their documented ranges. It never fails.
func (c RenderConfig) Sanitize() RenderConfig {
	c.Thickness = nonNegative(c.Thickness)
	c.CenterRadius = nonNegative(c.CenterRadius)
	c.BorderSize = nonNegative(c.BorderSize)
	c.FixedLength = nonNegative(c.FixedLength)
	c.CircleRadius = nonNegative(c.CircleRadius)
	c.CircleFillOpacity = clamp(c.CircleFillOpacity, 0, 1)
	c.EdgePointerThickness = nonNegative(c.EdgePointerThickness)
	c.Opacity = clamp(c.Opacity, 0, 1)
	c.GlidingSpeed = clamp(c.GlidingSpeed, MinGlidingSpeed, MaxGlidingSpeed)
	if c.GlidingDelay < 0 {
		c.GlidingDelay = 0
	}
	if c.TypingDelay == 0 {
		c.TypingDelay = DefaultTypingDelay
	}
	c.TypingDelay = ClampTypingDelay(c.TypingDelay)
	if c.Style == "" {
		c.Style = StyleBoth
	}
	if c.Dash == "" {
		c.Dash = DashSolid
	}
	return c
}

// Restrict returns the configuration the engine may honor for the given
// license state. Without full access the marker is forced to a minimal,
// opaque, alert-colored line with no border and no adaptive color.
func Restrict(c RenderConfig, fullAccess bool) RenderConfig {
	if fullAccess {
		return c
	}
	c.MarkerColor = AlertRed
	c.Thickness = 1
	c.Opacity = 1
	c.BorderSize = 0
	c.AdaptiveColor = false
	return c
}

// ClampTypingDelay keeps d within [MinTypingDelay, MaxTypingDelay].
func ClampTypingDelay(d time.Duration) time.Duration {
	if d < MinTypingDelay {
		return MinTypingDelay
	}
	if d > MaxTypingDelay {
		return MaxTypingDelay
	}
	return d
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
