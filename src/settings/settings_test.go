package settings

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRestrictWithoutFullAccess(t *testing.T) {
	cfg := Defaults()
	cfg.Thickness = 9
	cfg.Opacity = 0.3
	cfg.BorderSize = 4
	cfg.AdaptiveColor = true
	cfg.Style = StyleCircle

	got := Restrict(cfg, false)

	assert.Equal(t, AlertRed, got.MarkerColor)
	assert.Equal(t, 1.0, got.Thickness)
	assert.Equal(t, 1.0, got.Opacity)
	assert.Equal(t, 0.0, got.BorderSize)
	assert.False(t, got.AdaptiveColor)
	assert.Equal(t, StyleCircle, got.Style, "style is not restricted")
}

func TestRestrictWithFullAccessIsIdentity(t *testing.T) {
	cfg := Defaults()
	cfg.AdaptiveColor = true
	assert.Equal(t, cfg, Restrict(cfg, true))
}

func TestSanitizeClampsOutOfRangeValues(t *testing.T) {
	cfg := Defaults()
	cfg.Thickness = -3
	cfg.BorderSize = -1
	cfg.Opacity = 2
	cfg.GlidingSpeed = 50
	cfg.TypingDelay = 10 * time.Second
	cfg.CircleFillOpacity = -0.5

	got := cfg.Sanitize()

	assert.Equal(t, 0.0, got.Thickness)
	assert.Equal(t, 0.0, got.BorderSize)
	assert.Equal(t, 1.0, got.Opacity)
	assert.Equal(t, MaxGlidingSpeed, got.GlidingSpeed)
	assert.Equal(t, MaxTypingDelay, got.TypingDelay)
	assert.Equal(t, 0.0, got.CircleFillOpacity)
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want Color
	}{
		{"#ffffff", White},
		{"000", Black},
		{"#ff000080", Color{R: 1, A: 128.0 / 255}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			require.NoError(t, err)
			assert.InDelta(t, tt.want.R, got.R, 1e-9)
			assert.InDelta(t, tt.want.G, got.G, 1e-9)
			assert.InDelta(t, tt.want.B, got.B, 1e-9)
			assert.InDelta(t, tt.want.A, got.A, 1e-9)
		})
	}

	_, err := ParseColor("#12")
	assert.Error(t, err)
	_, err = ParseColor("#zzzzzz")
	assert.Error(t, err)
}

func TestColorHexRoundTrip(t *testing.T) {
	c, err := ParseColor("#1a2b3c4d")
	require.NoError(t, err)
	assert.Equal(t, "#1a2b3c4d", c.Hex())
}

func TestParseStyleAndDash(t *testing.T) {
	assert.Equal(t, StyleReadingLine, ParseStyle("Reading-Line"))
	assert.Equal(t, StyleEdgePointers, ParseStyle("edges"))
	assert.Equal(t, StyleBoth, ParseStyle("nonsense"))
	assert.Equal(t, DashDotted, ParseDash("DOTTED"))
	assert.Equal(t, DashSolid, ParseDash(""))
}
