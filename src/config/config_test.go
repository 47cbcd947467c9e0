package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cursor-guide/src/settings"
)

func TestLoad(t *testing.T) {
	t.Setenv("ENABLE_FILE_LOGGING", "true")
	t.Setenv("HOTKEY", "Ctrl+Shift+T")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("FULL_ACCESS", "false")
	t.Setenv("REFRESH_HZ", "120")
	t.Setenv("DISPLAY_POLL_MS", "500")
	t.Setenv("START_VISIBLE", "0")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Failed to load configuration: %v", err)
	}

	if !cfg.EnableFileLogging {
		t.Errorf("Expected EnableFileLogging to be true, got %v", cfg.EnableFileLogging)
	}
	if cfg.Hotkey != "Ctrl+Shift+T" {
		t.Errorf("Expected Hotkey to be 'Ctrl+Shift+T', got '%s'", cfg.Hotkey)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("Expected LogLevel to be 'debug', got '%s'", cfg.LogLevel)
	}
	if cfg.FullAccess {
		t.Errorf("Expected FullAccess to be false")
	}
	if cfg.RefreshInterval() != time.Second/120 {
		t.Errorf("Expected 120 Hz refresh, got %v", cfg.RefreshInterval())
	}
	if cfg.DisplayPoll != 500*time.Millisecond {
		t.Errorf("Expected DisplayPoll 500ms, got %v", cfg.DisplayPoll)
	}
	if cfg.StartVisible {
		t.Errorf("Expected StartVisible to be false")
	}
}

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"ENABLE_FILE_LOGGING", "HOTKEY", "LOG_LEVEL", "FULL_ACCESS", "REFRESH_HZ", "DISPLAY_POLL_MS", "START_VISIBLE", SettingsFileEnvVar} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.EnableFileLogging)
	assert.Equal(t, DefaultHotkey, cfg.Hotkey)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.FullAccess)
	assert.Equal(t, 60, cfg.RefreshHz)
	assert.Equal(t, 2*time.Second, cfg.DisplayPoll)
	assert.True(t, cfg.StartVisible)
	assert.Equal(t, DefaultSettingsFile, filepath.Base(cfg.SettingsFile))
	assert.True(t, filepath.IsAbs(cfg.SettingsFile))
}

func TestLoadWithOptionsOverrides(t *testing.T) {
	t.Setenv("HOTKEY", "Ctrl+Alt+X")
	abs := filepath.Join(t.TempDir(), "guide.yaml")

	cfg, err := LoadWithOptions(LoadOptions{SettingsFileOverride: abs, HotkeyOverride: "Alt+F9"})
	require.NoError(t, err)

	assert.Equal(t, abs, cfg.SettingsFile)
	assert.Equal(t, "Alt+F9", cfg.Hotkey)
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestLoadSettingsMissingFileGivesDefaults(t *testing.T) {
	s, err := LoadSettings(filepath.Join(t.TempDir(), "absent.yaml"), true)

	require.NoError(t, err)
	assert.Equal(t, settings.Defaults().Sanitize(), s.Render)
	assert.True(t, s.FullAccess)
}

func TestLoadSettingsReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cursor-guide.yaml")
	writeFile(t, path, `
style: circle
thickness: 3
circleRadius: 55
circleFillOpacity: 0.25
markerColor: "#00ff00"
opacity: 0.6
dash: dotted
adaptiveColor: true
gliding:
  enabled: true
  speed: 1.2
  delay: 250ms
typing:
  hide: true
  delay: 2s
license:
  fullAccess: false
`)

	s, err := LoadSettings(path, true)
	require.NoError(t, err)

	r := s.Render
	assert.Equal(t, settings.StyleCircle, r.Style)
	assert.Equal(t, 3.0, r.Thickness)
	assert.Equal(t, 55.0, r.CircleRadius)
	assert.Equal(t, 0.25, r.CircleFillOpacity)
	assert.Equal(t, settings.Color{G: 1, A: 1}, r.MarkerColor)
	assert.Equal(t, 0.6, r.Opacity)
	assert.Equal(t, settings.DashDotted, r.Dash)
	assert.True(t, r.AdaptiveColor)
	assert.True(t, r.Gliding)
	assert.Equal(t, 1.2, r.GlidingSpeed)
	assert.Equal(t, 250*time.Millisecond, r.GlidingDelay)
	assert.True(t, r.HideWhileTyping)
	assert.Equal(t, 2*time.Second, r.TypingDelay)
	assert.False(t, s.FullAccess)
	assert.Equal(t, settings.Defaults().CenterRadius, r.CenterRadius, "unset keys keep defaults")
}

func TestLoadSettingsBadValuesFallBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cursor-guide.yaml")
	writeFile(t, path, `
markerColor: "not a color"
opacity: 7
typing:
  delay: 30s
`)

	s, err := LoadSettings(path, true)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "markerColor")
	assert.Equal(t, settings.Defaults().MarkerColor, s.Render.MarkerColor)
	assert.Equal(t, 1.0, s.Render.Opacity)
	assert.Equal(t, settings.MaxTypingDelay, s.Render.TypingDelay)
}

func TestLoadSettingsUnparsableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cursor-guide.yaml")
	writeFile(t, path, "style: [unterminated\n")

	s, err := LoadSettings(path, false)

	require.Error(t, err)
	assert.Equal(t, settings.Defaults().Sanitize(), s.Render)
	assert.False(t, s.FullAccess)
}

func TestWatchSettingsDeliversChanges(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cursor-guide.yaml")
	writeFile(t, path, "thickness: 2\n")

	got := make(chan Settings, 8)
	WatchSettings(path, true, func(s Settings, err error) {
		if err == nil {
			got <- s
		}
	})

	writeFile(t, path, "thickness: 9\n")

	deadline := time.After(5 * time.Second)
	for {
		select {
		case s := <-got:
			if s.Render.Thickness == 9 {
				return
			}
		case <-deadline:
			t.Skip("no file change notification (filesystem without inotify support?)")
		}
	}
}
