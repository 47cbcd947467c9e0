package runtimeinit

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"cursor-guide/src/clipboard"
	"cursor-guide/src/config"
	"cursor-guide/src/logutil"
)

type Options struct {
	LoadOptions config.LoadOptions
	// Verbose mirrors logs to stderr.
	Verbose bool
	// SkipClipboard leaves the clipboard uninitialized (delegating commands).
	SkipClipboard bool
}

// Bootstrap loads the configuration and sets up logging. A clipboard that
// cannot be initialized only disables "copy cursor position".
func Bootstrap(opts Options) (*config.Config, error) {
	cfg, err := config.LoadWithOptions(opts.LoadOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logutil.Setup(logutil.Options{
		File:    cfg.EnableFileLogging,
		Level:   cfg.LogLevel,
		Verbose: opts.Verbose,
	})
	log.Info().
		Str("hotkey", cfg.Hotkey).
		Str("settings", cfg.SettingsFile).
		Int("refresh_hz", cfg.RefreshHz).
		Msg("configuration loaded")

	if !opts.SkipClipboard {
		if err := clipboard.Init(); err != nil {
			log.Warn().Err(err).Msg("clipboard unavailable")
		}
	}

	return cfg, nil
}
