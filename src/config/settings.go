package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"cursor-guide/src/settings"
)

// Settings is one snapshot of the settings file.
type Settings struct {
	Render     settings.RenderConfig
	FullAccess bool
}

// Settings file keys.
const (
	keyStyle                = "style"
	keyThickness            = "thickness"
	keyCenterRadius         = "centerRadius"
	keyBorderSize           = "borderSize"
	keyUseFixedLength       = "useFixedLength"
	keyFixedLength          = "fixedLength"
	keyCircleRadius         = "circleRadius"
	keyCircleFillOpacity    = "circleFillOpacity"
	keyEdgePointerThickness = "edgePointerThickness"
	keyMarkerColor          = "markerColor"
	keyBorderColor          = "borderColor"
	keyCircleFillColor      = "circleFillColor"
	keyOpacity              = "opacity"
	keyDash                 = "dash"
	keyAdaptiveColor        = "adaptiveColor"
	keyGliding              = "gliding.enabled"
	keyGlidingSpeed         = "gliding.speed"
	keyGlidingDelay         = "gliding.delay"
	keyHideWhileTyping      = "typing.hide"
	keyTypingDelay          = "typing.delay"
	keyFullAccess           = "license.fullAccess"
)

func newViper(path string, fullAccess bool) *viper.Viper {
	d := settings.Defaults()
	v := viper.New()
	v.SetConfigFile(path)
	if filepath.Ext(path) == "" {
		v.SetConfigType("yaml")
	}

	v.SetDefault(keyStyle, string(d.Style))
	v.SetDefault(keyThickness, d.Thickness)
	v.SetDefault(keyCenterRadius, d.CenterRadius)
	v.SetDefault(keyBorderSize, d.BorderSize)
	v.SetDefault(keyUseFixedLength, d.UseFixedLength)
	v.SetDefault(keyFixedLength, d.FixedLength)
	v.SetDefault(keyCircleRadius, d.CircleRadius)
	v.SetDefault(keyCircleFillOpacity, d.CircleFillOpacity)
	v.SetDefault(keyEdgePointerThickness, d.EdgePointerThickness)
	v.SetDefault(keyMarkerColor, d.MarkerColor.Hex())
	v.SetDefault(keyBorderColor, d.BorderColor.Hex())
	v.SetDefault(keyCircleFillColor, d.CircleFillColor.Hex())
	v.SetDefault(keyOpacity, d.Opacity)
	v.SetDefault(keyDash, string(d.Dash))
	v.SetDefault(keyAdaptiveColor, d.AdaptiveColor)
	v.SetDefault(keyGliding, d.Gliding)
	v.SetDefault(keyGlidingSpeed, d.GlidingSpeed)
	v.SetDefault(keyGlidingDelay, d.GlidingDelay)
	v.SetDefault(keyHideWhileTyping, d.HideWhileTyping)
	v.SetDefault(keyTypingDelay, d.TypingDelay)
	v.SetDefault(keyFullAccess, fullAccess)
	return v
}

// LoadSettings reads the settings file at path. The returned snapshot is
// always usable: a missing file yields the defaults with a nil error, while an
// unreadable file or bad values yield defaults for the affected keys and a
// non-nil error describing what was ignored. fullAccess is the gate value used
// when the file does not set license.fullAccess.
func LoadSettings(path string, fullAccess bool) (Settings, error) {
	v := newViper(path, fullAccess)
	var errs []error
	if err := v.ReadInConfig(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, fmt.Errorf("read settings %s: %w", path, err))
		}
	}
	s, err := decode(v)
	if err != nil {
		errs = append(errs, err)
	}
	return s, errors.Join(errs...)
}

func decode(v *viper.Viper) (Settings, error) {
	d := settings.Defaults()
	var errs []error
	color := func(key string, def settings.Color) settings.Color {
		c, err := settings.ParseColor(v.GetString(key))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			return def
		}
		return c
	}

	cfg := settings.RenderConfig{
		Style:                settings.ParseStyle(v.GetString(keyStyle)),
		Thickness:            v.GetFloat64(keyThickness),
		CenterRadius:         v.GetFloat64(keyCenterRadius),
		BorderSize:           v.GetFloat64(keyBorderSize),
		UseFixedLength:       v.GetBool(keyUseFixedLength),
		FixedLength:          v.GetFloat64(keyFixedLength),
		CircleRadius:         v.GetFloat64(keyCircleRadius),
		CircleFillOpacity:    v.GetFloat64(keyCircleFillOpacity),
		EdgePointerThickness: v.GetFloat64(keyEdgePointerThickness),
		MarkerColor:          color(keyMarkerColor, d.MarkerColor),
		BorderColor:          color(keyBorderColor, d.BorderColor),
		CircleFillColor:      color(keyCircleFillColor, d.CircleFillColor),
		Opacity:              v.GetFloat64(keyOpacity),
		Dash:                 settings.ParseDash(v.GetString(keyDash)),
		AdaptiveColor:        v.GetBool(keyAdaptiveColor),
		Gliding:              v.GetBool(keyGliding),
		GlidingSpeed:         v.GetFloat64(keyGlidingSpeed),
		GlidingDelay:         v.GetDuration(keyGlidingDelay),
		HideWhileTyping:      v.GetBool(keyHideWhileTyping),
		TypingDelay:          v.GetDuration(keyTypingDelay),
	}
	return Settings{Render: cfg.Sanitize(), FullAccess: v.GetBool(keyFullAccess)}, errors.Join(errs...)
}

// WatchSettings calls fn with a fresh snapshot whenever the file at path is
// written or created. fn runs on the watcher goroutine. Watching lasts for
// the life of the process.
func WatchSettings(path string, fullAccess bool, fn func(Settings, error)) {
	v := newViper(path, fullAccess)
	var last time.Time
	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		// Editors often emit several events per save.
		if time.Since(last) < 50*time.Millisecond {
			return
		}
		last = time.Now()
		log.Info().Str("file", e.Name).Msg("settings file changed")
		fn(LoadSettings(path, fullAccess))
	})
	v.WatchConfig()
}
