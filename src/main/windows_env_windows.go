//go:build windows

package main

import (
	"github.com/rs/zerolog/log"
	"golang.org/x/sys/windows"
)

var (
	shcore = windows.NewLazySystemDLL("Shcore.dll")
	user32 = windows.NewLazySystemDLL("user32.dll")
)

// enableDPIAwareness sets per-monitor DPI awareness so overlay windows map
// one-to-one onto physical pixels.
func enableDPIAwareness() {
	setProcessDpiAwareness := shcore.NewProc("SetProcessDpiAwareness")
	const processPerMonitorDPIAware = 2
	if err := setProcessDpiAwareness.Find(); err == nil {
		ret, _, _ := setProcessDpiAwareness.Call(uintptr(processPerMonitorDPIAware))
		if ret == 0 {
			log.Info().Msg("DPI: per-monitor awareness set")
		} else {
			log.Warn().Uint64("code", uint64(ret)).Msg("DPI: per-monitor awareness failed")
		}
		return
	}

	log.Debug().Msg("DPI: SetProcessDpiAwareness not available, trying fallback")
	setProcessDPIAware := user32.NewProc("SetProcessDPIAware")
	if err := setProcessDPIAware.Find(); err != nil {
		log.Warn().Msg("DPI: no DPI awareness set")
		return
	}
	if ret, _, _ := setProcessDPIAware.Call(); ret != 0 {
		log.Info().Msg("DPI: system awareness set (fallback)")
	} else {
		log.Warn().Msg("DPI: system awareness failed (fallback)")
	}
}

func logMonitorConfiguration() {
	getSystemMetrics := user32.NewProc("GetSystemMetrics")
	metric := func(index uintptr) int32 {
		ret, _, _ := getSystemMetrics.Call(index)
		return int32(ret)
	}

	const (
		smCXScreen        = 0
		smCYScreen        = 1
		smXVirtualScreen  = 76
		smYVirtualScreen  = 77
		smCXVirtualScreen = 78
		smCYVirtualScreen = 79
		smCMonitors       = 80
	)
	log.Info().
		Int32("monitors", metric(smCMonitors)).
		Int32("virtual_x", metric(smXVirtualScreen)).
		Int32("virtual_y", metric(smYVirtualScreen)).
		Int32("virtual_w", metric(smCXVirtualScreen)).
		Int32("virtual_h", metric(smCYVirtualScreen)).
		Int32("primary_w", metric(smCXScreen)).
		Int32("primary_h", metric(smCYScreen)).
		Msg("monitor configuration")
}
