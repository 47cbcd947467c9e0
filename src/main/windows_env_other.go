//go:build !windows

package main

import (
	"github.com/rs/zerolog/log"

	"cursor-guide/src/display"
)

func enableDPIAwareness() {}

func logMonitorConfiguration() {
	list, err := display.NewProvider().Displays()
	if err != nil {
		log.Warn().Err(err).Msg("monitor configuration unavailable")
		return
	}
	for _, d := range list {
		log.Info().Stringer("display", d).Msg("monitor")
	}
}
