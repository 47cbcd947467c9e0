//go:build !windows

package tray

import "github.com/rs/zerolog/log"

func showAbout(title, message string) {
	log.Info().Str("title", title).Msg(message)
}
