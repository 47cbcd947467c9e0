package singleinstance

import (
	"os"
	"strconv"
	"strings"
)

const (
	defaultPortStart = 49600
	defaultPortEnd   = 49610

	PortStartEnvVar = "SINGLEINSTANCE_PORT_START"
	PortEndEnvVar   = "SINGLEINSTANCE_PORT_END"
)

// getPortRange returns the configured TCP port range (inclusive). Falls back
// to defaults when unset/invalid, and clamps to [1024, 65535].
func getPortRange() (int, int) {
	start := envPort(PortStartEnvVar, defaultPortStart)
	end := envPort(PortEndEnvVar, defaultPortEnd)
	if end < start {
		start, end = end, start
	}
	if start < 1024 {
		start = 1024
	}
	if end > 65535 {
		end = 65535
	}
	return start, end
}

func envPort(key string, def int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// PortRange exposes the current effective port range for logging.
func PortRange() (int, int) { return getPortRange() }
