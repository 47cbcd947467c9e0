package hotkey

import (
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// parseHotkey converts a hotkey string like "Ctrl+Alt+g" to normalized key names.
func parseHotkey(combo string) []string {
	var keys []string
	for _, part := range strings.Split(strings.ToLower(combo), "+") {
		part = strings.TrimSpace(part)
		switch part {
		case "":
			continue
		case "control":
			part = "ctrl"
		case "option":
			part = "alt"
		case "win", "cmd", "super", "meta":
			part = "cmd"
		}
		keys = append(keys, part)
	}
	return keys
}

// Windows virtual key codes, as reported in gohook rawcodes.
var (
	modifierRawcodes = map[string][]uint16{
		"ctrl":  {162, 163}, // VK_LCONTROL, VK_RCONTROL
		"alt":   {164, 165}, // VK_LMENU, VK_RMENU
		"shift": {160, 161}, // VK_LSHIFT, VK_RSHIFT
		"cmd":   {91, 92},   // VK_LWIN, VK_RWIN
	}

	namedRawcodes = map[string]uint16{
		"space":     32,
		"enter":     13,
		"return":    13,
		"esc":       27,
		"escape":    27,
		"tab":       9,
		"backspace": 8,
		"delete":    46,
		"del":       46,
		"insert":    45,
		"ins":       45,
		"home":      36,
		"end":       35,
		"pageup":    33,
		"pgup":      33,
		"pagedown":  34,
		"pgdn":      34,
		"left":      37,
		"up":        38,
		"right":     39,
		"down":      40,
	}
)

// keyNameToRawcodes maps a key name to its rawcodes (both sides for modifiers).
func keyNameToRawcodes(name string) []uint16 {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "win" || name == "super" {
		name = "cmd"
	}
	if codes, ok := modifierRawcodes[name]; ok {
		return codes
	}
	if code, ok := namedRawcodes[name]; ok {
		return []uint16{code}
	}
	if len(name) == 1 {
		switch c := name[0]; {
		case c >= 'a' && c <= 'z':
			return []uint16{uint16(c-'a') + 65} // VK_A..VK_Z
		case c >= '0' && c <= '9':
			return []uint16{uint16(c-'0') + 48}
		}
	}
	if strings.HasPrefix(name, "f") {
		if n, err := strconv.Atoi(name[1:]); err == nil && n >= 1 && n <= 24 {
			return []uint16{uint16(111 + n)} // VK_F1 is 112
		}
	}
	log.Warn().Str("key", name).Msg("unknown key name, cannot map to rawcode")
	return nil
}

// isModifier reports whether rawcode is a modifier key. Modifiers alone do
// not count as typing. 16-18 are the side-less VK_SHIFT/CONTROL/MENU codes.
func isModifier(rawcode uint16) bool {
	switch rawcode {
	case 16, 17, 18:
		return true
	}
	for _, codes := range modifierRawcodes {
		for _, c := range codes {
			if c == rawcode {
				return true
			}
		}
	}
	return false
}
