// Package hotkey watches the global keyboard through one gohook session. It
// detects the toggle combination and reports every other key press, which
// drives hide-while-typing.
package hotkey

import (
	"context"
	"fmt"
	"sync"

	gohook "github.com/robotn/gohook"
	"github.com/rs/zerolog/log"
)

type keyState struct {
	name     string
	rawcodes []uint16
	pressed  bool
}

// Monitor turns raw key events into toggle and key-down callbacks. Callbacks
// run on the hook goroutine and should only post into the run loop.
type Monitor struct {
	combo    string
	onToggle func()
	onKey    func()

	mu   sync.Mutex
	keys []keyState

	// start and end are swapped in tests.
	start func() chan gohook.Event
	end   func()
}

// NewMonitor parses combo (for example "Ctrl+Alt+G"). An empty combo
// disables toggle detection; key presses are still reported.
func NewMonitor(combo string, onToggle, onKey func()) (*Monitor, error) {
	m := &Monitor{
		combo:    combo,
		onToggle: onToggle,
		onKey:    onKey,
		start:    gohook.Start,
		end:      gohook.End,
	}
	for _, name := range parseHotkey(combo) {
		codes := keyNameToRawcodes(name)
		if len(codes) == 0 {
			return nil, fmt.Errorf("hotkey %q: unknown key %q", combo, name)
		}
		m.keys = append(m.keys, keyState{name: name, rawcodes: codes})
	}
	return m, nil
}

// Run processes hook events until ctx is cancelled.
func (m *Monitor) Run(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("hotkey: hook goroutine panicked")
		}
	}()

	evChan := m.start()
	if evChan == nil {
		log.Error().Msg("hotkey: gohook.Start returned nil channel")
		return
	}
	defer m.end()
	log.Info().Str("hotkey", m.combo).Msg("keyboard hook started")

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-evChan:
			if !ok {
				log.Warn().Msg("hotkey: event channel closed")
				return
			}
			m.handle(ev)
		}
	}
}

func (m *Monitor) handle(ev gohook.Event) {
	switch ev.Kind {
	case gohook.KeyDown:
		if m.press(ev.Rawcode) {
			log.Debug().Str("hotkey", m.combo).Msg("hotkey combination detected")
			if m.onToggle != nil {
				m.onToggle()
			}
			return
		}
		if !isModifier(ev.Rawcode) && m.onKey != nil {
			m.onKey()
		}
	case gohook.KeyUp:
		m.release(ev.Rawcode)
	}
}

// press marks rawcode as held and reports whether the whole combination is
// now down, resetting it if so.
func (m *Monitor) press(rawcode uint16) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.keys) == 0 {
		return false
	}
	for i := range m.keys {
		if contains(m.keys[i].rawcodes, rawcode) {
			m.keys[i].pressed = true
		}
	}
	for i := range m.keys {
		if !m.keys[i].pressed {
			return false
		}
	}
	for i := range m.keys {
		m.keys[i].pressed = false
	}
	return true
}

func (m *Monitor) release(rawcode uint16) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.keys {
		if contains(m.keys[i].rawcodes, rawcode) {
			m.keys[i].pressed = false
		}
	}
}

func contains(codes []uint16, c uint16) bool {
	for _, v := range codes {
		if v == c {
			return true
		}
	}
	return false
}
