// Package typing hides the guide while the user is typing.
package typing

import (
	"time"

	"github.com/rs/zerolog/log"

	"cursor-guide/src/scheduler"
	"cursor-guide/src/settings"
)

// Suppressor debounces key-down events into hide/show calls. It must be used
// from the scheduler's thread only.
type Suppressor struct {
	sched  scheduler.Scheduler
	onHide func()
	onShow func()

	enabled    bool
	delay      time.Duration
	suppressed bool
	lastKey    time.Time
	timer      scheduler.Timer
	gen        uint64
}

// New returns a disabled Suppressor. onHide runs when typing starts, onShow
// when the debounce delay elapses without another key.
func New(sched scheduler.Scheduler, onHide, onShow func()) *Suppressor {
	return &Suppressor{
		sched:  sched,
		onHide: onHide,
		onShow: onShow,
		delay:  settings.DefaultTypingDelay,
	}
}

// Configure enables or disables suppression and sets the debounce delay.
// Disabling while suppressed shows the guide immediately.
func (s *Suppressor) Configure(enabled bool, delay time.Duration) {
	s.delay = settings.ClampTypingDelay(delay)
	s.enabled = enabled
	if !enabled && s.suppressed {
		s.release()
	}
}

// Enabled reports whether key presses are acted upon.
func (s *Suppressor) Enabled() bool { return s.enabled }

// Suppressed reports whether the guide is currently hidden by typing.
func (s *Suppressor) Suppressed() bool { return s.suppressed }

// KeyDown records a key press.
func (s *Suppressor) KeyDown() {
	if !s.enabled {
		return
	}
	s.lastKey = s.sched.Now()
	s.hide()
	s.arm(s.delay)
}

// Restore re-enters suppression when the last key press is younger than the
// delay, showing the guide again once the remainder elapses. It reports
// whether the guide is now suppressed.
func (s *Suppressor) Restore() bool {
	if !s.enabled || s.lastKey.IsZero() {
		return s.suppressed
	}
	left := s.delay - s.sched.Now().Sub(s.lastKey)
	if left <= 0 {
		return s.suppressed
	}
	s.hide()
	s.arm(left)
	return true
}

// Stop cancels any pending timer and drops suppression without calling onShow.
// The last key press is kept for Restore.
func (s *Suppressor) Stop() {
	s.cancel()
	s.suppressed = false
}

func (s *Suppressor) hide() {
	if s.suppressed {
		return
	}
	s.suppressed = true
	log.Debug().Msg("typing: hiding guide")
	s.onHide()
}

func (s *Suppressor) arm(d time.Duration) {
	s.cancel()
	gen := s.gen
	s.timer = s.sched.AfterFunc(d, func() {
		if gen != s.gen || !s.suppressed {
			return
		}
		s.release()
	})
}

func (s *Suppressor) cancel() {
	s.gen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Suppressor) release() {
	s.cancel()
	s.suppressed = false
	log.Debug().Msg("typing: showing guide")
	s.onShow()
}
