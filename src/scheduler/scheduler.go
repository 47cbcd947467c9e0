// Package scheduler defines the timing sources the guide engine registers with.
//
// All callbacks run on the scheduler's single logical thread. After
// Timer.Stop returns, the stopped timer's callback never runs again.
package scheduler

import (
	"sort"
	"time"
)

// Timer cancels a registered callback.
type Timer interface {
	Stop()
}

// Scheduler provides fixed-rate ticks, display-refresh callbacks and one-shot timers.
type Scheduler interface {
	Now() time.Time
	Every(d time.Duration, fn func(now time.Time)) Timer
	OnDisplayRefresh(fn func(now time.Time)) Timer
	AfterFunc(d time.Duration, fn func()) Timer
}

// DefaultRefreshInterval is used when the display refresh rate is unknown.
const DefaultRefreshInterval = time.Second / 60

// Manual is a deterministic Scheduler for tests. Time only moves on Advance.
type Manual struct {
	now     time.Time
	refresh time.Duration
	seq     int
	entries []*manualEntry
}

type manualEntry struct {
	seq     int
	due     time.Time
	period  time.Duration
	fn      func(now time.Time)
	stopped bool
}

func (e *manualEntry) Stop() { e.stopped = true }

// NewManual returns a Manual scheduler starting at start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start, refresh: DefaultRefreshInterval}
}

// SetRefreshInterval changes the period used by OnDisplayRefresh registrations made afterwards.
func (m *Manual) SetRefreshInterval(d time.Duration) { m.refresh = d }

// Now returns the manual clock.
func (m *Manual) Now() time.Time { return m.now }

// Every registers fn to run every d, first at Now()+d.
func (m *Manual) Every(d time.Duration, fn func(now time.Time)) Timer {
	return m.add(d, d, fn)
}

// OnDisplayRefresh registers fn at the refresh interval.
func (m *Manual) OnDisplayRefresh(fn func(now time.Time)) Timer {
	return m.add(m.refresh, m.refresh, fn)
}

// AfterFunc registers fn to run once after d.
func (m *Manual) AfterFunc(d time.Duration, fn func()) Timer {
	return m.add(d, 0, func(time.Time) { fn() })
}

func (m *Manual) add(delay, period time.Duration, fn func(time.Time)) *manualEntry {
	m.seq++
	e := &manualEntry{seq: m.seq, due: m.now.Add(delay), period: period, fn: fn}
	m.entries = append(m.entries, e)
	return e
}

// Pending returns the number of live registrations.
func (m *Manual) Pending() int {
	n := 0
	for _, e := range m.entries {
		if !e.stopped {
			n++
		}
	}
	return n
}

// Advance moves the clock forward by d, firing due callbacks in time order.
func (m *Manual) Advance(d time.Duration) {
	end := m.now.Add(d)
	for {
		e := m.next(end)
		if e == nil {
			break
		}
		m.now = e.due
		if e.period > 0 {
			e.due = e.due.Add(e.period)
		} else {
			e.stopped = true
		}
		e.fn(m.now)
	}
	m.now = end
	m.compact()
}

func (m *Manual) next(end time.Time) *manualEntry {
	var live []*manualEntry
	for _, e := range m.entries {
		if !e.stopped && !e.due.After(end) {
			live = append(live, e)
		}
	}
	if len(live) == 0 {
		return nil
	}
	sort.Slice(live, func(i, j int) bool {
		if live[i].due.Equal(live[j].due) {
			return live[i].seq < live[j].seq
		}
		return live[i].due.Before(live[j].due)
	})
	return live[0]
}

func (m *Manual) compact() {
	kept := m.entries[:0]
	for _, e := range m.entries {
		if !e.stopped {
			kept = append(kept, e)
		}
	}
	m.entries = kept
}
