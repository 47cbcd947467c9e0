// Package eventloop runs every piece of guide state on one goroutine.
//
// External producers (keyboard hook, display watcher, settings watcher,
// tray, remote commands, sampling workers) Post closures; timers registered
// through the scheduler.Scheduler methods post their callbacks the same way.
package eventloop

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"cursor-guide/src/scheduler"
)

// queueSize bounds pending posts. Periodic callbacks never block on it.
const queueSize = 64

// Loop is the single-threaded coordinator. It implements scheduler.Scheduler.
type Loop struct {
	posts   chan func()
	done    chan struct{}
	refresh time.Duration
	once    sync.Once
}

var _ scheduler.Scheduler = (*Loop)(nil)

// New creates a loop whose display-refresh callbacks run every refresh
// (scheduler.DefaultRefreshInterval when refresh <= 0).
func New(refresh time.Duration) *Loop {
	if refresh <= 0 {
		refresh = scheduler.DefaultRefreshInterval
	}
	return &Loop{
		posts:   make(chan func(), queueSize),
		done:    make(chan struct{}),
		refresh: refresh,
	}
}

// Run processes posted closures until ctx is cancelled. The goroutine is
// locked to its OS thread because native surfaces belong to the thread that
// created them.
func (l *Loop) Run(ctx context.Context) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer l.once.Do(func() { close(l.done) })

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.posts:
			l.invoke(fn)
		}
	}
}

func (l *Loop) invoke(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("eventloop: callback panicked")
		}
	}()
	fn()
}

// Post queues fn to run on the loop. It blocks while the queue is full and
// returns false once the loop has stopped. Never call it from the loop itself.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.posts <- fn:
		return true
	case <-l.done:
		return false
	}
}

// TryPost queues fn without blocking and reports whether it was queued.
func (l *Loop) TryPost(fn func()) bool {
	select {
	case <-l.done:
		return false
	case l.posts <- fn:
		return true
	default:
		return false
	}
}

// Done is closed when Run returns.
func (l *Loop) Done() <-chan struct{} { return l.done }

// Now implements scheduler.Scheduler.
func (l *Loop) Now() time.Time { return time.Now() }

type timer struct {
	stopped atomic.Bool
	queued  atomic.Bool
	stop    chan struct{}
	once    sync.Once
	after   *time.Timer
}

func newTimer() *timer { return &timer{stop: make(chan struct{})} }

// Stop prevents any further callback. Called from the loop goroutine it also
// drops a callback that is already queued.
func (t *timer) Stop() {
	t.once.Do(func() {
		t.stopped.Store(true)
		close(t.stop)
		if t.after != nil {
			t.after.Stop()
		}
	})
}

// Every implements scheduler.Scheduler. Ticks that find the previous one
// still queued are dropped.
func (l *Loop) Every(d time.Duration, fn func(now time.Time)) scheduler.Timer {
	t := newTimer()
	go func() {
		tk := time.NewTicker(d)
		defer tk.Stop()
		for {
			select {
			case <-t.stop:
				return
			case <-l.done:
				return
			case now := <-tk.C:
				if !t.queued.CompareAndSwap(false, true) {
					continue
				}
				if !l.TryPost(func() {
					t.queued.Store(false)
					if t.stopped.Load() {
						return
					}
					fn(now)
				}) {
					t.queued.Store(false)
				}
			}
		}
	}()
	return t
}

// OnDisplayRefresh implements scheduler.Scheduler with a ticker at the
// configured refresh interval.
func (l *Loop) OnDisplayRefresh(fn func(now time.Time)) scheduler.Timer {
	return l.Every(l.refresh, fn)
}

// AfterFunc implements scheduler.Scheduler.
func (l *Loop) AfterFunc(d time.Duration, fn func()) scheduler.Timer {
	t := newTimer()
	t.after = time.AfterFunc(d, func() {
		if t.stopped.Load() {
			return
		}
		l.Post(func() {
			if t.stopped.Load() {
				return
			}
			t.stopped.Store(true)
			fn()
		})
	})
	return t
}
