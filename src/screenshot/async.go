package screenshot

import (
	"context"
	"image"
	"time"

	"cursor-guide/src/coloradapt"
	"cursor-guide/src/worker"
)

// Poster delivers a closure to the run loop.
type Poster func(fn func()) bool

// AsyncSampler keeps screen captures off the run loop. Sample returns the
// most recent completed result and queues a fresh capture; the result is
// posted back to the loop when it lands. Only Close may be called from other
// goroutines.
type AsyncSampler struct {
	pool     *worker.Pool
	post     Poster
	interval time.Duration
	timeout  time.Duration
	now      func() time.Time

	last      coloradapt.RGB
	have      bool
	inFlight  bool
	submitted time.Time
}

// NewAsyncSampler samples with fn on a single worker. Captures are requested
// at most once per interval.
func NewAsyncSampler(fn worker.SampleFunc, post Poster, interval time.Duration) *AsyncSampler {
	return &AsyncSampler{
		pool:     worker.New(1, fn),
		post:     post,
		interval: interval,
		timeout:  250 * time.Millisecond,
		now:      time.Now,
	}
}

// Sample implements coloradapt.Sampler.
func (a *AsyncSampler) Sample(rect image.Rectangle) (coloradapt.RGB, error) {
	a.request(rect)
	if !a.have {
		return coloradapt.RGB{}, coloradapt.ErrNoSample
	}
	return a.last, nil
}

func (a *AsyncSampler) request(rect image.Rectangle) {
	now := a.now()
	if a.inFlight || now.Sub(a.submitted) < a.interval {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	ok := a.pool.Submit(ctx, rect, func(rgb coloradapt.RGB, err error) {
		cancel()
		a.post(func() {
			a.inFlight = false
			if err != nil {
				return
			}
			a.last, a.have = rgb, true
		})
	})
	if !ok {
		cancel()
		return
	}
	a.inFlight = true
	a.submitted = now
}

// Close stops the worker.
func (a *AsyncSampler) Close() {
	a.pool.Close()
}
