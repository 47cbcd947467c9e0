package worker

import (
	"context"
	"image"
	"runtime"
	"sync"

	"github.com/rs/zerolog/log"

	"cursor-guide/src/coloradapt"
)

// SampleFunc averages the screen colors inside rect (native coordinates).
type SampleFunc func(rect image.Rectangle) (coloradapt.RGB, error)

// ResultCallback is invoked on sampling completion (from a worker goroutine).
// The event loop should pass a closure that posts back into the event loop safely.
type ResultCallback func(rgb coloradapt.RGB, err error)

// Pool is a fixed-size sampling worker pool with a 1-slot input queue (strict back-pressure).
type Pool struct {
	sample SampleFunc
	jobs   chan job
	wg     sync.WaitGroup
	once   sync.Once
}

type job struct {
	ctx  context.Context
	rect image.Rectangle
	cb   ResultCallback
}

// New creates a worker pool. Size defaults to NumCPU when size<=0. Queue is 1 slot.
func New(size int, sample SampleFunc) *Pool {
	if size <= 0 {
		size = runtime.NumCPU()
	}
	p := &Pool{sample: sample, jobs: make(chan job, 1)}
	p.start(size)
	return p
}

func (p *Pool) start(n int) {
	for i := 0; i < n; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for j := range p.jobs {
				rgb, err := p.sampleWithContext(j.ctx, j.rect)
				if err != nil {
					log.Debug().Err(err).Stringer("rect", j.rect).Msg("worker: sample failed")
				}
				j.cb(rgb, err)
			}
		}()
	}
}

// Submit enqueues a sampling job if the single-slot queue is free. Returns false if dropped.
func (p *Pool) Submit(ctx context.Context, rect image.Rectangle, cb ResultCallback) bool {
	select {
	case p.jobs <- job{ctx: ctx, rect: rect, cb: cb}:
		return true
	default:
		return false
	}
}

// Close stops the pool after draining current work. It is idempotent.
func (p *Pool) Close() {
	p.once.Do(func() {
		close(p.jobs)
		p.wg.Wait()
	})
}

// sampleWithContext runs the sample and gives up when ctx is done first.
func (p *Pool) sampleWithContext(ctx context.Context, rect image.Rectangle) (coloradapt.RGB, error) {
	if err := ctx.Err(); err != nil {
		return coloradapt.RGB{}, err
	}
	if _, ok := ctx.Deadline(); !ok {
		return p.sample(rect)
	}
	type res struct {
		rgb coloradapt.RGB
		err error
	}
	resCh := make(chan res, 1)
	go func() {
		rgb, err := p.sample(rect)
		resCh <- res{rgb, err}
	}()
	select {
	case r := <-resCh:
		return r.rgb, r.err
	case <-ctx.Done():
		// The capture keeps running in the background; its result is discarded.
		return coloradapt.RGB{}, ctx.Err()
	}
}
