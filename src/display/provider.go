package display

import (
	"context"
	"image"
	"sync"
	"time"

	"github.com/kbinani/screenshot"
	"github.com/rs/zerolog/log"
)

// Provider enumerates active displays through the screenshot backend.
type Provider struct {
	mu    sync.Mutex
	space Space

	// bounds is swapped in tests.
	bounds func() []image.Rectangle
}

// NewProvider returns a Provider backed by github.com/kbinani/screenshot.
func NewProvider() *Provider {
	return &Provider{bounds: activeBounds}
}

func activeBounds() []image.Rectangle {
	n := screenshot.NumActiveDisplays()
	rects := make([]image.Rectangle, 0, n)
	for i := 0; i < n; i++ {
		rects = append(rects, screenshot.GetDisplayBounds(i))
	}
	return rects
}

// Displays enumerates the current configuration.
func (p *Provider) Displays() ([]Descriptor, error) {
	rects := p.bounds()
	if len(rects) == 0 {
		return nil, ErrNoDisplays
	}
	list, space := Describe(rects)
	p.mu.Lock()
	p.space = space
	p.mu.Unlock()
	return list, nil
}

// Space returns the coordinate space of the last enumeration.
func (p *Provider) Space() Space {
	p.mu.Lock()
	s := p.space
	p.mu.Unlock()
	if s.PrimaryHeight != 0 {
		return s
	}
	if _, err := p.Displays(); err != nil {
		return s
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.space
}

// Watch polls the display configuration every interval and calls onChange
// (from the polling goroutine) whenever it differs from the previous poll.
// It returns when ctx is cancelled.
func (p *Provider) Watch(ctx context.Context, interval time.Duration, onChange func([]Descriptor)) {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	last, _ := p.Displays()
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			cur, err := p.Displays()
			if err != nil {
				log.Warn().Err(err).Msg("display poll failed")
				continue
			}
			if Equal(cur, last) {
				continue
			}
			log.Info().Int("from", len(last)).Int("to", len(cur)).Msg("display configuration changed")
			last = cur
			onChange(cur)
		}
	}
}
