package worker

import (
	"context"
	"errors"
	"image"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cursor-guide/src/coloradapt"
)

func TestSubmitDeliversResult(t *testing.T) {
	p := New(1, func(r image.Rectangle) (coloradapt.RGB, error) {
		return coloradapt.RGB{R: float64(r.Min.X) / 100}, nil
	})
	defer p.Close()

	got := make(chan coloradapt.RGB, 1)
	require.True(t, p.Submit(context.Background(), image.Rect(50, 0, 60, 10), func(rgb coloradapt.RGB, err error) {
		assert.NoError(t, err)
		got <- rgb
	}))

	select {
	case rgb := <-got:
		assert.Equal(t, 0.5, rgb.R)
	case <-time.After(2 * time.Second):
		t.Fatal("no result")
	}
}

func TestSubmitDropsWhenQueueFull(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{}, 1)
	p := New(1, func(image.Rectangle) (coloradapt.RGB, error) {
		started <- struct{}{}
		<-release
		return coloradapt.RGB{}, nil
	})
	defer p.Close()
	defer close(release)

	noop := func(coloradapt.RGB, error) {}
	require.True(t, p.Submit(context.Background(), image.Rect(0, 0, 1, 1), noop))
	<-started // the worker holds the first job
	require.True(t, p.Submit(context.Background(), image.Rect(0, 0, 1, 1), noop), "queue slot free")
	assert.False(t, p.Submit(context.Background(), image.Rect(0, 0, 1, 1), noop), "queue slot taken")
}

func TestDeadlineAbandonsSlowSample(t *testing.T) {
	block := make(chan struct{})
	defer close(block)
	p := New(1, func(image.Rectangle) (coloradapt.RGB, error) {
		<-block
		return coloradapt.RGB{R: 1}, nil
	})
	defer p.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	errCh := make(chan error, 1)
	p.Submit(ctx, image.Rect(0, 0, 1, 1), func(_ coloradapt.RGB, err error) { errCh <- err })

	select {
	case err := <-errCh:
		assert.True(t, errors.Is(err, context.DeadlineExceeded))
	case <-time.After(2 * time.Second):
		t.Fatal("deadline not honored")
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	p := New(2, func(image.Rectangle) (coloradapt.RGB, error) { return coloradapt.RGB{}, nil })
	p.Close()
	assert.NotPanics(t, p.Close)
}
