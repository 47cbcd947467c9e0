package screenshot

import (
	"errors"
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cursor-guide/src/coloradapt"
)

func TestSampleAverage(t *testing.T) {
	// Requires a display; only checks that the call does not panic.
	_, err := SampleAverage(image.Rect(0, 0, 20, 20))
	if err != nil {
		t.Logf("Failed to sample (expected in headless environment): %v", err)
	}
}

func TestAverageRGB(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.SetRGBA(0, 0, color.RGBA{R: 255, A: 255})
	img.SetRGBA(1, 0, color.RGBA{G: 255, A: 255})
	img.SetRGBA(0, 1, color.RGBA{B: 255, A: 255})
	img.SetRGBA(1, 1, color.RGBA{R: 255, G: 255, B: 255, A: 255})

	got := averageRGB(img)

	assert.InDelta(t, 0.5, got.R, 1e-9)
	assert.InDelta(t, 0.5, got.G, 1e-9)
	assert.InDelta(t, 0.5, got.B, 1e-9)
}

func TestAverageRGBSubImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 255, G: 255, B: 255, A: 255})
		}
	}
	img.SetRGBA(2, 2, color.RGBA{A: 255})

	sub := img.SubImage(image.Rect(2, 2, 3, 3)).(*image.RGBA)
	assert.Equal(t, coloradapt.RGB{}, averageRGB(sub))
	assert.Equal(t, coloradapt.Neutral, averageRGB(image.NewRGBA(image.Rectangle{})))
}

// loopPoster queues posted closures for the test goroutine to run.
type loopPoster chan func()

func (p loopPoster) post(fn func()) bool {
	p <- fn
	return true
}

func (p loopPoster) drain(t *testing.T) {
	t.Helper()
	select {
	case fn := <-p:
		fn()
	case <-time.After(2 * time.Second):
		t.Fatal("sampler never posted a result")
	}
}

func TestAsyncSamplerReturnsLastResult(t *testing.T) {
	posts := make(loopPoster, 4)
	var rects []image.Rectangle
	sampled := make(chan image.Rectangle, 4)
	a := NewAsyncSampler(func(r image.Rectangle) (coloradapt.RGB, error) {
		sampled <- r
		return coloradapt.RGB{R: 1, G: 1, B: 1}, nil
	}, posts.post, 0)
	defer a.Close()

	_, err := a.Sample(image.Rect(0, 0, 20, 20))
	require.ErrorIs(t, err, coloradapt.ErrNoSample)

	// A second request while the first is in flight is not submitted.
	_, _ = a.Sample(image.Rect(5, 5, 25, 25))
	posts.drain(t)
	rects = append(rects, <-sampled)
	assert.Equal(t, []image.Rectangle{image.Rect(0, 0, 20, 20)}, rects)

	rgb, err := a.Sample(image.Rect(10, 10, 30, 30))
	require.NoError(t, err)
	assert.Equal(t, coloradapt.RGB{R: 1, G: 1, B: 1}, rgb)
}

func TestAsyncSamplerKeepsLastOnFailure(t *testing.T) {
	posts := make(loopPoster, 4)
	fail := false
	calls := make(chan struct{}, 4)
	a := NewAsyncSampler(func(image.Rectangle) (coloradapt.RGB, error) {
		calls <- struct{}{}
		if fail {
			return coloradapt.RGB{}, errors.New("capture failed")
		}
		return coloradapt.RGB{R: 0.2}, nil
	}, posts.post, 0)
	defer a.Close()

	_, _ = a.Sample(image.Rect(0, 0, 1, 1))
	<-calls
	posts.drain(t)

	fail = true
	rgb, err := a.Sample(image.Rect(0, 0, 1, 1))
	require.NoError(t, err)
	<-calls
	posts.drain(t)

	rgb2, err := a.Sample(image.Rect(0, 0, 1, 1))
	require.NoError(t, err)
	assert.Equal(t, rgb, rgb2)
	assert.Equal(t, 0.2, rgb2.R)
}

func TestAsyncSamplerThrottles(t *testing.T) {
	posts := make(loopPoster, 4)
	calls := make(chan struct{}, 4)
	a := NewAsyncSampler(func(image.Rectangle) (coloradapt.RGB, error) {
		calls <- struct{}{}
		return coloradapt.RGB{}, nil
	}, posts.post, time.Hour)
	defer a.Close()
	now := time.Unix(0, 0)
	a.now = func() time.Time { return now }
	a.submitted = now.Add(-2 * time.Hour)

	_, _ = a.Sample(image.Rect(0, 0, 1, 1))
	<-calls
	posts.drain(t)

	now = now.Add(time.Minute)
	_, _ = a.Sample(image.Rect(0, 0, 1, 1))
	assert.Len(t, calls, 0, "within the interval")
	assert.Len(t, posts, 0)
}
