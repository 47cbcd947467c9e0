package display

import (
	"context"
	"image"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cursor-guide/src/geometry"
)

// A 1920x1080 primary with a 1280x1024 display to its left, bottom-aligned.
var twoDisplays = []image.Rectangle{
	image.Rect(0, 0, 1920, 1080),
	image.Rect(-1280, 56, 0, 1080),
}

func TestDescribeFlipsToDesktopCoordinates(t *testing.T) {
	list, space := Describe(twoDisplays)
	require.Len(t, list, 2)
	assert.Equal(t, 1080, space.PrimaryHeight)

	assert.True(t, list[0].Primary)
	assert.False(t, list[1].Primary)
	assert.Equal(t, geometry.Rect{Max: geometry.Point{X: 1920, Y: 1080}}, list[0].Bounds)
	assert.Equal(t, geometry.Rect{
		Min: geometry.Point{X: -1280, Y: 0},
		Max: geometry.Point{X: 0, Y: 1024},
	}, list[1].Bounds)
}

func TestDescribePrimaryNotFirst(t *testing.T) {
	list, space := Describe([]image.Rectangle{image.Rect(-800, 0, 0, 600), image.Rect(0, 0, 1024, 768)})
	assert.Equal(t, 768, space.PrimaryHeight)
	p, ok := Primary(list)
	require.True(t, ok)
	assert.Equal(t, ID(1), p.ID)
}

func TestSpaceRoundTrip(t *testing.T) {
	s := Space{PrimaryHeight: 1080}
	p := s.ToDesktop(100, 80)
	assert.Equal(t, geometry.Point{X: 100, Y: 999}, p)
	x, y := s.ToScreen(p)
	assert.Equal(t, 100, x)
	assert.Equal(t, 80, y)
}

func TestToLocalFlipsVertically(t *testing.T) {
	list, _ := Describe(twoDisplays)
	left := list[1]

	// top-left pixel of the left display in desktop coordinates
	assert.Equal(t, geometry.Point{X: 0, Y: 0}, left.ToLocal(geometry.Point{X: -1280, Y: 1023}))
	assert.Equal(t, geometry.Point{X: 1279, Y: 1023}, left.ToLocal(geometry.Point{X: -1, Y: 0}))
}

func TestEdgeRowsStayOnTheirDisplay(t *testing.T) {
	// A 200x100 primary with a same-sized display stacked directly above it.
	list, space := Describe([]image.Rectangle{
		image.Rect(0, 0, 200, 100),
		image.Rect(0, -100, 200, 0),
	})
	primary, above := list[0], list[1]

	tests := []struct {
		name      string
		x, y      int
		want      Descriptor
		wantLocal geometry.Point
	}{
		{"primary top row", 50, 0, primary, geometry.Point{X: 50, Y: 0}},
		{"primary bottom row", 50, 99, primary, geometry.Point{X: 50, Y: 99}},
		{"upper display bottom row", 50, -1, above, geometry.Point{X: 50, Y: 99}},
		{"upper display top row", 199, -100, above, geometry.Point{X: 199, Y: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := space.ToDesktop(tt.x, tt.y)

			d, ok := Find(list, p)
			require.True(t, ok)
			assert.Equal(t, tt.want.ID, d.ID)
			for _, other := range list {
				if other.ID != tt.want.ID {
					assert.False(t, other.Contains(p), "row also claimed by display %d", other.ID)
				}
			}
			assert.Equal(t, tt.wantLocal, d.ToLocal(p))

			x, y := space.ToScreen(p)
			assert.Equal(t, tt.x, x)
			assert.Equal(t, tt.y, y)
		})
	}
}

func TestFind(t *testing.T) {
	list, _ := Describe(twoDisplays)
	d, ok := Find(list, geometry.Point{X: -10, Y: 10})
	require.True(t, ok)
	assert.Equal(t, ID(1), d.ID)

	_, ok = Find(list, geometry.Point{X: -10, Y: 1050})
	assert.False(t, ok, "gap above the shorter display")
}

func TestPixelSize(t *testing.T) {
	d := Descriptor{Bounds: geometry.Rect{Max: geometry.Point{X: 1440, Y: 900}}, Scale: 2}
	w, h := d.PixelSize()
	assert.Equal(t, 2880, w)
	assert.Equal(t, 1800, h)
}

func TestProviderDisplays(t *testing.T) {
	p := &Provider{bounds: func() []image.Rectangle { return nil }}
	_, err := p.Displays()
	assert.ErrorIs(t, err, ErrNoDisplays)

	p.bounds = func() []image.Rectangle { return twoDisplays }
	list, err := p.Displays()
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.Equal(t, 1080, p.Space().PrimaryHeight)
}

func TestProviderWatchReportsChanges(t *testing.T) {
	var mu sync.Mutex
	polls := 0
	p := &Provider{bounds: func() []image.Rectangle {
		mu.Lock()
		defer mu.Unlock()
		polls++
		if polls > 2 {
			return twoDisplays
		}
		return twoDisplays[:1]
	}}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changes := make(chan []Descriptor, 4)
	go p.Watch(ctx, 5*time.Millisecond, func(d []Descriptor) { changes <- d })

	select {
	case d := <-changes:
		assert.Len(t, d, 2)
	case <-time.After(2 * time.Second):
		t.Fatal("no change reported")
	}
}
