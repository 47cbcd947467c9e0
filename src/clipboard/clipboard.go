package clipboard

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"golang.design/x/clipboard"

	"cursor-guide/src/geometry"
)

// ErrNotInitialized is returned by Write before a successful Init.
var ErrNotInitialized = errors.New("clipboard not initialized")

var (
	writeMu sync.Mutex
	ready   atomic.Bool
)

func Init() error {
	if err := clipboard.Init(); err != nil {
		return err
	}
	ready.Store(true)
	return nil
}

// Write performs a mutex-guarded clipboard write to prevent corruption under parallel writes.
func Write(text string) error {
	if !ready.Load() {
		return ErrNotInitialized
	}
	writeMu.Lock()
	defer writeMu.Unlock()
	clipboard.Write(clipboard.FmtText, []byte(text))
	return nil
}

// FormatPosition renders a desktop point as "x, y" in whole points.
func FormatPosition(p geometry.Point) string {
	return fmt.Sprintf("%d, %d", int(math.Round(p.X)), int(math.Round(p.Y)))
}

// WritePosition copies the formatted cursor position.
func WritePosition(p geometry.Point) error {
	return Write(FormatPosition(p))
}
