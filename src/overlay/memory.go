package overlay

import (
	"image"
	"image/color"
	"sync"

	"cursor-guide/src/display"
)

// MemoryPlatform keeps surfaces in memory. It backs tests and headless runs.
type MemoryPlatform struct {
	// Fail, when set, is consulted before each creation.
	Fail func(d display.Descriptor) error

	mu       sync.Mutex
	surfaces []*MemorySurface
}

// NewMemoryPlatform returns an empty MemoryPlatform.
func NewMemoryPlatform() *MemoryPlatform {
	return &MemoryPlatform{}
}

// CreateSurface implements Platform.
func (p *MemoryPlatform) CreateSurface(d display.Descriptor) (Surface, error) {
	if p.Fail != nil {
		if err := p.Fail(d); err != nil {
			return nil, err
		}
	}
	w, h := d.PixelSize()
	s := &MemorySurface{Display: d, frame: image.NewRGBA(image.Rect(0, 0, w, h))}
	p.mu.Lock()
	p.surfaces = append(p.surfaces, s)
	p.mu.Unlock()
	return s, nil
}

// Live returns the surfaces not yet closed, in creation order.
func (p *MemoryPlatform) Live() []*MemorySurface {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []*MemorySurface
	for _, s := range p.surfaces {
		if !s.Closed() {
			out = append(out, s)
		}
	}
	return out
}

// Created returns how many surfaces were ever created.
func (p *MemoryPlatform) Created() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.surfaces)
}

// MemorySurface records what would have been shown on screen.
type MemorySurface struct {
	Display display.Descriptor

	mu       sync.Mutex
	frame    *image.RGBA
	visible  bool
	closed   bool
	presents int
	clears   int
}

func (s *MemorySurface) Show() error {
	s.mu.Lock()
	s.visible = true
	s.mu.Unlock()
	return nil
}

func (s *MemorySurface) Hide() error {
	s.mu.Lock()
	s.visible = false
	s.mu.Unlock()
	return nil
}

func (s *MemorySurface) Present(frame *image.RGBA) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copy(s.frame.Pix, frame.Pix)
	s.presents++
	return nil
}

func (s *MemorySurface) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.frame.Pix)
	s.clears++
	return nil
}

func (s *MemorySurface) Close() error {
	s.mu.Lock()
	s.closed = true
	s.visible = false
	s.mu.Unlock()
	return nil
}

// Visible reports whether the surface is shown.
func (s *MemorySurface) Visible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visible
}

// Closed reports whether the surface was released.
func (s *MemorySurface) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Presents returns how many frames were presented.
func (s *MemorySurface) Presents() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.presents
}

// Clears returns how many times the surface was cleared.
func (s *MemorySurface) Clears() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clears
}

// At returns the premultiplied color of the last presented frame at surface
// pixel (x, y).
func (s *MemorySurface) At(x, y int) color.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame.RGBAAt(x, y)
}
