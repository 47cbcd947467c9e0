//go:build windows

package overlay

import (
	"fmt"
	"image"
	"sync"
	"syscall"
	"unsafe"

	"github.com/lxn/win"
	"golang.org/x/sys/windows"

	"cursor-guide/src/display"
)

const overlayClassName = "CursorGuideOverlay"

var (
	user32                  = windows.NewLazySystemDLL("user32.dll")
	procUpdateLayeredWindow = user32.NewProc("UpdateLayeredWindow")

	registerOnce sync.Once
	registerErr  error
)

const (
	ulwAlpha   = 0x00000002
	acSrcOver  = 0x00
	acSrcAlpha = 0x01

	htTransparent = ^uintptr(0) // HTTRANSPARENT (-1)
	maNoActivate  = 3
)

type blendFunction struct {
	BlendOp             byte
	BlendFlags          byte
	SourceConstantAlpha byte
	AlphaFormat         byte
}

type windowsPlatform struct{}

// NewPlatform returns the layered-window backend. Surfaces must be created,
// presented and pumped from one locked OS thread.
func NewPlatform() (Platform, error) {
	registerOnce.Do(registerClass)
	if registerErr != nil {
		return nil, registerErr
	}
	return windowsPlatform{}, nil
}

func registerClass() {
	wc := win.WNDCLASSEX{
		CbSize:        uint32(unsafe.Sizeof(win.WNDCLASSEX{})),
		LpfnWndProc:   syscall.NewCallback(overlayWndProc),
		HInstance:     win.GetModuleHandle(nil),
		LpszClassName: syscall.StringToUTF16Ptr(overlayClassName),
	}
	if win.RegisterClassEx(&wc) == 0 {
		registerErr = fmt.Errorf("register overlay window class: %w", windows.GetLastError())
	}
}

func overlayWndProc(hwnd win.HWND, msg uint32, wParam, lParam uintptr) uintptr {
	switch msg {
	case win.WM_NCHITTEST:
		return htTransparent
	case win.WM_MOUSEACTIVATE:
		return maNoActivate
	}
	return win.DefWindowProc(hwnd, msg, wParam, lParam)
}

// Pump drains pending window messages for surfaces owned by this thread.
func (windowsPlatform) Pump() {
	var msg win.MSG
	for win.PeekMessage(&msg, 0, 0, 0, win.PM_REMOVE) {
		win.TranslateMessage(&msg)
		win.DispatchMessage(&msg)
	}
}

func (windowsPlatform) CreateSurface(d display.Descriptor) (Surface, error) {
	r := d.Screen
	hwnd := win.CreateWindowEx(
		win.WS_EX_LAYERED|win.WS_EX_TRANSPARENT|win.WS_EX_TOPMOST|win.WS_EX_TOOLWINDOW|win.WS_EX_NOACTIVATE,
		syscall.StringToUTF16Ptr(overlayClassName),
		syscall.StringToUTF16Ptr("cursor guide"),
		win.WS_POPUP,
		int32(r.Min.X), int32(r.Min.Y), int32(r.Dx()), int32(r.Dy()),
		0, 0, win.GetModuleHandle(nil), nil,
	)
	if hwnd == 0 {
		return nil, fmt.Errorf("create overlay window for %v: %w", d, windows.GetLastError())
	}

	w, h := d.PixelSize()
	s := &layeredSurface{hwnd: hwnd, origin: r.Min, w: w, h: h}
	if err := s.allocate(); err != nil {
		win.DestroyWindow(hwnd)
		return nil, err
	}
	return s, nil
}

// layeredSurface is a WS_EX_LAYERED window updated through a 32-bit
// top-down DIB section.
type layeredSurface struct {
	hwnd   win.HWND
	origin image.Point
	w, h   int

	memDC  win.HDC
	bitmap win.HBITMAP
	old    win.HGDIOBJ
	bits   []byte
}

func (s *layeredSurface) allocate() error {
	screen := win.GetDC(0)
	defer win.ReleaseDC(0, screen)

	s.memDC = win.CreateCompatibleDC(screen)
	if s.memDC == 0 {
		return fmt.Errorf("create memory DC: %w", windows.GetLastError())
	}
	hdr := win.BITMAPINFOHEADER{
		BiSize:        uint32(unsafe.Sizeof(win.BITMAPINFOHEADER{})),
		BiWidth:       int32(s.w),
		BiHeight:      -int32(s.h),
		BiPlanes:      1,
		BiBitCount:    32,
		BiCompression: win.BI_RGB,
	}
	var bits unsafe.Pointer
	s.bitmap = win.CreateDIBSection(s.memDC, &hdr, win.DIB_RGB_COLORS, &bits, 0, 0)
	if s.bitmap == 0 || bits == nil {
		win.DeleteDC(s.memDC)
		return fmt.Errorf("create DIB section %dx%d: %w", s.w, s.h, windows.GetLastError())
	}
	s.bits = unsafe.Slice((*byte)(bits), s.w*s.h*4)
	s.old = win.SelectObject(s.memDC, win.HGDIOBJ(s.bitmap))
	return nil
}

func (s *layeredSurface) Show() error {
	win.ShowWindow(s.hwnd, win.SW_SHOWNOACTIVATE)
	return nil
}

func (s *layeredSurface) Hide() error {
	win.ShowWindow(s.hwnd, win.SW_HIDE)
	return nil
}

// Present copies frame into the DIB, swapping to BGRA, and pushes it to the
// window with per-pixel alpha. image.RGBA is already premultiplied.
func (s *layeredSurface) Present(frame *image.RGBA) error {
	b := frame.Bounds()
	w, h := min(b.Dx(), s.w), min(b.Dy(), s.h)
	for y := 0; y < h; y++ {
		src := frame.Pix[frame.PixOffset(b.Min.X, b.Min.Y+y):]
		dst := s.bits[y*s.w*4:]
		for x := 0; x < w; x++ {
			i := x * 4
			dst[i] = src[i+2]
			dst[i+1] = src[i+1]
			dst[i+2] = src[i]
			dst[i+3] = src[i+3]
		}
	}
	return s.update()
}

func (s *layeredSurface) Clear() error {
	clear(s.bits)
	return s.update()
}

func (s *layeredSurface) update() error {
	dst := win.POINT{X: int32(s.origin.X), Y: int32(s.origin.Y)}
	size := win.SIZE{CX: int32(s.w), CY: int32(s.h)}
	src := win.POINT{}
	blend := blendFunction{BlendOp: acSrcOver, SourceConstantAlpha: 255, AlphaFormat: acSrcAlpha}
	ok, _, err := procUpdateLayeredWindow.Call(
		uintptr(s.hwnd), 0,
		uintptr(unsafe.Pointer(&dst)), uintptr(unsafe.Pointer(&size)),
		uintptr(s.memDC), uintptr(unsafe.Pointer(&src)),
		0, uintptr(unsafe.Pointer(&blend)), ulwAlpha,
	)
	if ok == 0 {
		return fmt.Errorf("UpdateLayeredWindow: %w", err)
	}
	return nil
}

func (s *layeredSurface) Close() error {
	if s.memDC != 0 {
		win.SelectObject(s.memDC, s.old)
		win.DeleteObject(win.HGDIOBJ(s.bitmap))
		win.DeleteDC(s.memDC)
		s.memDC = 0
		s.bits = nil
	}
	if s.hwnd != 0 {
		if !win.DestroyWindow(s.hwnd) {
			return fmt.Errorf("destroy overlay window: %w", windows.GetLastError())
		}
		s.hwnd = 0
	}
	return nil
}
