package tray

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/getlantern/systray"
	"github.com/rs/zerolog/log"
)

// Config wires menu entries to the application. Callbacks run on the tray
// goroutine; nil callbacks hide their entry.
type Config struct {
	Title          string
	Tooltip        string
	Hotkey         string
	Visible        bool
	OnToggle       func()
	OnCopyPosition func()
	OnReload       func()
	OnExit         func()
}

type Tray struct {
	cfg Config

	mu      sync.Mutex
	visible bool
	toggle  *systray.MenuItem
}

func New(cfg Config) (*Tray, error) {
	if cfg.Title == "" {
		return nil, fmt.Errorf("tray: empty title")
	}
	return &Tray{cfg: cfg, visible: cfg.Visible}, nil
}

// Run blocks until the tray exits. It owns its OS thread.
func (t *Tray) Run() {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	systray.Run(t.onReady, t.onExit)
}

// Destroy removes the tray icon and makes Run return.
func (t *Tray) Destroy() { systray.Quit() }

// SetVisible updates the Show/Hide entry to match the guide state.
func (t *Tray) SetVisible(visible bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.visible = visible
	if t.toggle != nil {
		t.toggle.SetTitle(toggleLabel(visible))
	}
}

func toggleLabel(visible bool) string {
	if visible {
		return "Hide guide"
	}
	return "Show guide"
}

func (t *Tray) onReady() {
	if icon, err := IconBytes(); err != nil {
		log.Warn().Err(err).Msg("tray: icon encoding failed")
	} else {
		systray.SetIcon(icon)
	}
	systray.SetTitle(t.cfg.Title)
	systray.SetTooltip(t.cfg.Tooltip)

	t.mu.Lock()
	t.toggle = systray.AddMenuItem(toggleLabel(t.visible), "Show or hide the cursor guide")
	t.mu.Unlock()
	mCopy := systray.AddMenuItem("Copy cursor position", "Copy the cursor position to the clipboard")
	mReload := systray.AddMenuItem("Reload settings", "Re-read the settings file")
	systray.AddSeparator()
	mAbout := systray.AddMenuItem("About", "About "+t.cfg.Title)
	mQuit := systray.AddMenuItem("Quit", "Quit the application")

	if t.cfg.OnToggle == nil {
		t.toggle.Hide()
	}
	if t.cfg.OnCopyPosition == nil {
		mCopy.Hide()
	}
	if t.cfg.OnReload == nil {
		mReload.Hide()
	}

	go func() {
		for {
			select {
			case <-t.toggle.ClickedCh:
				t.cfg.OnToggle()
			case <-mCopy.ClickedCh:
				t.cfg.OnCopyPosition()
			case <-mReload.ClickedCh:
				t.cfg.OnReload()
			case <-mAbout.ClickedCh:
				showAbout(t.cfg.Title, aboutText(t.cfg.Hotkey))
			case <-mQuit.ClickedCh:
				systray.Quit()
				return
			}
		}
	}()
}

func (t *Tray) onExit() {
	log.Info().Msg("tray: exit")
	if t.cfg.OnExit != nil {
		t.cfg.OnExit()
	}
}

func aboutText(hotkey string) string {
	if hotkey == "" {
		return "Cursor Guide draws crosshair lines through the mouse pointer on every display."
	}
	return fmt.Sprintf("Cursor Guide draws crosshair lines through the mouse pointer on every display.\n\nPress %s to show or hide the guide.", hotkey)
}
