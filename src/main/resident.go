package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"cursor-guide/src/clipboard"
	"cursor-guide/src/config"
	"cursor-guide/src/cursor"
	"cursor-guide/src/display"
	"cursor-guide/src/eventloop"
	"cursor-guide/src/hotkey"
	"cursor-guide/src/license"
	"cursor-guide/src/overlay"
	"cursor-guide/src/screenshot"
	"cursor-guide/src/singleinstance"
	"cursor-guide/src/tray"
)

const (
	sampleInterval = 100 * time.Millisecond
	commandTimeout = 2 * time.Second
)

// resident owns the running guide. Methods without a ctx argument run on the
// event loop.
type resident struct {
	cfg  *config.Config
	loop *eventloop.Loop
	mgr  *overlay.Manager
	gate *license.Flag
	tray *tray.Tray
}

type commandResult struct {
	reply string
	err   error
}

func runResident(parent context.Context, cfg *config.Config, visible bool) error {
	ctx, cancel := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	probeCtx, probeCancel := context.WithTimeout(ctx, time.Second)
	port, found := singleinstance.DetectResidentPort(probeCtx)
	probeCancel()
	if found {
		fmt.Printf("one is already running on port %d\n", port)
		return fmt.Errorf("resident already running on port %d", port)
	}
	srv := singleinstance.NewServer()
	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("claim single-instance port: %w", err)
	}
	defer srv.Close()

	// Ensure DPI awareness before creating any windows or querying metrics
	enableDPIAwareness()
	logMonitorConfiguration()

	loop := eventloop.New(cfg.RefreshInterval())
	loopCtx, stopLoop := context.WithCancel(context.Background())
	defer stopLoop()

	platform, err := overlay.NewPlatform()
	if err != nil {
		log.Warn().Err(err).Msg("native overlay unavailable, guide surfaces stay off-screen")
		platform = overlay.NewMemoryPlatform()
	}

	st, err := config.LoadSettings(cfg.SettingsFile, cfg.FullAccess)
	if err != nil {
		log.Warn().Err(err).Str("file", cfg.SettingsFile).Msg("settings: invalid values replaced by defaults")
	}

	provider := display.NewProvider()
	sampler := screenshot.NewAsyncSampler(screenshot.SampleAverage, loop.Post, sampleInterval)
	defer sampler.Close()

	r := &resident{cfg: cfg, loop: loop, gate: license.NewFlag(st.FullAccess)}
	r.mgr = overlay.NewManager(overlay.Options{
		Config:    st.Render,
		License:   r.gate,
		Displays:  provider,
		Cursor:    cursor.NewSource(provider.Space),
		Sampler:   sampler,
		Platform:  platform,
		Scheduler: loop,
	})

	// Surfaces are released on the loop thread before it stops.
	shutdown := func() {
		loop.Post(func() {
			r.mgr.Deactivate()
			stopLoop()
		})
	}
	go func() {
		<-ctx.Done()
		shutdown()
	}()

	r.tray, err = tray.New(tray.Config{
		Title:          "Cursor Guide",
		Tooltip:        fmt.Sprintf("Cursor Guide - Press %s to show or hide", cfg.Hotkey),
		Hotkey:         cfg.Hotkey,
		Visible:        visible,
		OnToggle:       func() { loop.Post(r.toggle) },
		OnCopyPosition: func() { loop.Post(r.copyPosition) },
		OnReload:       func() { r.reload() },
		OnExit:         cancel,
	})
	if err != nil {
		log.Warn().Err(err).Msg("tray disabled")
	} else {
		go r.tray.Run()
		defer r.tray.Destroy()
	}

	if visible {
		loop.Post(r.show)
	}
	go provider.Watch(ctx, cfg.DisplayPoll, func([]display.Descriptor) {
		loop.Post(r.displaysChanged)
	})
	config.WatchSettings(cfg.SettingsFile, cfg.FullAccess, func(s config.Settings, err error) {
		loop.Post(func() { r.applySettings(s, err) })
	})
	r.startHotkey(ctx)
	go r.serve(ctx, srv)

	log.Info().Bool("visible", visible).Msg("cursor-guide running")
	err = loop.Run(loopCtx)
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	log.Info().Msg("cursor-guide stopped")
	return err
}

func (r *resident) startHotkey(ctx context.Context) {
	onToggle := func() { r.loop.Post(r.toggle) }
	onKey := func() { r.loop.TryPost(r.mgr.KeyDown) }

	mon, err := hotkey.NewMonitor(r.cfg.Hotkey, onToggle, onKey)
	if err != nil {
		log.Error().Err(err).Str("fallback", config.DefaultHotkey).Msg("invalid hotkey")
		if mon, err = hotkey.NewMonitor(config.DefaultHotkey, onToggle, onKey); err != nil {
			log.Error().Err(err).Msg("keyboard hook disabled")
			return
		}
	}
	go mon.Run(ctx)
}

// serve answers delegated commands until ctx is cancelled.
func (r *resident) serve(ctx context.Context, srv singleinstance.Server) {
	for {
		conn, err := srv.Next(ctx)
		if err != nil {
			return
		}
		r.answer(conn)
	}
}

func (r *resident) answer(conn singleinstance.Conn) {
	defer conn.Close()

	cmd := conn.Request().Command
	if cmd == singleinstance.CmdReload {
		r.reload()
	}

	done := make(chan commandResult, 1)
	if !r.loop.Post(func() { done <- r.execute(cmd) }) {
		_ = conn.RespondError("shutting down")
		return
	}
	select {
	case res := <-done:
		if res.err != nil {
			_ = conn.RespondError(res.err.Error())
			return
		}
		_ = conn.RespondSuccess(res.reply)
	case <-time.After(commandTimeout):
		_ = conn.RespondError("resident busy")
	}
}

// execute runs a delegated command and reports the resulting guide state.
func (r *resident) execute(cmd singleinstance.Command) commandResult {
	var err error
	switch cmd {
	case singleinstance.CmdToggle:
		err = r.mgr.Toggle()
	case singleinstance.CmdShow:
		err = r.mgr.Activate()
	case singleinstance.CmdHide:
		r.mgr.Deactivate()
	}
	r.syncTray()
	return commandResult{reply: r.state(), err: err}
}

func (r *resident) state() string {
	if r.mgr.Active() {
		return "visible"
	}
	return "hidden"
}

func (r *resident) show() {
	if err := r.mgr.Activate(); err != nil {
		log.Error().Err(err).Msg("show guide")
	}
	r.syncTray()
}

func (r *resident) toggle() {
	if err := r.mgr.Toggle(); err != nil {
		log.Error().Err(err).Msg("toggle guide")
	}
	r.syncTray()
}

func (r *resident) syncTray() {
	if r.tray != nil {
		r.tray.SetVisible(r.mgr.Active())
	}
}

func (r *resident) displaysChanged() {
	if err := r.mgr.OnDisplaysChanged(); err != nil {
		log.Error().Err(err).Msg("rebuild surfaces after display change")
	}
	r.syncTray()
}

// reload reads the settings file off the loop and applies the snapshot on it.
func (r *resident) reload() {
	s, err := config.LoadSettings(r.cfg.SettingsFile, r.cfg.FullAccess)
	r.loop.Post(func() { r.applySettings(s, err) })
}

func (r *resident) applySettings(s config.Settings, err error) {
	if err != nil {
		log.Warn().Err(err).Str("file", r.cfg.SettingsFile).Msg("settings: invalid values replaced by defaults")
	}
	r.mgr.SetConfig(s.Render)
	if r.gate.Set(s.FullAccess) {
		if err := r.mgr.OnLicenseChanged(); err != nil {
			log.Error().Err(err).Msg("apply license change")
		}
	}
	log.Info().Str("style", string(s.Render.Style)).Bool("fullAccess", s.FullAccess).Msg("settings applied")
}

func (r *resident) copyPosition() {
	p, ok := r.mgr.CursorPosition()
	if !ok {
		log.Warn().Msg("cursor position unknown")
		return
	}
	if err := clipboard.WritePosition(p); err != nil {
		log.Error().Err(err).Msg("copy cursor position")
		return
	}
	log.Info().Str("position", clipboard.FormatPosition(p)).Msg("cursor position copied")
}
