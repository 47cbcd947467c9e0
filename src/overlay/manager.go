package overlay

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"cursor-guide/src/coloradapt"
	"cursor-guide/src/display"
	"cursor-guide/src/geometry"
	"cursor-guide/src/license"
	"cursor-guide/src/motion"
	"cursor-guide/src/paint"
	"cursor-guide/src/scheduler"
	"cursor-guide/src/settings"
	"cursor-guide/src/typing"
)

// Options wires a Manager to its collaborators.
type Options struct {
	Config    settings.RenderConfig
	License   license.Gate
	Displays  DisplaySource
	Cursor    motion.CursorSource
	Sampler   coloradapt.Sampler // optional; nil disables sampling
	Platform  Platform
	Scheduler scheduler.Scheduler
}

// surface is one arena entry: the platform surface and its per-display state.
type surface struct {
	desc    display.Descriptor
	surface Surface
	adapter *coloradapt.Adapter
	painter *paint.Painter

	drawn     bool
	dirty     bool
	lastAt    geometry.Point
	lastStyle settings.RenderConfig
}

// Manager is the guide engine: it owns the surfaces, the motion tracker and
// the typing suppressor. Every method must be called from the scheduler's
// thread.
type Manager struct {
	opts    Options
	cfg     settings.RenderConfig
	tracker *motion.Tracker
	typing  *typing.Suppressor

	arena    map[display.ID]*surface
	displays []display.Descriptor
	space    display.Space

	active  bool
	tick    scheduler.Timer
	refresh scheduler.Timer
}

// NewManager returns an inactive Manager.
func NewManager(opts Options) *Manager {
	m := &Manager{
		opts:    opts,
		tracker: motion.New(opts.Cursor),
		arena:   make(map[display.ID]*surface),
	}
	m.typing = typing.New(opts.Scheduler, m.onTypingStarted, m.onTypingStopped)
	m.apply(opts.Config)
	return m
}

// Active reports whether surfaces are up.
func (m *Manager) Active() bool { return m.active }

// Config returns the current configuration snapshot.
func (m *Manager) Config() settings.RenderConfig { return m.cfg }

// Surfaces returns the number of live surfaces.
func (m *Manager) Surfaces() int { return len(m.arena) }

// Activate creates one surface per permitted display and starts tracking.
// A surface that cannot be created is logged and skipped.
func (m *Manager) Activate() error {
	if m.active {
		return nil
	}
	list, err := m.opts.Displays.Displays()
	if err != nil {
		return fmt.Errorf("enumerate displays: %w", err)
	}
	m.displays = list
	m.space = m.opts.Displays.Space()

	for _, d := range m.permitted(list) {
		s, err := m.opts.Platform.CreateSurface(d)
		if err != nil {
			log.Error().Err(err).Stringer("display", d).Msg("create overlay surface")
			continue
		}
		if err := s.Show(); err != nil {
			log.Error().Err(err).Stringer("display", d).Msg("show overlay surface")
			closeSurface(s)
			continue
		}
		w, h := d.PixelSize()
		m.arena[d.ID] = &surface{
			desc:    d,
			surface: s,
			adapter: coloradapt.New(),
			painter: paint.New(w, h),
			dirty:   true,
		}
	}
	if len(m.arena) == 0 {
		log.Warn().Int("displays", len(list)).Msg("no overlay surface could be created")
	}

	m.tracker.SetDisplays(list)
	if m.tracker.Suspended() {
		m.tracker.Resume(m.opts.Scheduler.Now())
	}
	m.tracker.Restart()
	m.startTick()
	m.refresh = m.opts.Scheduler.OnDisplayRefresh(m.Redraw)
	m.typing.Configure(m.cfg.HideWhileTyping, m.cfg.TypingDelay)
	m.active = true

	log.Info().Int("surfaces", len(m.arena)).Int("displays", len(list)).Bool("fullAccess", m.fullAccess()).Msg("guide activated")
	return nil
}

// Deactivate stops every timer source, then hides and releases all surfaces.
func (m *Manager) Deactivate() {
	if !m.active {
		return
	}
	m.stopTick()
	if m.refresh != nil {
		m.refresh.Stop()
		m.refresh = nil
	}
	m.typing.Stop()

	for id, s := range m.arena {
		if err := s.surface.Hide(); err != nil {
			log.Warn().Err(err).Stringer("display", s.desc).Msg("hide overlay surface")
		}
		closeSurface(s.surface)
		delete(m.arena, id)
	}
	m.active = false
	log.Info().Msg("guide deactivated")
}

// Toggle flips between active and inactive.
func (m *Manager) Toggle() error {
	if m.active {
		m.Deactivate()
		return nil
	}
	return m.Activate()
}

// OnDisplaysChanged rebuilds every surface from a fresh enumeration.
func (m *Manager) OnDisplaysChanged() error {
	if !m.active {
		return nil
	}
	log.Info().Msg("display configuration changed, rebuilding surfaces")
	return m.rebuild()
}

// rebuild recreates every surface. Typing suppression that was in effect
// carries over so fresh surfaces stay hidden until the delay runs out.
func (m *Manager) rebuild() error {
	m.Deactivate()
	if err := m.Activate(); err != nil {
		return err
	}
	m.typing.Restore()
	return nil
}

// SetConfig replaces the configuration snapshot. Surfaces are kept; the
// tracking cycle restarts so new gliding parameters apply immediately.
func (m *Manager) SetConfig(cfg settings.RenderConfig) {
	m.apply(cfg)
	m.markDirty()
	if !m.active {
		return
	}
	m.tracker.Restart()
	m.stopTick()
	m.startTick()
	m.typing.Configure(m.cfg.HideWhileTyping, m.cfg.TypingDelay)
}

// OnLicenseChanged rebuilds when the number of permitted displays no longer
// matches the live surfaces, and only redraws otherwise.
func (m *Manager) OnLicenseChanged() error {
	if !m.active {
		return nil
	}
	if want := len(m.permitted(m.displays)); want != len(m.arena) {
		log.Info().Int("surfaces", len(m.arena)).Int("permitted", want).Msg("license changed, rebuilding surfaces")
		return m.rebuild()
	}
	m.markDirty()
	return nil
}

// KeyDown reports a key press to the typing suppressor.
func (m *Manager) KeyDown() {
	if !m.active {
		return
	}
	m.typing.KeyDown()
}

// CursorPosition returns the last polled true cursor position in desktop
// coordinates. ok is false before the first successful poll.
func (m *Manager) CursorPosition() (p geometry.Point, ok bool) {
	if !m.tracker.Initialized() {
		return geometry.Point{}, false
	}
	return m.tracker.Real(), true
}

// Redraw paints the surface of the display holding the rendered position and
// clears any other surface that still shows a guide. It is the
// display-refresh callback.
func (m *Manager) Redraw(now time.Time) {
	if p, ok := m.opts.Platform.(Pumper); ok {
		p.Pump()
	}
	if !m.active || m.typing.Suppressed() || !m.tracker.Initialized() {
		return
	}

	at := m.tracker.Rendered()
	target, found := m.tracker.DisplayAt(m.displays)
	cfg := settings.Restrict(m.cfg, m.fullAccess())
	for id, s := range m.arena {
		if !found || id != target.ID {
			if s.drawn {
				if err := s.surface.Clear(); err != nil {
					log.Warn().Err(err).Stringer("display", s.desc).Msg("clear overlay surface")
				}
				s.painter.Clear()
				s.drawn = false
			}
			continue
		}
		m.draw(s, at, cfg)
	}
}

func (m *Manager) draw(s *surface, at geometry.Point, cfg settings.RenderConfig) {
	local := s.desc.ToLocal(at)
	if scale := s.desc.Scale; scale > 0 && scale != 1 {
		local = geometry.Point{X: local.X * scale, Y: local.Y * scale}
	}

	if cfg.AdaptiveColor {
		x, y := m.space.ToScreen(m.tracker.Real())
		cfg = s.adapter.Apply(cfg, m.opts.Sampler, coloradapt.SampleRect(x, y))
	}

	if s.drawn && !s.dirty && local == s.lastAt && cfg == s.lastStyle {
		return
	}

	frame := s.painter.Frame()
	size := geometry.Size{W: float64(frame.Bounds().Dx()), H: float64(frame.Bounds().Dy())}
	scene := geometry.Build(local, size, cfg)
	s.painter.Paint(scene, cfg)
	if err := s.surface.Present(frame); err != nil {
		log.Warn().Err(err).Stringer("display", s.desc).Msg("present overlay frame")
		return
	}
	s.drawn = true
	s.dirty = false
	s.lastAt = local
	s.lastStyle = cfg
}

func (m *Manager) apply(cfg settings.RenderConfig) {
	m.cfg = cfg.Sanitize()
	m.tracker.Configure(motion.Gliding{
		Enabled: m.cfg.Gliding,
		Speed:   m.cfg.GlidingSpeed,
		Delay:   m.cfg.GlidingDelay,
	})
}

func (m *Manager) startTick() {
	m.tick = m.opts.Scheduler.Every(motion.TickInterval, func(now time.Time) {
		m.tracker.Tick(now)
	})
}

func (m *Manager) stopTick() {
	if m.tick != nil {
		m.tick.Stop()
		m.tick = nil
	}
}

func (m *Manager) markDirty() {
	for _, s := range m.arena {
		s.dirty = true
	}
}

func (m *Manager) fullAccess() bool {
	return m.opts.License == nil || m.opts.License.HasFullAccess()
}

// permitted returns every display with full access, otherwise the primary only.
func (m *Manager) permitted(list []display.Descriptor) []display.Descriptor {
	if m.fullAccess() {
		return list
	}
	if p, ok := display.Primary(list); ok {
		return []display.Descriptor{p}
	}
	return nil
}

func (m *Manager) onTypingStarted() {
	m.tracker.Suspend()
	for _, s := range m.arena {
		if err := s.surface.Hide(); err != nil {
			log.Warn().Err(err).Stringer("display", s.desc).Msg("hide overlay surface")
		}
	}
}

func (m *Manager) onTypingStopped() {
	now := m.opts.Scheduler.Now()
	m.tracker.Resume(now)
	for _, s := range m.arena {
		if err := s.surface.Show(); err != nil {
			log.Warn().Err(err).Stringer("display", s.desc).Msg("show overlay surface")
		}
		s.dirty = true
	}
	m.Redraw(now)
}

func closeSurface(s Surface) {
	if err := s.Close(); err != nil {
		log.Warn().Err(err).Msg("close overlay surface")
	}
}
