package app

import (
	"fmt"

	"raycast/diagram"
	"raycast/hal"
	"raycast/internal/buildinfo"
)

// maxEventsPerStep bounds how much queued input one Step drains.
const maxEventsPerStep = 256

// System wires a diagram to a HAL: it publishes frames to the HAL framebuffer and feeds HAL
// input to the diagram from Step.
type System struct {
	h   hal.HAL
	log hal.Logger
	cfg Config
	d   *diagram.Diagram
	in  dispatcher

	kbd <-chan hal.KeyEvent
	ptr <-chan hal.PointerEvent

	closed bool
}

// New validates cfg, builds the diagram with cfg.Points and starts its render loop.
func New(h hal.HAL, cfg Config) (*System, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	dcfg, err := cfg.DiagramConfig()
	if err != nil {
		return nil, err
	}

	log := h.Logger()
	var fb hal.Framebuffer
	if disp := h.Display(); disp != nil {
		fb = disp.Framebuffer()
	}

	d, err := diagram.New(dcfg, fb, log)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}
	for _, p := range cfg.Points {
		if err := d.AddPoint(p[0], p[1]); err != nil {
			return nil, fmt.Errorf("app: %w", err)
		}
	}

	s := &System{
		h:   h,
		log: log,
		cfg: cfg,
		d:   d,
		in:  dispatcher{d: d, log: log},
	}
	if in := h.Input(); in != nil {
		if k := in.Keyboard(); k != nil {
			s.kbd = k.Events()
		}
		if p := in.Pointer(); p != nil {
			s.ptr = p.Events()
		}
	}

	s.logf("app: raycast %s %dx%d @%dfps %s points=%d", buildinfo.Short(),
		cfg.Width, cfg.Height, cfg.FPS, d.Viewport(), len(cfg.Points))

	if err := d.Start(); err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}
	return s, nil
}

// Diagram returns the diagram driven by s.
func (s *System) Diagram() *diagram.Diagram { return s.d }

// Step drains queued input into the diagram. It returns hal.ErrQuit when the user asks to
// exit. A panic inside Step is recovered, shown on the framebuffer and returned as an error.
func (s *System) Step() (err error) {
	defer s.recoverStep(&err)

	if s.closed {
		return hal.ErrQuit
	}
	// Pointer events go first so a click and a key queued in the same step
	// apply in a fixed order.
	for i := 0; i < maxEventsPerStep; i++ {
		ev, ok := poll(s.ptr)
		if !ok {
			break
		}
		s.in.pointer(ev)
	}
	for i := 0; i < maxEventsPerStep; i++ {
		ev, ok := poll(s.kbd)
		if !ok {
			break
		}
		if err := s.in.key(ev); err != nil {
			return err
		}
	}
	return nil
}

func poll[T any](ch <-chan T) (T, bool) {
	select {
	case v := <-ch:
		return v, true
	default:
		var zero T
		return zero, false
	}
}

// Close stops the render loop and waits for it to exit. It is safe to call more than once.
func (s *System) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.d.Stop()
	<-s.d.Done()
	l := s.d.Loop()
	s.logf("app: stopped after %d frames (%d overruns, %d panics)", l.Frames(), l.Overruns(), l.Panics())
}

func (s *System) logf(format string, args ...any) {
	if s.log == nil {
		return
	}
	s.log.WriteLineString(fmt.Sprintf(format, args...))
}
