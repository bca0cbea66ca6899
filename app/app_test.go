package app

import (
	"errors"
	"image/color"
	"strings"
	"sync"
	"testing"
	"time"

	"raycast/diagram"
	"raycast/hal"
)

type fakeLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *fakeLogger) WriteLineString(s string) {
	l.mu.Lock()
	l.lines = append(l.lines, s)
	l.mu.Unlock()
}

func (l *fakeLogger) WriteLineBytes(b []byte) { l.WriteLineString(string(b)) }

func (l *fakeLogger) contains(sub string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, s := range l.lines {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

type fakeFramebuffer struct {
	w, h int

	mu    sync.Mutex
	front []byte
	count int
}

func (f *fakeFramebuffer) Width() int              { return f.w }
func (f *fakeFramebuffer) Height() int             { return f.h }
func (f *fakeFramebuffer) Format() hal.PixelFormat { return hal.PixelFormatRGBA8888 }
func (f *fakeFramebuffer) StrideBytes() int        { return f.w * 4 }

func (f *fakeFramebuffer) Present(src []byte) error {
	if len(src) != f.w*f.h*4 {
		return hal.ErrFrameSize
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.front == nil {
		f.front = make([]byte, len(src))
	}
	copy(f.front, src)
	f.count++
	return nil
}

func (f *fakeFramebuffer) at(x, y int) color.RGBA {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.front == nil {
		return color.RGBA{}
	}
	off := y*f.w*4 + x*4
	return color.RGBA{R: f.front[off], G: f.front[off+1], B: f.front[off+2], A: f.front[off+3]}
}

type fakeKeyboard struct{ ch chan hal.KeyEvent }

func (k fakeKeyboard) Events() <-chan hal.KeyEvent { return k.ch }

type fakePointer struct{ ch chan hal.PointerEvent }

func (p fakePointer) Events() <-chan hal.PointerEvent { return p.ch }

type fakeHAL struct {
	log *fakeLogger
	fb  *fakeFramebuffer
	kbd fakeKeyboard
	ptr fakePointer
}

func newFakeHAL(w, h int) *fakeHAL {
	return &fakeHAL{
		log: &fakeLogger{},
		fb:  &fakeFramebuffer{w: w, h: h},
		kbd: fakeKeyboard{ch: make(chan hal.KeyEvent, 16)},
		ptr: fakePointer{ch: make(chan hal.PointerEvent, 16)},
	}
}

func (h *fakeHAL) Logger() hal.Logger   { return h.log }
func (h *fakeHAL) Display() hal.Display { return h }
func (h *fakeHAL) Input() hal.Input     { return h }

func (h *fakeHAL) Framebuffer() hal.Framebuffer { return h.fb }
func (h *fakeHAL) Keyboard() hal.Keyboard       { return h.kbd }
func (h *fakeHAL) Pointer() hal.Pointer         { return h.ptr }

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}

func newTestSystem(t *testing.T, h *fakeHAL, cfg Config) *System {
	t.Helper()
	s, err := New(h, cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

func TestSystemPublishesConfiguredPoints(t *testing.T) {
	h := newFakeHAL(704, 480)
	cfg := DefaultConfig()
	cfg.FPS = 200
	cfg.Points = [][2]float64{{0, 0}}
	newTestSystem(t, h, cfg)

	waitFor(t, "origin point on the framebuffer", func() bool {
		return h.fb.at(352, 240) == diagram.ColorHighlight
	})
	if !h.log.contains("app: raycast") {
		t.Fatalf("log = %q, want startup line", h.log.lines)
	}
}

func TestSystemStepDispatchesInput(t *testing.T) {
	h := newFakeHAL(704, 480)
	s := newTestSystem(t, h, DefaultConfig())

	h.ptr.ch <- hal.PointerEvent{Kind: hal.PointerClick, X: 528, Y: 120}
	for _, r := range "a0.5, -1" {
		h.kbd.ch <- hal.KeyEvent{Press: true, Rune: r}
	}
	if err := s.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	h.kbd.ch <- hal.KeyEvent{Code: hal.KeyEnter, Press: true}
	if err := s.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}

	d := s.Diagram()
	if c := d.Viewport().Center(); c != (diagram.Point{X: 5, Y: 5}) {
		t.Fatalf("center = %+v, want (5,5)", c)
	}
	if figs := d.Figures(); len(figs) != 1 || figs[0].Vertices()[0] != (diagram.Point{X: 0.5, Y: -1}) {
		t.Fatalf("figures = %+v", figs)
	}
	if !h.log.contains("app: added point (0.5, -1)") {
		t.Fatalf("log = %q, want added point line", h.log.lines)
	}

	h.kbd.ch <- hal.KeyEvent{Press: true, Rune: 'q'}
	if err := s.Step(); !errors.Is(err, hal.ErrQuit) {
		t.Fatalf("Step = %v, want ErrQuit", err)
	}
}

func TestSystemStepAppliesPointerBeforeKeys(t *testing.T) {
	h := newFakeHAL(704, 480)
	s := newTestSystem(t, h, DefaultConfig())
	d := s.Diagram()

	for i := 0; i < 50; i++ {
		h.ptr.ch <- hal.PointerEvent{Kind: hal.PointerClick, X: 528, Y: 120}
		h.kbd.ch <- hal.KeyEvent{Press: true, Rune: 'c'}
		if err := s.Step(); err != nil {
			t.Fatalf("Step: %v", err)
		}
		if d.Viewport() != diagram.DefaultViewport() {
			t.Fatalf("step %d: viewport = %v, want default after click then recenter", i, d.Viewport())
		}
	}
}

func TestSystemCloseStopsLoop(t *testing.T) {
	h := newFakeHAL(64, 48)
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 64, 48
	s := newTestSystem(t, h, cfg)

	s.Close()
	s.Close()
	if st := s.Diagram().Loop().State(); st != diagram.LoopStopped {
		t.Fatalf("loop state = %v, want stopped", st)
	}
	if err := s.Step(); !errors.Is(err, hal.ErrQuit) {
		t.Fatalf("Step after Close = %v, want ErrQuit", err)
	}
	if !h.log.contains("app: stopped after") {
		t.Fatalf("log = %q, want stop line", h.log.lines)
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	h := newFakeHAL(704, 480)
	cfg := DefaultConfig()
	cfg.FPS = 0
	if _, err := New(h, cfg); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("New err = %v, want ErrInvalidConfig", err)
	}

	cfg = DefaultConfig()
	cfg.Width = 100
	if _, err := New(h, cfg); !errors.Is(err, diagram.ErrSurfaceSize) {
		t.Fatalf("New err = %v, want ErrSurfaceSize", err)
	}
}

func TestStepPanicShowsPanicScreen(t *testing.T) {
	h := newFakeHAL(200, 120)
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 200, 120
	s := newTestSystem(t, h, cfg)

	// A dispatcher without a diagram panics on the first pointer event.
	s.in.d = nil
	h.ptr.ch <- hal.PointerEvent{Kind: hal.PointerMove, X: 1, Y: 1}

	err := s.Step()
	if err == nil || !strings.Contains(err.Error(), "step panic") {
		t.Fatalf("Step = %v, want step panic error", err)
	}
	if !h.log.contains("app: panic:") {
		t.Fatalf("log = %q, want panic line", h.log.lines)
	}
	if got := h.fb.at(199, 119); got != panicBackground {
		t.Fatalf("corner pixel = %v, want panic background", got)
	}
	if err := s.Step(); !errors.Is(err, hal.ErrQuit) {
		t.Fatalf("Step after panic = %v, want ErrQuit", err)
	}
}

func TestTakeRunes(t *testing.T) {
	p, r := takeRunes("héllo", 2)
	if p != "hé" || r != "llo" {
		t.Fatalf("takeRunes = %q, %q", p, r)
	}
	p, r = takeRunes("ab", 5)
	if p != "ab" || r != "" {
		t.Fatalf("takeRunes = %q, %q", p, r)
	}
}
