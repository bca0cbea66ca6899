package diagram

import (
	"fmt"
	"runtime/debug"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"raycast/hal"
)

// DefaultPeriod is the frame period for 40 frames per second.
const DefaultPeriod = time.Second / 40

// LoopState is the lifecycle state of a Loop.
type LoopState uint32

const (
	LoopIdle LoopState = iota
	LoopRunning
	LoopStopped
)

func (s LoopState) String() string {
	switch s {
	case LoopIdle:
		return "idle"
	case LoopRunning:
		return "running"
	case LoopStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Loop calls a frame function once per period on a single background goroutine.
//
// A frame that has started always runs to completion. Stop only prevents further frames;
// the stop flag is checked once per tick.
type Loop struct {
	period time.Duration
	frame  func()
	log    hal.Logger

	mu    sync.Mutex
	state atomic.Uint32
	stop  chan struct{}
	done  chan struct{}

	frames  atomic.Uint64
	overrun atomic.Uint64
	panics  atomic.Uint64
}

// NewLoop returns an idle loop. A non-positive period selects DefaultPeriod.
func NewLoop(period time.Duration, frame func(), log hal.Logger) *Loop {
	if period <= 0 {
		period = DefaultPeriod
	}
	return &Loop{
		period: period,
		frame:  frame,
		log:    log,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

func (l *Loop) Period() time.Duration { return l.period }
func (l *Loop) State() LoopState      { return LoopState(l.state.Load()) }

// Frames returns the number of completed frames.
func (l *Loop) Frames() uint64 { return l.frames.Load() }

// Overruns returns the number of frames that took longer than the period.
func (l *Loop) Overruns() uint64 { return l.overrun.Load() }

// Panics returns the number of frames that panicked and were recovered.
func (l *Loop) Panics() uint64 { return l.panics.Load() }

// Done is closed once the loop goroutine has exited, or on Stop of a loop never started.
func (l *Loop) Done() <-chan struct{} { return l.done }

// Start moves the loop from idle to running.
func (l *Loop) Start() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	switch l.State() {
	case LoopRunning:
		return ErrLoopRunning
	case LoopStopped:
		return ErrLoopStopped
	}
	l.state.Store(uint32(LoopRunning))
	go l.run()
	return nil
}

// Stop moves the loop to its terminal stopped state. It is safe to call more than once.
func (l *Loop) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	prev := l.State()
	if prev == LoopStopped {
		return
	}
	l.state.Store(uint32(LoopStopped))
	close(l.stop)
	if prev == LoopIdle {
		close(l.done)
	}
}

func (l *Loop) run() {
	defer close(l.done)

	t := time.NewTicker(l.period)
	defer t.Stop()

	for {
		select {
		case <-l.stop:
			return
		case <-t.C:
			if l.State() != LoopRunning {
				return
			}
			l.tick()
		}
	}
}

func (l *Loop) tick() {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			l.panics.Add(1)
			l.logf("loop: frame panic: %v", r)
			for _, line := range strings.Split(strings.TrimSpace(string(debug.Stack())), "\n") {
				l.logf("loop:   %s", line)
			}
			return
		}
		l.frames.Add(1)
		if d := time.Since(start); d > l.period {
			// The ticker drops the ticks we missed; the next frame runs on schedule.
			l.overrun.Add(1)
			l.logf("loop: frame took %v (period %v)", d.Round(time.Microsecond), l.period)
		}
	}()
	if l.frame != nil {
		l.frame()
	}
}

func (l *Loop) logf(format string, args ...any) {
	if l.log == nil {
		return
	}
	l.log.WriteLineString(fmt.Sprintf(format, args...))
}
