package testing

import (
	"errors"
	"testing"
	"time"

	"github.com/go-drift/switcher/pkg/animation"
	"github.com/go-drift/switcher/pkg/platform"
)

// FrameDuration is the fake time that passes per frame in PumpFor and
// PumpAndSettle.
const FrameDuration = 16 * time.Millisecond

var (
	// ErrSettleTimeout is returned when PumpAndSettle exceeds its timeout.
	ErrSettleTimeout = errors.New("PumpAndSettle timed out: tickers or dispatches still pending")

	// ErrConditionTimeout is returned when PumpUntil exceeds its timeout.
	ErrConditionTimeout = errors.New("PumpUntil timed out: condition never held")
)

// Tester owns the animation clock and the dispatch queue for one test.
type Tester struct {
	clock        *FakeClock
	prevClock    animation.Clock
	prevDispatch func(callback func())
	queue        platform.Queue
	frames       int
}

// NewTester creates a tester and installs its clock and dispatcher.
// Call Cleanup() when done, or use NewTesterWithT() instead.
func NewTester() *Tester {
	t := &Tester{clock: NewFakeClock()}
	t.prevClock = animation.SetClock(t.clock)
	t.prevDispatch = platform.RegisterDispatch(t.Dispatch)
	return t
}

// NewTesterWithT creates a tester that auto-cleans up via t.Cleanup().
// This is the recommended constructor for tests.
func NewTesterWithT(t testing.TB) *Tester {
	tester := NewTester()
	t.Cleanup(tester.Cleanup)
	return tester
}

// Cleanup restores the animation clock and the previous dispatcher.
func (t *Tester) Cleanup() {
	animation.SetClock(t.prevClock)
	platform.RegisterDispatch(t.prevDispatch)
}

// Clock returns the fake clock for advancing time in tests.
func (t *Tester) Clock() *FakeClock {
	return t.clock
}

// Frames returns the number of frames pumped so far.
func (t *Tester) Frames() int {
	return t.frames
}

// Dispatch queues a callback for the next frame. Safe from any goroutine.
func (t *Tester) Dispatch(fn func()) {
	t.queue.Push(fn)
}

// Pending returns the number of queued dispatches.
func (t *Tester) Pending() int {
	return t.queue.Len()
}

// Pump runs a single frame: queued dispatches first, then tickers.
func (t *Tester) Pump() {
	t.queue.Drain()
	animation.StepTickers()
	t.frames++
}

// PumpFor advances the clock by d in frame-sized steps, pumping each frame.
func (t *Tester) PumpFor(d time.Duration) {
	for d > 0 {
		step := min(FrameDuration, d)
		t.clock.Advance(step)
		t.Pump()
		d -= step
	}
}

// PumpAndSettle runs frames until no ticker is active and no dispatch is
// queued, or the fake timeout is reached. Each frame advances the clock by
// FrameDuration.
func (t *Tester) PumpAndSettle(timeout time.Duration) error {
	var elapsed time.Duration
	for elapsed <= timeout {
		t.Pump()
		if !t.needsWork() {
			return nil
		}
		t.clock.Advance(FrameDuration)
		elapsed += FrameDuration
	}
	return ErrSettleTimeout
}

// PumpUntil pumps frames until cond reports true. Unlike PumpAndSettle the
// timeout is wall time, because the awaited work usually runs on another
// goroutine. The fake clock advances by FrameDuration between frames.
func (t *Tester) PumpUntil(cond func() bool, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		t.Pump()
		if cond() {
			return nil
		}
		if time.Now().After(deadline) {
			return ErrConditionTimeout
		}
		t.clock.Advance(FrameDuration)
		time.Sleep(time.Millisecond)
	}
}

func (t *Tester) needsWork() bool {
	return animation.HasActiveTickers() || t.queue.Len() > 0
}
