package animation

import (
	"fmt"
	"math"
	"time"

	"github.com/go-drift/switcher/pkg/errors"
)

// AnimationStatus represents the current state of an animation.
//
// The status follows this state machine:
//
//	                Forward()
//	Dismissed ──────────────────► Completed
//	    ▲                              │
//	    │         Reverse()            │
//	    └──────────────────────────────┘
//
// While animating, status is AnimationForward or AnimationReverse.
// When stopped, status is AnimationDismissed (at 0) or AnimationCompleted (at 1).
type AnimationStatus int

const (
	// AnimationDismissed means the animation is stopped at the lower bound (0.0).
	AnimationDismissed AnimationStatus = iota
	// AnimationForward means the animation is playing toward the upper bound (1.0).
	AnimationForward
	// AnimationReverse means the animation is playing toward the lower bound (0.0).
	AnimationReverse
	// AnimationCompleted means the animation is stopped at the upper bound (1.0).
	AnimationCompleted
)

// String returns a human-readable representation of the animation status.
func (s AnimationStatus) String() string {
	switch s {
	case AnimationDismissed:
		return "dismissed"
	case AnimationForward:
		return "forward"
	case AnimationReverse:
		return "reverse"
	case AnimationCompleted:
		return "completed"
	default:
		return fmt.Sprintf("AnimationStatus(%d)", int(s))
	}
}

// IsTerminal reports whether the status is dismissed or completed.
func (s AnimationStatus) IsTerminal() bool {
	return s == AnimationDismissed || s == AnimationCompleted
}

// Flip mirrors the status for a track read as 1 - value.
func (s AnimationStatus) Flip() AnimationStatus {
	switch s {
	case AnimationDismissed:
		return AnimationCompleted
	case AnimationCompleted:
		return AnimationDismissed
	case AnimationForward:
		return AnimationReverse
	case AnimationReverse:
		return AnimationForward
	default:
		return s
	}
}

// AnimationController is a progress track: a value between LowerBound and
// UpperBound with a direction and a status.
//
// The value is only written by the controller itself, either from ticks
// ([Forward], [Reverse], [AnimateTo]) or from direct seeks ([Seek]). Any
// number of listeners may observe it. A run that is interrupted and
// restarted keeps the current value and scales its duration to the distance
// left, so motion resumes instead of jumping.
//
// Always call Dispose when done to stop the animation and release listeners.
type AnimationController struct {
	// Duration is the length of a full lower-to-upper run.
	Duration time.Duration

	// ReverseDuration, if non-zero, is used for runs toward the lower bound.
	ReverseDuration time.Duration

	// Curve transforms linear progress (optional).
	Curve func(float64) float64

	// LowerBound is the minimum value (default 0.0).
	LowerBound float64

	// UpperBound is the maximum value (default 1.0).
	UpperBound float64

	value           float64
	status          AnimationStatus
	direction       AnimationStatus
	ticker          *Ticker
	target          float64
	startValue      float64
	runDuration     time.Duration
	listeners       map[int]func()
	statusListeners map[int]func(AnimationStatus)
	nextListenerID  int
	notifying       bool
	disposed        bool
}

// NewAnimationController creates an animation controller with the given duration.
func NewAnimationController(duration time.Duration) *AnimationController {
	return &AnimationController{
		Duration:        duration,
		LowerBound:      0,
		UpperBound:      1,
		Curve:           LinearCurve,
		status:          AnimationDismissed,
		direction:       AnimationForward,
		listeners:       make(map[int]func()),
		statusListeners: make(map[int]func(AnimationStatus)),
	}
}

// Value returns the current value.
func (c *AnimationController) Value() float64 {
	return c.value
}

// Forward animates from the current value to the upper bound.
func (c *AnimationController) Forward() {
	c.direction = AnimationForward
	c.animateTo(c.UpperBound)
}

// ForwardFrom jumps to from and then animates to the upper bound.
func (c *AnimationController) ForwardFrom(from float64) {
	c.Stop()
	c.setValue(from)
	c.Forward()
}

// Reverse animates from the current value to the lower bound.
func (c *AnimationController) Reverse() {
	c.direction = AnimationReverse
	c.animateTo(c.LowerBound)
}

// AnimateTo animates to a specific target value.
func (c *AnimationController) AnimateTo(target float64) {
	if target >= c.value {
		c.direction = AnimationForward
	} else {
		c.direction = AnimationReverse
	}
	c.animateTo(c.clamp(target))
}

func (c *AnimationController) animateTo(target float64) {
	if c.disposed {
		return
	}
	c.Stop()

	distance := math.Abs(target - c.value)
	span := c.UpperBound - c.LowerBound
	duration := c.Duration
	if c.direction == AnimationReverse && c.ReverseDuration > 0 {
		duration = c.ReverseDuration
	}
	if span > 0 && distance < span {
		duration = time.Duration(float64(duration) * distance / span)
	}

	if distance == 0 || duration <= 0 {
		c.setValue(target)
		c.settle()
		return
	}

	c.target = target
	c.startValue = c.value
	c.runDuration = duration
	c.setStatus(c.direction)

	c.ticker = NewTicker(c.tick)
	c.ticker.Start()
}

func (c *AnimationController) tick(elapsed time.Duration) {
	progress := float64(elapsed) / float64(c.runDuration)
	if progress >= 1.0 {
		progress = 1.0
	}

	eased := progress
	if c.Curve != nil {
		eased = c.Curve(progress)
	}
	c.setValue(c.startValue + (c.target-c.startValue)*eased)

	if progress >= 1.0 {
		c.setValue(c.target)
		c.Stop()
		c.settle()
	}
}

// settle derives the resting status from the value.
func (c *AnimationController) settle() {
	switch {
	case c.value <= c.LowerBound:
		c.setStatus(AnimationDismissed)
	case c.value >= c.UpperBound:
		c.setStatus(AnimationCompleted)
	default:
		c.setStatus(c.direction)
	}
}

// Seek stops any run and sets the value directly. The status becomes
// dismissed or completed at the bounds and the last direction otherwise.
//
// Seeking from inside one of this controller's own value listeners is a
// contract violation and is ignored.
func (c *AnimationController) Seek(value float64) {
	if c.disposed {
		return
	}
	if !errors.Assert(!c.notifying, "animation.Seek", "seek from inside the track's own listener") {
		return
	}
	c.Stop()
	c.setValue(c.clamp(value))
	c.settle()
}

// SeekWithDirection is Seek with an explicit direction for non-terminal
// values. dir must be AnimationForward or AnimationReverse.
func (c *AnimationController) SeekWithDirection(value float64, dir AnimationStatus) {
	if dir == AnimationForward || dir == AnimationReverse {
		c.direction = dir
	}
	c.Seek(value)
}

// Reset immediately sets the value to the lower bound.
func (c *AnimationController) Reset() {
	c.direction = AnimationForward
	c.Seek(c.LowerBound)
}

// Stop stops the animation at the current value.
func (c *AnimationController) Stop() {
	if c.ticker != nil {
		c.ticker.Stop()
		c.ticker = nil
	}
}

// Status returns the current animation status.
func (c *AnimationController) Status() AnimationStatus {
	return c.status
}

// Direction returns AnimationForward or AnimationReverse, the direction of
// the last run or directed seek.
func (c *AnimationController) Direction() AnimationStatus {
	return c.direction
}

// IsAnimating returns true if a run is in progress.
func (c *AnimationController) IsAnimating() bool {
	return c.ticker != nil && c.ticker.IsActive()
}

// IsCompleted returns true if the animation finished at the upper bound.
func (c *AnimationController) IsCompleted() bool {
	return c.status == AnimationCompleted
}

// IsDismissed returns true if the animation is at the lower bound.
func (c *AnimationController) IsDismissed() bool {
	return c.status == AnimationDismissed
}

// AddListener adds a callback that fires whenever the value changes.
// Returns an unsubscribe function.
func (c *AnimationController) AddListener(fn func()) func() {
	if c.disposed {
		return func() {}
	}
	id := c.nextListenerID
	c.nextListenerID++
	c.listeners[id] = fn
	return func() {
		delete(c.listeners, id)
	}
}

// AddStatusListener adds a callback that fires whenever the status changes.
// Returns an unsubscribe function.
func (c *AnimationController) AddStatusListener(fn func(AnimationStatus)) func() {
	if c.disposed {
		return func() {}
	}
	id := c.nextListenerID
	c.nextListenerID++
	c.statusListeners[id] = fn
	return func() {
		delete(c.statusListeners, id)
	}
}

func (c *AnimationController) clamp(v float64) float64 {
	return math.Max(c.LowerBound, math.Min(c.UpperBound, v))
}

func (c *AnimationController) setValue(v float64) {
	if v == c.value {
		return
	}
	c.value = v
	c.notifyListeners()
}

func (c *AnimationController) setStatus(status AnimationStatus) {
	if c.status == status {
		return
	}
	c.status = status
	for id, listener := range c.statusListeners {
		if c.disposed {
			return
		}
		if _, ok := c.statusListeners[id]; !ok {
			continue
		}
		listener(status)
	}
}

func (c *AnimationController) notifyListeners() {
	c.notifying = true
	defer func() { c.notifying = false }()
	for id, listener := range c.listeners {
		if c.disposed {
			return
		}
		if _, ok := c.listeners[id]; !ok {
			continue
		}
		listener()
	}
}

// Dispose stops the controller and detaches every listener. No callback
// fires after Dispose starts.
func (c *AnimationController) Dispose() {
	c.Stop()
	c.disposed = true
	c.listeners = map[int]func(){}
	c.statusListeners = map[int]func(AnimationStatus){}
}

// IsDisposed reports whether Dispose has been called.
func (c *AnimationController) IsDisposed() bool {
	return c.disposed
}
