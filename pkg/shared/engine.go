// Package shared composes one child from two progress tracks: a primary
// track that brings the child in and takes it out again, and a secondary
// track that pushes it away when a newer child arrives on top of it.
//
// The pairing follows the nested page-transition model. A child that is
// entering reads its primary track; once the next child interrupts it, its
// secondary track starts from 0 while the primary keeps whatever value it
// had, so the composed visual is continuous at the moment of interruption.
package shared

import (
	"log/slog"

	"github.com/go-drift/switcher/pkg/animation"
	"github.com/go-drift/switcher/pkg/errors"
	"github.com/go-drift/switcher/pkg/graphics"
	"github.com/go-drift/switcher/pkg/transition"
)

// Phase is the externally reported state of an engine.
type Phase int

const (
	// PhaseSettled means no track is moving.
	PhaseSettled Phase = iota
	// PhaseEntering means the child is on its way in.
	PhaseEntering
	// PhaseExiting means the child is on its way out.
	PhaseExiting
)

func (p Phase) String() string {
	switch p {
	case PhaseEntering:
		return "entering"
	case PhaseExiting:
		return "exiting"
	default:
		return "settled"
	}
}

// Options configures an Engine.
type Options struct {
	// Kind selects the transition primitive.
	Kind transition.Kind

	// FillColor is painted behind the child while it exits.
	FillColor graphics.Color

	// OnPhase is called when the phase changes.
	OnPhase func(Phase)

	// Logger receives debug output. Nil discards.
	Logger *slog.Logger
}

// Layer is what the host paints for one child: Fill first, then the child,
// both under Visual.
type Layer struct {
	Visual transition.Visual
	Fill   graphics.Color
}

// Engine composes one child from a primary and a secondary track.
//
// The engine only reads the tracks. Whoever created them drives and
// disposes them.
type Engine struct {
	primary   *animation.AnimationController
	secondary *animation.AnimationController
	opts      Options
	logger    *slog.Logger

	primaryStatus   animation.AnimationStatus
	secondaryStatus animation.AnimationStatus
	phase           Phase

	unsubscribe []func()
	disposed    bool
}

// New attaches an engine to its tracks. primary is required; a nil secondary
// behaves like a track resting at 0.
func New(primary, secondary *animation.AnimationController, opts Options) (*Engine, error) {
	if primary == nil {
		return nil, &errors.ConfigError{Field: "primary", Value: nil, Reason: "track is required"}
	}
	if !opts.Kind.Valid() {
		return nil, &errors.ConfigError{Field: "Kind", Value: int(opts.Kind), Reason: "unsupported transition kind"}
	}
	logger := opts.Logger
	if logger == nil {
		logger = errors.DiscardLogger()
	}
	e := &Engine{
		primary:   primary,
		secondary: secondary,
		opts:      opts,
		logger:    logger,
	}
	e.primaryStatus = primary.Status()
	e.secondaryStatus = e.rawSecondaryStatus()
	e.phase = e.computePhase()

	e.unsubscribe = append(e.unsubscribe, primary.AddStatusListener(e.onPrimaryStatus))
	if secondary != nil {
		e.unsubscribe = append(e.unsubscribe, secondary.AddStatusListener(e.onSecondaryStatus))
	}
	return e, nil
}

// Kind returns the transition kind the engine composes with.
func (e *Engine) Kind() transition.Kind {
	return e.opts.Kind
}

// Visual returns the composed transform for the current track values.
//
// The primary track is read directly: while its effective status is
// dismissed or forward the child is entering with progress primary;
// otherwise it is exiting in reverse with progress 1 - primary. The secondary
// track is read flipped: while its flipped effective status is dismissed or
// forward the child is entering in reverse with progress 1 - secondary;
// otherwise it is exiting with progress secondary.
func (e *Engine) Visual() transition.Visual {
	kind := e.opts.Kind
	p := e.primary.Value()

	var outer transition.Visual
	if e.primaryEntering() {
		outer = transition.Compose(transition.Entering, kind, p, false)
	} else {
		outer = transition.Compose(transition.Exiting, kind, 1-p, true)
	}

	s := e.secondaryValue()
	var inner transition.Visual
	if e.secondaryEntering() {
		inner = transition.Compose(transition.Entering, kind, 1-s, true)
	} else {
		inner = transition.Compose(transition.Exiting, kind, s, false)
	}
	return outer.Then(inner)
}

// Layer returns the visual plus the fill colour, which is only set while
// the child is being pushed out.
func (e *Engine) Layer() Layer {
	l := Layer{Visual: e.Visual()}
	if e.isExiting() {
		l.Fill = e.opts.FillColor
	}
	return l
}

// Phase returns the current phase. When both tracks move, the primary
// track decides.
func (e *Engine) Phase() Phase {
	return e.phase
}

// Dispose detaches the engine from its tracks. No OnPhase call happens
// after Dispose starts.
func (e *Engine) Dispose() {
	if e.disposed {
		return
	}
	e.disposed = true
	for _, unsubscribe := range e.unsubscribe {
		unsubscribe()
	}
	e.unsubscribe = nil
}

func (e *Engine) onPrimaryStatus(raw animation.AnimationStatus) {
	if e.disposed {
		return
	}
	e.primaryStatus = effectiveStatus(e.primaryStatus, raw)
	e.updatePhase()
}

func (e *Engine) onSecondaryStatus(raw animation.AnimationStatus) {
	if e.disposed {
		return
	}
	e.secondaryStatus = effectiveStatus(e.secondaryStatus, raw)
	e.updatePhase()
}

func (e *Engine) updatePhase() {
	next := e.computePhase()
	if next == e.phase {
		return
	}
	e.phase = next
	e.logger.Debug("transition phase", "phase", next, "kind", e.opts.Kind)
	if e.opts.OnPhase != nil {
		func() {
			defer errors.Recover("shared.OnPhase")
			e.opts.OnPhase(next)
		}()
	}
}

// computePhase applies the tie-break: a moving primary decides, then a
// moving secondary, otherwise the engine is settled. It reads the raw
// statuses, so a child turned around mid-flight reports where it is headed
// even though its role is still the one it started with.
func (e *Engine) computePhase() Phase {
	primary := e.primary.Status()
	if !primary.IsTerminal() {
		if primary == animation.AnimationForward {
			return PhaseEntering
		}
		return PhaseExiting
	}
	if secondary := e.rawSecondaryStatus(); !secondary.IsTerminal() {
		if secondary.Flip() == animation.AnimationForward {
			return PhaseEntering
		}
		return PhaseExiting
	}
	return PhaseSettled
}

func (e *Engine) primaryEntering() bool {
	return e.primaryStatus == animation.AnimationDismissed || e.primaryStatus == animation.AnimationForward
}

func (e *Engine) secondaryEntering() bool {
	flipped := e.secondaryStatus.Flip()
	return flipped == animation.AnimationDismissed || flipped == animation.AnimationForward
}

func (e *Engine) isExiting() bool {
	if !e.primaryEntering() && e.primary.Value() < e.primary.UpperBound {
		return true
	}
	return !e.secondaryEntering() && e.secondaryValue() > 0
}

func (e *Engine) secondaryValue() float64 {
	if e.secondary == nil {
		return 0
	}
	return e.secondary.Value()
}

func (e *Engine) rawSecondaryStatus() animation.AnimationStatus {
	if e.secondary == nil {
		return animation.AnimationDismissed
	}
	return e.secondary.Status()
}

// effectiveStatus keeps the interpretation of a track stable while it is in
// flight. Terminal statuses always pass through. A running status replaces
// a terminal one, but while the previous effective status is running a
// change of direction is absorbed until the track comes to rest.
func effectiveStatus(last, raw animation.AnimationStatus) animation.AnimationStatus {
	if raw.IsTerminal() || last.IsTerminal() {
		return raw
	}
	return last
}
