package switcher

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-drift/switcher/pkg/errors"
	"github.com/go-drift/switcher/pkg/graphics"
	"github.com/go-drift/switcher/pkg/shared"
	"github.com/go-drift/switcher/pkg/transition"
)

// GatePolicy selects what stays on screen while a switch is gated.
type GatePolicy int

const (
	// GateShowPlaceholder switches to the placeholder right away.
	GateShowPlaceholder GatePolicy = iota
	// GateKeepPrevious leaves the current child up until the gate clears.
	GateKeepPrevious
)

func (p GatePolicy) String() string {
	if p == GateKeepPrevious {
		return "keepPrevious"
	}
	return "showPlaceholder"
}

// Options configures a Coordinator. The zero value is usable: kind,
// duration and curve then come from transition.CurrentDefaults, read each
// time a switch starts.
//
// Options is a value type. The With methods return modified copies.
type Options struct {
	// Kind selects the transition. Nil uses the process-wide default.
	Kind *transition.Kind

	// Duration of one switch. Zero uses the process-wide default.
	Duration time.Duration

	// Curve eases both tracks. Nil uses the process-wide default.
	Curve func(float64) float64

	// Delay holds a switch back on the frame clock before it starts.
	Delay time.Duration

	// ShouldDelay decides per request whether Delay and Await apply.
	// Nil gates every request when Delay or Await is set.
	ShouldDelay func(prev, next *Child) bool

	// Await holds a switch back until it returns. It runs on its own
	// goroutine; ctx is cancelled when a newer request supersedes next.
	Await func(ctx context.Context, next *Child) error

	// SkipGateOnFirstMount mounts the very first child without gating.
	SkipGateOnFirstMount bool

	// GatePolicy selects what is shown while a switch is gated.
	GatePolicy GatePolicy

	// Placeholder is drawn while gated under GateShowPlaceholder. Its key
	// is replaced with PlaceholderKey. Nil draws nothing.
	Placeholder *Child

	// FillColor is painted behind a child while it exits.
	FillColor graphics.Color

	// Alignment positions children inside the switcher's bounds.
	Alignment graphics.Alignment

	// RepaintBoundary asks the host to isolate each layer.
	RepaintBoundary bool

	// InheritComposition multiplies every layer with ParentScope.Effective.
	InheritComposition bool

	// ParentScope is the ancestor composition scope.
	ParentScope *transition.Scope

	// OnPhase reports entering, exiting and settled.
	OnPhase func(shared.Phase)

	// Logger receives debug and warning output. Nil discards.
	Logger *slog.Logger

	// Dispatch posts work back to the UI thread. Nil uses platform.Dispatch.
	Dispatch func(callback func())
}

// DefaultOptions returns options that follow the process-wide defaults.
func DefaultOptions() Options {
	return Options{}
}

// WithKind returns a copy using kind.
func (o Options) WithKind(kind transition.Kind) Options {
	o.Kind = &kind
	return o
}

// WithDuration returns a copy using duration.
func (o Options) WithDuration(duration time.Duration) Options {
	o.Duration = duration
	return o
}

// WithCurve returns a copy using curve.
func (o Options) WithCurve(curve func(float64) float64) Options {
	o.Curve = curve
	return o
}

// WithDelay returns a copy that delays switches by delay.
func (o Options) WithDelay(delay time.Duration) Options {
	o.Delay = delay
	return o
}

// WithShouldDelay returns a copy using the given gating predicate.
func (o Options) WithShouldDelay(fn func(prev, next *Child) bool) Options {
	o.ShouldDelay = fn
	return o
}

// WithAwait returns a copy that waits for fn before switching.
func (o Options) WithAwait(fn func(ctx context.Context, next *Child) error) Options {
	o.Await = fn
	return o
}

// WithSkipGateOnFirstMount returns a copy with first-mount gating toggled.
func (o Options) WithSkipGateOnFirstMount(skip bool) Options {
	o.SkipGateOnFirstMount = skip
	return o
}

// WithGatePolicy returns a copy using policy.
func (o Options) WithGatePolicy(policy GatePolicy) Options {
	o.GatePolicy = policy
	return o
}

// WithPlaceholder returns a copy showing payload while gated.
func (o Options) WithPlaceholder(payload any) Options {
	o.Placeholder = Tag(PlaceholderKey, payload)
	return o
}

// WithFillColor returns a copy using color behind exiting children.
func (o Options) WithFillColor(color graphics.Color) Options {
	o.FillColor = color
	return o
}

// WithAlignment returns a copy using alignment.
func (o Options) WithAlignment(alignment graphics.Alignment) Options {
	o.Alignment = alignment
	return o
}

// WithRepaintBoundary returns a copy with repaint isolation toggled.
func (o Options) WithRepaintBoundary(enabled bool) Options {
	o.RepaintBoundary = enabled
	return o
}

// WithParentScope returns a copy that composes with scope.
func (o Options) WithParentScope(scope *transition.Scope) Options {
	o.ParentScope = scope
	o.InheritComposition = true
	return o
}

// WithOnPhase returns a copy reporting phases to fn.
func (o Options) WithOnPhase(fn func(shared.Phase)) Options {
	o.OnPhase = fn
	return o
}

// WithLogger returns a copy logging to logger.
func (o Options) WithLogger(logger *slog.Logger) Options {
	o.Logger = logger
	return o
}

// WithDispatch returns a copy posting resumed work through fn.
func (o Options) WithDispatch(fn func(callback func())) Options {
	o.Dispatch = fn
	return o
}

// Validate reports the first invalid field as a *errors.ConfigError.
func (o Options) Validate() error {
	if o.Kind != nil && !o.Kind.Valid() {
		return &errors.ConfigError{Field: "Kind", Value: int(*o.Kind), Reason: "unsupported transition kind"}
	}
	if o.Duration < 0 {
		return &errors.ConfigError{Field: "Duration", Value: o.Duration, Reason: "must not be negative"}
	}
	if o.Delay < 0 {
		return &errors.ConfigError{Field: "Delay", Value: o.Delay, Reason: "must not be negative"}
	}
	if o.GatePolicy != GateShowPlaceholder && o.GatePolicy != GateKeepPrevious {
		return &errors.ConfigError{Field: "GatePolicy", Value: int(o.GatePolicy), Reason: "unknown gate policy"}
	}
	if o.InheritComposition && o.ParentScope == nil {
		return &errors.ConfigError{Field: "ParentScope", Value: nil, Reason: "required when InheritComposition is set"}
	}
	return nil
}

// gated reports whether a request is held back.
func (o Options) gated() bool {
	return o.Delay > 0 || o.Await != nil
}
