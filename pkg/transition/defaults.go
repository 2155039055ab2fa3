package transition

import (
	"sync"
	"time"

	"github.com/go-drift/switcher/pkg/animation"
	"github.com/go-drift/switcher/pkg/errors"
)

// Defaults holds the process-wide transition settings. Components read them
// when a switch starts, so changing them never affects a running track.
type Defaults struct {
	Duration time.Duration
	Curve    func(float64) float64
	Kind     Kind
}

// InitialDefaults returns the settings in effect before any SetDefaults call.
func InitialDefaults() Defaults {
	return Defaults{
		Duration: 300 * time.Millisecond,
		Curve:    animation.EaseInOut,
		Kind:     KindFade,
	}
}

// WithDuration returns a copy with the given duration.
func (d Defaults) WithDuration(duration time.Duration) Defaults {
	d.Duration = duration
	return d
}

// WithCurve returns a copy with the given curve.
func (d Defaults) WithCurve(curve func(float64) float64) Defaults {
	d.Curve = curve
	return d
}

// WithKind returns a copy with the given kind.
func (d Defaults) WithKind(kind Kind) Defaults {
	d.Kind = kind
	return d
}

// Validate reports the first invalid field as a *errors.ConfigError.
func (d Defaults) Validate() error {
	if d.Duration < 0 {
		return &errors.ConfigError{Field: "Duration", Value: d.Duration, Reason: "must not be negative"}
	}
	if !d.Kind.Valid() {
		return &errors.ConfigError{Field: "Kind", Value: int(d.Kind), Reason: "unsupported transition kind"}
	}
	return nil
}

var (
	defaultsMu sync.RWMutex
	defaults   = InitialDefaults()
)

// CurrentDefaults returns the process-wide settings.
func CurrentDefaults() Defaults {
	defaultsMu.RLock()
	defer defaultsMu.RUnlock()
	return defaults
}

// SetDefaults replaces the process-wide settings and returns the previous
// ones. A nil curve is replaced by the initial curve.
func SetDefaults(d Defaults) (Defaults, error) {
	if err := d.Validate(); err != nil {
		return CurrentDefaults(), err
	}
	if d.Curve == nil {
		d.Curve = InitialDefaults().Curve
	}
	defaultsMu.Lock()
	defer defaultsMu.Unlock()
	prev := defaults
	defaults = d
	return prev, nil
}
