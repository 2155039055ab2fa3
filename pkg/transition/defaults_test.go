package transition

import (
	"testing"
	"time"

	"github.com/go-drift/switcher/pkg/animation"
	"github.com/go-drift/switcher/pkg/errors"
)

func TestSetDefaults(t *testing.T) {
	initial := InitialDefaults()
	t.Cleanup(func() { SetDefaults(initial) })

	next := initial.WithDuration(150 * time.Millisecond).WithKind(KindScale).WithCurve(nil)
	prev, err := SetDefaults(next)
	if err != nil {
		t.Fatalf("SetDefaults() error = %v", err)
	}
	if prev.Duration != initial.Duration || prev.Kind != initial.Kind {
		t.Errorf("previous = %+v, want %+v", prev, initial)
	}

	got := CurrentDefaults()
	if got.Duration != 150*time.Millisecond || got.Kind != KindScale {
		t.Errorf("CurrentDefaults() = %+v", got)
	}
	if got.Curve == nil || got.Curve(0.5) != animation.EaseInOut(0.5) {
		t.Error("nil curve should fall back to the initial curve")
	}
}

func TestSetDefaults_Invalid(t *testing.T) {
	before := CurrentDefaults()
	_, err := SetDefaults(before.WithDuration(-time.Second))
	if !errors.IsConfig(err) {
		t.Fatalf("error = %v, want ConfigError", err)
	}
	if CurrentDefaults().Duration != before.Duration {
		t.Error("invalid defaults were applied")
	}
}
