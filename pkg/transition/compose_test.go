package transition

import (
	"math"
	"testing"

	"github.com/go-drift/switcher/pkg/graphics"
)

var allKinds = []Kind{KindFade, KindAxisVertical, KindAxisHorizontal, KindScale, KindSlide, KindInstant}

func TestCompose_SettledEnteringThenRestingExitingIsIdentity(t *testing.T) {
	for _, kind := range allKinds {
		for _, reverse := range []bool{false, true} {
			v := Compose(Entering, kind, 1, reverse).Then(Compose(Exiting, kind, 0, reverse))
			if !v.IsIdentity(1e-9) {
				t.Errorf("%v reverse=%v: got %+v, want identity", kind, reverse, v)
			}
		}
	}
}

func TestCompose_Endpoints(t *testing.T) {
	for _, kind := range allKinds {
		if kind == KindSlide {
			continue
		}
		for _, reverse := range []bool{false, true} {
			if v := Compose(Entering, kind, 0, reverse); v.Opacity != 0 {
				t.Errorf("%v entering at 0: opacity = %v, want 0", kind, v.Opacity)
			}
			if v := Compose(Exiting, kind, 1, reverse); v.Opacity != 0 {
				t.Errorf("%v exiting at 1: opacity = %v, want 0", kind, v.Opacity)
			}
		}
	}
}

func TestCompose_Axis(t *testing.T) {
	tests := []struct {
		name    string
		role    Role
		kind    Kind
		p       float64
		reverse bool
		want    graphics.Offset
	}{
		{"horizontal entering start", Entering, KindAxisHorizontal, 0, false, graphics.Offset{X: 30}},
		{"horizontal entering start reversed", Entering, KindAxisHorizontal, 0, true, graphics.Offset{X: -30}},
		{"horizontal exiting end", Exiting, KindAxisHorizontal, 1, false, graphics.Offset{X: -30}},
		{"horizontal exiting end reversed", Exiting, KindAxisHorizontal, 1, true, graphics.Offset{X: 30}},
		{"vertical entering start", Entering, KindAxisVertical, 0, false, graphics.Offset{Y: 30}},
		{"vertical exiting end", Exiting, KindAxisVertical, 1, false, graphics.Offset{Y: -30}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Compose(tt.role, tt.kind, tt.p, tt.reverse)
			if v.Translate != tt.want {
				t.Errorf("Translate = %+v, want %+v", v.Translate, tt.want)
			}
		})
	}
}

func TestCompose_AxisOpacityWindows(t *testing.T) {
	// Entering stays hidden for the first 30% of the run.
	if v := Compose(Entering, KindAxisHorizontal, 0.3, false); v.Opacity != 0 {
		t.Errorf("entering opacity at 0.3 = %v, want 0", v.Opacity)
	}
	if v := Compose(Entering, KindAxisHorizontal, 0.65, false); v.Opacity <= 0 || v.Opacity >= 1 {
		t.Errorf("entering opacity at 0.65 = %v, want in (0,1)", v.Opacity)
	}
	// Exiting is gone after the first 30%.
	if v := Compose(Exiting, KindAxisHorizontal, 0.3, false); v.Opacity != 0 {
		t.Errorf("exiting opacity at 0.3 = %v, want 0", v.Opacity)
	}
}

func TestCompose_Scale(t *testing.T) {
	tests := []struct {
		role    Role
		p       float64
		reverse bool
		want    float64
	}{
		{Entering, 0, false, 0.8},
		{Entering, 0, true, 1.1},
		{Entering, 1, false, 1},
		{Exiting, 0, false, 1},
		{Exiting, 1, false, 1.1},
		{Exiting, 1, true, 0.8},
	}
	for _, tt := range tests {
		v := Compose(tt.role, KindScale, tt.p, tt.reverse)
		if math.Abs(v.Scale-tt.want) > 1e-9 {
			t.Errorf("%v p=%v reverse=%v: Scale = %v, want %v", tt.role, tt.p, tt.reverse, v.Scale, tt.want)
		}
	}
}

func TestCompose_SlideClipsWithoutFading(t *testing.T) {
	v := Compose(Entering, KindSlide, 0.5, false)
	if !v.Clip {
		t.Error("slide should clip")
	}
	if v.Opacity != 1 {
		t.Errorf("slide opacity = %v, want 1", v.Opacity)
	}
	if v.Fraction.X <= 0 || v.Fraction.X >= 1 {
		t.Errorf("entering fraction = %v, want in (0,1)", v.Fraction.X)
	}
	if e := Compose(Exiting, KindSlide, 1, true); e.Fraction.X != 1 {
		t.Errorf("reversed exiting fraction = %v, want 1", e.Fraction.X)
	}
}

func TestCompose_ContinuousInProgress(t *testing.T) {
	const step = 1e-4
	for _, kind := range []Kind{KindFade, KindAxisHorizontal, KindScale} {
		for p := 0.0; p < 1; p += 0.05 {
			a := Compose(Exiting, kind, p, false)
			b := Compose(Exiting, kind, p+step, false)
			if math.Abs(a.Opacity-b.Opacity) > 0.01 {
				t.Fatalf("%v exiting opacity jumps at %v: %v -> %v", kind, p, a.Opacity, b.Opacity)
			}
		}
	}
}

func TestCompose_ClampsProgress(t *testing.T) {
	if Compose(Entering, KindFade, 2, false) != Compose(Entering, KindFade, 1, false) {
		t.Error("progress above 1 should clamp")
	}
	if Compose(Exiting, KindScale, -1, false) != Compose(Exiting, KindScale, 0, false) {
		t.Error("progress below 0 should clamp")
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
	}{
		{"fade", KindFade},
		{"axisVertical", KindAxisVertical},
		{"axis-horizontal", KindAxisHorizontal},
		{"SCALED", KindScale},
		{"slide", KindSlide},
		{"instant", KindInstant},
	}
	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseKind(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}

	var k Kind
	if err := k.UnmarshalText([]byte("spin")); err == nil {
		t.Error("UnmarshalText(spin) should fail")
	}
	if text, _ := KindAxisHorizontal.MarshalText(); string(text) != "axisHorizontal" {
		t.Errorf("MarshalText = %q", text)
	}
}
