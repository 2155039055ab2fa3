package scenario

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/go-drift/switcher/pkg/errors"
	"github.com/go-drift/switcher/pkg/transition"
)

const switchDoc = `
name: fade between two children
kind: fade
duration: 200ms
curve: linear
steps:
  - at: 100ms
    child: b
  - at: 0s
    child: a
`

func TestParse(t *testing.T) {
	sc, err := Parse([]byte(switchDoc))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if sc.Mode != ModeSwitcher {
		t.Errorf("Mode = %q, want default switcher", sc.Mode)
	}
	if sc.Kind == nil || *sc.Kind != transition.KindFade {
		t.Errorf("Kind = %v, want fade", sc.Kind)
	}
	if sc.Duration != 200*time.Millisecond {
		t.Errorf("Duration = %v", sc.Duration)
	}
	if len(sc.Steps) != 2 || sc.Steps[0].Child != "a" || sc.Steps[1].Child != "b" {
		t.Errorf("Steps = %+v, want sorted by at", sc.Steps)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"mode", "mode: carousel\nsteps: []\n"},
		{"kind", "kind: spin\nsteps: []\n"},
		{"child and clear", "steps:\n  - at: 0s\n    child: a\n    clear: true\n"},
		{"empty step", "steps:\n  - at: 0s\n"},
		{"position in switcher", "steps:\n  - at: 0s\n    position: 0.5\n"},
		{"no pages", "mode: pager\nsteps:\n  - at: 0s\n    position: 0.5\n"},
		{"child in pager", "mode: pager\npages: 2\nsteps:\n  - at: 0s\n    child: a\n"},
		{"negative at", "steps:\n  - at: -1s\n    child: a\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			if err == nil {
				t.Fatal("Parse() error = nil")
			}
			if !errors.IsConfig(err) {
				t.Errorf("err = %v, want a ConfigError", err)
			}
		})
	}
	if _, err := Parse([]byte("speed: 3\n")); err == nil {
		t.Error("unknown field accepted")
	}
}

func TestReplay_Switcher(t *testing.T) {
	sc, err := Parse([]byte(switchDoc))
	if err != nil {
		t.Fatal(err)
	}
	frames, err := Replay(sc, nil)
	if err != nil {
		t.Fatalf("Replay() error = %v", err)
	}

	first := frames[0]
	if len(first.Layers) != 1 || first.Layers[0].Key != "a" || first.Layers[0].Opacity != 1 {
		t.Errorf("first frame = %+v, want a at rest", first)
	}

	var switched *Frame
	for i := range frames {
		if len(frames[i].Applied) > 0 && frames[i].Applied[0] == "child b" {
			switched = &frames[i]
			break
		}
	}
	if switched == nil {
		t.Fatal("no frame applied child b")
	}
	if switched.State != "transitioning" || len(switched.Layers) != 2 {
		t.Errorf("switch frame = %+v, want two layers transitioning", switched)
	}

	last := frames[len(frames)-1]
	if last.State != "showingCurrent" || last.Phase != "settled" {
		t.Errorf("last frame state = %s/%s", last.State, last.Phase)
	}
	if len(last.Layers) != 1 || last.Layers[0].Key != "b" || last.Layers[0].Opacity != 1 {
		t.Errorf("last frame layers = %+v, want b at rest", last.Layers)
	}
	if last.At < 300*time.Millisecond {
		t.Errorf("replay ended at %v, before the switch could settle", last.At)
	}
}

func TestReplay_Pager(t *testing.T) {
	sc, err := Parse([]byte(`
mode: pager
pages: 3
kind: fade
duration: 160ms
curve: linear
steps:
  - at: 0s
    position: 0.5
  - at: 32ms
    page: 2
`))
	if err != nil {
		t.Fatal(err)
	}
	frames, err := Replay(sc, nil)
	if err != nil {
		t.Fatalf("Replay() error = %v", err)
	}

	first := frames[0]
	if first.Position == nil || *first.Position != 0.5 {
		t.Fatalf("first position = %v, want 0.5", first.Position)
	}
	if len(first.Layers) != 2 {
		t.Fatalf("first layers = %+v, want pages 0 and 1", first.Layers)
	}
	for _, l := range first.Layers {
		if math.Abs(l.Opacity-0.5) > 1e-3 {
			t.Errorf("%s opacity = %v, want 0.5 mid-swipe", l.Key, l.Opacity)
		}
	}

	last := frames[len(frames)-1]
	if *last.Position != 2 {
		t.Errorf("last position = %v, want 2", *last.Position)
	}
	if len(last.Layers) != 1 || last.Layers[0].Key != "page 2" {
		t.Errorf("last layers = %+v, want page 2 only", last.Layers)
	}
}

func TestReplay_Until(t *testing.T) {
	sc, err := Parse([]byte(switchDoc + "until: 48ms\n"))
	if err != nil {
		t.Fatal(err)
	}
	frames, err := Replay(sc, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := frames[len(frames)-1].At; got != 48*time.Millisecond {
		t.Errorf("last frame at %v, want 48ms", got)
	}
	if len(frames) != 4 {
		t.Errorf("got %d frames, want 4", len(frames))
	}
}

func TestWrite(t *testing.T) {
	sc, err := Parse([]byte(switchDoc))
	if err != nil {
		t.Fatal(err)
	}
	frames, err := Replay(sc, nil)
	if err != nil {
		t.Fatal(err)
	}

	var text bytes.Buffer
	if err := Write(&text, frames, FormatText, true); err != nil {
		t.Fatal(err)
	}
	out := text.String()
	if !strings.Contains(out, "<- child b") || !strings.Contains(out, "showingCurrent/settled") {
		t.Errorf("text output missing expected markers:\n%s", out)
	}
	if lines := strings.Count(out, "opacity="); lines >= countLayers(frames) {
		t.Errorf("changedOnly printed %d layer lines, want fewer than %d", lines, countLayers(frames))
	}

	var doc bytes.Buffer
	if err := Write(&doc, frames, FormatYAML, false); err != nil {
		t.Fatal(err)
	}
	var decoded []Frame
	if err := yaml.Unmarshal(doc.Bytes(), &decoded); err != nil {
		t.Fatalf("yaml output does not decode: %v", err)
	}
	if len(decoded) != len(frames) {
		t.Errorf("decoded %d frames, want %d", len(decoded), len(frames))
	}

	if err := Write(&doc, frames, Format("xml"), false); err == nil {
		t.Error("unknown format accepted")
	}
}

func countLayers(frames []Frame) int {
	n := 0
	for _, f := range frames {
		n += len(f.Layers)
	}
	return n
}
