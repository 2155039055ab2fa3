package pagesync

import (
	"math"
	"testing"
	"time"

	"github.com/go-drift/switcher/pkg/animation"
	"github.com/go-drift/switcher/pkg/errors"
	switchtest "github.com/go-drift/switcher/pkg/testing"
	"github.com/go-drift/switcher/pkg/transition"
)

func newSync(t *testing.T, pc *PageController, opts Options) *Sync {
	t.Helper()
	s, err := New(pc, opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(s.Dispose)
	return s
}

func TestRelative(t *testing.T) {
	tests := []struct {
		position float64
		index    int
		want     float64
	}{
		{3, 3, 0},
		{3, 2, 1},
		{3, 4, -1},
		{3, 0, 1},
		{3, 7, -1},
		{1.5, 1, 0.5},
		{1.5, 2, -0.5},
		{0, 0, 0},
	}
	for _, tt := range tests {
		if got := Relative(tt.position, tt.index); got != tt.want {
			t.Errorf("Relative(%v, %d) = %v, want %v", tt.position, tt.index, got, tt.want)
		}
	}
}

func TestRelative_ZeroAtOwnIndex(t *testing.T) {
	for position := -3; position <= 10; position++ {
		if got := Relative(float64(position), position); got != 0 {
			t.Errorf("Relative(%d, %d) = %v, want 0", position, position, got)
		}
	}
}

func TestSync_SwipeForwardAndBack(t *testing.T) {
	pc := NewPageController(1)
	s := newSync(t, pc, Options{Kind: transition.KindAxisHorizontal})
	for i := range 3 {
		s.Attach(i)
	}

	var path []float64
	var hints []Hint
	record := func() {
		path = append(path, s.Relative(1))
		hints = append(hints, s.Hint())
	}
	record()
	pc.SetPosition(1.5)
	record()
	pc.SetPosition(1.0)
	record()

	wantPath := []float64{0, 0.5, 0}
	wantHints := []Hint{HintUnknown, HintForward, HintUnknown}
	for i := range wantPath {
		if path[i] != wantPath[i] || hints[i] != wantHints[i] {
			t.Errorf("step %d: relative %v hint %v, want %v %v", i, path[i], hints[i], wantPath[i], wantHints[i])
		}
	}

	p, sec, _ := s.Tracks(1)
	if p != 1 || sec != 0 {
		t.Errorf("item 1 tracks at rest = %v, %v, want 1, 0", p, sec)
	}
	if v, _ := s.Visual(1); !v.IsIdentity(1e-9) {
		t.Errorf("item 1 visual at rest = %+v, want identity", v)
	}
}

func TestSync_TrackValuesMidSwipe(t *testing.T) {
	pc := NewPageController(1)
	s := newSync(t, pc, Options{Kind: transition.KindFade})
	for i := range 3 {
		s.Attach(i)
	}
	pc.SetPosition(1.25)

	tests := []struct {
		index              int
		primary, secondary float64
	}{
		{0, 1, 1},
		{1, 1, 0.25},
		{2, 0.25, 0},
	}
	for _, tt := range tests {
		p, sec, ok := s.Tracks(tt.index)
		if !ok || math.Abs(p-tt.primary) > 1e-12 || math.Abs(sec-tt.secondary) > 1e-12 {
			t.Errorf("item %d tracks = %v, %v, want %v, %v", tt.index, p, sec, tt.primary, tt.secondary)
		}
	}

	// Item 1 leaves while item 2 arrives; a fade keeps their sum near one.
	leaving, _ := s.Visual(1)
	arriving, _ := s.Visual(2)
	if leaving.Opacity <= arriving.Opacity {
		t.Errorf("leaving %v should still be more opaque than arriving %v at a quarter swipe", leaving.Opacity, arriving.Opacity)
	}
}

func TestSync_ReverseHint(t *testing.T) {
	pc := NewPageController(2)
	s := newSync(t, pc, Options{Kind: transition.KindAxisHorizontal})
	s.Attach(1)
	s.Attach(2)

	pc.SetPosition(1.6)
	if s.Hint() != HintReverse {
		t.Fatalf("Hint() = %v, want reverse", s.Hint())
	}
	// Holding the hint even when the finger moves back up.
	pc.SetPosition(1.8)
	if s.Hint() != HintReverse {
		t.Errorf("Hint() = %v, want reverse to be held", s.Hint())
	}

	// Page 2 leaves toward the right, page 1 enters from the left.
	leaving, _ := s.Visual(2)
	arriving, _ := s.Visual(1)
	if leaving.Translate.X <= 0 {
		t.Errorf("leaving translate = %+v, want positive x", leaving.Translate)
	}
	if arriving.Translate.X >= 0 {
		t.Errorf("arriving translate = %+v, want negative x", arriving.Translate)
	}
}

func TestSync_Idempotent(t *testing.T) {
	pc := NewPageController(0)
	var pages []int
	s := newSync(t, pc, Options{OnPageChanged: func(p int) { pages = append(pages, p) }})
	s.Attach(0)
	engine := s.Attach(1)

	pc.SetPosition(0.7)
	before, _ := s.Visual(1)
	phase := engine.Phase()

	s.Recompute()
	s.Recompute()

	after, _ := s.Visual(1)
	if before != after {
		t.Errorf("visual changed on recompute: %+v -> %+v", before, after)
	}
	if engine.Phase() != phase {
		t.Errorf("phase changed on recompute: %v -> %v", phase, engine.Phase())
	}
	if len(pages) != 1 || pages[0] != 1 {
		t.Errorf("pages = %v, want [1]", pages)
	}
}

func TestSync_PageChanged(t *testing.T) {
	pc := NewPageController(0)
	var pages []int
	newSync(t, pc, Options{OnPageChanged: func(p int) { pages = append(pages, p) }})

	for _, pos := range []float64{0.2, 0.4, 0.6, 0.9, 1, 1.4, 1.6, 0.4} {
		pc.SetPosition(pos)
	}
	want := []int{1, 2, 0}
	if len(pages) != len(want) {
		t.Fatalf("pages = %v, want %v", pages, want)
	}
	for i := range want {
		if pages[i] != want[i] {
			t.Errorf("pages = %v, want %v", pages, want)
		}
	}
}

func TestSync_ReentrantRecomputeIgnored(t *testing.T) {
	pc := NewPageController(0)
	calls := 0
	s := newSync(t, pc, Options{OnPageChanged: func(page int) {
		calls++
		// Snapping from inside the callback moves the source mid-recompute.
		pc.SetPosition(float64(page))
	}})
	s.Attach(1)

	pc.SetPosition(0.6)
	if calls != 1 {
		t.Fatalf("OnPageChanged called %d times, want 1", calls)
	}
	if p, _, _ := s.Tracks(1); math.Abs(p-0.6) > 1e-12 {
		t.Errorf("primary = %v, want 0.6 from the outer recompute", p)
	}

	s.Recompute()
	if p, _, _ := s.Tracks(1); p != 1 {
		t.Errorf("primary after explicit recompute = %v, want 1", p)
	}
	if s.Hint() != HintUnknown {
		t.Errorf("Hint() = %v, want unknown", s.Hint())
	}
}

func TestSync_AttachSeedsFromPosition(t *testing.T) {
	pc := NewPageController(0)
	pc.SetPosition(0.5)
	s := newSync(t, pc, Options{})

	s.Attach(1)
	p, sec, _ := s.Tracks(1)
	if p != 0.5 || sec != 0 {
		t.Errorf("tracks = %v, %v, want 0.5, 0", p, sec)
	}
	if s.Attach(1) != s.Attach(1) {
		t.Error("Attach should return the existing engine")
	}
}

func TestSync_DetachAndDispose(t *testing.T) {
	pc := NewPageController(0)
	s, _ := New(pc, Options{})
	s.Attach(0)
	s.Attach(1)
	s.Detach(0)
	if got := s.Indices(); len(got) != 1 || got[0] != 1 {
		t.Errorf("Indices() = %v, want [1]", got)
	}

	s.Dispose()
	pc.SetPosition(0.5)
	if len(s.Indices()) != 0 {
		t.Error("items left after Dispose")
	}
	if s.Page() != 0 {
		t.Errorf("Page() changed after Dispose: %d", s.Page())
	}
}

func TestSync_Validation(t *testing.T) {
	if _, err := New(nil, Options{}); !errors.IsConfig(err) {
		t.Errorf("New(nil) error = %v, want ConfigError", err)
	}
	if _, err := New(NewPageController(0), Options{Kind: transition.Kind(-1)}); !errors.IsConfig(err) {
		t.Errorf("New(bad kind) error = %v, want ConfigError", err)
	}
}

func TestPageController_AnimateToPage(t *testing.T) {
	tester := switchtest.NewTesterWithT(t)
	pc := NewPageController(0)
	pc.PageCount = 3
	defer pc.Dispose()
	s := newSync(t, pc, Options{})
	s.Attach(0)
	s.Attach(1)

	pc.AnimateToPage(1, 160*time.Millisecond, animation.LinearCurve)
	tester.PumpFor(80 * time.Millisecond)
	if got := pc.Position(); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("Position() mid animation = %v, want 0.5", got)
	}
	if s.Hint() != HintForward {
		t.Errorf("Hint() = %v, want forward", s.Hint())
	}

	if err := tester.PumpAndSettle(time.Second); err != nil {
		t.Fatal(err)
	}
	if pc.Position() != 1 || s.Page() != 1 {
		t.Errorf("Position() = %v Page() = %v, want 1", pc.Position(), s.Page())
	}
	if s.Hint() != HintUnknown {
		t.Errorf("Hint() = %v, want unknown at rest", s.Hint())
	}
}

func TestPageController_Clamp(t *testing.T) {
	pc := NewPageController(0)
	pc.PageCount = 2
	pc.SetPosition(5)
	if pc.Position() != 1 {
		t.Errorf("Position() = %v, want 1", pc.Position())
	}
	pc.JumpToPage(-2)
	if pc.Position() != 0 || pc.Page() != 0 {
		t.Errorf("Position() = %v, want 0", pc.Position())
	}
}
