package gapless

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"sync/atomic"
	"testing"
	"time"

	switchtest "github.com/go-drift/switcher/pkg/testing"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func TestDecodeSource_DeliversAbsentThenFrame(t *testing.T) {
	tester := switchtest.NewTesterWithT(t)
	data := encodePNG(t, solid(3, 2, color.NRGBA{G: 255, A: 255}))
	src := NewDecodeSource(func(ctx context.Context, id string) ([]byte, error) {
		return data, nil
	})
	t.Cleanup(src.Close)

	var events []Event
	src.Subscribe("green", func(ev Event) { events = append(events, ev) })
	err := tester.PumpUntil(func() bool { return len(events) == 2 }, 2*time.Second)
	if err != nil {
		t.Fatalf("PumpUntil: %v (events %v)", err, events)
	}
	if events[0].Kind != FrameAbsent || events[1].Kind != FrameReady {
		t.Fatalf("kinds = %v, %v", events[0].Kind, events[1].Kind)
	}
	img, ok := events[1].Frame.(image.Image)
	if !ok || img.Bounds().Dx() != 3 || img.Bounds().Dy() != 2 {
		t.Fatalf("frame = %T %v", events[1].Frame, events[1].Frame)
	}
	if _, ok := src.Cached("green"); !ok {
		t.Error("Cached(green) = false after load")
	}
}

func TestDecodeSource_SharesInFlightFetch(t *testing.T) {
	tester := switchtest.NewTesterWithT(t)
	data := encodePNG(t, solid(1, 1, color.NRGBA{A: 255}))
	var fetches atomic.Int32
	release := make(chan struct{})
	src := NewDecodeSource(func(ctx context.Context, id string) ([]byte, error) {
		fetches.Add(1)
		<-release
		return data, nil
	})
	t.Cleanup(src.Close)

	ready := 0
	for i := 0; i < 3; i++ {
		src.Subscribe("same", func(ev Event) {
			if ev.Kind == FrameReady {
				ready++
			}
		})
	}
	close(release)
	if err := tester.PumpUntil(func() bool { return ready == 3 }, 2*time.Second); err != nil {
		t.Fatalf("PumpUntil: %v", err)
	}
	if n := fetches.Load(); n != 1 {
		t.Errorf("fetches = %d, want 1", n)
	}
}

func TestDecodeSource_Failures(t *testing.T) {
	tester := switchtest.NewTesterWithT(t)
	boom := errors.New("offline")
	src := NewDecodeSource(func(ctx context.Context, id string) ([]byte, error) {
		if id == "garbage" {
			return []byte("not an image"), nil
		}
		return nil, boom
	})
	t.Cleanup(src.Close)

	var fetchErr, decodeErr error
	src.Subscribe("missing", func(ev Event) {
		if ev.Kind == LoadFailed {
			fetchErr = ev.Err
		}
	})
	src.Subscribe("garbage", func(ev Event) {
		if ev.Kind == LoadFailed {
			decodeErr = ev.Err
		}
	})
	err := tester.PumpUntil(func() bool { return fetchErr != nil && decodeErr != nil }, 2*time.Second)
	if err != nil {
		t.Fatalf("PumpUntil: %v", err)
	}
	if !errors.Is(fetchErr, boom) {
		t.Errorf("fetch error = %v, want wrapping %v", fetchErr, boom)
	}
	if !errors.Is(decodeErr, image.ErrFormat) {
		t.Errorf("decode error = %v, want image.ErrFormat", decodeErr)
	}
}

func TestDecodeSource_CancelSilencesSubscriber(t *testing.T) {
	tester := switchtest.NewTesterWithT(t)
	data := encodePNG(t, solid(1, 1, color.NRGBA{A: 255}))
	release := make(chan struct{})
	src := NewDecodeSource(func(ctx context.Context, id string) ([]byte, error) {
		<-release
		return data, nil
	})
	t.Cleanup(src.Close)

	var got []EventKind
	cancel := src.Subscribe("x", func(ev Event) { got = append(got, ev.Kind) })
	cancel()
	close(release)

	if err := tester.PumpUntil(func() bool {
		_, ok := src.Cached("x")
		return ok
	}, 2*time.Second); err != nil {
		t.Fatalf("PumpUntil: %v", err)
	}
	tester.PumpFor(50 * time.Millisecond)
	if len(got) != 0 {
		t.Errorf("cancelled subscriber received %v", got)
	}
}

func TestDecodeSource_CacheEviction(t *testing.T) {
	tester := switchtest.NewTesterWithT(t)
	data := encodePNG(t, solid(1, 1, color.NRGBA{A: 255}))
	src := NewDecodeSource(func(ctx context.Context, id string) ([]byte, error) {
		return data, nil
	}, WithCacheSize(1))
	t.Cleanup(src.Close)

	for _, id := range []string{"a", "b"} {
		done := false
		src.Subscribe(id, func(ev Event) { done = done || ev.Kind == FrameReady })
		if err := tester.PumpUntil(func() bool { return done }, 2*time.Second); err != nil {
			t.Fatalf("PumpUntil(%s): %v", id, err)
		}
	}
	if _, ok := src.Cached("a"); ok {
		t.Error("a should have been evicted")
	}
	if _, ok := src.Cached("b"); !ok {
		t.Error("b should be cached")
	}
}

func TestDecodeSource_DrivesAdapter(t *testing.T) {
	tester := switchtest.NewTesterWithT(t)
	data := encodePNG(t, solid(2, 2, color.NRGBA{R: 255, A: 255}))
	src := NewDecodeSource(func(ctx context.Context, id string) ([]byte, error) {
		return data, nil
	})
	t.Cleanup(src.Close)
	a := newAdapter(t, src, baseOptions())

	a.Request("red")
	if cur := a.Coordinator().Current(); cur == nil || cur.Key != IdleKey {
		t.Fatalf("Current() = %+v, want idle", cur)
	}
	err := tester.PumpUntil(func() bool {
		cur := a.Coordinator().Current()
		return cur != nil && cur.Key == "red"
	}, 2*time.Second)
	if err != nil {
		t.Fatalf("PumpUntil: %v", err)
	}
	if err := tester.PumpAndSettle(time.Second); err != nil {
		t.Fatal(err)
	}
	if n := len(a.Compose()); n != 1 {
		t.Errorf("Compose() has %d layers, want 1", n)
	}
}
