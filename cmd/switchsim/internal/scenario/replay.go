package scenario

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-drift/switcher/pkg/animation"
	"github.com/go-drift/switcher/pkg/graphics"
	"github.com/go-drift/switcher/pkg/pagesync"
	"github.com/go-drift/switcher/pkg/switcher"
	switchtest "github.com/go-drift/switcher/pkg/testing"
	"github.com/go-drift/switcher/pkg/transition"
)

// Frame is the painted state after one simulated frame.
type Frame struct {
	At       time.Duration `yaml:"at"`
	Applied  []string      `yaml:"applied,omitempty"`
	State    string        `yaml:"state,omitempty"`
	Phase    string        `yaml:"phase,omitempty"`
	Position *float64      `yaml:"position,omitempty"`
	Layers   []Layer       `yaml:"layers"`
}

// Layer is one painted child.
type Layer struct {
	Key        string  `yaml:"key"`
	Opacity    float64 `yaml:"opacity"`
	TranslateX float64 `yaml:"translateX,omitempty"`
	TranslateY float64 `yaml:"translateY,omitempty"`
	FractionX  float64 `yaml:"fractionX,omitempty"`
	FractionY  float64 `yaml:"fractionY,omitempty"`
	Scale      float64 `yaml:"scale"`
	Clip       bool    `yaml:"clip,omitempty"`
	Fill       string  `yaml:"fill,omitempty"`
}

// Replay runs sc on a fake clock and returns one Frame per simulated frame.
// It installs its own animation clock for the duration of the call.
func Replay(sc *Scenario, logger *slog.Logger) ([]Frame, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	tester := switchtest.NewTester()
	defer tester.Cleanup()

	var (
		drv driver
		err error
	)
	if sc.Mode == ModePager {
		drv, err = newPagerDriver(sc, logger)
	} else {
		drv, err = newSwitcherDriver(sc, logger)
	}
	if err != nil {
		return nil, err
	}
	defer drv.dispose()

	frame := sc.Frame
	if frame == 0 {
		frame = switchtest.FrameDuration
	}
	until := sc.Until
	settle := sc.Until == 0
	if settle {
		until = sc.lastStep() + sc.span() + frame
	}

	var frames []Frame
	next := 0
	for {
		now := tester.Clock().Elapsed()
		var applied []string
		for next < len(sc.Steps) && sc.Steps[next].At <= now {
			drv.apply(sc.Steps[next])
			applied = append(applied, sc.Steps[next].String())
			next++
		}
		tester.Pump()

		f := drv.snapshot()
		f.At = now
		f.Applied = applied
		frames = append(frames, f)

		done := now >= until
		if settle {
			done = next == len(sc.Steps) && now >= sc.lastStep() && !animation.HasActiveTickers() && tester.Pending() == 0
		}
		if done || now >= maxReplay {
			break
		}
		tester.Clock().Advance(frame)
	}
	return frames, nil
}

// maxReplay bounds a settling replay whose tracks never come to rest.
const maxReplay = 10 * time.Minute

func (sc *Scenario) lastStep() time.Duration {
	if len(sc.Steps) == 0 {
		return 0
	}
	return sc.Steps[len(sc.Steps)-1].At
}

func (sc *Scenario) span() time.Duration {
	d := sc.Duration
	if d == 0 {
		d = transition.CurrentDefaults().Duration
	}
	return sc.Delay + d
}

type driver interface {
	apply(Step)
	snapshot() Frame
	dispose()
}

type switcherDriver struct {
	coord *switcher.Coordinator
}

func newSwitcherDriver(sc *Scenario, logger *slog.Logger) (*switcherDriver, error) {
	opts := switcher.DefaultOptions().
		WithLogger(logger).
		WithFillColor(graphics.Color(sc.Fill))
	if sc.Kind != nil {
		opts = opts.WithKind(*sc.Kind)
	}
	if sc.Duration > 0 {
		opts = opts.WithDuration(sc.Duration)
	}
	if sc.Curve != "" {
		curve, err := animation.CurveByName(sc.Curve)
		if err != nil {
			return nil, err
		}
		opts = opts.WithCurve(curve)
	}
	if sc.Delay > 0 {
		opts = opts.WithDelay(sc.Delay).WithPlaceholder(sc.Placeholder)
	}
	coord, err := switcher.New(opts)
	if err != nil {
		return nil, err
	}
	return &switcherDriver{coord: coord}, nil
}

func (d *switcherDriver) apply(st Step) {
	if st.Clear {
		d.coord.SetChild(nil)
		return
	}
	child := switcher.Tag(st.Child, st.Child)
	if st.Index != nil {
		child = child.WithIndex(*st.Index)
	}
	d.coord.SetChild(child)
}

func (d *switcherDriver) snapshot() Frame {
	f := Frame{
		State: d.coord.State().String(),
		Phase: d.coord.Phase().String(),
	}
	for _, l := range d.coord.Compose() {
		f.Layers = append(f.Layers, layerOf(fmt.Sprint(l.Key), l.Visual, l.Fill))
	}
	return f
}

func (d *switcherDriver) dispose() {
	d.coord.Dispose()
}

type pagerDriver struct {
	pages    int
	duration time.Duration
	curve    func(float64) float64
	ctrl     *pagesync.PageController
	sync     *pagesync.Sync
}

func newPagerDriver(sc *Scenario, logger *slog.Logger) (*pagerDriver, error) {
	defaults := transition.CurrentDefaults()
	kind := defaults.Kind
	if sc.Kind != nil {
		kind = *sc.Kind
	}
	d := &pagerDriver{pages: sc.Pages, duration: defaults.Duration, curve: defaults.Curve}
	if sc.Duration > 0 {
		d.duration = sc.Duration
	}
	if sc.Curve != "" {
		curve, err := animation.CurveByName(sc.Curve)
		if err != nil {
			return nil, err
		}
		d.curve = curve
	}

	d.ctrl = pagesync.NewPageController(0)
	d.ctrl.PageCount = sc.Pages
	s, err := pagesync.New(d.ctrl, pagesync.Options{
		Kind:      kind,
		FillColor: graphics.Color(sc.Fill),
		Logger:    logger,
	})
	if err != nil {
		d.ctrl.Dispose()
		return nil, err
	}
	d.sync = s
	for i := 0; i < sc.Pages; i++ {
		s.Attach(i)
	}
	return d, nil
}

func (d *pagerDriver) apply(st Step) {
	switch {
	case st.Position != nil:
		d.ctrl.SetPosition(*st.Position)
	case st.Page != nil:
		d.ctrl.AnimateToPage(*st.Page, d.duration, d.curve)
	}
}

func (d *pagerDriver) snapshot() Frame {
	pos := d.ctrl.Position()
	f := Frame{Position: &pos}
	for i := 0; i < d.pages; i++ {
		v, ok := d.sync.Visual(i)
		if !ok || v.IsHidden() {
			continue
		}
		f.Layers = append(f.Layers, layerOf(fmt.Sprintf("page %d", i), v, 0))
	}
	return f
}

func (d *pagerDriver) dispose() {
	d.sync.Dispose()
	d.ctrl.Dispose()
}

func layerOf(key string, v transition.Visual, fill graphics.Color) Layer {
	l := Layer{
		Key:        key,
		Opacity:    round3(v.Opacity),
		TranslateX: round3(v.Translate.X),
		TranslateY: round3(v.Translate.Y),
		FractionX:  round3(v.Fraction.X),
		FractionY:  round3(v.Fraction.Y),
		Scale:      round3(v.Scale),
		Clip:       v.Clip,
	}
	if fill != 0 {
		l.Fill = fmt.Sprintf("#%08X", uint32(fill))
	}
	return l
}
