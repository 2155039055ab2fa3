// Package pagesync drives shared-axis transitions from a scroll position
// instead of a timer.
//
// Every visible item index gets its own pair of tracks. On each position
// update the item's relative offset is computed and written into the
// tracks with a seek, so a half-finished swipe shows a half-finished
// transition and reversing the finger reverses the transition with it.
package pagesync

import (
	"log/slog"
	"math"
	"sort"

	"github.com/go-drift/switcher/pkg/animation"
	"github.com/go-drift/switcher/pkg/errors"
	"github.com/go-drift/switcher/pkg/graphics"
	"github.com/go-drift/switcher/pkg/shared"
	"github.com/go-drift/switcher/pkg/transition"
)

// Source is a continuous page position. *PageController implements it.
type Source interface {
	Position() float64
	AddListener(listener func()) func()
}

// Hint is the shared direction of the gesture in progress.
type Hint int

const (
	// HintUnknown means the position rests on a whole page.
	HintUnknown Hint = iota
	// HintForward means the position is moving toward higher pages.
	HintForward
	// HintReverse means the position is moving toward lower pages.
	HintReverse
)

func (h Hint) String() string {
	switch h {
	case HintForward:
		return "forward"
	case HintReverse:
		return "reverse"
	default:
		return "unknown"
	}
}

// Relative returns the offset of position from index, limited to one page
// either side: clamp(position, index-1, index+1) - index.
func Relative(position float64, index int) float64 {
	i := float64(index)
	return math.Max(i-1, math.Min(i+1, position)) - i
}

// Options configures a Sync.
type Options struct {
	// Kind selects the transition primitive for every item.
	Kind transition.Kind

	// FillColor is painted behind items while they exit.
	FillColor graphics.Color

	// OnPageChanged is called when the rounded position changes.
	OnPageChanged func(page int)

	// Logger receives debug output. Nil discards.
	Logger *slog.Logger
}

type item struct {
	primary   *animation.AnimationController
	secondary *animation.AnimationController
	engine    *shared.Engine
}

func (it *item) dispose() {
	it.engine.Dispose()
	it.primary.Dispose()
	it.secondary.Dispose()
}

// Sync feeds one engine per attached item index from a Source.
type Sync struct {
	source Source
	opts   Options
	logger *slog.Logger

	items map[int]*item

	hint      Hint
	last      float64
	hasSample bool
	page      int

	recomputing bool
	unsubscribe func()
	disposed    bool
}

// New subscribes to source. Items are added with Attach.
func New(source Source, opts Options) (*Sync, error) {
	if source == nil {
		return nil, &errors.ConfigError{Field: "source", Value: nil, Reason: "position source is required"}
	}
	if !opts.Kind.Valid() {
		return nil, &errors.ConfigError{Field: "Kind", Value: int(opts.Kind), Reason: "unsupported transition kind"}
	}
	logger := opts.Logger
	if logger == nil {
		logger = errors.DiscardLogger()
	}
	s := &Sync{
		source: source,
		opts:   opts,
		logger: logger,
		items:  make(map[int]*item),
		page:   int(math.Round(source.Position())),
	}
	s.unsubscribe = source.AddListener(s.Recompute)
	s.sample(source.Position())
	return s, nil
}

// Attach starts tracking index and returns its engine. Attaching an index
// twice returns the existing engine.
func (s *Sync) Attach(index int) *shared.Engine {
	if it, ok := s.items[index]; ok {
		return it.engine
	}
	it := &item{
		primary:   animation.NewAnimationController(0),
		secondary: animation.NewAnimationController(0),
	}
	it.primary.Seek(1)
	engine, err := shared.New(it.primary, it.secondary, shared.Options{
		Kind:      s.opts.Kind,
		FillColor: s.opts.FillColor,
		Logger:    s.logger,
	})
	if err != nil {
		// New validated the kind.
		panic(err)
	}
	it.engine = engine
	s.items[index] = it
	s.push(index, it, s.source.Position())
	return engine
}

// Detach stops tracking index and releases its tracks.
func (s *Sync) Detach(index int) {
	if it, ok := s.items[index]; ok {
		it.dispose()
		delete(s.items, index)
	}
}

// Indices returns the attached indices in ascending order.
func (s *Sync) Indices() []int {
	out := make([]int, 0, len(s.items))
	for index := range s.items {
		out = append(out, index)
	}
	sort.Ints(out)
	return out
}

// Recompute reads the source and updates every attached item. Calling it
// again without a position change has no effect. Calls made while a
// recompute is running, for example from a listener that moves the
// position, are ignored.
func (s *Sync) Recompute() {
	if s.disposed || s.recomputing {
		return
	}
	s.recomputing = true
	defer func() { s.recomputing = false }()

	position := s.source.Position()
	s.sample(position)
	for index, it := range s.items {
		s.push(index, it, position)
	}

	page := int(math.Round(position))
	if page != s.page {
		s.page = page
		s.logger.Debug("page changed", "page", page)
		if s.opts.OnPageChanged != nil {
			func() {
				defer errors.Recover("pagesync.OnPageChanged")
				s.opts.OnPageChanged(page)
			}()
		}
	}
}

// Hint returns the shared direction hint.
func (s *Sync) Hint() Hint {
	return s.hint
}

// Page returns the rounded position as of the last recompute.
func (s *Sync) Page() int {
	return s.page
}

// Relative returns the relative offset of index at the current position.
func (s *Sync) Relative(index int) float64 {
	return Relative(s.source.Position(), index)
}

// Visual returns the composed visual of an attached index.
func (s *Sync) Visual(index int) (transition.Visual, bool) {
	it, ok := s.items[index]
	if !ok {
		return transition.Identity, false
	}
	return it.engine.Visual(), true
}

// Tracks returns the primary and secondary values of an attached index.
func (s *Sync) Tracks(index int) (primary, secondary float64, ok bool) {
	it, ok := s.items[index]
	if !ok {
		return 0, 0, false
	}
	return it.primary.Value(), it.secondary.Value(), true
}

// Dispose unsubscribes from the source and releases every item.
func (s *Sync) Dispose() {
	if s.disposed {
		return
	}
	s.disposed = true
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
	for index := range s.items {
		s.Detach(index)
	}
}

// sample updates the hint: whole pages reset it, and the first fractional
// sample after a reset fixes it from the direction of travel.
func (s *Sync) sample(position float64) {
	switch {
	case position == math.Trunc(position):
		s.hint = HintUnknown
	case s.hint == HintUnknown && s.hasSample && position > s.last:
		s.hint = HintForward
	case s.hint == HintUnknown && s.hasSample && position < s.last:
		s.hint = HintReverse
	}
	s.last = position
	s.hasSample = true
}

// push seeks the item's tracks to the values for position. An item behind
// the position (relative > 0) is being pushed out through its secondary
// track; an item ahead of it (relative < 0) is coming in through its
// primary track.
func (s *Sync) push(index int, it *item, position float64) {
	r := Relative(position, index)
	primary := 1 - math.Max(0, -r)
	secondary := math.Max(0, r)

	switch s.hint {
	case HintForward:
		it.primary.SeekWithDirection(primary, animation.AnimationForward)
		it.secondary.SeekWithDirection(secondary, animation.AnimationForward)
	case HintReverse:
		it.primary.SeekWithDirection(primary, animation.AnimationReverse)
		it.secondary.SeekWithDirection(secondary, animation.AnimationReverse)
	default:
		it.primary.Seek(primary)
		it.secondary.Seek(secondary)
	}
}
