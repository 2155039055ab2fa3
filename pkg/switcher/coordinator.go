package switcher

import (
	"log/slog"
	"time"

	"github.com/go-drift/switcher/pkg/animation"
	"github.com/go-drift/switcher/pkg/errors"
	"github.com/go-drift/switcher/pkg/graphics"
	"github.com/go-drift/switcher/pkg/platform"
	"github.com/go-drift/switcher/pkg/shared"
	"github.com/go-drift/switcher/pkg/transition"
)

// State is the coarse state of a Coordinator.
type State int

const (
	// StateNoChild means nothing is mounted, or the empty slot is shown.
	StateNoChild State = iota
	// StateShowingPlaceholder means a gated switch is pending behind the
	// placeholder.
	StateShowingPlaceholder
	// StateTransitioning means a switch is animating.
	StateTransitioning
	// StateShowingCurrent means one child is shown at rest.
	StateShowingCurrent
)

func (s State) String() string {
	switch s {
	case StateShowingPlaceholder:
		return "showingPlaceholder"
	case StateTransitioning:
		return "transitioning"
	case StateShowingCurrent:
		return "showingCurrent"
	default:
		return "noChild"
	}
}

// Layer is one child as the host should paint it, bottom to top.
type Layer struct {
	Key     any
	Payload any
	shared.Layer
	Alignment       graphics.Alignment
	RepaintBoundary bool
}

// EntryState describes a mounted child for inspection and tracing.
type EntryState struct {
	Key       any
	Primary   float64
	Secondary float64
	Phase     shared.Phase
}

type entry struct {
	key       any
	child     *Child
	primary   *animation.AnimationController
	secondary *animation.AnimationController
	engine    *shared.Engine
}

func (e *entry) dispose() {
	e.engine.Dispose()
	e.primary.Dispose()
	e.secondary.Dispose()
}

// Coordinator owns the current and previous child of one switcher and
// drives the transition between them.
//
// All methods must be called on the UI thread. Gated switches resume there
// through the dispatch function.
type Coordinator struct {
	opts   Options
	logger *slog.Logger
	scope  *transition.Scope

	current  *entry
	previous *entry

	// latest is the most recent requested child, gated or not.
	latest  *Child
	mounted bool

	generation uint64
	pending    *gate

	reverseKeys map[int]any

	phase    shared.Phase
	batching bool
	disposed bool
}

// New validates opts and returns an empty coordinator.
func New(opts Options) (*Coordinator, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = errors.DiscardLogger()
	}
	c := &Coordinator{
		opts:        opts,
		logger:      logger,
		reverseKeys: make(map[int]any),
	}
	c.scope = opts.ParentScope.Provide(c.currentVisual)
	return c, nil
}

// SetChild requests next, using the last requested child as the previous one.
func (c *Coordinator) SetChild(next *Child) {
	c.OnChildChanged(c.latest, next)
}

// OnChildChanged handles the host replacing prev with next. Equal identities
// update the payload in place; different identities start a switch, gated
// if so configured. A nil next switches to the empty slot.
func (c *Coordinator) OnChildChanged(prev, next *Child) {
	if c.disposed {
		return
	}
	if c.mounted && SameIdentity(prev, next) && !c.gatedOther(next) {
		c.update(next)
		return
	}
	c.request(prev, next)
}

// gatedOther reports whether a gated request for a child other than next is
// waiting. Coming back to the shown child must drop it.
func (c *Coordinator) gatedOther(next *Child) bool {
	return c.pending != nil && !keysEqual(keyOf(c.pending.child), keyOf(next))
}

// Replace swaps to next at once, without animation. Any running switch and
// any gated request are dropped.
func (c *Coordinator) Replace(next *Child) {
	if c.disposed {
		return
	}
	c.latest = next
	c.mounted = true
	c.supersede()

	c.batch(func() {
		if c.previous != nil {
			c.evict(c.previous)
		}
		if c.current != nil {
			c.current.dispose()
			c.current = nil
		}
		c.current = c.newEntry(keyOf(next), next, c.resolve())
		c.current.primary.Seek(1)
	})
	c.logger.Debug("replaced child", "key", keyOf(next))
}

// Compose returns the layers to paint, previous child first.
func (c *Coordinator) Compose() []Layer {
	var parent transition.Visual
	if c.opts.InheritComposition {
		parent = c.opts.ParentScope.Effective()
	}
	layers := make([]Layer, 0, 2)
	for _, e := range [...]*entry{c.previous, c.current} {
		if e == nil || e.child == nil {
			continue
		}
		l := e.engine.Layer()
		if c.opts.InheritComposition {
			l.Visual = parent.Then(l.Visual)
		}
		layers = append(layers, Layer{
			Key:             e.key,
			Payload:         e.child.Payload,
			Layer:           l,
			Alignment:       c.opts.Alignment,
			RepaintBoundary: c.opts.RepaintBoundary,
		})
	}
	return layers
}

// Entries reports the mounted children, previous first.
func (c *Coordinator) Entries() []EntryState {
	var out []EntryState
	for _, e := range [...]*entry{c.previous, c.current} {
		if e == nil {
			continue
		}
		out = append(out, EntryState{
			Key:       e.key,
			Primary:   e.primary.Value(),
			Secondary: e.secondary.Value(),
			Phase:     e.engine.Phase(),
		})
	}
	return out
}

// Current returns the child on top, or nil.
func (c *Coordinator) Current() *Child {
	if c.current == nil {
		return nil
	}
	return c.current.child
}

// State returns the coarse state.
func (c *Coordinator) State() State {
	switch {
	case c.current == nil:
		return StateNoChild
	case c.previous != nil || c.current.engine.Phase() != shared.PhaseSettled:
		return StateTransitioning
	case c.current.key == PlaceholderKey:
		return StateShowingPlaceholder
	case c.current.child == nil:
		return StateNoChild
	default:
		return StateShowingCurrent
	}
}

// Phase returns the last reported phase.
func (c *Coordinator) Phase() shared.Phase {
	return c.phase
}

// Scope returns the composition scope descendants of the current child
// should read. Its visual follows whichever child is current.
func (c *Coordinator) Scope() *transition.Scope {
	return c.scope
}

// Dispose drops any gated request and releases both children. No callback
// fires after Dispose starts.
func (c *Coordinator) Dispose() {
	if c.disposed {
		return
	}
	c.disposed = true
	c.supersede()
	if c.previous != nil {
		c.previous.dispose()
		c.previous = nil
	}
	if c.current != nil {
		c.current.dispose()
		c.current = nil
	}
}

// update applies a same-identity rebuild: the newest payload wins, no
// track is touched.
func (c *Coordinator) update(next *Child) {
	c.latest = next
	key := keyOf(next)
	switch {
	case c.pending != nil && keysEqual(keyOf(c.pending.child), key):
		c.pending.child = next
	case c.current != nil && keysEqual(c.current.key, key):
		c.current.child = next
	}
	c.logger.Debug("transparent update", "key", key)
}

func (c *Coordinator) request(prev, next *Child) {
	first := !c.mounted
	c.mounted = true
	c.latest = next
	c.supersede()

	// Back to the child already shown and settled: nothing to animate.
	if c.current != nil && c.previous == nil && keysEqual(c.current.key, keyOf(next)) {
		c.current.child = next
		c.logger.Debug("transparent update", "key", keyOf(next))
		return
	}

	reverse := c.inferReverse(prev, next)
	if c.shouldGate(prev, next, first) {
		c.startGate(next, reverse)
		return
	}
	c.switchTo(keyOf(next), next, reverse)
}

// supersede invalidates any gated request.
func (c *Coordinator) supersede() {
	c.generation++
	if c.pending != nil {
		c.pending.cancel()
		c.logger.Debug("dropped gated switch", "key", keyOf(c.pending.child))
		c.pending = nil
	}
}

// inferReverse decides the direction from the order indices. At equal
// indices it remembers the key that was left on a forward switch; coming
// back to that key is a reverse switch.
func (c *Coordinator) inferReverse(prev, next *Child) bool {
	if prev == nil || next == nil || !prev.HasIndex || !next.HasIndex {
		return false
	}
	if next.Index != prev.Index {
		return next.Index < prev.Index
	}
	if stored, ok := c.reverseKeys[next.Index]; ok && keysEqual(stored, next.Key) {
		return true
	}
	if validKey(prev.Key) {
		c.reverseKeys[next.Index] = prev.Key
	}
	return false
}

type resolved struct {
	kind     transition.Kind
	duration time.Duration
	curve    func(float64) float64
}

// resolve reads the process-wide defaults for anything opts leaves unset.
func (c *Coordinator) resolve() resolved {
	d := transition.CurrentDefaults()
	r := resolved{kind: d.Kind, duration: d.Duration, curve: d.Curve}
	if c.opts.Kind != nil {
		r.kind = *c.opts.Kind
	}
	if c.opts.Duration > 0 {
		r.duration = c.opts.Duration
	}
	if c.opts.Curve != nil {
		r.curve = c.opts.Curve
	}
	return r
}

func (c *Coordinator) newEntry(key any, child *Child, r resolved) *entry {
	e := &entry{
		key:       key,
		child:     child,
		primary:   animation.NewAnimationController(r.duration),
		secondary: animation.NewAnimationController(r.duration),
	}
	e.primary.Curve = r.curve
	e.secondary.Curve = r.curve

	engine, err := shared.New(e.primary, e.secondary, shared.Options{
		Kind:      r.kind,
		FillColor: c.opts.FillColor,
		OnPhase:   func(shared.Phase) { c.updatePhase() },
		Logger:    c.logger,
	})
	if err != nil {
		// resolve only yields validated kinds.
		panic(err)
	}
	e.engine = engine

	e.primary.AddStatusListener(func(status animation.AnimationStatus) {
		if status == animation.AnimationDismissed && c.previous == e {
			c.evict(e)
		}
	})
	e.secondary.AddStatusListener(func(status animation.AnimationStatus) {
		if status == animation.AnimationCompleted && c.previous == e {
			c.evict(e)
		}
	})
	return e
}

// switchTo makes child current. The first child ever mounted appears at
// rest; later ones animate in while the old current animates out. A switch
// arriving while an older child is still leaving drops that child at once.
func (c *Coordinator) switchTo(key any, child *Child, reverse bool) {
	c.batch(func() {
		next := c.newEntry(key, child, c.resolve())
		if c.current == nil {
			next.primary.Seek(1)
			c.current = next
			c.logger.Debug("mounted child", "key", key)
			return
		}
		if c.previous != nil {
			c.evict(c.previous)
		}
		old := c.current
		c.previous = old
		c.current = next

		// The outgoing track starts first so that, when both finish on the
		// same frame, the outgoing child is evicted before the incoming one
		// settles.
		if reverse {
			next.primary.Seek(1)
			next.secondary.Seek(1)
			old.primary.Reverse()
			next.secondary.Reverse()
		} else {
			old.secondary.Forward()
			next.primary.Forward()
		}
		c.logger.Debug("switching child", "from", old.key, "to", key, "reverse", reverse)
	})
}

func (c *Coordinator) evict(e *entry) {
	if c.previous == e {
		c.previous = nil
	}
	e.dispose()
	c.logger.Debug("evicted child", "key", e.key)
	c.updatePhase()
}

// batch runs fn with phase reporting held back, then reports once.
func (c *Coordinator) batch(fn func()) {
	c.batching = true
	fn()
	c.batching = false
	c.updatePhase()
}

// updatePhase reports the aggregate phase. The current child decides while
// it moves; otherwise a leaving previous child does.
func (c *Coordinator) updatePhase() {
	if c.batching || c.disposed {
		return
	}
	next := shared.PhaseSettled
	if c.current != nil {
		next = c.current.engine.Phase()
	}
	if next == shared.PhaseSettled && c.previous != nil {
		next = c.previous.engine.Phase()
	}
	if next == c.phase {
		return
	}
	c.phase = next
	if c.opts.OnPhase != nil {
		func() {
			defer errors.Recover("switcher.OnPhase")
			c.opts.OnPhase(next)
		}()
	}
}

func (c *Coordinator) currentVisual() transition.Visual {
	if c.current == nil {
		return transition.Identity
	}
	return c.current.engine.Visual()
}

// dispatch posts fn to the UI thread. Safe from any goroutine.
func (c *Coordinator) dispatch(fn func()) bool {
	if c.opts.Dispatch != nil {
		c.opts.Dispatch(fn)
		return true
	}
	return platform.Dispatch(fn)
}
