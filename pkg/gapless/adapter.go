// Package gapless switches between decoded images without a blank frame.
//
// An [Adapter] sits between a frame [Source] and a switcher.Coordinator.
// Until the first frame of a request arrives it shows the idle child under
// one shared key, so hopping between requests that have not loaded yet
// never animates. When a frame arrives it becomes the switch target. With
// GaplessPlayback the previous frame stays up while the next one loads.
package gapless

import (
	"fmt"
	"log/slog"

	"github.com/go-drift/switcher/pkg/errors"
	"github.com/go-drift/switcher/pkg/graphics"
	"github.com/go-drift/switcher/pkg/switcher"
)

type idleKey struct{}

func (idleKey) String() string { return "<idle>" }

// IdleKey is the identity of the idle child.
var IdleKey any = idleKey{}

// KeyMode selects the identity given to a frame.
type KeyMode int

const (
	// KeyByContentID keys frames by content id, so later frames of the same
	// content replace earlier ones without a transition.
	KeyByContentID KeyMode = iota
	// KeyPerFrame gives every frame a fresh key, so every frame transitions.
	KeyPerFrame
)

type frameKey struct {
	contentID string
	seq       uint64
}

func (k frameKey) String() string { return fmt.Sprintf("%s#%d", k.contentID, k.seq) }

// Options configures an Adapter.
type Options struct {
	// Idle is the payload shown while nothing has loaded.
	Idle any

	// KeyMode selects frame identities.
	KeyMode KeyMode

	// GaplessPlayback keeps the last frame up while a new request loads.
	GaplessPlayback bool

	// SkipSimilar swaps instantly when Similar reports the incoming frame
	// as indistinguishable from the outgoing one.
	SkipSimilar bool

	// Similar compares the outgoing and incoming frames.
	Similar func(prev, next any) bool

	// Tint is applied to every frame before any fade.
	Tint *graphics.ColorFilter

	// FilterQuality is passed through to frame paints.
	FilterQuality graphics.FilterQuality

	// Fit is passed through to layers.
	Fit Fit

	// OnLoadFailed receives decode failures for the requested content.
	OnLoadFailed func(*errors.LoadError)

	// Logger receives debug and warning output. Nil discards.
	Logger *slog.Logger

	// Switcher configures the underlying coordinator.
	Switcher switcher.Options
}

// WithSimilar returns a copy that skips transitions between similar frames.
func (o Options) WithSimilar(fn func(prev, next any) bool) Options {
	o.Similar = fn
	o.SkipSimilar = fn != nil
	return o
}

// WithTint returns a copy tinting frames with cf.
func (o Options) WithTint(cf graphics.ColorFilter) Options {
	o.Tint = &cf
	return o
}

// WithGaplessPlayback returns a copy with gapless playback toggled.
func (o Options) WithGaplessPlayback(enabled bool) Options {
	o.GaplessPlayback = enabled
	return o
}

// WithKeyMode returns a copy using mode.
func (o Options) WithKeyMode(mode KeyMode) Options {
	o.KeyMode = mode
	return o
}

// WithFit returns a copy using fit.
func (o Options) WithFit(fit Fit) Options {
	o.Fit = fit
	return o
}

// Layer is a switcher layer plus how to paint its frame.
type Layer struct {
	switcher.Layer
	Paint      graphics.Paint
	NeedsLayer bool
	Fit        Fit
	Idle       bool
}

// Place returns where a frame of size intrinsic is painted inside box: the
// size comes from Fit and the offset from the layer's alignment.
func (l Layer) Place(box, intrinsic graphics.Size) (graphics.Offset, graphics.Size) {
	size := l.Fit.Apply(box, intrinsic)
	return l.Alignment.Within(box, size), size
}

// Adapter turns decode events into switches.
type Adapter struct {
	source Source
	opts   Options
	logger *slog.Logger
	coord  *switcher.Coordinator

	requested  string
	hasRequest bool
	loaded     bool
	cancel     func()

	lastFrame any
	frameSeq  uint64
	disposed  bool
}

// New builds an adapter and its coordinator.
func New(source Source, opts Options) (*Adapter, error) {
	if source == nil {
		return nil, &errors.ConfigError{Field: "source", Value: nil, Reason: "frame source is required"}
	}
	if opts.SkipSimilar && opts.Similar == nil {
		return nil, &errors.ConfigError{Field: "Similar", Value: nil, Reason: "required when SkipSimilar is set"}
	}
	if opts.KeyMode != KeyByContentID && opts.KeyMode != KeyPerFrame {
		return nil, &errors.ConfigError{Field: "KeyMode", Value: int(opts.KeyMode), Reason: "unknown key mode"}
	}
	logger := opts.Logger
	if logger == nil {
		logger = errors.DiscardLogger()
	}
	swOpts := opts.Switcher
	if swOpts.Logger == nil {
		swOpts.Logger = logger
	}
	coord, err := switcher.New(swOpts)
	if err != nil {
		return nil, fmt.Errorf("gapless: %w", err)
	}
	return &Adapter{source: source, opts: opts, logger: logger, coord: coord}, nil
}

// Coordinator returns the underlying coordinator.
func (a *Adapter) Coordinator() *switcher.Coordinator {
	return a.coord
}

// Requested returns the content id last passed to Request.
func (a *Adapter) Requested() string {
	return a.requested
}

// Request makes contentID the content to show. A cached frame is shown at
// once; otherwise the idle child is shown, or the last frame is kept under
// GaplessPlayback, until the source delivers.
func (a *Adapter) Request(contentID string) {
	if a.disposed || (a.hasRequest && contentID == a.requested) {
		return
	}
	a.unsubscribe()
	a.requested = contentID
	a.hasRequest = true
	a.loaded = false

	if frame, ok := a.source.Cached(contentID); ok {
		a.present(contentID, frame)
	} else {
		a.showIdle()
	}
	a.cancel = a.source.Subscribe(contentID, func(ev Event) {
		a.onEvent(contentID, ev)
	})
}

// Compose returns the layers to paint. Bitmap frames carry their fade in
// the paint and report full opacity in the visual.
func (a *Adapter) Compose() []Layer {
	base := a.coord.Compose()
	out := make([]Layer, 0, len(base))
	for _, l := range base {
		derived := DerivePaint(l.Payload, l.Visual.Opacity, a.opts.Tint, a.opts.FilterQuality)
		if !derived.NeedsLayer && l.Visual.Opacity < 1 {
			l.Visual.Opacity = 1
		}
		out = append(out, Layer{
			Layer:      l,
			Paint:      derived.Paint,
			NeedsLayer: derived.NeedsLayer,
			Fit:        a.opts.Fit,
			Idle:       l.Key == IdleKey,
		})
	}
	return out
}

// Dispose stops listening to the source and releases the coordinator.
func (a *Adapter) Dispose() {
	if a.disposed {
		return
	}
	a.disposed = true
	a.unsubscribe()
	a.coord.Dispose()
}

func (a *Adapter) onEvent(contentID string, ev Event) {
	if a.disposed || contentID != a.requested {
		return
	}
	switch ev.Kind {
	case FrameReady:
		a.present(contentID, ev.Frame)
	case FrameAbsent:
		if !a.loaded {
			a.showIdle()
		}
	case LoadFailed:
		a.logger.Warn("image load failed", "content", contentID, "error", ev.Err)
		if a.opts.OnLoadFailed != nil {
			func() {
				defer errors.Recover("gapless.OnLoadFailed")
				a.opts.OnLoadFailed(&errors.LoadError{ContentID: contentID, Err: ev.Err})
			}()
		}
	}
}

func (a *Adapter) showIdle() {
	if a.opts.GaplessPlayback && a.lastFrame != nil {
		return
	}
	a.lastFrame = nil
	a.coord.SetChild(switcher.Tag(IdleKey, a.opts.Idle))
}

func (a *Adapter) present(contentID string, frame any) {
	var key any = contentID
	if a.opts.KeyMode == KeyPerFrame {
		a.frameSeq++
		key = frameKey{contentID: contentID, seq: a.frameSeq}
	}
	next := switcher.Tag(key, frame)

	if a.opts.SkipSimilar && a.lastFrame != nil && a.similar(a.lastFrame, frame) {
		a.logger.Debug("similar frame swapped without transition", "content", contentID)
		a.coord.Replace(next)
	} else {
		a.coord.SetChild(next)
	}
	a.lastFrame = frame
	a.loaded = true
}

func (a *Adapter) similar(prev, next any) bool {
	same := false
	func() {
		defer errors.Recover("gapless.Similar")
		same = a.opts.Similar(prev, next)
	}()
	return same
}

func (a *Adapter) unsubscribe() {
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
}
