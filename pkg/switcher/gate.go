package switcher

import (
	"context"
	"fmt"
	"time"

	"github.com/go-drift/switcher/pkg/animation"
	"github.com/go-drift/switcher/pkg/errors"
)

// gate is a switch held back by a delay, an await function, or both.
// It clears when every part has finished and it is still the latest
// request.
type gate struct {
	generation uint64
	child      *Child
	reverse    bool

	delayDone bool
	awaitDone bool

	ticker    *animation.Ticker
	cancelCtx context.CancelFunc
}

func (g *gate) cancel() {
	if g.ticker != nil {
		g.ticker.Stop()
	}
	if g.cancelCtx != nil {
		g.cancelCtx()
	}
}

func (c *Coordinator) shouldGate(prev, next *Child, first bool) bool {
	if !c.opts.gated() {
		return false
	}
	if first && c.opts.SkipGateOnFirstMount {
		return false
	}
	if c.opts.ShouldDelay == nil {
		return true
	}
	gated := false
	func() {
		defer errors.Recover("switcher.ShouldDelay")
		gated = c.opts.ShouldDelay(prev, next)
	}()
	return gated
}

func (c *Coordinator) startGate(next *Child, reverse bool) {
	g := &gate{
		generation: c.generation,
		child:      next,
		reverse:    reverse,
		delayDone:  c.opts.Delay <= 0,
		awaitDone:  c.opts.Await == nil,
	}
	c.pending = g
	if c.opts.GatePolicy == GateShowPlaceholder {
		c.showPlaceholder()
	}
	c.logger.Debug("gated switch", "key", keyOf(next), "delay", c.opts.Delay, "await", c.opts.Await != nil)

	if !g.delayDone {
		delay := c.opts.Delay
		g.ticker = animation.NewTicker(func(elapsed time.Duration) {
			if elapsed < delay {
				return
			}
			g.ticker.Stop()
			g.delayDone = true
			c.resume(g)
		})
		g.ticker.Start()
	}

	if !g.awaitDone {
		ctx, cancel := context.WithCancel(context.Background())
		g.cancelCtx = cancel
		go func() {
			err := c.runAwait(ctx, next)
			if !c.dispatch(func() { c.onAwaitDone(g, err) }) {
				c.logger.Error("gated switch lost: no dispatcher registered", "key", keyOf(next))
			}
		}()
	}
}

// runAwait calls the await function, turning a panic into an error.
func (c *Coordinator) runAwait(ctx context.Context, next *Child) (err error) {
	defer errors.RecoverWithCallback("switcher.Await", func(r any) {
		err = fmt.Errorf("await panicked: %v", r)
	})
	return c.opts.Await(ctx, next)
}

func (c *Coordinator) onAwaitDone(g *gate, err error) {
	if !c.isLive(g) {
		c.logger.Debug("stale gated switch ignored", "key", keyOf(g.child))
		return
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		c.logger.Warn("await gate failed, switching anyway", "key", keyOf(g.child), "error", err)
	}
	g.awaitDone = true
	c.resume(g)
}

// resume performs the gated switch once every part of g has finished.
func (c *Coordinator) resume(g *gate) {
	if !c.isLive(g) || !g.delayDone || !g.awaitDone {
		return
	}
	c.pending = nil
	if g.cancelCtx != nil {
		g.cancelCtx()
	}
	c.switchTo(keyOf(g.child), g.child, g.reverse)
}

func (c *Coordinator) isLive(g *gate) bool {
	return !c.disposed && c.pending == g && c.generation == g.generation
}

// showPlaceholder switches to the placeholder unless it is already up.
func (c *Coordinator) showPlaceholder() {
	if c.current != nil && c.current.key == PlaceholderKey {
		return
	}
	var ph *Child
	if c.opts.Placeholder != nil {
		cp := *c.opts.Placeholder
		cp.Key = PlaceholderKey
		ph = &cp
	}
	c.switchTo(PlaceholderKey, ph, false)
}
