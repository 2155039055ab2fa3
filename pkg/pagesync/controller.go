package pagesync

import (
	"math"
	"time"

	"github.com/go-drift/switcher/pkg/animation"
)

// PageController holds a fractional page position. Gesture code writes it
// with SetPosition; a Sync reads it.
type PageController struct {
	// PageCount bounds the position to [0, PageCount-1] when positive.
	PageCount int

	position       float64
	listeners      map[int]func()
	nextListenerID int
	run            *animation.AnimationController
}

// NewPageController returns a controller resting on initialPage.
func NewPageController(initialPage int) *PageController {
	return &PageController{position: float64(initialPage)}
}

// Position returns the current fractional page.
func (c *PageController) Position() float64 {
	return c.position
}

// Page returns the nearest whole page.
func (c *PageController) Page() int {
	return int(math.Round(c.position))
}

// AddListener registers a callback for position changes.
func (c *PageController) AddListener(listener func()) func() {
	if listener == nil {
		return func() {}
	}
	if c.listeners == nil {
		c.listeners = make(map[int]func())
	}
	id := c.nextListenerID
	c.nextListenerID++
	c.listeners[id] = listener
	return func() {
		delete(c.listeners, id)
	}
}

// SetPosition moves to position, as a drag does. Any running page
// animation stops.
func (c *PageController) SetPosition(position float64) {
	c.stopRun()
	c.setPosition(position)
}

// JumpToPage moves straight to page.
func (c *PageController) JumpToPage(page int) {
	c.SetPosition(float64(page))
}

// AnimateToPage moves to page over duration on the frame clock.
func (c *PageController) AnimateToPage(page int, duration time.Duration, curve func(float64) float64) {
	c.stopRun()
	from := c.position
	to := c.clamp(float64(page))
	if from == to || duration <= 0 {
		c.setPosition(to)
		return
	}
	run := animation.NewAnimationController(duration)
	if curve != nil {
		run.Curve = curve
	}
	run.AddListener(func() {
		c.setPosition(from + (to-from)*run.Value())
	})
	run.AddStatusListener(func(status animation.AnimationStatus) {
		if status == animation.AnimationCompleted {
			c.setPosition(to)
			c.stopRun()
		}
	})
	c.run = run
	run.Forward()
}

// IsAnimating reports whether AnimateToPage is in progress.
func (c *PageController) IsAnimating() bool {
	return c.run != nil && c.run.IsAnimating()
}

// Dispose stops any page animation and drops all listeners.
func (c *PageController) Dispose() {
	c.stopRun()
	c.listeners = nil
}

func (c *PageController) stopRun() {
	if c.run != nil {
		c.run.Dispose()
		c.run = nil
	}
}

func (c *PageController) setPosition(position float64) {
	position = c.clamp(position)
	if position == c.position {
		return
	}
	c.position = position
	for _, listener := range c.listeners {
		listener()
	}
}

func (c *PageController) clamp(position float64) float64 {
	if c.PageCount <= 0 {
		return position
	}
	return math.Max(0, math.Min(float64(c.PageCount-1), position))
}
