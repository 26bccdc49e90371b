package scroll

import (
	"errors"
	"log/slog"
)

// ErrEmptyTimeline is logged when attachment is attempted with no ready
// actors.
var ErrEmptyTimeline = errors.New("timeline has no ready actors")

// State is the timeline attachment state.
type State int

const (
	// Inactive: assets not loaded, motion reduced, or nothing to animate.
	Inactive State = iota
	// Attached: scroll updates drive the timeline.
	Attached
	// Disposed: detached after reduced motion was requested. Terminal.
	Disposed
)

func (s State) String() string {
	switch s {
	case Attached:
		return "attached"
	case Disposed:
		return "disposed"
	}
	return "inactive"
}

// Applier is a timeline evaluated at a progress value.
type Applier interface {
	Apply(s float64)
}

// Controller gates a timeline on asset load and motion preference and feeds
// it scroll progress through a Scrubber.
type Controller struct {
	motion *MotionQuery
	scrub  *Scrubber
	log    *slog.Logger

	state    State
	loaded   bool
	actors   int
	timeline Applier
	latest   float64
	cancel   func()
}

// NewController creates an inactive controller. A nil scrub applies progress
// immediately and a nil logger discards output.
func NewController(motion *MotionQuery, scrub *Scrubber, log *slog.Logger) *Controller {
	if scrub == nil {
		scrub = NewScrubber(1, 0)
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	c := &Controller{motion: motion, scrub: scrub, log: log}
	c.cancel = motion.Subscribe(c.motionChanged)
	return c
}

// State returns the attachment state.
func (c *Controller) State() State { return c.state }

// Progress returns the smoothed progress last applied, or the latest scroll
// progress while not attached.
func (c *Controller) Progress() float64 {
	if c.state == Attached {
		return c.scrub.Value()
	}
	return c.latest
}

// Loaded records that assets finished loading with readyActors actors bound
// into tl, and attaches if motion is allowed.
func (c *Controller) Loaded(tl Applier, readyActors int) {
	c.loaded = true
	c.timeline = tl
	c.actors = readyActors
	c.tryAttach()
}

// Replace swaps the timeline, re-applying it at the current progress when
// attached.
func (c *Controller) Replace(tl Applier) {
	c.timeline = tl
	if c.state == Attached && tl != nil {
		tl.Apply(c.scrub.Value())
	}
}

// Update records new scroll progress. It only moves the scene while attached.
func (c *Controller) Update(s float64) {
	c.latest = s
	if c.state == Attached {
		c.scrub.SetTarget(s)
	}
}

// Tick advances the scrubber one frame and applies the timeline if the
// progress moved. It reports whether anything was written.
func (c *Controller) Tick() bool {
	if c.state != Attached {
		return false
	}
	s, moved := c.scrub.Step()
	if moved {
		c.timeline.Apply(s)
	}
	return moved
}

// Close unsubscribes from the motion query.
func (c *Controller) Close() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

func (c *Controller) motionChanged(reduced bool) {
	switch {
	case reduced && c.state == Attached:
		// Freeze at the current pose: nothing is reset or re-applied.
		c.state = Disposed
		c.log.Info("timeline disposed", "reason", "reduced motion", "progress", c.scrub.Value())
	case !reduced && c.state == Inactive:
		c.tryAttach()
	}
}

func (c *Controller) tryAttach() {
	if c.state != Inactive || !c.loaded || c.motion.Reduced() {
		return
	}
	if c.actors == 0 || c.timeline == nil {
		c.log.Warn("timeline attachment skipped", "err", ErrEmptyTimeline)
		return
	}
	c.state = Attached
	c.scrub.Jump(c.latest)
	c.timeline.Apply(c.latest)
	c.log.Info("timeline attached", "progress", c.latest)
}
