package scroll

import (
	"math"

	"github.com/charmbracelet/harmonica"
)

const (
	settlePos = 1e-4
	settleVel = 1e-3
)

// Scrubber smooths progress so the timeline trails the scroll position by
// roughly the scrub time instead of jumping.
type Scrubber struct {
	spring    harmonica.Spring
	immediate bool

	pos, vel, target float64
}

// NewScrubber creates a scrubber stepped at fps frames per second. A scrub
// time of zero or less makes Step jump straight to the target.
func NewScrubber(fps int, scrubSeconds float64) *Scrubber {
	s := &Scrubber{immediate: scrubSeconds <= 0}
	if !s.immediate {
		// A critically damped spring settles in about 5/omega seconds.
		s.spring = harmonica.NewSpring(harmonica.FPS(max(fps, 1)), 5/scrubSeconds, 1.0)
	}
	return s
}

// SetTarget sets the progress to converge on.
func (s *Scrubber) SetTarget(target float64) {
	s.target = target
}

// Jump moves to target with no motion.
func (s *Scrubber) Jump(target float64) {
	s.pos, s.vel, s.target = target, 0, target
}

// Step advances one frame and returns the smoothed progress and whether it
// changed.
func (s *Scrubber) Step() (float64, bool) {
	prev := s.pos
	if s.immediate || s.near() {
		s.pos, s.vel = s.target, 0
	} else {
		s.pos, s.vel = s.spring.Update(s.pos, s.vel, s.target)
	}
	return s.pos, s.pos != prev
}

// Value returns the current smoothed progress.
func (s *Scrubber) Value() float64 { return s.pos }

// Target returns the progress being converged on.
func (s *Scrubber) Target() float64 { return s.target }

// Settled reports whether the value has reached the target.
func (s *Scrubber) Settled() bool {
	return s.pos == s.target && s.vel == 0
}

func (s *Scrubber) near() bool {
	return math.Abs(s.pos-s.target) < settlePos && math.Abs(s.vel) < settleVel
}
