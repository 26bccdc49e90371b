// Package scroll turns a scroll position into the progress that drives a
// timeline, and decides when that timeline is attached.
package scroll

import "math"

// Fraction converts an offset within a scrollable range to progress in
// [0, 1]. A range with no extent yields 0.
func Fraction(offset, scrollRange float64) float64 {
	if scrollRange <= 0 || math.IsNaN(offset) {
		return 0
	}
	return math.Min(1, math.Max(0, offset/scrollRange))
}

// Trigger is a virtual page Pages viewports tall. Progress runs from 0 when
// the page top meets the viewport top to 1 when the page bottom meets the
// viewport bottom.
type Trigger struct {
	pages    float64
	viewport float64
	offset   float64

	// held is the progress to restore once a zero-height viewport grows.
	held    float64
	holding bool
}

// NewTrigger creates a trigger for a page of the given height in viewports.
// Heights below one viewport are raised to one.
func NewTrigger(pages float64) *Trigger {
	return &Trigger{pages: math.Max(1, pages)}
}

// Range returns the scrollable distance in viewport units (rows).
func (t *Trigger) Range() float64 {
	return (t.pages - 1) * t.viewport
}

// Offset returns the current scroll offset.
func (t *Trigger) Offset() float64 { return t.offset }

// Viewport returns the viewport height.
func (t *Trigger) Viewport() float64 { return t.viewport }

// Fraction returns the current progress.
func (t *Trigger) Fraction() float64 {
	return Fraction(t.offset, t.Range())
}

// Resize changes the viewport height while keeping progress constant. A
// viewport with no scroll range reads 0 but remembers the progress, which
// returns with the next usable height.
func (t *Trigger) Resize(viewport float64) float64 {
	s := t.Fraction()
	if t.holding {
		s = t.held
	}
	t.viewport = math.Max(0, viewport)
	t.holding = t.Range() <= 0
	t.held = s
	t.offset = s * t.Range()
	return t.Fraction()
}

// ScrollTo moves to offset, clamped to the scrollable range.
func (t *Trigger) ScrollTo(offset float64) float64 {
	t.offset = math.Min(t.Range(), math.Max(0, offset))
	return t.Fraction()
}

// ScrollBy moves by delta rows.
func (t *Trigger) ScrollBy(delta float64) float64 {
	return t.ScrollTo(t.offset + delta)
}

// PageDown scrolls one viewport down.
func (t *Trigger) PageDown() float64 { return t.ScrollBy(t.viewport) }

// PageUp scrolls one viewport up.
func (t *Trigger) PageUp() float64 { return t.ScrollBy(-t.viewport) }

// Home scrolls to the top.
func (t *Trigger) Home() float64 { return t.ScrollTo(0) }

// End scrolls to the bottom.
func (t *Trigger) End() float64 { return t.ScrollTo(t.Range()) }

// SetFraction scrolls to progress s.
func (t *Trigger) SetFraction(s float64) float64 {
	return t.ScrollTo(math.Min(1, math.Max(0, s)) * t.Range())
}
