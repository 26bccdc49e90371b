// Package timeline interpolates scalar properties over keyframe groups pinned
// to fractions of a driving progress value rather than wall-clock time.
package timeline

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var (
	// ErrInterval is returned for a group whose interval is empty, reversed
	// or outside [0, 1].
	ErrInterval = errors.New("invalid keyframe interval")
	// ErrUnknownPath is returned by a Binder that cannot resolve a path.
	ErrUnknownPath = errors.New("unknown property path")
)

// Property is a scalar the timeline reads once at construction and writes on
// every Apply.
type Property interface {
	Get() float64
	Set(v float64)
}

// Binder resolves property paths such as "spaceship.position.x".
type Binder interface {
	Bind(path string) (Property, error)
}

// BinderFunc adapts a function to Binder.
type BinderFunc func(path string) (Property, error)

// Bind calls f.
func (f BinderFunc) Bind(path string) (Property, error) { return f(path) }

// Target is one property driven toward End within a group.
type Target struct {
	Path string
	End  float64
	Ease string // empty uses the group's ease
}

// Group binds targets to the progress interval [Start, End].
type Group struct {
	Start, End float64
	Ease       string // empty uses DefaultEase
	Targets    []Target
}

type segment struct {
	start, end float64
	from, to   float64
	ease       Ease
}

// value returns the segment's value at progress s >= start.
func (seg segment) value(s float64) float64 {
	p := (s - seg.start) / (seg.end - seg.start)
	switch {
	case p <= 0:
		return seg.from
	case p >= 1:
		return seg.to
	}
	return seg.from + (seg.to-seg.from)*seg.ease(p)
}

type track struct {
	path     string
	prop     Property
	initial  float64
	segments []segment // ascending start, registration order on ties
}

// at returns the track value at s: the most recently started segment wins.
func (t *track) at(s float64) float64 {
	v := t.initial
	for _, seg := range t.segments {
		if s < seg.start {
			break
		}
		v = seg.value(s)
	}
	return v
}

// Timeline is an immutable set of keyframe groups bound to properties.
type Timeline struct {
	groups   []Group
	tracks   []*track
	progress float64
	applied  bool
}

// New validates groups, binds every target path and captures each
// property's current value as its initial value. Groups are ordered by
// Start; groups with equal Start keep their given order.
//
// Each segment starts from the value its path has at the segment's start,
// as set by the segments before it, so overlapping and chained groups are
// both continuous.
func New(groups []Group, binder Binder) (*Timeline, error) {
	sorted := make([]Group, len(groups))
	copy(sorted, groups)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	tl := &Timeline{groups: sorted}
	byPath := make(map[string]*track)

	for i, g := range sorted {
		if !(g.Start >= 0 && g.End <= 1 && g.Start < g.End) {
			return nil, fmt.Errorf("group %d [%g, %g]: %w", i, g.Start, g.End, ErrInterval)
		}
		for _, target := range g.Targets {
			easeName := target.Ease
			if easeName == "" {
				easeName = g.Ease
			}
			ease, err := EaseByName(easeName)
			if err != nil {
				return nil, fmt.Errorf("group %d target %q: %w", i, target.Path, err)
			}

			tr, ok := byPath[target.Path]
			if !ok {
				prop, err := binder.Bind(target.Path)
				if err != nil {
					return nil, fmt.Errorf("group %d: bind %q: %w", i, target.Path, err)
				}
				v := prop.Get()
				tr = &track{path: target.Path, prop: prop, initial: v}
				byPath[target.Path] = tr
				tl.tracks = append(tl.tracks, tr)
			}

			from := tr.at(g.Start)
			tr.segments = append(tr.segments, segment{
				start: g.Start,
				end:   g.End,
				from:  from,
				to:    target.End,
				ease:  ease,
			})
		}
	}
	return tl, nil
}

// Apply writes every animated property for progress s. s is clamped to
// [0, 1]; each property is written exactly once.
func (tl *Timeline) Apply(s float64) {
	if math.IsNaN(s) {
		return
	}
	s = math.Min(1, math.Max(0, s))
	for _, tr := range tl.tracks {
		tr.prop.Set(tr.at(s))
	}
	tl.progress = s
	tl.applied = true
}

// Value returns what Apply(s) would write to path, without writing it.
func (tl *Timeline) Value(path string, s float64) (float64, bool) {
	s = math.Min(1, math.Max(0, s))
	for _, tr := range tl.tracks {
		if tr.path == path {
			return tr.at(s), true
		}
	}
	return 0, false
}

// Reset writes every property's initial value.
func (tl *Timeline) Reset() {
	for _, tr := range tl.tracks {
		tr.prop.Set(tr.initial)
	}
	tl.applied = false
}

// Progress returns the last applied progress and whether Apply has run.
func (tl *Timeline) Progress() (float64, bool) {
	return tl.progress, tl.applied
}

// Groups returns the groups in evaluation order.
func (tl *Timeline) Groups() []Group {
	return tl.groups
}

// Paths returns every animated path in first-use order.
func (tl *Timeline) Paths() []string {
	paths := make([]string, len(tl.tracks))
	for i, tr := range tl.tracks {
		paths[i] = tr.path
	}
	return paths
}
