// Package viewport splits one pixel surface into logical views whose height
// and bottom offset are normalized fractions of the surface height.
package viewport

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/taigrr/splitscroll/pkg/render"
	"github.com/taigrr/splitscroll/pkg/scene"
)

var (
	// ErrViewIndex is returned for a view index outside the set.
	ErrViewIndex = errors.New("view index out of range")
	// ErrUnknownField is returned for a fraction name other than height or bottom.
	ErrUnknownField = errors.New("unknown view field")
	// ErrDegenerate is returned by Resize when the surface has no area.
	ErrDegenerate = errors.New("degenerate surface")
)

// Surface is the pixel size of the drawable region.
type Surface struct {
	Width, Height int
}

// Degenerate reports whether the surface has no area.
func (s Surface) Degenerate() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Rect is a pixel rectangle with a bottom-left origin.
type Rect struct {
	X, Y, W, H int
}

// Field names one of a view's fractions.
type Field int

const (
	FieldHeight Field = iota
	FieldBottom
)

// ParseField maps "height" or "bottom" to a Field.
func ParseField(s string) (Field, error) {
	switch s {
	case "height":
		return FieldHeight, nil
	case "bottom":
		return FieldBottom, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownField, s)
}

func (f Field) String() string {
	if f == FieldBottom {
		return "bottom"
	}
	return "height"
}

// View is one logical pane: a scene drawn with a camera into a horizontal
// band of the surface.
type View struct {
	Name   string
	Height float64 // fraction of surface height, [0, 1]
	Bottom float64 // fraction of surface height from the bottom edge, [0, 1]
	Scene  *scene.Scene
	Camera *render.Camera
}

// Set is the ordered list of views sharing one surface. Views are drawn in
// order, so later views overwrite earlier ones where their rects overlap.
type Set struct {
	views   []*View
	surface Surface
	aspect  float64
	log     *slog.Logger
}

// NewSet creates a set over views. A nil logger discards output.
func NewSet(log *slog.Logger, views ...*View) *Set {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	for _, v := range views {
		v.Height = clamp01(v.Height)
		v.Bottom = clamp01(v.Bottom)
	}
	return &Set{views: views, log: log}
}

// Resize records the new surface and updates every camera's aspect ratio.
// On a degenerate surface the previous aspect is kept and ErrDegenerate is
// returned; rects collapse to zero area until a valid size arrives.
func (s *Set) Resize(surface Surface) error {
	s.surface = Surface{Width: max(surface.Width, 0), Height: max(surface.Height, 0)}
	if s.surface.Degenerate() {
		s.log.Warn("degenerate viewport, keeping previous aspect",
			"width", surface.Width, "height", surface.Height, "aspect", s.aspect)
		return fmt.Errorf("%w: %dx%d", ErrDegenerate, surface.Width, surface.Height)
	}

	s.aspect = float64(s.surface.Width) / float64(s.surface.Height)
	for _, v := range s.views {
		if v.Camera == nil {
			continue
		}
		v.Camera.SetAspectRatio(s.aspect)
		v.Camera.UpdateProjectionMatrix()
	}
	return nil
}

// Surface returns the last surface passed to Resize.
func (s *Set) Surface() Surface {
	return s.surface
}

// Aspect returns the last valid width/height ratio, or 0 before the first
// valid Resize.
func (s *Set) Aspect() float64 {
	return s.aspect
}

// Len returns the number of views.
func (s *Set) Len() int {
	return len(s.views)
}

// Views returns the views in draw order.
func (s *Set) Views() []*View {
	return s.views
}

// View returns view i.
func (s *Set) View(i int) (*View, error) {
	if i < 0 || i >= len(s.views) {
		return nil, fmt.Errorf("%w: %d", ErrViewIndex, i)
	}
	return s.views[i], nil
}

// Index returns the position of the view called name, or -1.
func (s *Set) Index(name string) int {
	for i, v := range s.views {
		if v.Name == name {
			return i
		}
	}
	return -1
}

// SetFraction sets one fraction of view i, clamped to [0, 1]. NaN is
// ignored so a bad interpolation cannot poison the rects.
func (s *Set) SetFraction(i int, field Field, value float64) error {
	v, err := s.View(i)
	if err != nil {
		return err
	}
	if math.IsNaN(value) {
		return nil
	}
	switch field {
	case FieldHeight:
		v.Height = clamp01(value)
	case FieldBottom:
		v.Bottom = clamp01(value)
	default:
		return fmt.Errorf("%w: %d", ErrUnknownField, field)
	}
	return nil
}

// Fraction returns one fraction of view i.
func (s *Set) Fraction(i int, field Field) (float64, error) {
	v, err := s.View(i)
	if err != nil {
		return 0, err
	}
	switch field {
	case FieldHeight:
		return v.Height, nil
	case FieldBottom:
		return v.Bottom, nil
	}
	return 0, fmt.Errorf("%w: %d", ErrUnknownField, field)
}

// Rect returns view i's scissor rectangle on the current surface.
func (s *Set) Rect(i int) (Rect, error) {
	v, err := s.View(i)
	if err != nil {
		return Rect{}, err
	}
	h := float64(s.surface.Height)
	return Rect{
		X: 0,
		Y: int(math.Round(h * v.Bottom)),
		W: s.surface.Width,
		H: int(math.Round(h * v.Height)),
	}, nil
}

// FullRect covers the whole surface.
func (s *Set) FullRect() Rect {
	return Rect{W: s.surface.Width, H: s.surface.Height}
}

// Property is a read-write handle on one view fraction.
type Property struct {
	set   *Set
	index int
	field Field
}

// Property returns a handle on view i's field.
func (s *Set) Property(i int, field Field) (Property, error) {
	if _, err := s.Fraction(i, field); err != nil {
		return Property{}, err
	}
	return Property{set: s, index: i, field: field}, nil
}

// Get returns the current fraction.
func (p Property) Get() float64 {
	v, _ := p.set.Fraction(p.index, p.field)
	return v
}

// Set writes the fraction, clamped to [0, 1].
func (p Property) Set(v float64) {
	_ = p.set.SetFraction(p.index, p.field, v)
}

func clamp01(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}
