package timeline

import (
	"fmt"
)

// Tween is one step authored at an absolute offset in arbitrary time units.
type Tween struct {
	At       float64
	Duration float64 // 0 uses the sequence default
	Ease     string  // empty uses the sequence default
	Targets  []Target
}

// Sequence authors groups by position and duration and normalizes them to
// progress fractions by the total length.
type Sequence struct {
	DefaultDuration float64
	DefaultEase     string

	tweens []Tween
}

// NewSequence creates a sequence with the given defaults.
func NewSequence(defaultDuration float64, defaultEase string) *Sequence {
	if defaultDuration <= 0 {
		defaultDuration = 1
	}
	return &Sequence{DefaultDuration: defaultDuration, DefaultEase: defaultEase}
}

// To appends a tween at offset at with default duration and ease.
func (s *Sequence) To(at float64, targets ...Target) *Sequence {
	return s.Add(Tween{At: at, Targets: targets})
}

// Add appends a tween.
func (s *Sequence) Add(t Tween) *Sequence {
	s.tweens = append(s.tweens, t)
	return s
}

// Length returns the end offset of the last-ending tween.
func (s *Sequence) Length() float64 {
	var total float64
	for _, t := range s.tweens {
		total = max(total, t.At+s.duration(t))
	}
	return total
}

func (s *Sequence) duration(t Tween) float64 {
	if t.Duration > 0 {
		return t.Duration
	}
	return s.DefaultDuration
}

// Groups normalizes every tween into a Group over [0, 1].
func (s *Sequence) Groups() ([]Group, error) {
	total := s.Length()
	groups := make([]Group, 0, len(s.tweens))
	for i, t := range s.tweens {
		if t.At < 0 || t.Duration < 0 {
			return nil, fmt.Errorf("tween %d at %g for %g: %w", i, t.At, t.Duration, ErrInterval)
		}
		ease := t.Ease
		if ease == "" {
			ease = s.DefaultEase
		}
		groups = append(groups, Group{
			Start:   t.At / total,
			End:     (t.At + s.duration(t)) / total,
			Ease:    ease,
			Targets: t.Targets,
		})
	}
	return groups, nil
}

// Build normalizes the sequence and binds it.
func (s *Sequence) Build(binder Binder) (*Timeline, error) {
	groups, err := s.Groups()
	if err != nil {
		return nil, err
	}
	return New(groups, binder)
}
