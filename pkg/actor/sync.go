package actor

import (
	"fmt"
	"log/slog"

	"github.com/taigrr/splitscroll/pkg/math3d"
	"github.com/taigrr/splitscroll/pkg/scene"
)

// Source provides loaded model groups by name.
type Source interface {
	Group(name string) (*scene.Group, error)
}

// Sync creates actors that appear in both the shaded and the wireframe
// scene.
type Sync struct {
	source    Source
	shaded    *scene.Scene
	wire      *scene.Scene
	reference math3d.Vec3
	log       *slog.Logger

	actors map[string]*Actor
	order  []string
}

// NewSync creates a Sync. reference is the point new actors face, usually
// the primary camera position at creation time.
func NewSync(source Source, shaded, wire *scene.Scene, reference math3d.Vec3, log *slog.Logger) *Sync {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Sync{
		source:    source,
		shaded:    shaded,
		wire:      wire,
		reference: reference,
		log:       log,
		actors:    make(map[string]*Actor),
	}
}

// Option adjusts an actor at creation.
type Option func(*Actor)

// WithPosition places the actor before it is oriented.
func WithPosition(p math3d.Vec3) Option {
	return func(a *Actor) { a.SetPosition(p) }
}

// CreateActor clones the named group into the wireframe scene, keeps the
// original in the shaded scene and orients both toward the reference point.
// Creating an existing actor returns it unchanged.
func (s *Sync) CreateActor(name string, opts ...Option) (*Actor, error) {
	if a, ok := s.actors[name]; ok {
		return a, nil
	}

	original, err := s.source.Group(name)
	if err != nil {
		return nil, fmt.Errorf("create actor %q: %w", name, err)
	}
	clone := original.Clone()

	s.shaded.Add(original)
	s.wire.Add(clone)

	a := New(name, original, clone)
	for _, opt := range opts {
		opt(a)
	}
	a.LookAt(s.reference)

	s.actors[name] = a
	s.order = append(s.order, name)
	s.log.Debug("actor created", "name", name, "position", a.Position(), "rotation", a.Rotation())
	return a, nil
}

// Actor returns a created actor.
func (s *Sync) Actor(name string) (*Actor, bool) {
	a, ok := s.actors[name]
	return a, ok
}

// Actors returns created actors in creation order.
func (s *Sync) Actors() []*Actor {
	out := make([]*Actor, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.actors[name])
	}
	return out
}
