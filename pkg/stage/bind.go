package stage

import (
	"fmt"
	"strings"

	"github.com/taigrr/splitscroll/pkg/actor"
	"github.com/taigrr/splitscroll/pkg/timeline"
	"github.com/taigrr/splitscroll/pkg/viewport"
)

const viewsPrefix = "views."

// bind resolves "<actor>.position.x" style actor paths and
// "views.<view>.height|bottom" view paths. Paths on configured actors whose
// model failed to load bind to a detached value so the rest of the timeline
// still runs.
func (s *Stage) bind(path string) (timeline.Property, error) {
	if rest, ok := strings.CutPrefix(path, viewsPrefix); ok {
		return s.bindView(path, rest)
	}

	name, rest, ok := strings.Cut(path, ".")
	if !ok {
		return nil, fmt.Errorf("%w: %q", timeline.ErrUnknownPath, path)
	}
	p, err := actor.ParsePath(rest)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", timeline.ErrUnknownPath, path, err)
	}
	if a, ok := s.sync.Actor(name); ok {
		return a.Property(p), nil
	}
	for _, a := range s.cfg.Actors {
		if a.Name == name {
			s.log.Debug("binding path of missing actor", "path", path)
			return &detached{}, nil
		}
	}
	return nil, fmt.Errorf("%w: no actor %q", timeline.ErrUnknownPath, name)
}

func (s *Stage) bindView(path, rest string) (timeline.Property, error) {
	name, field, ok := strings.Cut(rest, ".")
	if !ok {
		return nil, fmt.Errorf("%w: %q", timeline.ErrUnknownPath, path)
	}
	i := s.views.Index(name)
	if i < 0 {
		return nil, fmt.Errorf("%w: no view %q", timeline.ErrUnknownPath, name)
	}
	f, err := viewport.ParseField(field)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", timeline.ErrUnknownPath, path, err)
	}
	prop, err := s.views.Property(i, f)
	if err != nil {
		return nil, err
	}
	return prop, nil
}

// detached stands in for a property nothing displays.
type detached struct{ v float64 }

func (d *detached) Get() float64 { return d.v }
func (d *detached) Set(v float64) { d.v = v }
