// Package actor keeps several instances of one model moving as a single
// object. Every transform write is broadcast to all instances before it
// returns, so instances never diverge.
package actor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/taigrr/splitscroll/pkg/math3d"
	"github.com/taigrr/splitscroll/pkg/scene"
)

// ErrUnknownPath is returned for a property path other than
// position.{x,y,z} or rotation.{x,y,z}.
var ErrUnknownPath = errors.New("unknown actor property")

// Channel selects the transform a path addresses.
type Channel int

const (
	ChannelPosition Channel = iota
	ChannelRotation
)

func (c Channel) String() string {
	if c == ChannelRotation {
		return "rotation"
	}
	return "position"
}

// Path addresses one scalar component of an actor transform.
type Path struct {
	Channel Channel
	Axis    math3d.Axis
}

func (p Path) String() string {
	return p.Channel.String() + "." + p.Axis.String()
}

// ParsePath parses "position.x" style paths.
func ParsePath(s string) (Path, error) {
	channel, axis, ok := strings.Cut(s, ".")
	if !ok {
		return Path{}, fmt.Errorf("%w: %q", ErrUnknownPath, s)
	}
	var p Path
	switch channel {
	case "position":
		p.Channel = ChannelPosition
	case "rotation":
		p.Channel = ChannelRotation
	default:
		return Path{}, fmt.Errorf("%w: %q", ErrUnknownPath, s)
	}
	a, ok := math3d.ParseAxis(axis)
	if !ok {
		return Path{}, fmt.Errorf("%w: %q", ErrUnknownPath, s)
	}
	p.Axis = a
	return p, nil
}

// Actor is a broadcast-write handle over ordered model instances.
type Actor struct {
	name      string
	instances []*scene.Group
}

// New creates an actor over instances. The first instance's transform is
// copied to the others so they start identical.
func New(name string, instances ...*scene.Group) *Actor {
	a := &Actor{name: name, instances: instances}
	if len(instances) > 0 {
		a.broadcast(instances[0].Position, instances[0].Rotation)
	}
	return a
}

// Name returns the actor's registry name.
func (a *Actor) Name() string { return a.name }

// Instances returns the underlying groups in order.
func (a *Actor) Instances() []*scene.Group { return a.instances }

// Position returns the shared position.
func (a *Actor) Position() math3d.Vec3 {
	if len(a.instances) == 0 {
		return math3d.Vec3{}
	}
	return a.instances[0].Position
}

// Rotation returns the shared XYZ Euler rotation.
func (a *Actor) Rotation() math3d.Vec3 {
	if len(a.instances) == 0 {
		return math3d.Vec3{}
	}
	return a.instances[0].Rotation
}

// SetPosition writes the position of every instance.
func (a *Actor) SetPosition(p math3d.Vec3) {
	a.broadcast(p, a.Rotation())
}

// SetRotation writes the rotation of every instance.
func (a *Actor) SetRotation(r math3d.Vec3) {
	a.broadcast(a.Position(), r)
}

// LookAt orients every instance so its +Z axis faces target. The rotation
// is solved once and copied, keeping instances bit-identical.
func (a *Actor) LookAt(target math3d.Vec3) {
	if len(a.instances) == 0 {
		return
	}
	a.instances[0].LookAt(target)
	a.broadcast(a.Position(), a.instances[0].Rotation)
}

// Get returns the component at path.
func (a *Actor) Get(path Path) float64 {
	if path.Channel == ChannelRotation {
		return a.Rotation().Component(path.Axis)
	}
	return a.Position().Component(path.Axis)
}

// Set writes the component at path on every instance.
func (a *Actor) Set(path Path, v float64) {
	if path.Channel == ChannelRotation {
		a.SetRotation(a.Rotation().WithComponent(path.Axis, v))
		return
	}
	a.SetPosition(a.Position().WithComponent(path.Axis, v))
}

// SetString is Set with a textual path.
func (a *Actor) SetString(path string, v float64) error {
	p, err := ParsePath(path)
	if err != nil {
		return err
	}
	a.Set(p, v)
	return nil
}

// Diverged reports whether any instance disagrees with the first. It is
// always false unless a caller mutated an instance directly.
func (a *Actor) Diverged() bool {
	for _, g := range a.instances[min(1, len(a.instances)):] {
		if g.Position != a.instances[0].Position || g.Rotation != a.instances[0].Rotation {
			return true
		}
	}
	return false
}

func (a *Actor) broadcast(p, r math3d.Vec3) {
	for _, g := range a.instances {
		g.Position = p
		g.Rotation = r
	}
}

// Property is a read-write handle on one actor component.
type Property struct {
	actor *Actor
	path  Path
}

// Property returns a handle on path.
func (a *Actor) Property(path Path) Property {
	return Property{actor: a, path: path}
}

// Get returns the current value.
func (p Property) Get() float64 { return p.actor.Get(p.path) }

// Set broadcasts v.
func (p Property) Set(v float64) { p.actor.Set(p.path, v) }
