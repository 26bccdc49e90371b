package main

import (
	"math"

	"github.com/charmbracelet/harmonica"

	"github.com/taigrr/splitscroll/pkg/math3d"
	"github.com/taigrr/splitscroll/pkg/render"
)

// orbitAxis tracks one orbit angle whose velocity decays through a spring.
type orbitAxis struct {
	Position  float64
	Velocity  float64
	velSpring harmonica.Spring
	velAccel  float64 // internal spring velocity (for animating Velocity toward 0)
}

func newOrbitAxis(fps int) orbitAxis {
	return orbitAxis{
		// Frequency 4.0 = moderate speed, damping 1.0 = critically damped (no overshoot)
		velSpring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0),
	}
}

// Update applies velocity to position and decays velocity toward 0.
func (a *orbitAxis) Update() {
	a.Position += a.Velocity
	a.Velocity, a.velAccel = a.velSpring.Update(a.Velocity, a.velAccel, 0)
}

// orbit swings a camera around the origin at a fixed distance, like orbit
// controls on the primary view.
type orbit struct {
	Pitch, Yaw orbitAxis
	fps        int
	home       math3d.Vec3

	dragging bool
	lastX    int
	lastY    int
	moved    bool
}

func newOrbit(fps int, home math3d.Vec3) *orbit {
	return &orbit{Pitch: newOrbitAxis(fps), Yaw: newOrbitAxis(fps), fps: fps, home: home}
}

const (
	dragGain   = 0.03
	pitchLimit = math.Pi/2 - 0.01
)

func (o *orbit) Press(x, y int) {
	o.dragging = true
	o.lastX, o.lastY = x, y
}

func (o *orbit) Release() { o.dragging = false }

func (o *orbit) Drag(x, y int) {
	if !o.dragging {
		return
	}
	o.Yaw.Velocity -= float64(x-o.lastX) * dragGain
	o.Pitch.Velocity += float64(y-o.lastY) * dragGain
	o.lastX, o.lastY = x, y
}

func (o *orbit) Reset() {
	o.Pitch = newOrbitAxis(o.fps)
	o.Yaw = newOrbitAxis(o.fps)
	o.dragging = false
	o.moved = true
}

// Update steps the springs and moves cam if the orbit is not at rest.
func (o *orbit) Update(cam *render.Camera) {
	if o.Pitch.Velocity == 0 && o.Yaw.Velocity == 0 && !o.moved {
		return
	}
	o.moved = false
	o.Pitch.Update()
	o.Yaw.Update()
	o.Pitch.Position = math.Max(-pitchLimit, math.Min(pitchLimit, o.Pitch.Position))

	cam.SetPosition(o.Position())
	cam.LookAt(math3d.Vec3{})
}

// Position returns the camera position for the current angles.
func (o *orbit) Position() math3d.Vec3 {
	rot := math3d.RotateY(o.Yaw.Position).Mul(math3d.RotateX(o.Pitch.Position))
	return rot.MulVec3(o.home)
}
