package render

import (
	"math"

	"github.com/taigrr/splitscroll/pkg/math3d"
)

// Camera is a perspective camera. It looks along a direction rather than at
// a fixed point, so moving it keeps the view direction until LookAt is
// called again.
//
// Projection parameters may be written directly; call
// UpdateProjectionMatrix afterwards, or use the setters, which do it lazily.
type Camera struct {
	Position math3d.Vec3

	FOV         float64 // Vertical field of view in radians
	AspectRatio float64 // Width / Height
	Near        float64
	Far         float64

	dir math3d.Vec3 // unit view direction
	up  math3d.Vec3

	view, proj, viewProj          math3d.Mat4
	viewDirty, projDirty, vpDirty bool
}

// NewCamera returns a 60 degree camera at (0, 0, 1) looking down -Z.
func NewCamera() *Camera {
	return &Camera{
		Position:    math3d.V3(0, 0, 1),
		FOV:         math.Pi / 3,
		AspectRatio: 16.0 / 9.0,
		Near:        0.1,
		Far:         1000,
		dir:         math3d.V3(0, 0, -1),
		up:          math3d.Up(),
		viewDirty:   true,
		projDirty:   true,
		vpDirty:     true,
	}
}

// NewPerspectiveCamera creates a camera looking down -Z with a vertical
// field of view given in degrees.
func NewPerspectiveCamera(fovDegrees, aspect, near, far float64) *Camera {
	c := NewCamera()
	c.FOV = fovDegrees * math.Pi / 180
	c.AspectRatio = aspect
	c.Near = near
	c.Far = far
	return c
}

// SetPosition moves the camera without turning it.
func (c *Camera) SetPosition(pos math3d.Vec3) {
	c.Position = pos
	c.viewDirty = true
}

// SetFOV sets the vertical field of view in radians.
func (c *Camera) SetFOV(fov float64) {
	c.FOV = fov
	c.projDirty = true
}

// SetAspectRatio sets width over height.
func (c *Camera) SetAspectRatio(aspect float64) {
	c.AspectRatio = aspect
	c.projDirty = true
}

// UpdateProjectionMatrix recomputes the projection from the current fields.
func (c *Camera) UpdateProjectionMatrix() {
	c.proj = math3d.Perspective(c.FOV, c.AspectRatio, c.Near, c.Far)
	c.projDirty = false
	c.vpDirty = true
}

// LookAt turns the camera toward target. Looking straight up or down derives
// the up direction from the previous heading so the view stays defined.
func (c *Camera) LookAt(target math3d.Vec3) {
	dir := target.Sub(c.Position).Normalize()
	if dir.LenSq() == 0 {
		return
	}
	c.up = math3d.Up()
	if math.Abs(dir.Y) > 1-1e-9 {
		heading := c.dir.Sub(dir.Scale(dir.Dot(c.dir)))
		if heading.LenSq() < 1e-12 {
			heading = math3d.V3(0, 0, -1)
		}
		// Pitching up tips the top of the view backward.
		c.up = heading.Normalize().Scale(-math.Copysign(1, dir.Y))
	}
	c.dir = dir
	c.viewDirty = true
}

// Forward returns the unit view direction.
func (c *Camera) Forward() math3d.Vec3 {
	return c.dir
}

// ViewMatrix returns the world-to-camera transform.
func (c *Camera) ViewMatrix() math3d.Mat4 {
	if c.viewDirty {
		c.view = math3d.LookAt(c.Position, c.Position.Add(c.dir), c.up)
		c.viewDirty = false
		c.vpDirty = true
	}
	return c.view
}

// ProjectionMatrix returns the perspective projection.
func (c *Camera) ProjectionMatrix() math3d.Mat4 {
	if c.projDirty {
		c.UpdateProjectionMatrix()
	}
	return c.proj
}

// ViewProjectionMatrix returns projection·view.
func (c *Camera) ViewProjectionMatrix() math3d.Mat4 {
	v, p := c.ViewMatrix(), c.ProjectionMatrix()
	if c.vpDirty {
		c.viewProj = p.Mul(v)
		c.vpDirty = false
	}
	return c.viewProj
}
