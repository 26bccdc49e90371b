package render

import (
	"image"

	"github.com/taigrr/splitscroll/pkg/math3d"
)

// Plane is the set of points p with Normal·p + D = 0.
type Plane struct {
	Normal math3d.Vec3
	D      float64
}

// Normalize scales the plane so its normal has unit length.
func (p *Plane) Normalize() {
	n := p.Normal.Len()
	if n == 0 {
		return
	}
	p.Normal = p.Normal.Scale(1 / n)
	p.D /= n
}

// DistanceToPoint returns the signed distance from the plane to point.
// It is positive on the side the normal points to.
func (p Plane) DistanceToPoint(point math3d.Vec3) float64 {
	return p.Normal.Dot(point) + p.D
}

// Frustum is the convex region bounded by six inward-facing planes, in the
// order of the Frustum* constants.
type Frustum struct {
	Planes [6]Plane
}

const (
	FrustumLeft = iota
	FrustumRight
	FrustumBottom
	FrustumTop
	FrustumNear
	FrustumFar
)

// ClipWindow is a rectangle in normalized device coordinates. The full
// window is [-1, 1] on both axes.
type ClipWindow struct {
	Left, Right, Bottom, Top float64
}

// FullWindow covers the whole viewport.
var FullWindow = ClipWindow{Left: -1, Right: 1, Bottom: -1, Top: 1}

// WindowOf returns the part of viewport that region covers, in NDC. Both
// rectangles use framebuffer rows, so y is flipped on the way out.
func WindowOf(viewport, region image.Rectangle) ClipWindow {
	if viewport.Dx() <= 0 || viewport.Dy() <= 0 {
		return FullWindow
	}
	ndcX := func(px int) float64 {
		return 2*float64(px-viewport.Min.X)/float64(viewport.Dx()) - 1
	}
	ndcY := func(py int) float64 {
		return 1 - 2*float64(py-viewport.Min.Y)/float64(viewport.Dy())
	}
	return ClipWindow{
		Left:   ndcX(region.Min.X),
		Right:  ndcX(region.Max.X),
		Bottom: ndcY(region.Max.Y),
		Top:    ndcY(region.Min.Y),
	}
}

// NewFrustumFromMatrix extracts the view frustum of a view-projection matrix.
func NewFrustumFromMatrix(m math3d.Mat4) Frustum {
	return NewWindowFrustum(m, FullWindow)
}

// NewWindowFrustum extracts the frustum whose side planes pass through the
// edges of w instead of the viewport edges. A scissored view culls against
// the window of its scissor band.
//
// With rows r0..r3 of the column-major matrix m, a clip-space point lies
// right of x = l when (r0 - l*r3)·p >= 0, and likewise for the other edges.
func NewWindowFrustum(m math3d.Mat4, w ClipWindow) Frustum {
	row := func(i int) (math3d.Vec3, float64) {
		return math3d.V3(m[i], m[i+4], m[i+8]), m[i+12]
	}
	r0, d0 := row(0)
	r1, d1 := row(1)
	r2, d2 := row(2)
	r3, d3 := row(3)

	// combine returns a*n + b*r3.
	combine := func(a float64, n math3d.Vec3, d, b float64) Plane {
		return Plane{Normal: n.Scale(a).Add(r3.Scale(b)), D: a*d + b*d3}
	}

	var f Frustum
	f.Planes[FrustumLeft] = combine(1, r0, d0, -w.Left)
	f.Planes[FrustumRight] = combine(-1, r0, d0, w.Right)
	f.Planes[FrustumBottom] = combine(1, r1, d1, -w.Bottom)
	f.Planes[FrustumTop] = combine(-1, r1, d1, w.Top)
	f.Planes[FrustumNear] = combine(1, r2, d2, 1)
	f.Planes[FrustumFar] = combine(-1, r2, d2, 1)
	for i := range f.Planes {
		f.Planes[i].Normalize()
	}
	return f
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min math3d.Vec3
	Max math3d.Vec3
}

// corners returns the eight corners of b.
func (b AABB) corners() [8]math3d.Vec3 {
	var c [8]math3d.Vec3
	for i := range c {
		c[i] = b.Min
		if i&1 != 0 {
			c[i].X = b.Max.X
		}
		if i&2 != 0 {
			c[i].Y = b.Max.Y
		}
		if i&4 != 0 {
			c[i].Z = b.Max.Z
		}
	}
	return c
}

// Transform returns the box bounding b after m is applied.
func (b AABB) Transform(m math3d.Mat4) AABB {
	c := b.corners()
	out := AABB{Min: m.MulVec3(c[0])}
	out.Max = out.Min
	for _, p := range c[1:] {
		p = m.MulVec3(p)
		out.Min = out.Min.Min(p)
		out.Max = out.Max.Max(p)
	}
	return out
}

// ContainsPoint reports whether p lies inside b, boundary included.
func (b AABB) ContainsPoint(p math3d.Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// IntersectAABB reports whether any part of box may be inside f. For each
// plane only the corner furthest along the normal is tested; if even that
// corner is behind the plane the whole box is.
func (f Frustum) IntersectAABB(box AABB) bool {
	for _, p := range f.Planes {
		far := box.Min
		if p.Normal.X >= 0 {
			far.X = box.Max.X
		}
		if p.Normal.Y >= 0 {
			far.Y = box.Max.Y
		}
		if p.Normal.Z >= 0 {
			far.Z = box.Max.Z
		}
		if p.DistanceToPoint(far) < 0 {
			return false
		}
	}
	return true
}

// ContainsPoint reports whether p is inside f.
func (f Frustum) ContainsPoint(p math3d.Vec3) bool {
	for _, pl := range f.Planes {
		if pl.DistanceToPoint(p) < 0 {
			return false
		}
	}
	return true
}
