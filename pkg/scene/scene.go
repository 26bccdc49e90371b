// Package scene provides the small scene graph drawn by the renderer: named
// groups of meshes, per-scene lights and an optional override material.
package scene

import (
	"image/color"

	"github.com/taigrr/splitscroll/pkg/math3d"
)

// Geometry is the triangle data a mesh node draws.
type Geometry interface {
	VertexCount() int
	TriangleCount() int
	GetVertex(i int) (pos, normal math3d.Vec3)
	GetFace(i int) [3]int
	GetBounds() (min, max math3d.Vec3)
}

// Material is a flat color, optionally drawn as edges only.
type Material struct {
	Color     color.RGBA
	Wireframe bool
}

// MeshNode is a leaf that draws Geometry with a local scale.
type MeshNode struct {
	Mesh     Geometry
	Material *Material // nil uses the mesh's own colors
	Scale    math3d.Vec3

	// Shadow flags are carried for parity with asset metadata; the
	// rasterizer does not cast shadows.
	CastShadow    bool
	ReceiveShadow bool
}

// NewMeshNode wraps geometry with unit scale.
func NewMeshNode(mesh Geometry) *MeshNode {
	return &MeshNode{Mesh: mesh, Scale: math3d.V3(1, 1, 1)}
}

// Matrix returns the node's local transform.
func (n *MeshNode) Matrix() math3d.Mat4 {
	return math3d.Scale(n.Scale)
}

// Group is a named transform node holding meshes.
type Group struct {
	Name     string
	Position math3d.Vec3
	Rotation math3d.Vec3 // XYZ Euler angles, radians
	Scale    math3d.Vec3
	Visible  bool
	Children []*MeshNode
}

// NewGroup creates a visible group with identity transform.
func NewGroup(name string) *Group {
	return &Group{Name: name, Scale: math3d.V3(1, 1, 1), Visible: true}
}

// Add appends mesh nodes to the group.
func (g *Group) Add(nodes ...*MeshNode) {
	g.Children = append(g.Children, nodes...)
}

// Traverse calls fn for every mesh node in the group.
func (g *Group) Traverse(fn func(*MeshNode)) {
	for _, n := range g.Children {
		fn(n)
	}
}

// Matrix returns the group's transform, T * R * S.
func (g *Group) Matrix() math3d.Mat4 {
	return math3d.Compose(g.Position, g.Rotation, g.Scale)
}

// LookAt rotates the group so its +Z axis faces target.
func (g *Group) LookAt(target math3d.Vec3) {
	g.Rotation = math3d.EulerFromMat4(math3d.LookRotation(g.Position, target, math3d.Up()))
}

// Clone copies the group and its nodes. Geometry is shared between the
// copies; transforms and materials are not.
func (g *Group) Clone() *Group {
	c := *g
	c.Children = make([]*MeshNode, len(g.Children))
	for i, n := range g.Children {
		nc := *n
		if n.Material != nil {
			m := *n.Material
			nc.Material = &m
		}
		c.Children[i] = &nc
	}
	return &c
}

// PointLight emits from Position with no falloff.
type PointLight struct {
	Position  math3d.Vec3
	Intensity float64
}

// Scene is an ordered collection of groups plus its lighting.
type Scene struct {
	Name       string
	Background *color.RGBA // nil leaves the renderer's clear color
	Override   *Material   // replaces every node's material when set
	Ambient    float64
	Lights     []PointLight

	groups []*Group
}

// New creates an empty scene.
func New(name string) *Scene {
	return &Scene{Name: name}
}

// Add appends g to the scene. Adding a group twice is a no-op.
func (s *Scene) Add(g *Group) {
	for _, existing := range s.groups {
		if existing == g {
			return
		}
	}
	s.groups = append(s.groups, g)
}

// Remove detaches g, reporting whether it was present.
func (s *Scene) Remove(g *Group) bool {
	for i, existing := range s.groups {
		if existing == g {
			s.groups = append(s.groups[:i], s.groups[i+1:]...)
			return true
		}
	}
	return false
}

// Groups returns the scene's groups in insertion order.
func (s *Scene) Groups() []*Group {
	return s.groups
}

// Find returns the first group with the given name, or nil.
func (s *Scene) Find(name string) *Group {
	for _, g := range s.groups {
		if g.Name == name {
			return g
		}
	}
	return nil
}
