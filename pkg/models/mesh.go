// Package models loads glTF assets into triangle meshes and tracks them in a
// registry of named scene groups.
package models

import (
	"image/color"
	"slices"

	"github.com/taigrr/splitscroll/pkg/math3d"
)

// Mesh is an indexed triangle mesh with per-face materials.
type Mesh struct {
	Name      string
	Vertices  []MeshVertex
	Faces     []Face
	Materials []Material

	// Bounds, kept current by CalculateBounds.
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// MeshVertex holds all vertex attributes.
type MeshVertex struct {
	Position math3d.Vec3
	Normal   math3d.Vec3
}

// Face is a triangle. Winding is clockwise in screen space.
type Face struct {
	V        [3]int // Indices into Mesh.Vertices
	Material int    // Index into Mesh.Materials, -1 for none
}

// Material holds the metallic-roughness factors read from glTF.
// Only the base color is used for shading.
type Material struct {
	Name      string
	BaseColor [4]float64 // RGBA in 0-1 range
	Metallic  float64    // 0 = dielectric, 1 = metal
	Roughness float64    // 0 = smooth, 1 = rough
}

// DefaultMaterial is what glTF prescribes for absent factors.
func DefaultMaterial(name string) Material {
	return Material{Name: name, BaseColor: [4]float64{1, 1, 1, 1}, Metallic: 1, Roughness: 1}
}

// RGBA converts the base color factor to 8-bit channels.
func (m Material) RGBA() color.RGBA {
	ch := func(f float64) uint8 {
		return uint8(clamp01(f)*255 + 0.5)
	}
	return color.RGBA{ch(m.BaseColor[0]), ch(m.BaseColor[1]), ch(m.BaseColor[2]), ch(m.BaseColor[3])}
}

func clamp01(f float64) float64 {
	return min(max(f, 0), 1)
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{Name: name}
}

// CalculateBounds recomputes the bounding box. An empty mesh keeps a zero box.
func (m *Mesh) CalculateBounds() {
	m.BoundsMin, m.BoundsMax = math3d.Vec3{}, math3d.Vec3{}
	for i, v := range m.Vertices {
		if i == 0 {
			m.BoundsMin, m.BoundsMax = v.Position, v.Position
			continue
		}
		m.BoundsMin = m.BoundsMin.Min(v.Position)
		m.BoundsMax = m.BoundsMax.Max(v.Position)
	}
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int { return len(m.Faces) }

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int { return len(m.Vertices) }

// hasNormals reports whether any vertex carries a usable normal.
func (m *Mesh) hasNormals() bool {
	return slices.ContainsFunc(m.Vertices, func(v MeshVertex) bool {
		return v.Normal.LenSq() > 1e-6
	})
}

// faceNormal returns the unnormalized normal of face i, whose length is
// twice the triangle's area.
func (m *Mesh) faceNormal(i int) math3d.Vec3 {
	f := m.Faces[i].V
	p0 := m.Vertices[f[0]].Position
	return m.Vertices[f[1]].Position.Sub(p0).Cross(m.Vertices[f[2]].Position.Sub(p0))
}

// CalculateNormals gives every vertex the normal of the last face that uses
// it, for a faceted look on meshes without shared vertices.
func (m *Mesh) CalculateNormals() {
	for i, f := range m.Faces {
		n := m.faceNormal(i).Normalize()
		for _, v := range f.V {
			m.Vertices[v].Normal = n
		}
	}
}

// CalculateSmoothNormals sets each vertex normal to the area-weighted mean
// of its faces' normals.
func (m *Mesh) CalculateSmoothNormals() {
	for i := range m.Vertices {
		m.Vertices[i].Normal = math3d.Vec3{}
	}
	for i, f := range m.Faces {
		n := m.faceNormal(i)
		for _, v := range f.V {
			m.Vertices[v].Normal = m.Vertices[v].Normal.Add(n)
		}
	}
	for i := range m.Vertices {
		m.Vertices[i].Normal = m.Vertices[i].Normal.Normalize()
	}
}

// Transform bakes mat into the vertices. Normals go through the cofactor
// matrix so they stay perpendicular under non-uniform scale, and a mirroring
// transform flips the winding to keep faces pointing outward.
func (m *Mesh) Transform(mat math3d.Mat4) {
	x := mat.MulVec3Dir(math3d.V3(1, 0, 0))
	y := mat.MulVec3Dir(math3d.V3(0, 1, 0))
	z := mat.MulVec3Dir(math3d.V3(0, 0, 1))
	cx, cy, cz := y.Cross(z), z.Cross(x), x.Cross(y)
	mirrored := x.Dot(cx) < 0

	for i := range m.Vertices {
		v := &m.Vertices[i]
		v.Position = mat.MulVec3(v.Position)
		n := cx.Scale(v.Normal.X).Add(cy.Scale(v.Normal.Y)).Add(cz.Scale(v.Normal.Z))
		if mirrored {
			n = n.Negate()
		}
		v.Normal = n.Normalize()
	}
	if mirrored {
		for i := range m.Faces {
			f := &m.Faces[i].V
			f[1], f[2] = f[2], f[1]
		}
	}
	m.CalculateBounds()
}

// Append adds the vertices and faces of o to m, remapping material indices
// onto materials already in m.
func (m *Mesh) Append(o *Mesh, materialBase int) {
	base := len(m.Vertices)
	m.Vertices = append(m.Vertices, o.Vertices...)
	for _, f := range o.Faces {
		for k := range f.V {
			f.V[k] += base
		}
		if f.Material >= 0 {
			f.Material += materialBase
		}
		m.Faces = append(m.Faces, f)
	}
}

// Clone creates a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	c := *m
	c.Vertices = slices.Clone(m.Vertices)
	c.Faces = slices.Clone(m.Faces)
	c.Materials = slices.Clone(m.Materials)
	return &c
}

// GetVertex returns the position and normal for vertex i.
func (m *Mesh) GetVertex(i int) (pos, normal math3d.Vec3) {
	v := m.Vertices[i]
	return v.Position, v.Normal
}

// GetFace returns the vertex indices for face i.
func (m *Mesh) GetFace(i int) [3]int {
	return m.Faces[i].V
}

// GetFaceMaterial returns the material index for face i, or -1.
func (m *Mesh) GetFaceMaterial(i int) int {
	return m.Faces[i].Material
}

// GetMaterial returns the material at index i, or nil when i is out of range.
func (m *Mesh) GetMaterial(i int) *Material {
	if i < 0 || i >= len(m.Materials) {
		return nil
	}
	return &m.Materials[i]
}

// FaceColor returns the base color of the material assigned to face i.
func (m *Mesh) FaceColor(i int) (color.RGBA, bool) {
	mat := m.GetMaterial(m.Faces[i].Material)
	if mat == nil {
		return color.RGBA{}, false
	}
	return mat.RGBA(), true
}

// MaterialCount returns the number of materials.
func (m *Mesh) MaterialCount() int {
	return len(m.Materials)
}

// GetBounds returns the axis-aligned bounding box.
func (m *Mesh) GetBounds() (min, max math3d.Vec3) {
	return m.BoundsMin, m.BoundsMax
}
