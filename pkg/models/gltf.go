package models

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/taigrr/splitscroll/pkg/math3d"
)

// maxNodeDepth bounds the node walk so a cyclic hierarchy cannot recurse
// forever.
const maxNodeDepth = 64

var errNodeDepth = errors.New("node hierarchy too deep")

// GLTFLoader loads glTF and GLB files into a single Mesh. Every mesh the
// default scene instantiates is baked in with its node's world transform.
type GLTFLoader struct {
	// CalculateNormals generates normals for assets that ship without them.
	CalculateNormals bool
	// SmoothNormals averages generated normals across shared vertices.
	SmoothNormals bool
}

// NewGLTFLoader creates a loader that generates smooth normals when needed.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{
		CalculateNormals: true,
		SmoothNormals:    true,
	}
}

// LoadGLB loads a .glb or .gltf file with the default options.
func LoadGLB(path string) (*Mesh, error) {
	return NewGLTFLoader().Load(path)
}

// LoadMesh implements Loader. The decode itself is not interruptible; ctx is
// checked before the file is opened.
func (l *GLTFLoader) LoadMesh(ctx context.Context, path string) (*Mesh, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return l.Load(path)
}

// Load decodes path into one mesh named after the file.
func (l *GLTFLoader) Load(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	b := &builder{
		doc:   doc,
		out:   NewMesh(filepath.Base(path)),
		parts: make(map[int]*Mesh),
	}
	b.out.Materials = readMaterials(doc)

	if roots := sceneRoots(doc); len(roots) > 0 {
		for _, n := range roots {
			if err := b.node(n, math3d.Identity(), 0); err != nil {
				return nil, err
			}
		}
	} else {
		for i := range doc.Meshes {
			if err := b.instance(i, math3d.Identity()); err != nil {
				return nil, err
			}
		}
	}

	mesh := b.out
	if l.CalculateNormals && !mesh.hasNormals() {
		if l.SmoothNormals {
			mesh.CalculateSmoothNormals()
		} else {
			mesh.CalculateNormals()
		}
	}
	mesh.CalculateBounds()
	return mesh, nil
}

// sceneRoots returns the root nodes of the default scene, or of the first
// scene when none is marked default.
func sceneRoots(doc *gltf.Document) []int {
	if len(doc.Scenes) == 0 {
		return nil
	}
	i := 0
	if doc.Scene != nil && *doc.Scene < len(doc.Scenes) {
		i = *doc.Scene
	}
	return doc.Scenes[i].Nodes
}

// builder flattens a glTF node tree into one mesh.
type builder struct {
	doc   *gltf.Document
	out   *Mesh
	parts map[int]*Mesh // decoded meshes by glTF index, in mesh space
}

func (b *builder) node(i int, parent math3d.Mat4, depth int) error {
	if depth > maxNodeDepth {
		return errNodeDepth
	}
	if i < 0 || i >= len(b.doc.Nodes) {
		return fmt.Errorf("node %d out of range", i)
	}
	n := b.doc.Nodes[i]
	world := parent.Mul(nodeMatrix(n))

	if n.Mesh != nil {
		if err := b.instance(*n.Mesh, world); err != nil {
			return err
		}
	}
	for _, c := range n.Children {
		if err := b.node(c, world, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// instance appends glTF mesh i transformed by world.
func (b *builder) instance(i int, world math3d.Mat4) error {
	if i < 0 || i >= len(b.doc.Meshes) {
		return fmt.Errorf("mesh %d out of range", i)
	}
	part, ok := b.parts[i]
	if !ok {
		var err error
		part, err = decodeMesh(b.doc, b.doc.Meshes[i], len(b.out.Materials))
		if err != nil {
			return fmt.Errorf("process mesh %q: %w", b.doc.Meshes[i].Name, err)
		}
		b.parts[i] = part
	}
	if world != math3d.Identity() {
		part = part.Clone()
		part.Transform(world)
	}
	b.out.Append(part, 0)
	return nil
}

// nodeMatrix returns the local transform of n, from its matrix when one is
// set and from translation, rotation and scale otherwise.
func nodeMatrix(n *gltf.Node) math3d.Mat4 {
	if m := math3d.Mat4(n.MatrixOrDefault()); m != math3d.Identity() {
		return m
	}
	t := n.TranslationOrDefault()
	s := n.ScaleOrDefault()
	return math3d.Translate(math3d.V3(t[0], t[1], t[2])).
		Mul(quatMatrix(n.RotationOrDefault())).
		Mul(math3d.Scale(math3d.V3(s[0], s[1], s[2])))
}

// quatMatrix converts a unit quaternion in glTF's (x, y, z, w) order.
func quatMatrix(q [4]float64) math3d.Mat4 {
	x, y, z, w := q[0], q[1], q[2], q[3]
	m := math3d.Identity()
	m[0], m[1], m[2] = 1-2*(y*y+z*z), 2*(x*y+z*w), 2*(x*z-y*w)
	m[4], m[5], m[6] = 2*(x*y-z*w), 1-2*(x*x+z*z), 2*(y*z+x*w)
	m[8], m[9], m[10] = 2*(x*z+y*w), 2*(y*z-x*w), 1-2*(x*x+y*y)
	return m
}

// decodeMesh reads the triangle primitives of m. Material indices outside
// [0, materials) are dropped.
func decodeMesh(doc *gltf.Document, m *gltf.Mesh, materials int) (*Mesh, error) {
	out := NewMesh(m.Name)
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
			continue
		}
		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}

		positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
		if err != nil {
			return nil, fmt.Errorf("read positions: %w", err)
		}
		var normals [][3]float32
		if normIdx, ok := prim.Attributes[gltf.NORMAL]; ok {
			normals, err = modeler.ReadNormal(doc, doc.Accessors[normIdx], nil)
			if err != nil {
				return nil, fmt.Errorf("read normals: %w", err)
			}
		}

		var indices []uint32
		if prim.Indices != nil {
			indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
			if err != nil {
				return nil, fmt.Errorf("read indices: %w", err)
			}
		} else {
			indices = make([]uint32, len(positions))
			for i := range indices {
				indices[i] = uint32(i)
			}
		}

		material := -1
		if prim.Material != nil && *prim.Material < materials {
			material = *prim.Material
		}

		base := len(out.Vertices)
		for i, p := range positions {
			v := MeshVertex{Position: vec3(p)}
			if i < len(normals) {
				v.Normal = vec3(normals[i])
			}
			out.Vertices = append(out.Vertices, v)
		}

		// glTF front faces wind counter-clockwise; the rasterizer flips Y, so
		// the last two corners swap.
		for i := 0; i+2 < len(indices); i += 3 {
			a, b, c := int(indices[i]), int(indices[i+1]), int(indices[i+2])
			if max(a, b, c) >= len(positions) {
				return nil, fmt.Errorf("index %d exceeds %d vertices", max(a, b, c), len(positions))
			}
			out.Faces = append(out.Faces, Face{V: [3]int{base + a, base + c, base + b}, Material: material})
		}
	}
	return out, nil
}

func vec3(v [3]float32) math3d.Vec3 {
	return math3d.V3(float64(v[0]), float64(v[1]), float64(v[2]))
}

// readMaterials converts glTF metallic-roughness materials, filling in the
// glTF defaults for absent factors.
func readMaterials(doc *gltf.Document) []Material {
	materials := make([]Material, 0, len(doc.Materials))
	for _, m := range doc.Materials {
		mat := DefaultMaterial(m.Name)
		if pbr := m.PBRMetallicRoughness; pbr != nil {
			mat.BaseColor = pbr.BaseColorFactorOrDefault()
			mat.Metallic = pbr.MetallicFactorOrDefault()
			mat.Roughness = pbr.RoughnessFactorOrDefault()
		}
		materials = append(materials, mat)
	}
	return materials
}
