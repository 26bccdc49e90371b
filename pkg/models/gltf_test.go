package models

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/taigrr/splitscroll/pkg/math3d"
)

func TestLoadGLBInvalidPath(t *testing.T) {
	_, err := LoadGLB("/nonexistent/path.glb")
	if err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestGLTFLoaderCreation(t *testing.T) {
	loader := NewGLTFLoader()
	if loader == nil {
		t.Error("NewGLTFLoader returned nil")
		return
	}
	if !loader.CalculateNormals {
		t.Error("CalculateNormals should default to true")
	}
	if !loader.SmoothNormals {
		t.Error("SmoothNormals should default to true")
	}
}

// writeTriangleGLB saves a single red triangle as a binary glTF.
func writeTriangleGLB(t *testing.T) string {
	t.Helper()

	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	idx := modeler.WriteIndices(doc, []uint16{0, 1, 2})
	doc.Materials = []*gltf.Material{{
		Name: "hull",
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &[4]float64{1, 0, 0, 1},
		},
	}}
	doc.Meshes = []*gltf.Mesh{{
		Name: "tri",
		Primitives: []*gltf.Primitive{{
			Indices:    gltf.Index(idx),
			Attributes: map[string]int{gltf.POSITION: pos},
			Material:   gltf.Index(0),
		}},
	}}

	path := filepath.Join(t.TempDir(), "tri.glb")
	if err := gltf.SaveBinary(doc, path); err != nil {
		t.Fatalf("SaveBinary: %v", err)
	}
	return path
}

func TestGLTFLoaderReadsGeometryAndMaterials(t *testing.T) {
	path := writeTriangleGLB(t)

	mesh, err := NewGLTFLoader().LoadMesh(context.Background(), path)
	if err != nil {
		t.Fatalf("LoadMesh: %v", err)
	}

	if mesh.VertexCount() != 3 || mesh.TriangleCount() != 1 {
		t.Fatalf("got %d vertices, %d triangles; want 3, 1", mesh.VertexCount(), mesh.TriangleCount())
	}
	// Winding is reversed on load.
	if got := mesh.GetFace(0); got != [3]int{0, 2, 1} {
		t.Errorf("face = %v, want [0 2 1]", got)
	}
	if mesh.BoundsMax.X != 1 || mesh.BoundsMax.Y != 1 {
		t.Errorf("bounds max = %v, want (1,1,0)", mesh.BoundsMax)
	}
	c, ok := mesh.FaceColor(0)
	if !ok || c.R != 255 || c.G != 0 {
		t.Errorf("FaceColor = %v, %v; want red", c, ok)
	}
	_, n := mesh.GetVertex(0)
	if n.Len() < 0.99 {
		t.Errorf("normals should be generated, got %v", n)
	}
}

func TestGLTFLoaderHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewGLTFLoader().LoadMesh(ctx, "unused.glb")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestGLTFLoaderBakesNodeTransforms(t *testing.T) {
	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	doc.Meshes = []*gltf.Mesh{{
		Name:       "tri",
		Primitives: []*gltf.Primitive{{Attributes: map[string]int{gltf.POSITION: pos}}},
	}}
	// The same mesh twice: once moved back, once as a child doubled in size.
	doc.Nodes = []*gltf.Node{
		{Mesh: gltf.Index(0), Translation: [3]float64{0, 0, -5}, Children: []int{1}},
		{Mesh: gltf.Index(0), Scale: [3]float64{2, 2, 2}},
	}
	doc.Scenes[0].Nodes = []int{0}

	path := filepath.Join(t.TempDir(), "nodes.glb")
	if err := gltf.SaveBinary(doc, path); err != nil {
		t.Fatalf("SaveBinary: %v", err)
	}

	mesh, err := LoadGLB(path)
	if err != nil {
		t.Fatalf("LoadGLB: %v", err)
	}
	if mesh.VertexCount() != 6 || mesh.TriangleCount() != 2 {
		t.Fatalf("got %d vertices, %d triangles; want 6, 2", mesh.VertexCount(), mesh.TriangleCount())
	}
	if p, _ := mesh.GetVertex(1); p != math3d.V3(1, 0, -5) {
		t.Errorf("parent vertex = %v, want (1, 0, -5)", p)
	}
	// The child inherits the parent's translation.
	if p, _ := mesh.GetVertex(4); p != math3d.V3(2, 0, -5) {
		t.Errorf("child vertex = %v, want (2, 0, -5)", p)
	}
	if got := mesh.GetFace(1); got != [3]int{3, 5, 4} {
		t.Errorf("child face = %v, want [3 5 4]", got)
	}
	if mesh.BoundsMax.X != 2 || mesh.BoundsMin.Z != -5 {
		t.Errorf("bounds = %v..%v", mesh.BoundsMin, mesh.BoundsMax)
	}
}

func TestQuatMatrix(t *testing.T) {
	// Quarter turn about Y.
	s := math.Sqrt2 / 2
	m := quatMatrix([4]float64{0, s, 0, s})
	if got := m.MulVec3Dir(math3d.V3(0, 0, 1)); got.Distance(math3d.V3(1, 0, 0)) > 1e-9 {
		t.Errorf("rotated +Z = %v, want +X", got)
	}
	if quatMatrix([4]float64{0, 0, 0, 1}) != math3d.Identity() {
		t.Error("identity quaternion should give the identity matrix")
	}
}

func TestMeshTransformMirror(t *testing.T) {
	mesh := NewMesh("tri")
	mesh.Vertices = []MeshVertex{
		{Position: math3d.V3(0, 0, 0), Normal: math3d.V3(0, 0, 1)},
		{Position: math3d.V3(1, 0, 0), Normal: math3d.V3(0, 0, 1)},
		{Position: math3d.V3(0, 1, 0), Normal: math3d.V3(0, 0, 1)},
	}
	mesh.Faces = []Face{{V: [3]int{0, 1, 2}, Material: -1}}

	mesh.Transform(math3d.Scale(math3d.V3(-1, 1, 1)))

	if got := mesh.GetFace(0); got != [3]int{0, 2, 1} {
		t.Errorf("mirrored face = %v, want [0 2 1]", got)
	}
	if _, n := mesh.GetVertex(0); n.Distance(math3d.V3(0, 0, 1)) > 1e-9 {
		t.Errorf("normal = %v, want +Z", n)
	}
	if mesh.BoundsMin.X != -1 {
		t.Errorf("bounds min = %v, want x = -1", mesh.BoundsMin)
	}
}

func TestMeshTransformNonUniformNormals(t *testing.T) {
	mesh := NewMesh("slope")
	n := math3d.V3(1, 1, 0).Normalize()
	mesh.Vertices = []MeshVertex{{Normal: n}}

	// Stretching X flattens the slope, so the normal tilts toward Y.
	mesh.Transform(math3d.Scale(math3d.V3(2, 1, 1)))

	_, got := mesh.GetVertex(0)
	want := math3d.V3(1, 2, 0).Normalize()
	if got.Distance(want) > 1e-9 {
		t.Errorf("normal = %v, want %v", got, want)
	}
}
