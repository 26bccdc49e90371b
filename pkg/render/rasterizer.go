package render

import (
	"image"
	"math"

	"github.com/taigrr/splitscroll/pkg/math3d"
)

// Vertex represents a vertex with all attributes needed for rasterization.
type Vertex struct {
	Position math3d.Vec3 // World position
	Normal   math3d.Vec3 // Normal vector (for lighting)
	Color    Color       // Vertex color
}

// Triangle represents a triangle to be rasterized.
type Triangle struct {
	V [3]Vertex
}

// PointLight is an omnidirectional light without falloff.
type PointLight struct {
	Position  math3d.Vec3
	Intensity float64
}

// Lighting is the light environment used for Gouraud shading.
type Lighting struct {
	Ambient float64
	Points  []PointLight
}

// Intensity returns the light reaching a surface point with the given
// world-space normal, clamped to [0, 1].
func (l Lighting) Intensity(pos, normal math3d.Vec3) float64 {
	i := l.Ambient
	for _, p := range l.Points {
		dir := p.Position.Sub(pos).Normalize()
		i += p.Intensity * math.Max(0, normal.Dot(dir))
	}
	return math.Min(1, math.Max(0, i))
}

// Rasterizer handles software triangle rasterization.
type Rasterizer struct {
	camera                 *Camera
	fb                     *Framebuffer
	zbuffer                []float64       // Depth buffer (1D array, row-major)
	viewport               image.Rectangle // NDC maps onto this rect (top-left origin)
	CullingStats           CullingStats    // Statistics for debugging/benchmarking
	DisableBackfaceCulling bool            // If true, render both sides of triangles
}

// CullingStats tracks frustum culling performance.
type CullingStats struct {
	MeshesTested int // Total meshes tested for culling
	MeshesCulled int // Meshes culled (not rendered)
	MeshesDrawn  int // Meshes that passed culling
}

// NewRasterizer creates a new rasterizer whose viewport covers fb.
func NewRasterizer(camera *Camera, fb *Framebuffer) *Rasterizer {
	r := &Rasterizer{
		camera:   camera,
		fb:       fb,
		viewport: fb.Bounds(),
	}
	r.zbuffer = make([]float64, fb.Width*fb.Height)
	return r
}

// SetCamera switches the camera used for projection.
func (r *Rasterizer) SetCamera(c *Camera) {
	r.camera = c
}

// SetViewport sets the rectangle normalized device coordinates map onto.
func (r *Rasterizer) SetViewport(rect image.Rectangle) {
	r.viewport = rect.Canon()
}

// ClearDepth resets the Z-buffer inside the framebuffer's writable region.
func (r *Rasterizer) ClearDepth() {
	if len(r.zbuffer) == 0 {
		return
	}
	w := r.fb.Writable()
	if w == r.fb.Bounds() {
		// Use copy-doubling for faster clearing
		r.zbuffer[0] = math.MaxFloat64
		for i := 1; i < len(r.zbuffer); i *= 2 {
			copy(r.zbuffer[i:], r.zbuffer[:i])
		}
		return
	}
	for y := w.Min.Y; y < w.Max.Y; y++ {
		row := r.zbuffer[y*r.fb.Width : (y+1)*r.fb.Width]
		for x := w.Min.X; x < w.Max.X; x++ {
			row[x] = math.MaxFloat64
		}
	}
}

// ResetCullingStats resets the culling statistics (call once per frame).
func (r *Rasterizer) ResetCullingStats() {
	r.CullingStats = CullingStats{}
}

// IsVisible tests if a world-space AABB can reach the writable region. With
// the scissor test on, the frustum is narrowed to the scissor band, so a mesh
// that only shows in another view is skipped.
func (r *Rasterizer) IsVisible(worldBounds AABB) bool {
	w := WindowOf(r.viewport, r.fb.Writable().Intersect(r.viewport))
	return NewWindowFrustum(r.camera.ViewProjectionMatrix(), w).IntersectAABB(worldBounds)
}

// getDepth returns the depth at (x, y), or MaxFloat64 out of bounds.
func (r *Rasterizer) getDepth(x, y int) float64 {
	if x < 0 || x >= r.fb.Width || y < 0 || y >= r.fb.Height {
		return math.MaxFloat64
	}
	return r.zbuffer[y*r.fb.Width+x]
}

// setDepth sets the depth at (x, y).
func (r *Rasterizer) setDepth(x, y int, z float64) {
	if x < 0 || x >= r.fb.Width || y < 0 || y >= r.fb.Height {
		return
	}
	r.zbuffer[y*r.fb.Width+x] = z
}

// screenVertex holds a vertex transformed to screen space.
type screenVertex struct {
	X, Y  float64 // Screen coordinates
	Z     float64 // Depth (for Z-buffer)
	W     float64 // Clip-space W
	Color Color
}

// project transforms a world position to viewport pixel coordinates.
func (r *Rasterizer) project(viewProj math3d.Mat4, p math3d.Vec3) screenVertex {
	clip := viewProj.MulVec4(math3d.V4FromV3(p, 1))
	sv := screenVertex{W: clip.W}
	if clip.W != 0 {
		sv.X = clip.X / clip.W
		sv.Y = clip.Y / clip.W
		sv.Z = clip.Z / clip.W
	}

	vp := r.viewport
	sv.X = float64(vp.Min.X) + (sv.X+1)*0.5*float64(vp.Dx())
	sv.Y = float64(vp.Min.Y) + (1-sv.Y)*0.5*float64(vp.Dy()) // Y flipped
	return sv
}

// clipBounds returns the pixel bounding box of the three vertices clipped to
// the writable region. ok is false when nothing remains.
func (r *Rasterizer) clipBounds(sv *[3]screenVertex) (minX, minY, maxX, maxY int, ok bool) {
	w := r.fb.Writable()
	minX = max(w.Min.X, int(math.Floor(min3(sv[0].X, sv[1].X, sv[2].X))))
	maxX = min(w.Max.X-1, int(math.Ceil(max3(sv[0].X, sv[1].X, sv[2].X))))
	minY = max(w.Min.Y, int(math.Floor(min3(sv[0].Y, sv[1].Y, sv[2].Y))))
	maxY = min(w.Max.Y-1, int(math.Ceil(max3(sv[0].Y, sv[1].Y, sv[2].Y))))
	return minX, minY, maxX, maxY, minX <= maxX && minY <= maxY
}

// barycentric calculates barycentric coordinates for point (px, py) in triangle.
func barycentric(x0, y0, x1, y1, x2, y2, px, py float64) math3d.Vec3 {
	v0x, v0y := x1-x0, y1-y0
	v1x, v1y := x2-x0, y2-y0
	v2x, v2y := px-x0, py-y0

	d00 := v0x*v0x + v0y*v0y
	d01 := v0x*v1x + v0y*v1y
	d11 := v1x*v1x + v1y*v1y
	d20 := v2x*v0x + v2y*v0y
	d21 := v2x*v1x + v2y*v1y

	denom := d00*d11 - d01*d01
	if denom == 0 {
		return math3d.V3(-1, -1, -1)
	}

	v := (d11*d20 - d01*d21) / denom
	w := (d00*d21 - d01*d20) / denom
	return math3d.V3(1-v-w, v, w)
}

// interpolateColor3 interpolates between 3 colors using barycentric coords.
func interpolateColor3(c0, c1, c2 Color, bc math3d.Vec3) Color {
	return RGB(
		uint8(math.Min(255, float64(c0.R)*bc.X+float64(c1.R)*bc.Y+float64(c2.R)*bc.Z)),
		uint8(math.Min(255, float64(c0.G)*bc.X+float64(c1.G)*bc.Y+float64(c2.G)*bc.Z)),
		uint8(math.Min(255, float64(c0.B)*bc.X+float64(c1.B)*bc.Y+float64(c2.B)*bc.Z)),
	)
}

func min3(a, b, c float64) float64 {
	return math.Min(a, math.Min(b, c))
}

func max3(a, b, c float64) float64 {
	return math.Max(a, math.Max(b, c))
}

// DrawTriangleGouraud rasterizes a triangle with Gouraud shading (per-vertex lighting).
// Lighting is calculated at each vertex and interpolated across the triangle.
func (r *Rasterizer) DrawTriangleGouraud(tri Triangle, light Lighting) {
	var sv [3]screenVertex
	viewProj := r.camera.ViewProjectionMatrix()

	for i := range 3 {
		sv[i] = r.project(viewProj, tri.V[i].Position)
		// No near-plane clipping: drop triangles crossing behind the camera.
		if sv[i].W <= 0 {
			return
		}

		intensity := light.Intensity(tri.V[i].Position, tri.V[i].Normal)
		sv[i].Color = RGB(
			uint8(float64(tri.V[i].Color.R)*intensity),
			uint8(float64(tri.V[i].Color.G)*intensity),
			uint8(float64(tri.V[i].Color.B)*intensity),
		)
	}

	// Backface culling (using screen-space winding)
	edge1 := math3d.V2(sv[1].X-sv[0].X, sv[1].Y-sv[0].Y)
	edge2 := math3d.V2(sv[2].X-sv[0].X, sv[2].Y-sv[0].Y)
	if edge1.Cross(edge2) < 0 && !r.DisableBackfaceCulling {
		return
	}

	minX, minY, maxX, maxY, ok := r.clipBounds(&sv)
	if !ok {
		return
	}

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			px, py := float64(x)+0.5, float64(y)+0.5

			bc := barycentric(
				sv[0].X, sv[0].Y,
				sv[1].X, sv[1].Y,
				sv[2].X, sv[2].Y,
				px, py,
			)
			if bc.X < 0 || bc.Y < 0 || bc.Z < 0 {
				continue
			}

			z := bc.X*sv[0].Z + bc.Y*sv[1].Z + bc.Z*sv[2].Z
			if z >= r.getDepth(x, y) {
				continue
			}

			r.setDepth(x, y, z)
			r.fb.SetPixel(x, y, interpolateColor3(sv[0].Color, sv[1].Color, sv[2].Color, bc))
		}
	}
}

// MeshRenderer is the geometry view the rasterizer needs.
// This interface allows drawing meshes without importing the models package.
type MeshRenderer interface {
	VertexCount() int
	TriangleCount() int
	GetVertex(i int) (pos, normal math3d.Vec3)
	GetFace(i int) [3]int
}

// BoundedMeshRenderer extends MeshRenderer with bounding box support for frustum culling.
type BoundedMeshRenderer interface {
	MeshRenderer
	GetBounds() (min, max math3d.Vec3)
}

// ColoredMeshRenderer reports per-face material colors.
type ColoredMeshRenderer interface {
	MeshRenderer
	FaceColor(i int) (Color, bool)
}

// tryFrustumCull attempts to cull a mesh using its bounds if available.
// Returns true if the mesh should be culled (not visible).
func (r *Rasterizer) tryFrustumCull(mesh MeshRenderer, transform math3d.Mat4) bool {
	bounded, ok := mesh.(BoundedMeshRenderer)
	if !ok {
		return false
	}

	r.CullingStats.MeshesTested++

	minBounds, maxBounds := bounded.GetBounds()
	if !r.IsVisible(AABB{Min: minBounds, Max: maxBounds}.Transform(transform)) {
		r.CullingStats.MeshesCulled++
		return true
	}

	r.CullingStats.MeshesDrawn++
	return false
}

// DrawMeshGouraud renders a mesh with Gouraud shading (per-vertex lighting).
// Faces with a material color use it; the rest use color.
// Automatically performs frustum culling if the mesh provides bounds.
func (r *Rasterizer) DrawMeshGouraud(mesh MeshRenderer, transform math3d.Mat4, color Color, light Lighting) {
	if r.tryFrustumCull(mesh, transform) {
		return
	}

	colored, hasColors := mesh.(ColoredMeshRenderer)
	for i := 0; i < mesh.TriangleCount(); i++ {
		face := mesh.GetFace(i)

		faceColor := color
		if hasColors {
			if c, ok := colored.FaceColor(i); ok {
				faceColor = c
			}
		}

		var tri Triangle
		for k := range 3 {
			p, n := mesh.GetVertex(face[k])
			tri.V[k] = Vertex{
				Position: transform.MulVec3(p),
				Normal:   transform.MulVec3Dir(n).Normalize(),
				Color:    faceColor,
			}
		}

		r.DrawTriangleGouraud(tri, light)
	}
}

// DrawMeshWireframe renders a mesh as wireframe.
// Automatically performs frustum culling if the mesh provides bounds.
func (r *Rasterizer) DrawMeshWireframe(mesh MeshRenderer, transform math3d.Mat4, color Color) {
	if r.tryFrustumCull(mesh, transform) {
		return
	}

	viewProj := r.camera.ViewProjectionMatrix()
	for i := 0; i < mesh.TriangleCount(); i++ {
		face := mesh.GetFace(i)

		var sv [3]screenVertex
		for k := range 3 {
			p, _ := mesh.GetVertex(face[k])
			sv[k] = r.project(viewProj, transform.MulVec3(p))
		}

		r.drawEdge(sv[0], sv[1], color)
		r.drawEdge(sv[1], sv[2], color)
		r.drawEdge(sv[2], sv[0], color)
	}
}

// maxEdgeCoord bounds projected line endpoints; vertices just in front of
// the camera project arbitrarily far off screen.
const maxEdgeCoord = 1 << 14

// drawEdge draws a projected line, skipping edges that reach behind the camera.
func (r *Rasterizer) drawEdge(a, b screenVertex, color Color) {
	if a.W <= 0 || b.W <= 0 {
		return
	}
	for _, v := range [...]float64{a.X, a.Y, b.X, b.Y} {
		if math.Abs(v) > maxEdgeCoord {
			return
		}
	}
	r.fb.DrawLine(int(a.X), int(a.Y), int(b.X), int(b.Y), color)
}
