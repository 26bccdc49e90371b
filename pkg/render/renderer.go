package render

import (
	"image"

	"github.com/taigrr/splitscroll/pkg/math3d"
	"github.com/taigrr/splitscroll/pkg/scene"
)

// DefaultMeshColor shades meshes that carry no material color.
var DefaultMeshColor = RGB(200, 200, 200)

// Renderer draws scenes into a single framebuffer. Viewport and scissor
// rectangles use a bottom-left origin, so y grows upward from the bottom
// row of the surface; they are flipped to framebuffer rows internally.
type Renderer struct {
	fb   *Framebuffer
	rast *Rasterizer

	// ClearColor fills the scissor region for scenes without a background.
	ClearColor Color

	viewport    image.Rectangle
	scissor     image.Rectangle
	scissorTest bool

	// DrawCalls counts Render invocations since the last ResetStats.
	DrawCalls int
}

// NewRenderer creates a renderer with a width x height pixel surface.
func NewRenderer(width, height int) *Renderer {
	r := &Renderer{}
	r.SetSize(width, height)
	return r
}

// SetSize reallocates the framebuffer and resets viewport and scissor to the
// full surface. Negative sizes are treated as zero.
func (r *Renderer) SetSize(width, height int) {
	r.fb = NewFramebuffer(width, height)
	r.rast = NewRasterizer(NewCamera(), r.fb)
	r.viewport = r.fb.Bounds()
	r.scissor = r.fb.Bounds()
}

// Size returns the surface size in pixels.
func (r *Renderer) Size() (width, height int) {
	return r.fb.Width, r.fb.Height
}

// Framebuffer returns the composited output.
func (r *Renderer) Framebuffer() *Framebuffer {
	return r.fb
}

// SetViewport sets the rectangle normalized device coordinates map onto.
func (r *Renderer) SetViewport(x, y, width, height int) {
	r.viewport = r.flip(x, y, width, height)
}

// SetScissor sets the clip rectangle used while the scissor test is enabled.
func (r *Renderer) SetScissor(x, y, width, height int) {
	r.scissor = r.flip(x, y, width, height)
}

// SetScissorTest enables or disables scissor clipping.
func (r *Renderer) SetScissorTest(enabled bool) {
	r.scissorTest = enabled
}

// flip converts a bottom-left-origin rect into framebuffer rows.
func (r *Renderer) flip(x, y, width, height int) image.Rectangle {
	width, height = max(width, 0), max(height, 0)
	top := r.fb.Height - (y + height)
	return image.Rect(x, top, x+width, top+height)
}

// ResetStats clears per-frame counters.
func (r *Renderer) ResetStats() {
	r.DrawCalls = 0
	r.rast.ResetCullingStats()
}

// Render clears the writable region to the scene background and draws every
// visible group of s as seen by cam.
func (r *Renderer) Render(s *scene.Scene, cam *Camera) {
	r.DrawCalls++

	r.fb.SetScissor(r.scissor)
	r.fb.SetScissorTest(r.scissorTest)
	if r.fb.Writable().Empty() {
		return
	}

	bg := r.ClearColor
	if s != nil && s.Background != nil {
		bg = *s.Background
	}
	r.fb.Clear(bg)
	r.rast.ClearDepth()

	if s == nil || cam == nil {
		return
	}

	r.rast.SetCamera(cam)
	r.rast.SetViewport(r.viewport)

	light := Lighting{Ambient: s.Ambient}
	for _, p := range s.Lights {
		light.Points = append(light.Points, PointLight{Position: p.Position, Intensity: p.Intensity})
	}
	if len(s.Lights) == 0 && s.Ambient == 0 {
		light.Ambient = 1
	}

	for _, g := range s.Groups() {
		if !g.Visible {
			continue
		}
		world := g.Matrix()
		for _, node := range g.Children {
			if node.Mesh == nil {
				continue
			}
			r.drawNode(s, node, world.Mul(node.Matrix()), light)
		}
	}
}

func (r *Renderer) drawNode(s *scene.Scene, node *scene.MeshNode, m math3d.Mat4, light Lighting) {
	mat := node.Material
	if s.Override != nil {
		mat = s.Override
	}

	switch {
	case mat != nil && mat.Wireframe:
		r.rast.DrawMeshWireframe(node.Mesh, m, mat.Color)
	case mat != nil:
		r.rast.DrawMeshGouraud(uncolored{node.Mesh}, m, mat.Color, light)
	default:
		r.rast.DrawMeshGouraud(node.Mesh, m, DefaultMeshColor, light)
	}
}

// uncolored hides per-face material colors so an explicit material wins.
type uncolored struct {
	BoundedMeshRenderer
}
