package loop

import (
	"github.com/taigrr/splitscroll/pkg/render"
	"github.com/taigrr/splitscroll/pkg/scene"
	"github.com/taigrr/splitscroll/pkg/viewport"
)

// Renderer is the subset of render.Renderer the compositor drives.
type Renderer interface {
	SetViewport(x, y, width, height int)
	SetScissor(x, y, width, height int)
	SetScissorTest(enabled bool)
	Render(s *scene.Scene, cam *render.Camera)
}

// Draw composites every view in order onto one surface. Each view renders
// with the full surface as viewport, so its projection is unchanged as the
// view grows or shrinks, and is clipped to its own band by the scissor.
// Later views paint over earlier ones where bands overlap.
func Draw(r Renderer, views *viewport.Set) {
	full := views.FullRect()
	for i, v := range views.Views() {
		rect, err := views.Rect(i)
		if err != nil {
			continue
		}
		r.SetViewport(full.X, full.Y, full.W, full.H)
		r.SetScissor(rect.X, rect.Y, rect.W, rect.H)
		r.SetScissorTest(true)
		r.Render(v.Scene, v.Camera)
	}
}
