// Package render provides the software rasterizer and the split-screen
// renderer that composites several views into one framebuffer.
package render

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
)

// Framebuffer is a 2D array of pixels that can be rendered to the terminal.
// We use double vertical resolution by using half-block characters (▀▄).
//
// Row 0 is the top of the image. When scissor testing is enabled every write
// outside the scissor rectangle is discarded.
type Framebuffer struct {
	Width  int          // Width in "pixels" (same as terminal columns)
	Height int          // Height in "pixels" (2x terminal rows due to half-blocks)
	Pixels []color.RGBA // Row-major pixel data

	scissor     image.Rectangle
	scissorTest bool
}

// NewFramebuffer creates a new framebuffer with the given dimensions.
// Height should be 2x the desired terminal rows for half-block rendering.
func NewFramebuffer(width, height int) *Framebuffer {
	width, height = max(width, 0), max(height, 0)
	return &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]color.RGBA, width*height),
	}
}

// Bounds returns the full pixel rectangle of the framebuffer.
func (fb *Framebuffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, fb.Width, fb.Height)
}

// SetScissor sets the clip rectangle in top-left-origin pixel coordinates.
// The rectangle is intersected with the framebuffer bounds.
func (fb *Framebuffer) SetScissor(r image.Rectangle) {
	fb.scissor = r.Canon().Intersect(fb.Bounds())
}

// SetScissorTest enables or disables scissor clipping.
func (fb *Framebuffer) SetScissorTest(enabled bool) {
	fb.scissorTest = enabled
}

// Writable returns the rectangle writes are currently allowed in.
func (fb *Framebuffer) Writable() image.Rectangle {
	if fb.scissorTest {
		return fb.scissor
	}
	return fb.Bounds()
}

// Clear fills the writable region with a solid color.
func (fb *Framebuffer) Clear(c color.RGBA) {
	if !fb.scissorTest {
		for i := range fb.Pixels {
			fb.Pixels[i] = c
		}
		return
	}
	r := fb.scissor
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := fb.Pixels[y*fb.Width : (y+1)*fb.Width]
		for x := r.Min.X; x < r.Max.X; x++ {
			row[x] = c
		}
	}
}

// SetPixel sets a pixel at (x, y) to the given color.
// Bounds and scissor checking is performed.
func (fb *Framebuffer) SetPixel(x, y int, c color.RGBA) {
	if !fb.inside(x, y) {
		return
	}
	fb.Pixels[y*fb.Width+x] = c
}

func (fb *Framebuffer) inside(x, y int) bool {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return false
	}
	if fb.scissorTest {
		return image.Pt(x, y).In(fb.scissor)
	}
	return true
}

// GetPixel returns the color at (x, y).
// Returns transparent black if out of bounds.
func (fb *Framebuffer) GetPixel(x, y int) color.RGBA {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return color.RGBA{}
	}
	return fb.Pixels[y*fb.Width+x]
}

// DrawLine draws a line from (x0, y0) to (x1, y1) with Bresenham's
// algorithm. The segment is first clipped to the writable region, so long
// edges of a scissored view cost only the pixels inside its band.
func (fb *Framebuffer) DrawLine(x0, y0, x1, y1 int, c color.RGBA) {
	x0, y0, x1, y1, ok := clipLine(fb.Writable(), x0, y0, x1, y1)
	if !ok {
		return
	}

	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := sign(x1-x0), sign(y1-y0)
	e := dx + dy
	for {
		fb.SetPixel(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// clipLine clips a segment to the pixels of r with the Liang-Barsky test.
// ok is false when no part of the segment is inside.
func clipLine(r image.Rectangle, x0, y0, x1, y1 int) (cx0, cy0, cx1, cy1 int, ok bool) {
	if r.Empty() {
		return 0, 0, 0, 0, false
	}
	fx, fy := float64(x0), float64(y0)
	dx, dy := float64(x1-x0), float64(y1-y0)
	t0, t1 := 0.0, 1.0

	// Each edge is p*t <= q.
	edges := [4][2]float64{
		{-dx, fx - float64(r.Min.X)},
		{dx, float64(r.Max.X-1) - fx},
		{-dy, fy - float64(r.Min.Y)},
		{dy, float64(r.Max.Y-1) - fy},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		t := q / p
		if p < 0 {
			t0 = max(t0, t)
		} else {
			t1 = min(t1, t)
		}
		if t0 > t1 {
			return 0, 0, 0, 0, false
		}
	}

	round := func(v float64) int { return int(math.Round(v)) }
	return round(fx + t0*dx), round(fy + t0*dy), round(fx + t1*dx), round(fy + t1*dy), true
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x int) int {
	switch {
	case x < 0:
		return -1
	case x > 0:
		return 1
	}
	return 0
}

// ToImage copies the framebuffer into an image.RGBA.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(fb.Bounds())
	for i, px := range fb.Pixels {
		copy(img.Pix[i*4:], []uint8{px.R, px.G, px.B, px.A})
	}
	return img
}

// SavePNG writes the framebuffer to path as a PNG.
func (fb *Framebuffer) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, fb.ToImage()); err != nil {
		return errors.Join(err, f.Close())
	}
	return f.Close()
}
