package render

import (
	"image"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFramebufferScissorClear(t *testing.T) {
	fb := NewFramebuffer(4, 4)
	fb.Clear(RGB(1, 1, 1))

	fb.SetScissor(image.Rect(2, 2, 10, 10))
	fb.SetScissorTest(true)
	assert.Equal(t, image.Rect(2, 2, 4, 4), fb.Writable(), "scissor is clipped to bounds")

	fb.Clear(RGB(9, 9, 9))
	assert.Equal(t, RGB(1, 1, 1), fb.GetPixel(1, 1))
	assert.Equal(t, RGB(9, 9, 9), fb.GetPixel(3, 3))

	fb.SetPixel(0, 0, RGB(5, 5, 5))
	assert.Equal(t, RGB(1, 1, 1), fb.GetPixel(0, 0), "writes outside the scissor are dropped")

	fb.SetScissorTest(false)
	fb.SetPixel(0, 0, RGB(5, 5, 5))
	assert.Equal(t, RGB(5, 5, 5), fb.GetPixel(0, 0))
	assert.Equal(t, fb.Bounds(), fb.Writable())
}

func TestFramebufferOutOfBounds(t *testing.T) {
	fb := NewFramebuffer(2, 2)
	fb.SetPixel(-1, 0, RGB(1, 1, 1))
	fb.SetPixel(0, 5, RGB(1, 1, 1))
	assert.Equal(t, Color{}, fb.GetPixel(-1, 0))
	assert.Equal(t, Color{}, fb.GetPixel(2, 2))
}

func TestFramebufferDrawLine(t *testing.T) {
	fb := NewFramebuffer(5, 5)
	fb.DrawLine(0, 0, 4, 4, RGB(255, 0, 0))
	for i := range 5 {
		assert.Equal(t, RGB(255, 0, 0), fb.GetPixel(i, i))
	}
	assert.Equal(t, Color{}, fb.GetPixel(0, 4))
}

func TestFramebufferDrawLineClipsToScissor(t *testing.T) {
	fb := NewFramebuffer(10, 10)
	fb.SetScissor(image.Rect(0, 5, 10, 10))
	fb.SetScissorTest(true)

	// A horizontal line far outside the band on both ends.
	fb.DrawLine(-100, 7, 100, 7, RGB(255, 0, 0))
	for x := range 10 {
		assert.Equal(t, RGB(255, 0, 0), fb.GetPixel(x, 7), "x=%d", x)
	}

	// Entirely above the band.
	fb.DrawLine(0, 0, 9, 4, RGB(0, 255, 0))
	for y := range 5 {
		for x := range 10 {
			assert.Equal(t, Color{}, fb.GetPixel(x, y))
		}
	}

	// The diagonal keeps its slope after clipping.
	fb.DrawLine(0, 0, 9, 9, RGB(0, 0, 255))
	for i := 5; i < 10; i++ {
		assert.Equal(t, RGB(0, 0, 255), fb.GetPixel(i, i), "i=%d", i)
	}
}

func TestClipLine(t *testing.T) {
	r := image.Rect(0, 0, 10, 10)

	tests := []struct {
		name           string
		x0, y0, x1, y1 int
		want           [4]int
		ok             bool
	}{
		{"inside", 1, 1, 8, 8, [4]int{1, 1, 8, 8}, true},
		{"crosses left", -5, 2, 5, 2, [4]int{0, 2, 5, 2}, true},
		{"crosses both", 5, -10, 5, 20, [4]int{5, 0, 5, 9}, true},
		{"outside", 20, 0, 30, 9, [4]int{}, false},
		{"point", 3, 4, 3, 4, [4]int{3, 4, 3, 4}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			x0, y0, x1, y1, ok := clipLine(r, tc.x0, tc.y0, tc.x1, tc.y1)
			assert.Equal(t, tc.ok, ok)
			if ok {
				assert.Equal(t, tc.want, [4]int{x0, y0, x1, y1})
			}
		})
	}

	_, _, _, _, ok := clipLine(image.Rectangle{}, 0, 0, 1, 1)
	assert.False(t, ok, "empty region")
}

func TestFramebufferSavePNG(t *testing.T) {
	fb := NewFramebuffer(3, 2)
	fb.Clear(RGB(10, 20, 30))

	img := fb.ToImage()
	assert.Equal(t, image.Rect(0, 0, 3, 2), img.Bounds())
	assert.Equal(t, RGB(10, 20, 30), img.RGBAAt(2, 1))

	path := filepath.Join(t.TempDir(), "frame.png")
	require.NoError(t, fb.SavePNG(path))
}
