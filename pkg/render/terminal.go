package render

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

// halfBlock paints the top pixel as foreground and the bottom as background.
const halfBlock = "▀"

// FramebufferSize returns the pixel size backing a cols x rows terminal area.
func FramebufferSize(cols, rows int) (width, height int) {
	return max(cols, 0), max(rows, 0) * 2
}

// Draw writes the framebuffer into area of scr, two pixel rows per cell.
// Pixel (0, 0) lands on area.Min; cells past either size are left alone.
func (fb *Framebuffer) Draw(scr uv.Screen, area uv.Rectangle) {
	cols := min(area.Dx(), fb.Width)
	rows := min(area.Dy(), (fb.Height+1)/2)

	for row := range rows {
		y := row * 2
		for col := range cols {
			scr.SetCell(area.Min.X+col, area.Min.Y+row, &uv.Cell{
				Content: halfBlock,
				Width:   1,
				Style: uv.Style{
					Fg: cellColor(fb.GetPixel(col, y)),
					Bg: cellColor(fb.GetPixel(col, y+1)),
				},
			})
		}
	}
}

// cellColor maps fully transparent pixels to the terminal default.
func cellColor(c color.RGBA) color.Color {
	if c.A == 0 {
		return nil
	}
	return c
}

// Color is a framebuffer pixel.
type Color = color.RGBA

// RGB returns an opaque color.
func RGB(r, g, b uint8) color.RGBA {
	return color.RGBA{r, g, b, 255}
}
