package roomview

import (
	"image"
	"image/color"
)

// Render composites the area r of the current room of v, one horizontal
// strip per row, and returns it as an image using the display palette p.
func Render(v *View, r image.Rectangle, p color.Palette) *image.Paletted {
	m := image.NewPaletted(image.Rect(0, 0, r.Dx(), r.Dy()), p)
	for y := 0; y < r.Dy(); y++ {
		v.FillStripInto(Horizontal, r.Min.X, r.Min.Y+y, m.Pix[y*m.Stride:y*m.Stride+r.Dx()])
	}
	return m
}
