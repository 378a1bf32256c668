package octree

import (
	"image"
	"image/color"

	"github.com/bodgit/roomview/photo"
)

// Quantize implements draw.Quantizer. The image is truncated to 5:6:5 and
// up to cap(p)-len(p) palette colors, most populated first, are appended to
// p.
func (qz Quantizer) Quantize(p color.Palette, m image.Image) color.Palette {
	b := m.Bounds()
	src, _ := m.(*photo.Image)
	if src == nil {
		src = photo.New(b.Dx(), b.Dy())
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				src.Set(x-b.Min.X, y-b.Min.Y, m.At(x, y))
			}
		}
	}

	q := Quantizer{Offset: 0}.QuantizeImage(src)
	for i := 0; i < Size && len(p) < cap(p); i++ {
		p = append(p, q.Palette.RGBA(i))
	}
	return p
}
