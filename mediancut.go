package roomview

import (
	"image"
	"image/color"

	"github.com/bodgit/roomview/octree"
	"github.com/bodgit/roomview/photo"
	"github.com/ericpauley/go-quantize/quantize"
)

// QuantizeFunc reduces a room photo to a palette and indexed image.
type QuantizeFunc func(*photo.Image) *octree.Image

// Quantizers maps the names accepted on the command line to palette
// builders.
var Quantizers = map[string]QuantizeFunc{
	"octree":    octree.Quantize,
	"mediancut": MedianCut,
}

// MedianCut builds the palette by median cut rather than octree buckets and
// maps every pixel to the nearest palette color. The result has the same
// shape as octree.Quantize so the two are interchangeable.
func MedianCut(m *photo.Image) *octree.Image {
	q := quantize.MedianCutQuantizer{}
	cp := q.Quantize(make(color.Palette, 0, octree.Size), m)

	p := new(octree.Palette)
	for i, c := range cp {
		pc := photo.Model.Convert(c).(photo.RGB565)
		p[i] = [3]uint8{pc.R() << 1, pc.G(), pc.B() << 1}
	}

	// Match against the colors the display will actually show
	shown := p.Colors()[:len(cp)]

	out := &octree.Image{
		Pix:     make([]byte, len(m.Pix)),
		Rect:    image.Rect(0, 0, m.Width(), m.Height()),
		Offset:  octree.Reserved,
		Palette: p,
	}

	cache := make(map[uint16]uint8)
	for i, px := range m.Pix {
		idx, ok := cache[px]
		if !ok {
			idx = uint8(shown.Index(photo.RGB565(px)))
			cache[px] = idx
		}
		out.Pix[i] = uint8(octree.Reserved) + idx
	}

	return out
}
