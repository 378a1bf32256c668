/*
Package octree builds a 192 color palette for a room photo and maps every
photo pixel onto it.

Colors are bucketed twice by the high bits of each 5:6:5 channel: 4096 fine
buckets keep the top four bits of each channel and 64 coarse buckets keep the
top two. The 128 most populated fine buckets each get their own palette
slot, and every other fine bucket is folded into its coarse parent, which
fills the remaining 64 slots. The tree is never built explicitly; both levels
are fixed arrays indexed by the packed channel bits.

Palette slots are numbered from zero; pixel values in the quantized image
are offset past the display colors reserved for object images and text.
*/
package octree

import (
	"image"
	"image/color"
	"sort"

	"github.com/bodgit/roomview/photo"
)

const (
	// Promoted is the number of fine buckets given their own slot.
	Promoted = 128
	// Coarse is the number of coarse buckets, one slot each.
	Coarse = 64
	// Size is the number of palette slots the quantizer assigns.
	Size = Promoted + Coarse
	// Reserved is the default number of display colors preceding the
	// assignable range.
	Reserved = 64

	fineBuckets = 4096
)

// Palette holds the assignable colors as 6-bit display channels; red and
// blue always have their low bit clear.
type Palette [Size][3]uint8

// RGBA returns slot i widened to 8 bits per channel.
func (p *Palette) RGBA(i int) color.RGBA {
	c := p[i]
	return color.RGBA{c[0]<<2 | c[0]>>4, c[1]<<2 | c[1]>>4, c[2]<<2 | c[2]>>4, 0xff}
}

// Colors returns the palette as a color.Palette.
func (p *Palette) Colors() color.Palette {
	c := make(color.Palette, Size)
	for i := range c {
		c[i] = p.RGBA(i)
	}
	return c
}

// Image is a quantized room photo. Every value in Pix minus Offset is a slot
// in Palette.
type Image struct {
	Pix     []byte
	Rect    image.Rectangle
	Offset  int
	Palette *Palette
}

// Width returns the width of the image in pixels.
func (m *Image) Width() int { return m.Rect.Dx() }

// Height returns the height of the image in pixels.
func (m *Image) Height() int { return m.Rect.Dy() }

// ColorModel implements image.Image.
func (m *Image) ColorModel() color.Model { return m.Palette.Colors() }

// Bounds implements image.Image.
func (m *Image) Bounds() image.Rectangle { return m.Rect }

// At implements image.Image.
func (m *Image) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}.In(m.Rect)) {
		return color.Black
	}
	return m.Palette.RGBA(int(m.ColorIndexAt(x, y)) - m.Offset)
}

// ColorIndexAt returns the stored display index at (x, y), including the
// offset.
func (m *Image) ColorIndexAt(x, y int) uint8 {
	if !(image.Point{X: x, Y: y}.In(m.Rect)) {
		return 0
	}
	return m.Pix[y*m.Rect.Dx()+x]
}

type fineBucket struct {
	red, green, blue uint64
	count            uint32
	parent           uint8
	slot             uint8
}

type coarseBucket struct {
	red, green, blue uint64
	count            uint32
}

// fineKey packs the top four bits of each channel into twelve bits.
func fineKey(p uint16) uint16 {
	return p>>12<<8 | (p>>7&0xf)<<4 | p>>1&0xf
}

// coarseKey packs the top two bits of each channel into six bits.
func coarseKey(p uint16) uint8 {
	return uint8(p>>14<<4 | (p>>9&0x3)<<2 | p>>3&0x3)
}

func average(sum uint64, count uint32) uint8 {
	if count == 0 {
		return 0
	}
	return uint8(sum / uint64(count))
}

func toDisplay(r, g, b uint8) [3]uint8 {
	return [3]uint8{(r & 0x1f) << 1, g & 0x3f, (b & 0x1f) << 1}
}

// quantizer holds both bucket levels and the fine bucket ordering.
type quantizer struct {
	fine   [fineBuckets]fineBucket
	coarse [Coarse]coarseBucket
	order  [fineBuckets]uint16
}

func (q *quantizer) accumulate(pix []uint16) {
	for _, p := range pix {
		c := photo.RGB565(p)
		b := &q.fine[fineKey(p)]
		b.red += uint64(c.R())
		b.green += uint64(c.G())
		b.blue += uint64(c.B())
		b.count++
		b.parent = coarseKey(p)
	}
}

// sortBuckets orders the fine buckets by descending count, ties going to
// the lower bucket index.
func (q *quantizer) sortBuckets() {
	for i := range q.order {
		q.order[i] = uint16(i)
	}
	sort.Slice(q.order[:], func(i, j int) bool {
		a, b := q.order[i], q.order[j]
		if q.fine[a].count != q.fine[b].count {
			return q.fine[a].count > q.fine[b].count
		}
		return a < b
	})
}

func (q *quantizer) assign(p *Palette) {
	for i, idx := range q.order {
		b := &q.fine[idx]
		if i < Promoted {
			b.slot = uint8(i)
			p[i] = toDisplay(average(b.red, b.count), average(b.green, b.count), average(b.blue, b.count))
			continue
		}

		// An empty bucket has no recorded parent but adds nothing
		c := &q.coarse[b.parent]
		c.red += b.red
		c.green += b.green
		c.blue += b.blue
		c.count += b.count
	}

	for i := range q.coarse {
		c := &q.coarse[i]
		p[Promoted+i] = toDisplay(average(c.red, c.count), average(c.green, c.count), average(c.blue, c.count))
	}

	for _, idx := range q.order[Promoted:] {
		b := &q.fine[idx]
		b.slot = uint8(Promoted + int(b.parent))
	}
}

// Quantizer maps room photos onto a palette placed Offset entries into the
// display's color table.
type Quantizer struct {
	Offset int
}

// QuantizeImage computes the palette for m and returns the remapped image.
// It panics if the palette would not fit below 256 display colors.
func (qz Quantizer) QuantizeImage(m *photo.Image) *Image {
	if qz.Offset < 0 || qz.Offset+Size > 256 {
		panic("octree: palette offset out of range")
	}
	if len(m.Pix) != m.Width()*m.Height() {
		panic("octree: photo buffer does not match its bounds")
	}

	q := new(quantizer)
	q.accumulate(m.Pix)
	q.sortBuckets()

	p := new(Palette)
	q.assign(p)

	out := &Image{
		Pix:     make([]byte, len(m.Pix)),
		Rect:    image.Rect(0, 0, m.Width(), m.Height()),
		Offset:  qz.Offset,
		Palette: p,
	}
	for i, px := range m.Pix {
		out.Pix[i] = uint8(qz.Offset + int(q.fine[fineKey(px)].slot))
	}

	return out
}

// Quantize computes the palette for m using the default Reserved offset.
func Quantize(m *photo.Image) *Image {
	return Quantizer{Offset: Reserved}.QuantizeImage(m)
}
