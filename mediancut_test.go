package roomview

import (
	"testing"

	"github.com/bodgit/roomview/octree"
	"github.com/bodgit/roomview/photo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gradient(w, h int) *photo.Image {
	m := photo.New(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.SetRGB565(x, y, photo.RGB565(uint16(x&0x1f)<<11|uint16(y&0x3f)<<5|uint16((x+y)&0x1f)))
		}
	}
	return m
}

func TestMedianCut(t *testing.T) {
	m := MedianCut(gradient(32, 32))

	assert.Equal(t, octree.Reserved, m.Offset)
	require.Len(t, m.Pix, 32*32)
	for _, px := range m.Pix {
		assert.GreaterOrEqual(t, int(px), octree.Reserved)
	}
	for _, c := range m.Palette {
		assert.Zero(t, c[0]&1)
		assert.Zero(t, c[2]&1)
		assert.Less(t, c[1], uint8(64))
	}
}

func TestMedianCutSingleColor(t *testing.T) {
	p := photo.New(3, 3)
	for i := range p.Pix {
		p.Pix[i] = 0xf81f
	}

	m := MedianCut(p)
	for _, px := range m.Pix {
		assert.Equal(t, m.Pix[0], px)
	}
	assert.Equal(t, [3]uint8{62, 0, 62}, m.Palette[int(m.Pix[0])-octree.Reserved])
}

func TestQuantizers(t *testing.T) {
	p := gradient(16, 8)
	for name, q := range Quantizers {
		t.Run(name, func(t *testing.T) {
			m := q(p)
			assert.Equal(t, p.Bounds(), m.Bounds())
			assert.Len(t, m.Pix, len(p.Pix))
		})
	}
	assert.Contains(t, Quantizers, DefaultQuantizer)
}
