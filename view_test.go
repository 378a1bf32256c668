package roomview

import (
	"errors"
	"image"
	"io"
	"log"
	"testing"

	"github.com/bodgit/roomview/octree"
	"github.com/bodgit/roomview/photo"
	"github.com/bodgit/roomview/sprite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discard = log.New(io.Discard, "", 0)

// background returns a w by h quantized photo where pixel (x, y) holds
// 64 + y*w + x.
func background(w, h int) *octree.Image {
	m := &octree.Image{
		Pix:     make([]byte, w*h),
		Rect:    image.Rect(0, 0, w, h),
		Offset:  octree.Reserved,
		Palette: new(octree.Palette),
	}
	for i := range m.Pix {
		m.Pix[i] = byte(octree.Reserved + i)
	}
	return m
}

// solid returns a w by h object image filled with index.
func solid(w, h int, index byte) *sprite.Image {
	m := sprite.New(w, h)
	for i := range m.Pix {
		m.Pix[i] = index
	}
	return m
}

func prepared(t *testing.T, s *Scene) *View {
	v := NewView(new(Registers), discard)
	require.NoError(t, v.Prep(s))
	return v
}

func TestFillStripBackground(t *testing.T) {
	v := prepared(t, NewScene(background(4, 3)))

	tests := []struct {
		name string
		axis Axis
		x, y int
		n    int
		want []byte
	}{
		{"row", Horizontal, 0, 1, 4, []byte{68, 69, 70, 71}},
		{"row from middle", Horizontal, 2, 2, 2, []byte{74, 75}},
		{"row starting left of photo", Horizontal, -2, 0, 4, []byte{Off, Off, 64, 65}},
		{"row past right edge", Horizontal, 3, 0, 3, []byte{67, Off, Off}},
		{"row above photo", Horizontal, 0, -1, 3, []byte{Off, Off, Off}},
		{"row below photo", Horizontal, 0, 3, 2, []byte{Off, Off}},
		{"column", Vertical, 1, 0, 3, []byte{65, 69, 73}},
		{"column overhanging both ends", Vertical, 3, -1, 5, []byte{Off, 67, 71, 75, Off}},
		{"column left of photo", Vertical, -1, 0, 2, []byte{Off, Off}},
		{"empty", Horizontal, 0, 0, 0, []byte{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, v.FillStrip(tt.axis, tt.x, tt.y, tt.n))
		})
	}
}

func TestFillStripObjects(t *testing.T) {
	s := NewScene(background(8, 6))

	// 3x2 object at (2, 1) with a transparent top-left corner
	obj := solid(3, 2, 0x01)
	obj.Pix[0] = sprite.Transparent
	obj.Pix[4] = 0x02
	s.Add(2, 1, obj)

	v := prepared(t, s)

	tests := []struct {
		name string
		axis Axis
		x, y int
		n    int
		want []byte
	}{
		{"row through top", Horizontal, 0, 1, 8, []byte{72, 73, 74, 0x01, 0x01, 77, 78, 79}},
		{"row through bottom", Horizontal, 0, 2, 8, []byte{80, 81, 0x01, 0x02, 0x01, 85, 86, 87}},
		{"row clipped on the left", Horizontal, 3, 2, 3, []byte{0x02, 0x01, 85}},
		{"row clipped on the right", Horizontal, 0, 2, 3, []byte{80, 81, 0x01}},
		{"row abutting on the right", Horizontal, 0, 2, 2, []byte{80, 81}},
		{"row abutting on the left", Horizontal, 5, 2, 2, []byte{85, 86}},
		{"row missing above", Horizontal, 0, 0, 8, []byte{64, 65, 66, 67, 68, 69, 70, 71}},
		{"row missing below", Horizontal, 0, 3, 4, []byte{88, 89, 90, 91}},
		{"column through transparent", Vertical, 2, 0, 4, []byte{66, 74, 0x01, 90}},
		{"column through middle", Vertical, 3, 0, 4, []byte{67, 0x01, 0x02, 91}},
		{"column clipped above", Vertical, 3, 2, 2, []byte{0x02, 91}},
		{"column abutting below", Vertical, 3, -1, 2, []byte{Off, 67}},
		{"column beside", Vertical, 5, 0, 6, []byte{69, 77, 85, 93, 101, 109}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, v.FillStrip(tt.axis, tt.x, tt.y, tt.n))
		})
	}
}

func TestFillStripOrder(t *testing.T) {
	s := NewScene(background(4, 1))
	s.Add(0, 0, solid(3, 1, 0x10))
	s.Add(1, 0, solid(3, 1, 0x20))

	// Fully transparent object drawn last changes nothing
	s.Add(0, 0, sprite.New(4, 1))

	v := prepared(t, s)

	assert.Equal(t, []byte{0x10, 0x20, 0x20, 0x20}, v.FillStrip(Horizontal, 0, 0, 4))

	s.Contents[0], s.Contents[1] = s.Contents[1], s.Contents[0]
	assert.Equal(t, []byte{0x10, 0x10, 0x10, 0x20}, v.FillStrip(Horizontal, 0, 0, 4))
}

func TestFillStripObjectOffPhoto(t *testing.T) {
	s := NewScene(background(2, 2))
	s.Add(-2, -1, solid(3, 3, 0x05))

	v := prepared(t, s)

	assert.Equal(t, []byte{Off, 0x05, 0x05, 0x05, 67}, v.FillStrip(Horizontal, -3, 1, 5))
	assert.Equal(t, []byte{Off, 0x05, 0x05, 0x05, Off}, v.FillStrip(Vertical, 0, -2, 5))
}

func TestFillStripWrappers(t *testing.T) {
	s := NewScene(background(3, 3))
	s.Add(1, 1, solid(1, 1, 0x07))
	v := prepared(t, s)

	row := make([]byte, 3)
	v.FillHorizontal(0, 1, row)
	assert.Equal(t, []byte{67, 0x07, 69}, row)

	col := make([]byte, 3)
	v.FillVertical(1, 0, col)
	assert.Equal(t, []byte{65, 0x07, 71}, col)
}

func TestFillStripPanics(t *testing.T) {
	v := NewView(new(Registers), discard)
	assert.Panics(t, func() { v.FillStrip(Horizontal, 0, 0, 1) })

	s := NewScene(background(2, 2))
	s.Contents = append(s.Contents, Placement{Sprite: &sprite.Image{Pix: make([]byte, 1), Rect: image.Rect(0, 0, 2, 2)}})
	require.NoError(t, v.Prep(s))
	assert.Panics(t, func() { v.FillStrip(Horizontal, 0, 0, 2) })
	assert.Panics(t, func() { v.FillStrip(Axis(7), 0, 0, 2) })
}

type failingLoader struct{}

func (failingLoader) LoadPalette(int, [][3]uint8) error {
	return errors.New("display gone")
}

func TestPrep(t *testing.T) {
	regs := new(Registers)
	require.NoError(t, regs.LoadPalette(0, sprite.DisplayColors()))

	m := photo.New(2, 1)
	m.Pix[1] = 0xffff
	s := NewScene(octree.Quantize(m))

	v := NewView(regs, discard)
	assert.Nil(t, v.Room())
	require.NoError(t, v.Prep(s))
	assert.Equal(t, s, v.Room())

	// Reserved colors untouched, room palette from the offset
	assert.Equal(t, [3]uint8{63, 63, 63}, regs[0x3f])
	assert.Equal(t, [3]uint8{0, 0, 0}, regs[64])
	assert.Equal(t, [3]uint8{62, 63, 62}, regs[65])

	c := regs.Colors()
	require.Len(t, c, 256)

	other := NewView(failingLoader{}, discard)
	assert.Error(t, other.Prep(s))
	assert.Nil(t, other.Room())

	assert.Error(t, v.Prep(NewScene(nil)))
	assert.Equal(t, s, v.Room())
}

func TestRegisters(t *testing.T) {
	regs := new(Registers)
	assert.Error(t, regs.LoadPalette(200, make([][3]uint8, 57)))
	assert.Error(t, regs.LoadPalette(-1, nil))
	assert.NoError(t, regs.LoadPalette(200, make([][3]uint8, 56)))
}

func TestAxisString(t *testing.T) {
	assert.Equal(t, "horizontal", Horizontal.String())
	assert.Equal(t, "vertical", Vertical.String())
	assert.Equal(t, "Axis(5)", Axis(5).String())
}
