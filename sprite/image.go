/*
Package sprite implements an object image decoder and encoder.

An object image is a header of two little-endian 16-bit values, width then
height, followed by width * height one byte pixels. Pixels index the 64
reserved display colors, stored as 2:2:2 RGB, except for the value
Transparent which marks pixels that must not be drawn. Rows are stored from
the bottom of the image to the top, left to right within a row, with no
padding. Images may be at most 160 by 100 pixels.
*/
package sprite

import (
	"image"
	"image/color"

	"github.com/bodgit/roomview/internal/header"
)

const (
	// MaxWidth is the widest object image the format allows.
	MaxWidth = 160
	// MaxHeight is the tallest object image the format allows.
	MaxHeight = 100

	// Colors is the number of display colors reserved for object images
	// and the status bar.
	Colors = 64

	// Transparent is the pixel value that leaves whatever is underneath
	// untouched.
	Transparent = 0x40

	formatName = "sprite"
)

// FormatError is returned when a header declares an image larger than
// MaxWidth by MaxHeight.
type FormatError = header.FormatError

// IOError is returned when reading the image fails, including when the
// stream is truncated.
type IOError = header.IOError

func widen2(v int) uint8 { return uint8(v * 0x55) }

func makePalette() color.Palette {
	p := make(color.Palette, Colors+1)
	for i := 0; i < Colors; i++ {
		p[i] = color.RGBA{widen2(i >> 4 & 3), widen2(i >> 2 & 3), widen2(i & 3), 0xff}
	}
	p[Transparent] = color.Transparent
	return p
}

// Palette holds the 64 reserved 2:2:2 colors followed by a transparent
// entry at index Transparent.
var Palette = makePalette()

// DisplayColors returns the reserved colors as 6-bit display channel
// triples, ready to load into palette registers 0 to 63.
func DisplayColors() [][3]uint8 {
	c := make([][3]uint8, Colors)
	for i := range c {
		c[i] = [3]uint8{uint8(i>>4&3) * 21, uint8(i>>2&3) * 21, uint8(i&3) * 21}
	}
	return c
}

// Image is a decoded object image. Pixels are stored from the top row to the
// bottom row, left to right, and Rect always has its origin at (0, 0).
type Image struct {
	Pix  []byte
	Rect image.Rectangle
}

// New returns a fully transparent image of the given size.
func New(width, height int) *Image {
	m := &Image{
		Pix:  make([]byte, width*height),
		Rect: image.Rect(0, 0, width, height),
	}
	for i := range m.Pix {
		m.Pix[i] = Transparent
	}
	return m
}

// Width returns the width of the image in pixels.
func (m *Image) Width() int { return m.Rect.Dx() }

// Height returns the height of the image in pixels.
func (m *Image) Height() int { return m.Rect.Dy() }

// ColorModel implements image.Image.
func (m *Image) ColorModel() color.Model { return Palette }

// Bounds implements image.Image.
func (m *Image) Bounds() image.Rectangle { return m.Rect }

// At implements image.Image. Indices outside the reserved range have no
// defined color and are reported as black.
func (m *Image) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}.In(m.Rect)) {
		return color.Transparent
	}
	i := m.ColorIndexAt(x, y)
	if int(i) >= len(Palette) {
		return color.Black
	}
	return Palette[i]
}

// ColorIndexAt implements image.PalettedImage.
func (m *Image) ColorIndexAt(x, y int) uint8 {
	if !(image.Point{X: x, Y: y}.In(m.Rect)) {
		return Transparent
	}
	return m.Pix[y*m.Rect.Dx()+x]
}

// SetColorIndex sets the pixel at (x, y).
func (m *Image) SetColorIndex(x, y int, index uint8) {
	if !(image.Point{X: x, Y: y}.In(m.Rect)) {
		return
	}
	m.Pix[y*m.Rect.Dx()+x] = index
}
