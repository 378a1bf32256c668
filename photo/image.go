/*
Package photo implements a room photo decoder and encoder.

A room photo is a header of two little-endian 16-bit values, width then
height, followed by width * height pixels of two bytes each. Each pixel is a
little-endian 5:6:5 packed RGB value with red in the top five bits. Rows are
stored from the bottom of the image to the top, left to right within a row,
with no padding. Photos may be at most 1024 by 1024 pixels.
*/
package photo

import (
	"image"
	"image/color"

	"github.com/bodgit/roomview/internal/header"
)

const (
	// MaxWidth is the widest photo the format allows.
	MaxWidth = 1024
	// MaxHeight is the tallest photo the format allows.
	MaxHeight = 1024

	bytesPerPixel = 2
	formatName    = "photo"
)

// FormatError is returned when a header declares a photo larger than
// MaxWidth by MaxHeight.
type FormatError = header.FormatError

// IOError is returned when reading the photo fails, including when the
// stream is truncated.
type IOError = header.IOError

// RGB565 is a packed 16-bit color with five bits of red, six bits of green
// and five bits of blue.
type RGB565 uint16

// R returns the five bit red channel.
func (c RGB565) R() uint8 { return uint8(c>>11) & 0x1f }

// G returns the six bit green channel.
func (c RGB565) G() uint8 { return uint8(c>>5) & 0x3f }

// B returns the five bit blue channel.
func (c RGB565) B() uint8 { return uint8(c) & 0x1f }

// RGBA implements color.Color. Channels are widened by replicating their
// high bits so full scale maps to 0xffff.
func (c RGB565) RGBA() (r, g, b, a uint32) {
	r5, g6, b5 := uint32(c.R()), uint32(c.G()), uint32(c.B())
	r = r5<<11 | r5<<6 | r5<<1 | r5>>4
	g = g6<<10 | g6<<4 | g6>>2
	b = b5<<11 | b5<<6 | b5<<1 | b5>>4
	return r, g, b, 0xffff
}

func toRGB565(c color.Color) color.Color {
	if p, ok := c.(RGB565); ok {
		return p
	}
	r, g, b, _ := c.RGBA()
	return RGB565(r>>11<<11 | g>>10<<5 | b>>11)
}

// Model converts colors to RGB565 by truncating each channel.
var Model = color.ModelFunc(toRGB565)

// Image is a decoded room photo. Pixels are stored from the top row to the
// bottom row, left to right, and Rect always has its origin at (0, 0).
type Image struct {
	Pix  []uint16
	Rect image.Rectangle
}

// New returns a black photo of the given size.
func New(width, height int) *Image {
	return &Image{
		Pix:  make([]uint16, width*height),
		Rect: image.Rect(0, 0, width, height),
	}
}

// Width returns the width of the photo in pixels.
func (p *Image) Width() int { return p.Rect.Dx() }

// Height returns the height of the photo in pixels.
func (p *Image) Height() int { return p.Rect.Dy() }

// ColorModel implements image.Image.
func (p *Image) ColorModel() color.Model { return Model }

// Bounds implements image.Image.
func (p *Image) Bounds() image.Rectangle { return p.Rect }

// At implements image.Image.
func (p *Image) At(x, y int) color.Color {
	return p.RGB565At(x, y)
}

// RGB565At returns the packed pixel at (x, y), or black outside the photo.
func (p *Image) RGB565At(x, y int) RGB565 {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return 0
	}
	return RGB565(p.Pix[y*p.Rect.Dx()+x])
}

// SetRGB565 sets the packed pixel at (x, y).
func (p *Image) SetRGB565(x, y int, c RGB565) {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return
	}
	p.Pix[y*p.Rect.Dx()+x] = uint16(c)
}

// Set implements draw.Image.
func (p *Image) Set(x, y int, c color.Color) {
	p.SetRGB565(x, y, Model.Convert(c).(RGB565))
}
