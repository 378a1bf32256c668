package roomview

import (
	"errors"
	"fmt"
	"image/color"
	"log"

	"github.com/bodgit/roomview/sprite"
)

// Axis selects the direction a strip runs in.
type Axis int

const (
	// Horizontal strips vary x along a fixed row.
	Horizontal Axis = iota
	// Vertical strips vary y down a fixed column.
	Vertical
)

func (a Axis) String() string {
	switch a {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	default:
		return fmt.Sprintf("Axis(%d)", int(a))
	}
}

// Off is written wherever a strip falls outside the room photo.
const Off = 0

var (
	errNoPhoto      = errors.New("roomview: room has no photo")
	errPaletteRange = errors.New("roomview: palette range out of bounds")
)

// PaletteLoader is implemented by the display to receive 6-bit palette
// colors starting at register start.
type PaletteLoader interface {
	LoadPalette(start int, colors [][3]uint8) error
}

// Registers is an in-memory display palette.
type Registers [256][3]uint8

// LoadPalette implements PaletteLoader.
func (r *Registers) LoadPalette(start int, colors [][3]uint8) error {
	if start < 0 || start+len(colors) > len(r) {
		return errPaletteRange
	}
	copy(r[start:], colors)
	return nil
}

// Colors returns the registers widened to 8 bits per channel.
func (r *Registers) Colors() color.Palette {
	p := make(color.Palette, len(r))
	for i, c := range r {
		p[i] = color.RGBA{c[0]<<2 | c[0]>>4, c[1]<<2 | c[1]>>4, c[2]<<2 | c[2]>>4, 0xff}
	}
	return p
}

// View composites the current room into strips for the display. A View
// holds the room set by the last call to Prep and must not be used from
// more than one goroutine; each room shown concurrently needs its own View.
type View struct {
	display PaletteLoader
	logger  *log.Logger

	room Room
}

// NewView returns a View that loads palettes into display.
func NewView(display PaletteLoader, logger *log.Logger) *View {
	return &View{
		display: display,
		logger:  logger,
	}
}

// Prep makes r the current room and loads its palette into the display.
// The previous room stays current if loading fails.
func (v *View) Prep(r Room) error {
	m := r.Photo()
	if m == nil {
		return errNoPhoto
	}
	if len(m.Pix) != m.Width()*m.Height() {
		panic("roomview: room photo buffer does not match its bounds")
	}

	if err := v.display.LoadPalette(m.Offset, m.Palette[:]); err != nil {
		return err
	}

	v.room = r
	v.logger.Printf("Prepared %dx%d room with %d objects\n", m.Width(), m.Height(), len(r.Objects()))

	return nil
}

// Room returns the current room, or nil before the first Prep.
func (v *View) Room() Room {
	return v.room
}

// FillStrip returns n composited pixels starting at (x, y) and running
// along axis.
func (v *View) FillStrip(axis Axis, x, y, n int) []byte {
	buf := make([]byte, n)
	v.FillStripInto(axis, x, y, buf)
	return buf
}

// FillHorizontal fills buf with the row of pixels starting at (x, y).
func (v *View) FillHorizontal(x, y int, buf []byte) {
	v.FillStripInto(Horizontal, x, y, buf)
}

// FillVertical fills buf with the column of pixels starting at (x, y).
func (v *View) FillVertical(x, y int, buf []byte) {
	v.FillStripInto(Vertical, x, y, buf)
}

// overlap clips an object spanning [start, start+size) against a strip
// spanning [origin, origin+n). It returns the first strip index covered, the
// matching offset into the object and how many pixels overlap.
func overlap(origin, n, start, size int) (idx, off, count int) {
	if start > origin {
		idx = start - origin
	} else {
		off = origin - start
	}
	count = n - idx
	if size-off < count {
		count = size - off
	}
	return
}

// FillStripInto composites len(buf) pixels starting at (x, y) and running
// along axis into buf. Pixels outside the photo are Off. It panics if no
// room has been prepared.
func (v *View) FillStripInto(axis Axis, x, y int, buf []byte) {
	if v.room == nil {
		panic("roomview: strip requested before any room was prepared")
	}

	m := v.room.Photo()
	w, h := m.Width(), m.Height()

	switch axis {
	case Horizontal:
		for i := range buf {
			if px := x + i; px >= 0 && px < w && y >= 0 && y < h {
				buf[i] = m.Pix[y*w+px]
			} else {
				buf[i] = Off
			}
		}
	case Vertical:
		for i := range buf {
			if py := y + i; x >= 0 && x < w && py >= 0 && py < h {
				buf[i] = m.Pix[py*w+x]
			} else {
				buf[i] = Off
			}
		}
	default:
		panic(fmt.Sprintf("roomview: unknown %v", axis))
	}

	n := len(buf)
	for _, o := range v.room.Objects() {
		img := o.Image()
		ox, oy := o.X(), o.Y()
		iw, ih := img.Width(), img.Height()
		if len(img.Pix) != iw*ih {
			panic("roomview: object image buffer does not match its bounds")
		}

		var base, stride, idx, off, count int
		switch axis {
		case Horizontal:
			if y < oy || y >= oy+ih || x+n <= ox || x >= ox+iw {
				continue
			}
			idx, off, count = overlap(x, n, ox, iw)
			base, stride = (y-oy)*iw, 1
		case Vertical:
			if x < ox || x >= ox+iw || y+n <= oy || y >= oy+ih {
				continue
			}
			idx, off, count = overlap(y, n, oy, ih)
			base, stride = x-ox, iw
		}

		for i := 0; i < count; i++ {
			if p := img.Pix[base+(off+i)*stride]; p != sprite.Transparent {
				buf[idx+i] = p
			}
		}
	}
}
