package photo

import (
	"encoding/binary"
	"image"
	"io"

	"github.com/bodgit/roomview/internal/header"
)

type encoder struct {
	w io.Writer
}

func (e *encoder) encode(m *Image) error {
	if err := header.Write(e.w, formatName, m.Width(), m.Height(), MaxWidth, MaxHeight); err != nil {
		return err
	}

	row := make([]byte, m.Width()*bytesPerPixel)
	for y := m.Height() - 1; y >= 0; y-- {
		src := m.Pix[y*m.Width() : (y+1)*m.Width()]
		for x, p := range src {
			binary.LittleEndian.PutUint16(row[x*bytesPerPixel:], p)
		}
		if _, err := e.w.Write(row); err != nil {
			return err
		}
	}

	return nil
}

// Encode writes the Image m to w in room photo format, truncating every
// color to 5:6:5.
func Encode(w io.Writer, m image.Image) error {
	b := m.Bounds()
	if b.Dx() > MaxWidth || b.Dy() > MaxHeight {
		return &FormatError{
			Format:    formatName,
			Width:     b.Dx(),
			Height:    b.Dy(),
			MaxWidth:  MaxWidth,
			MaxHeight: MaxHeight,
		}
	}

	pm, _ := m.(*Image)
	if pm == nil {
		pm = New(b.Dx(), b.Dy())
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				pm.Set(x-b.Min.X, y-b.Min.Y, m.At(x, y))
			}
		}
	}

	e := encoder{w: w}

	return e.encode(pm)
}
