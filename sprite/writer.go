package sprite

import (
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

	for y := m.Height() - 1; y >= 0; y-- {
		if _, err := e.w.Write(m.Pix[y*m.Width() : (y+1)*m.Width()]); err != nil {
			return err
		}
	}

	return nil
}

// Encode writes the Image m to w in object image format. Pixels less than
// half opaque become Transparent, everything else is matched to the closest
// reserved color.
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
		opaque := Palette[:Colors]
		pm = New(b.Dx(), b.Dy())
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				c := m.At(x, y)
				if _, _, _, a := c.RGBA(); a < 0x8000 {
					continue
				}
				pm.SetColorIndex(x-b.Min.X, y-b.Min.Y, uint8(opaque.Index(c)))
			}
		}
	}

	e := encoder{w: w}

	return e.encode(pm)
}
