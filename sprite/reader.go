package sprite

import (
	"image"
	"io"

	"github.com/bodgit/roomview/internal/header"
)

type decoder struct {
	r io.Reader
	h header.Header

	image *Image
}

func (d *decoder) decode(r io.Reader, configOnly bool) error {
	d.r = r

	h, err := header.Read(d.r, formatName, MaxWidth, MaxHeight)
	if err != nil {
		return err
	}
	d.h = h

	if configOnly {
		return nil
	}

	m := &Image{
		Pix:  make([]byte, h.Width*h.Height),
		Rect: image.Rect(0, 0, h.Width, h.Height),
	}

	// Rows arrive bottom first and are read straight into place
	for y := h.Height - 1; y >= 0; y-- {
		if err := header.ReadFull(d.r, m.Pix[y*h.Width:(y+1)*h.Width]); err != nil {
			return &IOError{Format: formatName, Err: err}
		}
	}

	d.image = m
	return nil
}

// Decode reads an object image from r. On failure no image is returned.
func Decode(r io.Reader) (*Image, error) {
	var d decoder
	if err := d.decode(r, false); err != nil {
		return nil, err
	}
	return d.image, nil
}

// DecodeConfig returns the color model and dimensions of an object image
// without decoding the pixels.
func DecodeConfig(r io.Reader) (image.Config, error) {
	var d decoder
	if err := d.decode(r, true); err != nil {
		return image.Config{}, err
	}
	return image.Config{
		ColorModel: Palette,
		Width:      d.h.Width,
		Height:     d.h.Height,
	}, nil
}
