package photo

import (
	"encoding/binary"
	"image"
	"io"

	"github.com/bodgit/roomview/internal/header"
)

type decoder struct {
	r io.Reader
	h header.Header

	image *Image

	// One row of raw pixels
	tmp [MaxWidth * bytesPerPixel]byte
}

func (d *decoder) readHeader() error {
	h, err := header.Read(d.r, formatName, MaxWidth, MaxHeight)
	if err != nil {
		return err
	}
	d.h = h
	return nil
}

func (d *decoder) readPixels() error {
	m := New(d.h.Width, d.h.Height)
	row := d.tmp[:d.h.Width*bytesPerPixel]

	// Rows arrive bottom first
	for y := d.h.Height - 1; y >= 0; y-- {
		if err := header.ReadFull(d.r, row); err != nil {
			return &IOError{Format: formatName, Err: err}
		}
		dst := m.Pix[y*d.h.Width : (y+1)*d.h.Width]
		for x := range dst {
			dst[x] = binary.LittleEndian.Uint16(row[x*bytesPerPixel:])
		}
	}

	d.image = m
	return nil
}

func (d *decoder) decode(r io.Reader, configOnly bool) error {
	d.r = r

	if err := d.readHeader(); err != nil {
		return err
	}

	if configOnly {
		return nil
	}

	return d.readPixels()
}

// Decode reads a room photo from r. On failure no image is returned.
func Decode(r io.Reader) (*Image, error) {
	var d decoder
	if err := d.decode(r, false); err != nil {
		return nil, err
	}
	return d.image, nil
}

// DecodeConfig returns the color model and dimensions of a room photo
// without decoding the pixels.
func DecodeConfig(r io.Reader) (image.Config, error) {
	var d decoder
	if err := d.decode(r, true); err != nil {
		return image.Config{}, err
	}
	return image.Config{
		ColorModel: Model,
		Width:      d.h.Width,
		Height:     d.h.Height,
	}, nil
}
