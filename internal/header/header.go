/*
Package header reads the four byte dimension header shared by the room photo
and object image formats and defines the errors both decoders report.
*/
package header

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Size is the length in bytes of the header.
const Size = 4

// FormatError reports a header that declares an image larger than the format
// allows.
type FormatError struct {
	Format        string
	Width, Height int
	MaxWidth      int
	MaxHeight     int
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s: %dx%d exceeds maximum %dx%d", e.Format, e.Width, e.Height, e.MaxWidth, e.MaxHeight)
}

// IOError reports a failed read, including a stream ending before every
// declared pixel was read.
type IOError struct {
	Format string
	Err    error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s: %v", e.Format, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// ReadFull behaves like io.ReadFull except a clean EOF is also reported as
// io.ErrUnexpectedEOF; every caller expects the bytes to be there.
func ReadFull(r io.Reader, b []byte) error {
	_, err := io.ReadFull(r, b)
	if errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}
	return err
}

// Header is the decoded dimension header.
type Header struct {
	Width  int
	Height int
}

// Read reads a header from r and checks it against the given limits.
func Read(r io.Reader, format string, maxWidth, maxHeight int) (Header, error) {
	var tmp [Size]byte
	if err := ReadFull(r, tmp[:]); err != nil {
		return Header{}, &IOError{Format: format, Err: err}
	}

	h := Header{
		Width:  int(binary.LittleEndian.Uint16(tmp[0:])),
		Height: int(binary.LittleEndian.Uint16(tmp[2:])),
	}

	if h.Width > maxWidth || h.Height > maxHeight {
		return Header{}, &FormatError{
			Format:    format,
			Width:     h.Width,
			Height:    h.Height,
			MaxWidth:  maxWidth,
			MaxHeight: maxHeight,
		}
	}

	return h, nil
}

// Write writes a header for a width by height image to w, checking it
// against the given limits first.
func Write(w io.Writer, format string, width, height, maxWidth, maxHeight int) error {
	if width < 0 || height < 0 || width > maxWidth || height > maxHeight {
		return &FormatError{
			Format:    format,
			Width:     width,
			Height:    height,
			MaxWidth:  maxWidth,
			MaxHeight: maxHeight,
		}
	}

	var tmp [Size]byte
	binary.LittleEndian.PutUint16(tmp[0:], uint16(width))
	binary.LittleEndian.PutUint16(tmp[2:], uint16(height))

	_, err := w.Write(tmp[:])
	return err
}
