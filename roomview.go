/*
Package roomview composites scrolling room displays for a 256 color screen.

Room photos are quantized to 192 colors placed after the 64 colors reserved
for object images and text. A View holds the room currently on screen and
produces one row or column of display indices at a time, drawing the room's
objects over the photo in order and skipping their transparent pixels.
*/
package roomview

import (
	"bytes"
	"crypto/sha1"
	"fmt"
	"log"
	"os"

	"github.com/bodgit/roomview/octree"
	"github.com/bodgit/roomview/photo"
	"github.com/bodgit/roomview/sprite"
)

// DefaultQuantizer names the palette builder used when none is given.
const DefaultQuantizer = "octree"

// Loader reads room photos and object images, going through the cache.
type Loader struct {
	db     *AssetDB
	logger *log.Logger
}

// New returns a Loader using the cache in file.
func New(file string, logger *log.Logger) (*Loader, error) {
	db, err := NewAssetDB(file)
	if err != nil {
		return nil, err
	}
	return &Loader{
		db:     db,
		logger: logger,
	}, nil
}

// Close closes the cache.
func (l *Loader) Close() error {
	return l.db.Close()
}

func readFile(file string) ([]byte, string, error) {
	b, err := os.ReadFile(file)
	if err != nil {
		return nil, "", err
	}
	return b, fmt.Sprintf("%X", sha1.Sum(b)), nil
}

// LoadPhoto returns the room photo in file quantized with the named
// quantizer.
func (l *Loader) LoadPhoto(file, quantizer string) (*octree.Image, error) {
	q, ok := Quantizers[quantizer]
	if !ok {
		return nil, fmt.Errorf("roomview: unknown quantizer %q", quantizer)
	}

	b, sha, err := readFile(file)
	if err != nil {
		return nil, err
	}

	m, err := l.db.FindPhoto(sha, quantizer)
	if err != nil {
		return nil, err
	}
	if m != nil {
		l.logger.Printf("Using cached photo for \"%s\"\n", file)
		return m, nil
	}

	p, err := photo.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}

	m = q(p)
	if err := l.db.AddPhoto(sha, quantizer, m); err != nil {
		return nil, err
	}
	l.logger.Printf("Quantized \"%s\" with %s, SHA-1 \"%s\"\n", file, quantizer, sha)

	return m, nil
}

// LoadSprite returns the object image in file.
func (l *Loader) LoadSprite(file string) (*sprite.Image, error) {
	b, sha, err := readFile(file)
	if err != nil {
		return nil, err
	}

	m, err := l.db.FindSprite(sha)
	if err != nil {
		return nil, err
	}
	if m != nil {
		l.logger.Printf("Using cached object image for \"%s\"\n", file)
		return m, nil
	}

	m, err = sprite.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}

	if err := l.db.AddSprite(sha, m); err != nil {
		return nil, err
	}
	l.logger.Printf("Decoded \"%s\", SHA-1 \"%s\"\n", file, sha)

	return m, nil
}
