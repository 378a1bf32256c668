package roomview

import (
	"database/sql"
	"errors"
	"fmt"
	"image"

	"github.com/bodgit/roomview/octree"
	"github.com/bodgit/roomview/sprite"
	_ "github.com/mattn/go-sqlite3"
)

var errCorrupt = errors.New("roomview: cached asset is corrupt")

// AssetDB caches quantized room photos and decoded object images, keyed by
// the SHA-1 of the file they came from.
type AssetDB struct {
	db *sql.DB
}

// NewAssetDB opens or creates the cache in file.
func NewAssetDB(file string) (*AssetDB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_busy_timeout=5000", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS photo (id INTEGER PRIMARY KEY NOT NULL, sha1 TEXT NOT NULL, quantizer TEXT NOT NULL, width INTEGER NOT NULL, height INTEGER NOT NULL, palette_offset INTEGER NOT NULL, palette BLOB NOT NULL, pixels BLOB, UNIQUE (sha1, quantizer))"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS sprite (id INTEGER PRIMARY KEY NOT NULL, sha1 TEXT NOT NULL UNIQUE, width INTEGER NOT NULL, height INTEGER NOT NULL, pixels BLOB)"); err != nil {
		db.Close()
		return nil, err
	}

	return &AssetDB{
		db: db,
	}, nil
}

// Close closes the cache.
func (db *AssetDB) Close() error {
	return db.db.Close()
}

// FindPhoto returns the photo cached for sha and quantizer, or nil if there
// isn't one.
func (db *AssetDB) FindPhoto(sha, quantizer string) (*octree.Image, error) {
	var width, height, offset int
	var palette, pixels []byte
	switch err := db.db.QueryRow("SELECT width, height, palette_offset, palette, pixels FROM photo WHERE sha1 = ? AND quantizer = ?", sha, quantizer).Scan(&width, &height, &offset, &palette, &pixels); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
		if len(palette) != octree.Size*3 || len(pixels) != width*height {
			return nil, errCorrupt
		}

		p := new(octree.Palette)
		for i := range p {
			copy(p[i][:], palette[i*3:])
		}

		return &octree.Image{
			Pix:     pixels,
			Rect:    image.Rect(0, 0, width, height),
			Offset:  offset,
			Palette: p,
		}, nil
	default:
		return nil, err
	}
}

// AddPhoto caches m for sha and quantizer. An existing entry is kept.
func (db *AssetDB) AddPhoto(sha, quantizer string, m *octree.Image) error {
	palette := make([]byte, 0, octree.Size*3)
	for _, c := range m.Palette {
		palette = append(palette, c[:]...)
	}

	if _, err := db.db.Exec("INSERT OR IGNORE INTO photo (sha1, quantizer, width, height, palette_offset, palette, pixels) VALUES (?, ?, ?, ?, ?, ?, ?)", sha, quantizer, m.Width(), m.Height(), m.Offset, palette, m.Pix); err != nil {
		return err
	}
	return nil
}

// FindSprite returns the object image cached for sha, or nil if there isn't
// one.
func (db *AssetDB) FindSprite(sha string) (*sprite.Image, error) {
	var width, height int
	var pixels []byte
	switch err := db.db.QueryRow("SELECT width, height, pixels FROM sprite WHERE sha1 = ?", sha).Scan(&width, &height, &pixels); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
		if len(pixels) != width*height {
			return nil, errCorrupt
		}
		return &sprite.Image{
			Pix:  pixels,
			Rect: image.Rect(0, 0, width, height),
		}, nil
	default:
		return nil, err
	}
}

// AddSprite caches m for sha. An existing entry is kept.
func (db *AssetDB) AddSprite(sha string, m *sprite.Image) error {
	if _, err := db.db.Exec("INSERT OR IGNORE INTO sprite (sha1, width, height, pixels) VALUES (?, ?, ?, ?)", sha, m.Width(), m.Height(), m.Pix); err != nil {
		return err
	}
	return nil
}
