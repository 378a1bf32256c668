package roomview

import (
	"image"

	"github.com/bodgit/roomview/octree"
	"github.com/bodgit/roomview/sprite"
)

// Object is anything drawn over a room photo.
type Object interface {
	X() int
	Y() int
	Image() *sprite.Image
}

// Room supplies the quantized photo and the objects to draw over it. The
// order of Objects is the drawing order; later objects cover earlier ones.
type Room interface {
	Photo() *octree.Image
	Objects() []Object
}

// Placement is an object image at a fixed position in room coordinates.
type Placement struct {
	Pos    image.Point
	Sprite *sprite.Image
}

// X implements Object.
func (p Placement) X() int { return p.Pos.X }

// Y implements Object.
func (p Placement) Y() int { return p.Pos.Y }

// Image implements Object.
func (p Placement) Image() *sprite.Image { return p.Sprite }

// Scene is a Room held entirely in memory.
type Scene struct {
	Background *octree.Image
	Contents   []Object
}

// NewScene returns an empty scene over the given photo.
func NewScene(background *octree.Image) *Scene {
	return &Scene{
		Background: background,
	}
}

// Add places m at (x, y) on top of everything already in the scene.
func (s *Scene) Add(x, y int, m *sprite.Image) {
	s.Contents = append(s.Contents, Placement{Pos: image.Pt(x, y), Sprite: m})
}

// Photo implements Room.
func (s *Scene) Photo() *octree.Image { return s.Background }

// Objects implements Room.
func (s *Scene) Objects() []Object { return s.Contents }
