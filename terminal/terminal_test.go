package terminal

import (
	"image"
	"io"
	"log"
	"testing"

	"github.com/bodgit/roomview"
	"github.com/bodgit/roomview/octree"
	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discard = log.New(io.Discard, "", 0)

func newViewer(t *testing.T) (*Viewer, tcell.SimulationScreen, *roomview.Registers) {
	t.Helper()

	m := &octree.Image{
		Pix:     make([]byte, 20*10),
		Rect:    image.Rect(0, 0, 20, 10),
		Offset:  octree.Reserved,
		Palette: new(octree.Palette),
	}
	for i := range m.Palette {
		m.Palette[i] = [3]uint8{uint8(i % 64), 0, 0}
	}
	for i := range m.Pix {
		m.Pix[i] = byte(octree.Reserved + i%octree.Size)
	}

	regs := new(roomview.Registers)
	v := roomview.NewView(regs, discard)
	require.NoError(t, v.Prep(roomview.NewScene(m)))

	s := tcell.NewSimulationScreen("")
	require.NoError(t, s.Init())
	t.Cleanup(s.Fini)
	s.SetSize(8, 4)

	return New(s, v, regs.Colors(), discard), s, regs
}

func TestViewerSize(t *testing.T) {
	viewer, _, _ := newViewer(t)

	p := viewer.Viewport()
	assert.Equal(t, 8, p.W)
	assert.Equal(t, 6, p.H)
}

func TestViewerDraw(t *testing.T) {
	viewer, s, regs := newViewer(t)
	viewer.Draw()

	colors := regs.Colors()
	p := viewer.Viewport()
	for y := 0; y < 3; y++ {
		for x := 0; x < 8; x++ {
			ch, _, style, _ := s.GetContent(x, y)
			assert.Equal(t, halfBlock, ch)

			fg, bg, _ := style.Decompose()
			r, g, b, _ := colors[p.Pix[y*2*p.W+x]].RGBA()
			assert.Equal(t, tcell.NewRGBColor(int32(r>>8), int32(g>>8), int32(b>>8)), fg)
			r, g, b, _ = colors[p.Pix[(y*2+1)*p.W+x]].RGBA()
			assert.Equal(t, tcell.NewRGBColor(int32(r>>8), int32(g>>8), int32(b>>8)), bg)
		}
	}

	ch, _, _, _ := s.GetContent(1, 3)
	assert.Equal(t, '0', ch)
}

func TestViewerKeys(t *testing.T) {
	viewer, _, _ := newViewer(t)
	p := viewer.Viewport()

	assert.True(t, viewer.HandleEvent(tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone)))
	assert.Equal(t, image.Pt(1, 0), image.Pt(p.X, p.Y))

	assert.True(t, viewer.HandleEvent(tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModShift)))
	assert.Equal(t, image.Pt(1, 8), image.Pt(p.X, p.Y))

	assert.True(t, viewer.HandleEvent(tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone)))
	assert.True(t, viewer.HandleEvent(tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone)))
	assert.Equal(t, image.Pt(0, 7), image.Pt(p.X, p.Y))

	fresh := roomview.NewViewport(viewer.view, p.W, p.H)
	fresh.MoveTo(p.X, p.Y)
	assert.Equal(t, fresh.Pix, p.Pix)

	assert.True(t, viewer.HandleEvent(tcell.NewEventKey(tcell.KeyHome, 0, tcell.ModNone)))
	assert.Equal(t, image.Pt(0, 0), image.Pt(p.X, p.Y))

	assert.False(t, viewer.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)))
}

func TestViewerEscape(t *testing.T) {
	viewer, _, _ := newViewer(t)
	assert.False(t, viewer.HandleEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)))
}

func TestViewerResize(t *testing.T) {
	viewer, s, _ := newViewer(t)
	viewer.HandleEvent(tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone))

	s.SetSize(12, 6)
	viewer.HandleEvent(tcell.NewEventResize(12, 6))

	p := viewer.Viewport()
	assert.Equal(t, 12, p.W)
	assert.Equal(t, 10, p.H)
	assert.Equal(t, 1, p.X)
}
