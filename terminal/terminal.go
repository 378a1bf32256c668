// Package terminal shows a room in a terminal using tcell, two display rows
// to each character cell.
package terminal

import (
	"fmt"
	"image/color"
	"log"

	"github.com/bodgit/roomview"
	"github.com/gdamore/tcell/v2"
)

const (
	halfBlock = '▀'

	statusHeight = 1
	smallStep    = 1
	largeStep    = 8
)

// Viewer draws a viewport onto a tcell screen and scrolls it with the arrow
// keys.
type Viewer struct {
	screen  tcell.Screen
	view    *roomview.View
	port    *roomview.Viewport
	colors  []tcell.Color
	logger  *log.Logger
	running bool
}

// New returns a Viewer of the current room of v on screen, an initialised
// tcell screen. p is the display palette, normally the registers v loaded
// the room palette into.
func New(screen tcell.Screen, v *roomview.View, p color.Palette, logger *log.Logger) *Viewer {
	colors := make([]tcell.Color, len(p))
	for i, c := range p {
		r, g, b, _ := c.RGBA()
		colors[i] = tcell.NewRGBColor(int32(r>>8), int32(g>>8), int32(b>>8))
	}

	t := &Viewer{
		screen:  screen,
		view:    v,
		colors:  colors,
		logger:  logger,
		running: true,
	}
	t.resize()

	return t
}

// Viewport returns the viewport currently drawn.
func (t *Viewer) Viewport() *roomview.Viewport {
	return t.port
}

func (t *Viewer) resize() {
	w, h := t.screen.Size()
	h = (h - statusHeight) * 2
	if w < 1 {
		w = 1
	}
	if h < 2 {
		h = 2
	}

	x, y := 0, 0
	if t.port != nil {
		x, y = t.port.X, t.port.Y
	}
	t.port = roomview.NewViewport(t.view, w, h)
	t.port.MoveTo(x, y)
	t.logger.Printf("Viewport resized to %dx%d\n", w, h)
}

func (t *Viewer) color(index byte) tcell.Color {
	if int(index) < len(t.colors) {
		return t.colors[index]
	}
	return tcell.ColorBlack
}

// Draw copies the viewport to the screen and updates the status line.
func (t *Viewer) Draw() {
	p := t.port
	for y := 0; y+1 < p.H; y += 2 {
		for x := 0; x < p.W; x++ {
			top := p.Pix[y*p.W+x]
			bottom := p.Pix[(y+1)*p.W+x]
			style := tcell.StyleDefault.Foreground(t.color(top)).Background(t.color(bottom))
			t.screen.SetContent(x, y/2, halfBlock, nil, style)
		}
	}

	status := fmt.Sprintf(" %d,%d  arrows scroll, shift for faster, q quits ", p.X, p.Y)
	if m := t.view.Room().Photo(); m != nil {
		status = fmt.Sprintf(" %d,%d of %dx%d  arrows scroll, shift for faster, q quits ", p.X, p.Y, m.Width(), m.Height())
	}
	style := tcell.StyleDefault.Reverse(true)
	row := p.H / 2
	w, _ := t.screen.Size()
	for x := 0; x < w; x++ {
		ch := ' '
		if x < len(status) {
			ch = rune(status[x])
		}
		t.screen.SetContent(x, row, ch, nil, style)
	}
}

// HandleEvent applies ev and reports whether the viewer is still running.
func (t *Viewer) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		t.resize()
		t.screen.Sync()
	case *tcell.EventKey:
		step := smallStep
		if ev.Modifiers()&tcell.ModShift != 0 {
			step = largeStep
		}

		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			t.running = false
		case tcell.KeyLeft:
			t.port.Scroll(-step, 0)
		case tcell.KeyRight:
			t.port.Scroll(step, 0)
		case tcell.KeyUp:
			t.port.Scroll(0, -step)
		case tcell.KeyDown:
			t.port.Scroll(0, step)
		case tcell.KeyHome:
			t.port.MoveTo(0, 0)
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q', 'Q':
				t.running = false
			}
		}
	}
	return t.running
}

// Run draws the room and handles events until the user quits.
func (t *Viewer) Run() error {
	for t.running {
		t.Draw()
		t.screen.Show()

		ev := t.screen.PollEvent()
		if ev == nil {
			break
		}
		t.HandleEvent(ev)
	}
	t.logger.Printf("Viewer stopped at %d,%d\n", t.port.X, t.port.Y)
	return nil
}
