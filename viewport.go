package roomview

// Viewport is a window of composited pixels onto the current room of a
// View. Moving it only recomposites the rows and columns that scroll into
// view, the way a hardware scroller redraws one strip at a time.
type Viewport struct {
	X, Y int
	W, H int

	// Pix holds W*H display indices, top row first
	Pix []byte

	view  *View
	spare []byte
	col   []byte
}

// NewViewport returns a w by h viewport onto v at the origin. Redraw must be
// called once v has a room.
func NewViewport(v *View, w, h int) *Viewport {
	return &Viewport{
		W:     w,
		H:     h,
		Pix:   make([]byte, w*h),
		view:  v,
		spare: make([]byte, w*h),
		col:   make([]byte, h),
	}
}

func (p *Viewport) fillRow(r int) {
	p.view.FillStripInto(Horizontal, p.X, p.Y+r, p.Pix[r*p.W:(r+1)*p.W])
}

func (p *Viewport) fillColumn(c int) {
	p.view.FillStripInto(Vertical, p.X+c, p.Y, p.col)
	for r, b := range p.col {
		p.Pix[r*p.W+c] = b
	}
}

// Redraw recomposites every row.
func (p *Viewport) Redraw() {
	for r := 0; r < p.H; r++ {
		p.fillRow(r)
	}
}

// MoveTo places the viewport at (x, y) and redraws it.
func (p *Viewport) MoveTo(x, y int) {
	p.X, p.Y = x, y
	p.Redraw()
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// Scroll moves the viewport by (dx, dy), keeping the pixels still in view
// and compositing only the newly exposed strips.
func (p *Viewport) Scroll(dx, dy int) {
	if dx == 0 && dy == 0 {
		return
	}
	if abs(dx) >= p.W || abs(dy) >= p.H {
		p.MoveTo(p.X+dx, p.Y+dy)
		return
	}

	// Shift what is still visible into the spare buffer
	for r := 0; r < p.H; r++ {
		sr := r + dy
		if sr < 0 || sr >= p.H {
			continue
		}
		dst := p.spare[r*p.W : (r+1)*p.W]
		src := p.Pix[sr*p.W : (sr+1)*p.W]
		if dx >= 0 {
			copy(dst, src[dx:])
		} else {
			copy(dst[-dx:], src)
		}
	}
	p.Pix, p.spare = p.spare, p.Pix
	p.X += dx
	p.Y += dy

	switch {
	case dx > 0:
		for c := p.W - dx; c < p.W; c++ {
			p.fillColumn(c)
		}
	case dx < 0:
		for c := 0; c < -dx; c++ {
			p.fillColumn(c)
		}
	}

	switch {
	case dy > 0:
		for r := p.H - dy; r < p.H; r++ {
			p.fillRow(r)
		}
	case dy < 0:
		for r := 0; r < -dy; r++ {
			p.fillRow(r)
		}
	}
}
