package game

// Footprint is the set of cells an entity occupies relative to its anchor.
// A named pattern lists occupied cells explicitly (patterns need not be
// rectangular — an "X" shape is valid); without a pattern the footprint is a
// plain Width×Height rectangle. The zero value occupies exactly the anchor.
type Footprint struct {
	Name   string
	Width  int
	Height int
	// Mask is row-major Width×Height; true marks an occupied cell. nil means
	// the full rectangle is occupied.
	Mask []bool
}

// Cells enumerates the grid cells the footprint covers at the given anchor.
func (f Footprint) Cells(anchor Cell) []Cell {
	w, h := f.Width, f.Height
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	out := make([]Cell, 0, w*h)
	for ry := 0; ry < h; ry++ {
		for rx := 0; rx < w; rx++ {
			if f.Mask != nil && !f.Mask[ry*w+rx] {
				continue
			}
			out = append(out, Cell{anchor.X + rx, anchor.Y + ry})
		}
	}
	return out
}

// Wall-neighbour bits. Each cardinal neighbour holding a wall piece of the
// same kind contributes its bit; the sum selects the presentation frame.
const (
	wallBitTop    = 1
	wallBitRight  = 2
	wallBitBottom = 4
	wallBitLeft   = 8
)

var wallNeighbours = [4]struct {
	dx, dy int
	bit    int
}{
	{0, -1, wallBitTop},
	{1, 0, wallBitRight},
	{0, 1, wallBitBottom},
	{-1, 0, wallBitLeft},
}
