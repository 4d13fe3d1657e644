package game

import "fmt"

const (
	// cellSize is the pixel width/height of one grid cell.
	cellSize = 24

	// blockWeight is the traversal weight stamped into a cell covered by a
	// blocking entity's footprint.
	blockWeight = 100
)

// Cell is one grid-aligned tile address.
type Cell struct {
	X int
	Y int
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// cellOf converts a continuous pixel position to its containing cell by
// truncation.
func cellOf(x, y float64) Cell {
	return Cell{int(x) / cellSize, int(y) / cellSize}
}

// cellCenter returns the pixel centre of a cell.
func cellCenter(c Cell) (float64, float64) {
	return float64(c.X*cellSize) + cellSize/2, float64(c.Y*cellSize) + cellSize/2
}

// CellEntry is the resolved state of one grid cell. The zero value means
// free and unoccupied, and is what out-of-bounds queries return.
type CellEntry struct {
	Weight     int     // traversal cost, 0 = free
	OccupantID int     // entity id, 0 = none
	Occupant   *Entity // back-reference to the occupying entity
}

// Grid tracks per-cell occupancy and walkability. It holds three layers:
// base (static terrain weights, immutable after load), current (rebuilt every
// tick from base plus live entity footprints) and previous (the prior tick's
// fully resolved current, kept for became-blocked diffing). All queries fail
// closed on out-of-bounds coordinates.
type Grid struct {
	Cols int
	Rows int

	base     []int
	current  []CellEntry
	previous []CellEntry
}

// NewGrid creates a grid from level-supplied terrain weights. base may be nil
// for an all-clear map; a short slice leaves the remainder clear.
func NewGrid(cols, rows int, base []int) *Grid {
	g := &Grid{
		Cols:     cols,
		Rows:     rows,
		base:     make([]int, cols*rows),
		current:  make([]CellEntry, cols*rows),
		previous: make([]CellEntry, cols*rows),
	}
	copy(g.base, base)
	for i, w := range g.base {
		g.current[i].Weight = w
		g.previous[i].Weight = w
	}
	return g
}

func (g *Grid) inBounds(x, y int) bool {
	return x >= 0 && x < g.Cols && y >= 0 && y < g.Rows
}

func (g *Grid) idx(x, y int) int {
	return y*g.Cols + x
}

// IsWalkable returns true when (x, y) carries no traversal weight.
// Out-of-bounds coordinates are never walkable.
func (g *Grid) IsWalkable(x, y int) bool {
	if !g.inBounds(x, y) {
		return false
	}
	return g.current[g.idx(x, y)].Weight == 0
}

// SetWalkable toggles the blocking weight of a single cell. Out-of-bounds
// coordinates are a silent no-op.
func (g *Grid) SetWalkable(x, y int, walkable bool) {
	if !g.inBounds(x, y) {
		return
	}
	if walkable {
		g.current[g.idx(x, y)].Weight = 0
	} else {
		g.current[g.idx(x, y)].Weight = blockWeight
	}
}

// Query returns the resolved entry for a cell, or the zero entry when the
// coordinate is out of bounds. With previous set, the prior tick's snapshot
// is consulted instead of the current layer.
func (g *Grid) Query(x, y int, previous bool) CellEntry {
	if !g.inBounds(x, y) {
		return CellEntry{}
	}
	if previous {
		return g.previous[g.idx(x, y)]
	}
	return g.current[g.idx(x, y)]
}

// BaseWeight returns the immutable terrain weight at (x, y), 0 when out of
// bounds.
func (g *Grid) BaseWeight(x, y int) int {
	if !g.inBounds(x, y) {
		return 0
	}
	return g.base[g.idx(x, y)]
}

// Rebuild derives the current layer for this tick: the prior current becomes
// previous, current resets to the base terrain, then every live blocking
// entity stamps its footprint with an occupant back-reference. Overlapping
// stamps are last-writer-wins; blocking entities do not overlap by
// construction.
func (g *Grid) Rebuild(entities []*Entity) {
	copy(g.previous, g.current)
	for i := range g.current {
		g.current[i] = CellEntry{Weight: g.base[i]}
	}
	for _, e := range entities {
		if e.removed || !e.BlocksTerrain() {
			continue
		}
		g.stamp(e)
	}
}

// stamp writes an entity's footprint into the current layer.
func (g *Grid) stamp(e *Entity) {
	for _, c := range e.FootprintCells() {
		if !g.inBounds(c.X, c.Y) {
			continue
		}
		g.current[g.idx(c.X, c.Y)] = CellEntry{
			Weight:     blockWeight,
			OccupantID: e.id,
			Occupant:   e,
		}
	}
}

// clear restores an entity's footprint cells to the base terrain. Runs on
// every removal path so a construct→destroy cycle leaves the grid exactly as
// it was.
func (g *Grid) clear(e *Entity) {
	for _, c := range e.FootprintCells() {
		if !g.inBounds(c.X, c.Y) {
			continue
		}
		i := g.idx(c.X, c.Y)
		if g.current[i].OccupantID == e.id {
			g.current[i] = CellEntry{Weight: g.base[i]}
		}
	}
}
