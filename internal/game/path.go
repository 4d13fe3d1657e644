package game

import (
	"container/heap"
	"math"
)

// PathOptions adjust how the planner treats occupied cells.
type PathOptions struct {
	// Force unblocks the destination cell regardless of its current occupant,
	// so a mover can path onto the cell its target is standing on.
	Force bool
	// AttackerOwner, when non-nil, treats cells blocked only by entities of
	// other players as free: hostile footprints are the legitimate approach
	// for an attack order. Friendly-occupied cells keep blocking.
	AttackerOwner *Player
}

type pathNode struct {
	x, y   int
	g, h   float64
	parent *pathNode
	index  int // heap index
}

type openList []*pathNode

func (ol openList) Len() int           { return len(ol) }
func (ol openList) Less(i, j int) bool { return (ol[i].g + ol[i].h) < (ol[j].g + ol[j].h) }
func (ol openList) Swap(i, j int) {
	ol[i], ol[j] = ol[j], ol[i]
	ol[i].index = i
	ol[j].index = j
}
func (ol *openList) Push(x interface{}) {
	n := x.(*pathNode)
	n.index = len(*ol)
	*ol = append(*ol, n)
}
func (ol *openList) Pop() interface{} {
	old := *ol
	n := old[len(old)-1]
	old[len(old)-1] = nil
	*ol = old[:len(old)-1]
	return n
}

var pathDirs = [8][2]int{
	{1, 0}, {-1, 0}, {0, 1}, {0, -1},
	{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
}

// FindPath runs A* from one cell to another over a frozen copy of the grid's
// current layer and returns the route excluding the source cell. Diagonal
// steps are allowed; weighted cells are impassable unless an option lifts
// them. A nil result means no path exists, which is not an error — the caller
// leaves the entity stationary.
//
// The planner keeps no state between calls, and the per-call snapshot means
// a tick's sequence of path requests is deterministic for a fixed entity
// iteration order.
func FindPath(g *Grid, from, to Cell, opts PathOptions) []Cell {
	if !g.inBounds(from.X, from.Y) || !g.inBounds(to.X, to.Y) {
		return nil
	}
	if from == to {
		return nil
	}

	blocked := snapshotBlocked(g, opts)
	blocked[g.idx(from.X, from.Y)] = false // the mover's own footprint never blocks it
	if opts.Force || opts.AttackerOwner != nil {
		blocked[g.idx(to.X, to.Y)] = false
	}
	if blocked[g.idx(to.X, to.Y)] {
		return nil
	}

	heuristic := func(ax, ay, bx, by int) float64 {
		dx := math.Abs(float64(ax - bx))
		dy := math.Abs(float64(ay - by))
		return dx + dy + (math.Sqrt2-2)*math.Min(dx, dy)
	}

	start := &pathNode{x: from.X, y: from.Y, h: heuristic(from.X, from.Y, to.X, to.Y)}
	ol := &openList{start}
	heap.Init(ol)

	closed := make([]bool, g.Cols*g.Rows)
	best := make(map[int]*pathNode, 64)
	best[g.idx(from.X, from.Y)] = start

	for ol.Len() > 0 {
		cur := heap.Pop(ol).(*pathNode)
		if cur.x == to.X && cur.y == to.Y {
			return buildRoute(cur)
		}
		k := g.idx(cur.x, cur.y)
		if closed[k] {
			continue
		}
		closed[k] = true

		for _, d := range pathDirs {
			nx, ny := cur.x+d[0], cur.y+d[1]
			if !g.inBounds(nx, ny) || blocked[g.idx(nx, ny)] {
				continue
			}
			// No diagonal corner-cutting past blocked cells.
			if d[0] != 0 && d[1] != 0 {
				if blockedAt(g, blocked, cur.x+d[0], cur.y) || blockedAt(g, blocked, cur.x, cur.y+d[1]) {
					continue
				}
			}
			nk := g.idx(nx, ny)
			if closed[nk] {
				continue
			}
			cost := 1.0
			if d[0] != 0 && d[1] != 0 {
				cost = math.Sqrt2
			}
			ng := cur.g + cost
			if prev, ok := best[nk]; ok && ng >= prev.g {
				continue
			}
			node := &pathNode{x: nx, y: ny, g: ng, h: heuristic(nx, ny, to.X, to.Y), parent: cur}
			best[nk] = node
			heap.Push(ol, node)
		}
	}
	return nil
}

// snapshotBlocked freezes the grid's current layer into a walkability slice
// for one planner invocation, applying the attack-order occupant override.
func snapshotBlocked(g *Grid, opts PathOptions) []bool {
	blocked := make([]bool, g.Cols*g.Rows)
	for y := 0; y < g.Rows; y++ {
		for x := 0; x < g.Cols; x++ {
			e := g.current[g.idx(x, y)]
			b := e.Weight != 0
			if b && opts.AttackerOwner != nil && e.Occupant != nil &&
				e.Occupant.owner != opts.AttackerOwner && g.base[g.idx(x, y)] == 0 {
				// Hostile footprint on otherwise clear terrain: free to approach.
				b = false
			}
			blocked[g.idx(x, y)] = b
		}
	}
	return blocked
}

func blockedAt(g *Grid, blocked []bool, x, y int) bool {
	if !g.inBounds(x, y) {
		return true
	}
	return blocked[g.idx(x, y)]
}

// buildRoute walks parent links back to the start and reverses, dropping the
// source cell.
func buildRoute(end *pathNode) []Cell {
	var cells []Cell
	for n := end; n.parent != nil; n = n.parent {
		cells = append(cells, Cell{n.x, n.y})
	}
	for i, j := 0, len(cells)-1; i < j; i, j = i+1, j-1 {
		cells[i], cells[j] = cells[j], cells[i]
	}
	return cells
}
