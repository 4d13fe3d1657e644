package game

// FogState is the visibility of one cell for one player.
type FogState uint8

const (
	FogShroud   FogState = iota // never seen
	FogExplored                 // seen before, not currently visible
	FogVisible                  // inside some owned entity's sight radius
)

// Fog tracks which cells a single player has revealed. The world owns one Fog
// per player and updates it each tick before entities run; the core otherwise
// only reads it.
type Fog struct {
	Cols int
	Rows int

	states []FogState
}

// NewFog creates a fully shrouded fog layer.
func NewFog(cols, rows int) *Fog {
	return &Fog{
		Cols:   cols,
		Rows:   rows,
		states: make([]FogState, cols*rows),
	}
}

// At returns the fog state at (x, y). Out-of-bounds cells are shrouded.
func (f *Fog) At(x, y int) FogState {
	if x < 0 || y < 0 || x >= f.Cols || y >= f.Rows {
		return FogShroud
	}
	return f.states[y*f.Cols+x]
}

// IsVisible returns true when the cell is currently inside sight.
func (f *Fog) IsVisible(x, y int) bool {
	return f.At(x, y) == FogVisible
}

// IsExplored returns true when the cell has ever been revealed.
func (f *Fog) IsExplored(x, y int) bool {
	return f.At(x, y) != FogShroud
}

// Update runs one fog cycle for the owning player: currently-visible cells
// demote to explored, then every live entity owned by the player reveals a
// circle of its sight radius around its anchor cell.
func (f *Fog) Update(entities []*Entity, owner *Player) {
	for i, s := range f.states {
		if s == FogVisible {
			f.states[i] = FogExplored
		}
	}
	for _, e := range entities {
		if e.removed || e.owner != owner {
			continue
		}
		f.reveal(e.cell, e.Sight())
	}
}

// reveal marks every cell within radius r of centre as visible.
func (f *Fog) reveal(centre Cell, r int) {
	if r < 0 {
		return
	}
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy > r*r {
				continue
			}
			x, y := centre.X+dx, centre.Y+dy
			if x < 0 || y < 0 || x >= f.Cols || y >= f.Rows {
				continue
			}
			f.states[y*f.Cols+x] = FogVisible
		}
	}
}

// RevealAll lifts the shroud from the whole map. Debug/spectator use.
func (f *Fog) RevealAll() {
	for i := range f.states {
		f.states[i] = FogVisible
	}
}
