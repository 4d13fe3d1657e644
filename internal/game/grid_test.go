package game

import "testing"

func TestGrid_OutOfBoundsFailsClosed(t *testing.T) {
	g := NewGrid(10, 8, nil)

	if g.IsWalkable(-1, 0) || g.IsWalkable(0, -1) || g.IsWalkable(10, 0) || g.IsWalkable(0, 8) {
		t.Fatal("out-of-bounds cells must never be walkable")
	}
	if got := g.Query(-3, 99, false); got != (CellEntry{}) {
		t.Fatalf("out-of-bounds query = %+v, want zero entry", got)
	}
	if got := g.BaseWeight(-1, -1); got != 0 {
		t.Fatalf("out-of-bounds base weight = %d, want 0", got)
	}
	// Must not panic and must not write anywhere.
	g.SetWalkable(-5, -5, false)
	g.SetWalkable(100, 100, true)
}

func TestGrid_SetWalkableToggle(t *testing.T) {
	g := NewGrid(10, 10, nil)
	if !g.IsWalkable(4, 4) {
		t.Fatal("fresh grid cell should be walkable")
	}
	g.SetWalkable(4, 4, false)
	if g.IsWalkable(4, 4) {
		t.Fatal("cell still walkable after blocking")
	}
	if got := g.Query(4, 4, false).Weight; got != blockWeight {
		t.Fatalf("blocked cell weight = %d, want %d", got, blockWeight)
	}
	g.SetWalkable(4, 4, true)
	if !g.IsWalkable(4, 4) {
		t.Fatal("cell not walkable after unblocking")
	}
}

func TestGrid_BaseTerrainWeights(t *testing.T) {
	base := make([]int, 6*6)
	base[2*6+3] = 7 // (3,2)
	g := NewGrid(6, 6, base)

	if g.IsWalkable(3, 2) {
		t.Fatal("weighted terrain cell should be unwalkable")
	}
	if got := g.BaseWeight(3, 2); got != 7 {
		t.Fatalf("base weight = %d, want 7", got)
	}
	// Rebuild with no entities keeps terrain blocked.
	g.Rebuild(nil)
	if g.IsWalkable(3, 2) {
		t.Fatal("terrain weight lost after rebuild")
	}
}

func TestGrid_RebuildStampsFootprints(t *testing.T) {
	ts := NewTestSim(WithUnit(1, "refinery", 5, 5))
	ts.RunTicks(1)

	ref := ts.Unit("refinery", 0)
	g := ts.World.Grid()
	for _, c := range ref.FootprintCells() {
		entry := g.Query(c.X, c.Y, false)
		if entry.OccupantID != ref.ID() || entry.Occupant != ref {
			t.Fatalf("cell %v occupant = %d, want refinery id %d", c, entry.OccupantID, ref.ID())
		}
		if g.IsWalkable(c.X, c.Y) {
			t.Fatalf("footprint cell %v still walkable", c)
		}
	}
	// A 3x2 footprint anchored at (5,5) must not spill outside.
	if !g.IsWalkable(4, 5) || !g.IsWalkable(8, 5) || !g.IsWalkable(5, 7) {
		t.Fatal("footprint stamped outside its cells")
	}
}

func TestGrid_PreviousLayerSnapshot(t *testing.T) {
	ts := NewTestSim()
	ts.RunTicks(1)

	g := ts.World.Grid()
	if got := g.Query(6, 6, true).OccupantID; got != 0 {
		t.Fatalf("previous layer occupant before spawn = %d, want 0", got)
	}

	// Spawning stamps the current layer immediately; previous lags until the
	// next rebuild copies current across.
	ts.World.Spawn("sandbag", nil, Cell{6, 6}, 0)
	if g.Query(6, 6, false).OccupantID == 0 {
		t.Fatal("current layer missing the sandbag")
	}
	if g.Query(6, 6, true).OccupantID != 0 {
		t.Fatal("previous layer already shows the sandbag")
	}
	ts.RunTicks(1)
	if g.Query(6, 6, true).OccupantID == 0 {
		t.Fatal("previous layer missing the sandbag after a rebuild")
	}
}

func TestGrid_RemoveRestoresTerrain(t *testing.T) {
	ts := NewTestSim(WithUnit(0, "sandbag", 6, 6))
	ts.RunTicks(1)
	bag := ts.Unit("sandbag", 0)

	if ts.World.Grid().IsWalkable(6, 6) {
		t.Fatal("sandbag cell walkable while placed")
	}
	ts.World.Remove(bag)
	if !ts.World.Grid().IsWalkable(6, 6) {
		t.Fatal("sandbag cell still blocked after removal")
	}
	// Removal is idempotent.
	ts.World.Remove(bag)
	ts.RunTicks(1)
	if !ts.World.Grid().IsWalkable(6, 6) {
		t.Fatal("cell blocked again after post-removal rebuild")
	}
}
