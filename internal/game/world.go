package game

import "fmt"

// Player identifies an owning side. Entities with a nil owner are neutral.
type Player struct {
	ID   int
	Name string
}

// AudioSink receives named sound cues. Cue failures are absorbed with a log
// entry and never affect the simulation.
type AudioSink interface {
	PlayCue(name string) error
}

// EconomySink is the external harvesting/economy collaborator.
type EconomySink interface {
	// Harvest is invoked each tick a harvester is engaged on a resource.
	Harvest(harvester, resource *Entity)
	// Deliver is invoked each tick a loaded harvester is engaged on a
	// refinery.
	Deliver(harvester, refinery *Entity)
}

// World aggregates all entities and owns the grid and fog layers. It drives
// one simulation tick per Update call; there is no concurrent mutation — the
// single update pass is the only writer.
type World struct {
	Cols int
	Rows int

	grid      *Grid
	fog       map[int]*Fog
	players   []*Player
	entities  []*Entity
	templates *TemplateSet

	projectiles ProjectileSink
	audio       AudioSink
	economy     EconomySink

	simLog *SimLog
	tick   int
	nextID int
}

// NewWorld creates a world over level-supplied terrain weights.
func NewWorld(cols, rows int, base []int, templates *TemplateSet) *World {
	return &World{
		Cols:      cols,
		Rows:      rows,
		grid:      NewGrid(cols, rows, base),
		fog:       make(map[int]*Fog),
		templates: templates,
		simLog:    NewSimLog(false),
		nextID:    1,
	}
}

// SetProjectileSink wires the external projectile subsystem.
func (w *World) SetProjectileSink(s ProjectileSink) { w.projectiles = s }

// SetAudioSink wires the external audio collaborator.
func (w *World) SetAudioSink(s AudioSink) { w.audio = s }

// SetEconomySink wires the external economy collaborator.
func (w *World) SetEconomySink(s EconomySink) { w.economy = s }

// SetSimLog replaces the structured event log (the harness injects its own).
func (w *World) SetSimLog(l *SimLog) {
	if l != nil {
		w.simLog = l
	}
}

// Grid exposes the occupancy grid for read-mostly collaborators.
func (w *World) Grid() *Grid { return w.grid }

// SimLog exposes the structured event log.
func (w *World) SimLog() *SimLog { return w.simLog }

// Tick returns the current simulation tick.
func (w *World) Tick() int { return w.tick }

// AddPlayer registers a new player and its fog layer.
func (w *World) AddPlayer(name string) *Player {
	p := &Player{ID: len(w.players) + 1, Name: name}
	w.players = append(w.players, p)
	w.fog[p.ID] = NewFog(w.Cols, w.Rows)
	return p
}

// Fog returns the player's visibility layer.
func (w *World) Fog(p *Player) *Fog {
	if p == nil {
		return nil
	}
	return w.fog[p.ID]
}

// Players returns the registered players.
func (w *World) Players() []*Player { return w.players }

// Entities returns the live entity collection. Callers must not mutate it.
func (w *World) Entities() []*Entity { return w.entities }

// Spawn instantiates a template at a cell for an owner (nil = neutral). A
// healthOverride above zero replaces the template health. The footprint is
// marked unwalkable immediately; the per-tick rebuild keeps it stamped.
func (w *World) Spawn(template string, owner *Player, cell Cell, healthOverride int) (*Entity, error) {
	tpl, ok := w.templates.Get(template)
	if !ok {
		return nil, fmt.Errorf("spawn: unknown template %q", template)
	}
	e := newEntity(w.nextID, tpl, owner, cell, w)
	w.nextID++
	if healthOverride > 0 {
		e.health = healthOverride
	}
	w.entities = append(w.entities, e)
	if e.BlocksTerrain() {
		w.grid.stamp(e)
	}
	w.logEvent(e, "spawn", "placed", cell.String())
	return e, nil
}

// Remove deletes an entity and unmarks its footprint. The unmark runs on
// every removal path — explicit removal, death completion, sell — and later
// calls for the same entity are no-ops.
func (w *World) Remove(e *Entity) {
	if e == nil || e.removed {
		return
	}
	e.removed = true
	w.grid.clear(e)
	for i, o := range w.entities {
		if o == e {
			w.entities = append(w.entities[:i], w.entities[i+1:]...)
			break
		}
	}
	w.logEvent(e, "death", "removed", e.cell.String())
}

// Update advances one simulation tick: rebuild the occupancy grid from the
// base layer plus live footprints, refresh each player's fog, then update
// every entity in order. Entities later in iteration order observe earlier
// entities' freshly stamped state from this tick; with a fixed order the
// whole tick is deterministic.
func (w *World) Update() {
	w.tick++
	w.grid.Rebuild(w.entities)
	for _, p := range w.players {
		w.fog[p.ID].Update(w.entities, p)
	}
	// Snapshot the slice: an immediate death removes entities mid-pass.
	snapshot := append([]*Entity(nil), w.entities...)
	for _, e := range snapshot {
		if e.removed {
			continue
		}
		e.Update()
	}
}

// --- Spatial queries ---

// EntityAtCell returns the first live entity whose footprint covers the cell,
// including dying entities (they still block terrain until removal).
func (w *World) EntityAtCell(c Cell) *Entity {
	if occ := w.grid.Query(c.X, c.Y, false).Occupant; occ != nil && !occ.removed {
		return occ
	}
	// Non-blocking entities (overlays, mid-move stamp gaps) need the slow path.
	for _, e := range w.entities {
		for _, fc := range e.FootprintCells() {
			if fc == c {
				return e
			}
		}
	}
	return nil
}

// SelectableAt returns the selectable entity covering a pixel point, or nil.
func (w *World) SelectableAt(px, py float64) *Entity {
	c := cellOf(px, py)
	for _, e := range w.entities {
		if !e.IsSelectable() {
			continue
		}
		for _, fc := range e.FootprintCells() {
			if fc == c {
				return e
			}
		}
	}
	return nil
}

// SelectablesInRect returns every selectable entity whose position lies in
// the pixel rectangle. Used by drag selection.
func (w *World) SelectablesInRect(x, y, width, height float64) []*Entity {
	var out []*Entity
	for _, e := range w.entities {
		if !e.IsSelectable() {
			continue
		}
		if e.x >= x && e.x < x+width && e.y >= y && e.y < y+height {
			out = append(out, e)
		}
	}
	return out
}

// AttackableAt returns a target for the given player at a cell: a live,
// non-dying entity not owned by that player.
func (w *World) AttackableAt(c Cell, by *Player) *Entity {
	e := w.EntityAtCell(c)
	if e == nil || !e.IsAttackable() {
		return nil
	}
	if by != nil && e.owner == by {
		return nil
	}
	return e
}

// OwnedBy returns all live entities belonging to a player.
func (w *World) OwnedBy(p *Player) []*Entity {
	var out []*Entity
	for _, e := range w.entities {
		if e.owner == p {
			out = append(out, e)
		}
	}
	return out
}

// CanPlanTo reports whether a destination looks reachable given the player's
// knowledge: cells still under shroud are assumed passable for cursor and
// feasibility checks, revealed cells answer from the real grid.
func (w *World) CanPlanTo(p *Player, dest Cell) bool {
	if !w.grid.inBounds(dest.X, dest.Y) {
		return false
	}
	if f := w.Fog(p); f != nil && f.At(dest.X, dest.Y) == FogShroud {
		return true
	}
	return w.grid.IsWalkable(dest.X, dest.Y)
}

// --- Collaborator plumbing ---

// cue forwards a named sound cue, fire-and-forget. A failed cue is logged and
// never propagated.
func (w *World) cue(name string) {
	if name == "" || w.audio == nil {
		return
	}
	if err := w.audio.PlayCue(name); err != nil {
		w.simLog.Add(w.tick, "--", "--", "audio", "cue_error",
			fmt.Sprintf("%s: %v", name, err), 0)
	}
}

func (w *World) harvest(e, resource *Entity) {
	if w.economy == nil {
		return
	}
	w.economy.Harvest(e, resource)
}

func (w *World) deliver(e, refinery *Entity) {
	if w.economy == nil {
		return
	}
	w.economy.Deliver(e, refinery)
}

// reserveSubCell hands out the first free infantry slot among units already
// in or heading for the destination cell.
func (w *World) reserveSubCell(dest Cell) int {
	var used [subCellSlots]bool
	for _, o := range w.entities {
		if o.removed || o.subCell < 0 {
			continue
		}
		if o.cell == dest || (len(o.path) > 0 && o.path[len(o.path)-1] == dest) {
			used[o.subCell] = true
		}
	}
	for i, u := range used {
		if !u {
			return i
		}
	}
	return 0
}

func (w *World) logEvent(e *Entity, category, key, value string) {
	team := "--"
	if e.owner != nil {
		team = e.owner.Name
	}
	w.simLog.Add(w.tick, e.label, team, category, key, value, 0)
}
