package game

import (
	"fmt"
	"math"
)

const (
	// speedDivisor scales template speed into pixels per tick.
	speedDivisor = 2.0

	// subCellSlots is how many infantry share one cell.
	subCellSlots = 5
)

// subCellOffsets are pixel offsets from a cell centre for each infantry slot.
var subCellOffsets = [subCellSlots][2]float64{
	{0, 0},
	{-6, -6},
	{6, -6},
	{-6, 6},
	{6, 6},
}

// TargetAction is what an entity intends to do with its current target.
type TargetAction uint8

const (
	ActionNone TargetAction = iota
	ActionAttack
	ActionHarvest
	ActionEnter
	ActionCapture
	ActionBomb
	ActionHarvestReturn
)

func (a TargetAction) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionAttack:
		return "attack"
	case ActionHarvest:
		return "harvest"
	case ActionEnter:
		return "enter"
	case ActionCapture:
		return "capture"
	case ActionBomb:
		return "bomb"
	case ActionHarvestReturn:
		return "harvest-return"
	default:
		return "unknown"
	}
}

// DamageState buckets the health ratio into presentation tiers. It never
// changes behaviour.
type DamageState uint8

const (
	DamageHealthy DamageState = iota
	DamageDamaged
	DamageCritical
)

func (d DamageState) String() string {
	switch d {
	case DamageHealthy:
		return "healthy"
	case DamageDamaged:
		return "damaged"
	case DamageCritical:
		return "critical"
	default:
		return "unknown"
	}
}

type point struct {
	x, y float64
}

// Entity is one simulated unit or structure. The world exclusively owns the
// entity collection; an entity exclusively owns its weapons.
type Entity struct {
	id    int
	label string
	tpl   *UnitTemplate
	owner *Player // nil = neutral/civilian

	cell Cell
	x, y float64 // pixel position; cell always equals cellOf(x, y)

	direction       float64 // facing bucket, [0, Facings)
	turretDir       float64 // turret bucket; meaningful only with a turret
	targetDirection float64 // pending rotate-only order, -1 = none

	health int

	path       []Cell
	target     *Entity
	action     TargetAction
	engaged    bool   // target in actionable range this tick
	moveTarget *point // pixel destination of the in-progress inter-cell move
	subCell    int    // reserved infantry slot, -1 = none

	dying   bool
	removed bool

	selected    bool
	highlighted bool
	wallVariant int

	weapons []*Weapon
	world   *World
}

func newEntity(id int, tpl *UnitTemplate, owner *Player, cell Cell, w *World) *Entity {
	x, y := cellCenter(cell)
	e := &Entity{
		id:              id,
		label:           fmt.Sprintf("%s#%d", tpl.Name, id),
		tpl:             tpl,
		owner:           owner,
		cell:            cell,
		x:               x,
		y:               y,
		targetDirection: -1,
		health:          tpl.Health,
		subCell:         -1,
		world:           w,
	}
	for _, spec := range tpl.Weapons {
		e.weapons = append(e.weapons, NewWeapon(spec))
	}
	return e
}

// --- Identity and capability queries ---

func (e *Entity) ID() int                 { return e.id }
func (e *Entity) Label() string           { return e.label }
func (e *Entity) Template() *UnitTemplate { return e.tpl }
func (e *Entity) Kind() UnitKind          { return e.tpl.Kind }
func (e *Entity) Owner() *Player          { return e.owner }

// IsOwnedBy reports ownership by player id. Neutral entities belong to no one.
func (e *Entity) IsOwnedBy(playerID int) bool {
	return e.owner != nil && e.owner.ID == playerID
}

// IsMovable reports whether the entity can take movement orders.
func (e *Entity) IsMovable() bool {
	return e.tpl.Kind == KindVehicle || e.tpl.Kind == KindInfantry
}

// CanAttack is false when no weapon configuration was present.
func (e *Entity) CanAttack() bool {
	return len(e.weapons) > 0 && !e.dying
}

// CanHarvest reports whether the template carries harvesting gear.
func (e *Entity) CanHarvest() bool {
	return e.tpl.Harvester && !e.dying
}

// IsSelectable excludes scenery and anything already dying.
func (e *Entity) IsSelectable() bool {
	if e.dying || e.removed {
		return false
	}
	return e.tpl.Kind != KindTerrain && e.tpl.Kind != KindOverlay
}

// IsAttackable excludes dying entities so no one targets a playing death
// animation.
func (e *Entity) IsAttackable() bool {
	return !e.dying && !e.removed && e.tpl.Kind != KindOverlay
}

// BlocksTerrain reports whether the footprint is stamped into the grid.
// Decorative overlays never block.
func (e *Entity) BlocksTerrain() bool {
	return e.tpl.Kind != KindOverlay
}

// HasTurret reports an independently rotating turret.
func (e *Entity) HasTurret() bool {
	return e.tpl.TurretFacings > 0
}

// Sight returns the innate sight radius in cells.
func (e *Entity) Sight() int {
	return e.tpl.Sight
}

// --- Read-only state for the render collaborator ---

func (e *Entity) Position() (float64, float64) { return e.x, e.y }
func (e *Entity) CellAt() Cell                 { return e.cell }
func (e *Entity) Direction() float64           { return e.direction }
func (e *Entity) Health() int                  { return e.health }
func (e *Entity) MaxHealth() int               { return e.tpl.Health }
func (e *Entity) Selected() bool               { return e.selected }
func (e *Entity) Highlighted() bool            { return e.highlighted }
func (e *Entity) IsDying() bool                { return e.dying }
func (e *Entity) WallVariant() int             { return e.wallVariant }

// TurretDirection returns the turret facing bucket, or -1 without a turret.
func (e *Entity) TurretDirection() float64 {
	if !e.HasTurret() {
		return -1
	}
	return e.turretDir
}

// AnimationState names the presentation state the renderer should show.
func (e *Entity) AnimationState() string {
	switch {
	case e.dying:
		return "die"
	case e.engaged && e.action == ActionAttack:
		return "attack"
	case e.engaged && (e.action == ActionHarvest || e.action == ActionHarvestReturn):
		return "harvest"
	case e.moveTarget != nil || len(e.path) > 0:
		return "move"
	default:
		return "idle"
	}
}

// DamageState buckets health/maxHealth against the template thresholds.
func (e *Entity) DamageState() DamageState {
	ratio := float64(e.health) / float64(e.tpl.Health)
	switch {
	case ratio < e.tpl.CriticalBelow:
		return DamageCritical
	case ratio < e.tpl.DamagedBelow:
		return DamageDamaged
	default:
		return DamageHealthy
	}
}

// FootprintCells enumerates the grid cells the entity currently covers.
func (e *Entity) FootprintCells() []Cell {
	return e.tpl.footprint.Cells(e.cell)
}

// IsDestroyed is the stale-target check: true once the entity is dying or
// gone.
func (e *Entity) IsDestroyed() bool {
	return e.dying || e.removed || e.health <= 0
}

// syncCell recomputes the cell from the truncated continuous position. Runs
// on every position mutation.
func (e *Entity) syncCell() {
	e.cell = cellOf(e.x, e.y)
}

// --- Commands (the only external mutators of intent) ---

// MoveTo orders movement toward a destination cell, discarding any previous
// path or target. An unreachable destination leaves the entity stationary.
func (e *Entity) MoveTo(dest Cell) {
	if !e.IsMovable() || e.dying {
		return
	}
	e.clearIntent()
	if dest == e.cell {
		// Already there; not a pathing failure.
		e.world.logEvent(e, "move", "arrived", e.cell.String())
		return
	}
	e.path = FindPath(e.world.grid, e.cell, dest, PathOptions{})
	if e.path == nil {
		e.world.logEvent(e, "move", "unreachable", dest.String())
		return
	}
	if e.tpl.Kind == KindInfantry {
		e.subCell = e.world.reserveSubCell(e.path[len(e.path)-1])
	}
	e.world.cue(e.tpl.AckCue)
	e.world.logEvent(e, "move", "order", dest.String())
}

// Attack orders engagement of a target entity.
func (e *Entity) Attack(t *Entity) {
	if !e.CanAttack() || t == nil || t == e {
		return
	}
	e.setTarget(t, ActionAttack)
}

// Harvest orders resource harvesting from a target entity.
func (e *Entity) Harvest(t *Entity) {
	if !e.CanHarvest() || t == nil {
		return
	}
	e.setTarget(t, ActionHarvest)
}

// ReturnHarvest orders delivery of a harvester's load to a refinery.
func (e *Entity) ReturnHarvest(refinery *Entity) {
	if !e.CanHarvest() || refinery == nil {
		return
	}
	e.setTarget(refinery, ActionHarvestReturn)
}

func (e *Entity) setTarget(t *Entity, action TargetAction) {
	e.clearIntent()
	e.target = t
	e.action = action
	e.world.cue(e.tpl.AckCue)
	e.world.logEvent(e, "target", action.String(), t.label)
}

// clearIntent discards path, target and in-flight move state. New orders
// replace old ones immediately; all work is synchronous so nothing else needs
// cancelling.
func (e *Entity) clearIntent() {
	e.path = nil
	e.target = nil
	e.action = ActionNone
	e.engaged = false
	e.moveTarget = nil
	e.targetDirection = -1
	e.subCell = -1
}

func (e *Entity) clearTarget() {
	e.target = nil
	e.action = ActionNone
	e.engaged = false
}

// SetSelected marks the entity for the UI. Unselectable entities refuse.
func (e *Entity) SetSelected(sel bool) {
	if sel && !e.IsSelectable() {
		return
	}
	e.selected = sel
}

// SetHighlighted marks hover state for the UI.
func (e *Entity) SetHighlighted(h bool) {
	e.highlighted = h
}

// --- Damage and death ---

// TakeDamage reduces health, clamped at zero, and triggers the death
// sequence exactly once. Damage after death has no further effect.
func (e *Entity) TakeDamage(amount int) {
	if e.dying || e.removed {
		return
	}
	e.health -= amount
	if e.health <= 0 {
		e.health = 0
		e.Die(false)
	}
}

// Die marks the entity dying. Idempotent: a second call is a no-op returning
// false. With immediate set the entity is removed synchronously; otherwise it
// stays in the world — still occupying its footprint, excluded from
// selectable/attackable queries — until FinishDeath signals that the death
// animation completed.
func (e *Entity) Die(immediate bool) bool {
	if e.dying || e.removed {
		return false
	}
	e.dying = true
	e.health = 0
	e.selected = false
	e.world.cue(e.tpl.DieCue)
	e.world.logEvent(e, "death", "dying", e.cell.String())
	if immediate {
		e.world.Remove(e)
	}
	return true
}

// FinishDeath is the animation-completion signal from the external animation
// collaborator. It is a no-op unless the entity is mid death sequence.
func (e *Entity) FinishDeath() {
	if !e.dying || e.removed {
		return
	}
	e.world.Remove(e)
}

// --- Per-tick state machine ---

// Update advances the entity one simulation tick. The checks form a priority
// cascade: dying → engaged target → pending rotation → inter-cell move →
// next path segment → idle.
func (e *Entity) Update() {
	if e.dying {
		return
	}

	if e.tpl.Kind == KindWall {
		e.updateWallVariant()
	}

	for _, w := range e.weapons {
		w.Tick()
	}

	if e.target != nil && e.target.IsDestroyed() {
		e.world.logEvent(e, "target", "stale_cleared", e.target.label)
		e.clearTarget()
	}

	e.engaged = false
	if e.target != nil {
		e.aimAndEngage()
	}

	if e.engaged {
		switch e.action {
		case ActionAttack:
			e.fireAt(e.target)
		case ActionHarvest:
			e.world.harvest(e, e.target)
		case ActionHarvestReturn:
			e.world.deliver(e, e.target)
		}
		return
	}

	if e.targetDirection >= 0 {
		e.direction = stepFacing(e.direction, e.targetDirection, e.tpl.TurnRate, e.tpl.Facings)
		if e.direction == wrapFacing(e.targetDirection, e.tpl.Facings) {
			e.targetDirection = -1
		}
		return
	}

	if e.moveTarget != nil {
		e.stepMove()
		return
	}

	if len(e.path) > 0 {
		e.beginNextSegment()
		return
	}
	// Idle.
}

// aimAndEngage rotates turret/body toward the target and, once in range,
// stops movement and marks the action engaged for this tick. Out of range
// with no route queued, it requests a new path toward the target's cell.
func (e *Entity) aimAndEngage() {
	t := e.target

	if e.HasTurret() {
		tb := bearing(e.cell, t.cell, e.tpl.TurretFacings)
		e.turretDir = stepFacing(e.turretDir, tb, e.tpl.TurnRate, e.tpl.TurretFacings)
		// Evaluate range only once the turret bears within one bucket.
		if math.Abs(facingDelta(e.turretDir, tb, e.tpl.TurretFacings)) > 1 {
			return
		}
	}

	dist := chessboardDistance(e.cell, t.cell)
	if dist <= e.actionRange() {
		e.path = nil
		e.moveTarget = nil
		if !e.HasTurret() {
			// Entities without a free-rotating turret snap the body onto the
			// bearing before acting.
			e.direction = wrapFacing(bearing(e.cell, t.cell, e.tpl.Facings), e.tpl.Facings)
		}
		e.engaged = true
		return
	}

	if len(e.path) == 0 && e.moveTarget == nil && e.IsMovable() {
		opts := PathOptions{Force: true}
		if e.action == ActionAttack {
			opts.AttackerOwner = e.owner
		}
		e.path = FindPath(e.world.grid, e.cell, t.cell, opts)
		if e.path == nil {
			e.world.logEvent(e, "move", "unreachable", t.label)
		}
	}
}

// actionRange is the weapon range for attacks and the innate sight radius for
// everything else.
func (e *Entity) actionRange() int {
	if e.action == ActionAttack && len(e.weapons) > 0 {
		return e.weapons[0].Spec.Range
	}
	return e.tpl.Sight
}

// fireAt runs every weapon slot independently against the target.
func (e *Entity) fireAt(t *Entity) {
	for _, w := range e.weapons {
		if w.Fire(e, t, e.world.projectiles) {
			e.world.cue(w.Spec.Report)
			e.world.logEvent(e, "combat", "fire", t.label)
		}
	}
}

// stepMove advances the in-progress inter-cell move along the current facing
// at speed/divisor pixels per tick, snapping onto the destination when within
// one tick's travel.
func (e *Entity) stepMove() {
	speed := e.tpl.Speed / speedDivisor
	dx := e.moveTarget.x - e.x
	dy := e.moveTarget.y - e.y
	if math.Hypot(dx, dy) > speed {
		vx, vy := facingVector(e.direction, e.tpl.Facings)
		e.x += vx * speed
		e.y += vy * speed
		e.syncCell()
		return
	}
	e.x = e.moveTarget.x
	e.y = e.moveTarget.y
	e.moveTarget = nil
	e.syncCell()
	if len(e.path) == 0 {
		e.world.logEvent(e, "move", "arrived", e.cell.String())
	}
}

// beginNextSegment peeks the next path cell, turns toward it first when the
// unit cannot move while turning, and otherwise pops it into a pixel move
// target (with the reserved sub-cell offset on the final segment).
func (e *Entity) beginNextSegment() {
	next := e.path[0]
	tb := bearing(e.cell, next, e.tpl.Facings)

	if e.turnsBeforeMoving() && math.Abs(facingDelta(e.direction, tb, e.tpl.Facings)) >= 1 {
		e.targetDirection = tb
		return
	}

	e.path = e.path[1:]
	px, py := cellCenter(next)
	if len(e.path) == 0 && e.subCell >= 0 {
		px += subCellOffsets[e.subCell][0]
		py += subCellOffsets[e.subCell][1]
	}
	// Face the pixel destination itself; a sub-cell offset puts it off the
	// line toward the cell centre, and stepMove travels along the facing.
	e.direction = wrapFacing(bearingXY(px-e.x, py-e.y, e.tpl.Facings), e.tpl.Facings)
	e.moveTarget = &point{px, py}
}

// turnsBeforeMoving: vehicles line the hull up before rolling, infantry move
// while turning.
func (e *Entity) turnsBeforeMoving() bool {
	return e.tpl.Kind != KindInfantry
}

// updateWallVariant derives the presentation frame from which cardinal
// neighbours hold another wall piece of the same kind. It never changes
// occupancy or behaviour.
func (e *Entity) updateWallVariant() {
	bits := 0
	for _, nb := range wallNeighbours {
		n := e.world.EntityAtCell(Cell{e.cell.X + nb.dx, e.cell.Y + nb.dy})
		if n != nil && n.tpl.Kind == KindWall && n.tpl.Name == e.tpl.Name {
			bits += nb.bit
		}
	}
	e.wallVariant = bits
}

// chessboardDistance is the floor of the Euclidean distance between two
// cells; ranges and sight radii are measured with it.
func chessboardDistance(a, b Cell) int {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	return int(math.Sqrt(dx*dx + dy*dy))
}
