package game

// WeaponSpec is the externally configured behaviour of one weapon slot.
type WeaponSpec struct {
	Name       string `yaml:"name"`
	Damage     int    `yaml:"damage"`
	Range      int    `yaml:"range"`      // cells, chessboard distance
	Reload     int    `yaml:"reload"`     // ticks between shots
	Projectile string `yaml:"projectile"` // visual identifier for the projectile subsystem
	Report     string `yaml:"report"`     // sound cue emitted on firing
}

// ProjectileRequest is the creation request handed to the external projectile
// subsystem, which owns the projectile's lifecycle thereafter.
type ProjectileRequest struct {
	Source *Entity
	Target *Entity
	Spec   WeaponSpec
}

// ProjectileSink is the projectile subsystem boundary.
type ProjectileSink interface {
	CreateProjectile(ProjectileRequest)
}

// Weapon is one live weapon slot: a spec plus its cooldown, measured in
// ticks. An entity owns up to two, fired independently.
type Weapon struct {
	Spec     WeaponSpec
	cooldown int
}

// NewWeapon creates a weapon ready to fire.
func NewWeapon(spec WeaponSpec) *Weapon {
	return &Weapon{Spec: spec}
}

// Tick advances the cooldown by one tick.
func (w *Weapon) Tick() {
	if w.cooldown > 0 {
		w.cooldown--
	}
}

// Ready returns true when the cooldown has elapsed.
func (w *Weapon) Ready() bool {
	return w.cooldown == 0
}

// Fire emits a projectile request if the cooldown has elapsed, then resets
// the cooldown. Returns true when a shot was actually taken.
func (w *Weapon) Fire(source, target *Entity, sink ProjectileSink) bool {
	if w.cooldown > 0 {
		return false
	}
	w.cooldown = w.Spec.Reload
	if sink != nil {
		sink.CreateProjectile(ProjectileRequest{Source: source, Target: target, Spec: w.Spec})
	}
	return true
}
