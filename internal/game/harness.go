package game

import "fmt"

// defaultTemplatesYAML is the unit set the harness runs with unless a
// scenario supplies its own. It exercises every template capability: turret
// and turretless combat, twin weapon slots, harvesting, multi-cell and
// patterned footprints, walls and scenery.
const defaultTemplatesYAML = `
units:
  - name: heavy-tank
    kind: vehicle
    health: 60
    speed: 12
    turnRate: 2
    sight: 5
    turretFacings: 32
    ackCue: tank-ack
    dieCue: tank-die
    weapons:
      - {name: cannon, damage: 12, range: 4, reload: 30, projectile: shell, report: cannon-shot}
  - name: scout
    kind: vehicle
    health: 30
    speed: 24
    turnRate: 4
    sight: 7
    weapons:
      - {name: mg, damage: 4, range: 3, reload: 10, projectile: bullet, report: mg-burst}
      - {name: flare, damage: 0, range: 3, reload: 60, projectile: flare, report: flare-pop}
  - name: rifle
    kind: infantry
    health: 20
    speed: 10
    turnRate: 8
    sight: 4
    ackCue: infantry-ack
    dieCue: infantry-die
    weapons:
      - {name: rifle, damage: 5, range: 3, reload: 20, projectile: bullet, report: rifle-shot}
  - name: harvester
    kind: vehicle
    health: 70
    speed: 10
    turnRate: 2
    sight: 4
    harvester: true
    ackCue: harvester-ack
  - name: refinery
    kind: building
    health: 90
    sight: 3
    footprint: {width: 3, height: 2}
  - name: barracks
    kind: building
    health: 80
    sight: 2
    footprint:
      pattern:
        - "xx"
        - "xx"
        - ".x"
  - name: sandbag
    kind: wall
    health: 15
  - name: rock
    kind: terrain
    health: 1
  - name: ore
    kind: overlay
    health: 1
`

// RecordingProjectiles captures projectile requests for assertions.
type RecordingProjectiles struct {
	Requests []ProjectileRequest
}

func (r *RecordingProjectiles) CreateProjectile(req ProjectileRequest) {
	r.Requests = append(r.Requests, req)
}

// RecordingAudio captures sound cues. Cues listed in Failing return an error,
// which the core must absorb.
type RecordingAudio struct {
	Cues    []string
	Failing map[string]bool
}

func (r *RecordingAudio) PlayCue(name string) error {
	r.Cues = append(r.Cues, name)
	if r.Failing[name] {
		return fmt.Errorf("cue %q not found", name)
	}
	return nil
}

// RecordingEconomy counts harvest and delivery ticks per harvester label.
type RecordingEconomy struct {
	Harvested map[string]int
	Delivered map[string]int
}

func (r *RecordingEconomy) Harvest(harvester, resource *Entity) {
	if r.Harvested == nil {
		r.Harvested = make(map[string]int)
	}
	r.Harvested[harvester.Label()]++
}

func (r *RecordingEconomy) Deliver(harvester, refinery *Entity) {
	if r.Delivered == nil {
		r.Delivered = make(map[string]int)
	}
	r.Delivered[harvester.Label()]++
}

// TestSim is a headless simulation harness used by tests and the headless
// reporter. It has no ebiten dependency; sinks record instead of rendering.
type TestSim struct {
	World       *World
	Log         *SimLog
	Projectiles *RecordingProjectiles
	Cues        *RecordingAudio
	Economy     *RecordingEconomy
	P1          *Player
	P2          *Player

	cols, rows int
	base       []int
	tplYAML    string
	verbose    bool
	failing    map[string]bool
}

// simOptionKind controls the pass in which an option is applied.
type simOptionKind int

const (
	simOptInfra simOptionKind = iota // map size, terrain, templates, verbose
	simOptUnit                       // spawn units — applied after the world exists
)

// SimOption is a builder function applied to a TestSim during construction.
type SimOption struct {
	kind simOptionKind
	fn   func(*TestSim)
}

// WithMapSize sets the grid dimensions in cells.
func WithMapSize(cols, rows int) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.cols, ts.rows = cols, rows
	}}
}

// WithVerbose enables per-tick verbose logging.
func WithVerbose(v bool) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.verbose = v
	}}
}

// WithTemplatesYAML replaces the default unit templates.
func WithTemplatesYAML(src string) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.tplYAML = src
	}}
}

// WithBlockedRect marks a rectangle of base terrain impassable.
func WithBlockedRect(x, y, w, h int) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		for cy := y; cy < y+h; cy++ {
			for cx := x; cx < x+w; cx++ {
				if cx >= 0 && cy >= 0 && cx < ts.cols && cy < ts.rows {
					ts.base[cy*ts.cols+cx] = blockWeight
				}
			}
		}
	}}
}

// WithFailingCue makes the recording audio sink reject a cue name.
func WithFailingCue(name string) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.failing[name] = true
	}}
}

// WithUnit spawns a template at (x, y) for a player slot: 0 = neutral,
// 1 = P1, 2 = P2.
func WithUnit(player int, template string, x, y int) SimOption {
	return SimOption{simOptUnit, func(ts *TestSim) {
		var owner *Player
		switch player {
		case 1:
			owner = ts.P1
		case 2:
			owner = ts.P2
		}
		if _, err := ts.World.Spawn(template, owner, Cell{x, y}, 0); err != nil {
			ts.Log.Add(ts.World.Tick(), "--", "--", "spawn", "error", err.Error(), 0)
		}
	}}
}

// NewTestSim constructs a harness in two ordered passes: infrastructure
// first (map size, terrain, templates), then unit spawns once the world and
// both players exist.
func NewTestSim(opts ...SimOption) *TestSim {
	ts := &TestSim{
		cols:    40,
		rows:    30,
		tplYAML: defaultTemplatesYAML,
		failing: map[string]bool{},
	}
	ts.base = make([]int, ts.cols*ts.rows)
	for _, o := range opts {
		if o.kind == simOptInfra {
			// Resize the base slice when the map size option ran after a
			// terrain option; terrain options mutate ts.base in place.
			o.fn(ts)
			if len(ts.base) != ts.cols*ts.rows {
				ts.base = make([]int, ts.cols*ts.rows)
			}
		}
	}

	templates, err := ParseTemplates([]byte(ts.tplYAML))
	if err != nil {
		panic(fmt.Sprintf("harness templates: %v", err))
	}

	ts.Log = NewSimLog(ts.verbose)
	ts.Projectiles = &RecordingProjectiles{}
	ts.Cues = &RecordingAudio{Failing: ts.failing}
	ts.Economy = &RecordingEconomy{}

	ts.World = NewWorld(ts.cols, ts.rows, ts.base, templates)
	ts.World.SetSimLog(ts.Log)
	ts.World.SetProjectileSink(ts.Projectiles)
	ts.World.SetAudioSink(ts.Cues)
	ts.World.SetEconomySink(ts.Economy)
	ts.P1 = ts.World.AddPlayer("red")
	ts.P2 = ts.World.AddPlayer("blue")

	for _, o := range opts {
		if o.kind == simOptUnit {
			o.fn(ts)
		}
	}
	return ts
}

// Unit returns the Nth spawned entity of a template name, or nil.
func (ts *TestSim) Unit(template string, n int) *Entity {
	for _, e := range ts.World.Entities() {
		if e.Template().Name == template {
			if n == 0 {
				return e
			}
			n--
		}
	}
	return nil
}

// RunTicks advances the simulation n ticks.
func (ts *TestSim) RunTicks(n int) {
	for i := 0; i < n; i++ {
		ts.World.Update()
	}
}

// RunUntil advances up to maxTicks, stopping early when predicate returns
// true. Returns the tick at which it was satisfied, or -1.
func (ts *TestSim) RunUntil(predicate func(*TestSim) bool, maxTicks int) int {
	for i := 0; i < maxTicks; i++ {
		ts.World.Update()
		if predicate(ts) {
			return ts.World.Tick()
		}
	}
	return -1
}
