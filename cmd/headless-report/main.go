package main

import (
	"flag"
	"fmt"
	"sort"

	"github.com/jspall/dustline/internal/game"
)

type runStats struct {
	runIndex int

	firstOrderTick int
	firstFireTick  int
	firstDeathTick int

	shotsByTeam  map[string]int
	deathsByTeam map[string]int
	cueErrors    int
	harvestTicks int
	deliverTicks int

	report string
}

func main() {
	var runs int
	var ticks int
	var scenario string
	var verbose bool

	flag.IntVar(&runs, "runs", 1, "number of headless simulation runs")
	flag.IntVar(&ticks, "ticks", 1200, "ticks per run")
	flag.StringVar(&scenario, "scenario", "skirmish", "scenario name (skirmish, harvest)")
	flag.BoolVar(&verbose, "verbose", false, "record verbose sim log entries")
	flag.Parse()

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		return
	}
	if ticks <= 0 {
		fmt.Println("error: -ticks must be > 0")
		return
	}
	if scenario != "skirmish" && scenario != "harvest" {
		fmt.Printf("error: unsupported scenario %q (supported: skirmish, harvest)\n", scenario)
		return
	}

	fmt.Printf("=== Headless Battle Report ===\n")
	fmt.Printf("scenario=%s runs=%d ticks=%d\n\n", scenario, runs, ticks)

	for i := 0; i < runs; i++ {
		var stats runStats
		switch scenario {
		case "skirmish":
			stats = runSkirmish(i+1, ticks)
		case "harvest":
			stats = runHarvest(i+1, ticks)
		}
		printRun(stats)
	}
}

// runSkirmish pits a red strike group against a blue garrison behind
// sandbags. The spacing of the red line shifts with the run index so
// successive runs explore slightly different approaches.
func runSkirmish(runIndex, ticks int) runStats {
	offset := (runIndex - 1) % 4

	opts := []game.SimOption{
		game.WithMapSize(40, 30),
		game.WithBlockedRect(18, 0, 2, 12),
		game.WithUnit(1, "heavy-tank", 4, 8+offset),
		game.WithUnit(1, "heavy-tank", 4, 12+offset),
		game.WithUnit(1, "rifle", 6, 9+offset),
		game.WithUnit(1, "rifle", 6, 11+offset),
		game.WithUnit(2, "heavy-tank", 34, 14),
		game.WithUnit(2, "rifle", 32, 12),
		game.WithUnit(2, "rifle", 32, 16),
		game.WithUnit(0, "sandbag", 28, 13),
		game.WithUnit(0, "sandbag", 28, 14),
		game.WithUnit(0, "sandbag", 28, 15),
	}
	ts := game.NewTestSim(opts...)

	// Every red unit charges the blue tank; blue holds and returns fire on
	// whatever crosses into range.
	blueTank := ts.Unit("heavy-tank", 2)
	for _, e := range ts.World.OwnedBy(ts.P1) {
		if e.CanAttack() {
			e.Attack(blueTank)
		}
	}
	for _, e := range ts.World.OwnedBy(ts.P2) {
		if e.CanAttack() {
			if t := nearestHostile(ts.World, e); t != nil {
				e.Attack(t)
			}
		}
	}

	runWithProjectiles(ts, ticks)
	return collect(runIndex, ts)
}

// runWithProjectiles advances the simulation while standing in for the
// projectile subsystem: each emitted request lands as direct damage and
// finished units are cleared away after a short corpse delay.
func runWithProjectiles(ts *game.TestSim, ticks int) {
	const corpseTicks = 25
	removal := map[*game.Entity]int{}
	for i := 0; i < ticks; i++ {
		ts.RunTicks(1)
		for _, req := range ts.Projectiles.Requests {
			req.Target.TakeDamage(req.Spec.Damage)
			if req.Target.IsDying() {
				if _, seen := removal[req.Target]; !seen {
					removal[req.Target] = ts.World.Tick() + corpseTicks
				}
			}
		}
		ts.Projectiles.Requests = ts.Projectiles.Requests[:0]
		for e, at := range removal {
			if ts.World.Tick() >= at {
				e.FinishDeath()
				delete(removal, e)
			}
		}
	}
}

// runHarvest sends a harvester to an ore field and back to its refinery.
func runHarvest(runIndex, ticks int) runStats {
	opts := []game.SimOption{
		game.WithMapSize(30, 20),
		game.WithUnit(1, "harvester", 3, 10),
		game.WithUnit(1, "refinery", 3, 14),
		game.WithUnit(0, "ore", 20, 10),
		game.WithUnit(0, "ore", 21, 10),
		game.WithUnit(0, "ore", 20, 11),
	}
	ts := game.NewTestSim(opts...)

	harv := ts.Unit("harvester", 0)
	ore := ts.Unit("ore", 0)
	refinery := ts.Unit("refinery", 0)

	harv.Harvest(ore)
	half := ticks / 2
	ts.RunTicks(half)
	harv.ReturnHarvest(refinery)
	ts.RunTicks(ticks - half)

	return collect(runIndex, ts)
}

func nearestHostile(w *game.World, e *game.Entity) *game.Entity {
	var best *game.Entity
	bestDist := 1 << 30
	ec := e.CellAt()
	for _, other := range w.Entities() {
		if other.Owner() == e.Owner() || !other.IsAttackable() {
			continue
		}
		oc := other.CellAt()
		dx, dy := oc.X-ec.X, oc.Y-ec.Y
		d := dx*dx + dy*dy
		if d < bestDist {
			bestDist = d
			best = other
		}
	}
	return best
}

func collect(runIndex int, ts *game.TestSim) runStats {
	stats := runStats{
		runIndex:       runIndex,
		firstOrderTick: -1,
		firstFireTick:  -1,
		firstDeathTick: -1,
		shotsByTeam:    make(map[string]int),
		deathsByTeam:   make(map[string]int),
		report:         ts.World.BattleReport(),
	}
	for _, entry := range ts.Log.Entries() {
		switch {
		case entry.Category == "target" || (entry.Category == "move" && entry.Key == "order"):
			if stats.firstOrderTick < 0 {
				stats.firstOrderTick = entry.Tick
			}
		case entry.Category == "combat" && entry.Key == "fire":
			if stats.firstFireTick < 0 {
				stats.firstFireTick = entry.Tick
			}
			stats.shotsByTeam[entry.Team]++
		case entry.Category == "death" && entry.Key == "dying":
			if stats.firstDeathTick < 0 {
				stats.firstDeathTick = entry.Tick
			}
			stats.deathsByTeam[entry.Team]++
		case entry.Category == "audio" && entry.Key == "cue_error":
			stats.cueErrors++
		}
	}
	if ts.Economy != nil {
		for _, n := range ts.Economy.Harvested {
			stats.harvestTicks += n
		}
		for _, n := range ts.Economy.Delivered {
			stats.deliverTicks += n
		}
	}
	return stats
}

func printRun(stats runStats) {
	fmt.Printf("--- run %d ---\n", stats.runIndex)
	fmt.Printf("first_order=%s first_fire=%s first_death=%s\n",
		tickStr(stats.firstOrderTick), tickStr(stats.firstFireTick), tickStr(stats.firstDeathTick))

	teams := make([]string, 0, len(stats.shotsByTeam))
	for team := range stats.shotsByTeam {
		teams = append(teams, team)
	}
	for team := range stats.deathsByTeam {
		if _, seen := stats.shotsByTeam[team]; !seen {
			teams = append(teams, team)
		}
	}
	sort.Strings(teams)
	for _, team := range teams {
		fmt.Printf("team %-8s shots=%-4d losses=%d\n",
			team, stats.shotsByTeam[team], stats.deathsByTeam[team])
	}
	if stats.harvestTicks > 0 || stats.deliverTicks > 0 {
		fmt.Printf("harvest_ticks=%d deliver_ticks=%d\n", stats.harvestTicks, stats.deliverTicks)
	}
	if stats.cueErrors > 0 {
		fmt.Printf("cue_errors=%d\n", stats.cueErrors)
	}
	fmt.Println()
	fmt.Println(stats.report)
	fmt.Println()
}

func tickStr(t int) string {
	if t < 0 {
		return "never"
	}
	return fmt.Sprintf("T%d", t)
}
