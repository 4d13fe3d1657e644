package game

import (
	"fmt"
	"sort"
	"strings"

	"github.com/atotto/clipboard"
)

// BattleReport summarises the current world state: per-player force counts
// followed by one line per entity. Used by the debug HUD and the headless
// reporter.
func (w *World) BattleReport() string {
	var b strings.Builder
	fmt.Fprintf(&b, "--- Dustline battle report ---\n")
	fmt.Fprintf(&b, "tick=%d entities=%d\n\n", w.tick, len(w.entities))

	counts := map[string]int{}
	for _, e := range w.entities {
		counts[teamName(e.owner)]++
	}
	teams := make([]string, 0, len(counts))
	for t := range counts {
		teams = append(teams, t)
	}
	sort.Strings(teams)
	for _, t := range teams {
		fmt.Fprintf(&b, "%s: %d alive\n", t, counts[t])
	}
	b.WriteByte('\n')

	for _, e := range w.entities {
		state := e.AnimationState()
		if e.dying {
			state = "dying"
		}
		fmt.Fprintf(&b, "%-16s %-6s %-8s cell=%-9s hp=%d/%d dir=%.1f %s\n",
			e.label, teamName(e.owner), state, e.cell.String(),
			e.health, e.tpl.Health, e.direction, e.DamageState())
	}
	return b.String()
}

// CopyReport places the battle report on the system clipboard so a run can
// be pasted into a bug report.
func (w *World) CopyReport() error {
	return clipboard.WriteAll(w.BattleReport())
}

func teamName(p *Player) string {
	if p == nil {
		return "neutral"
	}
	return p.Name
}
