package main

import (
	"strings"
	"testing"

	"github.com/jspall/dustline/internal/game"
)

func TestCollect_CountsCombatEvents(t *testing.T) {
	ts := game.NewTestSim(
		game.WithUnit(1, "rifle", 5, 5),
		game.WithUnit(2, "rifle", 7, 5),
	)
	red := ts.Unit("rifle", 0)
	blue := ts.Unit("rifle", 1)
	red.Attack(blue)
	ts.RunTicks(3)

	stats := collect(1, ts)
	if stats.firstFireTick != 1 {
		t.Fatalf("first fire tick = %d, want 1", stats.firstFireTick)
	}
	if stats.shotsByTeam["red"] == 0 {
		t.Fatalf("no red shots counted: %+v", stats.shotsByTeam)
	}
	if stats.firstDeathTick != -1 {
		t.Fatalf("death recorded in a bloodless run: %d", stats.firstDeathTick)
	}
	if !strings.Contains(stats.report, "red: 1 alive") {
		t.Fatalf("battle report missing force count:\n%s", stats.report)
	}
}

func TestRunHarvest_AccumulatesEconomyTicks(t *testing.T) {
	stats := runHarvest(1, 200)
	if stats.harvestTicks == 0 {
		t.Fatal("harvest scenario recorded no harvest ticks")
	}
	if stats.deliverTicks == 0 {
		t.Fatal("harvest scenario recorded no delivery ticks")
	}
}

func TestRunSkirmish_ProducesContact(t *testing.T) {
	stats := runSkirmish(1, 400)
	if stats.firstOrderTick != 0 {
		t.Fatalf("orders issued at tick %d, want before the first update", stats.firstOrderTick)
	}
	if stats.firstFireTick < 0 {
		t.Fatal("skirmish ran 400 ticks without a single shot")
	}
}
