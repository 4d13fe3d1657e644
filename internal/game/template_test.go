package game

import (
	"strings"
	"testing"
)

func TestParseTemplates_Defaults(t *testing.T) {
	ts, err := ParseTemplates([]byte(`
units:
  - name: crate
    kind: terrain
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	tpl, ok := ts.Get("crate")
	if !ok {
		t.Fatal("template missing")
	}
	if tpl.Health != 1 {
		t.Fatalf("default health = %d, want 1", tpl.Health)
	}
	if tpl.Facings != DefaultFacings {
		t.Fatalf("default facings = %d, want %d", tpl.Facings, DefaultFacings)
	}
	if tpl.TurnRate != 1 {
		t.Fatalf("default turn rate = %f, want 1", tpl.TurnRate)
	}
	if tpl.DamagedBelow != 0.7 || tpl.CriticalBelow != 0.35 {
		t.Fatalf("default damage tiers = %f/%f", tpl.DamagedBelow, tpl.CriticalBelow)
	}
	if cells := tpl.footprint.Cells(Cell{4, 4}); len(cells) != 1 || cells[0] != (Cell{4, 4}) {
		t.Fatalf("default footprint cells = %v, want just the anchor", cells)
	}
}

func TestParseTemplates_UnknownKindDegrades(t *testing.T) {
	ts, err := ParseTemplates([]byte(`
units:
  - name: gunboat
    kind: boat
    health: 40
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	tpl, _ := ts.Get("gunboat")
	if tpl.Kind != KindVehicle {
		t.Fatalf("unknown kind became %q, want vehicle", tpl.Kind)
	}
	if len(ts.Warnings()) == 0 {
		t.Fatal("no warning for unknown kind")
	}
}

func TestParseTemplates_DisablesMalformedWeapon(t *testing.T) {
	ts, err := ParseTemplates([]byte(`
units:
  - name: broken-turret
    kind: building
    health: 50
    weapons:
      - {name: gun, damage: 10}
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	tpl, _ := ts.Get("broken-turret")
	if len(tpl.Weapons) != 0 {
		t.Fatalf("malformed weapon kept: %+v", tpl.Weapons)
	}
	found := false
	for _, w := range ts.Warnings() {
		if strings.Contains(w, "weapon") {
			found = true
		}
	}
	if !found {
		t.Fatalf("no weapon warning in %v", ts.Warnings())
	}
}

func TestParseTemplates_TrimsToTwoWeapons(t *testing.T) {
	ts, err := ParseTemplates([]byte(`
units:
  - name: gunship
    kind: vehicle
    health: 40
    weapons:
      - {name: a, damage: 1, range: 2, reload: 5}
      - {name: b, damage: 1, range: 2, reload: 5}
      - {name: c, damage: 1, range: 2, reload: 5}
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	tpl, _ := ts.Get("gunship")
	if len(tpl.Weapons) != 2 {
		t.Fatalf("weapon slots = %d, want 2", len(tpl.Weapons))
	}
	if tpl.Weapons[0].Name != "a" || tpl.Weapons[1].Name != "b" {
		t.Fatalf("wrong slots kept: %+v", tpl.Weapons)
	}
}

func TestParseTemplates_PatternFootprint(t *testing.T) {
	ts, err := ParseTemplates([]byte(`
units:
  - name: bay
    kind: building
    health: 50
    footprint:
      pattern:
        - "xx"
        - ".x"
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	tpl, _ := ts.Get("bay")
	cells := tpl.footprint.Cells(Cell{10, 10})
	want := []Cell{{10, 10}, {11, 10}, {11, 11}}
	if len(cells) != len(want) {
		t.Fatalf("pattern cells = %v, want %v", cells, want)
	}
	for i := range want {
		if cells[i] != want[i] {
			t.Fatalf("pattern cells = %v, want %v", cells, want)
		}
	}
}

func TestParseTemplates_RaggedPatternFallsBack(t *testing.T) {
	ts, err := ParseTemplates([]byte(`
units:
  - name: lopsided
    kind: building
    health: 50
    footprint:
      pattern:
        - "xxx"
        - "x"
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	tpl, _ := ts.Get("lopsided")
	// Degrades to the enclosing 3x2 rectangle.
	if cells := tpl.footprint.Cells(Cell{0, 0}); len(cells) != 6 {
		t.Fatalf("fallback footprint covers %d cells, want 6", len(cells))
	}
	found := false
	for _, w := range ts.Warnings() {
		if strings.Contains(w, "ragged") {
			found = true
		}
	}
	if !found {
		t.Fatalf("no ragged-pattern warning in %v", ts.Warnings())
	}
}

func TestParseTemplates_SkipsUnnamed(t *testing.T) {
	ts, err := ParseTemplates([]byte(`
units:
  - kind: vehicle
    health: 10
  - name: ok
    kind: vehicle
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, found := ts.Get(""); found {
		t.Fatal("unnamed template registered")
	}
	if _, found := ts.Get("ok"); !found {
		t.Fatal("valid template lost")
	}
	if len(ts.Warnings()) == 0 {
		t.Fatal("no warning for unnamed template")
	}
}

func TestParseTemplates_InvalidYAML(t *testing.T) {
	if _, err := ParseTemplates([]byte("units: [")); err == nil {
		t.Fatal("invalid yaml should error")
	}
}
