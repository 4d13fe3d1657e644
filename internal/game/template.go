package game

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// UnitKind classifies a template into the closed set of entity variants.
// Capability queries (IsMovable, IsSelectable, …) dispatch on it.
type UnitKind string

const (
	KindVehicle  UnitKind = "vehicle"
	KindInfantry UnitKind = "infantry"
	KindBuilding UnitKind = "building"
	KindWall     UnitKind = "wall"
	KindTerrain  UnitKind = "terrain"
	KindOverlay  UnitKind = "overlay"
)

func validKind(k UnitKind) bool {
	switch k {
	case KindVehicle, KindInfantry, KindBuilding, KindWall, KindTerrain, KindOverlay:
		return true
	}
	return false
}

// FootprintConfig is the yaml shape of a footprint. Pattern rows use 'x' for
// occupied and '.' for skipped cells; a pattern overrides width/height.
type FootprintConfig struct {
	Width   int      `yaml:"width"`
	Height  int      `yaml:"height"`
	Pattern []string `yaml:"pattern"`
}

// UnitTemplate is the externally supplied configuration for one unit or
// structure type. Balance numbers live here, not in code.
type UnitTemplate struct {
	Name          string           `yaml:"name"`
	Kind          UnitKind         `yaml:"kind"`
	Health        int              `yaml:"health"`
	Speed         float64          `yaml:"speed"`    // pixels per tick before the speed divisor
	TurnRate      float64          `yaml:"turnRate"` // facing buckets per tick
	Sight         int              `yaml:"sight"`    // cells
	Facings       int              `yaml:"facings"`
	TurretFacings int              `yaml:"turretFacings"` // 0 = no turret
	Harvester     bool             `yaml:"harvester"`
	Weapons       []WeaponSpec     `yaml:"weapons"`
	Footprint     *FootprintConfig `yaml:"footprint"`

	// Presentation-only damage tiers: health ratio below damagedBelow shows
	// damaged, below criticalBelow shows critical.
	DamagedBelow  float64 `yaml:"damagedBelow"`
	CriticalBelow float64 `yaml:"criticalBelow"`

	// Sound cues, fire-and-forget.
	AckCue string `yaml:"ackCue"` // acknowledge-move
	DieCue string `yaml:"dieCue"`

	footprint Footprint
}

type templateFile struct {
	Units []*UnitTemplate `yaml:"units"`
}

// TemplateSet holds the parsed unit templates plus any non-fatal warnings
// raised while normalising them. A malformed capability disables that
// capability; it never fails the load.
type TemplateSet struct {
	byName   map[string]*UnitTemplate
	warnings []string
}

// LoadTemplates reads and parses a yaml template file.
func LoadTemplates(path string) (*TemplateSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read templates: %w", err)
	}
	return ParseTemplates(data)
}

// ParseTemplates parses yaml template data and normalises each entry.
func ParseTemplates(data []byte) (*TemplateSet, error) {
	var file templateFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	ts := &TemplateSet{byName: make(map[string]*UnitTemplate, len(file.Units))}
	for _, tpl := range file.Units {
		if tpl == nil || tpl.Name == "" {
			ts.warnf("skipping unnamed template")
			continue
		}
		ts.normalise(tpl)
		ts.byName[tpl.Name] = tpl
	}
	return ts, nil
}

// normalise fills defaults and disables malformed capabilities.
func (ts *TemplateSet) normalise(tpl *UnitTemplate) {
	if !validKind(tpl.Kind) {
		ts.warnf("template %q: unknown kind %q, treating as vehicle", tpl.Name, tpl.Kind)
		tpl.Kind = KindVehicle
	}
	if tpl.Health <= 0 {
		tpl.Health = 1
	}
	if tpl.Facings <= 0 {
		tpl.Facings = DefaultFacings
	}
	if tpl.TurnRate <= 0 {
		tpl.TurnRate = 1
	}
	if tpl.Sight < 0 {
		tpl.Sight = 0
	}
	if tpl.DamagedBelow <= 0 {
		tpl.DamagedBelow = 0.7
	}
	if tpl.CriticalBelow <= 0 {
		tpl.CriticalBelow = 0.35
	}
	if len(tpl.Weapons) > 2 {
		ts.warnf("template %q: %d weapons configured, keeping the first two", tpl.Name, len(tpl.Weapons))
		tpl.Weapons = tpl.Weapons[:2]
	}
	for i := range tpl.Weapons {
		w := &tpl.Weapons[i]
		if w.Range <= 0 || w.Reload <= 0 {
			ts.warnf("template %q: weapon %q missing range/reload, weapon disabled", tpl.Name, w.Name)
			tpl.Weapons = append(tpl.Weapons[:i], tpl.Weapons[i+1:]...)
			ts.normalise(tpl)
			return
		}
	}
	tpl.footprint = ts.buildFootprint(tpl)
}

// buildFootprint converts a FootprintConfig to the runtime Footprint. A bad
// pattern degrades to the plain rectangle; a missing config occupies only
// the anchor cell.
func (ts *TemplateSet) buildFootprint(tpl *UnitTemplate) Footprint {
	fc := tpl.Footprint
	if fc == nil {
		return Footprint{Name: tpl.Name, Width: 1, Height: 1}
	}
	fp := Footprint{Name: tpl.Name, Width: fc.Width, Height: fc.Height}
	if fp.Width <= 0 {
		fp.Width = 1
	}
	if fp.Height <= 0 {
		fp.Height = 1
	}
	if len(fc.Pattern) == 0 {
		return fp
	}
	fp.Height = len(fc.Pattern)
	fp.Width = len(fc.Pattern[0])
	mask := make([]bool, fp.Width*fp.Height)
	for ry, row := range fc.Pattern {
		if len(row) != fp.Width {
			ts.warnf("template %q: ragged footprint pattern, using %dx%d rectangle",
				tpl.Name, fp.Width, fp.Height)
			fp.Mask = nil
			return fp
		}
		for rx := 0; rx < fp.Width; rx++ {
			mask[ry*fp.Width+rx] = row[rx] == 'x' || row[rx] == 'X'
		}
	}
	fp.Mask = mask
	return fp
}

func (ts *TemplateSet) warnf(format string, args ...interface{}) {
	ts.warnings = append(ts.warnings, fmt.Sprintf(format, args...))
}

// Get returns the template with the given name.
func (ts *TemplateSet) Get(name string) (*UnitTemplate, bool) {
	tpl, ok := ts.byName[name]
	return tpl, ok
}

// Warnings returns the non-fatal problems found while parsing.
func (ts *TemplateSet) Warnings() []string {
	return ts.warnings
}
