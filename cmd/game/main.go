package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/jspall/dustline/internal/game"
)

func main() {
	var units string
	flag.StringVar(&units, "units", "data/units.yaml", "unit template file")
	flag.Parse()

	w, red, err := buildSkirmish(units)
	if err != nil {
		log.Fatal(err)
	}

	view := game.NewView(w, red)
	ebiten.SetWindowTitle("Dustline")
	ebiten.SetWindowSize(w.Cols*24, w.Rows*24+40)
	if err := ebiten.RunGame(view); err != nil {
		log.Fatal(err)
	}
}

// buildSkirmish sets up a small two-player demo map: a rock ridge down the
// middle, a red strike group on the left and a blue garrison on the right.
func buildSkirmish(unitsPath string) (*game.World, *game.Player, error) {
	tpls, err := game.LoadTemplates(unitsPath)
	if err != nil {
		return nil, nil, err
	}
	for _, warn := range tpls.Warnings() {
		log.Printf("units: %s", warn)
	}

	const cols, rows = 48, 32
	w := game.NewWorld(cols, rows, nil, tpls)
	red := w.AddPlayer("red")
	blue := w.AddPlayer("blue")

	spawn := func(tpl string, p *game.Player, x, y int) {
		if _, err := w.Spawn(tpl, p, game.Cell{X: x, Y: y}, 0); err != nil {
			log.Printf("spawn %s: %v", tpl, err)
		}
	}

	// Central ridge with a gap.
	for y := 6; y < rows-6; y++ {
		if y >= 14 && y <= 17 {
			continue
		}
		spawn("rock", nil, cols/2, y)
	}

	spawn("heavy-tank", red, 6, 10)
	spawn("heavy-tank", red, 6, 14)
	spawn("scout", red, 4, 12)
	for i := 0; i < 4; i++ {
		spawn("rifle", red, 8, 9+i*2)
	}
	spawn("harvester", red, 5, 20)
	spawn("refinery", red, 2, 24)

	spawn("heavy-tank", blue, cols-7, 12)
	spawn("scout", blue, cols-5, 16)
	for i := 0; i < 3; i++ {
		spawn("rifle", blue, cols-9, 11+i*2)
	}
	spawn("barracks", blue, cols-6, 22)
	for x := cols - 12; x < cols-8; x++ {
		spawn("sandbag", blue, x, 10)
	}

	// Ore field near the red refinery.
	for x := 10; x < 14; x++ {
		for y := 22; y < 26; y++ {
			spawn("ore", nil, x, y)
		}
	}

	return w, red, nil
}
