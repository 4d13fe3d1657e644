package game

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"
)

// hudFace is the fixed debug HUD typeface.
var hudFace = text.NewGoXFace(basicfont.Face7x13)

// View is the interactive ebiten front-end: it drives the world at the
// display tick rate and draws a read-only debug view of the simulation.
// It never mutates entity state except through the command surface
// (MoveTo / Attack / SetSelected).
type View struct {
	world  *World
	viewer *Player // whose fog is drawn

	selected       []*Entity
	prevMouseLeft  bool
	prevMouseRight bool
	prevKeyC       bool
	prevKeyF       bool
	showFog        bool
	status         string
}

// NewView wraps a world for interactive display, drawing the given player's
// fog.
func NewView(w *World, viewer *Player) *View {
	return &View{world: w, viewer: viewer, showFog: true}
}

// Update advances one simulation tick and handles selection/order input.
func (v *View) Update() error {
	v.world.Update()
	v.handleInput()
	return nil
}

func (v *View) handleInput() {
	mx, my := ebiten.CursorPosition()

	left := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	if left && !v.prevMouseLeft {
		v.pickAt(float64(mx), float64(my))
	}
	v.prevMouseLeft = left

	right := ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight)
	if right && !v.prevMouseRight {
		v.order(float64(mx), float64(my))
	}
	v.prevMouseRight = right

	keyC := ebiten.IsKeyPressed(ebiten.KeyC)
	if keyC && !v.prevKeyC {
		if err := v.world.CopyReport(); err != nil {
			v.status = fmt.Sprintf("clipboard: %v", err)
		} else {
			v.status = "battle report copied"
		}
	}
	v.prevKeyC = keyC

	keyF := ebiten.IsKeyPressed(ebiten.KeyF)
	if keyF && !v.prevKeyF {
		v.showFog = !v.showFog
	}
	v.prevKeyF = keyF
}

func (v *View) pickAt(px, py float64) {
	for _, e := range v.selected {
		e.SetSelected(false)
	}
	v.selected = v.selected[:0]
	if e := v.world.SelectableAt(px, py); e != nil {
		e.SetSelected(true)
		v.selected = append(v.selected, e)
		v.status = fmt.Sprintf("selected %s (%s)", e.Label(), e.AnimationState())
	}
}

// order issues an attack when the clicked cell holds a hostile target,
// otherwise a move.
func (v *View) order(px, py float64) {
	dest := cellOf(px, py)
	target := v.world.AttackableAt(dest, v.viewer)
	for _, e := range v.selected {
		if target != nil && e.CanAttack() {
			e.Attack(target)
		} else if e.CanHarvest() && target == nil {
			if res := v.world.EntityAtCell(dest); res != nil && res.Kind() == KindOverlay {
				e.Harvest(res)
				continue
			}
			e.MoveTo(dest)
		} else {
			e.MoveTo(dest)
		}
	}
}

// Draw renders terrain, fog, entities and HUD. Read-only over the sim.
func (v *View) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 26, G: 34, B: 24, A: 255})
	v.drawTerrain(screen)
	for _, e := range v.world.Entities() {
		v.drawEntity(screen, e)
	}
	if v.showFog {
		v.drawFog(screen)
	}
	v.drawHUD(screen)
}

func (v *View) drawTerrain(screen *ebiten.Image) {
	g := v.world.Grid()
	for y := 0; y < g.Rows; y++ {
		for x := 0; x < g.Cols; x++ {
			if g.BaseWeight(x, y) != 0 {
				vector.FillRect(screen,
					float32(x*cellSize), float32(y*cellSize),
					cellSize, cellSize,
					color.RGBA{R: 52, G: 50, B: 46, A: 255}, false)
			}
		}
	}
}

func (v *View) drawFog(screen *ebiten.Image) {
	f := v.world.Fog(v.viewer)
	if f == nil {
		return
	}
	for y := 0; y < f.Rows; y++ {
		for x := 0; x < f.Cols; x++ {
			var a uint8
			switch f.At(x, y) {
			case FogShroud:
				a = 230
			case FogExplored:
				a = 110
			default:
				continue
			}
			vector.FillRect(screen,
				float32(x*cellSize), float32(y*cellSize),
				cellSize, cellSize,
				color.RGBA{A: a}, false)
		}
	}
}

func teamColour(p *Player) color.RGBA {
	switch {
	case p == nil:
		return color.RGBA{R: 150, G: 150, B: 140, A: 255}
	case p.ID == 1:
		return color.RGBA{R: 210, G: 60, B: 40, A: 255}
	default:
		return color.RGBA{R: 50, G: 90, B: 210, A: 255}
	}
}

func (v *View) drawEntity(screen *ebiten.Image, e *Entity) {
	c := teamColour(e.Owner())
	switch e.DamageState() {
	case DamageDamaged:
		c.G = c.G / 2
	case DamageCritical:
		c.R, c.G, c.B = c.R/2, c.G/3, c.B/3
	}
	if e.IsDying() {
		c = color.RGBA{R: 90, G: 90, B: 90, A: 200}
	}

	switch e.Kind() {
	case KindBuilding, KindWall, KindTerrain:
		for _, fc := range e.FootprintCells() {
			vector.FillRect(screen,
				float32(fc.X*cellSize)+2, float32(fc.Y*cellSize)+2,
				cellSize-4, cellSize-4, c, false)
		}
		if e.Kind() == KindWall {
			px, py := e.Position()
			ebitenutil.DebugPrintAt(screen,
				fmt.Sprintf("%d", e.WallVariant()), int(px)-3, int(py)-8)
		}
	case KindOverlay:
		px, py := e.Position()
		vector.FillCircle(screen, float32(px), float32(py), 4,
			color.RGBA{R: 200, G: 170, B: 40, A: 255}, false)
	default:
		px, py := e.Position()
		vector.FillCircle(screen, float32(px), float32(py), 7, c, true)

		// Body facing tick.
		bx, by := facingVector(e.Direction(), e.Template().Facings)
		vector.StrokeLine(screen,
			float32(px), float32(py),
			float32(px+bx*10), float32(py+by*10), 1.5,
			color.RGBA{R: 255, G: 255, B: 255, A: 180}, false)

		// Turret tick, longer and brighter.
		if td := e.TurretDirection(); td >= 0 {
			tx, ty := facingVector(td, e.Template().TurretFacings)
			vector.StrokeLine(screen,
				float32(px), float32(py),
				float32(px+tx*14), float32(py+ty*14), 2,
				color.RGBA{R: 255, G: 240, B: 160, A: 220}, false)
		}
	}

	if e.Selected() {
		px, py := e.Position()
		vector.StrokeCircle(screen, float32(px), float32(py), 11, 1,
			color.RGBA{R: 255, G: 255, B: 255, A: 220}, true)
	}
}

func (v *View) drawHUD(screen *ebiten.Image) {
	line := fmt.Sprintf("T=%d  entities=%d  [LMB] select  [RMB] move/attack  [F] fog  [C] report",
		v.world.Tick(), len(v.world.Entities()))
	baseY := float64(v.world.Grid().Rows*cellSize) + 6
	op := &text.DrawOptions{}
	op.GeoM.Translate(8, baseY)
	text.Draw(screen, line, hudFace, op)
	if v.status != "" {
		op.GeoM.Reset()
		op.GeoM.Translate(8, baseY+16)
		text.Draw(screen, v.status, hudFace, op)
	}
}

// Layout sizes the window to the map plus a HUD strip.
func (v *View) Layout(outsideWidth, outsideHeight int) (int, int) {
	g := v.world.Grid()
	return g.Cols * cellSize, g.Rows*cellSize + 40
}
