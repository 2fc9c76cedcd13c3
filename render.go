package main

import (
	"fmt"
	"math/rand"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"
)

// pixelsPerMeter is the side-view world scale.
const pixelsPerMeter = 40.0

// draw renders the scene side-on: world x runs right, world y runs up.
// Depth (z) is flattened out of the projection.
func (g *Game) draw(screen *ebiten.Image) {
	screen.Fill(colornames.Darkslategray)

	p := g.bundle.player
	pos := p.Body().Position()

	camX := pos.X()*pixelsPerMeter - baseWidth/2
	camY := -pos.Y()*pixelsPerMeter - baseHeight/2 - 100
	if g.shakeTime > 0 {
		camX += (rand.Float64()*2 - 1) * g.shakeStrength * pixelsPerMeter * 0.2
		camY += (rand.Float64()*2 - 1) * g.shakeStrength * pixelsPerMeter * 0.2
	}

	sx := func(x float64) float32 { return float32(x*pixelsPerMeter - camX) }
	sy := func(y float64) float32 { return float32(-y*pixelsPerMeter - camY) }

	for _, b := range g.bundle.world.Boxes() {
		x := sx(b.Min.X())
		y := sy(b.Max.Y())
		w := float32((b.Max.X() - b.Min.X()) * pixelsPerMeter)
		h := float32((b.Max.Y() - b.Min.Y()) * pixelsPerMeter)
		vector.DrawFilledRect(screen, x, y, w, h, colornames.Dimgray, false)
	}

	panelSet := make(map[int]bool)
	for _, pr := range g.bundle.panels {
		for i, r := range g.bundle.rails {
			if r == pr {
				panelSet[i] = true
			}
		}
	}
	for i, r := range g.bundle.rails {
		clr := colornames.Lightsteelblue
		if panelSet[i] {
			clr = colornames.Orange
		}
		pts := r.Points()
		for j := 0; j+1 < len(pts); j++ {
			vector.StrokeLine(screen, sx(pts[j].X()), sy(pts[j].Y()), sx(pts[j+1].X()), sy(pts[j+1].Y()), 3, clr, true)
		}
	}

	for _, t := range g.bundle.targets.All() {
		if !t.Active() {
			continue
		}
		clr := colornames.Indianred
		if t.InParryWindow() {
			clr = colornames.Gold
		}
		tp := t.Position()
		vector.DrawFilledCircle(screen, sx(tp.X()), sy(tp.Y()), 0.4*pixelsPerMeter, clr, true)
	}

	// player: a capsule-ish rect, flashing while an attack owns movement
	playerClr := colornames.Lightgreen
	if p.ActionStateName() != "action_none" {
		playerClr = colornames.White
	}
	vector.DrawFilledRect(screen, sx(pos.X())-8, sy(pos.Y())-36, 16, 36, playerClr, true)

	if g.debug {
		ebitenutil.DebugPrint(screen, fmt.Sprintf(
			"FPS %.1f  loco=%s action=%s clip=%s\npos=(%.1f %.1f %.1f) pressure=%.0f dash=%d scale=%.2f sfx=%s",
			ebiten.ActualFPS(), p.LocomotionStateName(), p.ActionStateName(), p.Animator().Clip(),
			pos.X(), pos.Y(), pos.Z(), p.Pressure(), p.DashCharges(), g.timeScale, g.lastSFX))
	}
}
