package main

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/milk9111/railrunner/input"
)

// readRaw polls the keyboard into one controller sample. WASD moves on
// the ground plane; edge detection happens inside the sim's controller,
// not here.
func readRaw() input.Raw {
	var raw input.Raw

	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyLeft) {
		raw.MoveX -= 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyRight) {
		raw.MoveX += 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyUp) {
		raw.MoveZ += 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyDown) {
		raw.MoveZ -= 1
	}

	raw.Jump = ebiten.IsKeyPressed(ebiten.KeySpace)
	raw.Attack = ebiten.IsKeyPressed(ebiten.KeyJ)
	raw.Sprint = ebiten.IsKeyPressed(ebiten.KeyShiftLeft)
	raw.Dash = ebiten.IsKeyPressed(ebiten.KeyK)
	raw.Crouch = ebiten.IsKeyPressed(ebiten.KeyControlLeft)

	return raw
}
