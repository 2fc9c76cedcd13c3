// Package physics is the kinematic collaborator the controller states
// query: grounded checks, velocity get/set, ground-plane forces. It is
// static-geometry sampling, not a rigid body solver.
package physics

import "github.com/go-gl/mathgl/mgl64"

// Box is an axis-aligned block. Only top faces matter for ground
// support; walls are not resolved.
type Box struct {
	Min, Max mgl64.Vec3
}

// World is the static collision geometry.
type World struct {
	boxes []Box
}

func NewWorld(boxes ...Box) *World {
	return &World{boxes: append([]Box(nil), boxes...)}
}

// AddBox appends a block to the world.
func (w *World) AddBox(b Box) {
	w.boxes = append(w.boxes, b)
}

// Boxes returns the world geometry for rendering.
func (w *World) Boxes() []Box {
	return w.boxes
}

// groundSkin is how far above a surface a body still counts as supported.
const groundSkin = 0.05

// GroundHit finds the highest supporting surface under pos within
// maxDist. The returned normal is the surface normal at the hit.
func (w *World) GroundHit(pos mgl64.Vec3, maxDist float64) (height float64, normal mgl64.Vec3, ok bool) {
	if w == nil {
		return 0, mgl64.Vec3{}, false
	}
	best := false
	bestTop := 0.0
	for _, b := range w.boxes {
		if pos.X() < b.Min.X() || pos.X() > b.Max.X() {
			continue
		}
		if pos.Z() < b.Min.Z() || pos.Z() > b.Max.Z() {
			continue
		}
		top := b.Max.Y()
		if top > pos.Y()+groundSkin {
			continue
		}
		if pos.Y()-top > maxDist {
			continue
		}
		if !best || top > bestTop {
			best = true
			bestTop = top
		}
	}
	if !best {
		return 0, mgl64.Vec3{}, false
	}
	return bestTop, mgl64.Vec3{0, 1, 0}, true
}
