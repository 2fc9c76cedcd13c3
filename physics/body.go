package physics

import "github.com/go-gl/mathgl/mgl64"

// groundProbe is how far below the feet the grounded query looks.
const groundProbe = 0.25

// Body is the player's kinematic body. States own its velocity; Step
// only integrates and resolves ground support.
type Body struct {
	world *World

	pos mgl64.Vec3
	vel mgl64.Vec3
	rot mgl64.Quat

	grounded     bool
	groundNormal mgl64.Vec3
	impactSpeed  float64
}

func NewBody(world *World, pos mgl64.Vec3) *Body {
	return &Body{
		world:        world,
		pos:          pos,
		rot:          mgl64.QuatIdent(),
		groundNormal: mgl64.Vec3{0, 1, 0},
	}
}

// Step integrates one fixed tick and resolves ground contact. Landing
// snaps the body to the surface, zeroes vertical velocity, and records
// the impact speed for the Land state's duration window.
func (b *Body) Step(dt float64) {
	wasGrounded := b.grounded
	b.pos = b.pos.Add(b.vel.Mul(dt))

	height, normal, ok := b.world.GroundHit(b.pos, groundProbe)
	if ok && b.vel.Y() <= 0 {
		if !wasGrounded {
			b.impactSpeed = -b.vel.Y()
		}
		b.pos[1] = height
		b.vel[1] = 0
		b.grounded = true
		b.groundNormal = normal
		return
	}
	b.grounded = false
}

// Position returns the body's world position.
func (b *Body) Position() mgl64.Vec3 { return b.pos }

// SetPosition teleports the body. Used by parry choreography and rail
// riding; it does not clear velocity.
func (b *Body) SetPosition(p mgl64.Vec3) { b.pos = p }

// Velocity returns the current velocity.
func (b *Body) Velocity() mgl64.Vec3 { return b.vel }

// SetVelocity replaces the velocity wholesale.
func (b *Body) SetVelocity(v mgl64.Vec3) { b.vel = v }

// Rotation returns the body's orientation.
func (b *Body) Rotation() mgl64.Quat { return b.rot }

// SetRotation replaces the orientation.
func (b *Body) SetRotation(q mgl64.Quat) { b.rot = q }

// Grounded reports whether the body is supported.
func (b *Body) Grounded() bool { return b.grounded }

// GroundNormal returns the support surface normal, Y-up when airborne.
func (b *Body) GroundNormal() mgl64.Vec3 { return b.groundNormal }

// ImpactSpeed is the downward speed recorded at the last landing.
func (b *Body) ImpactSpeed() float64 { return b.impactSpeed }

// AddGroundForce accelerates the body, projecting the force onto the
// support plane while grounded so slopes don't bleed into vertical
// velocity.
func (b *Body) AddGroundForce(f mgl64.Vec3, dt float64) {
	if b.grounded {
		f = f.Sub(b.groundNormal.Mul(f.Dot(b.groundNormal)))
	}
	b.vel = b.vel.Add(f.Mul(dt))
}

// HorizontalVelocity returns velocity with the vertical component
// removed.
func (b *Body) HorizontalVelocity() mgl64.Vec3 {
	return mgl64.Vec3{b.vel.X(), 0, b.vel.Z()}
}

// SetHorizontalVelocity replaces the horizontal components, keeping
// vertical velocity untouched.
func (b *Body) SetHorizontalVelocity(v mgl64.Vec3) {
	b.vel[0] = v.X()
	b.vel[2] = v.Z()
}

// ClampHorizontalSpeed limits horizontal speed, leaving vertical
// velocity alone.
func (b *Body) ClampHorizontalSpeed(max float64) {
	h := b.HorizontalVelocity()
	speed := h.Len()
	if speed <= max || speed == 0 {
		return
	}
	h = h.Mul(max / speed)
	b.SetHorizontalVelocity(h)
}
