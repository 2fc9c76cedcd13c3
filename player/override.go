package player

import "github.com/go-gl/mathgl/mgl64"

// Single-slot movement/rotation overrides. An action state hijacks
// velocity or rotation for a bounded duration without the locomotion
// machine knowing why; last writer wins, no stacking, no priority.
// Action updates run before locomotion updates every tick, which is what
// makes the shared slot safe without coordination.

type movementOverride struct {
	velocity  mgl64.Vec3
	exclusive bool
	remaining float64
	active    bool
}

type rotationOverride struct {
	target    mgl64.Quat
	exclusive bool
	remaining float64
	active    bool
}

// RequestMovementOverride installs a velocity override for duration
// seconds, overwriting any previous request.
func (p *Player) RequestMovementOverride(velocity mgl64.Vec3, duration float64, exclusive bool) {
	p.move = movementOverride{
		velocity:  velocity,
		exclusive: exclusive,
		remaining: duration,
		active:    duration > 0,
	}
}

// ClearMovementOverride drops the movement override immediately.
func (p *Player) ClearMovementOverride() {
	p.move = movementOverride{}
}

// HasMovementOverride reports whether a movement override is live.
func (p *Player) HasMovementOverride() bool {
	return p.move.active
}

// OverrideVelocity returns the live override velocity, zero when none.
func (p *Player) OverrideVelocity() mgl64.Vec3 {
	if !p.move.active {
		return mgl64.Vec3{}
	}
	return p.move.velocity
}

// IsMovementOverrideExclusive reports whether the live override fully
// replaces locomotion's velocity computation.
func (p *Player) IsMovementOverrideExclusive() bool {
	return p.move.active && p.move.exclusive
}

// RequestRotationOverride installs a rotation override for duration
// seconds, overwriting any previous request.
func (p *Player) RequestRotationOverride(target mgl64.Quat, duration float64, exclusive bool) {
	p.rot = rotationOverride{
		target:    target,
		exclusive: exclusive,
		remaining: duration,
		active:    duration > 0,
	}
}

// ClearRotationOverride drops the rotation override immediately.
func (p *Player) ClearRotationOverride() {
	p.rot = rotationOverride{}
}

// HasRotationOverride reports whether a rotation override is live.
func (p *Player) HasRotationOverride() bool {
	return p.rot.active
}

// OverrideRotation returns the live override target, identity when none.
func (p *Player) OverrideRotation() mgl64.Quat {
	if !p.rot.active {
		return mgl64.QuatIdent()
	}
	return p.rot.target
}

// IsRotationOverrideExclusive reports whether the live rotation override
// skips normal steering entirely.
func (p *Player) IsRotationOverrideExclusive() bool {
	return p.rot.active && p.rot.exclusive
}

// tickOverrides ages both slots one logic tick. Runs before the machines
// so a request made this tick survives until next tick's decrement.
func (p *Player) tickOverrides(dt float64) {
	if p.move.active {
		p.move.remaining -= dt
		if p.move.remaining <= 0 {
			p.ClearMovementOverride()
		}
	}
	if p.rot.active {
		p.rot.remaining -= dt
		if p.rot.remaining <= 0 {
			p.ClearRotationOverride()
		}
	}
}

// applyMovementOverride is the first thing every locomotion PhysicsUpdate
// runs: an exclusive override replaces the state's velocity computation
// wholesale.
func (p *Player) applyMovementOverride() bool {
	if !p.IsMovementOverrideExclusive() {
		return false
	}
	p.body.SetVelocity(p.move.velocity)
	return true
}

// adviseVelocity blends a state's desired velocity toward a live
// non-exclusive override. Exclusive overrides never reach here.
func (p *Player) adviseVelocity(desired mgl64.Vec3) mgl64.Vec3 {
	if !p.move.active || p.move.exclusive {
		return desired
	}
	return desired.Add(p.move.velocity).Mul(0.5)
}
