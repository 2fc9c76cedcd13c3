package player

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/railrunner/fsm"
	"github.com/milk9111/railrunner/input"
)

type JumpState struct {
	p    *Player
	subs []input.Handle

	// launchSpeed overrides the standard jump speed when positive; rail
	// dismounts launch with the rail's own tuning.
	launchSpeed float64
}

func NewJumpState(p *Player) *JumpState { return &JumpState{p: p} }

// NewLaunchJumpState jumps with an explicit vertical speed instead of
// the standard one.
func NewLaunchJumpState(p *Player, speed float64) *JumpState {
	return &JumpState{p: p, launchSpeed: speed}
}

func (s *JumpState) Name() string                   { return "jump" }
func (s *JumpState) LocomotionType() LocomotionType { return LocomotionFall }

func (s *JumpState) Enter() {
	p := s.p
	p.animator.Play("jump")
	p.commands.PlaySFX("jump")
	p.clearJumpBuffer()

	speed := s.launchSpeed
	if speed <= 0 {
		speed = p.cfg.Jump.Speed
	}
	v := p.body.Velocity()
	v[1] = speed
	p.body.SetVelocity(v)

	s.subs = append(s.subs,
		p.subscribeLocomotion(input.EdgeJump, func() {
			p.bufferJump()
		}),
		p.subscribeLocomotion(input.EdgeDash, func() {
			p.tryDash(func() fsm.State { return resumeByGroundCheck(p) })
		}),
		p.subscribeLocomotion(input.EdgeSprintPress, func() {
			if !p.airSprintUsed && p.CanSprint() {
				_ = p.locomotion.ChangeState(NewSprintState(p))
			}
		}),
	)
}

func (s *JumpState) Exit(next fsm.State) {
	for _, h := range s.subs {
		s.p.input.Unsubscribe(h)
	}
}

func (s *JumpState) LogicUpdate(dt float64) {
	p := s.p
	// apex: the moment vertical velocity turns negative we are falling
	if p.body.Velocity().Y() < 0 {
		_ = p.locomotion.ChangeState(NewFallState(p))
	}
}

func (s *JumpState) PhysicsUpdate(dt float64) {
	p := s.p
	if p.applyMovementOverride() {
		return
	}
	// holding jump sustains the ascent for a bounded window
	if p.input.Snapshot().Jump && p.locomotion.TimeInState() < p.cfg.Jump.HoldTime {
		v := p.body.Velocity()
		v[1] += p.cfg.Jump.HoldBoost * dt
		p.body.SetVelocity(v)
	}
	p.applyGravity(dt)
	p.steerHorizontal(dt, p.cfg.Move.Speed, p.cfg.Move.AirAccel)
}

type FallState struct {
	p    *Player
	subs []input.Handle
}

func NewFallState(p *Player) *FallState { return &FallState{p: p} }

func (s *FallState) Name() string                   { return "fall" }
func (s *FallState) LocomotionType() LocomotionType { return LocomotionFall }

func (s *FallState) Enter() {
	p := s.p
	p.animator.CrossFade("fall", 0.15)
	s.subs = append(s.subs,
		p.subscribeLocomotion(input.EdgeJump, func() {
			if p.CanJump() {
				_ = p.locomotion.ChangeState(NewJumpState(p))
			} else {
				p.bufferJump()
			}
		}),
		p.subscribeLocomotion(input.EdgeCrouch, func() {
			_ = p.locomotion.ChangeState(NewFastFallState(p))
		}),
		p.subscribeLocomotion(input.EdgeSprintPress, func() {
			if !p.airSprintUsed && p.CanSprint() {
				_ = p.locomotion.ChangeState(NewSprintState(p))
			}
		}),
		p.subscribeLocomotion(input.EdgeDash, func() {
			p.tryDash(func() fsm.State { return resumeByGroundCheck(p) })
		}),
	)
}

func (s *FallState) Exit(next fsm.State) {
	for _, h := range s.subs {
		s.p.input.Unsubscribe(h)
	}
}

func (s *FallState) LogicUpdate(dt float64) {
	p := s.p
	if p.Grounded() {
		_ = p.locomotion.ChangeState(NewLandState(p))
	}
}

func (s *FallState) PhysicsUpdate(dt float64) {
	p := s.p
	if p.applyMovementOverride() {
		return
	}
	p.applyGravity(dt)
	p.steerHorizontal(dt, p.cfg.Move.Speed, p.cfg.Move.AirAccel)
}

// FastFallState drops at a constant speed, not an accelerating one.
type FastFallState struct {
	p    *Player
	subs []input.Handle
}

func NewFastFallState(p *Player) *FastFallState { return &FastFallState{p: p} }

func (s *FastFallState) Name() string                   { return "fast_fall" }
func (s *FastFallState) LocomotionType() LocomotionType { return LocomotionFastFall }

func (s *FastFallState) Enter() {
	p := s.p
	p.animator.CrossFade("fall", 0.05)
	p.commands.PlaySFX("fast_fall")
	s.subs = append(s.subs,
		p.subscribeLocomotion(input.EdgeJump, func() {
			p.bufferJump()
		}),
	)
}

func (s *FastFallState) Exit(next fsm.State) {
	for _, h := range s.subs {
		s.p.input.Unsubscribe(h)
	}
}

func (s *FastFallState) LogicUpdate(dt float64) {
	p := s.p
	if p.Grounded() {
		_ = p.locomotion.ChangeState(NewLandState(p))
	}
}

func (s *FastFallState) PhysicsUpdate(dt float64) {
	p := s.p
	if p.applyMovementOverride() {
		return
	}
	v := p.body.Velocity()
	v[1] = -p.cfg.Gravity.FastFallSpeed
	p.body.SetVelocity(v)
	p.steerHorizontal(dt, p.cfg.Move.Speed, p.cfg.Move.AirAccel)
}

// LandState is the recovery window after touching down; its length
// scales with impact speed.
type LandState struct {
	p        *Player
	subs     []input.Handle
	duration float64
}

func NewLandState(p *Player) *LandState {
	frac := mgl64.Clamp(p.body.ImpactSpeed()/p.cfg.Land.HardImpactSpeed, 0, 1)
	return &LandState{
		p:        p,
		duration: p.cfg.Land.MinTime + (p.cfg.Land.MaxTime-p.cfg.Land.MinTime)*frac,
	}
}

func (s *LandState) Name() string                   { return "land" }
func (s *LandState) LocomotionType() LocomotionType { return LocomotionMove }

func (s *LandState) Enter() {
	p := s.p
	p.animator.Play("land")
	if p.body.ImpactSpeed() >= p.cfg.Land.HardImpactSpeed {
		p.commands.CameraShake(0.4, 0.2)
		p.commands.PlaySFX("land_hard")
	}
	s.subs = append(s.subs,
		p.subscribeLocomotion(input.EdgeJump, func() {
			if p.CanJump() {
				_ = p.locomotion.ChangeState(NewJumpState(p))
			}
		}),
	)
}

func (s *LandState) Exit(next fsm.State) {
	for _, h := range s.subs {
		s.p.input.Unsubscribe(h)
	}
}

func (s *LandState) LogicUpdate(dt float64) {
	p := s.p
	if !p.Grounded() {
		_ = p.locomotion.ChangeState(NewFallState(p))
		return
	}
	if p.jumpBuffered() && !p.LocomotionBlocked() {
		p.clearJumpBuffer()
		_ = p.locomotion.ChangeState(NewJumpState(p))
		return
	}
	if p.locomotion.TimeInState() >= s.duration {
		_ = p.locomotion.ChangeState(resumeGrounded(p))
	}
}

func (s *LandState) PhysicsUpdate(dt float64) {
	p := s.p
	if p.applyMovementOverride() {
		return
	}
	p.brakeHorizontal(dt, p.cfg.Move.Brake)
}
