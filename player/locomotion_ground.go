package player

import (
	"github.com/milk9111/railrunner/fsm"
	"github.com/milk9111/railrunner/input"
)

// resumeGrounded picks Move or Idle from current input.
func resumeGrounded(p *Player) fsm.State {
	if p.HasMoveInput() {
		return NewMoveState(p)
	}
	return NewIdleState(p)
}

// resumeByGroundCheck falls back to Fall when airborne.
func resumeByGroundCheck(p *Player) fsm.State {
	if p.Grounded() {
		return resumeGrounded(p)
	}
	return NewFallState(p)
}

// tryDash consumes a charge and enters Dash. Insufficient resource is a
// silent no-op: the requesting state stays active and nothing is spent.
func (p *Player) tryDash(resume func() fsm.State) {
	if !p.tryConsumeDash() {
		return
	}
	_ = p.locomotion.ChangeState(NewDashState(p, resume))
}

type IdleState struct {
	p    *Player
	subs []input.Handle
}

func NewIdleState(p *Player) *IdleState { return &IdleState{p: p} }

func (s *IdleState) Name() string                   { return "idle" }
func (s *IdleState) LocomotionType() LocomotionType { return LocomotionNone }

func (s *IdleState) Enter() {
	p := s.p
	p.animator.CrossFade("idle", 0.1)
	s.subs = append(s.subs,
		p.subscribeLocomotion(input.EdgeJump, func() {
			if p.CanJump() {
				_ = p.locomotion.ChangeState(NewJumpState(p))
			}
		}),
		p.subscribeLocomotion(input.EdgeDash, func() {
			p.tryDash(func() fsm.State { return NewIdleState(p) })
		}),
		p.subscribeLocomotion(input.EdgeCrouch, func() {
			_ = p.locomotion.ChangeState(NewCrouchState(p))
		}),
	)
}

func (s *IdleState) Exit(next fsm.State) {
	for _, h := range s.subs {
		s.p.input.Unsubscribe(h)
	}
}

func (s *IdleState) LogicUpdate(dt float64) {
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
	if p.LocomotionBlocked() {
		return
	}
	if p.HasMoveInput() {
		if p.input.Snapshot().Sprint && p.CanSprint() {
			_ = p.locomotion.ChangeState(NewSprintState(p))
			return
		}
		_ = p.locomotion.ChangeState(NewMoveState(p))
	}
}

func (s *IdleState) PhysicsUpdate(dt float64) {
	p := s.p
	if p.applyMovementOverride() {
		return
	}
	p.brakeHorizontal(dt, p.cfg.Move.Brake)
}

type MoveState struct {
	p    *Player
	subs []input.Handle
}

func NewMoveState(p *Player) *MoveState { return &MoveState{p: p} }

func (s *MoveState) Name() string                   { return "move" }
func (s *MoveState) LocomotionType() LocomotionType { return LocomotionMove }

func (s *MoveState) Enter() {
	p := s.p
	p.animator.CrossFade("run", 0.1)
	s.subs = append(s.subs,
		p.subscribeLocomotion(input.EdgeJump, func() {
			if p.CanJump() {
				_ = p.locomotion.ChangeState(NewJumpState(p))
			}
		}),
		p.subscribeLocomotion(input.EdgeDash, func() {
			p.tryDash(func() fsm.State { return NewMoveState(p) })
		}),
		p.subscribeLocomotion(input.EdgeCrouch, func() {
			_ = p.locomotion.ChangeState(NewCrouchState(p))
		}),
	)
}

func (s *MoveState) Exit(next fsm.State) {
	for _, h := range s.subs {
		s.p.input.Unsubscribe(h)
	}
}

func (s *MoveState) LogicUpdate(dt float64) {
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
	if p.LocomotionBlocked() {
		return
	}
	if !p.HasMoveInput() {
		if p.body.HorizontalVelocity().Len() > p.cfg.Move.WalkStopSpeed {
			_ = p.locomotion.ChangeState(NewWalkStopState(p))
		} else {
			_ = p.locomotion.ChangeState(NewIdleState(p))
		}
		return
	}
	if p.input.Snapshot().Sprint && p.CanSprint() {
		_ = p.locomotion.ChangeState(NewSprintState(p))
	}
}

func (s *MoveState) PhysicsUpdate(dt float64) {
	p := s.p
	if p.applyMovementOverride() {
		return
	}
	p.steerHorizontal(dt, p.cfg.Move.Speed, p.cfg.Move.Accel)
}

// WalkStopState bridges fast movement back to idle with a short
// deceleration window.
type WalkStopState struct {
	p    *Player
	subs []input.Handle
}

func NewWalkStopState(p *Player) *WalkStopState { return &WalkStopState{p: p} }

func (s *WalkStopState) Name() string                   { return "walk_stop" }
func (s *WalkStopState) LocomotionType() LocomotionType { return LocomotionMove }

func (s *WalkStopState) Enter() {
	p := s.p
	p.animator.CrossFade("idle", 0.2)
	s.subs = append(s.subs,
		p.subscribeLocomotion(input.EdgeJump, func() {
			if p.CanJump() {
				_ = p.locomotion.ChangeState(NewJumpState(p))
			}
		}),
	)
}

func (s *WalkStopState) Exit(next fsm.State) {
	for _, h := range s.subs {
		s.p.input.Unsubscribe(h)
	}
}

func (s *WalkStopState) LogicUpdate(dt float64) {
	p := s.p
	if !p.Grounded() {
		_ = p.locomotion.ChangeState(NewFallState(p))
		return
	}
	if p.LocomotionBlocked() {
		return
	}
	if p.HasMoveInput() {
		_ = p.locomotion.ChangeState(NewMoveState(p))
		return
	}
	if p.locomotion.TimeInState() >= p.cfg.Move.WalkStopTime || p.body.HorizontalVelocity().Len() < 0.01 {
		_ = p.locomotion.ChangeState(NewIdleState(p))
	}
}

func (s *WalkStopState) PhysicsUpdate(dt float64) {
	p := s.p
	if p.applyMovementOverride() {
		return
	}
	p.brakeHorizontal(dt, p.cfg.Move.Brake)
}

type CrouchState struct {
	p    *Player
	subs []input.Handle
}

func NewCrouchState(p *Player) *CrouchState { return &CrouchState{p: p} }

func (s *CrouchState) Name() string                   { return "crouch" }
func (s *CrouchState) LocomotionType() LocomotionType { return LocomotionCrouch }

func (s *CrouchState) Enter() {
	s.p.animator.CrossFade("crouch", 0.1)
	s.subs = append(s.subs,
		s.p.subscribeLocomotion(input.EdgeJump, func() {
			if s.p.CanJump() {
				_ = s.p.locomotion.ChangeState(NewJumpState(s.p))
			}
		}),
	)
}

func (s *CrouchState) Exit(next fsm.State) {
	for _, h := range s.subs {
		s.p.input.Unsubscribe(h)
	}
}

func (s *CrouchState) LogicUpdate(dt float64) {
	p := s.p
	if !p.Grounded() {
		_ = p.locomotion.ChangeState(NewFallState(p))
		return
	}
	if p.LocomotionBlocked() {
		return
	}
	if !p.input.Snapshot().Crouch {
		_ = p.locomotion.ChangeState(resumeGrounded(p))
	}
}

func (s *CrouchState) PhysicsUpdate(dt float64) {
	p := s.p
	if p.applyMovementOverride() {
		return
	}
	p.steerHorizontal(dt, p.cfg.Crouch.Speed, p.cfg.Move.Accel)
}
