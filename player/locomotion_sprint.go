package player

import (
	"github.com/milk9111/railrunner/fsm"
	"github.com/milk9111/railrunner/input"
)

// SprintState burns pressure for speed. Entering it airborne marks the
// one air sprint allowed per jump.
type SprintState struct {
	p    *Player
	subs []input.Handle

	enteredAirborne bool
}

func NewSprintState(p *Player) *SprintState { return &SprintState{p: p} }

func (s *SprintState) Name() string                   { return "sprint" }
func (s *SprintState) LocomotionType() LocomotionType { return LocomotionSprint }

func (s *SprintState) Enter() {
	p := s.p
	p.animator.CrossFade("sprint", 0.1)
	s.enteredAirborne = !p.Grounded()
	if s.enteredAirborne {
		p.airSprintUsed = true
	}
	s.subs = append(s.subs,
		p.subscribeLocomotion(input.EdgeJump, func() {
			if p.CanJump() {
				_ = p.locomotion.ChangeState(NewJumpState(p))
			} else {
				p.bufferJump()
			}
		}),
		p.subscribeLocomotion(input.EdgeDash, func() {
			p.tryDash(func() fsm.State { return NewSprintState(p) })
		}),
		p.subscribeLocomotion(input.EdgeAttack, func() {
			s.tryBoost()
		}),
	)
}

// tryBoost enters Boost from a grounded sprint when the action machine
// isn't claiming the attack edge for a parry.
func (s *SprintState) tryBoost() {
	p := s.p
	if !p.Grounded() {
		return
	}
	if _, ok := p.action.Current().(*ActionNoneState); !ok {
		return
	}
	if p.targets.NearestParryable(p.body.Position(), p.cfg.Parry.Range) != nil {
		return
	}
	if !p.TrySpendPressure(p.cfg.Boost.PressureCost) {
		return
	}
	_ = p.locomotion.ChangeState(NewBoostState(p))
}

func (s *SprintState) Exit(next fsm.State) {
	for _, h := range s.subs {
		s.p.input.Unsubscribe(h)
	}
}

func (s *SprintState) LogicUpdate(dt float64) {
	p := s.p
	if !p.TrySpendPressure(p.cfg.Sprint.CostPerSecond * dt) {
		// pressure exhausted
		_ = p.locomotion.ChangeState(NewMoveState(p))
		return
	}
	if p.LocomotionBlocked() {
		return
	}
	if !p.input.Snapshot().Sprint {
		if !p.Grounded() {
			_ = p.locomotion.ChangeState(NewFallState(p))
			return
		}
		if p.body.HorizontalVelocity().Len() > p.cfg.Move.WalkStopSpeed && !p.HasMoveInput() {
			_ = p.locomotion.ChangeState(NewSprintStopState(p))
			return
		}
		_ = p.locomotion.ChangeState(resumeGrounded(p))
	}
}

func (s *SprintState) PhysicsUpdate(dt float64) {
	p := s.p
	if p.applyMovementOverride() {
		return
	}
	p.steerHorizontal(dt, p.cfg.Sprint.Speed, p.cfg.Sprint.Accel)
	if !p.Grounded() {
		p.applyGravity(dt)
	}
}

// SprintStopState is the skid between a released sprint and idle.
type SprintStopState struct {
	p    *Player
	subs []input.Handle
}

func NewSprintStopState(p *Player) *SprintStopState { return &SprintStopState{p: p} }

func (s *SprintStopState) Name() string                   { return "sprint_stop" }
func (s *SprintStopState) LocomotionType() LocomotionType { return LocomotionSprint }

func (s *SprintStopState) Enter() {
	p := s.p
	p.animator.CrossFade("idle", 0.2)
	p.commands.PlaySFX("skid")
	s.subs = append(s.subs,
		p.subscribeLocomotion(input.EdgeJump, func() {
			if p.CanJump() {
				_ = p.locomotion.ChangeState(NewJumpState(p))
			}
		}),
	)
}

func (s *SprintStopState) Exit(next fsm.State) {
	for _, h := range s.subs {
		s.p.input.Unsubscribe(h)
	}
}

func (s *SprintStopState) LogicUpdate(dt float64) {
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
	if p.locomotion.TimeInState() >= p.cfg.Sprint.StopTime || p.body.HorizontalVelocity().Len() < 0.01 {
		_ = p.locomotion.ChangeState(NewIdleState(p))
	}
}

func (s *SprintStopState) PhysicsUpdate(dt float64) {
	p := s.p
	if p.applyMovementOverride() {
		return
	}
	p.brakeHorizontal(dt, p.cfg.Move.Brake)
}
