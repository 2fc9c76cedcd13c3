package player

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/railrunner/fsm"
	"github.com/milk9111/railrunner/target"
)

type parryPhase int

const (
	parryRotate parryPhase = iota
	parryTeleport
	parryStrike
)

// ParryAttackState is the three-beat counter: snap rotation toward the
// target, teleport beside it under slowed time, then strike. Movement
// is frozen for the whole sequence.
type ParryAttackState struct {
	p      *Player
	target target.Target
	phase  parryPhase
	slowed bool
}

func NewParryAttackState(p *Player, t target.Target) *ParryAttackState {
	return &ParryAttackState{p: p, target: t}
}

func (s *ParryAttackState) Name() string                 { return "parry_attack" }
func (s *ParryAttackState) BlocksLocomotion() BlockLevel { return BlockAll }

func (s *ParryAttackState) totalTime() float64 {
	c := s.p.cfg.Parry
	return c.RotateTime + c.TeleportTime + c.StrikeTime
}

func (s *ParryAttackState) Enter() {
	p := s.p
	p.animator.Play("parry")
	p.commands.PlaySFX("parry_start")
	p.RequestMovementOverride(p.body.Velocity().Mul(0), s.totalTime(), true)
	if q, ok := s.facingTarget(); ok {
		p.RequestRotationOverride(q, s.totalTime(), true)
	}
}

func (s *ParryAttackState) Exit(next fsm.State) {
	p := s.p
	p.ClearMovementOverride()
	p.ClearRotationOverride()
	if s.slowed {
		p.commands.TimeScale(1)
	}
}

func (s *ParryAttackState) facingTarget() (mgl64.Quat, bool) {
	p := s.p
	to := s.target.Position().Sub(p.body.Position())
	to[1] = 0
	if to.Len() < 1e-6 {
		return mgl64.Quat{}, false
	}
	return faceQuat(to.Normalize()), true
}

func (s *ParryAttackState) LogicUpdate(dt float64) {
	p := s.p
	c := p.cfg.Parry

	if s.phase < parryStrike && !s.target.Active() {
		_ = p.action.ChangeState(NewActionNoneState(p))
		return
	}

	t := p.action.TimeInState()
	switch s.phase {
	case parryRotate:
		if t >= c.RotateTime {
			s.phase = parryTeleport
			s.slowed = true
			p.commands.TimeScale(c.TimeScale)
			p.commands.CameraShake(0.3, 0.1)
			p.animator.CrossFade("parry_dash", 0.02)

			// blink to the target's flank
			to := p.body.Position().Sub(s.target.Position())
			to[1] = 0
			if to.Len() < 1e-6 {
				to = p.body.Rotation().Rotate(mgl64.Vec3{0, 0, 1}).Mul(-1)
				to[1] = 0
			}
			offset := to.Normalize().Mul(c.Offset)
			p.body.SetPosition(s.target.Position().Add(offset))
			if q, ok := s.facingTarget(); ok {
				p.RequestRotationOverride(q, s.totalTime()-t, true)
			}
		}
	case parryTeleport:
		if t >= c.RotateTime+c.TeleportTime {
			s.phase = parryStrike
			p.animator.CrossFade("parry_strike", 0.02)
			p.commands.HitStop(0.06)
			p.commands.PlaySFX("parry_hit")
			s.target.OnParried(p.body.Position())
		}
	case parryStrike:
		if t >= s.totalTime() {
			_ = p.action.ChangeState(NewParryExitState(p))
		}
	}
}

func (s *ParryAttackState) PhysicsUpdate(dt float64) {
	s.p.applyMovementOverride()
}

// ParryExitState is the recovery pose after a strike; real time has
// already been restored by ParryAttack's Exit.
type ParryExitState struct {
	p *Player
}

func NewParryExitState(p *Player) *ParryExitState { return &ParryExitState{p: p} }

func (s *ParryExitState) Name() string                 { return "parry_exit" }
func (s *ParryExitState) BlocksLocomotion() BlockLevel { return BlockAll }

func (s *ParryExitState) Enter() {
	s.p.commands.TimeScale(1)
	s.p.animator.CrossFade("parry_exit", 0.05)
}

func (s *ParryExitState) Exit(next fsm.State) {}

func (s *ParryExitState) LogicUpdate(dt float64) {
	p := s.p
	if p.action.TimeInState() >= p.cfg.Parry.ExitTime {
		_ = p.action.ChangeState(NewActionNoneState(p))
	}
}

func (s *ParryExitState) PhysicsUpdate(dt float64) {}
