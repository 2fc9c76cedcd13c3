package player

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/railrunner/fsm"
)

// DashState is a short burst of fixed-speed travel. The state that
// requested the dash supplies resume, so control returns to it when
// the burst ends.
type DashState struct {
	p      *Player
	resume func() fsm.State
	dir    mgl64.Vec3
}

func NewDashState(p *Player, resume func() fsm.State) *DashState {
	dir := p.MoveDirection()
	if dir.Len() < 1e-6 {
		dir = p.body.Rotation().Rotate(mgl64.Vec3{0, 0, 1})
		dir[1] = 0
		if dir.Len() < 1e-6 {
			dir = mgl64.Vec3{0, 0, 1}
		}
		dir = dir.Normalize()
	}
	return &DashState{p: p, resume: resume, dir: dir}
}

func (s *DashState) Name() string                   { return "dash" }
func (s *DashState) LocomotionType() LocomotionType { return LocomotionDash }

func (s *DashState) Enter() {
	p := s.p
	p.animator.Play("dash")
	p.commands.PlaySFX("dash")
	p.RequestMovementOverride(s.dir.Mul(p.cfg.Dash.Speed), p.cfg.Dash.Duration, true)
	p.RequestRotationOverride(faceQuat(s.dir), p.cfg.Dash.Duration, true)
}

func (s *DashState) Exit(next fsm.State) {
	s.p.ClearMovementOverride()
	s.p.ClearRotationOverride()
}

func (s *DashState) LogicUpdate(dt float64) {
	p := s.p
	if p.locomotion.TimeInState() >= p.cfg.Dash.Duration {
		if s.resume != nil {
			_ = p.locomotion.ChangeState(s.resume())
			return
		}
		_ = p.locomotion.ChangeState(resumeByGroundCheck(p))
	}
}

func (s *DashState) PhysicsUpdate(dt float64) {
	s.p.applyMovementOverride()
}

// BoostState is the boost attack out of a sprint: faster and longer
// than a dash, with light steering.
type BoostState struct {
	p   *Player
	dir mgl64.Vec3
}

func NewBoostState(p *Player) *BoostState {
	dir := p.MoveDirection()
	if dir.Len() < 1e-6 {
		dir = p.body.Rotation().Rotate(mgl64.Vec3{0, 0, 1})
		dir[1] = 0
		if dir.Len() < 1e-6 {
			dir = mgl64.Vec3{0, 0, 1}
		}
		dir = dir.Normalize()
	}
	return &BoostState{p: p, dir: dir}
}

func (s *BoostState) Name() string                   { return "boost" }
func (s *BoostState) LocomotionType() LocomotionType { return LocomotionDash }

func (s *BoostState) Enter() {
	p := s.p
	p.animator.Play("boost")
	p.commands.PlaySFX("boost")
	p.commands.CameraShake(0.2, 0.1)
	p.RequestMovementOverride(s.dir.Mul(p.cfg.Boost.Speed), p.cfg.Boost.Duration, true)
	p.RequestRotationOverride(faceQuat(s.dir), p.cfg.Boost.Duration, true)
}

func (s *BoostState) Exit(next fsm.State) {
	s.p.ClearMovementOverride()
	s.p.ClearRotationOverride()
}

func (s *BoostState) LogicUpdate(dt float64) {
	p := s.p
	remaining := p.cfg.Boost.Duration - p.locomotion.TimeInState()
	if remaining <= 0 {
		if p.Grounded() {
			if p.input.Snapshot().Sprint && p.CanSprint() {
				_ = p.locomotion.ChangeState(NewSprintState(p))
				return
			}
			_ = p.locomotion.ChangeState(resumeGrounded(p))
			return
		}
		_ = p.locomotion.ChangeState(NewFallState(p))
		return
	}
	// steer the boost direction toward held input within a tight cone
	want := p.MoveDirection()
	if want.Len() > 1e-6 {
		maxStep := p.cfg.Boost.SteerRate * dt
		cur := s.dir
		blended := cur.Add(want.Sub(cur).Mul(mgl64.Clamp(maxStep, 0, 1)))
		if blended.Len() > 1e-6 {
			s.dir = blended.Normalize()
		}
	}
	p.RequestMovementOverride(s.dir.Mul(p.cfg.Boost.Speed), remaining, true)
	p.RequestRotationOverride(faceQuat(s.dir), remaining, true)
}

func (s *BoostState) PhysicsUpdate(dt float64) {
	s.p.applyMovementOverride()
}
