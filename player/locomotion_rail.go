package player

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/railrunner/fsm"
	"github.com/milk9111/railrunner/rail"
)

// GrindState rides a rail. It polls the input snapshot instead of
// subscribing because it can be force-set from outside the machine's
// normal transition path.
type GrindState struct {
	p     *Player
	rail  *rail.Rail
	dist  float64
	speed float64 // signed: positive runs toward the rail's end point
}

func NewGrindState(p *Player, r *rail.Rail) *GrindState {
	dist := r.ClosestDistance(p.body.Position())
	_, tangent, _ := r.PositionAndTangent(dist)
	along := p.body.Velocity().Dot(tangent)
	speed := along
	if math.Abs(speed) < p.cfg.Grind.MinSpeed {
		if speed < 0 {
			speed = -p.cfg.Grind.MinSpeed
		} else {
			speed = p.cfg.Grind.MinSpeed
		}
	}
	return &GrindState{p: p, rail: r, dist: dist, speed: speed}
}

func (s *GrindState) Name() string                   { return "grind" }
func (s *GrindState) LocomotionType() LocomotionType { return LocomotionGrind }

func (s *GrindState) Enter() {
	p := s.p
	p.animator.CrossFade("grind", 0.1)
	p.commands.PlaySFX("grind_start")
	pos, _, _ := s.rail.PositionAndTangent(s.dist)
	p.body.SetPosition(pos)
	p.body.SetVelocity(mgl64.Vec3{})
}

func (s *GrindState) Exit(next fsm.State) {
	p := s.p
	// carry momentum along the rail into whatever comes next
	_, tangent, _ := s.rail.PositionAndTangent(s.dist)
	p.body.SetVelocity(tangent.Mul(s.speed))
	p.ClearRotationOverride()
}

func (s *GrindState) LogicUpdate(dt float64) {
	p := s.p
	snap := p.input.Snapshot()
	if snap.JumpPressed && !p.LocomotionBlocked() {
		// Exit supplies the tangent momentum, the jump the launch speed
		_ = p.locomotion.ChangeState(NewLaunchJumpState(p, p.cfg.Grind.JumpSpeed))
		return
	}
	if s.shouldDetach() {
		_ = p.locomotion.ChangeState(NewFallState(p))
	}
}

// shouldDetach reports whether the ride has run past either end.
func (s *GrindState) shouldDetach() bool {
	thresh := s.p.cfg.Grind.DetachThreshold
	if s.speed >= 0 {
		return s.dist >= s.rail.TotalLength()-thresh
	}
	return s.dist <= thresh
}

func (s *GrindState) PhysicsUpdate(dt float64) {
	p := s.p
	_, tangent, _ := s.rail.PositionAndTangent(s.dist)

	// downhill segments speed the ride up, uphill segments slow it
	s.speed -= tangent.Y() * p.cfg.Grind.SlopeAccel * dt

	// friction pulls toward the minimum ride speed, never below it
	if s.speed > p.cfg.Grind.MinSpeed {
		s.speed = math.Max(p.cfg.Grind.MinSpeed, s.speed-p.cfg.Grind.Friction*dt)
	} else if s.speed < -p.cfg.Grind.MinSpeed {
		s.speed = math.Min(-p.cfg.Grind.MinSpeed, s.speed+p.cfg.Grind.Friction*dt)
	}

	if p.input.Snapshot().Sprint && p.CanSprint() {
		if s.speed >= 0 {
			s.speed += p.cfg.Grind.SprintBoost * dt
		} else {
			s.speed -= p.cfg.Grind.SprintBoost * dt
		}
	}
	s.speed = mgl64.Clamp(s.speed, -p.cfg.Grind.MaxSpeed, p.cfg.Grind.MaxSpeed)

	s.dist += s.speed * dt
	s.dist = mgl64.Clamp(s.dist, 0, s.rail.TotalLength())

	samplePos, sampleTan, _ := s.rail.PositionAndTangent(s.dist)
	p.body.SetVelocity(samplePos.Sub(p.body.Position()).Mul(1 / dt))

	travel := sampleTan
	if s.speed < 0 {
		travel = travel.Mul(-1)
	}
	if flat := (mgl64.Vec3{travel.X(), 0, travel.Z()}); flat.Len() > 1e-6 {
		p.RequestRotationOverride(faceQuat(flat.Normalize()), dt*2, true)
	}
}

// DashPanelState launches the body along a rail at a fixed speed,
// ignoring input until the end of the rail.
type DashPanelState struct {
	p    *Player
	rail *rail.Rail
	dist float64
}

func NewDashPanelState(p *Player, r *rail.Rail) *DashPanelState {
	return &DashPanelState{p: p, rail: r, dist: r.ClosestDistance(p.body.Position())}
}

func (s *DashPanelState) Name() string                   { return "dash_panel" }
func (s *DashPanelState) LocomotionType() LocomotionType { return LocomotionDashPanel }

func (s *DashPanelState) Enter() {
	p := s.p
	p.animator.Play("dash")
	p.commands.PlaySFX("dash_panel")
	p.commands.CameraShake(0.15, 0.1)
	pos, _, _ := s.rail.PositionAndTangent(s.dist)
	p.body.SetPosition(pos)
}

func (s *DashPanelState) Exit(next fsm.State) {
	p := s.p
	_, tangent, _ := s.rail.PositionAndTangent(s.dist)
	p.body.SetVelocity(tangent.Mul(p.cfg.DashPanel.Speed))
	p.ClearRotationOverride()
}

func (s *DashPanelState) LogicUpdate(dt float64) {
	p := s.p
	if s.dist >= s.rail.TotalLength() {
		if p.Grounded() {
			_ = p.locomotion.ChangeState(NewMoveState(p))
			return
		}
		_ = p.locomotion.ChangeState(NewFallState(p))
	}
}

func (s *DashPanelState) PhysicsUpdate(dt float64) {
	p := s.p
	s.dist += p.cfg.DashPanel.Speed * dt
	s.dist = mgl64.Clamp(s.dist, 0, s.rail.TotalLength())
	samplePos, tangent, _ := s.rail.PositionAndTangent(s.dist)
	p.body.SetVelocity(samplePos.Sub(p.body.Position()).Mul(1 / dt))
	if flat := (mgl64.Vec3{tangent.X(), 0, tangent.Z()}); flat.Len() > 1e-6 {
		p.RequestRotationOverride(faceQuat(flat.Normalize()), dt*2, true)
	}
}

// PathFollowState walks a scripted path at an eased speed. Unlike a
// grind there is no momentum model; the path fully owns position.
type PathFollowState struct {
	p    *Player
	rail *rail.Rail
	dist float64
}

func NewPathFollowState(p *Player, r *rail.Rail) *PathFollowState {
	return &PathFollowState{p: p, rail: r}
}

func (s *PathFollowState) Name() string                   { return "path_follow" }
func (s *PathFollowState) LocomotionType() LocomotionType { return LocomotionPathFollow }

func (s *PathFollowState) Enter() {
	p := s.p
	p.animator.CrossFade("run", 0.1)
	pos, _, _ := s.rail.PositionAndTangent(0)
	p.body.SetPosition(pos)
}

func (s *PathFollowState) Exit(next fsm.State) {
	s.p.ClearRotationOverride()
}

func (s *PathFollowState) LogicUpdate(dt float64) {
	p := s.p
	if s.dist >= s.rail.TotalLength() {
		_ = p.locomotion.ChangeState(resumeByGroundCheck(p))
	}
}

func (s *PathFollowState) PhysicsUpdate(dt float64) {
	p := s.p
	speed := p.cfg.Path.Speed
	if ease := p.cfg.Path.EaseTime; ease > 0 {
		speed *= mgl64.Clamp(p.locomotion.TimeInState()/ease, 0, 1)
	}
	s.dist = mgl64.Clamp(s.dist+speed*dt, 0, s.rail.TotalLength())
	samplePos, tangent, _ := s.rail.PositionAndTangent(s.dist)
	p.body.SetVelocity(samplePos.Sub(p.body.Position()).Mul(1 / dt))
	if flat := (mgl64.Vec3{tangent.X(), 0, tangent.Z()}); flat.Len() > 1e-6 {
		p.RequestRotationOverride(faceQuat(flat.Normalize()), dt*2, true)
	}
}
