package player

import (
	"math/rand"

	"github.com/milk9111/railrunner/fsm"
	"github.com/milk9111/railrunner/target"
)

// homingPhase staggers the attack animation against closing distance.
type homingPhase int

const (
	homingApproach homingPhase = iota // closing in, "homing" loop
	homingReach                       // arm extended
	homingImpact                      // impact wind-up
	homingFrozen                      // hit landed, hit-stop running
)

// HomingAttackState flies the player at a locked target. It owns both
// override slots exclusively for its whole lifetime and blocks all
// locomotion input.
type HomingAttackState struct {
	p       *Player
	target  target.Target
	phase   homingPhase
	hitStop float64
}

func NewHomingAttackState(p *Player, t target.Target) *HomingAttackState {
	return &HomingAttackState{p: p, target: t}
}

func (s *HomingAttackState) Name() string                 { return "homing_attack" }
func (s *HomingAttackState) BlocksLocomotion() BlockLevel { return BlockAll }

func (s *HomingAttackState) Enter() {
	p := s.p
	p.animator.Play("homing")
	p.commands.PlaySFX("homing_start")
}

func (s *HomingAttackState) Exit(next fsm.State) {
	s.p.ClearMovementOverride()
	s.p.ClearRotationOverride()
}

func (s *HomingAttackState) LogicUpdate(dt float64) {
	p := s.p

	if s.phase == homingFrozen {
		s.hitStop -= dt
		if s.hitStop <= 0 {
			_ = p.action.ChangeState(NewHomingExitState(p))
		}
		return
	}

	if !s.target.Active() {
		// target died mid-flight: let go and fall
		_ = p.action.ChangeState(NewActionNoneState(p))
		return
	}
	if p.action.TimeInState() >= p.cfg.Homing.MaxTime {
		_ = p.action.ChangeState(NewActionNoneState(p))
		return
	}

	dist := s.target.Position().Sub(p.body.Position()).Len()
	switch {
	case dist <= p.cfg.Homing.ImpactDistance && s.phase < homingImpact:
		s.phase = homingImpact
		p.animator.CrossFade("homing_impact", 0.05)
	case dist <= p.cfg.Homing.ReachDistance && s.phase < homingReach:
		s.phase = homingReach
		p.animator.CrossFade("homing_reach", 0.05)
	}
}

func (s *HomingAttackState) PhysicsUpdate(dt float64) {
	p := s.p

	if s.phase == homingFrozen {
		p.RequestMovementOverride(p.body.Velocity().Mul(0), dt*2, true)
		p.applyMovementOverride()
		return
	}
	if !s.target.Active() {
		return
	}

	to := s.target.Position().Sub(p.body.Position())
	dist := to.Len()
	if dist <= p.cfg.Homing.HitRadius {
		s.hit()
		return
	}

	dir := to.Mul(1 / dist)
	p.RequestMovementOverride(dir.Mul(p.cfg.Homing.Speed), dt*2, true)
	if flat := dir; flat.X() != 0 || flat.Z() != 0 {
		flat[1] = 0
		p.RequestRotationOverride(faceQuat(flat.Normalize()), dt*2, true)
	}
	p.applyMovementOverride()
}

func (s *HomingAttackState) hit() {
	p := s.p
	p.commands.HitStop(p.cfg.Homing.HitStop)
	p.commands.CameraShake(0.5, 0.15)
	p.commands.PlaySFX("homing_hit")
	s.target.OnHomingHit(p.body.Position())
	// the hit callback may have re-seated both machines (rail-end
	// targets attach the player to their rail)
	if p.action.Current() != fsm.State(s) {
		return
	}
	s.phase = homingFrozen
	s.hitStop = p.cfg.Homing.HitStop
	p.body.SetVelocity(p.body.Velocity().Mul(0))
}

// HomingExitState plays one of the configured bounce variants, never
// the same one twice in a row. An attack press chains straight into
// the next homing attack.
type HomingExitState struct {
	p       *Player
	variant *configExitVariant
	landed  bool
}

// configExitVariant mirrors the tuning entry so states don't reach
// back into the config package type directly.
type configExitVariant struct {
	name        string
	clip        string
	duration    float64
	landingClip string
	landingAt   float64
}

func NewHomingExitState(p *Player) *HomingExitState {
	variants := p.cfg.Homing.ExitVariants
	var pick *configExitVariant
	if len(variants) > 0 {
		i := rand.Intn(len(variants))
		if variants[i].Name == p.lastHomingVariant && len(variants) > 1 {
			i = (i + 1) % len(variants)
		}
		v := variants[i]
		pick = &configExitVariant{
			name:        v.Name,
			clip:        v.Clip,
			duration:    v.Duration,
			landingClip: v.LandingClip,
			landingAt:   v.LandingAt,
		}
	}
	return &HomingExitState{p: p, variant: pick}
}

func (s *HomingExitState) Name() string                 { return "homing_exit" }
func (s *HomingExitState) BlocksLocomotion() BlockLevel { return BlockAll }

func (s *HomingExitState) Enter() {
	p := s.p
	v := p.body.Velocity()
	v[1] = p.cfg.Homing.BounceSpeed
	p.body.SetVelocity(v)
	if s.variant != nil {
		p.lastHomingVariant = s.variant.name
		p.animator.Play(s.variant.clip)
	}
}

func (s *HomingExitState) Exit(next fsm.State) {}

func (s *HomingExitState) LogicUpdate(dt float64) {
	p := s.p
	if s.variant == nil {
		_ = p.action.ChangeState(NewActionNoneState(p))
		return
	}
	if !s.landed && s.variant.landingClip != "" &&
		p.animator.NormalizedTime() >= s.variant.landingAt {
		s.landed = true
		p.animator.CrossFade(s.variant.landingClip, 0.05)
	}
	if p.action.TimeInState() >= s.variant.duration {
		_ = p.action.ChangeState(NewActionNoneState(p))
		return
	}
	// chain: an attack press mid-bounce restarts the homing search
	if p.input.Snapshot().AttackPressed && !p.Grounded() {
		if t := p.targets.NearestHoming(p.body.Position(), p.cfg.Homing.Range); t != nil {
			if p.TrySpendPressure(p.cfg.Homing.PressureCost) {
				_ = p.action.ChangeState(NewHomingAttackState(p, t))
			}
		}
	}
}

// PhysicsUpdate leaves the body alone: no override is live after the
// attack released its slots, so the locomotion machine owns gravity.
func (s *HomingExitState) PhysicsUpdate(dt float64) {}
