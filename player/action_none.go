package player

import (
	"github.com/milk9111/railrunner/fsm"
	"github.com/milk9111/railrunner/input"
)

// ActionNoneState is the action machine's rest state. It owns the
// attack edge and decides which attack (if any) fires.
type ActionNoneState struct {
	p    *Player
	subs []input.Handle
}

func NewActionNoneState(p *Player) *ActionNoneState { return &ActionNoneState{p: p} }

func (s *ActionNoneState) Name() string                 { return "action_none" }
func (s *ActionNoneState) BlocksLocomotion() BlockLevel { return BlockNone }

func (s *ActionNoneState) Enter() {
	p := s.p
	s.subs = append(s.subs, p.input.Subscribe(input.EdgeAttack, func() {
		s.tryAttack()
	}))
}

func (s *ActionNoneState) Exit(next fsm.State) {
	for _, h := range s.subs {
		s.p.input.Unsubscribe(h)
	}
}

// tryAttack picks parry over homing over inhale. A failed pressure
// spend aborts the whole press; it never falls through to a cheaper
// attack.
func (s *ActionNoneState) tryAttack() {
	p := s.p
	pos := p.body.Position()

	if t := p.targets.NearestParryable(pos, p.cfg.Parry.Range); t != nil {
		if p.TrySpendPressure(p.cfg.Parry.PressureCost) {
			_ = p.action.ChangeState(NewParryAttackState(p, t))
		}
		return
	}

	if !p.Grounded() {
		if t := p.targets.NearestHoming(pos, p.cfg.Homing.Range); t != nil {
			if p.TrySpendPressure(p.cfg.Homing.PressureCost) {
				_ = p.action.ChangeState(NewHomingAttackState(p, t))
			}
			return
		}
	}

	if p.currentLocomotionType() == LocomotionCrouch {
		_ = p.action.ChangeState(NewInhaleState(p))
	}
}

func (s *ActionNoneState) LogicUpdate(dt float64)   {}
func (s *ActionNoneState) PhysicsUpdate(dt float64) {}

// InhaleState builds pressure while crouched. It does not block
// locomotion; leaving the crouch cancels the inhale early with no gain.
type InhaleState struct {
	p *Player
}

func NewInhaleState(p *Player) *InhaleState { return &InhaleState{p: p} }

func (s *InhaleState) Name() string                 { return "inhale" }
func (s *InhaleState) BlocksLocomotion() BlockLevel { return BlockNone }

func (s *InhaleState) Enter() {
	s.p.animator.Trigger("inhale")
	s.p.commands.PlaySFX("inhale")
}

func (s *InhaleState) Exit(next fsm.State) {}

func (s *InhaleState) LogicUpdate(dt float64) {
	p := s.p
	if p.currentLocomotionType() != LocomotionCrouch {
		_ = p.action.ChangeState(NewActionNoneState(p))
		return
	}
	if p.action.TimeInState() >= p.cfg.Inhale.Duration {
		p.SetPressure(p.Pressure() + p.cfg.Inhale.PressureGain)
		p.commands.PlaySFX("inhale_done")
		_ = p.action.ChangeState(NewActionNoneState(p))
	}
}

func (s *InhaleState) PhysicsUpdate(dt float64) {}
