// Package player is the character controller core: one Player context
// owning two state machines (locomotion and actions), the movement and
// rotation override slots, and the pressure/dash resources the states
// gate on.
package player

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/railrunner/anim"
	"github.com/milk9111/railrunner/command"
	"github.com/milk9111/railrunner/config"
	"github.com/milk9111/railrunner/fsm"
	"github.com/milk9111/railrunner/input"
	"github.com/milk9111/railrunner/physics"
	"github.com/milk9111/railrunner/rail"
	"github.com/milk9111/railrunner/target"
)

// LocomotionType classifies locomotion states for blocking decisions.
type LocomotionType int

const (
	LocomotionNone LocomotionType = iota
	LocomotionMove
	LocomotionCrouch
	LocomotionSprint
	LocomotionFall
	LocomotionFastFall
	LocomotionDash
	LocomotionGrind
	LocomotionDashPanel
	LocomotionPathFollow
)

// LocomotionState is a locomotion-machine state.
type LocomotionState interface {
	fsm.State
	LocomotionType() LocomotionType
}

// BlockLevel describes how much locomotion an action suppresses.
type BlockLevel int

const (
	BlockNone BlockLevel = iota
	BlockAll
)

// ActionState is an action-machine state.
type ActionState interface {
	fsm.State
	BlocksLocomotion() BlockLevel
}

// Player is the single mutable context both machines share. All access
// happens on the sim tick; there is no locking.
type Player struct {
	cfg *config.Tuning

	body     *physics.Body
	input    *input.Controller
	animator *anim.Animator
	targets  *target.Registry
	rails    []*rail.Rail
	commands *command.Queue

	locomotion *fsm.Machine
	action     *fsm.Machine

	move movementOverride
	rot  rotationOverride

	pressure     float64
	dashCharges  int
	dashRecharge float64

	airSprintUsed     bool
	timeSinceGrounded float64
	jumpBuffer        float64

	lastHomingVariant string
}

// New builds a player over its collaborators and initializes both
// machines (locomotion in Idle, actions in ActionNone).
func New(cfg *config.Tuning, body *physics.Body, rails []*rail.Rail, targets *target.Registry, commands *command.Queue) (*Player, error) {
	p := &Player{
		cfg:      cfg,
		body:     body,
		input:    input.NewController(),
		animator: anim.NewAnimator(cfg.Clips),
		targets:  targets,
		rails:    rails,
		commands: commands,

		locomotion: fsm.NewMachine(),
		action:     fsm.NewMachine(),

		pressure:    cfg.Pressure.Max,
		dashCharges: cfg.Dash.MaxCharges,
	}
	if err := p.locomotion.Initialize(NewIdleState(p)); err != nil {
		return nil, err
	}
	if err := p.action.Initialize(NewActionNoneState(p)); err != nil {
		return nil, err
	}
	return p, nil
}

// SetTuning swaps the live tuning (hot reload). Clip lengths follow.
func (p *Player) SetTuning(cfg *config.Tuning) {
	p.cfg = cfg
	p.animator = anim.NewAnimator(cfg.Clips)
}

// Update runs one variable-rate logic tick. The action machine always
// updates before the locomotion machine: an action writes its override
// first, locomotion reads it afterwards in the same tick. That ordering
// is what keeps the single-slot override safe.
func (p *Player) Update(dt float64, raw input.Raw) {
	p.tickOverrides(dt)
	if p.jumpBuffer > 0 {
		p.jumpBuffer -= dt
	}

	p.input.Feed(raw)

	p.action.LogicUpdate(dt)
	p.locomotion.LogicUpdate(dt)

	p.animator.Update(dt)
}

// PhysicsStep runs one fixed-rate physics tick, action machine first,
// then integrates the body.
func (p *Player) PhysicsStep(dt float64) {
	p.action.PhysicsUpdate(dt)
	p.locomotion.PhysicsUpdate(dt)

	p.applyRotation(dt)
	p.body.Step(dt)

	if p.body.Grounded() {
		p.timeSinceGrounded = 0
		p.airSprintUsed = false
		p.rechargeDash(dt)
		p.regenPressure(dt)
	} else {
		p.timeSinceGrounded += dt
	}
}

// Body returns the kinematic body collaborator.
func (p *Player) Body() *physics.Body { return p.body }

// Input returns the input controller states subscribe to.
func (p *Player) Input() *input.Controller { return p.input }

// Animator returns the animation collaborator.
func (p *Player) Animator() *anim.Animator { return p.animator }

// Targets returns the combat target registry.
func (p *Player) Targets() *target.Registry { return p.targets }

// Commands returns the presentation command queue.
func (p *Player) Commands() *command.Queue { return p.commands }

// Tuning returns the live tuning.
func (p *Player) Tuning() *config.Tuning { return p.cfg }

// Locomotion returns the locomotion machine (debug overlays, tests).
func (p *Player) Locomotion() *fsm.Machine { return p.locomotion }

// Action returns the action machine (debug overlays, tests).
func (p *Player) Action() *fsm.Machine { return p.action }

// LocomotionStateName is the active locomotion state's name.
func (p *Player) LocomotionStateName() string { return p.locomotion.CurrentName() }

// ActionStateName is the active action state's name.
func (p *Player) ActionStateName() string { return p.action.CurrentName() }

// LocomotionBlocked reports whether the active action suppresses
// locomotion input processing.
func (p *Player) LocomotionBlocked() bool {
	if as, ok := p.action.Current().(ActionState); ok {
		return as.BlocksLocomotion() == BlockAll
	}
	return false
}

// subscribeLocomotion registers a locomotion edge handler that goes
// quiet while an action is exclusive.
func (p *Player) subscribeLocomotion(edge input.Edge, fn func()) input.Handle {
	return p.input.Subscribe(edge, func() {
		if p.LocomotionBlocked() {
			return
		}
		fn()
	})
}

// Grounded is a convenience passthrough for states.
func (p *Player) Grounded() bool { return p.body.Grounded() }

// CanJump allows a jump while grounded or within the coyote window just
// after walking off an edge.
func (p *Player) CanJump() bool {
	return p.body.Grounded() || p.timeSinceGrounded < p.cfg.Jump.CoyoteTime
}

func (p *Player) bufferJump()        { p.jumpBuffer = p.cfg.Jump.BufferTime }
func (p *Player) jumpBuffered() bool { return p.jumpBuffer > 0 }
func (p *Player) clearJumpBuffer()   { p.jumpBuffer = 0 }

// MoveDirection returns the world-space input direction, zero below the
// deadzone.
func (p *Player) MoveDirection() mgl64.Vec3 {
	snap := p.input.Snapshot()
	dir := mgl64.Vec3{snap.MoveX, 0, snap.MoveZ}
	if dir.Len() < p.cfg.Move.Deadzone {
		return mgl64.Vec3{}
	}
	if dir.Len() > 1 {
		dir = dir.Normalize()
	}
	return dir
}

// HasMoveInput reports movement input above the deadzone.
func (p *Player) HasMoveInput() bool {
	return p.MoveDirection().Len() > 0
}

// steerHorizontal accelerates the horizontal velocity toward
// direction*targetSpeed using the damping/force model.
func (p *Player) steerHorizontal(dt, targetSpeed, accel float64) {
	desired := p.adviseVelocity(p.MoveDirection().Mul(targetSpeed))
	diff := desired.Sub(p.body.HorizontalVelocity())
	p.body.AddGroundForce(diff.Mul(accel), dt)
}

// brakeHorizontal moves horizontal speed toward zero at decel.
func (p *Player) brakeHorizontal(dt, decel float64) {
	h := p.body.HorizontalVelocity()
	speed := h.Len()
	if speed == 0 {
		return
	}
	next := speed - decel*dt
	if next < 0 {
		next = 0
	}
	p.body.SetHorizontalVelocity(h.Mul(next / speed))
}

// applyGravity accelerates downward, clamped to the terminal speed.
// States own gravity: only air states call this.
func (p *Player) applyGravity(dt float64) {
	v := p.body.Velocity()
	v[1] -= p.cfg.Gravity.Accel * dt
	if v[1] < -p.cfg.Gravity.MaxFallSpeed {
		v[1] = -p.cfg.Gravity.MaxFallSpeed
	}
	p.body.SetVelocity(v)
}

// Pressure returns the current action resource.
func (p *Player) Pressure() float64 { return p.pressure }

// SetPressure clamps into [0, max].
func (p *Player) SetPressure(v float64) {
	p.pressure = mgl64.Clamp(v, 0, p.cfg.Pressure.Max)
}

// TrySpendPressure consumes cost when available. On failure the value is
// left untouched so a gated attempt has no side effect.
func (p *Player) TrySpendPressure(cost float64) bool {
	if p.pressure < cost {
		return false
	}
	p.pressure -= cost
	return true
}

func (p *Player) regenPressure(dt float64) {
	switch p.currentLocomotionType() {
	case LocomotionSprint, LocomotionDash, LocomotionGrind, LocomotionDashPanel:
		return
	}
	p.SetPressure(p.pressure + p.cfg.Pressure.RegenPerSecond*dt)
}

func (p *Player) currentLocomotionType() LocomotionType {
	if ls, ok := p.locomotion.Current().(LocomotionState); ok {
		return ls.LocomotionType()
	}
	return LocomotionNone
}

// CanSprint reports whether there is any pressure left to burn.
func (p *Player) CanSprint() bool {
	return p.pressure > 0
}

// DashCharges returns the remaining dash charges.
func (p *Player) DashCharges() int { return p.dashCharges }

// CanDash reports whether a dash attempt would succeed.
func (p *Player) CanDash() bool {
	return p.dashCharges > 0 && p.pressure >= p.cfg.Dash.PressureCost
}

// tryConsumeDash spends one charge plus the pressure cost, or nothing.
func (p *Player) tryConsumeDash() bool {
	if !p.CanDash() {
		return false
	}
	if !p.TrySpendPressure(p.cfg.Dash.PressureCost) {
		return false
	}
	p.dashCharges--
	return true
}

func (p *Player) rechargeDash(dt float64) {
	if p.dashCharges >= p.cfg.Dash.MaxCharges {
		p.dashRecharge = 0
		return
	}
	p.dashRecharge += dt
	if p.dashRecharge >= p.cfg.Dash.RechargeTime {
		p.dashRecharge = 0
		p.dashCharges++
	}
}

// FindRailNear returns the closest rail whose nearest point is within
// maxDist of pos, nil when none.
func (p *Player) FindRailNear(pos mgl64.Vec3, maxDist float64) *rail.Rail {
	var best *rail.Rail
	bestDist := maxDist
	for _, r := range p.rails {
		sample, _, _ := r.PositionAndTangent(r.ClosestDistance(pos))
		d := sample.Sub(pos).Len()
		if d <= bestDist {
			best = r
			bestDist = d
		}
	}
	return best
}

// AttachToRail hot-swaps the locomotion machine into Grind. It performs
// the outgoing state's cleanup itself because ForceSetState skips Exit.
func (p *Player) AttachToRail(r *rail.Rail) {
	if r == nil {
		return
	}
	// leave any in-flight attack so it doesn't fight the rail for the
	// override slot
	if _, ok := p.action.Current().(*HomingAttackState); ok {
		_ = p.action.ChangeState(NewActionNoneState(p))
	}
	g := NewGrindState(p, r)
	if cur := p.locomotion.Current(); cur != nil {
		cur.Exit(g)
	}
	p.ClearMovementOverride()
	p.ClearRotationOverride()
	_ = p.locomotion.ForceSetState(g)
	g.Enter()
}

// TriggerDashPanel launches the player down a dash-panel strip. Same
// force-swap shape as AttachToRail.
func (p *Player) TriggerDashPanel(r *rail.Rail) {
	if r == nil {
		return
	}
	if _, ok := p.locomotion.Current().(*DashPanelState); ok {
		return
	}
	s := NewDashPanelState(p, r)
	if cur := p.locomotion.Current(); cur != nil {
		cur.Exit(s)
	}
	p.ClearMovementOverride()
	p.ClearRotationOverride()
	_ = p.locomotion.ForceSetState(s)
	s.Enter()
}

// StartPathFollow walks the player along a scripted path from its start.
func (p *Player) StartPathFollow(r *rail.Rail) {
	if r == nil {
		return
	}
	s := NewPathFollowState(p, r)
	if cur := p.locomotion.Current(); cur != nil {
		cur.Exit(s)
	}
	p.ClearMovementOverride()
	p.ClearRotationOverride()
	_ = p.locomotion.ForceSetState(s)
	s.Enter()
}

// faceQuat builds a yaw-only orientation looking along dir.
func faceQuat(dir mgl64.Vec3) mgl64.Quat {
	yaw := math.Atan2(dir.X(), dir.Z())
	return mgl64.QuatRotate(yaw, mgl64.Vec3{0, 1, 0})
}

// applyRotation turns the body toward its target orientation. An
// exclusive rotation override wins over steering-to-input; non-exclusive
// overrides only win when there is no input to steer from.
func (p *Player) applyRotation(dt float64) {
	var targetRot mgl64.Quat
	switch {
	case p.IsRotationOverrideExclusive():
		targetRot = p.rot.target
	case p.HasMoveInput():
		targetRot = faceQuat(p.MoveDirection())
	case p.HasRotationOverride():
		targetRot = p.rot.target
	default:
		return
	}

	rate := p.cfg.Rotation.GroundTurnRate
	if !p.body.Grounded() {
		rate = p.cfg.Rotation.AirTurnRate
	}
	t := mgl64.Clamp(rate*dt, 0, 1)
	p.body.SetRotation(mgl64.QuatSlerp(p.body.Rotation(), targetRot, t))
}
