package player

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/railrunner/command"
	"github.com/milk9111/railrunner/config"
	"github.com/milk9111/railrunner/input"
	"github.com/milk9111/railrunner/physics"
	"github.com/milk9111/railrunner/rail"
	"github.com/milk9111/railrunner/target"
)

const testTick = 1.0 / 60.0

type testRig struct {
	p       *Player
	targets *target.Registry
	queue   *command.Queue
}

// newTestRig builds a player standing on a large flat floor, already
// grounded and idle.
func newTestRig(t *testing.T, rails ...*rail.Rail) *testRig {
	t.Helper()
	world := physics.NewWorld(physics.Box{
		Min: mgl64.Vec3{-100, -1, -100},
		Max: mgl64.Vec3{100, 0, 100},
	})
	body := physics.NewBody(world, mgl64.Vec3{})
	body.Step(testTick) // resolve initial ground contact

	targets := target.NewRegistry()
	queue := &command.Queue{}
	p, err := New(config.Default(), body, rails, targets, queue)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return &testRig{p: p, targets: targets, queue: queue}
}

func (r *testRig) tick(raw input.Raw) {
	r.p.Update(testTick, raw)
	r.p.PhysicsStep(testTick)
}

// tickUntil runs up to max ticks with the given raw input and stops when
// cond turns true. It reports whether cond was ever met.
func (r *testRig) tickUntil(raw input.Raw, max int, cond func() bool) bool {
	for i := 0; i < max; i++ {
		r.tick(raw)
		if cond() {
			return true
		}
	}
	return false
}

func TestMovementOverrideLastWriterWins(t *testing.T) {
	rig := newTestRig(t)
	p := rig.p

	p.RequestMovementOverride(mgl64.Vec3{1, 0, 0}, 1, true)
	p.RequestMovementOverride(mgl64.Vec3{0, 0, 5}, 1, true)

	if got := p.OverrideVelocity(); got != (mgl64.Vec3{0, 0, 5}) {
		t.Fatalf("override velocity = %v, want the second request", got)
	}

	rig.tick(input.Raw{})
	v := p.Body().Velocity()
	if v.X() != 0 || v.Z() == 0 {
		t.Fatalf("body velocity = %v, want motion from the winning override only", v)
	}
}

func TestMovementOverrideExpires(t *testing.T) {
	rig := newTestRig(t)
	p := rig.p

	p.RequestMovementOverride(mgl64.Vec3{0, 0, 5}, 3*testTick, true)
	if !p.HasMovementOverride() {
		t.Fatal("override not active after request")
	}

	expired := rig.tickUntil(input.Raw{}, 10, func() bool { return !p.HasMovementOverride() })
	if !expired {
		t.Fatal("override never expired")
	}

	// once expired, normal locomotion resumes control
	rig.tick(input.Raw{MoveZ: 1})
	if p.LocomotionStateName() != "move" {
		t.Fatalf("state = %q after expiry with input held, want move", p.LocomotionStateName())
	}
}

func TestSprintGatingWithoutPressure(t *testing.T) {
	rig := newTestRig(t)
	p := rig.p
	p.SetPressure(0)

	p.Update(testTick, input.Raw{MoveZ: 1, Sprint: true})

	if got := p.LocomotionStateName(); got != "move" {
		t.Fatalf("state = %q, want move fallback when sprint is unaffordable", got)
	}
	if p.Pressure() != 0 {
		t.Fatalf("pressure = %v, want untouched 0", p.Pressure())
	}
}

func TestDashSpendIsAllOrNothing(t *testing.T) {
	rig := newTestRig(t)
	p := rig.p
	p.SetPressure(0)

	rig.tick(input.Raw{Dash: true})
	if got := p.LocomotionStateName(); got == "dash" {
		t.Fatal("entered dash with no pressure")
	}
	if p.DashCharges() != p.Tuning().Dash.MaxCharges {
		t.Fatalf("charges = %d, want untouched %d", p.DashCharges(), p.Tuning().Dash.MaxCharges)
	}

	p.SetPressure(p.Tuning().Pressure.Max)
	rig.tick(input.Raw{}) // clear the dash edge
	rig.tick(input.Raw{Dash: true})
	if got := p.LocomotionStateName(); got != "dash" {
		t.Fatalf("state = %q, want dash once affordable", got)
	}
	if p.DashCharges() != p.Tuning().Dash.MaxCharges-1 {
		t.Fatalf("charges = %d, want one consumed", p.DashCharges())
	}
}

func TestJumpApexEntersFallExactlyOnce(t *testing.T) {
	rig := newTestRig(t)
	p := rig.p

	rig.tick(input.Raw{Jump: true})
	if got := p.LocomotionStateName(); got != "jump" {
		t.Fatalf("state = %q after jump press, want jump", got)
	}

	var names []string
	for i := 0; i < 300; i++ {
		rig.tick(input.Raw{})
		names = append(names, p.LocomotionStateName())
		if p.LocomotionStateName() == "idle" {
			break
		}
	}

	// the arc must read jump.. fall.. land.. idle with no regressions
	fallRuns := 0
	for i, n := range names {
		if n == "fall" && (i == 0 || names[i-1] != "fall") {
			fallRuns++
		}
		if n == "jump" && i > 0 && names[i-1] != "jump" {
			t.Fatalf("re-entered jump mid-arc at tick %d: %v", i, names)
		}
	}
	if fallRuns != 1 {
		t.Fatalf("fall entered %d times during the arc, want exactly once: %v", fallRuns, names)
	}
	if names[len(names)-1] != "idle" {
		t.Fatalf("arc never settled back to idle: %v", names)
	}
}

func TestDashReturnsToRequester(t *testing.T) {
	rig := newTestRig(t)
	p := rig.p

	held := input.Raw{MoveZ: 1}
	rig.tick(held)
	if got := p.LocomotionStateName(); got != "move" {
		t.Fatalf("state = %q, want move before dashing", got)
	}

	rig.tick(input.Raw{MoveZ: 1, Dash: true})
	if got := p.LocomotionStateName(); got != "dash" {
		t.Fatalf("state = %q, want dash", got)
	}

	returned := rig.tickUntil(held, 60, func() bool { return p.LocomotionStateName() == "move" })
	if !returned {
		t.Fatalf("state = %q after dash ended, want move again", p.LocomotionStateName())
	}
}

func TestGrindDetachesAtRailEnd(t *testing.T) {
	r, err := rail.New(mgl64.Vec3{0, 2, 0}, mgl64.Vec3{6, 2, 0})
	if err != nil {
		t.Fatalf("rail.New: %v", err)
	}
	rig := newTestRig(t, r)
	p := rig.p

	p.Body().SetPosition(mgl64.Vec3{0.5, 2, 0})
	p.Body().SetVelocity(mgl64.Vec3{4, 0, 0})
	p.AttachToRail(r)
	if got := p.LocomotionStateName(); got != "grind" {
		t.Fatalf("state = %q after attach, want grind", got)
	}

	detached := rig.tickUntil(input.Raw{}, 600, func() bool { return p.LocomotionStateName() == "fall" })
	if !detached {
		t.Fatalf("state = %q, never detached into fall", p.LocomotionStateName())
	}
	if v := p.Body().Velocity(); v.X() <= 0 {
		t.Fatalf("exit velocity = %v, want forward momentum carried off the rail", v)
	}
}

func TestGrindJumpDismount(t *testing.T) {
	r, err := rail.New(mgl64.Vec3{0, 2, 0}, mgl64.Vec3{20, 2, 0})
	if err != nil {
		t.Fatalf("rail.New: %v", err)
	}
	rig := newTestRig(t, r)
	p := rig.p

	p.Tuning().Grind.JumpSpeed = 18 // well above the standard jump speed

	p.Body().SetPosition(mgl64.Vec3{1, 2, 0})
	p.AttachToRail(r)
	rig.tick(input.Raw{})

	rig.tick(input.Raw{Jump: true})
	if got := p.LocomotionStateName(); got != "jump" {
		t.Fatalf("state = %q after jump on rail, want jump", got)
	}
	if v := p.Body().Velocity(); v.Y() < 15 {
		t.Fatalf("velocity = %v, want the rail's own launch speed, not the standard jump", v)
	}
	if v := p.Body().Velocity(); v.X() <= 0 {
		t.Fatalf("velocity = %v, want rail momentum carried into the dismount", v)
	}
}

func TestHomingAttackGatingWithoutPressure(t *testing.T) {
	rig := newTestRig(t)
	p := rig.p

	rig.targets.Add(target.NewDummy(mgl64.Vec3{5, 5, 0}))
	p.Body().SetPosition(mgl64.Vec3{0, 5, 0})
	rig.tick(input.Raw{}) // leave the ground
	p.SetPressure(0)

	rig.tick(input.Raw{Attack: true})
	if got := p.ActionStateName(); got != "action_none" {
		t.Fatalf("action = %q, want silent abort with no pressure", got)
	}
	if p.Pressure() != 0 {
		t.Fatalf("pressure = %v, want untouched 0", p.Pressure())
	}
}

func TestHomingAttackAbortsWhenTargetDies(t *testing.T) {
	rig := newTestRig(t)
	p := rig.p

	dummy := target.NewDummy(mgl64.Vec3{10, 8, 0})
	rig.targets.Add(dummy)
	p.Body().SetPosition(mgl64.Vec3{0, 8, 0})
	rig.tick(input.Raw{}) // leave the ground

	rig.tick(input.Raw{Attack: true})
	if got := p.ActionStateName(); got != "homing_attack" {
		t.Fatalf("action = %q, want homing_attack", got)
	}

	dummy.Alive = false
	rig.tick(input.Raw{})
	if got := p.ActionStateName(); got != "action_none" {
		t.Fatalf("action = %q after target died, want action_none", got)
	}
	if p.HasMovementOverride() || p.HasRotationOverride() {
		t.Fatal("overrides still held after aborting the attack")
	}
}

func TestHomingAttackHitsAndExits(t *testing.T) {
	rig := newTestRig(t)
	p := rig.p

	dummy := target.NewDummy(mgl64.Vec3{6, 8, 0})
	rig.targets.Add(dummy)
	p.Body().SetPosition(mgl64.Vec3{0, 8, 0})
	rig.tick(input.Raw{})

	rig.tick(input.Raw{Attack: true})
	hit := rig.tickUntil(input.Raw{}, 120, func() bool { return dummy.HomingHits > 0 })
	if !hit {
		t.Fatal("homing attack never connected")
	}

	exited := rig.tickUntil(input.Raw{}, 60, func() bool { return p.ActionStateName() == "homing_exit" })
	if !exited {
		t.Fatalf("action = %q after hit stop, want homing_exit", p.ActionStateName())
	}
	if v := p.Body().Velocity(); v.Y() <= 0 {
		t.Fatalf("velocity = %v, want upward bounce out of the hit", v)
	}

	settled := rig.tickUntil(input.Raw{}, 180, func() bool { return p.ActionStateName() == "action_none" })
	if !settled {
		t.Fatalf("action = %q, never settled after the exit pose", p.ActionStateName())
	}
}

func TestHomingExitFallsAtConfiguredGravity(t *testing.T) {
	rig := newTestRig(t)
	p := rig.p

	dummy := target.NewDummy(mgl64.Vec3{6, 12, 0})
	rig.targets.Add(dummy)
	p.Body().SetPosition(mgl64.Vec3{0, 12, 0})
	rig.tick(input.Raw{})

	rig.tick(input.Raw{Attack: true})
	exited := rig.tickUntil(input.Raw{}, 120, func() bool { return p.ActionStateName() == "homing_exit" })
	if !exited {
		t.Fatal("never reached the exit pose")
	}

	v0 := p.Body().Velocity().Y()
	rig.tick(input.Raw{})
	if got := p.ActionStateName(); got != "homing_exit" {
		t.Fatalf("action = %q mid-measurement, want homing_exit", got)
	}
	v1 := p.Body().Velocity().Y()

	accel := (v0 - v1) / testTick
	if want := p.Tuning().Gravity.Accel; math.Abs(accel-want) > 0.5 {
		t.Fatalf("vertical accel = %.1f during the exit pose, want gravity %.1f applied once", accel, want)
	}
}

func TestHomingHitOnRailEndAttaches(t *testing.T) {
	r, err := rail.New(mgl64.Vec3{8, 6, 0}, mgl64.Vec3{20, 6, 0})
	if err != nil {
		t.Fatalf("rail.New: %v", err)
	}
	rig := newTestRig(t, r)
	p := rig.p

	rig.targets.Add(&target.RailEnd{
		Pos:    mgl64.Vec3{8, 6, 0},
		Attach: func(mgl64.Vec3) { p.AttachToRail(r) },
	})
	p.Body().SetPosition(mgl64.Vec3{0, 8, 0})
	rig.tick(input.Raw{})

	rig.tick(input.Raw{Attack: true})
	if got := p.ActionStateName(); got != "homing_attack" {
		t.Fatalf("action = %q, want homing_attack", got)
	}

	attached := rig.tickUntil(input.Raw{}, 120, func() bool { return p.LocomotionStateName() == "grind" })
	if !attached {
		t.Fatalf("state = %q, never attached to the rail", p.LocomotionStateName())
	}
	if got := p.ActionStateName(); got != "action_none" {
		t.Fatalf("action = %q while grinding, want action_none", got)
	}
}

func TestParrySequence(t *testing.T) {
	rig := newTestRig(t)
	p := rig.p

	dummy := target.NewDummy(mgl64.Vec3{3, 0, 0})
	dummy.ParryWindow = true
	rig.targets.Add(dummy)

	before := p.Pressure()
	rig.tick(input.Raw{Attack: true})
	if got := p.ActionStateName(); got != "parry_attack" {
		t.Fatalf("action = %q, want parry_attack", got)
	}
	if p.Pressure() >= before {
		t.Fatal("parry entry spent no pressure")
	}

	struck := rig.tickUntil(input.Raw{}, 120, func() bool { return dummy.Parries > 0 })
	if !struck {
		t.Fatal("parry never struck the target")
	}

	settled := rig.tickUntil(input.Raw{}, 120, func() bool { return p.ActionStateName() == "action_none" })
	if !settled {
		t.Fatalf("action = %q, never recovered after the strike", p.ActionStateName())
	}

	// the slow-mo must have been wound back by the end of the sequence
	var scales []float64
	for _, c := range rig.queue.Drain() {
		if c.Kind == command.KindTimeScale {
			scales = append(scales, c.Amount)
		}
	}
	if len(scales) == 0 || scales[len(scales)-1] != 1 {
		t.Fatalf("time scale commands = %v, want the last to restore 1", scales)
	}
}

func TestParryWinsOverHomingOnSharedPress(t *testing.T) {
	rig := newTestRig(t)
	p := rig.p

	parryable := target.NewDummy(mgl64.Vec3{2, 8, 0})
	parryable.ParryWindow = true
	rig.targets.Add(parryable)
	rig.targets.Add(target.NewDummy(mgl64.Vec3{4, 8, 0}))

	p.Body().SetPosition(mgl64.Vec3{0, 8, 0})
	rig.tick(input.Raw{}) // airborne: both attacks are plausible

	rig.tick(input.Raw{Attack: true})
	if got := p.ActionStateName(); got != "parry_attack" {
		t.Fatalf("action = %q, want parry to outrank homing", got)
	}
}

func TestInhaleRestoresPressure(t *testing.T) {
	rig := newTestRig(t)
	p := rig.p
	p.SetPressure(10)

	rig.tick(input.Raw{Crouch: true})
	if got := p.LocomotionStateName(); got != "crouch" {
		t.Fatalf("state = %q, want crouch", got)
	}

	rig.tick(input.Raw{Crouch: true, Attack: true})
	if got := p.ActionStateName(); got != "inhale" {
		t.Fatalf("action = %q, want inhale", got)
	}

	done := rig.tickUntil(input.Raw{Crouch: true}, 120, func() bool {
		return p.ActionStateName() == "action_none"
	})
	if !done {
		t.Fatal("inhale never completed")
	}
	if p.Pressure() <= 10 {
		t.Fatalf("pressure = %v, want gain from the inhale", p.Pressure())
	}
}

func TestCoyoteJumpAfterLeavingLedge(t *testing.T) {
	rig := newTestRig(t)
	p := rig.p

	// walk off: teleport past the floor edge; ground contact resolves on
	// the next step, the state notices one tick later
	p.Body().SetPosition(mgl64.Vec3{150, 0, 0})
	rig.tick(input.Raw{})
	rig.tick(input.Raw{})
	if got := p.LocomotionStateName(); got != "fall" {
		t.Fatalf("state = %q off the ledge, want fall", got)
	}

	rig.tick(input.Raw{Jump: true})
	if got := p.LocomotionStateName(); got != "jump" {
		t.Fatalf("state = %q, want coyote window to allow the jump", got)
	}
}

func TestJumpBufferFiresOnLanding(t *testing.T) {
	rig := newTestRig(t)
	p := rig.p

	p.Body().SetPosition(mgl64.Vec3{0, 3, 0})
	rig.tick(input.Raw{})
	rig.tick(input.Raw{})
	for i := 0; i < 60 && p.CanJump(); i++ {
		rig.tick(input.Raw{}) // burn through the coyote window
	}
	for i := 0; i < 60 && p.Body().Position().Y() > 0.5; i++ {
		rig.tick(input.Raw{}) // fall until just above the floor
	}

	rig.tick(input.Raw{Jump: true}) // buffered: too late for coyote
	if got := p.LocomotionStateName(); got == "jump" {
		t.Fatal("jumped mid-air outside the coyote window")
	}

	jumped := rig.tickUntil(input.Raw{}, 60, func() bool { return p.LocomotionStateName() == "jump" })
	if !jumped {
		t.Fatalf("state = %q, buffered jump never fired on landing", p.LocomotionStateName())
	}
}

func TestSprintDrainsPressureAndFallsBack(t *testing.T) {
	rig := newTestRig(t)
	p := rig.p
	p.SetPressure(1)

	held := input.Raw{MoveZ: 1, Sprint: true}
	rig.tick(held)
	if got := p.LocomotionStateName(); got != "sprint" {
		t.Fatalf("state = %q, want sprint", got)
	}

	exhausted := rig.tickUntil(held, 600, func() bool { return p.LocomotionStateName() == "move" })
	if !exhausted {
		t.Fatalf("state = %q, sprint never fell back to move on empty pressure", p.LocomotionStateName())
	}
}
