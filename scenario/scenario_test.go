package scenario

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/railrunner/command"
	"github.com/milk9111/railrunner/config"
	"github.com/milk9111/railrunner/physics"
	"github.com/milk9111/railrunner/player"
	"github.com/milk9111/railrunner/target"
)

const testTick = 1.0 / 60.0

func newScenarioPlayer(t *testing.T) *player.Player {
	t.Helper()
	world := physics.NewWorld(physics.Box{
		Min: mgl64.Vec3{-500, -1, -500},
		Max: mgl64.Vec3{500, 0, 500},
	})
	body := physics.NewBody(world, mgl64.Vec3{})
	body.Step(testTick)

	p, err := player.New(config.Default(), body, nil, target.NewRegistry(), &command.Queue{})
	if err != nil {
		t.Fatalf("player.New: %v", err)
	}
	return p
}

func TestRunnerDrivesPlayer(t *testing.T) {
	p := newScenarioPlayer(t)

	script := []byte(`
tick := func(engine, state, tick, time) {
	if time < 0.5 {
		engine.move(0.0, 1.0)
	} else {
		engine.done()
	}
}
`)
	r, err := New(script, p)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	for i := 0; i < 120 && !r.Done(); i++ {
		raw, err := r.Step(testTick)
		if err != nil {
			t.Fatalf("Step: %v", err)
		}
		p.Update(testTick, raw)
		p.PhysicsStep(testTick)
	}

	if !r.Done() {
		t.Fatal("scenario never finished")
	}
	if z := p.Body().Position().Z(); z <= 0.5 {
		t.Fatalf("position z = %v, want forward travel from held input", z)
	}
}

func TestRunnerStatePersistsAcrossTicks(t *testing.T) {
	p := newScenarioPlayer(t)

	script := []byte(`
tick := func(engine, state, tick, time) {
	if is_undefined(state.count) {
		state.count = 0
	}
	state.count += 1
	if state.count >= 3 {
		engine.done()
	}
}
`)
	r, err := New(script, p)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	steps := 0
	for i := 0; i < 10 && !r.Done(); i++ {
		if _, err := r.Step(testTick); err != nil {
			t.Fatalf("Step: %v", err)
		}
		steps++
	}
	if steps != 3 {
		t.Fatalf("ran %d steps, want the state counter to stop it at 3", steps)
	}
}

func TestRunnerReadsPlayerState(t *testing.T) {
	p := newScenarioPlayer(t)

	script := []byte(`
tick := func(engine, state, tick, time) {
	if engine.locomotion() == "idle" && engine.grounded() {
		engine.done()
	}
}
`)
	r, err := New(script, p)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := r.Step(testTick); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if !r.Done() {
		t.Fatal("script could not observe the idle grounded player")
	}
}

func TestRunnerCompileError(t *testing.T) {
	p := newScenarioPlayer(t)
	if _, err := New([]byte(`tick := func(`), p); err == nil {
		t.Fatal("expected a compile error")
	}
}

func TestBuiltinScriptsCompile(t *testing.T) {
	p := newScenarioPlayer(t)
	src, err := LoadBuiltin("playground")
	if err != nil {
		t.Fatalf("LoadBuiltin: %v", err)
	}
	if _, err := New(src, p); err != nil {
		t.Fatalf("New: %v", err)
	}
}
