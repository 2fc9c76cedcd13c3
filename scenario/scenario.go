// Package scenario runs scripted input sequences against a player for
// headless playback: repro cases, tuning checks, demo runs. Scripts are
// tengo; each sim tick the script's tick function decides what the
// virtual controller holds down.
package scenario

import (
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"

	"github.com/milk9111/railrunner/input"
	"github.com/milk9111/railrunner/player"
)

// tickDispatchScript is appended to every scenario so the host can call
// the script's tick function with fresh globals each step.
const tickDispatchScript = `
tick(__engine, __state, __tick, __time)
`

// Runner owns one compiled scenario and the player it drives.
type Runner struct {
	compiled  *tengo.Compiled
	stateData *tengo.Map
	player    *player.Player

	raw  input.Raw
	done bool
	tick int
	time float64
}

// New compiles a scenario script. The script must define
// tick(engine, state, tick, time).
func New(src []byte, p *player.Player) (*Runner, error) {
	if p == nil {
		return nil, fmt.Errorf("scenario: nil player")
	}

	script := tengo.NewScript(append(append([]byte{}, src...), tickDispatchScript...))
	_ = script.Add("__engine", map[string]any{})
	_ = script.Add("__state", map[string]any{})
	_ = script.Add("__tick", 0)
	_ = script.Add("__time", 0.0)
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("scenario: compile: %w", err)
	}

	return &Runner{
		compiled:  compiled,
		stateData: &tengo.Map{Value: map[string]tengo.Object{}},
		player:    p,
	}, nil
}

// Done reports whether the script called done().
func (r *Runner) Done() bool { return r.done }

// Step runs one script tick and returns the controller state the script
// chose for it. After Done the controller reads neutral.
func (r *Runner) Step(dt float64) (input.Raw, error) {
	if r.done {
		return input.Raw{}, nil
	}

	r.raw = input.Raw{}
	if err := r.compiled.Set("__engine", r.buildEngine()); err != nil {
		return input.Raw{}, err
	}
	if err := r.compiled.Set("__state", r.stateData); err != nil {
		return input.Raw{}, err
	}
	if err := r.compiled.Set("__tick", r.tick); err != nil {
		return input.Raw{}, err
	}
	if err := r.compiled.Set("__time", r.time); err != nil {
		return input.Raw{}, err
	}
	if err := r.compiled.Run(); err != nil {
		return input.Raw{}, fmt.Errorf("scenario: tick %d: %w", r.tick, err)
	}

	r.tick++
	r.time += dt
	return r.raw, nil
}

// buildEngine exposes the virtual controller and read-only player state
// to the script.
func (r *Runner) buildEngine() *tengo.ImmutableMap {
	values := map[string]tengo.Object{}

	values["move"] = &tengo.UserFunction{Name: "move", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) >= 1 {
			r.raw.MoveX = objectAsFloat(args[0])
		}
		if len(args) >= 2 {
			r.raw.MoveZ = objectAsFloat(args[1])
		}
		return tengo.UndefinedValue, nil
	}}
	values["jump"] = r.buttonFunc("jump", &r.raw.Jump)
	values["attack"] = r.buttonFunc("attack", &r.raw.Attack)
	values["sprint"] = r.buttonFunc("sprint", &r.raw.Sprint)
	values["dash"] = r.buttonFunc("dash", &r.raw.Dash)
	values["crouch"] = r.buttonFunc("crouch", &r.raw.Crouch)

	values["done"] = &tengo.UserFunction{Name: "done", Value: func(args ...tengo.Object) (tengo.Object, error) {
		r.done = true
		return tengo.UndefinedValue, nil
	}}

	values["locomotion"] = &tengo.UserFunction{Name: "locomotion", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.String{Value: r.player.LocomotionStateName()}, nil
	}}
	values["action"] = &tengo.UserFunction{Name: "action", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.String{Value: r.player.ActionStateName()}, nil
	}}
	values["pressure"] = &tengo.UserFunction{Name: "pressure", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Float{Value: r.player.Pressure()}, nil
	}}
	values["grounded"] = &tengo.UserFunction{Name: "grounded", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if r.player.Grounded() {
			return tengo.TrueValue, nil
		}
		return tengo.FalseValue, nil
	}}
	values["position"] = &tengo.UserFunction{Name: "position", Value: func(args ...tengo.Object) (tengo.Object, error) {
		pos := r.player.Body().Position()
		return &tengo.ImmutableMap{Value: map[string]tengo.Object{
			"x": &tengo.Float{Value: pos.X()},
			"y": &tengo.Float{Value: pos.Y()},
			"z": &tengo.Float{Value: pos.Z()},
		}}, nil
	}}
	values["log"] = &tengo.UserFunction{Name: "log", Value: func(args ...tengo.Object) (tengo.Object, error) {
		parts := make([]string, 0, len(args))
		for _, a := range args {
			parts = append(parts, a.String())
		}
		fmt.Printf("scenario: %s\n", strings.Join(parts, " "))
		return tengo.UndefinedValue, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

func (r *Runner) buttonFunc(name string, held *bool) *tengo.UserFunction {
	return &tengo.UserFunction{Name: name, Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) == 0 {
			*held = true
			return tengo.UndefinedValue, nil
		}
		*held = objectAsBool(args[0])
		return tengo.UndefinedValue, nil
	}}
}

func objectAsFloat(o tengo.Object) float64 {
	switch v := o.(type) {
	case *tengo.Float:
		return v.Value
	case *tengo.Int:
		return float64(v.Value)
	}
	return 0
}

func objectAsBool(o tengo.Object) bool {
	return !o.IsFalsy()
}
