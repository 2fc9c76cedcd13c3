package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/milk9111/railrunner/config"
	"github.com/milk9111/railrunner/scenario"
)

func main() {
	configPath := flag.String("config", "", "tuning yaml (defaults to the embedded tuning)")
	scenePath := flag.String("scene", "", "scene yaml (defaults to the embedded playground)")
	scenarioName := flag.String("scenario", "", "run a built-in scenario headless and exit")
	scenarioFile := flag.String("scenario-file", "", "run a scenario script from disk headless and exit")
	debug := flag.Bool("debug", false, "enable debug overlay and debug keys")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	flag.Parse()

	cfg, err := config.LoadTuning(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	scene, err := config.LoadScene(*scenePath)
	if err != nil {
		log.Fatal(err)
	}

	bundle, err := buildWorld(cfg, scene)
	if err != nil {
		log.Fatal(err)
	}

	if *scenarioName != "" || *scenarioFile != "" {
		if err := runHeadless(bundle, *scenarioName, *scenarioFile); err != nil {
			log.Fatal(err)
		}
		return
	}

	var watcher *config.Watcher
	if *configPath != "" {
		watcher, err = config.NewWatcher(filepath.Dir(*configPath))
		if err != nil {
			log.Printf("config watch disabled: %v", err)
		} else {
			defer watcher.Close()
		}
	}

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("railrunner")

	if err := ebiten.RunGame(NewGame(cfg, *configPath, bundle, watcher, *debug)); err != nil {
		log.Fatal(err)
	}
}

// runHeadless drives the sim from a scenario script with no window,
// logging the state trace. Used for repros and tuning checks.
func runHeadless(bundle *worldBundle, name, file string) error {
	var src []byte
	var err error
	if file != "" {
		src, err = os.ReadFile(file)
	} else {
		src, err = scenario.LoadBuiltin(name)
	}
	if err != nil {
		return err
	}

	p := bundle.player
	runner, err := scenario.New(src, p)
	if err != nil {
		return err
	}

	const maxTicks = 60 * 60 // one simulated minute
	lastLoco, lastAction := "", ""
	for tick := 0; tick < maxTicks && !runner.Done(); tick++ {
		raw, err := runner.Step(tickRate)
		if err != nil {
			return err
		}
		p.Update(tickRate, raw)
		p.PhysicsStep(tickRate)

		if l, a := p.LocomotionStateName(), p.ActionStateName(); l != lastLoco || a != lastAction {
			pos := p.Body().Position()
			log.Printf("t=%.2fs loco=%s action=%s pos=(%.1f %.1f %.1f) pressure=%.0f",
				float64(tick)*tickRate, l, a, pos.X(), pos.Y(), pos.Z(), p.Pressure())
			lastLoco, lastAction = l, a
		}
	}
	if !runner.Done() {
		log.Printf("scenario hit the tick limit without calling done()")
	}
	return nil
}
