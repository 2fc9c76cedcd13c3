package main

import (
	"log"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/milk9111/railrunner/command"
	"github.com/milk9111/railrunner/config"
)

const (
	baseWidth  = 1280
	baseHeight = 720

	tickRate = 1.0 / 60.0
)

type Game struct {
	frames int

	cfg        *config.Tuning
	configPath string
	bundle     *worldBundle
	watcher    *config.Watcher

	paused bool
	debug  bool
	ui     *ebitenui.UI

	timeScale float64
	hitStop   float64

	shakeTime     float64
	shakeStrength float64

	lastSFX string
}

func NewGame(cfg *config.Tuning, configPath string, bundle *worldBundle, watcher *config.Watcher, debug bool) *Game {
	g := &Game{
		cfg:        cfg,
		configPath: configPath,
		bundle:     bundle,
		watcher:    watcher,
		debug:      debug,
		timeScale:  1,
	}
	g.ui = NewPauseUI(g)
	return g
}

func (g *Game) Update() error {
	g.frames++

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.paused = !g.paused
	}
	if g.paused {
		g.ui.Update()
		return nil
	}

	g.reloadTuning()

	// hit stop freezes the sim in real time, not scaled time
	if g.hitStop > 0 {
		g.hitStop -= tickRate
		return nil
	}

	if g.debug && inpututil.IsKeyJustPressed(ebiten.KeyP) && len(g.bundle.rails) > 0 {
		g.bundle.player.StartPathFollow(g.bundle.rails[0])
	}

	dt := tickRate * g.timeScale
	p := g.bundle.player

	p.Update(dt, readRaw())
	p.PhysicsStep(dt)

	if p.Grounded() {
		if panel := g.bundle.nearPanelStart(); panel != nil {
			p.TriggerDashPanel(panel)
		}
	}

	g.drainCommands()

	if g.shakeTime > 0 {
		g.shakeTime -= tickRate
	}

	return nil
}

// restart rebuilds the scene from scratch and clears every transient
// effect, so a botched run can be redone without relaunching.
func (g *Game) restart() {
	bundle, err := buildWorld(g.cfg, g.bundle.scene)
	if err != nil {
		log.Printf("restart: %v", err)
		return
	}
	g.bundle = bundle
	g.timeScale = 1
	g.hitStop = 0
	g.shakeTime = 0
	g.shakeStrength = 0
	g.lastSFX = ""
	g.paused = false
}

// reloadTuning applies any pending config file change.
func (g *Game) reloadTuning() {
	if g.watcher == nil {
		return
	}
	select {
	case path, ok := <-g.watcher.Events:
		if !ok {
			return
		}
		cfg, err := config.LoadTuning(g.configPath)
		if err != nil {
			log.Printf("config reload %s: %v", path, err)
			return
		}
		g.cfg = cfg
		g.bundle.player.SetTuning(cfg)
		log.Printf("config reloaded: %s", path)
	case err, ok := <-g.watcher.Errors:
		if ok {
			log.Printf("config watch: %v", err)
		}
	default:
	}
}

func (g *Game) drainCommands() {
	for _, cmd := range g.bundle.queue.Drain() {
		switch cmd.Kind {
		case command.KindCameraShake:
			g.shakeTime = cmd.Duration
			g.shakeStrength = cmd.Amount
		case command.KindHitStop:
			g.hitStop = cmd.Duration
		case command.KindTimeScale:
			g.timeScale = cmd.Amount
		case command.KindPlaySFX:
			g.lastSFX = cmd.Name
		}
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.draw(screen)
	if g.paused {
		g.ui.Draw(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return baseWidth, baseHeight
}
