package main

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/railrunner/command"
	"github.com/milk9111/railrunner/config"
	"github.com/milk9111/railrunner/physics"
	"github.com/milk9111/railrunner/player"
	"github.com/milk9111/railrunner/rail"
	"github.com/milk9111/railrunner/target"
)

// worldBundle is everything the harness builds out of one scene file.
type worldBundle struct {
	scene   *config.Scene
	world   *physics.World
	rails   []*rail.Rail // every rail, indexed as in the scene
	panels  []*rail.Rail // the subset marked dash_panel
	targets *target.Registry
	queue   *command.Queue
	player  *player.Player
	dummies []*target.Dummy
}

func vec3(a [3]float64) mgl64.Vec3 {
	return mgl64.Vec3{a[0], a[1], a[2]}
}

// buildWorld assembles the sim collaborators from a scene. Rail-end
// targets are wired straight to the player's rail attach.
func buildWorld(cfg *config.Tuning, scene *config.Scene) (*worldBundle, error) {
	world := physics.NewWorld()
	for _, b := range scene.Boxes {
		world.AddBox(physics.Box{Min: vec3(b.Min), Max: vec3(b.Max)})
	}

	var rails, grindable, panels []*rail.Rail
	for i, spec := range scene.Rails {
		pts := make([]mgl64.Vec3, len(spec.Points))
		for j, pt := range spec.Points {
			pts[j] = vec3(pt)
		}
		r, err := rail.New(pts...)
		if err != nil {
			return nil, fmt.Errorf("scene rail %d: %w", i, err)
		}
		rails = append(rails, r)
		if spec.DashPanel {
			panels = append(panels, r)
		} else {
			grindable = append(grindable, r)
		}
	}

	targets := target.NewRegistry()
	queue := &command.Queue{}

	body := physics.NewBody(world, vec3(scene.Spawn))
	p, err := player.New(cfg, body, grindable, targets, queue)
	if err != nil {
		return nil, err
	}

	var dummies []*target.Dummy
	for i, spec := range scene.Targets {
		if spec.RailEnd != nil {
			idx := *spec.RailEnd
			if idx < 0 || idx >= len(rails) {
				return nil, fmt.Errorf("scene target %d: rail_end %d out of range", i, idx)
			}
			r := rails[idx]
			targets.Add(&target.RailEnd{
				Pos:    vec3(spec.Pos),
				Attach: func(mgl64.Vec3) { p.AttachToRail(r) },
			})
			continue
		}
		d := target.NewDummy(vec3(spec.Pos))
		d.ParryWindow = spec.ParryWindow
		targets.Add(d)
		dummies = append(dummies, d)
	}

	return &worldBundle{
		scene:   scene,
		world:   world,
		rails:   rails,
		panels:  panels,
		targets: targets,
		queue:   queue,
		player:  p,
		dummies: dummies,
	}, nil
}

// nearPanelStart reports the dash panel whose entry point the player is
// standing on, nil when none.
func (b *worldBundle) nearPanelStart() *rail.Rail {
	pos := b.player.Body().Position()
	for _, r := range b.panels {
		start, _, _ := r.PositionAndTangent(0)
		if start.Sub(pos).Len() < 0.8 {
			return r
		}
	}
	return nil
}
