package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scene describes the static world the harness builds: ground geometry,
// rails, and combat targets. Positions are [x, y, z] with Y up.
type Scene struct {
	Name    string       `yaml:"name"`
	Spawn   [3]float64   `yaml:"spawn"`
	Boxes   []BoxSpec    `yaml:"boxes"`
	Rails   []RailSpec   `yaml:"rails"`
	Targets []TargetSpec `yaml:"targets"`
}

type BoxSpec struct {
	Min [3]float64 `yaml:"min"`
	Max [3]float64 `yaml:"max"`
}

type RailSpec struct {
	Points [][3]float64 `yaml:"points"`
	// DashPanel marks the rail as a dash-panel strip instead of a
	// grindable rail.
	DashPanel bool `yaml:"dash_panel"`
}

type TargetSpec struct {
	Pos [3]float64 `yaml:"pos"`
	// ParryWindow keeps the target permanently inside its parry window.
	// The harness toggles it for window-timing demos.
	ParryWindow bool `yaml:"parry_window"`
	// RailEnd attaches the player to the rail with the given index when
	// hit by a homing attack.
	RailEnd *int `yaml:"rail_end"`
}

// DefaultScene returns the embedded playground scene.
func DefaultScene() *Scene {
	s, err := parseScene(defaultScene)
	if err != nil {
		panic(fmt.Sprintf("config: embedded default scene: %v", err))
	}
	return s
}

// LoadScene reads a scene from disk, falling back to the embedded
// playground when path is empty.
func LoadScene(path string) (*Scene, error) {
	if path == "" {
		return DefaultScene(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: load %s: %w", path, err)
	}
	s, err := parseScene(data)
	if err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return s, nil
}

func parseScene(data []byte) (*Scene, error) {
	var s Scene
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("unmarshal scene: %w", err)
	}
	return &s, nil
}
