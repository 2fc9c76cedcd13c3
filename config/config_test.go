package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultTuning(t *testing.T) {
	tun := Default()
	if tun.Move.Speed <= 0 {
		t.Fatalf("move speed should be positive, got %v", tun.Move.Speed)
	}
	if tun.Sprint.Speed <= tun.Move.Speed {
		t.Fatalf("sprint speed (%v) should exceed move speed (%v)", tun.Sprint.Speed, tun.Move.Speed)
	}
	if tun.Dash.MaxCharges < 1 {
		t.Fatalf("expected at least one dash charge, got %d", tun.Dash.MaxCharges)
	}
	if len(tun.Homing.ExitVariants) < 2 {
		t.Fatalf("homing exit needs at least two variants to avoid immediate repeats, got %d", len(tun.Homing.ExitVariants))
	}
	for _, v := range tun.Homing.ExitVariants {
		if v.Duration <= 0 || v.LandingAt <= 0 || v.LandingAt >= 1 {
			t.Fatalf("variant %q has bad timing data: %+v", v.Name, v)
		}
		if _, ok := tun.Clips[v.Clip]; !ok {
			t.Fatalf("variant %q references unknown clip %q", v.Name, v.Clip)
		}
	}
	if tun.Grind.DetachThreshold <= 0 {
		t.Fatalf("detach threshold should be positive")
	}
	if tun.Parry.TimeScale <= 0 || tun.Parry.TimeScale >= 1 {
		t.Fatalf("parry time scale should slow time, got %v", tun.Parry.TimeScale)
	}
}

func TestLoadTuningOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tuning.yaml")
	body := "move:\n  speed: 42.5\nsprint:\n  speed: 50.0\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	tun, err := LoadTuning(path)
	if err != nil {
		t.Fatalf("LoadTuning: %v", err)
	}
	if tun.Move.Speed != 42.5 {
		t.Fatalf("expected overridden move speed 42.5, got %v", tun.Move.Speed)
	}
	// unset sections keep the embedded defaults
	if tun.Dash.Speed != Default().Dash.Speed {
		t.Fatalf("unset dash speed should keep default, got %v", tun.Dash.Speed)
	}
}

func TestLoadTuningMissingFile(t *testing.T) {
	if _, err := LoadTuning(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestDefaultScene(t *testing.T) {
	s := DefaultScene()
	if len(s.Boxes) == 0 || len(s.Rails) == 0 || len(s.Targets) == 0 {
		t.Fatalf("playground scene should have geometry, rails, and targets")
	}
	var railEnd *int
	for _, tgt := range s.Targets {
		if tgt.RailEnd != nil {
			railEnd = tgt.RailEnd
		}
	}
	if railEnd == nil {
		t.Fatalf("playground should include a rail-end target")
	}
	if *railEnd < 0 || *railEnd >= len(s.Rails) {
		t.Fatalf("rail-end index %d out of range", *railEnd)
	}
}
