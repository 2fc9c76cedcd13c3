package anim

import "testing"

func TestNormalizedTime(t *testing.T) {
	a := NewAnimator(map[string]float64{"jump": 0.5})
	a.Play("jump")
	if got := a.NormalizedTime(); got != 0 {
		t.Fatalf("fresh clip should report 0, got %v", got)
	}
	a.Update(0.25)
	if got := a.NormalizedTime(); got != 0.5 {
		t.Fatalf("expected 0.5, got %v", got)
	}
	a.Update(5)
	if got := a.NormalizedTime(); got != 1 {
		t.Fatalf("finished clip should clamp to 1, got %v", got)
	}
}

func TestUnknownClipReportsDone(t *testing.T) {
	a := NewAnimator(nil)
	a.Play("missing")
	if got := a.NormalizedTime(); got != 1 {
		t.Fatalf("unknown clip should report 1 so pollers never stall, got %v", got)
	}
}

func TestCrossFadeKeepsSameClip(t *testing.T) {
	a := NewAnimator(map[string]float64{"run": 1})
	a.Play("run")
	a.Update(0.4)
	a.CrossFade("run", 0.1)
	if got := a.NormalizedTime(); got != 0.4 {
		t.Fatalf("crossfade into the same clip must not reset progress, got %v", got)
	}
	a.CrossFade("idle", 0.1)
	if a.Clip() != "idle" {
		t.Fatalf("expected clip switch, got %q", a.Clip())
	}
}

func TestTriggers(t *testing.T) {
	a := NewAnimator(nil)
	a.Trigger("impact")
	a.Trigger("spark")
	got := a.DrainTriggers()
	if len(got) != 2 || got[0] != "impact" || got[1] != "spark" {
		t.Fatalf("unexpected triggers: %v", got)
	}
	if a.DrainTriggers() != nil {
		t.Fatalf("triggers should clear after drain")
	}
}
