package physics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func testWorld() *World {
	return NewWorld(
		Box{Min: mgl64.Vec3{-50, -1, -50}, Max: mgl64.Vec3{50, 0, 50}},
		Box{Min: mgl64.Vec3{5, 0, -2}, Max: mgl64.Vec3{10, 2, 2}},
	)
}

func TestGroundHitPicksHighestSupport(t *testing.T) {
	w := testWorld()
	h, n, ok := w.GroundHit(mgl64.Vec3{7, 2.1, 0}, 0.25)
	if !ok {
		t.Fatalf("expected ground under platform")
	}
	if h != 2 {
		t.Fatalf("expected platform top 2, got %v", h)
	}
	if n != (mgl64.Vec3{0, 1, 0}) {
		t.Fatalf("expected Y-up normal, got %v", n)
	}

	// far above: out of probe range
	if _, _, ok := w.GroundHit(mgl64.Vec3{7, 5, 0}, 0.25); ok {
		t.Fatalf("ground should be out of range")
	}

	// off the platform footprint falls through to the floor
	h, _, ok = w.GroundHit(mgl64.Vec3{20, 0.1, 0}, 0.25)
	if !ok || h != 0 {
		t.Fatalf("expected floor at 0, got %v ok=%v", h, ok)
	}
}

func TestBodyLandingSnapsAndRecordsImpact(t *testing.T) {
	w := testWorld()
	b := NewBody(w, mgl64.Vec3{0, 3, 0})
	b.SetVelocity(mgl64.Vec3{0, -10, 0})

	dt := 1.0 / 60.0
	landed := false
	for i := 0; i < 120; i++ {
		b.Step(dt)
		if b.Grounded() {
			landed = true
			break
		}
	}
	if !landed {
		t.Fatalf("body never landed")
	}
	if b.Position().Y() != 0 {
		t.Fatalf("landing should snap to the surface, got y=%v", b.Position().Y())
	}
	if b.Velocity().Y() != 0 {
		t.Fatalf("landing should zero vertical velocity, got %v", b.Velocity().Y())
	}
	if b.ImpactSpeed() != 10 {
		t.Fatalf("expected impact speed 10, got %v", b.ImpactSpeed())
	}
}

func TestBodyWalksOffLedge(t *testing.T) {
	w := testWorld()
	b := NewBody(w, mgl64.Vec3{9, 2, 0})
	b.Step(1.0 / 60.0)
	if !b.Grounded() {
		t.Fatalf("body should start grounded on platform")
	}
	b.SetVelocity(mgl64.Vec3{90, 0, 0})
	b.Step(1.0 / 60.0) // moves past x=10, high above the floor
	if b.Grounded() {
		t.Fatalf("body should be airborne after leaving the platform")
	}
}

func TestAddGroundForceProjectsOntoSupportPlane(t *testing.T) {
	w := testWorld()
	b := NewBody(w, mgl64.Vec3{0, 0, 0})
	b.Step(1.0 / 60.0)
	if !b.Grounded() {
		t.Fatalf("expected grounded body")
	}
	b.AddGroundForce(mgl64.Vec3{10, 99, 0}, 1)
	if b.Velocity().Y() != 0 {
		t.Fatalf("vertical force component should be projected out, got %v", b.Velocity().Y())
	}
	if b.Velocity().X() != 10 {
		t.Fatalf("horizontal component should apply, got %v", b.Velocity().X())
	}
}

func TestClampHorizontalSpeed(t *testing.T) {
	b := NewBody(NewWorld(), mgl64.Vec3{})
	b.SetVelocity(mgl64.Vec3{3, -7, 4})
	b.ClampHorizontalSpeed(2.5)
	h := b.HorizontalVelocity()
	if math.Abs(h.Len()-2.5) > 1e-9 {
		t.Fatalf("expected horizontal speed 2.5, got %v", h.Len())
	}
	if b.Velocity().Y() != -7 {
		t.Fatalf("vertical velocity must be untouched, got %v", b.Velocity().Y())
	}
}
