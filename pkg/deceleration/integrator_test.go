package deceleration

import (
	"math"
	"testing"
	"time"
)

func identity(p float64) float64 { return p }

func TestFrameInterval(t *testing.T) {
	got := FrameInterval(60)
	if got < 16*time.Millisecond || got > 17*time.Millisecond {
		t.Errorf("FrameInterval(60) = %v, want ~16.7ms", got)
	}
}

func TestSessionDecaysAndSettles(t *testing.T) {
	s := New().Start(0, 1000)
	dt := FrameDelta(DefaultFPS)

	previous := math.Abs(s.Velocity())
	settled := false
	for i := 0; i < 10000 && !settled; i++ {
		settled = s.Step(dt, identity)
		v := math.Abs(s.Velocity())
		if v > previous {
			t.Fatalf("step %d: velocity grew from %v to %v", i, previous, v)
		}
		previous = v
	}
	if !settled {
		t.Fatal("session never settled")
	}
	if s.Velocity() != 0 {
		t.Errorf("settled velocity = %v, want 0", s.Velocity())
	}
	// v0/r is the continuous-time travel distance.
	if p := s.Position(); p < 200 || p > 250 {
		t.Errorf("resting position = %v, want about 250", p)
	}
}

func TestSessionMovesInVelocityDirection(t *testing.T) {
	s := New().Start(100, -500)
	s.Step(FrameDelta(DefaultFPS), identity)
	if s.Position() >= 100 {
		t.Errorf("position = %v, want < 100 for negative velocity", s.Position())
	}
}

func TestSessionStopsAtBoundary(t *testing.T) {
	const edge = 50.0
	clampWrite := func(p float64) float64 {
		if p > edge {
			return edge
		}
		return p
	}

	s := New().Start(0, 5000)
	settled := false
	for i := 0; i < 1000 && !settled; i++ {
		settled = s.Step(FrameDelta(DefaultFPS), clampWrite)
	}
	if !settled {
		t.Fatal("expected the boundary to settle the session")
	}
	if s.Position() != edge {
		t.Errorf("position = %v, want %v", s.Position(), edge)
	}
}

func TestCancelledSessionDoesNotWrite(t *testing.T) {
	s := New().Start(0, 1000)
	s.Cancel()

	writes := 0
	settled := s.Step(FrameDelta(DefaultFPS), func(p float64) float64 {
		writes++
		return p
	})
	if settled {
		t.Error("cancelled session must not report settlement")
	}
	if writes != 0 {
		t.Errorf("cancelled session wrote %d times", writes)
	}
	if !s.Cancelled() {
		t.Error("Cancelled() should be true")
	}
}

func TestSettledSessionIsIdempotent(t *testing.T) {
	s := New().Start(0, 0.5)
	if !s.Step(FrameDelta(DefaultFPS), identity) {
		t.Fatal("tiny velocity should settle on the first step")
	}
	writes := 0
	if !s.Step(FrameDelta(DefaultFPS), func(p float64) float64 { writes++; return p }) {
		t.Error("settled session should keep reporting settled")
	}
	if writes != 0 {
		t.Errorf("settled session wrote %d times", writes)
	}
}

func TestZeroDeltaIsIgnored(t *testing.T) {
	s := New().Start(10, 100)
	if s.Step(0, identity) {
		t.Error("zero dt should not settle")
	}
	if s.Steps() != 0 || s.Position() != 10 {
		t.Errorf("zero dt moved the session: steps=%d position=%v", s.Steps(), s.Position())
	}
}

func TestStartFillsDefaults(t *testing.T) {
	s := Integrator{}.Start(0, 100)
	if s.integrator.Resistance != DefaultResistance || s.integrator.MinVelocity != DefaultMinVelocity {
		t.Errorf("defaults not applied: %+v", s.integrator)
	}
}

func TestRestingDistanceIsSymmetric(t *testing.T) {
	in := New()
	right := in.RestingDistance(800, DefaultFPS)
	left := in.RestingDistance(-800, DefaultFPS)
	if math.Abs(right+left) > 1e-9 {
		t.Errorf("RestingDistance(800) = %v, RestingDistance(-800) = %v", right, left)
	}
	if right <= 0 {
		t.Errorf("RestingDistance(800) = %v, want > 0", right)
	}
}
