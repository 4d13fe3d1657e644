package game

import (
	"math"
	"testing"
)

func TestBearing_CardinalBuckets(t *testing.T) {
	from := Cell{5, 5}
	cases := []struct {
		to   Cell
		want float64
	}{
		{Cell{5, 0}, 0},  // north
		{Cell{10, 5}, 8}, // east
		{Cell{5, 10}, 16},
		{Cell{0, 5}, 24},
		{Cell{8, 2}, 4}, // north-east diagonal
	}
	for _, c := range cases {
		got := bearing(from, c.to, 32)
		if math.Abs(got-c.want) > 1e-9 {
			t.Errorf("bearing(%v -> %v) = %f, want %f", from, c.to, got, c.want)
		}
	}
}

func TestBearing_ZeroDelta(t *testing.T) {
	if got := bearing(Cell{3, 3}, Cell{3, 3}, 32); got != 0 {
		t.Fatalf("bearing to same cell = %f, want 0", got)
	}
}

func TestFacingDelta_ShortestArc(t *testing.T) {
	// Crossing north: 30 -> 2 is +4, not -28.
	if d := facingDelta(30, 2, 32); d != 4 {
		t.Fatalf("facingDelta(30, 2) = %f, want 4", d)
	}
	if d := facingDelta(2, 30, 32); d != -4 {
		t.Fatalf("facingDelta(2, 30) = %f, want -4", d)
	}
	if d := facingDelta(0, 17, 32); d != -15 {
		t.Fatalf("facingDelta(0, 17) = %f, want -15", d)
	}
}

func TestStepFacing_WrapsAcrossNorth(t *testing.T) {
	got := stepFacing(30, 2, 1, 32)
	if got != 31 {
		t.Fatalf("stepFacing(30, 2, 1) = %f, want 31", got)
	}
	got = stepFacing(31, 2, 1, 32)
	if got != 0 {
		t.Fatalf("stepFacing(31, 2, 1) = %f, want 0", got)
	}
}

func TestStepFacing_SnapsExactlyOntoTarget(t *testing.T) {
	// Within one step of the target the exact value must come back, so the
	// rotation loop can compare with ==.
	got := stepFacing(7.3, 8, 2, 32)
	if got != 8 {
		t.Fatalf("stepFacing(7.3, 8, 2) = %f, want exactly 8", got)
	}
}

func TestWrapFacing(t *testing.T) {
	if got := wrapFacing(-1, 32); got != 31 {
		t.Fatalf("wrapFacing(-1) = %f, want 31", got)
	}
	if got := wrapFacing(33, 32); got != 1 {
		t.Fatalf("wrapFacing(33) = %f, want 1", got)
	}
	if got := wrapFacing(32, 32); got != 0 {
		t.Fatalf("wrapFacing(32) = %f, want 0", got)
	}
}

func TestFacingVector_ScreenAxes(t *testing.T) {
	// North moves toward decreasing y, east toward increasing x.
	vx, vy := facingVector(0, 32)
	if math.Abs(vx) > 1e-9 || math.Abs(vy+1) > 1e-9 {
		t.Fatalf("north vector = (%f, %f), want (0, -1)", vx, vy)
	}
	vx, vy = facingVector(8, 32)
	if math.Abs(vx-1) > 1e-9 || math.Abs(vy) > 1e-9 {
		t.Fatalf("east vector = (%f, %f), want (1, 0)", vx, vy)
	}
	vx, vy = facingVector(16, 32)
	if math.Abs(vx) > 1e-9 || math.Abs(vy-1) > 1e-9 {
		t.Fatalf("south vector = (%f, %f), want (0, 1)", vx, vy)
	}
}
