package view

import "testing"

// Requirement: a surface must not accept a second open while already
// opening or open; re-invocation is a no-op, not an error.
func TestSurface_DoubleOpenIsNoOp(t *testing.T) {
	s := &Surface{}

	if !s.Open() {
		t.Fatal("first Open() should transition closed -> opening")
	}
	if s.Open() {
		t.Error("Open() while opening should be a no-op")
	}

	s.Opened()
	if s.State() != StateOpen {
		t.Fatalf("state = %v, want open", s.State())
	}
	if s.Open() {
		t.Error("Open() while open should be a no-op")
	}
}

func TestSurface_FullCycle(t *testing.T) {
	s := &Surface{}

	steps := []struct {
		act  func() bool
		want OpenState
	}{
		{func() bool { return s.Open() }, StateOpening},
		{func() bool { s.Opened(); return true }, StateOpen},
		{func() bool { return s.Close() }, StateClosing},
		{func() bool { s.Closed(); return true }, StateClosed},
	}
	for i, step := range steps {
		if !step.act() {
			t.Fatalf("step %d: transition rejected", i)
		}
		if s.State() != step.want {
			t.Fatalf("step %d: state = %v, want %v", i, s.State(), step.want)
		}
	}

	// The machine is reusable after a full cycle.
	if !s.Open() {
		t.Error("Open() after a full cycle should succeed")
	}
}

func TestSurface_CloseWhileClosedIsNoOp(t *testing.T) {
	s := &Surface{}
	if s.Close() {
		t.Error("Close() while closed should be a no-op")
	}
}
