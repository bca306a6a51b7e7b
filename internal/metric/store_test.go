package metric

import (
	"testing"
	"time"
)

var t0 = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func TestStore_FirstObservationSnapsToRaw(t *testing.T) {
	for _, tau := range []time.Duration{0, time.Second, time.Hour} {
		s := NewStore(tau)
		got := s.Update(BSP, 6.4, t0)
		if got != 6.4 {
			t.Fatalf("tau=%s first update=%v want 6.4", tau, got)
		}
	}
}

func TestStore_ZeroTauDisablesSmoothing(t *testing.T) {
	s := NewStore(0)
	s.Update(BSP, 1.0, t0)
	got := s.Update(BSP, 9.0, t0.Add(10*time.Millisecond))
	if got != 9.0 {
		t.Fatalf("update=%v want 9.0", got)
	}
}

func TestStore_ZeroDeltaLeavesValueUnchanged(t *testing.T) {
	s := NewStore(2 * time.Second)
	s.Update(BSP, 5.0, t0)
	got := s.Update(BSP, 100.0, t0)
	if got != 5.0 {
		t.Fatalf("update=%v want 5.0 (alpha must be 0 for dt=0)", got)
	}
}

func TestStore_NegativeDeltaClampedToZero(t *testing.T) {
	s := NewStore(2 * time.Second)
	s.Update(BSP, 5.0, t0)
	got := s.Update(BSP, 100.0, t0.Add(-time.Minute))
	if got != 5.0 {
		t.Fatalf("update=%v want 5.0 (negative dt clamps to 0)", got)
	}
}

func TestStore_LargeDeltaConvergesToRaw(t *testing.T) {
	s := NewStore(time.Second)
	s.Update(BSP, 0.0, t0)
	got := s.Update(BSP, 10.0, t0.Add(24*time.Hour))
	if got < 9.9999 || got > 10.0001 {
		t.Fatalf("update=%v want ~10.0", got)
	}
}

func TestStore_SmoothingMovesTowardRaw(t *testing.T) {
	s := NewStore(2 * time.Second)
	s.Update(BSP, 0.0, t0)
	got := s.Update(BSP, 10.0, t0.Add(time.Second))
	// alpha = 1 - exp(-0.5) ~ 0.3935
	if got <= 3.9 || got >= 4.0 {
		t.Fatalf("update=%v want in (3.9, 4.0)", got)
	}
}

func TestStore_ReplayIsDeterministic(t *testing.T) {
	obs := []struct {
		v  float64
		dt time.Duration
	}{
		{3.2, 0},
		{4.1, 250 * time.Millisecond},
		{3.8, 700 * time.Millisecond},
		{5.5, 900 * time.Millisecond},
		{5.5, 2 * time.Second},
	}

	run := func() float64 {
		s := NewStore(1500 * time.Millisecond)
		var last float64
		for _, o := range obs {
			last = s.Update(TWS, o.v, t0.Add(o.dt))
		}
		return last
	}

	a, b := run(), run()
	if a != b {
		t.Fatalf("replay diverged: %v vs %v", a, b)
	}
}

func TestStore_SnapshotOnlyObservedKeys(t *testing.T) {
	s := NewStore(time.Second)
	s.Update(BSP, 3.0, t0)
	s.Update(HDG, 7.0, t0)

	snap := s.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("snapshot has %d keys, want 2", len(snap))
	}
	if snap[BSP] != 3.0 || snap[HDG] != 7.0 {
		t.Fatalf("snapshot=%v want BSP=3 HDG=7", snap)
	}
	if _, ok := s.Value(TWA); ok {
		t.Fatalf("expected no value for never-observed key")
	}
}

func TestFormat_AppendsUnit(t *testing.T) {
	if got := Format(BSP, 6.25); got != "6.2kn" {
		t.Fatalf("Format(BSP)=%q want %q", got, "6.2kn")
	}
	if got := Format(HDG, 42.0); got != "042°T" {
		t.Fatalf("Format(HDG)=%q want %q", got, "042°T")
	}
}
