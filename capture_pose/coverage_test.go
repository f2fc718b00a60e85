package capturepose

import (
	"math/rand"
	"testing"
)

func TestBinIndexBoundaries(t *testing.T) {
	cases := []struct {
		angle float64
		want  int
	}{
		{0, 0},
		{2.4, 0},
		{2.5, 1}, // boundary rounds half away from zero
		{5, 1},
		{7.4, 1},
		{7.5, 2},
		{47, 9},
		{352.4, 70},
		{357.4, 71},
		{357.5, 0}, // rounds to 72, wraps to 0
		{359.9, 0},
	}
	for _, tc := range cases {
		if got := BinIndex(tc.angle); got != tc.want {
			t.Errorf("BinIndex(%v) = %d, want %d", tc.angle, got, tc.want)
		}
	}
}

func TestBinIndexTotal(t *testing.T) {
	for angle := 0.0; angle < 360; angle += 0.05 {
		got := BinIndex(angle)
		if got < 0 || got >= BinsPerRing {
			t.Fatalf("BinIndex(%v) = %d outside [0, %d)", angle, got, BinsPerRing)
		}
	}
}

func TestTargetRing(t *testing.T) {
	const (
		lower   = 0.0
		spacing = 0.25
	)
	// Boundary is lower + spacing + spacing/5 = 0.30, not the midpoint.
	cases := []struct {
		height float64
		want   int
	}{
		{-0.1, RingLower},
		{0.0, RingLower},
		{0.125, RingLower},  // midpoint between rings is still lower
		{0.25, RingLower},   // upper ring's nominal height is still lower
		{0.2999, RingLower}, // just below the offset boundary
		{0.30, RingUpper},
		{0.5, RingUpper},
	}
	for _, tc := range cases {
		if got := TargetRing(tc.height, lower, spacing); got != tc.want {
			t.Errorf("TargetRing(%v) = %d, want %d", tc.height, got, tc.want)
		}
	}
}

func TestRecordIfNewIdempotent(t *testing.T) {
	var g CoverageGrid
	if !g.RecordIfNew(RingLower, 9) {
		t.Fatal("first record should report a state change")
	}
	if g.RecordIfNew(RingLower, 9) {
		t.Fatal("second record of the same bin should be a no-op")
	}
	if g.TotalCaptured() != 1 {
		t.Errorf("captured = %d, want 1", g.TotalCaptured())
	}
}

func TestRecordIfNewBounds(t *testing.T) {
	var g CoverageGrid
	for _, rb := range [][2]int{{-1, 0}, {2, 0}, {0, -1}, {0, 72}} {
		if g.RecordIfNew(rb[0], rb[1]) {
			t.Errorf("RecordIfNew(%d, %d) accepted out-of-range target", rb[0], rb[1])
		}
	}
	if g.TotalCaptured() != 0 {
		t.Errorf("captured = %d, want 0", g.TotalCaptured())
	}
}

func TestFullCompletionOrderIndependent(t *testing.T) {
	var g CoverageGrid

	// Record all 144 targets in a shuffled but reproducible order.
	order := rand.New(rand.NewSource(7)).Perm(TotalBins)
	for i, n := range order {
		ring := n / BinsPerRing
		bin := n % BinsPerRing
		if !g.RecordIfNew(ring, bin) {
			t.Fatalf("record %d (ring %d bin %d) unexpectedly stale", i, ring, bin)
		}
		wantComplete := i == TotalBins-1
		if g.IsFullyComplete() != wantComplete {
			t.Fatalf("after %d records IsFullyComplete = %v", i+1, g.IsFullyComplete())
		}
	}

	if !g.IsRingComplete(RingLower) || !g.IsRingComplete(RingUpper) {
		t.Error("both rings should be complete")
	}
	if g.Remaining() != 0 {
		t.Errorf("remaining = %d, want 0", g.Remaining())
	}
}

func TestRingCompletion(t *testing.T) {
	var g CoverageGrid
	for b := 0; b < BinsPerRing; b++ {
		g.RecordIfNew(RingLower, b)
	}
	if !g.IsRingComplete(RingLower) {
		t.Error("lower ring should be complete")
	}
	if g.IsRingComplete(RingUpper) {
		t.Error("upper ring should not be complete")
	}
	if g.IsFullyComplete() {
		t.Error("grid should not be fully complete")
	}
	if got := g.Remaining(); got != BinsPerRing {
		t.Errorf("remaining = %d, want %d", got, BinsPerRing)
	}
}

func TestFirstIncomplete(t *testing.T) {
	var g CoverageGrid
	g.RecordIfNew(RingLower, 0)
	g.RecordIfNew(RingLower, 1)

	ring, bin, ok := g.FirstIncomplete()
	if !ok || ring != RingLower || bin != 2 {
		t.Errorf("FirstIncomplete = (%d, %d, %v), want (0, 2, true)", ring, bin, ok)
	}

	for r := 0; r < NumRings; r++ {
		for b := 0; b < BinsPerRing; b++ {
			g.RecordIfNew(r, b)
		}
	}
	if _, _, ok := g.FirstIncomplete(); ok {
		t.Error("complete grid should report no incomplete target")
	}
}

func TestReset(t *testing.T) {
	var g CoverageGrid
	g.RecordIfNew(RingLower, 3)
	g.RecordIfNew(RingUpper, 40)
	g.Reset()

	if g.TotalCaptured() != 0 || g.Remaining() != TotalBins {
		t.Errorf("after reset captured=%d remaining=%d", g.TotalCaptured(), g.Remaining())
	}
	if !g.RecordIfNew(RingLower, 3) {
		t.Error("bin should be fresh after reset")
	}
}
