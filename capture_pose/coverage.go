package capturepose

import "math"

const (
	// RingLower is the lower band of viewing positions around the anchor.
	RingLower = 0
	// RingUpper is the upper band.
	RingUpper = 1

	// NumRings is the number of horizontal capture rings.
	NumRings = 2
	// BinsPerRing is the number of 5-degree angular bins in each ring.
	BinsPerRing = 72
	// TotalBins is the full capture target count.
	TotalBins = NumRings * BinsPerRing

	binWidthDegrees = 360.0 / BinsPerRing
)

// BinIndex maps a horizontal angle in degrees to a bin in [0, BinsPerRing).
//
// Rounding convention: half-away-from-zero (math.Round), so an angle exactly
// on a bin boundary credits the higher-index neighbor — 2.5° is bin 1,
// 357.5° wraps to bin 0. The convention is arbitrary but load-bearing: a
// borderline shot must always credit the same bin on every platform.
func BinIndex(angleDegrees float64) int {
	i := int(math.Round(angleDegrees / binWidthDegrees))
	if i < 0 {
		i = 0
	}
	return i % BinsPerRing
}

// TargetRing classifies a camera height (relative to the anchor) into a ring.
//
// The boundary sits at lowerHeight + ringSpacing + ringSpacing/5 — not the
// midpoint between rings. The asymmetry biases classification toward the
// lower ring so users transition rings slightly above the lower ring's true
// center; replicated as observed in the field, do not re-center.
func TargetRing(relativeCameraHeight, lowerHeight, ringSpacing float64) int {
	if relativeCameraHeight < lowerHeight+ringSpacing+ringSpacing/5 {
		return RingLower
	}
	return RingUpper
}

// CoverageGrid tracks which of the 144 (ring, bin) targets have been
// captured. The zero value is an empty grid. CoverageGrid is not internally
// synchronized; the session coordinator serializes access.
type CoverageGrid struct {
	bins     [NumRings][BinsPerRing]bool
	captured int
}

// RecordIfNew marks (ring, bin) captured. It returns true iff this call
// changed state; recording an already-captured bin returns false. Out-of-range
// indices are rejected with false.
func (g *CoverageGrid) RecordIfNew(ring, bin int) bool {
	if ring < 0 || ring >= NumRings || bin < 0 || bin >= BinsPerRing {
		return false
	}
	if g.bins[ring][bin] {
		return false
	}
	g.bins[ring][bin] = true
	g.captured++
	return true
}

// IsCaptured reports whether (ring, bin) has been captured.
func (g *CoverageGrid) IsCaptured(ring, bin int) bool {
	if ring < 0 || ring >= NumRings || bin < 0 || bin >= BinsPerRing {
		return false
	}
	return g.bins[ring][bin]
}

// IsRingComplete reports whether every bin in the ring has been captured.
func (g *CoverageGrid) IsRingComplete(ring int) bool {
	if ring < 0 || ring >= NumRings {
		return false
	}
	for _, b := range g.bins[ring] {
		if !b {
			return false
		}
	}
	return true
}

// IsFullyComplete reports whether both rings are complete.
func (g *CoverageGrid) IsFullyComplete() bool {
	return g.captured == TotalBins
}

// TotalCaptured returns the number of distinct targets captured so far.
func (g *CoverageGrid) TotalCaptured() int {
	return g.captured
}

// Remaining returns the number of targets still uncaptured.
func (g *CoverageGrid) Remaining() int {
	return TotalBins - g.captured
}

// FirstIncomplete returns the lowest uncaptured (ring, bin), scanning the
// lower ring first. ok is false when the grid is complete.
func (g *CoverageGrid) FirstIncomplete() (ring, bin int, ok bool) {
	for r := 0; r < NumRings; r++ {
		for b := 0; b < BinsPerRing; b++ {
			if !g.bins[r][b] {
				return r, b, true
			}
		}
	}
	return 0, 0, false
}

// Reset clears both rings and the counter.
func (g *CoverageGrid) Reset() {
	*g = CoverageGrid{}
}
