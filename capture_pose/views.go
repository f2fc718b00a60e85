package capturepose

import (
	"math"

	"github.com/golang/geo/r3"

	"go.viam.com/rdk/spatialmath"
)

// SuggestedView is a camera pose that would cover an uncaptured target,
// for on-screen guidance.
type SuggestedView struct {
	CameraPose spatialmath.Pose
	Ring       int
	Bin        int
}

// SuggestNextView proposes a camera pose covering the first uncaptured
// (ring, bin), positioned mid-way through the admissible distance band and
// oriented to look at the anchor. ok is false when the grid is complete.
func SuggestNextView(anchor Pose, grid *CoverageGrid, cfg Config) (SuggestedView, bool) {
	ring, bin, ok := grid.FirstIncomplete()
	if !ok {
		return SuggestedView{}, false
	}
	return SuggestedView{
		CameraPose: ViewPoseFor(anchor, ring, bin, cfg),
		Ring:       ring,
		Bin:        bin,
	}, true
}

// ViewPoseFor constructs the canonical camera pose covering (ring, bin):
// at the bin's center angle, mid-band distance from the anchor, looking at
// it. The upper-ring height sits at 1.5 ring spacings, comfortably above the
// biased TargetRing boundary, so the suggested pose classifies into the ring
// it targets.
func ViewPoseFor(anchor Pose, ring, bin int, cfg Config) spatialmath.Pose {
	radius := (cfg.MinDistanceM + cfg.MaxDistanceM) / 2
	height := cfg.LowerRingHeightM
	if ring == RingUpper {
		height = cfg.LowerRingHeightM + 1.5*cfg.RingSpacingM
	}
	angle := float64(bin) * binWidthDegrees * math.Pi / 180

	// Horizontal offset chosen so the total camera-to-anchor distance stays
	// mid-band, clamped so the pose never collapses onto the vertical axis.
	horizSq := radius*radius - height*height
	if min := 0.3 * radius; horizSq < min*min {
		horizSq = min * min
	}
	horizontal := math.Sqrt(horizSq)

	local := r3.Vector{
		X: horizontal * math.Cos(angle),
		Y: horizontal * math.Sin(angle),
		Z: height,
	}
	camPos := anchor.Translation.Add(Rotate(anchor.Rotation, local))

	lookDir := anchor.Translation.Sub(camPos)
	norm := lookDir.Norm()
	if norm > 1e-9 {
		lookDir = lookDir.Mul(1.0 / norm)
	} else {
		lookDir = r3.Vector{Z: -1}
	}

	ov := &spatialmath.OrientationVectorDegrees{
		OX:    lookDir.X,
		OY:    lookDir.Y,
		OZ:    lookDir.Z,
		Theta: 0,
	}
	return spatialmath.NewPose(camPos, ov)
}
