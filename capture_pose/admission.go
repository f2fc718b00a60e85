package capturepose

// Verdict reports the outcome of an admission evaluation. On failure, only
// the fields computed before the failing step are meaningful.
type Verdict struct {
	// Ring and Bin identify the coverage target the request classified into.
	Ring int
	Bin  int

	// RelativeCamera is the camera pose in anchor-local coordinates, the
	// pose stamped onto the artifact metadata.
	RelativeCamera Pose

	// Distance is the camera-to-anchor distance in meters.
	Distance float64

	// DistanceChecked is true once the distance step ran; TooClose/TooFar
	// say which side failed when it did.
	DistanceChecked bool
	TooClose        bool
	TooFar          bool

	// RecordedNew is true when this admission claimed a previously
	// uncaptured bin. RingCompleted is true when that claim finished the
	// ring — it transitions exactly once per ring per session.
	RecordedNew   bool
	RingCompleted bool
}

// Admission evaluates capture requests against the anchor, the grid and the
// configured thresholds. It performs no I/O and must be called with the
// session lock held: the novelty step mutates the grid, and two concurrent
// requests for one bin must never both observe "new".
type Admission struct {
	cfg Config
}

// NewAdmission returns an Admission using the given thresholds.
func NewAdmission(cfg Config) *Admission {
	return &Admission{cfg: cfg}
}

// Config returns the thresholds the pipeline was built with.
func (a *Admission) Config() Config {
	return a.cfg
}

// Evaluate runs the admission pipeline in strict order: anchor check, focus
// determination, lighting check, distance check, novelty check. Each step
// short-circuits with its own sentinel error; ambientIntensity is nil when
// the engine offers no estimate, which is not a failure. With unlimited set,
// duplicate bins are admitted without recording.
func (a *Admission) Evaluate(anchor *AnchorState, camera Pose, ambientIntensity *float64, unlimited bool, grid *CoverageGrid) (Verdict, error) {
	var v Verdict

	// 1. Anchor must be set and still valid.
	anchorPose, ok := anchor.Current()
	if !ok {
		return v, ErrNoAnchor
	}
	if !anchorPose.IsValid() {
		return v, ErrInvalidAnchor
	}

	// 2. Focus: the device must be aimed at the anchor.
	rel, err := RelativeTransform(anchorPose, camera)
	if err != nil {
		return v, err
	}
	v.RelativeCamera = rel

	toAnchor := anchorPose.Translation.Sub(camera.Translation)
	angle, err := AngleBetween(Forward(camera), toAnchor)
	if err != nil || angle >= a.cfg.AngleThresholdRad {
		return v, ErrNotInFocus
	}
	v.Ring = TargetRing(RelativeHeight(anchorPose, camera), a.cfg.LowerRingHeightM, a.cfg.RingSpacingM)

	// 3. Lighting.
	if ambientIntensity != nil && *ambientIntensity < a.cfg.MinAmbientIntensity {
		return v, ErrLighting
	}

	// 4. Distance.
	v.Distance = Distance(camera.Translation, anchorPose.Translation)
	v.DistanceChecked = true
	if v.Distance <= a.cfg.MinDistanceM {
		v.TooClose = true
		return v, ErrNotInRange
	}
	if v.Distance >= a.cfg.MaxDistanceM {
		v.TooFar = true
		return v, ErrNotInRange
	}

	// 5. Novelty.
	angleDeg, err := HorizontalAngleDegrees(anchorPose, camera)
	if err != nil {
		return v, ErrTransform
	}
	v.Bin = BinIndex(angleDeg)
	v.RecordedNew = grid.RecordIfNew(v.Ring, v.Bin)
	if !v.RecordedNew && !unlimited {
		return v, ErrTooManyImages
	}
	v.RingCompleted = v.RecordedNew && grid.IsRingComplete(v.Ring)
	return v, nil
}
