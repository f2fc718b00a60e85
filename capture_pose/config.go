package capturepose

// Config holds the admission thresholds for a capture session.
// Distances and heights are in meters; angles in radians unless noted.
type Config struct {
	AngleThresholdRad   float64 // Max angle between device forward and direction-to-anchor for the anchor to be "in focus"
	MinAmbientIntensity float64 // Min ambient light estimate (lumens-scale, engine units) to accept a shot
	MinDistanceM        float64 // Camera closer than this to the anchor is rejected
	MaxDistanceM        float64 // Camera farther than this from the anchor is rejected
	LowerRingHeightM    float64 // Height of the lower capture ring above the anchor
	RingSpacingM        float64 // Vertical spacing between the lower and upper rings
}

// DefaultConfig returns the production thresholds.
func DefaultConfig() Config {
	return Config{
		AngleThresholdRad:   0.6,
		MinAmbientIntensity: 650,
		MinDistanceM:        0.25,
		MaxDistanceM:        0.55,
		LowerRingHeightM:    0.0,
		RingSpacingM:        0.25,
	}
}
