package replatecamera

import (
	"context"
	"image"
	"image/color"
	"sync"

	"github.com/golang/geo/r3"

	capturepose "github.com/ReplateItaly/replate-app-camera/capture_pose"
)

// OrbitSimulator is a synthetic tracking and motion source: a virtual camera
// orbiting a fixed anchor point. It stands in for the world-tracking engine
// in the CLI's dry-run mode and in tests.
type OrbitSimulator struct {
	cfg    capturepose.Config
	anchor capturepose.Pose

	mu      sync.Mutex
	ring    int
	bin     int
	ambient float64
}

// NewOrbitSimulator returns a simulator orbiting the given anchor, starting
// at ring 0 bin 0 with healthy lighting.
func NewOrbitSimulator(anchor capturepose.Pose, cfg capturepose.Config) *OrbitSimulator {
	return &OrbitSimulator{
		cfg:     cfg,
		anchor:  anchor,
		ambient: 1000,
	}
}

// Anchor returns the simulated anchor pose.
func (s *OrbitSimulator) Anchor() capturepose.Pose {
	return s.anchor
}

// MoveTo positions the virtual camera on the given coverage target.
func (s *OrbitSimulator) MoveTo(ring, bin int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ring = ring
	s.bin = bin
}

// SetAmbient overrides the simulated light estimate.
func (s *OrbitSimulator) SetAmbient(lux float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ambient = lux
}

// CurrentPose returns the virtual camera pose: the canonical view pose for
// the current coverage target.
func (s *OrbitSimulator) CurrentPose(_ context.Context) (capturepose.Pose, error) {
	s.mu.Lock()
	ring, bin := s.ring, s.bin
	s.mu.Unlock()
	return capturepose.PoseFromSpatial(capturepose.ViewPoseFor(s.anchor, ring, bin, s.cfg)), nil
}

// CurrentFrame returns a synthetic frame whose shading varies with the
// current target, plus the simulated light estimate.
func (s *OrbitSimulator) CurrentFrame(_ context.Context) (Frame, error) {
	s.mu.Lock()
	ring, bin := s.ring, s.bin
	ambient := s.ambient
	s.mu.Unlock()

	img := image.NewRGBA(image.Rect(0, 0, 64, 48))
	shade := uint8(40 + 2*bin)
	for y := 0; y < 48; y++ {
		for x := 0; x < 64; x++ {
			img.SetRGBA(x, y, color.RGBA{R: shade, G: uint8(80 + 80*ring), B: uint8(x * 4), A: 255})
		}
	}
	lux := ambient
	return Frame{Image: img, AmbientIntensity: &lux}, nil
}

// Raycast always hits the anchor point, regardless of screen coordinates.
func (s *OrbitSimulator) Raycast(_ context.Context, _ image.Point) (capturepose.Pose, bool, error) {
	return s.anchor, true, nil
}

// GravityVector returns straight-down unit gravity.
func (s *OrbitSimulator) GravityVector(_ context.Context) (r3.Vector, error) {
	return r3.Vector{Z: -1}, nil
}
