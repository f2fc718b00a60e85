package replatecamera

import (
	"context"
	"errors"
	"image"

	"github.com/golang/geo/r3"

	capturepose "github.com/ReplateItaly/replate-app-camera/capture_pose"
)

// ErrNoSurface is returned by anchor placement when the raycast finds no
// surface at the requested screen point.
var ErrNoSurface = errors.New("no surface found at screen point")

// Frame is a camera frame with an optional ambient light estimate.
type Frame struct {
	Image image.Image
	// AmbientIntensity is the engine's light estimate in its native
	// lumens-scale units, or nil when the engine offers none.
	AmbientIntensity *float64
}

// TrackingSource is the world-tracking collaborator: it supplies camera poses
// continuously and frames on demand.
type TrackingSource interface {
	// CurrentPose returns the camera pose in the world frame.
	CurrentPose(ctx context.Context) (capturepose.Pose, error)

	// CurrentFrame returns the latest camera frame and lighting estimate.
	CurrentFrame(ctx context.Context) (Frame, error)

	// Raycast projects a screen point onto world geometry and returns the
	// hit pose, or ok=false when nothing is hit.
	Raycast(ctx context.Context, screenPoint image.Point) (capturepose.Pose, bool, error)
}

// MotionSource is the motion-sensing collaborator, sampled for the gravity
// vector stamped into artifact metadata.
type MotionSource interface {
	GravityVector(ctx context.Context) (r3.Vector, error)
}
