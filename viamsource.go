package replatecamera

import (
	"context"
	"fmt"
	"image"

	"github.com/golang/geo/r3"

	capturepose "github.com/ReplateItaly/replate-app-camera/capture_pose"
	"go.viam.com/rdk/components/camera"
	"go.viam.com/rdk/components/movementsensor"
	"go.viam.com/rdk/logging"
	"go.viam.com/rdk/pointcloud"
	"go.viam.com/rdk/robot"
	"go.viam.com/rdk/services/motion"
	"go.viam.com/rdk/spatialmath"
)

// ViamTracker adapts a Viam machine into the coordinator's tracking and
// motion collaborators: camera poses come from the motion service's frame
// lookups, frames from the camera, gravity from a movement sensor.
type ViamTracker struct {
	logger logging.Logger
	cam    camera.Camera
	motion motion.Service
	imu    movementsensor.MovementSensor
}

// NewViamTracker looks up the camera, motion service and (optionally) the
// movement sensor on the machine. imuName may be empty.
func NewViamTracker(machine robot.Robot, logger logging.Logger, camName, imuName string) (*ViamTracker, error) {
	cam, err := camera.FromProvider(machine, camName)
	if err != nil {
		return nil, fmt.Errorf("camera %q: %w", camName, err)
	}

	motionSvc, err := motion.FromProvider(machine, "builtin")
	if err != nil {
		return nil, fmt.Errorf("motion service: %w", err)
	}

	t := &ViamTracker{
		logger: logger,
		cam:    cam,
		motion: motionSvc,
	}

	if imuName != "" {
		imu, err := movementsensor.FromProvider(machine, imuName)
		if err != nil {
			return nil, fmt.Errorf("movement sensor %q: %w", imuName, err)
		}
		t.imu = imu
	}
	return t, nil
}

// CurrentPose returns the camera pose in the world frame.
func (t *ViamTracker) CurrentPose(ctx context.Context) (capturepose.Pose, error) {
	pif, err := t.motion.GetPose(ctx, t.cam.Name(), "world", nil, nil)
	if err != nil {
		return capturepose.Pose{}, fmt.Errorf("camera pose in world: %w", err)
	}
	return capturepose.PoseFromSpatial(pif.Pose()), nil
}

// CurrentFrame grabs a frame and derives a rough ambient estimate from the
// mean luma, standing in for a dedicated light sensor.
func (t *ViamTracker) CurrentFrame(ctx context.Context) (Frame, error) {
	img, err := camera.DecodeImageFromCamera(ctx, "", nil, t.cam)
	if err != nil {
		return Frame{}, fmt.Errorf("grab frame: %w", err)
	}
	lux := estimateAmbient(img)
	return Frame{Image: img, AmbientIntensity: &lux}, nil
}

// Raycast places the anchor at the dominant surface in view: the centroid of
// the camera's point cloud, transformed into the world frame.
// TODO: project screenPoint through the camera intrinsics once the rig
// reports them, instead of ignoring it.
func (t *ViamTracker) Raycast(ctx context.Context, _ image.Point) (capturepose.Pose, bool, error) {
	cloud, err := t.cam.NextPointCloud(ctx, nil)
	if err != nil {
		return capturepose.Pose{}, false, fmt.Errorf("point cloud: %w", err)
	}
	if cloud.Size() == 0 {
		return capturepose.Pose{}, false, nil
	}

	var sum r3.Vector
	cloud.Iterate(0, 0, func(p r3.Vector, _ pointcloud.Data) bool {
		sum = sum.Add(p)
		return true
	})
	centroid := sum.Mul(1.0 / float64(cloud.Size()))

	camPose, err := t.CurrentPose(ctx)
	if err != nil {
		return capturepose.Pose{}, false, err
	}
	hit := spatialmath.Compose(camPose.Spatial(), spatialmath.NewPoseFromPoint(centroid))
	return capturepose.NewPoseFromPoint(hit.Point()), true, nil
}

// GravityVector samples the movement sensor's linear acceleration, or a
// straight-down unit vector when no sensor is wired.
func (t *ViamTracker) GravityVector(ctx context.Context) (r3.Vector, error) {
	if t.imu == nil {
		return r3.Vector{Z: -1}, nil
	}
	return t.imu.LinearAcceleration(ctx, nil)
}

// estimateAmbient maps mean frame luma onto the lumens-scale range the
// lighting threshold expects (a fully lit frame reads near 2000).
func estimateAmbient(img image.Image) float64 {
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return 0
	}

	// Sample a coarse grid; exact luma is not needed for a threshold check.
	const steps = 32
	var total, n float64
	for yi := 0; yi < steps; yi++ {
		for xi := 0; xi < steps; xi++ {
			x := b.Min.X + xi*b.Dx()/steps
			y := b.Min.Y + yi*b.Dy()/steps
			r, g, bl, _ := img.At(x, y).RGBA()
			luma := 0.2126*float64(r) + 0.7152*float64(g) + 0.0722*float64(bl)
			total += luma / 65535
			n++
		}
	}
	return total / n * 2000
}
