package capturepose

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/rdk/spatialmath"
)

// rotationNormTolerance is how far a rotation quaternion's norm may drift from 1.
const rotationNormTolerance = 1e-4

// Pose is a rigid transform plus a per-axis scale in a common reference frame.
//
// Conventions are right-handed with Z up: the anchor's vertical axis is its
// local +Z, the horizontal plane is X-Y, and a device's forward (viewing)
// direction is its local +Z rotated into the world frame.
type Pose struct {
	Translation r3.Vector
	Rotation    quat.Number
	Scale       r3.Vector
}

// NewPose returns a Pose with the given translation and rotation and unit scale.
func NewPose(translation r3.Vector, rotation quat.Number) Pose {
	return Pose{
		Translation: translation,
		Rotation:    rotation,
		Scale:       r3.Vector{X: 1, Y: 1, Z: 1},
	}
}

// NewPoseFromPoint returns an unrotated, unit-scale Pose at the given point.
func NewPoseFromPoint(translation r3.Vector) Pose {
	return NewPose(translation, quat.Number{Real: 1})
}

// IdentityPose returns the identity transform.
func IdentityPose() Pose {
	return NewPose(r3.Vector{}, quat.Number{Real: 1})
}

// PoseFromSpatial converts a spatialmath pose. Spatialmath poses are rigid,
// so the result carries unit scale.
func PoseFromSpatial(p spatialmath.Pose) Pose {
	return NewPose(p.Point(), p.Orientation().Quaternion())
}

// Spatial converts to a spatialmath pose, discarding scale.
func (p Pose) Spatial() spatialmath.Pose {
	q := spatialmath.Quaternion(p.Rotation)
	return spatialmath.NewPose(p.Translation, &q)
}

// IsValid reports whether the pose satisfies the pose invariant: the rotation
// is a unit quaternion within tolerance, the scale is not the zero vector,
// and no component is NaN.
func (p Pose) IsValid() bool {
	for _, f := range []float64{
		p.Translation.X, p.Translation.Y, p.Translation.Z,
		p.Rotation.Real, p.Rotation.Imag, p.Rotation.Jmag, p.Rotation.Kmag,
		p.Scale.X, p.Scale.Y, p.Scale.Z,
	} {
		if math.IsNaN(f) {
			return false
		}
	}
	if math.Abs(quat.Abs(p.Rotation)-1) > rotationNormTolerance {
		return false
	}
	if p.Scale.X == 0 && p.Scale.Y == 0 && p.Scale.Z == 0 {
		return false
	}
	return true
}
