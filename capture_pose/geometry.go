package capturepose

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// Rotate applies the rotation q to the vector v (q v q*).
func Rotate(q quat.Number, v r3.Vector) r3.Vector {
	p := quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}
	r := quat.Mul(quat.Mul(q, p), quat.Conj(q))
	return r3.Vector{X: r.Imag, Y: r.Jmag, Z: r.Kmag}
}

// Forward returns the pose's viewing direction: local +Z rotated into the world frame.
func Forward(p Pose) r3.Vector {
	return Rotate(p.Rotation, r3.Vector{Z: 1})
}

// Distance returns the Euclidean distance between two points.
func Distance(a, b r3.Vector) float64 {
	return a.Sub(b).Norm()
}

// AngleBetween returns the angle in radians between two vectors.
// Returns ErrDegenerateVector if either vector has (near-)zero length.
func AngleBetween(a, b r3.Vector) (float64, error) {
	na := a.Norm()
	nb := b.Norm()
	if na < 1e-12 || nb < 1e-12 {
		return 0, ErrDegenerateVector
	}
	cos := a.Dot(b) / (na * nb)
	// Clamp against floating drift before acos.
	if cos > 1 {
		cos = 1
	} else if cos < -1 {
		cos = -1
	}
	return math.Acos(cos), nil
}

// RelativeTransform expresses camera in anchor-local coordinates:
// inverse(anchor) composed with camera. Returns ErrTransform if either pose
// fails the pose invariant.
func RelativeTransform(anchor, camera Pose) (Pose, error) {
	if !anchor.IsValid() || !camera.IsValid() {
		return Pose{}, ErrTransform
	}

	inv := quat.Conj(anchor.Rotation)
	t := Rotate(inv, camera.Translation.Sub(anchor.Translation))

	rel := Pose{
		Translation: safeDivide(t, anchor.Scale),
		Rotation:    renormalize(quat.Mul(inv, camera.Rotation)),
		Scale:       safeDivide(camera.Scale, anchor.Scale),
	}
	return rel, nil
}

// Compose applies child in parent's local frame, the inverse of RelativeTransform.
func Compose(parent, child Pose) Pose {
	scaled := r3.Vector{
		X: child.Translation.X * parent.Scale.X,
		Y: child.Translation.Y * parent.Scale.Y,
		Z: child.Translation.Z * parent.Scale.Z,
	}
	return Pose{
		Translation: parent.Translation.Add(Rotate(parent.Rotation, scaled)),
		Rotation:    renormalize(quat.Mul(parent.Rotation, child.Rotation)),
		Scale: r3.Vector{
			X: parent.Scale.X * child.Scale.X,
			Y: parent.Scale.Y * child.Scale.Y,
			Z: parent.Scale.Z * child.Scale.Z,
		},
	}
}

// HorizontalAngleDegrees returns the angle in the anchor's local horizontal
// plane between the anchor's local X axis and the direction from anchor to
// camera, normalized into [0, 360). Returns ErrDegenerateVector when the
// camera sits on the anchor's vertical axis.
func HorizontalAngleDegrees(anchor, camera Pose) (float64, error) {
	d := Rotate(quat.Conj(anchor.Rotation), camera.Translation.Sub(anchor.Translation))
	if math.Hypot(d.X, d.Y) < 1e-12 {
		return 0, ErrDegenerateVector
	}
	deg := math.Atan2(d.Y, d.X) * 180 / math.Pi
	for deg < 0 {
		deg += 360
	}
	for deg >= 360 {
		deg -= 360
	}
	return deg, nil
}

// RelativeHeight returns the camera's height above the anchor along the
// anchor's local vertical axis.
func RelativeHeight(anchor, camera Pose) float64 {
	d := Rotate(quat.Conj(anchor.Rotation), camera.Translation.Sub(anchor.Translation))
	return d.Z
}

func renormalize(q quat.Number) quat.Number {
	n := quat.Abs(q)
	if n < 1e-12 {
		return quat.Number{Real: 1}
	}
	return quat.Scale(1/n, q)
}

// safeDivide divides v componentwise by s, passing components through
// unchanged where s is zero. Validity checks reject all-zero scales, but a
// single zero axis must not poison the transform with Inf.
func safeDivide(v, s r3.Vector) r3.Vector {
	out := v
	if s.X != 0 {
		out.X = v.X / s.X
	}
	if s.Y != 0 {
		out.Y = v.Y / s.Y
	}
	if s.Z != 0 {
		out.Z = v.Z / s.Z
	}
	return out
}
