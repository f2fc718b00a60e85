package capturepose

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

const testEps = 1e-9

// quatFromAxisAngle builds a unit rotation quaternion from a unit axis and angle.
func quatFromAxisAngle(axis r3.Vector, theta float64) quat.Number {
	s := math.Sin(theta / 2)
	return quat.Number{
		Real: math.Cos(theta / 2),
		Imag: axis.X * s,
		Jmag: axis.Y * s,
		Kmag: axis.Z * s,
	}
}

// quatLookAt builds a rotation taking local +Z onto the (unit) direction dir.
func quatLookAt(dir r3.Vector) quat.Number {
	z := r3.Vector{Z: 1}
	dot := z.Dot(dir)
	if dot > 0.9999 {
		return quat.Number{Real: 1}
	}
	if dot < -0.9999 {
		// 180 degrees about X.
		return quat.Number{Imag: 1}
	}
	axis := z.Cross(dir)
	axis = axis.Mul(1.0 / axis.Norm())
	return quatFromAxisAngle(axis, math.Acos(dot))
}

func vecApproxEq(a, b r3.Vector, eps float64) bool {
	return math.Abs(a.X-b.X) < eps && math.Abs(a.Y-b.Y) < eps && math.Abs(a.Z-b.Z) < eps
}

func TestAngleBetween(t *testing.T) {
	cases := []struct {
		name    string
		a, b    r3.Vector
		want    float64
		wantErr bool
	}{
		{"parallel", r3.Vector{X: 1}, r3.Vector{X: 2}, 0, false},
		{"orthogonal", r3.Vector{X: 1}, r3.Vector{Y: 1}, math.Pi / 2, false},
		{"antiparallel", r3.Vector{Z: 1}, r3.Vector{Z: -3}, math.Pi, false},
		{"zero first", r3.Vector{}, r3.Vector{X: 1}, 0, true},
		{"zero second", r3.Vector{X: 1}, r3.Vector{}, 0, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := AngleBetween(tc.a, tc.b)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if math.Abs(got-tc.want) > 1e-12 {
				t.Errorf("angle = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestForward(t *testing.T) {
	// Identity pose looks along +Z.
	if got := Forward(IdentityPose()); !vecApproxEq(got, r3.Vector{Z: 1}, testEps) {
		t.Errorf("identity forward = %v", got)
	}

	// Rotating 90 degrees about X takes +Z to -Y.
	p := NewPose(r3.Vector{}, quatFromAxisAngle(r3.Vector{X: 1}, math.Pi/2))
	if got := Forward(p); !vecApproxEq(got, r3.Vector{Y: -1}, testEps) {
		t.Errorf("rotated forward = %v", got)
	}
}

func TestRelativeTransformRoundTrip(t *testing.T) {
	anchors := []Pose{
		IdentityPose(),
		NewPose(r3.Vector{X: 0.3, Y: -1.2, Z: 0.8}, quatFromAxisAngle(r3.Vector{Z: 1}, 0.7)),
		{
			Translation: r3.Vector{X: -2, Y: 0.5, Z: 1.5},
			Rotation:    quatFromAxisAngle(r3.Vector{X: 0.6, Y: 0.8}, 1.9),
			Scale:       r3.Vector{X: 2, Y: 2, Z: 2},
		},
	}
	cameras := []Pose{
		NewPose(r3.Vector{X: 0.4, Y: 0.1, Z: 0.2}, quatLookAt(r3.Vector{X: -1})),
		NewPose(r3.Vector{X: -0.35, Y: 0.35, Z: 0.31}, quatFromAxisAngle(r3.Vector{Y: 1}, 2.2)),
	}

	for ai, anchor := range anchors {
		for ci, camera := range cameras {
			rel, err := RelativeTransform(anchor, camera)
			if err != nil {
				t.Fatalf("anchor %d camera %d: %v", ai, ci, err)
			}
			back := Compose(anchor, rel)
			if !vecApproxEq(back.Translation, camera.Translation, 1e-9) {
				t.Errorf("anchor %d camera %d: translation %v, want %v", ai, ci, back.Translation, camera.Translation)
			}
			// Quaternions q and -q encode the same rotation.
			dot := back.Rotation.Real*camera.Rotation.Real + back.Rotation.Imag*camera.Rotation.Imag +
				back.Rotation.Jmag*camera.Rotation.Jmag + back.Rotation.Kmag*camera.Rotation.Kmag
			if math.Abs(math.Abs(dot)-1) > 1e-9 {
				t.Errorf("anchor %d camera %d: rotation %v, want %v", ai, ci, back.Rotation, camera.Rotation)
			}
			if !vecApproxEq(back.Scale, camera.Scale, 1e-9) {
				t.Errorf("anchor %d camera %d: scale %v, want %v", ai, ci, back.Scale, camera.Scale)
			}
		}
	}
}

func TestRelativeTransformInvalidPose(t *testing.T) {
	bad := Pose{Rotation: quat.Number{Real: 2}, Scale: r3.Vector{X: 1, Y: 1, Z: 1}}
	if _, err := RelativeTransform(bad, IdentityPose()); err == nil {
		t.Error("expected error for invalid anchor")
	}
	if _, err := RelativeTransform(IdentityPose(), bad); err == nil {
		t.Error("expected error for invalid camera")
	}
}

func TestHorizontalAngleDegrees(t *testing.T) {
	cases := []struct {
		name   string
		anchor Pose
		camPos r3.Vector
		want   float64
	}{
		{"along local X", IdentityPose(), r3.Vector{X: 0.4}, 0},
		{"along local Y", IdentityPose(), r3.Vector{Y: 0.4}, 90},
		{"47 degrees", IdentityPose(), r3.Vector{X: 0.4 * math.Cos(47 * math.Pi / 180), Y: 0.4 * math.Sin(47 * math.Pi / 180)}, 47},
		{"negative Y wraps", IdentityPose(), r3.Vector{Y: -0.4}, 270},
		{
			// A 90-degree anchor yaw subtracts 90 from the world angle.
			"yawed anchor",
			NewPose(r3.Vector{}, quatFromAxisAngle(r3.Vector{Z: 1}, math.Pi/2)),
			r3.Vector{Y: 0.4},
			0,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			camera := NewPoseFromPoint(tc.camPos)
			got, err := HorizontalAngleDegrees(tc.anchor, camera)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("angle = %v, want %v", got, tc.want)
			}
			if got < 0 || got >= 360 {
				t.Errorf("angle %v outside [0, 360)", got)
			}
		})
	}

	t.Run("on vertical axis", func(t *testing.T) {
		camera := NewPoseFromPoint(r3.Vector{Z: 0.4})
		if _, err := HorizontalAngleDegrees(IdentityPose(), camera); err == nil {
			t.Error("expected degenerate-vector error for camera on the anchor axis")
		}
	})
}

func TestRelativeHeight(t *testing.T) {
	camera := NewPoseFromPoint(r3.Vector{X: 0.3, Z: 0.42})
	if got := RelativeHeight(IdentityPose(), camera); math.Abs(got-0.42) > testEps {
		t.Errorf("height = %v, want 0.42", got)
	}

	// An anchor pitched 180 degrees about X sees the camera below itself.
	flipped := NewPose(r3.Vector{}, quatFromAxisAngle(r3.Vector{X: 1}, math.Pi))
	if got := RelativeHeight(flipped, camera); math.Abs(got+0.42) > testEps {
		t.Errorf("flipped height = %v, want -0.42", got)
	}
}

func TestDistance(t *testing.T) {
	a := r3.Vector{X: 1, Y: 2, Z: 3}
	b := r3.Vector{X: 4, Y: 6, Z: 3}
	if got := Distance(a, b); math.Abs(got-5) > testEps {
		t.Errorf("distance = %v, want 5", got)
	}
}
