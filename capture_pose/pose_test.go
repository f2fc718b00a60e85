package capturepose

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

func TestPoseIsValid(t *testing.T) {
	cases := []struct {
		name string
		pose Pose
		want bool
	}{
		{"identity", IdentityPose(), true},
		{"rotated", NewPose(r3.Vector{X: 1}, quatFromAxisAngle(r3.Vector{Z: 1}, 0.5)), true},
		{
			"rotation norm within tolerance",
			Pose{Rotation: quat.Number{Real: 1 + 5e-5}, Scale: r3.Vector{X: 1, Y: 1, Z: 1}},
			true,
		},
		{
			"rotation norm drifted",
			Pose{Rotation: quat.Number{Real: 1.01}, Scale: r3.Vector{X: 1, Y: 1, Z: 1}},
			false,
		},
		{
			"zero rotation",
			Pose{Scale: r3.Vector{X: 1, Y: 1, Z: 1}},
			false,
		},
		{
			"zero scale",
			Pose{Rotation: quat.Number{Real: 1}},
			false,
		},
		{
			"NaN translation",
			Pose{
				Translation: r3.Vector{X: math.NaN()},
				Rotation:    quat.Number{Real: 1},
				Scale:       r3.Vector{X: 1, Y: 1, Z: 1},
			},
			false,
		},
		{
			"NaN rotation",
			Pose{Rotation: quat.Number{Real: math.NaN()}, Scale: r3.Vector{X: 1, Y: 1, Z: 1}},
			false,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.pose.IsValid(); got != tc.want {
				t.Errorf("IsValid = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestPoseSpatialRoundTrip(t *testing.T) {
	p := NewPose(r3.Vector{X: 0.2, Y: -0.4, Z: 1.1}, quatFromAxisAngle(r3.Vector{Z: 1}, 1.3))
	back := PoseFromSpatial(p.Spatial())

	if !vecApproxEq(back.Translation, p.Translation, 1e-9) {
		t.Errorf("translation = %v, want %v", back.Translation, p.Translation)
	}
	dot := back.Rotation.Real*p.Rotation.Real + back.Rotation.Imag*p.Rotation.Imag +
		back.Rotation.Jmag*p.Rotation.Jmag + back.Rotation.Kmag*p.Rotation.Kmag
	if math.Abs(math.Abs(dot)-1) > 1e-9 {
		t.Errorf("rotation = %v, want %v", back.Rotation, p.Rotation)
	}
}

func TestAnchorPlaceOnce(t *testing.T) {
	anchor := &AnchorState{}

	if _, ok := anchor.Current(); ok {
		t.Fatal("fresh anchor should be unset")
	}
	if anchor.IsValid() {
		t.Fatal("unset anchor should not be valid")
	}

	if err := anchor.Place(IdentityPose()); err != nil {
		t.Fatalf("place: %v", err)
	}
	if err := anchor.Place(NewPoseFromPoint(r3.Vector{X: 1})); err != ErrAnchorAlreadySet {
		t.Fatalf("second place: err = %v, want ErrAnchorAlreadySet", err)
	}

	got, ok := anchor.Current()
	if !ok || !vecApproxEq(got.Translation, r3.Vector{}, 1e-12) {
		t.Errorf("current = %v, %v", got, ok)
	}
	if !anchor.IsValid() {
		t.Error("placed anchor should be valid")
	}
}

func TestAnchorRejectsInvalidPose(t *testing.T) {
	anchor := &AnchorState{}
	bad := Pose{Rotation: quat.Number{Real: 2}, Scale: r3.Vector{X: 1, Y: 1, Z: 1}}
	if err := anchor.Place(bad); err != ErrInvalidPose {
		t.Fatalf("err = %v, want ErrInvalidPose", err)
	}
	if _, ok := anchor.Current(); ok {
		t.Error("failed placement must leave the anchor unset")
	}
}

func TestAnchorClear(t *testing.T) {
	anchor := &AnchorState{}
	if err := anchor.Place(IdentityPose()); err != nil {
		t.Fatalf("place: %v", err)
	}
	anchor.Clear()
	if _, ok := anchor.Current(); ok {
		t.Fatal("cleared anchor should be unset")
	}
	if err := anchor.Place(IdentityPose()); err != nil {
		t.Errorf("re-place after clear: %v", err)
	}
}
