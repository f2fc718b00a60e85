package replatecamera

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"math"
	"time"

	"github.com/google/uuid"
	"golang.org/x/image/draw"

	capturepose "github.com/ReplateItaly/replate-app-camera/capture_pose"
)

// Vector3 is a JSON-serializable 3-vector.
type Vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Quaternion4 is a JSON-serializable rotation quaternion.
type Quaternion4 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
	W float64 `json:"w"`
}

// Metadata is the pose/environment record attached to every artifact:
// the camera-relative-to-anchor transform at capture time plus the sampled
// gravity vector.
type Metadata struct {
	Translation Vector3     `json:"translation"`
	Rotation    Quaternion4 `json:"rotation"`
	Scale       Vector3     `json:"scale"`
	Gravity     Vector3     `json:"gravity"`
}

// MetadataFromPose stamps a relative camera pose and gravity sample into a
// metadata record. The rotation is renormalized before serialization so the
// record always carries a unit quaternion even when the transform drifted.
func MetadataFromPose(rel capturepose.Pose, gravity Vector3) Metadata {
	q := rel.Rotation
	n := math.Sqrt(q.Real*q.Real + q.Imag*q.Imag + q.Jmag*q.Jmag + q.Kmag*q.Kmag)
	if n > 0 {
		q.Real /= n
		q.Imag /= n
		q.Jmag /= n
		q.Kmag /= n
	}
	return Metadata{
		Translation: Vector3{X: rel.Translation.X, Y: rel.Translation.Y, Z: rel.Translation.Z},
		Rotation:    Quaternion4{X: q.Imag, Y: q.Jmag, Z: q.Kmag, W: q.Real},
		Scale:       Vector3{X: rel.Scale.X, Y: rel.Scale.Y, Z: rel.Scale.Z},
		Gravity:     gravity,
	}
}

// Artifact is an encoded output image plus its metadata record. Ownership
// transfers to the caller when its request resolves.
type Artifact struct {
	ID       string
	JPEG     []byte
	Width    int
	Height   int
	Metadata Metadata
	Created  time.Time

	// Ref is the persisted location, set once the store accepts the artifact.
	Ref string
}

// ArtifactConfig controls output image geometry and encoding.
type ArtifactConfig struct {
	TargetWidth int // Output width before rotation; height follows the source aspect
	// RotateQuarterTurns is the fixed clockwise rotation correcting the
	// physical camera-to-display mounting offset. 1 = 90 degrees.
	RotateQuarterTurns int
	JPEGQuality        int
}

// DefaultArtifactConfig returns the production output settings.
func DefaultArtifactConfig() ArtifactConfig {
	return ArtifactConfig{
		TargetWidth:        1280,
		RotateQuarterTurns: 1,
		JPEGQuality:        85,
	}
}

// ArtifactBuilder produces output artifacts from raw frames. It is stateless
// and safe for concurrent use; builds are CPU-bound and must run outside the
// session lock.
type ArtifactBuilder struct {
	cfg ArtifactConfig
}

// NewArtifactBuilder returns a builder with the given output settings.
func NewArtifactBuilder(cfg ArtifactConfig) *ArtifactBuilder {
	return &ArtifactBuilder{cfg: cfg}
}

// Build resamples the frame to the target width with a single uniform scale
// factor, applies the fixed mounting rotation, encodes JPEG, and attaches the
// metadata record. Fails with ErrProcessing when the frame is unusable.
func (b *ArtifactBuilder) Build(frame image.Image, meta Metadata) (*Artifact, error) {
	if frame == nil {
		return nil, fmt.Errorf("%w: nil frame", capturepose.ErrProcessing)
	}
	src := frame.Bounds()
	if src.Dx() <= 0 || src.Dy() <= 0 {
		return nil, fmt.Errorf("%w: empty frame %v", capturepose.ErrProcessing, src)
	}

	scale := float64(b.cfg.TargetWidth) / float64(src.Dx())
	dstW := b.cfg.TargetWidth
	dstH := int(math.Round(float64(src.Dy()) * scale))
	if dstH <= 0 {
		dstH = 1
	}

	resized := image.NewRGBA(image.Rect(0, 0, dstW, dstH))
	draw.CatmullRom.Scale(resized, resized.Bounds(), frame, src, draw.Src, nil)

	out := rotateQuarterTurns(resized, b.cfg.RotateQuarterTurns)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, out, &jpeg.Options{Quality: b.cfg.JPEGQuality}); err != nil {
		return nil, fmt.Errorf("%w: encode: %v", capturepose.ErrProcessing, err)
	}

	return &Artifact{
		ID:       uuid.New().String(),
		JPEG:     buf.Bytes(),
		Width:    out.Bounds().Dx(),
		Height:   out.Bounds().Dy(),
		Metadata: meta,
		Created:  time.Now(),
	}, nil
}

// rotateQuarterTurns rotates src clockwise by turns*90 degrees using an exact
// pixel remap. Quarter turns never interpolate, so the rotation is lossless.
func rotateQuarterTurns(src *image.RGBA, turns int) *image.RGBA {
	turns = ((turns % 4) + 4) % 4
	if turns == 0 {
		return src
	}

	b := src.Bounds()
	w, h := b.Dx(), b.Dy()

	var dst *image.RGBA
	if turns%2 == 1 {
		dst = image.NewRGBA(image.Rect(0, 0, h, w))
	} else {
		dst = image.NewRGBA(image.Rect(0, 0, w, h))
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := src.RGBAAt(b.Min.X+x, b.Min.Y+y)
			switch turns {
			case 1:
				dst.SetRGBA(h-1-y, x, c)
			case 2:
				dst.SetRGBA(w-1-x, h-1-y, c)
			case 3:
				dst.SetRGBA(y, w-1-x, c)
			}
		}
	}
	return dst
}
