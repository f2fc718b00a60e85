package replatecamera

import (
	"context"
	"fmt"
	"image"

	"github.com/go-viper/mapstructure/v2"
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"

	capturepose "github.com/ReplateItaly/replate-app-camera/capture_pose"
)

// commandPose is the wire shape of a pose in command payloads.
type commandPose struct {
	Translation struct{ X, Y, Z float64 }    `mapstructure:"translation"`
	Rotation    struct{ X, Y, Z, W float64 } `mapstructure:"rotation"`
	Scale       *struct{ X, Y, Z float64 }   `mapstructure:"scale"`
}

func (cp commandPose) pose() capturepose.Pose {
	p := capturepose.NewPose(
		r3.Vector{X: cp.Translation.X, Y: cp.Translation.Y, Z: cp.Translation.Z},
		quat.Number{Real: cp.Rotation.W, Imag: cp.Rotation.X, Jmag: cp.Rotation.Y, Kmag: cp.Rotation.Z},
	)
	if cp.Scale != nil {
		p.Scale = r3.Vector{X: cp.Scale.X, Y: cp.Scale.Y, Z: cp.Scale.Z}
	}
	return p
}

// DoCommand is the host bridge: a map-based command surface for callers that
// talk to the coordinator across a generic boundary. Supported commands:
//
//	{"place_anchor": {"translation": {...}, "rotation": {...}}}
//	{"place_anchor_at": {"x": 512, "y": 384}}
//	{"capture": {"unlimited": false}}
//	{"reset": true}
//	{"status": true}
func (c *Coordinator) DoCommand(ctx context.Context, cmd map[string]interface{}) (map[string]interface{}, error) {
	if raw, ok := cmd["place_anchor"]; ok {
		var cp commandPose
		if err := mapstructure.Decode(raw, &cp); err != nil {
			return nil, fmt.Errorf("decode place_anchor: %w", err)
		}
		if err := c.PlaceAnchor(cp.pose()); err != nil {
			return nil, err
		}
		return map[string]interface{}{"place_anchor": true}, nil
	}

	if raw, ok := cmd["place_anchor_at"]; ok {
		var pt struct{ X, Y int }
		if err := mapstructure.Decode(raw, &pt); err != nil {
			return nil, fmt.Errorf("decode place_anchor_at: %w", err)
		}
		if err := c.PlaceAnchorAt(ctx, image.Point{X: pt.X, Y: pt.Y}); err != nil {
			return nil, err
		}
		return map[string]interface{}{"place_anchor_at": true}, nil
	}

	if raw, ok := cmd["capture"]; ok {
		var req struct {
			Unlimited bool `mapstructure:"unlimited"`
		}
		if err := mapstructure.Decode(raw, &req); err != nil {
			return nil, fmt.Errorf("decode capture: %w", err)
		}
		artifact, err := c.Capture(ctx, req.Unlimited)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{
			"artifact_id":  artifact.ID,
			"artifact_ref": artifact.Ref,
		}, nil
	}

	if _, ok := cmd["reset"]; ok {
		c.Reset()
		return map[string]interface{}{"reset": true}, nil
	}

	if _, ok := cmd["status"]; ok {
		c.mu.Lock()
		status := map[string]interface{}{
			"state":     c.stateLocked().String(),
			"captured":  c.grid.TotalCaptured(),
			"remaining": c.grid.Remaining(),
			"complete":  c.grid.IsFullyComplete(),
		}
		c.mu.Unlock()
		return status, nil
	}

	return nil, fmt.Errorf("unrecognized command: %v", cmd)
}

// stateLocked is State without re-acquiring c.mu.
func (c *Coordinator) stateLocked() SessionState {
	if _, ok := c.anchor.Current(); ok {
		return StateArmed
	}
	return StateIdle
}
