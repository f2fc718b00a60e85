package replatecamera

import (
	"context"
	"fmt"

	capturepose "github.com/ReplateItaly/replate-app-camera/capture_pose"
)

// CaptureAsync starts one capture request and returns its single-flight
// handle. The request runs to resolution regardless of the caller; abandoning
// the handle is safe.
func (c *Coordinator) CaptureAsync(ctx context.Context, unlimited bool) *PendingCapture {
	p := newPendingCapture()
	go c.runCapture(ctx, unlimited, p)
	return p
}

// Capture runs one capture request to completion. With unlimited set,
// duplicate-angle shots are admitted instead of failing with ErrTooManyImages.
func (c *Coordinator) Capture(ctx context.Context, unlimited bool) (*Artifact, error) {
	return c.CaptureAsync(ctx, unlimited).Wait(ctx)
}

// runCapture is the per-request flow: sample the tracking engine, admit
// under the session lock, then build and persist the artifact outside it.
// The handle settles exactly once on every path, including panics.
func (c *Coordinator) runCapture(ctx context.Context, unlimited bool, p *PendingCapture) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Errorf("capture panicked: %v", r)
			p.reject(capturepose.ErrUnknown)
		}
	}()

	pose, err := c.tracker.CurrentPose(ctx)
	if err != nil {
		p.reject(fmt.Errorf("%w: current pose: %v", capturepose.ErrCapture, err))
		return
	}
	frame, err := c.tracker.CurrentFrame(ctx)
	if err != nil {
		p.reject(fmt.Errorf("%w: current frame: %v", capturepose.ErrCapture, err))
		return
	}

	// Geometry and novelty run inside the lock: two concurrent requests for
	// the same bin must be serialized so at most one observes "new", and it
	// must happen before any image work so rejected duplicates cost nothing.
	c.mu.Lock()
	verdict, admErr := c.admission.Evaluate(&c.anchor, pose, frame.AmbientIntensity, unlimited, &c.grid)
	if verdict.DistanceChecked {
		c.updateRangeLocked(verdict.TooClose, verdict.TooFar)
	}
	if admErr == nil {
		c.updateFocusLocked(verdict.Ring)
		c.emitLocked(EventCaptureFeedback, verdict.Ring)
		if verdict.RingCompleted && !c.ringDone[verdict.Ring] {
			c.ringDone[verdict.Ring] = true
			if verdict.Ring == capturepose.RingLower {
				c.emitLocked(EventRingLowerComplete, verdict.Ring)
			} else {
				c.emitLocked(EventRingUpperComplete, verdict.Ring)
			}
			c.logger.Infof("Ring %d complete", verdict.Ring)
		}
	}
	c.mu.Unlock()

	if admErr != nil {
		p.reject(admErr)
		return
	}

	meta := MetadataFromPose(verdict.RelativeCamera, c.sampleGravity(ctx))
	artifact, err := c.builder.Build(frame.Image, meta)
	if err != nil {
		p.reject(err)
		return
	}
	ref, err := c.store.Save(ctx, artifact)
	if err != nil {
		p.reject(err)
		return
	}
	artifact.Ref = ref

	c.logger.Debugf("Captured ring %d bin %d -> %s", verdict.Ring, verdict.Bin, ref)
	p.resolve(artifact)
}
