package replatecamera

import (
	"context"
	"time"

	capturepose "github.com/ReplateItaly/replate-app-camera/capture_pose"
)

// Watch runs the free-running pose sampler: it polls the tracking engine on
// the configured cadence and feeds each pose into the range and focus
// trackers, so too-close/too-far/back-in-range and focus-ring-changed events
// fire continuously between captures. Returns when the context is cancelled.
func (c *Coordinator) Watch(ctx context.Context) error {
	ticker := time.NewTicker(c.cfg.WatchInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		pose, err := c.tracker.CurrentPose(ctx)
		if err != nil {
			c.logger.Warnf("pose sample failed: %v", err)
			continue
		}
		c.ObservePose(pose)
	}
}

// ObservePose feeds one camera pose observation into the session trackers
// without capturing. Tracking engines that push pose updates call this
// directly instead of running Watch.
func (c *Coordinator) ObservePose(pose capturepose.Pose) {
	if !pose.IsValid() {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	anchorPose, ok := c.anchor.Current()
	if !ok || !anchorPose.IsValid() {
		return
	}

	cfg := c.cfg.Capture
	dist := capturepose.Distance(pose.Translation, anchorPose.Translation)
	c.updateRangeLocked(dist <= cfg.MinDistanceM, dist >= cfg.MaxDistanceM)

	// The focus ring only moves while the device is aimed at the anchor.
	toAnchor := anchorPose.Translation.Sub(pose.Translation)
	angle, err := capturepose.AngleBetween(capturepose.Forward(pose), toAnchor)
	if err != nil || angle >= cfg.AngleThresholdRad {
		return
	}
	ring := capturepose.TargetRing(
		capturepose.RelativeHeight(anchorPose, pose),
		cfg.LowerRingHeightM, cfg.RingSpacingM,
	)
	c.updateFocusLocked(ring)
}
