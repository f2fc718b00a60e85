package replatecamera

import (
	"context"
	"fmt"
	"image"
	"sync"
	"sync/atomic"
	"time"

	capturepose "github.com/ReplateItaly/replate-app-camera/capture_pose"
	"go.viam.com/rdk/logging"
)

// Config holds all configuration for a capture session.
type Config struct {
	Capture  capturepose.Config
	Artifact ArtifactConfig

	// WatchInterval is the pose-sampling cadence of the Watch loop.
	WatchInterval time.Duration
}

// DefaultConfig returns a Config with production defaults.
func DefaultConfig() Config {
	return Config{
		Capture:       capturepose.DefaultConfig(),
		Artifact:      DefaultArtifactConfig(),
		WatchInterval: 250 * time.Millisecond,
	}
}

// SessionState is the coordinator lifecycle state.
type SessionState int

const (
	// StateIdle means no anchor is placed.
	StateIdle SessionState = iota
	// StateArmed means an anchor is live and captures are accepted.
	StateArmed
)

func (s SessionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateArmed:
		return "armed"
	default:
		return "unknown"
	}
}

// rangeState tracks which side of the admissible distance band the camera
// was last seen on, for edge-triggered too-close/too-far/back-in-range events.
type rangeState int

const (
	rangeUnknown rangeState = iota
	rangeOK
	rangeTooClose
	rangeTooFar
)

// Coordinator owns all state for one 360-degree capture session: the anchor,
// the coverage grid, focus and range tracking. All public methods are safe
// for concurrent use; shared state lives behind a single mutex, and critical
// sections are short and never perform I/O.
type Coordinator struct {
	logger  logging.Logger
	cfg     Config
	tracker TrackingSource
	motion  MotionSource
	store   ArtifactStore

	builder   *ArtifactBuilder
	admission *capturepose.Admission

	mu        sync.Mutex
	anchor    capturepose.AnchorState
	grid      capturepose.CoverageGrid
	focusRing int
	rng       rangeState
	ringDone  [capturepose.NumRings]bool

	resetting atomic.Bool
	events    chan Event
}

// NewCoordinator creates a session coordinator. tracker and store are
// required; motion may be nil, in which case a straight-down gravity vector
// is stamped into artifacts.
func NewCoordinator(cfg Config, tracker TrackingSource, motion MotionSource, store ArtifactStore, logger logging.Logger) (*Coordinator, error) {
	if tracker == nil {
		return nil, fmt.Errorf("tracking source is required")
	}
	if store == nil {
		return nil, fmt.Errorf("artifact store is required")
	}
	if cfg.WatchInterval <= 0 {
		cfg.WatchInterval = DefaultConfig().WatchInterval
	}
	return &Coordinator{
		logger:    logger,
		cfg:       cfg,
		tracker:   tracker,
		motion:    motion,
		store:     store,
		builder:   NewArtifactBuilder(cfg.Artifact),
		admission: capturepose.NewAdmission(cfg.Capture),
		focusRing: -1,
		events:    make(chan Event, eventChannelBuffer),
	}, nil
}

// Events returns the session notification channel. Notifications are dropped,
// not queued, when the subscriber falls behind.
func (c *Coordinator) Events() <-chan Event {
	return c.events
}

// emitLocked sends an event without blocking. Callers hold c.mu.
func (c *Coordinator) emitLocked(kind EventKind, ring int) {
	select {
	case c.events <- Event{Kind: kind, Ring: ring, Time: time.Now()}:
	default:
		c.logger.Debugf("event %v dropped: subscriber behind", kind)
	}
}

// PlaceAnchor places the session anchor. Fails with ErrAnchorAlreadySet when
// an anchor is live, or ErrInvalidPose when the pose fails the invariant.
func (c *Coordinator) PlaceAnchor(pose capturepose.Pose) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.anchor.Place(pose); err != nil {
		return err
	}
	c.logger.Infof("Anchor placed at (%.3f, %.3f, %.3f)", pose.Translation.X, pose.Translation.Y, pose.Translation.Z)
	c.emitLocked(EventAnchorPlaced, -1)
	return nil
}

// PlaceAnchorAt raycasts the screen point into the world and places the
// anchor at the hit, if any.
func (c *Coordinator) PlaceAnchorAt(ctx context.Context, screenPoint image.Point) error {
	pose, ok, err := c.tracker.Raycast(ctx, screenPoint)
	if err != nil {
		return fmt.Errorf("%w: raycast: %v", capturepose.ErrCapture, err)
	}
	if !ok {
		return ErrNoSurface
	}
	return c.PlaceAnchor(pose)
}

// State reports the session lifecycle state.
func (c *Coordinator) State() SessionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

// RemainingCount returns the number of uncaptured targets.
func (c *Coordinator) RemainingCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.grid.Remaining()
}

// TotalCaptured returns the number of distinct targets captured so far.
func (c *Coordinator) TotalCaptured() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.grid.TotalCaptured()
}

// IsComplete reports whether all 144 targets have been captured.
func (c *Coordinator) IsComplete() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.grid.IsFullyComplete()
}

// SuggestNextView proposes a camera pose covering the next uncaptured target.
// ok is false when no anchor is placed or the session is complete.
func (c *Coordinator) SuggestNextView() (capturepose.SuggestedView, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	anchorPose, set := c.anchor.Current()
	if !set {
		return capturepose.SuggestedView{}, false
	}
	return capturepose.SuggestNextView(anchorPose, &c.grid, c.cfg.Capture)
}

// Reset tears down the anchor and coverage state, returning the session to
// idle. Concurrent resets collapse into one: while a reset is in progress
// further calls are no-ops. Requests admitted before the reset still resolve
// against their original state.
func (c *Coordinator) Reset() {
	if !c.resetting.CompareAndSwap(false, true) {
		return
	}
	defer c.resetting.Store(false)

	c.mu.Lock()
	c.anchor.Clear()
	c.grid.Reset()
	c.focusRing = -1
	c.rng = rangeUnknown
	c.ringDone = [capturepose.NumRings]bool{}
	c.mu.Unlock()

	c.logger.Info("Session reset")
}

// Close tears down the session.
func (c *Coordinator) Close(_ context.Context) error {
	c.Reset()
	return nil
}

// updateRangeLocked applies a distance observation and emits edge-triggered
// range events. Callers hold c.mu.
func (c *Coordinator) updateRangeLocked(tooClose, tooFar bool) {
	next := rangeOK
	switch {
	case tooClose:
		next = rangeTooClose
	case tooFar:
		next = rangeTooFar
	}
	if next == c.rng {
		return
	}
	prev := c.rng
	c.rng = next
	switch next {
	case rangeTooClose:
		c.emitLocked(EventTooClose, -1)
	case rangeTooFar:
		c.emitLocked(EventTooFar, -1)
	case rangeOK:
		// Only a recovery is announced; the initial in-range observation is not.
		if prev == rangeTooClose || prev == rangeTooFar {
			c.emitLocked(EventBackInRange, -1)
		}
	}
}

// updateFocusLocked applies a ring observation and emits a focus-ring-changed
// event on transitions. Callers hold c.mu.
func (c *Coordinator) updateFocusLocked(ring int) {
	if ring == c.focusRing {
		return
	}
	c.focusRing = ring
	c.emitLocked(EventFocusRingChanged, ring)
}

// sampleGravity reads the motion collaborator, defaulting to straight-down
// unit gravity when none is wired or it fails.
func (c *Coordinator) sampleGravity(ctx context.Context) Vector3 {
	if c.motion == nil {
		return Vector3{Z: -1}
	}
	g, err := c.motion.GravityVector(ctx)
	if err != nil {
		c.logger.Warnf("gravity sample failed, using default: %v", err)
		return Vector3{Z: -1}
	}
	return Vector3{X: g.X, Y: g.Y, Z: g.Z}
}
