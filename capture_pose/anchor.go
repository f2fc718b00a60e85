package capturepose

import "sync"

// AnchorState owns the capture-session origin pose. An anchor is placed at
// most once per session and is immutable until Clear. Safe for concurrent use.
type AnchorState struct {
	mu   sync.RWMutex
	pose *Pose
}

// Place validates and stores the anchor pose. Fails with ErrAnchorAlreadySet
// if an anchor is already live, or ErrInvalidPose if the pose fails the
// invariant.
func (a *AnchorState) Place(pose Pose) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.pose != nil {
		return ErrAnchorAlreadySet
	}
	if !pose.IsValid() {
		return ErrInvalidPose
	}
	p := pose
	a.pose = &p
	return nil
}

// Current returns the live anchor pose, if any.
func (a *AnchorState) Current() (Pose, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.pose == nil {
		return Pose{}, false
	}
	return *a.pose, true
}

// IsValid re-checks the live anchor against the pose invariant. External
// reposition/rescale collaborators mutate the underlying world anchor, so
// validity is not a one-time property.
func (a *AnchorState) IsValid() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.pose != nil && a.pose.IsValid()
}

// Clear returns the state to unset. Used only by session reset/teardown.
func (a *AnchorState) Clear() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pose = nil
}
