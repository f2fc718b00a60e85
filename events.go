package replatecamera

import "time"

// eventChannelBuffer is the size of the event channel. Events are delivered
// with non-blocking sends; a subscriber that falls this far behind loses
// notifications rather than stalling captures.
const eventChannelBuffer = 64

// EventKind identifies a session transition notification.
type EventKind int

const (
	// EventAnchorPlaced fires once when the anchor is placed.
	EventAnchorPlaced EventKind = iota
	// EventRingLowerComplete fires once when all 72 lower-ring bins are captured.
	EventRingLowerComplete
	// EventRingUpperComplete fires once when all 72 upper-ring bins are captured.
	EventRingUpperComplete
	// EventTooClose fires when the camera moves inside the minimum distance.
	EventTooClose
	// EventTooFar fires when the camera moves outside the maximum distance.
	EventTooFar
	// EventBackInRange fires when the camera returns to the admissible band.
	EventBackInRange
	// EventFocusRingChanged fires when the targeted ring changes.
	EventFocusRingChanged
	// EventCaptureFeedback marks an accepted capture, for haptic/visual feedback.
	EventCaptureFeedback
)

func (k EventKind) String() string {
	switch k {
	case EventAnchorPlaced:
		return "anchor_placed"
	case EventRingLowerComplete:
		return "ring_lower_complete"
	case EventRingUpperComplete:
		return "ring_upper_complete"
	case EventTooClose:
		return "too_close"
	case EventTooFar:
		return "too_far"
	case EventBackInRange:
		return "back_in_range"
	case EventFocusRingChanged:
		return "focus_ring_changed"
	case EventCaptureFeedback:
		return "capture_feedback"
	default:
		return "unknown"
	}
}

// Event is a fire-once session transition notification.
type Event struct {
	Kind EventKind
	// Ring is set for ring-completion and focus-change events.
	Ring int
	Time time.Time
}
