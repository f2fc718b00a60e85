package capturepose

import "errors"

var (
	// ErrNoAnchor is returned when a capture is attempted before an anchor is placed.
	ErrNoAnchor = errors.New("no anchor placed")

	// ErrInvalidAnchor is returned when the live anchor no longer satisfies the pose invariant.
	ErrInvalidAnchor = errors.New("anchor pose is invalid")

	// ErrAnchorAlreadySet is returned when placing an anchor while one is already live.
	ErrAnchorAlreadySet = errors.New("anchor already set")

	// ErrInvalidPose is returned when a pose fails validation (non-unit rotation, zero scale, or NaN).
	ErrInvalidPose = errors.New("invalid pose")

	// ErrNotInFocus is returned when the device is not aimed at the anchor closely enough.
	ErrNotInFocus = errors.New("anchor not in focus")

	// ErrCapture is returned when the tracking engine fails to deliver a pose or frame.
	ErrCapture = errors.New("capture failed")

	// ErrTooManyImages is returned when the target bin has already been captured.
	ErrTooManyImages = errors.New("angle already captured")

	// ErrProcessing is returned when the frame cannot be resampled or encoded.
	ErrProcessing = errors.New("image processing failed")

	// ErrSaving is returned when a built artifact cannot be persisted.
	ErrSaving = errors.New("artifact saving failed")

	// ErrTransform is returned when relative-pose geometry cannot be computed.
	ErrTransform = errors.New("transform computation failed")

	// ErrLighting is returned when the ambient intensity estimate is below the minimum.
	ErrLighting = errors.New("insufficient lighting")

	// ErrNotInRange is returned when the camera is too close to or too far from the anchor.
	ErrNotInRange = errors.New("camera not in capture range")

	// ErrDegenerateVector is returned when an angle is requested between zero-length vectors.
	ErrDegenerateVector = errors.New("zero-length vector")

	// ErrUnknown is the catch-all for unexpected internal faults. Seeing it is a bug signal.
	ErrUnknown = errors.New("unknown internal error")
)
