package safety

import "errors"

var (
	// ErrNotFound is returned when an alert, incident or scenario id is unknown.
	ErrNotFound = errors.New("not found")

	// ErrInvalidTransition is returned when a lifecycle action requests a
	// state machine edge that is not allowed from the current status.
	// The entity is left unchanged.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrIncidentClosed is returned when a timeline append targets an
	// incident that has already been closed.
	ErrIncidentClosed = errors.New("incident is closed")
)
