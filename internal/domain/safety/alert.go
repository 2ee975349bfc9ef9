package safety

import "time"

// SourceKind identifies what produced an alert.
type SourceKind string

// Known alert sources.
const (
	SourceSensor     SourceKind = "sensor"
	SourceCamera     SourceKind = "camera"
	SourceAgent      SourceKind = "agent"
	SourceManual     SourceKind = "manual"
	SourceSimulation SourceKind = "simulation"
)

// AlertStatus is the lifecycle state of an alert.
type AlertStatus string

// Alert lifecycle states. Transitions only move forward:
// active -> acknowledged -> resolved, with the direct
// active -> resolved skip allowed. Resolved is terminal.
const (
	AlertActive       AlertStatus = "active"
	AlertAcknowledged AlertStatus = "acknowledged"
	AlertResolved     AlertStatus = "resolved"
)

// CanTransitionTo reports whether the state machine allows moving from s to next.
func (s AlertStatus) CanTransitionTo(next AlertStatus) bool {
	switch s {
	case AlertActive:
		return next == AlertAcknowledged || next == AlertResolved
	case AlertAcknowledged:
		return next == AlertResolved
	default:
		return false
	}
}

// Alert is a single time-stamped safety event with its own
// acknowledge/resolve lifecycle. Instances are owned by the alert engine;
// consumers only ever see clones.
type Alert struct {
	// ID is the opaque unique identifier, immutable after creation.
	ID string `json:"id"`
	// Kind is an open classification tag, e.g. "runway_incursion".
	Kind string `json:"kind"`
	// Severity is the urgency tier of the alert.
	Severity Severity `json:"severity"`
	// Zone is the location tag where the alert originated.
	Zone string `json:"zone"`
	// Message is the human-readable description.
	Message string `json:"message"`
	// CreatedAt is when the alert was allocated by the engine.
	CreatedAt time.Time `json:"created_at"`
	// Source identifies the kind of producer that raised the alert.
	Source SourceKind `json:"source"`
	// SourceID identifies the concrete producer (sensor id, camera id, agent id).
	SourceID string `json:"source_id"`
	// Status is the current lifecycle state.
	Status AlertStatus `json:"status"`
	// AssignedTo is the actor who acknowledged the alert, if any.
	AssignedTo string `json:"assigned_to,omitempty"`
	// Metadata is an open key/value bag (confidence, threshold values, ...).
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Clone returns a deep copy of the alert.
func (a *Alert) Clone() *Alert {
	if a == nil {
		return nil
	}

	cloned := *a

	if a.Metadata != nil {
		cloned.Metadata = make(map[string]any, len(a.Metadata))
		for k, v := range a.Metadata {
			cloned.Metadata[k] = v
		}
	}

	return &cloned
}

// TeamDispatch records a response team being sent to an alert.
// Dispatching is a side effect only and never changes the alert status.
type TeamDispatch struct {
	// ID is the opaque unique identifier of the dispatch record.
	ID string `json:"id"`
	// AlertID is the alert the team was dispatched for.
	AlertID string `json:"alert_id"`
	// TeamKind names the kind of team sent (security, medical, fire, ...).
	TeamKind string `json:"team_kind"`
	// DispatchedBy is the actor who ordered the dispatch.
	DispatchedBy string `json:"dispatched_by"`
	// DispatchedAt is when the dispatch was recorded.
	DispatchedAt time.Time `json:"dispatched_at"`
	// ETA is the estimated time until the team arrives on site.
	ETA time.Duration `json:"eta"`
}

// Clone returns a copy of the dispatch record.
func (d *TeamDispatch) Clone() *TeamDispatch {
	if d == nil {
		return nil
	}

	cloned := *d

	return &cloned
}
