package safety

import "time"

// IncidentStatus is the lifecycle state of an incident.
type IncidentStatus string

// Incident lifecycle states. Transitions only move forward:
// active -> investigating -> resolved -> closed, with the direct
// active -> resolved skip allowed. Closed is terminal and reachable
// only from resolved.
const (
	IncidentActive        IncidentStatus = "active"
	IncidentInvestigating IncidentStatus = "investigating"
	IncidentResolved      IncidentStatus = "resolved"
	IncidentClosed        IncidentStatus = "closed"
)

// CanTransitionTo reports whether the state machine allows moving from s to next.
func (s IncidentStatus) CanTransitionTo(next IncidentStatus) bool {
	switch s {
	case IncidentActive:
		return next == IncidentInvestigating || next == IncidentResolved
	case IncidentInvestigating:
		return next == IncidentResolved
	case IncidentResolved:
		return next == IncidentClosed
	default:
		return false
	}
}

// TimelineEntry is one step in an incident's response timeline.
// The timeline is append-only and strictly time-ordered.
type TimelineEntry struct {
	// Action describes what happened.
	Action string `json:"action"`
	// At is when the action was recorded.
	At time.Time `json:"at"`
	// ActorID is who performed the action, empty for system entries.
	ActorID string `json:"actor_id,omitempty"`
}

// Incident is an aggregated investigation record linking one or more alerts
// and accumulating a response timeline. Instances are owned by the incident
// engine; consumers only ever see clones.
type Incident struct {
	// ID is the opaque unique identifier.
	ID string `json:"id"`
	// Title is the short human-readable summary.
	Title string `json:"title"`
	// Description details what happened.
	Description string `json:"description"`
	// Severity is the urgency tier of the incident.
	Severity Severity `json:"severity"`
	// Zone is the location tag where the incident occurred.
	Zone string `json:"zone"`
	// CreatedAt is when the incident was allocated by the engine.
	CreatedAt time.Time `json:"created_at"`
	// Status is the current lifecycle state.
	Status IncidentStatus `json:"status"`
	// Analysis is the derived narrative text for the incident.
	Analysis string `json:"analysis,omitempty"`
	// Recommendations is the ordered list of suggested response steps.
	Recommendations []string `json:"recommendations,omitempty"`
	// Timeline is the append-only ordered response history.
	Timeline []TimelineEntry `json:"timeline"`
	// RelatedAlertIDs is the ordered set of linked alert ids.
	RelatedAlertIDs []string `json:"related_alert_ids,omitempty"`
	// AssignedTeam is the set of actor ids working the incident.
	AssignedTeam []string `json:"assigned_team,omitempty"`
}

// Clone returns a deep copy of the incident.
func (i *Incident) Clone() *Incident {
	if i == nil {
		return nil
	}

	cloned := *i

	if i.Recommendations != nil {
		cloned.Recommendations = append([]string(nil), i.Recommendations...)
	}

	if i.Timeline != nil {
		cloned.Timeline = append([]TimelineEntry(nil), i.Timeline...)
	}

	if i.RelatedAlertIDs != nil {
		cloned.RelatedAlertIDs = append([]string(nil), i.RelatedAlertIDs...)
	}

	if i.AssignedTeam != nil {
		cloned.AssignedTeam = append([]string(nil), i.AssignedTeam...)
	}

	return &cloned
}

// Linked reports whether the given alert id is already linked to the incident.
func (i *Incident) Linked(alertID string) bool {
	for _, id := range i.RelatedAlertIDs {
		if id == alertID {
			return true
		}
	}

	return false
}
