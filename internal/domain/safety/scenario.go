package safety

import "time"

// ScenarioCategory groups scenarios by the part of the airport they exercise.
type ScenarioCategory string

// Scenario categories.
const (
	CategoryTerminal ScenarioCategory = "terminal"
	CategoryAirside  ScenarioCategory = "airside"
	CategoryGeneral  ScenarioCategory = "general"
)

// ScenarioEvent is one timed step of a scenario script.
type ScenarioEvent struct {
	// Offset is the delay from run start until the event is published.
	Offset time.Duration
	// Type is the raw event type published for this step. It must be one
	// of EventAlertRequested, EventIncidentRequested, EventSensorReading
	// or EventDetection.
	Type EventType
	// Payload is the event body, matching Type.
	Payload Payload
}

// Scenario is a static declarative script of timed events used to drive
// training and demo playback. Definitions are read-only; each execution is
// tracked as an independent Run by the scheduler.
type Scenario struct {
	// ID is the static catalog identifier.
	ID string
	// Name is the human-readable scenario title.
	Name string
	// Description summarises what the scenario simulates.
	Description string
	// Category groups the scenario by airport area.
	Category ScenarioCategory
	// Severity is the informational default tier for generated alerts.
	Severity Severity
	// TotalDuration is when the run publishes scenario_completed.
	TotalDuration time.Duration
	// Events is the script, sorted ascending by Offset.
	Events []ScenarioEvent
}
