package safety

import "time"

// EventType routes an event to its subscribers on the bus.
type EventType string

// Raw event types published by producers (scheduler, sensor feed, detectors).
const (
	// EventAlertRequested asks the alert engine to allocate a new alert.
	EventAlertRequested EventType = "alert_requested"
	// EventIncidentRequested asks the incident engine to allocate a new incident.
	EventIncidentRequested EventType = "incident_requested"
	// EventSensorReading carries one measurement from a sensor.
	EventSensorReading EventType = "sensor_reading"
	// EventDetection carries one classified detection from a camera or detector.
	EventDetection EventType = "detection"
)

// Lifecycle event types published by the engines and the scheduler.
const (
	// EventAlertCreated announces a newly allocated alert.
	EventAlertCreated EventType = "alert_created"
	// EventAlertUpdated announces an acknowledged alert.
	EventAlertUpdated EventType = "alert_updated"
	// EventAlertResolved announces a resolved alert.
	EventAlertResolved EventType = "alert_resolved"
	// EventTeamDispatched announces a team dispatch record.
	EventTeamDispatched EventType = "team_dispatched"
	// EventIncidentCreated announces a newly allocated incident.
	EventIncidentCreated EventType = "incident_created"
	// EventIncidentUpdated announces any incident mutation.
	EventIncidentUpdated EventType = "incident_updated"
	// EventScenarioCompleted announces that a playback run reached its end.
	EventScenarioCompleted EventType = "scenario_completed"
)

// Origin tags an event with where it came from. Scenario playback stamps
// Simulation plus the scenario and run ids; live producers leave it zero,
// which is the only marker distinguishing live data from playback.
type Origin struct {
	// Simulation is true for events generated by scenario playback.
	Simulation bool `json:"simulation,omitempty"`
	// ScenarioID is the static scenario that produced the event.
	ScenarioID string `json:"scenario_id,omitempty"`
	// RunID identifies the playback run that produced the event.
	RunID string `json:"run_id,omitempty"`
}

// Event is the unit of delivery on the bus.
type Event struct {
	// Type selects the subscribers the event is delivered to.
	Type EventType
	// At is when the event was published.
	At time.Time
	// Origin tags playback-generated events.
	Origin Origin
	// Payload is the typed body matching Type.
	Payload Payload
}

// Payload is the closed union of event bodies. Each event type carries
// exactly one payload shape so handlers can type-switch exhaustively
// instead of duck-typing.
type Payload interface {
	eventPayload()
}

// AlertRequest is the payload of EventAlertRequested.
type AlertRequest struct {
	// Kind is the alert classification tag.
	Kind string `json:"kind" yaml:"kind"`
	// Severity is the requested urgency tier.
	Severity Severity `json:"severity" yaml:"severity"`
	// Zone is the location tag.
	Zone string `json:"zone" yaml:"zone"`
	// Message is the human-readable description.
	Message string `json:"message" yaml:"message"`
	// Source identifies the kind of producer raising the alert.
	Source SourceKind `json:"source" yaml:"source"`
	// SourceID identifies the concrete producer.
	SourceID string `json:"source_id" yaml:"source_id"`
	// Metadata is an open key/value bag copied onto the alert.
	Metadata map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// IncidentRequest is the payload of EventIncidentRequested.
type IncidentRequest struct {
	// Title is the short incident summary.
	Title string `json:"title" yaml:"title"`
	// Description details what happened.
	Description string `json:"description" yaml:"description"`
	// Severity is the requested urgency tier.
	Severity Severity `json:"severity" yaml:"severity"`
	// Zone is the location tag.
	Zone string `json:"zone" yaml:"zone"`
}

// Bounds are the configured limits a sensor reading is evaluated against.
type Bounds struct {
	// Min is the lower bound; readings at or below it are flagged.
	Min float64 `json:"min" yaml:"min"`
	// Max is the upper bound; readings at or above it are flagged.
	Max float64 `json:"max" yaml:"max"`
	// Critical is the upper bound that escalates straight to critical.
	Critical float64 `json:"critical" yaml:"critical"`
}

// SensorReading is the payload of EventSensorReading.
type SensorReading struct {
	// SensorID identifies the reporting sensor.
	SensorID string `json:"sensor_id" yaml:"sensor_id"`
	// SensorType is the measurement kind (temperature, motion, wind, ...).
	SensorType string `json:"sensor_type" yaml:"sensor_type"`
	// Zone is the location tag of the sensor.
	Zone string `json:"zone" yaml:"zone"`
	// Value is the measured quantity.
	Value float64 `json:"value" yaml:"value"`
	// Unit is the measurement unit.
	Unit string `json:"unit" yaml:"unit"`
	// Quality is the confidence in the measurement, 0..1.
	Quality float64 `json:"quality,omitempty" yaml:"quality,omitempty"`
	// Bounds are the configured limits for this sensor, zero when unset.
	Bounds Bounds `json:"bounds,omitempty" yaml:"bounds,omitempty"`
}

// Detection is the payload of EventDetection.
type Detection struct {
	// CameraID identifies the reporting camera or detector.
	CameraID string `json:"camera_id" yaml:"camera_id"`
	// Class is the already-classified detection label.
	Class string `json:"class" yaml:"class"`
	// Confidence is the classifier confidence, 0..1.
	Confidence float64 `json:"confidence" yaml:"confidence"`
	// Zone is the location tag of the detection.
	Zone string `json:"zone" yaml:"zone"`
}

// AlertChange is the payload of EventAlertCreated, EventAlertUpdated and
// EventAlertResolved. The alert is a clone and safe to retain.
type AlertChange struct {
	// Alert is the post-transition state.
	Alert *Alert `json:"alert"`
}

// IncidentChange is the payload of EventIncidentCreated and
// EventIncidentUpdated. The incident is a clone and safe to retain.
type IncidentChange struct {
	// Incident is the post-mutation state.
	Incident *Incident `json:"incident"`
}

// TeamDispatched is the payload of EventTeamDispatched.
type TeamDispatched struct {
	// Dispatch is the recorded dispatch.
	Dispatch *TeamDispatch `json:"dispatch"`
}

// ScenarioCompleted is the payload of EventScenarioCompleted.
type ScenarioCompleted struct {
	// ScenarioID is the scenario that finished playing back.
	ScenarioID string `json:"scenario_id"`
	// RunID identifies the completed run.
	RunID string `json:"run_id"`
}

func (AlertRequest) eventPayload()      {}
func (IncidentRequest) eventPayload()   {}
func (SensorReading) eventPayload()     {}
func (Detection) eventPayload()         {}
func (AlertChange) eventPayload()       {}
func (IncidentChange) eventPayload()    {}
func (TeamDispatched) eventPayload()    {}
func (ScenarioCompleted) eventPayload() {}
