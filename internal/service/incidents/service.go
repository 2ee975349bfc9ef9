package incidents

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/skywatch-ops/skywatch/internal/bus"
	"github.com/skywatch-ops/skywatch/internal/clock"
	"github.com/skywatch-ops/skywatch/internal/domain/safety"
	"github.com/skywatch-ops/skywatch/internal/logger"
	"github.com/skywatch-ops/skywatch/internal/repository/archive"
)

// Recommended response steps keyed by whether the incident is critical.
// Recovered from the operations playbook the dashboard shipped with.
var (
	baseRecommendations = []string{
		"Dispatch security team to location",
		"Establish safety perimeter",
		"Notify relevant authorities",
		"Monitor situation for escalation",
	}
	criticalRecommendations = []string{
		"Activate emergency response protocol",
		"Evacuate immediate area",
		"Contact emergency services",
		"Implement crisis management procedures",
	}
)

// Service owns the incident state machine and the append-only response
// timeline. A single mutex serializes all mutations, so concurrent actions
// on the same incident cannot interleave.
type Service struct {
	// bus receives one lifecycle event per successful mutation.
	bus *bus.Bus
	// clk stamps creation and timeline times.
	clk clock.Clock
	// repo is the best-effort archive sink, may be nil.
	repo archive.Repository
	// mu serializes all incident mutations.
	mu sync.Mutex
	// incidents holds every incident by id. Closed incidents are archived,
	// never deleted.
	incidents map[string]*safety.Incident
}

// NewService creates an incident engine publishing to the provided bus.
// The archive repository may be nil to disable persistence.
func NewService(b *bus.Bus, clk clock.Clock, repo archive.Repository) *Service {
	return &Service{
		bus:       b,
		clk:       clk,
		repo:      repo,
		incidents: make(map[string]*safety.Incident),
	}
}

// Attach subscribes the engine to incident-request events on the bus.
func (s *Service) Attach() bus.Subscription {
	return s.bus.Subscribe(safety.EventIncidentRequested, s.handleRequest)
}

// handleRequest consumes one incident-request event from the bus.
func (s *Service) handleRequest(ctx context.Context, event safety.Event) {
	req, ok := event.Payload.(safety.IncidentRequest)
	if !ok {
		logger.WarnKV(ctx, "Dropping incident request with unexpected payload",
			"payload", fmt.Sprintf("%T", event.Payload))

		return
	}

	s.Create(ctx, req, event.Origin)
}

// Create allocates a new incident in active status with an initial
// "created" timeline entry, derived analysis text and severity-based
// recommendations. It publishes incident_created.
func (s *Service) Create(ctx context.Context, req safety.IncidentRequest, origin safety.Origin) *safety.Incident {
	severity := req.Severity
	if !severity.Valid() {
		severity = safety.SeverityMedium
	}

	analysis := fmt.Sprintf("Automated analysis: %s", req.Description)
	if origin.Simulation {
		analysis = fmt.Sprintf("Simulation analysis: %s. This is a training scenario.", req.Description)
	}

	now := s.clk.Now()
	incident := &safety.Incident{
		ID:              uuid.NewString(),
		Title:           req.Title,
		Description:     req.Description,
		Severity:        severity,
		Zone:            req.Zone,
		CreatedAt:       now,
		Status:          safety.IncidentActive,
		Analysis:        analysis,
		Recommendations: recommendations(severity),
		Timeline: []safety.TimelineEntry{{
			Action: "created",
			At:     now,
		}},
	}

	s.mu.Lock()
	s.incidents[incident.ID] = incident
	snapshot := incident.Clone()
	s.mu.Unlock()

	s.persist(ctx, snapshot)
	s.publish(ctx, safety.EventIncidentCreated, snapshot, origin)

	logger.InfoKV(ctx, "Incident created",
		"incident_id", incident.ID,
		"title", incident.Title,
		"severity", incident.Severity,
		"zone", incident.Zone)

	return snapshot
}

// Transition moves the incident along one allowed state machine edge and
// appends a timeline entry describing it. It publishes incident_updated.
func (s *Service) Transition(ctx context.Context, incidentID string, next safety.IncidentStatus, actorID string) (*safety.Incident, error) {
	s.mu.Lock()

	incident, ok := s.incidents[incidentID]
	if !ok {
		s.mu.Unlock()

		return nil, fmt.Errorf("incident %q: %w", incidentID, safety.ErrNotFound)
	}

	if !incident.Status.CanTransitionTo(next) {
		current := incident.Status
		s.mu.Unlock()

		return nil, fmt.Errorf("incident %q: %s -> %s: %w",
			incidentID, current, next, safety.ErrInvalidTransition)
	}

	incident.Status = next
	incident.Timeline = append(incident.Timeline, safety.TimelineEntry{
		Action:  fmt.Sprintf("status changed to %s", next),
		At:      s.clk.Now(),
		ActorID: actorID,
	})
	snapshot := incident.Clone()
	s.mu.Unlock()

	s.persist(ctx, snapshot)
	s.publish(ctx, safety.EventIncidentUpdated, snapshot, safety.Origin{})

	logger.InfoKV(ctx, "Incident transitioned",
		"incident_id", incidentID,
		"status", next,
		"actor_id", actorID)

	return snapshot, nil
}

// LinkAlert adds the alert to the incident's related set and appends a
// timeline entry. Linking an already-linked alert is a no-op, not an error.
// Closed incidents reject new links.
func (s *Service) LinkAlert(ctx context.Context, incidentID, alertID string) (*safety.Incident, error) {
	s.mu.Lock()

	incident, ok := s.incidents[incidentID]
	if !ok {
		s.mu.Unlock()

		return nil, fmt.Errorf("incident %q: %w", incidentID, safety.ErrNotFound)
	}

	if incident.Status == safety.IncidentClosed {
		s.mu.Unlock()

		return nil, fmt.Errorf("incident %q: %w", incidentID, safety.ErrIncidentClosed)
	}

	if incident.Linked(alertID) {
		snapshot := incident.Clone()
		s.mu.Unlock()

		return snapshot, nil
	}

	incident.RelatedAlertIDs = append(incident.RelatedAlertIDs, alertID)
	incident.Timeline = append(incident.Timeline, safety.TimelineEntry{
		Action: fmt.Sprintf("alert %s linked", alertID),
		At:     s.clk.Now(),
	})
	snapshot := incident.Clone()
	s.mu.Unlock()

	s.persist(ctx, snapshot)
	s.publish(ctx, safety.EventIncidentUpdated, snapshot, safety.Origin{})

	logger.InfoKV(ctx, "Alert linked to incident", "incident_id", incidentID, "alert_id", alertID)

	return snapshot, nil
}

// AppendTimeline appends an audit entry to the incident's response timeline.
// The timeline keeps growing in every status except closed, which rejects
// further appends. It publishes incident_updated.
func (s *Service) AppendTimeline(ctx context.Context, incidentID, action, actorID string) (*safety.Incident, error) {
	s.mu.Lock()

	incident, ok := s.incidents[incidentID]
	if !ok {
		s.mu.Unlock()

		return nil, fmt.Errorf("incident %q: %w", incidentID, safety.ErrNotFound)
	}

	if incident.Status == safety.IncidentClosed {
		s.mu.Unlock()

		return nil, fmt.Errorf("incident %q: %w", incidentID, safety.ErrIncidentClosed)
	}

	incident.Timeline = append(incident.Timeline, safety.TimelineEntry{
		Action:  action,
		At:      s.clk.Now(),
		ActorID: actorID,
	})
	snapshot := incident.Clone()
	s.mu.Unlock()

	s.persist(ctx, snapshot)
	s.publish(ctx, safety.EventIncidentUpdated, snapshot, safety.Origin{})

	return snapshot, nil
}

// Get returns a copy of the incident.
func (s *Service) Get(incidentID string) (*safety.Incident, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	incident, ok := s.incidents[incidentID]
	if !ok {
		return nil, fmt.Errorf("incident %q: %w", incidentID, safety.ErrNotFound)
	}

	return incident.Clone(), nil
}

// List returns copies of all incidents ordered by creation time.
func (s *Service) List() []*safety.Incident {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]*safety.Incident, 0, len(s.incidents))
	for _, incident := range s.incidents {
		result = append(result, incident.Clone())
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}

		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})

	return result
}

// recommendations returns the ordered response steps for the severity tier.
func recommendations(severity safety.Severity) []string {
	if severity == safety.SeverityCritical {
		return append([]string(nil), criticalRecommendations...)
	}

	return append([]string(nil), baseRecommendations...)
}

// publish emits exactly one lifecycle event describing the new incident state.
func (s *Service) publish(ctx context.Context, eventType safety.EventType, incident *safety.Incident, origin safety.Origin) {
	s.bus.Publish(ctx, safety.Event{
		Type:    eventType,
		At:      s.clk.Now(),
		Origin:  origin,
		Payload: safety.IncidentChange{Incident: incident},
	})
}

// persist hands the snapshot to the archive sink, logging failures instead
// of surfacing them.
func (s *Service) persist(ctx context.Context, incident *safety.Incident) {
	if s.repo == nil {
		return
	}

	if err := s.repo.SaveIncident(ctx, incident); err != nil {
		logger.ErrorKV(ctx, "Failed to archive incident", "incident_id", incident.ID, "error", err)
	}
}
