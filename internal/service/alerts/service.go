package alerts

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/skywatch-ops/skywatch/internal/bus"
	"github.com/skywatch-ops/skywatch/internal/clock"
	"github.com/skywatch-ops/skywatch/internal/domain/safety"
	"github.com/skywatch-ops/skywatch/internal/logger"
	"github.com/skywatch-ops/skywatch/internal/repository/archive"
)

// DefaultDispatchETA is the estimated arrival recorded on a team dispatch
// when no site-specific estimate is available.
const DefaultDispatchETA = 5 * time.Minute

// Service owns the alert state machine. All mutations go through its
// exported actions and are serialized by a single mutex, so concurrent
// actions on the same alert cannot interleave: exactly one wins and the
// loser observes the post-state.
type Service struct {
	// bus receives one lifecycle event per successful transition.
	bus *bus.Bus
	// clk stamps creation and dispatch times.
	clk clock.Clock
	// repo is the best-effort archive sink, may be nil.
	repo archive.Repository
	// mu serializes all alert mutations.
	mu sync.Mutex
	// alerts holds every alert by id. Resolved alerts are retained for
	// audit until the external store prunes them.
	alerts map[string]*safety.Alert
	// dispatches holds the recorded team dispatches per alert id.
	dispatches map[string][]*safety.TeamDispatch
}

// NewService creates an alert engine publishing to the provided bus.
// The archive repository may be nil to disable persistence.
func NewService(b *bus.Bus, clk clock.Clock, repo archive.Repository) *Service {
	return &Service{
		bus:        b,
		clk:        clk,
		repo:       repo,
		alerts:     make(map[string]*safety.Alert),
		dispatches: make(map[string][]*safety.TeamDispatch),
	}
}

// Attach subscribes the engine to alert-request events so that the
// scheduler, the sensor feed and detectors can raise alerts through the bus.
func (s *Service) Attach() bus.Subscription {
	return s.bus.Subscribe(safety.EventAlertRequested, s.handleRequest)
}

// handleRequest consumes one alert-request event from the bus.
func (s *Service) handleRequest(ctx context.Context, event safety.Event) {
	req, ok := event.Payload.(safety.AlertRequest)
	if !ok {
		logger.WarnKV(ctx, "Dropping alert request with unexpected payload",
			"payload", fmt.Sprintf("%T", event.Payload))

		return
	}

	s.Create(ctx, req, event.Origin)
}

// Create allocates a new alert in active status from the request and
// publishes alert_created. Playback origin is recorded in the alert metadata.
func (s *Service) Create(ctx context.Context, req safety.AlertRequest, origin safety.Origin) *safety.Alert {
	severity := req.Severity
	if !severity.Valid() {
		severity = safety.SeverityMedium
	}

	source := req.Source
	if source == "" && origin.Simulation {
		source = safety.SourceSimulation
	}

	metadata := make(map[string]any, len(req.Metadata)+3)
	for k, v := range req.Metadata {
		metadata[k] = v
	}

	if origin.Simulation {
		metadata["simulation"] = true
		metadata["scenario_id"] = origin.ScenarioID
		metadata["run_id"] = origin.RunID
	}

	alert := &safety.Alert{
		ID:        uuid.NewString(),
		Kind:      req.Kind,
		Severity:  severity,
		Zone:      req.Zone,
		Message:   req.Message,
		CreatedAt: s.clk.Now(),
		Source:    source,
		SourceID:  req.SourceID,
		Status:    safety.AlertActive,
		Metadata:  metadata,
	}

	s.mu.Lock()
	s.alerts[alert.ID] = alert
	snapshot := alert.Clone()
	s.mu.Unlock()

	s.persist(ctx, snapshot)
	s.publish(ctx, safety.EventAlertCreated, snapshot, origin)

	logger.InfoKV(ctx, "Alert created",
		"alert_id", alert.ID,
		"kind", alert.Kind,
		"severity", alert.Severity,
		"zone", alert.Zone)

	return snapshot
}

// Acknowledge moves an active alert to acknowledged and assigns it to the
// actor. It publishes alert_updated on success.
func (s *Service) Acknowledge(ctx context.Context, alertID, actorID string) (*safety.Alert, error) {
	snapshot, err := s.transition(alertID, safety.AlertAcknowledged, actorID)
	if err != nil {
		return nil, err
	}

	s.persist(ctx, snapshot)
	s.publish(ctx, safety.EventAlertUpdated, snapshot, safety.Origin{})

	logger.InfoKV(ctx, "Alert acknowledged", "alert_id", alertID, "actor_id", actorID)

	return snapshot, nil
}

// Resolve moves an active or acknowledged alert to resolved, its terminal
// state. It publishes alert_resolved on success.
func (s *Service) Resolve(ctx context.Context, alertID, actorID string) (*safety.Alert, error) {
	snapshot, err := s.transition(alertID, safety.AlertResolved, actorID)
	if err != nil {
		return nil, err
	}

	s.persist(ctx, snapshot)
	s.publish(ctx, safety.EventAlertResolved, snapshot, safety.Origin{})

	logger.InfoKV(ctx, "Alert resolved", "alert_id", alertID, "actor_id", actorID)

	return snapshot, nil
}

// DispatchTeam records a response team dispatch for an active or
// acknowledged alert and publishes team_dispatched. The alert status is
// never changed by a dispatch.
func (s *Service) DispatchTeam(ctx context.Context, alertID, teamKind, actorID string) (*safety.TeamDispatch, error) {
	s.mu.Lock()

	alert, ok := s.alerts[alertID]
	if !ok {
		s.mu.Unlock()

		return nil, fmt.Errorf("alert %q: %w", alertID, safety.ErrNotFound)
	}

	if alert.Status == safety.AlertResolved {
		s.mu.Unlock()

		return nil, fmt.Errorf("alert %q: dispatch on %s alert: %w",
			alertID, safety.AlertResolved, safety.ErrInvalidTransition)
	}

	dispatch := &safety.TeamDispatch{
		ID:           uuid.NewString(),
		AlertID:      alertID,
		TeamKind:     teamKind,
		DispatchedBy: actorID,
		DispatchedAt: s.clk.Now(),
		ETA:          DefaultDispatchETA,
	}
	s.dispatches[alertID] = append(s.dispatches[alertID], dispatch)
	snapshot := dispatch.Clone()
	s.mu.Unlock()

	s.bus.Publish(ctx, safety.Event{
		Type:    safety.EventTeamDispatched,
		At:      s.clk.Now(),
		Payload: safety.TeamDispatched{Dispatch: snapshot},
	})

	logger.InfoKV(ctx, "Team dispatched",
		"alert_id", alertID,
		"team_kind", teamKind,
		"actor_id", actorID)

	return snapshot, nil
}

// Get returns a copy of the alert.
func (s *Service) Get(alertID string) (*safety.Alert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	alert, ok := s.alerts[alertID]
	if !ok {
		return nil, fmt.Errorf("alert %q: %w", alertID, safety.ErrNotFound)
	}

	return alert.Clone(), nil
}

// List returns copies of all alerts ordered by creation time.
func (s *Service) List() []*safety.Alert {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]*safety.Alert, 0, len(s.alerts))
	for _, alert := range s.alerts {
		result = append(result, alert.Clone())
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}

		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})

	return result
}

// Dispatches returns copies of the dispatch records for the alert.
func (s *Service) Dispatches(alertID string) []*safety.TeamDispatch {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.dispatches[alertID]
	result := make([]*safety.TeamDispatch, 0, len(records))

	for _, d := range records {
		result = append(result, d.Clone())
	}

	return result
}

// transition applies one state machine edge under the lock and returns a
// snapshot of the post-state. Rejected transitions leave the alert unchanged.
func (s *Service) transition(alertID string, next safety.AlertStatus, actorID string) (*safety.Alert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	alert, ok := s.alerts[alertID]
	if !ok {
		return nil, fmt.Errorf("alert %q: %w", alertID, safety.ErrNotFound)
	}

	if !alert.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("alert %q: %s -> %s: %w",
			alertID, alert.Status, next, safety.ErrInvalidTransition)
	}

	alert.Status = next
	alert.AssignedTo = actorID

	return alert.Clone(), nil
}

// publish emits exactly one lifecycle event describing the new alert state.
func (s *Service) publish(ctx context.Context, eventType safety.EventType, alert *safety.Alert, origin safety.Origin) {
	s.bus.Publish(ctx, safety.Event{
		Type:    eventType,
		At:      s.clk.Now(),
		Origin:  origin,
		Payload: safety.AlertChange{Alert: alert},
	})
}

// persist hands the snapshot to the archive sink, logging failures instead
// of surfacing them: the in-memory state is the source of truth.
func (s *Service) persist(ctx context.Context, alert *safety.Alert) {
	if s.repo == nil {
		return
	}

	if err := s.repo.SaveAlert(ctx, alert); err != nil {
		logger.ErrorKV(ctx, "Failed to archive alert", "alert_id", alert.ID, "error", err)
	}
}
