package incidents

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/skywatch-ops/skywatch/internal/bus"
	"github.com/skywatch-ops/skywatch/internal/clock"
	"github.com/skywatch-ops/skywatch/internal/domain/safety"
)

// recorder counts lifecycle events published by the engine under test.
type recorder struct {
	mu     sync.Mutex
	events []safety.Event
}

// attach subscribes the recorder to the incident lifecycle event types.
func (r *recorder) attach(b *bus.Bus) {
	types := []safety.EventType{
		safety.EventIncidentCreated,
		safety.EventIncidentUpdated,
	}
	for _, eventType := range types {
		b.Subscribe(eventType, func(_ context.Context, event safety.Event) {
			r.mu.Lock()
			defer r.mu.Unlock()

			r.events = append(r.events, event)
		})
	}
}

// all returns a copy of the recorded events.
func (r *recorder) all() []safety.Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]safety.Event(nil), r.events...)
}

// newTestService wires an engine with a recorder on a fresh bus and no archive.
func newTestService() (*Service, *recorder) {
	b := bus.New()
	rec := &recorder{}
	rec.attach(b)

	return NewService(b, clock.NewFake(time.Unix(1000, 0)), nil), rec
}

// TestCreatePublishesIncidentCreated verifies creation allocates an active
// incident with an initial timeline entry and recommendations.
func TestCreatePublishesIncidentCreated(t *testing.T) {
	t.Parallel()

	s, rec := newTestService()

	incident := s.Create(context.Background(), safety.IncidentRequest{
		Title:       "Fuel Spill",
		Description: "Fuel leak at stand 23",
		Severity:    safety.SeverityHigh,
		Zone:        "fuel-depot",
	}, safety.Origin{})

	require.NotEmpty(t, incident.ID)
	require.Equal(t, safety.IncidentActive, incident.Status)
	require.Equal(t, "Automated analysis: Fuel leak at stand 23", incident.Analysis)
	require.Equal(t, baseRecommendations, incident.Recommendations)

	require.Len(t, incident.Timeline, 1)
	require.Equal(t, "created", incident.Timeline[0].Action)

	events := rec.all()
	require.Len(t, events, 1)
	require.Equal(t, safety.EventIncidentCreated, events[0].Type)
}

// TestCreateCriticalGetsEscalatedRecommendations verifies critical incidents
// receive the emergency playbook.
func TestCreateCriticalGetsEscalatedRecommendations(t *testing.T) {
	t.Parallel()

	s, _ := newTestService()

	incident := s.Create(context.Background(), safety.IncidentRequest{
		Title:       "Runway Incursion",
		Description: "Vehicle on active runway",
		Severity:    safety.SeverityCritical,
	}, safety.Origin{})

	require.Equal(t, criticalRecommendations, incident.Recommendations)
}

// TestCreateSimulationAnalysis verifies playback-originated incidents carry
// the training-scenario analysis text.
func TestCreateSimulationAnalysis(t *testing.T) {
	t.Parallel()

	s, _ := newTestService()

	incident := s.Create(context.Background(), safety.IncidentRequest{
		Title:       "Drill",
		Description: "Simulated breach",
		Severity:    safety.SeverityMedium,
	}, safety.Origin{Simulation: true, ScenarioID: "breach", RunID: "run-1"})

	require.Equal(t, "Simulation analysis: Simulated breach. This is a training scenario.", incident.Analysis)
}

// TestLifecycleTransitions verifies the forward-only incident state machine
// and the timeline entries it appends.
func TestLifecycleTransitions(t *testing.T) {
	t.Parallel()

	s, rec := newTestService()
	ctx := context.Background()

	incident := s.Create(ctx, safety.IncidentRequest{Title: "Test", Severity: safety.SeverityMedium}, safety.Origin{})

	investigating, err := s.Transition(ctx, incident.ID, safety.IncidentInvestigating, "operator-1")
	require.NoError(t, err)
	require.Equal(t, safety.IncidentInvestigating, investigating.Status)

	resolved, err := s.Transition(ctx, incident.ID, safety.IncidentResolved, "operator-1")
	require.NoError(t, err)
	require.Equal(t, safety.IncidentResolved, resolved.Status)

	closed, err := s.Transition(ctx, incident.ID, safety.IncidentClosed, "operator-1")
	require.NoError(t, err)
	require.Equal(t, safety.IncidentClosed, closed.Status)

	require.Len(t, closed.Timeline, 4)
	require.Equal(t, "status changed to investigating", closed.Timeline[1].Action)
	require.Equal(t, "status changed to resolved", closed.Timeline[2].Action)
	require.Equal(t, "status changed to closed", closed.Timeline[3].Action)

	events := rec.all()
	require.Len(t, events, 4, "one event per creation and per transition")
}

// TestInvalidTransitionsRejected verifies backward moves and closing an
// unresolved incident are rejected without publishing.
func TestInvalidTransitionsRejected(t *testing.T) {
	t.Parallel()

	s, rec := newTestService()
	ctx := context.Background()

	incident := s.Create(ctx, safety.IncidentRequest{Title: "Test", Severity: safety.SeverityMedium}, safety.Origin{})

	// Closed is only reachable from resolved.
	_, err := s.Transition(ctx, incident.ID, safety.IncidentClosed, "operator-1")
	require.ErrorIs(t, err, safety.ErrInvalidTransition)

	_, err = s.Transition(ctx, incident.ID, safety.IncidentResolved, "operator-1")
	require.NoError(t, err)

	published := len(rec.all())

	_, err = s.Transition(ctx, incident.ID, safety.IncidentInvestigating, "operator-1")
	require.ErrorIs(t, err, safety.ErrInvalidTransition)

	_, err = s.Transition(ctx, incident.ID, safety.IncidentActive, "operator-1")
	require.ErrorIs(t, err, safety.ErrInvalidTransition)

	current, err := s.Get(incident.ID)
	require.NoError(t, err)
	require.Equal(t, safety.IncidentResolved, current.Status)

	require.Len(t, rec.all(), published, "rejected transitions must not publish events")
}

// TestLinkAlert verifies linking records the alert id once and appends a
// timeline entry; relinking is a no-op.
func TestLinkAlert(t *testing.T) {
	t.Parallel()

	s, rec := newTestService()
	ctx := context.Background()

	incident := s.Create(ctx, safety.IncidentRequest{Title: "Test", Severity: safety.SeverityHigh}, safety.Origin{})

	linked, err := s.LinkAlert(ctx, incident.ID, "alert-1")
	require.NoError(t, err)
	require.Equal(t, []string{"alert-1"}, linked.RelatedAlertIDs)
	require.Equal(t, "alert alert-1 linked", linked.Timeline[1].Action)

	published := len(rec.all())

	again, err := s.LinkAlert(ctx, incident.ID, "alert-1")
	require.NoError(t, err)
	require.Equal(t, []string{"alert-1"}, again.RelatedAlertIDs)
	require.Len(t, again.Timeline, 2, "relinking must not append a timeline entry")
	require.Len(t, rec.all(), published, "relinking must not publish an event")
}

// TestLinkAlertRejectedOnClosed verifies closed incidents reject new links.
func TestLinkAlertRejectedOnClosed(t *testing.T) {
	t.Parallel()

	s, _ := newTestService()
	ctx := context.Background()

	incident := s.Create(ctx, safety.IncidentRequest{Title: "Test", Severity: safety.SeverityMedium}, safety.Origin{})

	_, err := s.Transition(ctx, incident.ID, safety.IncidentResolved, "operator-1")
	require.NoError(t, err)

	_, err = s.Transition(ctx, incident.ID, safety.IncidentClosed, "operator-1")
	require.NoError(t, err)

	_, err = s.LinkAlert(ctx, incident.ID, "alert-1")
	require.ErrorIs(t, err, safety.ErrIncidentClosed)
}

// TestAppendTimeline verifies audit entries accumulate in order in every
// open status and are rejected once closed.
func TestAppendTimeline(t *testing.T) {
	t.Parallel()

	s, _ := newTestService()
	ctx := context.Background()

	incident := s.Create(ctx, safety.IncidentRequest{Title: "Test", Severity: safety.SeverityMedium}, safety.Origin{})

	updated, err := s.AppendTimeline(ctx, incident.ID, "perimeter established", "operator-2")
	require.NoError(t, err)
	require.Len(t, updated.Timeline, 2)
	require.Equal(t, "perimeter established", updated.Timeline[1].Action)
	require.Equal(t, "operator-2", updated.Timeline[1].ActorID)

	_, err = s.Transition(ctx, incident.ID, safety.IncidentResolved, "operator-2")
	require.NoError(t, err)

	// Resolved incidents still accumulate audit entries.
	updated, err = s.AppendTimeline(ctx, incident.ID, "debrief scheduled", "operator-2")
	require.NoError(t, err)
	require.Len(t, updated.Timeline, 4)

	_, err = s.Transition(ctx, incident.ID, safety.IncidentClosed, "operator-2")
	require.NoError(t, err)

	_, err = s.AppendTimeline(ctx, incident.ID, "late note", "operator-2")
	require.ErrorIs(t, err, safety.ErrIncidentClosed)
}

// TestActionsOnUnknownIncident verifies every action reports ErrNotFound for
// unknown ids.
func TestActionsOnUnknownIncident(t *testing.T) {
	t.Parallel()

	s, _ := newTestService()
	ctx := context.Background()

	_, err := s.Transition(ctx, "missing", safety.IncidentResolved, "operator-1")
	require.ErrorIs(t, err, safety.ErrNotFound)

	_, err = s.LinkAlert(ctx, "missing", "alert-1")
	require.ErrorIs(t, err, safety.ErrNotFound)

	_, err = s.AppendTimeline(ctx, "missing", "note", "operator-1")
	require.ErrorIs(t, err, safety.ErrNotFound)

	_, err = s.Get("missing")
	require.ErrorIs(t, err, safety.ErrNotFound)
}

// TestAttachCreatesFromBusRequests verifies the engine consumes
// incident_requested events end to end.
func TestAttachCreatesFromBusRequests(t *testing.T) {
	t.Parallel()

	b := bus.New()
	rec := &recorder{}
	rec.attach(b)

	s := NewService(b, clock.NewFake(time.Unix(1000, 0)), nil)
	s.Attach()

	b.Publish(context.Background(), safety.Event{
		Type:   safety.EventIncidentRequested,
		Origin: safety.Origin{Simulation: true, ScenarioID: "incursion", RunID: "run-3"},
		Payload: safety.IncidentRequest{
			Title:       "Training Simulation: Runway Incursion Emergency",
			Description: "Service vehicle entered active runway without clearance",
			Severity:    safety.SeverityCritical,
			Zone:        "runway-09l",
		},
	})

	incidents := s.List()
	require.Len(t, incidents, 1)
	require.Equal(t, safety.SeverityCritical, incidents[0].Severity)
	require.Contains(t, incidents[0].Analysis, "training scenario")
}
