package scheduler

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/skywatch-ops/skywatch/internal/bus"
	"github.com/skywatch-ops/skywatch/internal/clock"
	"github.com/skywatch-ops/skywatch/internal/domain/safety"
	"github.com/skywatch-ops/skywatch/internal/logger"
)

// Run is one live execution of a scenario. It owns the pending timers for
// its events and a cancellation token checked at fire time.
type Run struct {
	// id uniquely identifies this playback execution.
	id string
	// scenarioID is the static scenario being played back.
	scenarioID string
	// startedAt is when the run was scheduled.
	startedAt time.Time
	// cancelled suppresses any timer that has not fired yet.
	cancelled atomic.Bool
	// timers holds every pending timer the run owns, immutable once scheduled.
	timers []clock.Timer
	// done is closed when the run completes or is cancelled.
	done chan struct{}
	// doneOnce guards closing done.
	doneOnce sync.Once
}

// ID returns the unique run identifier stamped onto every published event.
func (r *Run) ID() string {
	return r.id
}

// ScenarioID returns the scenario the run is playing back.
func (r *Run) ScenarioID() string {
	return r.scenarioID
}

// Done returns a channel closed when the run completes or is cancelled.
func (r *Run) Done() <-chan struct{} {
	return r.done
}

// finish closes the done channel exactly once.
func (r *Run) finish() {
	r.doneOnce.Do(func() {
		close(r.done)
	})
}

// Scheduler plays back scenario scripts at their relative offsets,
// publishing each event onto the bus. Runs of different scenarios execute
// concurrently; starting a scenario that is already running cancels the
// prior run first.
type Scheduler struct {
	// bus receives the published playback events.
	bus *bus.Bus
	// clk provides wall time and one-shot timers.
	clk clock.Clock
	// catalog is the static read-only scenario table, keyed by id.
	catalog map[string]safety.Scenario
	// mu protects runs.
	mu sync.Mutex
	// runs tracks the active run per scenario id.
	runs map[string]*Run
}

// New creates a scheduler over the provided scenario catalog.
func New(b *bus.Bus, clk clock.Clock, catalog []safety.Scenario) *Scheduler {
	byID := make(map[string]safety.Scenario, len(catalog))
	for _, sc := range catalog {
		byID[sc.ID] = sc
	}

	return &Scheduler{
		bus:     b,
		clk:     clk,
		catalog: byID,
		runs:    make(map[string]*Run),
	}
}

// Scenarios returns the catalog sorted by id.
func (s *Scheduler) Scenarios() []safety.Scenario {
	result := make([]safety.Scenario, 0, len(s.catalog))
	for _, sc := range s.catalog {
		result = append(result, sc)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Run starts playback of the scenario and returns its run handle.
// If a run for the same scenario id is already active it is cancelled first;
// the new run always wins. Unknown ids return safety.ErrNotFound.
//
// One timer is armed per scenario event plus a terminal timer at the
// scenario's total duration that publishes scenario_completed. Timers fire
// on their own goroutines, so playback never waits on subscriber processing.
func (s *Scheduler) Run(ctx context.Context, scenarioID string) (*Run, error) {
	scenario, ok := s.catalog[scenarioID]
	if !ok {
		return nil, fmt.Errorf("scenario %q: %w", scenarioID, safety.ErrNotFound)
	}

	s.mu.Lock()

	if prev := s.runs[scenarioID]; prev != nil {
		s.stop(ctx, prev)
	}

	r := &Run{
		id:         uuid.NewString(),
		scenarioID: scenarioID,
		startedAt:  s.clk.Now(),
		done:       make(chan struct{}),
	}
	s.runs[scenarioID] = r

	for _, event := range scenario.Events {
		event := event
		r.timers = append(r.timers, s.clk.AfterFunc(event.Offset, func() {
			s.fire(ctx, r, event)
		}))
	}

	r.timers = append(r.timers, s.clk.AfterFunc(scenario.TotalDuration, func() {
		s.complete(ctx, r)
	}))

	s.mu.Unlock()

	logger.InfoKV(ctx, "Scenario run started",
		"scenario_id", scenarioID,
		"run_id", r.id,
		"events", len(scenario.Events),
		"total_duration", scenario.TotalDuration)

	return r, nil
}

// Cancel cancels the active run of the scenario, releasing every pending
// timer. Events that already fired are not retracted. Cancelling a scenario
// with no active run is a no-op.
func (s *Scheduler) Cancel(ctx context.Context, scenarioID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.runs[scenarioID]
	if r == nil {
		return
	}

	s.stop(ctx, r)
}

// CancelAll cancels every active run across all scenario ids.
// Used on session teardown.
func (s *Scheduler) CancelAll(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.runs {
		s.stop(ctx, r)
	}
}

// Active reports whether the scenario currently has a live run.
func (s *Scheduler) Active(scenarioID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.runs[scenarioID] != nil
}

// stop cancels the run and forgets it. Callers must hold mu.
func (s *Scheduler) stop(ctx context.Context, r *Run) {
	delete(s.runs, r.scenarioID)

	r.cancelled.Store(true)

	for _, t := range r.timers {
		t.Stop()
	}

	r.finish()

	logger.InfoKV(ctx, "Scenario run cancelled", "scenario_id", r.scenarioID, "run_id", r.id)
}

// fire publishes one scheduled event unless the run was cancelled.
// The cancellation token is checked at fire time, so a cancel racing an
// about-to-fire timer yields exactly one outcome: the event is delivered
// or suppressed, never both.
func (s *Scheduler) fire(ctx context.Context, r *Run, event safety.ScenarioEvent) {
	if r.cancelled.Load() {
		return
	}

	s.bus.Publish(ctx, safety.Event{
		Type: event.Type,
		At:   s.clk.Now(),
		Origin: safety.Origin{
			Simulation: true,
			ScenarioID: r.scenarioID,
			RunID:      r.id,
		},
		Payload: event.Payload,
	})
}

// complete publishes the terminal scenario_completed event and releases the
// run together with every timer it still owns.
func (s *Scheduler) complete(ctx context.Context, r *Run) {
	if r.cancelled.Load() {
		return
	}

	r.cancelled.Store(true)

	for _, t := range r.timers {
		t.Stop()
	}

	s.bus.Publish(ctx, safety.Event{
		Type: safety.EventScenarioCompleted,
		At:   s.clk.Now(),
		Origin: safety.Origin{
			Simulation: true,
			ScenarioID: r.scenarioID,
			RunID:      r.id,
		},
		Payload: safety.ScenarioCompleted{
			ScenarioID: r.scenarioID,
			RunID:      r.id,
		},
	})

	s.mu.Lock()
	if s.runs[r.scenarioID] == r {
		delete(s.runs, r.scenarioID)
	}
	s.mu.Unlock()

	r.finish()

	logger.InfoKV(ctx, "Scenario run completed", "scenario_id", r.scenarioID, "run_id", r.id)
}
