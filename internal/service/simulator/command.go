package simulator

import (
	"context"
	"errors"
	"fmt"

	"github.com/skywatch-ops/skywatch/internal/bus"
	"github.com/skywatch-ops/skywatch/internal/clock"
	"github.com/skywatch-ops/skywatch/internal/config"
	"github.com/skywatch-ops/skywatch/internal/domain/safety"
	"github.com/skywatch-ops/skywatch/internal/logger"
	"github.com/skywatch-ops/skywatch/internal/repository/archive"
	"github.com/skywatch-ops/skywatch/internal/scheduler"
	"github.com/skywatch-ops/skywatch/internal/service/alerts"
	"github.com/skywatch-ops/skywatch/internal/service/incidents"
	"github.com/skywatch-ops/skywatch/internal/service/sensors"
)

// Options controls the playback process.
type Options struct {
	// ConfigPath specifies the path to settings YAML file, empty for defaults.
	ConfigPath string
	// ScenarioIDs are the scenarios to play back.
	ScenarioIDs []string
	// ArchiveFile provides an optional archive path override.
	ArchiveFile string
	// LogLevel overrides the configured log level when non-empty.
	LogLevel string
	// WithSensors enables the mock live sensor feed.
	WithSensors bool
}

// ErrNothingToRun indicates that neither scenarios nor the sensor feed were requested.
var ErrNothingToRun = errors.New("no scenarios selected and sensor feed disabled")

// Run wires the full pipeline (bus, engines, scheduler, archive, feed),
// plays back the requested scenarios and blocks until they complete or the
// context is cancelled. All runs are cancelled on teardown.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "skywatch")

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	logLevel := cfg.LogLevel
	if opts.LogLevel != "" {
		logLevel = opts.LogLevel
	}

	if level, ok := logger.ParseLogLevel(logLevel); ok {
		logger.SetLevel(level)
	}

	catalog, err := config.Catalog(cfg)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	if len(opts.ScenarioIDs) == 0 && !opts.WithSensors {
		return ErrNothingToRun
	}

	// Use ArchiveFile from config unless overridden by command line option.
	archiveFile := cfg.ArchiveFile
	if opts.ArchiveFile != "" {
		archiveFile = opts.ArchiveFile
	}

	var (
		repo = archive.NewFileRepository(archiveFile)
		clk  = clock.System()
		b    = bus.New()
	)

	alertEngine := alerts.NewService(b, clk, repo)
	alertEngine.Attach()

	incidentEngine := incidents.NewService(b, clk, repo)
	incidentEngine.Attach()

	observe(b)

	sched := scheduler.New(b, clk, catalog)
	defer sched.CancelAll(ctx)

	if opts.WithSensors {
		feed := sensors.NewFeed(b, clk, cfg.Sensors)
		feed.Start(ctx)

		defer feed.Stop(ctx)
	}

	runs := make([]*scheduler.Run, 0, len(opts.ScenarioIDs))

	for _, scenarioID := range opts.ScenarioIDs {
		run, err := sched.Run(ctx, scenarioID)
		if err != nil {
			return fmt.Errorf("run scenario: %w", err)
		}

		runs = append(runs, run)
	}

	if len(runs) == 0 {
		// Sensor feed only: stream until interrupted.
		<-ctx.Done()
	}

	for _, run := range runs {
		select {
		case <-run.Done():
		case <-ctx.Done():
			logger.Info(ctx, "Shutting down playback")

			return nil
		}
	}

	logger.InfoKV(ctx, "Playback finished",
		"alerts", len(alertEngine.List()),
		"incidents", len(incidentEngine.List()))

	return nil
}

// observe subscribes a structured-logging observer to every outbound event
// type, standing in for the UI, logging and dispatch consumers.
func observe(b *bus.Bus) {
	outbound := []safety.EventType{
		safety.EventAlertCreated,
		safety.EventAlertUpdated,
		safety.EventAlertResolved,
		safety.EventTeamDispatched,
		safety.EventIncidentCreated,
		safety.EventIncidentUpdated,
		safety.EventScenarioCompleted,
		safety.EventSensorReading,
		safety.EventDetection,
	}

	for _, eventType := range outbound {
		b.Subscribe(eventType, logEvent)
	}
}

// logEvent writes one structured log line per observed event.
func logEvent(ctx context.Context, event safety.Event) {
	switch payload := event.Payload.(type) {
	case safety.AlertChange:
		logger.InfoKV(ctx, "Alert lifecycle event",
			"event_type", event.Type,
			"alert_id", payload.Alert.ID,
			"kind", payload.Alert.Kind,
			"severity", payload.Alert.Severity,
			"status", payload.Alert.Status,
			"zone", payload.Alert.Zone)
	case safety.IncidentChange:
		logger.InfoKV(ctx, "Incident lifecycle event",
			"event_type", event.Type,
			"incident_id", payload.Incident.ID,
			"severity", payload.Incident.Severity,
			"status", payload.Incident.Status,
			"timeline_entries", len(payload.Incident.Timeline))
	case safety.TeamDispatched:
		logger.InfoKV(ctx, "Team dispatched",
			"alert_id", payload.Dispatch.AlertID,
			"team_kind", payload.Dispatch.TeamKind,
			"eta", payload.Dispatch.ETA)
	case safety.ScenarioCompleted:
		logger.InfoKV(ctx, "Scenario completed",
			"scenario_id", payload.ScenarioID,
			"run_id", payload.RunID)
	case safety.SensorReading:
		logger.DebugKV(ctx, "Sensor reading",
			"sensor_id", payload.SensorID,
			"value", payload.Value,
			"unit", payload.Unit,
			"zone", payload.Zone)
	case safety.Detection:
		logger.DebugKV(ctx, "Detection",
			"camera_id", payload.CameraID,
			"class", payload.Class,
			"confidence", payload.Confidence,
			"zone", payload.Zone)
	default:
		logger.DebugKV(ctx, "Event", "event_type", event.Type)
	}
}
