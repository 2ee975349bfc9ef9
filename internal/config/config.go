package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/skywatch-ops/skywatch/internal/domain/safety"
)

// Config holds the runtime settings for the safety pipeline: logging,
// archive location, the live sensor table and the scenario catalog.
type Config struct {
	// LogLevel is the minimum log level (debug, info, warn, error).
	LogLevel string `yaml:"log_level"`
	// ArchiveFile is the path of the append-only JSONL archive.
	ArchiveFile string `yaml:"archive_file"`
	// Sensors is the live sensor table driving the mock feed.
	Sensors []SensorConfig `yaml:"sensors"`
	// Scenarios overrides the built-in scenario catalog when non-empty.
	Scenarios []ScenarioConfig `yaml:"scenarios"`
}

// SensorConfig describes one live sensor the feed simulates.
type SensorConfig struct {
	// ID identifies the sensor.
	ID string `yaml:"id"`
	// Type is the measurement kind (temperature, motion, wind, ...).
	Type string `yaml:"type"`
	// Zone is the location tag of the sensor.
	Zone string `yaml:"zone"`
	// Unit is the measurement unit.
	Unit string `yaml:"unit"`
	// Interval is the sampling period; defaulted per sensor type when zero.
	Interval time.Duration `yaml:"interval"`
	// Bounds are the alerting limits; zero bounds disable threshold checks.
	Bounds safety.Bounds `yaml:"bounds"`
}

// ScenarioConfig is the YAML shape of one scenario definition.
type ScenarioConfig struct {
	// ID is the static catalog identifier.
	ID string `yaml:"id"`
	// Name is the human-readable scenario title.
	Name string `yaml:"name"`
	// Description summarises what the scenario simulates.
	Description string `yaml:"description"`
	// Category is terminal, airside or general.
	Category string `yaml:"category"`
	// Severity is the informational default tier.
	Severity string `yaml:"severity"`
	// TotalDuration is when the run completes.
	TotalDuration time.Duration `yaml:"total_duration"`
	// Events is the timed script.
	Events []ScenarioEventConfig `yaml:"events"`
}

// ScenarioEventConfig is the YAML shape of one scripted event. Exactly one
// payload field matching Type must be set.
type ScenarioEventConfig struct {
	// Type is alert, incident, sensor_reading or detection.
	Type string `yaml:"type"`
	// Offset is the delay from run start.
	Offset time.Duration `yaml:"offset"`
	// Alert is the payload for type alert.
	Alert *safety.AlertRequest `yaml:"alert,omitempty"`
	// Incident is the payload for type incident.
	Incident *safety.IncidentRequest `yaml:"incident,omitempty"`
	// SensorReading is the payload for type sensor_reading.
	SensorReading *safety.SensorReading `yaml:"sensor_reading,omitempty"`
	// Detection is the payload for type detection.
	Detection *safety.Detection `yaml:"detection,omitempty"`
}

const (
	// DefaultConfigFilename is the default filename for pipeline settings.
	DefaultConfigFilename = "skywatch-settings.yaml"

	// DefaultArchiveFilename is the default filename for the JSONL archive.
	DefaultArchiveFilename = "skywatch-archive.jsonl"

	// DefaultLogLevel is used when no level is configured.
	DefaultLogLevel = "info"

	// DefaultSensorInterval is the sampling period for sensor types
	// without a specific default.
	DefaultSensorInterval = 3 * time.Second

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errScenarioIDRequired is returned when a scenario has no id.
	errScenarioIDRequired = errors.New("scenario id must be provided")
	// errSensorIDRequired is returned when a sensor has no id.
	errSensorIDRequired = errors.New("sensor id must be provided")
)

// Default returns the built-in configuration: info logging, the default
// archive path, the standard airport sensor table and the built-in catalog.
func Default() *Config {
	return &Config{
		LogLevel:    DefaultLogLevel,
		ArchiveFile: DefaultArchiveFilename,
		Sensors:     defaultSensors(),
	}
}

// Load reads configuration from the provided path and validates it.
// An empty path yields the built-in defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the configuration, fills defaults and verifies that the
// scenario definitions convert cleanly.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}

	if cfg.ArchiveFile == "" {
		cfg.ArchiveFile = DefaultArchiveFilename
	}

	for i := range cfg.Sensors {
		sensor := &cfg.Sensors[i]
		if sensor.ID == "" {
			return errSensorIDRequired
		}

		if sensor.Interval <= 0 {
			sensor.Interval = sensorInterval(sensor.Type)
		}
	}

	if _, err := Catalog(cfg); err != nil {
		return err
	}

	return nil
}

// Catalog converts the configured scenario definitions to domain scenarios,
// falling back to the built-in catalog when none are configured.
func Catalog(cfg *Config) ([]safety.Scenario, error) {
	if cfg == nil || len(cfg.Scenarios) == 0 {
		return DefaultCatalog(), nil
	}

	result := make([]safety.Scenario, 0, len(cfg.Scenarios))

	for _, sc := range cfg.Scenarios {
		converted, err := toScenario(sc)
		if err != nil {
			return nil, err
		}

		result = append(result, converted)
	}

	return result, nil
}

// toScenario validates and converts one YAML scenario definition.
func toScenario(sc ScenarioConfig) (safety.Scenario, error) {
	if sc.ID == "" {
		return safety.Scenario{}, errScenarioIDRequired
	}

	if sc.TotalDuration <= 0 {
		return safety.Scenario{}, fmt.Errorf("scenario %q: total duration must be positive", sc.ID)
	}

	severity, err := safety.ParseSeverity(sc.Severity)
	if err != nil {
		return safety.Scenario{}, fmt.Errorf("scenario %q: %w", sc.ID, err)
	}

	category := safety.ScenarioCategory(sc.Category)
	switch category {
	case safety.CategoryTerminal, safety.CategoryAirside, safety.CategoryGeneral:
	case "":
		category = safety.CategoryGeneral
	default:
		return safety.Scenario{}, fmt.Errorf("scenario %q: unknown category %q", sc.ID, sc.Category)
	}

	events := make([]safety.ScenarioEvent, 0, len(sc.Events))

	for i, event := range sc.Events {
		converted, err := toScenarioEvent(event)
		if err != nil {
			return safety.Scenario{}, fmt.Errorf("scenario %q: event %d: %w", sc.ID, i, err)
		}

		if converted.Offset < 0 {
			return safety.Scenario{}, fmt.Errorf("scenario %q: event %d: negative offset", sc.ID, i)
		}

		if converted.Offset > sc.TotalDuration {
			return safety.Scenario{}, fmt.Errorf("scenario %q: event %d: offset past total duration", sc.ID, i)
		}

		events = append(events, converted)
	}

	// Keep the script sorted ascending by offset regardless of file order.
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Offset < events[j].Offset
	})

	return safety.Scenario{
		ID:            sc.ID,
		Name:          sc.Name,
		Description:   sc.Description,
		Category:      category,
		Severity:      severity,
		TotalDuration: sc.TotalDuration,
		Events:        events,
	}, nil
}

// toScenarioEvent converts one scripted event, enforcing that the payload
// matches the declared type.
func toScenarioEvent(event ScenarioEventConfig) (safety.ScenarioEvent, error) {
	converted := safety.ScenarioEvent{Offset: event.Offset}

	switch event.Type {
	case "alert":
		if event.Alert == nil {
			return converted, errors.New("alert payload missing")
		}

		converted.Type = safety.EventAlertRequested
		converted.Payload = *event.Alert
	case "incident":
		if event.Incident == nil {
			return converted, errors.New("incident payload missing")
		}

		converted.Type = safety.EventIncidentRequested
		converted.Payload = *event.Incident
	case "sensor_reading":
		if event.SensorReading == nil {
			return converted, errors.New("sensor_reading payload missing")
		}

		converted.Type = safety.EventSensorReading
		converted.Payload = *event.SensorReading
	case "detection":
		if event.Detection == nil {
			return converted, errors.New("detection payload missing")
		}

		converted.Type = safety.EventDetection
		converted.Payload = *event.Detection
	default:
		return converted, fmt.Errorf("unknown event type %q", event.Type)
	}

	return converted, nil
}

// sensorInterval returns the default sampling period for a sensor type.
// Different sensors report at different rates.
func sensorInterval(sensorType string) time.Duration {
	switch sensorType {
	case "motion":
		return 500 * time.Millisecond
	case "temperature", "humidity", "pressure":
		return 5 * time.Second
	case "sound", "occupancy":
		return time.Second
	case "air_quality":
		return 10 * time.Second
	case "wind", "visibility":
		return 2 * time.Second
	default:
		return DefaultSensorInterval
	}
}
