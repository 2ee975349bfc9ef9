package sensors

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"

	"github.com/skywatch-ops/skywatch/internal/bus"
	"github.com/skywatch-ops/skywatch/internal/clock"
	"github.com/skywatch-ops/skywatch/internal/config"
	"github.com/skywatch-ops/skywatch/internal/domain/safety"
	"github.com/skywatch-ops/skywatch/internal/logger"
	"github.com/skywatch-ops/skywatch/internal/threshold"
)

// Feed simulates the live sensor network: it periodically publishes mock
// readings for every configured sensor and synthesizes alert requests when
// a reading violates its configured bounds.
//
// Feed events carry no simulation origin; the absence of that tag is what
// distinguishes live data from scenario playback.
type Feed struct {
	// bus receives the published readings and synthesized alert requests.
	bus *bus.Bus
	// clk drives the per-sensor sampling timers.
	clk clock.Clock
	// sensors is the configured sensor table.
	sensors []config.SensorConfig
	// mu protects timers and stopped.
	mu sync.Mutex
	// timers holds the pending sampling timer per sensor id.
	timers map[string]clock.Timer
	// stopped blocks re-arming once the feed is shut down.
	stopped bool
}

// NewFeed creates a feed over the configured sensor table.
func NewFeed(b *bus.Bus, clk clock.Clock, sensors []config.SensorConfig) *Feed {
	return &Feed{
		bus:     b,
		clk:     clk,
		sensors: sensors,
		timers:  make(map[string]clock.Timer),
	}
}

// Start arms one sampling timer per configured sensor.
func (f *Feed) Start(ctx context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.stopped {
		return
	}

	for _, sensor := range f.sensors {
		f.arm(ctx, sensor)
	}

	logger.InfoKV(ctx, "Sensor feed started", "sensors", len(f.sensors))
}

// Stop cancels every pending sampling timer. The feed cannot be restarted.
func (f *Feed) Stop(ctx context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.stopped {
		return
	}

	f.stopped = true

	for _, t := range f.timers {
		t.Stop()
	}

	logger.Info(ctx, "Sensor feed stopped")
}

// arm schedules the next sample for the sensor. Callers must hold mu.
func (f *Feed) arm(ctx context.Context, sensor config.SensorConfig) {
	f.timers[sensor.ID] = f.clk.AfterFunc(sensor.Interval, func() {
		f.sample(ctx, sensor)
	})
}

// sample publishes one mock reading, checks its bounds and re-arms the timer.
func (f *Feed) sample(ctx context.Context, sensor config.SensorConfig) {
	reading := f.generate(sensor)

	f.bus.Publish(ctx, safety.Event{
		Type:    safety.EventSensorReading,
		At:      f.clk.Now(),
		Payload: reading,
	})

	f.check(ctx, sensor, reading)

	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.stopped {
		f.arm(ctx, sensor)
	}
}

// check evaluates the reading against the sensor bounds and synthesizes an
// alert request for violations. Sensors with zero bounds are never checked.
func (f *Feed) check(ctx context.Context, sensor config.SensorConfig, reading safety.SensorReading) {
	if sensor.Bounds == (safety.Bounds{}) {
		return
	}

	severity, violated := threshold.Evaluate(reading)
	if !violated {
		return
	}

	var message string

	switch severity {
	case safety.SeverityCritical:
		message = fmt.Sprintf("Critical threshold exceeded: %v%s (threshold: %v%s)",
			reading.Value, reading.Unit, sensor.Bounds.Critical, reading.Unit)
	case safety.SeverityHigh:
		message = fmt.Sprintf("High threshold exceeded: %v%s (threshold: %v%s)",
			reading.Value, reading.Unit, sensor.Bounds.Max, reading.Unit)
	default:
		message = fmt.Sprintf("Low threshold violated: %v%s (threshold: %v%s)",
			reading.Value, reading.Unit, sensor.Bounds.Min, reading.Unit)
	}

	f.bus.Publish(ctx, safety.Event{
		Type: safety.EventAlertRequested,
		At:   f.clk.Now(),
		Payload: safety.AlertRequest{
			Kind:     "sensor_threshold_violation",
			Severity: severity,
			Zone:     sensor.Zone,
			Message:  message,
			Source:   safety.SourceSensor,
			SourceID: sensor.ID,
			Metadata: map[string]any{
				"sensor_type": sensor.Type,
				"reading":     reading.Value,
				"unit":        reading.Unit,
				"quality":     reading.Quality,
			},
		},
	})
}

// generate produces one mock reading with a type-specific value range.
func (f *Feed) generate(sensor config.SensorConfig) safety.SensorReading {
	var value float64

	switch sensor.Type {
	case "temperature":
		value = 18 + rand.Float64()*10
	case "humidity":
		value = 40 + rand.Float64()*40
	case "motion":
		if rand.Float64() > 0.7 {
			value = 1
		}
	case "sound":
		value = 30 + rand.Float64()*50
	case "air_quality":
		value = 50 + rand.Float64()*100
	case "occupancy":
		value = float64(rand.Intn(100))
	case "wind":
		value = rand.Float64() * 20
	case "visibility":
		value = 5 + rand.Float64()*10
	case "pressure":
		value = 1000 + rand.Float64()*50
	default:
		value = rand.Float64() * 100
	}

	return safety.SensorReading{
		SensorID:   sensor.ID,
		SensorType: sensor.Type,
		Zone:       sensor.Zone,
		Value:      math.Round(value*100) / 100,
		Unit:       sensor.Unit,
		Quality:    0.9 + rand.Float64()*0.1,
		Bounds:     sensor.Bounds,
	}
}
