package sensors

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/skywatch-ops/skywatch/internal/bus"
	"github.com/skywatch-ops/skywatch/internal/clock"
	"github.com/skywatch-ops/skywatch/internal/config"
	"github.com/skywatch-ops/skywatch/internal/domain/safety"
)

// recorder collects events published by the feed under test.
type recorder struct {
	mu       sync.Mutex
	readings []safety.Event
	requests []safety.Event
}

// attach subscribes the recorder to the event types the feed publishes.
func (r *recorder) attach(b *bus.Bus) {
	b.Subscribe(safety.EventSensorReading, func(_ context.Context, event safety.Event) {
		r.mu.Lock()
		defer r.mu.Unlock()

		r.readings = append(r.readings, event)
	})
	b.Subscribe(safety.EventAlertRequested, func(_ context.Context, event safety.Event) {
		r.mu.Lock()
		defer r.mu.Unlock()

		r.requests = append(r.requests, event)
	})
}

// counts returns the number of recorded readings and alert requests.
func (r *recorder) counts() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.readings), len(r.requests)
}

// TestFeedPublishesReadingsAtInterval verifies one reading is published per
// sensor per elapsed interval and the timer keeps re-arming.
func TestFeedPublishesReadingsAtInterval(t *testing.T) {
	t.Parallel()

	var (
		b   = bus.New()
		rec = &recorder{}
		clk = clock.NewFake(time.Unix(1000, 0))
	)

	rec.attach(b)

	feed := NewFeed(b, clk, []config.SensorConfig{
		{
			ID:       "temp-1",
			Type:     "temperature",
			Zone:     "terminal-a",
			Unit:     "°C",
			Interval: 5 * time.Second,
		},
	})
	feed.Start(context.Background())

	clk.Advance(15 * time.Second)

	readings, _ := rec.counts()
	require.Equal(t, 3, readings)

	rec.mu.Lock()
	first, ok := rec.readings[0].Payload.(safety.SensorReading)
	rec.mu.Unlock()

	require.True(t, ok)
	require.Equal(t, "temp-1", first.SensorID)
	require.Equal(t, "temperature", first.SensorType)
	require.InDelta(t, 23, first.Value, 5.01, "temperature readings stay within the mock range")
	require.False(t, rec.readings[0].Origin.Simulation, "live readings carry no simulation origin")
}

// TestFeedSynthesizesThresholdAlerts verifies a violating reading produces
// an alert request tagged with the sensor source.
func TestFeedSynthesizesThresholdAlerts(t *testing.T) {
	t.Parallel()

	var (
		b   = bus.New()
		rec = &recorder{}
		clk = clock.NewFake(time.Unix(1000, 0))
	)

	rec.attach(b)

	// Temperature readings fall in 18..28, so a critical bound below that
	// range guarantees a violation on every sample.
	feed := NewFeed(b, clk, []config.SensorConfig{
		{
			ID:       "temp-hot",
			Type:     "temperature",
			Zone:     "server-room",
			Unit:     "°C",
			Interval: time.Second,
			Bounds:   safety.Bounds{Min: -100, Max: 5, Critical: 10},
		},
	})
	feed.Start(context.Background())

	clk.Advance(time.Second)

	readings, requests := rec.counts()
	require.Equal(t, 1, readings)
	require.Equal(t, 1, requests)

	rec.mu.Lock()
	request, ok := rec.requests[0].Payload.(safety.AlertRequest)
	rec.mu.Unlock()

	require.True(t, ok)
	require.Equal(t, "sensor_threshold_violation", request.Kind)
	require.Equal(t, safety.SeverityCritical, request.Severity)
	require.Equal(t, safety.SourceSensor, request.Source)
	require.Equal(t, "temp-hot", request.SourceID)
	require.Contains(t, request.Message, "Critical threshold exceeded")
	require.Equal(t, "temperature", request.Metadata["sensor_type"])
}

// TestFeedSkipsSensorsWithoutBounds verifies sensors with zero bounds never
// synthesize alerts no matter what they read.
func TestFeedSkipsSensorsWithoutBounds(t *testing.T) {
	t.Parallel()

	var (
		b   = bus.New()
		rec = &recorder{}
		clk = clock.NewFake(time.Unix(1000, 0))
	)

	rec.attach(b)

	feed := NewFeed(b, clk, []config.SensorConfig{
		{
			ID:       "motion-1",
			Type:     "motion",
			Zone:     "runway-09l",
			Unit:     "boolean",
			Interval: 500 * time.Millisecond,
		},
	})
	feed.Start(context.Background())

	clk.Advance(10 * time.Second)

	readings, requests := rec.counts()
	require.Equal(t, 20, readings)
	require.Zero(t, requests)
}

// TestFeedStop verifies no further readings are published after Stop and the
// feed cannot be restarted.
func TestFeedStop(t *testing.T) {
	t.Parallel()

	var (
		b   = bus.New()
		rec = &recorder{}
		clk = clock.NewFake(time.Unix(1000, 0))
	)

	rec.attach(b)

	ctx := context.Background()

	feed := NewFeed(b, clk, []config.SensorConfig{
		{ID: "wind-1", Type: "wind", Unit: "km/h", Interval: 2 * time.Second},
	})
	feed.Start(ctx)

	clk.Advance(4 * time.Second)

	feed.Stop(ctx)
	feed.Stop(ctx)

	clk.Advance(time.Minute)

	readings, _ := rec.counts()
	require.Equal(t, 2, readings)

	feed.Start(ctx)
	clk.Advance(time.Minute)

	readings, _ = rec.counts()
	require.Equal(t, 2, readings, "a stopped feed must not restart")
}
