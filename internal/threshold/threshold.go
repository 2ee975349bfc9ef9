// Package threshold maps sensor readings against configured bounds to a
// severity tier. It is a pure policy function with no side effects, invoked
// by live-sensor ingestion to decide whether a reading should synthesize an
// alert before it reaches the bus.
package threshold

import "github.com/skywatch-ops/skywatch/internal/domain/safety"

// Evaluate compares a reading against its bounds and returns the severity of
// the violation. The second return value is false when the reading is within
// bounds and no alert should be raised.
//
// A reading at or below the minimum maps to medium rather than a dedicated
// low tier, mirroring the asymmetry of the upper-bound comparisons.
func Evaluate(reading safety.SensorReading) (safety.Severity, bool) {
	bounds := reading.Bounds

	switch {
	case reading.Value >= bounds.Critical:
		return safety.SeverityCritical, true
	case reading.Value >= bounds.Max:
		return safety.SeverityHigh, true
	case reading.Value <= bounds.Min:
		return safety.SeverityMedium, true
	default:
		return "", false
	}
}
