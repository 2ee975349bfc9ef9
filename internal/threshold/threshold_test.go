package threshold

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/skywatch-ops/skywatch/internal/domain/safety"
)

// TestEvaluate verifies the severity mapping of readings against bounds,
// including the boundary comparisons and their precedence.
func TestEvaluate(t *testing.T) {
	t.Parallel()

	bounds := safety.Bounds{Min: 10, Max: 90, Critical: 95}

	tests := []struct {
		name     string
		value    float64
		severity safety.Severity
		violated bool
	}{
		{
			name:  "within bounds",
			value: 50,
		},
		{
			name:  "just above min",
			value: 10.1,
		},
		{
			name:     "at min",
			value:    10,
			severity: safety.SeverityMedium,
			violated: true,
		},
		{
			name:     "below min",
			value:    3,
			severity: safety.SeverityMedium,
			violated: true,
		},
		{
			name:  "just below max",
			value: 89.9,
		},
		{
			name:     "at max",
			value:    90,
			severity: safety.SeverityHigh,
			violated: true,
		},
		{
			name:     "between max and critical",
			value:    93,
			severity: safety.SeverityHigh,
			violated: true,
		},
		{
			name:     "at critical",
			value:    95,
			severity: safety.SeverityCritical,
			violated: true,
		},
		{
			name:     "above critical",
			value:    96,
			severity: safety.SeverityCritical,
			violated: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			severity, violated := Evaluate(safety.SensorReading{
				Value:  tt.value,
				Bounds: bounds,
			})

			require.Equal(t, tt.violated, violated)
			require.Equal(t, tt.severity, severity)
		})
	}
}

// TestEvaluateCriticalWinsOverMax verifies the critical comparison takes
// precedence when a reading crosses both upper bounds.
func TestEvaluateCriticalWinsOverMax(t *testing.T) {
	t.Parallel()

	severity, violated := Evaluate(safety.SensorReading{
		Value:  200,
		Bounds: safety.Bounds{Min: 0, Max: 150, Critical: 170},
	})

	require.True(t, violated)
	require.Equal(t, safety.SeverityCritical, severity)
}
