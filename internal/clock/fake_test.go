package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestFakeAdvanceFiresInDeadlineOrder verifies due callbacks run in deadline
// order and the clock reads each deadline while its callback runs.
func TestFakeAdvanceFiresInDeadlineOrder(t *testing.T) {
	t.Parallel()

	start := time.Unix(1000, 0)
	f := NewFake(start)

	var fired []time.Duration

	f.AfterFunc(2*time.Second, func() {
		fired = append(fired, f.Now().Sub(start))
	})
	f.AfterFunc(time.Second, func() {
		fired = append(fired, f.Now().Sub(start))
	})

	f.Advance(3 * time.Second)

	require.Equal(t, []time.Duration{time.Second, 2 * time.Second}, fired)
	require.Equal(t, start.Add(3*time.Second), f.Now())
}

// TestFakeAdvanceSkipsFutureTimers verifies timers past the advanced window
// stay pending and fire on a later advance.
func TestFakeAdvanceSkipsFutureTimers(t *testing.T) {
	t.Parallel()

	f := NewFake(time.Unix(1000, 0))

	var fired int

	f.AfterFunc(5*time.Second, func() {
		fired++
	})

	f.Advance(4 * time.Second)
	require.Zero(t, fired)

	f.Advance(time.Second)
	require.Equal(t, 1, fired)
}

// TestFakeStopPreventsFiring verifies a stopped timer never runs and Stop
// reports whether it still could have.
func TestFakeStopPreventsFiring(t *testing.T) {
	t.Parallel()

	f := NewFake(time.Unix(1000, 0))

	var fired int

	timer := f.AfterFunc(time.Second, func() {
		fired++
	})

	require.True(t, timer.Stop())
	require.False(t, timer.Stop())

	f.Advance(time.Minute)
	require.Zero(t, fired)
}

// TestFakeCallbackSchedulesWithinWindow verifies a callback may arm a new
// timer that is still due within the same advance.
func TestFakeCallbackSchedulesWithinWindow(t *testing.T) {
	t.Parallel()

	f := NewFake(time.Unix(1000, 0))

	var fired []string

	f.AfterFunc(time.Second, func() {
		fired = append(fired, "first")

		f.AfterFunc(time.Second, func() {
			fired = append(fired, "chained")
		})
	})

	f.Advance(3 * time.Second)

	require.Equal(t, []string{"first", "chained"}, fired)
}

// TestSystemClockNow verifies the system clock tracks wall time.
func TestSystemClockNow(t *testing.T) {
	t.Parallel()

	before := time.Now()
	now := System().Now()
	after := time.Now()

	require.False(t, now.Before(before))
	require.False(t, now.After(after))
}
