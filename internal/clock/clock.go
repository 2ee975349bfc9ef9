package clock

import "time"

// Timer is a one-shot scheduled callback.
type Timer interface {
	// Stop prevents the callback from firing. It reports whether the
	// call stopped the timer before it fired.
	Stop() bool
}

// Clock abstracts wall time and timer creation so schedulers can be driven
// by a fake in tests.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
	// AfterFunc schedules f to run in its own goroutine after d elapses.
	AfterFunc(d time.Duration, f func()) Timer
}

// systemClock delegates to the time package.
type systemClock struct{}

// System returns the real wall clock.
//
//nolint:ireturn // Returning the interface keeps callers off the concrete type.
func System() Clock {
	return systemClock{}
}

// Now returns the current wall time.
func (systemClock) Now() time.Time {
	return time.Now()
}

// AfterFunc schedules f on a runtime timer.
//
//nolint:ireturn // Returning the interface keeps callers off the concrete type.
func (systemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
