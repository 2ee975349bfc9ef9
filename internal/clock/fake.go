package clock

import (
	"sort"
	"sync"
	"time"
)

// Fake is a manually advanced Clock for deterministic tests.
// Callbacks run synchronously inside Advance, in deadline order.
type Fake struct {
	// mu protects now and timers.
	mu sync.Mutex
	// now is the current fake time.
	now time.Time
	// timers holds the pending one-shot timers.
	timers []*fakeTimer
}

// fakeTimer is a pending callback owned by a Fake clock.
type fakeTimer struct {
	// clock is the owning fake clock.
	clock *Fake
	// deadline is when the callback becomes due.
	deadline time.Time
	// fn is the scheduled callback.
	fn func()
	// stopped marks the timer as cancelled or fired.
	stopped bool
}

// Stop prevents the callback from firing.
func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()

	if t.stopped {
		return false
	}

	t.stopped = true

	return true
}

// NewFake returns a fake clock frozen at start.
func NewFake(start time.Time) *Fake {
	return &Fake{now: start}
}

// Now returns the current fake time.
func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.now
}

// AfterFunc schedules f to run once the fake time advances past d.
//
//nolint:ireturn // Returning the interface keeps callers off the concrete type.
func (f *Fake) AfterFunc(d time.Duration, fn func()) Timer {
	f.mu.Lock()
	defer f.mu.Unlock()

	t := &fakeTimer{
		clock:    f,
		deadline: f.now.Add(d),
		fn:       fn,
	}
	f.timers = append(f.timers, t)

	return t
}

// Advance moves the fake time forward by d, firing every due timer in
// deadline order. Callbacks that schedule new timers within the advanced
// window are honoured as well.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	target := f.now.Add(d)
	f.mu.Unlock()

	for {
		t := f.popDue(target)
		if t == nil {
			break
		}

		t.fn()
	}

	f.mu.Lock()
	f.now = target
	f.mu.Unlock()
}

// popDue removes and returns the earliest timer due at or before target,
// advancing the fake time to its deadline. It returns nil when no timer is due.
func (f *Fake) popDue(target time.Time) *fakeTimer {
	f.mu.Lock()
	defer f.mu.Unlock()

	sort.SliceStable(f.timers, func(i, j int) bool {
		return f.timers[i].deadline.Before(f.timers[j].deadline)
	})

	for i, t := range f.timers {
		if t.stopped {
			continue
		}

		if t.deadline.After(target) {
			break
		}

		t.stopped = true
		f.timers = append(f.timers[:i:i], f.timers[i+1:]...)

		if t.deadline.After(f.now) {
			f.now = t.deadline
		}

		return t
	}

	return nil
}
