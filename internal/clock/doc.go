// Package clock abstracts monotonic scheduling of delayed callbacks.
//
// The System clock delegates to the time package; the Fake clock is
// manually advanced so timer-driven code can be tested without sleeping.
package clock
