// Package alerts implements the alert lifecycle engine.
//
// The engine exclusively owns all alert state. Alerts are allocated from
// alert-request events on the bus, move forward through
// active -> acknowledged -> resolved (the direct resolve skip is allowed),
// and publish exactly one bus event per successful transition. Rejected
// transitions return safety.ErrInvalidTransition and change nothing.
package alerts
