// Package scheduler plays back declarative scenario scripts.
//
// Each invocation creates an ephemeral Run that owns one cancellable timer
// per scripted event plus a terminal timer publishing scenario_completed.
// Runs of different scenarios execute concurrently; re-running an active
// scenario id cancels the prior run first (last writer wins). Cancellation
// is cooperative via a per-run token checked at fire time.
package scheduler
