// Package archive persists alert and incident snapshots as an append-only
// JSONL audit trail. The engines treat it as a fire-and-forget sink:
// a failed save is logged and never blocks a lifecycle transition.
package archive
