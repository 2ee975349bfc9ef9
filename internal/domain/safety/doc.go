// Package safety contains the core domain types for the airside safety
// pipeline: alerts, incidents, scenarios and the typed event union carried
// by the bus.
//
// Lifecycle state lives behind the engines in internal/service; the types
// here define the shapes, the allowed state transitions and the shared
// error taxonomy. Clone helpers are provided to avoid leaking internal
// references out of the engines.
package safety
