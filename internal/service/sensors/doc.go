// Package sensors simulates the live sensor network.
//
// The feed samples each configured sensor at its own interval, publishes
// the readings onto the bus and runs them through the threshold evaluator,
// synthesizing alert requests for out-of-bounds values.
package sensors
