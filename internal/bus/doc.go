// Package bus implements the in-process typed publish/subscribe router.
//
// Producers (the scenario scheduler, the sensor feed, detectors) publish
// events; the lifecycle engines and observers subscribe per event type.
// Delivery is synchronous, FIFO per type, with the subscriber list
// snapshotted at publish time and handler panics isolated.
package bus
