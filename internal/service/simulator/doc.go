// Package simulator wires the event bus, lifecycle engines, scenario
// scheduler, archive and sensor feed together and drives scenario playback
// for the command line interface.
package simulator
