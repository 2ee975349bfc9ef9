// Package incidents implements the incident lifecycle engine.
//
// The engine exclusively owns all incident state: the forward-only status
// machine (active -> investigating -> resolved -> closed, with the direct
// resolve skip), the append-only response timeline, alert cross-links and
// derived analysis/recommendations. Closed incidents are archived and
// reject further timeline appends.
package incidents
