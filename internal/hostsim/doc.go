// Package hostsim plays the host app behind the HTTP bridge.
//
// Ownership boundary:
// - validating dispatched actions against their extras schema
// - an in-memory point and track store
// - the track-recording state machine
// - query routing by provider address
//
// Duplicate deliveries of the same request id are acknowledged without
// being applied twice.
package hostsim
