// Package hostapp identifies the installed host app and gates operations.
//
// Ownership boundary:
// - flavor identities and provider authorities
// - the operation -> minimum version table
// - discovery of installations and preference ordering
//
// Capability is evaluated per call; nothing here caches a discovered host.
package hostapp
