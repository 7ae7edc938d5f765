// Package record owns the versioned envelope every domain object uses.
//
// Envelope layout (big-endian):
//
//	int32 version | int32 payload length | payload
//
// New optional fields are appended at the payload tail and guarded by a
// version check in ReadFields. The payload length lets older readers skip
// tail fields they do not know.
package record
