// Package wire owns the big-endian primitives shared by every record.
//
// Layout rules:
// - integers are fixed width, big-endian, no padding
// - strings are a 4-byte length followed by UTF-8 bytes
// - byte arrays use the same prefix; length 0 means absent
package wire
