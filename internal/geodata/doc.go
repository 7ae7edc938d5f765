// Package geodata holds the value types exchanged with the host app.
//
// Every type implements record.Record. Optional blobs follow one rule:
// length 0 on the wire means absent, and absent decodes to nil.
package geodata
