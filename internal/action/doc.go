// Package action builds host app requests and decodes their responses.
//
// Every Client operation follows the same pipeline:
// resolve a capable host -> encode payload -> attach routing metadata ->
// hand the request to the Transport -> validate and decode the response.
//
// Transport failures are returned as-is; retry policy belongs to the
// Transport implementation.
package action
