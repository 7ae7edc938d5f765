// Package httpbridge moves host app requests over HTTP.
//
// Request and response bodies are the record encodings of action.Request
// and action.Response. Installations are exchanged as JSON.
// Retries with backoff live here, never in the action layer; dispatched
// requests carry their id so the host can drop duplicates.
package httpbridge
