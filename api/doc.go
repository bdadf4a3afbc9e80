// Package api exposes the structure editor over HTTP.
//
// All graph mutations are scoped to a session created via POST
// /api/sessions; handlers run inside the session lock so concurrent
// requests against the same session serialize. The package maps the error
// classification to HTTP status codes and records per-route metrics.
package api
