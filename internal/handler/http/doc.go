// Package http implements the REST transport of the task service.
//
// It wires the /api/v1 routes, the request handlers and the middleware.
// Tracing, access logging, gzip request bodies, rate limiting and bearer
// authentication are handled here before requests reach the service layer.
// Every error leaves through writeError, which maps the error kind to a
// status code and a JSON error body.
package http
