// Package api exposes the task, tag and settings services over HTTP.
//
// Handlers decode and validate JSON requests, call a service with the user
// ID the auth middleware put in the request context, and translate service
// errors into status codes with MapErrorToStatusCode. Error bodies carry
// only a safe message and the request's trace ID; the underlying error is
// logged, redacted, through the request-scoped logger.
package api
