// Package http contains the chi HTTP handlers of the dashboard API. Handlers
// translate between the wire format and the service layer, validate request
// payloads, and render failures as RFC 7807 problem details through the
// shared error handler.
package http
