// Package api provides the HTTP surface of Conduit Core.
//
// It exposes command dispatch, complex command management, device and
// actuation history queries, a health endpoint, and a WebSocket feed of
// dispatched commands. Handlers translate the command package's error
// taxonomy into HTTP status codes; all domain decisions live below this
// layer.
package api
