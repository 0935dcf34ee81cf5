// Package api implements the HTTP and WebSocket surface of the home controller.
//
// This package provides:
//   - Read-only REST endpoints for health, live state, event history and metrics
//   - A WebSocket hub that streams controller events to subscribed clients
//   - Middleware stack (request ID, logging, recovery, CORS)
//
// # Architecture
//
// The control loop never talks to HTTP clients directly. The server reads the
// controller's published snapshot for /state and the history repository for
// /history. The Hub is registered as an event sink on the dispatcher, so
// WebSocket clients see the same event stream as MQTT and InfluxDB.
//
// # Graceful Degradation
//
// History and health checks are optional. Without a database /history
// answers 503; the rest of the API keeps working.
package api
