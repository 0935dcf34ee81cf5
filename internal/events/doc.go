// Package events fans control-loop events out to slow consumers.
//
// The control loop must never wait on MQTT, InfluxDB, SQLite or WebSocket
// clients. The Dispatcher accepts events through a non-blocking Publish and
// delivers them to every registered Sink from its own goroutine.
//
//	Controller ──Publish──▶ [buffer] ──Run──▶ Sink 1, Sink 2, ...
//
// When the buffer is full the event is dropped and counted. Sink errors are
// logged and never reach the loop.
package events
