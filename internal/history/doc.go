// Package history persists control-loop events to SQLite.
//
// Every event the controller emits is stored in the event_history table
// together with the session id of the process that produced it. The API
// serves recent rows and a periodic prune keeps the table bounded.
package history
