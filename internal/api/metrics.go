package api

import (
	"net/http"
	"runtime"
	"time"
)

// SystemMetrics is the /metrics response.
type SystemMetrics struct {
	Timestamp     string            `json:"timestamp"`
	Version       string            `json:"version"`
	SessionID     string            `json:"session_id"`
	UptimeSeconds int64             `json:"uptime_seconds"`
	Runtime       RuntimeMetrics    `json:"runtime"`
	Controller    ControllerMetrics `json:"controller"`
	WebSocket     WSMetrics         `json:"websocket"`
	Events        EventMetrics      `json:"events"`
}

// RuntimeMetrics contains Go runtime statistics.
type RuntimeMetrics struct {
	Goroutines    int     `json:"goroutines"`
	MemoryAllocMB float64 `json:"memory_alloc_mb"`
	MemoryTotalMB float64 `json:"memory_total_mb"`
	NumGC         uint32  `json:"num_gc"`
}

// ControllerMetrics contains control loop counters.
type ControllerMetrics struct {
	Iterations   uint64 `json:"iterations"`
	UptimeMS     int64  `json:"uptime_ms"`
	TemperatureC int    `json:"temperature_c"`
}

// WSMetrics contains WebSocket hub statistics.
type WSMetrics struct {
	ConnectedClients int `json:"connected_clients"`
}

// EventMetrics contains dispatcher statistics.
type EventMetrics struct {
	Dropped uint64 `json:"dropped"`
}

// handleMetrics returns process and control loop metrics.
func (s *Server) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	snap := s.state.Snapshot()

	metrics := SystemMetrics{
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		Version:       s.version,
		SessionID:     s.sessionID,
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		Runtime: RuntimeMetrics{
			Goroutines:    runtime.NumGoroutine(),
			MemoryAllocMB: float64(memStats.Alloc) / 1024 / 1024,
			MemoryTotalMB: float64(memStats.TotalAlloc) / 1024 / 1024,
			NumGC:         memStats.NumGC,
		},
		Controller: ControllerMetrics{
			Iterations:   snap.Iterations,
			UptimeMS:     snap.UptimeMS,
			TemperatureC: snap.State.TemperatureC,
		},
		WebSocket: WSMetrics{ConnectedClients: s.hub.ClientCount()},
	}
	if s.events != nil {
		metrics.Events.Dropped = s.events.Dropped()
	}

	writeJSON(w, http.StatusOK, metrics)
}
