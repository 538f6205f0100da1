package api

import (
	"net/http"
	"runtime"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/rinapen/discord-game-bot/internal/games"
)

// HealthStatus represents the overall health status
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// HealthCheckResponse represents a comprehensive health check response
type HealthCheckResponse struct {
	Status    HealthStatus           `json:"status"`
	Timestamp string                 `json:"timestamp"`
	Uptime    string                 `json:"uptime"`
	Checks    map[string]HealthCheck `json:"checks"`
	System    SystemInfo             `json:"system"`
	RequestID string                 `json:"request_id,omitempty"`
}

// HealthCheck represents an individual health check
type HealthCheck struct {
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// SystemInfo contains system information
type SystemInfo struct {
	GoVersion     string `json:"go_version"`
	NumGoroutines int    `json:"num_goroutines"`
	MemoryAlloc   uint64 `json:"memory_alloc_bytes"`
	GCCycles      uint32 `json:"gc_cycles"`
}

func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]HealthCheck)
	overall := HealthStatusHealthy

	dbCheck := s.checkDatabaseHealth(r)
	checks["database"] = dbCheck
	if dbCheck.Status != HealthStatusHealthy {
		overall = HealthStatusUnhealthy
	}

	machineCheck := HealthCheck{Status: HealthStatusHealthy, Message: "session machine ready"}
	if s.machine == nil {
		machineCheck = HealthCheck{Status: HealthStatusUnhealthy, Message: "session machine not initialized"}
		overall = HealthStatusUnhealthy
	}
	checks["sessions"] = machineCheck

	statusCode := http.StatusOK
	if overall == HealthStatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}

	s.writeJSON(w, statusCode, HealthCheckResponse{
		Status:    overall,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    time.Since(s.startTime).String(),
		Checks:    checks,
		System:    s.getSystemInfo(),
		RequestID: middleware.GetReqID(r.Context()),
	})
}

func (s *Server) handleReadiness(w http.ResponseWriter, r *http.Request) {
	ready := s.machine != nil && s.seeds != nil && s.ledger != nil
	message := "Ready"
	if !ready {
		message = "Core components not initialized"
	}

	statusCode := http.StatusOK
	if !ready {
		statusCode = http.StatusServiceUnavailable
	}

	s.writeJSON(w, statusCode, map[string]any{
		"ready":       ready,
		"message":     message,
		"games_count": len(games.All()),
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"request_id":  middleware.GetReqID(r.Context()),
	})
}

func (s *Server) handleLiveness(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"alive":      true,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"uptime":     time.Since(s.startTime).String(),
		"request_id": middleware.GetReqID(r.Context()),
	})
}

func (s *Server) checkDatabaseHealth(r *http.Request) HealthCheck {
	if s.db == nil {
		return HealthCheck{Status: HealthStatusHealthy, Message: "in-memory mode"}
	}
	if err := s.db.PingContext(r.Context()); err != nil {
		return HealthCheck{Status: HealthStatusUnhealthy, Message: err.Error()}
	}
	return HealthCheck{Status: HealthStatusHealthy, Message: "database connection healthy"}
}

func (s *Server) getSystemInfo() SystemInfo {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return SystemInfo{
		GoVersion:     runtime.Version(),
		NumGoroutines: runtime.NumGoroutine(),
		MemoryAlloc:   m.Alloc,
		GCCycles:      m.NumGC,
	}
}
