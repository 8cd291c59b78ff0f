package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/rezoapp/rezo-backend/internal/database"
	"github.com/rezoapp/rezo-backend/internal/services"
)

var metricsRecorder *services.Recorder

// InitMonitoring wires the monitoring endpoints to the shared recorder.
func InitMonitoring(recorder *services.Recorder) {
	metricsRecorder = recorder
}

// Health handles GET /api/health: pings the backing stores and reports
// per-dependency status.
func Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	mongoStatus := "ok"
	if err := database.Client.Ping(ctx, nil); err != nil {
		mongoStatus = "unreachable"
	}
	redisStatus := "ok"
	if err := database.RedisClient.Ping(ctx).Err(); err != nil {
		redisStatus = "unreachable"
	}

	status := http.StatusOK
	overall := "ok"
	if mongoStatus != "ok" || redisStatus != "ok" {
		status = http.StatusServiceUnavailable
		overall = "degraded"
	}

	respondJSON(w, status, map[string]interface{}{
		"status":  overall,
		"mongodb": mongoStatus,
		"redis":   redisStatus,
	})
}

// Metrics handles GET /api/metrics with the request counters.
func Metrics(w http.ResponseWriter, r *http.Request) {
	if metricsRecorder == nil {
		respondError(w, http.StatusServiceUnavailable, "Metrics not initialized")
		return
	}
	respondJSON(w, http.StatusOK, metricsRecorder.Snapshot())
}
