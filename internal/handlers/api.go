package handlers

import (
	"net/http"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/nephra/internal/common"
	"github.com/ternarybob/nephra/internal/interfaces"
)

// APIHandler serves service metadata: version, status and the JSON 404.
type APIHandler struct {
	storage   interfaces.StorageManager
	scheduler interfaces.SchedulerService
	logger    arbor.ILogger
	startTime time.Time
}

// NewAPIHandler creates a new API handler
func NewAPIHandler(storage interfaces.StorageManager, scheduler interfaces.SchedulerService, logger arbor.ILogger) *APIHandler {
	return &APIHandler{
		storage:   storage,
		scheduler: scheduler,
		logger:    logger,
		startTime: time.Now(),
	}
}

// VersionHandler returns version information
func (h *APIHandler) VersionHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	WriteJSON(w, http.StatusOK, common.GetVersionInfo())
}

// StatusHandler returns service status: uptime, record counts and jobs
func (h *APIHandler) StatusHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	ctx := r.Context()
	status := map[string]interface{}{
		"service":    "nephra",
		"version":    common.GetVersion(),
		"uptime":     time.Since(h.startTime).Round(time.Second).String(),
		"goroutines": common.GetGoroutineCount(),
	}

	counts := map[string]int{}
	if n, err := h.storage.ScoreStorage().CountScores(ctx); err == nil {
		counts["scores"] = n
	}
	if n, err := h.storage.GFRStorage().CountEstimates(ctx); err == nil {
		counts["gfr_estimates"] = n
	}
	if n, err := h.storage.SummaryStorage().CountSummaries(ctx); err == nil {
		counts["summaries"] = n
	}
	status["records"] = counts

	if h.scheduler != nil {
		status["scheduler_running"] = h.scheduler.IsRunning()
		status["jobs"] = h.scheduler.GetAllJobStatuses()
	}

	WriteJSON(w, http.StatusOK, status)
}

// HealthHandler returns health check status
func (h *APIHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// NotFoundHandler handles 404 errors with JSON response
func (h *APIHandler) NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusNotFound, map[string]interface{}{
		"error":   "Not Found",
		"path":    r.URL.Path,
		"message": "The requested endpoint does not exist",
	})
}
