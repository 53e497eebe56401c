package handlers

import (
	"net/http"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/AmrElsherif83/aira-investment-agent/internal/common"
	"github.com/AmrElsherif83/aira-investment-agent/internal/interfaces"
	"github.com/AmrElsherif83/aira-investment-agent/internal/queue"
)

// StatusHandler handles HTTP requests for service status
type StatusHandler struct {
	store     interfaces.JobStore
	queue     *queue.Queue
	logger    arbor.ILogger
	startedAt time.Time
}

// NewStatusHandler creates a new StatusHandler
func NewStatusHandler(store interfaces.JobStore, q *queue.Queue, logger arbor.ILogger) *StatusHandler {
	return &StatusHandler{
		store:     store,
		queue:     q,
		logger:    logger,
		startedAt: time.Now(),
	}
}

// GetStatusHandler handles GET /api/status
func (h *StatusHandler) GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	counts, err := h.store.CountJobsByStatus(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to count jobs")
		WriteError(w, http.StatusInternalServerError, "Failed to read job counts")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"version": common.GetVersion(),
		"uptime":  time.Since(h.startedAt).Round(time.Second).String(),
		"queue": map[string]interface{}{
			"depth":    h.queue.Depth(),
			"capacity": h.queue.Capacity(),
		},
		"jobs": counts,
	})
}

// HealthHandler handles GET /api/health
func (h *StatusHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": common.GetVersion(),
	})
}
