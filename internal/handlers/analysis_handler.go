// -----------------------------------------------------------------------
// Analysis Handler - HTTP surface for submitting and polling analyses
// -----------------------------------------------------------------------

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/AmrElsherif83/aira-investment-agent/internal/interfaces"
	"github.com/AmrElsherif83/aira-investment-agent/internal/models"
	"github.com/AmrElsherif83/aira-investment-agent/internal/queue"
	"github.com/AmrElsherif83/aira-investment-agent/internal/services/analyzer"
)

// AnalysisHandler handles HTTP requests for analysis jobs
type AnalysisHandler struct {
	service *analyzer.Service
	store   interfaces.JobStore
	logger  arbor.ILogger
}

// NewAnalysisHandler creates a new AnalysisHandler
func NewAnalysisHandler(service *analyzer.Service, store interfaces.JobStore, logger arbor.ILogger) *AnalysisHandler {
	return &AnalysisHandler{
		service: service,
		store:   store,
		logger:  logger,
	}
}

// submitPayload is the request body of POST /api/analyses
type submitPayload struct {
	Ticker string `json:"ticker"`
}

// SubmitHandler handles POST /api/analyses
func (h *AnalysisHandler) SubmitHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var payload submitPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	job, err := h.service.Submit(r.Context(), payload.Ticker)
	if err != nil {
		switch {
		case errors.Is(err, analyzer.ErrInvalidTicker):
			WriteError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, queue.ErrQueueFull):
			WriteError(w, http.StatusServiceUnavailable, "Analysis queue is full, try again later")
		default:
			h.logger.Error().Err(err).Msg("Failed to submit analysis")
			WriteError(w, http.StatusInternalServerError, "Failed to submit analysis")
		}
		return
	}

	WriteJSON(w, http.StatusAccepted, job)
}

// ListHandler handles GET /api/analyses
func (h *AnalysisHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	limit, offset := GetListParams(r)
	opts := &interfaces.JobListOptions{
		Status: r.URL.Query().Get("status"),
		Limit:  limit,
		Offset: offset,
	}

	jobs, err := h.store.ListJobs(r.Context(), opts)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list analyses")
		WriteError(w, http.StatusInternalServerError, "Failed to list analyses")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(jobs),
		"analyses": jobs,
	})
}

// GetJobHandler handles GET /api/analyses/{id}
func (h *AnalysisHandler) GetJobHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	job, ok := h.fetchJob(w, r, "")
	if !ok {
		return
	}

	WriteJSON(w, http.StatusOK, job)
}

// GetStepsHandler handles GET /api/analyses/{id}/steps
func (h *AnalysisHandler) GetStepsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	job, ok := h.fetchJob(w, r, "/steps")
	if !ok {
		return
	}

	steps := job.Steps
	if steps == nil {
		steps = []models.StepResult{}
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"job_id": job.ID,
		"status": job.Status,
		"steps":  steps,
	})
}

// GetResultHandler handles GET /api/analyses/{id}/result. The report is
// only available once the job has succeeded.
func (h *AnalysisHandler) GetResultHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	job, ok := h.fetchJob(w, r, "/result")
	if !ok {
		return
	}

	if job.Status != models.JobStatusSucceeded || job.Report == nil {
		WriteError(w, http.StatusNotFound, "Result not available: job status is "+job.Status.String())
		return
	}

	WriteJSON(w, http.StatusOK, job.Report)
}

// fetchJob extracts the job id from the request path, strips the given
// suffix, and loads the job. Writes the error response and returns false
// when the job cannot be served.
func (h *AnalysisHandler) fetchJob(w http.ResponseWriter, r *http.Request, suffix string) (*models.Job, bool) {
	jobID := strings.TrimPrefix(r.URL.Path, "/api/analyses/")
	jobID = strings.TrimSuffix(jobID, suffix)
	jobID = strings.Trim(jobID, "/")

	if jobID == "" {
		WriteError(w, http.StatusBadRequest, "Missing job ID")
		return nil, false
	}

	job, err := h.store.GetJob(r.Context(), jobID)
	if err != nil {
		if errors.Is(err, interfaces.ErrJobNotFound) {
			WriteError(w, http.StatusNotFound, "Analysis not found: "+jobID)
			return nil, false
		}
		h.logger.Error().Str("job_id", jobID).Err(err).Msg("Failed to load analysis")
		WriteError(w, http.StatusInternalServerError, "Failed to load analysis")
		return nil, false
	}

	return job, true
}
