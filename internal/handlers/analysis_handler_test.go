package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/AmrElsherif83/aira-investment-agent/internal/analysis"
	"github.com/AmrElsherif83/aira-investment-agent/internal/models"
	"github.com/AmrElsherif83/aira-investment-agent/internal/providers"
	"github.com/AmrElsherif83/aira-investment-agent/internal/queue"
	"github.com/AmrElsherif83/aira-investment-agent/internal/services/analyzer"
	storage "github.com/AmrElsherif83/aira-investment-agent/internal/storage/badger"
)

type handlerFixture struct {
	handler *AnalysisHandler
	status  *StatusHandler
	service *analyzer.Service
	store   *storage.JobStore
}

func newFixture(t *testing.T, capacity int) *handlerFixture {
	t.Helper()

	logger := arbor.NewLogger()
	db, err := storage.NewBadgerDB(logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	store := storage.NewJobStore(db, logger)
	q := queue.NewQueue(capacity, 20*time.Millisecond)
	orch := analyzer.NewOrchestrator(
		providers.NewFinancialProvider(),
		providers.NewNewsProvider(),
		providers.NewRiskProvider(),
		analysis.DefaultWeights(),
		logger,
	)
	service := analyzer.NewService(store, q, orch, logger)

	return &handlerFixture{
		handler: NewAnalysisHandler(service, store, logger),
		status:  NewStatusHandler(store, q, logger),
		service: service,
		store:   store,
	}
}

func submitBody(t *testing.T, ticker string) *bytes.Buffer {
	t.Helper()
	body, err := json.Marshal(map[string]string{"ticker": ticker})
	require.NoError(t, err)
	return bytes.NewBuffer(body)
}

func TestSubmitHandlerAccepts(t *testing.T) {
	f := newFixture(t, 4)

	req := httptest.NewRequest("POST", "/api/analyses", submitBody(t, "nvda"))
	rec := httptest.NewRecorder()
	f.handler.SubmitHandler(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code)

	var job models.Job
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &job))
	assert.Equal(t, "NVDA", job.Ticker)
	assert.Equal(t, models.JobStatusQueued, job.Status)
	assert.NotEmpty(t, job.ID)
}

func TestSubmitHandlerRejectsBadTicker(t *testing.T) {
	f := newFixture(t, 4)

	req := httptest.NewRequest("POST", "/api/analyses", submitBody(t, "not a ticker!"))
	rec := httptest.NewRecorder()
	f.handler.SubmitHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitHandlerRejectsBadJSON(t *testing.T) {
	f := newFixture(t, 4)

	req := httptest.NewRequest("POST", "/api/analyses", bytes.NewBufferString("{nope"))
	rec := httptest.NewRecorder()
	f.handler.SubmitHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitHandlerFullQueue(t *testing.T) {
	f := newFixture(t, 1)

	req := httptest.NewRequest("POST", "/api/analyses", submitBody(t, "NVDA"))
	rec := httptest.NewRecorder()
	f.handler.SubmitHandler(rec, req)
	require.Equal(t, http.StatusAccepted, rec.Code)

	req = httptest.NewRequest("POST", "/api/analyses", submitBody(t, "AAPL"))
	rec = httptest.NewRecorder()
	f.handler.SubmitHandler(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestGetJobHandlerNotFound(t *testing.T) {
	f := newFixture(t, 4)

	req := httptest.NewRequest("GET", "/api/analyses/job_missing", nil)
	rec := httptest.NewRecorder()
	f.handler.GetJobHandler(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetStepsHandlerEmptyTrace(t *testing.T) {
	f := newFixture(t, 4)

	job, err := f.service.Submit(context.Background(), "NVDA")
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/api/analyses/"+job.ID+"/steps", nil)
	rec := httptest.NewRecorder()
	f.handler.GetStepsHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		JobID  string              `json:"job_id"`
		Status models.JobStatus    `json:"status"`
		Steps  []models.StepResult `json:"steps"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, job.ID, resp.JobID)
	assert.Equal(t, models.JobStatusQueued, resp.Status)
	assert.Empty(t, resp.Steps)
}

func TestGetResultHandlerLifecycle(t *testing.T) {
	f := newFixture(t, 4)
	ctx := context.Background()

	job, err := f.service.Submit(ctx, "NVDA")
	require.NoError(t, err)

	// Not available while queued
	req := httptest.NewRequest("GET", "/api/analyses/"+job.ID+"/result", nil)
	rec := httptest.NewRecorder()
	f.handler.GetResultHandler(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	require.NoError(t, f.service.RunJob(ctx, job.ID, job.Ticker))

	req = httptest.NewRequest("GET", "/api/analyses/"+job.ID+"/result", nil)
	rec = httptest.NewRecorder()
	f.handler.GetResultHandler(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var report models.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, "NVIDIA Corporation", report.CompanyName)
	assert.Equal(t, models.SignalBullish, report.Signal)
	assert.NotEmpty(t, report.Sources)
}

func TestListHandlerStatusFilter(t *testing.T) {
	f := newFixture(t, 4)
	ctx := context.Background()

	done, err := f.service.Submit(ctx, "NVDA")
	require.NoError(t, err)
	require.NoError(t, f.service.RunJob(ctx, done.ID, done.Ticker))

	_, err = f.service.Submit(ctx, "AAPL")
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/api/analyses?status=succeeded", nil)
	rec := httptest.NewRecorder()
	f.handler.ListHandler(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Count    int           `json:"count"`
		Analyses []*models.Job `json:"analyses"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, done.ID, resp.Analyses[0].ID)
}

func TestStatusHandler(t *testing.T) {
	f := newFixture(t, 4)

	_, err := f.service.Submit(context.Background(), "NVDA")
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/api/status", nil)
	rec := httptest.NewRecorder()
	f.status.GetStatusHandler(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Status string `json:"status"`
		Queue  struct {
			Depth    int `json:"depth"`
			Capacity int `json:"capacity"`
		} `json:"queue"`
		Jobs map[string]int `json:"jobs"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 1, resp.Queue.Depth)
	assert.Equal(t, 4, resp.Queue.Capacity)
	assert.Equal(t, 1, resp.Jobs["queued"])
}

func TestMethodNotAllowed(t *testing.T) {
	f := newFixture(t, 4)

	req := httptest.NewRequest("DELETE", "/api/analyses", nil)
	rec := httptest.NewRecorder()
	f.handler.SubmitHandler(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
