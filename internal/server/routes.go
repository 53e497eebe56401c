package server

import (
	"net/http"
	"strings"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// API routes - Analyses
	mux.HandleFunc("/api/analyses", s.handleAnalysesRoute) // GET (list), POST (submit)
	mux.HandleFunc("/api/analyses/", s.handleAnalysisRoutes)

	// API routes - System
	mux.HandleFunc("/api/status", s.app.StatusHandler.GetStatusHandler)
	mux.HandleFunc("/api/health", s.app.StatusHandler.HealthHandler)

	// 404 handler for unmatched API routes
	mux.HandleFunc("/api/", s.notFoundHandler)

	return mux
}

// handleAnalysesRoute routes /api/analyses requests (list and submit)
func (s *Server) handleAnalysesRoute(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "GET":
		s.app.AnalysisHandler.ListHandler(w, r)
	case "POST":
		s.app.AnalysisHandler.SubmitHandler(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleAnalysisRoutes routes /api/analyses/{id} requests and subpaths
func (s *Server) handleAnalysisRoutes(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path

	// GET /api/analyses/{id}/steps
	if strings.HasSuffix(path, "/steps") {
		s.app.AnalysisHandler.GetStepsHandler(w, r)
		return
	}

	// GET /api/analyses/{id}/result
	if strings.HasSuffix(path, "/result") {
		s.app.AnalysisHandler.GetResultHandler(w, r)
		return
	}

	// GET /api/analyses/{id}
	s.app.AnalysisHandler.GetJobHandler(w, r)
}

// notFoundHandler returns 404 for unknown API paths
func (s *Server) notFoundHandler(w http.ResponseWriter, r *http.Request) {
	http.Error(w, "Not found", http.StatusNotFound)
}
