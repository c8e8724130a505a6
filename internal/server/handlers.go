package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/cardforge/cardforge/internal/engine"
)

const (
	version      = "v0.1.0"
	defaultLimit = 100
	maxLimit     = 1000
)

// handleHealth returns the health status of the server
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:  "ok",
		Version: version,
		Uptime:  s.Uptime(),
	}

	s.writeJSON(w, http.StatusOK, response)
}

// handleSubmitRun accepts a run request and returns its ID immediately.
// An absent quantity defaults to engine.DefaultQuantity; an explicit
// non-positive quantity is rejected.
func (s *Server) handleSubmitRun(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body SubmitRunRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body", err)
		return
	}

	req := engine.RunRequest{
		Sector:         body.Sector,
		SubSector:      body.SubSector,
		Facility:       body.Facility,
		EquipmentClass: body.EquipmentClass,
		Quantity:       engine.DefaultQuantity,
	}
	if body.Quantity != nil {
		req.Quantity = *body.Quantity
	}

	runID, err := s.runs.Submit(ctx, req)
	if err != nil {
		if errors.Is(err, engine.ErrInvalidRequest) {
			s.writeError(w, http.StatusBadRequest, err.Error(), nil)
			return
		}
		s.logger.Error("failed to submit run", "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to submit run", err)
		return
	}

	s.writeJSON(w, http.StatusAccepted, SubmitRunResponse{
		RunID:  runID,
		Status: string(engine.StatusQueued),
	})
}

// handleListRuns returns recent runs, newest first
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	limit := s.parseLimitParam(r)

	runs, err := s.runs.GetRuns(ctx, limit)
	if err != nil {
		s.logger.Error("failed to get runs", "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to retrieve runs", err)
		return
	}

	s.writeJSON(w, http.StatusOK, runs)
}

// handleGetRun returns a specific run by ID
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	runID := r.PathValue("id")

	if runID == "" {
		s.writeError(w, http.StatusBadRequest, "run ID is required", nil)
		return
	}

	run, err := s.runs.GetRun(ctx, runID)
	if err != nil {
		s.logger.Error("failed to get run", "run_id", runID, "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to retrieve run", err)
		return
	}
	if run == nil {
		s.writeError(w, http.StatusNotFound, "run not found", nil)
		return
	}

	s.writeJSON(w, http.StatusOK, run)
}

// handleCancelRun requests cooperative cancellation of a live run
func (s *Server) handleCancelRun(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	runID := r.PathValue("id")

	if runID == "" {
		s.writeError(w, http.StatusBadRequest, "run ID is required", nil)
		return
	}

	cancelled, err := s.runs.Cancel(ctx, runID)
	if err != nil {
		s.logger.Error("failed to cancel run", "run_id", runID, "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to cancel run", err)
		return
	}

	s.writeJSON(w, http.StatusOK, CancelRunResponse{
		RunID:     runID,
		Cancelled: cancelled,
	})
}

// handleGetCatalog returns the facility hierarchy as a tree
func (s *Server) handleGetCatalog(w http.ResponseWriter, r *http.Request) {
	if s.catalog == nil {
		s.writeError(w, http.StatusServiceUnavailable, "catalog not available", nil)
		return
	}

	s.writeJSON(w, http.StatusOK, s.catalog.Tree())
}

// handleGetCardTree returns the stored card hierarchy. With sector,
// sub_sector, and facility query parameters it returns the cards under
// that facility instead.
func (s *Server) handleGetCardTree(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if s.cards == nil {
		s.writeError(w, http.StatusServiceUnavailable, "card repository not available", nil)
		return
	}

	q := r.URL.Query()
	sector, subSector, facility := q.Get("sector"), q.Get("sub_sector"), q.Get("facility")

	if sector != "" || subSector != "" || facility != "" {
		if sector == "" || subSector == "" || facility == "" {
			s.writeError(w, http.StatusBadRequest, "sector, sub_sector, and facility are all required for card listing", nil)
			return
		}
		cards, err := s.cards.List(ctx, sector, subSector, facility)
		if err != nil {
			s.logger.Error("failed to list cards", "error", err)
			s.writeError(w, http.StatusInternalServerError, "failed to list cards", err)
			return
		}
		s.writeJSON(w, http.StatusOK, cards)
		return
	}

	tree, err := s.cards.Tree(ctx)
	if err != nil {
		s.logger.Error("failed to get card tree", "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to retrieve card tree", err)
		return
	}

	s.writeJSON(w, http.StatusOK, tree)
}

// handleGetStats returns overall statistics
func (s *Server) handleGetStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stats, err := s.runs.GetStats(ctx)
	if err != nil {
		s.logger.Error("failed to get stats", "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to retrieve stats", err)
		return
	}

	s.writeJSON(w, http.StatusOK, stats)
}

// parseLimitParam parses the limit query parameter
func (s *Server) parseLimitParam(r *http.Request) int {
	limitStr := r.URL.Query().Get("limit")
	if limitStr == "" {
		return defaultLimit
	}

	var limit int
	if _, err := fmt.Sscanf(limitStr, "%d", &limit); err != nil {
		return defaultLimit
	}

	if limit <= 0 {
		return defaultLimit
	}

	if limit > maxLimit {
		return maxLimit
	}

	return limit
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode JSON response", "error", err)
	}
}

// writeError writes a JSON error response
func (s *Server) writeError(w http.ResponseWriter, status int, message string, err error) {
	response := ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	}

	if err != nil && s.logger != nil {
		s.logger.Error("API error", "status", status, "message", message, "error", err)
	}

	s.writeJSON(w, status, response)
}
