package ui

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"gomatch/domain/core"
	"gomatch/domain/match"
	"gomatch/domain/response"
	"gomatch/internal/report"
)

type runBatchRequest struct {
	Name string `json:"name"`
	// UserIDs optionally restricts the run to a subset of the cohort
	UserIDs []string `json:"user_ids,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleRunBatch loads the cohort, runs the pipeline synchronously, and
// persists the finished batch
func (s *Server) handleRunBatch(w http.ResponseWriter, r *http.Request) {
	var req runBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body"})
		return
	}
	if req.Name == "" {
		req.Name = "ad-hoc"
	}

	users, err := s.source.LoadRespondents(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	if len(req.UserIDs) > 0 {
		users = filterUsers(users, req.UserIDs)
	}

	ids := make([]core.UserID, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	batch := match.NewBatch(req.Name, ids)
	batch.MarkRunning()

	result, err := s.service.RunMatching(r.Context(), users, s.cat, s.cfg)
	if err != nil {
		batch.MarkFailed(err)
		_ = s.batches.SaveBatch(r.Context(), batch)
		status := http.StatusInternalServerError
		if core.IsInvalidResponse(err) || core.IsInvalidConfig(err) {
			status = http.StatusUnprocessableEntity
		}
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}

	batch.MarkCompleted(result)
	if err := s.batches.SaveBatch(r.Context(), batch); err != nil {
		s.logger.Error("failed to persist batch %s: %v", batch.ID, err)
	}
	writeJSON(w, http.StatusCreated, batch)
}

func (s *Server) handleListBatches(w http.ResponseWriter, r *http.Request) {
	batches, err := s.batches.ListBatches(r.Context(), 50)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, batches)
}

func (s *Server) handleGetBatch(w http.ResponseWriter, r *http.Request) {
	batch, ok := s.loadBatch(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, batch)
}

func (s *Server) handleBatchReport(w http.ResponseWriter, r *http.Request) {
	batch, ok := s.loadBatch(w, r)
	if !ok {
		return
	}
	if batch.Result == nil {
		writeJSON(w, http.StatusConflict, errorResponse{Error: "batch has no result"})
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(report.HTML(batch.Name, batch.Result))
}

// handleValidate checks a set of matches against the assignment invariants
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var matches []match.Match
	if err := json.NewDecoder(r.Body).Decode(&matches); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body"})
		return
	}
	writeJSON(w, http.StatusOK, match.ValidateMatching(matches))
}

func (s *Server) loadBatch(w http.ResponseWriter, r *http.Request) (*match.Batch, bool) {
	id := chi.URLParam(r, "batchID")
	batch, err := s.batches.GetBatch(r.Context(), core.BatchID(id))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "batch not found"})
		} else {
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		}
		return nil, false
	}
	return batch, true
}

func filterUsers(users []response.Respondent, ids []string) []response.Respondent {
	wanted := make(map[core.UserID]bool, len(ids))
	for _, id := range ids {
		wanted[core.UserID(id)] = true
	}
	filtered := make([]response.Respondent, 0, len(ids))
	for _, u := range users {
		if wanted[u.ID] {
			filtered = append(filtered, u)
		}
	}
	return filtered
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
