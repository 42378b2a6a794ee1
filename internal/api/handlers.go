package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/todmy/crisis-risk/internal/auth"
	"github.com/todmy/crisis-risk/internal/crisis"
)

const maxHistoryLimit = 100

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":            "ok",
		"algorithm_version": crisis.AlgorithmVersion,
	})
}

func (s *Server) handleAssess(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.UserFromContext(r.Context())

	days, ok := intQuery(w, r, "days")
	if !ok {
		return
	}

	res, err := s.assessment.Assess(r.Context(), claims.UserID, days)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, res)
}

func (s *Server) handleLatest(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.UserFromContext(r.Context())

	p, err := s.assessment.Latest(r.Context(), claims.UserID)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, p)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.UserFromContext(r.Context())

	limit, ok := intQuery(w, r, "limit")
	if !ok {
		return
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	predictions, err := s.assessment.History(r.Context(), claims.UserID, limit)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	if predictions == nil {
		predictions = []*crisis.Prediction{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"predictions": predictions,
		"count":       len(predictions),
	})
}

type previewRequest struct {
	crisis.Input
	Config *crisis.ConfigDiff `json:"config,omitempty"`
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.UserFromContext(r.Context())

	var req previewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// Previews are always scored as the caller
	req.UserID = claims.UserID

	p, err := s.assessment.Preview(req.Input, req.Config)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, p)
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"algorithm_version": crisis.AlgorithmVersion,
		"config":            s.assessment.Engine().Config(),
		"interventions":     crisis.Catalog(),
	})
}

// intQuery reads an optional non-negative integer query parameter
func intQuery(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, true
	}

	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		respondError(w, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return v, true
}
