package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/todmy/movement-tracker/internal/confidence"
)

// handleGetPersonEvents returns all movement events for a person, newest first
func (s *Server) handleGetPersonEvents(w http.ResponseWriter, r *http.Request) {
	personID := chi.URLParam(r, "personID")
	if personID == "" {
		respondError(w, http.StatusBadRequest, "person id is required")
		return
	}

	events, err := s.eventRepo.GetByPersonID(r.Context(), personID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to fetch events")
		return
	}

	respondJSON(w, http.StatusOK, events)
}

// handleGetPersonState returns the stored baseline for a person
func (s *Server) handleGetPersonState(w http.ResponseWriter, r *http.Request) {
	personID := chi.URLParam(r, "personID")
	if personID == "" {
		respondError(w, http.StatusBadRequest, "person id is required")
		return
	}

	snapshot, hash, err := s.stateRepo.GetBaseline(r.Context(), personID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to fetch state")
		return
	}
	if hash == "" {
		respondError(w, http.StatusNotFound, "no baseline for person")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"person_id":  personID,
		"state_hash": hash,
		"absent":     snapshot == nil,
		"snapshot":   snapshot,
	})
}

// handleGetRecentEvents returns the most recent movement events
func (s *Server) handleGetRecentEvents(w http.ResponseWriter, r *http.Request) {
	events, err := s.eventRepo.ListRecent(r.Context(), queryLimit(r))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to fetch events")
		return
	}

	respondJSON(w, http.StatusOK, events)
}

// handleGetContradictions returns the most recent contradictions
func (s *Server) handleGetContradictions(w http.ResponseWriter, r *http.Request) {
	contradictions, err := s.contradictionRepo.ListRecent(r.Context(), queryLimit(r))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to fetch contradictions")
		return
	}

	respondJSON(w, http.StatusOK, contradictions)
}

// handleGetConfidenceStats summarizes confidence distributions of recent
// events grouped by movement type
func (s *Server) handleGetConfidenceStats(w http.ResponseWriter, r *http.Request) {
	events, err := s.eventRepo.ListRecent(r.Context(), queryLimit(r))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to fetch events")
		return
	}

	respondJSON(w, http.StatusOK, confidence.Calibrate(events))
}

func queryLimit(r *http.Request) int {
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil && limit > 0 {
			return limit
		}
	}
	return 100
}
