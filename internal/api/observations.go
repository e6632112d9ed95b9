package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/todmy/movement-tracker/internal/pipeline"
	"github.com/todmy/movement-tracker/pkg/models"
)

// ObservationRequest is one observed snapshot of a person. Absent marks
// a person who disappeared from the source dataset; when set, all other
// fields are ignored.
type ObservationRequest struct {
	PersonID    string `json:"person_id"`
	Absent      bool   `json:"absent"`
	FullName    string `json:"full_name"`
	Title       string `json:"title"`
	CompanyName string `json:"company_name"`
	CompanyID   string `json:"company_id"`
	LinkedInURL string `json:"linkedin_url"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	UpdatedAt   string `json:"updated_at"`
	DataSource  string `json:"data_source"`
}

// BatchRequest is a set of observations processed in one call
type BatchRequest struct {
	Observations []ObservationRequest `json:"observations"`
}

// toSnapshot converts the request into a snapshot. Malformed dates are
// treated as missing rather than rejected: upstream vendor feeds are
// dirty and a bad date must not drop the whole observation.
func (req *ObservationRequest) toSnapshot(personID string) *models.PersonSnapshot {
	if req.Absent {
		return nil
	}

	snapshot := &models.PersonSnapshot{
		PersonID:    personID,
		FullName:    req.FullName,
		Title:       req.Title,
		CompanyName: req.CompanyName,
		CompanyID:   req.CompanyID,
		LinkedInURL: req.LinkedInURL,
		DataSource:  req.DataSource,
		StartDate:   parseDate(req.StartDate),
		EndDate:     parseDate(req.EndDate),
	}
	if t, err := time.Parse(time.RFC3339, req.UpdatedAt); err == nil {
		snapshot.UpdatedAt = t
	}
	return snapshot
}

func parseDate(value string) *time.Time {
	if value == "" {
		return nil
	}
	t, err := time.Parse(models.DateLayout, value)
	if err != nil {
		return nil
	}
	return &t
}

// handleProcessObservation runs the detection pipeline for one person
func (s *Server) handleProcessObservation(w http.ResponseWriter, r *http.Request) {
	personID := chi.URLParam(r, "personID")
	if personID == "" {
		respondError(w, http.StatusBadRequest, "person id is required")
		return
	}

	var req ObservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	outcome, err := s.pipeline.Process(r.Context(), personID, req.toSnapshot(personID))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to process observation")
		return
	}

	respondJSON(w, http.StatusOK, outcome)
}

// BatchResultResponse is the per-person outcome of a batch run
type BatchResultResponse struct {
	PersonID string            `json:"person_id"`
	Outcome  *pipeline.Outcome `json:"outcome,omitempty"`
	Error    string            `json:"error,omitempty"`
}

// handleProcessBatch runs the detection pipeline over a batch of
// observations with bounded concurrency
func (s *Server) handleProcessBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if len(req.Observations) == 0 {
		respondError(w, http.StatusBadRequest, "observations are required")
		return
	}

	observations := make([]pipeline.Observation, 0, len(req.Observations))
	for _, obs := range req.Observations {
		if obs.PersonID == "" {
			respondError(w, http.StatusBadRequest, "person_id is required for every observation")
			return
		}
		observations = append(observations, pipeline.Observation{
			PersonID: obs.PersonID,
			Snapshot: obs.toSnapshot(obs.PersonID),
		})
	}

	results := s.pipeline.ProcessBatch(r.Context(), observations, s.maxConcurrent)

	response := make([]BatchResultResponse, 0, len(results))
	for _, result := range results {
		item := BatchResultResponse{PersonID: result.PersonID, Outcome: result.Outcome}
		if result.Err != nil {
			item.Error = result.Err.Error()
		}
		response = append(response, item)
	}

	respondJSON(w, http.StatusOK, response)
}
