package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/hiring-desk/internal/decisioncard"
	"github.com/jonathan/hiring-desk/internal/matching"
	"github.com/jonathan/hiring-desk/internal/recruiter"
)

func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	rid, ok := s.recruiterID(w, r)
	if !ok {
		return
	}
	st, err := s.dashboard.State(r.Context(), rid)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, st)
}

func (s *Server) handleSelectJob(w http.ResponseWriter, r *http.Request) {
	rid, ok := s.recruiterID(w, r)
	if !ok {
		return
	}
	var req struct {
		JobID string `json:"job_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	st, err := s.dashboard.SelectJob(r.Context(), rid, req.JobID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, st)
}

func (s *Server) handleApplyOverride(w http.ResponseWriter, r *http.Request) {
	var override matching.JobOverride
	if err := json.NewDecoder(r.Body).Decode(&override); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	s.updateState(w, r, func(st *recruiter.State) error {
		st.ApplyOverride(override)
		return nil
	})
}

func (s *Server) handleSetSort(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SortBy matching.SortKey `json:"sort_by"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	s.updateState(w, r, func(st *recruiter.State) error {
		return st.SetSort(req.SortBy)
	})
}

func (s *Server) handleMoveToInterview(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	s.updateState(w, r, func(st *recruiter.State) error {
		st.MoveToInterview(id)
		return nil
	})
}

func (s *Server) handleReject(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	s.updateState(w, r, func(st *recruiter.State) error {
		st.Reject(id)
		return nil
	})
}

func (s *Server) handleClearDecision(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	s.updateState(w, r, func(st *recruiter.State) error {
		st.ClearDecision(id)
		return nil
	})
}

// updateState applies fn to the caller's stored state and returns the result.
func (s *Server) updateState(w http.ResponseWriter, r *http.Request, fn func(*recruiter.State) error) {
	rid, ok := s.recruiterID(w, r)
	if !ok {
		return
	}
	st, err := s.dashboard.UpdateState(r.Context(), rid, fn)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, st)
}

// handleListCandidates ranks candidates. job_id and sort query parameters
// override the stored state for this request only.
func (s *Server) handleListCandidates(w http.ResponseWriter, r *http.Request) {
	rid, ok := s.recruiterID(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	list, err := s.dashboard.Candidates(r.Context(), rid, recruiter.CandidateQuery{
		JobID: q.Get("job_id"),
		Sort:  matching.SortKey(q.Get("sort")),
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, list)
}

// handleGetCandidate returns the full profile behind a candidate card.
func (s *Server) handleGetCandidate(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathUUID(w, r, "candidate")
	if !ok {
		return
	}
	app, err := s.apps.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, decisioncard.ToProfile(app, resumeURL(id)))
}

func resumeURL(id uuid.UUID) string {
	return "/applications/" + id.String() + "/resume"
}

func (s *Server) handleDashboardMetrics(w http.ResponseWriter, r *http.Request) {
	m, err := s.dashboard.Metrics(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, m)
}
