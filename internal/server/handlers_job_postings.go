package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/hiring-desk/internal/recruiter"
	"github.com/jonathan/hiring-desk/internal/server/middleware"
)

// recruiterID returns the authenticated recruiter, writing a 401 when absent.
func (s *Server) recruiterID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := middleware.GetRecruiterID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return uuid.Nil, false
	}
	return id, true
}

func (s *Server) handleListJobPostings(w http.ResponseWriter, r *http.Request) {
	jobs, err := s.dashboard.ListJobs(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, jobs)
}

// handleCreateJobPosting validates and stores a posting.
func (s *Server) handleCreateJobPosting(w http.ResponseWriter, r *http.Request) {
	rid, ok := s.recruiterID(w, r)
	if !ok {
		return
	}
	var form recruiter.JobPostingForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	posting, err := s.dashboard.CreateJob(r.Context(), rid, &form)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, map[string]any{
		"job_posting": posting,
		"next":        recruiter.NextAfterPosting,
	})
}

// handleGetJobPosting looks a posting up by id or slug.
func (s *Server) handleGetJobPosting(w http.ResponseWriter, r *http.Request) {
	posting, err := s.dashboard.GetJob(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, posting)
}

func (s *Server) handleDeleteJobPosting(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathUUID(w, r, "job posting")
	if !ok {
		return
	}
	if err := s.dashboard.DeleteJob(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
