package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/jonathan/hiring-desk/internal/wizard"
)

// The applicant session travels as a cookie for browsers and as a header
// for API clients.
const (
	sessionCookie = "applicant_session"
	sessionHeader = "X-Applicant-Session"
)

func sessionID(r *http.Request) string {
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	return strings.TrimSpace(r.Header.Get(sessionHeader))
}

// wizardResponse writes a step result and keeps the session cookie in sync.
func (s *Server) wizardResponse(w http.ResponseWriter, res *wizard.Result) {
	switch {
	case res.Step == wizard.StepSubmitted:
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	case res.SessionID != "":
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    res.SessionID,
			Path:     "/",
			MaxAge:   int(wizard.SessionTTL.Seconds()),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		w.Header().Set(sessionHeader, res.SessionID)
	}
	s.jsonResponse(w, http.StatusOK, res)
}

func (s *Server) handleEnterPersonalStep(w http.ResponseWriter, r *http.Request) {
	res, err := s.wizard.EnterPersonalStep(r.Context(), sessionID(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.wizardResponse(w, res)
}

// handleSubmitPersonalInfo takes the multipart page 1 form.
func (s *Server) handleSubmitPersonalInfo(w http.ResponseWriter, r *http.Request) {
	if err := parseMultipart(w, r); err != nil {
		s.writeError(w, err)
		return
	}
	salary, err := formInt(r, "expected_salary")
	if err != nil {
		s.writeError(w, err)
		return
	}
	upload, err := readUpload(r, "resume")
	if err != nil {
		s.writeError(w, err)
		return
	}

	info := wizard.PersonalInfo{
		FullName:          r.FormValue("full_name"),
		Email:             r.FormValue("email"),
		PhoneNumber:       r.FormValue("phone_number"),
		JobArea:           r.FormValue("job_area"),
		GitHubProjectURLs: r.MultipartForm.Value["github_project_urls"],
		Location:          r.FormValue("location"),
		Availability:      r.FormValue("availability"),
		ExpectedSalary:    salary,
	}
	res, err := s.wizard.SubmitPersonalInfo(r.Context(), sessionID(r), info, upload)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.wizardResponse(w, res)
}

func (s *Server) handleEnterMediaStep(w http.ResponseWriter, r *http.Request) {
	res, err := s.wizard.EnterMediaStep(r.Context(), sessionID(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.wizardResponse(w, res)
}

func (s *Server) handleSubmitMedia(w http.ResponseWriter, r *http.Request) {
	var links wizard.MediaLinks
	if err := json.NewDecoder(r.Body).Decode(&links); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	res, err := s.wizard.SubmitMedia(r.Context(), sessionID(r), links)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.wizardResponse(w, res)
}

func (s *Server) handleEnterVerifyStep(w http.ResponseWriter, r *http.Request) {
	res, err := s.wizard.EnterVerifyStep(r.Context(), sessionID(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.wizardResponse(w, res)
}

// handleSendCode mails a fresh verification code.
func (s *Server) handleSendCode(w http.ResponseWriter, r *http.Request) {
	res, err := s.wizard.SendCode(r.Context(), sessionID(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.wizardResponse(w, res)
}

func (s *Server) handleVerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	res, err := s.wizard.Verify(r.Context(), sessionID(r), strings.TrimSpace(req.Code))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.wizardResponse(w, res)
}
