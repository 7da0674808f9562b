package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/hiring-desk/internal/applications"
	"github.com/jonathan/hiring-desk/internal/logging"
	"github.com/jonathan/hiring-desk/internal/resume"
	"github.com/jonathan/hiring-desk/internal/types"
)

// maxUploadBytes bounds an uploaded resume.
const maxUploadBytes = 10 << 20

// parseMultipart parses a multipart body of at most maxUploadBytes plus form fields.
func parseMultipart(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes+1<<20)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return &ErrValidation{Field: "form", Message: "Invalid multipart form"}
	}
	return nil
}

// readUpload returns the file in field, or nil when none was sent.
func readUpload(r *http.Request, field string) (*applications.Upload, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, &ErrValidation{Field: field, Message: "Invalid file upload"}
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if len(data) > maxUploadBytes {
		return nil, &ErrValidation{Field: field, Message: "File is too large"}
	}
	return &applications.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// formInt parses an optional integer form field.
func formInt(r *http.Request, key string) (int, error) {
	v := strings.TrimSpace(r.FormValue(key))
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, &ErrValidation{Field: key, Message: "must be a whole number"}
	}
	return n, nil
}

// pathUUID parses the {id} path value, writing a 400 on failure.
func (s *Server) pathUUID(w http.ResponseWriter, r *http.Request, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid "+label+" ID")
		return uuid.Nil, false
	}
	return id, true
}

// handleCreateApplication accepts the multipart intake form.
func (s *Server) handleCreateApplication(w http.ResponseWriter, r *http.Request) {
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
	if upload == nil {
		upload = &applications.Upload{}
	}

	resp, err := s.apps.Create(r.Context(), &types.ApplicationCreateRequest{
		Name:           r.FormValue("name"),
		Email:          r.FormValue("email"),
		Phone:          r.FormValue("phone"),
		GitHubURL:      r.FormValue("github_url"),
		Focus:          strings.ToLower(strings.TrimSpace(r.FormValue("focus"))),
		Location:       r.FormValue("location"),
		Availability:   strings.TrimSpace(r.FormValue("availability")),
		ExpectedSalary: salary,
	}, *upload)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, resp)
}

// handleAttachMedia records the demo video and deployment for an application.
func (s *Server) handleAttachMedia(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathUUID(w, r, "application")
	if !ok {
		return
	}
	var req types.MediaUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := s.apps.AttachMedia(r.Context(), id, &req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

func (s *Server) handleApplicationStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathUUID(w, r, "application")
	if !ok {
		return
	}
	resp, err := s.apps.Status(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleListApplications returns decision cards, newest first.
func (s *Server) handleListApplications(w http.ResponseWriter, r *http.Request) {
	cards, err := s.apps.Cards(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, cards)
}

func (s *Server) handleGetApplication(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathUUID(w, r, "application")
	if !ok {
		return
	}
	app, err := s.apps.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, app)
}

// handleGetResume streams the stored resume file.
func (s *Server) handleGetResume(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathUUID(w, r, "application")
	if !ok {
		return
	}
	file, err := s.apps.Resume(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}

	name := file.Filename
	if name == "" {
		name = "resume"
	}
	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("inline", map[string]string{"filename": name}))
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(file.Data); err != nil {
		s.logger.Warn("failed to write resume", zap.String(logging.FieldApplicationID, id.String()), zap.Error(err))
	}
}

// handleExtractResume extracts an uploaded PDF without storing anything.
func (s *Server) handleExtractResume(w http.ResponseWriter, r *http.Request) {
	if err := parseMultipart(w, r); err != nil {
		s.writeError(w, err)
		return
	}
	upload, err := readUpload(r, "file")
	if err != nil {
		s.writeError(w, err)
		return
	}
	if upload == nil || len(upload.Data) == 0 {
		s.errorResponse(w, http.StatusBadRequest, "Resume file is required")
		return
	}
	if !strings.EqualFold(filepath.Ext(upload.Filename), ".pdf") {
		s.errorResponse(w, http.StatusBadRequest, "Only PDF files are supported")
		return
	}

	text, err := resume.ExtractText(resume.MimePDF, upload.Data)
	if err != nil {
		s.logger.Info("resume text extraction failed", zap.Error(err))
		s.jsonResponse(w, http.StatusOK, resume.Unparseable())
		return
	}

	extractor := s.extractor
	if extractor == nil {
		extractor = resume.Heuristic{}
	}
	data, err := extractor.Extract(r.Context(), text)
	if err != nil {
		s.logger.Error("resume extraction failed", zap.Error(err))
		s.errorResponse(w, http.StatusBadGateway, "Resume extraction failed")
		return
	}
	s.jsonResponse(w, http.StatusOK, data)
}
