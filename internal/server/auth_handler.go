package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/jonathan/hiring-desk/internal/server/middleware"
	"github.com/jonathan/hiring-desk/internal/types"
)

// AuthHandler serves the recruiter account endpoints.
type AuthHandler struct {
	recruiters *RecruiterService
	jwtService *JWTService
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(recruiters *RecruiterService, jwtService *JWTService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		recruiters: recruiters,
		jwtService: jwtService,
		validator:  validator.New(),
		logger:     logger,
	}
}

// Register creates an account and returns a token for it.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req types.CreateRecruiterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, h.logger, http.StatusBadRequest, errorBody("Invalid request body"))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeJSON(w, h.logger, http.StatusBadRequest, errorBody(extractValidationErrors(err)))
		return
	}

	rec, err := h.recruiters.Register(r.Context(), &req)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.issue(w, http.StatusCreated, rec)
}

// Login exchanges credentials for a token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req types.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, h.logger, http.StatusBadRequest, errorBody("Invalid request body"))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeJSON(w, h.logger, http.StatusBadRequest, errorBody(extractValidationErrors(err)))
		return
	}

	rec, err := h.recruiters.Login(r.Context(), &req)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.issue(w, http.StatusOK, rec)
}

// Me returns the authenticated recruiter.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	id, err := middleware.GetRecruiterID(r)
	if err != nil {
		writeJSON(w, h.logger, http.StatusUnauthorized, errorBody("Unauthorized"))
		return
	}
	rec, err := h.recruiters.Get(r.Context(), id)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, rec)
}

// UpdatePassword changes the authenticated recruiter's password.
func (h *AuthHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	id, err := middleware.GetRecruiterID(r)
	if err != nil {
		writeJSON(w, h.logger, http.StatusUnauthorized, errorBody("Unauthorized"))
		return
	}

	var req types.UpdatePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, h.logger, http.StatusBadRequest, errorBody("Invalid request body"))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeJSON(w, h.logger, http.StatusBadRequest, errorBody(extractValidationErrors(err)))
		return
	}

	if err := h.recruiters.UpdatePassword(r.Context(), id, req.CurrentPassword, req.NewPassword); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, map[string]string{"message": "Password updated successfully"})
}

func (h *AuthHandler) issue(w http.ResponseWriter, status int, rec *types.Recruiter) {
	token, err := h.jwtService.GenerateToken(rec.ID)
	if err != nil {
		h.logger.Error("failed to generate token", zap.Error(err))
		writeJSON(w, h.logger, http.StatusInternalServerError, errorBody("Failed to generate token"))
		return
	}
	writeJSON(w, h.logger, status, types.LoginResponse{Recruiter: rec, Token: token})
}

func (h *AuthHandler) fail(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("auth request failed", zap.Error(err))
		writeJSON(w, h.logger, status, errorBody("Internal server error"))
		return
	}
	writeJSON(w, h.logger, status, errorBody(err.Error()))
}

// extractValidationErrors formats the first validator failure.
func extractValidationErrors(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return (&ErrValidation{Field: verrs[0].Field(), Message: verrs[0].Tag()}).Error()
	}
	return "validation error: invalid request"
}
