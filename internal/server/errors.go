package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/hiring-desk/internal/applications"
	"github.com/jonathan/hiring-desk/internal/recruiter"
	"github.com/jonathan/hiring-desk/internal/wizard"
)

// ErrEmailAlreadyExists indicates email is already registered
type ErrEmailAlreadyExists struct {
	Email string
}

func (e *ErrEmailAlreadyExists) Error() string {
	return fmt.Sprintf("email already registered: %s", e.Email)
}

// ErrInvalidCredentials indicates invalid login credentials
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid email or password"
}

// ErrRecruiterNotFound indicates the authenticated recruiter no longer exists
type ErrRecruiterNotFound struct {
	RecruiterID uuid.UUID
}

func (e *ErrRecruiterNotFound) Error() string {
	return fmt.Sprintf("recruiter not found: %s", e.RecruiterID)
}

// ErrPasswordMismatch indicates current password is incorrect
type ErrPasswordMismatch struct{}

func (e *ErrPasswordMismatch) Error() string {
	return "current password is incorrect"
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	switch err.(type) {
	case *ErrEmailAlreadyExists:
		return http.StatusConflict
	case *ErrInvalidCredentials, *ErrPasswordMismatch:
		return http.StatusUnauthorized
	case *ErrRecruiterNotFound:
		return http.StatusNotFound
	case *ErrValidation:
		return http.StatusBadRequest
	}

	var (
		redirect      *wizard.ErrRedirect
		upstream      *wizard.ErrUpstream
		wizardInvalid *wizard.ValidationErrors
		appNotFound   *applications.NotFoundError
		appInvalid    *applications.ValidationError
		jobNotFound   *recruiter.JobNotFoundError
		formInvalid   *recruiter.ValidationErrors
		badSort       *recruiter.InvalidSortError
	)
	switch {
	case errors.As(err, &redirect):
		return http.StatusSeeOther
	case errors.As(err, &upstream):
		return http.StatusBadGateway
	case errors.As(err, &appNotFound), errors.As(err, &jobNotFound):
		return http.StatusNotFound
	case errors.As(err, &wizardInvalid), errors.As(err, &appInvalid),
		errors.As(err, &formInvalid), errors.As(err, &badSort):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
