// Package middleware authenticates recruiter requests.
package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// ContextKey is a typed key for context values.
type ContextKey string

const recruiterIDKey ContextKey = "recruiterID"

// ErrNoRecruiter is returned when a request carries no authenticated recruiter.
var ErrNoRecruiter = errors.New("recruiter ID not found in request context")

// TokenValidator validates bearer tokens.
type TokenValidator interface {
	ValidateToken(tokenString string) (RecruiterIDGetter, error)
}

// RecruiterIDGetter exposes the subject of validated claims.
type RecruiterIDGetter interface {
	GetRecruiterID() uuid.UUID
}

// AuthMiddleware rejects requests without a valid "Bearer" token and stores
// the recruiter id in the request context.
func AuthMiddleware(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				unauthorized(w)
				return
			}
			claims, err := validator.ValidateToken(token)
			if err != nil {
				unauthorized(w)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithRecruiterID(r.Context(), claims.GetRecruiterID())))
		})
	}
}

// bearerToken parses "Bearer <token>", ignoring the case of the scheme.
func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": "Unauthorized"})
}

// WithRecruiterID returns ctx carrying id.
func WithRecruiterID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, recruiterIDKey, id)
}

// GetRecruiterID returns the authenticated recruiter id.
func GetRecruiterID(r *http.Request) (uuid.UUID, error) {
	id, ok := r.Context().Value(recruiterIDKey).(uuid.UUID)
	if !ok {
		return uuid.Nil, ErrNoRecruiter
	}
	return id, nil
}
