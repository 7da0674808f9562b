package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubValidator map[string]uuid.UUID

func (v stubValidator) ValidateToken(token string) (RecruiterIDGetter, error) {
	id, ok := v[token]
	if !ok {
		return nil, errors.New("invalid token")
	}
	return stubClaims(id), nil
}

type stubClaims uuid.UUID

func (c stubClaims) GetRecruiterID() uuid.UUID { return uuid.UUID(c) }

func TestAuthMiddleware(t *testing.T) {
	id := uuid.New()
	validator := stubValidator{"good-token": id}

	var seen uuid.UUID
	handler := AuthMiddleware(validator)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, err := GetRecruiterID(r)
		require.NoError(t, err)
		seen = got
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "valid", header: "Bearer good-token", want: http.StatusNoContent},
		{name: "lowercase scheme", header: "bearer good-token", want: http.StatusNoContent},
		{name: "missing", header: "", want: http.StatusUnauthorized},
		{name: "no scheme", header: "good-token", want: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic good-token", want: http.StatusUnauthorized},
		{name: "extra parts", header: "Bearer good token", want: http.StatusUnauthorized},
		{name: "unknown token", header: "Bearer nope", want: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = uuid.Nil
			req := httptest.NewRequest(http.MethodGet, "/candidates", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusUnauthorized {
				var body map[string]string
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.Equal(t, "Unauthorized", body["error"])
				assert.Equal(t, uuid.Nil, seen)
			} else {
				assert.Equal(t, id, seen)
			}
		})
	}
}

func TestGetRecruiterID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := GetRecruiterID(req)
	assert.ErrorIs(t, err, ErrNoRecruiter)

	req = req.WithContext(context.WithValue(req.Context(), recruiterIDKey, "not-a-uuid"))
	_, err = GetRecruiterID(req)
	assert.ErrorIs(t, err, ErrNoRecruiter)

	id := uuid.New()
	req = req.WithContext(WithRecruiterID(context.Background(), id))
	got, err := GetRecruiterID(req)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}
