// Package server provides the HTTP REST API for applicant intake and the
// recruiter dashboard.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/jonathan/hiring-desk/internal/applications"
	"github.com/jonathan/hiring-desk/internal/config"
	"github.com/jonathan/hiring-desk/internal/logging"
	"github.com/jonathan/hiring-desk/internal/recruiter"
	"github.com/jonathan/hiring-desk/internal/resume"
	"github.com/jonathan/hiring-desk/internal/server/middleware"
	"github.com/jonathan/hiring-desk/internal/server/ratelimit"
	"github.com/jonathan/hiring-desk/internal/wizard"
)

// devOrigins are always allowed alongside FRONTEND_URL.
var devOrigins = []string{"http://localhost:3000", "http://localhost:3001"}

// Pinger reports database health. *db.DB satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Config holds server configuration
type Config struct {
	Port        int
	FrontendURL string
}

// Deps are the services the handlers call.
type Deps struct {
	DB           Pinger
	Recruiters   RecruiterStore
	Applications *applications.Service
	Wizard       *wizard.Service
	Dashboard    *recruiter.Service
	Extractor    resume.Extractor
	JWT          *config.JWTConfig
	Password     *config.PasswordConfig
	RateLimit    *ratelimit.Config
	Logger       *zap.Logger
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	db          Pinger
	apps        *applications.Service
	wizard      *wizard.Service
	dashboard   *recruiter.Service
	extractor   resume.Extractor
	jwtService  *JWTService
	authHandler *AuthHandler
	rateLimiter *ratelimit.Limiter
	origins     map[string]bool
	logger      *zap.Logger
}

// New creates a server and registers every route.
func New(cfg Config, deps Deps) *Server {
	logger := logging.Component(deps.Logger, "server")
	jwtService := NewJWTService(deps.JWT)

	s := &Server{
		db:          deps.DB,
		apps:        deps.Applications,
		wizard:      deps.Wizard,
		dashboard:   deps.Dashboard,
		extractor:   deps.Extractor,
		jwtService:  jwtService,
		authHandler: NewAuthHandler(NewRecruiterService(deps.Recruiters, deps.Password), jwtService, logger),
		rateLimiter: ratelimit.NewLimiter(deps.RateLimit),
		logger:      logger,
	}
	if cfg.FrontendURL != "" {
		s.origins = map[string]bool{strings.TrimRight(cfg.FrontendURL, "/"): true}
		for _, o := range devOrigins {
			s.origins[o] = true
		}
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withRateLimit(s.withMetrics(s.withLogging(s.withCORS(s.routes())))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.AuthMiddleware(s.jwtService.AsTokenValidator())
	protected := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, auth(h))
	}

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	// Applicant intake
	mux.HandleFunc("POST /applications", s.handleCreateApplication)
	mux.HandleFunc("POST /applications/{$}", s.handleCreateApplication)
	mux.HandleFunc("PATCH /applications/{id}/media", s.handleAttachMedia)
	mux.HandleFunc("GET /applications/{id}/status", s.handleApplicationStatus)
	mux.HandleFunc("POST /resume/extract", s.handleExtractResume)

	// Applicant wizard
	mux.HandleFunc("GET /applicant/page_1", s.handleEnterPersonalStep)
	mux.HandleFunc("POST /applicant/page_1", s.handleSubmitPersonalInfo)
	mux.HandleFunc("GET /applicant/page_2", s.handleEnterMediaStep)
	mux.HandleFunc("POST /applicant/page_2", s.handleSubmitMedia)
	mux.HandleFunc("GET /applicant/verify_email", s.handleEnterVerifyStep)
	mux.HandleFunc("POST /applicant/verify_email/code", s.handleSendCode)
	mux.HandleFunc("POST /applicant/verify_email", s.handleVerifyEmail)

	// Recruiter accounts
	mux.HandleFunc("POST /auth/register", s.authHandler.Register)
	mux.HandleFunc("POST /auth/login", s.authHandler.Login)
	protected("GET /auth/me", s.authHandler.Me)
	protected("PUT /auth/password", s.authHandler.UpdatePassword)

	// Recruiter views of applications
	protected("GET /applications", s.handleListApplications)
	protected("GET /applications/{$}", s.handleListApplications)
	protected("GET /applications/{id}", s.handleGetApplication)
	protected("GET /applications/{id}/resume", s.handleGetResume)

	// Job postings
	protected("GET /job-postings", s.handleListJobPostings)
	protected("POST /job-postings", s.handleCreateJobPosting)
	protected("GET /job-postings/{id}", s.handleGetJobPosting)
	protected("DELETE /job-postings/{id}", s.handleDeleteJobPosting)

	// Dashboard
	protected("GET /recruiter/state", s.handleGetState)
	protected("PUT /recruiter/state/job", s.handleSelectJob)
	protected("PATCH /recruiter/state/overrides", s.handleApplyOverride)
	protected("PUT /recruiter/state/sort", s.handleSetSort)
	protected("POST /recruiter/state/interview/{id}", s.handleMoveToInterview)
	protected("POST /recruiter/state/reject/{id}", s.handleReject)
	protected("DELETE /recruiter/state/decisions/{id}", s.handleClearDecision)
	protected("GET /candidates", s.handleListCandidates)
	protected("GET /candidates/{id}", s.handleGetCandidate)
	protected("GET /dashboard/metrics", s.handleDashboardMetrics)

	return mux
}

// Handler returns the root handler with all middleware applied.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		s.rateLimiter.Stop()
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	defer s.rateLimiter.Stop()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

// withCORS allows FRONTEND_URL and the local dev origins with credentials, or
// any origin without credentials when FRONTEND_URL is unset.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		if s.origins == nil {
			h.Set("Access-Control-Allow-Origin", "*")
		} else if origin := r.Header.Get("Origin"); s.origins[origin] {
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Add("Vary", "Origin")
		}
		h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, "+sessionHeader)
		h.Set("Access-Control-Expose-Headers", sessionHeader+", Location")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(s.extractClientID(r), r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withLogging logs each request once it completes.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := recordStatus(w)
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
			zap.String("remote", r.RemoteAddr))
	})
}

// handleHealth reports service and database status.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	database := "disconnected"
	if s.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.db.Ping(ctx); err == nil {
			database = "connected"
		} else {
			s.logger.Warn("database ping failed", zap.Error(err))
		}
	}
	status := "healthy"
	if database != "connected" {
		status = "degraded"
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{
		"status":   status,
		"database": database,
		"service":  config.AppName,
	})
}

func errorBody(message string) map[string]any {
	return map[string]any{"error": message}
}

func writeJSON(w http.ResponseWriter, logger *zap.Logger, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Warn("failed to encode JSON response", zap.Error(err))
	}
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	writeJSON(w, s.logger, status, data)
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, errorBody(message))
}

// writeError maps a service error onto a response. Validation failures carry
// their field messages; wizard redirects become 303s.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)

	var (
		redirect      *wizard.ErrRedirect
		upstream      *wizard.ErrUpstream
		wizardInvalid *wizard.ValidationErrors
		formInvalid   *recruiter.ValidationErrors
	)
	switch {
	case errors.As(err, &redirect):
		w.Header().Set("Location", redirect.Location)
		s.jsonResponse(w, status, map[string]any{"redirect": redirect.Location})
	case errors.As(err, &upstream):
		s.logger.Error("upstream failure", zap.Error(err))
		body := errorBody("Failed to submit application. Please try again.")
		if upstream.Values != nil {
			body["values"] = upstream.Values
		}
		s.jsonResponse(w, status, body)
	case errors.As(err, &wizardInvalid):
		body := errorBody("Please correct the highlighted fields")
		body["fields"] = wizardInvalid.Fields
		if wizardInvalid.Values != nil {
			body["values"] = wizardInvalid.Values
		}
		s.jsonResponse(w, status, body)
	case errors.As(err, &formInvalid):
		body := errorBody(formInvalid.Error())
		body["fields"] = formInvalid.Fields
		s.jsonResponse(w, status, body)
	case status == http.StatusInternalServerError:
		s.logger.Error("request failed", zap.Error(err))
		s.errorResponse(w, status, "Internal server error")
	default:
		s.errorResponse(w, status, err.Error())
	}
}

// extractClientID uses the IP from RemoteAddr. X-Forwarded-For is not trusted.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}
	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Seconds())
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", fmt.Sprintf("%d", seconds))
	}

	s.logger.Warn("rate limit exceeded",
		zap.Int("limit", info.Limit),
		zap.Time("reset", info.ResetTime))
	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
