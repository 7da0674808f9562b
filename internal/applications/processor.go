package applications

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/hiring-desk/internal/db"
	"github.com/jonathan/hiring-desk/internal/github"
	"github.com/jonathan/hiring-desk/internal/logging"
	"github.com/jonathan/hiring-desk/internal/queue"
	"github.com/jonathan/hiring-desk/internal/resume"
	"github.com/jonathan/hiring-desk/internal/schemas"
	"github.com/jonathan/hiring-desk/internal/storage"
	"github.com/jonathan/hiring-desk/internal/types"
)

//go:generate mockgen -source=./processor.go -destination=./mocks/github.mock.go -package=applicationsmocks GitHubSource

// GitHubSource collects GitHub signals for an applicant
type GitHubSource interface {
	Signals(ctx context.Context, req github.Request) (*github.Result, error)
}

const (
	defaultAttempts = 3
	defaultBackoff  = 500 * time.Millisecond
)

// Processor runs the background half of intake: resume extraction, GitHub
// analysis and claim verification.
type Processor struct {
	store     Store
	blobs     storage.Blob
	extractor resume.Extractor
	github    GitHubSource
	attempts  int
	backoff   time.Duration
	logger    *zap.Logger
}

// ProcessorOption customizes a Processor
type ProcessorOption func(*Processor)

// WithRetry sets the number of attempts and the base backoff for transient failures.
func WithRetry(attempts int, backoff time.Duration) ProcessorOption {
	return func(p *Processor) {
		if attempts > 0 {
			p.attempts = attempts
		}
		p.backoff = backoff
	}
}

// NewProcessor creates a processor. gh may be nil to skip GitHub analysis.
func NewProcessor(store Store, blobs storage.Blob, extractor resume.Extractor, gh GitHubSource, logger *zap.Logger, opts ...ProcessorOption) *Processor {
	p := &Processor{
		store:     store,
		blobs:     blobs,
		extractor: extractor,
		github:    gh,
		attempts:  defaultAttempts,
		backoff:   defaultBackoff,
		logger:    logging.Component(logger, "processor"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Handle is a queue.Handler. Processing failures are recorded on the
// application; only infrastructure errors are returned so the job is redelivered.
func (p *Processor) Handle(ctx context.Context, job queue.Job) error {
	return p.Process(ctx, job.ApplicationID)
}

// Process runs the full pipeline for one application.
func (p *Processor) Process(ctx context.Context, id uuid.UUID) error {
	log := p.logger.With(zap.String(logging.FieldApplicationID, id.String()))

	app, err := p.store.GetApplication(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load application: %w", err)
	}
	if app == nil {
		log.Warn("application vanished before processing")
		return nil
	}

	start := time.Now()
	data, err := p.extract(ctx, app)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Error("resume processing failed", zap.Error(err))
		data = &types.ResumeData{Error: err.Error()}
		if _, serr := p.store.SetResumeData(ctx, id, data); serr != nil {
			return fmt.Errorf("failed to record resume failure: %w", serr)
		}
		return nil
	}

	status, err := p.store.SetResumeData(ctx, id, data)
	if err != nil {
		return fmt.Errorf("failed to store resume data: %w", err)
	}
	log.Info("resume processed",
		zap.String("status", string(status)),
		zap.Int("built", len(data.Built)),
		zap.Int("skills", len(data.Skills)),
		zap.Duration("elapsed", time.Since(start)))

	if p.github == nil || app.GitHubURL == "" {
		return nil
	}
	return p.analyzeGitHub(ctx, app, data)
}

func (p *Processor) extract(ctx context.Context, app *db.Application) (*types.ResumeData, error) {
	raw, err := retry(ctx, p.attempts, p.backoff, func() ([]byte, error) {
		return p.blobs.Get(ctx, app.ResumeKey)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to download resume: %w", err)
	}

	text, err := resume.ExtractText(app.ResumeKey, raw)
	if err != nil {
		return nil, err
	}

	data, err := retry(ctx, p.attempts, p.backoff, func() (*types.ResumeData, error) {
		return p.extractor.Extract(ctx, text)
	})
	if err != nil {
		return nil, err
	}
	if err := schemas.Validate(schemas.ResumeData, data); err != nil {
		return nil, err
	}
	return data, nil
}

func (p *Processor) analyzeGitHub(ctx context.Context, app *db.Application, data *types.ResumeData) error {
	req := github.Request{
		GitHubURL:       app.GitHubURL,
		Focus:           app.Focus,
		RoleLabel:       data.RoleLabel,
		Built:           data.Built,
		Skills:          data.Skills,
		YearsExperience: data.YearsExperience,
	}
	res, err := p.github.Signals(ctx, req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		p.logger.Warn("github signals failed", zap.String(logging.FieldApplicationID, app.ID.String()), zap.Error(err))
		return nil
	}

	var annotated *types.ResumeData
	if data.OK() {
		annotated = data
		annotated.BuiltVerification = res.Verification
		annotated.SuitabilityPercentage = Suitability(res.Verification, res.Data.ConfidencePercentage)
	}
	if err := p.store.SetGitHubData(ctx, app.ID, res.Data, annotated); err != nil {
		return fmt.Errorf("failed to store github data: %w", err)
	}
	return nil
}

// Suitability is the rounded mean of the positive verification confidences,
// falling back to the analyzer's confidence.
func Suitability(verification []types.BuiltVerification, analyzerConfidence *int) *int {
	sum, n := 0, 0
	for _, v := range verification {
		if v.Confidence > 0 {
			sum += v.Confidence
			n++
		}
	}
	if n > 0 {
		mean := int(math.Floor(float64(sum)/float64(n) + 0.5))
		return &mean
	}
	if analyzerConfidence != nil {
		c := *analyzerConfidence
		return &c
	}
	return nil
}
