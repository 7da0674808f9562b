// Package applications owns the applicant intake flow: storing the resume,
// recording the application, queueing it for processing and attaching media.
package applications

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/hiring-desk/internal/db"
	"github.com/jonathan/hiring-desk/internal/decisioncard"
	"github.com/jonathan/hiring-desk/internal/fetch"
	"github.com/jonathan/hiring-desk/internal/logging"
	"github.com/jonathan/hiring-desk/internal/queue"
	"github.com/jonathan/hiring-desk/internal/resume"
	"github.com/jonathan/hiring-desk/internal/storage"
	"github.com/jonathan/hiring-desk/internal/types"
)

// Response messages.
const (
	MsgReceived   = "Application received. Processing resume..."
	MsgMediaAdded = "Media added successfully"
)

// Store is the persistence used by the service and the processor. *db.DB
// satisfies it.
type Store interface {
	CreateApplication(ctx context.Context, app *db.Application) error
	GetApplication(ctx context.Context, id uuid.UUID) (*db.Application, error)
	ListApplications(ctx context.Context) ([]db.Application, error)
	UpdateApplicationMedia(ctx context.Context, id uuid.UUID, media *types.MediaUpdateRequest) (types.ApplicationStatus, error)
	SetResumeData(ctx context.Context, id uuid.UUID, data *types.ResumeData) (types.ApplicationStatus, error)
	SetGitHubData(ctx context.Context, id uuid.UUID, gh *types.GitHubData, resume *types.ResumeData) error
	UpdateApplicationStatus(ctx context.Context, id uuid.UUID, status types.ApplicationStatus) error
	MarkEmailVerified(ctx context.Context, id uuid.UUID) (bool, error)
}

// Upload is a submitted resume file
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Service handles intake requests
type Service struct {
	store    Store
	blobs    storage.Blob
	jobs     queue.Publisher
	prober   fetch.Prober
	validate *validator.Validate
	logger   *zap.Logger
}

// NewService creates the intake service. prober may be nil, in which case
// embeddability is only recorded when the applicant states it.
func NewService(store Store, blobs storage.Blob, jobs queue.Publisher, prober fetch.Prober, logger *zap.Logger) *Service {
	return &Service{
		store:    store,
		blobs:    blobs,
		jobs:     jobs,
		prober:   prober,
		validate: types.NewValidator(),
		logger:   logging.Component(logger, "applications"),
	}
}

// Create stores the resume, records the application and queues it for processing.
func (s *Service) Create(ctx context.Context, req *types.ApplicationCreateRequest, file Upload) (*types.ApplicationResponse, error) {
	if err := s.validateStruct(req); err != nil {
		return nil, err
	}
	if len(file.Data) == 0 {
		return nil, &ValidationError{Field: "resume", Message: "Resume file is required"}
	}
	if !strings.EqualFold(filepath.Ext(file.Filename), ".pdf") {
		return nil, &ValidationError{Field: "resume", Message: "Only PDF files are accepted"}
	}

	key := storage.ResumeKey(file.Filename)
	if err := s.blobs.Put(ctx, key, file.Data, resume.MimePDF); err != nil {
		return nil, fmt.Errorf("failed to store resume: %w", err)
	}

	app := &db.Application{
		Name:           strings.TrimSpace(req.Name),
		Email:          strings.TrimSpace(req.Email),
		Phone:          strings.TrimSpace(req.Phone),
		GitHubURL:      strings.TrimSpace(req.GitHubURL),
		Focus:          req.Focus,
		Location:       strings.TrimSpace(req.Location),
		Availability:   req.Availability,
		ExpectedSalary: req.ExpectedSalary,
		ResumeKey:      key,
		ResumeFilename: filepath.Base(file.Filename),
		Status:         types.StatusProcessing,
	}
	if err := s.store.CreateApplication(ctx, app); err != nil {
		return nil, fmt.Errorf("failed to create application: %w", err)
	}

	log := s.logger.With(zap.String(logging.FieldApplicationID, app.ID.String()))
	if err := s.jobs.Publish(ctx, queue.Job{ApplicationID: app.ID}); err != nil {
		log.Error("failed to queue application", zap.Error(err))
		if serr := s.store.UpdateApplicationStatus(ctx, app.ID, types.StatusFailed); serr != nil {
			log.Error("failed to mark application failed", zap.Error(serr))
		}
		return nil, fmt.Errorf("failed to queue application: %w", err)
	}

	log.Info("application received", zap.String("resume_key", key))
	return &types.ApplicationResponse{
		ID:      app.ID.String(),
		Status:  types.StatusProcessing,
		Message: MsgReceived,
	}, nil
}

// AttachMedia records the demo video and deployment. The application becomes
// ready once its resume has been processed without error.
func (s *Service) AttachMedia(ctx context.Context, id uuid.UUID, media *types.MediaUpdateRequest) (*types.ApplicationResponse, error) {
	if err := s.validateStruct(media); err != nil {
		return nil, err
	}
	if _, err := s.get(ctx, id); err != nil {
		return nil, err
	}

	update := *media
	if update.DeployURL == nil || strings.TrimSpace(*update.DeployURL) == "" {
		update.DeployURL = nil
		update.CanViewWithoutLogin = nil
		update.CanEmbed = nil
	} else if update.CanEmbed == nil && s.prober != nil {
		update.CanEmbed = s.probeEmbed(ctx, *update.DeployURL)
	}

	status, err := s.store.UpdateApplicationMedia(ctx, id, &update)
	if err != nil {
		return nil, fmt.Errorf("failed to attach media: %w", err)
	}

	s.logger.Info("media attached",
		zap.String(logging.FieldApplicationID, id.String()),
		zap.String("status", string(status)))
	return &types.ApplicationResponse{ID: id.String(), Status: status, Message: MsgMediaAdded}, nil
}

func (s *Service) probeEmbed(ctx context.Context, url string) *bool {
	res, err := s.prober.Probe(ctx, url)
	if err != nil || res == nil || !res.Reachable {
		s.logger.Debug("deploy url probe inconclusive", zap.String("url", url), zap.Error(err))
		return nil
	}
	return &res.CanEmbed
}

// Status reports processing progress.
func (s *Service) Status(ctx context.Context, id uuid.UUID) (*types.ApplicationStatusResponse, error) {
	app, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &types.ApplicationStatusResponse{
		ID:              app.ID.String(),
		Status:          app.Status,
		ResumeProcessed: app.ResumeData != nil,
		GitHubProcessed: app.GitHubData != nil,
		MediaSubmitted:  app.HasMedia(),
	}, nil
}

// List returns every application, newest first.
func (s *Service) List(ctx context.Context) ([]db.Application, error) {
	apps, err := s.store.ListApplications(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return apps, nil
}

// Cards returns the decision cards for every application, newest first.
func (s *Service) Cards(ctx context.Context) ([]decisioncard.DecisionCard, error) {
	apps, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return decisioncard.BuildAll(apps), nil
}

// Get returns the full application record.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*db.Application, error) {
	return s.get(ctx, id)
}

// Resume returns the stored resume file.
func (s *Service) Resume(ctx context.Context, id uuid.UUID) (*Upload, error) {
	app, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	data, err := s.blobs.Get(ctx, app.ResumeKey)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, &NotFoundError{ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read resume: %w", err)
	}
	return &Upload{Filename: app.ResumeFilename, ContentType: resume.MimeForFilename(app.ResumeKey), Data: data}, nil
}

// MarkEmailVerified flags the applicant's email as confirmed.
func (s *Service) MarkEmailVerified(ctx context.Context, id uuid.UUID) error {
	ok, err := s.store.MarkEmailVerified(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return &NotFoundError{ID: id}
	}
	return nil
}

func (s *Service) get(ctx context.Context, id uuid.UUID) (*db.Application, error) {
	app, err := s.store.GetApplication(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	if app == nil {
		return nil, &NotFoundError{ID: id}
	}
	return app, nil
}

func (s *Service) validateStruct(v any) error {
	if err := s.validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return &ValidationError{Field: verrs[0].Field(), Message: verrs[0].Tag()}
		}
		return &ValidationError{Field: "request", Message: err.Error()}
	}
	return nil
}
