package recruiter

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/hiring-desk/internal/db"
	"github.com/jonathan/hiring-desk/internal/decisioncard"
	"github.com/jonathan/hiring-desk/internal/logging"
	"github.com/jonathan/hiring-desk/internal/matching"
)

// JobStore persists job postings. *db.DB satisfies it.
type JobStore interface {
	CreateJobPosting(ctx context.Context, p *db.JobPosting) error
	GetJobPosting(ctx context.Context, id uuid.UUID) (*db.JobPosting, error)
	GetJobPostingBySlug(ctx context.Context, slug string) (*db.JobPosting, error)
	ListJobPostings(ctx context.Context) ([]db.JobPosting, error)
	DeleteJobPosting(ctx context.Context, id uuid.UUID) (bool, error)
}

// ApplicationLister lists stored applications, newest first
type ApplicationLister interface {
	List(ctx context.Context) ([]db.Application, error)
}

// JobNotFoundError indicates an unknown job id or slug
type JobNotFoundError struct {
	ID string
}

func (e *JobNotFoundError) Error() string {
	return fmt.Sprintf("job posting not found: %s", e.ID)
}

// CandidateQuery overrides the stored state for a single listing.
type CandidateQuery struct {
	JobID string
	Sort  matching.SortKey
}

// RankedCandidate is a scored candidate with the recruiter's decision on them
type RankedCandidate struct {
	matching.ScoredCandidate
	Decision string `json:"decision,omitempty"`
}

// CandidateList is the ranked list for one job
type CandidateList struct {
	Job        matching.JobPosting `json:"job"`
	SortBy     matching.SortKey    `json:"sort_by"`
	Total      int                 `json:"total"`
	Candidates []RankedCandidate   `json:"candidates"`
}

// Service implements the recruiter dashboard
type Service struct {
	jobs   JobStore
	apps   ApplicationLister
	states StateStore
	logger *zap.Logger
}

// NewService creates a dashboard service.
func NewService(jobs JobStore, apps ApplicationLister, states StateStore, logger *zap.Logger) *Service {
	return &Service{
		jobs:   jobs,
		apps:   apps,
		states: states,
		logger: logging.Component(logger, "recruiter"),
	}
}

// CreateJob normalizes, validates and stores a posting.
func (s *Service) CreateJob(ctx context.Context, recruiterID uuid.UUID, form *JobPostingForm) (*db.JobPosting, error) {
	form.Normalize()
	if err := form.Validate(); err != nil {
		return nil, err
	}
	p := form.ToDB(&recruiterID)
	if err := s.jobs.CreateJobPosting(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create job posting: %w", err)
	}
	s.logger.Info("job posting created",
		zap.String(logging.FieldRecruiterID, recruiterID.String()),
		zap.String("job_id", p.ID.String()))
	return p, nil
}

// ListJobs returns every posting.
func (s *Service) ListJobs(ctx context.Context) ([]db.JobPosting, error) {
	jobs, err := s.jobs.ListJobPostings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list job postings: %w", err)
	}
	return jobs, nil
}

// GetJob looks a posting up by uuid or slug.
func (s *Service) GetJob(ctx context.Context, id string) (*db.JobPosting, error) {
	var (
		p   *db.JobPosting
		err error
	)
	if uid, perr := uuid.Parse(id); perr == nil {
		p, err = s.jobs.GetJobPosting(ctx, uid)
	} else {
		p, err = s.jobs.GetJobPostingBySlug(ctx, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job posting: %w", err)
	}
	if p == nil {
		return nil, &JobNotFoundError{ID: id}
	}
	return p, nil
}

// DeleteJob removes a posting.
func (s *Service) DeleteJob(ctx context.Context, id uuid.UUID) error {
	ok, err := s.jobs.DeleteJobPosting(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete job posting: %w", err)
	}
	if !ok {
		return &JobNotFoundError{ID: id.String()}
	}
	return nil
}

// ResolveJob returns the job to rank against. "all" is the no-constraint job.
func (s *Service) ResolveJob(ctx context.Context, id string) (matching.JobPosting, error) {
	if id == "" || id == matching.AllPositionsID {
		return matching.AllPositions(), nil
	}
	p, err := s.GetJob(ctx, id)
	if err != nil {
		return matching.JobPosting{}, err
	}
	return JobFromDB(p), nil
}

// State returns the recruiter's dashboard state.
func (s *Service) State(ctx context.Context, recruiterID uuid.UUID) (*State, error) {
	return s.states.Load(ctx, recruiterID.String())
}

// UpdateState loads the state, applies fn and saves the result.
func (s *Service) UpdateState(ctx context.Context, recruiterID uuid.UUID, fn func(*State) error) (*State, error) {
	st, err := s.states.Load(ctx, recruiterID.String())
	if err != nil {
		return nil, err
	}
	if err := fn(st); err != nil {
		return nil, err
	}
	if err := s.states.Save(ctx, recruiterID.String(), st); err != nil {
		return nil, err
	}
	return st, nil
}

// SelectJob switches the active job after checking it exists.
func (s *Service) SelectJob(ctx context.Context, recruiterID uuid.UUID, jobID string) (*State, error) {
	if _, err := s.ResolveJob(ctx, jobID); err != nil {
		return nil, err
	}
	return s.UpdateState(ctx, recruiterID, func(st *State) error {
		st.SelectJob(jobID)
		return nil
	})
}

// Candidates ranks every application against the active job with its
// overrides applied. A query job other than the selected one is used as stored.
func (s *Service) Candidates(ctx context.Context, recruiterID uuid.UUID, q CandidateQuery) (*CandidateList, error) {
	st, err := s.State(ctx, recruiterID)
	if err != nil {
		return nil, err
	}

	jobID, overrides := st.SelectedJobID, st.Overrides
	if q.JobID != "" && q.JobID != st.SelectedJobID {
		jobID, overrides = q.JobID, matching.JobOverride{}
	}
	sortBy := st.SortBy
	if q.Sort != "" {
		if !q.Sort.Valid() {
			return nil, &InvalidSortError{Key: string(q.Sort)}
		}
		sortBy = q.Sort
	}

	job, err := s.ResolveJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	job = job.Apply(overrides)

	apps, err := s.apps.List(ctx)
	if err != nil {
		return nil, err
	}
	ranked := matching.Rank(job, decisioncard.ToCandidates(apps), sortBy)

	out := make([]RankedCandidate, 0, len(ranked))
	for _, c := range ranked {
		out = append(out, RankedCandidate{ScoredCandidate: c, Decision: st.Decision(c.ID)})
	}
	return &CandidateList{Job: job, SortBy: sortBy, Total: len(apps), Candidates: out}, nil
}

// Metrics summarises every application for the dashboard header.
func (s *Service) Metrics(ctx context.Context) (decisioncard.Metrics, error) {
	apps, err := s.apps.List(ctx)
	if err != nil {
		return decisioncard.Metrics{}, err
	}
	return decisioncard.ComputeMetrics(decisioncard.BuildAll(apps)), nil
}
