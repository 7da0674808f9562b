package server

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/hiring-desk/internal/db"
	"github.com/jonathan/hiring-desk/internal/types"
)

// memDB is an in-memory stand-in for *db.DB covering applications, job
// postings and recruiters.
type memDB struct {
	mu         sync.Mutex
	apps       map[uuid.UUID]*db.Application
	jobs       map[uuid.UUID]*db.JobPosting
	recruiters map[uuid.UUID]*db.Recruiter
	pingErr    error
	seq        int
}

func newMemDB() *memDB {
	return &memDB{
		apps:       map[uuid.UUID]*db.Application{},
		jobs:       map[uuid.UUID]*db.JobPosting{},
		recruiters: map[uuid.UUID]*db.Recruiter{},
	}
}

func (m *memDB) Ping(context.Context) error {
	return m.pingErr
}

func (m *memDB) stamp() time.Time {
	m.seq++
	return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(m.seq) * time.Second)
}

func (m *memDB) CreateApplication(_ context.Context, app *db.Application) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	app.ID = uuid.New()
	app.CreatedAt = m.stamp()
	app.UpdatedAt = app.CreatedAt
	cp := *app
	m.apps[app.ID] = &cp
	return nil
}

func (m *memDB) GetApplication(_ context.Context, id uuid.UUID) (*db.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	app, ok := m.apps[id]
	if !ok {
		return nil, nil
	}
	cp := *app
	return &cp, nil
}

func (m *memDB) ListApplications(context.Context) ([]db.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]db.Application, 0, len(m.apps))
	for _, app := range m.apps {
		out = append(out, *app)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memDB) UpdateApplicationMedia(_ context.Context, id uuid.UUID, media *types.MediaUpdateRequest) (types.ApplicationStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	app, ok := m.apps[id]
	if !ok {
		return "", errors.New("application not found")
	}
	video := media.VideoURL
	app.VideoURL = &video
	app.DeployURL = media.DeployURL
	app.CanViewWithoutLogin = media.CanViewWithoutLogin
	app.CanEmbed = media.CanEmbed
	if app.Status == types.StatusAwaitingMedia {
		app.Status = types.StatusReady
	}
	return app.Status, nil
}

func (m *memDB) SetResumeData(_ context.Context, id uuid.UUID, data *types.ResumeData) (types.ApplicationStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	app, ok := m.apps[id]
	if !ok {
		return "", errors.New("application not found")
	}
	app.ResumeData = data
	switch {
	case !data.OK():
		app.Status = types.StatusFailed
	case app.HasMedia():
		app.Status = types.StatusReady
	default:
		app.Status = types.StatusAwaitingMedia
	}
	return app.Status, nil
}

func (m *memDB) SetGitHubData(_ context.Context, id uuid.UUID, gh *types.GitHubData, resume *types.ResumeData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.apps[id].GitHubData = gh
	if resume != nil {
		m.apps[id].ResumeData = resume
	}
	return nil
}

func (m *memDB) UpdateApplicationStatus(_ context.Context, id uuid.UUID, status types.ApplicationStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if app, ok := m.apps[id]; ok {
		app.Status = status
	}
	return nil
}

func (m *memDB) MarkEmailVerified(_ context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	app, ok := m.apps[id]
	if !ok {
		return false, nil
	}
	app.EmailVerified = true
	return true, nil
}

func (m *memDB) application(id uuid.UUID) db.Application {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.apps[id]
}

func (m *memDB) CreateJobPosting(_ context.Context, p *db.JobPosting) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = uuid.New()
	p.CreatedAt = m.stamp()
	p.UpdatedAt = p.CreatedAt
	cp := *p
	m.jobs[p.ID] = &cp
	return nil
}

func (m *memDB) GetJobPosting(_ context.Context, id uuid.UUID) (*db.JobPosting, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.jobs[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (m *memDB) GetJobPostingBySlug(_ context.Context, slug string) (*db.JobPosting, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.jobs {
		if p.Slug != nil && *p.Slug == slug {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memDB) ListJobPostings(context.Context) ([]db.JobPosting, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]db.JobPosting, 0, len(m.jobs))
	for _, p := range m.jobs {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memDB) DeleteJobPosting(_ context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.jobs[id]
	delete(m.jobs, id)
	return ok, nil
}

func (m *memDB) CheckEmailExists(_ context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.recruiters {
		if strings.EqualFold(r.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memDB) CreateRecruiter(_ context.Context, name, email, company, passwordHash string) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.stamp()
	r := &db.Recruiter{
		ID:           uuid.New(),
		Name:         name,
		Email:        strings.ToLower(strings.TrimSpace(email)),
		Company:      company,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	m.recruiters[r.ID] = r
	return r.ID, nil
}

func (m *memDB) GetRecruiter(_ context.Context, id uuid.UUID) (*db.Recruiter, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.recruiters[id]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (m *memDB) GetRecruiterByEmail(_ context.Context, email string) (*db.Recruiter, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.recruiters {
		if strings.EqualFold(r.Email, strings.TrimSpace(email)) {
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memDB) UpdatePassword(_ context.Context, id uuid.UUID, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.recruiters[id]
	if !ok {
		return errors.New("recruiter not found")
	}
	r.PasswordHash = passwordHash
	return nil
}

// captureMailer records the last code sent to each address.
type captureMailer struct {
	mu    sync.Mutex
	codes map[string]string
	err   error
}

func (c *captureMailer) SendVerificationCode(_ context.Context, email, code string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	if c.codes == nil {
		c.codes = map[string]string{}
	}
	c.codes[email] = code
	return nil
}

func (c *captureMailer) code(email string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.codes[email]
}
