package applications

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/hiring-desk/internal/db"
	"github.com/jonathan/hiring-desk/internal/fetch"
	"github.com/jonathan/hiring-desk/internal/queue"
	"github.com/jonathan/hiring-desk/internal/storage"
	"github.com/jonathan/hiring-desk/internal/types"
)

type memStore struct {
	mu   sync.Mutex
	apps map[uuid.UUID]*db.Application
	err  error
}

func newMemStore() *memStore {
	return &memStore{apps: map[uuid.UUID]*db.Application{}}
}

func (m *memStore) CreateApplication(_ context.Context, app *db.Application) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	app.ID = uuid.New()
	if app.Status == "" {
		app.Status = types.StatusProcessing
	}
	app.CreatedAt = time.Now().Add(time.Duration(len(m.apps)) * time.Second)
	app.UpdatedAt = app.CreatedAt
	cp := *app
	m.apps[app.ID] = &cp
	return nil
}

func (m *memStore) GetApplication(_ context.Context, id uuid.UUID) (*db.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	app, ok := m.apps[id]
	if !ok {
		return nil, nil
	}
	cp := *app
	return &cp, nil
}

func (m *memStore) ListApplications(_ context.Context) ([]db.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []db.Application{}
	for _, app := range m.apps {
		out = append(out, *app)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memStore) UpdateApplicationMedia(_ context.Context, id uuid.UUID, media *types.MediaUpdateRequest) (types.ApplicationStatus, error) {
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

func (m *memStore) SetResumeData(_ context.Context, id uuid.UUID, data *types.ResumeData) (types.ApplicationStatus, error) {
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

func (m *memStore) SetGitHubData(_ context.Context, id uuid.UUID, gh *types.GitHubData, resume *types.ResumeData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	app := m.apps[id]
	app.GitHubData = gh
	if resume != nil {
		app.ResumeData = resume
	}
	return nil
}

func (m *memStore) UpdateApplicationStatus(_ context.Context, id uuid.UUID, status types.ApplicationStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.apps[id].Status = status
	return nil
}

func (m *memStore) MarkEmailVerified(_ context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	app, ok := m.apps[id]
	if !ok {
		return false, nil
	}
	app.EmailVerified = true
	return true, nil
}

func (m *memStore) put(app db.Application) uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()
	if app.ID == uuid.Nil {
		app.ID = uuid.New()
	}
	m.apps[app.ID] = &app
	return app.ID
}

type memBlob struct {
	mu       sync.Mutex
	data     map[string][]byte
	failGets int
	gets     int
}

func newMemBlob() *memBlob {
	return &memBlob{data: map[string][]byte{}}
}

func (b *memBlob) Put(_ context.Context, key string, data []byte, _ string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data[key] = data
	return nil
}

func (b *memBlob) Get(_ context.Context, key string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.gets++
	if b.gets <= b.failGets {
		return nil, errors.New("temporary outage")
	}
	d, ok := b.data[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return d, nil
}

type recordingPublisher struct {
	jobs []queue.Job
	err  error
}

func (p *recordingPublisher) Publish(_ context.Context, job queue.Job) error {
	if p.err != nil {
		return p.err
	}
	p.jobs = append(p.jobs, job)
	return nil
}

type stubProber struct {
	result *fetch.ProbeResult
	calls  int
}

func (p *stubProber) Probe(_ context.Context, url string) (*fetch.ProbeResult, error) {
	p.calls++
	r := *p.result
	r.URL = url
	return &r, nil
}

type stubExtractor struct {
	data   *types.ResumeData
	fails  int
	calls  int
	texts  []string
	during func()
}

func (e *stubExtractor) Extract(_ context.Context, text string) (*types.ResumeData, error) {
	e.calls++
	e.texts = append(e.texts, text)
	if e.during != nil {
		e.during()
	}
	if e.calls <= e.fails {
		return nil, errors.New("model overloaded")
	}
	cp := *e.data
	return &cp, nil
}
