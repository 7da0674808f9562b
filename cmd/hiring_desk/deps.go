package main

import (
	"context"
	"fmt"

	eredis "github.com/ecodeclub/ecache/redis"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/jonathan/hiring-desk/internal/applications"
	"github.com/jonathan/hiring-desk/internal/config"
	"github.com/jonathan/hiring-desk/internal/db"
	"github.com/jonathan/hiring-desk/internal/github"
	"github.com/jonathan/hiring-desk/internal/llm"
	"github.com/jonathan/hiring-desk/internal/logging"
	"github.com/jonathan/hiring-desk/internal/recruiter"
	"github.com/jonathan/hiring-desk/internal/resume"
	"github.com/jonathan/hiring-desk/internal/storage"
	"github.com/jonathan/hiring-desk/internal/wizard"
)

// logOutput is where setup points the logger.
var logOutput = "stdout"

// env is what every database-backed command needs.
type env struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *db.DB
}

// setup loads configuration, builds the logger and connects to Postgres.
func setup(ctx context.Context) (*env, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := logging.NewTo(logOutput, cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		return nil, fmt.Errorf("creating a logger: %w", err)
	}
	if err := cfg.RequireDatabase(); err != nil {
		return nil, err
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := database.EnsureSchema(ctx); err != nil {
		database.Close()
		return nil, err
	}
	return &env{cfg: cfg, logger: logger, db: database}, nil
}

func (e *env) close() {
	e.db.Close()
	_ = e.logger.Sync()
}

func (e *env) blobs(ctx context.Context) (storage.Blob, error) {
	s := e.cfg.Storage
	blobs, err := storage.New(ctx, storage.Config{
		Bucket:    s.Bucket,
		Endpoint:  s.Endpoint,
		Region:    s.Region,
		AccessKey: s.AccessKey,
		SecretKey: s.SecretKey,
		Dir:       s.UploadDir,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set up resume storage: %w", err)
	}
	return blobs, nil
}

// llmClient returns nil, nil when no API key is configured.
func (e *env) llmClient(ctx context.Context) (llm.Client, error) {
	key := e.cfg.LLM.APIKey()
	if key == "" {
		e.logger.Warn("no LLM API key configured; using heuristic resume extraction",
			zap.String("provider", e.cfg.LLM.Provider))
		return nil, nil
	}
	client, err := llm.NewClient(ctx, llm.ConfigFor(e.cfg.LLM.Provider, e.cfg.LLM.OpenAIModel), key)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	return client, nil
}

func (e *env) extractor(client llm.Client) resume.Extractor {
	if client == nil {
		return resume.Heuristic{}
	}
	return resume.NewLLMExtractor(client, e.logger)
}

func (e *env) github(client llm.Client) *github.Service {
	return github.NewService(
		github.NewClient("", e.cfg.GitHub.Token, e.logger),
		github.NewAnalyzer(e.cfg.GitHub.AnalyzerURL, e.logger),
		github.NewVerifier(client, e.logger),
		e.logger,
	)
}

// processor wires the background pipeline for one process.
func (e *env) processor(ctx context.Context) (*applications.Processor, func(), error) {
	blobs, err := e.blobs(ctx)
	if err != nil {
		return nil, nil, err
	}
	client, err := e.llmClient(ctx)
	if err != nil {
		return nil, nil, err
	}
	closeClient := func() {
		if client != nil {
			_ = client.Close()
		}
	}
	return applications.NewProcessor(e.db, blobs, e.extractor(client), e.github(client), e.logger), closeClient, nil
}

// sessionStores returns Redis-backed stores when REDIS_ADDR is set and
// in-memory ones otherwise.
func (e *env) sessionStores(ctx context.Context) (wizard.Store, recruiter.StateStore, func(), error) {
	r := e.cfg.Redis
	if r.Addr == "" {
		e.logger.Warn("REDIS_ADDR not set; wizard sessions and recruiter state are kept in memory")
		return wizard.NewMemoryStore(), recruiter.NewMemoryStore(), func() {}, nil
	}

	client := redis.NewClient(&redis.Options{Addr: r.Addr, Password: r.Password, DB: r.DB})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	cache := eredis.NewCache(client)
	return wizard.NewCacheStore(cache), recruiter.NewCacheStore(cache), func() { _ = client.Close() }, nil
}
