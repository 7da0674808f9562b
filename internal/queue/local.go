package queue

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/hiring-desk/internal/logging"
)

// Local is an in-process queue used when no broker is configured.
type Local struct {
	jobs    chan Job
	workers int
	logger  *zap.Logger
}

// NewLocal creates an in-process queue with the given buffer and worker count
func NewLocal(buffer, workers int, logger *zap.Logger) *Local {
	if workers < 1 {
		workers = 1
	}
	return &Local{
		jobs:    make(chan Job, buffer),
		workers: workers,
		logger:  logging.Component(logger, "queue"),
	}
}

// Publish enqueues a job, blocking while the buffer is full
func (q *Local) Publish(ctx context.Context, job Job) error {
	select {
	case q.jobs <- job:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("failed to publish job: %w", ctx.Err())
	}
}

// Run starts the workers and blocks until ctx is cancelled
func (q *Local) Run(ctx context.Context, handle Handler) error {
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < q.workers; i++ {
		worker := i + 1
		g.Go(func() error {
			for {
				select {
				case <-ctx.Done():
					return nil
				case job := <-q.jobs:
					err := handle(ctx, job)
					observe("local", err)
					if err != nil {
						q.logger.Error("job failed",
							zap.Int("worker", worker),
							zap.String(logging.FieldApplicationID, job.ApplicationID.String()),
							zap.Error(err))
					}
				}
			}
		})
	}
	return g.Wait()
}
