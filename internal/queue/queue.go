// Package queue carries ProcessApplication jobs from the intake API to the
// background workers, over RabbitMQ or an in-process channel.
package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DefaultQueue is the queue name used when none is configured
const DefaultQueue = "applications"

// Job asks a worker to process one application
type Job struct {
	ApplicationID uuid.UUID `json:"application_id"`
}

// Handler processes a single job
type Handler func(ctx context.Context, job Job) error

// Publisher enqueues jobs
type Publisher interface {
	Publish(ctx context.Context, job Job) error
}

// Consumer delivers jobs to a handler until ctx is cancelled
type Consumer interface {
	Run(ctx context.Context, handle Handler) error
}

var jobsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "hiring_desk_jobs_total",
		Help: "Jobs handled by workers, by result",
	},
	[]string{"backend", "result"},
)

func observe(backend string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	jobsTotal.WithLabelValues(backend, result).Inc()
}

func encode(job Job) ([]byte, error) {
	body, err := json.Marshal(job)
	if err != nil {
		return nil, fmt.Errorf("failed to encode job: %w", err)
	}
	return body, nil
}

func decode(body []byte) (Job, error) {
	var job Job
	if err := json.Unmarshal(body, &job); err != nil {
		return Job{}, fmt.Errorf("failed to decode job: %w", err)
	}
	if job.ApplicationID == uuid.Nil {
		return Job{}, fmt.Errorf("job has no application id")
	}
	return job, nil
}
