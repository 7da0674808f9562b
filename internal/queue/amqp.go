package queue

import (
	"context"
	"fmt"

	"github.com/streadway/amqp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/hiring-desk/internal/logging"
)

// AMQP publishes and consumes jobs on a durable RabbitMQ queue.
type AMQP struct {
	conn    *amqp.Connection
	queue   string
	workers int
	logger  *zap.Logger
}

// DialAMQP connects to the broker and declares the queue
func DialAMQP(url, queue string, workers int, logger *zap.Logger) (*AMQP, error) {
	if queue == "" {
		queue = DefaultQueue
	}
	if workers < 1 {
		workers = 1
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to dial rabbitmq: %w", err)
	}

	q := &AMQP{conn: conn, queue: queue, workers: workers, logger: logging.Component(logger, "queue")}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()
	if err := q.declare(ch); err != nil {
		conn.Close()
		return nil, err
	}
	return q, nil
}

func (q *AMQP) declare(ch *amqp.Channel) error {
	_, err := ch.QueueDeclare(
		q.queue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}
	return nil
}

// Close closes the broker connection
func (q *AMQP) Close() error {
	return q.conn.Close()
}

// Publish sends a persistent job message
func (q *AMQP) Publish(_ context.Context, job Job) error {
	body, err := encode(job)
	if err != nil {
		return err
	}
	ch, err := q.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	err = ch.Publish(
		"", // default exchange
		q.queue,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish job: %w", err)
	}
	return nil
}

// Run consumes with one channel per worker until ctx is cancelled
func (q *AMQP) Run(ctx context.Context, handle Handler) error {
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < q.workers; i++ {
		worker := i + 1
		g.Go(func() error {
			return q.consume(ctx, worker, handle)
		})
	}
	return g.Wait()
}

func (q *AMQP) consume(ctx context.Context, worker int, handle Handler) error {
	ch, err := q.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	if err := ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("failed to set qos: %w", err)
	}

	msgs, err := ch.Consume(
		q.queue,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to consume: %w", err)
	}

	q.logger.Info("worker started", zap.Int("worker", worker), zap.String("queue", q.queue))
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("delivery channel closed")
			}
			job, err := decode(msg.Body)
			if err != nil {
				q.logger.Warn("dropping malformed job", zap.Int("worker", worker), zap.Error(err))
				_ = msg.Nack(false, false)
				continue
			}
			err = handle(ctx, job)
			observe("amqp", err)
			if err != nil {
				q.logger.Error("job failed",
					zap.Int("worker", worker),
					zap.String(logging.FieldApplicationID, job.ApplicationID.String()),
					zap.Error(err))
				_ = msg.Nack(false, false)
				continue
			}
			_ = msg.Ack(false)
		}
	}
}
