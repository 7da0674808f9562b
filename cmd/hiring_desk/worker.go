package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/hiring-desk/internal/queue"
)

var workerMetricsPort int

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Consume queued applications and build their resume data",
	Long: `Run the background application pipeline against the AMQP queue named by
AMQP_QUEUE. Each job extracts the uploaded resume, scores the applicant and
analyses their GitHub projects.`,
	RunE: runWorker,
}

func init() {
	workerCmd.Flags().IntVar(&workerMetricsPort, "metrics-port", 0, "Serve Prometheus metrics on this port (0 disables)")
	rootCmd.AddCommand(workerCmd)
}

func runWorker(_ *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	e, err := setup(ctx)
	if err != nil {
		return err
	}
	defer e.close()

	amqpCfg := e.cfg.AMQP
	if amqpCfg.URL == "" {
		return errors.New("AMQP_URL is required to run a standalone worker")
	}

	proc, closeProc, err := e.processor(ctx)
	if err != nil {
		return err
	}
	defer closeProc()

	q, err := queue.DialAMQP(amqpCfg.URL, amqpCfg.Queue, max(amqpCfg.Workers, 1), e.logger)
	if err != nil {
		return err
	}
	defer func() { _ = q.Close() }()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return q.Run(ctx, proc.Handle) })

	if workerMetricsPort > 0 {
		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", workerMetricsPort),
			Handler:           promhttp.Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			e.logger.Info("serving worker metrics", zap.Int("port", workerMetricsPort))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	e.logger.Info("worker running",
		zap.String("queue", amqpCfg.Queue),
		zap.Int("workers", max(amqpCfg.Workers, 1)))
	return g.Wait()
}
