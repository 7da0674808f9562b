package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/hiring-desk/internal/applications"
	"github.com/jonathan/hiring-desk/internal/fetch"
	"github.com/jonathan/hiring-desk/internal/queue"
	"github.com/jonathan/hiring-desk/internal/recruiter"
	"github.com/jonathan/hiring-desk/internal/server"
	"github.com/jonathan/hiring-desk/internal/server/ratelimit"
	"github.com/jonathan/hiring-desk/internal/wizard"
)

// localQueueBuffer is the number of jobs the in-process queue holds before
// Publish blocks.
const localQueueBuffer = 256

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start the HTTP server for applicant intake and the recruiter dashboard.

Applications are queued on AMQP_URL when it is set; otherwise they are processed
by workers inside this process.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().Int("port", 8080, "Port to listen on")
	_ = v.BindPFlag("port", serveCmd.Flags().Lookup("port"))
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	e, err := setup(ctx)
	if err != nil {
		return err
	}
	defer e.close()

	jwtCfg, err := e.cfg.JWT()
	if err != nil {
		return err
	}
	pwCfg, err := e.cfg.Password()
	if err != nil {
		return err
	}

	blobs, err := e.blobs(ctx)
	if err != nil {
		return err
	}
	client, err := e.llmClient(ctx)
	if err != nil {
		return err
	}
	if client != nil {
		defer func() { _ = client.Close() }()
	}
	extractor := e.extractor(client)

	sessions, states, closeStores, err := e.sessionStores(ctx)
	if err != nil {
		return err
	}
	defer closeStores()

	g, ctx := errgroup.WithContext(ctx)

	var jobs queue.Publisher
	if url := e.cfg.AMQP.URL; url != "" {
		q, err := queue.DialAMQP(url, e.cfg.AMQP.Queue, e.cfg.AMQP.Workers, e.logger)
		if err != nil {
			return err
		}
		defer func() { _ = q.Close() }()
		jobs = q
		e.logger.Info("publishing applications to AMQP", zap.String("queue", e.cfg.AMQP.Queue))
	} else {
		local := queue.NewLocal(localQueueBuffer, max(e.cfg.AMQP.Workers, 1), e.logger)
		proc := applications.NewProcessor(e.db, blobs, extractor, e.github(client), e.logger)
		g.Go(func() error { return local.Run(ctx, proc.Handle) })
		jobs = local
		e.logger.Info("processing applications in-process", zap.Int("workers", max(e.cfg.AMQP.Workers, 1)))
	}

	apps := applications.NewService(e.db, blobs, jobs, &fetch.HTTPProber{}, e.logger)
	srv := server.New(server.Config{
		Port:        e.cfg.Port,
		FrontendURL: e.cfg.FrontendURL,
	}, server.Deps{
		DB:           e.db,
		Recruiters:   e.db,
		Applications: apps,
		Wizard:       wizard.NewService(sessions, apps, wizard.NewLogMailer(e.logger), e.logger),
		Dashboard:    recruiter.NewService(e.db, apps, states, e.logger),
		Extractor:    extractor,
		JWT:          jwtCfg,
		Password:     pwCfg,
		RateLimit:    ratelimit.LoadConfig(),
		Logger:       e.logger,
	})

	g.Go(func() error { return srv.Start(ctx) })
	return g.Wait()
}
