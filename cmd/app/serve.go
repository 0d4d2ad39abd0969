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

	"freightsim/cmd"
	"freightsim/internal/adapters/out/postgres"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand() *cobra.Command {
	var envFile string

	c := &cobra.Command{
		Use:   "serve",
		Short: "Serve the runs API and the scheduled scenario runs",
		Long: `serve reads its configuration from the environment (optionally from a
dotenv file), migrates the database, starts the HTTP API and, when
SCENARIO_FILE and SCENARIO_CRON are set, re-runs that scenario on schedule.`,
		RunE: func(c *cobra.Command, _ []string) error {
			cfg, err := cmd.LoadConfig(envFile)
			if err != nil {
				return err
			}
			return serve(c.Context(), cfg)
		},
	}
	c.Flags().StringVar(&envFile, "env-file", ".env", "dotenv file to load if present")

	return c
}

func serve(parent context.Context, cfg cmd.Config) error {
	logger, err := cfg.Logger(os.Stderr)
	if err != nil {
		return err
	}

	db, err := postgres.Open(cfg.DB())
	if err != nil {
		return err
	}
	if err = postgres.Migrate(db); err != nil {
		return err
	}

	app := cmd.NewCompositionRoot(cfg, db, logger)

	e, err := app.CreateEcho()
	if err != nil {
		return err
	}

	jobManager, err := app.CreateJobManager()
	if err != nil {
		return err
	}
	if err = jobManager.StartAll(); err != nil {
		return err
	}
	defer jobManager.StopAll()

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.InfoContext(ctx, "http server listening", "port", cfg.HTTPPort)
		if startErr := e.Start(fmt.Sprintf("0.0.0.0:%s", cfg.HTTPPort)); !errors.Is(startErr, http.ErrServerClosed) {
			return startErr
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
