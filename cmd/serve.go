package main

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/UnknownOlympus/compass/internal/api"
	"github.com/UnknownOlympus/compass/internal/repository"
	"github.com/UnknownOlympus/compass/internal/service"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and, when a database is configured, the geocoding worker",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			app, err := newApp(ctx, os.Stdout)
			if err != nil {
				return err
			}
			defer app.close(ctx)

			var (
				db  api.Pinger
				wgr sync.WaitGroup
			)

			if app.cfg.Database.Enabled() {
				pool, errDB := repository.NewDatabase(ctx,
					app.cfg.Database.Host, app.cfg.Database.Port, app.cfg.Database.User,
					app.cfg.Database.Password, app.cfg.Database.Name,
				)
				if errDB != nil {
					return fmt.Errorf("failed to connect to DB: %w", errDB)
				}
				defer pool.Close()
				db = pool

				repo := repository.NewRepository(pool, app.log)
				if errDB = repo.EnsureSchema(ctx); errDB != nil {
					return errDB
				}

				geoService := service.NewGeocodingService(
					app.log,
					repo,
					app.resolver,
					app.metrics,
					app.cfg.Workers,
					app.cfg.Interval,
					app.cfg.BatchSize,
					app.cfg.QueryPrefix,
				)

				wgr.Add(1)
				go func() {
					defer wgr.Done()
					geoService.Run(ctx)
				}()
			} else {
				app.log.WarnContext(ctx, "DB_HOST is not set, the geocoding worker is disabled")
			}

			app.log.InfoContext(ctx, "Application started. Press Ctrl+C to stop.")

			server := api.NewServer(app.log, app.resolver, app.resolver.Providers(), db, app.registry)
			err = server.ListenAndServe(ctx, app.cfg.Port)

			// Stop the worker as well when the server fails on its own.
			cancel()
			wgr.Wait()
			app.log.InfoContext(ctx, "Application stopped gracefully.")

			return err
		},
	}
}
