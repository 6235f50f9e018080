package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/UnknownOlympus/compass/internal/config"
	"github.com/UnknownOlympus/compass/internal/metrics"
	"github.com/UnknownOlympus/compass/internal/resolver"
	"github.com/UnknownOlympus/compass/internal/telemetry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "compass",
		Short: "Resolve free-text locations through a chain of geocoding providers",
		Long: `
compass turns free-text locations such as "Toronto, Ontario" into coordinates.
Providers are tried one after another in priority order; the first answer wins.
The chain is configured with COMPASS_PROVIDERS or a YAML file in COMPASS_PROVIDERS_FILE.
`,
		Version:      version,
		SilenceUsage: true,
	}

	root.AddCommand(
		newServeCmd(),
		newResolveCmd(),
		newBatchCmd(),
		newProvidersCmd(),
	)

	return root
}

// app holds the dependencies shared by every command.
type app struct {
	cfg      *config.Config
	log      *slog.Logger
	registry *prometheus.Registry
	metrics  *metrics.Metrics
	resolver *resolver.Resolver
	shutdown func(context.Context) error
}

// newApp loads the configuration and builds the provider chain. Logs go to logOut.
func newApp(ctx context.Context, logOut io.Writer) (*app, error) {
	cfg := config.MustLoad()
	logger := setupLogger(cfg.Env, logOut)

	// Create a separate registry for metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	shutdown := func(context.Context) error { return nil }
	if cfg.Tracing {
		var err error
		shutdown, err = telemetry.InitTracer(ctx, os.Stderr, version)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize tracing: %w", err)
		}
	}

	res, err := resolver.Build(logger, resolver.Options{
		Providers:          cfg.Providers,
		Timeout:            cfg.ProviderTimeout,
		InsecureSkipVerify: cfg.InsecureSkipVerify,
		UserAgent:          cfg.UserAgent,
	}, appMetrics)
	if err != nil {
		_ = shutdown(ctx)
		return nil, fmt.Errorf("failed to build provider chain: %w", err)
	}

	logger.InfoContext(ctx, "Geocoding providers initialized", "providers", res.Providers())

	return &app{
		cfg:      cfg,
		log:      logger,
		registry: reg,
		metrics:  appMetrics,
		resolver: res,
		shutdown: shutdown,
	}, nil
}

func (a *app) close(ctx context.Context) {
	if err := a.shutdown(context.WithoutCancel(ctx)); err != nil {
		a.log.ErrorContext(ctx, "Failed to flush traces", "error", err)
	}
}
