package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rshade/ecoscore/internal/api"
	"github.com/rshade/ecoscore/internal/config"
	"github.com/rshade/ecoscore/internal/engine"
	"github.com/rshade/ecoscore/internal/engine/cache"
	"github.com/rshade/ecoscore/internal/logging"
	"github.com/rshade/ecoscore/internal/store"
)

// readHeaderTimeout bounds slow clients sending headers.
const readHeaderTimeout = 10 * time.Second

// NewServeCmd creates the serve command, which runs the HTTP API until
// interrupted.
func NewServeCmd() *cobra.Command {
	var addr, catalogPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the sustainability report HTTP API",
		Example: `  ecoscore serve
  ecoscore serve --addr 127.0.0.1:9090 --catalog catalog.db`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := configFromContext(cmd.Context())
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			if cmd.Flags().Changed("catalog") {
				cfg.Catalog.Path = catalogPath
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			ln, err := net.Listen("tcp", cfg.Server.Addr)
			if err != nil {
				return fmt.Errorf("listening on %s: %w", cfg.Server.Addr, err)
			}
			return runServer(ctx, cfg, ln)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", config.DefaultAddr, "listen address")
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "SQLite footprint catalog path")

	return cmd
}

// runServer serves the API on ln until ctx is done, then shuts down
// gracefully within the configured timeout.
func runServer(ctx context.Context, cfg *config.Config, ln net.Listener) error {
	log := logging.FromContext(ctx)

	srv, closeFn, err := buildServer(ctx, cfg)
	if err != nil {
		_ = ln.Close()
		return err
	}
	defer closeFn()

	httpSrv := &http.Server{
		Handler:           srv.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("component", "cli").
			Str("addr", ln.Addr().String()).
			Str("environment", cfg.Server.Environment).
			Msg("http server listening")
		errCh <- httpSrv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	log.Info().Str("component", "cli").Msg("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down http server: %w", err)
	}
	return nil
}

// buildServer wires the engine, caches, rate limiter and optional catalog
// into an api.Server. The returned func releases the catalog.
func buildServer(ctx context.Context, cfg *config.Config) (*api.Server, func(), error) {
	log := logging.FromContext(ctx)

	materialsTTL, err := cfg.MaterialsTTLSeconds()
	if err != nil {
		return nil, nil, err
	}
	reportTTL, err := cfg.ReportTTLSeconds()
	if err != nil {
		return nil, nil, err
	}

	materials := cache.NewMemoryStore("materials", materialsTTL)
	reports := cache.NewMemoryStore("reports", reportTTL)
	materials.StartJanitor(ctx, time.Duration(materialsTTL)*time.Second)
	reports.StartJanitor(ctx, time.Duration(reportTTL)*time.Second)

	limiter := api.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)
	limiter.StartCleanup(ctx)

	engineOpts := []engine.Option{engine.WithBatchSize(cfg.Engine.BatchSize)}
	apiOpts := []api.Option{
		api.WithReportCache(reports),
		api.WithMaterialsCache(materials),
		api.WithRateLimiter(limiter),
		api.WithLogger(*log),
		api.WithConfig(api.Config{
			CORSOrigin:  cfg.Server.CORSOrigin,
			Development: cfg.IsDevelopment(),
		}),
	}

	closeFn := func() {}
	if cfg.Catalog.Path != "" {
		catalog, openErr := store.Open(ctx, cfg.Catalog.Path)
		if openErr != nil {
			return nil, nil, fmt.Errorf("opening catalog: %w", openErr)
		}
		closeFn = func() {
			if closeErr := catalog.Close(); closeErr != nil {
				log.Warn().Str("component", "cli").Err(closeErr).Msg("closing catalog")
			}
		}
		engineOpts = append(engineOpts, engine.WithFactorSource(catalog))
		apiOpts = append(apiOpts, api.WithMaterialSource(catalog))
	}

	srv := api.New(engine.New(engineOpts...), apiOpts...)
	if err := srv.SeedMaterials(ctx); err != nil {
		log.Warn().Str("component", "cli").Err(err).Msg("materials listing not seeded")
	}

	log.Debug().
		Str("component", "cli").
		Str("materials_ttl", formatTTL(materialsTTL)).
		Str("report_ttl", formatTTL(reportTTL)).
		Int("batch_size", cfg.Engine.BatchSize).
		Bool("rate_limited", limiter.Enabled()).
		Bool("catalog", cfg.Catalog.Path != "").
		Msg("server configured")

	return srv, closeFn, nil
}

// formatTTL renders a TTL in seconds as a short duration such as "5m".
func formatTTL(seconds int) string {
	ttl, err := cache.NewTTLConfig(seconds)
	if err != nil {
		return fmt.Sprintf("%ds", seconds)
	}
	return cache.FormatDuration(ttl.Duration)
}
