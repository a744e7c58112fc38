package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gustycube/neoview/internal/api"
	"github.com/gustycube/neoview/internal/catalog"
	"github.com/gustycube/neoview/internal/health"
	"github.com/gustycube/neoview/internal/metrics"
	"github.com/gustycube/neoview/internal/rate"
	"github.com/gustycube/neoview/internal/store"
	"github.com/gustycube/neoview/internal/telemetry"
)

var (
	serveAddr   string
	metricsAddr string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Load the feed and serve views over HTTP",
	Long: `Loads the configured date range once, then serves every chart view as
JSON. POST /api/refresh reloads from the source; a failed reload keeps the
previous dataset.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "API listen address (or NEOVIEW_ADDR)")
	serveCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "metrics and health listen address")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	log := newLogger()
	defer log.Sync()

	cfg, err := loadConfig(cmd, map[string]interface{}{
		"addr":         serveAddr,
		"metrics_addr": metricsAddr,
	})
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	shutdown, err := telemetry.Init(ctx, cfg.OTELEndpoint, cfg.OTELService, cfg.OTELInsecure)
	if err != nil {
		log.Warnw("otel init failed", "err", err)
	} else {
		defer shutdown(context.Background())
	}

	p, err := newPipeline(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer p.Close()

	healthHandler := health.NewHandler(log)
	healthHandler.SetMetadata("version", version)
	healthHandler.SetMetadata("range", p.rng.Key())
	healthHandler.SetDataset(datasetInfo(p.store))
	healthHandler.RegisterChecker("dataset", health.NewDatasetChecker(datasetInfo(p.store), 24*time.Hour))
	if p.redis != nil {
		healthHandler.RegisterChecker("redis", health.NewRedisChecker(cfg.RedisAddr, p.redis.Ping))
	}

	if cfg.MetricsAddr != "" {
		go metrics.ServeWithHealth(cfg.MetricsAddr, healthHandler, log)
		log.Infow("metrics and health server started", "addr", cfg.MetricsAddr)
	}

	// A failed initial load is not fatal: views are served empty until a
	// refresh succeeds.
	loadCtx, loadCancel := context.WithTimeout(ctx, loadTimeout(cfg))
	if _, err := p.loader.Load(loadCtx); err != nil {
		log.Warnw("initial load failed; serving empty views", "err", err)
	}
	loadCancel()

	limiter := rate.New(cfg.ClientPerSecond, cfg.ClientBurst)
	go limiter.Run(ctx, 5*time.Minute)
	go p.loader.TrackAge(ctx, 15*time.Second)

	srv := api.NewServer(cfg.Addr, p.store, p.loader, catalog.Default(), limiter, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	log.Infow("starting neoview",
		"addr", cfg.Addr,
		"range", p.rng.Key(),
		"base_url", cfg.BaseURL,
		"config_file", configFile,
	)
	healthHandler.SetReady(true)

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
	}

	healthHandler.SetReady(false)
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.HTTPServer().Shutdown(shutdownCtx); err != nil {
		log.Warnw("shutdown", "err", err)
	}
	log.Infow("shutdown complete")
	return nil
}

func datasetInfo(s *store.Store) health.DatasetFunc {
	return func() (health.DatasetInfo, bool) {
		info, ok := s.Snapshot()
		return health.DatasetInfo(info), ok
	}
}
