package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/gustycube/neoview/internal/config"
	"github.com/gustycube/neoview/internal/feed"
	"github.com/gustycube/neoview/internal/feedcache"
	"github.com/gustycube/neoview/internal/logging"
	"github.com/gustycube/neoview/internal/store"
)

var version = "dev"

var (
	configFile   string
	baseURL      string
	apiKey       string
	startDate    string
	endDate      string
	fetchTimeout int
	redisAddr    string
	otelEndpoint string
	otelInsecure bool
	otelService  string
	logLevel     string
)

var rootCmd = &cobra.Command{
	Use:   "neoview",
	Short: "Near-Earth object feed views",
	Long: `neoview loads the NASA NeoWs close-approach feed for a date range,
normalizes it into a flat dataset and derives the views a dashboard renders.`,
	SilenceUsage: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "path to config file (YAML, JSON or TOML)")
	pf.StringVar(&baseURL, "base-url", "", "NeoWs base URL")
	pf.StringVar(&apiKey, "api-key", "", "NeoWs API key (or NASA_API_KEY)")
	pf.StringVar(&startDate, "start", "", "first approach date, YYYY-MM-DD")
	pf.StringVar(&endDate, "end", "", "last approach date, YYYY-MM-DD")
	pf.IntVar(&fetchTimeout, "fetch-timeout", 0, "feed request timeout in seconds")
	pf.StringVar(&redisAddr, "redis", "", "Redis address for the payload cache (or REDIS_ADDR)")
	pf.StringVar(&otelEndpoint, "otel-endpoint", "", "OTLP HTTP endpoint (host:port)")
	pf.BoolVar(&otelInsecure, "otel-insecure", true, "OTLP insecure (no TLS)")
	pf.StringVar(&otelService, "otel-service", "", "OTEL service.name")
	pf.StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error); overrides LOG_LEVEL")
}

func newLogger() *logging.Logger {
	if logLevel != "" {
		return logging.NewWithLevel(logLevel)
	}
	return logging.New()
}

// loadConfig layers file, environment and flags, in increasing precedence.
func loadConfig(cmd *cobra.Command, extra map[string]interface{}) (*config.Config, error) {
	var cfg *config.Config
	if configFile != "" {
		var err error
		if cfg, err = config.LoadFromFile(configFile); err != nil {
			return nil, err
		}
	} else {
		cfg = &config.Config{}
		cfg.SetDefaults()
	}

	cfg.LoadFromEnv()

	flags := map[string]interface{}{
		"base_url":          baseURL,
		"api_key":           apiKey,
		"start_date":        startDate,
		"end_date":          endDate,
		"fetch_timeout_sec": fetchTimeout,
		"redis_addr":        redisAddr,
		"otel_endpoint":     otelEndpoint,
		"otel_service":      otelService,
	}
	if cmd.Flags().Changed("otel-insecure") {
		flags["otel_insecure"] = otelInsecure
	}
	for k, v := range extra {
		flags[k] = v
	}
	cfg.MergeWithFlags(flags)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// pipeline is the load path shared by every subcommand.
type pipeline struct {
	store  *store.Store
	loader *store.Loader
	redis  *feedcache.Redis
	rng    feed.Range
}

func (p *pipeline) Close() {
	if p.redis != nil {
		p.redis.Close()
	}
}

func newPipeline(ctx context.Context, cfg *config.Config, log *logging.Logger) (*pipeline, error) {
	p := &pipeline{
		store: store.New(),
		rng:   feed.Range{Start: cfg.StartDate, End: cfg.EndDate},
	}

	client := feed.New(feed.Options{
		BaseURL: cfg.BaseURL,
		APIKey:  cfg.APIKey,
		Timeout: cfg.FetchTimeout(),
		PerHour: cfg.FetchPerHour,
	}, log)

	var cache feedcache.Cache
	if cfg.RedisAddr != "" {
		rd, err := feedcache.NewRedis(ctx, cfg.RedisAddr, cfg.RedisKeyPrefix, cfg.CacheTTL(), log)
		if err != nil {
			return nil, fmt.Errorf("redis payload cache: %w", err)
		}
		log.Infow("redis payload cache enabled", "addr", cfg.RedisAddr, "ttl", cfg.CacheTTL())
		p.redis = rd
		cache = rd
	} else {
		cache = feedcache.NewMemory(cfg.CacheSize, cfg.CacheTTL())
		log.Infow("memory payload cache enabled", "size", cfg.CacheSize, "ttl", cfg.CacheTTL())
	}

	p.loader = store.NewLoader(p.store, client, cache, p.rng, cfg.BaseURL, log)
	return p, nil
}

// loadTimeout bounds a single load, including the rate limiter wait.
func loadTimeout(cfg *config.Config) time.Duration {
	return cfg.FetchTimeout() + 30*time.Second
}
