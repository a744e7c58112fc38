package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// DateLayout is the NeoWs date format.
const DateLayout = "2006-01-02"

// MaxFeedDays is the widest range the feed endpoint accepts.
const MaxFeedDays = 7

// Config represents the complete configuration for neoview
type Config struct {
	// Source feed
	BaseURL         string `yaml:"base_url" json:"base_url" toml:"base_url"`
	APIKey          string `yaml:"api_key" json:"api_key" toml:"api_key"`
	StartDate       string `yaml:"start_date" json:"start_date" toml:"start_date"`
	EndDate         string `yaml:"end_date" json:"end_date" toml:"end_date"`
	FetchTimeoutSec int    `yaml:"fetch_timeout_sec" json:"fetch_timeout_sec" toml:"fetch_timeout_sec"`
	FetchPerHour    int    `yaml:"fetch_per_hour" json:"fetch_per_hour" toml:"fetch_per_hour"`

	// HTTP surface
	Addr            string  `yaml:"addr" json:"addr" toml:"addr"`
	ClientPerSecond float64 `yaml:"client_per_second" json:"client_per_second" toml:"client_per_second"`
	ClientBurst     int     `yaml:"client_burst" json:"client_burst" toml:"client_burst"`

	// Payload cache
	CacheTTLSec    int    `yaml:"cache_ttl_sec" json:"cache_ttl_sec" toml:"cache_ttl_sec"`
	CacheSize      int    `yaml:"cache_size" json:"cache_size" toml:"cache_size"`
	RedisAddr      string `yaml:"redis_addr" json:"redis_addr" toml:"redis_addr"`
	RedisKeyPrefix string `yaml:"redis_key_prefix" json:"redis_key_prefix" toml:"redis_key_prefix"`

	// Observability
	MetricsAddr  string `yaml:"metrics_addr" json:"metrics_addr" toml:"metrics_addr"`
	OTELEndpoint string `yaml:"otel_endpoint" json:"otel_endpoint" toml:"otel_endpoint"`
	OTELInsecure bool   `yaml:"otel_insecure" json:"otel_insecure" toml:"otel_insecure"`
	OTELService  string `yaml:"otel_service" json:"otel_service" toml:"otel_service"`
}

// SetDefaults sets default values for the configuration
func (c *Config) SetDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = "https://api.nasa.gov"
	}
	if c.APIKey == "" {
		c.APIKey = "DEMO_KEY"
	}
	if c.StartDate == "" {
		c.StartDate = "2024-01-01"
	}
	if c.EndDate == "" {
		c.EndDate = "2024-01-08"
	}
	if c.FetchTimeoutSec == 0 {
		c.FetchTimeoutSec = 30
	}
	if c.FetchPerHour == 0 {
		c.FetchPerHour = 30
	}
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.ClientPerSecond == 0 {
		c.ClientPerSecond = 5
	}
	if c.ClientBurst == 0 {
		c.ClientBurst = 10
	}
	if c.CacheTTLSec == 0 {
		c.CacheTTLSec = 3600
	}
	if c.CacheSize == 0 {
		c.CacheSize = 64
	}
	if c.RedisKeyPrefix == "" {
		c.RedisKeyPrefix = "neoview:feed:"
	}
	if c.MetricsAddr == "" {
		c.MetricsAddr = ":9090"
	}
	if c.OTELService == "" {
		c.OTELService = "neoview"
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}
	start, err := time.Parse(DateLayout, c.StartDate)
	if err != nil {
		return fmt.Errorf("start_date must be YYYY-MM-DD: %w", err)
	}
	end, err := time.Parse(DateLayout, c.EndDate)
	if err != nil {
		return fmt.Errorf("end_date must be YYYY-MM-DD: %w", err)
	}
	if end.Before(start) {
		return fmt.Errorf("end_date must not be before start_date")
	}
	if end.Sub(start) > MaxFeedDays*24*time.Hour {
		return fmt.Errorf("date range must be at most %d days", MaxFeedDays)
	}
	if c.FetchTimeoutSec < 1 {
		return fmt.Errorf("fetch_timeout_sec must be at least 1")
	}
	if c.FetchPerHour < 1 {
		return fmt.Errorf("fetch_per_hour must be at least 1")
	}
	if c.ClientPerSecond <= 0 {
		return fmt.Errorf("client_per_second must be positive")
	}
	if c.ClientBurst < 1 {
		return fmt.Errorf("client_burst must be at least 1")
	}
	if c.CacheSize < 1 {
		return fmt.Errorf("cache_size must be at least 1")
	}
	return nil
}

// FetchTimeout returns the request deadline for feed fetches.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSec) * time.Second
}

// CacheTTL returns how long cached payloads stay valid.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSec) * time.Second
}

// LoadFromFile loads configuration from a YAML, JSON or TOML file.
// The result is not validated; callers validate after merging env and flags.
func LoadFromFile(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse TOML config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file format: %s (use .yaml, .yml, .json or .toml)", ext)
	}

	config.SetDefaults()

	return &config, nil
}

// MergeWithFlags merges command-line flags with file configuration
// Command-line flags take precedence over file configuration
func (c *Config) MergeWithFlags(flags map[string]interface{}) {
	if v, ok := flags["base_url"].(string); ok && v != "" {
		c.BaseURL = v
	}
	if v, ok := flags["api_key"].(string); ok && v != "" {
		c.APIKey = v
	}
	if v, ok := flags["start_date"].(string); ok && v != "" {
		c.StartDate = v
	}
	if v, ok := flags["end_date"].(string); ok && v != "" {
		c.EndDate = v
	}
	if v, ok := flags["fetch_timeout_sec"].(int); ok && v > 0 {
		c.FetchTimeoutSec = v
	}
	if v, ok := flags["addr"].(string); ok && v != "" {
		c.Addr = v
	}
	if v, ok := flags["metrics_addr"].(string); ok && v != "" {
		c.MetricsAddr = v
	}
	if v, ok := flags["redis_addr"].(string); ok && v != "" {
		c.RedisAddr = v
	}
	if v, ok := flags["otel_endpoint"].(string); ok && v != "" {
		c.OTELEndpoint = v
	}
	if v, ok := flags["otel_insecure"].(bool); ok {
		c.OTELInsecure = v
	}
	if v, ok := flags["otel_service"].(string); ok && v != "" {
		c.OTELService = v
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() {
	if v := os.Getenv("NASA_API_KEY"); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv("NEOVIEW_ADDR"); v != "" {
		c.Addr = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.RedisAddr = v
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); v != "" {
		c.OTELEndpoint = v
	}
}
