package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFromFile_YAML(t *testing.T) {
	yamlContent := `
api_key: yaml-key
start_date: "2024-02-01"
end_date: "2024-02-03"
addr: ":8181"
cache_size: 8
redis_addr: redis.test:6379
`
	cfg, err := LoadFromFile(writeConfig(t, "config.yaml", yamlContent))
	if err != nil {
		t.Fatalf("failed to load YAML config: %v", err)
	}

	if cfg.APIKey != "yaml-key" {
		t.Errorf("expected api_key 'yaml-key', got %s", cfg.APIKey)
	}
	if cfg.StartDate != "2024-02-01" || cfg.EndDate != "2024-02-03" {
		t.Errorf("unexpected date range %s..%s", cfg.StartDate, cfg.EndDate)
	}
	if cfg.Addr != ":8181" {
		t.Errorf("expected addr ':8181', got %s", cfg.Addr)
	}
	if cfg.CacheSize != 8 {
		t.Errorf("expected cache_size 8, got %d", cfg.CacheSize)
	}
	if cfg.RedisAddr != "redis.test:6379" {
		t.Errorf("expected redis_addr, got %s", cfg.RedisAddr)
	}
	if cfg.BaseURL != "https://api.nasa.gov" {
		t.Errorf("expected default base_url, got %s", cfg.BaseURL)
	}
}

func TestLoadFromFile_JSON(t *testing.T) {
	jsonContent := `{
		"api_key": "json-key",
		"fetch_timeout_sec": 10,
		"metrics_addr": ":9191"
	}`

	cfg, err := LoadFromFile(writeConfig(t, "config.json", jsonContent))
	if err != nil {
		t.Fatalf("failed to load JSON config: %v", err)
	}

	if cfg.APIKey != "json-key" {
		t.Errorf("expected api_key 'json-key', got %s", cfg.APIKey)
	}
	if cfg.FetchTimeoutSec != 10 {
		t.Errorf("expected fetch_timeout_sec 10, got %d", cfg.FetchTimeoutSec)
	}
	if cfg.MetricsAddr != ":9191" {
		t.Errorf("expected metrics_addr ':9191', got %s", cfg.MetricsAddr)
	}
}

func TestLoadFromFile_TOML(t *testing.T) {
	tomlContent := `
api_key = "toml-key"
client_per_second = 2.5
client_burst = 4
otel_service = "neoview-test"
`
	cfg, err := LoadFromFile(writeConfig(t, "config.toml", tomlContent))
	if err != nil {
		t.Fatalf("failed to load TOML config: %v", err)
	}

	if cfg.APIKey != "toml-key" {
		t.Errorf("expected api_key 'toml-key', got %s", cfg.APIKey)
	}
	if cfg.ClientPerSecond != 2.5 || cfg.ClientBurst != 4 {
		t.Errorf("unexpected client limits %v/%d", cfg.ClientPerSecond, cfg.ClientBurst)
	}
	if cfg.OTELService != "neoview-test" {
		t.Errorf("expected otel_service 'neoview-test', got %s", cfg.OTELService)
	}
}

func TestLoadFromFile_Errors(t *testing.T) {
	if _, err := LoadFromFile(writeConfig(t, "config.ini", "x=1")); err == nil {
		t.Error("expected error for unsupported extension")
	}
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadFromFile_DefersValidation(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, "config.yaml", "start_date: \"2024-03-01\"\nend_date: \"2024-01-01\"\n"))
	if err != nil {
		t.Fatalf("file with an inverted range should load: %v", err)
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected Validate to reject the inverted range")
	}

	cfg.MergeWithFlags(map[string]interface{}{"end_date": "2024-03-05"})
	if err := cfg.Validate(); err != nil {
		t.Errorf("range fixed by flags should validate: %v", err)
	}
}

func TestSetDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.SetDefaults()

	if cfg.APIKey != "DEMO_KEY" {
		t.Errorf("expected default api_key 'DEMO_KEY', got %s", cfg.APIKey)
	}
	if cfg.StartDate != "2024-01-01" || cfg.EndDate != "2024-01-08" {
		t.Errorf("unexpected default range %s..%s", cfg.StartDate, cfg.EndDate)
	}
	if cfg.FetchTimeoutSec != 30 {
		t.Errorf("expected default fetch_timeout_sec 30, got %d", cfg.FetchTimeoutSec)
	}
	if cfg.Addr != ":8080" {
		t.Errorf("expected default addr ':8080', got %s", cfg.Addr)
	}
	if cfg.RedisKeyPrefix != "neoview:feed:" {
		t.Errorf("unexpected default redis prefix %s", cfg.RedisKeyPrefix)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		c := Config{}
		c.SetDefaults()
		return c
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid config", func(*Config) {}, false},
		{"missing base url", func(c *Config) { c.BaseURL = "" }, true},
		{"bad start date", func(c *Config) { c.StartDate = "01/01/2024" }, true},
		{"end before start", func(c *Config) { c.StartDate, c.EndDate = "2024-01-05", "2024-01-01" }, true},
		{"range too wide", func(c *Config) { c.StartDate, c.EndDate = "2024-01-01", "2024-01-09" }, true},
		{"single day", func(c *Config) { c.StartDate, c.EndDate = "2024-01-01", "2024-01-01" }, false},
		{"invalid timeout", func(c *Config) { c.FetchTimeoutSec = 0 }, true},
		{"invalid client rate", func(c *Config) { c.ClientPerSecond = -1 }, true},
		{"invalid cache size", func(c *Config) { c.CacheSize = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMergeWithFlags(t *testing.T) {
	cfg := &Config{
		APIKey:    "original-key",
		StartDate: "2024-01-01",
		Addr:      ":8080",
	}

	flags := map[string]interface{}{
		"start_date":    "2024-03-01",
		"addr":          ":9000",
		"otel_insecure": true,
		"api_key":       "",
	}

	cfg.MergeWithFlags(flags)

	if cfg.StartDate != "2024-03-01" {
		t.Errorf("expected start_date override, got %s", cfg.StartDate)
	}
	if cfg.APIKey != "original-key" {
		t.Errorf("expected api_key to remain 'original-key', got %s", cfg.APIKey)
	}
	if cfg.Addr != ":9000" {
		t.Errorf("expected addr override, got %s", cfg.Addr)
	}
	if !cfg.OTELInsecure {
		t.Error("expected otel_insecure to be set")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("NASA_API_KEY", "env-key")
	t.Setenv("NEOVIEW_ADDR", ":7070")
	t.Setenv("REDIS_ADDR", "redis.test:6379")

	cfg := &Config{}
	cfg.LoadFromEnv()

	if cfg.APIKey != "env-key" {
		t.Errorf("expected APIKey from env, got %s", cfg.APIKey)
	}
	if cfg.Addr != ":7070" {
		t.Errorf("expected Addr from env, got %s", cfg.Addr)
	}
	if cfg.RedisAddr != "redis.test:6379" {
		t.Errorf("expected RedisAddr from env, got %s", cfg.RedisAddr)
	}
}
