package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8001, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 15*time.Second, cfg.Server.ShutdownTimeout)

	assert.Equal(t, SourceFile, cfg.Dataset.Source)
	assert.Equal(t, "@every 1h", cfg.Dataset.ReloadCron)
	assert.Equal(t, 500, cfg.Dataset.Raw.MaxDistricts)
	assert.Equal(t, 90, cfg.Dataset.Raw.SeriesDays)

	assert.Equal(t, "gemini-1.5-flash", cfg.Insights.Model)
	assert.Equal(t, 30*time.Minute, cfg.Insights.CacheTTL)
	assert.Equal(t, 5*time.Minute, cfg.Cache.AnalyticsTTL)

	assert.True(t, cfg.RateLimiter.Enabled)
	assert.Equal(t, 5, cfg.RateLimiter.BurstSize)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Contains(t, cfg.CORS.AllowedOrigins, "http://localhost:5173")
	assert.Len(t, cfg.CORS.AllowedOrigins, 4)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("AADHAARIQ_SERVER_PORT", "9000")
	t.Setenv("AADHAARIQ_INSIGHTS_TIMEOUT", "5s")
	t.Setenv("AADHAARIQ_DATASET_SOURCE", "postgres")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Insights.Timeout)
	assert.Equal(t, SourcePostgres, cfg.Dataset.Source)
}

func TestLoad_LegacyEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "9100")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("MONGODB_URI", "mongodb://mongo:27017")
	t.Setenv("REDIS_ADDR", "redis:6379")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "db.internal", cfg.Postgres.Host)
	assert.Equal(t, 6543, cfg.Postgres.Port)
	assert.Equal(t, "test-key", cfg.Insights.APIKey)
	assert.Equal(t, "mongodb://mongo:27017", cfg.Mongo.URI)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
}

func TestLoad_PrefixedBeatsLegacy(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "9100")
	t.Setenv("AADHAARIQ_SERVER_PORT", "9200")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 9200, cfg.Server.Port)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "aadhaariq.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 8100
dataset:
  path: /srv/data/aadhaar.json
logging:
  format: console
report:
  font_path: /fonts/NotoSansDevanagari.ttf
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8100, cfg.Server.Port)
	assert.Equal(t, "/srv/data/aadhaar.json", cfg.Dataset.Path)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, "/fonts/NotoSansDevanagari.ttf", cfg.Report.FontPath)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func validConfig() Config {
	return Config{
		Server:      ServerConfig{Port: 8001},
		Dataset:     DatasetConfig{Source: SourceFile, Path: "data.json"},
		RateLimiter: RateLimiterConfig{Enabled: true, RequestsPerSecond: 1, BurstSize: 1},
		Insights:    InsightsConfig{CacheTTL: time.Minute},
		Logging:     LoggingConfig{Format: "json"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, true},
		{"unknown source", func(c *Config) { c.Dataset.Source = "s3" }, true},
		{"file without path", func(c *Config) { c.Dataset.Path = "" }, true},
		{"postgres bad port", func(c *Config) {
			c.Dataset.Source = SourcePostgres
			c.Postgres.Port = 0
		}, true},
		{"zero rate", func(c *Config) { c.RateLimiter.RequestsPerSecond = 0 }, true},
		{"zero rate disabled", func(c *Config) {
			c.RateLimiter.Enabled = false
			c.RateLimiter.RequestsPerSecond = 0
		}, false},
		{"zero burst", func(c *Config) { c.RateLimiter.BurstSize = 0 }, true},
		{"zero cache ttl", func(c *Config) { c.Insights.CacheTTL = 0 }, true},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPostgresDSN(t *testing.T) {
	p := PostgresConfig{Host: "localhost", Port: 5432, User: "u", Password: "p", Name: "db"}
	assert.Equal(t, "host=localhost port=5432 user=u password=p dbname=db sslmode=disable", p.DSN())

	p.Host = "pg-1.aivencloud.com"
	assert.Contains(t, p.DSN(), "sslmode=require")

	p.SSLMode = "verify-full"
	assert.Contains(t, p.DSN(), "sslmode=verify-full")
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("AADHAARIQ_TEST_ONLY", "")
	os.Unsetenv("AADHAARIQ_TEST_ONLY")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("AADHAARIQ_TEST_ONLY=from-file\n"), 0o644))

	path, err := LoadEnv()
	require.NoError(t, err)
	assert.Equal(t, ".env", path)
	assert.Equal(t, "from-file", os.Getenv("AADHAARIQ_TEST_ONLY"))
}

func TestLoadEnv_NoFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b", "c")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	t.Chdir(dir)
	t.Setenv("AADHAARIQ_ENV", "")

	path, err := LoadEnv()
	require.NoError(t, err)
	assert.Empty(t, path)
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(LoggingConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(-1))

	logger, err = NewLogger(LoggingConfig{Level: "bogus", Format: "json"})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(-1))
}

func TestResponseCacheAndKey(t *testing.T) {
	c := NewResponseCache(CacheConfig{})
	c.SetDefault("k", 1)
	v, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	assert.Equal(t, "forecast:Kerala:monthly", GetCacheKey("forecast", "Kerala", "monthly"))
	assert.Equal(t, "states", GetCacheKey("states"))
}
