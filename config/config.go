// Package config provides configuration management for the AadhaarIQ service.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the service.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Dataset     DatasetConfig     `mapstructure:"dataset"`
	Postgres    PostgresConfig    `mapstructure:"postgres"`
	Mongo       MongoConfig       `mapstructure:"mongo"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Insights    InsightsConfig    `mapstructure:"insights"`
	Cache       CacheConfig       `mapstructure:"cache"`
	RateLimiter RateLimiterConfig `mapstructure:"rate_limiter"`
	Metrics     MetricsConfig     `mapstructure:"metrics"`
	Logging     LoggingConfig     `mapstructure:"logging"`
	Report      ReportConfig      `mapstructure:"report"`
	CORS        CORSConfig        `mapstructure:"cors"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatasetConfig selects where the processed dataset lives and where the raw
// extracts are read from by the process command.
type DatasetConfig struct {
	Source     string          `mapstructure:"source"`
	Path       string          `mapstructure:"path"`
	ReloadCron string          `mapstructure:"reload_cron"`
	Raw        RawInputsConfig `mapstructure:"raw"`
}

type RawInputsConfig struct {
	EnrolmentDir   string `mapstructure:"enrolment_dir"`
	DemographicDir string `mapstructure:"demographic_dir"`
	BiometricDir   string `mapstructure:"biometric_dir"`
	LatLongCSV     string `mapstructure:"lat_long_csv"`
	PincodeCSV     string `mapstructure:"pincode_csv"`
	SaturationCSV  string `mapstructure:"saturation_csv"`
	MaxDistricts   int    `mapstructure:"max_districts"`
	SeriesDays     int    `mapstructure:"series_days"`
}

type PostgresConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	MaxRetries      int           `mapstructure:"max_retries"`
	RetryDelay      time.Duration `mapstructure:"retry_delay"`
}

// DSN builds a lib/pq connection string. Hosts on Aiven default to
// sslmode=require.
func (p PostgresConfig) DSN() string {
	sslMode := p.SSLMode
	if sslMode == "" {
		if strings.Contains(p.Host, "aivencloud.com") {
			sslMode = "require"
		} else {
			sslMode = "disable"
		}
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Name, sslMode)
}

// MongoConfig configures the insight archive. An empty URI disables it.
type MongoConfig struct {
	URI            string        `mapstructure:"uri"`
	Database       string        `mapstructure:"database"`
	Collection     string        `mapstructure:"collection"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

// RedisConfig configures the shared insight cache. An empty address keeps
// the cache in process.
type RedisConfig struct {
	Addr      string `mapstructure:"addr"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

type InsightsConfig struct {
	APIKey   string        `mapstructure:"api_key"`
	Model    string        `mapstructure:"model"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type CacheConfig struct {
	AnalyticsTTL    time.Duration `mapstructure:"analytics_ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// RateLimiterConfig holds per-client limits for the generation endpoints.
type RateLimiterConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	BurstSize         int     `mapstructure:"burst_size"`
	// TrustedProxies lists the CIDRs or addresses allowed to set
	// X-Forwarded-For. Without entries the socket address is used.
	TrustedProxies []string `mapstructure:"trusted_proxies"`
}

// MetricsConfig holds Prometheus metrics configuration.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type ReportConfig struct {
	// FontPath points at a UTF-8 TrueType font with Devanagari glyphs. The
	// Hindi section of PDF reports is skipped without it.
	FontPath string `mapstructure:"font_path"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	Debug          bool     `mapstructure:"debug"`
}

const (
	SourceFile     = "file"
	SourcePostgres = "postgres"
)

// legacyEnv maps config keys to the plain environment names used by earlier
// deployments.
var legacyEnv = map[string]string{
	"server.port":       "PORT",
	"postgres.host":     "DB_HOST",
	"postgres.port":     "DB_PORT",
	"postgres.user":     "DB_USER",
	"postgres.password": "DB_PASSWORD",
	"postgres.name":     "DB_NAME",
	"postgres.ssl_mode": "DB_SSL_MODE",
	"mongo.uri":         "MONGODB_URI",
	"redis.addr":        "REDIS_ADDR",
	"insights.api_key":  "GEMINI_API_KEY",
}

const envPrefix = "AADHAARIQ"

// Load reads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/aadhaariq/")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, legacy := range legacyEnv {
		prefixed := envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, legacy); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", legacy, err)
		}
	}

	// Read config file (ignore if not found, use defaults/env)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8001)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.shutdown_timeout", "15s")

	v.SetDefault("dataset.source", SourceFile)
	v.SetDefault("dataset.path", "data/aadhaar_data.json")
	v.SetDefault("dataset.reload_cron", "@every 1h")
	v.SetDefault("dataset.raw.enrolment_dir", "data/raw/api_data_aadhar_enrolment")
	v.SetDefault("dataset.raw.demographic_dir", "data/raw/api_data_aadhar_demographic")
	v.SetDefault("dataset.raw.biometric_dir", "data/raw/api_data_aadhar_biometric")
	v.SetDefault("dataset.raw.lat_long_csv", "")
	v.SetDefault("dataset.raw.pincode_csv", "")
	v.SetDefault("dataset.raw.saturation_csv", "")
	v.SetDefault("dataset.raw.max_districts", 500)
	v.SetDefault("dataset.raw.series_days", 90)

	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.user", "postgres")
	v.SetDefault("postgres.password", "")
	v.SetDefault("postgres.name", "aadhaariq")
	v.SetDefault("postgres.ssl_mode", "")
	v.SetDefault("postgres.max_open_conns", 25)
	v.SetDefault("postgres.max_idle_conns", 5)
	v.SetDefault("postgres.conn_max_lifetime", "5m")
	v.SetDefault("postgres.max_retries", 5)
	v.SetDefault("postgres.retry_delay", "5s")

	v.SetDefault("mongo.uri", "")
	v.SetDefault("mongo.database", "aadhaariq")
	v.SetDefault("mongo.collection", "insights")
	v.SetDefault("mongo.connect_timeout", "15s")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key_prefix", "aadhaariq:insight:")

	v.SetDefault("insights.api_key", "")
	v.SetDefault("insights.model", "gemini-1.5-flash")
	v.SetDefault("insights.cache_ttl", "30m")
	v.SetDefault("insights.timeout", "30s")

	v.SetDefault("cache.analytics_ttl", "5m")
	v.SetDefault("cache.cleanup_interval", "10m")

	v.SetDefault("rate_limiter.enabled", true)
	v.SetDefault("rate_limiter.requests_per_second", 0.5)
	v.SetDefault("rate_limiter.burst_size", 5)
	v.SetDefault("rate_limiter.trusted_proxies", []string{})

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("report.font_path", "")

	v.SetDefault("cors.allowed_origins", []string{
		"http://localhost:3000",
		"http://localhost:3001",
		"http://localhost:3002",
		"http://localhost:5173",
	})
	v.SetDefault("cors.debug", false)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	switch c.Dataset.Source {
	case SourceFile:
		if c.Dataset.Path == "" {
			return fmt.Errorf("dataset path is required for the file source")
		}
	case SourcePostgres:
		if c.Postgres.Port <= 0 || c.Postgres.Port > 65535 {
			return fmt.Errorf("invalid postgres port: %d", c.Postgres.Port)
		}
	default:
		return fmt.Errorf("unknown dataset source %q", c.Dataset.Source)
	}

	if c.RateLimiter.Enabled {
		if c.RateLimiter.RequestsPerSecond <= 0 {
			return fmt.Errorf("rate limiter requests per second must be positive")
		}
		if c.RateLimiter.BurstSize <= 0 {
			return fmt.Errorf("rate limiter burst size must be positive")
		}
	}

	if c.Insights.CacheTTL <= 0 {
		return fmt.Errorf("insight cache ttl must be positive")
	}

	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("unknown logging format %q", c.Logging.Format)
	}

	return nil
}

// LoadEnv loads the first .env file found in the working directory, its
// parents, or the path named by AADHAARIQ_ENV. Variables already set in the
// environment are kept. It returns the file that was loaded, if any.
func LoadEnv() (string, error) {
	candidates := []string{".env", "../.env", "../../.env", os.Getenv("AADHAARIQ_ENV")}
	for _, path := range candidates {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return path, fmt.Errorf("error loading %s: %w", path, err)
		}
		return path, nil
	}
	return "", nil
}
