package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
// Every environment variable is read here and nowhere else.
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Snapshot input
	Snapshot SnapshotConfig

	// Database (only used when Snapshot.Source == "postgres")
	Database DatabaseConfig

	// Analysis
	Analysis AnalysisConfig

	// History accumulation
	History HistoryConfig

	// Output / publishing
	Output  OutputConfig
	Publish PublishConfig

	// Scheduler
	Schedule ScheduleConfig

	// Logging
	LogLevel  string
	LogFormat string

	// Monitoring
	MetricsEnabled bool

	// Server rate limiting
	RateLimit RateLimitConfig
}

// SnapshotConfig selects and locates the input tables.
type SnapshotConfig struct {
	Source string // "csv" or "postgres"
	Dir    string // directory holding the CSV snapshots
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	URL string

	// Connection pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// AnalysisConfig holds the filter and scoring policy.
type AnalysisConfig struct {
	ExcludedTypes    []string // campaign types removed before scoring
	ExcludedSubType  string   // campaign sub-type removed before scoring
	ConversionWeight float64
	SalesWeight      float64
	PeriodWindows    []int // trailing-day windows
}

// HistoryConfig controls snapshot accumulation.
type HistoryConfig struct {
	Dir          string // directory holding history + race-chart JSON
	DedupeByDate bool   // replace the same-day tail snapshot instead of appending
}

// OutputConfig locates the rendered site.
type OutputConfig struct {
	Dir string
}

// PublishConfig controls the git publishing step.
type PublishConfig struct {
	Enabled bool
	Remote  string
	Branch  string
	Timeout time.Duration
}

// ScheduleConfig holds the cron spec for automatic regeneration.
type ScheduleConfig struct {
	RefreshSpec string
}

// RateLimitConfig bounds request throughput on the dashboard server.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// Load reads configuration from environment variables.
// This is the only function that calls os.Getenv().
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		Snapshot: SnapshotConfig{
			Source: getEnv("SNAPSHOT_SOURCE", "csv"),
			Dir:    getEnv("SNAPSHOT_DIR", "snapshots"),
		},

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		Analysis: AnalysisConfig{
			ExcludedTypes:    getEnvAsList("EXCLUDED_TYPES", "HORECA,TRADE"),
			ExcludedSubType:  getEnv("EXCLUDED_SUBTYPE", "Lead"),
			ConversionWeight: getEnvAsFloat("CONVERSION_WEIGHT", 0.6),
			SalesWeight:      getEnvAsFloat("SALES_WEIGHT", 0.4),
			PeriodWindows:    getEnvAsIntList("PERIOD_WINDOWS", "7,14,21,30"),
		},

		History: HistoryConfig{
			Dir:          getEnv("HISTORY_DIR", "historical"),
			DedupeByDate: getEnvAsBool("HISTORY_DEDUPE_BY_DATE", false),
		},

		Output: OutputConfig{
			Dir: getEnv("OUTPUT_DIR", "public"),
		},

		Publish: PublishConfig{
			Enabled: getEnvAsBool("PUBLISH_ENABLED", false),
			Remote:  getEnv("PUBLISH_REMOTE", "origin"),
			Branch:  getEnv("PUBLISH_BRANCH", "master"),
			Timeout: getEnvAsDuration("PUBLISH_TIMEOUT", "60s"),
		},

		Schedule: ScheduleConfig{
			RefreshSpec: getEnv("REFRESH_CRON", "0 0 7 * * *"),
		},

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),

		MetricsEnabled: getEnvAsBool("METRICS_ENABLED", true),

		RateLimit: RateLimitConfig{
			RequestsPerSecond: getEnvAsFloat("RATE_LIMIT_RPS", 50),
			Burst:             getEnvAsInt("RATE_LIMIT_BURST", 100),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set.
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	switch c.Snapshot.Source {
	case "csv":
		// nothing else required
	case "postgres":
		if c.Database.URL == "" {
			return fmt.Errorf("DATABASE_URL is required when SNAPSHOT_SOURCE=postgres")
		}
	default:
		return fmt.Errorf("SNAPSHOT_SOURCE must be csv or postgres, got %q", c.Snapshot.Source)
	}

	sum := c.Analysis.ConversionWeight + c.Analysis.SalesWeight
	if sum < 0.99 || sum > 1.01 {
		return fmt.Errorf("score weights must sum to 1.0, got %.2f", sum)
	}

	if len(c.Analysis.PeriodWindows) == 0 {
		return fmt.Errorf("PERIOD_WINDOWS must name at least one window")
	}

	return nil
}

// loadEnvFile tries to load .env from multiple locations.
func loadEnvFile() {
	paths := []string{".env"}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}

// getEnvAsList splits a comma-separated value. An unset variable falls
// back to the default; a variable set to the empty string means an
// intentionally empty list.
func getEnvAsList(key, defaultValue string) []string {
	valueStr, ok := os.LookupEnv(key)
	if !ok {
		valueStr = defaultValue
	}

	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnvAsIntList(key, defaultValue string) []int {
	out := make([]int, 0, 4)
	for _, p := range getEnvAsList(key, defaultValue) {
		v, err := strconv.Atoi(p)
		if err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}
