// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/aristath/readiness/internal/domain"
	"github.com/joho/godotenv"
)

// Config holds application configuration. It is built once at startup and
// passed explicitly to every component that needs connection parameters.
type Config struct {
	DataDir  string // Directory for the local cache database (always absolute)
	LogLevel string
	Port     int
	DevMode  bool

	AWS         AWSConfig
	Athena      AthenaConfig
	Artifacts   ArtifactConfig
	SubjectID   string
	MetricsView string // table or view holding processed daily metrics

	CacheWarmSchedule    string // cron spec, empty disables
	CacheCleanupSchedule string // cron spec, empty disables
	CacheCheckSchedule   string // cron spec, empty disables
	ExplanationTTL       time.Duration
	StaleRetention       time.Duration // how long expired explanations stay as fallbacks
}

// AWSConfig holds region and optional static credentials.
// When the keys are empty the SDK's default credential chain is used.
type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
}

// AthenaConfig holds the query service parameters.
type AthenaConfig struct {
	Database       string
	OutputLocation string
	Workgroup      string // optional
	PollInterval   time.Duration
	QueryTimeout   time.Duration
}

// ArtifactConfig holds the explanation artifact store parameters.
type ArtifactConfig struct {
	ExplanationsBucket string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	dataDir := getEnv("DATA_DIR", "./data")
	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}
	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		DataDir:  absDataDir,
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Port:     getEnvAsInt("GO_PORT", 8001),
		DevMode:  getEnvAsBool("DEV_MODE", false),
		AWS: AWSConfig{
			Region:          firstEnv("AWS_REGION", "AWS_DEFAULT_REGION"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			SessionToken:    getEnv("AWS_SESSION_TOKEN", ""),
		},
		Athena: AthenaConfig{
			Database:       getEnv("ATHENA_DATABASE", ""),
			OutputLocation: getEnv("ATHENA_OUTPUT_LOCATION", ""),
			Workgroup:      getEnv("ATHENA_WORKGROUP", ""),
			PollInterval:   getEnvAsDuration("ATHENA_POLL_INTERVAL", time.Second),
			QueryTimeout:   getEnvAsDuration("ATHENA_QUERY_TIMEOUT", 60*time.Second),
		},
		Artifacts: ArtifactConfig{
			ExplanationsBucket: getEnv("EXPLANATIONS_BUCKET_NAME", ""),
		},
		SubjectID:            firstEnv("SUBJECT_ID", "ULTRAHUMAN_PATIENT_ID", "ULTRAHUMAN_EMAIL"),
		MetricsView:          getEnv("METRICS_TABLE", "processed_metrics"),
		CacheWarmSchedule:    getEnv("CACHE_WARM_SCHEDULE", "0 15 6 * * *"),
		CacheCleanupSchedule: getEnv("CACHE_CLEANUP_SCHEDULE", "@daily"),
		CacheCheckSchedule:   getEnv("CACHE_CHECK_SCHEDULE", "0 30 3 * * *"),
		ExplanationTTL:       getEnvAsDuration("EXPLANATION_CACHE_TTL", 6*time.Hour),
		StaleRetention:       getEnvAsDuration("EXPLANATION_STALE_RETENTION", 7*24*time.Hour),
	}

	return cfg, nil
}

// MissingForQueries lists the variables the metrics query path needs but lacks.
func (c *Config) MissingForQueries() []string {
	var missing []string
	if c.AWS.Region == "" {
		missing = append(missing, "AWS_REGION")
	}
	if c.Athena.Database == "" {
		missing = append(missing, "ATHENA_DATABASE")
	}
	if c.Athena.OutputLocation == "" {
		missing = append(missing, "ATHENA_OUTPUT_LOCATION")
	}
	return missing
}

// MissingForArtifacts lists the variables the explanation path needs but lacks.
func (c *Config) MissingForArtifacts() []string {
	var missing []string
	if c.AWS.Region == "" {
		missing = append(missing, "AWS_REGION")
	}
	if c.SubjectID == "" {
		missing = append(missing, "SUBJECT_ID")
	}
	if c.Artifacts.ExplanationsBucket == "" {
		missing = append(missing, "EXPLANATIONS_BUCKET_NAME")
	}
	return missing
}

// Validate checks if required configuration is present.
// Every missing item is reported, not just the first.
func (c *Config) Validate() error {
	seen := map[string]bool{}
	var missing []string
	for _, key := range append(c.MissingForQueries(), c.MissingForArtifacts()...) {
		if !seen[key] {
			seen[key] = true
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return domain.NewConfigurationError(missing...)
	}
	if c.Athena.PollInterval <= 0 || c.Athena.QueryTimeout <= 0 {
		return fmt.Errorf("athena poll interval and query timeout must be positive")
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if value := getEnv(key, ""); value != "" {
			return value
		}
	}
	return ""
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

// getEnvAsDuration accepts Go duration strings ("1s", "90s") or bare seconds.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
