// Package config defines all configuration structures for the LexAtlas
// platform.  No I/O or parsing logic lives here — only plain data types and
// validation.
package config

import (
	"fmt"
	"time"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sub-configuration structs
// ─────────────────────────────────────────────────────────────────────────────

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // "debug" | "release" | "test"
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	MaxBodySize     int64         `mapstructure:"max_body_size"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"db_name"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxConns        int           `mapstructure:"max_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	MigrationPath   string        `mapstructure:"migration_path"`
}

// OpenSearchConfig holds OpenSearch cluster connection parameters plus the
// names of the two text collections the retrieval layer queries.
type OpenSearchConfig struct {
	Addresses          []string `mapstructure:"addresses"`
	User               string   `mapstructure:"user"`
	Password           string   `mapstructure:"password"`
	InsecureSkipVerify bool     `mapstructure:"insecure_skip_verify"`
	InternalIndex      string   `mapstructure:"internal_index"`
	HistoricalIndex    string   `mapstructure:"historical_index"`
	ContentField       string   `mapstructure:"content_field"`
	NameField          string   `mapstructure:"name_field"`
	PathField          string   `mapstructure:"path_field"`
}

// OpenAIConfig holds generative-model connection parameters.  Provider
// selects between the OpenAI public API and an Azure OpenAI deployment.
type OpenAIConfig struct {
	Provider    string        `mapstructure:"provider"` // "openai" | "azure"
	Endpoint    string        `mapstructure:"endpoint"`
	APIKey      string        `mapstructure:"api_key"`
	Model       string        `mapstructure:"model"`
	Deployment  string        `mapstructure:"deployment"`
	APIVersion  string        `mapstructure:"api_version"`
	Temperature float64       `mapstructure:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// MinIOConfig holds MinIO / S3-compatible object-storage parameters.
type MinIOConfig struct {
	Endpoint       string        `mapstructure:"endpoint"`
	AccessKey      string        `mapstructure:"access_key"`
	SecretKey      string        `mapstructure:"secret_key"`
	DocumentBucket string        `mapstructure:"document_bucket"`
	UploadBucket   string        `mapstructure:"upload_bucket"`
	UseSSL         bool          `mapstructure:"use_ssl"`
	PresignExpiry  time.Duration `mapstructure:"presign_expiry"`
}

// AnalysisConfig holds risk-analysis pipeline tunables.
type AnalysisConfig struct {
	TopPerCollection  int `mapstructure:"top_per_collection"`
	DocCharBudget     int `mapstructure:"doc_char_budget"`
	RecordsPerArea    int `mapstructure:"records_per_area"`
	TopAttorneys      int `mapstructure:"top_attorneys"`
	MaxReferences     int `mapstructure:"max_references"`
	DefaultConfidence int `mapstructure:"default_confidence"`
}

// LogConfig holds structured-logging parameters.
type LogConfig struct {
	Level            string   `mapstructure:"level"`  // "debug" | "info" | "warn" | "error"
	Format           string   `mapstructure:"format"` // "json" | "console"
	OutputPaths      []string `mapstructure:"output_paths"`
	ErrorOutputPaths []string `mapstructure:"error_output_paths"`
}

// MetricsConfig holds Prometheus exposition parameters.
type MetricsConfig struct {
	Enabled              bool   `mapstructure:"enabled"`
	Namespace            string `mapstructure:"namespace"`
	EnableProcessMetrics bool   `mapstructure:"enable_process_metrics"`
	EnableGoMetrics      bool   `mapstructure:"enable_go_metrics"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Root Config
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration structure for the entire platform.
// Every infrastructure component and application service reads its settings
// from the relevant sub-struct.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	OpenSearch OpenSearchConfig `mapstructure:"opensearch"`
	OpenAI     OpenAIConfig     `mapstructure:"openai"`
	MinIO      MinIOConfig      `mapstructure:"minio"`
	Analysis   AnalysisConfig   `mapstructure:"analysis"`
	Log        LogConfig        `mapstructure:"log"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Validation
// ─────────────────────────────────────────────────────────────────────────────

// Validate performs semantic validation of the fully-populated Config.
// It returns the first error encountered; callers should treat any error as
// fatal and refuse to start the application.
func (c *Config) Validate() error {
	// Server
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d is out of range [1, 65535]", c.Server.Port)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("config: server.mode %q is invalid; expected debug|release|test", c.Server.Mode)
	}

	// Database
	if c.Database.Host == "" {
		return fmt.Errorf("config: database.host is required")
	}
	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("config: database.port %d is out of range [1, 65535]", c.Database.Port)
	}
	if c.Database.User == "" {
		return fmt.Errorf("config: database.user is required")
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("config: database.db_name is required")
	}
	if c.Database.MaxConns < 1 {
		return fmt.Errorf("config: database.max_conns must be >= 1, got %d", c.Database.MaxConns)
	}

	// OpenSearch
	if len(c.OpenSearch.Addresses) == 0 {
		return fmt.Errorf("config: opensearch.addresses must contain at least one node address")
	}
	if c.OpenSearch.InternalIndex == "" {
		return fmt.Errorf("config: opensearch.internal_index is required")
	}
	if c.OpenSearch.HistoricalIndex == "" {
		return fmt.Errorf("config: opensearch.historical_index is required")
	}

	// OpenAI
	switch c.OpenAI.Provider {
	case "openai", "azure":
	default:
		return fmt.Errorf("config: openai.provider %q is invalid; expected openai|azure", c.OpenAI.Provider)
	}
	if c.OpenAI.Provider == "azure" && c.OpenAI.Endpoint == "" {
		return fmt.Errorf("config: openai.endpoint is required when provider is azure")
	}
	if c.OpenAI.Temperature < 0 || c.OpenAI.Temperature > 2 {
		return fmt.Errorf("config: openai.temperature %v is out of range [0, 2]", c.OpenAI.Temperature)
	}

	// Analysis
	if c.Analysis.TopPerCollection < 1 {
		return fmt.Errorf("config: analysis.top_per_collection must be >= 1, got %d", c.Analysis.TopPerCollection)
	}
	if c.Analysis.TopAttorneys < 1 {
		return fmt.Errorf("config: analysis.top_attorneys must be >= 1, got %d", c.Analysis.TopAttorneys)
	}
	if c.Analysis.DefaultConfidence < 1 || c.Analysis.DefaultConfidence > 100 {
		return fmt.Errorf("config: analysis.default_confidence %d is out of range [1, 100]", c.Analysis.DefaultConfidence)
	}

	// Log
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	return nil
}

// DSN renders the database configuration as a lib/pq connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}
