// Package config provides configuration loading, defaults, and validation for
// the LexAtlas platform.
package config

import "time"

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultServerPort = 8080
	DefaultServerMode = "debug"

	DefaultDBHost     = "localhost"
	DefaultDBPort     = 5432
	DefaultDBName     = "lexatlas"
	DefaultDBMaxConns = 25

	DefaultOpenSearchAddr  = "http://localhost:9200"
	DefaultInternalIndex   = "internal-legal-docs"
	DefaultHistoricalIndex = "historical-engagements"
	DefaultContentField    = "content"
	DefaultNameField       = "file_name"
	DefaultPathField       = "file_path"

	DefaultOpenAIProvider = "openai"
	DefaultOpenAIModel    = "gpt-4o-mini"
	DefaultTemperature    = 0.3
	DefaultMaxTokens      = 1500

	DefaultMinIOEndpoint  = "localhost:9000"
	DefaultDocumentBucket = "lexatlas-documents"
	DefaultUploadBucket   = "lexatlas-uploads"

	DefaultTopPerCollection = 3
	DefaultDocCharBudget    = 2000
	DefaultRecordsPerArea   = 3
	DefaultTopAttorneys     = 3
	DefaultMaxReferences    = 5
	DefaultConfidence       = 85

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultMetricsNamespace = "lexatlas"
)

// ApplyDefaults fills every zero-value field in cfg with the platform default.
// Fields that have already been set by the caller (non-zero values) are left
// unchanged so that explicit configuration always wins.  It must be called
// after unmarshalling raw config data and before Validate() so that
// optional-but-defaulted fields are never seen as missing.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Server ────────────────────────────────────────────────────────────────
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = DefaultServerMode
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 30 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 60 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 15 * time.Second
	}
	if cfg.Server.MaxBodySize == 0 {
		cfg.Server.MaxBodySize = 32 << 20
	}

	// ── Database ──────────────────────────────────────────────────────────────
	if cfg.Database.Host == "" {
		cfg.Database.Host = DefaultDBHost
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = DefaultDBPort
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = DefaultDBName
	}
	if cfg.Database.MaxConns == 0 {
		cfg.Database.MaxConns = DefaultDBMaxConns
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = time.Hour
	}

	// ── OpenSearch ────────────────────────────────────────────────────────────
	if len(cfg.OpenSearch.Addresses) == 0 {
		cfg.OpenSearch.Addresses = []string{DefaultOpenSearchAddr}
	}
	if cfg.OpenSearch.InternalIndex == "" {
		cfg.OpenSearch.InternalIndex = DefaultInternalIndex
	}
	if cfg.OpenSearch.HistoricalIndex == "" {
		cfg.OpenSearch.HistoricalIndex = DefaultHistoricalIndex
	}
	if cfg.OpenSearch.ContentField == "" {
		cfg.OpenSearch.ContentField = DefaultContentField
	}
	if cfg.OpenSearch.NameField == "" {
		cfg.OpenSearch.NameField = DefaultNameField
	}
	if cfg.OpenSearch.PathField == "" {
		cfg.OpenSearch.PathField = DefaultPathField
	}

	// ── OpenAI ────────────────────────────────────────────────────────────────
	if cfg.OpenAI.Provider == "" {
		cfg.OpenAI.Provider = DefaultOpenAIProvider
	}
	if cfg.OpenAI.Model == "" {
		cfg.OpenAI.Model = DefaultOpenAIModel
	}
	if cfg.OpenAI.Temperature == 0 {
		cfg.OpenAI.Temperature = DefaultTemperature
	}
	if cfg.OpenAI.MaxTokens == 0 {
		cfg.OpenAI.MaxTokens = DefaultMaxTokens
	}
	if cfg.OpenAI.Timeout == 0 {
		cfg.OpenAI.Timeout = 60 * time.Second
	}

	// ── MinIO ─────────────────────────────────────────────────────────────────
	if cfg.MinIO.Endpoint == "" {
		cfg.MinIO.Endpoint = DefaultMinIOEndpoint
	}
	if cfg.MinIO.DocumentBucket == "" {
		cfg.MinIO.DocumentBucket = DefaultDocumentBucket
	}
	if cfg.MinIO.UploadBucket == "" {
		cfg.MinIO.UploadBucket = DefaultUploadBucket
	}
	if cfg.MinIO.PresignExpiry == 0 {
		cfg.MinIO.PresignExpiry = 24 * time.Hour
	}

	// ── Analysis ──────────────────────────────────────────────────────────────
	if cfg.Analysis.TopPerCollection == 0 {
		cfg.Analysis.TopPerCollection = DefaultTopPerCollection
	}
	if cfg.Analysis.DocCharBudget == 0 {
		cfg.Analysis.DocCharBudget = DefaultDocCharBudget
	}
	if cfg.Analysis.RecordsPerArea == 0 {
		cfg.Analysis.RecordsPerArea = DefaultRecordsPerArea
	}
	if cfg.Analysis.TopAttorneys == 0 {
		cfg.Analysis.TopAttorneys = DefaultTopAttorneys
	}
	if cfg.Analysis.MaxReferences == 0 {
		cfg.Analysis.MaxReferences = DefaultMaxReferences
	}
	if cfg.Analysis.DefaultConfidence == 0 {
		cfg.Analysis.DefaultConfidence = DefaultConfidence
	}

	// ── Log ───────────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}

	// ── Metrics ───────────────────────────────────────────────────────────────
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
}
