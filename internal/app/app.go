// Package app assembles the platform from configuration: infrastructure
// clients, domain services, the analysis pipeline, and the HTTP surface.
// Both the API server binary and the CLI serve command boot through it.
package app

import (
	"context"
	"fmt"

	"github.com/lexatlas/lexatlas/internal/application/ingest"
	"github.com/lexatlas/lexatlas/internal/application/riskanalysis"
	"github.com/lexatlas/lexatlas/internal/config"
	"github.com/lexatlas/lexatlas/internal/domain/attorney"
	"github.com/lexatlas/lexatlas/internal/domain/source"
	"github.com/lexatlas/lexatlas/internal/infrastructure/ai/openai"
	"github.com/lexatlas/lexatlas/internal/infrastructure/database/postgres"
	"github.com/lexatlas/lexatlas/internal/infrastructure/database/postgres/repositories"
	"github.com/lexatlas/lexatlas/internal/infrastructure/monitoring/logging"
	"github.com/lexatlas/lexatlas/internal/infrastructure/monitoring/prometheus"
	"github.com/lexatlas/lexatlas/internal/infrastructure/search/opensearch"
	"github.com/lexatlas/lexatlas/internal/infrastructure/storage/minio"
	httpiface "github.com/lexatlas/lexatlas/internal/interfaces/http"
	"github.com/lexatlas/lexatlas/internal/interfaces/http/handlers"
)

// Version is injected at build time via ldflags.
var Version = "dev"

// App holds the assembled platform and its closable resources.
type App struct {
	Config *config.Config
	Logger logging.Logger
	Server *httpiface.Server

	db     *postgres.Connection
	search *opensearch.Client
}

// New builds the full dependency graph from cfg. The returned App owns the
// database and search connections; call Close when done.
func New(cfg *config.Config, log logging.Logger) (*App, error) {
	collector := prometheus.NewNopCollector()
	if cfg.Metrics.Enabled {
		var err error
		collector, err = prometheus.NewMetricsCollector(prometheus.CollectorConfig{
			Namespace:            cfg.Metrics.Namespace,
			EnableProcessMetrics: cfg.Metrics.EnableProcessMetrics,
			EnableGoMetrics:      cfg.Metrics.EnableGoMetrics,
		}, log)
		if err != nil {
			return nil, fmt.Errorf("app: failed to build metrics collector: %w", err)
		}
	}
	metrics := prometheus.NewAppMetrics(collector)

	db, err := postgres.NewConnection(postgres.PostgresConfig{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		Database:        cfg.Database.DBName,
		Username:        cfg.Database.User,
		Password:        cfg.Database.Password,
		SSLMode:         cfg.Database.SSLMode,
		MaxOpenConns:    cfg.Database.MaxConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
	}, log)
	if err != nil {
		return nil, err
	}
	if cfg.Database.MigrationPath != "" {
		if err := db.RunMigrations(cfg.Database.MigrationPath); err != nil {
			db.Close()
			return nil, err
		}
	}

	searchClient, err := opensearch.NewClient(opensearch.ClientConfig{
		Addresses:          cfg.OpenSearch.Addresses,
		Username:           cfg.OpenSearch.User,
		Password:           cfg.OpenSearch.Password,
		InsecureSkipVerify: cfg.OpenSearch.InsecureSkipVerify,
	}, log)
	if err != nil {
		db.Close()
		return nil, err
	}
	searcher := opensearch.NewSearcher(searchClient, opensearch.SearcherConfig{
		ContentField: cfg.OpenSearch.ContentField,
		NameField:    cfg.OpenSearch.NameField,
		PathField:    cfg.OpenSearch.PathField,
	}, log)

	storeClient, err := minio.NewMinIOClient(&minio.MinIOConfig{
		Endpoint:        cfg.MinIO.Endpoint,
		AccessKeyID:     cfg.MinIO.AccessKey,
		SecretAccessKey: cfg.MinIO.SecretKey,
		UseSSL:          cfg.MinIO.UseSSL,
		DocumentBucket:  cfg.MinIO.DocumentBucket,
		UploadBucket:    cfg.MinIO.UploadBucket,
		PresignExpiry:   cfg.MinIO.PresignExpiry,
	}, log)
	if err != nil {
		searchClient.Close()
		db.Close()
		return nil, err
	}
	store := minio.NewMinIORepository(storeClient, log)

	model, err := openai.NewClient(openai.ClientConfig{
		Provider:    cfg.OpenAI.Provider,
		Endpoint:    cfg.OpenAI.Endpoint,
		APIKey:      cfg.OpenAI.APIKey,
		Model:       cfg.OpenAI.Model,
		Deployment:  cfg.OpenAI.Deployment,
		APIVersion:  cfg.OpenAI.APIVersion,
		Temperature: cfg.OpenAI.Temperature,
		MaxTokens:   int64(cfg.OpenAI.MaxTokens),
		Timeout:     cfg.OpenAI.Timeout,
	}, log)
	if err != nil {
		searchClient.Close()
		db.Close()
		return nil, err
	}

	attorneys := attorney.NewService(repositories.NewPostgresAttorneyRepo(db, log), log)
	sources := source.NewService(repositories.NewPostgresSourceRepo(db, log), log)

	pipeline := riskanalysis.NewService(
		riskanalysis.NewDocumentRetriever(searcher, riskanalysis.RetrieverConfig{
			InternalIndex:    cfg.OpenSearch.InternalIndex,
			HistoricalIndex:  cfg.OpenSearch.HistoricalIndex,
			TopPerCollection: cfg.Analysis.TopPerCollection,
		}, metrics, log),
		riskanalysis.NewSourceMatcher(sources, cfg.Analysis.RecordsPerArea, log),
		riskanalysis.NewPromptBuilder(cfg.Analysis.DocCharBudget),
		riskanalysis.NewRiskExtractor(model, cfg.Analysis.DefaultConfidence, cfg.Analysis.MaxReferences, metrics, log),
		riskanalysis.NewAttorneyRanker(attorneys, cfg.Analysis.TopAttorneys, metrics, log),
		metrics, log)

	importer := ingest.NewService(attorneys, sources, metrics, log)

	router := httpiface.NewRouter(httpiface.RouterConfig{
		AnalysisHandler: handlers.NewAnalysisHandler(pipeline, log),
		AttorneyHandler: handlers.NewAttorneyHandler(attorneys, importer, log),
		SourceHandler:   handlers.NewSourceHandler(sources, importer, log),
		StorageHandler: handlers.NewStorageHandler(store, map[string]handlers.StorageCategory{
			"internal":         {Bucket: cfg.MinIO.DocumentBucket, Prefix: "internal/"},
			"attorney-history": {Bucket: cfg.MinIO.DocumentBucket, Prefix: "attorney-history/"},
		}, cfg.MinIO.PresignExpiry, log),
		HealthHandler: handlers.NewHealthHandler(Version,
			handlers.CheckerFunc{CheckerName: "postgres", Fn: db.HealthCheck},
			handlers.CheckerFunc{CheckerName: "opensearch", Fn: searchClient.Ping},
			checkBuckets(storeClient)),
		Logger:           log,
		Metrics:          metrics,
		MetricsCollector: collector,
	})

	server := httpiface.NewServer(httpiface.ServerConfig{
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, router, log)

	return &App{
		Config: cfg,
		Logger: log,
		Server: server,
		db:     db,
		search: searchClient,
	}, nil
}

// checkBuckets reports MinIO health via a bucket listing round trip.
func checkBuckets(client *minio.MinIOClient) handlers.CheckerFunc {
	return handlers.CheckerFunc{CheckerName: "minio", Fn: func(ctx context.Context) error {
		_, err := client.GetClient().ListBuckets(ctx)
		return err
	}}
}

// Run starts the HTTP server and blocks until ctx is cancelled, then drains
// and stops it.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- a.Server.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	return a.Server.Stop(context.Background())
}

// Close releases database and search connections.
func (a *App) Close() {
	if a.search != nil {
		_ = a.search.Close()
	}
	if a.db != nil {
		_ = a.db.Close()
	}
}
