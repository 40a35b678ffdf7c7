// Package riskanalysis implements the risk-analysis pipeline: retrieval over
// the two search collections, public-source matching, prompt construction,
// model-based risk extraction with a degraded-mode fallback, deterministic
// attorney ranking, and outreach-email rendering.
package riskanalysis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/lexatlas/lexatlas/internal/infrastructure/monitoring/logging"
	"github.com/lexatlas/lexatlas/internal/infrastructure/monitoring/prometheus"
	"github.com/lexatlas/lexatlas/pkg/types/legal"
)

// TextSearcher is the text-search contract the retriever consumes.
type TextSearcher interface {
	Search(ctx context.Context, index, query string, limit int) ([]legal.RetrievedDocument, error)
}

// RetrieverConfig names the two collections and the per-collection result cap.
type RetrieverConfig struct {
	InternalIndex    string
	HistoricalIndex  string
	TopPerCollection int
}

// DocumentRetriever queries the internal-knowledge and historical-engagement
// collections. A failure in either collection degrades that collection to
// empty results; retrieval never fails the pipeline.
type DocumentRetriever struct {
	searcher TextSearcher
	config   RetrieverConfig
	metrics  *prometheus.AppMetrics
	logger   logging.Logger
}

// NewDocumentRetriever creates a retriever over both collections. metrics may
// be nil.
func NewDocumentRetriever(searcher TextSearcher, cfg RetrieverConfig, metrics *prometheus.AppMetrics, log logging.Logger) *DocumentRetriever {
	if cfg.TopPerCollection <= 0 {
		cfg.TopPerCollection = 3
	}
	return &DocumentRetriever{
		searcher: searcher,
		config:   cfg,
		metrics:  metrics,
		logger:   log,
	}
}

// SearchQuery builds the retrieval query for a practice area.
func SearchQuery(practiceArea string) string {
	return fmt.Sprintf("%s legal compliance risks regulations", practiceArea)
}

// Retrieve runs one search per collection. The two queries have no data
// dependency on each other and execute concurrently.
func (r *DocumentRetriever) Retrieve(ctx context.Context, query string) legal.RetrievedContext {
	var (
		wg         sync.WaitGroup
		internal   []legal.RetrievedDocument
		historical []legal.RetrievedDocument
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		internal = r.searchCollection(ctx, r.config.InternalIndex, query)
	}()
	go func() {
		defer wg.Done()
		historical = r.searchCollection(ctx, r.config.HistoricalIndex, query)
	}()
	wg.Wait()

	if len(internal) == 0 && len(historical) == 0 {
		r.logger.Warn("no documents retrieved, analysis will rely only on public sources",
			logging.String("query", query))
	}

	return legal.RetrievedContext{Internal: internal, Historical: historical}
}

func (r *DocumentRetriever) searchCollection(ctx context.Context, index, query string) []legal.RetrievedDocument {
	start := time.Now()
	docs, err := r.searcher.Search(ctx, index, query, r.config.TopPerCollection)
	if r.metrics != nil {
		r.metrics.SearchQueryDuration.WithLabelValues(index).Observe(time.Since(start).Seconds())
	}
	if err != nil {
		r.logger.Warn("collection search failed, degrading to empty results",
			logging.String("index", index),
			logging.Error(err))
		if r.metrics != nil {
			r.metrics.SearchDegradedTotal.WithLabelValues(index).Inc()
		}
		return nil
	}
	return docs
}
