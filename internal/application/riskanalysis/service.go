package riskanalysis

import (
	"context"
	"sync"
	"time"

	"github.com/lexatlas/lexatlas/internal/domain/source"
	"github.com/lexatlas/lexatlas/internal/infrastructure/monitoring/logging"
	"github.com/lexatlas/lexatlas/internal/infrastructure/monitoring/prometheus"
	"github.com/lexatlas/lexatlas/pkg/types/legal"
)

// Service orchestrates the full pipeline. Analyze never returns an error:
// every stage owns its failure handling and degrades rather than raising, so
// the caller always receives a complete, well-formed result.
type Service struct {
	retriever *DocumentRetriever
	matcher   *SourceMatcher
	prompts   *PromptBuilder
	extractor *RiskExtractor
	ranker    *AttorneyRanker
	metrics   *prometheus.AppMetrics
	logger    logging.Logger
}

// NewService wires the pipeline stages. metrics may be nil.
func NewService(
	retriever *DocumentRetriever,
	matcher *SourceMatcher,
	prompts *PromptBuilder,
	extractor *RiskExtractor,
	ranker *AttorneyRanker,
	metrics *prometheus.AppMetrics,
	log logging.Logger,
) *Service {
	return &Service{
		retriever: retriever,
		matcher:   matcher,
		prompts:   prompts,
		extractor: extractor,
		ranker:    ranker,
		metrics:   metrics,
		logger:    log,
	}
}

// Analyze runs retrieval, source matching, extraction, ranking, and email
// rendering for one request. Document retrieval and source matching have no
// dependency on each other and run concurrently; the ranker needs only the
// historical documents and overlaps the model call.
func (s *Service) Analyze(ctx context.Context, req legal.AnalysisRequest) *legal.RiskAnalysisResult {
	start := time.Now()
	log := s.logger.With(
		logging.String("company", req.CompanyName),
		logging.String("practice_area", req.PracticeArea))
	log.Info("starting risk analysis")

	query := SearchQuery(req.PracticeArea)

	var (
		wg      sync.WaitGroup
		ragCtx  legal.RetrievedContext
		sources []*source.PublicSource
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		ragCtx = s.retriever.Retrieve(ctx, query)
	}()
	go func() {
		defer wg.Done()
		sources = s.matcher.Match(ctx, req.PracticeArea)
	}()
	wg.Wait()

	prompt := s.prompts.Build(req, ragCtx, sources)

	var (
		extraction  Extraction
		recommended []legal.RecommendedAttorney
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		extraction = s.extractor.Extract(ctx, prompt, sources)
	}()
	go func() {
		defer wg.Done()
		recommended = s.ranker.Rank(ctx, req.PracticeArea, ragCtx.Historical)
	}()
	wg.Wait()

	result := &legal.RiskAnalysisResult{
		CompanyName:          req.CompanyName,
		PracticeArea:         req.PracticeArea,
		Risks:                extraction.Risks,
		References:           extraction.References,
		RecommendedAttorneys: recommended,
		EmailTemplate:        ComposeEmail(req, recommended[0], extraction.Risks),
		Confidence:           clampConfidence(extraction.Confidence),
	}

	outcome := "ok"
	if extraction.Degraded {
		outcome = "fallback"
	}
	if s.metrics != nil {
		s.metrics.AnalysisTotal.WithLabelValues(outcome).Inc()
		s.metrics.AnalysisDuration.WithLabelValues().Observe(time.Since(start).Seconds())
	}

	log.Info("risk analysis complete",
		logging.Int("risks", len(result.Risks)),
		logging.Int("references", len(result.References)),
		logging.Int("attorneys", len(result.RecommendedAttorneys)),
		logging.String("top_attorney", result.RecommendedAttorneys[0].Name),
		logging.Int("confidence", result.Confidence),
		logging.String("outcome", outcome),
		logging.Duration("elapsed", time.Since(start)))

	return result
}

// clampConfidence bounds a reported confidence to [1, 100].
func clampConfidence(c int) int {
	if c < 1 {
		return 1
	}
	if c > 100 {
		return 100
	}
	return c
}
