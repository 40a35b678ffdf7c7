package riskanalysis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/lexatlas/lexatlas/internal/domain/source"
	"github.com/lexatlas/lexatlas/internal/infrastructure/ai/openai"
	"github.com/lexatlas/lexatlas/internal/infrastructure/monitoring/logging"
	"github.com/lexatlas/lexatlas/internal/infrastructure/monitoring/prometheus"
	"github.com/lexatlas/lexatlas/pkg/types/legal"
)

// systemPrompt fixes the model's role framing for every extraction call.
const systemPrompt = "You are a legal risk analysis expert. Provide thorough, accurate risk assessments in JSON format."

// fallbackConfidence is the confidence reported when extraction degrades.
const fallbackConfidence = 50

// fallbackRisks is the fixed degraded output substituted when the model call
// or response parse fails.
var fallbackRisks = []string{
	"General compliance risk in the specified practice area requires assessment",
	"Regulatory changes may impact operations and require monitoring",
	"Documentation and reporting requirements need review",
}

// Extraction is the outcome of one model-based risk extraction. Degraded is
// set when the fixed fallback was substituted.
type Extraction struct {
	Risks      []string
	References []legal.ReferenceItem
	Confidence int
	Degraded   bool
}

// modelAnalysis is the JSON shape the prompt instructs the model to return.
type modelAnalysis struct {
	Risks      []string `json:"risks"`
	Confidence *float64 `json:"confidence_score"`
	Reasoning  string   `json:"reasoning"`
}

// RiskExtractor turns a prompt into risk statements via the generative model.
// Extract is a total function: any invocation or parse failure yields the
// fixed fallback, never an error.
type RiskExtractor struct {
	model             openai.Completer
	defaultConfidence int
	maxReferences     int
	metrics           *prometheus.AppMetrics
	logger            logging.Logger
}

// NewRiskExtractor creates an extractor. defaultConfidence applies when the
// model omits confidence_score; maxReferences caps the citation list. metrics
// may be nil.
func NewRiskExtractor(model openai.Completer, defaultConfidence, maxReferences int, metrics *prometheus.AppMetrics, log logging.Logger) *RiskExtractor {
	if defaultConfidence <= 0 {
		defaultConfidence = 85
	}
	if maxReferences <= 0 {
		maxReferences = 5
	}
	return &RiskExtractor{
		model:             model,
		defaultConfidence: defaultConfidence,
		maxReferences:     maxReferences,
		metrics:           metrics,
		logger:            log,
	}
}

// Extract invokes the model and parses its JSON reply. References derive
// from the public-source records, not from what the model returned.
func (e *RiskExtractor) Extract(ctx context.Context, prompt string, sources []*source.PublicSource) Extraction {
	start := time.Now()
	raw, err := e.model.Complete(ctx, systemPrompt, prompt)
	if e.metrics != nil {
		e.metrics.ModelCallDuration.WithLabelValues().Observe(time.Since(start).Seconds())
	}
	if err != nil {
		e.logger.Error("model call failed, substituting fallback risks", logging.Error(err))
		e.countFallback("call_failed")
		return e.fallback()
	}

	var parsed modelAnalysis
	if err := json.Unmarshal([]byte(stripFences(raw)), &parsed); err != nil {
		e.logger.Error("model response is not valid JSON, substituting fallback risks",
			logging.Error(err),
			logging.Int("response_length", len(raw)))
		e.countFallback("bad_response")
		return e.fallback()
	}

	risks := parsed.Risks
	if risks == nil {
		risks = []string{}
	}
	confidence := e.defaultConfidence
	if parsed.Confidence != nil {
		confidence = int(*parsed.Confidence)
	}

	e.logger.Debug("model analysis parsed",
		logging.Int("risks", len(risks)),
		logging.Int("confidence", confidence),
		logging.String("reasoning", parsed.Reasoning))

	return Extraction{
		Risks:      risks,
		References: BuildReferences(sources, e.maxReferences),
		Confidence: confidence,
	}
}

func (e *RiskExtractor) fallback() Extraction {
	risks := make([]string, len(fallbackRisks))
	copy(risks, fallbackRisks)
	return Extraction{
		Risks:      risks,
		References: []legal.ReferenceItem{},
		Confidence: fallbackConfidence,
		Degraded:   true,
	}
}

func (e *RiskExtractor) countFallback(reason string) {
	if e.metrics != nil {
		e.metrics.ModelFallbackTotal.WithLabelValues(reason).Inc()
	}
}

// stripFences removes a leading/trailing markdown code fence from a model
// reply so fenced JSON still parses.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// BuildReferences zips the first max public-source records, in input order,
// into label/url citation pairs.
func BuildReferences(sources []*source.PublicSource, max int) []legal.ReferenceItem {
	refs := make([]legal.ReferenceItem, 0, max)
	for _, src := range sources {
		if len(refs) >= max {
			break
		}
		area := src.RiskArea
		if area == "" {
			area = "Legal Update"
		}
		refs = append(refs, legal.ReferenceItem{
			Label: fmt.Sprintf("%s - %s...", area, truncate(src.Title, 50)),
			URL:   src.URL,
		})
	}
	return refs
}
