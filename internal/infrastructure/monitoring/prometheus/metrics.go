package prometheus

// Default bucket layouts.  HTTP requests are fast; pipeline runs include a
// generative-model round trip and need coarser, longer buckets.
var (
	DefaultHTTPDurationBuckets     = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	DefaultPipelineDurationBuckets = []float64{.1, .25, .5, 1, 2, 5, 10, 20, 30, 60}
	DefaultBackendDurationBuckets  = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5}
)

// AppMetrics groups every metric the platform emits.  All fields are vectors
// registered against a single collector so the whole set shares one registry
// and one namespace.
type AppMetrics struct {
	// HTTP interface.
	HTTPRequestsTotal   CounterVec // labels: method, path, status
	HTTPRequestDuration HistogramVec

	// Risk-analysis pipeline.
	AnalysisTotal       CounterVec // labels: outcome ("ok", "fallback", "error")
	AnalysisDuration    HistogramVec
	SearchDegradedTotal CounterVec // labels: collection
	ModelFallbackTotal  CounterVec // labels: reason ("call_failed", "bad_response")
	EmptyPoolTotal      CounterVec // no labels; sentinel recommendation emitted

	// Backends.
	SearchQueryDuration HistogramVec // labels: collection
	ModelCallDuration   HistogramVec
	IngestRowsTotal     CounterVec // labels: entity, result ("created", "skipped")
}

// NewAppMetrics registers the full application metric set on the given collector.
func NewAppMetrics(c MetricsCollector) *AppMetrics {
	return &AppMetrics{
		HTTPRequestsTotal: c.RegisterCounter(
			"http_requests_total",
			"Total number of HTTP requests handled.",
			"method", "path", "status",
		),
		HTTPRequestDuration: c.RegisterHistogram(
			"http_request_duration_seconds",
			"HTTP request latency in seconds.",
			DefaultHTTPDurationBuckets,
			"method", "path",
		),
		AnalysisTotal: c.RegisterCounter(
			"risk_analysis_total",
			"Total number of risk-analysis pipeline executions.",
			"outcome",
		),
		AnalysisDuration: c.RegisterHistogram(
			"risk_analysis_duration_seconds",
			"End-to-end risk-analysis pipeline latency in seconds.",
			DefaultPipelineDurationBuckets,
		),
		SearchDegradedTotal: c.RegisterCounter(
			"search_degraded_total",
			"Retrieval queries that failed and were degraded to empty context.",
			"collection",
		),
		ModelFallbackTotal: c.RegisterCounter(
			"model_fallback_total",
			"Analyses that fell back to the canned risk profile.",
			"reason",
		),
		EmptyPoolTotal: c.RegisterCounter(
			"empty_candidate_pool_total",
			"Analyses ranked against an empty attorney pool.",
		),
		SearchQueryDuration: c.RegisterHistogram(
			"search_query_duration_seconds",
			"Search cluster query latency in seconds.",
			DefaultBackendDurationBuckets,
			"collection",
		),
		ModelCallDuration: c.RegisterHistogram(
			"model_call_duration_seconds",
			"Generative model call latency in seconds.",
			DefaultPipelineDurationBuckets,
		),
		IngestRowsTotal: c.RegisterCounter(
			"ingest_rows_total",
			"Spreadsheet ingestion rows by entity and result.",
			"entity", "result",
		),
	}
}
