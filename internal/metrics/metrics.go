package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	IngestRuns      prometheus.Counter
	MessagesFetched prometheus.Counter
	NewlyParsed     prometheus.Counter
	DedupSkips      prometheus.Counter
	ParseErrors     prometheus.Counter
	IngestDuration  prometheus.Histogram

	LLMCalls        prometheus.Counter
	LLMInputTokens  prometheus.Counter
	LLMOutputTokens prometheus.Counter
	LLMCostUSD      prometheus.Counter

	StoredNewsletters prometheus.Gauge
	NeedsReview       prometheus.Gauge
}

// NewMetrics creates new Prometheus metrics
func NewMetrics() *Metrics {
	return &Metrics{
		IngestRuns: promauto.NewCounter(prometheus.CounterOpts{
			Name: "newsletter_digest_ingest_runs_total",
			Help: "Total number of ingestion runs",
		}),
		MessagesFetched: promauto.NewCounter(prometheus.CounterOpts{
			Name: "newsletter_digest_messages_fetched_total",
			Help: "Total number of candidate messages listed from the mail source",
		}),
		NewlyParsed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "newsletter_digest_newly_parsed_total",
			Help: "Total number of newsletters parsed and stored",
		}),
		DedupSkips: promauto.NewCounter(prometheus.CounterOpts{
			Name: "newsletter_digest_dedup_skips_total",
			Help: "Total number of messages skipped as already stored",
		}),
		ParseErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "newsletter_digest_parse_errors_total",
			Help: "Total number of messages that failed to process",
		}),
		IngestDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "newsletter_digest_ingest_duration_seconds",
			Help:    "Time spent on one ingestion run",
			Buckets: prometheus.DefBuckets,
		}),
		LLMCalls: promauto.NewCounter(prometheus.CounterOpts{
			Name: "newsletter_digest_llm_calls_total",
			Help: "Total number of language model API calls",
		}),
		LLMInputTokens: promauto.NewCounter(prometheus.CounterOpts{
			Name: "newsletter_digest_llm_input_tokens_total",
			Help: "Total input tokens sent to the language model",
		}),
		LLMOutputTokens: promauto.NewCounter(prometheus.CounterOpts{
			Name: "newsletter_digest_llm_output_tokens_total",
			Help: "Total output tokens received from the language model",
		}),
		LLMCostUSD: promauto.NewCounter(prometheus.CounterOpts{
			Name: "newsletter_digest_llm_cost_usd_total",
			Help: "Accumulated language model spend in USD",
		}),
		StoredNewsletters: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "newsletter_digest_stored_newsletters",
			Help: "Number of newsletters currently stored",
		}),
		NeedsReview: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "newsletter_digest_needs_review",
			Help: "Number of stored newsletters flagged for review",
		}),
	}
}
