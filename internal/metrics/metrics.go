package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CompletionCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "market_events_completion_calls_total",
		Help: "Completion service attempts, labelled by provider and status.",
	}, []string{"provider", "status"})

	CompletionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "market_events_completion_duration_seconds",
		Help:    "Completion call latency in seconds.",
		Buckets: []float64{0.5, 1, 2, 5, 10, 20, 40, 60, 120},
	}, []string{"provider"})

	CompletionRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "market_events_completion_retries_total",
		Help: "Completion attempts that were retried after a failure.",
	})

	StoreRetries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "market_events_store_retries_total",
		Help: "Document store requests retried after a failure, labelled by operation.",
	}, []string{"op"})

	RecordsExtracted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "market_events_records_extracted_total",
		Help: "Candidate records produced by the extractor, labelled by method (structured|fallback).",
	}, []string{"method"})

	RecordsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "market_events_records_rejected_total",
		Help: "Candidate records dropped by validation, labelled by offending field.",
	}, []string{"field"})

	EnrichDefaults = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "market_events_enrich_defaults_total",
		Help: "Records that fell back to default enrichment values, labelled by stage.",
	}, []string{"stage"})

	RecordsDuplicate = promauto.NewCounter(prometheus.CounterOpts{
		Name: "market_events_records_duplicate_total",
		Help: "Records skipped because they were already published.",
	})

	RecordsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "market_events_records_published_total",
		Help: "Records written to the document store, labelled by task.",
	}, []string{"task"})

	TaskRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "market_events_task_runs_total",
		Help: "Collection task runs, labelled by task and status.",
	}, []string{"task", "status"})

	TaskDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "market_events_task_duration_seconds",
		Help:    "End-to-end collection task duration in seconds.",
		Buckets: []float64{5, 15, 30, 60, 120, 300, 600, 1200},
	}, []string{"task"})
)
