package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// RecordsCreated counts successfully created golden records.
	RecordsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "golden_records_created_total",
			Help: "Total number of golden records created.",
		},
	)
	// DuplicateQuestions counts creates rejected by the uniqueness invariant.
	DuplicateQuestions = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "golden_duplicate_questions_total",
			Help: "Total number of record creations rejected as duplicate questions.",
		},
	)
	// AskRequests counts similarity retrieval calls.
	AskRequests = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "golden_ask_requests_total",
			Help: "Total number of ask retrieval requests.",
		},
	)
	// SQLExecFailures counts stored SQL executions rejected by the engine.
	SQLExecFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "golden_sql_exec_failures_total",
			Help: "Total number of stored SQL executions that failed in the engine.",
		},
	)
	// IndexInconsistencies counts vector index writes that failed after the
	// record store write succeeded. Nonzero values mean the index needs a
	// reindex to restore dual-store correspondence.
	IndexInconsistencies = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "golden_index_inconsistency_total",
			Help: "Total number of vector index writes that failed after a successful record store write.",
		},
	)
	// AskLatency tracks retrieval latency, embedding call included.
	AskLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "golden_ask_latency_ms",
			Help:    "Ask retrieval latency in milliseconds.",
			Buckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2000, 5000},
		},
	)
)

func init() {
	prometheus.MustRegister(
		RecordsCreated,
		DuplicateQuestions,
		AskRequests,
		SQLExecFailures,
		IndexInconsistencies,
		AskLatency,
	)
}
