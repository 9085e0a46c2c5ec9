package common

import "github.com/prometheus/client_golang/prometheus"

const (
	HTTPRequestTotal           = "http_requests_total"
	HTTPRequestDurationSeconds = "http_request_duration_seconds"
	TransactionConflictTotal   = "ledger_transaction_conflicts_total"
	FinalizedDayTotal          = "ledger_finalized_days_total"
)

var (
	PromCounters = map[string]*prometheus.CounterVec{
		HTTPRequestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: HTTPRequestTotal,
			Help: "Count of all HTTP requests",
		}, []string{"path", "code"}),
		TransactionConflictTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: TransactionConflictTotal,
			Help: "Count of optimistic transaction conflicts that were retried",
		}, []string{}),
		FinalizedDayTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: FinalizedDayTotal,
			Help: "Count of daily goal records handled by the finalizer, by outcome",
		}, []string{"outcome"}),
	}

	PromHistograms = map[string]*prometheus.HistogramVec{
		HTTPRequestDurationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: HTTPRequestDurationSeconds,
			Help: "Duration of all HTTP requests",
		}, []string{"path", "code"}),
	}
)
