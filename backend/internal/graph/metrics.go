package graph

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// queryTotal counts graph statements by outcome
	queryTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "socialgraph_graph_queries_total",
		Help: "Total graph statements by operation, session mode and result",
	}, []string{"operation", "mode", "result"})

	// queryDuration tracks statement latency including result collection
	queryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "socialgraph_graph_query_duration_seconds",
		Help:    "Graph statement duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14), // 0.5ms to ~4s
	}, []string{"operation", "mode"})

	// transactionTotal counts units of work by commit or rollback
	transactionTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "socialgraph_graph_transactions_total",
		Help: "Total graph transactions by operation and result",
	}, []string{"operation", "result"})

	transactionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "socialgraph_graph_transaction_duration_seconds",
		Help:    "Graph transaction duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 14),
	}, []string{"operation"})
)

func observeQuery(operation, mode string, start time.Time, err error) {
	queryTotal.WithLabelValues(operation, mode, resultLabel(err)).Inc()
	queryDuration.WithLabelValues(operation, mode).Observe(time.Since(start).Seconds())
}

func observeTransaction(operation string, start time.Time, err error) {
	result := "commit"
	if err != nil {
		result = "rollback"
	}
	transactionTotal.WithLabelValues(operation, result).Inc()
	transactionDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

func resultLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
