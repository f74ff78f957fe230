package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/agenthands/coursegraph/internal/core/model"
)

var (
	// buildsTotal counts graph builds by result (ok, error)
	buildsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coursegraph_builds_total",
		Help: "Total graph builds by result",
	}, []string{"result"})

	// recordsSkipped counts malformed or duplicate source records per catalog
	recordsSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coursegraph_records_skipped_total",
		Help: "Source records skipped during ingestion by catalog",
	}, []string{"catalog"})

	// graphEdges is the edge count of the published graph
	graphEdges = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "coursegraph_graph_edges",
		Help: "Edges in the published graph by kind and rule",
	}, []string{"kind", "rule"})

	// queriesTotal counts queries by mode and outcome (hit, empty)
	queriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coursegraph_queries_total",
		Help: "Total queries by mode and outcome",
	}, []string{"mode", "outcome"})

	// queryDuration tracks query latency
	queryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "coursegraph_query_duration_seconds",
		Help:    "Query duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.00005, 2, 14), // 50µs to ~400ms
	}, []string{"mode"})
)

// RecordBuild marks one build attempt.
func RecordBuild(err error) {
	if err != nil {
		buildsTotal.WithLabelValues("error").Inc()
		return
	}
	buildsTotal.WithLabelValues("ok").Inc()
}

func RecordSkipped(skipped map[model.Catalog]int) {
	for c, n := range skipped {
		if n > 0 {
			recordsSkipped.WithLabelValues(string(c)).Add(float64(n))
		}
	}
}

// SetGraph replaces the edge gauges with the counts of a newly published graph.
func SetGraph(edges []model.Edge) {
	graphEdges.Reset()
	for _, e := range edges {
		graphEdges.WithLabelValues(string(e.Kind), string(e.Rule)).Inc()
	}
}

// ObserveQuery records one answered query. results is the answer length.
func ObserveQuery(mode model.QueryMode, start time.Time, results int) {
	outcome := "hit"
	if results == 0 {
		outcome = "empty"
	}
	queriesTotal.WithLabelValues(string(mode), outcome).Inc()
	queryDuration.WithLabelValues(string(mode)).Observe(time.Since(start).Seconds())
}
