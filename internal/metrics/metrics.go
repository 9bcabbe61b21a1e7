// Package metrics exposes Prometheus collectors for the RPC layer and the
// project and payment flows.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "apex"

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	rpcRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "rpc",
			Name:      "requests_total",
			Help:      "Total number of RPC calls handled.",
		},
		[]string{"procedure", "code"},
	)

	rpcDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "rpc",
			Name:      "request_duration_seconds",
			Help:      "Duration of RPC calls.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"procedure"},
	)

	projectsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "projects",
			Name:      "created_total",
			Help:      "Projects created, by service and package.",
		},
		[]string{"service", "package"},
	)

	codeCollisions = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "projects",
			Name:      "code_collisions_total",
			Help:      "Project code collisions that forced a regeneration.",
		},
	)

	payments = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "payments",
			Name:      "processed_total",
			Help:      "Payment attempts, by gateway and outcome.",
		},
		[]string{"gateway", "outcome"},
	)

	revenue = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "payments",
			Name:      "distributed_amount_total",
			Help:      "Amount distributed per bucket, in major currency units.",
		},
		[]string{"currency", "bucket"},
	)
)

func init() {
	Registry.MustRegister(
		rpcRequests,
		rpcDuration,
		projectsCreated,
		codeCollisions,
		payments,
		revenue,
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// RecordRPC records one completed RPC call.
func RecordRPC(procedure, code string, duration time.Duration) {
	rpcRequests.WithLabelValues(procedure, code).Inc()
	rpcDuration.WithLabelValues(procedure).Observe(duration.Seconds())
}

// RecordProjectCreated counts a successfully created project.
func RecordProjectCreated(service, pkg string) {
	projectsCreated.WithLabelValues(service, pkg).Inc()
}

// RecordCodeCollision counts a project code that had to be regenerated.
func RecordCodeCollision() {
	codeCollisions.Inc()
}

// RecordPayment counts a payment attempt.
func RecordPayment(gateway string, success bool) {
	outcome := "failed"
	if success {
		outcome = "completed"
	}
	payments.WithLabelValues(gateway, outcome).Inc()
}

// RecordDistribution adds the distributed shares to the revenue counters.
func RecordDistribution(currency string, aiUpgrade, reserveFund, ownerRevenue float64) {
	revenue.WithLabelValues(currency, "ai_upgrade").Add(aiUpgrade)
	revenue.WithLabelValues(currency, "reserve_fund").Add(reserveFund)
	revenue.WithLabelValues(currency, "owner_revenue").Add(ownerRevenue)
}
