package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aguad_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "aguad_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	storeOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aguad_store_outcomes_total",
		Help: "Count of record store calls by outcome",
	}, []string{"outcome"})

	loginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aguad_login_attempts_total",
		Help: "Count of PIN checks by result",
	}, []string{"result"})

	exportJobs = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aguad_export_jobs_total",
		Help: "Count of client report exports by result",
	}, []string{"result"})

	activeClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "aguad_active_clients",
		Help: "Number of active clients",
	})

	clientsWithDebt = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "aguad_clients_with_debt",
		Help: "Number of clients with at least one pending payment",
	})

	paymentsThisMonth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "aguad_payments_this_month",
		Help: "Paid payments recorded in the current calendar month",
	})

	excessConsumption = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "aguad_excess_consumption_clients",
		Help: "Clients with an excess reading in the current calendar month",
	})

	lastRefresh = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "aguad_dashboard_last_refresh_timestamp_seconds",
		Help: "Unix time of the last successful dashboard refresh",
	})
)

// ObserveHTTPRequest records an HTTP request metric
func ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	code := strconv.Itoa(status)
	httpRequestsTotal.WithLabelValues(method, path, code).Inc()
	httpRequestDuration.WithLabelValues(method, path, code).Observe(duration.Seconds())
}

// ObserveOutcome counts a store call result: ok, validation, not_found,
// conflict, unauthorized or error.
func ObserveOutcome(outcome string) {
	storeOutcomes.WithLabelValues(outcome).Inc()
}

// ObserveLogin counts a PIN check.
func ObserveLogin(ok bool) {
	result := "rejected"
	if ok {
		result = "accepted"
	}
	loginAttempts.WithLabelValues(result).Inc()
}

// ObserveExport counts a finished report export.
func ObserveExport(result string) {
	exportJobs.WithLabelValues(result).Inc()
}

// SetDashboard publishes the dashboard counters.
func SetDashboard(active, debt, paidThisMonth, excess int64, at time.Time) {
	activeClients.Set(float64(active))
	clientsWithDebt.Set(float64(debt))
	paymentsThisMonth.Set(float64(paidThisMonth))
	excessConsumption.Set(float64(excess))
	lastRefresh.Set(float64(at.Unix()))
}
