package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "consorcio_"

	ResultSuccess = "success"
	ResultInvalid = "invalid"
	ResultError   = "error"
)

var (
	registerOnce sync.Once

	projectionTotal   *prometheus.CounterVec
	projectionLatency *prometheus.HistogramVec
	projectionMonths  prometheus.Histogram

	sensitivityRuns *prometheus.CounterVec

	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec
)

// Init registers the collectors once with reg. Observations made before Init are dropped.
func Init(reg prometheus.Registerer) {
	registerOnce.Do(func() {
		projectionTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "projections_total",
				Help: "Total schedule projections by result",
			},
			[]string{"result"},
		)
		projectionLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "projection_latency_seconds",
				Help:    "Schedule projection latency in seconds",
				Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1},
			},
			[]string{"result"},
		)
		projectionMonths = prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "projection_term_months",
				Help:    "Term length of projected plans",
				Buckets: []float64{12, 36, 60, 100, 120, 180, 240, 300},
			},
		)
		sensitivityRuns = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "sensitivity_runs_total",
				Help: "Total sensitivity sweeps by parameter",
			},
			[]string{"parameter"},
		)
		httpRequests = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "http_requests_total",
				Help: "Total API requests by route and status class",
			},
			[]string{"route", "status"},
		)
		httpLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "http_request_latency_seconds",
				Help:    "API request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		)

		reg.MustRegister(
			projectionTotal,
			projectionLatency,
			projectionMonths,
			sensitivityRuns,
			httpRequests,
			httpLatency,
		)
	})
}

// ObserveProjection records one projection run
func ObserveProjection(result string, termMonths int, elapsed time.Duration) {
	if projectionTotal == nil {
		return
	}
	projectionTotal.WithLabelValues(result).Inc()
	projectionLatency.WithLabelValues(result).Observe(elapsed.Seconds())
	if result == ResultSuccess {
		projectionMonths.Observe(float64(termMonths))
	}
}

// ObserveSensitivity records one parameter sweep
func ObserveSensitivity(parameter string) {
	if sensitivityRuns == nil {
		return
	}
	sensitivityRuns.WithLabelValues(parameter).Inc()
}

// ObserveHTTP records one API request
func ObserveHTTP(route string, status int, elapsed time.Duration) {
	if httpRequests == nil {
		return
	}
	httpRequests.WithLabelValues(route, statusClass(status)).Inc()
	httpLatency.WithLabelValues(route).Observe(elapsed.Seconds())
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
