package analyzer

import (
	"net/http"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	analysesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "statengine_analyses_total",
			Help: "Total number of descriptive analyses performed.",
		},
	)

	hypothesisTestsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "statengine_hypothesis_tests_total",
			Help: "Total number of hypothesis tests run.",
		},
	)

	significantResultsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "statengine_significant_results_total",
			Help: "Total number of hypothesis tests that reached significance.",
		},
	)

	registered uint32
)

// RegisterMetrics registers and exposes Prometheus metrics on /metrics.
func RegisterMetrics(mux *http.ServeMux) {
	if atomic.CompareAndSwapUint32(&registered, 0, 1) {
		prometheus.MustRegister(analysesTotal, hypothesisTestsTotal, significantResultsTotal)
	}
	mux.Handle("/metrics", promhttp.Handler())
}
