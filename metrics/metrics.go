package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// DemoRuns counts demo operations by demo and result
	DemoRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "systime_demo_runs_total",
			Help: "Total number of demo operations run",
		},
		[]string{"demo", "result"},
	)

	// DemoDuration tracks how long each demo operation took
	DemoDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "systime_demo_duration_seconds",
			Help:    "Demo operation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"demo"},
	)

	// Parses counts datetime parses by pattern and result
	Parses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "systime_parse_total",
			Help: "Total number of datetime parses",
		},
		[]string{"pattern", "result"},
	)

	// Rows counts rows written and read by operation
	Rows = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "systime_rows_total",
			Help: "Total rows handled by the store",
		},
		[]string{"op"},
	)

	once sync.Once
)

// Init registers all metrics with Prometheus
func Init() {
	once.Do(func() {
		prometheus.MustRegister(DemoRuns)
		prometheus.MustRegister(DemoDuration)
		prometheus.MustRegister(Parses)
		prometheus.MustRegister(Rows)
	})
}

// Result returns the result label for err
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// WriteTextfile writes all registered metrics to path in the text exposition
// format read by the node exporter textfile collector
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
