// Package metrics exposes Prometheus instrumentation on a private registry.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/JaimeStill/jobarch/pkg/cache"
	"github.com/JaimeStill/jobarch/pkg/middleware"
)

const namespace = "jobarch"

// Result label values.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Metrics holds the service collectors.
type Metrics struct {
	registry *prometheus.Registry
	factory  promauto.Factory

	TableLoads      *prometheus.CounterVec
	Downloads       *prometheus.CounterVec
	Extractions     *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// New creates a Metrics instance with Go runtime and process collectors registered.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		factory:  factory,
		TableLoads: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "table_loads_total",
			Help:      "Spreadsheet loads that reached storage.",
		}, []string{"table", "result"}),
		Downloads: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "attachment_downloads_total",
			Help:      "Attachment downloads served.",
		}, []string{"ext"}),
		Extractions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "slide_extractions_total",
			Help:      "Slide deck text extractions.",
		}, []string{"result"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by module.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"module", "method", "code"}),
	}
}

// Registry returns the private registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveLoad records a table load outcome. Its signature matches table.LoadObserver.
func (m *Metrics) ObserveLoad(table string, err error) {
	m.TableLoads.WithLabelValues(table, result(err)).Inc()
}

// ObserveExtraction records a slide extraction outcome.
func (m *Metrics) ObserveExtraction(err error) {
	m.Extractions.WithLabelValues(result(err)).Inc()
}

// ObserveDownload records an attachment download by file extension.
func (m *Metrics) ObserveDownload(ext string) {
	m.Downloads.WithLabelValues(ext).Inc()
}

// RegisterCache exposes hit, miss and entry counts of a cache under the given name.
func (m *Metrics) RegisterCache(name string, stats func() cache.Stats) {
	labels := prometheus.Labels{"cache": name}

	m.factory.NewCounterFunc(prometheus.CounterOpts{
		Namespace:   namespace,
		Name:        "cache_hits_total",
		Help:        "Cache lookups served from memory.",
		ConstLabels: labels,
	}, func() float64 { return float64(stats().Hits) })

	m.factory.NewCounterFunc(prometheus.CounterOpts{
		Namespace:   namespace,
		Name:        "cache_misses_total",
		Help:        "Cache lookups that triggered a load.",
		ConstLabels: labels,
	}, func() float64 { return float64(stats().Misses) })

	m.factory.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace:   namespace,
		Name:        "cache_entries",
		Help:        "Entries currently cached.",
		ConstLabels: labels,
	}, func() float64 { return float64(stats().Entries) })
}

// Middleware records request latency for the named module.
func (m *Metrics) Middleware(module string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := middleware.NewStatusRecorder(w)
			next.ServeHTTP(rec, r)
			m.RequestDuration.
				WithLabelValues(module, r.Method, strconv.Itoa(rec.Status)).
				Observe(time.Since(start).Seconds())
		})
	}
}

func result(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultOK
}
