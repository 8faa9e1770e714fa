// Package metrics exports Prometheus metrics for relay invocations.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/phrazzld/blogrelay/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "blogrelay"

// Metrics holds all relay Prometheus metrics.
type Metrics struct {
	registry *prometheus.Registry

	PipelineRuns     *prometheus.CounterVec
	PipelineDuration *prometheus.HistogramVec
	UpstreamStatus   *prometheus.CounterVec
	ArtifactBytes    prometheus.Histogram
}

// New registers the relay metrics, plus Go runtime and process collectors,
// on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		PipelineRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pipeline_runs_total",
			Help:      "Relay invocations by terminal state and failure reason",
		}, []string{"state", "reason"}),
		PipelineDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pipeline_duration_seconds",
			Help:      "Wall time of a relay invocation, generation call included",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 30, 60},
		}, []string{"state"}),
		UpstreamStatus: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_status_total",
			Help:      "Generation service responses by provider and HTTP status",
		}, []string{"provider", "code"}),
		ArtifactBytes: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "artifact_text_bytes",
			Help:      "Size of generated text written to the object store",
			Buckets:   prometheus.ExponentialBuckets(64, 2, 10),
		}),
	}
}

// RecordRun counts a finished invocation. reason is empty for successes.
func (m *Metrics) RecordRun(state domain.PipelineState, reason string, elapsed time.Duration) {
	m.PipelineRuns.WithLabelValues(string(state), reason).Inc()
	m.PipelineDuration.WithLabelValues(string(state)).Observe(elapsed.Seconds())
}

// RecordUpstreamStatus counts one generation response.
func (m *Metrics) RecordUpstreamStatus(provider string, code int) {
	m.UpstreamStatus.WithLabelValues(provider, strconv.Itoa(code)).Inc()
}

// RecordArtifact observes the size of stored text.
func (m *Metrics) RecordArtifact(textBytes int) {
	m.ArtifactBytes.Observe(float64(textBytes))
}

// Registry exposes the underlying registry for tests and extra collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the Prometheus HTTP handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
