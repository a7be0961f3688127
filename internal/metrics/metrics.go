// Package metrics records run statistics for an import and writes them in
// the node-exporter textfile format.
package metrics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "qumulo_import"

// Import results.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Recorder holds the metrics of one run in a private registry.
// A nil *Recorder is valid and records nothing.
type Recorder struct {
	registry *prometheus.Registry

	apiRequests     *prometheus.CounterVec
	rendered        *prometheus.CounterVec
	imports         *prometheus.CounterVec
	featureDuration *prometheus.HistogramVec
}

// NewRecorder creates a recorder with all metrics registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),

		apiRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "api_requests_total",
				Help:      "Total number of Qumulo API requests by endpoint and status code",
			},
			[]string{"endpoint", "status"},
		),

		rendered: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "resources_rendered_total",
				Help:      "Total number of resource blocks written by feature",
			},
			[]string{"feature"},
		),

		imports: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "imports_total",
				Help:      "Total number of terraform import commands by result",
			},
			[]string{"result"},
		),

		featureDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "feature_duration_seconds",
				Help:      "Time spent exporting and importing one feature",
				Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12), // 50ms to ~100s
			},
			[]string{"feature"},
		),
	}

	r.registry.MustRegister(r.apiRequests, r.rendered, r.imports, r.featureDuration)
	return r
}

// APIRequest records one API round trip. Status 0 means no response.
func (r *Recorder) APIRequest(endpoint string, status int) {
	if r == nil {
		return
	}
	label := "error"
	if status != 0 {
		label = strconv.Itoa(status)
	}
	r.apiRequests.WithLabelValues(endpoint, label).Inc()
}

// Rendered records a resource block written for feature.
func (r *Recorder) Rendered(feature string) {
	if r == nil {
		return
	}
	r.rendered.WithLabelValues(feature).Inc()
}

// ImportResult records the outcome of one terraform import.
func (r *Recorder) ImportResult(err error) {
	if r == nil {
		return
	}
	result := ResultSuccess
	if err != nil {
		result = ResultFailure
	}
	r.imports.WithLabelValues(result).Inc()
}

// ObserveFeature records how long a feature took.
func (r *Recorder) ObserveFeature(feature string, d time.Duration) {
	if r == nil {
		return
	}
	r.featureDuration.WithLabelValues(feature).Observe(d.Seconds())
}

// WriteTextfile writes all metrics to path atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
