package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
// Each Recorder owns its registry so a run never touches global state.
type Recorder struct {
	registry      *prometheus.Registry
	stageDuration *prometheus.HistogramVec
	errorsTotal   *prometheus.CounterVec
	samples       *prometheus.GaugeVec
	fitRMSE       *prometheus.GaugeVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		stageDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "battfit_stage_duration_seconds",
				Help:    "Duration of pipeline stages in seconds",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
			},
			[]string{"stage"},
		),
		errorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "battfit_errors_total",
				Help: "Total number of failed pipeline stages",
			},
			[]string{"stage"},
		),
		samples: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "battfit_samples",
				Help: "Number of samples handed to the fitter",
			},
			[]string{"series"},
		),
		fitRMSE: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "battfit_fit_rmse",
				Help: "Root mean squared residual of the polynomial fit",
			},
			[]string{"series"},
		),
	}
}

// RecordStage records stage latency in seconds.
func (r *Recorder) RecordStage(stage string, seconds float64) {
	r.stageDuration.WithLabelValues(stage).Observe(seconds)
}

// RecordError records a failed stage.
func (r *Recorder) RecordError(stage string) {
	r.errorsTotal.WithLabelValues(stage).Inc()
}

// RecordSamples records how many samples a series carries.
func (r *Recorder) RecordSamples(series string, n int) {
	r.samples.WithLabelValues(series).Set(float64(n))
}

// RecordFit records the residual error of a fit.
func (r *Recorder) RecordFit(series string, rmse float64) {
	r.fitRMSE.WithLabelValues(series).Set(rmse)
}

// WriteTextfile writes all metrics in the text exposition format, for the
// node_exporter textfile collector. The write is atomic.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
