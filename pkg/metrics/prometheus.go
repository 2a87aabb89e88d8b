package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	jobsTotal     *prometheus.CounterVec
	errorsTotal   *prometheus.CounterVec
	scanCurrent   prometheus.Gauge
	scanTotal     prometheus.Gauge
	engineCallDur *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		jobsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backscan_jobs_total",
				Help: "Total number of scan jobs processed, by outcome class",
			},
			[]string{"status"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backscan_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		scanCurrent: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "backscan_scan_jobs_completed",
				Help: "Jobs completed in the current scan run",
			},
		),
		scanTotal: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "backscan_scan_jobs_planned",
				Help: "Jobs planned for the current scan run",
			},
		),
		engineCallDur: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "backscan_engine_call_duration_seconds",
				Help:    "Duration of backtest engine calls in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordJob records a finished job by outcome class (success, failed, error).
func (r *Recorder) RecordJob(status string) {
	r.jobsTotal.WithLabelValues(status).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordEngineCall records engine call latency in seconds.
func (r *Recorder) RecordEngineCall(op string, seconds float64) {
	r.engineCallDur.WithLabelValues(op).Observe(seconds)
}

// SetScanProgress updates run progress gauges.
func (r *Recorder) SetScanProgress(current, total int) {
	r.scanCurrent.Set(float64(current))
	r.scanTotal.Set(float64(total))
}
