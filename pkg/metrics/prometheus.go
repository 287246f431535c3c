package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	fetchesTotal    *prometheus.CounterVec
	fetchErrors     *prometheus.CounterVec
	provenance      *prometheus.CounterVec
	confidence      prometheus.Gauge
	signalsFound    *prometheus.GaugeVec
	scanDuration    *prometheus.HistogramVec
	scanCyclesTotal prometheus.Counter
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		fetchesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketpulse_upstream_fetches_total",
				Help: "Total number of upstream fetch calls",
			},
			[]string{"source"},
		),
		fetchErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketpulse_upstream_errors_total",
				Help: "Total number of upstream fetch failures after retries",
			},
			[]string{"source"},
		),
		provenance: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketpulse_resolutions_total",
				Help: "Tiered resolutions by asset and provenance status",
			},
			[]string{"asset", "status"},
		),
		confidence: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "marketpulse_snapshot_confidence",
				Help: "Confidence score of the last assembled snapshot",
			},
		),
		signalsFound: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "marketpulse_cross_signals",
				Help: "Cross signals published in the last scan cycle",
			},
			[]string{"cross_type"},
		),
		scanDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "marketpulse_scan_duration_seconds",
				Help:    "Duration of per-exchange scans in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"exchange"},
		),
		scanCyclesTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "marketpulse_scan_cycles_total",
				Help: "Completed scanner cycles",
			},
		),
	}
}

// RecordFetch records an upstream fetch call for a source.
func (r *Recorder) RecordFetch(source string) {
	r.fetchesTotal.WithLabelValues(source).Inc()
}

// RecordFetchError records an upstream fetch failure for a source.
func (r *Recorder) RecordFetchError(source string) {
	r.fetchErrors.WithLabelValues(source).Inc()
}

// RecordResolution records the provenance outcome of one tiered resolution.
func (r *Recorder) RecordResolution(asset, status string) {
	r.provenance.WithLabelValues(asset, status).Inc()
}

// RecordConfidence records the last snapshot confidence score.
func (r *Recorder) RecordConfidence(score float64) {
	r.confidence.Set(score)
}

// RecordSignals records the signal count published for a cross type.
func (r *Recorder) RecordSignals(crossType string, count int) {
	r.signalsFound.WithLabelValues(crossType).Set(float64(count))
}

// RecordScanDuration records how long one exchange scan took.
func (r *Recorder) RecordScanDuration(exchange string, seconds float64) {
	r.scanDuration.WithLabelValues(exchange).Observe(seconds)
}

// RecordScanCycle records one completed scanner cycle.
func (r *Recorder) RecordScanCycle() {
	r.scanCyclesTotal.Inc()
}
