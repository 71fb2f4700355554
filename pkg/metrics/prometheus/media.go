package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/coverkeep/coverkeep/pkg/metrics"
)

// mediaMetrics is the Prometheus implementation for upload metrics.
type mediaMetrics struct {
	uploadsTotal   *prometheus.CounterVec
	uploadBytes    *prometheus.CounterVec
	uploadDuration *prometheus.HistogramVec
}

// NewMediaMetrics creates a new Prometheus-backed media metrics instance.
//
// Returns nil if metrics are not enabled (InitRegistry not called).
func NewMediaMetrics() *mediaMetrics {
	if !metrics.IsEnabled() {
		return nil
	}

	reg := metrics.GetRegistry()

	return &mediaMetrics{
		uploadsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "coverkeep_media_uploads_total",
				Help: "Total number of image upload attempts by folder and outcome",
			},
			[]string{"folder", "outcome"},
		),
		uploadBytes: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "coverkeep_media_upload_bytes_total",
				Help: "Total bytes uploaded by folder",
			},
			[]string{"folder"},
		),
		uploadDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "coverkeep_media_upload_duration_seconds",
				Help:    "Image upload latency by folder",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"folder"},
		),
	}
}

// RecordUpload records a completed upload attempt.
func (m *mediaMetrics) RecordUpload(folder, outcome string, bytes int64, duration time.Duration) {
	if m == nil {
		return
	}
	m.uploadsTotal.WithLabelValues(folder, outcome).Inc()
	if outcome == "success" && bytes > 0 {
		m.uploadBytes.WithLabelValues(folder).Add(float64(bytes))
	}
	m.uploadDuration.WithLabelValues(folder).Observe(duration.Seconds())
}
