package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters for the booking ingestion pipeline.
type BookingMetrics struct {
	ingestedTotal *prometheus.CounterVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		ingestedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "brightpaws",
			Subsystem: "bookings",
			Name:      "ingested_total",
			Help:      "Total booking submissions by outcome",
		}, []string{"outcome"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.ingestedTotal)
	return m
}

func (m *BookingMetrics) ObserveIngestion(outcome string) {
	if m == nil {
		return
	}
	m.ingestedTotal.WithLabelValues(outcome).Inc()
}

// MediaMetrics exposes counters/histograms for media uploads.
type MediaMetrics struct {
	uploadsTotal *prometheus.CounterVec
	uploadBytes  prometheus.Histogram
}

func NewMediaMetrics(reg prometheus.Registerer) *MediaMetrics {
	m := &MediaMetrics{
		uploadsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "brightpaws",
			Subsystem: "media",
			Name:      "uploads_total",
			Help:      "Total media uploads by kind and status",
		}, []string{"kind", "status"}),
		uploadBytes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "brightpaws",
			Subsystem: "media",
			Name:      "upload_bytes",
			Help:      "Size of direct uploads in bytes",
			Buckets:   prometheus.ExponentialBuckets(1024, 4, 8),
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.uploadsTotal, m.uploadBytes)
	return m
}

func (m *MediaMetrics) ObserveUpload(kind, status string, bytes int64) {
	if m == nil {
		return
	}
	m.uploadsTotal.WithLabelValues(kind, status).Inc()
	if bytes > 0 {
		m.uploadBytes.Observe(float64(bytes))
	}
}
