// Package monitoring exposes Prometheus instrumentation for the
// booking flow.  Metrics are registered with promauto at init time
// and served from /metrics.
package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	reservationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reservations_total",
			Help: "Reservation attempts by outcome",
		},
		[]string{"outcome"},
	)

	reservationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "reservation_duration_seconds",
			Help:    "Wall time of reservation requests",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
		},
	)
)

// ObserveReservation records one reservation attempt with its outcome
// label and the elapsed time since start.
func ObserveReservation(outcome string, start time.Time) {
	reservationsTotal.WithLabelValues(outcome).Inc()
	reservationDuration.Observe(time.Since(start).Seconds())
}
