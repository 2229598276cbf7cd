package scheduler

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	unitsTotal   *prometheus.CounterVec
	unitDuration *prometheus.HistogramVec
	pending      prometheus.Gauge
}

func newMetrics(reg prometheus.Registerer) *metrics {
	factory := promauto.With(reg)

	return &metrics{
		unitsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vango",
			Subsystem: "lifecycle",
			Name:      "units_total",
			Help:      "Total number of lifecycle units executed",
		}, []string{"lane"}),

		unitDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "vango",
			Subsystem: "lifecycle",
			Name:      "unit_duration_seconds",
			Help:      "Lifecycle unit execution duration in seconds",
			Buckets:   []float64{.00001, .0001, .001, .01, .1, 1},
		}, []string{"lane"}),

		pending: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "vango",
			Subsystem: "lifecycle",
			Name:      "pending_units",
			Help:      "Number of queued lifecycle units",
		}),
	}
}

func (m *metrics) observe(lane Lane, d time.Duration) {
	m.unitsTotal.WithLabelValues(string(lane)).Inc()
	m.unitDuration.WithLabelValues(string(lane)).Observe(d.Seconds())
}
