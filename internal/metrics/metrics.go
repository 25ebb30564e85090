// Package metrics exposes Prometheus metrics for level upgrade batches.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/dtroode/levelkeeper/internal/model"
)

const namespace = "levelkeeper"

var _ model.UpgradeObserver = (*Metrics)(nil)

// Metrics records batch outcomes. It is registered on the Registerer given to New.
type Metrics struct {
	batchesTotal    *prometheus.CounterVec
	upgradesTotal   *prometheus.CounterVec
	usersScanned    prometheus.Gauge
	batchDuration   prometheus.Histogram
	lastSuccessTime prometheus.Gauge
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		batchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "batch",
				Name:      "runs_total",
				Help:      "Total number of level upgrade batches by outcome",
			},
			[]string{"status"},
		),
		upgradesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "batch",
				Name:      "upgrades_total",
				Help:      "Total number of committed level upgrades by new level",
			},
			[]string{"level"},
		),
		usersScanned: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "batch",
				Name:      "users_scanned",
				Help:      "Number of users read by the last batch",
			},
		),
		batchDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "batch",
				Name:      "duration_seconds",
				Help:      "Duration of level upgrade batches in seconds",
				Buckets:   []float64{.01, .05, .1, .5, 1, 5, 10, 30, 60, 300},
			},
		),
		lastSuccessTime: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "batch",
				Name:      "last_success_timestamp_seconds",
				Help:      "Unix time of the last committed batch",
			},
		),
	}
}

// BatchFinished implements model.UpgradeObserver.
func (m *Metrics) BatchFinished(result model.UpgradeResult, err error) {
	m.batchDuration.Observe(result.FinishedAt.Sub(result.StartedAt).Seconds())
	m.usersScanned.Set(float64(result.Scanned))

	if err != nil {
		m.batchesTotal.WithLabelValues("rolled_back").Inc()
		return
	}

	m.batchesTotal.WithLabelValues("committed").Inc()
	m.lastSuccessTime.Set(float64(result.FinishedAt.Unix()))
	for _, u := range result.Upgraded {
		m.upgradesTotal.WithLabelValues(u.Level.String()).Inc()
	}
}
