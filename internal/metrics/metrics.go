// Package metrics exposes Prometheus collectors for the harvester.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	fetchesTotal     *prometheus.CounterVec
	extractionsTotal *prometheus.CounterVec
	upsertsTotal     *prometheus.CounterVec
	batchRecords     prometheus.Gauge

	once sync.Once
)

// Init registers the collectors. Safe to call multiple times.
func Init() {
	once.Do(func() {
		fetchesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "harvester_fetches_total",
				Help: "Terminal fetch outcomes, labeled by result.",
			},
			[]string{"result"},
		)
		extractionsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "harvester_extractions_total",
				Help: "Seed extractions, labeled by outcome.",
			},
			[]string{"outcome"},
		)
		upsertsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "harvester_upserts_total",
				Help: "Store reconciliations, labeled by outcome.",
			},
			[]string{"outcome"},
		)
		batchRecords = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "harvester_batch_records",
				Help: "Number of records in the current batch.",
			},
		)
	})
}

// RecordFetch counts one terminal fetch outcome ("ok" or a fail
// reason class).
func RecordFetch(result string) {
	Init()
	fetchesTotal.WithLabelValues(result).Inc()
}

// RecordExtraction counts one seed extraction outcome.
func RecordExtraction(outcome string) {
	Init()
	extractionsTotal.WithLabelValues(outcome).Inc()
}

// RecordUpsert counts one reconciliation outcome
// ("created", "updated", or "failed").
func RecordUpsert(outcome string) {
	Init()
	upsertsTotal.WithLabelValues(outcome).Inc()
}

// SetBatchSize records the size of the batch being reconciled.
func SetBatchSize(n int) {
	Init()
	batchRecords.Set(float64(n))
}
