// Package metrics содержит Prometheus-метрики генерации журналов пробега.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LogsGenerated — счетчик успешно сгенерированных журналов по видам деятельности.
	LogsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mileage_logs_generated_total",
			Help: "Total number of mileage logs generated",
		},
		[]string{"business_type"},
	)

	// GenerationFailed — счетчик неудачных попыток генерации по причинам.
	GenerationFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mileage_logs_generation_failed_total",
			Help: "Total number of failed mileage log generations",
		},
		[]string{"reason"},
	)

	// GenerationDuration — гистограмма длительности генерации журнала.
	GenerationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "mileage_log_generation_duration_seconds",
			Help: "Duration of mileage log generation in seconds",
		},
	)

	// EntriesPerLog — гистограмма числа поездок в сгенерированных журналах.
	EntriesPerLog = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mileage_log_entries_per_log",
			Help:    "Number of trip entries per generated mileage log",
			Buckets: prometheus.LinearBuckets(0, 50, 10),
		},
	)
)
