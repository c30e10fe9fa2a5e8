package loader

import "github.com/prometheus/client_golang/prometheus"

// Metrics Prometheus-метрики загрузчика чанков
type Metrics struct {
	loaded    prometheus.Counter
	generated prometheus.Counter
	failures  *prometheus.CounterVec
	duration  prometheus.Histogram
	pending   prometheus.Gauge
}

// NewMetrics создаёт метрики и регистрирует их в reg, если он задан
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		loaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "terra",
			Subsystem: "loader",
			Name:      "chunks_loaded_total",
			Help:      "Чанков загружено и материализовано.",
		}),
		generated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "terra",
			Subsystem: "loader",
			Name:      "chunks_generated_total",
			Help:      "Чанков сгенерировано при первой загрузке.",
		}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "terra",
			Subsystem: "loader",
			Name:      "failures_total",
			Help:      "Фатальные ошибки загрузки по причинам.",
		}, []string{"reason"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "terra",
			Subsystem: "loader",
			Name:      "chunk_load_seconds",
			Help:      "Время от начала загрузки чанка до постановки в очередь готовых.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
		}),
		pending: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "terra",
			Subsystem: "loader",
			Name:      "requests_pending",
			Help:      "Запросов в очереди загрузчика.",
		}),
	}

	if reg != nil {
		reg.MustRegister(m.loaded, m.generated, m.failures, m.duration, m.pending)
	}
	return m
}
