package streaming

import "github.com/prometheus/client_golang/prometheus"

// Metrics Prometheus-метрики активного окна
type Metrics struct {
	active     prometheus.Gauge
	requests   prometheus.Counter
	duplicates prometheus.Counter
	delivered  prometheus.Counter
	published  prometheus.Counter
}

// NewMetrics создаёт метрики и регистрирует их в reg, если он задан
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		active: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "terra",
			Subsystem: "world",
			Name:      "active_chunks",
			Help:      "Чанков в активном окне.",
		}),
		requests: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "terra",
			Subsystem: "world",
			Name:      "chunk_requests_total",
			Help:      "Запросов загрузки, отправленных загрузчику.",
		}),
		duplicates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "terra",
			Subsystem: "world",
			Name:      "duplicate_requests_total",
			Help:      "Повторных запросов, отброшенных из-за загрузки в пути.",
		}),
		delivered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "terra",
			Subsystem: "world",
			Name:      "chunks_delivered_total",
			Help:      "Чанков, принятых из загрузчика.",
		}),
		published: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "terra",
			Subsystem: "world",
			Name:      "surface_publishes_total",
			Help:      "Публикаций поверхностей в движок коллизий.",
		}),
	}

	if reg != nil {
		reg.MustRegister(m.active, m.requests, m.duplicates, m.delivered, m.published)
	}
	return m
}
