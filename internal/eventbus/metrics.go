package eventbus

import "github.com/prometheus/client_golang/prometheus"

// RegisterMetrics регистрирует метрики шины в reg. Значения читаются из
// Stats() при каждом опросе, отдельная горутина обновления не нужна.
func RegisterMetrics(reg prometheus.Registerer, bus Bus) {
	reg.MustRegister(
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: "terra",
			Subsystem: "eventbus",
			Name:      "messages_published_total",
			Help:      "Общее число опубликованных событий.",
		}, func() float64 { return float64(bus.Stats().Published) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: "terra",
			Subsystem: "eventbus",
			Name:      "messages_consumed_total",
			Help:      "Общее число доставок событий подписчикам.",
		}, func() float64 { return float64(bus.Stats().Consumed) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: "terra",
			Subsystem: "eventbus",
			Name:      "messages_dropped_total",
			Help:      "Событий, отброшенных из-за заполненного буфера.",
		}, func() float64 { return float64(bus.Stats().Dropped) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "terra",
			Subsystem: "eventbus",
			Name:      "messages_inflight",
			Help:      "Количество событий в буфере.",
		}, func() float64 { return float64(bus.Stats().InFlight) }),
	)
}
