package observability

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/annel0/terra2d/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRegistry реестр метрик процесса с runtime и process коллекторами
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// MetricsHandler http.Handler для /metrics поверх gatherer
func MetricsHandler(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	return mux
}

// ServeMetrics запускает HTTP сервер метрик на порту port в отдельной горутине.
// Сервер останавливается через Shutdown.
func ServeMetrics(port int, gatherer prometheus.Gatherer) *http.Server {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           MetricsHandler(gatherer),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Сервер метрик остановлен с ошибкой: %v", err)
		}
	}()
	logging.Info("📊 Prometheus метрики на http://localhost:%d/metrics", port)
	return srv
}
