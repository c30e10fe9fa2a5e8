package observability

import (
	"context"
	"fmt"
	"time"

	"github.com/annel0/terra2d/internal/logging"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
)

// TracingOptions параметры экспорта трасс
type TracingOptions struct {
	ServiceName string
	// Endpoint host:port OTLP коллектора, пусто - localhost:4318 или OTEL_EXPORTER_OTLP_ENDPOINT
	Endpoint string
	Insecure bool
	// SampleRatio доля сохраняемых трасс, 0 означает 1
	SampleRatio float64
	// WorldName и Seed добавляются в ресурс, чтобы трассы разных миров различались
	WorldName string
	Seed      int64
}

// InitTelemetry настраивает OTLP экспортер и устанавливает глобальный TracerProvider.
// Возвращает функцию shutdown, которую нужно вызвать при завершении приложения.
// Без вызова InitTelemetry спаны загрузчика и Setup уходят в no-op провайдер.
func InitTelemetry(ctx context.Context, opts TracingOptions) (func(context.Context) error, error) {
	var exporterOpts []otlptracehttp.Option
	if opts.Endpoint != "" {
		exporterOpts = append(exporterOpts, otlptracehttp.WithEndpoint(opts.Endpoint))
	}
	if opts.Insecure {
		exporterOpts = append(exporterOpts, otlptracehttp.WithInsecure())
	}
	exp, err := otlptracehttp.New(ctx, exporterOpts...)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания OTLP экспортера: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(opts.ServiceName),
			attribute.String("terra.world", opts.WorldName),
			attribute.Int64("terra.seed", opts.Seed),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания ресурса трассировки: %w", err)
	}

	ratio := opts.SampleRatio
	if ratio <= 0 || ratio > 1 {
		ratio = 1
	}
	tp := trace.NewTracerProvider(
		trace.WithBatcher(exp),
		trace.WithResource(res),
		trace.WithSampler(trace.ParentBased(trace.TraceIDRatioBased(ratio))),
	)

	otel.SetTracerProvider(tp)
	logging.Info("📡 OpenTelemetry инициализирован (service=%s, мир %q, выборка %.2f)", opts.ServiceName, opts.WorldName, ratio)

	shutdown := func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return tp.Shutdown(ctx)
	}
	return shutdown, nil
}
