package observe

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.39.0"
)

// ProviderConfig configures the OpenTelemetry SDK provider.
type ProviderConfig struct {
	// ServiceName is the service name reported in telemetry. Default: "kcstape".
	ServiceName string

	// ServiceVersion is the service version reported in telemetry.
	ServiceVersion string
}

// InitProvider initialises the OTel metrics SDK with a manual reader suited
// to a one-shot CLI: nothing is exported while the run is in progress, and
// [LogSummary] collects everything once at the end. The provider is
// registered as the global OTel meter provider.
//
// The returned shutdown function flushes the provider; call it in a defer
// from main().
func InitProvider(cfg ProviderConfig) (mp *sdkmetric.MeterProvider, reader *sdkmetric.ManualReader, shutdown func(context.Context) error, err error) {
	if cfg.ServiceName == "" {
		cfg.ServiceName = "kcstape"
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.ServiceVersion),
		),
	)
	if err != nil {
		return nil, nil, nil, err
	}

	reader = sdkmetric.NewManualReader()
	mp = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
	)
	otel.SetMeterProvider(mp)

	return mp, reader, mp.Shutdown, nil
}

// LogSummary collects the accumulated metrics from reader and logs one line
// per instrument: summed totals for counters, count and total for histograms.
func LogSummary(ctx context.Context, reader *sdkmetric.ManualReader) {
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		slog.Warn("metrics collection failed", "err", err)
		return
	}

	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				var total int64
				for _, dp := range data.DataPoints {
					total += dp.Value
				}
				slog.Info("run metric", "name", m.Name, "total", total)
			case metricdata.Histogram[float64]:
				var count uint64
				var sum float64
				for _, dp := range data.DataPoints {
					count += dp.Count
					sum += dp.Sum
				}
				slog.Info("run metric", "name", m.Name, "count", count, "sum_seconds", sum)
			}
		}
	}
}
