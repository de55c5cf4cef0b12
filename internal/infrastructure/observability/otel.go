package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

const meterName = "github.com/kasamira/Pantryrecipediscoverydesign/backend"

const metricExportInterval = 15 * time.Second

// Metrics holds all application metrics
type Metrics struct {
	RequestCount      metric.Int64Counter
	RequestDuration   metric.Float64Histogram
	DBQueryDuration   metric.Float64Histogram
	CacheHitCount     metric.Int64Counter
	CacheMissCount    metric.Int64Counter
	SearchResultCount metric.Int64Histogram
	AIFallbackCount   metric.Int64Counter
}

// Setup initializes OpenTelemetry traces and metrics against one OTLP
// endpoint. Runtime instrumentation starts with the meter provider so
// goroutine and GC stats flow without any per-request code.
func Setup(ctx context.Context, serviceName, serviceVersion, endpoint string) (func(context.Context) error, error) {
	res, err := resource.New(ctx, resource.WithAttributes(
		semconv.ServiceName(serviceName),
		semconv.ServiceVersion(serviceVersion),
	))
	if err != nil {
		return nil, err
	}

	tracerProvider, err := newTracerProvider(ctx, res, endpoint)
	if err != nil {
		return nil, err
	}
	meterProvider, err := newMeterProvider(ctx, res, endpoint)
	if err != nil {
		return nil, err
	}

	otel.SetTracerProvider(tracerProvider)
	otel.SetMeterProvider(meterProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	if err := runtime.Start(runtime.WithMinimumReadMemStatsInterval(10 * time.Second)); err != nil {
		return nil, err
	}

	return func(ctx context.Context) error {
		if err := tracerProvider.Shutdown(ctx); err != nil {
			return err
		}
		return meterProvider.Shutdown(ctx)
	}, nil
}

func newTracerProvider(ctx context.Context, res *resource.Resource, endpoint string) (*sdktrace.TracerProvider, error) {
	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}
	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	), nil
}

func newMeterProvider(ctx context.Context, res *resource.Resource, endpoint string) (*sdkmetric.MeterProvider, error) {
	exporter, err := otlpmetricgrpc.New(ctx,
		otlpmetricgrpc.WithEndpoint(endpoint),
		otlpmetricgrpc.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}
	return sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(
			exporter,
			sdkmetric.WithInterval(metricExportInterval),
		)),
		sdkmetric.WithResource(res),
	), nil
}

// InitMetrics registers the application instruments on the global meter.
func InitMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)

	var firstErr error
	counter := func(name, description string) metric.Int64Counter {
		c, err := meter.Int64Counter(name, metric.WithDescription(description))
		if err != nil && firstErr == nil {
			firstErr = err
		}
		return c
	}
	durationHistogram := func(name, description string) metric.Float64Histogram {
		h, err := meter.Float64Histogram(name,
			metric.WithDescription(description),
			metric.WithUnit("ms"),
		)
		if err != nil && firstErr == nil {
			firstErr = err
		}
		return h
	}
	countHistogram := func(name, description string) metric.Int64Histogram {
		h, err := meter.Int64Histogram(name, metric.WithDescription(description))
		if err != nil && firstErr == nil {
			firstErr = err
		}
		return h
	}

	m := &Metrics{
		RequestCount:      counter("http.server.request.count", "Number of HTTP requests"),
		RequestDuration:   durationHistogram("http.server.request.duration", "HTTP request duration in milliseconds"),
		DBQueryDuration:   durationHistogram("db.query.duration", "Database query duration in milliseconds"),
		CacheHitCount:     counter("cache.hit.count", "Number of cache hits"),
		CacheMissCount:    counter("cache.miss.count", "Number of cache misses"),
		SearchResultCount: countHistogram("search.result.count", "Number of recipes returned per search"),
		AIFallbackCount:   counter("substitution.ai_fallback.count", "Number of substitution lookups that fell through to the AI provider"),
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return m, nil
}

// StartSpan starts a span on the application tracer.
func StartSpan(ctx context.Context, spanName string) (context.Context, trace.Span) {
	return otel.Tracer(meterName).Start(ctx, spanName)
}

// RecordError records a non-nil error on the span.
func RecordError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
	}
}

// SetSpanAttributes sets attributes on a span.
func SetSpanAttributes(span trace.Span, attrs ...attribute.KeyValue) {
	span.SetAttributes(attrs...)
}

// RecordRequestMetric feeds the request counter and latency histogram.
func RecordRequestMetric(ctx context.Context, metrics *Metrics, method, path string, statusCode int, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("http.method", method),
		attribute.String("http.route", path),
		attribute.Int("http.status_code", statusCode),
	)
	metrics.RequestCount.Add(ctx, 1, attrs)
	metrics.RequestDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
}

// RecordDBMetric records one database operation's duration.
func RecordDBMetric(ctx context.Context, metrics *Metrics, operation string, duration time.Duration) {
	metrics.DBQueryDuration.Record(ctx, float64(duration.Milliseconds()),
		metric.WithAttributes(attribute.String("db.operation", operation)))
}

// RecordCacheHit records a cache hit.
func RecordCacheHit(ctx context.Context, metrics *Metrics, key string) {
	metrics.CacheHitCount.Add(ctx, 1,
		metric.WithAttributes(attribute.String("cache.key", key)))
}

// RecordCacheMiss records a cache miss.
func RecordCacheMiss(ctx context.Context, metrics *Metrics, key string) {
	metrics.CacheMissCount.Add(ctx, 1,
		metric.WithAttributes(attribute.String("cache.key", key)))
}

// RecordSearchMetric records how many recipes one search returned.
func RecordSearchMetric(ctx context.Context, metrics *Metrics, matchMode string, resultCount int) {
	metrics.SearchResultCount.Record(ctx, int64(resultCount),
		metric.WithAttributes(attribute.String("search.match_mode", matchMode)))
}

// RecordAIFallback counts one substitution lookup reaching the AI provider.
func RecordAIFallback(ctx context.Context, metrics *Metrics) {
	metrics.AIFallbackCount.Add(ctx, 1)
}
