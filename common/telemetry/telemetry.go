package telemetry

import (
	"context"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/metric"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	"go.opentelemetry.io/otel/trace"
)

var (
	// Tracer is the global tracer instance
	Tracer trace.Tracer
	// Meter is the global meter instance, exported via Prometheus
	Meter metric.Meter
)

// InitTracer initializes OpenTelemetry tracing and metrics.
//
// Environment variables:
//   - OTEL_EXPORTER: "otlp" for OTLP, anything else for stdout
//   - OTEL_COLLECTOR_ENDPOINT: endpoint URL or host:port
//   - OTEL_EXPORTER_OTLP_HEADERS: optional headers for auth
//   - OTEL_INSECURE: "true" to disable TLS (for local development)
func InitTracer(serviceName, serviceVersion string) (func(context.Context) error, error) {
	ctx := context.Background()

	res, err := resource.New(
		ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(serviceName),
			semconv.ServiceVersionKey.String(serviceVersion),
		),
	)
	if err != nil {
		return nil, err
	}

	exporterType := os.Getenv("OTEL_EXPORTER")
	var tp *sdktrace.TracerProvider
	var lp *sdklog.LoggerProvider

	if exporterType == "otlp" {
		endpoint := os.Getenv("OTEL_COLLECTOR_ENDPOINT")
		if endpoint == "" {
			endpoint = "alloy:4317"
		}

		// HTTPS endpoints (hosted collectors) use the HTTP exporters,
		// everything else goes over gRPC.
		if strings.HasPrefix(endpoint, "https://") {
			traceExporter, err := createHTTPTraceExporter(ctx, endpoint)
			if err != nil {
				return nil, err
			}
			tp = sdktrace.NewTracerProvider(
				sdktrace.WithBatcher(traceExporter),
				sdktrace.WithResource(res),
				sdktrace.WithSampler(sdktrace.AlwaysSample()),
			)

			logExporter, err := createHTTPLogExporter(ctx, endpoint)
			if err != nil {
				return nil, err
			}
			lp = sdklog.NewLoggerProvider(
				sdklog.WithProcessor(sdklog.NewBatchProcessor(logExporter)),
				sdklog.WithResource(res),
			)
		} else {
			traceExporter, err := createGRPCTraceExporter(ctx, endpoint)
			if err != nil {
				return nil, err
			}
			tp = sdktrace.NewTracerProvider(
				sdktrace.WithBatcher(traceExporter),
				sdktrace.WithResource(res),
				sdktrace.WithSampler(sdktrace.AlwaysSample()),
			)

			logExporter, err := createGRPCLogExporter(ctx, endpoint)
			if err != nil {
				return nil, err
			}
			lp = sdklog.NewLoggerProvider(
				sdklog.WithProcessor(sdklog.NewBatchProcessor(logExporter)),
				sdklog.WithResource(res),
			)
		}
	} else {
		// Use stdout exporter for development
		exporter, err := stdouttrace.New(
			stdouttrace.WithPrettyPrint(),
		)
		if err != nil {
			return nil, err
		}

		tp = sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(exporter),
			sdktrace.WithResource(res),
			sdktrace.WithSampler(sdktrace.AlwaysSample()),
		)
		// No log provider for stdout mode - slog handles stdout itself
		lp = nil
	}

	otel.SetTracerProvider(tp)
	Tracer = tp.Tracer(serviceName)

	if lp != nil {
		global.SetLoggerProvider(lp)
	}

	// Metrics go out through the Prometheus exporter and are served by
	// promhttp on /metrics.
	promExporter, err := otelprom.New()
	if err != nil {
		return nil, err
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(promExporter),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)
	Meter = mp.Meter(serviceName)

	shutdown := func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		var errs []error
		if err := tp.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
		if lp != nil {
			if err := lp.Shutdown(ctx); err != nil {
				errs = append(errs, err)
			}
		}
		if err := mp.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
		if len(errs) > 0 {
			return errs[0]
		}
		return nil
	}

	return shutdown, nil
}

// createGRPCTraceExporter creates a gRPC OTLP trace exporter for a local collector
func createGRPCTraceExporter(ctx context.Context, endpoint string) (sdktrace.SpanExporter, error) {
	opts := []otlptracegrpc.Option{
		otlptracegrpc.WithEndpoint(endpoint),
	}

	if os.Getenv("OTEL_INSECURE") == "true" || !strings.Contains(endpoint, ":443") {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}

	return otlptracegrpc.New(ctx, opts...)
}

// createHTTPTraceExporter creates an HTTP OTLP trace exporter for hosted collectors
func createHTTPTraceExporter(ctx context.Context, endpoint string) (sdktrace.SpanExporter, error) {
	endpoint = strings.TrimPrefix(endpoint, "https://")
	endpoint = strings.TrimPrefix(endpoint, "http://")

	opts := []otlptracehttp.Option{
		otlptracehttp.WithEndpoint(endpoint),
	}

	if headers := os.Getenv("OTEL_EXPORTER_OTLP_HEADERS"); headers != "" {
		opts = append(opts, otlptracehttp.WithHeaders(parseHeaders(headers)))
	}

	if os.Getenv("OTEL_INSECURE") == "true" {
		opts = append(opts, otlptracehttp.WithInsecure())
	}

	return otlptracehttp.New(ctx, opts...)
}

// createGRPCLogExporter creates a gRPC OTLP log exporter
func createGRPCLogExporter(ctx context.Context, endpoint string) (sdklog.Exporter, error) {
	opts := []otlploggrpc.Option{
		otlploggrpc.WithEndpoint(endpoint),
	}

	if os.Getenv("OTEL_INSECURE") == "true" || !strings.Contains(endpoint, ":443") {
		opts = append(opts, otlploggrpc.WithInsecure())
	}

	return otlploggrpc.New(ctx, opts...)
}

// createHTTPLogExporter creates an HTTP OTLP log exporter
func createHTTPLogExporter(ctx context.Context, endpoint string) (sdklog.Exporter, error) {
	endpoint = strings.TrimPrefix(endpoint, "https://")
	endpoint = strings.TrimPrefix(endpoint, "http://")

	opts := []otlploghttp.Option{
		otlploghttp.WithEndpoint(endpoint),
	}

	if headers := os.Getenv("OTEL_EXPORTER_OTLP_HEADERS"); headers != "" {
		opts = append(opts, otlploghttp.WithHeaders(parseHeaders(headers)))
	}

	if os.Getenv("OTEL_INSECURE") == "true" {
		opts = append(opts, otlploghttp.WithInsecure())
	}

	return otlploghttp.New(ctx, opts...)
}

// parseHeaders parses header string like "Key1=Value1,Key2=Value2"
func parseHeaders(headerStr string) map[string]string {
	headers := make(map[string]string)
	pairs := strings.Split(headerStr, ",")
	for _, pair := range pairs {
		kv := strings.SplitN(pair, "=", 2)
		if len(kv) == 2 {
			headers[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
		}
	}
	return headers
}

// StartSpan starts a new span with the given name
func StartSpan(ctx context.Context, spanName string) (context.Context, trace.Span) {
	if Tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return Tracer.Start(ctx, spanName)
}
