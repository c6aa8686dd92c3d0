// Package tracing registers an OpenTelemetry tracer provider exporting to a
// Phoenix collector.
package tracing

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const (
	EnvClientHeaders     = "PHOENIX_CLIENT_HEADERS"
	EnvCollectorEndpoint = "PHOENIX_COLLECTOR_ENDPOINT"

	DefaultCollectorEndpoint = "https://app.phoenix.arize.com"
	TracerName               = "github.com/katakuxiko/trivia"

	projectNameKey = attribute.Key("openinference.project.name")
	serviceNameKey = attribute.Key("service.name")
)

// Options describe where spans are exported.
type Options struct {
	ProjectName string
	Endpoint    string
	Headers     map[string]string
}

// OptionsFromEnv reads the collector endpoint and headers from the Phoenix
// environment variables.
func OptionsFromEnv(project string) Options {
	endpoint := os.Getenv(EnvCollectorEndpoint)
	if endpoint == "" {
		endpoint = DefaultCollectorEndpoint
	}
	return Options{
		ProjectName: project,
		Endpoint:    endpoint,
		Headers:     ParseHeaders(os.Getenv(EnvClientHeaders)),
	}
}

// ParseHeaders parses "k1=v1,k2=v2". Malformed pairs are skipped.
func ParseHeaders(s string) map[string]string {
	headers := map[string]string{}
	for _, pair := range strings.Split(s, ",") {
		k, v, ok := strings.Cut(pair, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			continue
		}
		if unescaped, err := url.QueryUnescape(strings.TrimSpace(v)); err == nil {
			v = unescaped
		}
		headers[k] = v
	}
	return headers
}

// Register builds the exporter and installs the provider globally.
// The caller owns Shutdown.
func Register(ctx context.Context, opts Options) (*sdktrace.TracerProvider, error) {
	if opts.ProjectName == "" {
		return nil, errors.New("tracing: project name is required")
	}
	exporter, err := newExporter(ctx, opts)
	if err != nil {
		return nil, err
	}

	res := resource.NewSchemaless(
		projectNameKey.String(opts.ProjectName),
		serviceNameKey.String(opts.ProjectName),
	)
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	return tp, nil
}

func newExporter(ctx context.Context, opts Options) (sdktrace.SpanExporter, error) {
	u, err := url.Parse(opts.Endpoint)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("tracing: invalid collector endpoint %q", opts.Endpoint)
	}

	exporterOpts := []otlptracehttp.Option{
		otlptracehttp.WithEndpoint(u.Host),
		otlptracehttp.WithURLPath(path.Join("/", u.Path, "v1/traces")),
		otlptracehttp.WithHeaders(opts.Headers),
	}
	if u.Scheme == "http" {
		exporterOpts = append(exporterOpts, otlptracehttp.WithInsecure())
	}

	exporter, err := otlptracehttp.New(ctx, exporterOpts...)
	if err != nil {
		return nil, fmt.Errorf("tracing: create exporter: %w", err)
	}
	return exporter, nil
}
