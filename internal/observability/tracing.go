// Package observability wires OpenTelemetry tracing for processing runs.
package observability

import (
	"context"

	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"

	"github.com/ponder-agent/ponder/pkg/version"
)

const serviceName = "ponder"

// TracingConfig controls span recording.
type TracingConfig struct {
	Enabled    bool
	SampleRate float64
}

// TracingOption is a functional option for configuring tracing initialization.
type TracingOption func(*tracingOptions)

type tracingOptions struct {
	sampler  sdktrace.Sampler
	resource *resource.Resource
}

// WithSampler sets a custom sampler for the tracer provider.
func WithSampler(sampler sdktrace.Sampler) TracingOption {
	return func(o *tracingOptions) {
		o.sampler = sampler
	}
}

// WithResource sets a custom resource for the tracer provider.
func WithResource(res *resource.Resource) TracingOption {
	return func(o *tracingOptions) {
		o.resource = res
	}
}

// InitTracing builds a tracer provider for the process. When cfg.Enabled
// is false the provider records nothing and has zero overhead.
func InitTracing(ctx context.Context, cfg TracingConfig, opts ...TracingOption) (*sdktrace.TracerProvider, error) {
	if !cfg.Enabled {
		return sdktrace.NewTracerProvider(), nil
	}

	options := &tracingOptions{}
	for _, opt := range opts {
		opt(options)
	}

	res := options.resource
	if res == nil {
		var err error
		res, err = resource.Merge(
			resource.Default(),
			resource.NewWithAttributes(
				semconv.SchemaURL,
				semconv.ServiceName(serviceName),
				semconv.ServiceVersion(version.Version),
			),
		)
		if err != nil {
			return nil, err
		}
	}

	sampler := options.sampler
	if sampler == nil {
		if cfg.SampleRate > 0 && cfg.SampleRate < 1 {
			sampler = sdktrace.TraceIDRatioBased(cfg.SampleRate)
		} else {
			sampler = sdktrace.AlwaysSample()
		}
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler),
	), nil
}

// Shutdown flushes and stops the tracer provider.
func Shutdown(ctx context.Context, tp *sdktrace.TracerProvider) error {
	if tp == nil {
		return nil
	}
	return tp.Shutdown(ctx)
}
