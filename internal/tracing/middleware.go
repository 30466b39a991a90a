package tracing

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/taglet/internal/directory"
)

// NewTracedProvider wraps a directory provider so every Search and Lookup
// runs inside a span with query attributes, result counts, and error status.
// The span's trace ID is also placed on the outgoing context for log
// correlation downstream.
//
// If tracer is nil, the inner provider is returned unchanged with zero
// tracing overhead.
func NewTracedProvider(inner directory.Provider, tracer trace.Tracer) directory.Provider {
	if tracer == nil {
		return inner
	}
	return &tracedProvider{inner: inner, tracer: tracer}
}

type tracedProvider struct {
	inner  directory.Provider
	tracer trace.Tracer
}

func (p *tracedProvider) Search(ctx context.Context, trigger rune, query string) ([]directory.Candidate, error) {
	ctx, span := p.tracer.Start(ctx, SpanDirectorySearch,
		trace.WithSpanKind(trace.SpanKindClient),
	)
	defer span.End()

	span.SetAttributes(
		attribute.String(AttrSearchTrigger, string(trigger)),
		attribute.String(AttrDirectoryQuery, query),
	)
	if sc := span.SpanContext(); sc.HasTraceID() {
		ctx = ContextWithTraceID(ctx, sc.TraceID().String())
	}

	results, err := p.inner.Search(ctx, trigger, query)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int(AttrDirectoryResults, len(results)))
	span.SetStatus(codes.Ok, "")
	return results, nil
}

func (p *tracedProvider) Lookup(ctx context.Context, trigger rune, id string) (directory.Candidate, error) {
	ctx, span := p.tracer.Start(ctx, SpanDirectoryLookup,
		trace.WithSpanKind(trace.SpanKindClient),
	)
	defer span.End()

	span.SetAttributes(
		attribute.String(AttrSearchTrigger, string(trigger)),
		attribute.String(AttrDirectoryID, id),
	)
	if sc := span.SpanContext(); sc.HasTraceID() {
		ctx = ContextWithTraceID(ctx, sc.TraceID().String())
	}

	candidate, err := p.inner.Lookup(ctx, trigger, id)
	if err != nil {
		// A miss is an expected outcome, not a provider failure
		if directory.IsNotFound(err) {
			span.SetStatus(codes.Ok, "")
		} else {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		return directory.Candidate{}, err
	}

	span.SetStatus(codes.Ok, "")
	return candidate, nil
}
