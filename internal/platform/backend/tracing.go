package backend

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/cyber924/taebaek/internal/platform/backend"

// Traced wraps a Client so every call runs inside an OpenTelemetry span.
type Traced struct {
	next   Client
	driver string
	tracer trace.Tracer
}

// NewTraced decorates next. The global tracer provider is used unless tracer is supplied.
func NewTraced(next Client, driver string, tracer trace.Tracer) *Traced {
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}
	return &Traced{next: next, driver: driver, tracer: tracer}
}

// Unwrap exposes the decorated client.
func (t *Traced) Unwrap() Client { return t.next }

// Select implements Client.
func (t *Traced) Select(ctx context.Context, table string, q Query, dest any) error {
	ctx, span := t.start(ctx, "select", table)
	defer span.End()
	span.SetAttributes(attribute.Int("backend.filters", len(q.Filters)))
	return t.finish(span, t.next.Select(ctx, table, q, dest))
}

// SelectOne implements Client.
func (t *Traced) SelectOne(ctx context.Context, table string, q Query, dest any) error {
	ctx, span := t.start(ctx, "select_one", table)
	defer span.End()
	return t.finish(span, t.next.SelectOne(ctx, table, q, dest))
}

// Insert implements Client.
func (t *Traced) Insert(ctx context.Context, table string, row any) error {
	ctx, span := t.start(ctx, "insert", table)
	defer span.End()
	return t.finish(span, t.next.Insert(ctx, table, row))
}

// Update implements Client.
func (t *Traced) Update(ctx context.Context, table string, filters []Filter, patch map[string]any, dest any) error {
	ctx, span := t.start(ctx, "update", table)
	defer span.End()
	span.SetAttributes(attribute.Int("backend.patch_columns", len(patch)))
	return t.finish(span, t.next.Update(ctx, table, filters, patch, dest))
}

// Delete implements Client.
func (t *Traced) Delete(ctx context.Context, table string, filters []Filter, model any) error {
	ctx, span := t.start(ctx, "delete", table)
	defer span.End()
	return t.finish(span, t.next.Delete(ctx, table, filters, model))
}

// Migrate forwards to the decorated client when it owns its schema.
func (t *Traced) Migrate(ctx context.Context, table string, model any) error {
	migrator, ok := t.next.(Migrator)
	if !ok {
		return nil
	}
	ctx, span := t.start(ctx, "migrate", table)
	defer span.End()
	return t.finish(span, migrator.Migrate(ctx, table, model))
}

func (t *Traced) start(ctx context.Context, op, table string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "backend."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("backend.driver", t.driver),
			attribute.String("backend.table", table),
		),
	)
}

func (t *Traced) finish(span trace.Span, err error) error {
	switch {
	case err == nil:
		span.SetStatus(codes.Ok, "")
	case IsNotFound(err):
		span.SetAttributes(attribute.Bool("backend.not_found", true))
	default:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
