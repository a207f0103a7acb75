// Package pgsql holds what every Postgres repository shares: the query
// interface, error translation and span bookkeeping.
package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shandysiswandi/quickcart/internal/pkg/goerror"
	"github.com/shandysiswandi/quickcart/internal/pkg/instrument"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// SQLSTATE codes repositories translate.
const (
	UniqueViolation     = "23505"
	ForeignKeyViolation = "23503"
)

// Querier is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// MapError turns pgx.ErrNoRows into goerror.ErrNotFound and each SQLSTATE
// in codes into its mapped sentinel. Anything else is returned unchanged.
func MapError(err error, codes map[string]error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return goerror.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if mapped, ok := codes[pgErr.Code]; ok {
			return mapped
		}
	}
	return err
}

// Tracer opens one span per repository call.
type Tracer struct {
	tracer trace.Tracer
	table  string
}

func NewTracer(ins instrument.Instrumentation, name, table string) Tracer {
	return Tracer{tracer: ins.Tracer(name), table: table}
}

// Start begins a client span for op. Call the returned func with the final
// error; ErrNotFound and ErrConflict are expected outcomes and leave the
// span status unset.
func (t Tracer) Start(ctx context.Context, op string) (context.Context, func(error)) {
	ctx, span := t.tracer.Start(ctx, op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			semconv.DBSystemPostgreSQL,
			semconv.DBOperationName(op),
			semconv.DBCollectionName(t.table),
		),
	)

	return ctx, func(err error) {
		if err != nil && !errors.Is(err, goerror.ErrNotFound) && !errors.Is(err, goerror.ErrConflict) {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}
}
