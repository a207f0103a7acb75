// Package db is the Postgres store for accounts and their pending OTPs.
package db

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/quickcart/internal/pkg/goerror"
	"github.com/shandysiswandi/quickcart/internal/pkg/instrument"
	"github.com/shandysiswandi/quickcart/internal/pkg/pgsql"
)

// A duplicate email surfaces as a unique violation on accounts.email.
var accountErrors = map[string]error{pgsql.UniqueViolation: goerror.ErrConflict}

type DB struct {
	conn   pgsql.Querier
	tracer pgsql.Tracer
}

func NewDB(conn *pgxpool.Pool, ins instrument.Instrumentation) *DB {
	return &DB{conn: conn, tracer: pgsql.NewTracer(ins, "identity.outbound.db", "accounts")}
}

func (s *DB) mapError(err error) error {
	return pgsql.MapError(err, accountErrors)
}
