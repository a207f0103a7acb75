// Package db is the Postgres store for products. Every statement is scoped
// by owner_id, so a foreign product is indistinguishable from a missing one.
package db

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/quickcart/internal/pkg/goerror"
	"github.com/shandysiswandi/quickcart/internal/pkg/instrument"
	"github.com/shandysiswandi/quickcart/internal/pkg/pgsql"
)

// An insert for a deleted owner fails its foreign key; report it as missing.
var productErrors = map[string]error{pgsql.ForeignKeyViolation: goerror.ErrNotFound}

type DB struct {
	conn   pgsql.Querier
	tracer pgsql.Tracer
}

func NewDB(conn *pgxpool.Pool, ins instrument.Instrumentation) *DB {
	return &DB{conn: conn, tracer: pgsql.NewTracer(ins, "product.outbound.db", "products")}
}

func (s *DB) mapError(err error) error {
	return pgsql.MapError(err, productErrors)
}
