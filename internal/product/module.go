package product

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	identityEntity "github.com/shandysiswandi/quickcart/internal/identity/entity"
	"github.com/shandysiswandi/quickcart/internal/pkg/authz"
	"github.com/shandysiswandi/quickcart/internal/pkg/clock"
	"github.com/shandysiswandi/quickcart/internal/pkg/config"
	"github.com/shandysiswandi/quickcart/internal/pkg/idempotency"
	"github.com/shandysiswandi/quickcart/internal/pkg/instrument"
	"github.com/shandysiswandi/quickcart/internal/pkg/jwt"
	"github.com/shandysiswandi/quickcart/internal/pkg/router"
	"github.com/shandysiswandi/quickcart/internal/pkg/storage"
	"github.com/shandysiswandi/quickcart/internal/pkg/uid"
	"github.com/shandysiswandi/quickcart/internal/pkg/validator"
	"github.com/shandysiswandi/quickcart/internal/product/inbound"
	"github.com/shandysiswandi/quickcart/internal/product/outbound/db"
	"github.com/shandysiswandi/quickcart/internal/product/usecase"
)

// AccountResolver turns verified token claims into the owning account.
type AccountResolver interface {
	ResolveAccount(ctx context.Context, clm jwt.Claims) (*identityEntity.Account, error)
}

type Dependency struct {
	DBConn      *pgxpool.Pool              `validate:"required"`
	Accounts    AccountResolver            `validate:"required"`
	Enforcer    authz.Enforcer             `validate:"required"`
	Idempotency idempotency.Idempotency    `validate:"required"`
	Storage     storage.Storage            `validate:"required"`
	Router      *router.Router             `validate:"required"`
	Config      config.Config              `validate:"required"`
	Instrument  instrument.Instrumentation `validate:"required"`
	UID         uid.NumberID               `validate:"required"`
	UUID        uid.StringID               `validate:"required"`
	Clock       clock.Clocker              `validate:"required"`
	Validator   validator.Validator        `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	uc := usecase.New(usecase.Dependency{
		RepoDB:      db.NewDB(dep.DBConn, dep.Instrument),
		Accounts:    dep.Accounts,
		Enforcer:    dep.Enforcer,
		Idempotency: dep.Idempotency,
		Storage:     dep.Storage,
		Validator:   dep.Validator,
		Config:      dep.Config,
		UID:         dep.UID,
		UUID:        dep.UUID,
		Clock:       dep.Clock,
		Instrument:  dep.Instrument,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}
