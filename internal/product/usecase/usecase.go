package usecase

import (
	"context"
	"errors"
	"log/slog"

	identityEntity "github.com/shandysiswandi/quickcart/internal/identity/entity"
	"github.com/shandysiswandi/quickcart/internal/pkg/authz"
	"github.com/shandysiswandi/quickcart/internal/pkg/clock"
	"github.com/shandysiswandi/quickcart/internal/pkg/config"
	"github.com/shandysiswandi/quickcart/internal/pkg/goerror"
	"github.com/shandysiswandi/quickcart/internal/pkg/idempotency"
	"github.com/shandysiswandi/quickcart/internal/pkg/instrument"
	"github.com/shandysiswandi/quickcart/internal/pkg/jwt"
	"github.com/shandysiswandi/quickcart/internal/pkg/storage"
	"github.com/shandysiswandi/quickcart/internal/pkg/uid"
	"github.com/shandysiswandi/quickcart/internal/pkg/validator"
	"github.com/shandysiswandi/quickcart/internal/product/entity"
	"go.opentelemetry.io/otel/trace"
)

type repoDB interface {
	CreateProduct(ctx context.Context, p entity.Product) error
	GetProduct(ctx context.Context, ownerID, id int64) (*entity.Product, error)
	ListProducts(ctx context.Context, filter entity.ProductListFilter) ([]entity.Product, int64, error)
	// UpdateProduct applies the patch to the owner's product and returns the
	// stored row.
	UpdateProduct(ctx context.Context, ownerID, id int64, patch entity.ProductPatch) (*entity.Product, error)
	DeleteProduct(ctx context.Context, ownerID, id int64) error
}

type accountResolver interface {
	ResolveAccount(ctx context.Context, clm jwt.Claims) (*identityEntity.Account, error)
}

type Usecase struct {
	repoDB    repoDB
	accounts  accountResolver
	enforcer  authz.Enforcer
	idemp     idempotency.Idempotency
	storage   storage.Storage
	validator validator.Validator
	cfg       config.Config
	uid       uid.NumberID
	uuid      uid.StringID
	clock     clock.Clocker
	ins       instrument.Instrumentation
}

type Dependency struct {
	RepoDB      repoDB
	Accounts    accountResolver
	Enforcer    authz.Enforcer
	Idempotency idempotency.Idempotency
	Storage     storage.Storage
	Validator   validator.Validator
	Config      config.Config
	UID         uid.NumberID
	UUID        uid.StringID
	Clock       clock.Clocker
	Instrument  instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:    dep.RepoDB,
		accounts:  dep.Accounts,
		enforcer:  dep.Enforcer,
		idemp:     dep.Idempotency,
		storage:   dep.Storage,
		validator: dep.Validator,
		cfg:       dep.Config,
		uid:       dep.UID,
		uuid:      dep.UUID,
		clock:     dep.Clock,
		ins:       dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("product.usecase").Start(ctx, name)
}

// owner resolves the caller's account and checks the role may perform act on
// products. It returns the account id that scopes every query.
func (s *Usecase) owner(ctx context.Context, act string) (int64, error) {
	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return 0, errUnauthenticated()
	}

	acc, err := s.accounts.ResolveAccount(ctx, *clm)
	if err != nil {
		return 0, err
	}

	ok, err := s.enforcer.Enforce(clm.Role, entity.Object, act)
	if err != nil {
		slog.ErrorContext(ctx, "failed to check authorization", "account_id", acc.ID, "role", clm.Role, "error", err)
		return 0, goerror.NewServer(err)
	}
	if !ok {
		slog.WarnContext(ctx, "product action not allowed", "account_id", acc.ID, "role", clm.Role, "action", act)
		return 0, errForbidden()
	}

	return acc.ID, nil
}

// loadProduct maps a missing row to the public not-found error.
func (s *Usecase) loadProduct(ctx context.Context, ownerID, id int64) (*entity.Product, error) {
	p, err := s.repoDB.GetProduct(ctx, ownerID, id)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "product not found", "account_id", ownerID, "product_id", id)
		return nil, errProductNotFound()
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get product", "account_id", ownerID, "product_id", id, "error", err)
		return nil, goerror.NewUnavailable(err)
	}

	return p, nil
}
