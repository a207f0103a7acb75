package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/shandysiswandi/quickcart/internal/pkg/authz"
	"github.com/shandysiswandi/quickcart/internal/pkg/goerror"
	"github.com/shandysiswandi/quickcart/internal/pkg/idempotency"
	"github.com/shandysiswandi/quickcart/internal/product/entity"
)

type ProductCreateInput struct {
	// IdempotencyKey is optional; a replayed key within its TTL is rejected.
	IdempotencyKey string `validate:"max=128"`

	Title       string   `validate:"required,max=200"`
	Description string   `validate:"max=5000"`
	Price       *float64 `validate:"omitnil,gte=0"`
	Quantity    *int32   `validate:"omitnil,gte=0"`
	ImageURL    string   `validate:"omitempty,url,max=2048"`
}

func (s *Usecase) ProductCreate(ctx context.Context, in ProductCreateInput) (*entity.Product, error) {
	ctx, span := s.startSpan(ctx, "ProductCreate")
	defer span.End()

	in.IdempotencyKey = strings.TrimSpace(in.IdempotencyKey)
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.ImageURL = strings.TrimSpace(in.ImageURL)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	ownerID, err := s.owner(ctx, authz.ActWrite)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	p := entity.Product{
		ID:          s.uid.Generate(),
		OwnerID:     ownerID,
		Title:       in.Title,
		Description: in.Description,
		Quantity:    entity.DefaultQuantity,
		ImageURL:    in.ImageURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Quantity != nil {
		p.Quantity = *in.Quantity
	}

	if in.IdempotencyKey == "" {
		if err := s.createProduct(ctx, p); err != nil {
			return nil, err
		}
		return &p, nil
	}

	key := "product_create:" + strconv.FormatInt(ownerID, 10) + ":" + in.IdempotencyKey

	var (
		created   bool
		errCreate error
	)
	err = s.idemp.Exec(ctx, key, func(ctx context.Context) error {
		errCreate = s.createProduct(ctx, p)
		created = errCreate == nil
		return errCreate
	}, idempotency.WithStateTTL(s.cfg.GetHour("modules.product.idempotency_ttl_hours")))

	switch {
	case errCreate != nil:
		return nil, errCreate
	case errors.Is(err, idempotency.ErrAlreadyCompleted),
		errors.Is(err, idempotency.ErrAlreadyInProgress):
		slog.WarnContext(ctx, "duplicate product create request", "account_id", ownerID, "idempotency_key", in.IdempotencyKey)
		return nil, errDuplicateCreate()
	case err != nil && created:
		slog.WarnContext(ctx, "product created but idempotency state not saved", "product_id", p.ID, "error", err)
	case err != nil:
		slog.ErrorContext(ctx, "failed to acquire idempotency key", "account_id", ownerID, "error", err)
		return nil, goerror.NewUnavailable(err)
	}

	return &p, nil
}

func (s *Usecase) createProduct(ctx context.Context, p entity.Product) error {
	if err := s.repoDB.CreateProduct(ctx, p); err != nil {
		slog.ErrorContext(ctx, "failed to repo create product", "account_id", p.OwnerID, "error", err)
		return goerror.NewUnavailable(err)
	}

	return nil
}
