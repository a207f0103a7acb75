package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/quickcart/internal/pkg/authz"
	"github.com/shandysiswandi/quickcart/internal/pkg/goerror"
	"github.com/shandysiswandi/quickcart/internal/product/entity"
)

// ProductUpdateInput is a partial update; nil fields keep their stored value
// and an empty ImageURL clears the stored image.
type ProductUpdateInput struct {
	ID          int64    `validate:"gt=0"`
	Title       *string  `validate:"omitnil,notblank,max=200"`
	Description *string  `validate:"omitnil,max=5000"`
	Price       *float64 `validate:"omitnil,gte=0"`
	Quantity    *int32   `validate:"omitnil,gte=0"`
	ImageURL    *string  `validate:"omitnil,max=2048"`
}

func (s *Usecase) ProductUpdate(ctx context.Context, in ProductUpdateInput) (*entity.Product, error) {
	ctx, span := s.startSpan(ctx, "ProductUpdate")
	defer span.End()

	in.Title = trimPtr(in.Title)
	in.Description = trimPtr(in.Description)
	in.ImageURL = trimPtr(in.ImageURL)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}
	if in.ImageURL != nil {
		if err := s.validator.Validate(imageURL{ImageURL: *in.ImageURL}); err != nil {
			return nil, goerror.NewInvalidInput(err)
		}
	}

	ownerID, err := s.owner(ctx, authz.ActWrite)
	if err != nil {
		return nil, err
	}

	patch := entity.ProductPatch{
		Title:       in.Title,
		Description: in.Description,
		Price:       in.Price,
		Quantity:    in.Quantity,
		ImageURL:    in.ImageURL,
	}
	if patch.Empty() {
		return s.loadProduct(ctx, ownerID, in.ID)
	}

	p, err := s.repoDB.UpdateProduct(ctx, ownerID, in.ID, patch)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "product not found", "account_id", ownerID, "product_id", in.ID)
		return nil, errProductNotFound()
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo update product", "account_id", ownerID, "product_id", in.ID, "error", err)
		return nil, goerror.NewUnavailable(err)
	}

	return p, nil
}

// imageURL checks a present image_url; the pointer tag would reject "".
type imageURL struct {
	ImageURL string `validate:"omitempty,url"`
}

func trimPtr(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	return &t
}
