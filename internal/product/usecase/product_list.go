package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/quickcart/internal/pkg/authz"
	"github.com/shandysiswandi/quickcart/internal/pkg/goerror"
	"github.com/shandysiswandi/quickcart/internal/product/entity"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type ProductListInput struct {
	Page int32
	Size int32
}

type ProductListOutput struct {
	Page     int32
	Size     int32
	Total    int64
	Products []entity.Product
}

func (s *Usecase) ProductList(ctx context.Context, in ProductListInput) (*ProductListOutput, error) {
	ctx, span := s.startSpan(ctx, "ProductList")
	defer span.End()

	ownerID, err := s.owner(ctx, authz.ActRead)
	if err != nil {
		return nil, err
	}

	if in.Size <= 0 || in.Size > maxPageSize {
		in.Size = defaultPageSize
	}
	in.Page = max(in.Page, 1)

	products, total, err := s.repoDB.ListProducts(ctx, entity.ProductListFilter{
		OwnerID: ownerID,
		Limit:   in.Size,
		Offset:  int64(in.Page-1) * int64(in.Size),
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list products", "account_id", ownerID, "error", err)
		return nil, goerror.NewUnavailable(err)
	}

	return &ProductListOutput{
		Page:     in.Page,
		Size:     in.Size,
		Total:    total,
		Products: products,
	}, nil
}
