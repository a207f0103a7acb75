package usecase

import (
	"context"

	"github.com/shandysiswandi/quickcart/internal/pkg/authz"
	"github.com/shandysiswandi/quickcart/internal/product/entity"
)

func (s *Usecase) ProductDetail(ctx context.Context, id int64) (*entity.Product, error) {
	ctx, span := s.startSpan(ctx, "ProductDetail")
	defer span.End()

	ownerID, err := s.owner(ctx, authz.ActRead)
	if err != nil {
		return nil, err
	}

	return s.loadProduct(ctx, ownerID, id)
}
