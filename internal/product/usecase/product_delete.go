package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/quickcart/internal/pkg/authz"
	"github.com/shandysiswandi/quickcart/internal/pkg/goerror"
)

func (s *Usecase) ProductDelete(ctx context.Context, id int64) error {
	ctx, span := s.startSpan(ctx, "ProductDelete")
	defer span.End()

	ownerID, err := s.owner(ctx, authz.ActWrite)
	if err != nil {
		return err
	}

	err = s.repoDB.DeleteProduct(ctx, ownerID, id)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "product not found", "account_id", ownerID, "product_id", id)
		return errProductNotFound()
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo delete product", "account_id", ownerID, "product_id", id, "error", err)
		return goerror.NewUnavailable(err)
	}

	return nil
}
