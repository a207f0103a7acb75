package usecase

import (
	"github.com/shandysiswandi/quickcart/internal/pkg/goerror"
	"github.com/shandysiswandi/quickcart/internal/product/entity"
)

func errProductNotFound() error {
	return goerror.NewBusinessCause(entity.ErrProductNotFound, "Product not found", goerror.CodeNotFound)
}

func errUnauthenticated() error {
	return goerror.NewBusinessCause(entity.ErrUnauthenticated, "Authentication required", goerror.CodeUnauthorized)
}

func errForbidden() error {
	return goerror.NewBusinessCause(entity.ErrForbidden, "Account not allowed", goerror.CodeForbidden)
}

func errDuplicateCreate() error {
	return goerror.NewBusinessCause(entity.ErrDuplicateCreate, "Duplicate request", goerror.CodeConflict)
}

func errImageTooLarge() error {
	return goerror.NewBusinessCause(entity.ErrImageTooLarge, "Image too large", goerror.CodeInvalidFormat)
}
