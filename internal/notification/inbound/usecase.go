package inbound

import (
	"context"

	"github.com/shandysiswandi/quickcart/internal/notification/usecase"
)

type uc interface {
	ConsumeAccountOTP(ctx context.Context, in usecase.ConsumeAccountOTPInput) error
}
