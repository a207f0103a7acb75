package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/shandysiswandi/quickcart/internal/notification/entity"
	"github.com/shandysiswandi/quickcart/internal/pkg/goerror"
	"github.com/shandysiswandi/quickcart/internal/pkg/idempotency"
	"github.com/shandysiswandi/quickcart/internal/shared/otpmail"
)

type ConsumeAccountOTPInput struct {
	AccountID int64     `validate:"required,gt=0"`
	Email     string    `validate:"required,email"`
	Code      string    `validate:"required,numeric,min=4,max=10"`
	ExpiresAt time.Time `validate:"required"`
	Reason    string    `validate:"omitempty,oneof=register resend"`
}

// ConsumeAccountOTP mails a verification code once per issued code. Invalid
// payloads and codes that expired while queued are dropped. A returned error
// asks the broker to redeliver.
func (s *Usecase) ConsumeAccountOTP(ctx context.Context, in ConsumeAccountOTPInput) error {
	ctx, span := s.startSpan(ctx, "ConsumeAccountOTP")
	defer span.End()

	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if err := s.validator.Validate(in); err != nil {
		slog.WarnContext(ctx, "drop invalid account otp message", "account_id", in.AccountID, "error", err)
		return nil
	}

	otpMail := entity.OTPEmail{
		AccountID: in.AccountID,
		Email:     in.Email,
		Code:      in.Code,
		ExpiresAt: in.ExpiresAt,
		Reason:    in.Reason,
	}

	now := s.clock.Now()
	if otpMail.Expired(now) {
		slog.WarnContext(ctx, "skip expired account otp", "account_id", in.AccountID, "expires_at", in.ExpiresAt)
		return nil
	}

	send := func(ctx context.Context) error {
		return s.repoMail.Send(ctx, otpmail.Message(otpMail.Email, otpMail.Code, otpMail.Remaining(now)))
	}

	// A completed key outlives the code, so redeliveries never reach the inbox.
	ttl := otpMail.Remaining(now) + time.Minute
	err := s.idempotency.Exec(ctx, otpMail.DeliveryKey(), send, idempotency.WithStateTTL(ttl))
	switch {
	case err == nil:
		slog.InfoContext(ctx, "account otp mailed", "account_id", in.AccountID, "reason", in.Reason)
		return nil
	case errors.Is(err, idempotency.ErrAlreadyCompleted):
		slog.InfoContext(ctx, "account otp already mailed", "account_id", in.AccountID)
		return nil
	case errors.Is(err, idempotency.ErrAlreadyInProgress):
		return err
	default:
		slog.ErrorContext(ctx, "failed to mail account otp", "account_id", in.AccountID, "error", err)
		return goerror.NewUnavailable(err)
	}
}
