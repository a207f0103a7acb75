package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/quickcart/internal/identity/entity"
	"github.com/shandysiswandi/quickcart/internal/pkg/goerror"
)

type RegisterResendInput struct {
	Email string `validate:"required,email"`
}

// RegisterResend issues a fresh code for a pending account. Unknown and
// verified emails get the same outcome as pending ones.
func (s *Usecase) RegisterResend(ctx context.Context, in RegisterResendInput) error {
	ctx, span := s.startSpan(ctx, "RegisterResend")
	defer span.End()

	in.Email = normalizeEmail(in.Email)

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	if err := s.throttle(ctx, "otp_resend", in.Email); err != nil {
		return err
	}

	acc, err := s.repoDB.GetAccountByEmail(ctx, in.Email)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "email not registered for resend", "email", in.Email)
		return nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get account by email", "email", in.Email, "error", err)
		return goerror.NewUnavailable(err)
	}

	if acc.State() == entity.AccountStateVerified {
		slog.WarnContext(ctx, "resend requested for verified account", "account_id", acc.ID)
		return nil
	}

	code, pending, err := s.issueOTP(ctx)
	if err != nil {
		return err
	}

	ok, err := s.repoDB.ReplaceAccountOTP(ctx, acc.ID, pending)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo replace account otp", "account_id", acc.ID, "error", err)
		return goerror.NewUnavailable(err)
	}
	if !ok {
		slog.WarnContext(ctx, "account verified before resend", "account_id", acc.ID)
		return nil
	}

	s.sendOTP(ctx, acc, code, OTPReasonResend)

	return nil
}
