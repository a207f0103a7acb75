package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/quickcart/internal/identity/entity"
	"github.com/shandysiswandi/quickcart/internal/pkg/goerror"
)

type RegisterVerifyInput struct {
	Email string `validate:"required,email"`
	OTP   string `validate:"required"`
}

type RegisterVerifyOutput struct {
	AlreadyVerified bool
}

func (s *Usecase) RegisterVerify(ctx context.Context, in RegisterVerifyInput) (*RegisterVerifyOutput, error) {
	ctx, span := s.startSpan(ctx, "RegisterVerify")
	defer span.End()

	in.Email = normalizeEmail(in.Email)
	in.OTP = strings.TrimSpace(in.OTP)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	if err := s.throttle(ctx, "otp_verify", in.Email); err != nil {
		return nil, err
	}

	acc, err := s.repoDB.GetAccountByEmail(ctx, in.Email)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "account not found for otp verify", "email", in.Email)
		return nil, errAccountNotFound()
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get account by email", "email", in.Email, "error", err)
		return nil, goerror.NewUnavailable(err)
	}

	switch acc.State() {
	case entity.AccountStateVerified:
		return &RegisterVerifyOutput{AlreadyVerified: true}, nil

	case entity.AccountStateNoPendingOTP:
		slog.WarnContext(ctx, "account has no pending otp", "account_id", acc.ID)
		return nil, errNoPendingOTP()
	}

	if acc.OTP.Expired(s.clock.Now()) {
		slog.WarnContext(ctx, "otp expired", "account_id", acc.ID, "expires_at", acc.OTP.ExpiresAt)
		return nil, errOTPExpired()
	}

	match, err := s.hmac.Verify(ctx, acc.OTP.Digest, in.OTP)
	if err != nil {
		slog.ErrorContext(ctx, "failed to verify otp digest", "account_id", acc.ID, "error", err)
		return nil, goerror.NewServer(err)
	}
	if !match {
		slog.WarnContext(ctx, "otp mismatch", "account_id", acc.ID)
		return nil, errOTPMismatch()
	}

	ok, err := s.repoDB.MarkAccountVerified(ctx, acc.ID, acc.OTP.Digest)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo mark account verified", "account_id", acc.ID, "error", err)
		return nil, goerror.NewUnavailable(err)
	}
	if ok {
		return &RegisterVerifyOutput{}, nil
	}

	// lost a race against a concurrent verify or a resend
	latest, err := s.repoDB.GetAccountByID(ctx, acc.ID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get account by id", "account_id", acc.ID, "error", err)
		return nil, goerror.NewUnavailable(err)
	}
	if latest.IsVerified {
		return &RegisterVerifyOutput{AlreadyVerified: true}, nil
	}

	slog.WarnContext(ctx, "otp replaced during verify", "account_id", acc.ID)
	return nil, errNoPendingOTP()
}
