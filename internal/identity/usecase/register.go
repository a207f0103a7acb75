package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/quickcart/internal/identity/entity"
	"github.com/shandysiswandi/quickcart/internal/pkg/goerror"
	"github.com/shandysiswandi/quickcart/internal/pkg/hash"
)

type RegisterInput struct {
	Email    string `validate:"required,email,max=254"`
	Password string
}

type RegisterOutput struct {
	AccountID int64
}

func (s *Usecase) Register(ctx context.Context, in RegisterInput) (*RegisterOutput, error) {
	ctx, span := s.startSpan(ctx, "Register")
	defer span.End()

	in.Email = normalizeEmail(in.Email)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	_, err := s.repoDB.GetAccountByEmail(ctx, in.Email)
	if err == nil {
		slog.WarnContext(ctx, "email already registered", "email", in.Email)
		return nil, errDuplicateAccount()
	}
	if !errors.Is(err, goerror.ErrNotFound) {
		slog.ErrorContext(ctx, "failed to repo get account by email", "email", in.Email, "error", err)
		return nil, goerror.NewUnavailable(err)
	}

	passwordHash, err := s.argon2id.Hash(ctx, in.Password)
	if errors.Is(err, hash.ErrInputTooLong) {
		return nil, errPasswordTooLong()
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash password", "error", err)
		return nil, goerror.NewServer(err)
	}

	code, pending, err := s.issueOTP(ctx)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	acc := entity.Account{
		ID:           s.uid.Generate(),
		Email:        in.Email,
		PasswordHash: string(passwordHash),
		IsVerified:   false,
		OTP:          &pending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// the unique index settles concurrent registrations of the same email
	err = s.repoDB.CreateAccount(ctx, acc)
	if errors.Is(err, goerror.ErrConflict) {
		slog.WarnContext(ctx, "email registered concurrently", "email", in.Email)
		return nil, errDuplicateAccount()
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo create account", "email", in.Email, "error", err)
		return nil, goerror.NewUnavailable(err)
	}

	s.sendOTP(ctx, &acc, code, OTPReasonRegister)

	return &RegisterOutput{AccountID: acc.ID}, nil
}
