package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/quickcart/internal/identity/entity"
	"github.com/shandysiswandi/quickcart/internal/pkg/goerror"
	"github.com/shandysiswandi/quickcart/internal/pkg/jwt"
)

type LoginInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

type LoginOutput struct {
	AccessToken string
	TokenType   string
}

// Login checks credentials before the verification state so a wrong password
// never reveals whether the account is pending.
func (s *Usecase) Login(ctx context.Context, in LoginInput) (*LoginOutput, error) {
	ctx, span := s.startSpan(ctx, "Login")
	defer span.End()

	in.Email = normalizeEmail(in.Email)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	acc, err := s.repoDB.GetAccountByEmail(ctx, in.Email)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "account not found for login", "email", in.Email)
		return nil, errInvalidCredentials()
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get account by email", "email", in.Email, "error", err)
		return nil, goerror.NewUnavailable(err)
	}

	match, err := s.argon2id.Verify(ctx, acc.PasswordHash, in.Password)
	if err != nil {
		slog.ErrorContext(ctx, "failed to verify password", "account_id", acc.ID, "error", err)
		return nil, goerror.NewUnavailable(err)
	}
	if !match {
		slog.WarnContext(ctx, "password account not match", "account_id", acc.ID)
		return nil, errInvalidCredentials()
	}

	if !acc.IsVerified {
		slog.WarnContext(ctx, "account is unverified", "account_id", acc.ID)
		return nil, errNotVerified()
	}

	token, err := s.jwt.Generate(acc.ID, acc.Email, jwt.WithRole(entity.RoleCustomer))
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate access jwt token", "account_id", acc.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &LoginOutput{AccessToken: token, TokenType: "bearer"}, nil
}
