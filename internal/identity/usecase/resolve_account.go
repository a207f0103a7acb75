package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/quickcart/internal/identity/entity"
	"github.com/shandysiswandi/quickcart/internal/pkg/goerror"
	"github.com/shandysiswandi/quickcart/internal/pkg/jwt"
)

// ResolveAccount loads the account a verified token refers to.
func (s *Usecase) ResolveAccount(ctx context.Context, clm jwt.Claims) (*entity.Account, error) {
	ctx, span := s.startSpan(ctx, "ResolveAccount")
	defer span.End()

	id, ok := clm.AccountID()
	if !ok {
		slog.WarnContext(ctx, "token has no account subject", "subject", clm.Subject)
		return nil, errInvalidToken()
	}

	acc, err := s.repoDB.GetAccountByID(ctx, id)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "token account not found", "account_id", id)
		return nil, errUnauthenticated()
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get account by id", "account_id", id, "error", err)
		return nil, goerror.NewUnavailable(err)
	}

	return acc, nil
}

// Me resolves the account of the authenticated request.
func (s *Usecase) Me(ctx context.Context) (*entity.Account, error) {
	ctx, span := s.startSpan(ctx, "Me")
	defer span.End()

	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return nil, errUnauthenticated()
	}

	return s.ResolveAccount(ctx, *clm)
}
