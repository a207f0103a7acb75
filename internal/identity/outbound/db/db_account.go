package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shandysiswandi/quickcart/internal/identity/entity"
)

const accountColumns = `id, email, password_hash, is_verified, otp_code, otp_expires_at, created_at, updated_at`

const getAccountByEmail = `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1`

const getAccountByID = `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

const createAccount = `
INSERT INTO accounts (id, email, password_hash, is_verified, otp_code, otp_expires_at, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

const markAccountVerified = `
UPDATE accounts
SET is_verified = TRUE, otp_code = NULL, otp_expires_at = NULL, updated_at = now()
WHERE id = $1 AND is_verified = FALSE AND otp_code = $2`

const replaceAccountOTP = `
UPDATE accounts
SET otp_code = $2, otp_expires_at = $3, updated_at = now()
WHERE id = $1 AND is_verified = FALSE`

func scanAccount(row pgx.Row) (*entity.Account, error) {
	var (
		acc          entity.Account
		otpCode      pgtype.Text
		otpExpiresAt pgtype.Timestamptz
	)

	if err := row.Scan(
		&acc.ID,
		&acc.Email,
		&acc.PasswordHash,
		&acc.IsVerified,
		&otpCode,
		&otpExpiresAt,
		&acc.CreatedAt,
		&acc.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if otpCode.Valid && otpExpiresAt.Valid {
		acc.OTP = &entity.PendingOTP{Digest: otpCode.String, ExpiresAt: otpExpiresAt.Time}
	}

	return &acc, nil
}

func (s *DB) GetAccountByEmail(ctx context.Context, email string) (_ *entity.Account, err error) {
	ctx, end := s.tracer.Start(ctx, "GetAccountByEmail")
	defer func() { end(err) }()

	acc, err := scanAccount(s.conn.QueryRow(ctx, getAccountByEmail, email))
	if err != nil {
		return nil, s.mapError(err)
	}

	return acc, nil
}

func (s *DB) GetAccountByID(ctx context.Context, id int64) (_ *entity.Account, err error) {
	ctx, end := s.tracer.Start(ctx, "GetAccountByID")
	defer func() { end(err) }()

	acc, err := scanAccount(s.conn.QueryRow(ctx, getAccountByID, id))
	if err != nil {
		return nil, s.mapError(err)
	}

	return acc, nil
}

func (s *DB) CreateAccount(ctx context.Context, acc entity.Account) (err error) {
	ctx, end := s.tracer.Start(ctx, "CreateAccount")
	defer func() { end(err) }()

	var (
		otpCode      pgtype.Text
		otpExpiresAt pgtype.Timestamptz
	)
	if acc.OTP != nil {
		otpCode = pgtype.Text{String: acc.OTP.Digest, Valid: true}
		otpExpiresAt = pgtype.Timestamptz{Time: acc.OTP.ExpiresAt, Valid: true}
	}

	_, err = s.conn.Exec(ctx, createAccount,
		acc.ID,
		acc.Email,
		acc.PasswordHash,
		acc.IsVerified,
		otpCode,
		otpExpiresAt,
		acc.CreatedAt,
		acc.UpdatedAt,
	)

	return s.mapError(err)
}

func (s *DB) MarkAccountVerified(ctx context.Context, id int64, digest string) (_ bool, err error) {
	ctx, end := s.tracer.Start(ctx, "MarkAccountVerified")
	defer func() { end(err) }()

	tag, err := s.conn.Exec(ctx, markAccountVerified, id, digest)
	if err != nil {
		return false, s.mapError(err)
	}

	return tag.RowsAffected() == 1, nil
}

func (s *DB) ReplaceAccountOTP(ctx context.Context, id int64, pending entity.PendingOTP) (_ bool, err error) {
	ctx, end := s.tracer.Start(ctx, "ReplaceAccountOTP")
	defer func() { end(err) }()

	tag, err := s.conn.Exec(ctx, replaceAccountOTP, id, pending.Digest, pending.ExpiresAt)
	if err != nil {
		return false, s.mapError(err)
	}

	return tag.RowsAffected() == 1, nil
}
