package usecase

import (
	"github.com/shandysiswandi/quickcart/internal/identity/entity"
	"github.com/shandysiswandi/quickcart/internal/pkg/goerror"
)

func errDuplicateAccount() error {
	return goerror.NewBusinessCause(entity.ErrDuplicateAccount, "Email already registered", goerror.CodeInvalidFormat)
}

func errPasswordTooLong() error {
	return goerror.NewBusinessCause(entity.ErrPasswordTooLong, "Password too long", goerror.CodeInvalidFormat)
}

func errAccountNotFound() error {
	return goerror.NewBusinessCause(entity.ErrAccountNotFound, "User not found", goerror.CodeInvalidFormat)
}

func errNoPendingOTP() error {
	return goerror.NewBusinessCause(entity.ErrNoPendingOTP, "No OTP pending for this account", goerror.CodeInvalidFormat)
}

func errOTPExpired() error {
	return goerror.NewBusinessCause(entity.ErrOTPExpired, "OTP expired", goerror.CodeInvalidFormat)
}

func errOTPMismatch() error {
	return goerror.NewBusinessCause(entity.ErrOTPMismatch, "Invalid OTP", goerror.CodeInvalidFormat)
}

func errInvalidCredentials() error {
	return goerror.NewBusinessCause(entity.ErrInvalidCredentials, "Invalid credentials", goerror.CodeUnauthorized)
}

func errNotVerified() error {
	return goerror.NewBusinessCause(entity.ErrNotVerified, "Email not verified", goerror.CodeForbidden)
}

func errInvalidToken() error {
	return goerror.NewBusinessCause(entity.ErrInvalidToken, "Invalid token", goerror.CodeUnauthorized)
}

func errUnauthenticated() error {
	return goerror.NewBusinessCause(entity.ErrUnauthenticated, "Authentication required", goerror.CodeUnauthorized)
}
