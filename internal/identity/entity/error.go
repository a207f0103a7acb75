package entity

import "errors"

var (
	ErrDuplicateAccount   = errors.New("identity: account already exists")
	ErrAccountNotFound    = errors.New("identity: account not found")
	ErrNoPendingOTP       = errors.New("identity: no pending otp")
	ErrOTPExpired         = errors.New("identity: otp expired")
	ErrOTPMismatch        = errors.New("identity: otp mismatch")
	ErrInvalidCredentials = errors.New("identity: invalid credentials")
	ErrNotVerified        = errors.New("identity: account not verified")
	ErrPasswordTooLong    = errors.New("identity: password too long")
	ErrInvalidToken       = errors.New("identity: invalid token")
	ErrUnauthenticated    = errors.New("identity: unauthenticated")
)
