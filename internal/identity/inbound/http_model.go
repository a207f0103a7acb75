package inbound

import (
	"net/http"
	"time"
)

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterResponse struct{}

func (RegisterResponse) StatusCode() int {
	return http.StatusCreated
}

func (RegisterResponse) Message() string {
	return "OTP sent to your email. Please verify to activate your account."
}

func (RegisterResponse) Data() any {
	return nil
}

type RegisterVerifyRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type RegisterVerifyResponse struct {
	alreadyVerified bool
}

func (r RegisterVerifyResponse) Message() string {
	if r.alreadyVerified {
		return "Email already verified"
	}
	return "Email verified successfully! You can now log in."
}

func (RegisterVerifyResponse) Data() any {
	return nil
}

type RegisterResendRequest struct {
	Email string `json:"email"`
}

type RegisterResendResponse struct{}

func (RegisterResendResponse) Message() string {
	return "If the account is awaiting verification, a new OTP has been sent."
}

func (RegisterResendResponse) Data() any {
	return nil
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Bare keeps the token response flat, the shape OAuth2 clients expect.
func (LoginResponse) Bare() bool { return true }

type MeResponse struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	IsVerified bool      `json:"is_verified"`
	CreatedAt  time.Time `json:"created_at"`
}
