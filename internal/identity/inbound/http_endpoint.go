package inbound

import (
	"strconv"

	"github.com/shandysiswandi/quickcart/internal/identity/usecase"
	"github.com/shandysiswandi/quickcart/internal/pkg/router"
)

// HTTPEndpoint exposes HTTP handlers for registration and authentication.
type HTTPEndpoint struct {
	uc uc
}

// Register creates an unverified account and emails an OTP.
// @Summary Register account
// @Description Creates an account pending email verification and sends a 6-digit OTP.
// @Tags Identity
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration payload"
// @Success 201 {object} router.successResponse "OTP sent"
// @Failure 400 {object} router.errorResponse "Email already registered or password too long"
// @Failure 503 {object} router.errorResponse "Service temporarily unavailable"
// @Router /api/v1/identity/register [post]
func (h *HTTPEndpoint) Register(r *router.Request) (any, error) {
	var req RegisterRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if _, err := h.uc.Register(r.Context(), usecase.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
	}); err != nil {
		return nil, err
	}

	return RegisterResponse{}, nil
}

// RegisterVerify activates an account with the emailed OTP.
// @Summary Verify OTP
// @Tags Identity
// @Accept json
// @Produce json
// @Param request body RegisterVerifyRequest true "Verification payload"
// @Success 200 {object} router.successResponse "Email verified"
// @Failure 400 {object} router.errorResponse "User not found, no pending OTP, OTP expired or invalid OTP"
// @Failure 429 {object} router.errorResponse "Too many requests"
// @Router /api/v1/identity/register/verify [post]
func (h *HTTPEndpoint) RegisterVerify(r *router.Request) (any, error) {
	var req RegisterVerifyRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.RegisterVerify(r.Context(), usecase.RegisterVerifyInput{
		Email: req.Email,
		OTP:   req.OTP,
	})
	if err != nil {
		return nil, err
	}

	return RegisterVerifyResponse{alreadyVerified: resp.AlreadyVerified}, nil
}

// RegisterResend sends a fresh OTP to a pending account.
// @Summary Resend OTP
// @Tags Identity
// @Accept json
// @Produce json
// @Param request body RegisterResendRequest true "Resend payload"
// @Success 200 {object} router.successResponse "Generic acknowledgment"
// @Failure 429 {object} router.errorResponse "Too many requests"
// @Router /api/v1/identity/register/resend [post]
func (h *HTTPEndpoint) RegisterResend(r *router.Request) (any, error) {
	var req RegisterResendRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.RegisterResend(r.Context(), usecase.RegisterResendInput{Email: req.Email}); err != nil {
		return nil, err
	}

	return RegisterResendResponse{}, nil
}

// Login exchanges verified credentials for an access token.
// @Summary Login
// @Tags Identity
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login payload"
// @Success 200 {object} LoginResponse "Access token"
// @Failure 400 {object} router.errorResponse "Validation error"
// @Failure 401 {object} router.errorResponse "Invalid credentials"
// @Failure 403 {object} router.errorResponse "Email not verified"
// @Router /api/v1/identity/login [post]
func (h *HTTPEndpoint) Login(r *router.Request) (any, error) {
	var req LoginRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Login(r.Context(), usecase.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return nil, err
	}

	return LoginResponse{AccessToken: resp.AccessToken, TokenType: resp.TokenType}, nil
}

// Me returns the account behind the bearer token.
// @Summary Current account
// @Tags Identity
// @Produce json
// @Security BearerAuth
// @Success 200 {object} router.successResponse{data=MeResponse} "Account"
// @Failure 401 {object} router.errorResponse "Authentication required"
// @Router /api/v1/identity/me [get]
func (h *HTTPEndpoint) Me(r *router.Request) (any, error) {
	acc, err := h.uc.Me(r.Context())
	if err != nil {
		return nil, err
	}

	return MeResponse{
		ID:         strconv.FormatInt(acc.ID, 10),
		Email:      acc.Email,
		IsVerified: acc.IsVerified,
		CreatedAt:  acc.CreatedAt,
	}, nil
}
