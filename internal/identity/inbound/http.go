package inbound

import (
	"context"

	"github.com/shandysiswandi/quickcart/internal/identity/entity"
	"github.com/shandysiswandi/quickcart/internal/identity/usecase"
	"github.com/shandysiswandi/quickcart/internal/pkg/router"
)

type uc interface {
	Register(ctx context.Context, in usecase.RegisterInput) (*usecase.RegisterOutput, error)
	RegisterVerify(ctx context.Context, in usecase.RegisterVerifyInput) (*usecase.RegisterVerifyOutput, error)
	RegisterResend(ctx context.Context, in usecase.RegisterResendInput) error

	Login(ctx context.Context, in usecase.LoginInput) (*usecase.LoginOutput, error)
	Me(ctx context.Context) (*entity.Account, error)
}

// PublicEndpoints lists the identity routes reachable without a bearer token.
var PublicEndpoints = map[string][]string{
	"POST": {
		"/api/v1/identity/register",
		"/api/v1/identity/register/verify",
		"/api/v1/identity/register/resend",
		"/api/v1/identity/login",
	},
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.POST("/api/v1/identity/register", end.Register)
	r.POST("/api/v1/identity/register/verify", end.RegisterVerify)
	r.POST("/api/v1/identity/register/resend", end.RegisterResend)
	//
	r.POST("/api/v1/identity/login", end.Login)
	//
	r.GET("/api/v1/identity/me", end.Me) // need authenticated
}
