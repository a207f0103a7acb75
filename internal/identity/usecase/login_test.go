package usecase

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/shandysiswandi/quickcart/internal/identity/entity"
	"github.com/shandysiswandi/quickcart/internal/pkg/goerror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsecase_Login(t *testing.T) {
	f := newFixture(t)
	f.verifiedAccount(t, 11, "u@x.com", "secret123")

	out, err := f.uc.Login(context.Background(), LoginInput{Email: " U@X.COM", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "bearer", out.TokenType)

	clm, err := f.jwt.Verify(out.AccessToken)
	require.NoError(t, err)
	id, ok := clm.AccountID()
	require.True(t, ok)
	assert.Equal(t, int64(11), id)
	assert.Equal(t, entity.RoleCustomer, clm.Role)
}

func TestUsecase_Login_Failures(t *testing.T) {
	tests := []struct {
		name       string
		email      string
		password   string
		wantErr    error
		wantStatus int
	}{
		{name: "unknown email", email: "ghost@x.com", password: "secret123", wantErr: entity.ErrInvalidCredentials, wantStatus: http.StatusUnauthorized},
		{name: "wrong password verified", email: "ok@x.com", password: "wrong", wantErr: entity.ErrInvalidCredentials, wantStatus: http.StatusUnauthorized},
		{name: "wrong password unverified", email: "pending@x.com", password: "wrong", wantErr: entity.ErrInvalidCredentials, wantStatus: http.StatusUnauthorized},
		{name: "right password unverified", email: "pending@x.com", password: "secret123", wantErr: entity.ErrNotVerified, wantStatus: http.StatusForbidden},
	}

	f := newFixture(t)
	f.verifiedAccount(t, 1, "ok@x.com", "secret123")
	registerPending(t, f, "pending@x.com")

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.Login(context.Background(), LoginInput{Email: tt.email, Password: tt.password})

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.wantStatus, statusOf(t, err))
		})
	}
}

func TestUsecase_Login_SameMessageForUnknownAndWrongPassword(t *testing.T) {
	f := newFixture(t)
	f.verifiedAccount(t, 1, "ok@x.com", "secret123")

	_, errUnknown := f.uc.Login(context.Background(), LoginInput{Email: "ghost@x.com", Password: "secret123"})
	_, errWrong := f.uc.Login(context.Background(), LoginInput{Email: "ok@x.com", Password: "nope"})

	var a, b *goerror.Error
	require.ErrorAs(t, errUnknown, &a)
	require.ErrorAs(t, errWrong, &b)
	assert.Equal(t, a.Msg(), b.Msg())
	assert.Equal(t, a.StatusCode(), b.StatusCode())
}

func TestUsecase_Login_MissingFields(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Login(context.Background(), LoginInput{Email: "u@x.com"})

	var gerr *goerror.Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, goerror.TypeValidation, gerr.Type())
	assert.Equal(t, http.StatusBadRequest, gerr.StatusCode())
}

func TestUsecase_Login_StoreUnavailable(t *testing.T) {
	f := newFixture(t)
	f.repo.err = errors.New("context deadline exceeded")

	_, err := f.uc.Login(context.Background(), LoginInput{Email: "u@x.com", Password: "pw"})

	assert.Equal(t, http.StatusServiceUnavailable, statusOf(t, err))
}

func TestUsecase_Login_ContextEndedBeforeHashing(t *testing.T) {
	f := newFixture(t)
	f.verifiedAccount(t, 11, "u@x.com", "secret123")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.uc.Login(ctx, LoginInput{Email: "u@x.com", Password: "secret123"})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, http.StatusServiceUnavailable, statusOf(t, err))
}
