package jwt

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrSecretRequired       = errors.New("jwt: signing secret is required")
	ErrInvalidSigningMethod = errors.New("jwt: unsupported signing method")
	// ErrSigningKeyTooShort means the secret is shorter than the digest of
	// the chosen algorithm.
	ErrSigningKeyTooShort = errors.New("jwt: signing key is too short for the algorithm")
	ErrTokenExpired       = errors.New("jwt: token has expired")
	// ErrInvalidToken covers every verification failure except expiry.
	ErrInvalidToken = errors.New("jwt: invalid token")
)

type JWT interface {
	// Generate signs a token whose subject is accountID.
	Generate(accountID int64, email string, opts ...GenerateOption) (string, error)
	Verify(token string) (Claims, error)
}

type Config struct {
	Secret []byte
	// Algorithm is HS256 (the default), HS384 or HS512.
	Algorithm string
	Issuer    string
	Audiences []string
	TTL       time.Duration
	Clock     interface{ Now() time.Time }
	// UUID produces the jti of each token.
	UUID interface{ Generate() string }
}

// Claims is the token payload. Email and Role are snapshots from issue time.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

// AccountID parses the subject. ok is false unless it is a positive integer.
func (c Claims) AccountID() (int64, bool) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

type GenerateOption func(*generateOptions)

type generateOptions struct {
	ttl  *time.Duration
	role string
}

// WithTTL replaces the configured lifetime for one token. Zero issues a token
// that is already expired.
func WithTTL(ttl time.Duration) GenerateOption {
	return func(o *generateOptions) { o.ttl = &ttl }
}

func WithRole(role string) GenerateOption {
	return func(o *generateOptions) { o.role = role }
}

type claimsKey struct{}

// GetAuth returns the claims set by SetAuth, or nil for an anonymous request.
func GetAuth(ctx context.Context) *Claims {
	if clm, ok := ctx.Value(claimsKey{}).(Claims); ok {
		return &clm
	}
	return nil
}

func SetAuth(ctx context.Context, clm Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, clm)
}
