package jwt

import (
	"errors"
	"strconv"
	"strings"
	"time"

	libJWT "github.com/golang-jwt/jwt/v5"
)

// DefaultTTL applies when Config.TTL is not positive.
const DefaultTTL = 60 * time.Minute

// hmacAlgorithms maps an algorithm name to its method and minimum key size,
// which is the digest length.
var hmacAlgorithms = map[string]struct {
	method *libJWT.SigningMethodHMAC
	minKey int
}{
	"HS256": {libJWT.SigningMethodHS256, 32},
	"HS384": {libJWT.SigningMethodHS384, 48},
	"HS512": {libJWT.SigningMethodHS512, 64},
}

// Symmetric signs and verifies tokens with one shared HMAC secret.
type Symmetric struct {
	cfg    Config
	method *libJWT.SigningMethodHMAC
	parser *libJWT.Parser
}

func NewSymmetric(cfg Config) (*Symmetric, error) {
	if len(cfg.Secret) == 0 {
		return nil, ErrSecretRequired
	}

	name := strings.ToUpper(strings.TrimSpace(cfg.Algorithm))
	if name == "" {
		name = libJWT.SigningMethodHS256.Alg()
	}
	alg, ok := hmacAlgorithms[name]
	if !ok {
		return nil, ErrInvalidSigningMethod
	}
	if len(cfg.Secret) < alg.minKey {
		return nil, ErrSigningKeyTooShort
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}

	opts := []libJWT.ParserOption{
		libJWT.WithValidMethods([]string{name}),
		libJWT.WithIssuedAt(),
		libJWT.WithExpirationRequired(),
		libJWT.WithTimeFunc(cfg.Clock.Now),
	}
	if cfg.Issuer != "" {
		opts = append(opts, libJWT.WithIssuer(cfg.Issuer))
	}
	if len(cfg.Audiences) > 0 {
		opts = append(opts, libJWT.WithAudience(cfg.Audiences...))
	}

	return &Symmetric{cfg: cfg, method: alg.method, parser: libJWT.NewParser(opts...)}, nil
}

func (s *Symmetric) Generate(accountID int64, email string, opts ...GenerateOption) (string, error) {
	var o generateOptions
	for _, opt := range opts {
		opt(&o)
	}

	ttl := s.cfg.TTL
	if o.ttl != nil {
		ttl = *o.ttl
	}

	now := s.cfg.Clock.Now()
	claims := Claims{
		RegisteredClaims: libJWT.RegisteredClaims{
			ID:        s.cfg.UUID.Generate(),
			Subject:   strconv.FormatInt(accountID, 10),
			Issuer:    s.cfg.Issuer,
			Audience:  s.cfg.Audiences,
			IssuedAt:  libJWT.NewNumericDate(now),
			NotBefore: libJWT.NewNumericDate(now),
			ExpiresAt: libJWT.NewNumericDate(now.Add(ttl)),
		},
		Email: email,
		Role:  o.role,
	}

	return libJWT.NewWithClaims(s.method, claims).SignedString(s.cfg.Secret)
}

// Verify returns ErrTokenExpired once exp has passed and ErrInvalidToken for
// any other failure.
func (s *Symmetric) Verify(token string) (Claims, error) {
	var claims Claims
	_, err := s.parser.ParseWithClaims(token, &claims, s.key)
	switch {
	case errors.Is(err, libJWT.ErrTokenExpired):
		return Claims{}, ErrTokenExpired
	case err != nil:
		return Claims{}, ErrInvalidToken
	}
	return claims, nil
}

func (s *Symmetric) key(t *libJWT.Token) (any, error) {
	if t.Method != s.method {
		return nil, ErrInvalidSigningMethod
	}
	return s.cfg.Secret, nil
}
