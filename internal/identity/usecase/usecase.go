package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/shandysiswandi/quickcart/internal/identity/entity"
	"github.com/shandysiswandi/quickcart/internal/pkg/clock"
	"github.com/shandysiswandi/quickcart/internal/pkg/config"
	"github.com/shandysiswandi/quickcart/internal/pkg/goerror"
	"github.com/shandysiswandi/quickcart/internal/pkg/hash"
	"github.com/shandysiswandi/quickcart/internal/pkg/instrument"
	"github.com/shandysiswandi/quickcart/internal/pkg/jwt"
	"github.com/shandysiswandi/quickcart/internal/pkg/otp"
	"github.com/shandysiswandi/quickcart/internal/pkg/ratelimit"
	"github.com/shandysiswandi/quickcart/internal/pkg/uid"
	"github.com/shandysiswandi/quickcart/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

// OTPReason tells the notifier why a code was issued.
type OTPReason string

const (
	OTPReasonRegister OTPReason = "register"
	OTPReasonResend   OTPReason = "resend"
)

// OTPNotification carries a plaintext code to the account email.
type OTPNotification struct {
	AccountID int64
	Email     string
	Code      string
	ExpiresAt time.Time
	Reason    OTPReason
}

type notifier interface {
	NotifyOTP(ctx context.Context, msg OTPNotification) error
}

type repoDB interface {
	GetAccountByEmail(ctx context.Context, email string) (*entity.Account, error)
	GetAccountByID(ctx context.Context, id int64) (*entity.Account, error)

	CreateAccount(ctx context.Context, acc entity.Account) error

	// MarkAccountVerified flips is_verified and clears the OTP pair only when
	// the account is still pending with the given digest.
	MarkAccountVerified(ctx context.Context, id int64, digest string) (bool, error)
	// ReplaceAccountOTP sets a new OTP pair only while the account is unverified.
	ReplaceAccountOTP(ctx context.Context, id int64, pending entity.PendingOTP) (bool, error)
}

type Usecase struct {
	repoDB    repoDB
	notifier  notifier
	limiter   ratelimit.Limiter
	validator validator.Validator
	cfg       config.Config
	argon2id  hash.Hash
	hmac      hash.Hash
	uid       uid.NumberID
	otp       otp.Generator
	clock     clock.Clocker
	jwt       jwt.JWT
	ins       instrument.Instrumentation
}

type Dependency struct {
	RepoDB     repoDB
	Notifier   notifier
	Limiter    ratelimit.Limiter
	Validator  validator.Validator
	Config     config.Config
	Argon2ID   hash.Hash
	HMAC       hash.Hash
	UID        uid.NumberID
	OTP        otp.Generator
	Clock      clock.Clocker
	JWT        jwt.JWT
	Instrument instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:    dep.RepoDB,
		notifier:  dep.Notifier,
		limiter:   dep.Limiter,
		validator: dep.Validator,
		cfg:       dep.Config,
		argon2id:  dep.Argon2ID,
		hmac:      dep.HMAC,
		uid:       dep.UID,
		otp:       dep.OTP,
		clock:     dep.Clock,
		jwt:       dep.JWT,
		ins:       dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("identity.usecase").Start(ctx, name)
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

// issueOTP returns the plaintext code and the digest pair to persist.
func (s *Usecase) issueOTP(ctx context.Context) (otp.Code, entity.PendingOTP, error) {
	code, err := s.otp.Generate()
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate otp code", "error", err)
		return otp.Code{}, entity.PendingOTP{}, goerror.NewServer(err)
	}

	digest, err := s.hmac.Hash(ctx, code.Value)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash otp code", "error", err)
		return otp.Code{}, entity.PendingOTP{}, goerror.NewServer(err)
	}

	return code, entity.PendingOTP{Digest: string(digest), ExpiresAt: code.ExpiresAt}, nil
}

// sendOTP never fails the caller; an undelivered code is recovered by resend.
func (s *Usecase) sendOTP(ctx context.Context, acc *entity.Account, code otp.Code, reason OTPReason) {
	if err := s.notifier.NotifyOTP(ctx, OTPNotification{
		AccountID: acc.ID,
		Email:     acc.Email,
		Code:      code.Value,
		ExpiresAt: code.ExpiresAt,
		Reason:    reason,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to notify otp", "account_id", acc.ID, "reason", string(reason), "error", err)
	}
}

func (s *Usecase) throttle(ctx context.Context, action, email string) error {
	limit := s.cfg.GetInt("modules.identity." + action + "_limit")
	window := s.cfg.GetMinute("modules.identity." + action + "_window_minutes")

	err := s.limiter.Allow(ctx, action+":"+email, limit, window)
	if errors.Is(err, ratelimit.ErrLimited) {
		slog.WarnContext(ctx, "otp action throttled", "action", action, "email", email)
		return goerror.NewBusiness("Too many requests", goerror.CodeTooManyRequest)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to check rate limit", "action", action, "email", email, "error", err)
		return goerror.NewUnavailable(err)
	}

	return nil
}
