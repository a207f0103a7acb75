package identity

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/quickcart/internal/identity/inbound"
	"github.com/shandysiswandi/quickcart/internal/identity/outbound/db"
	"github.com/shandysiswandi/quickcart/internal/identity/outbound/email"
	"github.com/shandysiswandi/quickcart/internal/identity/outbound/mq"
	"github.com/shandysiswandi/quickcart/internal/identity/usecase"
	"github.com/shandysiswandi/quickcart/internal/pkg/clock"
	"github.com/shandysiswandi/quickcart/internal/pkg/config"
	"github.com/shandysiswandi/quickcart/internal/pkg/hash"
	"github.com/shandysiswandi/quickcart/internal/pkg/instrument"
	"github.com/shandysiswandi/quickcart/internal/pkg/jwt"
	"github.com/shandysiswandi/quickcart/internal/pkg/mail"
	"github.com/shandysiswandi/quickcart/internal/pkg/messaging"
	"github.com/shandysiswandi/quickcart/internal/pkg/otp"
	"github.com/shandysiswandi/quickcart/internal/pkg/ratelimit"
	"github.com/shandysiswandi/quickcart/internal/pkg/router"
	"github.com/shandysiswandi/quickcart/internal/pkg/uid"
	"github.com/shandysiswandi/quickcart/internal/pkg/validator"
)

const (
	deliveryMail      = "mail"
	deliveryMessaging = "messaging"
)

// PublicEndpoints lists the identity routes that skip bearer authentication.
var PublicEndpoints = inbound.PublicEndpoints

type Dependency struct {
	DBConn     *pgxpool.Pool              `validate:"required"`
	Limiter    ratelimit.Limiter          `validate:"required"`
	Router     *router.Router             `validate:"required"`
	Messaging  messaging.Publisher        `validate:"required"`
	Mail       mail.Mail                  `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	UID        uid.NumberID               `validate:"required"`
	HMAC       hash.Hash                  `validate:"required"`
	Argon2ID   hash.Hash                  `validate:"required"`
	OTP        otp.Generator              `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
	JWT        jwt.JWT                    `validate:"required"`
}

func New(dep Dependency) (*usecase.Usecase, error) {
	if err := dep.Validator.Validate(dep); err != nil {
		return nil, err
	}

	notifier, err := newNotifier(dep)
	if err != nil {
		return nil, err
	}

	uc := usecase.New(usecase.Dependency{
		RepoDB:     db.NewDB(dep.DBConn, dep.Instrument),
		Notifier:   notifier,
		Limiter:    dep.Limiter,
		Validator:  dep.Validator,
		Config:     dep.Config,
		Argon2ID:   dep.Argon2ID,
		HMAC:       dep.HMAC,
		UID:        dep.UID,
		OTP:        dep.OTP,
		Clock:      dep.Clock,
		JWT:        dep.JWT,
		Instrument: dep.Instrument,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return uc, nil
}

type otpNotifier interface {
	NotifyOTP(ctx context.Context, msg usecase.OTPNotification) error
}

func newNotifier(dep Dependency) (otpNotifier, error) {
	switch delivery := strings.ToLower(strings.TrimSpace(dep.Config.GetString("modules.identity.otp_delivery"))); delivery {
	case "", deliveryMail:
		ttl := dep.Config.GetMinute("modules.identity.otp_ttl_minutes")
		if ttl <= 0 {
			ttl = otp.DefaultTTL
		}
		return email.NewEmail(dep.Mail, ttl, dep.Instrument), nil
	case deliveryMessaging:
		return mq.NewMessaging(dep.Messaging, dep.Instrument), nil
	default:
		return nil, fmt.Errorf("identity: unknown otp delivery %q", delivery)
	}
}
