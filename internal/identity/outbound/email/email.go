package email

import (
	"context"
	"time"

	"github.com/shandysiswandi/quickcart/internal/identity/usecase"
	"github.com/shandysiswandi/quickcart/internal/pkg/instrument"
	"github.com/shandysiswandi/quickcart/internal/pkg/mail"
	"github.com/shandysiswandi/quickcart/internal/shared/otpmail"
	"go.opentelemetry.io/otel/codes"
)

// Email sends the OTP from the request path without a broker hop.
type Email struct {
	mail mail.Mail
	ttl  time.Duration
	ins  instrument.Instrumentation
}

func NewEmail(m mail.Mail, ttl time.Duration, ins instrument.Instrumentation) *Email {
	return &Email{mail: m, ttl: ttl, ins: ins}
}

func (e *Email) NotifyOTP(ctx context.Context, msg usecase.OTPNotification) error {
	ctx, span := e.ins.Tracer("identity.outbound.email").Start(ctx, "NotifyOTP")
	defer span.End()

	if err := e.mail.Send(ctx, otpmail.Message(msg.Email, msg.Code, e.ttl)); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
