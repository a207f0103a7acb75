package email

import (
	"context"

	"github.com/shandysiswandi/quickcart/internal/pkg/instrument"
	"github.com/shandysiswandi/quickcart/internal/pkg/mail"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Email wraps the mail transport with tracing.
type Email struct {
	client mail.Mail
	from   string
	ins    instrument.Instrumentation
}

// NewEmail returns an Email. from fills messages that carry no sender.
func NewEmail(client mail.Mail, from string, ins instrument.Instrumentation) *Email {
	return &Email{client: client, from: from, ins: ins}
}

func (e *Email) Send(ctx context.Context, msg mail.Message) error {
	ctx, span := e.ins.Tracer("notification.outbound.email").Start(ctx, "Send")
	defer span.End()

	if msg.From == "" {
		msg.From = e.from
	}
	span.SetAttributes(attribute.Int("mail.recipients", len(msg.Recipients())))

	if err := e.client.Send(ctx, msg); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
