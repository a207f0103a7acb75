package mq

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/shandysiswandi/quickcart/internal/identity/usecase"
	"github.com/shandysiswandi/quickcart/internal/pkg/instrument"
	"github.com/shandysiswandi/quickcart/internal/pkg/messaging"
	"github.com/shandysiswandi/quickcart/internal/shared/event"
	"go.opentelemetry.io/otel/codes"
)

// Messaging hands OTP delivery to the notification module through the broker.
type Messaging struct {
	client messaging.Publisher
	ins    instrument.Instrumentation
}

func NewMessaging(client messaging.Publisher, ins instrument.Instrumentation) *Messaging {
	return &Messaging{client: client, ins: ins}
}

func (m *Messaging) NotifyOTP(ctx context.Context, msg usecase.OTPNotification) error {
	ctx, span := m.ins.Tracer("identity.outbound.mq").Start(ctx, "NotifyOTP")
	defer span.End()

	body, err := json.Marshal(event.AccountOTPMessage{
		AccountID: msg.AccountID,
		Email:     msg.Email,
		Code:      msg.Code,
		ExpiresAt: msg.ExpiresAt,
		Reason:    event.AccountOTPReason(msg.Reason),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if err := m.client.Publish(ctx, event.AccountOTPDestination, messaging.OutgoingMessage{
		Body:    body,
		Key:     []byte(strconv.FormatInt(msg.AccountID, 10)),
		Headers: messaging.InjectTrace(ctx, map[string]string{messaging.HeaderCorrelationID: instrument.GetCorrelationID(ctx)}),
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
