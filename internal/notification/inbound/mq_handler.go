package inbound

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/shandysiswandi/quickcart/internal/notification/usecase"
	"github.com/shandysiswandi/quickcart/internal/pkg/instrument"
	"github.com/shandysiswandi/quickcart/internal/pkg/messaging"
	"github.com/shandysiswandi/quickcart/internal/pkg/uid"
	"github.com/shandysiswandi/quickcart/internal/shared/event"
)

type MQHandler struct {
	uc   uc
	uuid uid.StringID
	ins  instrument.Instrumentation
}

func (h *MQHandler) ensureCorrelationID(ctx context.Context, msg messaging.Message) context.Context {
	if cID := msg.Header(messaging.HeaderCorrelationID); cID != "" {
		return instrument.SetCorrelationID(ctx, cID)
	}
	return instrument.SetCorrelationID(ctx, h.uuid.Generate())
}

// AccountOTPNotification mails the code carried by an account_otp message.
// The body holds a plaintext code, so it is never logged.
func (h *MQHandler) AccountOTPNotification(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(messaging.ExtractTrace(ctx, msg), msg)

	ctx, span := h.ins.Tracer("notification.inbound.mq").Start(ctx, "AccountOTPNotification")
	defer span.End()

	var payload event.AccountOTPMessage
	if err := json.Unmarshal(msg.Body(), &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of account otp notification", "source", msg.Source(), "error", err)
		return nil
	}

	slog.InfoContext(ctx, "consume: account otp notification", "account_id", payload.AccountID, "reason", payload.Reason)

	if err := h.uc.ConsumeAccountOTP(ctx, usecase.ConsumeAccountOTPInput{
		AccountID: payload.AccountID,
		Email:     payload.Email,
		Code:      payload.Code,
		ExpiresAt: payload.ExpiresAt,
		Reason:    string(payload.Reason),
	}); err != nil {
		slog.ErrorContext(ctx, "failed to consume account otp", "account_id", payload.AccountID, "error", err)
		return err
	}

	return nil
}
