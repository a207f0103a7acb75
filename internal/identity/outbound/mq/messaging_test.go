package mq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shandysiswandi/quickcart/internal/identity/usecase"
	"github.com/shandysiswandi/quickcart/internal/pkg/instrument"
	"github.com/shandysiswandi/quickcart/internal/pkg/messaging"
	"github.com/shandysiswandi/quickcart/internal/shared/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type publisherStub struct {
	destination string
	msg         messaging.OutgoingMessage
	err         error
}

func (p *publisherStub) Publish(_ context.Context, destination string, msg messaging.OutgoingMessage) error {
	p.destination = destination
	p.msg = msg
	return p.err
}

func TestMessaging_NotifyOTP(t *testing.T) {
	pub := &publisherStub{}
	m := NewMessaging(pub, instrument.NewNoop())
	exp := time.Date(2026, 5, 1, 12, 10, 0, 0, time.UTC)
	ctx := instrument.SetCorrelationID(context.Background(), "cid-1")

	err := m.NotifyOTP(ctx, usecase.OTPNotification{
		AccountID: 42,
		Email:     "u@x.com",
		Code:      "012345",
		ExpiresAt: exp,
		Reason:    usecase.OTPReasonRegister,
	})
	require.NoError(t, err)

	assert.Equal(t, event.AccountOTPDestination, pub.destination)
	assert.Equal(t, "42", string(pub.msg.Key))
	assert.Equal(t, "cid-1", pub.msg.Headers["cID"])

	var got event.AccountOTPMessage
	require.NoError(t, json.Unmarshal(pub.msg.Body, &got))
	assert.Equal(t, event.AccountOTPMessage{
		AccountID: 42,
		Email:     "u@x.com",
		Code:      "012345",
		ExpiresAt: exp,
		Reason:    event.AccountOTPReasonRegister,
	}, got)
}

func TestMessaging_NotifyOTP_PublishError(t *testing.T) {
	broker := errors.New("nats: no servers available")
	m := NewMessaging(&publisherStub{err: broker}, instrument.NewNoop())

	err := m.NotifyOTP(context.Background(), usecase.OTPNotification{AccountID: 1, Email: "u@x.com"})

	assert.ErrorIs(t, err, broker)
}
