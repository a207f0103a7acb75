package email

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shandysiswandi/quickcart/internal/identity/usecase"
	"github.com/shandysiswandi/quickcart/internal/pkg/instrument"
	"github.com/shandysiswandi/quickcart/internal/pkg/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mailStub struct {
	sent []mail.Message
	err  error
}

func (m *mailStub) Send(_ context.Context, msg mail.Message) error {
	m.sent = append(m.sent, msg)
	return m.err
}

func (m *mailStub) Close() error { return nil }

func TestEmail_NotifyOTP(t *testing.T) {
	stub := &mailStub{}
	e := NewEmail(stub, 10*time.Minute, instrument.NewNoop())

	err := e.NotifyOTP(context.Background(), usecase.OTPNotification{Email: "u@x.com", Code: "123456"})
	require.NoError(t, err)

	require.Len(t, stub.sent, 1)
	assert.Equal(t, []string{"u@x.com"}, stub.sent[0].To)
	assert.Equal(t, "Your QuickCart OTP Verification Code", stub.sent[0].Subject)
	assert.Equal(t, "Your OTP code is: 123456\n\nIt expires in 10 minutes.", stub.sent[0].TextBody)
}

func TestEmail_NotifyOTP_SendError(t *testing.T) {
	smtpErr := errors.New("smtp: 421 service not available")
	e := NewEmail(&mailStub{err: smtpErr}, 10*time.Minute, instrument.NewNoop())

	err := e.NotifyOTP(context.Background(), usecase.OTPNotification{Email: "u@x.com", Code: "123456"})

	assert.ErrorIs(t, err, smtpErr)
}
