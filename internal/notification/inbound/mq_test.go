package inbound

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shandysiswandi/quickcart/internal/notification/usecase"
	"github.com/shandysiswandi/quickcart/internal/pkg/config"
	"github.com/shandysiswandi/quickcart/internal/pkg/goroutine"
	"github.com/shandysiswandi/quickcart/internal/pkg/instrument"
	"github.com/shandysiswandi/quickcart/internal/pkg/messaging"
	"github.com/shandysiswandi/quickcart/internal/pkg/uid"
	"github.com/shandysiswandi/quickcart/internal/shared/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ucStub struct {
	mu    sync.Mutex
	calls []usecase.ConsumeAccountOTPInput
	cIDs  []string
	err   error
}

func (u *ucStub) ConsumeAccountOTP(ctx context.Context, in usecase.ConsumeAccountOTPInput) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.calls = append(u.calls, in)
	u.cIDs = append(u.cIDs, instrument.GetCorrelationID(ctx))
	return u.err
}

func (u *ucStub) count() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.calls)
}

type messageStub struct {
	body    []byte
	headers map[string]string
}

func (m *messageStub) Body() []byte               { return m.body }
func (m *messageStub) Key() []byte                { return nil }
func (m *messageStub) Header(key string) string   { return m.headers[key] }
func (m *messageStub) Source() string             { return event.AccountOTPDestination }
func (m *messageStub) Ack(context.Context) error  { return nil }
func (m *messageStub) Nack(context.Context) error { return nil }

type fixedUUID string

func (f fixedUUID) Generate() string { return string(f) }

var expiresAt = time.Date(2026, 3, 1, 9, 10, 0, 0, time.UTC)

func otpBody(t *testing.T) []byte {
	t.Helper()

	body, err := json.Marshal(event.AccountOTPMessage{
		AccountID: 11,
		Email:     "buyer@example.com",
		Code:      "042917",
		ExpiresAt: expiresAt,
		Reason:    event.AccountOTPReasonResend,
	})
	require.NoError(t, err)
	return body
}

func TestMQHandler_AccountOTPNotification(t *testing.T) {
	t.Run("forwards payload with upstream correlation id", func(t *testing.T) {
		stub := &ucStub{}
		h := &MQHandler{uc: stub, uuid: fixedUUID("generated"), ins: instrument.NewNoop()}

		err := h.AccountOTPNotification(context.Background(), &messageStub{
			body:    otpBody(t),
			headers: map[string]string{"cID": "req-7"},
		})

		require.NoError(t, err)
		require.Len(t, stub.calls, 1)
		assert.Equal(t, usecase.ConsumeAccountOTPInput{
			AccountID: 11,
			Email:     "buyer@example.com",
			Code:      "042917",
			ExpiresAt: expiresAt,
			Reason:    "resend",
		}, stub.calls[0])
		assert.Equal(t, []string{"req-7"}, stub.cIDs)
	})

	t.Run("generates correlation id", func(t *testing.T) {
		stub := &ucStub{}
		h := &MQHandler{uc: stub, uuid: fixedUUID("generated"), ins: instrument.NewNoop()}

		require.NoError(t, h.AccountOTPNotification(context.Background(), &messageStub{body: otpBody(t)}))

		assert.Equal(t, []string{"generated"}, stub.cIDs)
	})

	t.Run("malformed body is acked", func(t *testing.T) {
		stub := &ucStub{}
		h := &MQHandler{uc: stub, uuid: fixedUUID("generated"), ins: instrument.NewNoop()}

		err := h.AccountOTPNotification(context.Background(), &messageStub{body: []byte(`{"account_id":`)})

		assert.NoError(t, err)
		assert.Empty(t, stub.calls)
	})

	t.Run("usecase error is returned", func(t *testing.T) {
		stub := &ucStub{err: errors.New("mail down")}
		h := &MQHandler{uc: stub, uuid: fixedUUID("generated"), ins: instrument.NewNoop()}

		err := h.AccountOTPNotification(context.Background(), &messageStub{body: otpBody(t)})

		assert.EqualError(t, err, "mail down")
	})
}

func TestRegisterMQConsumer(t *testing.T) {
	t.Run("consumes from broker", func(t *testing.T) {
		cfg, err := config.NewViperFromBytes("yaml", nil)
		require.NoError(t, err)

		broker := messaging.NewMemory()
		routine := goroutine.NewManager(2)
		stub := &ucStub{}

		ctx, cancel := context.WithCancel(context.Background())
		RegisterMQConsumer(ctx, cfg, routine, broker, uid.NewUUID(), stub, instrument.NewNoop())

		require.Eventually(t, func() bool {
			_ = broker.Publish(context.Background(), event.AccountOTPDestination, messaging.OutgoingMessage{Body: otpBody(t)})
			return stub.count() > 0
		}, 2*time.Second, 10*time.Millisecond)

		cancel()
		_ = routine.Wait()

		assert.Equal(t, int64(11), stub.calls[0].AccountID)
	})

	t.Run("disabled by consumer names", func(t *testing.T) {
		cfg, err := config.NewViperFromBytes("yaml", []byte("modules:\n  notification:\n    consumer_names: other_consumer\n"))
		require.NoError(t, err)

		routine := goroutine.NewManager(2)
		RegisterMQConsumer(context.Background(), cfg, routine, messaging.NewMemory(), uid.NewUUID(), &ucStub{}, instrument.NewNoop())

		assert.NoError(t, routine.Wait(), "no consumer was scheduled")
	})
}
