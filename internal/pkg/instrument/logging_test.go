package instrument

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func TestNewLogger_MasksAndCorrelates(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, LoggerOptions{ServiceName: "quickcart", MaskFields: []string{"Password", " otp "}})

	ctx := SetCorrelationID(context.Background(), "cid-1")
	logger.InfoContext(ctx, "register", "email", "u@x.com", "password", "secret123",
		"body", map[string]any{"otp": "123456", "nested": map[string]any{"password": "p"}})

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))

	assert.Equal(t, "register", rec["msg"])
	assert.Equal(t, "cid-1", rec["_cID"])
	assert.Equal(t, "quickcart", rec["service"])
	assert.Equal(t, "u@x.com", rec["email"])
	assert.Equal(t, "***", rec["password"])

	body, ok := rec["body"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "***", body["otp"])
	assert.Equal(t, "***", body["nested"].(map[string]any)["password"])
}

func TestMaskData_Slices(t *testing.T) {
	got := MaskData([]any{map[string]any{"access_token": "t", "id": 1.0}}, MaskKeys([]string{"access_token"}))

	assert.Equal(t, []any{map[string]any{"access_token": "***", "id": 1.0}}, got)
}

func TestCorrelationID(t *testing.T) {
	assert.Empty(t, GetCorrelationID(context.Background()))
	assert.Equal(t, "abc", GetCorrelationID(SetCorrelationID(context.Background(), "abc")))
}

func TestNewNoop(t *testing.T) {
	ins := NewNoop()

	_, span := ins.Tracer("t").Start(context.Background(), "op")
	span.End()
	assert.NoError(t, ins.Shutdown(context.Background()))
}

func TestNewLogger_LevelAndTrace(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, LoggerOptions{ServiceName: "quickcart", Level: slog.LevelWarn})

	logger.Info("dropped")
	assert.Zero(t, buf.Len())

	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    trace.TraceID{1},
		SpanID:     trace.SpanID{2},
		TraceFlags: trace.FlagsSampled,
	})
	logger.WarnContext(trace.ContextWithSpanContext(context.Background(), sc), "kept")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "WARN", rec["severity"])
	assert.Equal(t, sc.TraceID().String(), rec["trace_id"])
	assert.Equal(t, sc.SpanID().String(), rec["span_id"])
}

func TestNewLogger_MasksWithAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, LoggerOptions{MaskFields: []string{"token"}}).With("token", "abc")

	logger.Info("x")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "***", rec["token"])
}

func TestConfig_Level(t *testing.T) {
	assert.Equal(t, slog.LevelInfo, (&Config{}).level())
	assert.Equal(t, slog.LevelDebug, (&Config{LogLevel: "debug"}).level())
	assert.Equal(t, slog.LevelInfo, (&Config{LogLevel: "loud"}).level())
}
