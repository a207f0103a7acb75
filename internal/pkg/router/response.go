package router

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/shandysiswandi/quickcart/internal/pkg/goerror"
	"github.com/shandysiswandi/quickcart/internal/pkg/validator"
)

const (
	defaultMessage = "request has been successfully"
	retryAfter     = "60"
)

type errorResponse struct {
	Message string            `json:"message" example:"Invalid credentials"`
	Error   map[string]string `json:"error,omitempty"`
}

type successResponse struct {
	Message string         `json:"message" example:"request has been successfully"`
	Data    any            `json:"data,omitempty" swaggertype:"object"`
	Meta    map[string]any `json:"meta,omitempty" swaggertype:"object"`
}

// Optional hooks a handler result may implement to shape the envelope.
type (
	statusCoder interface{ StatusCode() int }
	messenger   interface{ Message() string }
	metaHolder  interface{ Meta() map[string]any }
	dataHolder  interface{ Data() any }
	// bare results are encoded as the whole body, without the envelope.
	bare        interface{ Bare() bool }
	errorSetter interface{ SetError(error) }
)

// fail records err for the observability middleware and writes the error
// envelope.
func fail(ctx context.Context, w http.ResponseWriter, err error) {
	if s, ok := w.(errorSetter); ok {
		s.SetError(err)
	}

	status, body := errorEnvelope(ctx, err)
	if status == http.StatusTooManyRequests {
		w.Header().Set("Retry-After", retryAfter)
	}
	writeJSON(w, body, status)
}

func errorEnvelope(ctx context.Context, err error) (int, errorResponse) {
	var gerr *goerror.Error
	if !errors.As(err, &gerr) {
		slog.ErrorContext(ctx, "unhandled error reached the router", "error", err)
		return http.StatusInternalServerError, errorResponse{Message: "Internal server error"}
	}

	body := errorResponse{Message: gerr.Msg(), Error: gerr.Fields()}
	if ve := (validator.V10ValidationError{}); errors.As(err, &ve) {
		body.Error = ve.Values()
	}
	if len(body.Error) == 0 {
		body.Error = nil
	}

	return gerr.StatusCode(), body
}

func succeed(w http.ResponseWriter, resp any) {
	status := http.StatusOK
	if sc, ok := resp.(statusCoder); ok {
		status = sc.StatusCode()
	}
	if resp == nil || status == http.StatusNoContent {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if b, ok := resp.(bare); ok && b.Bare() {
		writeJSON(w, resp, status)
		return
	}

	body := successResponse{Message: defaultMessage, Data: resp}
	if m, ok := resp.(messenger); ok {
		body.Message = m.Message()
	}
	if m, ok := resp.(metaHolder); ok {
		body.Meta = m.Meta()
	}
	if d, ok := resp.(dataHolder); ok {
		body.Data = d.Data()
	}

	writeJSON(w, body, status)
}

func writeJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("router: encode response", "error", err)
	}
}
