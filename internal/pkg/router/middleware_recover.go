package router

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/shandysiswandi/quickcart/internal/pkg/goerror"
	"github.com/shandysiswandi/quickcart/internal/pkg/stacktrace"
)

// middlewareRecoverer answers a panicking handler with a 500 envelope.
// http.ErrAbortHandler is re-raised so net/http drops the connection.
func middlewareRecoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			//nolint:err113,errorlint // sentinel compared by identity
			if v == http.ErrAbortHandler {
				panic(v)
			}

			ctx := r.Context()
			slog.ErrorContext(ctx, "handler panicked", "panic", v, "stack", panicStack())
			fail(ctx, w, goerror.NewServer(fmt.Errorf("panic: %v", v)))
		}()

		next.ServeHTTP(w, r)
	})
}

// panicStack prefers the module-only frames and falls back to the full
// goroutine dump when none are found.
func panicStack() any {
	if frames := stacktrace.Internal(1); len(frames) > 0 {
		return frames
	}
	return string(debug.Stack())
}
