// Package goroutine supervises long-running background jobs such as broker
// consumers.
package goroutine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"runtime/debug"
	"sync"

	"github.com/shandysiswandi/quickcart/internal/pkg/stacktrace"
	"golang.org/x/sync/errgroup"
)

// DefaultMaxGoroutine is multiplied by NumCPU when NewManager gets no limit.
const DefaultMaxGoroutine int = 100

// Manager runs jobs under a concurrency cap. A job that panics is logged and
// reported as an error. Jobs that end with their context's cancellation are
// treated as a clean stop.
type Manager struct {
	group errgroup.Group

	// state guards closed against Go and errs against job completion.
	state  sync.RWMutex
	closed bool
	errMu  sync.Mutex
	errs   []error
}

func NewManager(limit int) *Manager {
	if limit < 1 {
		limit = runtime.NumCPU() * DefaultMaxGoroutine
	}

	m := &Manager{}
	m.group.SetLimit(limit)
	return m
}

// Go starts job. Nothing is queued: a closed manager, a finished ctx or a
// full manager drops the job with a warning.
func (m *Manager) Go(ctx context.Context, job func(ctx context.Context) error) {
	if m == nil {
		return
	}

	m.state.RLock()
	defer m.state.RUnlock()

	switch {
	case m.closed:
		slog.WarnContext(ctx, "goroutine manager closed, job dropped")
	case ctx.Err() != nil:
		slog.WarnContext(ctx, "context done before job start, job dropped", "error", ctx.Err())
	case !m.group.TryGo(func() error { m.record(ctx, m.supervise(ctx, job)); return nil }):
		slog.WarnContext(ctx, "goroutine limit reached, job dropped")
	}
}

func (m *Manager) supervise(ctx context.Context, job func(context.Context) error) (err error) {
	defer func() {
		v := recover()
		if v == nil {
			return
		}

		var stack any = string(debug.Stack())
		if frames := stacktrace.Internal(0); len(frames) > 0 {
			stack = frames
		}
		slog.ErrorContext(ctx, "background job panicked", "panic", v, "stack", stack)
		err = fmt.Errorf("goroutine: job panicked: %v", v)
	}()

	return job(ctx)
}

func (m *Manager) record(ctx context.Context, err error) {
	if err == nil || (ctx.Err() != nil && errors.Is(err, ctx.Err())) {
		return
	}

	m.errMu.Lock()
	defer m.errMu.Unlock()
	m.errs = append(m.errs, err)
}

// Wait stops accepting jobs, waits for the running ones and joins their
// errors.
func (m *Manager) Wait() error {
	if m == nil {
		return nil
	}

	m.state.Lock()
	m.closed = true
	m.state.Unlock()

	//nolint:errcheck // jobs report through record
	_ = m.group.Wait()

	m.errMu.Lock()
	defer m.errMu.Unlock()
	return errors.Join(m.errs...)
}
