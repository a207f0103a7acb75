package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/shandysiswandi/quickcart/internal/pkg/stacktrace"
)

// delivery is a Message that remembers whether it was settled.
type delivery interface {
	Message
	settled() bool
}

// settle tracks the first Ack or Nack of a delivery.
type settle struct{ done atomic.Bool }

func (s *settle) settled() bool { return s.done.Load() }

// first reports whether this call is the one that settles the delivery.
func (s *settle) first() bool { return !s.done.Swap(true) }

// process runs handler on d, turning a panic into an error, then settles d
// when autoAck is on and the handler left it open.
func process(ctx context.Context, driver string, handler Handler, d delivery, autoAck bool) error {
	herr := safeCall(ctx, driver, handler, d)
	if !autoAck || d.settled() {
		return nil
	}
	if herr != nil {
		return d.Nack(ctx)
	}
	return d.Ack(ctx)
}

func safeCall(ctx context.Context, driver string, handler Handler, msg Message) (err error) {
	defer func() {
		v := recover()
		if v == nil {
			return
		}

		var stack any = string(debug.Stack())
		if frames := stacktrace.Internal(0); len(frames) > 0 {
			stack = frames
		}
		slog.ErrorContext(ctx, "messaging handler panicked", "driver", driver, "source", msg.Source(), "panic", v, "stack", stack)
		err = fmt.Errorf("messaging: %s handler panic: %v", driver, v)
	}()

	return handler(ctx, msg)
}

// workers runs fn over in with n goroutines until ctx is done. wait blocks
// until each goroutine has finished its current item.
func workers[T any](ctx context.Context, n int, in <-chan T, fn func(T)) (wait func()) {
	var wg sync.WaitGroup
	for range n {
		wg.Go(func() {
			for {
				select {
				case <-ctx.Done():
					return
				case item := <-in:
					fn(item)
				}
			}
		})
	}
	return wg.Wait
}
