package messaging

import (
	"context"
	"errors"
	"io"
)

var (
	ErrDestinationRequired = errors.New("messaging: destination is required")
	ErrHandlerRequired     = errors.New("messaging: handler is required")
)

// Messaging is a broker client that can both publish and consume.
type Messaging interface {
	io.Closer
	Publisher
	Consumer
}

type Publisher interface {
	Publish(ctx context.Context, destination string, msg OutgoingMessage) error
}

// Consumer blocks in Consume until ctx is done or the broker fails.
type Consumer interface {
	Consume(ctx context.Context, source string, handler Handler, opts ...ConsumeOption) error
}

// Handler processes one delivery. Under WithAutoAck a nil error acks it and
// anything else nacks it.
type Handler func(ctx context.Context, msg Message) error

type OutgoingMessage struct {
	Body []byte
	// Key picks the Kafka partition. Other brokers ignore it.
	Key     []byte
	Headers map[string]string
}

// Message is a received delivery.
type Message interface {
	Body() []byte
	Key() []byte
	Header(key string) string
	Source() string

	Ack(ctx context.Context) error
	Nack(ctx context.Context) error
}

type consumeOptions struct {
	workers int
	autoAck bool
	group   string
}

type ConsumeOption func(*consumeOptions)

// WithConcurrency sets the number of handler goroutines. Values below one
// mean one.
func WithConcurrency(n int) ConsumeOption {
	return func(o *consumeOptions) { o.workers = n }
}

// WithGroup joins a Kafka consumer group or a NATS queue group. Members of
// one group split the stream between them.
func WithGroup(group string) ConsumeOption {
	return func(o *consumeOptions) { o.group = group }
}

func WithAutoAck(on bool) ConsumeOption {
	return func(o *consumeOptions) { o.autoAck = on }
}

// prepare checks the arguments shared by every Consume implementation and
// resolves the options.
func prepare(source string, handler Handler, opts []ConsumeOption) (consumeOptions, error) {
	co := consumeOptions{workers: 1}
	for _, opt := range opts {
		if opt != nil {
			opt(&co)
		}
	}
	co.workers = max(co.workers, 1)

	switch {
	case source == "":
		return co, ErrDestinationRequired
	case handler == nil:
		return co, ErrHandlerRequired
	}
	return co, nil
}
