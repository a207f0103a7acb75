package messaging

import (
	"context"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go"
)

var ErrNATSURLRequired = errors.New("messaging: nats url is required")

type NATSConfig struct {
	URL     string
	Options []nats.Option
}

// NATS speaks core NATS. Deliveries are at most once, so Ack and Nack only
// matter for JetStream-bound messages.
type NATS struct {
	conn *nats.Conn
}

func NewNATS(cfg NATSConfig) (*NATS, error) {
	if cfg.URL == "" {
		return nil, ErrNATSURLRequired
	}

	conn, err := nats.Connect(cfg.URL, cfg.Options...)
	if err != nil {
		return nil, fmt.Errorf("messaging: nats connect: %w", err)
	}
	return &NATS{conn: conn}, nil
}

func (n *NATS) Close() error { return n.conn.Drain() }

// Publish sends msg and flushes, so a nil error means the server has it.
func (n *NATS) Publish(ctx context.Context, destination string, msg OutgoingMessage) error {
	if destination == "" {
		return ErrDestinationRequired
	}

	out := nats.NewMsg(destination)
	out.Data = msg.Body
	for k, v := range msg.Headers {
		out.Header.Set(k, v)
	}

	if err := n.conn.PublishMsg(out); err != nil {
		return fmt.Errorf("messaging: nats publish %s: %w", destination, err)
	}
	if err := n.flush(ctx); err != nil {
		return fmt.Errorf("messaging: nats flush: %w", err)
	}
	return nil
}

// flush waits for the server round trip. FlushWithContext insists on a
// deadline, so an unbounded ctx uses the client's own timeout.
func (n *NATS) flush(ctx context.Context) error {
	if _, ok := ctx.Deadline(); ok {
		return n.conn.FlushWithContext(ctx)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return n.conn.Flush()
}

func (n *NATS) Consume(ctx context.Context, source string, handler Handler, opts ...ConsumeOption) error {
	co, err := prepare(source, handler, opts)
	if err != nil {
		return err
	}

	inbox := make(chan *nats.Msg, co.workers)
	sub, err := n.conn.QueueSubscribe(source, co.group, func(m *nats.Msg) {
		select {
		case inbox <- m:
		case <-ctx.Done():
		}
	})
	if err != nil {
		return fmt.Errorf("messaging: nats subscribe %s: %w", source, err)
	}

	wait := workers(ctx, co.workers, inbox, func(m *nats.Msg) {
		//nolint:errcheck // core NATS settles nothing
		_ = process(ctx, DriverNATS, handler, &natsMessage{msg: m}, co.autoAck)
	})

	<-ctx.Done()
	uerr := sub.Unsubscribe()
	wait()

	return errors.Join(ctx.Err(), uerr)
}

type natsMessage struct {
	settle
	msg *nats.Msg
}

func (m *natsMessage) Body() []byte             { return m.msg.Data }
func (m *natsMessage) Key() []byte              { return nil }
func (m *natsMessage) Header(key string) string { return m.msg.Header.Get(key) }
func (m *natsMessage) Source() string           { return m.msg.Subject }

func (m *natsMessage) Ack(context.Context) error {
	if !m.first() {
		return nil
	}
	return withoutReply(m.msg.Ack())
}

func (m *natsMessage) Nack(context.Context) error {
	if !m.first() {
		return nil
	}
	return withoutReply(m.msg.Nak())
}

// withoutReply drops the error a plain subscription returns for acks.
func withoutReply(err error) error {
	if errors.Is(err, nats.ErrMsgNoReply) || errors.Is(err, nats.ErrMsgNotBound) {
		return nil
	}
	return err
}
