package mail

import (
	"context"
	"log/slog"
)

// Log prints messages instead of delivering them. Use it for local runs.
type Log struct{ from string }

func NewLog(from string) *Log {
	if from == "" {
		from = "no-reply@localhost"
	}
	return &Log{from: from}
}

func (l *Log) Send(ctx context.Context, msg Message) error {
	from, rcpts, err := msg.envelope(l.from)
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "mail captured by log driver",
		"from", from,
		"recipients", rcpts,
		"subject", msg.Subject,
		"text_body", msg.TextBody,
	)
	return nil
}

func (l *Log) Close() error { return nil }
