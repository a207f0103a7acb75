package mail

import (
	"context"
	"errors"
	"io"
	"slices"
)

var (
	ErrNoRecipients = errors.New("mail: message has no recipients")
	ErrNoSender     = errors.New("mail: message has no sender")
)

// Message is one email. From may be empty, in which case the sender falls
// back to the transport default.
type Message struct {
	From     string
	To       []string
	Cc       []string
	Bcc      []string
	Subject  string
	TextBody string
	HTMLBody string
}

// Recipients returns every envelope address: To, Cc then Bcc.
func (m Message) Recipients() []string {
	return slices.Concat(m.To, m.Cc, m.Bcc)
}

// envelope resolves the sender and recipient list for delivery.
func (m Message) envelope(fallbackFrom string) (string, []string, error) {
	rcpts := m.Recipients()
	if len(rcpts) == 0 {
		return "", nil, ErrNoRecipients
	}

	from := m.From
	if from == "" {
		from = fallbackFrom
	}
	if from == "" {
		return "", nil, ErrNoSender
	}

	return from, rcpts, nil
}

type Mail interface {
	io.Closer
	Send(ctx context.Context, msg Message) error
}
