package mail

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"mime"
	"mime/multipart"
	"net"
	"net/smtp"
	"net/textproto"
	"strconv"
	"strings"
	"time"
)

const defaultSMTPTimeout = 15 * time.Second

var ErrMissingAddress = errors.New("mail: smtp host and port are required")

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	// From is used when a message carries no sender.
	From string
	// Timeout bounds one delivery when ctx has no deadline of its own.
	Timeout time.Duration
}

// SMTP delivers mail through a relay, upgrading to TLS when the relay
// advertises STARTTLS.
type SMTP struct {
	cfg  SMTPConfig
	addr string
	auth smtp.Auth
	now  func() time.Time
}

func NewSMTP(cfg SMTPConfig) (*SMTP, error) {
	if cfg.Host == "" || cfg.Port <= 0 {
		return nil, ErrMissingAddress
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultSMTPTimeout
	}

	s := &SMTP{
		cfg:  cfg,
		addr: net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		now:  time.Now,
	}
	if cfg.Username != "" && cfg.Password != "" {
		s.auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}

	return s, nil
}

func (s *SMTP) Send(ctx context.Context, msg Message) error {
	from, rcpts, err := msg.envelope(s.cfg.From)
	if err != nil {
		return err
	}

	data, err := s.compose(from, msg)
	if err != nil {
		return err
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	client, err := s.dial(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	return s.transmit(client, from, rcpts, data)
}

func (s *SMTP) Close() error { return nil }

func (s *SMTP) dial(ctx context.Context) (*smtp.Client, error) {
	conn, err := (&net.Dialer{}).DialContext(ctx, "tcp", s.addr)
	if err != nil {
		return nil, fmt.Errorf("mail: dial %s: %w", s.addr, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("mail: greeting: %w", err)
	}

	return client, nil
}

func (s *SMTP) transmit(c *smtp.Client, from string, rcpts []string, data []byte) error {
	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: s.cfg.Host, MinVersion: tls.VersionTLS12}); err != nil {
			return fmt.Errorf("mail: starttls: %w", err)
		}
	}
	if s.auth != nil {
		if err := c.Auth(s.auth); err != nil {
			return fmt.Errorf("mail: auth: %w", err)
		}
	}

	if err := c.Mail(from); err != nil {
		return fmt.Errorf("mail: MAIL FROM: %w", err)
	}
	for _, rcpt := range rcpts {
		if err := c.Rcpt(rcpt); err != nil {
			return fmt.Errorf("mail: RCPT TO %s: %w", rcpt, err)
		}
	}

	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("mail: DATA: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("mail: write body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("mail: end of data: %w", err)
	}

	return c.Quit()
}

// compose renders the RFC 5322 message. Bcc never appears in the headers.
func (s *SMTP) compose(from string, msg Message) ([]byte, error) {
	var buf bytes.Buffer

	header := textproto.MIMEHeader{}
	header.Set("From", from)
	header.Set("To", strings.Join(msg.To, ", "))
	if len(msg.Cc) > 0 {
		header.Set("Cc", strings.Join(msg.Cc, ", "))
	}
	header.Set("Subject", mime.QEncoding.Encode("utf-8", msg.Subject))
	header.Set("Date", s.now().Format(time.RFC1123Z))
	header.Set("MIME-Version", "1.0")

	switch {
	case msg.HTMLBody != "" && msg.TextBody != "":
		mw := multipart.NewWriter(&buf)
		header.Set("Content-Type", "multipart/alternative; boundary="+mw.Boundary())
		writeHeader(&buf, header)

		for _, part := range []struct{ kind, body string }{
			{"text/plain", msg.TextBody},
			{"text/html", msg.HTMLBody},
		} {
			pw, err := mw.CreatePart(textproto.MIMEHeader{"Content-Type": {part.kind + "; charset=UTF-8"}})
			if err != nil {
				return nil, err
			}
			if _, err := pw.Write([]byte(part.body)); err != nil {
				return nil, err
			}
		}
		if err := mw.Close(); err != nil {
			return nil, err
		}
	case msg.HTMLBody != "":
		header.Set("Content-Type", "text/html; charset=UTF-8")
		writeHeader(&buf, header)
		buf.WriteString(msg.HTMLBody)
	default:
		header.Set("Content-Type", "text/plain; charset=UTF-8")
		writeHeader(&buf, header)
		buf.WriteString(msg.TextBody)
	}

	return buf.Bytes(), nil
}

var headerOrder = []string{"From", "To", "Cc", "Subject", "Date", "MIME-Version", "Content-Type"}

func writeHeader(buf *bytes.Buffer, h textproto.MIMEHeader) {
	for _, k := range headerOrder {
		if v := h.Get(k); v != "" {
			fmt.Fprintf(buf, "%s: %s\r\n", k, v)
		}
	}
	buf.WriteString("\r\n")
}
