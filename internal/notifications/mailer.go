package notifications

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"net/textproto"
	"strings"
	"time"

	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/sethvargo/go-retry"
)

// Message is a plain-text mail. Bcc recipients never appear in headers.
type Message struct {
	From    string
	To      []string
	Bcc     []string
	Subject string
	Body    string
}

// Recipients returns every envelope recipient.
func (m Message) Recipients() []string {
	out := make([]string, 0, len(m.To)+len(m.Bcc))
	out = append(out, m.To...)
	out = append(out, m.Bcc...)
	return out
}

// Mailer delivers a composed message.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

const defaultSendTimeout = 10 * time.Second

type sendFunc func(ctx context.Context, addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPMailer relays messages through an SMTP server, retrying transient
// failures. Every attempt is bounded by the configured timeout.
type SMTPMailer struct {
	addr       string
	auth       smtp.Auth
	maxRetries uint64
	retryBase  time.Duration
	timeout    time.Duration
	send       sendFunc
}

// NewSMTPMailer builds a mailer from the mail configuration.
func NewSMTPMailer(cfg config.MailConfig) (*SMTPMailer, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("smtp host required")
	}
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, strings.TrimSpace(cfg.Host))
	}
	base := cfg.RetryBase
	if base <= 0 {
		base = 200 * time.Millisecond
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultSendTimeout
	}
	return &SMTPMailer{
		addr:       cfg.Addr(),
		auth:       auth,
		maxRetries: cfg.MaxRetries,
		retryBase:  base,
		timeout:    timeout,
		send:       sendSMTP,
	}, nil
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	recipients := msg.Recipients()
	if len(recipients) == 0 {
		return fmt.Errorf("message has no recipients")
	}
	payload := encodeMessage(msg)

	backoff := retry.WithMaxRetries(m.maxRetries, retry.NewExponential(m.retryBase))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		attemptCtx, cancel := context.WithTimeout(ctx, m.timeout)
		err := m.send(attemptCtx, m.addr, m.auth, msg.From, recipients, payload)
		cancel()
		if err == nil {
			return nil
		}
		if isPermanent(err) {
			return err
		}
		return retry.RetryableError(err)
	})
}

// sendSMTP is smtp.SendMail over a connection that honours ctx: the dial is
// cancellable, the deadline is applied to every read and write, and
// cancellation closes the connection.
func sendSMTP(ctx context.Context, addr string, a smtp.Auth, from string, to []string, msg []byte) error {
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	defer conn.Close()
	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			return err
		}
	}
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return err
	}
	c, err := smtp.NewClient(conn, host)
	if err != nil {
		return withCtxErr(ctx, err)
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: host}); err != nil {
			return withCtxErr(ctx, err)
		}
	}
	if a != nil {
		if ok, _ := c.Extension("AUTH"); ok {
			if err := c.Auth(a); err != nil {
				return withCtxErr(ctx, err)
			}
		}
	}
	if err := c.Mail(from); err != nil {
		return withCtxErr(ctx, err)
	}
	for _, rcpt := range to {
		if err := c.Rcpt(rcpt); err != nil {
			return withCtxErr(ctx, err)
		}
	}
	w, err := c.Data()
	if err != nil {
		return withCtxErr(ctx, err)
	}
	if _, err := w.Write(msg); err != nil {
		return withCtxErr(ctx, err)
	}
	if err := w.Close(); err != nil {
		return withCtxErr(ctx, err)
	}
	return withCtxErr(ctx, c.Quit())
}

// withCtxErr reports the context error when it caused the connection failure.
func withCtxErr(ctx context.Context, err error) error {
	if err != nil && ctx.Err() != nil {
		return fmt.Errorf("%w: %w", ctx.Err(), err)
	}
	return err
}

// 5xx replies are permanent rejections.
func isPermanent(err error) bool {
	var protoErr *textproto.Error
	if errors.As(err, &protoErr) {
		return protoErr.Code >= 500
	}
	return false
}

func encodeMessage(msg Message) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s\r\n", msg.From)
	fmt.Fprintf(&buf, "To: %s\r\n", strings.Join(msg.To, ", "))
	fmt.Fprintf(&buf, "Subject: %s\r\n", msg.Subject)
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(strings.ReplaceAll(msg.Body, "\n", "\r\n"))
	return buf.Bytes()
}

// LogMailer records messages through the logger instead of sending them.
type LogMailer struct {
	logg *logger.Logger
}

func NewLogMailer(logg *logger.Logger) *LogMailer {
	return &LogMailer{logg: logg}
}

func (m *LogMailer) Send(ctx context.Context, msg Message) error {
	if m.logg == nil {
		return nil
	}
	ctx = m.logg.WithFields(ctx, map[string]any{
		"mail_to":      strings.Join(msg.To, ","),
		"mail_bcc":     strings.Join(msg.Bcc, ","),
		"mail_subject": msg.Subject,
	})
	m.logg.Info(ctx, "mail.logged")
	return nil
}

// NewMailer picks the SMTP relay when one is configured and the log mailer
// otherwise.
func NewMailer(cfg config.MailConfig, logg *logger.Logger) (Mailer, error) {
	if !cfg.Enabled() {
		return NewLogMailer(logg), nil
	}
	smtpMailer, err := NewSMTPMailer(cfg)
	if err != nil {
		return nil, err
	}
	return smtpMailer, nil
}
