// Package mailer delivers rendered newsletters over SMTP.
package mailer

import (
	"context"
	"fmt"
	"time"

	gomail "gopkg.in/gomail.v2"

	"ainewsletter/internal/retry"
)

// Sender delivers one HTML email. Implementations must not report success
// unless the message was accepted by the transport.
type Sender interface {
	Send(ctx context.Context, to, subject, html string) error
}

type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
	retry  retry.Config
}

func NewSMTPSender(host string, port int, username, password, from string) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
		retry: retry.Config{
			MaxAttempts: 3,
			Delay:       2 * time.Second,
			Backoff:     true,
		},
	}
}

// Send dispatches the message, retrying transient SMTP failures.
func (s *SMTPSender) Send(ctx context.Context, to, subject, html string) error {
	if to == "" {
		return fmt.Errorf("no recipient address")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", s.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", html)

	err := retry.WithRetry(ctx, s.retry, func() error {
		return s.dialer.DialAndSend(msg)
	})
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}
