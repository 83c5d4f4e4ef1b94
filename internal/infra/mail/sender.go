package mail

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

// SMTPSender delivers messages through an SMTP relay.
type SMTPSender struct {
	dialer *gomail.Dialer
}

func NewSMTPSender(host string, port int, user, password string) *SMTPSender {
	return &SMTPSender{dialer: gomail.NewDialer(host, port, user, password)}
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(msg.To) == 0 {
		return fmt.Errorf("smtp: no recipients")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", msg.From)
	m.SetHeader("To", msg.To...)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTML)

	done := make(chan error, 1)
	go func() { done <- s.dialer.DialAndSend(m) }()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp send: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
