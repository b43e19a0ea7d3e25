package services

import (
	"fmt"

	gomail "github.com/wneessen/go-mail"

	"github.com/chattyhq/chatty/types"
)

// Mailer delivers a finished blog post to the configured recipient.
type Mailer interface {
	Send(subject, body string) error
}

// SMTPMailer sends plain-text mail through an authenticated SMTP server.
type SMTPMailer struct {
	cfg types.EmailConfig
}

func NewSMTPMailer(cfg types.EmailConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// Send builds and delivers one message. The client is constructed per
// call; sending is rare enough that connection reuse buys nothing.
func (m *SMTPMailer) Send(subject, body string) error {
	msg := gomail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return fmt.Errorf("mail from %q: %w", m.cfg.From, err)
	}
	if err := msg.To(m.cfg.To); err != nil {
		return fmt.Errorf("mail to %q: %w", m.cfg.To, err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, body)

	client, err := gomail.NewClient(m.cfg.Host,
		gomail.WithPort(m.cfg.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(m.cfg.Username),
		gomail.WithPassword(m.cfg.Password),
	)
	if err != nil {
		return fmt.Errorf("mail client: %w", err)
	}
	if err := client.DialAndSend(msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}
