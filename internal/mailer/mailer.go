package mailer

import (
	"context"
	"fmt"

	"github.com/mangatarem/tourism-backend/pkg/logger"
	"gopkg.in/gomail.v2"
)

// Mailer sends the portal's account notifications. The SMTP implementation
// is swapped for Nop when no mail host is configured.
type Mailer interface {
	SendAccountApproved(ctx context.Context, to, username string) error
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTP(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (m *SMTPMailer) SendAccountApproved(_ context.Context, to, username string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Your contributor account has been approved")
	msg.SetBody("text/plain", fmt.Sprintf(
		"Hello %s,\n\nYour contributor account for the Mangatarem tourism portal has been approved. You can now sign in and manage your barangay's page.\n\nThank you,\nMunicipal Tourism Office", username))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return err
	}

	logger.Info("mail_sent", map[string]interface{}{
		"to":      to,
		"subject": "account approved",
	})
	return nil
}

// Nop is used when SMTP is not configured; sends are silently skipped.
type Nop struct{}

func (Nop) SendAccountApproved(context.Context, string, string) error {
	return nil
}
