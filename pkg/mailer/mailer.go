package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// Config holds SMTP connection details.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Mailer sends transactional email over SMTP.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

// New creates a new Mailer.
func New(cfg Config) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

// SendWelcome delivers the account-created welcome message.
func (m *Mailer) SendWelcome(email, username string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", email)
	msg.SetHeader("Subject", "Welcome to Our App")
	msg.SetBody("text/html", fmt.Sprintf(
		"<h2>Welcome, %s!</h2><p>Your account has been created successfully.</p>",
		username,
	))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send welcome email to %s: %w", email, err)
	}
	return nil
}
