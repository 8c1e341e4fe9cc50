package services

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/Wahiduz89/spendsmart/internal/config"
)

// emailService delivers alert emails over SMTP. When SMTP is disabled in
// configuration every send is a silent no-op, which keeps development
// environments mail-free.
type emailService struct {
	cfg *config.Config
}

// NewEmailService creates a new EmailSender backed by the configured SMTP
// server.
func NewEmailService(cfg *config.Config) EmailSender {
	return &emailService{cfg: cfg}
}

// SendAlert sends a single alert email.
func (s *emailService) SendAlert(to, subject, body string) error {
	if !s.cfg.SMTPEnabled {
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.SMTPFrom)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", fmt.Sprintf(`
		<div style="font-family: sans-serif; max-width: 600px;">
			<h2 style="color: #1f2937;">%s</h2>
			<p style="color: #4b5563; font-size: 15px;">%s</p>
			<p style="color: #9ca3af; font-size: 12px;">You are receiving this because budget alert emails are enabled in your notification preferences.</p>
		</div>`, subject, body))

	d := gomail.NewDialer(s.cfg.SMTPHost, s.cfg.SMTPPort, s.cfg.SMTPUser, s.cfg.SMTPPassword)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send alert email: %w", err)
	}
	return nil
}
