package worker

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/corourke/Gigmanagerfigmamake-sub000/config"
)

// Mailer sends plain-text mail over SMTP. Configured returns false when no
// SMTP host is set; the processor then logs the send and marks it failed
// instead of erroring the job forever.
type Mailer struct {
	cfg config.EmailConfig
}

// NewMailer creates a mailer from the email config.
func NewMailer(cfg config.EmailConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

// Configured reports whether an SMTP host is set.
func (m *Mailer) Configured() bool {
	return m.cfg.SMTPHost != ""
}

// Send delivers one plain-text message.
func (m *Mailer) Send(to, subject, body string) error {
	from := m.cfg.FromAddress
	header := strings.Join([]string{
		"From: " + m.cfg.FromName + " <" + from + ">",
		"To: " + to,
		"Subject: " + subject,
		"Content-Type: text/plain; charset=utf-8",
	}, "\r\n")
	msg := []byte(header + "\r\n\r\n" + body + "\r\n")

	addr := fmt.Sprintf("%s:%d", m.cfg.SMTPHost, m.cfg.SMTPPort)
	var auth smtp.Auth
	if m.cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", m.cfg.SMTPUser, m.cfg.SMTPPass, m.cfg.SMTPHost)
	}
	return smtp.SendMail(addr, auth, from, []string{to}, msg)
}
