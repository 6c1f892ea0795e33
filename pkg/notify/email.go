package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// EmailConfig holds the SMTP settings for email alerts.
type EmailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       string
}

// Validate reports which required settings are missing, so the watcher
// can refuse to start with a half-configured mailer instead of failing
// at notification time.
func (c EmailConfig) Validate() error {
	var missing []string
	if c.Host == "" {
		missing = append(missing, "host")
	}
	if c.Port == 0 {
		missing = append(missing, "port")
	}
	if c.Username == "" {
		missing = append(missing, "username")
	}
	if c.Password == "" {
		missing = append(missing, "password")
	}
	if c.From == "" {
		missing = append(missing, "from")
	}
	if c.To == "" {
		missing = append(missing, "to")
	}
	if len(missing) > 0 {
		return fmt.Errorf("email enabled but missing settings: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Email sends alerts over SMTP with PLAIN auth.
type Email struct {
	Cfg EmailConfig
	// sendMail is swappable in tests.
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewEmail builds an Email notifier. The config should be validated
// before use.
func NewEmail(cfg EmailConfig) *Email {
	return &Email{Cfg: cfg, sendMail: smtp.SendMail}
}

func (e *Email) Name() string { return "email" }

func (e *Email) Send(ctx context.Context, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	addr := fmt.Sprintf("%s:%d", e.Cfg.Host, e.Cfg.Port)
	auth := smtp.PlainAuth("", e.Cfg.Username, e.Cfg.Password, e.Cfg.Host)
	msg := buildMIME(e.Cfg.From, e.Cfg.To, subject, body)
	return e.sendMail(addr, auth, e.Cfg.From, []string{e.Cfg.To}, msg)
}

func buildMIME(from, to, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}
