package notify

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"strings"

	"hostel-management-backend/internal/config"
)

// ErrNotConfigured is returned when outbound credentials are absent. Callers
// log it and degrade the dependent feature instead of failing the request.
var ErrNotConfigured = errors.New("notification channel not configured")

// Invite is the fixed payload contract for account invitation mail.
type Invite struct {
	To            string
	Name          string
	Role          string
	Email         string
	PlainPassword string
	LoginURL      string
}

// HostelCreated is the fixed payload contract for new-hostel provisioning mail.
type HostelCreated struct {
	To            string
	HostelName    string
	AdminName     string
	LicenseExpiry string
	Email         string
	PlainPassword string
	LoginURL      string
}

// Mailer sends transactional mail over SMTP. A zero SMTP config produces a
// mailer whose sends fail with ErrNotConfigured.
type Mailer struct {
	cfg     config.SMTPConfig
	baseURL string
}

func NewMailer(cfg config.SMTPConfig, baseURL string) *Mailer {
	return &Mailer{cfg: cfg, baseURL: baseURL}
}

// LoginURL is the public address embedded in invite mail.
func (m *Mailer) LoginURL() string {
	return strings.TrimRight(m.baseURL, "/") + "/login"
}

// SendInvite mails temporary credentials to a newly created or email-changed
// account.
func (m *Mailer) SendInvite(ctx context.Context, inv Invite) error {
	subject := "Your hostel account invitation"
	body := fmt.Sprintf(
		"Hello %s,\r\n\r\n"+
			"An account has been created for you with the role %s.\r\n\r\n"+
			"Login email: %s\r\n"+
			"Temporary password: %s\r\n\r\n"+
			"Sign in at %s and change your password after first login.\r\n",
		inv.Name, inv.Role, inv.Email, inv.PlainPassword, inv.LoginURL)
	return m.send(ctx, inv.To, subject, body)
}

// SendHostelCreated mails the hostel admin their provisioning credentials.
func (m *Mailer) SendHostelCreated(ctx context.Context, hc HostelCreated) error {
	subject := fmt.Sprintf("Hostel %s has been provisioned", hc.HostelName)
	body := fmt.Sprintf(
		"Hello %s,\r\n\r\n"+
			"The hostel %s has been registered. License valid until %s.\r\n\r\n"+
			"Admin login email: %s\r\n"+
			"Temporary password: %s\r\n\r\n"+
			"Sign in at %s and change your password after first login.\r\n",
		hc.AdminName, hc.HostelName, hc.LicenseExpiry, hc.Email, hc.PlainPassword, hc.LoginURL)
	return m.send(ctx, hc.To, subject, body)
}

func (m *Mailer) send(ctx context.Context, to, subject, body string) error {
	if m.cfg.Host == "" || m.cfg.From == "" {
		return ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := strings.Join([]string{
		"From: " + m.cfg.From,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		body,
	}, "\r\n")

	addr := m.cfg.Host + ":" + m.cfg.Port
	var auth smtp.Auth
	if m.cfg.User != "" {
		auth = smtp.PlainAuth("", m.cfg.User, m.cfg.Password, m.cfg.Host)
	}
	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("smtp send to %s: %w", to, err)
	}
	return nil
}
