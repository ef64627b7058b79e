// Package mailer sends transactional waitlist emails through SendGrid.
package mailer

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/chainsafe/waitlist-api/pkg/config"
)

//go:embed templates/*.gohtml
var templatesFS embed.FS

const (
	verificationTemplate = "templates/verification_email.gohtml"
	verificationSubject  = "Verify your email to join the waitlist"
)

// Mailer sends waitlist emails via the SendGrid v3 API.
type Mailer struct {
	client  *sendgrid.Client
	from    *mail.Email
	baseURL string
	tmpl    *template.Template
}

// New creates a Mailer from the email configuration.
func New(cfg *config.EmailConfig) (*Mailer, error) {
	if cfg.SendgridAPIKey == "" || cfg.FromEmail == "" || cfg.BaseURL == "" {
		return nil, fmt.Errorf("incomplete email config: %+v", cfg)
	}

	tmpl, err := template.ParseFS(templatesFS, verificationTemplate)
	if err != nil {
		return nil, fmt.Errorf("error parsing verification template: %w", err)
	}

	return &Mailer{
		client:  sendgrid.NewSendClient(cfg.SendgridAPIKey),
		from:    mail.NewEmail(cfg.FromName, cfg.FromEmail),
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		tmpl:    tmpl,
	}, nil
}

// SendVerificationEmail sends the email-ownership challenge for a new or
// re-requested signup. The token is embedded in a verification link under
// the configured base URL.
func (m *Mailer) SendVerificationEmail(ctx context.Context, to, displayName, token string) error {
	verifyURL := fmt.Sprintf("%s/api/verify-email/%s", m.baseURL, token)

	var body bytes.Buffer
	err := m.tmpl.Execute(&body, struct {
		Name      string
		VerifyURL string
	}{Name: displayName, VerifyURL: verifyURL})
	if err != nil {
		return fmt.Errorf("error rendering verification email: %w", err)
	}

	msg := mail.NewSingleEmail(
		m.from,
		verificationSubject,
		mail.NewEmail(displayName, to),
		fmt.Sprintf("Verify your email to join the waitlist: %s", verifyURL),
		body.String(),
	)

	resp, err := m.client.SendWithContext(ctx, msg)
	if err != nil {
		return fmt.Errorf("error sending verification email: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid rejected verification email: status %d: %s", resp.StatusCode, resp.Body)
	}

	return nil
}
