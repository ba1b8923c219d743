package email

import (
	"nudge_backend/internal/config"

	"gopkg.in/gomail.v2"
)

// SMTPProvider delivers mail over SMTP using gomail.
type SMTPProvider struct {
	dialer    *gomail.Dialer
	from      string
	fromName  string
	templates *templateSet
}

func NewSMTPProvider(cfg *config.Config) (*SMTPProvider, error) {
	templates, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	dialer := gomail.NewDialer(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPUsername,
		cfg.Email.SMTPPassword,
	)

	return &SMTPProvider{
		dialer:    dialer,
		from:      cfg.Email.FromEmail,
		fromName:  cfg.Email.FromName,
		templates: templates,
	}, nil
}

func (p *SMTPProvider) send(to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", p.from, p.fromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)
	return p.dialer.DialAndSend(m)
}

func (p *SMTPProvider) SendInvitation(to, inviterName, projectName, acceptURL string) error {
	body, err := render(p.templates.invitation, map[string]string{
		"InviterName": inviterName,
		"ProjectName": projectName,
		"AcceptURL":   acceptURL,
	})
	if err != nil {
		return err
	}
	return p.send(to, "You have been invited to "+projectName, body)
}

func (p *SMTPProvider) SendPasswordReset(to, resetURL string) error {
	body, err := render(p.templates.passwordReset, map[string]string{
		"ResetURL": resetURL,
	})
	if err != nil {
		return err
	}
	return p.send(to, "Reset your password", body)
}

func (p *SMTPProvider) SendAccountDeletion(to, confirmURL string) error {
	body, err := render(p.templates.accountDeletion, map[string]string{
		"ConfirmURL": confirmURL,
	})
	if err != nil {
		return err
	}
	return p.send(to, "Confirm account deletion", body)
}

func (p *SMTPProvider) Close() error {
	return nil
}
