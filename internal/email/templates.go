package email

import (
	"bytes"
	"fmt"
	"html/template"
)

const invitationTemplate = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #1f2937;">
  <h2>You have been invited to {{.ProjectName}}</h2>
  <p>{{.InviterName}} invited you to collaborate on <strong>{{.ProjectName}}</strong>.</p>
  <p><a href="{{.AcceptURL}}" style="background: #2563eb; color: #fff; padding: 10px 18px; border-radius: 6px; text-decoration: none;">Accept invitation</a></p>
  <p>This invitation expires in 24 hours. If you were not expecting it, you can ignore this email.</p>
</body>
</html>`

const passwordResetTemplate = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #1f2937;">
  <h2>Reset your password</h2>
  <p>We received a request to reset the password for your account.</p>
  <p><a href="{{.ResetURL}}" style="background: #2563eb; color: #fff; padding: 10px 18px; border-radius: 6px; text-decoration: none;">Reset password</a></p>
  <p>The link is valid for 1 hour. If you did not request a reset, no action is needed.</p>
</body>
</html>`

const accountDeletionTemplate = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #1f2937;">
  <h2>Confirm account deletion</h2>
  <p>We received a request to permanently delete your account and all of its data.</p>
  <p><a href="{{.ConfirmURL}}" style="background: #dc2626; color: #fff; padding: 10px 18px; border-radius: 6px; text-decoration: none;">Delete my account</a></p>
  <p>The link is valid for 10 minutes. If you did not request this, ignore this email and your account stays untouched.</p>
</body>
</html>`

type templateSet struct {
	invitation      *template.Template
	passwordReset   *template.Template
	accountDeletion *template.Template
}

func parseTemplates() (*templateSet, error) {
	invitation, err := template.New("invitation").Parse(invitationTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse invitation template: %w", err)
	}
	passwordReset, err := template.New("password_reset").Parse(passwordResetTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse password reset template: %w", err)
	}
	accountDeletion, err := template.New("account_deletion").Parse(accountDeletionTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse account deletion template: %w", err)
	}
	return &templateSet{
		invitation:      invitation,
		passwordReset:   passwordReset,
		accountDeletion: accountDeletion,
	}, nil
}

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s template: %w", t.Name(), err)
	}
	return buf.String(), nil
}
