package email

import "nudge_backend/internal/logger"

// LogProvider writes mail to the log instead of sending it. Used in
// development when no SMTP host is configured.
type LogProvider struct{}

func NewLogProvider() *LogProvider {
	return &LogProvider{}
}

func (p *LogProvider) SendInvitation(to, inviterName, projectName, acceptURL string) error {
	logger.Info("email (not sent): project invitation", "to", to, "project", projectName, "url", acceptURL)
	return nil
}

func (p *LogProvider) SendPasswordReset(to, resetURL string) error {
	logger.Info("email (not sent): password reset", "to", to, "url", resetURL)
	return nil
}

func (p *LogProvider) SendAccountDeletion(to, confirmURL string) error {
	logger.Info("email (not sent): account deletion", "to", to, "url", confirmURL)
	return nil
}

func (p *LogProvider) Close() error {
	return nil
}
