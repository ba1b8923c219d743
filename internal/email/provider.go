package email

// Provider sends the transactional mail the application produces.
// All sends are best-effort from the caller's point of view: services
// log a failed send and continue, they never roll back on it.
type Provider interface {
	// SendInvitation mails a project invitation with its accept link.
	SendInvitation(to, inviterName, projectName, acceptURL string) error

	// SendPasswordReset mails a password reset link. The link is valid
	// for one hour.
	SendPasswordReset(to, resetURL string) error

	// SendAccountDeletion mails an account deletion confirmation link.
	// The link is valid for ten minutes.
	SendAccountDeletion(to, confirmURL string) error

	// Close releases provider resources.
	Close() error
}
