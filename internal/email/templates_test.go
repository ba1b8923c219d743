package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvitationTemplate_MatchesTokenLifetime(t *testing.T) {
	set, err := parseTemplates()
	require.NoError(t, err)

	body, err := render(set.invitation, struct {
		ProjectName string
		InviterName string
		AcceptURL   string
	}{"Launch Plan", "Dana", "https://app.example.com/invitations/tok-1/accept"})
	require.NoError(t, err)

	// Invitations live for 24 hours; the copy must say so.
	assert.Contains(t, body, "expires in 24 hours")
	assert.Contains(t, body, "https://app.example.com/invitations/tok-1/accept")
	assert.Contains(t, body, "Launch Plan")
}

func TestResetAndDeletionTemplates_StateTheirWindows(t *testing.T) {
	set, err := parseTemplates()
	require.NoError(t, err)

	body, err := render(set.passwordReset, struct{ ResetURL string }{"https://app.example.com/reset/tok-2"})
	require.NoError(t, err)
	assert.Contains(t, body, "valid for 1 hour")

	body, err = render(set.accountDeletion, struct{ ConfirmURL string }{"https://app.example.com/delete/tok-3"})
	require.NoError(t, err)
	assert.Contains(t, body, "valid for 10 minutes")
}
