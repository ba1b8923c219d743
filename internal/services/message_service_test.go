package services

import (
	"fmt"
	"testing"

	"nudge_backend/internal/models"
	"nudge_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessages_MembershipGated(t *testing.T) {
	e := newEnv()
	svc := NewMessageService(e.messages, e.authz)
	creator := e.store.addUser("creator@example.com")
	member := e.store.addUser("member@example.com")
	outsider := e.store.addUser("outsider@example.com")
	project := e.store.addProject(creator.ID)
	e.store.addMember(project.ID, member.ID, models.RoleMember)

	_, err := svc.PostMessage(project.ID, outsider.ID, &models.PostMessageRequest{Body: "hi"})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	_, err = svc.ListMessages(project.ID, outsider.ID, 0, 0)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	message, err := svc.PostMessage(project.ID, member.ID, &models.PostMessageRequest{Body: "standup at 10"})
	require.NoError(t, err)
	assert.Equal(t, member.ID, message.AuthorID)

	messages, err := svc.ListMessages(project.ID, creator.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "standup at 10", messages[0].Body)
}

func TestListMessages_Paging(t *testing.T) {
	e := newEnv()
	svc := NewMessageService(e.messages, e.authz)
	creator := e.store.addUser("creator@example.com")
	project := e.store.addProject(creator.ID)

	for i := 0; i < 60; i++ {
		_, err := svc.PostMessage(project.ID, creator.ID, &models.PostMessageRequest{
			Body: fmt.Sprintf("message %d", i),
		})
		require.NoError(t, err)
	}

	// A non-positive limit falls back to the default page size.
	page, err := svc.ListMessages(project.ID, creator.ID, 0, 0)
	require.NoError(t, err)
	assert.Len(t, page, defaultMessagePageSize)

	// The limit is clamped, a negative offset is treated as zero.
	page, err = svc.ListMessages(project.ID, creator.ID, maxMessagePageSize+1, -5)
	require.NoError(t, err)
	assert.Len(t, page, 60)

	page, err = svc.ListMessages(project.ID, creator.ID, 25, 50)
	require.NoError(t, err)
	assert.Len(t, page, 10)
}

func TestUserService_Profile(t *testing.T) {
	e := newEnv()
	svc := NewUserService(e.users)
	user := e.store.addUser("user@example.com")

	profile, err := svc.GetProfile(user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, profile.Email)

	_, err = svc.GetProfile("no-such-user")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	name := "Renamed"
	image := "https://cdn.example.com/avatar.png"
	updated, err := svc.UpdateProfile(user.ID, &models.UpdateProfileRequest{Name: &name, Image: &image})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, image, updated.Image)
}
