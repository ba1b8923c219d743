package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Member and task listings serialize preloaded User rows straight to
// JSON, so the credential column must never make it into the payload.
func TestUser_PasswordHashNotSerialized(t *testing.T) {
	hash := "$2a$10$secretbcrypthash"
	member := ProjectMember{
		ProjectID: "proj-1",
		UserID:    "user-1",
		Role:      RoleEditor,
		User: User{
			Email:        "member@example.com",
			Name:         "Member",
			PasswordHash: &hash,
		},
	}

	body, err := json.Marshal(member)
	require.NoError(t, err)
	assert.NotContains(t, string(body), hash)
	assert.NotContains(t, string(body), "PasswordHash")
	assert.Contains(t, string(body), "member@example.com")
}
