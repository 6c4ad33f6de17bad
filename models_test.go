package accounts_test

import (
	"testing"
	"time"

	accounts "github.com/goliatone/go-accounts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRoleSetSemantics(t *testing.T) {
	user := &accounts.User{ID: uuid.New()}
	admin := &accounts.UserType{ID: uuid.New(), Role: accounts.RoleAdmin}

	assert.False(t, user.HasRole(accounts.RoleAdmin))

	user.AddRole(admin)
	user.AddRole(admin)
	require.Len(t, user.Roles, 1)
	assert.True(t, user.HasRole(accounts.RoleAdmin))

	user.RemoveRole(accounts.RoleAdmin)
	assert.False(t, user.HasRole(accounts.RoleAdmin))
	assert.Empty(t, user.Roles)
}

func TestUserCanAuthenticate(t *testing.T) {
	tests := []struct {
		name    string
		enabled bool
		blocked bool
		want    bool
	}{
		{"enabled and unblocked", true, false, true},
		{"disabled", false, false, false},
		{"blocked", true, true, false},
		{"disabled and blocked", false, true, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			user := &accounts.User{Enabled: tc.enabled, Blocked: tc.blocked}
			assert.Equal(t, tc.want, user.CanAuthenticate())
		})
	}
}

func TestTokenExpiryBoundary(t *testing.T) {
	expiresAt := time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)
	token := &accounts.VerificationToken{ExpiresAt: expiresAt}

	// the expiry instant itself still validates
	assert.False(t, token.Expired(expiresAt))
	assert.False(t, token.Expired(expiresAt.Add(-time.Second)))
	assert.True(t, token.Expired(expiresAt.Add(time.Second)))
}

func TestNewTokensCarryValidityWindow(t *testing.T) {
	user := &accounts.User{ID: uuid.New()}

	verification := accounts.NewVerificationToken(user, 30)
	assert.Equal(t, user.ID, verification.UserID)
	assert.NotEmpty(t, verification.Token)
	assert.False(t, verification.Consumed)
	assert.WithinDuration(t, verification.CreatedAt.Add(30*time.Minute), verification.ExpiresAt, time.Second)

	reset := accounts.NewPasswordResetToken(user, 45)
	assert.Equal(t, user.ID, reset.UserID)
	assert.NotEmpty(t, reset.Token)
	assert.WithinDuration(t, reset.CreatedAt.Add(45*time.Minute), reset.ExpiresAt, time.Second)

	// token values are unique per issuance
	assert.NotEqual(t, verification.Token, reset.Token)
}

func TestQualifiesAsSuccessorAdmin(t *testing.T) {
	tests := []struct {
		name    string
		enabled bool
		blocked bool
		want    bool
	}{
		{"enabled and unblocked", true, false, true},
		{"disabled", false, false, false},
		{"blocked", true, true, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			user := &accounts.User{Enabled: tc.enabled, Blocked: tc.blocked}
			assert.Equal(t, tc.want, accounts.QualifiesAsSuccessorAdmin(user))
		})
	}
}

func TestHasSuccessorAdminExcludesActor(t *testing.T) {
	actor := &accounts.User{ID: uuid.New(), Enabled: true}

	// the actor alone never counts as their own successor
	assert.False(t, accounts.HasSuccessorAdmin(actor, []*accounts.User{actor}))

	qualified := &accounts.User{ID: uuid.New(), Enabled: true}
	assert.True(t, accounts.HasSuccessorAdmin(actor, []*accounts.User{actor, qualified}))

	blocked := &accounts.User{ID: uuid.New(), Enabled: true, Blocked: true}
	disabled := &accounts.User{ID: uuid.New(), Enabled: false}
	assert.False(t, accounts.HasSuccessorAdmin(actor, []*accounts.User{actor, blocked, disabled}))
}
