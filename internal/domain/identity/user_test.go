package identity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUser(t *testing.T) *User {
	user, err := NewUser("Maria.Lopez", "s3cret-pass", UserRoleOperator)
	require.NoError(t, err)
	return user
}

func TestNewUser(t *testing.T) {
	t.Run("creates active user with lowercase username", func(t *testing.T) {
		user := newTestUser(t)
		assert.Equal(t, "maria.lopez", user.Username)
		assert.Equal(t, UserStatusActive, user.Status)
		assert.True(t, user.CanLogin())
		assert.NotEqual(t, "s3cret-pass", user.PasswordHash)
	})

	t.Run("rejects invalid inputs", func(t *testing.T) {
		_, err := NewUser("ab", "s3cret-pass", UserRoleOperator)
		assert.Error(t, err)

		_, err = NewUser("maria lopez", "s3cret-pass", UserRoleOperator)
		assert.Error(t, err)

		_, err = NewUser("maria", "short", UserRoleOperator)
		assert.Error(t, err)

		_, err = NewUser("maria", "s3cret-pass", UserRole("superuser"))
		assert.Error(t, err)
	})
}

func TestUser_Password(t *testing.T) {
	user := newTestUser(t)

	assert.True(t, user.VerifyPassword("s3cret-pass"))
	assert.False(t, user.VerifyPassword("wrong"))

	t.Run("change requires the current password", func(t *testing.T) {
		assert.Error(t, user.ChangePassword("wrong", "new-password"))
		require.NoError(t, user.ChangePassword("s3cret-pass", "new-password"))
		assert.True(t, user.VerifyPassword("new-password"))
	})

	t.Run("admin reset skips the current password", func(t *testing.T) {
		require.NoError(t, user.SetPassword("another-pass"))
		assert.True(t, user.VerifyPassword("another-pass"))
	})
}

func TestUser_Lockout(t *testing.T) {
	t.Run("locks after max failed attempts", func(t *testing.T) {
		user := newTestUser(t)
		assert.False(t, user.RecordLoginFailure(3, time.Hour))
		assert.False(t, user.RecordLoginFailure(3, time.Hour))
		assert.True(t, user.RecordLoginFailure(3, time.Hour))

		assert.True(t, user.IsLocked())
		assert.False(t, user.CanLogin())
	})

	t.Run("expired lock allows login again", func(t *testing.T) {
		user := newTestUser(t)
		user.RecordLoginFailure(1, -time.Minute)
		assert.False(t, user.IsLocked())
		assert.True(t, user.CanLogin())
	})

	t.Run("successful login clears the counter", func(t *testing.T) {
		user := newTestUser(t)
		user.RecordLoginFailure(3, time.Hour)
		user.RecordLoginSuccess()
		assert.Equal(t, 0, user.FailedAttempts)
		require.NotNil(t, user.LastLoginAt)
	})
}

func TestUser_StatusTransitions(t *testing.T) {
	user := newTestUser(t)

	require.NoError(t, user.Deactivate())
	assert.False(t, user.CanLogin())
	assert.Error(t, user.Deactivate())

	require.NoError(t, user.Activate())
	assert.True(t, user.CanLogin())
	assert.Error(t, user.Activate())
}
