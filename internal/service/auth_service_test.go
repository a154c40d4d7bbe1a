package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plaza/internal/models"
	"plaza/internal/store"
)

func TestRegister(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.register(t, "existing", "Existing")

	tests := []struct {
		name  string
		input RegisterInput
		valid bool
	}{
		{
			name: "valid registration",
			input: RegisterInput{
				Username: "newuser", Password: testPassword,
				ConfirmPassword: testPassword, Nickname: "Newbie",
			},
			valid: true,
		},
		{
			name: "username too short",
			input: RegisterInput{
				Username: "abc", Password: testPassword,
				ConfirmPassword: testPassword, Nickname: "Shorty",
			},
		},
		{
			name: "username with invalid characters",
			input: RegisterInput{
				Username: "bad name!", Password: testPassword,
				ConfirmPassword: testPassword, Nickname: "Spacey",
			},
		},
		{
			name: "reserved username",
			input: RegisterInput{
				Username: "admin", Password: testPassword,
				ConfirmPassword: testPassword, Nickname: "Sneaky",
			},
		},
		{
			name: "password too short",
			input: RegisterInput{
				Username: "wantsin", Password: "short",
				ConfirmPassword: "short", Nickname: "Wants",
			},
		},
		{
			name: "password confirmation mismatch",
			input: RegisterInput{
				Username: "wantsin", Password: testPassword,
				ConfirmPassword: "different123", Nickname: "Wants",
			},
		},
		{
			name: "nickname too long",
			input: RegisterInput{
				Username: "wantsin", Password: testPassword,
				ConfirmPassword: testPassword, Nickname: "ThisNickIsWayTooLong",
			},
		},
		{
			name: "duplicate username",
			input: RegisterInput{
				Username: "existing", Password: testPassword,
				ConfirmPassword: testPassword, Nickname: "Another",
			},
		},
		{
			name: "duplicate nickname",
			input: RegisterInput{
				Username: "someoneelse", Password: testPassword,
				ConfirmPassword: testPassword, Nickname: "Existing",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := len(env.loadUsers(t))
			user, err := env.auth.Register(ctx, tt.input)
			if tt.valid {
				require.NoError(t, err)
				assert.Equal(t, tt.input.Username, user.ID)
				assert.Equal(t, models.RoleUser, user.Role)
				assert.NotEqual(t, tt.input.Password, user.PasswordHash)
				return
			}
			require.Error(t, err)
			assert.Equal(t, models.CodeValidation, models.CodeOf(err))
			assert.Len(t, env.loadUsers(t), before)
		})
	}
}

func TestLoginAndLogout(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.register(t, "alice01", "Alice")

	// wrong password never mutates the account
	sess := NewSession()
	_, err := env.auth.Login(ctx, sess, "alice01", "wrongwrong")
	require.Error(t, err)
	assert.Equal(t, models.CodeAuthentication, models.CodeOf(err))
	assert.False(t, sess.LoggedIn())
	assert.False(t, env.loadUsers(t)[0].IsActive)
	assert.Nil(t, env.loadUsers(t)[0].LastLogin)

	// unknown user reports the same message as a bad password
	_, unknownErr := env.auth.Login(ctx, sess, "nosuchuser", testPassword)
	require.Error(t, unknownErr)
	assert.Equal(t, err.Error(), unknownErr.Error())

	user, err := env.auth.Login(ctx, sess, "alice01", testPassword)
	require.NoError(t, err)
	assert.True(t, sess.LoggedIn())
	assert.Equal(t, "alice01", sess.User().ID)
	assert.True(t, user.IsActive)
	require.NotNil(t, user.LastLogin)

	require.NoError(t, env.auth.Logout(ctx, sess))
	assert.False(t, sess.LoggedIn())
	assert.False(t, env.loadUsers(t)[0].IsActive)

	// logging out an anonymous session is a no-op
	require.NoError(t, env.auth.Logout(ctx, NewSession()))
}

func TestLoginBanned(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.register(t, "badactor", "BadActor")
	admin := env.loginAdmin(t, "mod_user", "Moderator1")

	banned, err := env.auth.ToggleBan(ctx, admin, "badactor")
	require.NoError(t, err)
	assert.True(t, banned)

	_, err = env.auth.Login(ctx, NewSession(), "badactor", testPassword)
	require.Error(t, err)
	assert.Equal(t, models.CodeAuthentication, models.CodeOf(err))
	assert.Contains(t, err.Error(), "banned")

	banned, err = env.auth.ToggleBan(ctx, admin, "badactor")
	require.NoError(t, err)
	assert.False(t, banned)

	_, err = env.auth.Login(ctx, NewSession(), "badactor", testPassword)
	require.NoError(t, err)
}

func TestResumeSession(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.register(t, "alice01", "Alice")
	env.login(t, "alice01")

	resumed, err := env.auth.ResumeSession(ctx)
	require.NoError(t, err)
	require.True(t, resumed.LoggedIn())
	assert.Equal(t, "alice01", resumed.User().ID)
}

func TestResumeSessionDanglingPointer(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	require.NoError(t, env.store.Save(ctx, store.CollectionSession, sessionRecord{UserID: "ghost"}))

	sess, err := env.auth.ResumeSession(ctx)
	require.NoError(t, err)
	assert.False(t, sess.LoggedIn())

	// the dangling pointer is cleared, not left to fail again
	var rec sessionRecord
	require.NoError(t, env.store.Load(ctx, store.CollectionSession, &rec))
	assert.Empty(t, rec.UserID)
}

func TestDeleteUser(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.register(t, "victim1", "Victim")
	admin := env.loginAdmin(t, "mod_user", "Moderator1")
	member := env.login(t, "victim1")

	// only admins may delete accounts
	err := env.auth.DeleteUser(ctx, member, "mod_user")
	require.Error(t, err)
	assert.Equal(t, models.CodeAuthorization, models.CodeOf(err))

	err = env.auth.DeleteUser(ctx, admin, "nosuchuser")
	require.Error(t, err)
	assert.Equal(t, models.CodeNotFound, models.CodeOf(err))

	// admin accounts are not deletable
	err = env.auth.DeleteUser(ctx, admin, "mod_user")
	require.Error(t, err)
	assert.Equal(t, models.CodeAuthorization, models.CodeOf(err))

	require.NoError(t, env.auth.DeleteUser(ctx, admin, "victim1"))
	for _, u := range env.loadUsers(t) {
		assert.NotEqual(t, "victim1", u.ID)
	}
}

func TestToggleAdmin(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.register(t, "regular1", "Regular")
	admin := env.loginAdmin(t, "mod_user", "Moderator1")

	isAdmin, err := env.auth.ToggleAdmin(ctx, admin, "regular1")
	require.NoError(t, err)
	assert.True(t, isAdmin)
	for _, u := range env.loadUsers(t) {
		if u.ID == "regular1" {
			assert.Equal(t, models.RoleAdmin, u.Role)
			assert.ElementsMatch(t, models.AdminPermissions(), u.Permissions)
		}
	}

	isAdmin, err = env.auth.ToggleAdmin(ctx, admin, "regular1")
	require.NoError(t, err)
	assert.False(t, isAdmin)
	for _, u := range env.loadUsers(t) {
		if u.ID == "regular1" {
			assert.Equal(t, models.RoleUser, u.Role)
			assert.Empty(t, u.Permissions)
		}
	}
}

func TestToggleAdminProtectsSuperAdmin(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.register(t, "theowner", "Owner")
	env.setRole(t, "theowner", models.RoleSuperAdmin)
	admin := env.loginAdmin(t, "mod_user", "Moderator1")

	_, err := env.auth.ToggleAdmin(ctx, admin, "theowner")
	require.Error(t, err)
	assert.Equal(t, models.CodeAuthorization, models.CodeOf(err))

	// super-admin keeps the role even when it demotes itself by accident
	owner := env.login(t, "theowner")
	_, err = env.auth.ToggleAdmin(ctx, owner, "theowner")
	require.Error(t, err)
	assert.Equal(t, models.CodeAuthorization, models.CodeOf(err))
}

func TestToggleBanRejectsAdmins(t *testing.T) {
	env := newTestEnv()
	admin := env.loginAdmin(t, "mod_user", "Moderator1")
	env.loginAdmin(t, "mod_two", "Moderator2")

	_, err := env.auth.ToggleBan(context.Background(), admin, "mod_two")
	require.Error(t, err)
	assert.Equal(t, models.CodeAuthorization, models.CodeOf(err))
}

func TestListUsersRequiresAdmin(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.register(t, "regular1", "Regular")
	member := env.login(t, "regular1")

	_, err := env.auth.ListUsers(ctx, member)
	require.Error(t, err)
	assert.Equal(t, models.CodeAuthorization, models.CodeOf(err))

	_, err = env.auth.ListUsers(ctx, NewSession())
	require.Error(t, err)
	assert.Equal(t, models.CodeAuthentication, models.CodeOf(err))

	admin := env.loginAdmin(t, "mod_user", "Moderator1")
	users, err := env.auth.ListUsers(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}
