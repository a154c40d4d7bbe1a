package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserRoles(t *testing.T) {
	regular := User{Role: RoleUser}
	admin := User{Role: RoleAdmin, Permissions: []string{PermManagePosts}}
	owner := User{Role: RoleSuperAdmin}

	assert.False(t, regular.IsAdmin())
	assert.True(t, admin.IsAdmin())
	assert.False(t, admin.IsSuperAdmin())
	assert.True(t, owner.IsAdmin())
	assert.True(t, owner.IsSuperAdmin())
}

func TestHasPermission(t *testing.T) {
	admin := User{Role: RoleAdmin, Permissions: []string{PermManagePosts}}
	assert.True(t, admin.HasPermission(PermManagePosts))
	assert.False(t, admin.HasPermission(PermManageUsers))

	// the super-admin holds every permission implicitly
	owner := User{Role: RoleSuperAdmin}
	assert.True(t, owner.HasPermission(PermSystemSettings))

	regular := User{Role: RoleUser}
	assert.False(t, regular.HasPermission(PermManagePosts))
}

func TestFindVote(t *testing.T) {
	post := Post{Voters: []VoteRecord{
		{UserID: "u1", Direction: VoteLike},
		{UserID: "u2", Direction: VoteDislike},
	}}
	vote := post.FindVote("u2")
	assert.NotNil(t, vote)
	assert.Equal(t, VoteDislike, vote.Direction)
	assert.Nil(t, post.FindVote("u3"))
}
