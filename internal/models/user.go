// Package models contains data structures for the application's domain models.
package models

import "time"

// Roles a user account can hold. Exactly one account may hold RoleSuperAdmin.
const (
	RoleUser       = "user"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

// Permission tags granted to admin accounts.
const (
	PermManageUsers     = "manage_users"
	PermManagePosts     = "manage_posts"
	PermManageComments  = "manage_comments"
	PermManageGalleries = "manage_galleries"
	PermSystemSettings  = "system_settings"
)

// User represents a registered board account. The ID is immutable once
// created; Nickname must stay unique across the collection.
type User struct {
	ID           string     `json:"id"`
	PasswordHash string     `json:"-"`
	Nickname     string     `json:"nickname"`
	Role         string     `json:"role"`
	Permissions  []string   `json:"permissions,omitempty"`
	JoinedAt     time.Time  `json:"joined_at"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
	LastActivity time.Time  `json:"last_activity"`
	IsActive     bool       `json:"is_active"`
	IsBanned     bool       `json:"is_banned,omitempty"`
	Bookmarks    []string   `json:"bookmarks,omitempty"`
}

// IsAdmin reports whether the account holds the admin or super-admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin || u.Role == RoleSuperAdmin
}

// IsSuperAdmin reports whether the account holds the protected super-admin role.
func (u *User) IsSuperAdmin() bool {
	return u.Role == RoleSuperAdmin
}

// HasPermission reports whether the account carries the given permission tag.
// The super-admin implicitly holds every permission.
func (u *User) HasPermission(tag string) bool {
	if u.Role == RoleSuperAdmin {
		return true
	}
	for _, p := range u.Permissions {
		if p == tag {
			return true
		}
	}
	return false
}

// AdminPermissions is the tag set granted when an account is promoted.
func AdminPermissions() []string {
	return []string{
		PermManageUsers,
		PermManagePosts,
		PermManageComments,
		PermManageGalleries,
		PermSystemSettings,
	}
}
