// Package service implements the board's service layer: authentication,
// galleries, posts, comments, and admin operations over a pluggable
// collection store. Callers pass an explicit *Session into every operation
// instead of relying on ambient login state.
package service

import (
	"context"

	"plaza/internal/models"
	"plaza/internal/store"
)

// sessionRecord is the persisted session pointer: at most one current user.
type sessionRecord struct {
	UserID string `json:"user_id"`
}

// Session is the single authenticated-user context for a running client.
// The viewed-post set is session-scoped and never persisted.
type Session struct {
	user   *models.User
	viewed map[string]struct{}
}

// NewSession returns an anonymous session.
func NewSession() *Session {
	return &Session{viewed: make(map[string]struct{})}
}

// User returns the current user, or nil when the session is anonymous.
func (s *Session) User() *models.User { return s.user }

// LoggedIn reports whether a user is bound to the session.
func (s *Session) LoggedIn() bool { return s.user != nil }

// IsAdmin reports whether the session user holds an admin role.
func (s *Session) IsAdmin() bool { return s.user != nil && s.user.IsAdmin() }

// IsSuperAdmin reports whether the session user is the protected super-admin.
func (s *Session) IsSuperAdmin() bool { return s.user != nil && s.user.IsSuperAdmin() }

// HasPermission reports whether the session user carries the permission tag.
func (s *Session) HasPermission(tag string) bool {
	return s.user != nil && s.user.HasPermission(tag)
}

// Viewed reports whether the post was already viewed in this session.
func (s *Session) Viewed(postID string) bool {
	_, seen := s.viewed[postID]
	return seen
}

// MarkViewed records a post view for this session. It returns true the
// first time a post id is seen, so callers can increment the stored counter
// at most once per session.
func (s *Session) MarkViewed(postID string) bool {
	if _, seen := s.viewed[postID]; seen {
		return false
	}
	s.viewed[postID] = struct{}{}
	return true
}

func (s *Session) setUser(u *models.User) { s.user = u }

func (s *Session) clear() { s.user = nil }

// requireAdmin guards admin-only operations.
func requireAdmin(sess *Session) error {
	if sess == nil || !sess.LoggedIn() {
		return models.NewAuthenticationError("login required")
	}
	if !sess.IsAdmin() {
		return models.NewAuthorizationError("admin role required")
	}
	return nil
}

// requireLogin guards operations needing any authenticated user.
func requireLogin(sess *Session) error {
	if sess == nil || !sess.LoggedIn() {
		return models.NewAuthenticationError("login required")
	}
	return nil
}

func saveSessionPointer(ctx context.Context, st store.Store, userID string) error {
	if userID == "" {
		return st.Delete(ctx, store.CollectionSession)
	}
	return st.Save(ctx, store.CollectionSession, sessionRecord{UserID: userID})
}
