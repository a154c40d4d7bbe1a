package service

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"plaza/internal/models"
	"plaza/internal/store"
	"plaza/internal/validation"
)

// AuthService handles registration, login, session lifecycle, and the
// admin-only account operations.
type AuthService struct {
	store          store.Store
	passwordMinLen int
	log            *slog.Logger
}

type RegisterInput struct {
	Username        string
	Password        string
	ConfirmPassword string
	Nickname        string
}

func NewAuthService(st store.Store, passwordMinLen int, log *slog.Logger) *AuthService {
	if log == nil {
		log = slog.Default()
	}
	return &AuthService{store: st, passwordMinLen: passwordMinLen, log: log}
}

// Register validates the input, rejects duplicate usernames and nicknames,
// and appends a new normal-role user with a bcrypt-hashed password. The
// first violated rule is reported.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if err := validation.ValidateUsername(in.Username); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password, s.passwordMinLen); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if in.Password != in.ConfirmPassword {
		return nil, models.NewValidationError("passwords do not match")
	}
	if err := validation.ValidateNickname(in.Nickname); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	users, err := loadUsers(ctx, s.store)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].ID == in.Username {
			return nil, models.NewValidationError("username is already taken")
		}
		if users[i].Nickname == in.Nickname {
			return nil, models.NewValidationError("nickname is already taken")
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := models.User{
		ID:           in.Username,
		PasswordHash: string(hash),
		Nickname:     in.Nickname,
		Role:         models.RoleUser,
		JoinedAt:     now,
		LastActivity: now,
	}
	users = append(users, user)
	if err := saveUsers(ctx, s.store, users); err != nil {
		return nil, err
	}

	s.log.Info("user registered", "user_id", user.ID, "nickname", user.Nickname)
	return &user, nil
}

// Login binds the matching user to the session and persists the session
// pointer. Credential failures never mutate the user collection.
func (s *AuthService) Login(ctx context.Context, sess *Session, username, password string) (*models.User, error) {
	users, err := loadUsers(ctx, s.store)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i := range users {
		if users[i].ID == username {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, models.NewAuthenticationError("invalid username or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(users[idx].PasswordHash), []byte(password)); err != nil {
		return nil, models.NewAuthenticationError("invalid username or password")
	}
	if users[idx].IsBanned {
		return nil, models.NewAuthenticationError("account is banned")
	}

	now := time.Now()
	users[idx].LastLogin = &now
	users[idx].LastActivity = now
	users[idx].IsActive = true
	if err := saveUsers(ctx, s.store, users); err != nil {
		return nil, err
	}
	if err := saveSessionPointer(ctx, s.store, users[idx].ID); err != nil {
		return nil, err
	}

	u := users[idx]
	sess.setUser(&u)
	s.log.Info("user logged in", "user_id", u.ID)
	return &u, nil
}

// Logout clears the session pointer and marks the user inactive. Logging
// out an anonymous session is a no-op.
func (s *AuthService) Logout(ctx context.Context, sess *Session) error {
	user := sess.User()
	if user == nil {
		return nil
	}

	users, err := loadUsers(ctx, s.store)
	if err != nil {
		return err
	}
	for i := range users {
		if users[i].ID == user.ID {
			users[i].IsActive = false
			users[i].LastActivity = time.Now()
			break
		}
	}
	if err := saveUsers(ctx, s.store, users); err != nil {
		return err
	}
	if err := saveSessionPointer(ctx, s.store, ""); err != nil {
		return err
	}

	sess.clear()
	s.log.Info("user logged out", "user_id", user.ID)
	return nil
}

// ResumeSession rehydrates the session from the persisted pointer at
// startup. A dangling pointer yields an anonymous session.
func (s *AuthService) ResumeSession(ctx context.Context) (*Session, error) {
	sess := NewSession()

	var rec sessionRecord
	if err := s.store.Load(ctx, store.CollectionSession, &rec); err != nil {
		return nil, err
	}
	if rec.UserID == "" {
		return sess, nil
	}

	users, err := loadUsers(ctx, s.store)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].ID == rec.UserID {
			u := users[i]
			sess.setUser(&u)
			return sess, nil
		}
	}

	// stored pointer references a deleted account
	if err := saveSessionPointer(ctx, s.store, ""); err != nil {
		return nil, err
	}
	return sess, nil
}

// TouchActivity refreshes the session user's last-activity timestamp.
func (s *AuthService) TouchActivity(ctx context.Context, sess *Session) error {
	if !sess.LoggedIn() {
		return nil
	}
	users, err := loadUsers(ctx, s.store)
	if err != nil {
		return err
	}
	for i := range users {
		if users[i].ID == sess.User().ID {
			users[i].LastActivity = time.Now()
			return saveUsers(ctx, s.store, users)
		}
	}
	return nil
}

// ListUsers returns every account. Admin only.
func (s *AuthService) ListUsers(ctx context.Context, sess *Session) ([]models.User, error) {
	if err := requireAdmin(sess); err != nil {
		return nil, err
	}
	return loadUsers(ctx, s.store)
}

// DeleteUser removes an account. Admins and the super-admin cannot be
// deleted.
func (s *AuthService) DeleteUser(ctx context.Context, sess *Session, id string) error {
	if err := requireAdmin(sess); err != nil {
		return err
	}

	users, err := loadUsers(ctx, s.store)
	if err != nil {
		return err
	}
	idx := -1
	for i := range users {
		if users[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return models.NewNotFoundError("user", id)
	}
	if users[idx].IsAdmin() {
		return models.NewAuthorizationError("admin accounts cannot be deleted")
	}

	users = append(users[:idx], users[idx+1:]...)
	if err := saveUsers(ctx, s.store, users); err != nil {
		return err
	}
	s.log.Info("user deleted", "user_id", id, "by", sess.User().ID)
	return nil
}

// ToggleAdmin flips an account between the user and admin roles. The
// super-admin role cannot be changed. Returns the resulting admin state.
func (s *AuthService) ToggleAdmin(ctx context.Context, sess *Session, id string) (bool, error) {
	if err := requireAdmin(sess); err != nil {
		return false, err
	}

	users, err := loadUsers(ctx, s.store)
	if err != nil {
		return false, err
	}
	for i := range users {
		if users[i].ID != id {
			continue
		}
		if users[i].IsSuperAdmin() {
			return false, models.NewAuthorizationError("the super-admin role cannot be changed")
		}
		if users[i].Role == models.RoleAdmin {
			users[i].Role = models.RoleUser
			users[i].Permissions = nil
		} else {
			users[i].Role = models.RoleAdmin
			users[i].Permissions = models.AdminPermissions()
		}
		admin := users[i].Role == models.RoleAdmin
		if err := saveUsers(ctx, s.store, users); err != nil {
			return false, err
		}
		s.log.Info("admin role toggled", "user_id", id, "admin", admin, "by", sess.User().ID)
		return admin, nil
	}
	return false, models.NewNotFoundError("user", id)
}

// ToggleBan flips an account's banned flag. Admin accounts cannot be
// banned. Returns the resulting banned state.
func (s *AuthService) ToggleBan(ctx context.Context, sess *Session, id string) (bool, error) {
	if err := requireAdmin(sess); err != nil {
		return false, err
	}

	users, err := loadUsers(ctx, s.store)
	if err != nil {
		return false, err
	}
	for i := range users {
		if users[i].ID != id {
			continue
		}
		if users[i].IsAdmin() {
			return false, models.NewAuthorizationError("admin accounts cannot be banned")
		}
		users[i].IsBanned = !users[i].IsBanned
		banned := users[i].IsBanned
		if err := saveUsers(ctx, s.store, users); err != nil {
			return false, err
		}
		s.log.Info("ban toggled", "user_id", id, "banned", banned, "by", sess.User().ID)
		return banned, nil
	}
	return false, models.NewNotFoundError("user", id)
}
