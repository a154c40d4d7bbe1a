// Package seed provides first-run bootstrap and demo data for the board.
// Bootstrap runs on every startup and is idempotent; demo data is meant for
// development only.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"plaza/internal/config"
	"plaza/internal/models"
	"plaza/internal/store"
)

// Seeder owns bootstrap and demo-data creation against a store.
type Seeder struct {
	store store.Store
	cfg   *config.Config
	log   *slog.Logger
}

func NewSeeder(st store.Store, cfg *config.Config, log *slog.Logger) *Seeder {
	if log == nil {
		log = slog.Default()
	}
	return &Seeder{store: st, cfg: cfg, log: log}
}

// Bootstrap ensures the super-admin account, the default galleries, and
// the welcome notice exist. Safe to call on every startup.
func (s *Seeder) Bootstrap(ctx context.Context) error {
	admin, err := s.EnsureSuperAdmin(ctx)
	if err != nil {
		return err
	}
	if err := s.EnsureDefaultGalleries(ctx, admin); err != nil {
		return err
	}
	return s.ensureWelcomeNotice(ctx, admin)
}

// EnsureSuperAdmin creates the single super-admin account from the
// configured credentials if no super-admin exists yet. The credentials are
// a demo convenience and must not be treated as secret.
func (s *Seeder) EnsureSuperAdmin(ctx context.Context) (*models.User, error) {
	var users []models.User
	if err := s.store.Load(ctx, store.CollectionUsers, &users); err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].IsSuperAdmin() {
			return &users[i], nil
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(s.cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash bootstrap password: %w", err)
	}

	now := time.Now()
	admin := models.User{
		ID:           s.cfg.AdminUsername,
		PasswordHash: string(hash),
		Nickname:     s.cfg.AdminNickname,
		Role:         models.RoleSuperAdmin,
		Permissions:  models.AdminPermissions(),
		JoinedAt:     now,
		LastActivity: now,
	}
	users = append(users, admin)
	if err := s.store.Save(ctx, store.CollectionUsers, users); err != nil {
		return nil, err
	}

	s.log.Info("super-admin bootstrapped", "user_id", admin.ID)
	return &admin, nil
}

// EnsureDefaultGalleries seeds the initial boards when the gallery
// collection is empty.
func (s *Seeder) EnsureDefaultGalleries(ctx context.Context, admin *models.User) error {
	var galleries []models.Gallery
	if err := s.store.Load(ctx, store.CollectionGalleries, &galleries); err != nil {
		return err
	}
	if len(galleries) > 0 {
		return nil
	}

	now := time.Now()
	defaults := []struct {
		id, name, description string
	}{
		{"notice", "Notices", "Announcements and board rules"},
		{"free", "General", "Anything goes"},
		{"humor", "Humor", "Funny stories and jokes"},
		{"tech", "Tech", "Programming and technology talk"},
	}
	for _, d := range defaults {
		galleries = append(galleries, models.Gallery{
			ID:           d.id,
			Name:         d.name,
			Description:  d.description,
			Creator:      admin.Nickname,
			CreatedAt:    now,
			LastActivity: now,
		})
	}
	if err := s.store.Save(ctx, store.CollectionGalleries, galleries); err != nil {
		return err
	}

	s.log.Info("default galleries created", "count", len(defaults))
	return nil
}

func (s *Seeder) ensureWelcomeNotice(ctx context.Context, admin *models.User) error {
	var posts []models.Post
	if err := s.store.Load(ctx, store.CollectionPosts, &posts); err != nil {
		return err
	}
	if len(posts) > 0 {
		return nil
	}

	now := time.Now()
	posts = []models.Post{{
		ID:        "welcome",
		GalleryID: "notice",
		Title:     "Welcome to Plaza",
		Content:   "Introduce yourself in General, and keep it civil.",
		Author:    admin.Nickname,
		AuthorID:  admin.ID,
		Type:      models.PostTypeNotice,
		Tags:      []string{"welcome"},
		CreatedAt: now,
		Views:     1,
	}}
	return s.store.Save(ctx, store.CollectionPosts, posts)
}
