package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"plaza/internal/models"
	"plaza/internal/store"
)

// GalleryService manages board categories. A configurable default set of
// galleries is protected from deletion.
type GalleryService struct {
	store     store.Store
	protected map[string]bool
	log       *slog.Logger
}

func NewGalleryService(st store.Store, protected map[string]bool, log *slog.Logger) *GalleryService {
	if log == nil {
		log = slog.Default()
	}
	return &GalleryService{store: st, protected: protected, log: log}
}

// Create adds a gallery. Admin only; the name must be unique. The id is
// the slugified name, or a random id when the slug is empty or taken.
func (s *GalleryService) Create(ctx context.Context, sess *Session, name, description string) (*models.Gallery, error) {
	if err := requireAdmin(sess); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.NewValidationError("gallery name is required")
	}

	galleries, err := loadGalleries(ctx, s.store)
	if err != nil {
		return nil, err
	}
	for i := range galleries {
		if strings.EqualFold(galleries[i].Name, name) {
			return nil, models.NewValidationError("a gallery with that name already exists")
		}
	}

	id := slugify(name)
	if id == "" || s.findIndex(galleries, id) >= 0 {
		id = uuid.NewString()
	}

	now := time.Now()
	gallery := models.Gallery{
		ID:           id,
		Name:         name,
		Description:  strings.TrimSpace(description),
		Creator:      sess.User().Nickname,
		CreatedAt:    now,
		LastActivity: now,
	}
	galleries = append(galleries, gallery)
	if err := saveGalleries(ctx, s.store, galleries); err != nil {
		return nil, err
	}

	s.log.Info("gallery created", "gallery_id", gallery.ID, "by", sess.User().ID)
	return &gallery, nil
}

// Delete removes a gallery and cascades to its posts and their comments.
// Admin only; protected default galleries cannot be deleted.
func (s *GalleryService) Delete(ctx context.Context, sess *Session, id string) error {
	if err := requireAdmin(sess); err != nil {
		return err
	}
	if s.protected[id] {
		return models.NewAuthorizationError("default galleries cannot be deleted")
	}

	galleries, err := loadGalleries(ctx, s.store)
	if err != nil {
		return err
	}
	idx := s.findIndex(galleries, id)
	if idx < 0 {
		return models.NewNotFoundError("gallery", id)
	}

	posts, err := loadPosts(ctx, s.store)
	if err != nil {
		return err
	}
	comments, err := loadComments(ctx, s.store)
	if err != nil {
		return err
	}

	deleted := make(map[string]bool)
	keptPosts := posts[:0]
	for _, p := range posts {
		if p.GalleryID == id {
			deleted[p.ID] = true
			continue
		}
		keptPosts = append(keptPosts, p)
	}
	keptComments := comments[:0]
	for _, c := range comments {
		if deleted[c.PostID] {
			continue
		}
		keptComments = append(keptComments, c)
	}

	galleries = append(galleries[:idx], galleries[idx+1:]...)
	if err := saveGalleries(ctx, s.store, galleries); err != nil {
		return err
	}
	if err := savePosts(ctx, s.store, keptPosts); err != nil {
		return err
	}
	if err := saveComments(ctx, s.store, keptComments); err != nil {
		return err
	}

	s.log.Info("gallery deleted", "gallery_id", id, "posts_removed", len(deleted), "by", sess.User().ID)
	return nil
}

// List returns every gallery with freshly derived post counts.
func (s *GalleryService) List(ctx context.Context) ([]models.Gallery, error) {
	galleries, err := loadGalleries(ctx, s.store)
	if err != nil {
		return nil, err
	}
	if err := s.recompute(ctx, galleries); err != nil {
		return nil, err
	}
	return galleries, nil
}

// Find returns a single gallery with derived stats.
func (s *GalleryService) Find(ctx context.Context, id string) (*models.Gallery, error) {
	galleries, err := loadGalleries(ctx, s.store)
	if err != nil {
		return nil, err
	}
	idx := s.findIndex(galleries, id)
	if idx < 0 {
		return nil, models.NewNotFoundError("gallery", id)
	}
	if err := s.recompute(ctx, galleries[idx:idx+1]); err != nil {
		return nil, err
	}
	g := galleries[idx]
	return &g, nil
}

// Search matches the term case-insensitively against gallery names and
// descriptions. An empty term returns everything.
func (s *GalleryService) Search(ctx context.Context, term string) ([]models.Gallery, error) {
	galleries, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return galleries, nil
	}
	var matched []models.Gallery
	for _, g := range galleries {
		if strings.Contains(strings.ToLower(g.Name), term) ||
			strings.Contains(strings.ToLower(g.Description), term) {
			matched = append(matched, g)
		}
	}
	return matched, nil
}

// IsProtected reports whether the gallery id is in the protected default set.
func (s *GalleryService) IsProtected(id string) bool { return s.protected[id] }

// recompute fills PostCount and TodayPostCount from the post collection.
// Counts are read-time aggregations, never a stored source of truth.
func (s *GalleryService) recompute(ctx context.Context, galleries []models.Gallery) error {
	posts, err := loadPosts(ctx, s.store)
	if err != nil {
		return err
	}
	now := time.Now()
	for i := range galleries {
		total, today := 0, 0
		for _, p := range posts {
			if p.GalleryID != galleries[i].ID {
				continue
			}
			total++
			if sameDay(p.CreatedAt, now) {
				today++
			}
		}
		galleries[i].PostCount = total
		galleries[i].TodayPostCount = today
	}
	return nil
}

func (s *GalleryService) findIndex(galleries []models.Gallery, id string) int {
	for i := range galleries {
		if galleries[i].ID == id {
			return i
		}
	}
	return -1
}

// touchActivity bumps a gallery's last-activity stamp after post changes.
func (s *GalleryService) touchActivity(ctx context.Context, id string) error {
	galleries, err := loadGalleries(ctx, s.store)
	if err != nil {
		return err
	}
	idx := s.findIndex(galleries, id)
	if idx < 0 {
		return nil
	}
	galleries[idx].LastActivity = time.Now()
	return saveGalleries(ctx, s.store, galleries)
}
