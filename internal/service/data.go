package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"plaza/internal/models"
	"plaza/internal/store"
)

// Collection accessors shared by the services. Loads return empty slices
// for absent or corrupt payloads per the store contract.

func loadUsers(ctx context.Context, st store.Store) ([]models.User, error) {
	var users []models.User
	if err := st.Load(ctx, store.CollectionUsers, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func saveUsers(ctx context.Context, st store.Store, users []models.User) error {
	return st.Save(ctx, store.CollectionUsers, users)
}

func loadGalleries(ctx context.Context, st store.Store) ([]models.Gallery, error) {
	var galleries []models.Gallery
	if err := st.Load(ctx, store.CollectionGalleries, &galleries); err != nil {
		return nil, err
	}
	return galleries, nil
}

func saveGalleries(ctx context.Context, st store.Store, galleries []models.Gallery) error {
	return st.Save(ctx, store.CollectionGalleries, galleries)
}

func loadPosts(ctx context.Context, st store.Store) ([]models.Post, error) {
	var posts []models.Post
	if err := st.Load(ctx, store.CollectionPosts, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func savePosts(ctx context.Context, st store.Store, posts []models.Post) error {
	return st.Save(ctx, store.CollectionPosts, posts)
}

func loadComments(ctx context.Context, st store.Store) ([]models.Comment, error) {
	var comments []models.Comment
	if err := st.Load(ctx, store.CollectionComments, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

func saveComments(ctx context.Context, st store.Store, comments []models.Comment) error {
	return st.Save(ctx, store.CollectionComments, comments)
}

// newTimeID builds the time-ordered identifier used for posts: base36
// creation time plus a short random tail against same-millisecond clashes.
func newTimeID(now time.Time) string {
	return strconv.FormatInt(now.UnixMilli(), 36) + uuid.NewString()[:8]
}

// slugify turns a display name into a stable gallery slug. Returns "" when
// nothing survives, in which case callers fall back to a random id.
func slugify(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteByte('-')
		}
	}
	return strings.Trim(b.String(), "-")
}

// sameDay reports whether two instants fall on the same calendar day.
func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
