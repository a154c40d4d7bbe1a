package seed

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"plaza/internal/models"
	"plaza/internal/store"
)

// DemoOptions controls how much demo content the seeder generates.
type DemoOptions struct {
	Users    int
	Posts    int
	Comments int
	// MaxDays spreads creation timestamps over the past N days.
	MaxDays int
}

// Demo populates the store with fake users, posts and comments. Bootstrap
// must have run first so the default galleries exist. Demo users share the
// password "demo-password" for local experimentation.
func (s *Seeder) Demo(ctx context.Context, opts DemoOptions) error {
	gofakeit.Seed(time.Now().UnixNano())
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	if opts.MaxDays <= 0 {
		opts.MaxDays = 90
	}

	var galleries []models.Gallery
	if err := s.store.Load(ctx, store.CollectionGalleries, &galleries); err != nil {
		return err
	}
	if len(galleries) == 0 {
		return fmt.Errorf("no galleries to seed into; run bootstrap first")
	}
	if opts.Users <= 0 && (opts.Posts > 0 || opts.Comments > 0) {
		return fmt.Errorf("posts and comments need at least one demo user")
	}
	if opts.Posts <= 0 && opts.Comments > 0 {
		return fmt.Errorf("comments need at least one demo post")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("demo-password"), bcrypt.MinCost)
	if err != nil {
		return err
	}

	var users []models.User
	if err := s.store.Load(ctx, store.CollectionUsers, &users); err != nil {
		return err
	}
	var demoUsers []models.User
	for i := 0; i < opts.Users; i++ {
		created := spreadBack(r, opts.MaxDays)
		u := models.User{
			ID:           fmt.Sprintf("%s_%04d", gofakeit.Username(), i),
			PasswordHash: string(hash),
			Nickname:     fmt.Sprintf("%s%03d", gofakeit.FirstName(), r.Intn(1000)),
			Role:         models.RoleUser,
			JoinedAt:     created,
			LastActivity: created,
		}
		demoUsers = append(demoUsers, u)
	}
	users = append(users, demoUsers...)
	if err := s.store.Save(ctx, store.CollectionUsers, users); err != nil {
		return err
	}

	var posts []models.Post
	if err := s.store.Load(ctx, store.CollectionPosts, &posts); err != nil {
		return err
	}
	for i := 0; i < opts.Posts; i++ {
		author := pickUser(r, demoUsers)
		gallery := galleries[r.Intn(len(galleries))]
		created := spreadBack(r, opts.MaxDays)
		post := models.Post{
			ID:        uuid.NewString(),
			GalleryID: gallery.ID,
			Title:     gofakeit.Sentence(5),
			Content:   gofakeit.Paragraph(1, 3, 8, "\n"),
			Author:    author.Nickname,
			AuthorID:  author.ID,
			Type:      models.PostTypeNormal,
			CreatedAt: created,
			Views:     r.Intn(500),
			Likes:     r.Intn(50),
			Dislikes:  r.Intn(10),
		}
		posts = append(posts, post)
	}
	if err := s.store.Save(ctx, store.CollectionPosts, posts); err != nil {
		return err
	}

	var comments []models.Comment
	if err := s.store.Load(ctx, store.CollectionComments, &comments); err != nil {
		return err
	}
	for i := 0; i < opts.Comments; i++ {
		author := pickUser(r, demoUsers)
		post := posts[r.Intn(len(posts))]
		comments = append(comments, models.Comment{
			ID:        uuid.NewString(),
			PostID:    post.ID,
			Author:    author.Nickname,
			AuthorID:  author.ID,
			Content:   gofakeit.Sentence(12),
			CreatedAt: post.CreatedAt.Add(time.Duration(r.Intn(48)) * time.Hour),
		})
	}
	if err := s.store.Save(ctx, store.CollectionComments, comments); err != nil {
		return err
	}

	s.log.Info("demo data seeded",
		"users", len(demoUsers), "posts", opts.Posts, "comments", opts.Comments)
	return nil
}

func spreadBack(r *rand.Rand, maxDays int) time.Time {
	return time.Now().
		Add(-time.Duration(r.Intn(maxDays)) * 24 * time.Hour).
		Add(-time.Duration(r.Intn(24)) * time.Hour).
		Add(-time.Duration(r.Intn(60)) * time.Minute)
}

func pickUser(r *rand.Rand, users []models.User) models.User {
	return users[r.Intn(len(users))]
}
