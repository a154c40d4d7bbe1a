package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"plaza/internal/models"
	"plaza/internal/store"
)

const testPassword = "password123"

// testEnv wires every service over a shared in-memory store.
type testEnv struct {
	store     *store.MemoryStore
	auth      *AuthService
	galleries *GalleryService
	posts     *PostService
	comments  *CommentService
	admin     *AdminService
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEnv() *testEnv {
	st := store.NewMemoryStore()
	log := testLogger()
	protected := map[string]bool{"notice": true, "free": true, "humor": true}

	galleries := NewGalleryService(st, protected, log)
	return &testEnv{
		store:     st,
		auth:      NewAuthService(st, 8, log),
		galleries: galleries,
		posts:     NewPostService(st, galleries, log),
		comments:  NewCommentService(st, log),
		admin:     NewAdminService(st, log),
	}
}

// register creates a normal user account.
func (e *testEnv) register(t *testing.T, username, nickname string) *models.User {
	t.Helper()
	user, err := e.auth.Register(context.Background(), RegisterInput{
		Username:        username,
		Password:        testPassword,
		ConfirmPassword: testPassword,
		Nickname:        nickname,
	})
	require.NoError(t, err)
	return user
}

// login opens a fresh session for an existing account.
func (e *testEnv) login(t *testing.T, username string) *Session {
	t.Helper()
	sess := NewSession()
	_, err := e.auth.Login(context.Background(), sess, username, testPassword)
	require.NoError(t, err)
	return sess
}

// loginAdmin registers an account, promotes it to admin directly in the
// store and logs it in.
func (e *testEnv) loginAdmin(t *testing.T, username, nickname string) *Session {
	t.Helper()
	e.register(t, username, nickname)
	e.setRole(t, username, models.RoleAdmin)
	return e.login(t, username)
}

func (e *testEnv) setRole(t *testing.T, username, role string) {
	t.Helper()
	ctx := context.Background()
	var users []models.User
	require.NoError(t, e.store.Load(ctx, store.CollectionUsers, &users))
	for i := range users {
		if users[i].ID == username {
			users[i].Role = role
			if role == models.RoleAdmin || role == models.RoleSuperAdmin {
				users[i].Permissions = models.AdminPermissions()
			}
		}
	}
	require.NoError(t, e.store.Save(ctx, store.CollectionUsers, users))
}

// seedGallery writes a gallery without going through the admin gate.
func (e *testEnv) seedGallery(t *testing.T, id, name string) {
	t.Helper()
	ctx := context.Background()
	var galleries []models.Gallery
	require.NoError(t, e.store.Load(ctx, store.CollectionGalleries, &galleries))
	galleries = append(galleries, models.Gallery{ID: id, Name: name})
	require.NoError(t, e.store.Save(ctx, store.CollectionGalleries, galleries))
}

// createPost writes a post through the service under the given session.
func (e *testEnv) createPost(t *testing.T, sess *Session, galleryID, title string) *models.Post {
	t.Helper()
	post, err := e.posts.Create(context.Background(), sess, CreatePostInput{
		GalleryID: galleryID,
		Title:     title,
		Content:   "content of " + title,
	})
	require.NoError(t, err)
	return post
}

func (e *testEnv) loadUsers(t *testing.T) []models.User {
	t.Helper()
	var users []models.User
	require.NoError(t, e.store.Load(context.Background(), store.CollectionUsers, &users))
	return users
}

func (e *testEnv) loadPosts(t *testing.T) []models.Post {
	t.Helper()
	var posts []models.Post
	require.NoError(t, e.store.Load(context.Background(), store.CollectionPosts, &posts))
	return posts
}

func (e *testEnv) loadComments(t *testing.T) []models.Comment {
	t.Helper()
	var comments []models.Comment
	require.NoError(t, e.store.Load(context.Background(), store.CollectionComments, &comments))
	return comments
}
