package service

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"plaza/internal/models"
	"plaza/internal/store"
)

// Sort modes accepted by SortPosts.
type SortMode string

const (
	SortLatest  SortMode = "latest"
	SortOldest  SortMode = "oldest"
	SortPopular SortMode = "popular" // views + likes
	SortHot     SortMode = "hot"     // likes + comments*2
)

const (
	maxTitleLen   = 100
	maxContentLen = 10000
)

// PostService manages posts within galleries: creation, editing, voting,
// views, bookmarks, search and sorting.
type PostService struct {
	store     store.Store
	galleries *GalleryService
	log       *slog.Logger
}

type CreatePostInput struct {
	GalleryID string
	Title     string
	Content   string
	// Author supplies the display name for anonymous posts; ignored when
	// the session is logged in.
	Author string
	Tags   []string
	Notice bool
}

func NewPostService(st store.Store, galleries *GalleryService, log *slog.Logger) *PostService {
	if log == nil {
		log = slog.Default()
	}
	return &PostService{store: st, galleries: galleries, log: log}
}

// Create validates and prepends a new post to the collection (newest
// first). Notice posts require the admin role.
func (s *PostService) Create(ctx context.Context, sess *Session, in CreatePostInput) (*models.Post, error) {
	title := strings.TrimSpace(in.Title)
	content := strings.TrimSpace(in.Content)
	if title == "" {
		return nil, models.NewValidationError("title is required")
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return nil, models.NewValidationError("title must be 100 characters or fewer")
	}
	if content == "" {
		return nil, models.NewValidationError("content is required")
	}
	if utf8.RuneCountInString(content) > maxContentLen {
		return nil, models.NewValidationError("content must be 10000 characters or fewer")
	}

	author := strings.TrimSpace(in.Author)
	authorID := ""
	if sess.LoggedIn() {
		author = sess.User().Nickname
		authorID = sess.User().ID
	} else if author == "" {
		return nil, models.NewValidationError("author name is required")
	}

	postType := models.PostTypeNormal
	if in.Notice {
		if err := requireAdmin(sess); err != nil {
			return nil, err
		}
		postType = models.PostTypeNotice
	}

	if _, err := s.galleries.Find(ctx, in.GalleryID); err != nil {
		return nil, err
	}

	posts, err := loadPosts(ctx, s.store)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	post := models.Post{
		ID:        newTimeID(now),
		GalleryID: in.GalleryID,
		Title:     title,
		Content:   content,
		Author:    author,
		AuthorID:  authorID,
		Type:      postType,
		Tags:      in.Tags,
		CreatedAt: now,
	}
	posts = append([]models.Post{post}, posts...)
	if err := savePosts(ctx, s.store, posts); err != nil {
		return nil, err
	}
	if err := s.galleries.touchActivity(ctx, in.GalleryID); err != nil {
		return nil, err
	}

	s.log.Info("post created", "post_id", post.ID, "gallery_id", post.GalleryID, "type", post.Type)
	return &post, nil
}

// Get returns a post by id.
func (s *PostService) Get(ctx context.Context, id string) (*models.Post, error) {
	posts, err := loadPosts(ctx, s.store)
	if err != nil {
		return nil, err
	}
	for i := range posts {
		if posts[i].ID == id {
			p := posts[i]
			return &p, nil
		}
	}
	return nil, models.NewNotFoundError("post", id)
}

// Update edits a post's title and content. Owner or admin only; stamps the
// edited timestamp.
func (s *PostService) Update(ctx context.Context, sess *Session, id, title, content string) (*models.Post, error) {
	if err := requireLogin(sess); err != nil {
		return nil, err
	}
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	if title == "" || content == "" {
		return nil, models.NewValidationError("title and content are required")
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return nil, models.NewValidationError("title must be 100 characters or fewer")
	}
	if utf8.RuneCountInString(content) > maxContentLen {
		return nil, models.NewValidationError("content must be 10000 characters or fewer")
	}

	posts, err := loadPosts(ctx, s.store)
	if err != nil {
		return nil, err
	}
	for i := range posts {
		if posts[i].ID != id {
			continue
		}
		if !s.canModify(sess, &posts[i]) {
			return nil, models.NewAuthorizationError("only the author or an admin can edit this post")
		}
		now := time.Now()
		posts[i].Title = title
		posts[i].Content = content
		posts[i].EditedAt = &now
		if err := savePosts(ctx, s.store, posts); err != nil {
			return nil, err
		}
		p := posts[i]
		return &p, nil
	}
	return nil, models.NewNotFoundError("post", id)
}

// Delete removes a post and all of its comments. Owner or admin only.
func (s *PostService) Delete(ctx context.Context, sess *Session, id string) error {
	if err := requireLogin(sess); err != nil {
		return err
	}

	posts, err := loadPosts(ctx, s.store)
	if err != nil {
		return err
	}
	idx := -1
	for i := range posts {
		if posts[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return models.NewNotFoundError("post", id)
	}
	if !s.canModify(sess, &posts[idx]) {
		return models.NewAuthorizationError("only the author or an admin can delete this post")
	}

	galleryID := posts[idx].GalleryID
	posts = append(posts[:idx], posts[idx+1:]...)

	comments, err := loadComments(ctx, s.store)
	if err != nil {
		return err
	}
	kept := comments[:0]
	for _, c := range comments {
		if c.PostID == id {
			continue
		}
		kept = append(kept, c)
	}

	if err := savePosts(ctx, s.store, posts); err != nil {
		return err
	}
	if err := saveComments(ctx, s.store, kept); err != nil {
		return err
	}
	if err := s.galleries.touchActivity(ctx, galleryID); err != nil {
		return err
	}

	s.log.Info("post deleted", "post_id", id, "by", sess.User().ID)
	return nil
}

// Vote records a like or dislike. A user holds at most one standing vote
// per post; repeating the same direction fails, switching direction moves
// the count. Counters never go below zero.
func (s *PostService) Vote(ctx context.Context, sess *Session, id, direction string) (*models.Post, error) {
	if err := requireLogin(sess); err != nil {
		return nil, err
	}
	if direction != models.VoteLike && direction != models.VoteDislike {
		return nil, models.NewValidationError("vote direction must be like or dislike")
	}

	posts, err := loadPosts(ctx, s.store)
	if err != nil {
		return nil, err
	}
	for i := range posts {
		if posts[i].ID != id {
			continue
		}
		if err := applyVote(&posts[i].Voters, &posts[i].Likes, &posts[i].Dislikes, sess.User().ID, direction); err != nil {
			return nil, err
		}
		if err := savePosts(ctx, s.store, posts); err != nil {
			return nil, err
		}
		p := posts[i]
		return &p, nil
	}
	return nil, models.NewNotFoundError("post", id)
}

// IncrementViews bumps the stored view counter at most once per session
// for a given post and returns the current count.
func (s *PostService) IncrementViews(ctx context.Context, sess *Session, id string) (int, error) {
	posts, err := loadPosts(ctx, s.store)
	if err != nil {
		return 0, err
	}
	for i := range posts {
		if posts[i].ID != id {
			continue
		}
		if !sess.MarkViewed(id) {
			return posts[i].Views, nil
		}
		posts[i].Views++
		if err := savePosts(ctx, s.store, posts); err != nil {
			return 0, err
		}
		return posts[i].Views, nil
	}
	return 0, models.NewNotFoundError("post", id)
}

// Search returns the gallery's posts filtered by a case-insensitive
// substring match over title, content and author. An empty term returns
// the whole gallery, newest first.
func (s *PostService) Search(ctx context.Context, galleryID, term string) ([]models.Post, error) {
	posts, err := loadPosts(ctx, s.store)
	if err != nil {
		return nil, err
	}
	term = strings.ToLower(strings.TrimSpace(term))
	var matched []models.Post
	for _, p := range posts {
		if p.GalleryID != galleryID {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(p.Title), term) &&
			!strings.Contains(strings.ToLower(p.Content), term) &&
			!strings.Contains(strings.ToLower(p.Author), term) {
			continue
		}
		matched = append(matched, p)
	}
	return matched, nil
}

// SortPosts orders a copy of posts by the given mode. Ties preserve the
// relative order of the input. commentCounts backs the hot score and may be
// nil for the other modes.
func SortPosts(posts []models.Post, mode SortMode, commentCounts map[string]int) []models.Post {
	sorted := make([]models.Post, len(posts))
	copy(sorted, posts)

	switch mode {
	case SortLatest:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
		})
	case SortOldest:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
		})
	case SortPopular:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Views+sorted[i].Likes > sorted[j].Views+sorted[j].Likes
		})
	case SortHot:
		score := func(p models.Post) int {
			return p.Likes + commentCounts[p.ID]*2
		}
		sort.SliceStable(sorted, func(i, j int) bool {
			return score(sorted[i]) > score(sorted[j])
		})
	}
	return sorted
}

// ToggleBookmark adds or removes the post from the session user's bookmark
// list and reports the resulting state.
func (s *PostService) ToggleBookmark(ctx context.Context, sess *Session, postID string) (bool, error) {
	if err := requireLogin(sess); err != nil {
		return false, err
	}
	if _, err := s.Get(ctx, postID); err != nil {
		return false, err
	}

	users, err := loadUsers(ctx, s.store)
	if err != nil {
		return false, err
	}
	for i := range users {
		if users[i].ID != sess.User().ID {
			continue
		}
		bookmarked := true
		kept := users[i].Bookmarks[:0]
		for _, b := range users[i].Bookmarks {
			if b == postID {
				bookmarked = false
				continue
			}
			kept = append(kept, b)
		}
		if bookmarked {
			kept = append(kept, postID)
		}
		users[i].Bookmarks = kept
		if err := saveUsers(ctx, s.store, users); err != nil {
			return false, err
		}
		sess.User().Bookmarks = append([]string(nil), kept...)
		return bookmarked, nil
	}
	return false, models.NewNotFoundError("user", sess.User().ID)
}

// Bookmarked reports whether the session user has bookmarked the post.
func (s *PostService) Bookmarked(ctx context.Context, sess *Session, postID string) (bool, error) {
	if err := requireLogin(sess); err != nil {
		return false, err
	}
	users, err := loadUsers(ctx, s.store)
	if err != nil {
		return false, err
	}
	for i := range users {
		if users[i].ID != sess.User().ID {
			continue
		}
		for _, b := range users[i].Bookmarks {
			if b == postID {
				return true, nil
			}
		}
		return false, nil
	}
	return false, nil
}

// ListBookmarks resolves the session user's bookmarked posts. Bookmarks
// whose post no longer exists are skipped.
func (s *PostService) ListBookmarks(ctx context.Context, sess *Session) ([]models.Post, error) {
	if err := requireLogin(sess); err != nil {
		return nil, err
	}
	users, err := loadUsers(ctx, s.store)
	if err != nil {
		return nil, err
	}
	var ids []string
	for i := range users {
		if users[i].ID == sess.User().ID {
			ids = users[i].Bookmarks
			break
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}

	posts, err := loadPosts(ctx, s.store)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]models.Post, len(posts))
	for _, p := range posts {
		byID[p.ID] = p
	}
	var resolved []models.Post
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			resolved = append(resolved, p)
		}
	}
	return resolved, nil
}

func (s *PostService) canModify(sess *Session, post *models.Post) bool {
	if sess.IsAdmin() {
		return true
	}
	return post.AuthorID != "" && post.AuthorID == sess.User().ID
}

// applyVote enforces the one-standing-vote invariant shared by posts and
// comments. It mutates the voter list and counters in place and fails
// without side effects on a repeated same-direction vote.
func applyVote(voters *[]models.VoteRecord, likes, dislikes *int, userID, direction string) error {
	for i := range *voters {
		if (*voters)[i].UserID != userID {
			continue
		}
		if (*voters)[i].Direction == direction {
			return models.NewValidationError("already voted " + direction)
		}
		// flip: move one count from the old direction to the new
		(*voters)[i].Direction = direction
		(*voters)[i].VotedAt = time.Now()
		if direction == models.VoteLike {
			*likes++
			if *dislikes > 0 {
				*dislikes--
			}
		} else {
			*dislikes++
			if *likes > 0 {
				*likes--
			}
		}
		return nil
	}

	*voters = append(*voters, models.VoteRecord{
		UserID:    userID,
		Direction: direction,
		VotedAt:   time.Now(),
	})
	if direction == models.VoteLike {
		*likes++
	} else {
		*dislikes++
	}
	return nil
}
