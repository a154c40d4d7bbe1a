package service

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"plaza/internal/models"
	"plaza/internal/store"
)

// CommentService manages comments scoped to posts, with one level of reply
// nesting.
type CommentService struct {
	store store.Store
	log   *slog.Logger
}

type CreateCommentInput struct {
	PostID string
	// Author supplies the display name for anonymous comments; ignored
	// when the session is logged in.
	Author    string
	Content   string
	ParentID  string
	Anonymous bool
}

func NewCommentService(st store.Store, log *slog.Logger) *CommentService {
	if log == nil {
		log = slog.Default()
	}
	return &CommentService{store: st, log: log}
}

// Create appends a comment to an existing post. Replies must target a
// top-level comment on the same post; deeper nesting is rejected.
func (s *CommentService) Create(ctx context.Context, sess *Session, in CreateCommentInput) (*models.Comment, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, models.NewValidationError("comment content is required")
	}

	author := strings.TrimSpace(in.Author)
	authorID := ""
	if sess.LoggedIn() {
		author = sess.User().Nickname
		authorID = sess.User().ID
	} else if author == "" {
		return nil, models.NewValidationError("author name is required")
	}

	var posts []models.Post
	if err := s.store.Load(ctx, store.CollectionPosts, &posts); err != nil {
		return nil, err
	}
	postExists := false
	for i := range posts {
		if posts[i].ID == in.PostID {
			postExists = true
			break
		}
	}
	if !postExists {
		return nil, models.NewNotFoundError("post", in.PostID)
	}

	comments, err := loadComments(ctx, s.store)
	if err != nil {
		return nil, err
	}

	if in.ParentID != "" {
		parent := findComment(comments, in.ParentID)
		if parent == nil || parent.PostID != in.PostID {
			return nil, models.NewNotFoundError("comment", in.ParentID)
		}
		if parent.ParentID != "" {
			return nil, models.NewValidationError("replies cannot be nested more than one level")
		}
	}

	comment := models.Comment{
		ID:        uuid.NewString(),
		PostID:    in.PostID,
		ParentID:  in.ParentID,
		Author:    author,
		AuthorID:  authorID,
		Content:   content,
		Anonymous: in.Anonymous,
		CreatedAt: time.Now(),
	}
	comments = append(comments, comment)
	if err := saveComments(ctx, s.store, comments); err != nil {
		return nil, err
	}

	s.log.Info("comment created", "comment_id", comment.ID, "post_id", comment.PostID)
	return &comment, nil
}

// Delete removes a comment. Owner or admin only; deleting a top-level
// comment also deletes its replies.
func (s *CommentService) Delete(ctx context.Context, sess *Session, id string) error {
	if err := requireLogin(sess); err != nil {
		return err
	}

	comments, err := loadComments(ctx, s.store)
	if err != nil {
		return err
	}
	target := findComment(comments, id)
	if target == nil {
		return models.NewNotFoundError("comment", id)
	}
	if !sess.IsAdmin() && (target.AuthorID == "" || target.AuthorID != sess.User().ID) {
		return models.NewAuthorizationError("only the author or an admin can delete this comment")
	}

	kept := comments[:0]
	removed := 0
	for _, c := range comments {
		if c.ID == id || c.ParentID == id {
			removed++
			continue
		}
		kept = append(kept, c)
	}
	if err := saveComments(ctx, s.store, kept); err != nil {
		return err
	}

	s.log.Info("comment deleted", "comment_id", id, "cascade", removed-1, "by", sess.User().ID)
	return nil
}

// Vote records a like or dislike with the same one-standing-vote semantics
// as posts.
func (s *CommentService) Vote(ctx context.Context, sess *Session, id, direction string) (*models.Comment, error) {
	if err := requireLogin(sess); err != nil {
		return nil, err
	}
	if direction != models.VoteLike && direction != models.VoteDislike {
		return nil, models.NewValidationError("vote direction must be like or dislike")
	}

	comments, err := loadComments(ctx, s.store)
	if err != nil {
		return nil, err
	}
	for i := range comments {
		if comments[i].ID != id {
			continue
		}
		if err := applyVote(&comments[i].Voters, &comments[i].Likes, &comments[i].Dislikes, sess.User().ID, direction); err != nil {
			return nil, err
		}
		if err := saveComments(ctx, s.store, comments); err != nil {
			return nil, err
		}
		c := comments[i]
		return &c, nil
	}
	return nil, models.NewNotFoundError("comment", id)
}

// ListForPost returns the post's top-level comments ordered by creation
// time ascending, with replies grouped under their parents in the same
// order.
func (s *CommentService) ListForPost(ctx context.Context, postID string) ([]models.CommentThread, error) {
	comments, err := loadComments(ctx, s.store)
	if err != nil {
		return nil, err
	}

	var tops []models.Comment
	replies := make(map[string][]models.Comment)
	for _, c := range comments {
		if c.PostID != postID {
			continue
		}
		if c.ParentID == "" {
			tops = append(tops, c)
		} else {
			replies[c.ParentID] = append(replies[c.ParentID], c)
		}
	}
	sort.SliceStable(tops, func(i, j int) bool {
		return tops[i].CreatedAt.Before(tops[j].CreatedAt)
	})

	threads := make([]models.CommentThread, 0, len(tops))
	for _, top := range tops {
		nested := replies[top.ID]
		sort.SliceStable(nested, func(i, j int) bool {
			return nested[i].CreatedAt.Before(nested[j].CreatedAt)
		})
		threads = append(threads, models.CommentThread{Comment: top, Replies: nested})
	}
	return threads, nil
}

// CountByPost returns comment totals keyed by post id, backing the hot
// sort and admin views.
func (s *CommentService) CountByPost(ctx context.Context) (map[string]int, error) {
	comments, err := loadComments(ctx, s.store)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for _, c := range comments {
		counts[c.PostID]++
	}
	return counts, nil
}

func findComment(comments []models.Comment, id string) *models.Comment {
	for i := range comments {
		if comments[i].ID == id {
			return &comments[i]
		}
	}
	return nil
}
