// Package models contains data structures for the application's domain models.
package models

import "time"

// Comment belongs to a post and may nest one level under a parent comment.
// ParentID is empty for top-level comments.
type Comment struct {
	ID        string       `json:"id"`
	PostID    string       `json:"post_id"`
	ParentID  string       `json:"parent_id,omitempty"`
	Author    string       `json:"author"`
	AuthorID  string       `json:"author_id,omitempty"`
	Content   string       `json:"content"`
	Anonymous bool         `json:"anonymous,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	Likes     int          `json:"likes"`
	Dislikes  int          `json:"dislikes"`
	Voters    []VoteRecord `json:"voters,omitempty"`
}

// FindVote returns the caller's standing vote on the comment, or nil.
func (c *Comment) FindVote(userID string) *VoteRecord {
	for i := range c.Voters {
		if c.Voters[i].UserID == userID {
			return &c.Voters[i]
		}
	}
	return nil
}

// CommentThread is a top-level comment together with its replies, ordered
// by creation time ascending.
type CommentThread struct {
	Comment
	Replies []Comment `json:"replies,omitempty"`
}
