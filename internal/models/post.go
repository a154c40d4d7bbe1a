package models

import "time"

// Post types.
const (
	PostTypeNormal = "normal"
	PostTypeNotice = "notice"
)

// Vote directions shared by posts and comments.
const (
	VoteLike    = "like"
	VoteDislike = "dislike"
)

// VoteRecord tracks a single user's standing vote so that double votes are
// rejected and direction flips adjust both counters.
type VoteRecord struct {
	UserID    string    `json:"user_id"`
	Direction string    `json:"direction"`
	VotedAt   time.Time `json:"voted_at"`
}

// Post is a single board entry scoped to a gallery. AuthorID is empty for
// posts created without a session.
type Post struct {
	ID        string       `json:"id"`
	GalleryID string       `json:"gallery_id"`
	Title     string       `json:"title"`
	Content   string       `json:"content"`
	Author    string       `json:"author"`
	AuthorID  string       `json:"author_id,omitempty"`
	Type      string       `json:"type"`
	Tags      []string     `json:"tags,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	EditedAt  *time.Time   `json:"edited_at,omitempty"`
	Views     int          `json:"views"`
	Likes     int          `json:"likes"`
	Dislikes  int          `json:"dislikes"`
	Voters    []VoteRecord `json:"voters,omitempty"`
}

// FindVote returns the caller's standing vote on the post, or nil.
func (p *Post) FindVote(userID string) *VoteRecord {
	for i := range p.Voters {
		if p.Voters[i].UserID == userID {
			return &p.Voters[i]
		}
	}
	return nil
}
