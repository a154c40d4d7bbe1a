package models

import "time"

// Gallery is a named board containing posts. The ID doubles as a stable
// slug in URLs and storage references.
type Gallery struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Creator     string    `json:"creator"`
	CreatedAt   time.Time `json:"created_at"`
	// PostCount and TodayPostCount are derived from the Post collection at
	// read time and carry no authority of their own.
	PostCount      int       `json:"post_count"`
	TodayPostCount int       `json:"today_post_count"`
	LastActivity   time.Time `json:"last_activity"`
}
