package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"
	"time"

	"plaza/internal/models"
	"plaza/internal/store"
)

// AdminService aggregates reporting over the other services and owns
// whole-store backup, restore and reset. Every operation is gated on the
// admin role.
type AdminService struct {
	store store.Store
	log   *slog.Logger
}

// DashboardStats summarizes the whole board for the admin panel.
type DashboardStats struct {
	TotalUsers     int `json:"total_users"`
	ActiveUsers    int `json:"active_users"`
	TotalGalleries int `json:"total_galleries"`
	TotalPosts     int `json:"total_posts"`
	TotalComments  int `json:"total_comments"`
	TodayPosts     int `json:"today_posts"`
}

// LogEntry is one line of the recent-activity feed.
type LogEntry struct {
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

const (
	logTypePost = "post_created"
	logTypeUser = "user_registered"
)

func NewAdminService(st store.Store, log *slog.Logger) *AdminService {
	if log == nil {
		log = slog.Default()
	}
	return &AdminService{store: st, log: log}
}

// DashboardStats derives totals from the live collections.
func (s *AdminService) DashboardStats(ctx context.Context, sess *Session) (*DashboardStats, error) {
	if err := requireAdmin(sess); err != nil {
		return nil, err
	}

	users, err := loadUsers(ctx, s.store)
	if err != nil {
		return nil, err
	}
	galleries, err := loadGalleries(ctx, s.store)
	if err != nil {
		return nil, err
	}
	posts, err := loadPosts(ctx, s.store)
	if err != nil {
		return nil, err
	}
	comments, err := loadComments(ctx, s.store)
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{
		TotalUsers:     len(users),
		TotalGalleries: len(galleries),
		TotalPosts:     len(posts),
		TotalComments:  len(comments),
	}
	for _, u := range users {
		if u.IsActive {
			stats.ActiveUsers++
		}
	}
	now := time.Now()
	for _, p := range posts {
		if sameDay(p.CreatedAt, now) {
			stats.TodayPosts++
		}
	}
	return stats, nil
}

// SystemLog lists recent post creations and registrations, newest first.
func (s *AdminService) SystemLog(ctx context.Context, sess *Session, limit int) ([]LogEntry, error) {
	if err := requireAdmin(sess); err != nil {
		return nil, err
	}

	posts, err := loadPosts(ctx, s.store)
	if err != nil {
		return nil, err
	}
	users, err := loadUsers(ctx, s.store)
	if err != nil {
		return nil, err
	}

	var entries []LogEntry
	for _, p := range posts {
		entries = append(entries, LogEntry{
			Type:      logTypePost,
			Message:   "new post: " + p.Title + " by " + p.Author,
			Timestamp: p.CreatedAt,
		})
	}
	for _, u := range users {
		if u.IsAdmin() {
			continue
		}
		entries = append(entries, LogEntry{
			Type:      logTypeUser,
			Message:   "new user: " + u.Nickname + " (" + u.ID + ")",
			Timestamp: u.JoinedAt,
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// Backup exports the four persisted collections as a single versioned JSON
// document.
func (s *AdminService) Backup(ctx context.Context, sess *Session) ([]byte, error) {
	if err := requireAdmin(sess); err != nil {
		return nil, err
	}

	users, err := loadUsers(ctx, s.store)
	if err != nil {
		return nil, err
	}
	galleries, err := loadGalleries(ctx, s.store)
	if err != nil {
		return nil, err
	}
	posts, err := loadPosts(ctx, s.store)
	if err != nil {
		return nil, err
	}
	comments, err := loadComments(ctx, s.store)
	if err != nil {
		return nil, err
	}

	backup := models.Backup{
		Version:    models.BackupVersion,
		ExportedAt: time.Now(),
		Data: &models.BackupData{
			Users:     users,
			Galleries: galleries,
			Posts:     posts,
			Comments:  comments,
		},
	}
	raw, err := json.MarshalIndent(backup, "", "  ")
	if err != nil {
		return nil, err
	}
	s.log.Info("backup created", "users", len(users), "posts", len(posts), "by", sess.User().ID)
	return raw, nil
}

// Restore overwrites all four collections from a backup document. Payloads
// that do not parse or lack the data field fail with a format error before
// anything is written; the underlying store still saves collections one at
// a time.
func (s *AdminService) Restore(ctx context.Context, sess *Session, raw []byte) error {
	if err := requireAdmin(sess); err != nil {
		return err
	}

	var backup models.Backup
	if err := json.Unmarshal(raw, &backup); err != nil {
		return models.NewFormatError("backup payload is not valid JSON", err)
	}
	if backup.Data == nil {
		return models.NewFormatError("backup payload has no data field", nil)
	}

	if err := saveUsers(ctx, s.store, backup.Data.Users); err != nil {
		return err
	}
	if err := saveGalleries(ctx, s.store, backup.Data.Galleries); err != nil {
		return err
	}
	if err := savePosts(ctx, s.store, backup.Data.Posts); err != nil {
		return err
	}
	if err := saveComments(ctx, s.store, backup.Data.Comments); err != nil {
		return err
	}

	s.log.Info("backup restored",
		"version", backup.Version,
		"users", len(backup.Data.Users),
		"posts", len(backup.Data.Posts),
		"by", sess.User().ID)
	return nil
}

// Reset drops every stored collection.
func (s *AdminService) Reset(ctx context.Context, sess *Session) error {
	if err := requireAdmin(sess); err != nil {
		return err
	}
	names, err := s.store.Collections(ctx)
	if err != nil {
		return err
	}
	for _, name := range names {
		if err := s.store.Delete(ctx, name); err != nil {
			return err
		}
	}
	s.log.Warn("store reset", "collections", len(names), "by", sess.User().ID)
	return nil
}
