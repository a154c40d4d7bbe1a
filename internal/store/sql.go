package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// collectionRow is the single table the SQL store maintains: one row per
// collection holding the whole JSON document.
type collectionRow struct {
	Name      string `gorm:"primaryKey"`
	Data      []byte `gorm:"type:blob"`
	UpdatedAt time.Time
}

func (collectionRow) TableName() string { return "collections" }

// SQLStore persists collections as blob rows through Gorm. SQLite is the
// default backend; Postgres is selected by DSN.
type SQLStore struct {
	db  *gorm.DB
	log *slog.Logger
}

// OpenSQLite opens (and migrates) a SQLite-backed store at path. Use
// ":memory:" for tests.
func OpenSQLite(path string, log *slog.Logger) (*SQLStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}
	return newSQLStore(db, log)
}

// OpenPostgres opens (and migrates) a Postgres-backed store.
func OpenPostgres(dsn string, log *slog.Logger) (*SQLStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres store: %w", err)
	}
	return newSQLStore(db, log)
}

func newSQLStore(db *gorm.DB, log *slog.Logger) (*SQLStore, error) {
	if err := db.AutoMigrate(&collectionRow{}); err != nil {
		return nil, fmt.Errorf("migrate collections table: %w", err)
	}
	if log == nil {
		log = slog.Default()
	}
	return &SQLStore{db: db, log: log}, nil
}

func (s *SQLStore) Load(ctx context.Context, collection string, dest any) error {
	var row collectionRow
	err := s.db.WithContext(ctx).First(&row, "name = ?", collection).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load collection %q: %w", collection, err)
	}
	if err := json.Unmarshal(row.Data, dest); err != nil {
		s.log.Debug("discarding corrupt collection payload",
			"collection", collection, "error", err)
	}
	return nil
}

func (s *SQLStore) Save(ctx context.Context, collection string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode collection %q: %w", collection, err)
	}
	row := collectionRow{Name: collection, Data: raw, UpdatedAt: time.Now()}
	err = s.db.WithContext(ctx).Save(&row).Error
	if err != nil {
		return fmt.Errorf("save collection %q: %w", collection, err)
	}
	return nil
}

func (s *SQLStore) Delete(ctx context.Context, collection string) error {
	return s.db.WithContext(ctx).Delete(&collectionRow{}, "name = ?", collection).Error
}

func (s *SQLStore) Collections(ctx context.Context) ([]string, error) {
	var names []string
	err := s.db.WithContext(ctx).
		Model(&collectionRow{}).
		Order("name").
		Pluck("name", &names).Error
	return names, err
}
