package kvstore

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// ErrKeyNotFound is returned by Get when no value is stored under the key.
var ErrKeyNotFound = errors.New("key not found")

// Store is the persistent string-keyed, string-valued store that backs all
// durable state (users, orders, addresses, profile, cached locations).
// All operations take a context so callers can cancel on screen unmount.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Entry is the single table the GORM-backed store persists.
type Entry struct {
	Key   string `gorm:"primaryKey;type:varchar(255)"`
	Value string `gorm:"type:text"`
}

// TableName keeps the table name stable across GORM naming strategies.
func (Entry) TableName() string { return "kv_entries" }

// GormStore is a Store backed by a relational database through GORM.
// SQLite is the on-device default; Postgres is selectable for deployments
// that share the store.
type GormStore struct {
	db *gorm.DB
}

// Open connects to the configured database and migrates the entries table.
// Supported drivers: "sqlite" (dsn is a file path or ":memory:") and
// "postgres".
func Open(driver, dsn string) (*GormStore, error) {
	var dialector gorm.Dialector
	switch driver {
	case "sqlite", "":
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported kvstore driver: %s", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", driver, err)
	}
	return NewGormStore(db)
}

// NewGormStore wraps an existing GORM connection and migrates the entries
// table.
func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate kv_entries: %w", err)
	}
	return &GormStore{db: db}, nil
}

// Get returns the value stored under key, or ErrKeyNotFound.
func (s *GormStore) Get(ctx context.Context, key string) (string, error) {
	var entry Entry
	if err := s.db.WithContext(ctx).First(&entry, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrKeyNotFound
		}
		return "", fmt.Errorf("failed to get key %s: %w", key, err)
	}
	return entry.Value, nil
}

// Set stores value under key, replacing any previous value.
func (s *GormStore) Set(ctx context.Context, key, value string) error {
	entry := Entry{Key: key, Value: value}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value"}),
		}).
		Create(&entry).Error
	if err != nil {
		return fmt.Errorf("failed to set key %s: %w", key, err)
	}
	return nil
}

// Delete removes the key. Deleting an absent key is not an error.
func (s *GormStore) Delete(ctx context.Context, key string) error {
	if err := s.db.WithContext(ctx).Delete(&Entry{}, "key = ?", key).Error; err != nil {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}
	return nil
}
