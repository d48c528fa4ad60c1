package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// SQLiteFile is the database file name SQLiteBackend uses inside a data directory.
const SQLiteFile = "outage-log.db"

// item is one row of the key-value table
type item struct {
	Key       string `gorm:"column:item_key;primaryKey"`
	Value     string `gorm:"column:item_value;not null"`
	UpdatedAt time.Time
}

func (item) TableName() string {
	return "kv_items"
}

// SQLiteBackend stores every key as a row of a single SQLite table.
type SQLiteBackend struct {
	db   *gorm.DB
	path string
}

// NewSQLiteBackend opens (or creates) the database at path and migrates the
// table. A leading "~/" is expanded.
func NewSQLiteBackend(path string) (*SQLiteBackend, error) {
	path, err := expandHome(path)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening sqlite %s: %w", path, err)
	}
	if err := db.AutoMigrate(&item{}); err != nil {
		return nil, fmt.Errorf("migrating sqlite %s: %w", path, err)
	}

	return &SQLiteBackend{db: db, path: path}, nil
}

// Path returns the resolved database path
func (s *SQLiteBackend) Path() string {
	return s.path
}

// GetItem selects the row for key
func (s *SQLiteBackend) GetItem(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	if err := validateKey(key); err != nil {
		return "", false, err
	}

	var row item
	err := s.db.WithContext(ctx).Where("item_key = ?", key).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading %s: %w", key, err)
	}
	return row.Value, true, nil
}

// SetItem upserts the row for key
func (s *SQLiteBackend) SetItem(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateKey(key); err != nil {
		return err
	}

	row := item{Key: key, Value: value}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "item_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"item_value", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

// RemoveItem deletes the row for key
func (s *SQLiteBackend) RemoveItem(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateKey(key); err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Where("item_key = ?", key).Delete(&item{}).Error; err != nil {
		return fmt.Errorf("removing %s: %w", key, err)
	}
	return nil
}

// Close releases the database handle
func (s *SQLiteBackend) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
