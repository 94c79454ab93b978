package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/specterworks/storefront/internal/domain/game"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RecordModel is one key-value pair of the record store.
type RecordModel struct {
	Key       string    `gorm:"column:record_key;primaryKey;size:255"`
	Value     string    `gorm:"column:record_value;type:text;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

// TableName returns the table name for GORM
func (RecordModel) TableName() string {
	return "storefront_records"
}

// GormRecordStore implements game.RecordStore on a SQL table.
type GormRecordStore struct {
	db *Database
}

// NewGormRecordStore creates a new GormRecordStore
func NewGormRecordStore(db *Database) *GormRecordStore {
	return &GormRecordStore{db: db}
}

// AutoMigrate creates or updates the records table.
func (s *GormRecordStore) AutoMigrate(ctx context.Context) error {
	if err := s.db.DB.WithContext(ctx).AutoMigrate(&RecordModel{}); err != nil {
		return fmt.Errorf("failed to migrate record store: %w", err)
	}
	return nil
}

// Get returns the value at key or game.ErrKeyNotFound.
func (s *GormRecordStore) Get(ctx context.Context, key string) (string, error) {
	var rec RecordModel
	err := s.db.DB.WithContext(ctx).Where("record_key = ?", key).Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", game.ErrKeyNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get %s: %w", key, err)
	}
	return rec.Value, nil
}

// Put inserts or replaces the value at key.
func (s *GormRecordStore) Put(ctx context.Context, key, value string) error {
	if err := upsert(s.db.DB.WithContext(ctx), key, value); err != nil {
		return fmt.Errorf("failed to put %s: %w", key, err)
	}
	return nil
}

// PutAll writes every entry in one transaction.
func (s *GormRecordStore) PutAll(ctx context.Context, entries []game.KeyValue) error {
	if len(entries) == 0 {
		return nil
	}
	err := s.db.Transaction(ctx, func(tx *gorm.DB) error {
		for _, e := range entries {
			if err := upsert(tx, e.Key, e.Value); err != nil {
				return fmt.Errorf("failed to put %s: %w", e.Key, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to commit %d keys: %w", len(entries), err)
	}
	return nil
}

// Ping checks the connection.
func (s *GormRecordStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close closes the underlying connection.
func (s *GormRecordStore) Close() error {
	return s.db.Close()
}

func upsert(db *gorm.DB, key, value string) error {
	rec := RecordModel{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "record_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"record_value", "updated_at"}),
	}).Create(&rec).Error
}

var (
	_ game.RecordStore = (*GormRecordStore)(nil)
	_ game.BatchWriter = (*GormRecordStore)(nil)
	_ game.Pinger      = (*GormRecordStore)(nil)
)
