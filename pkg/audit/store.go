// Copyright 2025 Gerry Miller <gerry@gerrymiller.com>
//
// Licensed under the MIT License.
// See LICENSE file in the project root for full license information.

// Package audit persists a record of every answered query and
// eligibility evaluation for later review, using GORM over either
// SQLite (local/dev) or PostgreSQL (production).
package audit

import (
	"context"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Record is one answered query or eligibility evaluation, with its
// full tool-call and symbolic-reasoning trail preserved for review.
type Record struct {
	ID                  uint      `gorm:"primaryKey"`
	Question            string    `gorm:"not null"`
	Topic               string    `gorm:"index"`
	Complexity          string
	Answer              string
	Confidence          float64
	ConfidenceReason    string
	Sources             datatypes.JSON
	ToolCalls           datatypes.JSON
	SymbolicComparisons datatypes.JSON
	TreeResult          datatypes.JSON
	Cancelled           bool
	ErrorMessage        string
	CreatedAt           time.Time `gorm:"index;not null"`
}

// TableName fixes the table name independent of the Record type name.
func (Record) TableName() string { return "query_audit_records" }

// Store persists and retrieves audit Records.
type Store struct {
	db *gorm.DB
}

// Config selects the backing database for a Store.
type Config struct {
	// Driver is "sqlite" or "postgres".
	Driver string
	// DSN is the sqlite file path or the postgres connection string.
	DSN string
	// AutoMigrate creates/updates the schema on Open.
	AutoMigrate bool
}

// Open connects to the database described by config and optionally
// runs schema migration.
func Open(config *Config) (*Store, error) {
	if config == nil {
		config = &Config{Driver: "sqlite", DSN: "debt-advice-audit.db", AutoMigrate: true}
	}

	var dialector gorm.Dialector
	switch config.Driver {
	case "postgres":
		dialector = postgres.Open(config.DSN)
	case "sqlite", "":
		dsn := config.DSN
		if dsn == "" {
			dsn = "debt-advice-audit.db"
		}
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported audit driver %q", config.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Warn)})
	if err != nil {
		return nil, fmt.Errorf("failed to open audit database: %w", err)
	}

	store := &Store{db: db}
	if config.AutoMigrate {
		if err := store.migrate(); err != nil {
			return nil, fmt.Errorf("failed to migrate audit schema: %w", err)
		}
	}
	return store, nil
}

// NewFromDB wraps an already-open gorm.DB, skipping migration control.
func NewFromDB(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) migrate() error {
	return s.db.AutoMigrate(&Record{})
}

// Save inserts a Record.
func (s *Store) Save(ctx context.Context, record *Record) error {
	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("failed to save audit record: %w", err)
	}
	return nil
}

// RecentByTopic returns the most recent limit records for topic,
// newest first. topic empty matches all topics.
func (s *Store) RecentByTopic(ctx context.Context, topic string, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}

	query := s.db.WithContext(ctx).Order("created_at DESC").Limit(limit)
	if topic != "" {
		query = query.Where("topic = ?", topic)
	}

	var records []Record
	if err := query.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to query audit records: %w", err)
	}
	return records, nil
}

// LowConfidenceCount counts records with Confidence below threshold
// since since — a cheap signal for "the cache needs a re-bootstrap" or
// "this topic's manual coverage is thin".
func (s *Store) LowConfidenceCount(ctx context.Context, threshold float64, since time.Time) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&Record{}).
		Where("confidence < ? AND created_at >= ?", threshold, since).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count low-confidence records: %w", err)
	}
	return count, nil
}
