// Package results persists completed assembly sessions.
package results

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gekko3d/assembly"
	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var ErrClosed = errors.New("results store closed")

// SessionResult is one finished session.
type SessionResult struct {
	ID            uint           `json:"id" gorm:"primarykey"`
	SessionID     string         `json:"sessionId" gorm:"size:36;uniqueIndex"`
	Blueprint     string         `json:"blueprint" gorm:"size:64;index"`
	Items         int            `json:"items"`
	Parts         int            `json:"parts"`
	RejectedDrops int            `json:"rejectedDrops"`
	StartedAt     time.Time      `json:"startedAt"`
	CompletedAt   time.Time      `json:"completedAt" gorm:"index"`
	DurationMs    int64          `json:"durationMs"`
	ItemIDs       datatypes.JSON `json:"itemIds"`
}

func (*SessionResult) TableName() string {
	return "session_results"
}

// FromSummary converts an engine summary. itemIDs is stored as a JSON array.
func FromSummary(s assembly.SessionSummary, itemIDs []string) (SessionResult, error) {
	if itemIDs == nil {
		itemIDs = []string{}
	}
	ids, err := json.Marshal(itemIDs)
	if err != nil {
		return SessionResult{}, err
	}
	return SessionResult{
		SessionID:     s.SessionID,
		Blueprint:     s.Blueprint,
		Items:         s.Items,
		Parts:         s.Parts,
		RejectedDrops: s.RejectedDrops,
		StartedAt:     s.StartedAt,
		CompletedAt:   s.CompletedAt,
		DurationMs:    s.Duration().Milliseconds(),
		ItemIDs:       datatypes.JSON(ids),
	}, nil
}

// Store wraps the results database.
type Store struct {
	db  *gorm.DB
	log zerolog.Logger
}

// Open connects to dsn. postgres:// and postgresql:// URLs use Postgres,
// anything else is a SQLite path. An empty dsn opens a private in-memory
// SQLite database.
func Open(dsn string, log zerolog.Logger) (*Store, error) {
	cfg := &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	}

	var (
		db  *gorm.DB
		err error
	)
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), cfg)
		if err != nil {
			return nil, fmt.Errorf("connecting to postgres: %w", err)
		}
		log.Info().Msg("Using Postgres results store")
	default:
		path := dsn
		if path == "" {
			path = ":memory:"
		}
		db, err = gorm.Open(sqlite.Open(path), cfg)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite %q: %w", path, err)
		}
		if path == ":memory:" {
			// every pooled connection would get its own empty database
			if sqlDB, err := db.DB(); err == nil {
				sqlDB.SetMaxOpenConns(1)
			}
		}
		for _, pragma := range []string{
			"PRAGMA journal_mode = WAL;",
			"PRAGMA synchronous = NORMAL;",
		} {
			if err := db.Exec(pragma).Error; err != nil {
				return nil, fmt.Errorf("error setting PRAGMA: %w", err)
			}
		}
		log.Info().Str("path", path).Msg("Using SQLite results store")
	}

	if err := db.AutoMigrate(&SessionResult{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	return &Store{db: db, log: log}, nil
}

// Record inserts r. Recording the same session twice is an error.
func (s *Store) Record(ctx context.Context, r SessionResult) error {
	if s.db == nil {
		return ErrClosed
	}
	if err := s.db.WithContext(ctx).Create(&r).Error; err != nil {
		return fmt.Errorf("recording session %s: %w", r.SessionID, err)
	}
	s.log.Debug().
		Str("session", r.SessionID).
		Str("blueprint", r.Blueprint).
		Int64("durationMs", r.DurationMs).
		Msg("Recorded session")
	return nil
}

// Recent returns up to limit results, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]SessionResult, error) {
	if s.db == nil {
		return nil, ErrClosed
	}
	var out []SessionResult
	q := s.db.WithContext(ctx).Order("completed_at desc").Order("id desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Best returns the fastest completion recorded for blueprint.
func (s *Store) Best(ctx context.Context, blueprint string) (SessionResult, bool, error) {
	if s.db == nil {
		return SessionResult{}, false, ErrClosed
	}
	var out []SessionResult
	err := s.db.WithContext(ctx).
		Where("blueprint = ?", blueprint).
		Order("duration_ms asc").
		Limit(1).
		Find(&out).Error
	if err != nil {
		return SessionResult{}, false, err
	}
	if len(out) == 0 {
		return SessionResult{}, false, nil
	}
	return out[0], true, nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	s.db = nil
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
